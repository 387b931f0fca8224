package services_test

import (
	"context"
	"sync"
	"testing"

	"sneakerhead/internal/config"
	"sneakerhead/internal/database"
	"sneakerhead/internal/models"
	"sneakerhead/internal/repositories"
	"sneakerhead/internal/services"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// recordingPublisher captures published events.
type recordingPublisher struct {
	mu     sync.Mutex
	keys   []string
	events []services.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	if ev, ok := payload.(services.OrderEvent); ok {
		p.events = append(p.events, ev)
	}
	return p.err
}

type fixture struct {
	t         *testing.T
	ctx       context.Context
	db        *gorm.DB
	store     *repositories.Store
	publisher *recordingPublisher
	cart      *services.CartService
	wishlist  *services.WishlistService
	checkout  *services.CheckoutService
	orders    *services.OrderService
}

func testConfig() *config.Config {
	return &config.Config{
		CartMaxQuantity:  10,
		TaxRate:          0.10,
		FreeShippingOver: 500,
		ShippingFee:      10,
		CatalogPageSize:  12,
		AdminPageSize:    10,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	cfg := testConfig()
	store := repositories.NewStore(db)
	pub := &recordingPublisher{}
	log := zap.NewNop()
	cart := services.NewCartService(store, cfg.CartMaxQuantity, log)
	f := &fixture{
		t:         t,
		ctx:       context.Background(),
		db:        db,
		store:     store,
		publisher: pub,
		cart:      cart,
		wishlist:  services.NewWishlistService(store, cart),
		checkout:  services.NewCheckoutService(store, services.NewPricing(cfg), pub, log),
		orders:    services.NewOrderService(store, pub, cfg.AdminPageSize, log),
	}
	f.category("Running", true)
	return f
}

func (f *fixture) category(name string, active bool) *models.Category {
	f.t.Helper()
	c := &models.Category{Name: name, Description: name + " shoes", IsActive: active}
	require.NoError(f.t, f.store.Categories.Create(f.ctx, c))
	return c
}

func (f *fixture) product(name string, price float64, stock int) *models.Product {
	f.t.Helper()
	p := &models.Product{Name: name, Brand: "Nike", Category: "Running", Price: price, Stock: stock, IsActive: true}
	require.NoError(f.t, f.store.Products.Create(f.ctx, p))
	return p
}

func (f *fixture) address(userID string, isDefault bool) *models.Address {
	f.t.Helper()
	a := &models.Address{
		UserID:       userID,
		Name:         "Jane Doe",
		Phone:        "+15551234567",
		AddressLine1: "1 Main St",
		City:         "Springfield",
		State:        "IL",
		ZipCode:      "62701",
		Country:      "US",
		IsDefault:    isDefault,
	}
	require.NoError(f.t, f.store.Addresses.Create(f.ctx, a))
	return a
}

func (f *fixture) stock(productID string) int {
	f.t.Helper()
	p, err := f.store.Products.GetByID(f.ctx, productID)
	require.NoError(f.t, err)
	return p.Stock
}

func (f *fixture) orderCount() int64 {
	f.t.Helper()
	stats, err := f.store.Orders.Stats(f.ctx)
	require.NoError(f.t, err)
	return stats.Total
}

// placeOrder fills the cart with qty units of product and checks out.
func (f *fixture) placeOrder(userID string, product *models.Product, qty int) *models.Order {
	f.t.Helper()
	_, err := f.cart.Add(f.ctx, userID, product.ID, qty)
	require.NoError(f.t, err)
	addr := f.address(userID, true)
	order, err := f.checkout.PlaceOrder(f.ctx, userID, services.PlaceOrderInput{AddressID: addr.ID})
	require.NoError(f.t, err)
	return order
}
