package services

import (
	"context"
	"errors"
	"fmt"

	"sneakerhead/internal/models"
	"sneakerhead/internal/repositories"
	"sneakerhead/internal/validation"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CartSummary is returned after every cart mutation.
type CartSummary struct {
	CartCount    int      `json:"cart_count"`
	CartTotal    float64  `json:"cart_total"`
	ItemSubtotal *float64 `json:"item_subtotal,omitempty"`
}

// CartService enforces stock and per-product caps on top of the cart store.
type CartService struct {
	store  *repositories.Store
	maxQty int
	log    *zap.Logger
}

func NewCartService(store *repositories.Store, maxQty int, log *zap.Logger) *CartService {
	return &CartService{store: store, maxQty: maxQty, log: log}
}

// loadSellable fetches an active product whose category is also active.
func loadSellable(ctx context.Context, tx *repositories.Store, productID string) (*models.Product, error) {
	product, err := tx.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFound(err)
	}
	if !product.IsActive {
		return nil, &StockError{ProductID: product.ID, ProductName: product.Name, Err: ErrProductUnavailable}
	}
	category, err := tx.Categories.GetByName(ctx, product.Category)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	if category == nil || !category.IsActive {
		return nil, ErrCategoryUnavailable
	}
	return product, nil
}

func (s *CartService) checkQuantity(product *models.Product, qty int) error {
	if !product.InStock || product.Stock <= 0 {
		return &StockError{ProductID: product.ID, ProductName: product.Name, Err: ErrInsufficientStock, Msg: "Product is out of stock"}
	}
	if qty > product.Stock {
		return &StockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   product.Stock,
			Err:         ErrInsufficientStock,
			Msg:         fmt.Sprintf("Only %d items available in stock", product.Stock),
		}
	}
	if qty > s.maxQty {
		return &StockError{
			ProductID:   product.ID,
			ProductName: product.Name,
			Available:   s.maxQty,
			Err:         ErrQuantityLimit,
			Msg:         fmt.Sprintf("Maximum %d items allowed per product", s.maxQty),
		}
	}
	return nil
}

// Add puts qty more units of a product into the cart and drops it from the wishlist.
func (s *CartService) Add(ctx context.Context, userID, productID string, qty int) (*CartSummary, error) {
	if qty < 1 {
		return nil, validation.NewError("quantity", "Quantity must be at least 1")
	}
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		product, err := loadSellable(ctx, tx, productID)
		if err != nil {
			return err
		}
		existing := 0
		if item, err := tx.Carts.GetItem(ctx, userID, productID); err == nil {
			existing = item.Quantity
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		if err := s.checkQuantity(product, existing+qty); err != nil {
			return err
		}
		if _, err := tx.Carts.AddItem(ctx, userID, productID, qty); err != nil {
			return err
		}
		_, err = tx.Wishlists.Remove(ctx, userID, productID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Summary(ctx, userID)
}

// Update sets the quantity of a line; zero removes it.
func (s *CartService) Update(ctx context.Context, userID, productID string, qty int) (*CartSummary, error) {
	if qty < 0 {
		return nil, validation.NewError("quantity", "Invalid quantity")
	}
	product, err := s.store.Products.GetByID(ctx, productID)
	if err != nil {
		return nil, notFound(err)
	}
	if qty > 0 {
		if err := s.checkQuantity(product, qty); err != nil {
			return nil, err
		}
	}
	if _, err := s.store.Carts.UpdateQuantity(ctx, userID, productID, qty); err != nil {
		return nil, notFound(err)
	}
	summary, err := s.Summary(ctx, userID)
	if err != nil {
		return nil, err
	}
	sub := LineTotal(product.Price, qty)
	summary.ItemSubtotal = &sub
	return summary, nil
}

// Remove deletes a single line.
func (s *CartService) Remove(ctx context.Context, userID, productID string) (*CartSummary, error) {
	if err := s.store.Carts.RemoveItem(ctx, userID, productID); err != nil {
		return nil, notFound(err)
	}
	return s.Summary(ctx, userID)
}

// Clear empties the cart.
func (s *CartService) Clear(ctx context.Context, userID string) error {
	_, err := s.store.Carts.Clear(ctx, userID)
	return err
}

// Count is the number of units in the cart.
func (s *CartService) Count(ctx context.Context, userID string) (int, error) {
	return s.store.Carts.Count(ctx, userID)
}

// Summary reports the unit count and the total over active products.
func (s *CartService) Summary(ctx context.Context, userID string) (*CartSummary, error) {
	count, err := s.store.Carts.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	total, err := s.store.Carts.Total(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &CartSummary{CartCount: count, CartTotal: decimal.NewFromFloat(total).Round(2).InexactFloat64()}, nil
}

// View joins every cart line with its live product. Lines whose product no
// longer exists are skipped.
func (s *CartService) View(ctx context.Context, userID string) (*models.CartView, error) {
	return cartView(ctx, s.store, userID)
}

func cartView(ctx context.Context, store *repositories.Store, userID string) (*models.CartView, error) {
	items, err := store.Carts.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ProductID)
	}
	products, err := store.Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	view := &models.CartView{Items: make([]models.CartLine, 0, len(items))}
	total := decimal.Zero
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			view.MissingProductIDs = append(view.MissingProductIDs, item.ProductID)
			continue
		}
		line := models.CartLine{
			CartItem:    item,
			Product:     &product,
			Subtotal:    LineTotal(product.Price, item.Quantity),
			IsAvailable: product.Purchasable(item.Quantity),
		}
		view.Items = append(view.Items, line)
		view.CartCount += item.Quantity
		if product.IsActive {
			total = total.Add(decimal.NewFromFloat(line.Subtotal))
		}
	}
	view.CartTotal = total.Round(2).InexactFloat64()
	return view, nil
}
