package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"sneakerhead/internal/models"
	"sneakerhead/internal/repositories"
	"sneakerhead/internal/validation"

	"go.uber.org/zap"
)

// Accepted payment methods.
const (
	PaymentCOD  = "COD"
	PaymentCard = "CARD"
	PaymentUPI  = "UPI"
)

// PlaceOrderInput is the checkout form.
type PlaceOrderInput struct {
	AddressID     string `json:"address_id" form:"address_id"`
	PaymentMethod string `json:"payment_method" form:"payment_method"`
}

// CheckoutView is everything the checkout page shows before placing an order.
type CheckoutView struct {
	Items          []models.CartLine `json:"items"`
	CartCount      int               `json:"cart_count"`
	Addresses      []models.Address  `json:"addresses"`
	DefaultAddress *models.Address   `json:"default_address"`
	Totals         Totals            `json:"totals"`
}

// CheckoutService turns a cart into an order.
type CheckoutService struct {
	store     *repositories.Store
	pricing   Pricing
	publisher EventPublisher
	log       *zap.Logger
	now       func() time.Time
}

func NewCheckoutService(store *repositories.Store, pricing Pricing, publisher EventPublisher, log *zap.Logger) *CheckoutService {
	return &CheckoutService{store: store, pricing: pricing, publisher: publisher, log: log, now: time.Now}
}

// View previews the order. Every line must currently be purchasable.
func (s *CheckoutService) View(ctx context.Context, userID string) (*CheckoutView, error) {
	cart, err := cartView(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.MissingProductIDs) > 0 {
		return nil, &StockError{ProductID: cart.MissingProductIDs[0], Err: ErrProductUnavailable}
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	lines := make([]PricedLine, 0, len(cart.Items))
	for _, line := range cart.Items {
		if !line.IsAvailable {
			return nil, &StockError{ProductID: line.ProductID, ProductName: line.Product.Name, Err: ErrProductUnavailable}
		}
		lines = append(lines, PricedLine{Price: line.Product.Price, Quantity: line.Quantity})
	}

	addresses, err := s.store.Addresses.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	view := &CheckoutView{
		Items:     cart.Items,
		CartCount: cart.CartCount,
		Addresses: addresses,
		Totals:    s.pricing.Compute(lines),
	}
	for i := range addresses {
		if addresses[i].IsDefault {
			view.DefaultAddress = &addresses[i]
			break
		}
	}
	return view, nil
}

func normalizePaymentMethod(method string) (string, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	switch method {
	case "":
		return PaymentCOD, nil
	case PaymentCOD, PaymentCard, PaymentUPI:
		return method, nil
	default:
		return "", validation.NewError("payment_method", "Unsupported payment method")
	}
}

// PlaceOrder validates the cart against live stock, creates the order,
// decrements stock and clears the cart in one transaction. Any failure
// leaves every record untouched.
func (s *CheckoutService) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (*models.Order, error) {
	payment, err := normalizePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}

	var order *models.Order
	err = s.store.Transaction(ctx, func(tx *repositories.Store) error {
		items, err := tx.Carts.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		if in.AddressID == "" {
			return ErrInvalidAddress
		}
		address, err := tx.Addresses.GetForUser(ctx, in.AddressID, userID)
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInvalidAddress
		}
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(items))
		for _, item := range items {
			ids = append(ids, item.ProductID)
		}
		products, err := tx.Products.GetByIDs(ctx, ids)
		if err != nil {
			return err
		}

		orderItems := make([]models.OrderItem, 0, len(items))
		lines := make([]PricedLine, 0, len(items))
		for _, item := range items {
			p, ok := products[item.ProductID]
			if !ok || !p.IsActive || !p.InStock {
				return &StockError{ProductID: item.ProductID, ProductName: p.Name, Err: ErrProductUnavailable}
			}
			if p.Stock < item.Quantity {
				return &StockError{ProductID: p.ID, ProductName: p.Name, Available: p.Stock, Err: ErrInsufficientStock}
			}
			orderItems = append(orderItems, models.OrderItem{
				ProductID:    p.ID,
				ProductName:  p.Name,
				ProductImage: p.Image,
				Quantity:     item.Quantity,
				Price:        p.Price,
				Total:        LineTotal(p.Price, item.Quantity),
			})
			lines = append(lines, PricedLine{Price: p.Price, Quantity: item.Quantity})
		}
		totals := s.pricing.Compute(lines)

		year := s.now().Year()
		seq, err := tx.Orders.NextSequence(ctx, year)
		if err != nil {
			return err
		}
		order = &models.Order{
			OrderNumber:     models.FormatOrderNumber(year, seq),
			UserID:          userID,
			Items:           orderItems,
			ShippingAddress: address.Snapshot(),
			Subtotal:        totals.Subtotal,
			Tax:             totals.Tax,
			Shipping:        totals.Shipping,
			Discount:        totals.Discount,
			Total:           totals.Total,
			PaymentMethod:   payment,
			Status:          models.OrderStatusPending,
		}
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}

		for _, item := range orderItems {
			if err := tx.Products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, repositories.ErrConflict) {
					return &StockError{ProductID: item.ProductID, ProductName: item.ProductName, Err: ErrInsufficientStock}
				}
				return err
			}
		}

		_, err = tx.Carts.Clear(ctx, userID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.String("order_number", order.OrderNumber),
		zap.String("user_id", userID),
		zap.Float64("total", order.Total),
	)
	publishEvent(ctx, s.publisher, s.log, EventOrderCreated, newOrderEvent(order, "", "", s.now()))
	return order, nil
}

