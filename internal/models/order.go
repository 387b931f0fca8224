package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderStatus is the lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusReturned       OrderStatus = "returned"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusShipped,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusReturned,
}

// orderTransitions is the legal move table. Statuses missing as keys are terminal.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:        {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:      {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:        {OrderStatusOutForDelivery},
	OrderStatusOutForDelivery: {OrderStatusDelivered},
	OrderStatusDelivered:      {OrderStatusReturned},
}

// ParseOrderStatus validates s against the known statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if !status.Valid() {
		return "", fmt.Errorf("invalid order status: %s", s)
	}
	return status, nil
}

// Valid reports whether s is one of the seven statuses.
func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is legal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Cancellable reports whether an order in status s may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return s.CanTransitionTo(OrderStatusCancelled)
}

// Terminal reports whether no transition leaves s.
func (s OrderStatus) Terminal() bool {
	return len(orderTransitions[s]) == 0
}

// CancellableStatuses are the statuses from which cancellation is legal.
func CancellableStatuses() []OrderStatus {
	var out []OrderStatus
	for _, s := range OrderStatuses {
		if s.Cancellable() {
			out = append(out, s)
		}
	}
	return out
}

// OrderItem is a snapshot of one purchased line, decoupled from the live product.
type OrderItem struct {
	ID           string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID      string  `json:"order_id" gorm:"type:varchar(36);index"`
	ProductID    string  `json:"product_id" gorm:"type:varchar(36);index"`
	ProductName  string  `json:"product_name"`
	ProductImage string  `json:"product_image"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"` // Unit price at the time of order
	Total        float64 `json:"total"`
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// Order represents a placed customer order.
type Order struct {
	ID              string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderNumber     string          `json:"order_number" gorm:"uniqueIndex;type:varchar(32)"`
	UserID          string          `json:"user_id" gorm:"type:varchar(36);index"`
	Items           []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress ShippingAddress `json:"shipping_address" gorm:"embedded;embeddedPrefix:shipping_"`
	Subtotal        float64         `json:"subtotal"`
	Tax             float64         `json:"tax"`
	Shipping        float64         `json:"shipping"`
	Discount        float64         `json:"discount"`
	Total           float64         `json:"total"`
	PaymentMethod   string          `json:"payment_method" gorm:"type:varchar(16)"`
	Status          OrderStatus     `json:"status" gorm:"type:varchar(32);index"`
	CancelReason    string          `json:"cancel_reason,omitempty"`
	ReturnReason    string          `json:"return_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	ReturnedAt      *time.Time      `json:"returned_at,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// OrderSequence is the durable per-year counter behind order numbers.
type OrderSequence struct {
	Year  int `gorm:"primaryKey;autoIncrement:false"`
	Value int
}

// FormatOrderNumber renders SH<year><seq>, seq zero-padded to three digits.
func FormatOrderNumber(year, seq int) string {
	return fmt.Sprintf("SH%d%03d", year, seq)
}

// Order listing sort keys.
const (
	OrderSortDate   = "date"
	OrderSortTotal  = "total"
	OrderSortStatus = "status"
)

// OrderFilter drives admin and per-user order listings.
type OrderFilter struct {
	UserID string // empty lists every user's orders
	Search string
	Status OrderStatus
	SortBy string
}

// OrderStats summarises orders for the admin dashboard.
type OrderStats struct {
	Total        int64                 `json:"total"`
	ByStatus     map[OrderStatus]int64 `json:"by_status"`
	TotalRevenue float64               `json:"total_revenue"` // Sum of delivered order totals
}
