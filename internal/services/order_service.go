package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"sneakerhead/internal/models"
	"sneakerhead/internal/repositories"

	"go.uber.org/zap"
)

const recentOrdersLimit = 5

// UpdateStatusInput is the admin status form.
type UpdateStatusInput struct {
	Status  string `json:"status" form:"status"`
	Reason  string `json:"reason" form:"reason"`
	Restock bool   `json:"restock" form:"restock"`
}

// AdminOrderDetail is an order with its customer and the live products behind each line.
type AdminOrderDetail struct {
	Order    *models.Order              `json:"order"`
	Customer *models.User               `json:"customer"`
	Products map[string]*models.Product `json:"products"`
}

// OrderService handles business logic for placed orders.
type OrderService struct {
	store     *repositories.Store
	publisher EventPublisher
	log       *zap.Logger
	pageSize  int
	now       func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(store *repositories.Store, publisher EventPublisher, pageSize int, log *zap.Logger) *OrderService {
	return &OrderService{store: store, publisher: publisher, log: log, pageSize: pageSize, now: time.Now}
}

func orderNotFound(err error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return ErrOrderNotFound
	}
	return err
}

// ListForUser pages over one user's orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID string, filter models.OrderFilter, req models.PageRequest) (models.Page[models.Order], error) {
	filter.UserID = userID
	return s.list(ctx, filter, req)
}

// AdminList pages over every order.
func (s *OrderService) AdminList(ctx context.Context, filter models.OrderFilter, req models.PageRequest) (models.Page[models.Order], error) {
	filter.UserID = ""
	return s.list(ctx, filter, req)
}

func (s *OrderService) list(ctx context.Context, filter models.OrderFilter, req models.PageRequest) (models.Page[models.Order], error) {
	req = req.Normalize(s.pageSize)
	filter.Search = strings.TrimSpace(filter.Search)
	if filter.Status != "" && !filter.Status.Valid() {
		return models.Page[models.Order]{}, ErrInvalidStatus
	}
	orders, total, err := s.store.Orders.List(ctx, filter, req)
	if err != nil {
		return models.Page[models.Order]{}, err
	}
	return models.NewPage(orders, total, req), nil
}

// GetForUser returns an order only to its owner.
func (s *OrderService) GetForUser(ctx context.Context, userID, id string) (*models.Order, error) {
	order, err := s.store.Orders.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, orderNotFound(err)
	}
	return order, nil
}

// Recent returns the user's last few orders.
func (s *OrderService) Recent(ctx context.Context, userID string) ([]models.Order, error) {
	return s.store.Orders.Recent(ctx, userID, recentOrdersLimit)
}

// CountForUser is the number of orders a user has placed.
func (s *OrderService) CountForUser(ctx context.Context, userID string) (int64, error) {
	return s.store.Orders.CountByUser(ctx, userID)
}

// Cancel cancels a pending or confirmed order and puts its stock back.
func (s *OrderService) Cancel(ctx context.Context, userID, id, reason string) (*models.Order, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "Cancelled by customer"
	}
	return s.transition(ctx, userID, id, models.OrderStatusCancelled, reason, true)
}

// Return files a return on a delivered order. Stock stays as is.
func (s *OrderService) Return(ctx context.Context, userID, id, reason string) (*models.Order, error) {
	reason = strings.TrimSpace(reason)
	order, err := s.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusDelivered {
		return nil, ErrOrderNotReturnable
	}
	if reason == "" {
		return nil, ErrReturnReasonRequired
	}
	return s.transition(ctx, userID, id, models.OrderStatusReturned, reason, false)
}

// AdminGet returns the order with its customer and live products.
func (s *OrderService) AdminGet(ctx context.Context, id string) (*AdminOrderDetail, error) {
	order, err := s.store.Orders.GetByID(ctx, id)
	if err != nil {
		return nil, orderNotFound(err)
	}
	detail := &AdminOrderDetail{Order: order, Products: make(map[string]*models.Product, len(order.Items))}
	if customer, err := s.store.Users.GetByID(ctx, order.UserID); err == nil {
		detail.Customer = customer
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}
	ids := make([]string, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.store.Products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for id, p := range products {
		detail.Products[id] = &p
	}
	return detail, nil
}

// UpdateStatus moves an order along the lifecycle on behalf of an admin.
// Cancelling restores stock; a return needs a reason and restores stock only
// when Restock is set.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, in UpdateStatusInput) (*models.Order, error) {
	status, err := models.ParseOrderStatus(strings.TrimSpace(in.Status))
	if err != nil {
		return nil, ErrInvalidStatus
	}
	reason := strings.TrimSpace(in.Reason)
	if status == models.OrderStatusReturned && reason == "" {
		return nil, ErrReturnReasonRequired
	}
	restock := status == models.OrderStatusCancelled || (status == models.OrderStatusReturned && in.Restock)
	return s.transition(ctx, "", id, status, reason, restock)
}

// Stats aggregates order counts and delivered revenue.
func (s *OrderService) Stats(ctx context.Context) (*models.OrderStats, error) {
	return s.store.Orders.Stats(ctx)
}

func transitionError(from, to models.OrderStatus) error {
	switch to {
	case models.OrderStatusCancelled:
		return ErrOrderNotCancellable
	case models.OrderStatusReturned:
		if from != models.OrderStatusDelivered {
			return ErrOrderNotReturnable
		}
	}
	return ErrInvalidTransition
}

func statusUpdates(to models.OrderStatus, reason string, at time.Time) map[string]interface{} {
	updates := map[string]interface{}{"status": to}
	switch to {
	case models.OrderStatusDelivered:
		updates["delivered_at"] = at
	case models.OrderStatusCancelled:
		updates["cancelled_at"] = at
		updates["cancel_reason"] = reason
	case models.OrderStatusReturned:
		updates["returned_at"] = at
		updates["return_reason"] = reason
	}
	return updates
}

// transition applies one lifecycle move inside a transaction. The status
// update is conditional on the status read in the same transaction, so a
// concurrent move makes this one fail instead of applying twice. An empty
// userID skips the ownership check.
func (s *OrderService) transition(ctx context.Context, userID, id string, to models.OrderStatus, reason string, restock bool) (*models.Order, error) {
	now := s.now()
	var (
		order    *models.Order
		previous models.OrderStatus
	)
	err := s.store.Transaction(ctx, func(tx *repositories.Store) error {
		var err error
		if userID != "" {
			order, err = tx.Orders.GetForUser(ctx, id, userID)
		} else {
			order, err = tx.Orders.GetByID(ctx, id)
		}
		if err != nil {
			return orderNotFound(err)
		}
		previous = order.Status
		if !previous.CanTransitionTo(to) {
			return transitionError(previous, to)
		}

		err = tx.Orders.UpdateStatus(ctx, order.ID, []models.OrderStatus{previous}, statusUpdates(to, reason, now))
		if errors.Is(err, repositories.ErrConflict) {
			return transitionError(previous, to)
		}
		if err != nil {
			return err
		}

		if restock {
			for _, item := range order.Items {
				err := tx.Products.RestoreStock(ctx, item.ProductID, item.Quantity)
				if errors.Is(err, repositories.ErrNotFound) {
					s.log.Warn("product vanished before restock",
						zap.String("order_id", order.ID),
						zap.String("product_id", item.ProductID),
					)
					continue
				}
				if err != nil {
					return err
				}
			}
		}

		order, err = tx.Orders.GetByID(ctx, order.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order status changed",
		zap.String("order_id", order.ID),
		zap.String("from", string(previous)),
		zap.String("to", string(to)),
	)
	publishEvent(ctx, s.publisher, s.log, EventOrderStatusChanged, newOrderEvent(order, previous, reason, now))
	return order, nil
}
