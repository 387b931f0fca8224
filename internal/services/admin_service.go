package services

import (
	"context"
	"strings"

	"sneakerhead/internal/models"
	"sneakerhead/internal/repositories"

	"go.uber.org/zap"
)

// Counter is a total and the active part of it.
type Counter struct {
	Total  int64 `json:"total"`
	Active int64 `json:"active"`
}

// Dashboard is the admin landing summary.
type Dashboard struct {
	Users        Counter            `json:"users"`
	Products     Counter            `json:"products"`
	Categories   Counter            `json:"categories"`
	Orders       *models.OrderStats `json:"orders"`
	RecentOrders []models.Order     `json:"recent_orders"`
}

// AdminService backs the back-office views that span several repositories.
type AdminService struct {
	store *repositories.Store
	log   *zap.Logger
}

func NewAdminService(store *repositories.Store, log *zap.Logger) *AdminService {
	return &AdminService{store: store, log: log}
}

// Dashboard counts customers, products, categories and orders.
func (s *AdminService) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	var err error

	if d.Users.Total, d.Users.Active, err = s.store.Users.CountCustomers(ctx); err != nil {
		return nil, err
	}
	if d.Products.Total, d.Products.Active, err = s.store.Products.Count(ctx); err != nil {
		return nil, err
	}
	if d.Categories.Total, err = s.store.Categories.Count(ctx); err != nil {
		return nil, err
	}
	active, err := s.store.Categories.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	d.Categories.Active = int64(len(active))

	if d.Orders, err = s.store.Orders.Stats(ctx); err != nil {
		return nil, err
	}
	recent, _, err := s.store.Orders.List(ctx, models.OrderFilter{}, models.PageRequest{Page: 1, Limit: recentOrdersLimit})
	if err != nil {
		return nil, err
	}
	d.RecentOrders = recent
	return &d, nil
}

// ListUsers pages over customer accounts.
func (s *AdminService) ListUsers(ctx context.Context, search string, req models.PageRequest, pageSize int) (models.Page[models.User], error) {
	req = req.Normalize(pageSize)
	users, total, err := s.store.Users.ListCustomers(ctx, strings.TrimSpace(search), req)
	if err != nil {
		return models.Page[models.User]{}, err
	}
	return models.NewPage(users, total, req), nil
}

// ToggleUser activates or deactivates a customer account.
func (s *AdminService) ToggleUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.store.Users.ToggleActive(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	s.log.Info("user status toggled", zap.String("user_id", user.ID), zap.Bool("is_active", user.IsActive))
	return user, nil
}
