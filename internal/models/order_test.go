package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusOutForDelivery, true},
		{OrderStatusOutForDelivery, OrderStatusDelivered, true},
		{OrderStatusDelivered, OrderStatusReturned, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusCancelled, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusReturned, OrderStatusDelivered, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.True(t, OrderStatusReturned.Terminal())
	assert.False(t, OrderStatusDelivered.Terminal())
	assert.False(t, OrderStatusPending.Terminal())
}

func TestParseOrderStatus(t *testing.T) {
	for _, s := range OrderStatuses {
		got, err := ParseOrderStatus(string(s))
		assert.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseOrderStatus("processing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid order status")
}

func TestCancellableStatuses(t *testing.T) {
	assert.Equal(t, []OrderStatus{OrderStatusPending, OrderStatusConfirmed}, CancellableStatuses())
}

func TestFormatOrderNumber(t *testing.T) {
	assert.Equal(t, "SH2024001", FormatOrderNumber(2024, 1))
	assert.Equal(t, "SH2024042", FormatOrderNumber(2024, 42))
	assert.Equal(t, "SH20241234", FormatOrderNumber(2024, 1234))
}

func TestNewPage(t *testing.T) {
	page := NewPage([]int{1, 2}, 25, PageRequest{Page: 3, Limit: 10})
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, 3, page.CurrentPage)

	beyond := NewPage[int](nil, 25, PageRequest{Page: 9, Limit: 10})
	assert.NotNil(t, beyond.Items)
	assert.Empty(t, beyond.Items)
	assert.Equal(t, 3, beyond.TotalPages)

	empty := NewPage[int](nil, 0, PageRequest{Page: 1, Limit: 10})
	assert.Equal(t, 0, empty.TotalPages)
}

func TestPageRequest_Normalize(t *testing.T) {
	req := PageRequest{Page: 0, Limit: 0}.Normalize(12)
	assert.Equal(t, PageRequest{Page: 1, Limit: 12}, req)

	offset, ok := req.Offset()
	assert.True(t, ok)
	assert.Equal(t, 0, offset)

	offset, ok = PageRequest{Page: 3, Limit: 12}.Offset()
	assert.True(t, ok)
	assert.Equal(t, 24, offset)

	assert.Equal(t, MaxPageLimit, PageRequest{Page: 1, Limit: 1000000}.Normalize(12).Limit)
}

func TestPageRequest_OffsetOverflow(t *testing.T) {
	_, ok := PageRequest{Page: 1 << 62, Limit: 12}.Offset()
	assert.False(t, ok)

	_, ok = PageRequest{Page: math.MaxInt, Limit: MaxPageLimit}.Offset()
	assert.False(t, ok)
}

func TestNewSessionUser_AllowList(t *testing.T) {
	u := &User{ID: "u1", Name: "John", Email: "john@example.com", Password: "hash", IsActive: true, LoginCount: 3}
	s := NewSessionUser(u, u.CreatedAt)
	assert.Equal(t, "u1", s.ID)
	assert.Equal(t, DefaultProfileImage, s.ProfileImage)
	assert.Equal(t, 3, s.LoginCount)
	assert.True(t, s.IsActive)
}
