package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_Valid(t *testing.T) {
	for _, s := range []OrderStatus{
		OrderStatusPending,
		OrderStatusPaid,
		OrderStatusShipped,
		OrderStatusDelivered,
		OrderStatusCancelled,
	} {
		assert.True(t, s.Valid(), string(s))
	}

	assert.False(t, OrderStatus("").Valid())
	assert.False(t, OrderStatus("refunded").Valid())
	assert.False(t, OrderStatus("PENDING").Valid())
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     OrderStatus
		to       OrderStatus
		expected bool
	}{
		{OrderStatusPending, OrderStatusPaid, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusPaid, OrderStatusShipped, true},
		{OrderStatusPaid, OrderStatusCancelled, true},
		{OrderStatusPaid, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPaid, false},
		{OrderStatusPending, OrderStatusPending, true},
		{OrderStatusDelivered, OrderStatusDelivered, true},
		{OrderStatusPending, OrderStatus("bogus"), false},
		{OrderStatus("bogus"), OrderStatus("bogus"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestProductRequest_ApplyOverwritesEveryField(t *testing.T) {
	p := &Product{
		ID:          "keep-me",
		Name:        "Old",
		Description: "Old description",
		Price:       99.99,
		Category:    "Old category",
		Stock:       7,
		ImageURL:    "https://img.example.com/old.png",
	}

	req := &ProductRequest{Name: "New", Price: 5}
	req.Apply(p)

	assert.Equal(t, "keep-me", p.ID)
	assert.Equal(t, "New", p.Name)
	assert.Equal(t, "", p.Description)
	assert.Equal(t, 5.0, p.Price)
	assert.Equal(t, "", p.Category)
	assert.Equal(t, 0, p.Stock)
	assert.Equal(t, "", p.ImageURL)
}
