package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusCanTransitionTo(t *testing.T) {
	testCases := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusProcessed, true},
		{OrderStatusProcessed, OrderStatusReady, true},
		{OrderStatusReady, OrderStatusShipped, true},
		{OrderStatusShipped, OrderStatusArrivedDubai, true},
		{OrderStatusShipped, OrderStatusArrivedBenghazi, true},
		{OrderStatusShipped, OrderStatusArrivedTobruk, true},
		{OrderStatusArrivedBenghazi, OrderStatusOutForDelivery, true},
		{OrderStatusOutForDelivery, OrderStatusDelivered, true},

		// no skipping stages
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusShipped, OrderStatusDelivered, false},
		{OrderStatusArrivedDubai, OrderStatusArrivedBenghazi, false},

		// no going backwards
		{OrderStatusShipped, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusOutForDelivery, false},

		// cancellation from any non-terminal state only
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusOutForDelivery, OrderStatusCancelled, true},
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.False(t, OrderStatusPending.Terminal())
	assert.False(t, OrderStatusOutForDelivery.Terminal())
}

func TestOrderStatusValid(t *testing.T) {
	assert.True(t, OrderStatusArrivedTobruk.Valid())
	assert.False(t, OrderStatus("paid").Valid())
	assert.False(t, OrderStatus("").Valid())
}
