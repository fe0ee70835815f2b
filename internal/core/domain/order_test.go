package domain

import "testing"

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderPending, OrderConfirmed, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderShipped, false},
		{OrderConfirmed, OrderShipped, true},
		{OrderConfirmed, OrderCancelled, true},
		{OrderConfirmed, OrderDelivered, false},
		{OrderShipped, OrderDelivered, true},
		{OrderShipped, OrderCancelled, false},
		{OrderDelivered, OrderPending, false},
		{OrderCancelled, OrderConfirmed, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Errorf("%s -> %s: got %v, want %v", tc.from, tc.to, got, tc.want)
		}
	}
}

func TestIdentity_HasRole(t *testing.T) {
	var nobody *Identity
	if nobody.HasRole(RoleAdmin) {
		t.Error("nil identity must have no roles")
	}

	i := &Identity{Roles: []string{RoleCustomer, RoleAdmin}}
	if !i.HasRole(RoleAdmin) || !i.HasRole(RoleCustomer) {
		t.Errorf("roles = %v", i.Roles)
	}
	if (&Identity{Roles: []string{RoleCustomer}}).HasRole(RoleAdmin) {
		t.Error("customer must not pass the admin check")
	}
}
