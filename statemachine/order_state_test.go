package statemachine

import (
	"testing"

	"canteen-api/models"
)

func TestCanTransitionValid(t *testing.T) {
	tests := []struct {
		from  models.OrderStatus
		to    models.OrderStatus
		actor string
	}{
		{models.StatusPending, models.StatusPreparing, "admin"},
		{models.StatusPending, models.StatusCancelled, "customer"},
		{models.StatusPreparing, models.StatusReady, "admin"},
		{models.StatusReady, models.StatusCompleted, "admin"},
	}

	for _, tt := range tests {
		if err := CanTransition(tt.from, tt.to, tt.actor); err != nil {
			t.Errorf("CanTransition(%s, %s, %s) = %v, want nil", tt.from, tt.to, tt.actor, err)
		}
	}
}

func TestCanTransitionInvalid(t *testing.T) {
	tests := []struct {
		from  models.OrderStatus
		to    models.OrderStatus
		actor string
	}{
		{models.StatusCompleted, models.StatusPreparing, "admin"},
		{models.StatusCancelled, models.StatusPending, "admin"},
		{models.StatusPreparing, models.StatusCancelled, "customer"},
		{models.StatusPending, models.StatusPreparing, "customer"},
	}

	for _, tt := range tests {
		if err := CanTransition(tt.from, tt.to, tt.actor); err == nil {
			t.Errorf("CanTransition(%s, %s, %s) = nil, want error", tt.from, tt.to, tt.actor)
		}
	}
}

func TestNoTransitionReentersPending(t *testing.T) {
	for _, from := range []models.OrderStatus{
		models.StatusPreparing,
		models.StatusReady,
		models.StatusCompleted,
		models.StatusCancelled,
	} {
		for _, actor := range []string{"admin", "customer"} {
			if err := CanTransition(from, models.StatusPending, actor); err == nil {
				t.Errorf("CanTransition(%s, Pending, %s) = nil, want error", from, actor)
			}
		}
	}
}

func TestIsStockMutable(t *testing.T) {
	if !IsStockMutable(models.StatusPending) {
		t.Error("IsStockMutable(Pending) = false, want true")
	}
	for _, status := range []models.OrderStatus{
		models.StatusPreparing,
		models.StatusReady,
		models.StatusCompleted,
		models.StatusCancelled,
	} {
		if IsStockMutable(status) {
			t.Errorf("IsStockMutable(%s) = true, want false", status)
		}
	}
}

func TestValidTransitionsFromTerminalStates(t *testing.T) {
	if nexts := ValidTransitionsFrom(models.StatusCompleted); len(nexts) != 0 {
		t.Errorf("ValidTransitionsFrom(Completed) = %v, want empty", nexts)
	}
	if nexts := ValidTransitionsFrom(models.StatusCancelled); len(nexts) != 0 {
		t.Errorf("ValidTransitionsFrom(Cancelled) = %v, want empty", nexts)
	}
}
