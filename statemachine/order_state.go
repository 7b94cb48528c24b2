package statemachine

import (
	"errors"

	"canteen-api/models"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string // "admin", "customer"
}

// validTransitions is the authoritative state machine definition.
// No transition re-enters Pending: once an order leaves Pending its
// stock accounting is closed and must not be re-armed.
var validTransitions = []Transition{
	// Admin moves a fresh order through the kitchen
	{From: models.StatusPending, To: models.StatusPreparing, Actor: "admin"},
	{From: models.StatusPending, To: models.StatusReady, Actor: "admin"},
	{From: models.StatusPending, To: models.StatusCompleted, Actor: "admin"},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: "admin"},
	{From: models.StatusPending, To: models.StatusCancelled, Actor: "customer"},
	// In-progress orders keep moving forward
	{From: models.StatusPreparing, To: models.StatusReady, Actor: "admin"},
	{From: models.StatusPreparing, To: models.StatusCompleted, Actor: "admin"},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: "admin"},
	{From: models.StatusReady, To: models.StatusCompleted, Actor: "admin"},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: "admin"},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// IsStockMutable reports whether an order in the given status may
// still have stock-affecting edits or cancellation applied to it.
func IsStockMutable(status models.OrderStatus) bool {
	return status == models.StatusPending
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor string) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " -> " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
