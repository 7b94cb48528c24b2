package handlers

import (
	"net/http"

	"canteen-api/config"
	"canteen-api/models"
	"canteen-api/statemachine"

	"github.com/gin-gonic/gin"
)

// GetMenu returns all menu items grouped the way the counter displays
// them (no auth needed)
func GetMenu(c *gin.Context) {
	var items []models.MenuItem
	query := config.DB.Order("category, name")

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.Query("available") == "true" {
		query = query.Where("is_available = ?", true)
	}

	query.Find(&items)
	c.JSON(http.StatusOK, gin.H{"count": len(items), "items": items})
}

// GetStateMachineInfo documents the order status lifecycle
func GetStateMachineInfo(c *gin.Context) {
	transitions := statemachine.GetAllTransitions()

	formatted := make([]gin.H, 0, len(transitions))
	for _, t := range transitions {
		formatted = append(formatted, gin.H{
			"from":  t.From,
			"to":    t.To,
			"actor": t.Actor,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"states": []models.OrderStatus{
			models.StatusPending,
			models.StatusPreparing,
			models.StatusReady,
			models.StatusCompleted,
			models.StatusCancelled,
		},
		"initial_state": models.StatusPending,
		"transitions":   formatted,
		"note":          "Stock-affecting edits and cancellation are only allowed while an order is Pending",
	})
}
