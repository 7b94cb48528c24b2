package models

import "time"

// OrderStatus represents all possible states of a canteen order
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPreparing OrderStatus = "Preparing"
	StatusReady     OrderStatus = "Ready"
	StatusCompleted OrderStatus = "Completed"
	StatusCancelled OrderStatus = "Cancelled"
)

// PaymentStatus values tracked on an order. No gateway integration —
// an admin flips the status by hand.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentFailed  = "failed"
)

// Order is the canteen order row. Items is the submitted line-item
// document stored verbatim as JSON text on the row itself — there is
// no child table, and entries the stock logic skipped stay in the
// payload untouched.
type Order struct {
	ID              uint        `json:"id" gorm:"primaryKey"`
	UserID          *uint       `json:"user_id" gorm:"index"` // nil for admin-created orders
	Fullname        string      `json:"fullname"`
	Contact         string      `json:"contact"`
	Location        string      `json:"location"`
	Items           string      `json:"items" gorm:"type:text"`
	Total           float64     `json:"total"`
	Status          OrderStatus `json:"status" gorm:"not null;default:'Pending';index"`
	IDProof         string      `json:"id_proof,omitempty"`
	PaymentMethod   string      `json:"payment_method" gorm:"default:'cash'"`
	PaymentStatus   string      `json:"payment_status" gorm:"default:'pending'"`
	PaymentIntentID string      `json:"payment_intent_id"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// LineItem is the in-memory shape of one entry of Order.Items.
// The reference to MenuItem.ID is soft: the item may have been
// deleted since the order was placed.
type LineItem struct {
	ID  uint `json:"id"`
	Qty int  `json:"qty"`
}
