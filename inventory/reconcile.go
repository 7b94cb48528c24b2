package inventory

import (
	"encoding/json"
	"errors"

	"canteen-api/models"
	"canteen-api/statemachine"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PlaceOrderInput carries everything needed to create an order. Items
// is the raw submitted document; it is stored on the order verbatim,
// including entries the stock logic skips.
type PlaceOrderInput struct {
	UserID        *uint
	Fullname      string
	Contact       string
	Location      string
	Items         json.RawMessage
	Total         float64
	IDProof       string
	PaymentMethod string
	PaymentStatus string
}

// EditOrderFields is a partial update: only non-nil fields change.
type EditOrderFields struct {
	Fullname *string
	Contact  *string
	Location *string
	Items    json.RawMessage
	Total    *float64
	Status   *models.OrderStatus
}

func (f EditOrderFields) hasDetailChange() bool {
	return f.Fullname != nil || f.Contact != nil || f.Location != nil ||
		f.Items != nil || f.Total != nil
}

func (f EditOrderFields) empty() bool {
	return !f.hasDetailChange() && f.Status == nil
}

var validPaymentStatuses = map[string]bool{
	models.PaymentPending: true,
	models.PaymentPaid:    true,
	models.PaymentFailed:  true,
}

// PlaceOrder deducts stock for every usable line item and inserts the
// order row, all in one transaction. A failed insert rolls the
// deductions back; a failed per-item deduction never aborts the order.
func PlaceOrder(db *gorm.DB, in PlaceOrderInput) (*models.Order, error) {
	if in.Total < 0 {
		return nil, &ValidationError{Reason: "total cannot be negative"}
	}
	if in.PaymentStatus != "" && !validPaymentStatuses[in.PaymentStatus] {
		return nil, &ValidationError{Reason: "payment_status must be one of: pending, paid, failed"}
	}

	itemsDoc := string(in.Items)
	if itemsDoc == "" {
		itemsDoc = "[]"
	}
	method := in.PaymentMethod
	if method == "" {
		method = "cash"
	}
	payStatus := in.PaymentStatus
	if payStatus == "" {
		payStatus = models.PaymentPending
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		deductLineItems(tx, ParseLineItems(itemsDoc))

		order = models.Order{
			UserID:          in.UserID,
			Fullname:        in.Fullname,
			Contact:         in.Contact,
			Location:        in.Location,
			Items:           itemsDoc,
			Total:           in.Total,
			Status:          models.StatusPending,
			IDProof:         in.IDProof,
			PaymentMethod:   method,
			PaymentStatus:   payStatus,
			PaymentIntentID: uuid.NewString(),
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CancelOrder restores stock for every stored line item and deletes
// the order row. Only Pending orders can be cancelled; when a
// requesting user is given, the order must belong to them.
func CancelOrder(db *gorm.DB, orderID uint, requestingUserID *uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var order models.Order
		err := withRowLock(tx).First(&order, orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		if requestingUserID != nil && (order.UserID == nil || *order.UserID != *requestingUserID) {
			return ErrForbidden
		}
		if !statemachine.IsStockMutable(order.Status) {
			return &NotPendingError{Status: order.Status}
		}

		restoreLineItems(tx, ParseLineItems(order.Items))
		return tx.Delete(&order).Error
	})
}

// EditOrder applies a partial update to an order. Detail fields
// require the order to still be Pending. When the items document
// changes, stock for every old line item is restored before stock for
// every new line item is deducted, so resubmitting the same items is a
// net no-op. A status-only update touches no menu item row.
func EditOrder(db *gorm.DB, orderID uint, fields EditOrderFields, requestingUserID *uint) (*models.Order, error) {
	if fields.empty() {
		return nil, ErrNoFields
	}

	actor := "admin"
	if requestingUserID != nil {
		actor = "customer"
	}

	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		err := withRowLock(tx).First(&order, orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		if requestingUserID != nil && (order.UserID == nil || *order.UserID != *requestingUserID) {
			return ErrForbidden
		}
		if fields.hasDetailChange() && !statemachine.IsStockMutable(order.Status) {
			return &NotPendingError{Status: order.Status}
		}
		if fields.Status != nil && *fields.Status != order.Status {
			if err := statemachine.CanTransition(order.Status, *fields.Status, actor); err != nil {
				return &InvalidTransitionError{From: order.Status, To: *fields.Status, Reason: err.Error()}
			}
		}

		updates := map[string]interface{}{}
		if fields.Fullname != nil {
			updates["fullname"] = *fields.Fullname
		}
		if fields.Contact != nil {
			updates["contact"] = *fields.Contact
		}
		if fields.Location != nil {
			updates["location"] = *fields.Location
		}
		if fields.Items != nil {
			// Restoration precedes deduction so identical items net out.
			restoreLineItems(tx, ParseLineItems(order.Items))
			deductLineItems(tx, ParseLineItems(string(fields.Items)))
			updates["items"] = string(fields.Items)
		}
		if fields.Total != nil {
			updates["total"] = *fields.Total
		}
		if fields.Status != nil {
			updates["status"] = *fields.Status
		}

		if err := tx.Model(&order).Updates(updates).Error; err != nil {
			return err
		}
		return tx.First(&order, orderID).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// SetPaymentStatus records a manual payment status change on an order.
func SetPaymentStatus(db *gorm.DB, orderID uint, status string) (*models.Order, error) {
	if !validPaymentStatuses[status] {
		return nil, &ValidationError{Reason: "payment_status must be one of: pending, paid, failed"}
	}
	var order models.Order
	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.First(&order, orderID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return err
		}
		if err := tx.Model(&order).Update("payment_status", status).Error; err != nil {
			return err
		}
		return tx.First(&order, orderID).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}
