package inventory

import (
	"encoding/json"
	"errors"
	"log"

	"canteen-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// withRowLock adds SELECT ... FOR UPDATE where the dialect supports
// it. sqlite has no FOR UPDATE in its grammar and serializes writers
// at the database level instead.
func withRowLock(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// AdjustStock applies delta to a menu item's stock count inside the
// caller's transaction. The row is read under a row lock so two
// concurrent orders cannot both deduct from the same stale quantity.
//
// A missing item is a no-op: line items hold soft references and the
// menu item may have been deleted since the order was placed. The
// computed quantity clamps at zero. Availability follows the stock
// level — an item is marked unavailable when it hits zero and
// available again when it comes back from zero.
func AdjustStock(tx *gorm.DB, itemID uint, delta int) error {
	var item models.MenuItem
	err := withRowLock(tx).First(&item, itemID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	newQty := item.Quantity + delta
	if newQty < 0 {
		newQty = 0
	}

	updates := map[string]interface{}{"quantity": newQty}
	if newQty == 0 {
		updates["is_available"] = false
	} else if item.Quantity == 0 && newQty > 0 {
		updates["is_available"] = true
	}
	return tx.Model(&item).Updates(updates).Error
}

// ParseLineItems decodes an order's stored items payload. Parsing is
// deliberately lenient: a payload that is not a JSON array at all
// yields no line items, and entries that are not {id, qty} objects are
// skipped, so a damaged payload never blocks cancellation or editing.
func ParseLineItems(raw string) []models.LineItem {
	if raw == "" {
		return nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Printf("[WARNING] Could not parse order items for stock reconciliation: %v", err)
		return nil
	}
	var items []models.LineItem
	for _, entry := range entries {
		var li models.LineItem
		if err := json.Unmarshal(entry, &li); err != nil {
			continue
		}
		items = append(items, li)
	}
	return items
}

// deductLineItems removes stock for every usable line item. Entries
// with a missing id or non-positive qty are skipped without error, and
// a failed adjustment is logged and swallowed — inventory accuracy is
// best effort relative to the order row itself.
func deductLineItems(tx *gorm.DB, items []models.LineItem) {
	for _, li := range items {
		if li.ID == 0 || li.Qty <= 0 {
			continue
		}
		if err := AdjustStock(tx, li.ID, -li.Qty); err != nil {
			log.Printf("[WARNING] Could not update stock for item %d: %v", li.ID, err)
		}
	}
}

// restoreLineItems gives back stock for every usable line item, with
// the same skip and swallow rules as deductLineItems.
func restoreLineItems(tx *gorm.DB, items []models.LineItem) {
	for _, li := range items {
		if li.ID == 0 || li.Qty <= 0 {
			continue
		}
		if err := AdjustStock(tx, li.ID, li.Qty); err != nil {
			log.Printf("[WARNING] Could not restore stock for item %d: %v", li.ID, err)
		}
	}
}
