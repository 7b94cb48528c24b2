package inventory

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"canteen-api/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func placeInput(items string, total float64) PlaceOrderInput {
	return PlaceOrderInput{
		Fullname: "Asha Rao",
		Contact:  "9876543210",
		Location: "Block C",
		Items:    json.RawMessage(items),
		Total:    total,
	}
}

func TestPlaceOrderDeductsStock(t *testing.T) {
	db := newTestDB(t)
	item := seedMenuItem(t, db, 10)

	order, err := PlaceOrder(db, placeInput(fmt.Sprintf(`[{"id":%d,"qty":4}]`, item.ID), 320))
	require.NoError(t, err)
	require.NotZero(t, order.ID)
	require.Equal(t, models.StatusPending, order.Status)

	got := fetchItem(t, db, item.ID)
	require.Equal(t, 6, got.Quantity)
}

func TestPlaceOrderClampsOversizedQty(t *testing.T) {
	db := newTestDB(t)
	item := seedMenuItem(t, db, 3)

	_, err := PlaceOrder(db, placeInput(fmt.Sprintf(`[{"id":%d,"qty":8}]`, item.ID), 640))
	require.NoError(t, err)

	got := fetchItem(t, db, item.ID)
	require.Equal(t, 0, got.Quantity)
	require.False(t, got.IsAvailable)
}

func TestPlaceOrderDefaults(t *testing.T) {
	db := newTestDB(t)

	order, err := PlaceOrder(db, placeInput(`[]`, 0))
	require.NoError(t, err)
	require.Equal(t, "cash", order.PaymentMethod)
	require.Equal(t, models.PaymentPending, order.PaymentStatus)
	require.NotEmpty(t, order.PaymentIntentID)
}

func TestPlaceOrderSkipsUnknownItem(t *testing.T) {
	db := newTestDB(t)
	item := seedMenuItem(t, db, 5)

	payload := fmt.Sprintf(`[{"id":%d,"qty":2},{"id":9999,"qty":3}]`, item.ID)
	order, err := PlaceOrder(db, placeInput(payload, 200))
	require.NoError(t, err)

	// The unknown reference is skipped for stock purposes but the
	// submitted payload is stored untouched.
	require.JSONEq(t, payload, order.Items)
	require.Equal(t, 3, fetchItem(t, db, item.ID).Quantity)
}

func TestPlaceOrderSkipsInvalidEntries(t *testing.T) {
	db := newTestDB(t)
	item := seedMenuItem(t, db, 5)

	payload := fmt.Sprintf(`[{"id":%d,"qty":0},{"qty":2},{"id":%d,"qty":-1}]`, item.ID, item.ID)
	order, err := PlaceOrder(db, placeInput(payload, 0))
	require.NoError(t, err)
	require.JSONEq(t, payload, order.Items)
	require.Equal(t, 5, fetchItem(t, db, item.ID).Quantity)
}

func TestPlaceOrderValidation(t *testing.T) {
	db := newTestDB(t)

	var validation *ValidationError

	_, err := PlaceOrder(db, placeInput(`[]`, -5))
	require.ErrorAs(t, err, &validation)

	in := placeInput(`[]`, 0)
	in.PaymentStatus = "refunded"
	_, err = PlaceOrder(db, in)
	require.ErrorAs(t, err, &validation)
}

func TestPlaceOrderDuplicateLineItemsApplySequentially(t *testing.T) {
	db := newTestDB(t)
	item := seedMenuItem(t, db, 10)

	// Duplicates are not coalesced: each entry is its own locked
	// read-modify-write, so the net effect is the sum of deltas.
	payload := fmt.Sprintf(`[{"id":%d,"qty":3},{"id":%d,"qty":4}]`, item.ID, item.ID)
	_, err := PlaceOrder(db, placeInput(payload, 560))
	require.NoError(t, err)
	require.Equal(t, 3, fetchItem(t, db, item.ID).Quantity)
}

func TestCancelOrderRestoresStockAndDeletes(t *testing.T) {
	db := newTestDB(t)
	item := seedMenuItem(t, db, 5)

	order, err := PlaceOrder(db, placeInput(fmt.Sprintf(`[{"id":%d,"qty":2}]`, item.ID), 160))
	require.NoError(t, err)
	require.Equal(t, 3, fetchItem(t, db, item.ID).Quantity)

	require.NoError(t, CancelOrder(db, order.ID, nil))
	require.Equal(t, 5, fetchItem(t, db, item.ID).Quantity)

	var gone models.Order
	err = db.First(&gone, order.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCancelOrderNotFound(t *testing.T) {
	db := newTestDB(t)
	require.ErrorIs(t, CancelOrder(db, 424242, nil), ErrOrderNotFound)
}

func TestCancelOrderOwnershipCheck(t *testing.T) {
	db := newTestDB(t)

	owner := uint(7)
	in := placeInput(`[]`, 0)
	in.UserID = &owner
	order, err := PlaceOrder(db, in)
	require.NoError(t, err)

	stranger := uint(8)
	require.ErrorIs(t, CancelOrder(db, order.ID, &stranger), ErrForbidden)

	// The owner may cancel
	require.NoError(t, CancelOrder(db, order.ID, &owner))
}

func TestCancelOrderNotPendingLeavesStockUntouched(t *testing.T) {
	db := newTestDB(t)
	item := seedMenuItem(t, db, 5)

	order, err := PlaceOrder(db, placeInput(fmt.Sprintf(`[{"id":%d,"qty":2}]`, item.ID), 160))
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.Order{}).Where("id = ?", order.ID).
		Update("status", models.StatusPreparing).Error)

	err = CancelOrder(db, order.ID, nil)
	var notPending *NotPendingError
	require.ErrorAs(t, err, &notPending)
	require.Equal(t, models.StatusPreparing, notPending.Status)
	require.Equal(t, 3, fetchItem(t, db, item.ID).Quantity)
}

func TestCancelOrderUnparseableItemsStillDeletes(t *testing.T) {
	db := newTestDB(t)

	order := models.Order{Items: "corrupted payload", Status: models.StatusPending}
	require.NoError(t, db.Create(&order).Error)

	require.NoError(t, CancelOrder(db, order.ID, nil))
	require.ErrorIs(t, db.First(&models.Order{}, order.ID).Error, gorm.ErrRecordNotFound)
}

func TestEditOrderIdenticalItemsIsNetNoop(t *testing.T) {
	db := newTestDB(t)
	item := seedMenuItem(t, db, 10)

	payload := fmt.Sprintf(`[{"id":%d,"qty":2}]`, item.ID)
	order, err := PlaceOrder(db, placeInput(payload, 160))
	require.NoError(t, err)
	require.Equal(t, 8, fetchItem(t, db, item.ID).Quantity)

	_, err = EditOrder(db, order.ID, EditOrderFields{Items: json.RawMessage(payload)}, nil)
	require.NoError(t, err)
	require.Equal(t, 8, fetchItem(t, db, item.ID).Quantity)
}

func TestEditOrderSwapsItems(t *testing.T) {
	db := newTestDB(t)
	tea := seedMenuItem(t, db, 10)
	samosa := models.MenuItem{Name: "Samosa", Price: 15, Category: "snacks", Quantity: 6, IsAvailable: true}
	require.NoError(t, db.Create(&samosa).Error)

	order, err := PlaceOrder(db, placeInput(fmt.Sprintf(`[{"id":%d,"qty":4}]`, tea.ID), 320))
	require.NoError(t, err)
	require.Equal(t, 6, fetchItem(t, db, tea.ID).Quantity)

	newItems := fmt.Sprintf(`[{"id":%d,"qty":2}]`, samosa.ID)
	updated, err := EditOrder(db, order.ID, EditOrderFields{Items: json.RawMessage(newItems)}, nil)
	require.NoError(t, err)
	require.JSONEq(t, newItems, updated.Items)

	// Old reservation fully restored, new one deducted
	require.Equal(t, 10, fetchItem(t, db, tea.ID).Quantity)
	require.Equal(t, 4, fetchItem(t, db, samosa.ID).Quantity)
}

func TestEditOrderStatusOnlySkipsStock(t *testing.T) {
	db := newTestDB(t)
	item := seedMenuItem(t, db, 10)

	order, err := PlaceOrder(db, placeInput(fmt.Sprintf(`[{"id":%d,"qty":2}]`, item.ID), 160))
	require.NoError(t, err)

	status := models.StatusPreparing
	updated, err := EditOrder(db, order.ID, EditOrderFields{Status: &status}, nil)
	require.NoError(t, err)
	require.Equal(t, models.StatusPreparing, updated.Status)

	// No menu item row was touched
	require.Equal(t, 8, fetchItem(t, db, item.ID).Quantity)
}

func TestEditOrderStatusOnlyAllowedAfterPending(t *testing.T) {
	db := newTestDB(t)

	order, err := PlaceOrder(db, placeInput(`[]`, 0))
	require.NoError(t, err)

	preparing := models.StatusPreparing
	_, err = EditOrder(db, order.ID, EditOrderFields{Status: &preparing}, nil)
	require.NoError(t, err)

	// Non-Pending orders can still move between non-Pending states
	ready := models.StatusReady
	updated, err := EditOrder(db, order.ID, EditOrderFields{Status: &ready}, nil)
	require.NoError(t, err)
	require.Equal(t, models.StatusReady, updated.Status)
}

func TestEditOrderDetailChangeRequiresPending(t *testing.T) {
	db := newTestDB(t)
	item := seedMenuItem(t, db, 10)

	order, err := PlaceOrder(db, placeInput(fmt.Sprintf(`[{"id":%d,"qty":2}]`, item.ID), 160))
	require.NoError(t, err)

	preparing := models.StatusPreparing
	_, err = EditOrder(db, order.ID, EditOrderFields{Status: &preparing}, nil)
	require.NoError(t, err)

	location := "Block D"
	_, err = EditOrder(db, order.ID, EditOrderFields{Location: &location}, nil)
	var notPending *NotPendingError
	require.ErrorAs(t, err, &notPending)
	require.Equal(t, models.StatusPreparing, notPending.Status)
	require.Equal(t, 8, fetchItem(t, db, item.ID).Quantity)
}

func TestEditOrderPartialFields(t *testing.T) {
	db := newTestDB(t)

	order, err := PlaceOrder(db, placeInput(`[]`, 100))
	require.NoError(t, err)

	fullname := "Ravi Kumar"
	total := 150.0
	updated, err := EditOrder(db, order.ID, EditOrderFields{Fullname: &fullname, Total: &total}, nil)
	require.NoError(t, err)
	require.Equal(t, "Ravi Kumar", updated.Fullname)
	require.Equal(t, 150.0, updated.Total)
	// Untouched fields survive
	require.Equal(t, "Block C", updated.Location)
}

func TestEditOrderNoFields(t *testing.T) {
	db := newTestDB(t)
	_, err := EditOrder(db, 1, EditOrderFields{}, nil)
	require.ErrorIs(t, err, ErrNoFields)
}

func TestEditOrderNotFound(t *testing.T) {
	db := newTestDB(t)
	name := "x"
	_, err := EditOrder(db, 424242, EditOrderFields{Fullname: &name}, nil)
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestEditOrderOwnershipCheck(t *testing.T) {
	db := newTestDB(t)

	owner := uint(7)
	in := placeInput(`[]`, 0)
	in.UserID = &owner
	order, err := PlaceOrder(db, in)
	require.NoError(t, err)

	stranger := uint(8)
	name := "x"
	_, err = EditOrder(db, order.ID, EditOrderFields{Fullname: &name}, &stranger)
	require.ErrorIs(t, err, ErrForbidden)
}

func TestEditOrderRejectsReturnToPending(t *testing.T) {
	db := newTestDB(t)

	order, err := PlaceOrder(db, placeInput(`[]`, 0))
	require.NoError(t, err)

	preparing := models.StatusPreparing
	_, err = EditOrder(db, order.ID, EditOrderFields{Status: &preparing}, nil)
	require.NoError(t, err)

	pending := models.StatusPending
	_, err = EditOrder(db, order.ID, EditOrderFields{Status: &pending}, nil)
	var transition *InvalidTransitionError
	require.ErrorAs(t, err, &transition)
}

func TestSetPaymentStatus(t *testing.T) {
	db := newTestDB(t)

	order, err := PlaceOrder(db, placeInput(`[]`, 0))
	require.NoError(t, err)

	updated, err := SetPaymentStatus(db, order.ID, models.PaymentPaid)
	require.NoError(t, err)
	require.Equal(t, models.PaymentPaid, updated.PaymentStatus)

	var validation *ValidationError
	_, err = SetPaymentStatus(db, order.ID, "refunded")
	require.ErrorAs(t, err, &validation)

	_, err = SetPaymentStatus(db, 424242, models.PaymentPaid)
	require.ErrorIs(t, err, ErrOrderNotFound)
}

func TestConcurrentPlacementsNeverOversell(t *testing.T) {
	db := newTestDB(t)
	item := seedMenuItem(t, db, 10)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = PlaceOrder(db, placeInput(fmt.Sprintf(`[{"id":%d,"qty":6}]`, item.ID), 480))
		}(i)
	}
	wg.Wait()

	deducted := 0
	for _, err := range errs {
		if err == nil {
			deducted++
		}
	}
	require.NotZero(t, deducted, "at least one placement must succeed")

	got := fetchItem(t, db, item.ID)
	require.GreaterOrEqual(t, got.Quantity, 0, "stock must never go negative")
	// Two full deductions of 6 from a stock of 10 cannot both land:
	// whatever interleaving occurred, the stock drained to exactly 0.
	require.Equal(t, 0, got.Quantity)
	require.False(t, got.IsAvailable)

	// The sum of deducted quantities never exceeds the starting stock
	require.LessOrEqual(t, 10-got.Quantity, 10)
}

func TestConcurrentCancelAndPlace(t *testing.T) {
	db := newTestDB(t)
	item := seedMenuItem(t, db, 4)

	order, err := PlaceOrder(db, placeInput(fmt.Sprintf(`[{"id":%d,"qty":4}]`, item.ID), 320))
	require.NoError(t, err)
	require.Equal(t, 0, fetchItem(t, db, item.ID).Quantity)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = CancelOrder(db, order.ID, nil)
	}()
	var placeErr error
	go func() {
		defer wg.Done()
		_, placeErr = PlaceOrder(db, placeInput(fmt.Sprintf(`[{"id":%d,"qty":1}]`, item.ID), 80))
	}()
	wg.Wait()

	require.NoError(t, placeErr)

	// Regardless of ordering: if the cancel ran first the deduction
	// saw 4 and left 3; if the deduction ran first it clamped against
	// 0 and the restore then left 4.
	got := fetchItem(t, db, item.ID)
	require.Contains(t, []int{3, 4}, got.Quantity)
	require.ErrorIs(t, db.First(&models.Order{}, order.ID).Error, gorm.ErrRecordNotFound)
}

func TestCancelledStatusIsTerminalForStock(t *testing.T) {
	db := newTestDB(t)
	item := seedMenuItem(t, db, 10)

	order, err := PlaceOrder(db, placeInput(fmt.Sprintf(`[{"id":%d,"qty":2}]`, item.ID), 160))
	require.NoError(t, err)

	cancelled := models.StatusCancelled
	_, err = EditOrder(db, order.ID, EditOrderFields{Status: &cancelled}, nil)
	require.NoError(t, err)

	// Marking an order Cancelled does not restore stock, and the
	// order can no longer be cancelled-with-restore afterwards.
	var notPending *NotPendingError
	require.ErrorAs(t, CancelOrder(db, order.ID, nil), &notPending)
	require.Equal(t, 8, fetchItem(t, db, item.ID).Quantity)
}
