package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/srvk/hardware-rental/internal/handler"
	"github.com/srvk/hardware-rental/internal/payment"
	"github.com/srvk/hardware-rental/internal/repository"
)

func newCheckoutFixture(t *testing.T) (*handler.CheckoutHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return handler.NewCheckoutHandler(
		repository.NewUserRepo(db),
		repository.NewAssetRepo(db),
		repository.NewCartRepo(db),
		repository.NewReservationRepo(db),
		repository.NewOrderRepo(db),
		payment.NewMockGateway()), mock
}

// A cash checkout leaves the order awaiting collection: the receipt
// reports CREATED/COD and carries the delivery state.
func TestCheckoutCashReceipt(t *testing.T) {
	h, mock := newCheckoutFixture(t)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT 1 FROM users").
		WithArgs(testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectQuery("FROM cart_entries WHERE user_id").
		WithArgs(testUserID, uint64(7), "PRODUCT").
		WillReturnRows(sqlmock.NewRows([]string{
			"user_id", "asset_id", "kind", "quantity", "start_date", "end_date", "added_at",
		}).AddRow(testUserID, 7, "PRODUCT", 2, nil, nil, now))
	mock.ExpectQuery("FROM assets (.+) FOR UPDATE").
		WithArgs(uint64(7)).
		WillReturnRows(assetRow(7, 2500, 10, 10))
	mock.ExpectExec("UPDATE assets SET available_stock = available_stock").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO orders").
		WillReturnResult(sqlmock.NewResult(31, 1))
	mock.ExpectExec("INSERT INTO order_items").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM cart_entries").
		WithArgs(testUserID, uint64(7), "PRODUCT").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rec := jsonCtx(http.MethodPost, "/v1/checkout",
		`{"payment_method":"CASH","items":[{"asset_id":7,"kind":"PRODUCT"}]}`)

	assert.NoError(t, h.Checkout(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"order_id":31`)
	assert.Contains(t, body, `"status":"CREATED"`)
	assert.Contains(t, body, `"payment_status":"COD"`)
	assert.Contains(t, body, `"delivery_status":"PENDING"`)
	// 2 units x 89900 cents each.
	assert.Contains(t, body, `"total_cents":179800`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
