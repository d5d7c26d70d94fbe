package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/srvk/hardware-rental/internal/handler"
	"github.com/srvk/hardware-rental/internal/repository"
)

const testUserID = uint64(42)

var assetColumns = []string{
	"id", "name", "description", "category", "image_url",
	"unit_price_cents", "daily_rate_cents", "total_stock", "available_stock",
	"created_at", "updated_at",
}

var reservationColumns = []string{
	"id", "user_id", "asset_id", "quantity", "start_date", "end_date",
	"status", "total_cents", "order_id", "created_at", "updated_at",
}

func assetRow(id uint64, dailyRateCents int64, totalStock, availableStock int) *sqlmock.Rows {
	now := time.Now().UTC()
	return sqlmock.NewRows(assetColumns).
		AddRow(id, "Impact Driver", "Cordless 18V", "TOOLS", "",
			int64(89900), dailyRateCents, totalStock, availableStock, now, now)
}

func newReservationFixture(t *testing.T) (*handler.ReservationHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return handler.NewReservationHandler(
		repository.NewAssetRepo(db), repository.NewReservationRepo(db)), mock
}

func jsonCtx(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("user_id", testUserID)
	return c, rec
}

func expectBooking(mock sqlmock.Sqlmock, assetID uint64, totalStock, availableStock int, newID int64) {
	mock.ExpectBegin()
	mock.ExpectQuery("FROM assets (.+) FOR UPDATE").
		WithArgs(assetID).
		WillReturnRows(assetRow(assetID, 2500, totalStock, availableStock))
	mock.ExpectQuery("SELECT COALESCE").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(0))
	mock.ExpectExec("UPDATE assets SET available_stock = GREATEST").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO reservations").
		WillReturnResult(sqlmock.NewResult(newID, 1))
	mock.ExpectCommit()
}

// Two rentals over disjoint date windows may each take most of the
// fleet: capacity is judged per interval against total stock, so the
// second booking must succeed even though the running available
// counter has dropped below its quantity.
func TestBookDisjointWindowsShareFleet(t *testing.T) {
	h, mock := newReservationFixture(t)

	expectBooking(mock, 9, 3, 3, 101)
	c, rec := jsonCtx(http.MethodPost, "/v1/reservations",
		`{"asset_id":9,"quantity":2,"start_date":"2026-01-01","end_date":"2026-01-05"}`)
	assert.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	// After the first take only one unit remains in the counter, but
	// the windows do not overlap.
	expectBooking(mock, 9, 3, 1, 102)
	c, rec = jsonCtx(http.MethodPost, "/v1/reservations",
		`{"asset_id":9,"quantity":2,"start_date":"2026-01-06","end_date":"2026-01-10"}`)
	assert.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookOverCapacityRejected(t *testing.T) {
	h, mock := newReservationFixture(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM assets (.+) FOR UPDATE").
		WithArgs(uint64(9)).
		WillReturnRows(assetRow(9, 2500, 3, 3))
	mock.ExpectQuery("SELECT COALESCE").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(2))
	mock.ExpectRollback()

	c, rec := jsonCtx(http.MethodPost, "/v1/reservations",
		`{"asset_id":9,"quantity":2,"start_date":"2026-01-01","end_date":"2026-01-05"}`)
	assert.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A reschedule may move a single bound; the omitted one keeps its
// stored value instead of failing validation.
func TestUpdateReservationEndDateOnly(t *testing.T) {
	h, mock := newReservationFixture(t)

	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM reservations WHERE id").
		WithArgs(uint64(55)).
		WillReturnRows(sqlmock.NewRows(reservationColumns).
			AddRow(55, testUserID, 9, 2, start, end, "ACTIVE", int64(5000), nil, now, now))
	mock.ExpectQuery("FROM assets (.+) FOR UPDATE").
		WithArgs(uint64(9)).
		WillReturnRows(assetRow(9, 2500, 3, 1))
	mock.ExpectQuery("SELECT COALESCE").
		WillReturnRows(sqlmock.NewRows([]string{"total"}).AddRow(0))
	mock.ExpectExec("UPDATE reservations SET start_date").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rec := jsonCtx(http.MethodPatch, "/v1/reservations/55", `{"end_date":"2026-03-12"}`)
	c.SetParamNames("id")
	c.SetParamValues("55")

	assert.NoError(t, h.Update(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"start_date":"2026-03-10"`)
	assert.Contains(t, rec.Body.String(), `"end_date":"2026-03-12"`)
	// 2500 cents/day x 2 units x 2 days.
	assert.Contains(t, rec.Body.String(), `"total_cents":10000`)
	assert.NoError(t, mock.ExpectationsWereMet())
}
