package handler

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/srvk/hardware-rental/internal/booking"
	"github.com/srvk/hardware-rental/internal/model"
	"github.com/srvk/hardware-rental/internal/payment"
	q "github.com/srvk/hardware-rental/internal/queue"
	"github.com/srvk/hardware-rental/internal/repository"
	queue_publisher "github.com/srvk/hardware-rental/internal/service"
)

// CheckoutHandler turns a cart into an order inside one database
// transaction: re-validation under row locks, ledger decrements,
// order and item creation, the payment collaborator call,
// reservation creation and cart cleanup all commit or roll back
// together. A payment decline after the decrements therefore undoes
// every side effect, including the decrements.
type CheckoutHandler struct {
	Users        *repository.UserRepo
	Assets       *repository.AssetRepo
	Carts        *repository.CartRepo
	Reservations *repository.ReservationRepo
	Orders       *repository.OrderRepo
	Gateway      payment.Gateway
}

func NewCheckoutHandler(u *repository.UserRepo, a *repository.AssetRepo, c *repository.CartRepo, r *repository.ReservationRepo, o *repository.OrderRepo, g payment.Gateway) *CheckoutHandler {
	if u == nil || a == nil || c == nil || r == nil || o == nil || g == nil {
		panic("nil dependency passed to NewCheckoutHandler")
	}
	return &CheckoutHandler{Users: u, Assets: a, Carts: c, Reservations: r, Orders: o, Gateway: g}
}

type checkoutItemRef struct {
	AssetID uint64 `json:"asset_id"`
	Kind    string `json:"kind"` // PRODUCT | RENTAL
}

type checkoutReq struct {
	PaymentMethod string            `json:"payment_method"` // CARD | CASH
	CardDetails   string            `json:"card_details"`
	Items         []checkoutItemRef `json:"items"` // empty = whole cart
}

type checkoutResp struct {
	OrderID        uint64         `json:"order_id"`
	Status         string         `json:"status"`
	PaymentMethod  string         `json:"payment_method"`
	PaymentStatus  string         `json:"payment_status"`
	DeliveryStatus string         `json:"delivery_status"`
	TransactionID  string         `json:"transaction_id,omitempty"`
	TotalCents     int64          `json:"total_cents"`
	Items          []booking.Line `json:"items"`
	ReservationIDs []uint64       `json:"reservation_ids,omitempty"`
}

// Checkout handles POST /v1/checkout. The request selects cart
// entries by (asset_id, kind); an empty selection means the whole
// cart. Validation is all-or-nothing: one failing line aborts with
// no stock moved, no order row and the cart intact.
func (h *CheckoutHandler) Checkout(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req checkoutReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	method := strings.ToUpper(strings.TrimSpace(req.PaymentMethod))
	if method != model.PaymentMethodCard && method != model.PaymentMethodCash {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_method must be CARD or CASH"})
	}

	ctx := c.Request().Context()

	// The token proves the user authenticated once; the row proves
	// the account still exists.
	if ok, err := h.Users.Exists(ctx, uid); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	} else if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
	}

	// Resolve which entries to check out. Outside the transaction
	// this is only a key list; authoritative values are re-read
	// inside with GetEntryTx.
	refs := req.Items
	if len(refs) == 0 {
		entries, err := h.Carts.ListByUser(ctx, uid)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		for _, e := range entries {
			refs = append(refs, checkoutItemRef{AssetID: e.AssetID, Kind: e.Kind})
		}
	}
	if len(refs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cart is empty"})
	}
	for i := range refs {
		refs[i].Kind = strings.ToUpper(strings.TrimSpace(refs[i].Kind))
		if refs[i].Kind != model.CartKindProduct && refs[i].Kind != model.CartKindRental {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "kind must be PRODUCT or RENTAL"})
		}
	}
	// Lock asset rows in ascending id order so two concurrent
	// checkouts can never deadlock on each other.
	sort.Slice(refs, func(i, j int) bool {
		if refs[i].AssetID != refs[j].AssetID {
			return refs[i].AssetID < refs[j].AssetID
		}
		return refs[i].Kind < refs[j].Kind
	})

	tx, err := h.Assets.DB().BeginTx(ctx, nil)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to start transaction"})
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var (
		products   []booking.ProductSelection
		rentals    []booking.RentalSelection
		productIDs []uint64
		rentalIDs  []uint64
	)
	for _, ref := range refs {
		entry, err := h.Carts.GetEntryTx(ctx, tx, uid, ref.AssetID, ref.Kind)
		if err != nil {
			if err == repository.ErrCartEntryNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "cart entry not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		asset, err := h.Assets.GetForUpdateTx(ctx, tx, ref.AssetID)
		if err != nil {
			if err == repository.ErrAssetNotFound {
				return c.JSON(http.StatusNotFound, echo.Map{"error": "asset not found"})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		if ref.Kind == model.CartKindProduct {
			products = append(products, booking.ProductSelection{
				AssetID:        asset.ID,
				AssetName:      asset.Name,
				UnitPriceCents: asset.UnitPriceCents,
				AvailableStock: asset.AvailableStock,
				Quantity:       entry.Quantity,
			})
			productIDs = append(productIDs, asset.ID)
			continue
		}
		if entry.StartDate == nil || entry.EndDate == nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "rental entry missing dates"})
		}
		used, err := h.Reservations.SumOverlappingQtyTx(ctx, tx, asset.ID, *entry.StartDate, *entry.EndDate, 0)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
		}
		rentals = append(rentals, booking.RentalSelection{
			AssetID:        asset.ID,
			AssetName:      asset.Name,
			DailyRateCents: asset.DailyRateCents,
			TotalStock:     asset.TotalStock,
			OverlappingQty: used,
			Quantity:       entry.Quantity,
			StartDate:      *entry.StartDate,
			EndDate:        *entry.EndDate,
		})
		rentalIDs = append(rentalIDs, asset.ID)
	}

	plan, err := booking.BuildPlan(products, rentals)
	if err != nil {
		return c.JSON(checkoutErrStatus(err), echo.Map{"error": err.Error()})
	}

	// Take the stock. Product purchases are gated by the available
	// counter; rental takes floor at zero because the interval check
	// against total stock already admitted them and disjoint windows
	// may each claim the full fleet.
	for _, line := range plan.Lines {
		if line.Kind == model.CartKindProduct {
			if err := h.Assets.DecrementStockTx(ctx, tx, line.AssetID, line.Quantity); err != nil {
				return c.JSON(checkoutErrStatus(err), echo.Map{"error": err.Error()})
			}
			continue
		}
		if err := h.Assets.DecrementStockClampedTx(ctx, tx, line.AssetID, line.Quantity); err != nil {
			return c.JSON(checkoutErrStatus(err), echo.Map{"error": err.Error()})
		}
	}

	order := model.Order{
		UserID:         uid,
		TotalCents:     plan.TotalCents,
		Status:         model.OrderCreated,
		PaymentMethod:  method,
		PaymentStatus:  model.PaymentStatusCOD,
		DeliveryStatus: model.DeliveryPending,
	}
	if err := h.Orders.CreateTx(ctx, tx, &order); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order failed"})
	}

	items := make([]model.OrderItem, 0, len(plan.Lines))
	for _, line := range plan.Lines {
		if line.Kind != model.CartKindProduct {
			continue
		}
		items = append(items, model.OrderItem{
			OrderID:        order.ID,
			AssetID:        line.AssetID,
			Quantity:       line.Quantity,
			UnitPriceCents: line.UnitPriceCents,
			SubtotalCents:  line.SubtotalCents,
		})
	}
	if err := h.Orders.CreateItemsBulkTx(ctx, tx, items); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create order items failed"})
	}

	// Collect payment. CASH skips the gateway: the order stays
	// CREATED with payment on delivery. A CARD decline rolls back
	// everything above.
	var txnID string
	if method != model.PaymentMethodCash {
		res, err := h.Gateway.Charge(ctx, plan.TotalCents, method, req.CardDetails)
		if err != nil {
			if errors.Is(err, payment.ErrDeclined) {
				return c.JSON(http.StatusPaymentRequired, echo.Map{"error": err.Error()})
			}
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment gateway error"})
		}
		txnID = res.TransactionID
		if err := h.Orders.MarkPaidTx(ctx, tx, order.ID, txnID, time.Now().UTC()); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record payment failed"})
		}
		order.Status = model.OrderPaid
		order.PaymentStatus = model.PaymentStatusPaid
	}

	var reservationIDs []uint64
	for _, line := range plan.Lines {
		if line.Kind != model.CartKindRental {
			continue
		}
		oid := order.ID
		res := model.Reservation{
			UserID:     uid,
			AssetID:    line.AssetID,
			Quantity:   line.Quantity,
			StartDate:  *line.StartDate,
			EndDate:    *line.EndDate,
			Status:     model.ReservationActive,
			TotalCents: line.SubtotalCents,
			OrderID:    &oid,
		}
		if err := h.Reservations.CreateTx(ctx, tx, &res); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
		}
		reservationIDs = append(reservationIDs, res.ID)
	}

	if err := h.Carts.RemoveEntriesTx(ctx, tx, uid, model.CartKindProduct, productIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear cart failed"})
	}
	if err := h.Carts.RemoveEntriesTx(ctx, tx, uid, model.CartKindRental, rentalIDs); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "clear cart failed"})
	}

	if err := tx.Commit(); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "commit failed"})
	}
	committed = true

	publishOrderPlaced(order, txnID, plan.Lines)

	return c.JSON(http.StatusCreated, checkoutResp{
		OrderID:        order.ID,
		Status:         order.Status,
		PaymentMethod:  order.PaymentMethod,
		PaymentStatus:  order.PaymentStatus,
		DeliveryStatus: order.DeliveryStatus,
		TransactionID:  txnID,
		TotalCents:     plan.TotalCents,
		Items:          plan.Lines,
		ReservationIDs: reservationIDs,
	})
}

// checkoutErrStatus maps validation and stock errors to HTTP codes.
func checkoutErrStatus(err error) int {
	switch {
	case errors.Is(err, booking.ErrInsufficientStock):
		return http.StatusConflict
	case errors.Is(err, booking.ErrInvalidQuantity), errors.Is(err, booking.ErrInvalidDateRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// publishOrderPlaced fires the order.placed event on a detached
// goroutine. The order is already committed, so publish failures are
// logged by the publisher and otherwise ignored.
func publishOrderPlaced(order model.Order, txnID string, lines []booking.Line) {
	ev := q.OrderPlacedEvent{
		OrderID:       order.ID,
		UserID:        order.UserID,
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
		TransactionID: txnID,
		TotalCents:    order.TotalCents,
		PlacedAt:      time.Now().UTC().Format(time.RFC3339),
	}
	for _, l := range lines {
		item := q.OrderPlacedItem{
			AssetID:   l.AssetID,
			AssetName: l.Name,
			Kind:      l.Kind,
			Quantity:  l.Quantity,
			Days:      l.Days,
			LineCents: l.SubtotalCents,
		}
		if l.StartDate != nil {
			item.StartDate = booking.FormatDate(*l.StartDate)
		}
		if l.EndDate != nil {
			item.EndDate = booking.FormatDate(*l.EndDate)
		}
		ev.Items = append(ev.Items, item)
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = queue_publisher.PublishOrderPlaced(ctx, ev)
	}()
}
