package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"pos-service/internal/domain"
	"pos-service/internal/infra/live"
	"pos-service/internal/money"
	"pos-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type ShiftReader interface {
	Current(ctx context.Context) (*domain.Shift, error)
	List(ctx context.Context) ([]domain.Shift, error)
}

type Handler struct {
	orders   *services.OrderService
	floor    *services.FloorService
	menu     *services.MenuService
	shifts   ShiftReader
	live     live.Source
	currency money.Currency
}

func NewHandler(orders *services.OrderService, floor *services.FloorService, menu *services.MenuService, shifts ShiftReader) *Handler {
	return &Handler{
		orders:   orders,
		floor:    floor,
		menu:     menu,
		shifts:   shifts,
		currency: money.USD,
	}
}

// SetLiveSource enables /live endpoints.
func (h *Handler) SetLiveSource(src live.Source) { h.live = src }

func (h *Handler) SetCurrency(c money.Currency) { h.currency = c }

func (h *Handler) RegisterRoutes(r *gin.Engine, auth gin.HandlerFunc) {
	r.GET("/health", h.Health)

	api := r.Group("/", auth)
	api.GET("/floor", h.Floor)
	api.GET("/live/floor", h.StreamFloor)

	api.POST("/tables/:tableId/activate", h.ActivateTable)
	api.POST("/tables/:tableId/request-payment", h.RequestPayment)
	api.POST("/tables/:tableId/merge", h.MergeTables)

	api.POST("/orders/takeaway", h.StartTakeaway)
	api.GET("/orders/:orderId", h.GetOrder)
	api.PUT("/orders/:orderId/items", h.ReplaceItems)
	api.POST("/orders/:orderId/items", h.AddItem)
	api.PATCH("/orders/:orderId/items/:itemId/quantity", h.ChangeQuantity)
	api.PATCH("/orders/:orderId/items/:itemId/note", h.SetNote)
	api.GET("/orders/:orderId/split", h.PreviewSplit)
	api.POST("/orders/:orderId/payments", h.ProcessPayment)

	api.GET("/shifts/current", h.CurrentShift)
	api.GET("/shifts", RequireRole(domain.RoleAdmin), h.ListShifts)

	api.GET("/menu/products", h.ListProducts)
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) Floor(c *gin.Context) {
	view, err := h.floor.Overview(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// StreamFloor sends the floor overview as server-sent events: once on
// connect, then after every change.
func (h *Handler) StreamFloor(c *gin.Context) {
	if h.live == nil {
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "live updates are not configured"})
		return
	}

	sub, err := live.Watch(c.Request.Context(), h.live, live.TopicFloor, func(ctx context.Context) (any, error) {
		return h.floor.Overview(ctx)
	})
	if err != nil {
		writeError(c, err)
		return
	}
	defer sub.Stop()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.SSEvent(live.TopicFloor, sub.Initial)
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		snap, ok := <-sub.Updates
		if !ok {
			return false
		}
		c.SSEvent(live.TopicFloor, snap)
		return true
	})
}

func (h *Handler) ActivateTable(c *gin.Context) {
	tableID, ok := uintParam(c, "tableId")
	if !ok {
		return
	}
	order, err := h.orders.ActivateTable(c.Request.Context(), tableID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) RequestPayment(c *gin.Context) {
	tableID, ok := uintParam(c, "tableId")
	if !ok {
		return
	}
	t, err := h.orders.RequestPayment(c.Request.Context(), tableID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, t)
}

// MergeTables folds the order of the table named in the body into this
// table's order.
func (h *Handler) MergeTables(c *gin.Context) {
	tableID, ok := uintParam(c, "tableId")
	if !ok {
		return
	}
	var req MergeTablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	order, err := h.orders.MergeTables(c.Request.Context(), tableID, req.SourceTableID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) StartTakeaway(c *gin.Context) {
	order, err := h.orders.StartTakeaway(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) GetOrder(c *gin.Context) {
	orderID, ok := uintParam(c, "orderId")
	if !ok {
		return
	}
	order, err := h.orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ReplaceItems(c *gin.Context) {
	orderID, ok := uintParam(c, "orderId")
	if !ok {
		return
	}
	var req ReplaceItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	order, err := h.orders.ReplaceItems(c.Request.Context(), orderID, req.Items)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) AddItem(c *gin.Context) {
	orderID, ok := uintParam(c, "orderId")
	if !ok {
		return
	}
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	order, err := h.orders.AddItem(c.Request.Context(), orderID, req.ProductID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) ChangeQuantity(c *gin.Context) {
	orderID, ok := uintParam(c, "orderId")
	if !ok {
		return
	}
	var req ChangeQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	order, err := h.orders.ChangeQuantity(c.Request.Context(), orderID, c.Param("itemId"), req.Delta)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) SetNote(c *gin.Context) {
	orderID, ok := uintParam(c, "orderId")
	if !ok {
		return
	}
	var req SetNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}
	order, err := h.orders.SetNote(c.Request.Context(), orderID, c.Param("itemId"), req.Note)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) PreviewSplit(c *gin.Context) {
	orderID, ok := uintParam(c, "orderId")
	if !ok {
		return
	}
	var ids []string
	for _, id := range strings.Split(c.Query("items"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	preview, err := h.orders.PreviewSplit(c.Request.Context(), orderID, ids)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (h *Handler) ProcessPayment(c *gin.Context) {
	orderID, ok := uintParam(c, "orderId")
	if !ok {
		return
	}
	var req PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badBody(c, err)
		return
	}

	res, err := h.orders.ProcessPayment(c.Request.Context(), CurrentUser(c), services.PaymentRequest{
		OrderID: orderID,
		ItemIDs: req.ItemIDs,
		Amount:  req.Amount,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) CurrentShift(c *gin.Context) {
	s, err := h.shifts.Current(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	if s == nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: domain.ErrNoActiveShift.Error()})
		return
	}
	c.JSON(http.StatusOK, h.shiftResponse(*s))
}

func (h *Handler) ListShifts(c *gin.Context) {
	list, err := h.shifts.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]ShiftResponse, 0, len(list))
	for _, s := range list {
		out = append(out, h.shiftResponse(s))
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ListProducts(c *gin.Context) {
	products, err := h.menu.ListProducts(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) shiftResponse(s domain.Shift) ShiftResponse {
	return ShiftResponse{Shift: s, RevenueDisplay: money.Format(s.TotalRevenue, h.currency)}
}

func uintParam(c *gin.Context, name string) (uint64, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: name + " must be a positive integer"})
		return 0, false
	}
	return v, true
}

func badBody(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Details: err.Error()})
}

func writeError(c *gin.Context, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: ve.Reason})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrNoActiveShift), errors.Is(err, domain.ErrTransactionConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		logrus.WithField("path", c.FullPath()).WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
