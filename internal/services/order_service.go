package services

import (
	"context"
	"fmt"
	"time"

	"pos-service/internal/billing"
	"pos-service/internal/domain"
	"pos-service/internal/infra/live"
	rabbit "pos-service/internal/infra/rabbitmq"
	"pos-service/internal/money"
	"pos-service/internal/ordering"
	"pos-service/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	ErrOrderNotFound = fmt.Errorf("order %w", domain.ErrNotFound)
	ErrItemNotFound  = fmt.Errorf("item %w", domain.ErrNotFound)
)

// ShiftSource yields the shift payments post against, or nil while none is
// active.
type ShiftSource interface {
	Current(ctx context.Context) (*domain.Shift, error)
}

type ProductLookup interface {
	GetProduct(ctx context.Context, id uint64) (*domain.Product, error)
}

type OrderService struct {
	orders     repository.OrderRepository
	tables     repository.TableRepository
	settlement repository.SettlementRepository
	shifts     ShiftSource
	products   ProductLookup
	publisher  rabbit.PublisherInterface
	notifier   live.Notifier
	editor     *ordering.Editor
	currency   money.Currency
	now        func() time.Time
}

func NewOrderService(
	orders repository.OrderRepository,
	tables repository.TableRepository,
	settlement repository.SettlementRepository,
	shifts ShiftSource,
	products ProductLookup,
	pub rabbit.PublisherInterface,
) *OrderService {
	return &OrderService{
		orders:     orders,
		tables:     tables,
		settlement: settlement,
		shifts:     shifts,
		products:   products,
		publisher:  pub,
		notifier:   live.NopNotifier{},
		editor:     ordering.NewEditor(nil),
		currency:   money.USD,
		now:        time.Now,
	}
}

func (s *OrderService) SetNotifier(n live.Notifier) { s.notifier = n }

func (s *OrderService) SetClock(now func() time.Time) { s.now = now }

// SetCurrency sets the unit line prices are truncated to.
func (s *OrderService) SetCurrency(c money.Currency) { s.currency = c }

func (s *OrderService) SetIDGenerator(gen ordering.IDGenerator) { s.editor = ordering.NewEditor(gen) }

type PaymentRequest struct {
	OrderID uint64
	ItemIDs []string
	// Amount is what the cashier saw on screen. When set, settlement refuses
	// to post if the order changed since.
	Amount *decimal.Decimal
}

type PaymentResult struct {
	Order         *domain.Order   `json:"order"`
	Shift         *domain.Shift   `json:"shift"`
	PayAmount     decimal.Decimal `json:"payAmount"`
	AllPaid       bool            `json:"allPaid"`
	TableReleased bool            `json:"tableReleased"`
}

type SplitPreview struct {
	OrderID         uint64             `json:"orderId"`
	SelectedIDs     []string           `json:"selectedIds"`
	Selected        []domain.OrderItem `json:"selected"`
	Remaining       []domain.OrderItem `json:"remaining"`
	PayAmount       decimal.Decimal    `json:"payAmount"`
	RemainingAmount decimal.Decimal    `json:"remainingAmount"`
}

// ActivateTable opens a dine-in order on the table, or returns the order the
// table already holds.
func (s *OrderService) ActivateTable(ctx context.Context, tableID uint64) (*domain.Order, error) {
	order, created, err := s.tables.Activate(ctx, tableID, ordering.NewDineInOrder(tableID, s.now()))
	if err != nil {
		return nil, err
	}
	if !created {
		return order, nil
	}

	logrus.WithFields(logrus.Fields{
		"order_id": order.ID,
		"table_id": tableID,
	}).Info("table activated")

	s.publish(ctx, domain.EventOrderOpened, domain.OrderOpenedEvent{
		OrderID:   order.ID,
		TableID:   order.TableID,
		Type:      order.Type,
		CreatedAt: order.CreatedAt,
	})
	live.NotifyQuietly(ctx, s.notifier, live.TopicFloor, map[string]any{"tableId": tableID, "orderId": order.ID})
	return order, nil
}

func (s *OrderService) StartTakeaway(ctx context.Context) (*domain.Order, error) {
	order := ordering.NewTakeawayOrder(s.now())
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, err
	}

	logrus.WithField("order_id", order.ID).Info("takeaway order opened")
	s.publish(ctx, domain.EventOrderOpened, domain.OrderOpenedEvent{
		OrderID:   order.ID,
		Type:      order.Type,
		CreatedAt: order.CreatedAt,
	})
	live.NotifyQuietly(ctx, s.notifier, live.TopicOrders, map[string]any{"orderId": order.ID})
	return order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, id uint64) (*domain.Order, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (s *OrderService) ListActiveOrders(ctx context.Context) ([]domain.Order, error) {
	return s.orders.ListOpen(ctx)
}

// ReplaceItems stores items as the order's whole line sequence. Concurrent
// editors overwrite each other's unpaid lines; paid lines must come back
// exactly as settlement left them.
func (s *OrderService) ReplaceItems(ctx context.Context, orderID uint64, items []domain.OrderItem) (*domain.Order, error) {
	if items == nil {
		items = []domain.OrderItem{}
	}
	return s.editItems(ctx, orderID, func([]domain.OrderItem) ([]domain.OrderItem, error) {
		return items, nil
	})
}

// AddItem snapshots the product's current name and price into the order.
func (s *OrderService) AddItem(ctx context.Context, orderID, productID uint64) (*domain.Order, error) {
	p, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return s.editItems(ctx, orderID, func(items []domain.OrderItem) ([]domain.OrderItem, error) {
		return s.editor.AddItem(items, p.ID, p.Name, p.Price), nil
	})
}

func (s *OrderService) ChangeQuantity(ctx context.Context, orderID uint64, itemID string, delta int) (*domain.Order, error) {
	return s.editItems(ctx, orderID, func(items []domain.OrderItem) ([]domain.OrderItem, error) {
		it, err := lookupItem(items, itemID)
		if err != nil {
			return nil, err
		}
		if it.IsPaid {
			return nil, domain.Invalid(fmt.Sprintf("item %q is already paid", it.Name))
		}
		return ordering.SetQuantity(items, itemID, delta), nil
	})
}

func (s *OrderService) SetNote(ctx context.Context, orderID uint64, itemID, note string) (*domain.Order, error) {
	return s.editItems(ctx, orderID, func(items []domain.OrderItem) ([]domain.OrderItem, error) {
		if _, err := lookupItem(items, itemID); err != nil {
			return nil, err
		}
		return ordering.SetNote(items, itemID, note), nil
	})
}

func (s *OrderService) RequestPayment(ctx context.Context, tableID uint64) (*domain.Table, error) {
	t, err := s.tables.RequestPayment(ctx, tableID)
	if err != nil {
		return nil, err
	}
	logrus.WithField("table_id", tableID).Info("payment requested")
	live.NotifyQuietly(ctx, s.notifier, live.TopicFloor, map[string]any{"tableId": tableID})
	return t, nil
}

// MergeTables moves the unpaid lines of the source table's order onto the
// target table's order, merging by product, and frees the source table.
func (s *OrderService) MergeTables(ctx context.Context, targetTableID, sourceTableID uint64) (*domain.Order, error) {
	res, err := s.tables.Merge(ctx, repository.MergeParams{
		TargetTableID: targetTableID,
		SourceTableID: sourceTableID,
		Combine: func(target, source domain.Order) []domain.OrderItem {
			merged := s.editor.MergeItems([]domain.Order{target, source})
			return append(ordering.PaidLines(target.Items), merged...)
		},
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"target_table_id": targetTableID,
		"source_table_id": sourceTableID,
		"order_id":        res.Target.ID,
	}).Info("tables merged")

	s.publish(ctx, domain.EventTablesMerged, domain.TablesMergedEvent{
		TargetTableID: targetTableID,
		SourceTableID: sourceTableID,
		TargetOrderID: res.Target.ID,
		SourceOrderID: res.Source.ID,
	})
	s.publish(ctx, domain.EventTableReleased, domain.TableReleasedEvent{TableID: sourceTableID, OrderID: res.Source.ID})
	live.NotifyQuietly(ctx, s.notifier, live.TopicOrders, map[string]any{"orderId": res.Target.ID})
	live.NotifyQuietly(ctx, s.notifier, live.TopicFloor, map[string]any{"tableId": sourceTableID})
	return res.Target, nil
}

// PreviewSplit partitions the order's unpaid lines into the selection and
// the rest. No ids means the whole remaining bill. Nothing is written.
func (s *OrderService) PreviewSplit(ctx context.Context, orderID uint64, itemIDs []string) (*SplitPreview, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	p := billing.NewPartition(order.Items)
	if len(itemIDs) == 0 {
		p.SelectAll()
	}
	for _, id := range itemIDs {
		if !p.Select(id) {
			return nil, domain.Invalid(fmt.Sprintf("item %q is not an unpaid line of order %d", id, orderID))
		}
	}

	return &SplitPreview{
		OrderID:         order.ID,
		SelectedIDs:     p.SelectedIDs(),
		Selected:        p.Selected(),
		Remaining:       p.Remaining(),
		PayAmount:       p.PayAmount(),
		RemainingAmount: p.RemainingAmount(),
	}, nil
}

// ProcessPayment settles the selected lines against the current shift and
// frees the table once the order is fully paid.
func (s *OrderService) ProcessPayment(ctx context.Context, user *domain.User, req PaymentRequest) (*PaymentResult, error) {
	if err := ordering.ValidateSelection(req.ItemIDs); err != nil {
		return nil, err
	}

	order, err := s.GetOrder(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if !order.IsOpen() {
		return nil, domain.Invalid(fmt.Sprintf("order %d is already closed", order.ID))
	}
	if err := ordering.ValidateForPayment(order.Items); err != nil {
		return nil, err
	}
	for _, id := range req.ItemIDs {
		if order.FindItem(id) == nil {
			return nil, domain.Invalid(fmt.Sprintf("item %q is not part of order %d", id, order.ID))
		}
	}

	payAmount := billing.Apply(order.Items, req.ItemIDs).PayAmount
	if req.Amount != nil {
		payAmount = *req.Amount
	}

	shift, err := s.shifts.Current(ctx)
	if err != nil {
		return nil, err
	}
	if shift == nil {
		return nil, domain.ErrNoActiveShift
	}

	res, err := s.settlement.Settle(ctx, repository.SettlementParams{
		OrderID:   order.ID,
		ShiftID:   shift.ID,
		ItemIDs:   req.ItemIDs,
		PayAmount: payAmount,
	})
	if err != nil {
		return nil, err
	}

	log := logrus.WithFields(logrus.Fields{
		"order_id":   order.ID,
		"shift_id":   shift.ID,
		"pay_amount": res.Posted.String(),
		"all_paid":   res.AllPaid,
	})
	log.Info("payment settled")

	out := &PaymentResult{
		Order:     res.Order,
		Shift:     res.Shift,
		PayAmount: res.Posted,
		AllPaid:   res.AllPaid,
	}

	if res.AllPaid && order.TableID != nil {
		released, err := s.tables.Release(ctx, *order.TableID, order.ID)
		if err != nil {
			// The money is posted. Activate recovers a table whose order is closed.
			log.WithError(err).Error("table release failed")
		}
		out.TableReleased = released
	}

	settled := domain.PaymentSettledEvent{
		OrderID:   order.ID,
		ShiftID:   shift.ID,
		ItemIDs:   req.ItemIDs,
		Amount:    res.Posted,
		AllPaid:   res.AllPaid,
		SettledAt: s.now(),
	}
	if user != nil {
		settled.SettledBy = user.ID
	}
	s.publish(ctx, domain.EventPaymentSettled, settled)
	if out.TableReleased {
		s.publish(ctx, domain.EventTableReleased, domain.TableReleasedEvent{TableID: *order.TableID, OrderID: order.ID})
	}

	live.NotifyQuietly(ctx, s.notifier, live.TopicOrders, map[string]any{"orderId": order.ID})
	live.NotifyQuietly(ctx, s.notifier, live.TopicShifts, map[string]any{"shiftId": shift.ID})
	if order.TableID != nil {
		live.NotifyQuietly(ctx, s.notifier, live.TopicFloor, map[string]any{"tableId": *order.TableID})
	}
	return out, nil
}

func (s *OrderService) editItems(ctx context.Context, orderID uint64, edit func([]domain.OrderItem) ([]domain.OrderItem, error)) (*domain.Order, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.IsOpen() {
		return nil, domain.Invalid(fmt.Sprintf("order %d is closed", order.ID))
	}

	items, err := edit(order.Items)
	if err != nil {
		return nil, err
	}
	items = s.currency.NormalizePrices(items)
	if err := ordering.CheckPaidLines(order.Items, items); err != nil {
		return nil, err
	}
	if err := ordering.ValidateLines(items); err != nil {
		return nil, err
	}

	total := ordering.UnpaidTotal(items)
	if err := s.orders.ReplaceItems(ctx, order.ID, items, total); err != nil {
		return nil, err
	}
	order.Items = items
	order.TotalAmount = total

	s.publish(ctx, domain.EventOrderItemsUpdated, domain.OrderItemsUpdatedEvent{
		OrderID:     order.ID,
		ItemCount:   len(items),
		TotalAmount: total,
	})
	live.NotifyQuietly(ctx, s.notifier, live.TopicOrders, map[string]any{"orderId": order.ID})
	return order, nil
}

func lookupItem(items []domain.OrderItem, id string) (*domain.OrderItem, error) {
	for i := range items {
		if items[i].ID == id {
			return &items[i], nil
		}
	}
	return nil, ErrItemNotFound
}

func (s *OrderService) publish(ctx context.Context, event string, data any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event, data); err != nil {
		logrus.WithField("event", event).WithError(err).Warn("failed to publish event")
	}
}
