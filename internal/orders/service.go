package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/pharmacy-inventory/internal/shared"
	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
)

// Checker confirms that a referenced entity exists.
type Checker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ChangeNotifier is told about every successful write.
type ChangeNotifier interface {
	Invalidate(ctx context.Context)
}

// ServiceConfig tunes order behaviour.
type ServiceConfig struct {
	// Location decides which calendar day an order number belongs to.
	Location *time.Location
	// OnCreated, when set, is called after each successful create.
	OnCreated func(Order)
}

// Service owns order numbering, totals and state transitions.
type Service struct {
	repo      store.Collection[Order]
	seq       store.Sequences
	suppliers Checker
	medicines Checker
	notifier  ChangeNotifier
	cfg       ServiceConfig
	validator *shared.Validator
}

// NewService constructs the order service. notifier may be nil.
func NewService(repo store.Collection[Order], seq store.Sequences, suppliers, medicines Checker, notifier ChangeNotifier, cfg ServiceConfig) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		repo:      repo,
		seq:       seq,
		suppliers: suppliers,
		medicines: medicines,
		notifier:  notifier,
		cfg:       cfg,
		validator: shared.NewValidator(),
	}
}

// Create validates the lines, prices them, assigns the next order number of the day
// and stores the order. Number allocation and insert succeed or fail together.
func (s *Service) Create(ctx context.Context, input CreateInput) (Order, error) {
	input.normalize()
	verr := s.validator.Struct(input)
	var (
		numberDay string
		numberSeq int
	)
	if input.OrderNumber != nil {
		day, seq, err := ParseNumber(*input.OrderNumber)
		if err != nil {
			verr.Add("orderNumber", "must match ORD-YYYYMMDD-NNNN")
		}
		numberDay, numberSeq = day, seq
	}
	if err := verr.OrNil(); err != nil {
		return Order{}, err
	}
	totals, err := ComputeTotals(input.Items, valueOr(input.Tax), valueOr(input.Discount))
	if err != nil {
		return Order{}, err
	}
	if err := s.checkReferences(ctx, input); err != nil {
		return Order{}, err
	}

	asOf := shared.AsOfFromContext(ctx)
	now := shared.Timestamp(asOf)
	orderDate := now
	if input.OrderDate != nil {
		orderDate = shared.Timestamp(*input.OrderDate)
	}
	method := DefaultPaymentMethod
	if input.PaymentMethod != nil {
		method = PaymentMethod(*input.PaymentMethod)
	}
	order := Order{
		SupplierID:           input.SupplierID,
		Items:                totals.Items,
		OrderDate:            orderDate,
		ExpectedDeliveryDate: input.ExpectedDeliveryDate.UTC(),
		Status:               StatusPending,
		TotalAmount:          totals.TotalAmount,
		Tax:                  totals.Tax,
		Discount:             totals.Discount,
		FinalAmount:          totals.FinalAmount,
		Notes:                input.Notes,
		PaymentStatus:        PaymentPending,
		PaymentMethod:        method,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	var created Order
	insert := func(ctx context.Context) error {
		var err error
		created, err = s.repo.Insert(ctx, order)
		return err
	}
	if input.OrderNumber != nil {
		order.OrderNumber = *input.OrderNumber
		key := store.SequenceKey{Name: sequenceName, Day: numberDay}
		err = s.seq.Claim(ctx, key, numberSeq, s.seedFor(numberDay), insert)
	} else {
		day := DayKey(now, s.cfg.Location)
		key := store.SequenceKey{Name: sequenceName, Day: day}
		err = s.seq.Next(ctx, key, s.seedFor(day), func(ctx context.Context, seq int) error {
			order.OrderNumber = FormatNumber(day, seq)
			return insert(ctx)
		})
	}
	if err != nil {
		return Order{}, fmt.Errorf("orders: create: %w", err)
	}
	s.changed(ctx)
	if s.cfg.OnCreated != nil {
		s.cfg.OnCreated(created)
	}
	return created, nil
}

// Update applies a partial update. Status changes follow the transition rules and
// setting the current status again leaves it untouched.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (Order, error) {
	input.normalize()
	if err := s.validator.Struct(input).OrNil(); err != nil {
		return Order{}, err
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Order{}, err
	}

	set := map[string]any{}
	if input.Status != nil {
		target := Status(*input.Status)
		if err := CheckTransition(current.Status, target); err != nil {
			return Order{}, err
		}
		if target != current.Status {
			set[FieldStatus] = string(target)
			if target == StatusDelivered && input.ActualDeliveryDate == nil && current.ActualDeliveryDate == nil {
				delivered := shared.Timestamp(shared.AsOfFromContext(ctx))
				set[FieldActualDeliveryDate] = &delivered
			}
		}
	}
	if input.ExpectedDeliveryDate != nil {
		set[FieldExpectedDeliveryDate] = input.ExpectedDeliveryDate.UTC()
	}
	if input.ActualDeliveryDate != nil {
		delivered := input.ActualDeliveryDate.UTC()
		set[FieldActualDeliveryDate] = &delivered
	}
	if input.Notes != nil {
		set[FieldNotes] = input.Notes
	}
	if input.PaymentStatus != nil {
		set[FieldPaymentStatus] = *input.PaymentStatus
	}
	if input.PaymentMethod != nil {
		set[FieldPaymentMethod] = *input.PaymentMethod
	}
	if len(set) == 0 {
		return current, nil
	}
	return s.apply(ctx, current, set)
}

// Cancel moves an order to Cancelled.
func (s *Service) Cancel(ctx context.Context, id string) (Order, error) {
	status := string(StatusCancelled)
	return s.Update(ctx, id, UpdateInput{Status: &status})
}

// MarkDelivered moves an order to Delivered and records when it arrived. An order
// that is already delivered is returned unchanged.
func (s *Service) MarkDelivered(ctx context.Context, id string, deliveredAt time.Time) (Order, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Order{}, err
	}
	if current.Status == StatusDelivered {
		return current, nil
	}
	if err := CheckTransition(current.Status, StatusDelivered); err != nil {
		return Order{}, err
	}
	delivered := deliveredAt.UTC()
	return s.apply(ctx, current, map[string]any{
		FieldStatus:             string(StatusDelivered),
		FieldActualDeliveryDate: &delivered,
	})
}

// Get returns one order.
func (s *Service) Get(ctx context.Context, id string) (Order, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns orders matching params, newest first.
func (s *Service) List(ctx context.Context, params ListParams) ([]Order, error) {
	return s.repo.Find(ctx, BuildQuery(params))
}

// BySupplier returns every order placed with a supplier, newest first.
func (s *Service) BySupplier(ctx context.Context, supplierID string) ([]Order, error) {
	return s.List(ctx, ListParams{Filter: Filter{SupplierID: &supplierID}})
}

// CheckTransition reports whether an order may move from one status to another.
func CheckTransition(from, to Status) error {
	if from == to {
		return nil
	}
	if from.Terminal() {
		return shared.Conflict("order is %s and cannot become %s", from, to)
	}
	return nil
}

// apply writes set guarded on the state the caller read, so concurrent transitions
// cannot both succeed.
func (s *Service) apply(ctx context.Context, current Order, set map[string]any) (Order, error) {
	set[FieldUpdatedAt] = shared.Timestamp(shared.AsOfFromContext(ctx))
	updated, err := s.repo.Update(ctx, current.ID, store.Patch{
		Set: set,
		Guard: store.And(
			store.Eq(FieldUpdatedAt, current.UpdatedAt),
			store.Eq(FieldStatus, string(current.Status)),
		),
	})
	if errors.Is(err, store.ErrGuardRejected) {
		return Order{}, shared.Conflict("order %q was modified concurrently", current.ID)
	}
	if err != nil {
		return Order{}, err
	}
	s.changed(ctx)
	return updated, nil
}

// checkReferences confirms the supplier and every distinct medicine exist.
func (s *Service) checkReferences(ctx context.Context, input CreateInput) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(8)
	if s.suppliers != nil {
		g.Go(func() error { return mustExist(gctx, s.suppliers, "supplier", input.SupplierID) })
	}
	if s.medicines != nil {
		seen := make(map[string]struct{}, len(input.Items))
		for _, item := range input.Items {
			if _, dup := seen[item.MedicineID]; dup {
				continue
			}
			seen[item.MedicineID] = struct{}{}
			id := item.MedicineID
			g.Go(func() error { return mustExist(gctx, s.medicines, "medicine", id) })
		}
	}
	return g.Wait()
}

func mustExist(ctx context.Context, checker Checker, kind, id string) error {
	ok, err := checker.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NotFound(kind, id)
	}
	return nil
}

// seedFor finds the highest sequence already used on day, for counters that do not
// exist yet.
func (s *Service) seedFor(day string) store.SeedFunc {
	return func(ctx context.Context) (int, error) {
		existing, err := s.repo.Find(ctx, store.Query{Filter: numberDayExpr(day)})
		if err != nil {
			return 0, err
		}
		highest := 0
		for _, o := range existing {
			d, seq, err := ParseNumber(o.OrderNumber)
			if err != nil || d != day {
				continue
			}
			if seq > highest {
				highest = seq
			}
		}
		return highest, nil
	}
}

func (s *Service) changed(ctx context.Context) {
	if s.notifier != nil {
		s.notifier.Invalidate(ctx)
	}
}
