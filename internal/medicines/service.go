package medicines

import (
	"context"
	"errors"
	"fmt"

	"github.com/odyssey-erp/pharmacy-inventory/internal/shared"
	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
)

// SupplierChecker confirms that a supplier reference resolves.
type SupplierChecker interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// ChangeNotifier is told about every successful write, e.g. to invalidate caches.
// Implementations deal with their own failures.
type ChangeNotifier interface {
	Invalidate(ctx context.Context)
}

// Service owns medicine validation and persistence.
type Service struct {
	repo      store.Collection[Medicine]
	suppliers SupplierChecker
	notifier  ChangeNotifier
	validator *shared.Validator
}

// NewService constructs the medicine service. notifier may be nil.
func NewService(repo store.Collection[Medicine], suppliers SupplierChecker, notifier ChangeNotifier) *Service {
	return &Service{repo: repo, suppliers: suppliers, notifier: notifier, validator: shared.NewValidator()}
}

// Create validates input and stores a new active medicine.
func (s *Service) Create(ctx context.Context, input CreateInput) (Medicine, error) {
	input.normalize()
	verr := s.validator.Struct(input)
	minLevel, maxLevel := DefaultMinStockLevel, DefaultMaxStockLevel
	if input.MinStockLevel != nil {
		minLevel = *input.MinStockLevel
	}
	if input.MaxStockLevel != nil {
		maxLevel = *input.MaxStockLevel
	}
	checkStockLevels(verr, minLevel, maxLevel)
	if err := verr.OrNil(); err != nil {
		return Medicine{}, err
	}
	if err := s.checkSupplier(ctx, input.SupplierID); err != nil {
		return Medicine{}, err
	}

	now := shared.Timestamp(shared.AsOfFromContext(ctx))
	med := Medicine{
		Name:          input.Name,
		Description:   input.Description,
		Manufacturer:  input.Manufacturer,
		Category:      Category(input.Category),
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		MinStockLevel: minLevel,
		MaxStockLevel: maxLevel,
		BatchNumber:   input.BatchNumber,
		ExpiryDate:    input.ExpiryDate.UTC(),
		SupplierID:    input.SupplierID,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	created, err := s.repo.Insert(ctx, med)
	if err != nil {
		return Medicine{}, fmt.Errorf("medicines: create: %w", err)
	}
	s.changed(ctx)
	return created, nil
}

// Update applies a partial update. The merged document is validated as a whole and
// the write only lands if nobody changed the medicine in between.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (Medicine, error) {
	input.normalize()
	verr := s.validator.Struct(input)
	if err := verr.OrNil(); err != nil {
		return Medicine{}, err
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Medicine{}, err
	}

	minLevel, maxLevel := current.MinStockLevel, current.MaxStockLevel
	if input.MinStockLevel != nil {
		minLevel = *input.MinStockLevel
	}
	if input.MaxStockLevel != nil {
		maxLevel = *input.MaxStockLevel
	}
	checkStockLevels(verr, minLevel, maxLevel)
	if err := verr.OrNil(); err != nil {
		return Medicine{}, err
	}
	if input.SupplierID != nil && *input.SupplierID != current.SupplierID {
		if err := s.checkSupplier(ctx, *input.SupplierID); err != nil {
			return Medicine{}, err
		}
	}

	patch := store.Patch{
		Set:   map[string]any{FieldUpdatedAt: shared.Timestamp(shared.AsOfFromContext(ctx))},
		Guard: store.Eq(FieldUpdatedAt, current.UpdatedAt),
	}
	setIf(patch.Set, FieldName, input.Name)
	if input.Description != nil {
		patch.Set[FieldDescription] = input.Description
	}
	setIf(patch.Set, FieldManufacturer, input.Manufacturer)
	setIf(patch.Set, FieldCategory, input.Category)
	setIf(patch.Set, FieldPrice, input.Price)
	setIf(patch.Set, FieldStockQuantity, input.StockQuantity)
	setIf(patch.Set, FieldMinStockLevel, input.MinStockLevel)
	setIf(patch.Set, FieldMaxStockLevel, input.MaxStockLevel)
	setIf(patch.Set, FieldBatchNumber, input.BatchNumber)
	if input.ExpiryDate != nil {
		patch.Set[FieldExpiryDate] = input.ExpiryDate.UTC()
	}
	setIf(patch.Set, FieldSupplierID, input.SupplierID)
	setIf(patch.Set, FieldIsActive, input.IsActive)

	updated, err := s.repo.Update(ctx, id, patch)
	if errors.Is(err, store.ErrGuardRejected) {
		return Medicine{}, shared.Conflict("medicine %q was modified concurrently", id)
	}
	if err != nil {
		return Medicine{}, err
	}
	s.changed(ctx)
	return updated, nil
}

// Delete soft-deletes a medicine; it stays retrievable by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	_, err := s.repo.Update(ctx, id, store.Patch{Set: map[string]any{
		FieldIsActive:  false,
		FieldUpdatedAt: shared.Timestamp(shared.AsOfFromContext(ctx)),
	}})
	if err != nil {
		return err
	}
	s.changed(ctx)
	return nil
}

// UpdateStock adds delta (which may be negative) to the stock atomically. A result
// below zero or above MaxStockQuantity is rejected without writing.
func (s *Service) UpdateStock(ctx context.Context, id string, delta int) (Medicine, error) {
	guard, rejected := store.Gte(FieldStockQuantity, -delta), "would make stock negative"
	if delta > 0 {
		guard, rejected = store.Lte(FieldStockQuantity, MaxStockQuantity-delta), fmt.Sprintf("would push stock above %d", MaxStockQuantity)
	}
	updated, err := s.repo.Update(ctx, id, store.Patch{
		Set:   map[string]any{FieldUpdatedAt: shared.Timestamp(shared.AsOfFromContext(ctx))},
		Inc:   map[string]int64{FieldStockQuantity: int64(delta)},
		Guard: guard,
	})
	if errors.Is(err, store.ErrGuardRejected) {
		return Medicine{}, shared.NewValidationError("quantity", rejected)
	}
	if err != nil {
		return Medicine{}, err
	}
	s.changed(ctx)
	return updated, nil
}

// Get returns a medicine regardless of its active flag.
func (s *Service) Get(ctx context.Context, id string) (Medicine, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns medicines matching params, evaluated at the context's as-of instant.
func (s *Service) List(ctx context.Context, params ListParams) ([]Medicine, error) {
	return s.repo.Find(ctx, BuildQuery(params, shared.AsOfFromContext(ctx)))
}

// BySupplier returns the active medicines of one supplier.
func (s *Service) BySupplier(ctx context.Context, supplierID string) ([]Medicine, error) {
	return s.List(ctx, ListParams{Filter: Filter{SupplierID: &supplierID}})
}

// Exists reports whether a medicine id resolves.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (s *Service) checkSupplier(ctx context.Context, supplierID string) error {
	if s.suppliers == nil {
		return nil
	}
	ok, err := s.suppliers.Exists(ctx, supplierID)
	if err != nil {
		return err
	}
	if !ok {
		return shared.NotFound("supplier", supplierID)
	}
	return nil
}

func (s *Service) changed(ctx context.Context) {
	if s.notifier != nil {
		s.notifier.Invalidate(ctx)
	}
}

func setIf[T any](set map[string]any, field string, value *T) {
	if value != nil {
		set[field] = *value
	}
}
