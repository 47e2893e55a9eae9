package suppliers

import (
	"context"
	"errors"
	"fmt"

	"github.com/odyssey-erp/pharmacy-inventory/internal/shared"
	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
)

// ChangeNotifier is told about every successful write.
type ChangeNotifier interface {
	Invalidate(ctx context.Context)
}

// Service owns supplier validation and persistence.
type Service struct {
	repo      store.Collection[Supplier]
	notifier  ChangeNotifier
	validator *shared.Validator
}

// NewService constructs the supplier service. notifier may be nil.
func NewService(repo store.Collection[Supplier], notifier ChangeNotifier) *Service {
	return &Service{repo: repo, notifier: notifier, validator: shared.NewValidator()}
}

// Create validates input and stores a new active supplier.
func (s *Service) Create(ctx context.Context, input CreateInput) (Supplier, error) {
	input.normalize()
	if err := s.validator.Struct(input).OrNil(); err != nil {
		return Supplier{}, err
	}
	now := shared.Timestamp(shared.AsOfFromContext(ctx))
	sup := Supplier{
		Name:          input.Name,
		ContactPerson: input.ContactPerson,
		Email:         input.Email,
		Phone:         input.Phone,
		Address:       input.Address,
		LicenseNumber: input.LicenseNumber,
		TaxID:         input.TaxID,
		PaymentTerms:  PaymentTerms(input.PaymentTerms),
		IsActive:      true,
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.Rating != nil {
		sup.Rating = *input.Rating
	}
	created, err := s.repo.Insert(ctx, sup)
	if err != nil {
		return Supplier{}, fmt.Errorf("suppliers: create: %w", err)
	}
	s.changed(ctx)
	return created, nil
}

// Update applies a partial update guarded by the supplier's last update instant.
func (s *Service) Update(ctx context.Context, id string, input UpdateInput) (Supplier, error) {
	input.normalize()
	if err := s.validator.Struct(input).OrNil(); err != nil {
		return Supplier{}, err
	}
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return Supplier{}, err
	}

	patch := store.Patch{
		Set:   map[string]any{FieldUpdatedAt: shared.Timestamp(shared.AsOfFromContext(ctx))},
		Guard: store.Eq(FieldUpdatedAt, current.UpdatedAt),
	}
	setIf(patch.Set, FieldName, input.Name)
	setIf(patch.Set, FieldContactPerson, input.ContactPerson)
	setIf(patch.Set, FieldEmail, input.Email)
	setIf(patch.Set, FieldPhone, input.Phone)
	setIf(patch.Set, FieldAddress, input.Address)
	setIf(patch.Set, FieldLicenseNumber, input.LicenseNumber)
	if input.TaxID != nil {
		patch.Set[FieldTaxID] = input.TaxID
	}
	setIf(patch.Set, FieldPaymentTerms, input.PaymentTerms)
	setIf(patch.Set, FieldRating, input.Rating)
	setIf(patch.Set, FieldIsActive, input.IsActive)
	if input.Notes != nil {
		patch.Set[FieldNotes] = input.Notes
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if errors.Is(err, store.ErrGuardRejected) {
		return Supplier{}, shared.Conflict("supplier %q was modified concurrently", id)
	}
	if err != nil {
		return Supplier{}, err
	}
	s.changed(ctx)
	return updated, nil
}

// Delete soft-deletes a supplier. Its medicines and orders are left untouched.
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

// Get returns a supplier regardless of its active flag.
func (s *Service) Get(ctx context.Context, id string) (Supplier, error) {
	return s.repo.FindByID(ctx, id)
}

// List returns suppliers ordered by name.
func (s *Service) List(ctx context.Context, params ListParams) ([]Supplier, error) {
	return s.repo.Find(ctx, BuildQuery(params))
}

// Active returns every active supplier ordered by name.
func (s *Service) Active(ctx context.Context) ([]Supplier, error) {
	return s.List(ctx, ListParams{})
}

// Exists reports whether id names a supplier, active or not.
func (s *Service) Exists(ctx context.Context, id string) (bool, error) {
	_, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, shared.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
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
