package graph

import (
	"context"
	"errors"
	"log/slog"

	graphql "github.com/graph-gophers/graphql-go"

	"github.com/odyssey-erp/pharmacy-inventory/internal/dashboard"
	"github.com/odyssey-erp/pharmacy-inventory/internal/medicines"
	"github.com/odyssey-erp/pharmacy-inventory/internal/orders"
	"github.com/odyssey-erp/pharmacy-inventory/internal/shared"
	"github.com/odyssey-erp/pharmacy-inventory/internal/suppliers"
)

// Services are the domain services behind the schema.
type Services struct {
	Medicines *medicines.Service
	Suppliers *suppliers.Service
	Orders    *orders.Service
	Dashboard *dashboard.Service
}

// Resolver is the root of both Query and Mutation.
type Resolver struct {
	medicines *medicines.Service
	suppliers *suppliers.Service
	orders    *orders.Service
	dashboard *dashboard.Service
	logger    *slog.Logger
	errors    ErrorRecorder
}

// NewResolver builds the root resolver. recorder may be nil.
func NewResolver(svc Services, logger *slog.Logger, recorder ErrorRecorder) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		medicines: svc.Medicines,
		suppliers: svc.Suppliers,
		orders:    svc.Orders,
		dashboard: svc.Dashboard,
		logger:    logger,
		errors:    recorder,
	}
}

type idArgs struct {
	ID graphql.ID
}

type supplierIDArgs struct {
	SupplierID graphql.ID
}

func page(limit, offset *int32) (shared.Page, error) {
	return shared.NewPage(intPtr(limit), intPtr(offset))
}

// Queries

func (r *Resolver) Medicines(ctx context.Context, args struct {
	Filter          *MedicineFilterInput
	Search          *string
	IncludeInactive *bool
	Limit           *int32
	Offset          *int32
}) ([]*MedicineResolver, error) {
	p, err := page(args.Limit, args.Offset)
	if err != nil {
		return nil, r.fail(ctx, "medicines", err)
	}
	params := medicines.ListParams{
		Filter:          args.Filter.toFilter(),
		Search:          stringOr(args.Search),
		IncludeInactive: boolOr(args.IncludeInactive),
		Limit:           p.Limit,
		Offset:          p.Offset,
	}
	list, err := r.medicines.List(ctx, params)
	if err != nil {
		return nil, r.fail(ctx, "medicines", err)
	}
	return r.medicineList(list), nil
}

func (r *Resolver) Medicine(ctx context.Context, args idArgs) (*MedicineResolver, error) {
	m, err := r.medicines.Get(ctx, string(args.ID))
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.fail(ctx, "medicine", err)
	}
	return &MedicineResolver{root: r, m: m}, nil
}

func (r *Resolver) MedicinesBySupplier(ctx context.Context, args supplierIDArgs) ([]*MedicineResolver, error) {
	list, err := r.medicines.BySupplier(ctx, string(args.SupplierID))
	if err != nil {
		return nil, r.fail(ctx, "medicinesBySupplier", err)
	}
	return r.medicineList(list), nil
}

func (r *Resolver) Suppliers(ctx context.Context, args struct {
	Search          *string
	IncludeInactive *bool
	Limit           *int32
	Offset          *int32
}) ([]*SupplierResolver, error) {
	p, err := page(args.Limit, args.Offset)
	if err != nil {
		return nil, r.fail(ctx, "suppliers", err)
	}
	list, err := r.suppliers.List(ctx, suppliers.ListParams{
		Search:          stringOr(args.Search),
		IncludeInactive: boolOr(args.IncludeInactive),
		Limit:           p.Limit,
		Offset:          p.Offset,
	})
	if err != nil {
		return nil, r.fail(ctx, "suppliers", err)
	}
	return supplierList(list), nil
}

func (r *Resolver) Supplier(ctx context.Context, args idArgs) (*SupplierResolver, error) {
	s, err := r.suppliers.Get(ctx, string(args.ID))
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.fail(ctx, "supplier", err)
	}
	return &SupplierResolver{s: s}, nil
}

func (r *Resolver) ActiveSuppliers(ctx context.Context) ([]*SupplierResolver, error) {
	list, err := r.suppliers.Active(ctx)
	if err != nil {
		return nil, r.fail(ctx, "activeSuppliers", err)
	}
	return supplierList(list), nil
}

func (r *Resolver) Orders(ctx context.Context, args struct {
	Filter *OrderFilterInput
	Limit  *int32
	Offset *int32
}) ([]*OrderResolver, error) {
	p, err := page(args.Limit, args.Offset)
	if err != nil {
		return nil, r.fail(ctx, "orders", err)
	}
	list, err := r.orders.List(ctx, orders.ListParams{
		Filter: args.Filter.toFilter(),
		Limit:  p.Limit,
		Offset: p.Offset,
	})
	if err != nil {
		return nil, r.fail(ctx, "orders", err)
	}
	return r.orderList(list), nil
}

func (r *Resolver) Order(ctx context.Context, args idArgs) (*OrderResolver, error) {
	o, err := r.orders.Get(ctx, string(args.ID))
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, r.fail(ctx, "order", err)
	}
	return &OrderResolver{root: r, o: o}, nil
}

func (r *Resolver) OrdersBySupplier(ctx context.Context, args supplierIDArgs) ([]*OrderResolver, error) {
	list, err := r.orders.BySupplier(ctx, string(args.SupplierID))
	if err != nil {
		return nil, r.fail(ctx, "ordersBySupplier", err)
	}
	return r.orderList(list), nil
}

func (r *Resolver) DashboardStats(ctx context.Context) (*DashboardStatsResolver, error) {
	stats, err := r.dashboard.Stats(ctx)
	if err != nil {
		return nil, r.fail(ctx, "dashboardStats", err)
	}
	return &DashboardStatsResolver{s: stats}, nil
}

// Mutations

func (r *Resolver) CreateMedicine(ctx context.Context, args struct{ Input MedicineInput }) (*MedicineResolver, error) {
	m, err := r.medicines.Create(ctx, args.Input.toCreate())
	if err != nil {
		return nil, r.fail(ctx, "createMedicine", err)
	}
	return &MedicineResolver{root: r, m: m}, nil
}

func (r *Resolver) UpdateMedicine(ctx context.Context, args struct {
	ID    graphql.ID
	Input MedicineUpdateInput
}) (*MedicineResolver, error) {
	m, err := r.medicines.Update(ctx, string(args.ID), args.Input.toUpdate())
	if err != nil {
		return nil, r.fail(ctx, "updateMedicine", err)
	}
	return &MedicineResolver{root: r, m: m}, nil
}

func (r *Resolver) DeleteMedicine(ctx context.Context, args idArgs) (bool, error) {
	if err := r.medicines.Delete(ctx, string(args.ID)); err != nil {
		return false, r.fail(ctx, "deleteMedicine", err)
	}
	return true, nil
}

func (r *Resolver) UpdateStock(ctx context.Context, args struct {
	ID       graphql.ID
	Quantity int32
}) (*MedicineResolver, error) {
	m, err := r.medicines.UpdateStock(ctx, string(args.ID), int(args.Quantity))
	if err != nil {
		return nil, r.fail(ctx, "updateStock", err)
	}
	return &MedicineResolver{root: r, m: m}, nil
}

func (r *Resolver) CreateSupplier(ctx context.Context, args struct{ Input SupplierInput }) (*SupplierResolver, error) {
	s, err := r.suppliers.Create(ctx, args.Input.toCreate())
	if err != nil {
		return nil, r.fail(ctx, "createSupplier", err)
	}
	return &SupplierResolver{s: s}, nil
}

func (r *Resolver) UpdateSupplier(ctx context.Context, args struct {
	ID    graphql.ID
	Input SupplierUpdateInput
}) (*SupplierResolver, error) {
	s, err := r.suppliers.Update(ctx, string(args.ID), args.Input.toUpdate())
	if err != nil {
		return nil, r.fail(ctx, "updateSupplier", err)
	}
	return &SupplierResolver{s: s}, nil
}

func (r *Resolver) DeleteSupplier(ctx context.Context, args idArgs) (bool, error) {
	if err := r.suppliers.Delete(ctx, string(args.ID)); err != nil {
		return false, r.fail(ctx, "deleteSupplier", err)
	}
	return true, nil
}

func (r *Resolver) CreateOrder(ctx context.Context, args struct{ Input OrderInput }) (*OrderResolver, error) {
	o, err := r.orders.Create(ctx, args.Input.toCreate())
	if err != nil {
		return nil, r.fail(ctx, "createOrder", err)
	}
	return &OrderResolver{root: r, o: o}, nil
}

func (r *Resolver) UpdateOrder(ctx context.Context, args struct {
	ID    graphql.ID
	Input OrderUpdateInput
}) (*OrderResolver, error) {
	o, err := r.orders.Update(ctx, string(args.ID), args.Input.toUpdate())
	if err != nil {
		return nil, r.fail(ctx, "updateOrder", err)
	}
	return &OrderResolver{root: r, o: o}, nil
}

func (r *Resolver) CancelOrder(ctx context.Context, args idArgs) (*OrderResolver, error) {
	o, err := r.orders.Cancel(ctx, string(args.ID))
	if err != nil {
		return nil, r.fail(ctx, "cancelOrder", err)
	}
	return &OrderResolver{root: r, o: o}, nil
}

func (r *Resolver) MarkOrderDelivered(ctx context.Context, args struct {
	ID           graphql.ID
	DeliveryDate Date
}) (*OrderResolver, error) {
	o, err := r.orders.MarkDelivered(ctx, string(args.ID), args.DeliveryDate.Time)
	if err != nil {
		return nil, r.fail(ctx, "markOrderDelivered", err)
	}
	return &OrderResolver{root: r, o: o}, nil
}

func (r *Resolver) medicineList(list []medicines.Medicine) []*MedicineResolver {
	out := make([]*MedicineResolver, len(list))
	for i, m := range list {
		out[i] = &MedicineResolver{root: r, m: m}
	}
	return out
}

func supplierList(list []suppliers.Supplier) []*SupplierResolver {
	out := make([]*SupplierResolver, len(list))
	for i, s := range list {
		out[i] = &SupplierResolver{s: s}
	}
	return out
}

func (r *Resolver) orderList(list []orders.Order) []*OrderResolver {
	out := make([]*OrderResolver, len(list))
	for i, o := range list {
		out[i] = &OrderResolver{root: r, o: o}
	}
	return out
}
