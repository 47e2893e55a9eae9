package graph

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"
	"golang.org/x/sync/errgroup"

	"github.com/odyssey-erp/pharmacy-inventory/internal/dashboard"
	"github.com/odyssey-erp/pharmacy-inventory/internal/medicines"
	"github.com/odyssey-erp/pharmacy-inventory/internal/orders"
	"github.com/odyssey-erp/pharmacy-inventory/internal/shared"
	"github.com/odyssey-erp/pharmacy-inventory/internal/suppliers"
)

// itemLookupLimit bounds concurrent medicine lookups for one order.
const itemLookupLimit = 8

type MedicineResolver struct {
	root *Resolver
	m    medicines.Medicine
}

func (r *MedicineResolver) ID() graphql.ID { return graphql.ID(r.m.ID) }
func (r *MedicineResolver) Name() string { return r.m.Name }
func (r *MedicineResolver) Description() *string { return r.m.Description }
func (r *MedicineResolver) Manufacturer() string { return r.m.Manufacturer }
func (r *MedicineResolver) Category() string { return string(r.m.Category) }
func (r *MedicineResolver) Price() float64 { return r.m.Price }
func (r *MedicineResolver) StockQuantity() int32 { return int32(r.m.StockQuantity) }
func (r *MedicineResolver) MinStockLevel() int32 { return int32(r.m.MinStockLevel) }
func (r *MedicineResolver) MaxStockLevel() int32 { return int32(r.m.MaxStockLevel) }
func (r *MedicineResolver) BatchNumber() string { return r.m.BatchNumber }
func (r *MedicineResolver) ExpiryDate() Date { return newDate(r.m.ExpiryDate) }
func (r *MedicineResolver) SupplierID() graphql.ID { return graphql.ID(r.m.SupplierID) }
func (r *MedicineResolver) IsActive() bool { return r.m.IsActive }
func (r *MedicineResolver) IsLowStock() bool { return r.m.IsLowStock() }
func (r *MedicineResolver) CreatedAt() Date { return newDate(r.m.CreatedAt) }
func (r *MedicineResolver) UpdatedAt() Date { return newDate(r.m.UpdatedAt) }

func (r *MedicineResolver) IsExpired(ctx context.Context) bool {
	return r.m.IsExpired(shared.AsOfFromContext(ctx))
}

func (r *MedicineResolver) IsExpiringSoon(ctx context.Context) bool {
	return r.m.IsExpiringSoon(shared.AsOfFromContext(ctx))
}

func (r *MedicineResolver) DaysUntilExpiry(ctx context.Context) int32 {
	return int32(r.m.DaysUntilExpiry(shared.AsOfFromContext(ctx)))
}

func (r *MedicineResolver) Supplier(ctx context.Context) (*SupplierResolver, error) {
	s, err := r.root.suppliers.Get(ctx, r.m.SupplierID)
	if err != nil {
		return nil, r.root.fail(ctx, "medicine.supplier", err)
	}
	return &SupplierResolver{s: s}, nil
}

type SupplierResolver struct {
	s suppliers.Supplier
}

func (r *SupplierResolver) ID() graphql.ID { return graphql.ID(r.s.ID) }
func (r *SupplierResolver) Name() string { return r.s.Name }
func (r *SupplierResolver) ContactPerson() string { return r.s.ContactPerson }
func (r *SupplierResolver) Email() string { return r.s.Email }
func (r *SupplierResolver) Phone() string { return r.s.Phone }
func (r *SupplierResolver) LicenseNumber() string { return r.s.LicenseNumber }
func (r *SupplierResolver) TaxID() *string { return r.s.TaxID }
func (r *SupplierResolver) PaymentTerms() string { return string(r.s.PaymentTerms) }
func (r *SupplierResolver) Rating() float64 { return r.s.Rating }
func (r *SupplierResolver) IsActive() bool { return r.s.IsActive }
func (r *SupplierResolver) Notes() *string { return r.s.Notes }
func (r *SupplierResolver) FullAddress() string { return r.s.FullAddress() }
func (r *SupplierResolver) CreatedAt() Date { return newDate(r.s.CreatedAt) }
func (r *SupplierResolver) UpdatedAt() Date { return newDate(r.s.UpdatedAt) }

func (r *SupplierResolver) Address() *AddressResolver {
	return &AddressResolver{a: r.s.Address}
}

type AddressResolver struct {
	a suppliers.Address
}

func (r *AddressResolver) Street() string { return r.a.Street }
func (r *AddressResolver) City() string { return r.a.City }
func (r *AddressResolver) State() string { return r.a.State }
func (r *AddressResolver) ZipCode() string { return r.a.ZipCode }
func (r *AddressResolver) Country() string { return r.a.Country }

type OrderResolver struct {
	root *Resolver
	o    orders.Order
}

func (r *OrderResolver) ID() graphql.ID { return graphql.ID(r.o.ID) }
func (r *OrderResolver) OrderNumber() string { return r.o.OrderNumber }
func (r *OrderResolver) SupplierID() graphql.ID { return graphql.ID(r.o.SupplierID) }
func (r *OrderResolver) OrderDate() Date { return newDate(r.o.OrderDate) }
func (r *OrderResolver) ExpectedDeliveryDate() Date { return newDate(r.o.ExpectedDeliveryDate) }
func (r *OrderResolver) ActualDeliveryDate() *Date { return optionalDate(r.o.ActualDeliveryDate) }
func (r *OrderResolver) Status() string { return string(r.o.Status) }
func (r *OrderResolver) TotalAmount() float64 { return r.o.TotalAmount }
func (r *OrderResolver) Tax() float64 { return r.o.Tax }
func (r *OrderResolver) Discount() float64 { return r.o.Discount }
func (r *OrderResolver) FinalAmount() float64 { return r.o.FinalAmount }
func (r *OrderResolver) Notes() *string { return r.o.Notes }
func (r *OrderResolver) PaymentStatus() string { return string(r.o.PaymentStatus) }
func (r *OrderResolver) PaymentMethod() string { return string(r.o.PaymentMethod) }
func (r *OrderResolver) CreatedAt() Date { return newDate(r.o.CreatedAt) }
func (r *OrderResolver) UpdatedAt() Date { return newDate(r.o.UpdatedAt) }

func (r *OrderResolver) OrderAge(ctx context.Context) int32 {
	return int32(r.o.OrderAge(shared.AsOfFromContext(ctx)))
}

func (r *OrderResolver) IsOverdue(ctx context.Context) bool {
	return r.o.IsOverdue(shared.AsOfFromContext(ctx))
}

func (r *OrderResolver) Supplier(ctx context.Context) (*SupplierResolver, error) {
	s, err := r.root.suppliers.Get(ctx, r.o.SupplierID)
	if err != nil {
		return nil, r.root.fail(ctx, "order.supplier", err)
	}
	return &SupplierResolver{s: s}, nil
}

// Items resolves each distinct medicine once, concurrently.
func (r *OrderResolver) Items(ctx context.Context) ([]*OrderItemResolver, error) {
	found := make(map[string]*MedicineResolver, len(r.o.Items))
	for _, item := range r.o.Items {
		found[item.MedicineID] = nil
	}
	ids := make([]string, 0, len(found))
	for id := range found {
		ids = append(ids, id)
	}
	resolved := make([]*MedicineResolver, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(itemLookupLimit)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			m, err := r.root.medicines.Get(gctx, id)
			if err != nil {
				return err
			}
			resolved[i] = &MedicineResolver{root: r.root, m: m}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, r.root.fail(ctx, "order.items", err)
	}
	for i, id := range ids {
		found[id] = resolved[i]
	}

	out := make([]*OrderItemResolver, len(r.o.Items))
	for i, item := range r.o.Items {
		out[i] = &OrderItemResolver{item: item, medicine: found[item.MedicineID]}
	}
	return out, nil
}

type OrderItemResolver struct {
	item     orders.Item
	medicine *MedicineResolver
}

func (r *OrderItemResolver) MedicineID() graphql.ID { return graphql.ID(r.item.MedicineID) }
func (r *OrderItemResolver) Medicine() *MedicineResolver { return r.medicine }
func (r *OrderItemResolver) Quantity() int32 { return int32(r.item.Quantity) }
func (r *OrderItemResolver) UnitPrice() float64 { return r.item.UnitPrice }
func (r *OrderItemResolver) TotalPrice() float64 { return r.item.TotalPrice }

type DashboardStatsResolver struct {
	s dashboard.Stats
}

func (r *DashboardStatsResolver) TotalMedicines() int32 { return int32(r.s.TotalMedicines) }
func (r *DashboardStatsResolver) LowStockMedicines() int32 { return int32(r.s.LowStockMedicines) }
func (r *DashboardStatsResolver) ExpiredMedicines() int32 { return int32(r.s.ExpiredMedicines) }
func (r *DashboardStatsResolver) ExpiringSoonMedicines() int32 { return int32(r.s.ExpiringSoonMedicines) }
func (r *DashboardStatsResolver) TotalSuppliers() int32 { return int32(r.s.TotalSuppliers) }
func (r *DashboardStatsResolver) ActiveSuppliers() int32 { return int32(r.s.ActiveSuppliers) }
func (r *DashboardStatsResolver) TotalOrders() int32 { return int32(r.s.TotalOrders) }
func (r *DashboardStatsResolver) PendingOrders() int32 { return int32(r.s.PendingOrders) }
func (r *DashboardStatsResolver) TotalRevenue() float64 { return r.s.TotalRevenue }
func (r *DashboardStatsResolver) MonthlyRevenue() float64 { return r.s.MonthlyRevenue }
