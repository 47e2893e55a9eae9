package graph

import (
	graphql "github.com/graph-gophers/graphql-go"

	"github.com/odyssey-erp/pharmacy-inventory/internal/medicines"
	"github.com/odyssey-erp/pharmacy-inventory/internal/orders"
	"github.com/odyssey-erp/pharmacy-inventory/internal/suppliers"
)

type MedicineInput struct {
	Name          string
	Description   *string
	Manufacturer  string
	Category      string
	Price         float64
	StockQuantity int32
	MinStockLevel *int32
	MaxStockLevel *int32
	BatchNumber   string
	ExpiryDate    Date
	SupplierID    graphql.ID
}

func (in MedicineInput) toCreate() medicines.CreateInput {
	return medicines.CreateInput{
		Name:          in.Name,
		Description:   in.Description,
		Manufacturer:  in.Manufacturer,
		Category:      in.Category,
		Price:         in.Price,
		StockQuantity: int(in.StockQuantity),
		MinStockLevel: intPtr(in.MinStockLevel),
		MaxStockLevel: intPtr(in.MaxStockLevel),
		BatchNumber:   in.BatchNumber,
		ExpiryDate:    in.ExpiryDate.Time,
		SupplierID:    string(in.SupplierID),
	}
}

type MedicineUpdateInput struct {
	Name          *string
	Description   *string
	Manufacturer  *string
	Category      *string
	Price         *float64
	StockQuantity *int32
	MinStockLevel *int32
	MaxStockLevel *int32
	BatchNumber   *string
	ExpiryDate    *Date
	SupplierID    *graphql.ID
	IsActive      *bool
}

func (in MedicineUpdateInput) toUpdate() medicines.UpdateInput {
	return medicines.UpdateInput{
		Name:          in.Name,
		Description:   in.Description,
		Manufacturer:  in.Manufacturer,
		Category:      in.Category,
		Price:         in.Price,
		StockQuantity: intPtr(in.StockQuantity),
		MinStockLevel: intPtr(in.MinStockLevel),
		MaxStockLevel: intPtr(in.MaxStockLevel),
		BatchNumber:   in.BatchNumber,
		ExpiryDate:    in.ExpiryDate.timePtr(),
		SupplierID:    idPtr(in.SupplierID),
		IsActive:      in.IsActive,
	}
}

type MedicineFilterInput struct {
	Category       *string
	Manufacturer   *string
	SupplierID     *graphql.ID
	IsLowStock     *bool
	IsExpired      *bool
	IsExpiringSoon *bool
}

func (in *MedicineFilterInput) toFilter() medicines.Filter {
	if in == nil {
		return medicines.Filter{}
	}
	f := medicines.Filter{
		Manufacturer:   in.Manufacturer,
		SupplierID:     idPtr(in.SupplierID),
		IsLowStock:     in.IsLowStock,
		IsExpired:      in.IsExpired,
		IsExpiringSoon: in.IsExpiringSoon,
	}
	if in.Category != nil {
		c := medicines.Category(*in.Category)
		f.Category = &c
	}
	return f
}

type AddressInput struct {
	Street  string
	City    string
	State   string
	ZipCode string
	Country string
}

func (in AddressInput) toAddress() suppliers.Address {
	return suppliers.Address{
		Street:  in.Street,
		City:    in.City,
		State:   in.State,
		ZipCode: in.ZipCode,
		Country: in.Country,
	}
}

type SupplierInput struct {
	Name          string
	ContactPerson string
	Email         string
	Phone         string
	Address       AddressInput
	LicenseNumber string
	TaxID         *string
	PaymentTerms  string
	Rating        *float64
	Notes         *string
}

func (in SupplierInput) toCreate() suppliers.CreateInput {
	return suppliers.CreateInput{
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address.toAddress(),
		LicenseNumber: in.LicenseNumber,
		TaxID:         in.TaxID,
		PaymentTerms:  in.PaymentTerms,
		Rating:        in.Rating,
		Notes:         in.Notes,
	}
}

type SupplierUpdateInput struct {
	Name          *string
	ContactPerson *string
	Email         *string
	Phone         *string
	Address       *AddressInput
	LicenseNumber *string
	TaxID         *string
	PaymentTerms  *string
	Rating        *float64
	IsActive      *bool
	Notes         *string
}

func (in SupplierUpdateInput) toUpdate() suppliers.UpdateInput {
	out := suppliers.UpdateInput{
		Name:          in.Name,
		ContactPerson: in.ContactPerson,
		Email:         in.Email,
		Phone:         in.Phone,
		LicenseNumber: in.LicenseNumber,
		TaxID:         in.TaxID,
		PaymentTerms:  in.PaymentTerms,
		Rating:        in.Rating,
		IsActive:      in.IsActive,
		Notes:         in.Notes,
	}
	if in.Address != nil {
		addr := in.Address.toAddress()
		out.Address = &addr
	}
	return out
}

type OrderItemInput struct {
	MedicineID graphql.ID
	Quantity   int32
	UnitPrice  float64
}

type OrderInput struct {
	OrderNumber          *string
	SupplierID           graphql.ID
	Items                []OrderItemInput
	ExpectedDeliveryDate Date
	Tax                  *float64
	Discount             *float64
	Notes                *string
	PaymentMethod        *string
}

func (in OrderInput) toCreate() orders.CreateInput {
	items := make([]orders.ItemInput, len(in.Items))
	for i, item := range in.Items {
		items[i] = orders.ItemInput{
			MedicineID: string(item.MedicineID),
			Quantity:   int(item.Quantity),
			UnitPrice:  item.UnitPrice,
		}
	}
	return orders.CreateInput{
		OrderNumber:          in.OrderNumber,
		SupplierID:           string(in.SupplierID),
		Items:                items,
		ExpectedDeliveryDate: in.ExpectedDeliveryDate.Time,
		Tax:                  in.Tax,
		Discount:             in.Discount,
		Notes:                in.Notes,
		PaymentMethod:        in.PaymentMethod,
	}
}

type OrderUpdateInput struct {
	ExpectedDeliveryDate *Date
	ActualDeliveryDate   *Date
	Status               *string
	Notes                *string
	PaymentStatus        *string
	PaymentMethod        *string
}

func (in OrderUpdateInput) toUpdate() orders.UpdateInput {
	return orders.UpdateInput{
		ExpectedDeliveryDate: in.ExpectedDeliveryDate.timePtr(),
		ActualDeliveryDate:   in.ActualDeliveryDate.timePtr(),
		Status:               in.Status,
		Notes:                in.Notes,
		PaymentStatus:        in.PaymentStatus,
		PaymentMethod:        in.PaymentMethod,
	}
}

type OrderFilterInput struct {
	Status        *string
	PaymentStatus *string
	SupplierID    *graphql.ID
	StartDate     *Date
	EndDate       *Date
}

func (in *OrderFilterInput) toFilter() orders.Filter {
	if in == nil {
		return orders.Filter{}
	}
	f := orders.Filter{
		SupplierID: idPtr(in.SupplierID),
		StartDate:  in.StartDate.timePtr(),
		EndDate:    in.EndDate.timePtr(),
	}
	if in.Status != nil {
		s := orders.Status(*in.Status)
		f.Status = &s
	}
	if in.PaymentStatus != nil {
		p := orders.PaymentStatus(*in.PaymentStatus)
		f.PaymentStatus = &p
	}
	return f
}

func intPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	n := int(*v)
	return &n
}

func idPtr(v *graphql.ID) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func stringOr(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func boolOr(v *bool) bool {
	return v != nil && *v
}
