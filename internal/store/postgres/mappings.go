package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/odyssey-erp/pharmacy-inventory/internal/medicines"
	"github.com/odyssey-erp/pharmacy-inventory/internal/orders"
	"github.com/odyssey-erp/pharmacy-inventory/internal/suppliers"
)

// Medicines maps medicines.Medicine onto the medicines table.
var Medicines = Mapping[medicines.Medicine]{
	Table: "medicines",
	Kind:  "medicine",
	Columns: map[string]string{
		medicines.FieldID:            "id",
		medicines.FieldName:          "name",
		medicines.FieldDescription:   "description",
		medicines.FieldManufacturer:  "manufacturer",
		medicines.FieldCategory:      "category",
		medicines.FieldPrice:         "price",
		medicines.FieldStockQuantity: "stock_quantity",
		medicines.FieldMinStockLevel: "min_stock_level",
		medicines.FieldMaxStockLevel: "max_stock_level",
		medicines.FieldBatchNumber:   "batch_number",
		medicines.FieldExpiryDate:    "expiry_date",
		medicines.FieldSupplierID:    "supplier_id",
		medicines.FieldIsActive:      "is_active",
		medicines.FieldCreatedAt:     "created_at",
		medicines.FieldUpdatedAt:     "updated_at",
	},
	Select: []string{
		"id", "name", "description", "manufacturer", "category", "price", "stock_quantity",
		"min_stock_level", "max_stock_level", "batch_number", "expiry_date", "supplier_id",
		"is_active", "created_at", "updated_at",
	},
	Scan:  scanMedicine,
	SetID: func(m *medicines.Medicine, id string) { m.ID = id },
	Values: func(m medicines.Medicine) (map[string]any, error) {
		return map[string]any{
			"id":              m.ID,
			"name":            m.Name,
			"description":     m.Description,
			"manufacturer":    m.Manufacturer,
			"category":        string(m.Category),
			"price":           m.Price,
			"stock_quantity":  m.StockQuantity,
			"min_stock_level": m.MinStockLevel,
			"max_stock_level": m.MaxStockLevel,
			"batch_number":    m.BatchNumber,
			"expiry_date":     m.ExpiryDate,
			"supplier_id":     m.SupplierID,
			"is_active":       m.IsActive,
			"created_at":      m.CreatedAt,
			"updated_at":      m.UpdatedAt,
		}, nil
	},
}

func scanMedicine(row pgx.Row) (medicines.Medicine, error) {
	var (
		m        medicines.Medicine
		category string
	)
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Manufacturer, &category, &m.Price,
		&m.StockQuantity, &m.MinStockLevel, &m.MaxStockLevel, &m.BatchNumber, &m.ExpiryDate,
		&m.SupplierID, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return medicines.Medicine{}, err
	}
	m.Category = medicines.Category(category)
	m.ExpiryDate = m.ExpiryDate.UTC()
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return m, nil
}

// Suppliers maps suppliers.Supplier onto the suppliers table. The address is JSONB.
var Suppliers = Mapping[suppliers.Supplier]{
	Table: "suppliers",
	Kind:  "supplier",
	Columns: map[string]string{
		suppliers.FieldID:            "id",
		suppliers.FieldName:          "name",
		suppliers.FieldContactPerson: "contact_person",
		suppliers.FieldEmail:         "email",
		suppliers.FieldPhone:         "phone",
		suppliers.FieldAddress:       "address",
		suppliers.FieldLicenseNumber: "license_number",
		suppliers.FieldTaxID:         "tax_id",
		suppliers.FieldPaymentTerms:  "payment_terms",
		suppliers.FieldRating:        "rating",
		suppliers.FieldIsActive:      "is_active",
		suppliers.FieldNotes:         "notes",
		suppliers.FieldCreatedAt:     "created_at",
		suppliers.FieldUpdatedAt:     "updated_at",
	},
	Select: []string{
		"id", "name", "contact_person", "email", "phone", "address", "license_number",
		"tax_id", "payment_terms", "rating", "is_active", "notes", "created_at", "updated_at",
	},
	Scan:  scanSupplier,
	SetID: func(s *suppliers.Supplier, id string) { s.ID = id },
	Values: func(s suppliers.Supplier) (map[string]any, error) {
		address, err := json.Marshal(s.Address)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"id":             s.ID,
			"name":           s.Name,
			"contact_person": s.ContactPerson,
			"email":          s.Email,
			"phone":          s.Phone,
			"address":        address,
			"license_number": s.LicenseNumber,
			"tax_id":         s.TaxID,
			"payment_terms":  string(s.PaymentTerms),
			"rating":         s.Rating,
			"is_active":      s.IsActive,
			"notes":          s.Notes,
			"created_at":     s.CreatedAt,
			"updated_at":     s.UpdatedAt,
		}, nil
	},
	Encode: func(field string, value any) (any, error) {
		if field != suppliers.FieldAddress {
			return value, nil
		}
		addr, ok := value.(suppliers.Address)
		if !ok {
			return nil, fmt.Errorf("store/postgres: supplier address cannot hold %T", value)
		}
		return json.Marshal(addr)
	},
}

func scanSupplier(row pgx.Row) (suppliers.Supplier, error) {
	var (
		s       suppliers.Supplier
		address []byte
		terms   string
	)
	err := row.Scan(&s.ID, &s.Name, &s.ContactPerson, &s.Email, &s.Phone, &address,
		&s.LicenseNumber, &s.TaxID, &terms, &s.Rating, &s.IsActive, &s.Notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return suppliers.Supplier{}, err
	}
	if err := json.Unmarshal(address, &s.Address); err != nil {
		return suppliers.Supplier{}, fmt.Errorf("store/postgres: decode supplier address: %w", err)
	}
	s.PaymentTerms = suppliers.PaymentTerms(terms)
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return s, nil
}

// Orders maps orders.Order onto the orders table. Line items are JSONB.
var Orders = Mapping[orders.Order]{
	Table: "orders",
	Kind:  "order",
	Columns: map[string]string{
		orders.FieldID:                   "id",
		orders.FieldOrderNumber:          "order_number",
		orders.FieldSupplierID:           "supplier_id",
		orders.FieldItems:                "items",
		orders.FieldOrderDate:            "order_date",
		orders.FieldExpectedDeliveryDate: "expected_delivery_date",
		orders.FieldActualDeliveryDate:   "actual_delivery_date",
		orders.FieldStatus:               "status",
		orders.FieldTotalAmount:          "total_amount",
		orders.FieldTax:                  "tax",
		orders.FieldDiscount:             "discount",
		orders.FieldFinalAmount:          "final_amount",
		orders.FieldNotes:                "notes",
		orders.FieldPaymentStatus:        "payment_status",
		orders.FieldPaymentMethod:        "payment_method",
		orders.FieldCreatedAt:            "created_at",
		orders.FieldUpdatedAt:            "updated_at",
	},
	Select: []string{
		"id", "order_number", "supplier_id", "items", "order_date", "expected_delivery_date",
		"actual_delivery_date", "status", "total_amount", "tax", "discount", "final_amount",
		"notes", "payment_status", "payment_method", "created_at", "updated_at",
	},
	Scan:  scanOrder,
	SetID: func(o *orders.Order, id string) { o.ID = id },
	Values: func(o orders.Order) (map[string]any, error) {
		items := o.Items
		if items == nil {
			items = []orders.Item{}
		}
		raw, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		return map[string]any{
			"id":                     o.ID,
			"order_number":           o.OrderNumber,
			"supplier_id":            o.SupplierID,
			"items":                  raw,
			"order_date":             o.OrderDate,
			"expected_delivery_date": o.ExpectedDeliveryDate,
			"actual_delivery_date":   o.ActualDeliveryDate,
			"status":                 string(o.Status),
			"total_amount":           o.TotalAmount,
			"tax":                    o.Tax,
			"discount":               o.Discount,
			"final_amount":           o.FinalAmount,
			"notes":                  o.Notes,
			"payment_status":         string(o.PaymentStatus),
			"payment_method":         string(o.PaymentMethod),
			"created_at":             o.CreatedAt,
			"updated_at":             o.UpdatedAt,
		}, nil
	},
}

func scanOrder(row pgx.Row) (orders.Order, error) {
	var (
		o       orders.Order
		items   []byte
		status  string
		payment string
		method  string
		actual  pgtype.Timestamptz
	)
	err := row.Scan(&o.ID, &o.OrderNumber, &o.SupplierID, &items, &o.OrderDate, &o.ExpectedDeliveryDate,
		&actual, &status, &o.TotalAmount, &o.Tax, &o.Discount, &o.FinalAmount,
		&o.Notes, &payment, &method, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return orders.Order{}, err
	}
	if err := json.Unmarshal(items, &o.Items); err != nil {
		return orders.Order{}, fmt.Errorf("store/postgres: decode order items: %w", err)
	}
	if actual.Valid {
		utc := actual.Time.UTC()
		o.ActualDeliveryDate = &utc
	}
	o.Status = orders.Status(status)
	o.PaymentStatus = orders.PaymentStatus(payment)
	o.PaymentMethod = orders.PaymentMethod(method)
	o.OrderDate = o.OrderDate.UTC()
	o.ExpectedDeliveryDate = o.ExpectedDeliveryDate.UTC()
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	return o, nil
}
