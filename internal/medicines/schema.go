package medicines

import (
	"time"

	"github.com/odyssey-erp/pharmacy-inventory/internal/store"
)

// Logical field names shared by filters, patches and store backends.
const (
	FieldID            = "id"
	FieldName          = "name"
	FieldDescription   = "description"
	FieldManufacturer  = "manufacturer"
	FieldCategory      = "category"
	FieldPrice         = "price"
	FieldStockQuantity = "stockQuantity"
	FieldMinStockLevel = "minStockLevel"
	FieldMaxStockLevel = "maxStockLevel"
	FieldBatchNumber   = "batchNumber"
	FieldExpiryDate    = "expiryDate"
	FieldSupplierID    = "supplierId"
	FieldIsActive      = "isActive"
	FieldCreatedAt     = "createdAt"
	FieldUpdatedAt     = "updatedAt"
)

const collection = "medicine"

// Schema maps Medicine fields for store backends.
var Schema = store.Schema[Medicine]{
	Name:  collection,
	ID:    func(m Medicine) string { return m.ID },
	SetID: func(m *Medicine, id string) { m.ID = id },
	Field: field,
	Set:   setField,
}

func field(m Medicine, name string) (any, bool) {
	switch name {
	case FieldID:
		return m.ID, true
	case FieldName:
		return m.Name, true
	case FieldDescription:
		if m.Description == nil {
			return "", true
		}
		return *m.Description, true
	case FieldManufacturer:
		return m.Manufacturer, true
	case FieldCategory:
		return string(m.Category), true
	case FieldPrice:
		return m.Price, true
	case FieldStockQuantity:
		return m.StockQuantity, true
	case FieldMinStockLevel:
		return m.MinStockLevel, true
	case FieldMaxStockLevel:
		return m.MaxStockLevel, true
	case FieldBatchNumber:
		return m.BatchNumber, true
	case FieldExpiryDate:
		return m.ExpiryDate, true
	case FieldSupplierID:
		return m.SupplierID, true
	case FieldIsActive:
		return m.IsActive, true
	case FieldCreatedAt:
		return m.CreatedAt, true
	case FieldUpdatedAt:
		return m.UpdatedAt, true
	}
	return nil, false
}

func setField(m *Medicine, name string, value any) error {
	var ok bool
	switch name {
	case FieldName:
		m.Name, ok = value.(string)
	case FieldDescription:
		m.Description, ok = value.(*string)
	case FieldManufacturer:
		m.Manufacturer, ok = value.(string)
	case FieldCategory:
		var s string
		s, ok = value.(string)
		m.Category = Category(s)
	case FieldPrice:
		m.Price, ok = value.(float64)
	case FieldStockQuantity:
		m.StockQuantity, ok = value.(int)
	case FieldMinStockLevel:
		m.MinStockLevel, ok = value.(int)
	case FieldMaxStockLevel:
		m.MaxStockLevel, ok = value.(int)
	case FieldBatchNumber:
		m.BatchNumber, ok = value.(string)
	case FieldExpiryDate:
		m.ExpiryDate, ok = value.(time.Time)
	case FieldSupplierID:
		m.SupplierID, ok = value.(string)
	case FieldIsActive:
		m.IsActive, ok = value.(bool)
	case FieldUpdatedAt:
		m.UpdatedAt, ok = value.(time.Time)
	default:
		return store.UnknownField(collection, name)
	}
	if !ok {
		return store.WrongType(collection, name, value)
	}
	return nil
}
