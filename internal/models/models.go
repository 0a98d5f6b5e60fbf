package models

import "time"

// JSONValue is a generic type to represent any JSON value.
// This can be a string, number, boolean, null, object, or array.
// It is an alias, so the raw map and slice types produced by
// encoding/json convert directly into JSONObject and JSONArray.
type JSONValue = interface{}

// JSONObject represents a JSON object, which is a map of strings to JSONValues.
type JSONObject map[string]JSONValue

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// Reference marker keys emitted by serializers that preserve object identity
// (System.Text.Json with ReferenceHandler.Preserve). An object carrying KeyID
// declares an identity, KeyRef points back at a previously declared identity,
// and KeyValues wraps what would otherwise be a bare array.
const (
	KeyID     = "$id"
	KeyRef    = "$ref"
	KeyValues = "$values"
)

// KeyCircular marks the spot where a cyclic back-reference was cut during
// resolution. Callers must tolerate {"circular": true} anywhere a cycle existed.
const KeyCircular = "circular"

// Document holds a parsed JSON payload before resolution and normalization.
type Document struct {
	Root        JSONValue
	RootIsArray bool // True if the root of the JSON is an array vs an object
}

// Shape is the closed classification of payload shapes the pipeline accepts.
// Shape detection happens once, via Classify, instead of being re-derived
// ad hoc at every field access.
type Shape int

const (
	// ShapeScalar covers null, booleans, numbers and strings.
	ShapeScalar Shape = iota
	// ShapePlainObject is a JSON object without a $values wrapper key.
	ShapePlainObject
	// ShapePlainArray is a bare JSON array.
	ShapePlainArray
	// ShapeValuesWrapper is an object standing in for an array: {$id, $values: [...]}.
	ShapeValuesWrapper
)

// Classify determines the Shape of a JSON value.
func Classify(v JSONValue) Shape {
	if obj, ok := AsObject(v); ok {
		if _, wrapped := obj[KeyValues]; wrapped {
			return ShapeValuesWrapper
		}
		return ShapePlainObject
	}
	if _, ok := AsArray(v); ok {
		return ShapePlainArray
	}
	return ShapeScalar
}

// AsObject reports v as a JSONObject. It accepts both the named JSONObject
// type produced by the parser and the raw map type produced when callers
// hand in values straight from encoding/json.
func AsObject(v JSONValue) (JSONObject, bool) {
	switch t := v.(type) {
	case JSONObject:
		return t, true
	case map[string]interface{}:
		return JSONObject(t), true
	default:
		return nil, false
	}
}

// AsArray reports v as a JSONArray, accepting both the named and raw slice types.
func AsArray(v JSONValue) (JSONArray, bool) {
	switch t := v.(type) {
	case JSONArray:
		return t, true
	case []interface{}:
		return JSONArray(t), true
	default:
		return nil, false
	}
}

// EntityKind selects the field-name conventions used during normalization.
type EntityKind string

const (
	EntityOrder    EntityKind = "order"
	EntityInvoice  EntityKind = "invoice"
	EntityCustomer EntityKind = "customer"
	EntityProduct  EntityKind = "product"
	EntityLineItem EntityKind = "line_item"
)

// OrderStatus is the order lifecycle enum carried on the wire as an integer
// (or a numeric-looking string). Unrecognized values normalize to StatusDraft.
type OrderStatus int

const (
	StatusDraft OrderStatus = iota
	StatusPending
	StatusConfirmed
	StatusShipped
	StatusDelivered
	StatusCancelled
	StatusCompleted
)

var statusNames = [...]string{
	"Draft", "Pending", "Confirmed", "Shipped", "Delivered", "Cancelled", "Completed",
}

// Valid reports whether s is within the known status range.
func (s OrderStatus) Valid() bool {
	return s >= StatusDraft && s <= StatusCompleted
}

func (s OrderStatus) String() string {
	if !s.Valid() {
		return "Draft"
	}
	return statusNames[s]
}

// CustomerRecord is a normalized customer. When it appears nested inside an
// order, every field is independently defaulted; a partially-present source
// object never prevents the record from being built.
type CustomerRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// LineItemRecord is a normalized order/invoice line. Every numeric field is a
// finite number after normalization; Total is quantity*unitPrice when the
// source did not supply one directly.
type LineItemRecord struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Quantity    int64   `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
	Discount    float64 `json:"discount"`
	TaxRate     float64 `json:"taxRate"`
	TaxAmount   float64 `json:"taxAmount"`
	Total       float64 `json:"total"`
}

// ProductRecord is a normalized catalog product.
type ProductRecord struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	SKU         string  `json:"sku"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
}

// OrderRecord is the normalized order (and, with invoice field aliases, the
// normalized invoice). After normalization every field access is total: no
// field is missing, no number is NaN, and Items is never nil.
type OrderRecord struct {
	ID           string           `json:"id"`
	OrderNumber  string           `json:"orderNumber"`
	CustomerID   *int64           `json:"customerId"`
	CustomerName string           `json:"customerName"`
	Customer     *CustomerRecord  `json:"customer"`
	Status       OrderStatus      `json:"status"`
	StatusName   string           `json:"statusName"`
	OrderDate    time.Time        `json:"orderDate"`
	DueDate      *time.Time       `json:"dueDate"`
	Items        []LineItemRecord `json:"items"`
	SubTotal     float64          `json:"subTotal"`
	TaxAmount    float64          `json:"taxAmount"`
	ShippingCost float64          `json:"shippingCost"`
	Discount     float64          `json:"discount"`
	Total        float64          `json:"total"`
	Notes        string           `json:"notes"`
}
