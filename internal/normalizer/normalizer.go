// Package normalizer turns loosely-shaped, partially-missing raw records
// into fully-populated ones. Every normalization function is total: it
// never panics and never returns nil, whatever the input looks like. A
// field that cannot be extracted gets its documented default; a record
// without an identity gets a synthesized one.
package normalizer

import (
	"fmt"
	"math"
	"strings"
	"time"

	"refnorm/internal/coerce"
	"refnorm/internal/config"
	"refnorm/internal/models"
)

const unknownCustomerName = "Unknown Customer"

// Normalizer normalizes raw JSON values into records, using the configured
// field-name conventions. A Normalizer is stateless between calls and safe
// for concurrent use.
type Normalizer struct {
	cfg *config.Config
	now func() time.Time
}

// New creates a Normalizer with the default configuration.
func New() *Normalizer {
	return NewWithConfig(config.NewConfig())
}

// NewWithConfig creates a Normalizer with a custom configuration.
func NewWithConfig(cfg *config.Config) *Normalizer {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	return &Normalizer{cfg: cfg, now: time.Now}
}

// NormalizeOrder normalizes a raw order. Field extraction is isolated per
// field: a malformed nested customer, say, never prevents the items or the
// totals from being extracted.
func (n *Normalizer) NormalizeOrder(raw models.JSONValue) models.OrderRecord {
	return n.normalizeOrderLike(raw, models.EntityOrder)
}

// NormalizeInvoice normalizes a raw invoice through the order path, using
// the invoice field aliases (invoiceNumber, issueDate, dueDate).
func (n *Normalizer) NormalizeInvoice(raw models.JSONValue) models.OrderRecord {
	return n.normalizeOrderLike(raw, models.EntityInvoice)
}

func (n *Normalizer) normalizeOrderLike(raw models.JSONValue, kind models.EntityKind) models.OrderRecord {
	entity := n.cfg.Entity(kind)
	obj, ok := models.AsObject(raw)
	if !ok {
		// Callers must never receive a hole where a record should be:
		// a null or non-object source yields a synthesized placeholder.
		return n.placeholderOrder()
	}

	rec := models.OrderRecord{}

	rec.ID = coerce.NonEmptyString(lookup(obj, "id"), "")
	if rec.ID == "" {
		rec.ID = n.SynthesizeID()
	}

	rec.OrderNumber = coerce.NonEmptyString(lookupAliased(obj, entity, "orderNumber"), "")
	if rec.OrderNumber == "" {
		rec.OrderNumber = n.SynthesizeID()
	}

	rec.CustomerID = optionalInt(lookup(obj, "customerId"))
	rec.Customer = n.nestedCustomer(lookup(obj, "customer"))
	rec.CustomerName = n.customerName(obj, rec.Customer, rec.CustomerID)

	rec.Status = n.status(lookup(obj, "status"))
	rec.StatusName = rec.Status.String()

	rec.OrderDate = coerce.RequiredDate(lookupAliased(obj, entity, "orderDate"))
	rec.DueDate = coerce.OptionalDate(lookupAliased(obj, entity, "dueDate"))

	rec.Items = n.extractItems(obj, entity)

	rec.SubTotal = coerce.Number(lookup(obj, "subTotal"), 0)
	rec.TaxAmount = coerce.Number(lookup(obj, "taxAmount"), 0)
	rec.ShippingCost = coerce.Number(lookup(obj, "shippingCost"), 0)
	rec.Discount = coerce.Number(lookup(obj, "discount"), 0)
	rec.Total = coerce.Number(lookup(obj, "total"), math.NaN())
	if math.IsNaN(rec.Total) {
		rec.Total = rec.SubTotal + rec.ShippingCost + rec.TaxAmount - rec.Discount
	}

	rec.Notes = coerce.String(lookupAliased(obj, entity, "notes"), "")

	return rec
}

// NormalizeLineItem normalizes one order/invoice line.
func (n *Normalizer) NormalizeLineItem(raw models.JSONValue) models.LineItemRecord {
	entity := n.cfg.Entity(models.EntityLineItem)
	obj, ok := models.AsObject(raw)
	if !ok {
		return models.LineItemRecord{ID: n.SynthesizeID()}
	}

	item := models.LineItemRecord{}
	item.ID = coerce.NonEmptyString(lookup(obj, "id"), "")
	if item.ID == "" {
		item.ID = n.SynthesizeID()
	}
	item.ProductID = coerce.String(lookupAliased(obj, entity, "productId"), "")
	item.ProductName = coerce.NonEmptyString(lookupAliased(obj, entity, "productName"), "")
	item.Quantity = coerce.Int(lookup(obj, "quantity"), 0)
	item.UnitPrice = coerce.Number(lookup(obj, "unitPrice"), 0)
	item.Discount = coerce.Number(lookup(obj, "discount"), 0)
	item.TaxRate = coerce.Number(lookup(obj, "taxRate"), 0)
	item.TaxAmount = coerce.Number(lookup(obj, "taxAmount"), 0)
	item.Total = coerce.Number(lookup(obj, "total"), math.NaN())
	if math.IsNaN(item.Total) {
		item.Total = float64(item.Quantity) * item.UnitPrice
	}
	return item
}

// NormalizeCustomer normalizes a standalone customer record.
func (n *Normalizer) NormalizeCustomer(raw models.JSONValue) models.CustomerRecord {
	rec := n.customerFields(raw)
	if rec.ID == "" {
		rec.ID = n.SynthesizeID()
	}
	return rec
}

// NormalizeProduct normalizes a catalog product.
func (n *Normalizer) NormalizeProduct(raw models.JSONValue) models.ProductRecord {
	entity := n.cfg.Entity(models.EntityProduct)
	obj, ok := models.AsObject(raw)
	if !ok {
		return models.ProductRecord{ID: n.SynthesizeID()}
	}
	rec := models.ProductRecord{}
	rec.ID = coerce.NonEmptyString(lookup(obj, "id"), "")
	if rec.ID == "" {
		rec.ID = n.SynthesizeID()
	}
	rec.Name = coerce.NonEmptyString(lookupAliased(obj, entity, "name"), "")
	rec.SKU = coerce.String(lookupAliased(obj, entity, "sku"), "")
	rec.Description = coerce.String(lookupAliased(obj, entity, "description"), "")
	rec.Price = coerce.Number(lookupAliased(obj, entity, "price"), 0)
	return rec
}

// NormalizeOrderList normalizes a whole response body into order records,
// accepting a bare array, a $values wrapper, or a single object. Any other
// shape yields an empty (non-nil) list.
func (n *Normalizer) NormalizeOrderList(raw models.JSONValue) []models.OrderRecord {
	elems := listElements(raw)
	out := make([]models.OrderRecord, 0, len(elems))
	for _, elem := range elems {
		out = append(out, n.NormalizeOrder(elem))
	}
	return out
}

// NormalizeInvoiceList is NormalizeOrderList with invoice field aliases.
func (n *Normalizer) NormalizeInvoiceList(raw models.JSONValue) []models.OrderRecord {
	elems := listElements(raw)
	out := make([]models.OrderRecord, 0, len(elems))
	for _, elem := range elems {
		out = append(out, n.NormalizeInvoice(elem))
	}
	return out
}

// NormalizeCustomerList normalizes a response body into customer records.
func (n *Normalizer) NormalizeCustomerList(raw models.JSONValue) []models.CustomerRecord {
	elems := listElements(raw)
	out := make([]models.CustomerRecord, 0, len(elems))
	for _, elem := range elems {
		out = append(out, n.NormalizeCustomer(elem))
	}
	return out
}

// NormalizeProductList normalizes a response body into product records.
func (n *Normalizer) NormalizeProductList(raw models.JSONValue) []models.ProductRecord {
	elems := listElements(raw)
	out := make([]models.ProductRecord, 0, len(elems))
	for _, elem := range elems {
		out = append(out, n.NormalizeProduct(elem))
	}
	return out
}

// placeholderOrder is the record handed back for a null or non-object source.
func (n *Normalizer) placeholderOrder() models.OrderRecord {
	return models.OrderRecord{
		ID:           n.SynthesizeID(),
		OrderNumber:  n.SynthesizeID(),
		CustomerName: unknownCustomerName,
		Status:       models.StatusDraft,
		StatusName:   models.StatusDraft.String(),
		OrderDate:    n.now().UTC(),
		Items:        []models.LineItemRecord{},
	}
}

// customerName applies the fallback chain: explicit customerName field,
// nested customer name, "Customer #<id>", "Unknown Customer".
func (n *Normalizer) customerName(obj models.JSONObject, customer *models.CustomerRecord, customerID *int64) string {
	if name := coerce.NonEmptyString(lookup(obj, "customerName"), ""); name != "" {
		return name
	}
	if customer != nil && customer.Name != "" {
		return customer.Name
	}
	if customerID != nil {
		return fmt.Sprintf("Customer #%d", *customerID)
	}
	return unknownCustomerName
}

// nestedCustomer builds the nested customer record. A missing or non-object
// source yields nil; a partially-present object yields a record with each
// absent field independently defaulted.
func (n *Normalizer) nestedCustomer(raw models.JSONValue) *models.CustomerRecord {
	if _, ok := models.AsObject(raw); !ok {
		return nil
	}
	rec := n.customerFields(raw)
	return &rec
}

func (n *Normalizer) customerFields(raw models.JSONValue) models.CustomerRecord {
	entity := n.cfg.Entity(models.EntityCustomer)
	obj, ok := models.AsObject(raw)
	if !ok {
		return models.CustomerRecord{}
	}
	return models.CustomerRecord{
		ID:      coerce.String(lookup(obj, "id"), ""),
		Name:    coerce.NonEmptyString(lookupAliased(obj, entity, "name"), ""),
		Email:   coerce.String(lookupAliased(obj, entity, "email"), ""),
		Phone:   coerce.String(lookupAliased(obj, entity, "phone"), ""),
		Address: coerce.String(lookupAliased(obj, entity, "address"), ""),
	}
}

// status coerces a wire status into the enum. Numbers and numeric strings
// go through range checking; textual labels go through the configured label
// table; everything else is Draft.
func (n *Normalizer) status(raw models.JSONValue) models.OrderStatus {
	if code := coerce.Int(raw, -1); code >= 0 {
		s := models.OrderStatus(code)
		if s.Valid() {
			return s
		}
		return models.StatusDraft
	}
	if label, ok := raw.(string); ok {
		if s, found := n.cfg.StatusFromLabel(label); found {
			return s
		}
	}
	return models.StatusDraft
}

// extractItems pulls the line-item list out of an order object. The list
// may live under any configured key, as a bare array or a $values wrapper;
// any other shape, or no list at all, yields an empty (non-nil) slice.
func (n *Normalizer) extractItems(obj models.JSONObject, entity config.EntityConfig) []models.LineItemRecord {
	for _, key := range entity.ItemKeys {
		raw, present := get(obj, key)
		if !present {
			continue
		}
		elems := listElements(raw)
		out := make([]models.LineItemRecord, 0, len(elems))
		for _, elem := range elems {
			out = append(out, n.NormalizeLineItem(elem))
		}
		return out
	}
	return []models.LineItemRecord{}
}

// listElements flattens the accepted list shapes into a plain slice of
// elements: a bare array as-is, a $values wrapper unwrapped (recursively,
// in case the wrapper is itself wrapped), a single plain object as a
// one-element list, and anything else as empty.
func listElements(raw models.JSONValue) []models.JSONValue {
	switch models.Classify(raw) {
	case models.ShapePlainArray:
		arr, _ := models.AsArray(raw)
		return arr
	case models.ShapeValuesWrapper:
		obj, _ := models.AsObject(raw)
		return listElements(obj[models.KeyValues])
	case models.ShapePlainObject:
		return []models.JSONValue{raw}
	default:
		return nil
	}
}

// optionalInt reads a nullable integer field: nil when the source value is
// absent or non-numeric, a pointer otherwise.
func optionalInt(raw models.JSONValue) *int64 {
	f := coerce.Number(raw, math.NaN())
	if math.IsNaN(f) {
		return nil
	}
	i := int64(f)
	return &i
}

// lookup finds a field under its own key, tolerating casing differences
// (PascalCase payloads from .NET serializers match their camelCase names).
func lookup(obj models.JSONObject, key string) models.JSONValue {
	v, _ := get(obj, key)
	return v
}

// lookupAliased finds a canonical field under any of its configured source
// keys, in fallback order.
func lookupAliased(obj models.JSONObject, entity config.EntityConfig, canonical string) models.JSONValue {
	for _, key := range entity.Keys(canonical) {
		if v, ok := get(obj, key); ok && v != nil {
			return v
		}
	}
	return nil
}

func get(obj models.JSONObject, key string) (models.JSONValue, bool) {
	if v, ok := obj[key]; ok {
		return v, true
	}
	want := config.CanonicalKey(key)
	for k, v := range obj {
		// Serializer markers ($id, $ref, $values) are not record fields;
		// without this guard a preserved "$id" would fuzzy-match "id".
		if strings.HasPrefix(k, "$") {
			continue
		}
		if config.CanonicalKey(k) == want {
			return v, true
		}
	}
	return nil, false
}
