package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/iancoleman/strcase"
	"gopkg.in/yaml.v3"

	"refnorm/internal/models"
)

// Config represents the complete configuration for refnorm
type Config struct {
	// IDPrefix is the prefix of synthesized identities ("temp" gives
	// ids like "temp-1716212345678-x1k9q2").
	IDPrefix string         `yaml:"id_prefix"`
	Output   OutputConfig   `yaml:"output"`
	Status   StatusConfig   `yaml:"status"`
	Entities EntitiesConfig `yaml:"entities"`
}

// OutputConfig controls how normalized records are written out
type OutputConfig struct {
	Pretty bool `yaml:"pretty"`
	Dedupe bool `yaml:"dedupe"`
}

// StatusConfig supplements numeric status coercion with a name table, so
// payloads carrying "Pending" instead of 1 still normalize correctly.
type StatusConfig struct {
	Labels map[string]int `yaml:"labels"`
}

// EntitiesConfig holds the per-entity field-name conventions
type EntitiesConfig struct {
	Order    EntityConfig `yaml:"order"`
	Invoice  EntityConfig `yaml:"invoice"`
	Customer EntityConfig `yaml:"customer"`
	Product  EntityConfig `yaml:"product"`
	LineItem EntityConfig `yaml:"line_item"`
}

// EntityConfig describes where an entity's fields may live in raw payloads.
// Aliases maps a canonical field name to the source keys that may carry it,
// in fallback order; ItemKeys lists the keys that may hold the line-item
// collection.
type EntityConfig struct {
	ItemKeys []string            `yaml:"item_keys"`
	Aliases  map[string][]string `yaml:"aliases"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		IDPrefix: "temp",
		Output: OutputConfig{
			Pretty: true,
			Dedupe: true,
		},
		Status: StatusConfig{
			Labels: map[string]int{
				"draft":     0,
				"pending":   1,
				"confirmed": 2,
				"shipped":   3,
				"delivered": 4,
				"cancelled": 5,
				"canceled":  5,
				"completed": 6,
			},
		},
		Entities: EntitiesConfig{
			Order: EntityConfig{
				ItemKeys: []string{"items", "orderItems"},
				Aliases: map[string][]string{
					"orderNumber": {"orderNumber", "number"},
					"orderDate":   {"orderDate", "createdAt", "date"},
					"dueDate":     {"dueDate"},
					"notes":       {"notes", "note"},
				},
			},
			Invoice: EntityConfig{
				ItemKeys: []string{"items", "invoiceItems", "lineItems"},
				Aliases: map[string][]string{
					"orderNumber": {"invoiceNumber", "number"},
					"orderDate":   {"issueDate", "invoiceDate", "date", "createdAt"},
					"dueDate":     {"dueDate", "paymentDueDate"},
					"notes":       {"notes", "note"},
				},
			},
			Customer: EntityConfig{
				Aliases: map[string][]string{
					"name":    {"name", "customerName", "fullName"},
					"email":   {"email", "emailAddress"},
					"phone":   {"phone", "phoneNumber"},
					"address": {"address", "shippingAddress"},
				},
			},
			Product: EntityConfig{
				Aliases: map[string][]string{
					"name":        {"name", "productName"},
					"sku":         {"sku", "code"},
					"price":       {"price", "unitPrice"},
					"description": {"description"},
				},
			},
			LineItem: EntityConfig{
				Aliases: map[string][]string{
					"productName": {"productName", "description", "name"},
					"productId":   {"productId"},
				},
			},
		},
	}
}

// LoadConfig reads a YAML config file, overlaying it onto the defaults so a
// partial file only overrides what it mentions.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file '%s': %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file '%s': %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration for values the pipeline cannot work with
func (c *Config) Validate() error {
	if strings.TrimSpace(c.IDPrefix) == "" {
		return fmt.Errorf("id_prefix must not be empty")
	}
	if strings.Contains(c.IDPrefix, "-") {
		// The prefix is separated from the timestamp with a dash, so a
		// dash inside it would make synthesized ids ambiguous.
		return fmt.Errorf("id_prefix must not contain '-'")
	}
	for label, code := range c.Status.Labels {
		if code < int(models.StatusDraft) || code > int(models.StatusCompleted) {
			return fmt.Errorf("status label '%s' maps to %d, outside the valid range 0..6", label, code)
		}
	}
	return nil
}

// Entity returns the field conventions for the given entity kind.
func (c *Config) Entity(kind models.EntityKind) EntityConfig {
	switch kind {
	case models.EntityInvoice:
		return c.Entities.Invoice
	case models.EntityCustomer:
		return c.Entities.Customer
	case models.EntityProduct:
		return c.Entities.Product
	case models.EntityLineItem:
		return c.Entities.LineItem
	default:
		return c.Entities.Order
	}
}

// Keys returns the source keys that may carry the canonical field, in
// fallback order. A field with no alias entry is looked up under its own name.
func (e EntityConfig) Keys(canonical string) []string {
	if keys, ok := e.Aliases[canonical]; ok && len(keys) > 0 {
		return keys
	}
	return []string{canonical}
}

// StatusFromLabel resolves a textual status name via the label table.
func (c *Config) StatusFromLabel(label string) (models.OrderStatus, bool) {
	code, ok := c.Status.Labels[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return models.StatusDraft, false
	}
	return models.OrderStatus(code), true
}

// CanonicalKey reduces a source key to the camelCase form used in alias
// tables. .NET backends routinely emit PascalCase ("OrderNumber"); matching
// on the canonical form makes the lookup casing-agnostic.
func CanonicalKey(key string) string {
	return strcase.ToLowerCamel(key)
}
