package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refnorm/internal/models"
)

func TestConfig_DefaultValues(t *testing.T) {
	cfg := NewConfig()

	// Test default values
	assert.Equal(t, "temp", cfg.IDPrefix)
	assert.True(t, cfg.Output.Pretty)
	assert.True(t, cfg.Output.Dedupe)
	assert.Equal(t, []string{"items", "orderItems"}, cfg.Entities.Order.ItemKeys)
	assert.Contains(t, cfg.Entities.Invoice.ItemKeys, "invoiceItems")
	assert.Equal(t, 1, cfg.Status.Labels["pending"])
	assert.Equal(t, 6, cfg.Status.Labels["completed"])
}

func TestConfig_Validate(t *testing.T) {
	t.Run("defaults are valid", func(t *testing.T) {
		assert.NoError(t, NewConfig().Validate())
	})

	t.Run("empty prefix rejected", func(t *testing.T) {
		cfg := NewConfig()
		cfg.IDPrefix = "  "
		assert.Error(t, cfg.Validate())
	})

	t.Run("dashed prefix rejected", func(t *testing.T) {
		cfg := NewConfig()
		cfg.IDPrefix = "tmp-id"
		assert.Error(t, cfg.Validate())
	})

	t.Run("out-of-range status label rejected", func(t *testing.T) {
		cfg := NewConfig()
		cfg.Status.Labels["archived"] = 9
		assert.Error(t, cfg.Validate())
	})
}

func TestConfig_LoadFromYAML(t *testing.T) {
	yamlContent := `
id_prefix: "local"
output:
  pretty: false
  dedupe: false
entities:
  order:
    item_keys: ["lines"]
    aliases:
      orderNumber: ["soNumber"]
`

	// Create temp file
	tmpFile, err := os.CreateTemp("", "config_test_*.yml")
	require.NoError(t, err)
	defer func() { _ = os.Remove(tmpFile.Name()) }()

	_, err = tmpFile.WriteString(yamlContent)
	require.NoError(t, err)
	_ = tmpFile.Close()

	// Load config
	cfg, err := LoadConfig(tmpFile.Name())
	require.NoError(t, err)

	// Verify values
	assert.Equal(t, "local", cfg.IDPrefix)
	assert.False(t, cfg.Output.Pretty)
	assert.False(t, cfg.Output.Dedupe)
	assert.Equal(t, []string{"lines"}, cfg.Entities.Order.ItemKeys)
	assert.Equal(t, []string{"soNumber"}, cfg.Entities.Order.Aliases["orderNumber"])

	// Sections the file does not mention keep their defaults
	assert.Contains(t, cfg.Entities.Invoice.ItemKeys, "invoiceItems")
	assert.Equal(t, 1, cfg.Status.Labels["pending"])
}

func TestConfig_LoadInvalidFile(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig("/non/existent/config.yml")
		assert.Error(t, err)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		tmpFile, err := os.CreateTemp("", "config_bad_*.yml")
		require.NoError(t, err)
		defer func() { _ = os.Remove(tmpFile.Name()) }()

		_, err = tmpFile.WriteString("id_prefix: [unclosed")
		require.NoError(t, err)
		_ = tmpFile.Close()

		_, err = LoadConfig(tmpFile.Name())
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		tmpFile, err := os.CreateTemp("", "config_invalid_*.yml")
		require.NoError(t, err)
		defer func() { _ = os.Remove(tmpFile.Name()) }()

		_, err = tmpFile.WriteString(`id_prefix: "has-dash"`)
		require.NoError(t, err)
		_ = tmpFile.Close()

		_, err = LoadConfig(tmpFile.Name())
		assert.Error(t, err)
	})
}

func TestConfig_Entity(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, cfg.Entities.Order, cfg.Entity(models.EntityOrder))
	assert.Equal(t, cfg.Entities.Invoice, cfg.Entity(models.EntityInvoice))
	assert.Equal(t, cfg.Entities.Customer, cfg.Entity(models.EntityCustomer))
	assert.Equal(t, cfg.Entities.Product, cfg.Entity(models.EntityProduct))
	assert.Equal(t, cfg.Entities.LineItem, cfg.Entity(models.EntityLineItem))
	assert.Equal(t, cfg.Entities.Order, cfg.Entity(models.EntityKind("bogus")), "unknown kinds fall back to order conventions")
}

func TestEntityConfig_Keys(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, []string{"invoiceNumber", "number"}, cfg.Entities.Invoice.Keys("orderNumber"))
	assert.Equal(t, []string{"somethingElse"}, cfg.Entities.Invoice.Keys("somethingElse"), "unaliased fields look up their own name")
}

func TestStatusFromLabel(t *testing.T) {
	cfg := NewConfig()

	s, ok := cfg.StatusFromLabel("Pending")
	assert.True(t, ok)
	assert.Equal(t, models.StatusPending, s)

	s, ok = cfg.StatusFromLabel("  SHIPPED  ")
	assert.True(t, ok)
	assert.Equal(t, models.StatusShipped, s)

	_, ok = cfg.StatusFromLabel("nonsense")
	assert.False(t, ok)
}

func TestCanonicalKey(t *testing.T) {
	assert.Equal(t, "orderNumber", CanonicalKey("OrderNumber"))
	assert.Equal(t, "orderNumber", CanonicalKey("orderNumber"))
	assert.Equal(t, "customerId", CanonicalKey("customer_id"))
}
