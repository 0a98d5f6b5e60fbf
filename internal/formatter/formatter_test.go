package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refnorm/internal/models"
)

func TestFormat_Pretty(t *testing.T) {
	f := NewFormatter()
	require.True(t, f.Pretty)

	out, err := f.Format([]models.OrderRecord{{ID: "1", OrderNumber: "SO-1", Items: []models.LineItemRecord{}}})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "["))
	assert.Contains(t, out, "\n  ")
	assert.Contains(t, out, `"orderNumber": "SO-1"`)
}

func TestFormat_Compact(t *testing.T) {
	f := &Formatter{Pretty: false}

	out, err := f.Format([]models.OrderRecord{{ID: "1", Items: []models.LineItemRecord{}}})
	require.NoError(t, err)

	assert.NotContains(t, out, "\n")
	assert.Contains(t, out, `"id":"1"`)
}

func TestFormat_RoundTrips(t *testing.T) {
	f := NewFormatter()
	records := []models.OrderRecord{{ID: "1", CustomerName: "Acme", Items: []models.LineItemRecord{{ID: "a", Quantity: 2, UnitPrice: 10.5, Total: 21}}}}

	out, err := f.Format(records)
	require.NoError(t, err)

	var decoded []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Acme", decoded[0]["customerName"])

	items, ok := decoded[0]["items"].([]interface{})
	require.True(t, ok)
	require.Len(t, items, 1)
}

func TestFormat_NoHTMLEscaping(t *testing.T) {
	f := &Formatter{Pretty: false}
	out, err := f.Format(map[string]string{"note": "a < b && c > d"})
	require.NoError(t, err)
	assert.Contains(t, out, "a < b && c > d")
}

func TestFormat_UnencodableValue(t *testing.T) {
	f := NewFormatter()
	_, err := f.Format(make(chan int))
	assert.Error(t, err)
}
