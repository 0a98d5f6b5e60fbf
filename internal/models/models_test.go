package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		input    JSONValue
		expected Shape
	}{
		{"nil", nil, ShapeScalar},
		{"string", "x", ShapeScalar},
		{"number", 1.5, ShapeScalar},
		{"bool", true, ShapeScalar},
		{"plain object", JSONObject{"a": 1}, ShapePlainObject},
		{"raw map", map[string]interface{}{"a": 1}, ShapePlainObject},
		{"plain array", JSONArray{1, 2}, ShapePlainArray},
		{"raw slice", []interface{}{1, 2}, ShapePlainArray},
		{"values wrapper", JSONObject{KeyID: "1", KeyValues: JSONArray{}}, ShapeValuesWrapper},
		{"values wrapper without id", JSONObject{KeyValues: JSONArray{}}, ShapeValuesWrapper},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.input))
		})
	}
}

func TestAsObject(t *testing.T) {
	obj, ok := AsObject(JSONObject{"a": 1})
	require.True(t, ok)
	assert.Equal(t, 1, obj["a"])

	obj, ok = AsObject(map[string]interface{}{"b": 2})
	require.True(t, ok)
	assert.Equal(t, 2, obj["b"])

	_, ok = AsObject("not an object")
	assert.False(t, ok)
	_, ok = AsObject(nil)
	assert.False(t, ok)
}

func TestAsArray(t *testing.T) {
	arr, ok := AsArray(JSONArray{1})
	require.True(t, ok)
	assert.Len(t, arr, 1)

	arr, ok = AsArray([]interface{}{1, 2})
	require.True(t, ok)
	assert.Len(t, arr, 2)

	_, ok = AsArray(JSONObject{})
	assert.False(t, ok)
}

func TestOrderStatus(t *testing.T) {
	assert.Equal(t, "Draft", StatusDraft.String())
	assert.Equal(t, "Pending", StatusPending.String())
	assert.Equal(t, "Completed", StatusCompleted.String())
	assert.Equal(t, "Draft", OrderStatus(42).String(), "out-of-range statuses render as Draft")
	assert.Equal(t, "Draft", OrderStatus(-1).String())

	assert.True(t, StatusShipped.Valid())
	assert.False(t, OrderStatus(7).Valid())
	assert.False(t, OrderStatus(-1).Valid())
}
