package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONValueScan(t *testing.T) {
	t.Run("ValidObject", func(t *testing.T) {
		var v JSONValue
		require.NoError(t, v.Scan(`{"key": "value", "count": 3}`))

		data, ok := v.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "value", data["key"])
		assert.Equal(t, float64(3), data["count"])
	})

	t.Run("ValidList", func(t *testing.T) {
		var v JSONValue
		require.NoError(t, v.Scan(`["a", "b"]`))
		assert.Equal(t, []interface{}{"a", "b"}, v.Data)
	})

	t.Run("BytesSource", func(t *testing.T) {
		var v JSONValue
		require.NoError(t, v.Scan([]byte(`42`)))
		assert.Equal(t, float64(42), v.Data)
	})

	t.Run("InvalidJSONWrappedInList", func(t *testing.T) {
		var v JSONValue
		require.NoError(t, v.Scan("plain legacy text"))
		assert.Equal(t, []interface{}{"plain legacy text"}, v.Data)
	})

	t.Run("NilAndEmpty", func(t *testing.T) {
		var v JSONValue
		require.NoError(t, v.Scan(nil))
		assert.True(t, v.IsEmpty())

		require.NoError(t, v.Scan(""))
		assert.True(t, v.IsEmpty())
	})

	t.Run("UnsupportedSource", func(t *testing.T) {
		var v JSONValue
		assert.Error(t, v.Scan(12.5))
	})
}

func TestJSONValueValue(t *testing.T) {
	t.Run("EncodesData", func(t *testing.T) {
		v := NewJSONValue(map[string]interface{}{"ok": true})
		encoded, err := v.Value()
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok": true}`, encoded.(string))
	})

	t.Run("NilStoresNull", func(t *testing.T) {
		var v JSONValue
		encoded, err := v.Value()
		require.NoError(t, err)
		assert.Nil(t, encoded)
	})
}

func TestSiteVarValue(t *testing.T) {
	cases := []struct {
		name     string
		varType  SiteVarType
		raw      string
		expected interface{}
	}{
		{"String", SiteVarString, "hello", "hello"},
		{"UntypedDefaultsToString", "", "hello", "hello"},
		{"Int", SiteVarInt, " 42 ", 42},
		{"Float", SiteVarFloat, "3.5", 3.5},
		{"BoolTrue", SiteVarBool, "True", true},
		{"BoolFalse", SiteVarBool, "false", false},
		{"List", SiteVarList, "a, b , c", []string{"a", "b", "c"}},
		{"JSON", SiteVarJSON, `{"n": 1}`, map[string]interface{}{"n": float64(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v := SiteVar{Name: "test", Type: tc.varType, RawValue: tc.raw}
			value, err := v.Value()
			assert.NoError(t, err)
			assert.Equal(t, tc.expected, value)
		})
	}

	t.Run("BadInt", func(t *testing.T) {
		v := SiteVar{Name: "test", Type: SiteVarInt, RawValue: "nope"}
		_, err := v.Value()
		assert.Error(t, err)
	})

	t.Run("BadBool", func(t *testing.T) {
		v := SiteVar{Name: "test", Type: SiteVarBool, RawValue: "yes"}
		_, err := v.Value()
		assert.Error(t, err)
	})

	t.Run("BadJSON", func(t *testing.T) {
		v := SiteVar{Name: "test", Type: SiteVarJSON, RawValue: "{broken"}
		_, err := v.Value()
		assert.Error(t, err)
	})

	t.Run("UnknownType", func(t *testing.T) {
		v := SiteVar{Name: "test", Type: "binary", RawValue: "0101"}
		_, err := v.Value()
		assert.ErrorIs(t, err, ErrInvalidVarType)
	})
}

func TestSiteVarValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		v := SiteVar{Name: "test", Type: SiteVarInt, RawValue: "10"}
		assert.NoError(t, v.Validate())
	})

	t.Run("UnknownType", func(t *testing.T) {
		v := SiteVar{Name: "test", Type: "binary", RawValue: "0101"}
		assert.ErrorIs(t, v.Validate(), ErrInvalidVarType)
	})

	t.Run("ValueMismatch", func(t *testing.T) {
		v := SiteVar{Name: "test", Type: SiteVarFloat, RawValue: "abc"}
		assert.Error(t, v.Validate())
	})
}
