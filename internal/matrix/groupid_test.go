package matrix

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGroupID(t *testing.T) {
	t.Run("integer string becomes numeric", func(t *testing.T) {
		id := ParseGroupID("42")
		assert.True(t, id.IsNumeric())
		assert.Equal(t, "42", id.String())
	})

	t.Run("color sentinel stays named", func(t *testing.T) {
		id := ParseGroupID("color")
		assert.False(t, id.IsNumeric())
		assert.Equal(t, "color", id.String())
	})

	t.Run("numeric and named compare consistently", func(t *testing.T) {
		assert.Equal(t, NumericGroupID(7), ParseGroupID("7"))
		assert.NotEqual(t, NamedGroupID("7"), ParseGroupID("7"))
	})
}

func TestGroupIDJSON(t *testing.T) {
	type wrapper struct {
		ID GroupID `json:"id"`
	}

	data, err := json.Marshal(wrapper{ID: NumericGroupID(5)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"5"}`, string(data))

	var w wrapper
	require.NoError(t, json.Unmarshal([]byte(`{"id":"color"}`), &w))
	assert.Equal(t, NamedGroupID("color"), w.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id":"12"}`), &w))
	assert.Equal(t, NumericGroupID(12), w.ID)
}
