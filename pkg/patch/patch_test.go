package patch

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestField_AbsentVsNullVsValue(t *testing.T) {
	type req struct {
		Title   Field[string]  `json:"title"`
		Partner Field[*string] `json:"partnerId"`
	}

	var absent req
	require.NoError(t, json.Unmarshal([]byte(`{}`), &absent))
	assert.False(t, absent.Title.Present)
	assert.False(t, absent.Partner.Present)

	var null req
	require.NoError(t, json.Unmarshal([]byte(`{"partnerId": null}`), &null))
	assert.False(t, null.Title.Present)
	assert.True(t, null.Partner.Present)
	assert.Nil(t, null.Partner.Value)

	var set req
	require.NoError(t, json.Unmarshal([]byte(`{"title": "x", "partnerId": "p-1"}`), &set))
	assert.True(t, set.Title.Present)
	assert.Equal(t, "x", set.Title.Value)
	require.True(t, set.Partner.Present)
	require.NotNil(t, set.Partner.Value)
	assert.Equal(t, "p-1", *set.Partner.Value)
}

func TestSet(t *testing.T) {
	f := Set(42)
	assert.True(t, f.Present)
	assert.Equal(t, 42, f.Value)
}
