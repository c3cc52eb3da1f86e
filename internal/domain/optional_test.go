package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type optionalPayload struct {
	Title Optional[string]     `json:"title"`
	Due   Optional[*time.Time] `json:"due"`
}

func TestOptional_UnmarshalDistinguishesAbsentAndNull(t *testing.T) {
	var p optionalPayload
	require.NoError(t, json.Unmarshal([]byte(`{"due": null}`), &p))

	assert.False(t, p.Title.Set, "absent key stays unset")
	assert.True(t, p.Due.Set, "explicit null is present")
	assert.Nil(t, p.Due.Value)
}

func TestOptional_UnmarshalValue(t *testing.T) {
	var p optionalPayload
	require.NoError(t, json.Unmarshal([]byte(`{"title":"New","due":"2025-01-02T03:04:05Z"}`), &p))

	title, ok := p.Title.Get()
	assert.True(t, ok)
	assert.Equal(t, "New", title)
	require.NotNil(t, p.Due.Value)
	assert.Equal(t, time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC), p.Due.Value.UTC())
}

func TestOptional_UnmarshalTypeMismatch(t *testing.T) {
	var p optionalPayload
	assert.Error(t, json.Unmarshal([]byte(`{"title": 42}`), &p))
}
