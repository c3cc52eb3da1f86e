package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumValue(t *testing.T) {
	v := priorityFlag()
	assert.Equal(t, "priority", v.Type())
	assert.Equal(t, "", v.String())

	require.NoError(t, v.Set(" Urgent "))
	assert.Equal(t, "urgent", v.String())

	err := v.Set("asap")
	require.Error(t, err)
	assert.Equal(t, "urgent", v.String(), "a rejected value leaves the old one")
}

func TestParseDue(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	d, err := parseDue("2025-07-01", berlin)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, berlin), d)

	d, err = parseDue("2025-07-01T08:00:00Z", berlin)
	require.NoError(t, err)
	assert.True(t, d.Equal(time.Date(2025, 7, 1, 8, 0, 0, 0, time.UTC)))

	_, err = parseDue("next tuesday", berlin)
	assert.Error(t, err)
}

func TestUniquePrefix(t *testing.T) {
	ids := []string{"abc123", "abd456", "xyz789"}

	id, err := uniquePrefix("task", "abc", ids)
	require.NoError(t, err)
	assert.Equal(t, "abc123", id)

	_, err = uniquePrefix("task", "ab", ids)
	assert.ErrorContains(t, err, "ambiguous")

	_, err = uniquePrefix("task", "q", ids)
	assert.ErrorContains(t, err, "not found")
}
