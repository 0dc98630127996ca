package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFrom(t *testing.T) {
	got, err := ParseFrom("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *got)

	got, err = ParseFrom("2024-03-01T10:30:00+08:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 2, 30, 0, 0, time.UTC), *got)

	got, err = ParseFrom("")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestParseUntil_DateOnlyIncludesWholeDay(t *testing.T) {
	got, err := ParseUntil("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), *got)

	got, err = ParseUntil("2024-02-29T12:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC), *got)
}

func TestParse_Invalid(t *testing.T) {
	_, err := ParseFrom("yesterday")
	assert.Error(t, err)

	_, err = ParseUntil("2024-13-01")
	assert.Error(t, err)
}
