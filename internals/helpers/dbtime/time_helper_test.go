package dbtime

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2025-03-10 ")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), d)
	assert.Equal(t, "10-03-2025", FormatDisplay(d))

	_, err = ParseDate("10/03/2025")
	assert.Error(t, err)
}

func TestDateOnly(t *testing.T) {
	in := time.Date(2025, 3, 10, 17, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC), DateOnly(in))
}

func TestValidClock(t *testing.T) {
	assert.True(t, ValidClock("09:00"))
	assert.True(t, ValidClock("23:59"))
	assert.False(t, ValidClock("9:00"))
	assert.False(t, ValidClock("24:00"))
	assert.False(t, ValidClock("09:00:00"))
}

func TestSetLocation(t *testing.T) {
	require.NoError(t, SetLocation("Asia/Kolkata"))
	assert.Equal(t, "Asia/Kolkata", Location().String())
	assert.Error(t, SetLocation("Not/AZone"))
	assert.Equal(t, "Asia/Kolkata", Location().String())
	require.NoError(t, SetLocation("UTC"))
}
