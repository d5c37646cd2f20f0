package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestIsOddWeek(t *testing.T) {
	epoch := mustDate(t, "2024-09-02") // понедельник

	tests := []struct {
		name string
		date string
		want bool
	}{
		{"epoch monday is even", "2024-09-02", false},
		{"next monday is odd", "2024-09-09", true},
		{"two weeks later is even again", "2024-09-16", false},
		{"midweek keeps week parity", "2024-09-11", true},
		{"sunday belongs to its monday week", "2024-09-15", true},
		{"week before epoch is odd", "2024-08-26", true},
		{"two weeks before epoch is even", "2024-08-19", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOddWeek(mustDate(t, tt.date), epoch))
		})
	}
}

func TestIsOddWeekEpochNotNormalized(t *testing.T) {
	// Если опора задана не понедельником, берётся понедельник её недели
	epochWednesday := mustDate(t, "2024-09-04")

	assert.False(t, IsOddWeek(mustDate(t, "2024-09-02"), epochWednesday))
	assert.True(t, IsOddWeek(mustDate(t, "2024-09-09"), epochWednesday))
}

func TestWeekMonday(t *testing.T) {
	monday := mustDate(t, "2024-09-02")

	assert.Equal(t, monday, WeekMonday(mustDate(t, "2024-09-02")))
	assert.Equal(t, monday, WeekMonday(mustDate(t, "2024-09-05")))
	assert.Equal(t, monday, WeekMonday(mustDate(t, "2024-09-08"))) // воскресенье
	assert.Equal(t, mustDate(t, "2024-09-09"), WeekMonday(mustDate(t, "2024-09-09")))
}

func TestParityMatches(t *testing.T) {
	assert.True(t, ParityAll.Matches(true))
	assert.True(t, ParityAll.Matches(false))
	assert.True(t, ParityOdd.Matches(true))
	assert.False(t, ParityOdd.Matches(false))
	assert.False(t, ParityEven.Matches(true))
	assert.True(t, ParityEven.Matches(false))
}

func TestParseParity(t *testing.T) {
	p, err := ParseParity("odd")
	require.NoError(t, err)
	assert.Equal(t, ParityOdd, p)

	// Пустое значение означает "каждую неделю"
	p, err = ParseParity("")
	require.NoError(t, err)
	assert.Equal(t, ParityAll, p)

	_, err = ParseParity("numerator")
	assert.Error(t, err)
}
