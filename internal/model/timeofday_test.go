package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("09:30")
	require.NoError(t, err)
	assert.Equal(t, 9, tod.Hour())
	assert.Equal(t, 30, tod.Minute())
	assert.Equal(t, "09:30", tod.String())

	for _, bad := range []string{"", "9h30", "25:00", "12:60", "12:3x", "12:30:00"} {
		_, err := ParseTimeOfDay(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-10-19")
	require.NoError(t, err)
	assert.Equal(t, "2024-10-19", d.Format(DateLayout))

	for _, bad := range []string{"", "19.10.2024", "2024-13-01", "2024-10-32", "завтра"} {
		_, err := ParseDate(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestTimeOfDayOrdering(t *testing.T) {
	early := NewTimeOfDay(8, 0)
	late := NewTimeOfDay(14, 45)

	assert.Less(t, early, late)
	assert.Equal(t, "14:45", late.String())
}

func TestSubgroupAppliesTo(t *testing.T) {
	assert.True(t, SubgroupAll.AppliesTo(SubgroupFirst))
	assert.True(t, SubgroupAll.AppliesTo(SubgroupAll))
	assert.True(t, SubgroupFirst.AppliesTo(SubgroupFirst))
	assert.False(t, SubgroupFirst.AppliesTo(SubgroupSecond))
	// Пользователь без подгруппы не видит пары конкретных подгрупп
	assert.False(t, SubgroupSecond.AppliesTo(SubgroupAll))
}
