package datemath

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestDaysBetweenInclusive(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{
			name:  "одна и та же дата — один день",
			start: date(2024, 6, 1),
			end:   date(2024, 6, 1),
			want:  1,
		},
		{
			name:  "январь целиком",
			start: date(2024, 1, 1),
			end:   date(2024, 1, 31),
			want:  31,
		},
		{
			name:  "соседние дни",
			start: date(2024, 6, 1),
			end:   date(2024, 6, 2),
			want:  2,
		},
		{
			name:  "через границу месяца",
			start: date(2024, 1, 30),
			end:   date(2024, 2, 2),
			want:  4,
		},
		{
			name:  "время суток не влияет",
			start: time.Date(2024, 6, 1, 23, 59, 0, 0, time.Local),
			end:   time.Date(2024, 6, 2, 0, 1, 0, 0, time.Local),
			want:  2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetweenInclusive(tt.start, tt.end))
		})
	}
}

func TestRemainingDays(t *testing.T) {
	end := date(2024, 6, 8)

	tests := []struct {
		name  string
		today time.Time
		want  int
	}{
		{name: "за неделю до конца", today: date(2024, 6, 1), want: 8},
		{name: "накануне", today: date(2024, 6, 7), want: 2},
		{name: "в день окончания", today: date(2024, 6, 8), want: 1},
		{name: "на следующий день", today: date(2024, 6, 9), want: 0},
		{name: "намного позже", today: date(2024, 7, 1), want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RemainingDays(end, tt.today))
		})
	}
}

// RemainingDays не возрастает при движении today вперёд и равен нулю
// после даты окончания.
func TestRemainingDays_Monotonic(t *testing.T) {
	end := date(2024, 3, 15)
	prev := RemainingDays(end, date(2024, 2, 1))

	for today := date(2024, 2, 2); today.Before(date(2024, 4, 15)); today = AddDays(today, 1) {
		cur := RemainingDays(end, today)
		assert.LessOrEqual(t, cur, prev, "remaining days must not grow, today=%s", Format(today))
		if today.After(end) {
			assert.Zero(t, cur, "remaining days after end must be zero, today=%s", Format(today))
		}
		prev = cur
	}
}

func TestAddDaysAndFormat(t *testing.T) {
	today := date(2024, 6, 1)
	assert.Equal(t, "2024-06-08", Format(AddDays(today, 7)))
	assert.Equal(t, "2024-07-01", Format(AddDays(today, 30)))
	assert.Equal(t, "2024-05-31", Format(AddDays(today, -1)))
}

func TestParse(t *testing.T) {
	got, err := Parse("2024-06-08")
	assert.NoError(t, err)
	assert.Equal(t, date(2024, 6, 8), got)

	_, err = Parse("08.06.2024")
	assert.Error(t, err)
}
