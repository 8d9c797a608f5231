package game

import "testing"

func TestFromTicks(t *testing.T) {
	c := Clock{TicksPerHour: 6, HoursPerDay: 24}

	cases := []struct {
		name   string
		tick   int
		day    int
		hour   int
		minute int
	}{
		{"boot", 0, 1, 0, 0},
		{"one tick", 1, 1, 0, 10},
		{"last tick of first hour", 5, 1, 0, 50},
		{"first tick of second hour", 6, 1, 1, 0},
		{"noon day one", 12 * 6, 1, 12, 0},
		{"last tick of day one", 24*6 - 1, 1, 23, 50},
		{"first tick of day two", 24 * 6, 2, 0, 0},
		{"deep into day three", 2*24*6 + 13*6 + 3, 3, 13, 30},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.FromTicks(tc.tick)
			if got.Day != tc.day || got.Hour != tc.hour || got.Minute != tc.minute {
				t.Fatalf("FromTicks(%d) = Day %d %02d:%02d, want Day %d %02d:%02d",
					tc.tick, got.Day, got.Hour, got.Minute, tc.day, tc.hour, tc.minute)
			}
			if got.Tick != tc.tick {
				t.Fatalf("FromTicks(%d).Tick = %d", tc.tick, got.Tick)
			}
		})
	}
}

func TestClockMonotonicity(t *testing.T) {
	c := Clock{TicksPerHour: 6, HoursPerDay: 24}

	prev := c.FromTicks(0)
	for n := 1; n < c.TicksPerDay()*3+7; n++ {
		cur := c.FromTicks(n)
		if !laterThan(cur, prev) {
			t.Fatalf("FromTicks(%d) = %v not later than FromTicks(%d) = %v", n, cur, n-1, prev)
		}
		if next := c.NextTick(prev); next != cur {
			t.Fatalf("NextTick(%v) = %v, want %v", prev, next, cur)
		}
		prev = cur
	}
}

func TestClockDayRollover(t *testing.T) {
	c := Clock{TicksPerHour: 6, HoursPerDay: 24}
	perDay := c.TicksPerDay()

	for day := 1; day <= 5; day++ {
		got := c.FromTicks((day - 1) * perDay)
		if got.Day != day || got.Hour != 0 || got.Minute != 0 {
			t.Fatalf("day %d boundary: got %v", day, got)
		}
	}
}

func TestTickMinutes(t *testing.T) {
	if got := (Clock{TicksPerHour: 6, HoursPerDay: 24}).TickMinutes(); got != 10 {
		t.Fatalf("TickMinutes = %d, want 10", got)
	}
	if got := (Clock{TicksPerHour: 4, HoursPerDay: 24}).TickMinutes(); got != 15 {
		t.Fatalf("TickMinutes = %d, want 15", got)
	}
}

// laterThan compares calendar positions.
func laterThan(a, b GameTime) bool {
	if a.Day != b.Day {
		return a.Day > b.Day
	}
	if a.Hour != b.Hour {
		return a.Hour > b.Hour
	}
	return a.Minute > b.Minute
}
