/*
Package game
File: clock.go
Description:
    The game clock. Converts the absolute tick counter into in-game
    day/hour/minute. Pure arithmetic: GameTime is always derived from the
    tick counter, never mutated independently, so time can never drift from
    the simulation state it describes.
*/

package game

import "fmt"

// GameTime is the in-game calendar position for one tick.
type GameTime struct {
	Day    int `json:"day"`    // 1-based
	Hour   int `json:"hour"`   // 0..HoursPerDay-1
	Minute int `json:"minute"` // 0, 10, 20, ... for the default 6 ticks/hour
	Tick   int `json:"tick"`   // Absolute tick counter
}

// Clock converts tick counters to GameTime under a fixed cadence.
type Clock struct {
	TicksPerHour int
	HoursPerDay  int
}

// NewClock builds a clock from the sim config.
func NewClock(cfg SimConfig) Clock {
	return Clock{TicksPerHour: cfg.TicksPerHour, HoursPerDay: cfg.HoursPerDay}
}

// TicksPerDay returns the number of ticks in one in-game day.
func (c Clock) TicksPerDay() int {
	return c.TicksPerHour * c.HoursPerDay
}

// TickMinutes returns the in-game minutes one tick represents.
func (c Clock) TickMinutes() int {
	return 60 / c.TicksPerHour
}

// FromTicks derives the GameTime for an absolute tick count.
func (c Clock) FromTicks(n int) GameTime {
	perDay := c.TicksPerDay()
	day := n/perDay + 1
	rem := n % perDay
	return GameTime{
		Day:    day,
		Hour:   rem / c.TicksPerHour,
		Minute: (rem % c.TicksPerHour) * c.TickMinutes(),
		Tick:   n,
	}
}

// NextTick returns the GameTime one tick after t.
func (c Clock) NextTick(t GameTime) GameTime {
	return c.FromTicks(t.Tick + 1)
}

// String renders "Day 3 14:30" for logs.
func (t GameTime) String() string {
	return fmt.Sprintf("Day %d %02d:%02d", t.Day, t.Hour, t.Minute)
}
