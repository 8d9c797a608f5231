/*
Package game
File: economy.go
Description:
    Economy-wide effects applied at the end of each tick:

    1. Reputation decay for machines left empty past the grace period.
    2. Fuel cost for every vehicle still traveling.

    Reputation is clamped to [0, ReputationMax] after every application, so
    no penalty magnitude can push it negative or unbounded.
*/

package game

import "math"

// ReputationMax is the ceiling (and starting point) of the reputation score.
const ReputationMax = 1000

// ReputationPenalty sums the per-tick reputation deduction across all
// machines. A machine contributes once it is empty and its empty time has
// exceeded the grace period; the penalty scales with the hours past grace.
func ReputationPenalty(machines []Machine, b Balance) int {
	total := 0.0
	for i := range machines {
		m := &machines[i]
		if !m.IsEmpty() {
			continue
		}
		hoursEmpty := m.HoursSinceRestock
		if hoursEmpty < b.EmptyMachinePenaltyHours {
			continue
		}
		total += b.ReputationPenaltyPerEmptyHour * (hoursEmpty - b.EmptyMachinePenaltyHours)
	}
	return int(math.Round(total))
}

// ApplyReputation subtracts a penalty and clamps the result to [0, ReputationMax].
func ApplyReputation(reputation, penalty int) int {
	reputation -= penalty
	if reputation < 0 {
		return 0
	}
	if reputation > ReputationMax {
		return ReputationMax
	}
	return reputation
}

// FuelCost sums the tick's fuel spend: each traveling vehicle pays the gas
// price over its remaining straight-line distance to its current target.
func FuelCost(vehicles []Vehicle, gasPricePerUnit float64) float64 {
	total := 0.0
	for i := range vehicles {
		v := &vehicles[i]
		if v.Status != StatusTraveling {
			continue
		}
		total += euclid(v.X, v.Y, v.TargetX, v.TargetY) * gasPricePerUnit
	}
	return total
}
