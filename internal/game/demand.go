/*
Package game
File: demand.go
Description:
    The demand model: how likely is one unit of a product to sell at a
    machine during one tick. Pure math; the random draw happens in the sales
    pass with the engine's injected RNG so runs are reproducible.
*/

package game

// SaleProbability returns the chance, in [0,1], of selling exactly one unit
// of the product at the zone during one tick of the given hour.
//
// Formula: base demand x hourly curve multiplier x zone traffic multiplier,
// clamped to [0,1].
func SaleProbability(p Product, z Zone, hour int) float64 {
	prob := p.BaseDemand * z.DemandAt(hour) * z.TrafficMultiplier
	if prob < 0 {
		return 0
	}
	if prob > 1 {
		return 1
	}
	return prob
}
