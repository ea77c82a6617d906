// Package points holds the pure BP calculations: the point value of an
// activity and the activity-day boundary.
package points

import "bonus-points-bot/internal/catalog"

// EventMultiplier is applied to every award while the x2 event is active.
const EventMultiplier = 2

// Calculate returns the BP value of an activity for the given VIP and event
// flags. VIP substitutes the higher per-activity value; the event doubles the
// result. Pure and total.
//
// Callers that loop over many activities should fetch the event flag once and
// pass it in, rather than hitting the settings store per activity.
func Calculate(a catalog.Activity, vip, eventActive bool) int64 {
	base := a.BasePoints
	if vip {
		base = a.VIPPoints
	}
	if eventActive {
		return base * EventMultiplier
	}
	return base
}
