// Package catalog provides the static activity catalog.
// The catalog is built once at load time and is read-only afterwards,
// so it needs no synchronization.
package catalog

import "strings"

// Activity is a single activity definition.
// VIPPoints replaces BasePoints for VIP users; it is not additive.
type Activity struct {
	ID         string
	Name       string
	Category   string
	BasePoints int64
	VIPPoints  int64

	// Pre-folded search fields, computed once at load.
	nameLower string
	idLower   string
}

var (
	allActivities []Activity
	activityByID  map[string]Activity
)

func init() {
	for _, category := range Categories() {
		for _, a := range activities[category] {
			a.Category = category
			a.nameLower = strings.ToLower(a.Name)
			a.idLower = strings.ToLower(a.ID)
			allActivities = append(allActivities, a)
		}
	}

	activityByID = make(map[string]Activity, len(allActivities))
	for _, a := range allActivities {
		activityByID[a.ID] = a
	}
}

// ByID looks up an activity by its ID.
func ByID(id string) (Activity, bool) {
	a, ok := activityByID[id]
	return a, ok
}

// All returns every activity in catalog order (category order, then
// definition order within the category). The returned slice is shared;
// callers must not modify it.
func All() []Activity {
	return allActivities
}

// ByCategory returns the activities of one category in definition order.
func ByCategory(category string) []Activity {
	return activities[category]
}

// Count returns the number of activities in the catalog.
func Count() int {
	return len(allActivities)
}

// Search returns up to limit activities whose name or ID contains query,
// case-insensitive, in catalog order. An empty query matches everything.
func Search(query string, limit int) []Activity {
	if limit <= 0 {
		return nil
	}
	if query == "" {
		if len(allActivities) <= limit {
			return allActivities
		}
		return allActivities[:limit]
	}

	q := strings.ToLower(query)
	var results []Activity
	for _, a := range allActivities {
		if len(results) >= limit {
			break
		}
		if strings.Contains(a.nameLower, q) || strings.Contains(a.idLower, q) {
			results = append(results, a)
		}
	}
	return results
}
