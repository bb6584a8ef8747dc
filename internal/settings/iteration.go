package settings

import (
	"time"

	"github.com/bjulian5/workops/internal/model"
)

// iterationRetention is how long a finished iteration stays selectable.
const iterationRetention = 40 * 24 * time.Hour

// FilterIterations drops iterations that finished more than 40 days before
// now and removes duplicate ids, keeping the first occurrence.
func FilterIterations(iterations []model.Iteration, now time.Time) []model.Iteration {
	cutoff := now.Add(-iterationRetention)
	seen := make(map[string]bool, len(iterations))

	var result []model.Iteration
	for _, it := range iterations {
		if it.FinishDate != nil && it.FinishDate.Before(cutoff) {
			continue
		}
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		result = append(result, it)
	}
	return result
}

// SelectIteration picks the current iteration path:
// the first running iteration, else the first upcoming one, else the last
// retained one. It returns "" when nothing is left, which makes queries
// fall back to @CurrentIteration.
func SelectIteration(iterations []model.Iteration, now time.Time) string {
	list := FilterIterations(iterations, now)
	if len(list) == 0 {
		return ""
	}

	for _, it := range list {
		start, finish := now, now
		if it.StartDate != nil {
			start = *it.StartDate
		}
		if it.FinishDate != nil {
			finish = *it.FinishDate
		}
		if !now.Before(start) && now.Before(finish.Add(24*time.Hour)) {
			return it.Path
		}
	}

	for _, it := range list {
		if isUpcoming(it, now) {
			return it.Path
		}
	}

	return list[len(list)-1].Path
}

func isUpcoming(it model.Iteration, now time.Time) bool {
	if it.StartDate == nil || now.After(*it.StartDate) {
		return false
	}
	return it.FinishDate == nil || !now.After(*it.FinishDate)
}
