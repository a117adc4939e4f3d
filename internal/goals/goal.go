package goals

import (
	"math"
	"time"
)

// Units a goal can be measured in.
var Units = []string{
	"kg", "lbs", "fav",
	"km", "m", "miles", "laps",
	"min", "hr",
	"workouts", "sets", "reps",
	"cal",
}

const (
	DefaultIcon = "🎯"
	DefaultUnit = "workouts"
)

type Goal struct {
	ID           int       `json:"id"`
	UserID       int       `json:"userId"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Icon         string    `json:"icon"`
	StartValue   float64   `json:"startValue"`
	CurrentValue float64   `json:"currentValue"`
	TargetValue  float64   `json:"targetValue"`
	Unit         string    `json:"unit"`
	IsCompleted  bool      `json:"isCompleted"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	// derived, never persisted
	Progress  float64 `json:"progress"`
	Remaining float64 `json:"remaining"`
}

// WithDerived fills the derived progress fields before the goal goes out on
// the wire.
func (g Goal) WithDerived() Goal {
	g.Progress = Progress(g.StartValue, g.CurrentValue, g.TargetValue)
	g.Remaining = roundOne(math.Abs(g.TargetValue - g.CurrentValue))
	return g
}

// Progress returns the percent complete in [0, 100], rounded to one decimal.
// Both directions are supported: decreasing goals (weight loss, start above
// target) and increasing ones. Degenerate and non-finite inputs yield 0
// instead of an error, a progress bar is never worth failing a request over.
func Progress(start, current, target float64) float64 {
	if !isFinite(start) || !isFinite(current) || !isFinite(target) {
		return 0
	}

	if start == target {
		if current == target {
			return 100
		}
		return 0
	}

	var percent float64
	if start > target {
		// decreasing goal
		if current <= target {
			return 100
		}
		if current >= start {
			return 0
		}
		percent = (start - current) / (start - target) * 100
	} else {
		if current >= target {
			return 100
		}
		if current <= start {
			return 0
		}
		percent = (current - start) / (target - start) * 100
	}

	if !isFinite(percent) {
		return 0
	}
	return roundOne(percent)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func roundOne(f float64) float64 {
	return math.Round(f*10) / 10
}
