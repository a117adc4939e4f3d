package exercises

// Categories and metric types the frontend understands. The metric type
// drives which set fields matter when logging a workout.
var (
	Categories  = []string{"strength", "cardio", "flexibility"}
	MetricTypes = []string{"weight", "distance", "time", "reps"}
)

const DefaultMetricType = "weight"

// Exercise is either a global catalog row (CreatedBy nil, visible to
// everyone) or a custom one owned by a single user.
type Exercise struct {
	ID         int    `json:"id"`
	CreatedBy  *int   `json:"createdBy"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	MetricType string `json:"metricType"`
}

// IsGlobal reports whether the exercise comes from the shared catalog.
func (e Exercise) IsGlobal() bool {
	return e.CreatedBy == nil
}
