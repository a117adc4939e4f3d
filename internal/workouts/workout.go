package workouts

import (
	"encoding/json"
	"strings"
	"time"
)

// Template is a reusable workout plan. Starting a session deep-copies it
// into a Session the user logs against.
type Template struct {
	ID            int       `json:"id"`
	UserID        int       `json:"userId"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	IsAIGenerated bool      `json:"isAiGenerated"`
	CreatedAt     time.Time `json:"createdAt"`

	Exercises []TemplateExercise `json:"exercises"`

	// Derived, see WithDerived.
	ExerciseCount int `json:"exerciseCount"`
	TotalSets     int `json:"totalSets"`
}

func (t Template) WithDerived() Template {
	t.ExerciseCount = len(t.Exercises)
	t.TotalSets = 0
	for _, e := range t.Exercises {
		t.TotalSets += e.Sets
	}
	return t
}

// TemplateExercise is one planned exercise slot. The name, category and
// metric type are denormalized from the exercise catalog on read.
type TemplateExercise struct {
	ID         int    `json:"id"`
	TemplateID int    `json:"templateId"`
	ExerciseID int    `json:"exerciseId"`
	Order      int    `json:"order"`
	Sets       int    `json:"sets"`
	TargetReps int    `json:"targetReps"`

	ExerciseName string `json:"exerciseName"`
	Category     string `json:"category"`
	MetricType   string `json:"metricType"`
}

// Session is one logged workout, completed or in progress.
type Session struct {
	ID              int       `json:"id"`
	UserID          int       `json:"userId"`
	TemplateID      *int      `json:"templateId"`
	TemplateTitle   string    `json:"templateTitle,omitempty"`
	Title           string    `json:"title"`
	Date            time.Time `json:"date"`
	DurationMinutes int       `json:"durationMinutes"`
	MoodEmoji       string    `json:"moodEmoji"`
	Notes           string    `json:"notes"`
	IsCompleted     bool      `json:"isCompleted"`

	Exercises []SessionExercise `json:"exercises"`

	// Derived, see WithDerived.
	TotalExercises int     `json:"totalExercises"`
	TotalSets      int     `json:"totalSets"`
	TotalReps      int     `json:"totalReps"`
	TotalVolume    float64 `json:"totalVolume"`
}

func (s Session) WithDerived() Session {
	s.TotalExercises = len(s.Exercises)
	s.TotalSets, s.TotalReps, s.TotalVolume = 0, 0, 0
	for _, e := range s.Exercises {
		s.TotalSets += len(e.Sets)
		for _, set := range e.Sets {
			s.TotalReps += set.Reps
			s.TotalVolume += set.WeightKg * float64(set.Reps)
		}
	}
	return s
}

// SessionExercise groups the sets of one exercise within a session.
type SessionExercise struct {
	ID         int    `json:"id"`
	SessionID  int    `json:"sessionId"`
	ExerciseID int    `json:"exerciseId"`
	Order      int    `json:"order"`
	Notes      string `json:"notes"`

	ExerciseName string `json:"exerciseName"`
	Category     string `json:"category"`
	MetricType   string `json:"metricType"`

	Sets []Set `json:"sets"`
}

type Set struct {
	ID                int     `json:"id"`
	SessionExerciseID int     `json:"sessionExerciseId"`
	SetNumber         int     `json:"setNumber"`
	WeightKg          float64 `json:"weightKg"`
	Reps              int     `json:"reps"`
	RPE               *int    `json:"rpe"`
	IsCompleted       bool    `json:"isCompleted"`
}

// Stats summarizes a user's workout history.
type Stats struct {
	TotalWorkouts    int     `json:"total_workouts"`
	TotalDuration    int     `json:"total_duration"`
	TotalVolume      float64 `json:"total_volume"`
	SessionsThisWeek int     `json:"sessions_this_week"`
}

// RepsValue accepts both `"8-12"` and `10` in template payloads, the two
// shapes frontends send for planned reps.
type RepsValue string

func (r *RepsValue) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*r = RepsValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*r = RepsValue(n.String())
	return nil
}

// TargetReps reduces a planned reps range to its lower bound: "8-12"
// becomes 8, garbage becomes 0.
func (r RepsValue) TargetReps() int {
	first, _, _ := strings.Cut(string(r), "-")
	n := 0
	for _, c := range first {
		if c < '0' || c > '9' {
			continue
		}
		n = n*10 + int(c-'0')
	}
	return n
}
