package activity

import "time"

// Action types recorded in the daily activity log.
const (
	ActionCreateGoal       = "create_goal"
	ActionUpdateProgress   = "update_progress"
	ActionVisit            = "visit"
	ActionGoalCompleted    = "goal_completed"
	ActionWorkoutCompleted = "workout_completed"
	ActionLogin            = "login"
)

// Log is an at-most-one-per-day record of a user action, used for streaks.
type Log struct {
	ID         int       `json:"id"`
	UserID     int       `json:"userId"`
	Date       time.Time `json:"date"`
	ActionType string    `json:"actionType"`
}
