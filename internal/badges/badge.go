package badges

import "time"

// Badge is awarded once per (user, badge type). The type is a stable key
// used for deduplication; the display name can change without re-awarding.
type Badge struct {
	ID          int       `json:"id"`
	UserID      int       `json:"userId"`
	BadgeType   string    `json:"badgeType"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	AwardedAt   time.Time `json:"awardedAt"`
}

// Milestone maps a completion count threshold to a badge.
type Milestone struct {
	Threshold   int
	BadgeType   string
	Name        string
	Description string
}

var (
	GoalMilestones = []Milestone{
		{5, "goals_5", "Goal Getter", "Completed 5 goals"},
		{10, "goals_10", "Goal Crusher", "Completed 10 goals"},
		{15, "goals_15", "Goal Master", "Completed 15 goals"},
		{20, "goals_20", "Goal Legend", "Completed 20 goals"},
	}
	ChallengeMilestones = []Milestone{
		{1, "challenges_1", "First Challenge", "Completed your first challenge"},
		{5, "challenges_5", "Challenge Hunter", "Completed 5 challenges"},
		{10, "challenges_10", "Challenge Champion", "Completed 10 challenges"},
	}
	WorkoutMilestones = []Milestone{
		{5, "workouts_5", "Getting Started", "Completed 5 workouts"},
		{10, "workouts_10", "Consistency", "Completed 10 workouts"},
		{25, "workouts_25", "Dedicated", "Completed 25 workouts"},
		{50, "workouts_50", "Iron Will", "Completed 50 workouts"},
	}
)
