package challenges

import "time"

type Challenge struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	BadgeName   string     `json:"badge"`
	DueDate     *time.Time `json:"dueDate"`
	TargetValue float64    `json:"targetValue"`
	Unit        string     `json:"unit"`
	CreatedBy   int        `json:"createdBy"`
	GoalID      *int       `json:"goalId"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// Join is one participant's membership and personal progress in a challenge.
type Join struct {
	ID            int       `json:"id"`
	UserID        int       `json:"userId"`
	ChallengeID   int       `json:"challengeId"`
	ProgressValue float64   `json:"progressValue"`
	IsCompleted   bool      `json:"isCompleted"`
	JoinedAt      time.Time `json:"joinedAt"`
}

// View is a challenge decorated with the fields the caller sees: overall
// participation plus their own progress.
type View struct {
	Challenge
	Participants    int     `json:"participants"`
	DaysLeft        *int    `json:"daysLeft"`
	IsJoined        bool    `json:"isJoined"`
	ProgressValue   float64 `json:"progressValue"`
	ProgressPercent float64 `json:"progressPercent"`
}

// NewView derives the caller-specific fields. join is nil when the caller
// has not joined.
func NewView(c Challenge, participants int, join *Join, now time.Time) View {
	v := View{
		Challenge:    c,
		Participants: participants,
	}

	if c.DueDate != nil {
		days := int(c.DueDate.Sub(now).Hours() / 24)
		if days < 0 {
			days = 0
		}
		v.DaysLeft = &days
	}

	if join != nil {
		v.IsJoined = true
		v.ProgressValue = join.ProgressValue
		if c.TargetValue > 0 {
			percent := join.ProgressValue / c.TargetValue * 100
			if percent > 100 {
				percent = 100
			}
			v.ProgressPercent = percent
		}
	}
	return v
}
