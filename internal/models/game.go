package models

import "time"

// MistakePenaltyMs is added to the elapsed time for every mismatched pair
const MistakePenaltyMs = 1500

// GameScore returns the memory game score. Lower is better.
func GameScore(durationMs int64, mistakes int) int64 {
	return durationMs + int64(mistakes)*MistakePenaltyMs
}

// GameRound is a family's game for one UTC day
type GameRound struct {
	ID       int64  `json:"id"`
	FamilyID string `json:"family_id"`
	Date     string `json:"date"`
}

// GameSession is a user's best result within a round
type GameSession struct {
	ID         int64     `json:"id"`
	RoundID    int64     `json:"round_id"`
	UserID     string    `json:"user_id"`
	DurationMs int64     `json:"duration_ms"`
	Mistakes   int       `json:"mistakes"`
	Score      int64     `json:"score"`
	CreatedAt  time.Time `json:"created_at"`
}

// SubmitResult reports what happened to a submitted session
type SubmitResult struct {
	Score     int64 `json:"score"`
	BestScore int64 `json:"best_score"`
	Improved  bool  `json:"improved"`
}

// LeaderboardEntry is one ranked row of today's leaderboard
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	UserID     string  `json:"user_id"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	AvatarURL  *string `json:"avatar_url,omitempty"`
	DurationMs int64   `json:"duration_ms"`
	Mistakes   int     `json:"mistakes"`
	Score      int64   `json:"score"`
}
