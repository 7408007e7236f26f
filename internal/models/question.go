package models

import "time"

// DailyQuestion is the prompt a family answers on a given UTC day
type DailyQuestion struct {
	ID       int64  `json:"id"`
	FamilyID string `json:"family_id"`
	Date     string `json:"date"`
	Question string `json:"question"`
}

// QuestionResponse is one member's answer to the day's question
type QuestionResponse struct {
	ID        int64     `json:"id"`
	FamilyID  string    `json:"family_id"`
	UserID    string    `json:"user_id"`
	Date      string    `json:"date"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"created_at"`
	Author    *Author   `json:"author,omitempty"`
}

// DailyQuestionView bundles today's question with the answers so far
type DailyQuestionView struct {
	Question    DailyQuestion      `json:"question"`
	Responses   []QuestionResponse `json:"responses"`
	HasAnswered bool               `json:"has_answered"`
}
