package repository

import (
	"database/sql"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// QuestionRepository handles the daily question and its responses
type QuestionRepository struct {
	db *database.DB
}

// NewQuestionRepository creates a new question repository
func NewQuestionRepository(db *database.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// GetQuestion returns the family's question for date (YYYY-MM-DD), or nil
func (r *QuestionRepository) GetQuestion(familyID, date string) (*models.DailyQuestion, error) {
	query := "SELECT id, question FROM family_daily_questions WHERE family_id = ? AND question_date = ?"
	q := &models.DailyQuestion{FamilyID: familyID, Date: date}
	err := r.db.QueryRow(query, familyID, date).Scan(&q.ID, &q.Question)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get daily question: %w", err)
	}
	return q, nil
}

// CreateQuestion stores the question for a family and date. A concurrent
// insert for the same day surfaces as a unique violation.
func (r *QuestionRepository) CreateQuestion(familyID, date, question string, now time.Time) (*models.DailyQuestion, error) {
	query := "INSERT INTO family_daily_questions (family_id, question_date, question, created_at) VALUES (?, ?, ?, ?)"
	id, err := r.db.ExecReturningID(query, familyID, date, question, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create daily question: %w", err)
	}
	return &models.DailyQuestion{ID: id, FamilyID: familyID, Date: date, Question: question}, nil
}

// CreateResponse stores a member's answer. One answer per member per day.
func (r *QuestionRepository) CreateResponse(resp *models.QuestionResponse) error {
	query := `
		INSERT INTO family_question_responses (family_id, user_id, response_date, response, created_at)
		VALUES (?, ?, ?, ?, ?)
	`
	id, err := r.db.ExecReturningID(query, resp.FamilyID, resp.UserID, resp.Date, resp.Response, resp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create response: %w", err)
	}
	resp.ID = id
	return nil
}

// GetResponses returns the answers for a family and date, oldest first
func (r *QuestionRepository) GetResponses(familyID, date string) ([]models.QuestionResponse, error) {
	query := `
		SELECT qr.id, qr.user_id, qr.response, qr.created_at,
		       u.id, u.first_name, u.last_name, u.avatar_url
		FROM family_question_responses qr
		LEFT JOIN users u ON qr.user_id = u.id
		WHERE qr.family_id = ? AND qr.response_date = ?
		ORDER BY qr.created_at ASC, qr.id ASC
	`
	rows, err := r.db.Query(query, familyID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to query responses: %w", err)
	}
	defer rows.Close()

	responses := []models.QuestionResponse{}
	for rows.Next() {
		resp := models.QuestionResponse{FamilyID: familyID, Date: date}
		var a nullableAuthor
		if err := rows.Scan(&resp.ID, &resp.UserID, &resp.Response, &resp.CreatedAt, &a.id, &a.firstName, &a.lastName, &a.avatarURL); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		resp.Author = a.author()
		responses = append(responses, resp)
	}
	return responses, rows.Err()
}

// ListQuestions returns every question a family has had, oldest first
func (r *QuestionRepository) ListQuestions(familyID string) ([]models.DailyQuestion, error) {
	rows, err := r.db.Query("SELECT id, question_date, question FROM family_daily_questions WHERE family_id = ? ORDER BY question_date ASC", familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	questions := []models.DailyQuestion{}
	for rows.Next() {
		q := models.DailyQuestion{FamilyID: familyID}
		var date dateString
		if err := rows.Scan(&q.ID, &date, &q.Question); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		q.Date = string(date)
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
