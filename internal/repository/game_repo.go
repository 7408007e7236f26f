package repository

import (
	"database/sql"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// GameRepository handles memory game rounds and sessions
type GameRepository struct {
	db *database.DB
}

// NewGameRepository creates a new game repository
func NewGameRepository(db *database.DB) *GameRepository {
	return &GameRepository{db: db}
}

// GetRound returns the family's round for date, or nil
func (r *GameRepository) GetRound(familyID, date string) (*models.GameRound, error) {
	round := &models.GameRound{FamilyID: familyID, Date: date}
	err := r.db.QueryRow("SELECT id FROM game_rounds WHERE family_id = ? AND round_date = ?", familyID, date).Scan(&round.ID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game round: %w", err)
	}
	return round, nil
}

// CreateRound inserts a round. A concurrent insert surfaces as a unique violation.
func (r *GameRepository) CreateRound(familyID, date string, now time.Time) (*models.GameRound, error) {
	id, err := r.db.ExecReturningID("INSERT INTO game_rounds (family_id, round_date, created_at) VALUES (?, ?, ?)", familyID, date, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create game round: %w", err)
	}
	return &models.GameRound{ID: id, FamilyID: familyID, Date: date}, nil
}

// GetSession returns a user's stored session for a round, or nil
func (r *GameRepository) GetSession(roundID int64, userID string) (*models.GameSession, error) {
	return getSession(r.db, roundID, userID)
}

func getSession(q database.DBTX, roundID int64, userID string) (*models.GameSession, error) {
	query := `
		SELECT id, round_id, user_id, duration_ms, mistakes, score, created_at
		FROM game_sessions
		WHERE round_id = ? AND user_id = ?
	`
	s := &models.GameSession{}
	err := q.QueryRow(query, roundID, userID).Scan(&s.ID, &s.RoundID, &s.UserID, &s.DurationMs, &s.Mistakes, &s.Score, &s.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game session: %w", err)
	}
	return s, nil
}

// SaveBestSession stores session unless the user already has a score that is
// equal or lower. Returns the session stored before the call (nil if none)
// and the one stored after it.
func (r *GameRepository) SaveBestSession(session *models.GameSession) (previous, best *models.GameSession, err error) {
	err = r.db.WithTx(func(tx *database.Tx) error {
		var err error
		if previous, err = getSession(tx, session.RoundID, session.UserID); err != nil {
			return err
		}

		_, err = tx.Exec(tx.GetDialect().UpsertBestScoreQuery(),
			session.RoundID, session.UserID, session.DurationMs, session.Mistakes, session.Score, session.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to save game session: %w", err)
		}

		best, err = getSession(tx, session.RoundID, session.UserID)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return previous, best, nil
}

// GetLeaderboard ranks a round's sessions by score, earliest submission
// first on ties. Users without a profile row are left out and ranks are
// dense over the remaining entries, starting at 1.
func (r *GameRepository) GetLeaderboard(roundID int64) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT s.user_id, u.first_name, u.last_name, u.avatar_url, s.duration_ms, s.mistakes, s.score
		FROM game_sessions s
		INNER JOIN users u ON s.user_id = u.id
		WHERE s.round_id = ?
		ORDER BY s.score ASC, s.created_at ASC, s.id ASC
	`
	rows, err := r.db.Query(query, roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var e models.LeaderboardEntry
		var avatarURL sql.NullString
		if err := rows.Scan(&e.UserID, &e.FirstName, &e.LastName, &avatarURL, &e.DurationMs, &e.Mistakes, &e.Score); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		e.AvatarURL = stringPtr(avatarURL)
		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ListRounds returns a family's rounds with their sessions, oldest first
func (r *GameRepository) ListRounds(familyID string) ([]models.GameRound, map[int64][]models.GameSession, error) {
	rows, err := r.db.Query("SELECT id, round_date FROM game_rounds WHERE family_id = ? ORDER BY round_date ASC", familyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	rounds := []models.GameRound{}
	for rows.Next() {
		round := models.GameRound{FamilyID: familyID}
		var date dateString
		if err := rows.Scan(&round.ID, &date); err != nil {
			return nil, nil, fmt.Errorf("failed to scan round: %w", err)
		}
		round.Date = string(date)
		rounds = append(rounds, round)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	sessions := make(map[int64][]models.GameSession, len(rounds))
	query := `
		SELECT s.id, s.round_id, s.user_id, s.duration_ms, s.mistakes, s.score, s.created_at
		FROM game_sessions s
		INNER JOIN game_rounds gr ON s.round_id = gr.id
		WHERE gr.family_id = ?
		ORDER BY s.score ASC
	`
	srows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer srows.Close()

	for srows.Next() {
		var s models.GameSession
		if err := srows.Scan(&s.ID, &s.RoundID, &s.UserID, &s.DurationMs, &s.Mistakes, &s.Score, &s.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions[s.RoundID] = append(sessions[s.RoundID], s)
	}
	return rounds, sessions, srows.Err()
}
