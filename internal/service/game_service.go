package service

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"familyhub/internal/metrics"
	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/validation"
)

// GameService records memory game sessions and builds leaderboards
type GameService struct {
	gameRepo      *repository.GameRepository
	familyService *FamilyService
	isUnique      func(error) bool
	now           func() time.Time
}

// NewGameService creates a new game service
func NewGameService(gameRepo *repository.GameRepository, familyService *FamilyService, uniqueViolation func(error) bool) *GameService {
	return &GameService{
		gameRepo:      gameRepo,
		familyService: familyService,
		isUnique:      uniqueViolation,
		now:           utcNow,
	}
}

// SubmitSession scores a finished game and keeps it only if it beats the
// user's stored score for today's round.
func (s *GameService) SubmitSession(userID, familyID string, durationMs int64, mistakes int) (*models.SubmitResult, error) {
	if err := validation.ValidateGameSession(durationMs, mistakes); err != nil {
		return nil, err
	}

	familyID, err := s.familyService.ResolveFamily(userID, familyID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	round, err := s.EnsureRound(familyID, dayOf(now))
	if err != nil {
		return nil, err
	}

	score := models.GameScore(durationMs, mistakes)
	previous, best, err := s.gameRepo.SaveBestSession(&models.GameSession{
		RoundID:    round.ID,
		UserID:     userID,
		DurationMs: durationMs,
		Mistakes:   mistakes,
		Score:      score,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	improved := previous == nil || score < previous.Score
	metrics.GameSessionSubmitted(improved)
	logrus.WithFields(logrus.Fields{
		"family_id": familyID,
		"user_id":   userID,
		"score":     score,
		"improved":  improved,
	}).Debug("Game session submitted")

	return &models.SubmitResult{Score: score, BestScore: best.Score, Improved: improved}, nil
}

// TodayLeaderboard ranks today's sessions for the user's family
func (s *GameService) TodayLeaderboard(userID, familyID string) ([]models.LeaderboardEntry, error) {
	familyID, err := s.familyService.ResolveFamily(userID, familyID)
	if err != nil {
		return nil, err
	}

	round, err := s.gameRepo.GetRound(familyID, dayOf(s.now()))
	if err != nil {
		return nil, err
	}
	if round == nil {
		return []models.LeaderboardEntry{}, nil
	}
	return s.gameRepo.GetLeaderboard(round.ID)
}

// EnsureRound returns the family's round for date, creating it if needed.
// A concurrent insert is resolved by re-reading.
func (s *GameService) EnsureRound(familyID, date string) (*models.GameRound, error) {
	round, err := s.gameRepo.GetRound(familyID, date)
	if err != nil || round != nil {
		return round, err
	}

	round, err = s.gameRepo.CreateRound(familyID, date, s.now())
	if err == nil {
		return round, nil
	}
	if !s.isUnique(err) {
		return nil, err
	}

	round, err = s.gameRepo.GetRound(familyID, date)
	if err != nil {
		return nil, err
	}
	if round == nil {
		return nil, fmt.Errorf("game round for %s on %s vanished after conflict", familyID, date)
	}
	return round, nil
}
