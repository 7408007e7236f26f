package service

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"familyhub/internal/metrics"
	"familyhub/internal/repository"
)

// RolloverService prepares each family's daily question and game round
// shortly after midnight UTC so the first visitor of the day does not have
// to.
type RolloverService struct {
	familyRepo      *repository.FamilyRepository
	questionService *QuestionService
	gameService     *GameService
	now             func() time.Time
}

// NewRolloverService creates a new rollover service
func NewRolloverService(familyRepo *repository.FamilyRepository, questionService *QuestionService, gameService *GameService) *RolloverService {
	return &RolloverService{
		familyRepo:      familyRepo,
		questionService: questionService,
		gameService:     gameService,
		now:             utcNow,
	}
}

// Run prepares today for every family. A failing family is logged and skipped.
func (s *RolloverService) Run() (prepared, failed int, err error) {
	familyIDs, err := s.familyRepo.ListFamilyIDs()
	if err != nil {
		return 0, 0, err
	}

	date := dayOf(s.now())
	for _, familyID := range familyIDs {
		log := logrus.WithFields(logrus.Fields{"family_id": familyID, "date": date})

		if _, err := s.questionService.EnsureQuestion(familyID, date); err != nil {
			log.WithError(err).Warn("Failed to prepare daily question")
			metrics.RolloverFamily(false)
			failed++
			continue
		}
		if _, err := s.gameService.EnsureRound(familyID, date); err != nil {
			log.WithError(err).Warn("Failed to prepare game round")
			metrics.RolloverFamily(false)
			failed++
			continue
		}
		metrics.RolloverFamily(true)
		prepared++
	}

	logrus.WithFields(logrus.Fields{"date": date, "prepared": prepared, "failed": failed}).Info("Daily rollover finished")
	return prepared, failed, nil
}

// Schedule registers Run on c using a standard five-field cron spec
func (s *RolloverService) Schedule(c *cron.Cron, spec string) (cron.EntryID, error) {
	return c.AddFunc(spec, func() {
		if _, _, err := s.Run(); err != nil {
			logrus.WithError(err).Error("Daily rollover failed")
		}
	})
}
