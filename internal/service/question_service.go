package service

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/validation"
)

var ErrAlreadyAnswered = errors.New("you have already answered today's question")

// QuestionBank is the pool today's family question is drawn from
var QuestionBank = []string{
	"What is your favourite family memory?",
	"If we could go anywhere together next year, where would it be?",
	"What made you laugh this week?",
	"What is one thing you are grateful for today?",
	"Which meal reminds you most of home?",
	"What is a family tradition you hope we never lose?",
	"What song should be our family theme tune?",
	"What is the best piece of advice you have ever been given?",
	"Who in the family would survive longest on a desert island?",
	"What did you want to be when you grew up?",
	"What is the best holiday we have ever had?",
	"Which board game would you pick for a family night?",
	"What is something new you learned recently?",
	"What is your earliest memory?",
	"If you could have dinner with any relative, past or present, who would it be?",
	"What small thing always makes your day better?",
	"What is your favourite photo of the family and why?",
	"What skill would you like someone in the family to teach you?",
	"What was the highlight of your week?",
	"What book or film would you recommend to everyone here?",
}

// QuestionService handles the per-family question of the day
type QuestionService struct {
	questionRepo  *repository.QuestionRepository
	familyService *FamilyService
	isUnique      func(error) bool
	pick          func(n int) int
	now           func() time.Time
}

// NewQuestionService creates a new question service
func NewQuestionService(questionRepo *repository.QuestionRepository, familyService *FamilyService, uniqueViolation func(error) bool) *QuestionService {
	return &QuestionService{
		questionRepo:  questionRepo,
		familyService: familyService,
		isUnique:      uniqueViolation,
		pick:          rand.IntN,
		now:           utcNow,
	}
}

// GetOrCreateTodayQuestion returns the family's question for the current UTC day
func (s *QuestionService) GetOrCreateTodayQuestion(userID, familyID string) (*models.DailyQuestion, error) {
	if err := s.familyService.VerifyFamilyAccess(userID, familyID); err != nil {
		return nil, err
	}
	return s.EnsureQuestion(familyID, dayOf(s.now()))
}

// EnsureQuestion returns the question for familyID on date, drawing one
// from the bank when none exists. A concurrent insert is resolved by
// re-reading the winner.
func (s *QuestionService) EnsureQuestion(familyID, date string) (*models.DailyQuestion, error) {
	q, err := s.questionRepo.GetQuestion(familyID, date)
	if err != nil {
		return nil, err
	}
	if q != nil {
		return q, nil
	}

	text := QuestionBank[s.pick(len(QuestionBank))]
	q, err = s.questionRepo.CreateQuestion(familyID, date, text, s.now())
	if err == nil {
		return q, nil
	}
	if !s.isUnique(err) {
		return nil, err
	}

	q, err = s.questionRepo.GetQuestion(familyID, date)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, fmt.Errorf("daily question for %s on %s vanished after conflict", familyID, date)
	}
	return q, nil
}

// Respond records the user's answer to today's question
func (s *QuestionService) Respond(userID, familyID, answer string) (*models.QuestionResponse, error) {
	if err := validation.ValidateQuestionResponse(answer); err != nil {
		return nil, err
	}
	if err := s.familyService.VerifyFamilyAccess(userID, familyID); err != nil {
		return nil, err
	}

	now := s.now()
	date := dayOf(now)
	if _, err := s.EnsureQuestion(familyID, date); err != nil {
		return nil, err
	}

	resp := &models.QuestionResponse{
		FamilyID:  familyID,
		UserID:    userID,
		Date:      date,
		Response:  strings.TrimSpace(answer),
		CreatedAt: now,
	}
	if err := s.questionRepo.CreateResponse(resp); err != nil {
		if s.isUnique(err) {
			return nil, ErrAlreadyAnswered
		}
		return nil, err
	}
	return resp, nil
}

// TodayResponses lists today's answers with their authors
func (s *QuestionService) TodayResponses(userID, familyID string) ([]models.QuestionResponse, error) {
	if err := s.familyService.VerifyFamilyAccess(userID, familyID); err != nil {
		return nil, err
	}
	return s.questionRepo.GetResponses(familyID, dayOf(s.now()))
}

// Today returns today's question, its answers and whether userID answered
func (s *QuestionService) Today(userID, familyID string) (*models.DailyQuestionView, error) {
	q, err := s.GetOrCreateTodayQuestion(userID, familyID)
	if err != nil {
		return nil, err
	}
	responses, err := s.questionRepo.GetResponses(familyID, q.Date)
	if err != nil {
		return nil, err
	}

	view := &models.DailyQuestionView{Question: *q, Responses: responses}
	for _, r := range responses {
		if r.UserID == userID {
			view.HasAnswered = true
			break
		}
	}
	return view, nil
}
