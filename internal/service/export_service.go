package service

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"familyhub/internal/models"
	"familyhub/internal/repository"
)

const exportVersion = "1.0"

// ExportData is the JSON archive of one family
type ExportData struct {
	Version    string                `json:"version"`
	ExportedAt time.Time             `json:"exported_at"`
	Family     models.Family         `json:"family"`
	Members    []models.FamilyMember `json:"members"`
	Posts      []models.FeedPost     `json:"posts"`
	Questions  []QuestionExport      `json:"questions"`
	GameRounds []GameRoundExport     `json:"game_rounds"`
}

// QuestionExport is a daily question with its answers
type QuestionExport struct {
	models.DailyQuestion
	Responses []models.QuestionResponse `json:"responses"`
}

// GameRoundExport is a game round with every stored session
type GameRoundExport struct {
	models.GameRound
	Sessions []models.GameSession `json:"sessions"`
}

// ExportService writes family archives
type ExportService struct {
	familyRepo   *repository.FamilyRepository
	postRepo     *repository.PostRepository
	commentRepo  *repository.CommentRepository
	questionRepo *repository.QuestionRepository
	gameRepo     *repository.GameRepository
	now          func() time.Time
}

// NewExportService creates a new export service
func NewExportService(familyRepo *repository.FamilyRepository, postRepo *repository.PostRepository, commentRepo *repository.CommentRepository, questionRepo *repository.QuestionRepository, gameRepo *repository.GameRepository) *ExportService {
	return &ExportService{
		familyRepo:   familyRepo,
		postRepo:     postRepo,
		commentRepo:  commentRepo,
		questionRepo: questionRepo,
		gameRepo:     gameRepo,
		now:          utcNow,
	}
}

// Collect gathers everything stored for a family
func (s *ExportService) Collect(familyID string) (*ExportData, error) {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}

	data := &ExportData{
		Version:    exportVersion,
		ExportedAt: s.now(),
		Family:     *family,
	}

	if data.Members, err = s.familyRepo.GetFamilyMembers(familyID); err != nil {
		return nil, fmt.Errorf("failed to export members: %w", err)
	}
	if err := s.exportPosts(data); err != nil {
		return nil, fmt.Errorf("failed to export posts: %w", err)
	}
	if err := s.exportQuestions(data); err != nil {
		return nil, fmt.Errorf("failed to export questions: %w", err)
	}
	if err := s.exportGames(data); err != nil {
		return nil, fmt.Errorf("failed to export game rounds: %w", err)
	}
	return data, nil
}

func (s *ExportService) exportPosts(data *ExportData) error {
	posts, err := s.postRepo.GetFamilyFeed(data.Family.ID, "", math.MaxInt32)
	if err != nil {
		return err
	}
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	comments, err := s.commentRepo.GetCommentsForPosts(ids)
	if err != nil {
		return err
	}
	for i := range posts {
		if c, ok := comments[posts[i].ID]; ok {
			posts[i].Comments = c
		}
	}
	data.Posts = posts
	return nil
}

func (s *ExportService) exportQuestions(data *ExportData) error {
	questions, err := s.questionRepo.ListQuestions(data.Family.ID)
	if err != nil {
		return err
	}
	data.Questions = make([]QuestionExport, 0, len(questions))
	for _, q := range questions {
		responses, err := s.questionRepo.GetResponses(data.Family.ID, q.Date)
		if err != nil {
			return err
		}
		data.Questions = append(data.Questions, QuestionExport{DailyQuestion: q, Responses: responses})
	}
	return nil
}

func (s *ExportService) exportGames(data *ExportData) error {
	rounds, sessions, err := s.gameRepo.ListRounds(data.Family.ID)
	if err != nil {
		return err
	}
	data.GameRounds = make([]GameRoundExport, 0, len(rounds))
	for _, r := range rounds {
		rs := sessions[r.ID]
		if rs == nil {
			rs = []models.GameSession{}
		}
		data.GameRounds = append(data.GameRounds, GameRoundExport{GameRound: r, Sessions: rs})
	}
	return nil
}

// Export writes the family archive as indented JSON
func (s *ExportService) Export(familyID string, w io.Writer) (*ExportData, error) {
	data, err := s.Collect(familyID)
	if err != nil {
		return nil, err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return nil, fmt.Errorf("failed to encode export: %w", err)
	}
	return data, nil
}

// ExportToFile writes the family archive to outputPath
func (s *ExportService) ExportToFile(familyID, outputPath string) error {
	logrus.WithField("family_id", familyID).Info("Starting family export")

	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	data, err := s.Export(familyID, file)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"family_id": familyID,
		"output":    outputPath,
		"members":   len(data.Members),
		"posts":     len(data.Posts),
		"questions": len(data.Questions),
		"rounds":    len(data.GameRounds),
	}).Info("Family exported successfully")
	return nil
}
