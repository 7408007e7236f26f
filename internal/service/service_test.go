package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/repository"
	"familyhub/internal/testutil"
	"familyhub/internal/validation"
)

var testNow = time.Date(2026, 10, 19, 9, 30, 0, 0, time.UTC)

type fakeInviter struct {
	to, inviter, family, code string
	err                       error
}

func (f *fakeInviter) SendFamilyInvite(ctx context.Context, toEmail, inviterName, familyName, joinCode string) error {
	f.to, f.inviter, f.family, f.code = toEmail, inviterName, familyName, joinCode
	return f.err
}

type testEnv struct {
	db       *database.DB
	clock    *testutil.FixedClock
	store    *testutil.MemoryStore
	inviter  *fakeInviter
	families *FamilyService
	profiles *ProfileService
	posts    *PostService
	likes    *LikeService
	comments *CommentService
	question *QuestionService
	games    *GameService
	rollover *RolloverService
	export   *ExportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	clock := testutil.NewFixedClock(testNow)
	store := testutil.NewMemoryStore("https://proj.supabase.co")
	inviter := &fakeInviter{}

	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	postRepo := repository.NewPostRepository(db)
	likeRepo := repository.NewLikeRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	gameRepo := repository.NewGameRepository(db)

	env := &testEnv{db: db, clock: clock, store: store, inviter: inviter}
	env.families = NewFamilyService(familyRepo, userRepo, db, inviter)
	env.families.now = clock.Now
	env.profiles = NewProfileService(userRepo, store, db.IsUniqueViolation)
	env.profiles.now = clock.Now
	env.posts = NewPostService(postRepo, commentRepo, env.families, store)
	env.posts.now = clock.Now
	env.likes = NewLikeService(likeRepo, env.posts, db.IsUniqueViolation)
	env.comments = NewCommentService(commentRepo, env.posts)
	env.question = NewQuestionService(questionRepo, env.families, db.IsUniqueViolation)
	env.question.now = clock.Now
	env.question.pick = func(n int) int { return 0 }
	env.games = NewGameService(gameRepo, env.families, db.IsUniqueViolation)
	env.games.now = clock.Now
	env.rollover = NewRolloverService(familyRepo, env.question, env.games)
	env.rollover.now = clock.Now
	env.export = NewExportService(familyRepo, postRepo, commentRepo, questionRepo, gameRepo)
	env.export.now = clock.Now
	return env
}

// codes returns a generator that yields the given codes in order
func codes(list ...string) func() (string, error) {
	i := 0
	return func() (string, error) {
		if i >= len(list) {
			return "", errors.New("out of codes")
		}
		c := list[i]
		i++
		return c, nil
	}
}

func isValidationError(err error) bool {
	var ve validation.ValidationError
	return errors.As(err, &ve)
}
