package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"familyhub/internal/models"
	"familyhub/internal/testutil"
	"familyhub/internal/validation"
)

const mediaBase = "https://proj.supabase.co/storage/v1/object/public/media/"

func seedFamily(t *testing.T, env *testEnv) {
	t.Helper()
	testutil.CreateUser(t, env.db, "u1", "Ada", "Smith")
	testutil.CreateUser(t, env.db, "u2", "Bob", "Smith")
	testutil.CreateFamily(t, env.db, "ABC12", "Smiths", "u1")
	testutil.AddMember(t, env.db, "ABC12", "u2")
}

func TestCreatePost(t *testing.T) {
	env := newTestEnv(t)
	seedFamily(t, env)

	post, err := env.posts.CreatePost("u1", "ABC12", "text", "  hello  ", "")
	require.NoError(t, err)
	assert.NotZero(t, post.ID)
	assert.Equal(t, "hello", *post.Text)
	assert.Nil(t, post.MediaURL)

	_, err = env.posts.CreatePost("u1", "ABC12", "image", "", "")
	assert.True(t, isValidationError(err))

	_, err = env.posts.CreatePost("u1", "ABC12", "audio", "x", "")
	assert.True(t, isValidationError(err))

	_, err = env.posts.CreatePost("stranger", "ABC12", "text", "hi", "")
	assert.ErrorIs(t, err, ErrNotFamilyMember)
}

func TestFeedIncludesCommentsAndLikes(t *testing.T) {
	env := newTestEnv(t)
	seedFamily(t, env)

	post, err := env.posts.CreatePost("u1", "ABC12", "image", "beach", mediaBase+"u1/beach.jpg")
	require.NoError(t, err)

	_, err = env.likes.Toggle("u2", post.ID, false)
	require.NoError(t, err)
	_, err = env.comments.CreateComment("u2", post.ID, "lovely", nil)
	require.NoError(t, err)

	feed, err := env.posts.Feed("u2", "ABC12", 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, 1, feed[0].LikeCount)
	assert.True(t, feed[0].LikedByMe)
	require.Len(t, feed[0].Comments, 1)
	assert.Equal(t, "lovely", *feed[0].Comments[0].Content)
	require.NotNil(t, feed[0].Comments[0].Author)
	assert.Equal(t, "Bob", feed[0].Comments[0].Author.FirstName)

	gallery, err := env.posts.Gallery("u2", 0)
	require.NoError(t, err)
	require.Len(t, gallery, 1)
	assert.Equal(t, post.ID, gallery[0].ID)

	_, err = env.posts.Feed("stranger", "ABC12", 0)
	assert.ErrorIs(t, err, ErrNotFamilyMember)
}

func TestDeletePost(t *testing.T) {
	env := newTestEnv(t)
	seedFamily(t, env)

	post, err := env.posts.CreatePost("u1", "ABC12", "video", "", mediaBase+"u1/clip.mp4")
	require.NoError(t, err)

	err = env.posts.DeletePost(context.Background(), "u2", post.ID)
	assert.ErrorIs(t, err, ErrNotPostAuthor)
	assert.Empty(t, env.store.RemovedPaths(), "nothing is removed on a rejected delete")

	require.NoError(t, env.posts.DeletePost(context.Background(), "u1", post.ID))
	assert.Equal(t, []string{"media/u1/clip.mp4"}, env.store.RemovedPaths())

	err = env.posts.DeletePost(context.Background(), "u1", post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeletePostIgnoresStorageFailure(t *testing.T) {
	env := newTestEnv(t)
	seedFamily(t, env)
	env.store.RemoveErr = errors.New("storage unavailable")

	post, err := env.posts.CreatePost("u1", "ABC12", "image", "", mediaBase+"u1/a.jpg")
	require.NoError(t, err)

	require.NoError(t, env.posts.DeletePost(context.Background(), "u1", post.ID))
	assert.Len(t, env.store.RemovedPaths(), 1)

	_, err = env.likes.Toggle("u1", post.ID, false)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestDeletePostWithForeignMediaURLSkipsCleanup(t *testing.T) {
	env := newTestEnv(t)
	seedFamily(t, env)

	post, err := env.posts.CreatePost("u1", "ABC12", "image", "", "https://elsewhere.example/pic.jpg")
	require.NoError(t, err)
	require.NoError(t, env.posts.DeletePost(context.Background(), "u1", post.ID))
	assert.Empty(t, env.store.RemovedPaths())
}

func TestToggleLikeTwiceRestoresState(t *testing.T) {
	env := newTestEnv(t)
	seedFamily(t, env)
	post, err := env.posts.CreatePost("u1", "ABC12", "text", "hi", "")
	require.NoError(t, err)

	state, err := env.likes.Toggle("u2", post.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{PostID: post.ID, Liked: true, LikeCount: 1}, *state)

	state, err = env.likes.Toggle("u2", post.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.LikeState{PostID: post.ID, Liked: false, LikeCount: 0}, *state)

	// The flag is trusted: unliking something not liked is a no-op
	state, err = env.likes.Toggle("u2", post.ID, true)
	require.NoError(t, err)
	assert.Equal(t, 0, state.LikeCount)

	_, err = env.likes.Toggle("u2", post.ID, false)
	require.NoError(t, err)
	_, err = env.likes.Toggle("u2", post.ID, false)
	assert.ErrorIs(t, err, ErrAlreadyLiked)

	_, err = env.likes.Toggle("stranger", post.ID, false)
	assert.ErrorIs(t, err, ErrNotFamilyMember)
}

func TestCreateComment(t *testing.T) {
	env := newTestEnv(t)
	seedFamily(t, env)
	post, err := env.posts.CreatePost("u1", "ABC12", "text", "hi", "")
	require.NoError(t, err)

	_, err = env.comments.CreateComment("u2", post.ID, "   ", nil)
	assert.True(t, isValidationError(err), "empty text and no audio")

	audio := &validation.VoiceNote{URL: "https://proj.supabase.co/storage/v1/object/public/comment-audio/u2/a.webm", DurationMs: 4200, Mime: "audio/webm"}
	comment, err := env.comments.CreateComment("u2", post.ID, "", audio)
	require.NoError(t, err)
	assert.Nil(t, comment.Content)
	require.NotNil(t, comment.AudioDurationMs)
	assert.Equal(t, int64(4200), *comment.AudioDurationMs)
	assert.Equal(t, "audio/webm", *comment.AudioMime)

	tooLong := &validation.VoiceNote{URL: audio.URL, DurationMs: 120_001, Mime: "audio/webm"}
	_, err = env.comments.CreateComment("u2", post.ID, "", tooLong)
	assert.True(t, isValidationError(err))

	notAudio := &validation.VoiceNote{URL: audio.URL, DurationMs: 1000, Mime: "video/mp4"}
	_, err = env.comments.CreateComment("u2", post.ID, "", notAudio)
	assert.True(t, isValidationError(err))

	_, err = env.comments.CreateComment("u2", 9999, "hi", nil)
	assert.ErrorIs(t, err, ErrPostNotFound)
}

func TestCreateCommentRequiresCommentAudioBucket(t *testing.T) {
	env := newTestEnv(t)
	seedFamily(t, env)
	post, err := env.posts.CreatePost("u1", "ABC12", "text", "hi", "")
	require.NoError(t, err)

	for _, url := range []string{
		"https://evil.example.com/a.webm",
		mediaBase + "u2/a.webm",
		"https://proj.supabase.co/storage/v1/object/public/comment-audio/",
	} {
		_, err := env.comments.CreateComment("u2", post.ID, "listen", &validation.VoiceNote{URL: url, DurationMs: 1000, Mime: "audio/webm"})
		var vErr validation.ValidationError
		require.True(t, errors.As(err, &vErr), url)
		assert.Equal(t, "audio_url", vErr.Field, url)
	}

	feed, err := env.posts.Feed("u1", "ABC12", 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Empty(t, feed[0].Comments)
}

func TestProfileEnsureAndUpdate(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.profiles.EnsureProfile("u1", "", "Smith")
	assert.True(t, isValidationError(err))

	user, created, err := env.profiles.EnsureProfile("u1", " Ada ", "Smith")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "Ada", user.FirstName)

	user, created, err = env.profiles.EnsureProfile("u1", "Other", "Name")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Ada", user.FirstName)

	ctx := context.Background()
	user, err = env.profiles.UpdateProfile(ctx, "u1", "Ada", "Jones", &AvatarUpload{Filename: "me.png", ContentType: "image/png", Data: []byte("png")})
	require.NoError(t, err)
	require.NotNil(t, user.AvatarURL)
	assert.Contains(t, *user.AvatarURL, "/storage/v1/object/public/avatars/u1/")
	assert.Len(t, env.store.Objects, 1)
	first := *user.AvatarURL

	user, err = env.profiles.UpdateProfile(ctx, "u1", "Ada", "Jones", &AvatarUpload{Filename: "me2.png", ContentType: "image/png", Data: []byte("png2")})
	require.NoError(t, err)
	assert.NotEqual(t, first, *user.AvatarURL)
	require.Len(t, env.store.RemovedPaths(), 1)
	assert.Contains(t, first, env.store.RemovedPaths()[0])

	_, err = env.profiles.UpdateProfile(ctx, "u1", "Ada", "Jones", &AvatarUpload{Filename: "x.txt", ContentType: "text/plain", Data: []byte("x")})
	assert.True(t, isValidationError(err))

	stored, err := env.profiles.GetProfile("u1")
	require.NoError(t, err)
	assert.Equal(t, "Jones", stored.LastName)

	_, err = env.profiles.GetProfile("nobody")
	assert.ErrorIs(t, err, ErrProfileNotFound)
}

func TestUpdateProfileRemovesNewAvatarWhenSaveFails(t *testing.T) {
	env := newTestEnv(t)
	testutil.CreateUser(t, env.db, "u1", "Ada", "Smith")

	_, err := env.db.Exec(`CREATE TRIGGER users_read_only BEFORE UPDATE ON users
		BEGIN SELECT RAISE(ABORT, 'users are read only'); END`)
	require.NoError(t, err)

	_, err = env.profiles.UpdateProfile(context.Background(), "u1", "Ada", "Jones", &AvatarUpload{Filename: "me.png", ContentType: "image/png", Data: []byte("png")})
	require.Error(t, err)

	assert.Empty(t, env.store.Objects)
	removed := env.store.RemovedPaths()
	require.Len(t, removed, 1)
	assert.Contains(t, removed[0], "avatars/u1/")

	stored, err := env.profiles.GetProfile("u1")
	require.NoError(t, err)
	assert.Nil(t, stored.AvatarURL)
	assert.Equal(t, "Smith", stored.LastName)
}
