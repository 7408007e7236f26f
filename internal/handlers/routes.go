package handlers

import (
	"net/http"

	"familyhub/internal/metrics"
)

// Handlers groups the route handlers mounted by NewRouter
type Handlers struct {
	System   *SystemHandler
	Profile  *ProfileHandler
	Family   *FamilyHandler
	Post     *PostHandler
	Question *QuestionHandler
	Game     *GameHandler
}

// NewRouter registers every route and wraps the mux with request logging
func NewRouter(m *Middleware, h Handlers) http.Handler {
	mux := http.NewServeMux()

	// auth wraps read routes, write additionally rate limits
	auth := m.RequireAuth
	write := func(next http.HandlerFunc) http.HandlerFunc {
		return m.RateLimit(m.RequireAuth(next))
	}

	// Public routes
	mux.HandleFunc("GET /healthz", h.System.Health)
	mux.Handle("GET /metrics", metrics.Handler())

	mux.HandleFunc("GET /api/csrf-token", auth(h.System.CSRFToken))

	// Profile routes
	mux.HandleFunc("GET /api/me", auth(h.Profile.Me))
	mux.HandleFunc("PUT /api/me", write(h.Profile.EnsureProfile))
	mux.HandleFunc("POST /api/profile", write(h.Profile.UpdateProfile))
	mux.HandleFunc("GET /api/users/{id}", auth(h.Profile.GetUser))

	// Family routes
	mux.HandleFunc("GET /api/families", auth(h.Family.ListFamilies))
	mux.HandleFunc("POST /api/families", write(h.Family.CreateFamily))
	mux.HandleFunc("POST /api/families/join", write(h.Family.JoinFamily))
	mux.HandleFunc("GET /api/families/{id}", auth(h.Family.GetFamily))
	mux.HandleFunc("PUT /api/families/{id}", write(h.Family.UpdateFamily))
	mux.HandleFunc("POST /api/families/{id}/leave", write(h.Family.LeaveFamily))
	mux.HandleFunc("DELETE /api/families/{id}/members/{userId}", write(h.Family.RemoveMember))
	mux.HandleFunc("POST /api/families/{id}/invite", write(h.Family.Invite))

	// Feed routes
	mux.HandleFunc("GET /api/families/{id}/feed", auth(h.Post.Feed))
	mux.HandleFunc("POST /api/families/{id}/posts", write(h.Post.CreatePost))
	mux.HandleFunc("GET /api/gallery", auth(h.Post.Gallery))
	mux.HandleFunc("DELETE /api/posts/{id}", write(h.Post.DeletePost))
	mux.HandleFunc("POST /api/posts/{id}/like", write(h.Post.ToggleLike))
	mux.HandleFunc("POST /api/posts/{id}/comments", write(h.Post.CreateComment))

	// Daily question routes
	mux.HandleFunc("GET /api/families/{id}/question", auth(h.Question.Today))
	mux.HandleFunc("POST /api/families/{id}/question/responses", write(h.Question.Respond))

	// Game routes
	mux.HandleFunc("POST /api/game/sessions", write(h.Game.SubmitSession))
	mux.HandleFunc("GET /api/game/board", auth(h.Game.Board))
	mux.HandleFunc("GET /api/game/leaderboard", auth(h.Game.Leaderboard))

	return Logging(mux)
}
