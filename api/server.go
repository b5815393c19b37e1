// Package api exposes the forum over HTTP and pushes notifications to
// connected students over websockets.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"forum/core"
	"forum/logger"
	"forum/metrics"
	"forum/models"
	"forum/usecases"
)

// Identity is the caller behind a verified bearer token.
type Identity struct {
	Subject string
	Name    string
}

// TokenVerifier abstracts OIDC token verification.
type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (Identity, error)
}

type VerifierFunc func(ctx context.Context, raw string) (Identity, error)

func (f VerifierFunc) Verify(ctx context.Context, raw string) (Identity, error) { return f(ctx, raw) }

// Pinger reports whether a dependency is ready to serve.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Server struct {
	router     chi.Router
	forum      *usecases.Forum
	hub        *Hub
	validator  *Validator
	verifier   TokenVerifier
	ready      Pinger
	broadcastC <-chan models.Notification
}

// NewServer wires the routes. Notifications received on broadcast are
// pushed to their recipients; ready may be nil.
func NewServer(forum *usecases.Forum, v TokenVerifier, validator *Validator, hub *Hub, broadcast <-chan models.Notification, ready Pinger) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		forum:      forum,
		hub:        hub,
		validator:  validator,
		verifier:   v,
		ready:      ready,
		broadcastC: broadcast,
	}
	s.routes()
	if broadcast != nil {
		go s.broadcastLoop()
	}
	return s
}

func (s *Server) routes() {
	r := s.router
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", metrics.Handler)
	r.Get("/ws", s.handleWS)

	r.Group(func(r chi.Router) {
		r.Use(s.withAuth)

		r.Post("/questions", s.createQuestion)
		r.Get("/questions", s.fetchRecentQuestions)
		// GET routes read {id} as the question slug.
		r.Get("/questions/{id}", s.getQuestionBySlug)
		r.Get("/questions/{id}/details", s.getQuestionDetails)
		r.Put("/questions/{id}", s.editQuestion)
		r.Delete("/questions/{id}", s.deleteQuestion)

		r.Post("/questions/{id}/answers", s.answerQuestion)
		r.Get("/questions/{id}/answers", s.fetchQuestionAnswers)
		r.Put("/answers/{id}", s.editAnswer)
		r.Delete("/answers/{id}", s.deleteAnswer)
		r.Patch("/answers/{id}/choose-as-best", s.chooseBestAnswer)

		r.Post("/questions/{id}/comments", s.commentOnQuestion)
		r.Get("/questions/{id}/comments", s.fetchQuestionComments)
		r.Delete("/questions/comments/{id}", s.deleteQuestionComment)
		r.Post("/answers/{id}/comments", s.commentOnAnswer)
		r.Get("/answers/{id}/comments", s.fetchAnswerComments)
		r.Delete("/answers/comments/{id}", s.deleteAnswerComment)

		r.Post("/attachments", s.registerAttachment)

		r.Get("/notifications", s.fetchNotifications)
		r.Patch("/notifications/{id}/read", s.readNotification)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

// Hub returns the websocket hub notifications are pushed through.
func (s *Server) Hub() *Hub { return s.hub }

type identityKey struct{}

func identityFrom(ctx context.Context) Identity {
	id, _ := ctx.Value(identityKey{}).(Identity)
	return id
}

// withAuth verifies the bearer token and records the student it belongs to.
func (s *Server) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || len(auth) == len("Bearer ") {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		id, err := s.verifier.Verify(r.Context(), auth[len("Bearer "):])
		if err != nil || id.Subject == "" {
			logger.Debug("token verification failed", logger.FieldKV("path", r.URL.Path))
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		if _, err := s.forum.EnsureStudent.Execute(r.Context(), usecases.EnsureStudentRequest{StudentID: id.Subject, Name: id.Name}); err != nil {
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), identityKey{}, id)))
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.ready != nil {
		if err := s.ready.Ping(r.Context()); err != nil {
			logger.Error("readiness check failed", err)
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// handleWS registers the caller for live notifications. Client frames are
// only read to notice the connection closing.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	id, err := s.verifier.Verify(r.Context(), token)
	if err != nil || id.Subject == "" {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", err)
		return
	}
	studentID := core.ID(id.Subject)
	s.hub.Add(studentID, conn)
	metrics.IncWSConnections()
	go func() {
		defer func() { s.hub.Remove(studentID, conn); metrics.DecWSConnections() }()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				var ce *websocket.CloseError
				if !errors.As(err, &ce) {
					logger.Debug("ws read", logger.FieldKV("error", err.Error()))
				}
				return
			}
		}
	}()
}

func (s *Server) broadcastLoop() {
	for n := range s.broadcastC {
		if s.hub.Send(n) > 0 {
			metrics.IncNotificationsPushed()
		}
	}
	logger.Info("notification broadcast stopped")
}
