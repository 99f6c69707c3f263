package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"note-keeper/internal/domain"
	"note-keeper/internal/metrics"
	"note-keeper/internal/service"
	"note-keeper/internal/session"
)

// Config controls the session cookie written by the handler.
type Config struct {
	CookieName   string
	CookieSecure bool
	SessionTTL   time.Duration
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	cfg      Config
	users    service.UserService
	notes    service.NoteService
	exports  service.ExportService
	sessions session.Manager
	metrics  *metrics.Metrics
	logger   *logrus.Logger
}

func NewHandler(
	cfg Config,
	users service.UserService,
	notes service.NoteService,
	exports service.ExportService,
	sessions session.Manager,
	m *metrics.Metrics,
	logger *logrus.Logger,
) *Handler {
	if cfg.CookieName == "" {
		cfg.CookieName = "notes.sid"
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 24 * time.Hour
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		cfg:      cfg,
		users:    users,
		notes:    notes,
		exports:  exports,
		sessions: sessions,
		metrics:  m,
		logger:   logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(views)
	router.Use(h.accessLog(), h.instrument(), h.identity())

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/notes")
	})
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	router.GET("/signup", h.signupForm)
	router.POST("/signup", h.signup)
	router.GET("/login", h.loginForm)
	router.POST("/login", h.login)

	auth := router.Group("/", h.requireAuth())
	{
		auth.POST("/logout", h.logout)

		auth.GET("/notes", h.listNotes)
		auth.GET("/notes/new", h.newNoteForm)
		auth.POST("/notes", h.createNote)
		auth.POST("/notes/export", h.exportNotes)
		auth.GET("/notes/exports", h.listExports)
		auth.GET("/notes/:id", h.showNote)
		auth.GET("/notes/:id/edit", h.editNoteForm)
		auth.PUT("/notes/:id", h.updateNote)
		auth.DELETE("/notes/:id", h.deleteNote)
	}
}

// statusFor maps a domain error kind to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAuth):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// logFailure records errors the client only sees as a generic message.
func (h *Handler) logFailure(c *gin.Context, msg string, err error) {
	if statusFor(err) < http.StatusInternalServerError {
		return
	}
	entry := h.logger.WithError(err).WithField("path", c.Request.URL.Path)
	if u := CurrentUser(c); u != nil {
		entry = entry.WithField("user_id", u.ID)
	}
	entry.Error(msg)
}

type NoteResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

type ExportResponse struct {
	Key       string  `json:"key"`
	Size      int64   `json:"size"`
	CreatedAt *string `json:"created_at,omitempty"`
	URL       string  `json:"url"`
}

func exportToResponse(e service.Export) ExportResponse {
	resp := ExportResponse{
		Key:  e.Key,
		Size: e.Size,
		URL:  e.URL,
	}
	if e.CreatedAt != nil && !e.CreatedAt.IsZero() {
		v := e.CreatedAt.Format(time.RFC3339)
		resp.CreatedAt = &v
	}
	return resp
}
