package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"note-keeper/internal/domain"
)

type signupRequest struct {
	Username string `form:"username" json:"username"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type loginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (h *Handler) signupForm(c *gin.Context) {
	h.render(c, http.StatusOK, "signup", gin.H{"username": "", "email": "", "error": ""})
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, http.StatusBadRequest, "signup", gin.H{"error": "All fields are required", "username": "", "email": ""})
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	h.metrics.Signup(err)
	if err != nil {
		h.logFailure(c, "signup", err)
		h.render(c, statusFor(err), "signup", gin.H{
			"error":    domain.Message(err, "Error signing up"),
			"username": req.Username,
			"email":    req.Email,
		})
		return
	}

	if !h.startSession(c, user.ID) {
		h.render(c, http.StatusInternalServerError, "signup", gin.H{
			"error":    "Error signing up",
			"username": req.Username,
			"email":    req.Email,
		})
		return
	}
	c.Redirect(http.StatusFound, "/notes")
}

func (h *Handler) loginForm(c *gin.Context) {
	h.render(c, http.StatusOK, "login", gin.H{"email": "", "error": ""})
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.render(c, http.StatusBadRequest, "login", gin.H{"error": "Missing credentials", "email": ""})
		return
	}

	user, err := h.users.Authenticate(c.Request.Context(), req.Email, req.Password)
	h.metrics.Login(err)
	if err != nil {
		h.logFailure(c, "login", err)
		h.render(c, statusFor(err), "login", gin.H{
			"error": domain.Message(err, "Invalid email or password"),
			"email": req.Email,
		})
		return
	}

	// drop any session the browser already carries before issuing a new one
	if old, err := c.Cookie(h.cfg.CookieName); err == nil && old != "" {
		if err := h.sessions.Revoke(c.Request.Context(), old); err != nil {
			h.logger.WithError(err).Warn("revoke previous session")
		}
	}

	if !h.startSession(c, user.ID) {
		h.render(c, http.StatusInternalServerError, "login", gin.H{
			"error": "Invalid email or password",
			"email": req.Email,
		})
		return
	}
	c.Redirect(http.StatusFound, "/notes")
}

func (h *Handler) logout(c *gin.Context) {
	if token, err := c.Cookie(h.cfg.CookieName); err == nil && token != "" {
		if err := h.sessions.Revoke(c.Request.Context(), token); err != nil {
			h.logger.WithError(err).Warn("revoke session")
		}
	}
	h.clearSessionCookie(c)
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) startSession(c *gin.Context, userID string) bool {
	ticket, err := h.sessions.Issue(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Error("issue session")
		return false
	}
	h.setSessionCookie(c, ticket.Token)
	return true
}
