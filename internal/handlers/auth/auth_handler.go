// internal/handlers/auth/auth_handler.go
package auth

import (
	"context"
	"net/http"
	"time"

	"cms-admin/internal/domain/auth"
	"cms-admin/internal/pkg/guard"
	"cms-admin/internal/pkg/response"
	"cms-admin/internal/pkg/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	sessions *session.Manager
	timeout  time.Duration
	logger   *zap.Logger
}

// NewAuthHandler builds the handler. A zero timeout leaves the credential
// exchange bounded only by the request.
func NewAuthHandler(sessions *session.Manager, timeout time.Duration, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		timeout:  timeout,
		logger:   logger,
	}
}

// pageData is returned by every auth endpoint so the shell can render the
// pending indicator, the error banner and where to go next.
type pageData struct {
	Session  session.View `json:"session"`
	Redirect string       `json:"redirect,omitempty"`
}

// ========== Pages ==========

// LoginPage returns the login view state.
func (h *AuthHandler) LoginPage(c *gin.Context) {
	response.Success(c, http.StatusOK, "login", pageData{Session: h.sessions.Snapshot().View()})
}

// RegisterPage returns the registration view state.
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	response.Success(c, http.StatusOK, "register", pageData{Session: h.sessions.Snapshot().View()})
}

// ========== Login ==========

func (h *AuthHandler) Login(c *gin.Context) {
	var req auth.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	ctx, cancel := h.exchangeContext(c)
	defer cancel()

	s := h.sessions.Login(ctx, req.Email, req.Password)
	h.finish(ctx, c, s, "login successful", http.StatusUnauthorized)
}

// ========== Registration ==========

func (h *AuthHandler) Register(c *gin.Context) {
	var req auth.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationError(c, "invalid request", err)
		return
	}

	ctx, cancel := h.exchangeContext(c)
	defer cancel()

	s := h.sessions.Register(ctx, req.Username, req.Email, req.Password)
	h.finish(ctx, c, s, "registration successful", http.StatusBadRequest)
}

// ========== Logout ==========

// Logout ends the session. It succeeds even when nobody is signed in.
func (h *AuthHandler) Logout(c *gin.Context) {
	s := h.sessions.Logout()
	response.Success(c, http.StatusOK, "logout successful", pageData{
		Session:  s.View(),
		Redirect: guard.LoginPath,
	})
}

// ========== Session ==========

// GetSession returns the current session without the token.
func (h *AuthHandler) GetSession(c *gin.Context) {
	response.Success(c, http.StatusOK, "session", h.sessions.Snapshot().View())
}

func (h *AuthHandler) exchangeContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.timeout > 0 {
		return context.WithTimeout(c.Request.Context(), h.timeout)
	}
	return context.WithCancel(c.Request.Context())
}

// finish writes the outcome of a credential exchange. An abandoned attempt
// leaves the session as it was and is reported as a timeout.
func (h *AuthHandler) finish(ctx context.Context, c *gin.Context, s session.Snapshot, message string, failStatus int) {
	view := s.View()

	if err := ctx.Err(); err != nil {
		h.logger.Warn("credential exchange abandoned", zap.Error(err))
		response.Error(c, http.StatusGatewayTimeout, "request timed out", err, pageData{Session: view})
		return
	}

	if failure := s.Failure(); failure != nil {
		response.Error(c, failStatus, failure.Error(), nil, pageData{Session: view})
		return
	}

	// A logout or a newer attempt took over while this one was in flight.
	if !s.IsAuthenticated || s.IsPending {
		response.Error(c, http.StatusConflict, "superseded by a newer request", nil, pageData{Session: view})
		return
	}

	h.logger.Info("console session started", zap.String("username", s.Username()))
	response.Success(c, http.StatusOK, message, pageData{
		Session:  view,
		Redirect: guard.HomePath,
	})
}
