package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/go-demo/forum/internal/dto/request"
	"github.com/go-demo/forum/internal/dto/response"
	"github.com/go-demo/forum/internal/middleware"
	apperrors "github.com/go-demo/forum/internal/pkg/errors"
	"github.com/go-demo/forum/internal/service"
	"go.uber.org/zap"
)

type AuthHandler struct {
	auth     AuthService
	sessions Sessions
	logger   *zap.Logger
}

func NewAuthHandler(auth AuthService, sessions Sessions, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		logger:   logger,
	}
}

// Login authenticates by email and password
func (h *AuthHandler) Login(c *gin.Context) {
	if middleware.IsAuthenticated(c) {
		response.Redirect(c, homeURL)
		return
	}

	next := safeNext(c.Query(middleware.NextParam))
	if !isPost(c) {
		response.HTML(c, http.StatusOK, "login.html", gin.H{"next": next})
		return
	}

	back := loginURL
	if next != "" {
		back += "?" + middleware.NextParam + "=" + url.QueryEscape(next)
	}

	var form request.LoginForm
	if errs := request.Bind(c, &form); errs.HasErrors() {
		response.RedirectWithError(c, back, apperrors.ErrInvalidCredentials.Message)
		return
	}

	user, err := h.auth.Authenticate(c.Request.Context(), form.Email, form.Password)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUserNotExist) || apperrors.Is(err, apperrors.ErrInvalidCredentials) {
			response.RedirectWithError(c, back, apperrors.GetMessage(err))
			return
		}
		response.ErrorPage(c, err)
		return
	}

	if err := h.sessions.Login(c, user); err != nil {
		h.logger.Error("Failed to establish session", zap.String("user_id", user.ID), zap.Error(err))
		response.ErrorPage(c, apperrors.ErrInternal)
		return
	}

	if next == "" {
		next = homeURL
	}
	response.Redirect(c, next)
}

// Logout ends the session
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.sessions.Logout(c); err != nil {
		h.logger.Error("Failed to clear session", zap.Error(err))
	}
	response.Redirect(c, loginURL)
}

// Signup registers and logs in a new user. Failures re-render the form
// with field errors only.
func (h *AuthHandler) Signup(c *gin.Context) {
	form := &request.SignupForm{}
	if !isPost(c) {
		response.HTML(c, http.StatusOK, "signup.html", gin.H{"form": form})
		return
	}

	errs := request.Bind(c, form)
	if !errs.HasErrors() {
		user, err := h.auth.Signup(c.Request.Context(), &service.SignupInput{
			Name:            form.Name,
			Username:        form.Username,
			Email:           form.Email,
			Password:        form.Password1,
			PasswordConfirm: form.Password2,
		})
		if err == nil {
			if err := h.sessions.Login(c, user); err != nil {
				h.logger.Error("Failed to establish session", zap.String("user_id", user.ID), zap.Error(err))
				response.ErrorPage(c, apperrors.ErrInternal)
				return
			}
			response.Redirect(c, homeURL)
			return
		}

		var ok bool
		if errs, ok = fieldErrors(err); !ok {
			response.ErrorPage(c, err)
			return
		}
	}

	response.HTML(c, http.StatusOK, "signup.html", gin.H{
		"form":   form,
		"errors": errs,
	})
}
