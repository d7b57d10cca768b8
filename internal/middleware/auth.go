package middleware

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-demo/forum/internal/dto/response"
	"github.com/go-demo/forum/internal/model"
	apperrors "github.com/go-demo/forum/internal/pkg/errors"
	"github.com/go-demo/forum/internal/pkg/utils"
	"go.uber.org/zap"
)

const (
	// SessionTokenKey is the cookie-session key holding the signed session token
	SessionTokenKey = "token"
	ClaimsKey       = "session_claims"
	NextParam       = "next"
)

// TokenRevoker records logged-out session tokens
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// UserLookup resolves the user a session token belongs to
type UserLookup interface {
	UserByID(ctx context.Context, id string) (*model.User, error)
}

// SessionAuth resolves the current user from the cookie session and
// implements the login/logout primitives.
type SessionAuth struct {
	tokens  *utils.SessionTokenManager
	revoker TokenRevoker
	users   UserLookup
	logger  *zap.Logger
}

// NewSessionAuth builds a SessionAuth. revoker may be nil when Redis is disabled;
// logout then only clears the cookie.
func NewSessionAuth(tokens *utils.SessionTokenManager, revoker TokenRevoker, users UserLookup, logger *zap.Logger) *SessionAuth {
	return &SessionAuth{
		tokens:  tokens,
		revoker: revoker,
		users:   users,
		logger:  logger,
	}
}

// Middleware sets the current user when the session carries a valid token.
// It never rejects a request; guarded routes add RequireLogin.
func (a *SessionAuth) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := sessions.Default(c)
		raw, _ := s.Get(SessionTokenKey).(string)
		if raw == "" {
			c.Next()
			return
		}

		claims, err := a.tokens.Parse(raw)
		if err != nil {
			a.drop(c, s)
			c.Next()
			return
		}

		ctx := c.Request.Context()
		if a.revoker != nil {
			revoked, err := a.revoker.IsRevoked(ctx, claims.ID)
			if err != nil {
				// Fail closed: serve the request anonymously.
				a.logger.Error("Failed to check session revocation", zap.Error(err))
				c.Next()
				return
			}
			if revoked {
				a.drop(c, s)
				c.Next()
				return
			}
		}

		user, err := a.users.UserByID(ctx, claims.UserID)
		if err != nil {
			if !errors.Is(err, apperrors.ErrUserNotFound) {
				a.logger.Error("Failed to load session user", zap.String("user_id", claims.UserID), zap.Error(err))
			} else {
				a.drop(c, s)
			}
			c.Next()
			return
		}

		c.Set(response.CurrentUserKey, user)
		c.Set(ClaimsKey, claims)
		c.Next()
	}
}

// Login establishes a session for user
func (a *SessionAuth) Login(c *gin.Context, user *model.User) error {
	token, claims, err := a.tokens.Issue(user.ID)
	if err != nil {
		return err
	}

	s := sessions.Default(c)
	s.Set(SessionTokenKey, token)
	if err := s.Save(); err != nil {
		return err
	}

	c.Set(response.CurrentUserKey, user)
	c.Set(ClaimsKey, claims)
	return nil
}

// Logout terminates the session. The token id is revoked so a copied
// cookie stops working before it expires.
func (a *SessionAuth) Logout(c *gin.Context) error {
	if claims := GetClaims(c); claims != nil && a.revoker != nil {
		ttl := time.Until(claims.ExpiresAt.Time)
		if err := a.revoker.Revoke(c.Request.Context(), claims.ID, ttl); err != nil {
			a.logger.Error("Failed to revoke session", zap.Error(err))
		}
	}

	s := sessions.Default(c)
	s.Delete(SessionTokenKey)
	c.Set(response.CurrentUserKey, (*model.User)(nil))
	c.Set(ClaimsKey, (*utils.SessionClaims)(nil))
	return s.Save()
}

func (a *SessionAuth) drop(c *gin.Context, s sessions.Session) {
	s.Delete(SessionTokenKey)
	if err := s.Save(); err != nil {
		_ = c.Error(err)
	}
}

// RequireLogin redirects anonymous users to loginURL with the requested path in next
func RequireLogin(loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			response.Redirect(c, loginURL+"?"+NextParam+"="+url.QueryEscape(c.Request.URL.RequestURI()))
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser retrieves the authenticated user, or nil
func CurrentUser(c *gin.Context) *model.User {
	return response.CurrentUser(c)
}

// GetUserID retrieves the authenticated user's ID, or ""
func GetUserID(c *gin.Context) string {
	if user := CurrentUser(c); user != nil {
		return user.ID
	}
	return ""
}

// GetClaims retrieves the session token claims
func GetClaims(c *gin.Context) *utils.SessionClaims {
	v, ok := c.Get(ClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*utils.SessionClaims)
	return claims
}

// IsAuthenticated checks if user is authenticated
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUser(c) != nil
}
