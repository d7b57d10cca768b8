package response

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/go-demo/forum/internal/model"
	apperrors "github.com/go-demo/forum/internal/pkg/errors"
)

const (
	// CurrentUserKey holds the authenticated *model.User in the gin context
	CurrentUserKey = "current_user"

	// ErrorView renders every error state, not only 404s
	ErrorView = "404.html"
)

// Flash levels
const (
	FlashError   = "error"
	FlashSuccess = "success"
	FlashInfo    = "info"
)

var flashLevels = []string{FlashError, FlashSuccess, FlashInfo}

// Flash is a one-shot message shown on the next rendered page
type Flash struct {
	Level   string
	Message string
}

// session returns the request session, or nil when the sessions middleware
// is not installed on this route.
func session(c *gin.Context) sessions.Session {
	if _, ok := c.Get(sessions.DefaultKey); !ok {
		return nil
	}
	return sessions.Default(c)
}

// AddFlash queues message for the next rendered page
func AddFlash(c *gin.Context, level, message string) {
	s := session(c)
	if s == nil {
		return
	}
	s.AddFlash(message, level)
	if err := s.Save(); err != nil {
		_ = c.Error(err)
	}
}

// Flashes pops every queued flash message
func Flashes(c *gin.Context) []Flash {
	s := session(c)
	if s == nil {
		return nil
	}

	var out []Flash
	for _, level := range flashLevels {
		for _, f := range s.Flashes(level) {
			if msg, ok := f.(string); ok {
				out = append(out, Flash{Level: level, Message: msg})
			}
		}
	}
	if len(out) > 0 {
		if err := s.Save(); err != nil {
			_ = c.Error(err)
		}
	}
	return out
}

// CurrentUser returns the user resolved by the session middleware, or nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(CurrentUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

// HTML renders view with data plus the current user and pending flashes
func HTML(c *gin.Context, status int, view string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["current_user"] = CurrentUser(c)
	data["flashes"] = Flashes(c)
	data["path"] = c.Request.URL.Path

	c.HTML(status, view, data)
}

// Redirect sends a 302 to location
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// RedirectWithError flashes message as an error and redirects
func RedirectWithError(c *gin.Context, location, message string) {
	AddFlash(c, FlashError, message)
	Redirect(c, location)
}

// ErrorPage renders the error view for err. Non-AppErrors render as
// ErrInternal so driver details never reach the page.
func ErrorPage(c *gin.Context, err error) {
	status := apperrors.GetHTTPStatus(err)
	HTML(c, status, ErrorView, gin.H{
		"error": apperrors.GetMessage(err),
		"code":  status,
	})
}

// HealthResponse represents health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services,omitempty"`
}
