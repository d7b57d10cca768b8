package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	apperrors "github.com/go-demo/forum/internal/pkg/errors"
	"github.com/go-demo/forum/internal/pkg/utils"
)

const (
	homeURL  = "/"
	loginURL = "/login/"
)

func roomURL(id string) string    { return "/room/" + id + "/" }
func profileURL(id string) string { return "/profile/" + id + "/" }

func isPost(c *gin.Context) bool {
	return c.Request.Method == http.MethodPost
}

// fieldErrors extracts the per-field messages carried by an ErrValidation.
func fieldErrors(err error) (utils.FieldErrors, bool) {
	if !apperrors.Is(err, apperrors.ErrValidation) {
		return nil, false
	}
	errs, ok := apperrors.GetDetails(err).(utils.FieldErrors)
	return errs, ok
}

// safeNext accepts only local absolute paths so the login redirect cannot
// send users to another host.
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return ""
	}
	return next
}
