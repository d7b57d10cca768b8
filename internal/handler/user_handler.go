package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-demo/forum/internal/dto/request"
	"github.com/go-demo/forum/internal/dto/response"
	"github.com/go-demo/forum/internal/middleware"
	"github.com/go-demo/forum/internal/model"
	apperrors "github.com/go-demo/forum/internal/pkg/errors"
	"github.com/go-demo/forum/internal/pkg/utils"
	"github.com/go-demo/forum/internal/service"
	"go.uber.org/zap"
)

// sniffLen is how much of an upload http.DetectContentType looks at
const sniffLen = 512

type UserHandler struct {
	users  UserService
	logger *zap.Logger
}

func NewUserHandler(users UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

// Profile shows a user with their rooms and messages
func (h *UserHandler) Profile(c *gin.Context) {
	page, err := h.users.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ErrorPage(c, err)
		return
	}

	response.HTML(c, http.StatusOK, "profile.html", gin.H{
		"user":          page.User,
		"topics":        page.Topics,
		"rooms":         page.Rooms,
		"room_messages": page.Messages,
	})
}

// EditProfile edits name, bio and avatar of the current user's own profile
func (h *UserHandler) EditProfile(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	user, err := h.users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ErrorPage(c, err)
		return
	}
	if !service.CanMutate(actor, user) {
		response.RedirectWithError(c, profileURL(user.ID), apperrors.ErrForbidden.Message)
		return
	}

	if !isPost(c) {
		h.renderEdit(c, user, &request.ProfileForm{Name: user.Name.String, Bio: user.GetBio()}, nil)
		return
	}

	form := &request.ProfileForm{}
	if errs := request.Bind(c, form); errs.HasErrors() {
		h.renderEdit(c, user, form, errs)
		return
	}

	in := &service.ProfileInput{Name: form.Name, Bio: form.Bio}
	if form.Avatar != nil {
		if form.Avatar.Size > service.MaxAvatarSize {
			errs := utils.FieldErrors{}
			errs.Add("avatar", apperrors.ErrFileTooLarge.Message)
			h.renderEditStatus(c, apperrors.GetHTTPStatus(apperrors.ErrFileTooLarge), user, form, errs)
			return
		}
		avatar, closer, err := openAvatar(form.Avatar)
		if err != nil {
			h.logger.Warn("Failed to read avatar upload", zap.String("user_id", user.ID), zap.Error(err))
			errs := utils.FieldErrors{}
			errs.Add("avatar", "The submitted file is empty or unreadable.")
			h.renderEdit(c, user, form, errs)
			return
		}
		defer closer.Close()
		in.Avatar = avatar
	}

	if _, err := h.users.UpdateProfile(c.Request.Context(), actor, user.ID, in); err != nil {
		if errs, ok := fieldErrors(err); ok {
			h.renderEdit(c, user, form, errs)
			return
		}
		if apperrors.Is(err, apperrors.ErrForbidden) {
			response.RedirectWithError(c, profileURL(user.ID), apperrors.ErrForbidden.Message)
			return
		}
		response.ErrorPage(c, err)
		return
	}

	response.Redirect(c, profileURL(user.ID))
}

func (h *UserHandler) renderEdit(c *gin.Context, user *model.User, form *request.ProfileForm, errs utils.FieldErrors) {
	h.renderEditStatus(c, http.StatusOK, user, form, errs)
}

func (h *UserHandler) renderEditStatus(c *gin.Context, status int, user *model.User, form *request.ProfileForm, errs utils.FieldErrors) {
	response.HTML(c, status, "edit-profile.html", gin.H{
		"user":   user,
		"form":   form,
		"errors": errs,
	})
}

// openAvatar opens an uploaded file and sniffs its content type instead of
// trusting the client header.
func openAvatar(fh *multipart.FileHeader) (*service.AvatarUpload, io.Closer, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		f.Close()
		return nil, nil, err
	}
	if n == 0 {
		f.Close()
		return nil, nil, io.ErrUnexpectedEOF
	}
	head = head[:n]

	return &service.AvatarUpload{
		Reader:      io.MultiReader(bytes.NewReader(head), f),
		ContentType: http.DetectContentType(head),
		Size:        fh.Size,
	}, f, nil
}
