package handler

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/go-demo/forum/internal/model"
	apperrors "github.com/go-demo/forum/internal/pkg/errors"
	"github.com/go-demo/forum/internal/pkg/utils"
	"github.com/go-demo/forum/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func multipartProfile(t *testing.T, name string, avatar []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", name))
	require.NoError(t, mw.WriteField("bio", "gopher"))
	if avatar != nil {
		part, err := mw.CreateFormFile("avatar", "me.png")
		require.NoError(t, err)
		_, err = part.Write(avatar)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUserHandler_Profile(t *testing.T) {
	env := newTestEnv(t, other)
	env.users.On("Profile", mock.Anything, ownerID).Return(&service.ProfilePage{
		User:  owner,
		Rooms: []*model.RoomDetail{testRoom()},
	}, nil)

	w := env.get("/profile/" + ownerID + "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "@owner")
	assert.Contains(t, w.Body.String(), "Python Basics")
	assert.NotContains(t, w.Body.String(), "Edit Profile")
}

func TestUserHandler_Profile_NotFound(t *testing.T) {
	env := newTestEnv(t, owner)
	env.users.On("Profile", mock.Anything, "nope").Return(nil, apperrors.ErrUserNotFound)

	w := env.get("/profile/nope/")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "User does not exist")
}

func TestUserHandler_Profile_RequiresLogin(t *testing.T) {
	env := newTestEnv(t, nil)

	w := env.get("/profile/" + ownerID + "/")

	assert.Equal(t, "/login/?next=%2Fprofile%2F"+ownerID+"%2F", w.Header().Get("Location"))
}

func TestUserHandler_EditProfile_NonOwner(t *testing.T) {
	env := newTestEnv(t, other)
	env.users.On("Get", mock.Anything, ownerID).Return(owner, nil)

	w := env.post("/edit-profile/"+ownerID+"/", url.Values{"name": {"pwned"}})

	assert.Equal(t, "/profile/"+ownerID+"/", w.Header().Get("Location"))
	env.users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_EditProfile_Form(t *testing.T) {
	env := newTestEnv(t, owner)
	user := *owner
	user.Bio.String, user.Bio.Valid = "hi there", true
	env.users.On("Get", mock.Anything, ownerID).Return(&user, nil)

	w := env.get("/edit-profile/" + ownerID + "/")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "hi there</textarea>")
	assert.Contains(t, w.Body.String(), `enctype="multipart/form-data"`)
}

func TestUserHandler_EditProfile_WithAvatar(t *testing.T) {
	env := newTestEnv(t, owner)
	env.users.On("Get", mock.Anything, ownerID).Return(owner, nil)

	var got *service.ProfileInput
	var stored []byte
	env.users.On("UpdateProfile", mock.Anything, owner, ownerID, mock.AnythingOfType("*service.ProfileInput")).
		Run(func(args mock.Arguments) {
			got = args.Get(3).(*service.ProfileInput)
			stored, _ = io.ReadAll(got.Avatar.Reader)
		}).
		Return(owner, nil)

	avatar := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 1024)...)
	body, contentType := multipartProfile(t, "Owner", avatar)
	req := httptest.NewRequest(http.MethodPost, "/edit-profile/"+ownerID+"/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/profile/"+ownerID+"/", w.Header().Get("Location"))
	require.NotNil(t, got)
	assert.Equal(t, "Owner", got.Name)
	assert.Equal(t, "gopher", got.Bio)
	require.NotNil(t, got.Avatar)
	assert.Equal(t, "image/png", got.Avatar.ContentType)
	assert.Equal(t, int64(len(avatar)), got.Avatar.Size)
	assert.Equal(t, avatar, stored)
}

func TestUserHandler_EditProfile_AvatarTooLarge(t *testing.T) {
	env := newTestEnv(t, owner)
	env.users.On("Get", mock.Anything, ownerID).Return(owner, nil)

	avatar := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, service.MaxAvatarSize)...)
	body, contentType := multipartProfile(t, "Owner", avatar)
	req := httptest.NewRequest(http.MethodPost, "/edit-profile/"+ownerID+"/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), apperrors.ErrFileTooLarge.Message)
	env.users.AssertNotCalled(t, "UpdateProfile", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUserHandler_EditProfile_ServiceValidation(t *testing.T) {
	env := newTestEnv(t, owner)
	errs := utils.FieldErrors{}
	errs.Add("avatar", "Upload a valid image. Accepted formats: JPEG, PNG, GIF, WebP.")
	env.users.On("Get", mock.Anything, ownerID).Return(owner, nil)
	env.users.On("UpdateProfile", mock.Anything, owner, ownerID, mock.Anything).
		Return(owner, apperrors.ErrValidation.WithDetails(errs))

	body, contentType := multipartProfile(t, "Owner", []byte("plain text, not an image"))
	req := httptest.NewRequest(http.MethodPost, "/edit-profile/"+ownerID+"/", body)
	req.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Upload a valid image.")
}

func TestUserHandler_EditProfile_NoAvatar(t *testing.T) {
	env := newTestEnv(t, owner)
	env.users.On("Get", mock.Anything, ownerID).Return(owner, nil)
	env.users.On("UpdateProfile", mock.Anything, owner, ownerID, &service.ProfileInput{Name: "New", Bio: ""}).Return(owner, nil)

	w := env.post("/edit-profile/"+ownerID+"/", url.Values{"name": {"New"}})

	assert.Equal(t, "/profile/"+ownerID+"/", w.Header().Get("Location"))
	env.users.AssertExpectations(t)
}
