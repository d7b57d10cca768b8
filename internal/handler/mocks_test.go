package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/go-demo/forum/internal/dto/response"
	"github.com/go-demo/forum/internal/model"
	"github.com/go-demo/forum/internal/service"
	"github.com/go-demo/forum/internal/web"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const (
	ownerID   = "11111111-1111-4111-8111-111111111111"
	otherID   = "22222222-2222-4222-8222-222222222222"
	roomID    = "33333333-3333-4333-8333-333333333333"
	messageID = "44444444-4444-4444-8444-444444444444"
)

var (
	owner = &model.User{ID: ownerID, Username: "owner", Email: "owner@example.com"}
	other = &model.User{ID: otherID, Username: "other", Email: "other@example.com"}
)

func testRoom() *model.RoomDetail {
	return &model.RoomDetail{
		Room:          model.Room{ID: roomID, OwnerID: ownerID, TopicID: "t1", Name: "Python Basics"},
		TopicName:     "python",
		OwnerUsername: "owner",
	}
}

func testMessage() *model.Message {
	return &model.Message{ID: messageID, RoomID: roomID, UserID: ownerID, Body: "hello there"}
}

type MockRoomService struct{ mock.Mock }

func (m *MockRoomService) Home(ctx context.Context, q string) (*service.HomePage, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.HomePage), args.Error(1)
}

func (m *MockRoomService) Topics(ctx context.Context, q string, filter bool) ([]*model.TopicWithRoomCount, error) {
	args := m.Called(ctx, q, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TopicWithRoomCount), args.Error(1)
}

func (m *MockRoomService) ListTopics(ctx context.Context) ([]*model.TopicWithRoomCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.TopicWithRoomCount), args.Error(1)
}

func (m *MockRoomService) Get(ctx context.Context, id string) (*model.RoomDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.RoomDetail), args.Error(1)
}

func (m *MockRoomService) Detail(ctx context.Context, id string) (*service.RoomPage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.RoomPage), args.Error(1)
}

func (m *MockRoomService) Create(ctx context.Context, actor *model.User, in *service.RoomInput) (*model.Room, error) {
	args := m.Called(ctx, actor, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *MockRoomService) Update(ctx context.Context, actor *model.User, id string, in *service.RoomInput) (*model.Room, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Room), args.Error(1)
}

func (m *MockRoomService) Delete(ctx context.Context, actor *model.User, id string) error {
	return m.Called(ctx, actor, id).Error(0)
}

type MockMessageService struct{ mock.Mock }

func (m *MockMessageService) Post(ctx context.Context, actor *model.User, roomID, body string) (*model.Message, error) {
	args := m.Called(ctx, actor, roomID, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageService) Get(ctx context.Context, id string) (*model.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageService) Update(ctx context.Context, actor *model.User, id, body string) (*model.Message, error) {
	args := m.Called(ctx, actor, id, body)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

func (m *MockMessageService) Delete(ctx context.Context, actor *model.User, id string) (*model.Message, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Message), args.Error(1)
}

type MockAuthService struct{ mock.Mock }

func (m *MockAuthService) Signup(ctx context.Context, in *service.SignupInput) (*model.User, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

type MockUserService struct{ mock.Mock }

func (m *MockUserService) Get(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) Profile(ctx context.Context, id string) (*service.ProfilePage, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProfilePage), args.Error(1)
}

func (m *MockUserService) UpdateProfile(ctx context.Context, actor *model.User, id string, in *service.ProfileInput) (*model.User, error) {
	args := m.Called(ctx, actor, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// fakeSessions records login/logout calls instead of issuing tokens
type fakeSessions struct {
	loggedIn  *model.User
	loggedOut bool
}

func (f *fakeSessions) Login(c *gin.Context, user *model.User) error {
	f.loggedIn = user
	c.Set(response.CurrentUserKey, user)
	return nil
}

func (f *fakeSessions) Logout(c *gin.Context) error {
	f.loggedOut = true
	return nil
}

type testEnv struct {
	router   *gin.Engine
	rooms    *MockRoomService
	messages *MockMessageService
	auth     *MockAuthService
	users    *MockUserService
	sessions *fakeSessions
}

// newTestEnv builds the real routes and templates; actor, when set, is the
// logged-in user for every request.
func newTestEnv(t *testing.T, actor *model.User) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	renderer, err := web.NewRenderer(nil)
	require.NoError(t, err)

	env := &testEnv{
		rooms:    new(MockRoomService),
		messages: new(MockMessageService),
		auth:     new(MockAuthService),
		users:    new(MockUserService),
		sessions: &fakeSessions{},
	}

	router := gin.New()
	router.HTMLRender = renderer
	router.Use(sessions.Sessions("forum_session", cookie.NewStore([]byte("test-secret"))))
	router.Use(func(c *gin.Context) {
		if actor != nil {
			c.Set(response.CurrentUserKey, actor)
		}
		c.Next()
	})

	logger := zap.NewNop()
	routes := &Routes{
		Room:    NewRoomHandler(env.rooms, env.messages, logger),
		Message: NewMessageHandler(env.messages, logger),
		Auth:    NewAuthHandler(env.auth, env.sessions, logger),
		User:    NewUserHandler(env.users, logger),
	}
	routes.Register(router)

	env.router = router
	return env
}

func (e *testEnv) get(path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// follow requests the redirect target carrying the session cookie, so the
// flash set by the redirecting handler is rendered.
func (e *testEnv) follow(t *testing.T, w *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	t.Helper()
	require.Equal(t, http.StatusFound, w.Code)
	return e.get(w.Header().Get("Location"), w.Result().Cookies()...)
}
