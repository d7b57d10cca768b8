package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/go-demo/forum/internal/middleware"
	"github.com/go-demo/forum/internal/model"
	"github.com/go-demo/forum/internal/service"
)

// RoomService is the room use-case surface the handlers need
type RoomService interface {
	Home(ctx context.Context, q string) (*service.HomePage, error)
	Topics(ctx context.Context, q string, filter bool) ([]*model.TopicWithRoomCount, error)
	ListTopics(ctx context.Context) ([]*model.TopicWithRoomCount, error)
	Get(ctx context.Context, id string) (*model.RoomDetail, error)
	Detail(ctx context.Context, id string) (*service.RoomPage, error)
	Create(ctx context.Context, actor *model.User, in *service.RoomInput) (*model.Room, error)
	Update(ctx context.Context, actor *model.User, id string, in *service.RoomInput) (*model.Room, error)
	Delete(ctx context.Context, actor *model.User, id string) error
}

type MessageService interface {
	Post(ctx context.Context, actor *model.User, roomID, body string) (*model.Message, error)
	Get(ctx context.Context, id string) (*model.Message, error)
	Update(ctx context.Context, actor *model.User, id, body string) (*model.Message, error)
	Delete(ctx context.Context, actor *model.User, id string) (*model.Message, error)
}

type AuthService interface {
	Signup(ctx context.Context, in *service.SignupInput) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
}

type UserService interface {
	Get(ctx context.Context, id string) (*model.User, error)
	Profile(ctx context.Context, id string) (*service.ProfilePage, error)
	UpdateProfile(ctx context.Context, actor *model.User, id string, in *service.ProfileInput) (*model.User, error)
}

// Sessions establishes and terminates login sessions
type Sessions interface {
	Login(c *gin.Context, user *model.User) error
	Logout(c *gin.Context) error
}

var (
	_ RoomService    = (*service.RoomService)(nil)
	_ MessageService = (*service.MessageService)(nil)
	_ AuthService    = (*service.AuthService)(nil)
	_ UserService    = (*service.UserService)(nil)
	_ Sessions       = (*middleware.SessionAuth)(nil)
)
