package service

import (
	"context"
	"io"

	"github.com/go-demo/forum/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	if args.Error(0) == nil && user.ID == "" {
		user.ID = "00000000-0000-0000-0000-0000000000aa"
	}
	return args.Error(0)
}
func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*model.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*model.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockUserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}
func (m *MockUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

type MockTopicRepository struct {
	mock.Mock
}

func (m *MockTopicRepository) List(ctx context.Context) ([]*model.TopicWithRoomCount, error) {
	args := m.Called(ctx)
	return args.Get(0).([]*model.TopicWithRoomCount), args.Error(1)
}
func (m *MockTopicRepository) Search(ctx context.Context, q string) ([]*model.TopicWithRoomCount, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]*model.TopicWithRoomCount), args.Error(1)
}
func (m *MockTopicRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
func (m *MockTopicRepository) GetOrCreate(ctx context.Context, name string) (*model.Topic, bool, error) {
	args := m.Called(ctx, name)
	if topic, ok := args.Get(0).(*model.Topic); ok {
		return topic, args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) Create(ctx context.Context, room *model.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}
func (m *MockRoomRepository) GetByID(ctx context.Context, id string) (*model.RoomDetail, error) {
	args := m.Called(ctx, id)
	if room, ok := args.Get(0).(*model.RoomDetail); ok {
		return room, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockRoomRepository) Update(ctx context.Context, room *model.Room) error {
	args := m.Called(ctx, room)
	return args.Error(0)
}
func (m *MockRoomRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockRoomRepository) Search(ctx context.Context, q string) ([]*model.RoomDetail, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]*model.RoomDetail), args.Error(1)
}
func (m *MockRoomRepository) ListByOwner(ctx context.Context, ownerID string) ([]*model.RoomDetail, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]*model.RoomDetail), args.Error(1)
}
func (m *MockRoomRepository) AddParticipant(ctx context.Context, roomID, userID string) error {
	args := m.Called(ctx, roomID, userID)
	return args.Error(0)
}
func (m *MockRoomRepository) ListParticipants(ctx context.Context, roomID string) ([]*model.Participant, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).([]*model.Participant), args.Error(1)
}

type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Create(ctx context.Context, msg *model.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
func (m *MockMessageRepository) GetByID(ctx context.Context, id string) (*model.Message, error) {
	args := m.Called(ctx, id)
	if msg, ok := args.Get(0).(*model.Message); ok {
		return msg, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *MockMessageRepository) UpdateBody(ctx context.Context, msg *model.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
func (m *MockMessageRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockMessageRepository) ListByRoom(ctx context.Context, roomID string) ([]*model.MessageWithUser, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).([]*model.MessageWithUser), args.Error(1)
}
func (m *MockMessageRepository) ListByUser(ctx context.Context, userID string) ([]*model.MessageWithUser, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]*model.MessageWithUser), args.Error(1)
}
func (m *MockMessageRepository) ListByTopicQuery(ctx context.Context, q string) ([]*model.MessageWithUser, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]*model.MessageWithUser), args.Error(1)
}

type MockStore struct {
	mock.Mock
}

func (m *MockStore) Put(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	args := m.Called(ctx, key, contentType, r, size)
	return args.String(0), args.Error(1)
}

const (
	ownerID   = "11111111-1111-1111-1111-111111111111"
	otherID   = "22222222-2222-2222-2222-222222222222"
	roomID    = "33333333-3333-3333-3333-333333333333"
	topicID   = "44444444-4444-4444-4444-444444444444"
	messageID = "55555555-5555-5555-5555-555555555555"
)

func testRoom() *model.RoomDetail {
	return &model.RoomDetail{
		Room: model.Room{
			ID:      roomID,
			TopicID: topicID,
			OwnerID: ownerID,
			Name:    "Python Basics",
		},
		TopicName: "python",
	}
}
