package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-demo/forum/internal/model"
	apperrors "github.com/go-demo/forum/internal/pkg/errors"
	"github.com/go-demo/forum/internal/pkg/utils"
	"github.com/go-demo/forum/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRoomService() (*RoomService, *MockRoomRepository, *MockTopicRepository, *MockMessageRepository) {
	roomRepo := new(MockRoomRepository)
	topicRepo := new(MockTopicRepository)
	messageRepo := new(MockMessageRepository)
	return NewRoomService(roomRepo, topicRepo, messageRepo, zap.NewNop()), roomRepo, topicRepo, messageRepo
}

func TestRoomService_Home(t *testing.T) {
	svc, roomRepo, topicRepo, messageRepo := setupRoomService()
	ctx := context.Background()

	rooms := []*model.RoomDetail{testRoom()}
	topics := []*model.TopicWithRoomCount{{Topic: model.Topic{ID: topicID, Name: "python"}, RoomCount: 1}}
	messages := []*model.MessageWithUser{{Message: model.Message{ID: messageID, Body: "hi"}}}

	roomRepo.On("Search", ctx, "python").Return(rooms, nil)
	topicRepo.On("List", ctx).Return(topics, nil)
	messageRepo.On("ListByTopicQuery", ctx, "python").Return(messages, nil)

	page, err := svc.Home(ctx, "python")
	require.NoError(t, err)

	assert.Equal(t, 1, page.RoomCount)
	assert.Equal(t, rooms, page.Rooms)
	assert.Equal(t, topics, page.Topics)
	assert.Equal(t, messages, page.Messages)
	assert.Equal(t, "python", page.Query)
}

func TestRoomService_Home_KeepsWhitespaceQuery(t *testing.T) {
	svc, roomRepo, _, _ := setupRoomService()
	ctx := context.Background()

	roomRepo.On("Search", ctx, "  ").Return([]*model.RoomDetail{}, nil)

	_, err := svc.Home(ctx, "  ")

	assert.ErrorIs(t, err, apperrors.ErrNothingFound)
	roomRepo.AssertNotCalled(t, "Search", ctx, "")
}

func TestRoomService_Home_NothingFound(t *testing.T) {
	svc, roomRepo, topicRepo, messageRepo := setupRoomService()
	ctx := context.Background()

	roomRepo.On("Search", ctx, "java").Return([]*model.RoomDetail{}, nil)

	page, err := svc.Home(ctx, "java")

	assert.Nil(t, page)
	assert.ErrorIs(t, err, apperrors.ErrNothingFound)
	topicRepo.AssertNotCalled(t, "List", mock.Anything)
	messageRepo.AssertNotCalled(t, "ListByTopicQuery", mock.Anything, mock.Anything)
}

func TestRoomService_Home_RepositoryFailure(t *testing.T) {
	svc, roomRepo, _, _ := setupRoomService()
	ctx := context.Background()

	roomRepo.On("Search", ctx, "").Return([]*model.RoomDetail(nil), errors.New("connection refused"))

	_, err := svc.Home(ctx, "")
	assert.ErrorIs(t, err, apperrors.ErrInternal)
}

func TestRoomService_Topics(t *testing.T) {
	ctx := context.Background()
	all := []*model.TopicWithRoomCount{{Topic: model.Topic{Name: "go"}}, {Topic: model.Topic{Name: "python"}}}
	filtered := all[1:]

	t.Run("no topics at all", func(t *testing.T) {
		svc, _, topicRepo, _ := setupRoomService()
		topicRepo.On("Count", ctx).Return(0, nil)

		_, err := svc.Topics(ctx, "py", true)
		assert.ErrorIs(t, err, apperrors.ErrNoTopics)
	})

	t.Run("unfiltered", func(t *testing.T) {
		svc, _, topicRepo, _ := setupRoomService()
		topicRepo.On("Count", ctx).Return(2, nil)
		topicRepo.On("List", ctx).Return(all, nil)

		topics, err := svc.Topics(ctx, "ignored", false)
		require.NoError(t, err)
		assert.Len(t, topics, 2)
	})

	t.Run("filtered", func(t *testing.T) {
		svc, _, topicRepo, _ := setupRoomService()
		topicRepo.On("Count", ctx).Return(2, nil)
		topicRepo.On("Search", ctx, "py").Return(filtered, nil)

		topics, err := svc.Topics(ctx, "py", true)
		require.NoError(t, err)
		assert.Equal(t, filtered, topics)
	})
}

func TestRoomService_Get(t *testing.T) {
	svc, roomRepo, _, _ := setupRoomService()
	ctx := context.Background()

	roomRepo.On("GetByID", ctx, roomID).Return(testRoom(), nil)
	roomRepo.On("GetByID", ctx, otherID).Return(nil, repository.ErrRoomNotFound)

	room, err := svc.Get(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, roomID, room.ID)

	_, err = svc.Get(ctx, otherID)
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)

	_, err = svc.Get(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, apperrors.ErrRoomNotFound)
	roomRepo.AssertNotCalled(t, "GetByID", ctx, "not-a-uuid")
}

func TestRoomService_Detail(t *testing.T) {
	svc, roomRepo, _, messageRepo := setupRoomService()
	ctx := context.Background()

	messages := []*model.MessageWithUser{{Message: model.Message{ID: "m1"}}, {Message: model.Message{ID: "m2"}}}
	participants := []*model.Participant{{ID: otherID, Username: "bob"}}

	roomRepo.On("GetByID", ctx, roomID).Return(testRoom(), nil)
	messageRepo.On("ListByRoom", ctx, roomID).Return(messages, nil)
	roomRepo.On("ListParticipants", ctx, roomID).Return(participants, nil)

	page, err := svc.Detail(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, messages, page.Messages)
	assert.Equal(t, participants, page.Participants)
}

func TestRoomService_Create_ReusesExistingTopic(t *testing.T) {
	svc, roomRepo, topicRepo, _ := setupRoomService()
	ctx := context.Background()
	actor := &model.User{ID: ownerID}

	topicRepo.On("GetOrCreate", ctx, "python").Return(&model.Topic{ID: topicID, Name: "python"}, false, nil)
	roomRepo.On("Create", ctx, mock.MatchedBy(func(r *model.Room) bool {
		return r.TopicID == topicID && r.OwnerID == ownerID && r.Name == "Python Basics" && r.GetDescription() == "intro"
	})).Return(nil)

	room, err := svc.Create(ctx, actor, &RoomInput{Topic: " python ", Name: "Python Basics", Description: "intro"})
	require.NoError(t, err)
	assert.Equal(t, topicID, room.TopicID)

	topicRepo.AssertNumberOfCalls(t, "GetOrCreate", 1)
	roomRepo.AssertExpectations(t)
}

func TestRoomService_Create_Validation(t *testing.T) {
	svc, roomRepo, topicRepo, _ := setupRoomService()
	ctx := context.Background()

	_, err := svc.Create(ctx, &model.User{ID: ownerID}, &RoomInput{Topic: "", Name: " "})

	require.ErrorIs(t, err, apperrors.ErrValidation)
	details, ok := apperrors.GetDetails(err).(utils.FieldErrors)
	require.True(t, ok)
	assert.Contains(t, details, "topic")
	assert.Contains(t, details, "name")
	topicRepo.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
	roomRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRoomService_Create_Anonymous(t *testing.T) {
	svc, _, _, _ := setupRoomService()

	_, err := svc.Create(context.Background(), nil, &RoomInput{Topic: "go", Name: "Go"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestRoomService_Update(t *testing.T) {
	svc, roomRepo, topicRepo, _ := setupRoomService()
	ctx := context.Background()
	actor := &model.User{ID: ownerID}

	roomRepo.On("GetByID", ctx, roomID).Return(testRoom(), nil)
	topicRepo.On("GetOrCreate", ctx, "golang").Return(&model.Topic{ID: "t2", Name: "golang"}, true, nil)
	roomRepo.On("Update", ctx, mock.MatchedBy(func(r *model.Room) bool {
		return r.ID == roomID && r.TopicID == "t2" && r.Name == "Go Basics" && !r.Description.Valid
	})).Return(nil)

	room, err := svc.Update(ctx, actor, roomID, &RoomInput{Topic: "golang", Name: "Go Basics"})
	require.NoError(t, err)
	assert.Equal(t, "Go Basics", room.Name)
	roomRepo.AssertExpectations(t)
}

func TestRoomService_Update_NonOwnerCannotPersist(t *testing.T) {
	svc, roomRepo, topicRepo, _ := setupRoomService()
	ctx := context.Background()

	roomRepo.On("GetByID", ctx, roomID).Return(testRoom(), nil)

	_, err := svc.Update(ctx, &model.User{ID: otherID}, roomID, &RoomInput{Topic: "hacked", Name: "hacked"})

	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	topicRepo.AssertNotCalled(t, "GetOrCreate", mock.Anything, mock.Anything)
	roomRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestRoomService_Delete(t *testing.T) {
	svc, roomRepo, _, _ := setupRoomService()
	ctx := context.Background()

	roomRepo.On("GetByID", ctx, roomID).Return(testRoom(), nil)
	roomRepo.On("Delete", ctx, roomID).Return(nil)

	err := svc.Delete(ctx, &model.User{ID: ownerID}, roomID)
	require.NoError(t, err)
	roomRepo.AssertCalled(t, "Delete", ctx, roomID)
}

func TestRoomService_Delete_NonOwnerCannotPersist(t *testing.T) {
	svc, roomRepo, _, _ := setupRoomService()
	ctx := context.Background()

	roomRepo.On("GetByID", ctx, roomID).Return(testRoom(), nil)

	err := svc.Delete(ctx, &model.User{ID: otherID}, roomID)

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	roomRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRoomService_Delete_NotFound(t *testing.T) {
	svc, roomRepo, _, _ := setupRoomService()
	ctx := context.Background()

	roomRepo.On("GetByID", ctx, roomID).Return(nil, repository.ErrRoomNotFound)

	err := svc.Delete(ctx, &model.User{ID: ownerID}, roomID)
	assert.ErrorIs(t, err, apperrors.ErrRoomGone)
}
