package handler

import (
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

type RoomHandler struct {
	rooms    RoomService
	messages MessageService
	logger   *zap.Logger
}

func NewRoomHandler(rooms RoomService, messages MessageService, logger *zap.Logger) *RoomHandler {
	return &RoomHandler{
		rooms:    rooms,
		messages: messages,
		logger:   logger,
	}
}

// Home lists rooms matching ?q= with the topic sidebar and recent activity
func (h *RoomHandler) Home(c *gin.Context) {
	var form request.SearchForm
	h.bindSearch(c, &form)

	page, err := h.rooms.Home(c.Request.Context(), form.Q)
	if err != nil {
		response.ErrorPage(c, err)
		return
	}

	response.HTML(c, http.StatusOK, "home.html", gin.H{
		"q":             page.Query,
		"topics":        page.Topics,
		"rooms":         page.Rooms,
		"room_count":    page.RoomCount,
		"room_messages": page.Messages,
	})
}

// Topics lists every topic, or those matching a posted q
func (h *RoomHandler) Topics(c *gin.Context) {
	var form request.SearchForm
	if isPost(c) {
		h.bindSearch(c, &form)
	}

	topics, err := h.rooms.Topics(c.Request.Context(), form.Q, isPost(c))
	if err != nil {
		response.ErrorPage(c, err)
		return
	}

	response.HTML(c, http.StatusOK, "topics.html", gin.H{
		"q":      form.Q,
		"topics": topics,
	})
}

// bindSearch fills form. A malformed body leaves q empty, which lists everything.
func (h *RoomHandler) bindSearch(c *gin.Context, form *request.SearchForm) {
	if errs := request.Bind(c, form); errs.HasErrors() {
		h.logger.Debug("Ignoring malformed search form",
			zap.String("path", c.Request.URL.Path),
			zap.Strings("errors", errs.Messages()),
		)
		form.Q = ""
	}
}

// Room shows a room. A POST adds a message from the current user.
func (h *RoomHandler) Room(c *gin.Context) {
	id := c.Param("id")
	ctx := c.Request.Context()

	if isPost(c) {
		var form request.MessageForm
		if errs := request.Bind(c, &form); errs.HasErrors() {
			if _, err := h.rooms.Get(ctx, id); err != nil {
				response.ErrorPage(c, err)
				return
			}
			response.RedirectWithError(c, roomURL(id), errs.First("body"))
			return
		}

		if _, err := h.messages.Post(ctx, middleware.CurrentUser(c), id, form.Body); err != nil {
			if errs, ok := fieldErrors(err); ok {
				response.RedirectWithError(c, roomURL(id), errs.First("body"))
				return
			}
			response.ErrorPage(c, err)
			return
		}

		response.Redirect(c, roomURL(id))
		return
	}

	page, err := h.rooms.Detail(ctx, id)
	if err != nil {
		response.ErrorPage(c, err)
		return
	}

	response.HTML(c, http.StatusOK, "room.html", gin.H{
		"room":          page.Room,
		"room_messages": page.Messages,
		"participants":  page.Participants,
	})
}

// CreateRoom shows and submits the room form
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	form := &request.RoomForm{}
	if !isPost(c) {
		h.renderRoomForm(c, http.StatusOK, nil, form, nil)
		return
	}

	if errs := request.Bind(c, form); errs.HasErrors() {
		h.renderRoomForm(c, http.StatusOK, nil, form, errs)
		return
	}

	_, err := h.rooms.Create(c.Request.Context(), middleware.CurrentUser(c), roomInput(form))
	if err != nil {
		if errs, ok := fieldErrors(err); ok {
			h.renderRoomForm(c, http.StatusOK, nil, form, errs)
			return
		}
		response.ErrorPage(c, err)
		return
	}

	response.Redirect(c, homeURL)
}

// UpdateRoom edits a room. Only the owner may submit.
func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	id := c.Param("id")
	actor := middleware.CurrentUser(c)

	room, err := h.rooms.Get(c.Request.Context(), id)
	if err != nil {
		response.ErrorPage(c, err)
		return
	}
	if !service.CanMutate(actor, room) {
		response.RedirectWithError(c, homeURL, apperrors.ErrPermissionDenied.Message)
		return
	}

	form := &request.RoomForm{
		Topic:       room.TopicName,
		Name:        room.Name,
		Description: room.GetDescription(),
	}
	if !isPost(c) {
		h.renderRoomForm(c, http.StatusOK, room, form, nil)
		return
	}

	form = &request.RoomForm{}
	if errs := request.Bind(c, form); errs.HasErrors() {
		h.renderRoomForm(c, http.StatusOK, room, form, errs)
		return
	}

	if _, err := h.rooms.Update(c.Request.Context(), actor, id, roomInput(form)); err != nil {
		if errs, ok := fieldErrors(err); ok {
			h.renderRoomForm(c, http.StatusOK, room, form, errs)
			return
		}
		if apperrors.Is(err, apperrors.ErrPermissionDenied) {
			response.RedirectWithError(c, homeURL, apperrors.ErrPermissionDenied.Message)
			return
		}
		response.ErrorPage(c, err)
		return
	}

	response.Redirect(c, homeURL)
}

// DeleteRoom confirms on GET and deletes on POST. Only the owner may delete.
func (h *RoomHandler) DeleteRoom(c *gin.Context) {
	id := c.Param("id")
	actor := middleware.CurrentUser(c)

	room, err := h.rooms.Get(c.Request.Context(), id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrRoomNotFound) {
			err = apperrors.ErrRoomGone
		}
		response.ErrorPage(c, err)
		return
	}
	if !service.CanMutate(actor, room) {
		response.RedirectWithError(c, homeURL, apperrors.ErrForbidden.Message)
		return
	}

	if !isPost(c) {
		response.HTML(c, http.StatusOK, "delete.html", gin.H{
			"obj":    room.Name,
			"cancel": homeURL,
		})
		return
	}

	if err := h.rooms.Delete(c.Request.Context(), actor, id); err != nil {
		if apperrors.Is(err, apperrors.ErrForbidden) {
			response.RedirectWithError(c, homeURL, apperrors.ErrForbidden.Message)
			return
		}
		response.ErrorPage(c, err)
		return
	}

	response.Redirect(c, homeURL)
}

func (h *RoomHandler) renderRoomForm(c *gin.Context, status int, room *model.RoomDetail, form *request.RoomForm, errs utils.FieldErrors) {
	topics, err := h.rooms.ListTopics(c.Request.Context())
	if err != nil {
		response.ErrorPage(c, err)
		return
	}

	action := "/create-room/"
	if room != nil {
		action = "/update-room/" + room.ID + "/"
	}

	response.HTML(c, status, "room_form.html", gin.H{
		"room":   room,
		"form":   form,
		"topics": topics,
		"errors": errs,
		"action": action,
	})
}

func roomInput(form *request.RoomForm) *service.RoomInput {
	return &service.RoomInput{
		Topic:       form.Topic,
		Name:        form.Name,
		Description: form.Description,
	}
}
