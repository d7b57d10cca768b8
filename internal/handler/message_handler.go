package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-demo/forum/internal/dto/request"
	"github.com/go-demo/forum/internal/dto/response"
	"github.com/go-demo/forum/internal/middleware"
	apperrors "github.com/go-demo/forum/internal/pkg/errors"
	"github.com/go-demo/forum/internal/service"
	"go.uber.org/zap"
)

type MessageHandler struct {
	messages MessageService
	logger   *zap.Logger
}

func NewMessageHandler(messages MessageService, logger *zap.Logger) *MessageHandler {
	return &MessageHandler{
		messages: messages,
		logger:   logger,
	}
}

// UpdateMessage edits a message body. Only the author may edit.
func (h *MessageHandler) UpdateMessage(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	msg, err := h.messages.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ErrorPage(c, err)
		return
	}
	if !service.CanMutate(actor, msg) {
		response.RedirectWithError(c, roomURL(msg.RoomID), apperrors.ErrForbidden.Message)
		return
	}

	form := &request.MessageForm{Body: msg.Body}
	if isPost(c) {
		form = &request.MessageForm{}
		errs := request.Bind(c, form)
		if !errs.HasErrors() {
			_, err = h.messages.Update(c.Request.Context(), actor, msg.ID, form.Body)
			if err == nil {
				response.Redirect(c, roomURL(msg.RoomID))
				return
			}
			if apperrors.Is(err, apperrors.ErrForbidden) {
				response.RedirectWithError(c, roomURL(msg.RoomID), apperrors.ErrForbidden.Message)
				return
			}
			var ok bool
			if errs, ok = fieldErrors(err); !ok {
				response.ErrorPage(c, err)
				return
			}
		}

		response.HTML(c, http.StatusOK, "update-message.html", gin.H{
			"message": msg,
			"form":    form,
			"errors":  errs,
		})
		return
	}

	response.HTML(c, http.StatusOK, "update-message.html", gin.H{
		"message": msg,
		"form":    form,
	})
}

// DeleteMessage confirms on GET and deletes on POST. Only the author may delete.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	actor := middleware.CurrentUser(c)

	msg, err := h.messages.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ErrorPage(c, err)
		return
	}
	if !service.CanMutate(actor, msg) {
		response.RedirectWithError(c, roomURL(msg.RoomID), apperrors.ErrForbidden.Message)
		return
	}

	if !isPost(c) {
		response.HTML(c, http.StatusOK, "delete.html", gin.H{
			"obj":    msg.Body,
			"cancel": roomURL(msg.RoomID),
		})
		return
	}

	if _, err := h.messages.Delete(c.Request.Context(), actor, msg.ID); err != nil {
		if apperrors.Is(err, apperrors.ErrForbidden) {
			response.RedirectWithError(c, roomURL(msg.RoomID), apperrors.ErrForbidden.Message)
			return
		}
		response.ErrorPage(c, err)
		return
	}

	response.Redirect(c, roomURL(msg.RoomID))
}
