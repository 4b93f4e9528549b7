package handler

import (
	"net/http"

	"necx-chat/internal/services"
	"necx-chat/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	service *services.MessageService
}

func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

func (h *MessageHandler) List(c *gin.Context) {
	messages, err := h.service.GetAllMessages(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewListResponse(httpdto.FromMessages(messages)))
}

func (h *MessageHandler) Between(c *gin.Context) {
	var q httpdto.BetweenUsersQuery
	if !bindQuery(c, &q) {
		return
	}
	if q.User1 == "" || q.User2 == "" {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("Bad Request",
			"Both user1 and user2 parameters are required", "VALIDATION_ERROR"))
		return
	}

	messages, err := h.service.GetMessagesBetweenUsers(c.Request.Context(), q.User1, q.User2)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewListResponse(httpdto.FromMessages(messages)))
}

func (h *MessageHandler) Search(c *gin.Context) {
	var q httpdto.SearchMessagesQuery
	if !bindQuery(c, &q) {
		return
	}

	messages, err := h.service.SearchMessages(c.Request.Context(), q.Q, services.SearchFilters{
		Sender:    q.Sender,
		Recipient: q.Recipient,
		DateFrom:  q.DateFrom,
		DateTo:    q.DateTo,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSearchMessagesResponse(messages, q))
}

func (h *MessageHandler) Create(c *gin.Context) {
	var req httpdto.CreateMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.service.CreateMessage(c.Request.Context(), services.CreateMessageInput{
		Content:   req.Content,
		Sender:    req.Sender,
		Recipient: req.Recipient,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, httpdto.NewSuccessResponse(httpdto.FromMessage(*created), "Message created successfully"))
}

func (h *MessageHandler) Update(c *gin.Context) {
	var req httpdto.UpdateMessageRequest
	if !bindJSON(c, &req) {
		return
	}

	updated, err := h.service.UpdateMessage(c.Request.Context(), c.Param("id"), services.UpdateMessageInput{
		Content: req.Content,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromMessage(*updated), "Message updated successfully"))
}

func (h *MessageHandler) Delete(c *gin.Context) {
	deleted, err := h.service.DeleteMessage(c.Request.Context(), c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.FromMessage(*deleted), "Message deleted successfully"))
}
