package handler

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"devblog/internal/errors"
	"devblog/internal/logging"
	"devblog/internal/service"
)

// ChatHandler exposes the blog assistant.
type ChatHandler struct {
	chatService service.ChatService
	logger      logging.Logger
}

// NewChatHandler creates a chat handler.
func NewChatHandler(chatService service.ChatService, logger logging.Logger) *ChatHandler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ChatHandler{chatService: chatService, logger: logger}
}

// ChatRequest is the visitor's question.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse carries the assistant's reply. Upstream failures are replies too.
type ChatResponse struct {
	Reply  string `json:"reply"`
	Status string `json:"status"`
}

// Chat godoc
// @Summary Ask the blog assistant
// @Tags chat
// @Accept json
// @Produce json
// @Param request body ChatRequest true "Question"
// @Success 200 {object} ChatResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /chat [post]
func (h *ChatHandler) Chat(c echo.Context) error {
	ctx := c.Request().Context()

	var req ChatRequest
	if err := json.NewDecoder(c.Request().Body).Decode(&req); err != nil {
		h.logger.Warn(ctx, "chat request is not valid JSON", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "Invalid JSON"})
	}

	reply, err := h.chatService.Reply(ctx, req.Message)
	if err != nil {
		if stderrors.Is(err, service.ErrEmptyMessage) {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: err.Error()})
		}
		h.logger.Error(ctx, "chat failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusOK, ChatResponse{Reply: reply, Status: "success"})
}
