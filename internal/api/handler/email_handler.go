package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/landsurveyors/directory-api/internal/core/ports"
)

// EmailHandler accepts outbound mail for background delivery.
type EmailHandler struct {
	queue ports.EmailQueue
}

func NewEmailHandler(queue ports.EmailQueue) *EmailHandler {
	return &EmailHandler{queue: queue}
}

// Send handles POST /api/email/send-email.
//
// @Summary      Queue an email
// @Description  The message is delivered asynchronously; 202 means queued, not sent.
// @Tags         email
// @Accept       json
// @Produce      json
// @Param        body  body      sendEmailRequest  true  "Message"
// @Success      202   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      503   {object}  errorResponse
// @Router       /email/send-email [post]
func (h *EmailHandler) Send(c echo.Context) error {
	var req sendEmailRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.queue.Enqueue(toEmailMessage(req)); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, messageResponse{Message: "Email queued for delivery"})
}
