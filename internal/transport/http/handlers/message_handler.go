package handlers

import (
	"log/slog"
	"net/http"

	"tradehub/internal/service"
)

type MessageHandler struct {
	messageService *service.MessageService
	log            *slog.Logger
}

func NewMessageHandler(messageService *service.MessageService, log *slog.Logger) *MessageHandler {
	return &MessageHandler{messageService: messageService, log: log}
}

// History returns a room's messages ascending by creation time, capped
// at 200. An unknown room falls back to general, same as everywhere
// else.
func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request) {
	messages, err := h.messageService.History(r.Context(), r.URL.Query().Get("room"))
	if err != nil {
		h.log.Error("history read failed", "err", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Failed to load messages")
		return
	}

	writeJSON(w, http.StatusOK, messages)
}
