package handler

import (
	"encoding/json"
	"net/http"

	"ciaohost/internal/guestcomms/cohost"
	"ciaohost/internal/guestcomms/service"
	httputil "ciaohost/pkg/http"
	"ciaohost/pkg/logger"
	"ciaohost/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type MessageHandler struct {
	service service.MessageService
	log     *logger.Logger
}

func NewMessageHandler(service service.MessageService, log *logger.Logger) *MessageHandler {
	return &MessageHandler{
		service: service,
		log:     log,
	}
}

type CohostRequest struct {
	Stage    cohost.Stage `json:"stage"`
	Draft    cohost.Draft `json:"draft"`
	Prompt   string       `json:"prompt"`
	Language string       `json:"language,omitempty"`
}

type CohostResponse struct {
	Reply string       `json:"reply"`
	Stage cohost.Stage `json:"stage"`
}

func (h *MessageHandler) Record(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var message model.Message
	if err := json.NewDecoder(r.Body).Decode(&message); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "Record", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if err := h.service.Record(r.Context(), &message); err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Record", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteCreated(w, message); err != nil {
		h.log.Error("failed to write created response", "handler", "Record", "operation", "WriteCreated", "error", err)
	}
}

func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookingID := r.URL.Query().Get("booking_id")
	if bookingID == "" {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "'booking_id' query parameter is required",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "History", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "History", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	messages, total, err := h.service.History(r.Context(), bookingID, limit, offset)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "History", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, messages, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "History", "operation", "WritePaginated", "error", err)
	}
}

// CohostReply answers a guest-chat prompt with a canned response and the
// advanced conversation stage.
func (h *MessageHandler) CohostReply(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req CohostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid request body",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CohostReply", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	if req.Stage == "" {
		req.Stage = cohost.StageInitial
	}
	if !req.Stage.Valid() {
		if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
			Error: "Invalid conversation stage",
		}); writeErr != nil {
			h.log.Error("failed to write JSON response", "handler", "CohostReply", "operation", "WriteJSON", "error", writeErr)
		}
		return
	}

	reply := cohost.Reply(req.Stage, req.Draft, req.Prompt, req.Language)
	next := cohost.NextStage(req.Stage, req.Draft, req.Prompt)

	if err := httputil.WriteSuccess(w, CohostResponse{Reply: reply, Stage: next}); err != nil {
		h.log.Error("failed to write success response", "handler", "CohostReply", "operation", "WriteSuccess", "error", err)
	}
}

func (h *MessageHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/messages", h.Record)
	router.GET("/api/v1/messages", h.History)
	router.POST("/api/v1/cohost/reply", h.CohostReply)
}
