package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/services"
	"github.com/vncsmyrnk/teknikoz-api/internal/logging"
)

const defaultPendingLimit = 50

type BrochureHandler struct {
	service ports.BrochureService
	logger  logging.Logger
}

func NewBrochureHandler(service ports.BrochureService, logger logging.Logger) *BrochureHandler {
	return &BrochureHandler{
		service: service,
		logger:  logger.With("component", "brochure_handler"),
	}
}

type brochureRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	CourseInterest string `json:"course_interest"`
	Message        string `json:"message"`
}

type brochureSummary struct {
	ID         uuid.UUID `json:"id"`
	ContactID  uuid.UUID `json:"contact_id"`
	CourseType string    `json:"course_type"`
	EmailSent  bool      `json:"email_sent"`
	CreatedAt  time.Time `json:"created_at"`
}

func (h *BrochureHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req brochureRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	br, err := h.service.Request(r.Context(), ports.BrochureRequestInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		CourseInterest: req.CourseInterest,
		Message:        req.Message,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	message := "Brochure request submitted successfully. Check your email for the brochure."
	if !br.EmailSent {
		message = "Brochure request submitted successfully. The brochure will be emailed shortly."
	}
	respond(w, http.StatusCreated, message, brochureSummary{
		ID:         br.ID,
		ContactID:  br.ContactID,
		CourseType: br.CourseType,
		EmailSent:  br.EmailSent,
		CreatedAt:  br.CreatedAt,
	})
}

func (h *BrochureHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, errLimit := queryInt(r, "limit", services.DefaultPageSize)
	offset, errOffset := queryInt(r, "offset", 0)
	if errLimit != nil || errOffset != nil {
		respondError(w, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	requests, err := h.service.List(r.Context(), ports.ListInput{
		Limit:  limit,
		Offset: offset,
		Course: r.URL.Query().Get("course_type"),
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	respondPage(w, requests, pagination{Limit: limit, Offset: offset, Total: len(requests)})
}

func (h *BrochureHandler) Pending(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", defaultPendingLimit)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	requests, err := h.service.PendingDeliveries(r.Context(), limit)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respondPage(w, requests, pagination{Limit: limit, Total: len(requests)})
}

func (h *BrochureHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.DeliveryStats(r.Context())
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "", stats)
}

func (h *BrochureHandler) ListByContact(w http.ResponseWriter, r *http.Request) {
	contactID, ok := pathUUID(w, r, "contactId")
	if !ok {
		return
	}

	requests, err := h.service.ListByContact(r.Context(), contactID)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "", requests)
}

func (h *BrochureHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	br, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "", br)
}

func (h *BrochureHandler) Resend(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	br, err := h.service.Resend(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Brochure resent successfully", br)
}

func (h *BrochureHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Brochure request deleted successfully", nil)
}
