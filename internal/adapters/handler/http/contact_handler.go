package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/domain"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/ports"
	"github.com/vncsmyrnk/teknikoz-api/internal/core/services"
	"github.com/vncsmyrnk/teknikoz-api/internal/logging"
)

type ContactHandler struct {
	service ports.ContactService
	logger  logging.Logger
}

func NewContactHandler(service ports.ContactService, logger logging.Logger) *ContactHandler {
	return &ContactHandler{
		service: service,
		logger:  logger.With("component", "contact_handler"),
	}
}

type contactRequest struct {
	Name           string          `json:"name"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	CourseInterest string          `json:"course_interest"`
	Message        string          `json:"message"`
	FormType       domain.FormType `json:"form_type"`
}

type contactSummary struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	CourseInterest string    `json:"course_interest"`
	CreatedAt      time.Time `json:"created_at"`
}

type updateContactRequest struct {
	Message string `json:"message"`
}

func (h *ContactHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.FormType == "" {
		req.FormType = domain.FormTypeContact
	}

	contact, err := h.service.Create(r.Context(), ports.CreateContactInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		CourseInterest: req.CourseInterest,
		Message:        req.Message,
		FormType:       req.FormType,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	respond(w, http.StatusCreated, "Contact form submitted successfully", contactSummary{
		ID:             contact.ID,
		Name:           contact.Name,
		Email:          contact.Email,
		CourseInterest: contact.CourseInterest,
		CreatedAt:      contact.CreatedAt,
	})
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, errLimit := queryInt(r, "limit", services.DefaultPageSize)
	offset, errOffset := queryInt(r, "offset", 0)
	formType := domain.FormType(r.URL.Query().Get("form_type"))
	if errLimit != nil || errOffset != nil || (formType != "" && !formType.Valid()) {
		respondError(w, http.StatusBadRequest, "Invalid query parameters")
		return
	}

	contacts, err := h.service.List(r.Context(), ports.ListInput{Limit: limit, Offset: offset, FormType: formType})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	respondPage(w, contacts, pagination{Limit: limit, Offset: offset, Total: len(contacts)})
}

func (h *ContactHandler) ListByEmail(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.service.ListByEmail(r.Context(), urlParam(r, "email"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "", contacts)
}

func (h *ContactHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	contact, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "", contact)
}

func (h *ContactHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}
	var req updateContactRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	principal, _ := PrincipalFrom(r.Context())

	contact, err := h.service.UpdateMessage(r.Context(), id, req.Message, principal)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Contact updated successfully", contact)
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	respond(w, http.StatusOK, "Contact deleted successfully", nil)
}
