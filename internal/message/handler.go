package message

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/pkg/middleware"
	"github.com/fkhayef/fellowship/pkg/response"
)

// Handler handles HTTP requests for the message feed
type Handler struct {
	service *Service
}

// NewHandler creates a new message handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for message endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/visibility-options", h.VisibilityOptions)
	r.Get("/{id}", h.GetByID)

	return r
}

// List handles GET /messages
// @Summary      Message feed
// @Description  Messages the caller may see, newest first
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        type query string false "announcement, prayer_request or general"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]MessageResponse}
// @Router       /messages [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	page, perPage := response.PageParams(r)

	messages, total, err := h.service.List(r.Context(), viewer, r.URL.Query().Get("type"), page, perPage)
	if err != nil {
		response.FromError(w, err, "Failed to list messages")
		return
	}

	messageResponses := make([]*MessageResponse, len(messages))
	for i, m := range messages {
		messageResponses[i] = m.ToResponse()
	}

	response.JSONWithMeta(w, http.StatusOK, messageResponses, response.NewMeta(page, perPage, total))
}

// GetByID handles GET /messages/{id}
// @Summary      Get a message
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Message ID"
// @Success      200 {object} response.APIResponse{data=MessageResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /messages/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid message ID")
		return
	}

	m, err := h.service.Get(r.Context(), viewer, id)
	if err != nil {
		response.FromError(w, err, "Failed to get message")
		return
	}

	response.JSON(w, http.StatusOK, m.ToResponse())
}

// Create handles POST /messages
// @Summary      Post a message
// @Description  Members may post public or friends messages; leaders also leaders; admins any tier
// @Tags         messages
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateMessageRequest true "Message"
// @Success      201 {object} response.APIResponse{data=MessageResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /messages [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	m, err := h.service.Create(r.Context(), viewer, &req)
	if err != nil {
		response.FromError(w, err, "Failed to post message")
		return
	}

	response.JSON(w, http.StatusCreated, m.ToResponse())
}

// VisibilityOptions handles GET /messages/visibility-options
// @Summary      Visibility tiers the caller may publish at
// @Tags         messages
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=VisibilityOptionsResponse}
// @Router       /messages/visibility-options [get]
func (h *Handler) VisibilityOptions(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	response.JSON(w, http.StatusOK, h.service.VisibilityOptions(viewer))
}
