package mailinglist

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/pkg/middleware"
	"github.com/fkhayef/fellowship/pkg/response"
)

// Handler handles HTTP requests for mailing lists
type Handler struct {
	service *Service
}

// NewHandler creates a new mailing list handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for mailing list endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)

	r.Route("/{id}", func(r chi.Router) {
		r.Get("/", h.GetByID)
		r.Post("/join", h.Join)
		r.Delete("/members/me", h.Leave)
		r.Post("/send", h.Send)
	})

	return r
}

// List handles GET /mailing-lists
// @Summary      List mailing lists
// @Description  Lists the caller may see, newest first, with member counts
// @Tags         mailing-lists
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=[]MailingListResponse}
// @Router       /mailing-lists [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	lists, err := h.service.List(r.Context(), viewer)
	if err != nil {
		response.FromError(w, err, "Failed to list mailing lists")
		return
	}

	listResponses := make([]*MailingListResponse, len(lists))
	for i, l := range lists {
		listResponses[i] = l.ToResponse()
	}

	response.JSON(w, http.StatusOK, listResponses)
}

// Create handles POST /mailing-lists
// @Summary      Create a mailing list
// @Tags         mailing-lists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateMailingListRequest true "Mailing list"
// @Success      201 {object} response.APIResponse{data=MailingListResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /mailing-lists [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateMailingListRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	l, err := h.service.Create(r.Context(), viewer, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create mailing list")
		return
	}

	response.JSON(w, http.StatusCreated, l.ToResponse())
}

// GetByID handles GET /mailing-lists/{id}
// @Summary      Get a mailing list with its members
// @Tags         mailing-lists
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Mailing list ID"
// @Success      200 {object} response.APIResponse{data=MailingListDetailResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /mailing-lists/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid mailing list ID")
		return
	}

	l, members, err := h.service.Get(r.Context(), viewer, id)
	if err != nil {
		response.FromError(w, err, "Failed to get mailing list")
		return
	}

	response.JSON(w, http.StatusOK, MailingListDetailResponse{
		MailingListResponse: l.ToResponse(),
		Members:             members,
	})
}

// Join handles POST /mailing-lists/{id}/join
// @Summary      Join a mailing list
// @Tags         mailing-lists
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Mailing list ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /mailing-lists/{id}/join [post]
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid mailing list ID")
		return
	}

	if err := h.service.Join(r.Context(), viewer, id); err != nil {
		if errors.Is(err, ErrAlreadyMember) {
			response.Conflict(w, err.Error())
			return
		}
		response.FromError(w, err, "Failed to join mailing list")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Joined mailing list"})
}

// Leave handles DELETE /mailing-lists/{id}/members/me
// @Summary      Leave a mailing list
// @Tags         mailing-lists
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Mailing list ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /mailing-lists/{id}/members/me [delete]
func (h *Handler) Leave(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid mailing list ID")
		return
	}

	if err := h.service.Leave(r.Context(), viewer, id); err != nil {
		response.FromError(w, err, "Failed to leave mailing list")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Left mailing list"})
}

// Send handles POST /mailing-lists/{id}/send
// @Summary      Broadcast to a mailing list
// @Description  The list owner, leaders and admins may send. Members are notified.
// @Tags         mailing-lists
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Mailing list ID"
// @Param        request body SendRequest true "Broadcast"
// @Success      201 {object} response.APIResponse{data=SendResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /mailing-lists/{id}/send [post]
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid mailing list ID")
		return
	}

	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	msg, recipients, err := h.service.Send(r.Context(), viewer, id, &req)
	if err != nil {
		response.FromError(w, err, "Failed to send message")
		return
	}

	response.JSON(w, http.StatusCreated, SendResponse{MessageID: msg.ID, Title: msg.Title, Recipients: recipients})
}
