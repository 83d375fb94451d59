package friendship

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/internal/access"
	"github.com/fkhayef/fellowship/pkg/middleware"
	"github.com/fkhayef/fellowship/pkg/response"
)

// Handler handles HTTP requests for friendships
type Handler struct {
	service *Service
}

// NewHandler creates a new friendship handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for friendship endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/requests", h.SendRequest)
	r.Post("/{id}/accept", h.Accept)
	r.Post("/{id}/decline", h.Decline)
	r.Delete("/{id}", h.Remove)

	return r
}

// List handles GET /friends
// @Summary      My friends and requests
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        q query string false "Filter by name or visible email"
// @Success      200 {object} response.APIResponse{data=FriendsResponse}
// @Router       /friends [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	resp, err := h.service.List(r.Context(), userID, r.URL.Query().Get("q"))
	if err != nil {
		response.InternalError(w, "Failed to list friends")
		return
	}

	response.JSON(w, http.StatusOK, resp)
}

// SendRequest handles POST /friends/requests
// @Summary      Send a friend request
// @Tags         friends
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SendRequestRequest true "Addressee"
// @Success      201 {object} response.APIResponse{data=FriendshipResponse}
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /friends/requests [post]
func (h *Handler) SendRequest(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req SendRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AddresseeID == uuid.Nil {
		response.BadRequest(w, "addressee_id is required")
		return
	}

	f, err := h.service.SendRequest(r.Context(), userID, req.AddresseeID)
	if err != nil {
		response.FromError(w, err, "Failed to send friend request")
		return
	}

	response.JSON(w, http.StatusCreated, toResponse(f))
}

// Accept handles POST /friends/{id}/accept
// @Summary      Accept a friend request
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Friendship ID"
// @Success      200 {object} response.APIResponse{data=FriendshipResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /friends/{id}/accept [post]
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Accept, "Failed to accept friend request")
}

// Decline handles POST /friends/{id}/decline
// @Summary      Decline a friend request
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Friendship ID"
// @Success      200 {object} response.APIResponse{data=FriendshipResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /friends/{id}/decline [post]
func (h *Handler) Decline(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, h.service.Decline, "Failed to decline friend request")
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, action func(context.Context, uuid.UUID, uuid.UUID) (*access.Friendship, error), failure string) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid friendship ID")
		return
	}

	f, err := action(r.Context(), userID, id)
	if err != nil {
		response.FromError(w, err, failure)
		return
	}

	response.JSON(w, http.StatusOK, toResponse(f))
}

// Remove handles DELETE /friends/{id}
// @Summary      Remove a friend or cancel a request
// @Tags         friends
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Friendship ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /friends/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid friendship ID")
		return
	}

	if err := h.service.Remove(r.Context(), userID, id); err != nil {
		response.FromError(w, err, "Failed to remove friendship")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Friendship removed"})
}
