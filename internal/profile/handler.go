package profile

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/fkhayef/fellowship/pkg/middleware"
	"github.com/fkhayef/fellowship/pkg/response"
)

// Handler handles HTTP requests for the member directory
type Handler struct {
	service *Service
}

// NewHandler creates a new profile handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for profile endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Get("/me", h.Me)
	r.Put("/me", h.Update)
	r.Get("/{id}", h.GetByID)

	return r
}

// List handles GET /profiles
// @Summary      Member directory
// @Description  Profiles the caller may see, with phone and email shown per each member's settings
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        q query string false "Search by name or visible email"
// @Param        page query int false "Page number" default(1)
// @Param        per_page query int false "Items per page" default(20)
// @Success      200 {object} response.APIResponse{data=[]ProfileResponse}
// @Router       /profiles [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	page, perPage := response.PageParams(r)

	profiles, total, err := h.service.Directory(r.Context(), userID, r.URL.Query().Get("q"), page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list profiles")
		return
	}

	response.JSONWithMeta(w, http.StatusOK, profiles, response.NewMeta(page, perPage, total))
}

// Me handles GET /profiles/me
// @Summary      Own profile
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.APIResponse{data=ProfileResponse}
// @Router       /profiles/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	p, err := h.service.Me(r.Context(), userID)
	if err != nil {
		response.FromError(w, err, "Failed to get profile")
		return
	}

	response.JSON(w, http.StatusOK, p)
}

// GetByID handles GET /profiles/{id}
// @Summary      Get a member profile
// @Description  Returns 404 both for unknown members and for profiles hidden from the caller
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Profile ID"
// @Success      200 {object} response.APIResponse{data=ProfileResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /profiles/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid profile ID")
		return
	}

	p, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		response.FromError(w, err, "Failed to get profile")
		return
	}

	response.JSON(w, http.StatusOK, p)
}

// Update handles PUT /profiles/me
// @Summary      Edit own profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateProfileRequest true "Fields to change"
// @Success      200 {object} response.APIResponse{data=ProfileResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /profiles/me [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	p, err := h.service.Update(r.Context(), userID, &req)
	if err != nil {
		response.FromError(w, err, "Failed to update profile")
		return
	}

	response.JSON(w, http.StatusOK, p)
}
