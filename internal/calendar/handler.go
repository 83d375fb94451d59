package calendar

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fkhayef/fellowship/pkg/middleware"
	"github.com/fkhayef/fellowship/pkg/response"
)

// Handler handles HTTP requests for the calendar
type Handler struct {
	service *Service
}

// NewHandler creates a new calendar handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for calendar endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Month)
	r.Post("/", h.Create)

	return r
}

// Month handles GET /events
// @Summary      Events of a month
// @Description  Events the caller may see starting in the given month, earliest first
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        year query int false "Year, defaults to the current year"
// @Param        month query int false "Month 1-12, defaults to the current month"
// @Success      200 {object} response.APIResponse{data=MonthResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /events [get]
func (h *Handler) Month(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	year, err := intParam(r, "year")
	if err != nil {
		response.BadRequest(w, "Invalid year")
		return
	}
	month, err := intParam(r, "month")
	if err != nil {
		response.BadRequest(w, "Invalid month")
		return
	}

	year, month, events, err := h.service.Month(r.Context(), viewer, year, month)
	if err != nil {
		response.FromError(w, err, "Failed to list events")
		return
	}

	eventResponses := make([]*EventResponse, len(events))
	for i, e := range events {
		eventResponses[i] = e.ToResponse()
	}

	response.JSON(w, http.StatusOK, MonthResponse{Year: year, Month: month, Events: eventResponses})
}

// Create handles POST /events
// @Summary      Add an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateEventRequest true "Event"
// @Success      201 {object} response.APIResponse{data=EventResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      403 {object} response.APIResponse
// @Router       /events [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	viewer, ok := middleware.GetViewer(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	e, err := h.service.Create(r.Context(), viewer, &req)
	if err != nil {
		response.FromError(w, err, "Failed to create event")
		return
	}

	response.JSON(w, http.StatusCreated, e.ToResponse())
}

// intParam reads an optional integer query parameter; absent is zero
func intParam(r *http.Request, name string) (int, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return 0, nil
	}
	return strconv.Atoi(value)
}
