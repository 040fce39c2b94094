package assignment

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snapsplit/snapsplit/pkg/response"
)

// Handler handles HTTP requests for assignment operations
type Handler struct {
	service *Service
}

// NewHandler creates a new assignment handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for assignment endpoints, mounted under /rooms/{code}/assignments
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Delete("/{assignmentID}", h.Delete)

	return r
}

// Create handles POST /rooms/{code}/assignments
// @Summary      Assign an item share
// @Description  Claim a percentage share of an item for a participant; reassigning the same pair replaces the share
// @Tags         assignments
// @Accept       json
// @Produce      json
// @Param        code path string true "Room code"
// @Param        request body CreateAssignmentRequest true "Share to claim"
// @Success      201 {object} response.APIResponse{data=Assignment}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/{code}/assignments [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req CreateAssignmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.ItemID == "" || req.ParticipantID == "" {
		response.BadRequest(w, "item_id and participant_id are required")
		return
	}

	assignment, err := h.service.Create(r.Context(), code, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to create assignment")
		return
	}

	response.JSON(w, http.StatusCreated, assignment)
}

// Delete handles DELETE /rooms/{code}/assignments/{assignmentID}
// @Summary      Remove an assignment
// @Description  Unclaim a participant's share of an item
// @Tags         assignments
// @Produce      json
// @Param        code path string true "Room code"
// @Param        assignmentID path string true "Assignment ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/{code}/assignments/{assignmentID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	assignmentID := chi.URLParam(r, "assignmentID")

	if err := h.service.Delete(r.Context(), code, assignmentID); err != nil {
		writeServiceError(w, err, "Failed to delete assignment")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Assignment removed successfully"})
}

// writeServiceError maps assignment service errors to HTTP responses
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrRoomNotFound),
		errors.Is(err, ErrItemNotFound),
		errors.Is(err, ErrParticipantNotFound),
		errors.Is(err, ErrAssignmentNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrRoomNotActive):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrInvalidPercentage):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
