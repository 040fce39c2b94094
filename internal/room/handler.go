package room

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snapsplit/snapsplit/pkg/response"
)

// Handler handles HTTP requests for room operations
type Handler struct {
	service *Service
}

// NewHandler creates a new room handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Create handles POST /rooms
// @Summary      Create a new room
// @Description  Open a room and join the creator as its first participant
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        request body CreateRoomRequest true "Room creation request"
// @Success      201 {object} response.APIResponse{data=CreateRoomResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /rooms [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" || req.CreatorName == "" {
		response.BadRequest(w, "name and creator_name are required")
		return
	}

	room, participant, err := h.service.Create(r.Context(), &req)
	if err != nil {
		response.InternalError(w, "Failed to create room")
		return
	}

	response.JSON(w, http.StatusCreated, &CreateRoomResponse{
		Room:        room,
		Participant: participant,
	})
}

// GetState handles GET /rooms/{code}
// @Summary      Get room state
// @Description  Full snapshot of a room: items, participants and assignments
// @Tags         rooms
// @Produce      json
// @Param        code path string true "Room code"
// @Success      200 {object} response.APIResponse{data=State}
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/{code} [get]
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	state, err := h.service.GetState(r.Context(), code)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get room")
		return
	}

	response.JSON(w, http.StatusOK, state)
}

// Update handles PATCH /rooms/{code}
// @Summary      Update room settings
// @Description  Change tax rate, service charge rate or status; totals recompute from the new rates
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        code path string true "Room code"
// @Param        request body UpdateRoomRequest true "Fields to update"
// @Success      200 {object} response.APIResponse{data=Room}
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/{code} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req UpdateRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Status != nil && *req.Status != RoomStatusActive && *req.Status != RoomStatusCompleted {
		response.BadRequest(w, "status must be active or completed")
		return
	}

	room, err := h.service.Update(r.Context(), code, &req)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to update room")
		return
	}

	response.JSON(w, http.StatusOK, room)
}

// Delete handles DELETE /rooms/{code}
// @Summary      Delete a room
// @Description  Remove a room and all of its items, participants and assignments
// @Tags         rooms
// @Produce      json
// @Param        code path string true "Room code"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/{code} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	if err := h.service.Delete(r.Context(), code); err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete room")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Room deleted successfully"})
}

// Join handles POST /rooms/{code}/join
// @Summary      Join a room
// @Description  Join by name; rejoining with an existing name returns the existing participant
// @Tags         rooms
// @Accept       json
// @Produce      json
// @Param        code path string true "Room code"
// @Param        request body JoinRoomRequest true "Participant name"
// @Success      200 {object} response.APIResponse{data=Participant}
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/{code}/join [post]
func (h *Handler) Join(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req JoinRoomRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" {
		response.BadRequest(w, "name is required")
		return
	}

	participant, err := h.service.Join(r.Context(), code, req.Name)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if errors.Is(err, ErrRoomNotActive) {
			response.Conflict(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to join room")
		return
	}

	response.JSON(w, http.StatusOK, participant)
}

// GetSplits handles GET /rooms/{code}/splits
// @Summary      Get computed splits
// @Description  Per-participant totals including service charge and tax
// @Tags         rooms
// @Produce      json
// @Param        code path string true "Room code"
// @Success      200 {object} response.APIResponse{data=[]split.Result}
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/{code}/splits [get]
func (h *Handler) GetSplits(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	results, err := h.service.ComputeSplits(r.Context(), code)
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to compute splits")
		return
	}

	response.JSON(w, http.StatusOK, results)
}
