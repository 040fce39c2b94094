package item

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/snapsplit/snapsplit/pkg/response"
)

// Handler handles HTTP requests for item operations
type Handler struct {
	service *Service
}

// NewHandler creates a new item handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for item endpoints, mounted under /rooms/{code}/items
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Patch("/{itemID}", h.Update)
	r.Delete("/{itemID}", h.Delete)

	return r
}

// Create handles POST /rooms/{code}/items
// @Summary      Add an item
// @Description  Add a priced line item to the room
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        code path string true "Room code"
// @Param        request body CreateItemRequest true "Item to add"
// @Success      201 {object} response.APIResponse{data=Item}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/{code}/items [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Name == "" {
		response.BadRequest(w, "name is required")
		return
	}

	item, err := h.service.Create(r.Context(), code, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to create item")
		return
	}

	response.JSON(w, http.StatusCreated, item)
}

// Update handles PATCH /rooms/{code}/items/{itemID}
// @Summary      Update an item
// @Description  Change an item's name, unit price or quantity
// @Tags         items
// @Accept       json
// @Produce      json
// @Param        code path string true "Room code"
// @Param        itemID path string true "Item ID"
// @Param        request body UpdateItemRequest true "Fields to update"
// @Success      200 {object} response.APIResponse{data=Item}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/{code}/items/{itemID} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	itemID := chi.URLParam(r, "itemID")

	var req UpdateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	item, err := h.service.Update(r.Context(), code, itemID, &req)
	if err != nil {
		writeServiceError(w, err, "Failed to update item")
		return
	}

	response.JSON(w, http.StatusOK, item)
}

// Delete handles DELETE /rooms/{code}/items/{itemID}
// @Summary      Delete an item
// @Description  Remove an item and all assignments referencing it
// @Tags         items
// @Produce      json
// @Param        code path string true "Room code"
// @Param        itemID path string true "Item ID"
// @Success      200 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /rooms/{code}/items/{itemID} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	itemID := chi.URLParam(r, "itemID")

	if err := h.service.Delete(r.Context(), code, itemID); err != nil {
		writeServiceError(w, err, "Failed to delete item")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Item deleted successfully"})
}

// writeServiceError maps item service errors to HTTP responses
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, ErrRoomNotFound), errors.Is(err, ErrItemNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrRoomNotActive):
		response.Conflict(w, err.Error())
	case errors.Is(err, ErrInvalidPrice), errors.Is(err, ErrInvalidQuantity):
		response.BadRequest(w, err.Error())
	default:
		response.InternalError(w, fallback)
	}
}
