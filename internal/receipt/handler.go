package receipt

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/snapsplit/snapsplit/pkg/response"
)

// maxUploadSize caps receipt photos at 5MB
const maxUploadSize = 5 << 20

// Handler handles HTTP requests for receipt analysis
type Handler struct {
	service *Service
}

// NewHandler creates a new receipt handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for receipt endpoints, mounted under /rooms/{code}/receipts
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/analyze", h.Analyze)

	return r
}

// Analyze handles POST /rooms/{code}/receipts/analyze
// @Summary      Analyze a receipt photo
// @Description  Extract line items (and detected rates) from an uploaded receipt image; nothing is persisted
// @Tags         receipts
// @Accept       multipart/form-data
// @Produce      json
// @Param        code path string true "Room code"
// @Param        receipt formData file true "Receipt image (max 5MB)"
// @Success      200 {object} response.APIResponse{data=AnalyzeResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      503 {object} response.APIResponse
// @Router       /rooms/{code}/receipts/analyze [post]
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	file, header, err := r.FormFile("receipt")
	if err != nil {
		response.BadRequest(w, "No image uploaded")
		return
	}
	defer file.Close()

	mediaType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(mediaType, "image/") {
		response.BadRequest(w, "Upload must be an image")
		return
	}

	image, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "Failed to read upload")
		return
	}

	result, err := h.service.Analyze(r.Context(), image, mediaType)
	if err != nil {
		if errors.Is(err, ErrNotConfigured) {
			response.ServiceUnavailable(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to analyze receipt")
		return
	}

	response.JSON(w, http.StatusOK, result)
}
