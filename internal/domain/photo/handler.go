package photo

import (
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matcha/matcha-api/internal/middleware"
	"github.com/matcha/matcha-api/internal/pkg/logger"
	"github.com/matcha/matcha-api/internal/pkg/response"
	"github.com/matcha/matcha-api/internal/pkg/storage"
	"github.com/matcha/matcha-api/internal/pkg/validator"
)

// MaxUploadSize bounds a whole multipart request.
const MaxUploadSize = 5*storage.MaxPhotoSize + 1<<20

// Handler handles photo HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates photo handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Upload handles POST /photos
// @Summary Upload one or more photos
// @Description Multipart form with one or more "photos" parts. Returns the full photo list.
// @Tags Photo
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Success 201 {object} response.Response{data=[]PhotoResponse}
// @Failure 400,409,500 {object} response.Response
// @Router /photos [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)

	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		response.BadRequest(w, "File too large or invalid form")
		return
	}

	headers := r.MultipartForm.File["photos"]
	if len(headers) == 0 {
		headers = r.MultipartForm.File["file"]
	}

	files := make([]File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			response.BadRequest(w, "Could not read uploaded file")
			return
		}
		defer func(f multipart.File) { _ = f.Close() }(f)
		files = append(files, File{Name: fh.Filename, Reader: f})
	}

	userID := middleware.GetUserID(r.Context())
	photos, err := h.service.Upload(r.Context(), userID, files)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.Created(w, listResponse(photos))
}

// List handles GET /photos
// @Summary Current user's photos
// @Tags Photo
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]PhotoResponse}
// @Router /photos [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	photos, err := h.service.ListMine(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, listResponse(photos))
}

// Delete handles DELETE /photos/{id}
// @Summary Delete a photo
// @Tags Photo
// @Produce json
// @Security BearerAuth
// @Param id path string true "Photo ID"
// @Success 200 {object} response.Response{data=[]PhotoResponse}
// @Failure 400,403,404,500 {object} response.Response
// @Router /photos/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid photo ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	photos, err := h.service.Delete(r.Context(), userID, photoID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, listResponse(photos))
}

// SetProfilePicture handles PATCH /photos/{id}/profile-picture
// @Summary Make a photo the profile picture
// @Tags Photo
// @Produce json
// @Security BearerAuth
// @Param id path string true "Photo ID"
// @Success 200 {object} response.Response{data=[]PhotoResponse}
// @Failure 400,403,404,500 {object} response.Response
// @Router /photos/{id}/profile-picture [patch]
func (h *Handler) SetProfilePicture(w http.ResponseWriter, r *http.Request) {
	photoID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid photo ID")
		return
	}

	userID := middleware.GetUserID(r.Context())
	photos, err := h.service.SetProfilePicture(r.Context(), userID, photoID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, listResponse(photos))
}

// Reorder handles PATCH /photos/reorder
// @Summary Change photo order
// @Tags Photo
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReorderRequest true "Photo ids in their new order"
// @Success 200 {object} response.Response{data=[]PhotoResponse}
// @Failure 400,422,500 {object} response.Response
// @Router /photos/reorder [patch]
func (h *Handler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req ReorderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	userID := middleware.GetUserID(r.Context())
	photos, err := h.service.Reorder(r.Context(), userID, req.PhotoIDs)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	response.OK(w, listResponse(photos))
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrPhotoNotFound):
		response.NotFound(w, "Photo not found")
	case errors.Is(err, ErrNotPhotoOwner):
		response.Forbidden(w, "You can only manage your own photos")
	case errors.Is(err, ErrPhotoLimitReached):
		response.Conflict(w, "You can upload at most 5 photos")
	case errors.Is(err, ErrNoFiles):
		response.BadRequest(w, "No file provided")
	case errors.Is(err, ErrInvalidOrder):
		response.BadRequest(w, err.Error())
	case errors.Is(err, storage.ErrFileTooLarge):
		response.BadRequest(w, "File exceeds maximum size")
	case errors.Is(err, storage.ErrInvalidMimeType):
		response.BadRequest(w, "File type not allowed")
	case errors.Is(err, storage.ErrEmptyFile):
		response.BadRequest(w, "File is empty")
	default:
		logger.LogError(r.Context(), err, "Photo request failed")
		response.InternalError(w)
	}
}
