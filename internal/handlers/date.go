package handlers

import (
	"mime/multipart"
	"net/http"

	"date-journal-backend/internal/middleware"
	"date-journal-backend/internal/services"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// DateHandler handles date-related HTTP requests
type DateHandler struct {
	dateService *services.DateService
	maxUpload   int64
}

// NewDateHandler creates a new date handler. maxUpload bounds the size of a
// multipart request in bytes.
func NewDateHandler(dateService *services.DateService, maxUpload int64) *DateHandler {
	return &DateHandler{
		dateService: dateService,
		maxUpload:   maxUpload,
	}
}

// ListDates handles GET /api/v1/dates
func (h *DateHandler) ListDates(w http.ResponseWriter, r *http.Request) {
	dates, err := h.dateService.List(r.Context())
	if err != nil {
		handleServiceError(w, r, err, "Failed to list dates")
		return
	}
	respondJSON(w, map[string]interface{}{"dates": dates}, http.StatusOK)
}

// CreateDate handles POST /api/v1/dates
func (h *DateHandler) CreateDate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := middleware.GetIdentity(ctx)

	var req services.CreateDateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d, err := h.dateService.Create(ctx, actor, req)
	if err != nil {
		handleServiceError(w, r, err, "Failed to create date")
		return
	}

	log.Info().
		Str("identity", actor.String()).
		Str("date_id", d.ID).
		Msg("Date created")

	respondJSON(w, d, http.StatusCreated)
}

// GetDate handles GET /api/v1/dates/{id}
func (h *DateHandler) GetDate(w http.ResponseWriter, r *http.Request) {
	d, err := h.dateService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err, "Failed to get date")
		return
	}
	respondJSON(w, d, http.StatusOK)
}

// UpdateDate handles PATCH /api/v1/dates/{id}
func (h *DateHandler) UpdateDate(w http.ResponseWriter, r *http.Request) {
	var req services.UpdateDateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d, err := h.dateService.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		handleServiceError(w, r, err, "Failed to update date")
		return
	}
	respondJSON(w, d, http.StatusOK)
}

// ToggleFavorite handles POST /api/v1/dates/{id}/favorite
func (h *DateHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	d, err := h.dateService.ToggleFavorite(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleServiceError(w, r, err, "Failed to toggle favorite")
		return
	}
	respondJSON(w, d, http.StatusOK)
}

// AddCommentRequest represents the request body for commenting on a date
type AddCommentRequest struct {
	Text string `json:"text"`
}

// AddComment handles POST /api/v1/dates/{id}/comments
func (h *DateHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := middleware.GetIdentity(ctx)

	var req AddCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	d, err := h.dateService.AddComment(ctx, chi.URLParam(r, "id"), actor, req.Text)
	if err != nil {
		handleServiceError(w, r, err, "Failed to add comment")
		return
	}
	respondJSON(w, d, http.StatusCreated)
}

// AddVoiceNote handles POST /api/v1/dates/{id}/voice-notes with a multipart
// "file" field
func (h *DateHandler) AddVoiceNote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := middleware.GetIdentity(ctx)

	if !h.parseMultipart(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) != 1 {
		respondError(w, "exactly one file is required", http.StatusBadRequest)
		return
	}

	up, closeFn, err := openUpload(files[0])
	if err != nil {
		respondError(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	defer closeFn()

	d, err := h.dateService.AddVoiceNote(ctx, chi.URLParam(r, "id"), actor, up)
	if err != nil {
		handleServiceError(w, r, err, "Failed to add voice note")
		return
	}
	respondJSON(w, d, http.StatusCreated)
}

// AddPhotos handles POST /api/v1/dates/{id}/photos with multipart "photos"
// fields
func (h *DateHandler) AddPhotos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := middleware.GetIdentity(ctx)

	if !h.parseMultipart(w, r) {
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["photos"]
	uploads := make([]services.Upload, 0, len(files))
	for _, fh := range files {
		up, closeFn, err := openUpload(fh)
		if err != nil {
			respondError(w, "Invalid upload", http.StatusBadRequest)
			return
		}
		defer closeFn()
		uploads = append(uploads, up)
	}

	d, err := h.dateService.AddPhotos(ctx, chi.URLParam(r, "id"), actor, uploads)
	if err != nil {
		handleServiceError(w, r, err, "Failed to add photos")
		return
	}
	respondJSON(w, d, http.StatusCreated)
}

func (h *DateHandler) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		respondError(w, "Invalid multipart form", http.StatusBadRequest)
		return false
	}
	return true
}

func openUpload(fh *multipart.FileHeader) (services.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return services.Upload{}, nil, err
	}
	up := services.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Body:        f,
	}
	return up, func() { f.Close() }, nil
}
