package handler

import (
	"errors"
	"net/http"

	"github.com/campus-events-api/internal/application/upload"
	"github.com/campus-events-api/internal/transport/http/middleware"
)

// multipartOverhead is the room left for form fields and boundaries on top of
// the file size limit.
const multipartOverhead = 1 << 20

// UploadHandler relays image uploads to object storage.
type UploadHandler struct {
	svc upload.Service
}

func NewUploadHandler(svc upload.Service) *UploadHandler {
	return &UploadHandler{svc: svc}
}

func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(upload.MaxFileSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusBadRequest, publicMessage(upload.ErrFileTooLarge))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	userID := r.FormValue("userId")
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok && userID == "" {
		userID = claims.UserID
	}

	res, err := h.svc.Upload(r.Context(), upload.Input{
		Reader:      file,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		UserID:      userID,
		Bucket:      r.FormValue("bucket"),
	})
	if err != nil {
		httpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
