package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/studioaurea/atelier-backend/errs"
	"github.com/studioaurea/atelier-backend/services"
)

const maxPhotoUploadBytes = 32 << 20 // 32MB

type photoHandler struct {
	responder    Responder
	logger       zerolog.Logger
	photoService *services.PhotoService // nil when not configured
}

func newPhotoHandler(photoService *services.PhotoService) photoHandler {
	logger := log.With().Str("handlerName", "photoHandler").Logger()

	return photoHandler{
		responder:    NewResponder(logger),
		logger:       logger,
		photoService: photoService,
	}
}

// uploadPhoto stores a multipart file upload and returns the URL to use in a
// project log.
func (h photoHandler) uploadPhoto() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if h.photoService == nil {
			h.responder.WriteError(w, errs.NewServiceUnavailableError("photo uploads", nil))
			return
		}

		if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("multipart", err))
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("file"))
			return
		}
		defer file.Close()

		url, err := h.photoService.Upload(r.Context(), header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]string{"url": url})
	}
}
