package main

import (
	"errors"
	"net/http"
	"strings"

	"github.com/zyren-ai/zyren/internal/assistant"
	"github.com/zyren-ai/zyren/internal/models"
)

// POST /api/image {prompt, size} -> {mime_type, data, data_url}
func (s *server) handleImage(w http.ResponseWriter, r *http.Request) {
	var req models.ImageRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is empty")
		return
	}
	size, err := assistant.ParseImageSize(req.Size)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	img, err := s.assistant.GenerateImage(r.Context(), req.Prompt, size)
	switch {
	case err == nil:
		writeJSON(w, models.NewImageResponse(img))
	case errors.Is(err, assistant.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, assistant.ErrNoImage):
		writeError(w, http.StatusUnprocessableEntity, "Gagal membuat gambar, coba prompt lain.")
	default:
		s.log.Warn("image: generation failed", "size", size, "error", err)
		writeError(w, http.StatusBadGateway, "Gagal membuat gambar, coba lagi nanti.")
	}
}
