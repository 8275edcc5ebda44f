package httpapi

import (
	"encoding/json"
	"errors"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/MimeLyc/srtrans/internal/persistence"
	"github.com/MimeLyc/srtrans/internal/service"
	"github.com/MimeLyc/srtrans/pkg/file"
)

type fileResponse struct {
	file.SubtitleFile
	Translated bool `json:"translated"`
}

type startBatchRequest struct {
	Folder string `json:"folder"`
}

type startBatchResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleListFiles(w http.ResponseWriter, r *http.Request) {
	folder := strings.TrimSpace(r.URL.Query().Get("folder"))
	if folder == "" {
		writeError(w, http.StatusBadRequest, "missing folder")
		return
	}

	files, err := file.ListSubtitleFiles(folder)
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}

	ret := make([]fileResponse, 0, len(files))
	for _, f := range files {
		ret = append(ret, fileResponse{
			SubtitleFile: f,
			Translated:   file.IsTranslated(f.Path),
		})
	}
	writeJSON(w, http.StatusOK, ret)
}

func (s *Server) handleStartBatch(w http.ResponseWriter, r *http.Request) {
	var req startBatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	folder := strings.TrimSpace(req.Folder)
	if folder == "" {
		writeError(w, http.StatusBadRequest, "missing folder")
		return
	}

	id, err := s.runner.Start(s.baseCtx, folder)
	if err != nil {
		writeError(w, statusOf(err), err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, startBatchResponse{ID: id})
}

func (s *Server) handleListBatches(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeJSON(w, http.StatusOK, []persistence.BatchRecord{})
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	batches, err := s.history.ListBatches(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, batches)
}

func (s *Server) handleGetBatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.history == nil {
		writeError(w, http.StatusNotFound, "batch not found")
		return
	}

	rec, ok, err := s.history.GetBatch(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "batch not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCurrentBatch(w http.ResponseWriter, r *http.Request) {
	board := s.runner.Current()
	if board == nil {
		writeError(w, http.StatusNotFound, "no batch has run yet")
		return
	}
	writeJSON(w, http.StatusOK, board.Snapshot())
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound
	case errors.Is(err, fs.ErrPermission):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"error": msg,
	})
}
