package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rcliao/arsip-kita/internal/board"
	"github.com/rcliao/arsip-kita/internal/gate"
	"github.com/rcliao/arsip-kita/internal/model"
)

var validate = validator.New()

// MemoryRequest is the body for creating a memory or setting the draft.
// Length limits apply after trimming and are enforced by the board.
type MemoryRequest struct {
	Content *string `json:"content" validate:"required"`
	Author  string  `json:"author"`
}

// ConfirmRequest is the body for confirming a pending delete. The field must
// be present; an empty secret is a mismatch like any other.
type ConfirmRequest struct {
	Secret *string `json:"secret" validate:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) getState(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.board.Snapshot())
}

func (s *Server) listMemories(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, s.board.Memories())
}

func (s *Server) putDraft(w http.ResponseWriter, r *http.Request) {
	var req MemoryRequest
	if !s.decode(w, r, &req) {
		return
	}
	s.board.SetDraft(*req.Content, req.Author)
	s.respondJSON(w, http.StatusOK, s.board.Draft())
}

func (s *Server) submitDraft(w http.ResponseWriter, r *http.Request) {
	m, err := s.board.Submit(r.Context())
	s.respondCreated(w, m, err)
}

func (s *Server) createMemory(w http.ResponseWriter, r *http.Request) {
	var req MemoryRequest
	if !s.decode(w, r, &req) {
		return
	}

	m, err := s.board.Create(r.Context(), *req.Content, req.Author)
	s.respondCreated(w, m, err)
}

func (s *Server) respondCreated(w http.ResponseWriter, m *model.Memory, err error) {
	switch {
	case errors.Is(err, board.ErrContentTooLong), errors.Is(err, board.ErrAuthorTooLong):
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, board.ErrClosed):
		s.respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		s.logger.Error("create failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if m == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.respondJSON(w, http.StatusCreated, m)
}

func (s *Server) requestDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.board.RequestDelete(id)
	s.respondJSON(w, http.StatusOK, s.board.Gate())
}

func (s *Server) confirmDelete(w http.ResponseWriter, r *http.Request) {
	var req ConfirmRequest
	if !s.decode(w, r, &req) {
		return
	}

	deleted, err := s.board.ConfirmDelete(r.Context(), *req.Secret)
	switch {
	case errors.Is(err, gate.ErrNotOpen):
		s.respondError(w, http.StatusConflict, err.Error())
		return
	case errors.Is(err, board.ErrClosed):
		s.respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		s.respondError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !deleted {
		s.respondError(w, http.StatusForbidden, "wrong secret")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) cancelDelete(w http.ResponseWriter, r *http.Request) {
	s.board.CancelDelete()
	s.respondJSON(w, http.StatusOK, s.board.Gate())
}

func (s *Server) writeStatus(w http.ResponseWriter, r *http.Request) {
	ev, ok := s.board.WriteStatus(chi.URLParam(r, "id"))
	if !ok {
		s.respondError(w, http.StatusNotFound, "memory not found")
		return
	}
	s.respondJSON(w, http.StatusOK, ev)
}

// streamWrites sends every write-through outcome as a server-sent event until
// the client goes away or the board closes.
func (s *Server) streamWrites(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.respondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events, cancel := s.board.Subscribe()
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				s.logger.Error("encode write event", zap.Error(err))
				continue
			}
			fmt.Fprintf(w, "event: write\ndata: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	if err := validate.Struct(dst); err != nil {
		s.respondError(w, http.StatusBadRequest, "Validation error: "+formatValidationError(err))
		return false
	}
	return true
}

func formatValidationError(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", field, e.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
		}
	}
	return strings.Join(msgs, "; ")
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, errorResponse{Error: msg})
}
