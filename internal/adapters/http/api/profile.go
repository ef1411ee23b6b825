package api

import (
	"errors"
	"fmt"
	"net/http"

	service "github.com/okian/folio/internal/app"
	"github.com/okian/folio/internal/domain/profile"
	"github.com/okian/folio/pkg/logger"
)

// handleGetProfile handles GET /api/profile.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	doc, err := s.deps.Profile(r.Context())
	if err != nil {
		s.failRead(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleGetSection handles GET /api/personal and GET /api/professional.
func (s *Server) handleGetSection(name profile.SectionName) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		section, err := s.deps.Section(r.Context(), name)
		if err != nil {
			s.failRead(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, section)
	}
}

// handleGetField handles GET /api/{section}/{field} and answers {field: value}.
func (s *Server) handleGetField(name profile.SectionName) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field := r.PathValue("field")
		v, err := s.deps.Field(r.Context(), name, field)
		if errors.Is(err, service.ErrFieldNotFound) {
			writeJSON(w, http.StatusNotFound, errorResponse{
				Error:   ErrFieldNotFound.Error(),
				Code:    "not_found",
				Message: fmt.Sprintf("field %q not found", field),
			})
			return
		}
		if err != nil {
			s.failRead(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{field: v})
	}
}

// handleGetList handles the computed list routes (skills, experience, ...).
// An absent list is answered with JSON null.
func (s *Server) handleGetList(key string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := s.deps.List(r.Context(), key)
		if err != nil {
			s.failRead(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, v)
	}
}

// handleMergeSection handles PUT /api/personal and PUT /api/professional.
func (s *Server) handleMergeSection(name profile.SectionName, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
		patch, err := profile.DecodeSection(body)
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "too_large", ErrTooLarge)
				return
			}
			writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
			return
		}

		merged, err := s.deps.Merge(r.Context(), name, patch)
		if err != nil {
			if errors.Is(err, service.ErrLoad) {
				s.failRead(w, r, err)
				return
			}
			s.logFor(r).Error(r.Context(), "profile update failed",
				logger.String("section", string(name)), logger.Error(err))
			writeError(w, http.StatusInternalServerError, "internal_error", ErrWriteFailed)
			return
		}
		writeJSON(w, http.StatusOK, updateResponse{Message: message, Data: merged})
	}
}

// failRead logs the cause and answers a generic 500.
func (s *Server) failRead(w http.ResponseWriter, r *http.Request, err error) {
	s.logFor(r).Error(r.Context(), "profile read failed", logger.String("path", r.URL.Path), logger.Error(err))
	writeError(w, http.StatusInternalServerError, "internal_error", ErrReadFailed)
}

// HandleNotFound answers 404 with the list of known routes.
func (s *Server) HandleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, notFoundResponse{
		Error:   ErrRouteNotFound.Error(),
		Code:    "not_found",
		Message: fmt.Sprintf("route not found: %s %s", r.Method, r.URL.Path),
		Routes:  s.Routes(),
	})
}
