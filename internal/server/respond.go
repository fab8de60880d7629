package server

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/hyperjump/niteru/internal/corpus"
	"github.com/hyperjump/niteru/internal/indexer"
	"github.com/hyperjump/niteru/internal/recommend"
	"github.com/hyperjump/niteru/internal/validation"
	"go.uber.org/zap"
)

// Error codes returned in the "code" field of error responses.
const (
	codeInvalidRequest = "INVALID_REQUEST"
	codeNotFound       = "NOT_FOUND"
	codeNotReady       = "NOT_READY"
	codeNoSignal       = "NO_SIGNAL"
	codeNoSimilarity   = "SIMILARITY_UNAVAILABLE"
	codeRebuildFailed  = "REBUILD_FAILED"
	codeInternal       = "INTERNAL_ERROR"
)

type errorResponse struct {
	Error       string                 `json:"error"`
	Code        string                 `json:"code,omitempty"`
	Suggestions []string               `json:"suggestions,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Debug("write response failed", zap.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{Error: message, Code: code})
}

func (s *Server) respondValidation(w http.ResponseWriter, verr *validation.RequestValidationError) {
	apiErr := verr.ToAPIError()
	s.respondJSON(w, http.StatusBadRequest, errorResponse{
		Error:   apiErr.Message,
		Code:    apiErr.Code,
		Details: apiErr.Details,
	})
}

// respondEngineError maps query errors to status codes: unknown titles and genres are 404,
// a missing snapshot is 503, text without known terms or an attribute-only catalog is 422.
func (s *Server) respondEngineError(w http.ResponseWriter, err error) {
	var (
		notFound      *corpus.ItemNotFoundError
		genreNotFound *recommend.GenreNotFoundError
		noSignal      *recommend.NoSignalError
	)
	switch {
	case errors.As(err, &notFound):
		s.respondJSON(w, http.StatusNotFound, errorResponse{
			Error:       err.Error(),
			Code:        codeNotFound,
			Suggestions: notFound.Suggestions,
		})
	case errors.As(err, &genreNotFound):
		s.respondError(w, http.StatusNotFound, codeNotFound, err.Error())
	case errors.Is(err, indexer.ErrNotReady):
		s.respondError(w, http.StatusServiceUnavailable, codeNotReady, err.Error())
	case errors.As(err, &noSignal):
		s.respondError(w, http.StatusUnprocessableEntity, codeNoSignal, err.Error())
	case errors.Is(err, recommend.ErrSimilarityUnavailable):
		s.respondError(w, http.StatusUnprocessableEntity, codeNoSimilarity, err.Error())
	default:
		s.logger.Error("query failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, codeInternal, err.Error())
	}
}
