package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/couchcryptid/insurance-quote-service/internal/domain"
)

const (
	contentTypeJSON    = "application/json"
	headerSubmissionID = "X-Submission-ID"
	maxBodyBytes       = 1 << 20
)

type errorResponse struct {
	Error      string   `json:"error"`
	Missing    []string `json:"missing,omitempty"`
	Violations []string `json:"violations,omitempty"`
	// Set when the record was stored but a later step failed.
	SubmissionID string `json:"submission_id,omitempty"`
}

type fullQuoteResponse struct {
	domain.FullQuote
	Covers []domain.Cover `json:"covers"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client went away
}

// decodeJSON reads a bounded JSON body into T, writing a 400 on failure.
func decodeJSON[T any](w http.ResponseWriter, r *http.Request) (T, bool) {
	var v T
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err == nil {
		err = json.Unmarshal(body, &v)
	}
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return v, false
	}
	return v, true
}

// writeError maps domain errors onto status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error, submissionID string) {
	var (
		ve *domain.ValidationError
		se *domain.StoreError
		re *domain.RenderError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:      ve.Error(),
			Missing:    ve.Missing,
			Violations: ve.Violations,
		})
	case errors.Is(err, domain.ErrLocationNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: domain.ErrLocationNotFound.Error()})
	case errors.As(err, &se):
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "could not save the application"})
	case errors.As(err, &re):
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:        fmt.Sprintf("application saved, but %s could not be generated", re.Filename),
			SubmissionID: submissionID,
		})
	default:
		s.logger.Error("unhandled error", "error", err, "request_id", GetRequestID(r.Context()))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

func (s *Server) handleQuoteFull(w http.ResponseWriter, r *http.Request) {
	app, ok := decodeJSON[domain.FullApplication](w, r)
	if !ok {
		return
	}
	for _, c := range app.Covers {
		if c.MonthlySurcharge() == 0 {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: fmt.Sprintf("unknown cover %q", c)})
			return
		}
	}
	rec, quote := app.Normalize()
	writeJSON(w, http.StatusOK, fullQuoteResponse{FullQuote: quote, Covers: rec.Covers})
}

func (s *Server) handleQuoteQuick(w http.ResponseWriter, r *http.Request) {
	app, ok := decodeJSON[domain.QuickHealthApplication](w, r)
	if !ok {
		return
	}
	for _, h := range app.HealthIssues {
		if _, err := domain.ParseHealthIssue(string(h)); err != nil {
			writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, app.Quote())
}

func (s *Server) handleSubmitFull(w http.ResponseWriter, r *http.Request) {
	app, ok := decodeJSON[domain.FullApplication](w, r)
	if !ok {
		return
	}
	sub, err := s.intake.SubmitFull(r.Context(), app)
	s.writeSubmission(w, r, sub, err)
}

func (s *Server) handleSubmitQuick(w http.ResponseWriter, r *http.Request) {
	app, ok := decodeJSON[domain.QuickHealthApplication](w, r)
	if !ok {
		return
	}
	sub, err := s.intake.SubmitQuick(r.Context(), app)
	s.writeSubmission(w, r, sub, err)
}

// writeSubmission answers a successful submission with the summary PDF.
func (s *Server) writeSubmission(w http.ResponseWriter, r *http.Request, sub domain.Submission, err error) {
	if sub.ID != "" {
		w.Header().Set(headerSubmissionID, sub.ID)
	}
	if err != nil {
		s.writeError(w, r, err, sub.ID)
		return
	}
	writeDocument(w, sub.Document)
}

func writeDocument(w http.ResponseWriter, doc domain.Document) {
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.Header().Set("Content-Length", fmt.Sprint(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	w.Write(doc.Body) //nolint:errcheck // client went away
}

func (s *Server) handleListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := s.intake.Records(r.Context())
	if err != nil {
		s.writeError(w, r, err, "")
		return
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleListLandmarks(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, domain.Landmarks())
}

func (s *Server) handleLocate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		name = unescaped
	}
	result, err := s.locator.Locate(r.Context(), name)
	if err != nil {
		s.metrics.LandmarkLookups.WithLabelValues("not_found").Inc()
		s.writeError(w, r, err, "")
		return
	}
	s.metrics.LandmarkLookups.WithLabelValues(result.Source).Inc()
	writeJSON(w, http.StatusOK, result)
}
