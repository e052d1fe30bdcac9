package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/KaramelBytes/tablelens/internal/analysis"
	"github.com/KaramelBytes/tablelens/internal/metrics"
	"github.com/KaramelBytes/tablelens/internal/parser"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleUpload reads the multipart "file" field, analyzes it and responds
// with the given report shape.
func (s *Server) handleUpload(report string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		text, status, detail := s.readUpload(r)
		if status != 0 {
			respondError(w, status, detail)
			return
		}

		t, err := analysis.ParseCSV(text)
		if err != nil {
			var pe *analysis.ParseError
			if !errors.As(err, &pe) {
				respondError(w, http.StatusInternalServerError, detailInternal)
				return
			}
			metrics.ParseFailuresTotal.Inc()
			s.log.WithFields(logrus.Fields{
				"request_id": RequestIDFromContext(r.Context()),
				"reason":     pe.Reason,
			}).Debug("rejected csv")
			respondError(w, http.StatusBadRequest, detailInvalidCSV+pe.Reason)
			return
		}

		body, err := s.render(report, t)
		if err != nil {
			respondError(w, http.StatusInternalServerError, detailInternal)
			return
		}
		metrics.ObserveAnalysis(report, t.Rows)
		respondJSON(w, http.StatusOK, body)
	}
}

// render computes only the stages the report needs.
func (s *Server) render(report string, t *analysis.Table) (any, error) {
	switch report {
	case analysis.ReportTypes:
		return &analysis.TypesReport{ColumnTypes: analysis.ClassifyTable(t)}, nil
	case analysis.ReportAudit:
		return analysis.Audit(t), nil
	case analysis.ReportStats:
		return &analysis.StatsReport{NumericColumnStats: analysis.NumericStats(t)}, nil
	default:
		return analysis.Build(t).View(report, s.now())
	}
}

// readUpload returns the decoded CSV text, or a non-zero status and the
// detail to send back.
func (s *Server) readUpload(r *http.Request) (string, int, string) {
	if r.ContentLength > s.maxBody {
		return "", http.StatusRequestEntityTooLarge, detailTooLarge
	}
	f, hdr, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", http.StatusRequestEntityTooLarge, detailTooLarge
		}
		return "", http.StatusBadRequest, detailMissingFile
	}
	defer f.Close()
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	if !parser.IsCSVName(hdr.Filename) {
		return "", http.StatusBadRequest, parser.ErrNotCSV.Error()
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return "", http.StatusBadRequest, fmt.Sprintf("Could not read upload: %v", err)
	}
	text, err := parser.DecodeUTF8(data)
	if err != nil {
		return "", http.StatusBadRequest, parser.ErrNotUTF8.Error()
	}
	return text, 0, ""
}
