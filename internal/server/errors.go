package server

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
)

// Client-facing error details.
const (
	detailMissingFile = "Please choose a CSV file in field 'file'."
	detailInvalidCSV  = "Invalid CSV content: "
	detailTooLarge    = "Uploaded file is too large."
	detailRateLimited = "Too many requests. Please retry later."
	detailInternal    = "Internal server error."
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Detail string `json:"detail"`
}

// respondJSON encodes data before committing the status, so an encoding
// failure still yields a well-formed 500.
func respondJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		logrus.WithError(err).Error("encode response")
		buf.Reset()
		_ = json.NewEncoder(&buf).Encode(errorBody{Detail: detailInternal})
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logrus.WithError(err).Warn("write response")
	}
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, errorBody{Detail: detail})
}
