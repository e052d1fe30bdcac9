package parser

import (
	"errors"
	"fmt"
	"os"
)

// Client-facing validation failures. Their messages are returned verbatim to
// API callers, so keep them short and actionable.
var (
	ErrNotCSV  = errors.New("Please upload a CSV file.")
	ErrNotUTF8 = errors.New("CSV must be UTF-8 encoded.")
)

// ReadCSVFile reads a .csv file from disk and returns its decoded text.
func ReadCSVFile(path string) (string, error) {
	if !IsCSVName(path) {
		return "", ErrNotCSV
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read file: %w", err)
	}
	return DecodeUTF8(data)
}
