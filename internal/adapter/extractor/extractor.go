package extractor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileExtractor reads a document file and returns its plain text content.
// Paragraph and page breaks are collapsed to newlines. Extraction problems
// inside a supported format are reported as sentinel text in the returned
// string, never as an error: the downstream segmenter treats sentinel text as
// ordinary input. Only an unsupported file extension yields an error.
type FileExtractor struct{}

func NewFileExtractor() *FileExtractor {
	return &FileExtractor{}
}

// Extract dispatches on the file extension.
func (e *FileExtractor) Extract(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return extractPDF(path), nil
	case ".docx":
		return extractDocx(path), nil
	case ".txt", ".md":
		return extractText(path), nil
	default:
		return "", fmt.Errorf("unsupported file format: %s (only .pdf, .docx, .txt and .md are supported)", filepath.Ext(path))
	}
}

// Format returns the short format name for a path, for contract metadata.
func Format(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "unknown"
	}
	return strings.TrimPrefix(ext, ".")
}

func extractText(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Sprintf("Error reading file: %v. Please ensure the file is readable.", err)
	}
	return string(data)
}
