package extractor

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// extractPDF reads text page by page so one malformed page does not discard
// the rest of the document.
func extractPDF(path string) string {
	f, r, err := pdf.Open(path)
	if err != nil {
		return fmt.Sprintf("Error reading PDF file: %v. Please ensure the file is a valid PDF.", err)
	}
	defer f.Close()

	var text strings.Builder
	for pageNum := 1; pageNum <= r.NumPage(); pageNum++ {
		page := r.Page(pageNum)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil || strings.TrimSpace(pageText) == "" {
			continue
		}
		text.WriteString(pageText)
		text.WriteString("\n")
	}

	if strings.TrimSpace(text.String()) == "" {
		return "No readable text found in the PDF. The PDF might be image-based or corrupted."
	}
	return text.String()
}
