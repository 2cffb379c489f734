package extractor

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"strings"
)

// extractDocx reads word/document.xml from the ZIP archive and collects the
// text of each paragraph, one paragraph per line.
func extractDocx(path string) string {
	r, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Sprintf("Error reading DOCX file: %v. Please ensure the file is a valid DOCX document.", err)
	}
	defer r.Close()

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "Error reading DOCX file: word/document.xml not found in archive. Please ensure the file is a valid DOCX document."
	}

	rc, err := docFile.Open()
	if err != nil {
		return fmt.Sprintf("Error reading DOCX file: %v. Please ensure the file is a valid DOCX document.", err)
	}
	defer rc.Close()

	decoder := xml.NewDecoder(rc)
	var text strings.Builder
	var current strings.Builder
	inParagraph := false

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "p" {
				inParagraph = true
				current.Reset()
			}
		case xml.CharData:
			if inParagraph {
				current.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "p" && inParagraph {
				inParagraph = false
				text.WriteString(current.String())
				text.WriteString("\n")
			}
		}
	}

	if strings.TrimSpace(text.String()) == "" {
		return "No readable text found in the document."
	}
	return text.String()
}
