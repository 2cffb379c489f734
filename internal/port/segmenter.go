package port

// Segmenter converts raw extracted document text into an ordered, never-empty
// sequence of clause strings. Implementations must be total: any input,
// including empty or whitespace-only text, yields at least one clause.
type Segmenter interface {
	Segment(text string) []string
}

// Extractor reads a document file and returns its plain text content with
// paragraph and page breaks collapsed to newlines. Extraction failures are
// converted to explanatory sentinel text rather than surfaced as errors; an
// error is returned only for unsupported file formats.
type Extractor interface {
	Extract(path string) (string, error)
}
