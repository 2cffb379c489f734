package segmenter

import (
	"strings"
	"unicode/utf8"
)

// Sentinel strings returned when a document carries no usable text. Callers
// treat these as ordinary clause data, not errors.
const (
	SentinelNoText    = "No readable text found in the document."
	SentinelNoContent = "No readable content found in the document."
)

const (
	DefaultMinClauseChars = 50
	DefaultChunkWords     = 100
)

// IsSentinel reports whether a clause is one of the no-content sentinels.
// Sentinel clauses are stored like any other clause but carry no searchable
// meaning, so the ingest pipeline skips them when embedding.
func IsSentinel(clause string) bool {
	return clause == SentinelNoText || clause == SentinelNoContent
}

// Legal boilerplate keywords that signal a clause boundary. Matching is
// case-sensitive and follows strict list order at each scan position.
var legalMarkers = []string{
	"WHEREAS",
	"THEREFORE",
	"IN WITNESS WHEREOF",
	"IN CONSIDERATION OF",
}

// ClauseSegmenter splits raw contract text into clauses using a cascade of
// fallback strategies: marker-based split, sentence-based split, then
// fixed-size word chunking. Segment is a total function: every input maps to
// a non-empty ordered sequence of strings.
type ClauseSegmenter struct {
	minClauseChars int
	chunkWords     int
}

func NewClauseSegmenter(minClauseChars, chunkWords int) *ClauseSegmenter {
	if minClauseChars <= 0 {
		minClauseChars = DefaultMinClauseChars
	}
	if chunkWords <= 0 {
		chunkWords = DefaultChunkWords
	}
	return &ClauseSegmenter{
		minClauseChars: minClauseChars,
		chunkWords:     chunkWords,
	}
}

// Segment converts raw document text into an ordered, never-empty clause
// sequence. Each strategy is attempted in order; the first that produces a
// usable result wins. If none do, a sentinel clause is returned.
func (s *ClauseSegmenter) Segment(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{SentinelNoText}
	}

	strategies := []func(string) []string{
		s.splitByMarkers,
		s.splitBySentences,
		s.splitByWords,
	}

	for _, split := range strategies {
		if clauses := split(text); len(clauses) > 0 {
			return clauses
		}
	}

	return []string{SentinelNoContent}
}

// splitByMarkers partitions text at clause-boundary markers: numbered labels
// ("12. "), capitalized-word labels ("Section. "), and legal keywords. The
// matched marker text is emitted as its own fragment between the surrounding
// text fragments. Returns nil when no marker occurs anywhere in the text or
// when no fragment survives the minimum-length filter.
func (s *ClauseSegmenter) splitByMarkers(text string) []string {
	var fragments []string
	last := 0
	matched := false

	for i := 0; i < len(text); {
		n := matchMarkerAt(text, i)
		if n == 0 {
			i++
			continue
		}
		matched = true
		fragments = append(fragments, text[last:i], text[i:i+n])
		last = i + n
		i = last
	}
	if !matched {
		return nil
	}
	fragments = append(fragments, text[last:])

	return s.filterFragments(fragments)
}

// matchMarkerAt reports the length of the marker starting at position i, or
// zero if none matches there. Patterns are tried in strict priority order:
// numbered label, capitalized-word label, then each legal keyword.
func matchMarkerAt(text string, i int) int {
	if n := matchNumberedLabel(text[i:]); n > 0 {
		return n
	}
	if n := matchCapitalizedLabel(text[i:]); n > 0 {
		return n
	}
	for _, m := range legalMarkers {
		if strings.HasPrefix(text[i:], m) {
			return len(m)
		}
	}
	return 0
}

// matchNumberedLabel matches one or more digits, a period, and at least one
// whitespace character ("1. ", "42.\t").
func matchNumberedLabel(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == 0 || i >= len(s) || s[i] != '.' {
		return 0
	}
	i++
	return matchTrailingSpace(s, i)
}

// matchCapitalizedLabel matches a capital letter, one or more lowercase
// letters, a period, and at least one whitespace character ("Section. ").
// It can match mid-paragraph; anchoring at line starts is not required.
func matchCapitalizedLabel(s string) int {
	if len(s) == 0 || s[0] < 'A' || s[0] > 'Z' {
		return 0
	}
	i := 1
	for i < len(s) && s[i] >= 'a' && s[i] <= 'z' {
		i++
	}
	if i == 1 || i >= len(s) || s[i] != '.' {
		return 0
	}
	i++
	return matchTrailingSpace(s, i)
}

// matchTrailingSpace requires at least one whitespace character at position i
// and consumes the whole run. Returns the total matched length, or zero.
func matchTrailingSpace(s string, i int) int {
	start := i
	for i < len(s) && isSpace(s[i]) {
		i++
	}
	if i == start {
		return 0
	}
	return i
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\f' || b == '\v'
}

// splitBySentences partitions text at sentence-ending punctuation followed by
// whitespace. The punctuation and whitespace are dropped. Returns nil when no
// sentence boundary occurs or no fragment survives the length filter.
func (s *ClauseSegmenter) splitBySentences(text string) []string {
	var fragments []string
	last := 0
	matched := false

	for i := 0; i < len(text); i++ {
		if text[i] != '.' && text[i] != '!' && text[i] != '?' {
			continue
		}
		if i+1 >= len(text) || !isSpace(text[i+1]) {
			continue
		}
		matched = true
		fragments = append(fragments, text[last:i])
		j := i + 1
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		last = j
		i = j - 1
	}
	if !matched {
		return nil
	}
	fragments = append(fragments, text[last:])

	return s.filterFragments(fragments)
}

// splitByWords groups whitespace-separated words into fixed-size chunks joined
// with single spaces. No minimum-length filter applies; short final chunks
// are kept.
func (s *ClauseSegmenter) splitByWords(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var chunks []string
	for i := 0; i < len(words); i += s.chunkWords {
		end := i + s.chunkWords
		if end > len(words) {
			end = len(words)
		}
		chunk := strings.Join(words[i:end], " ")
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

// filterFragments trims fragments and keeps those whose trimmed length
// exceeds the minimum clause size.
func (s *ClauseSegmenter) filterFragments(fragments []string) []string {
	var clauses []string
	for _, f := range fragments {
		f = strings.TrimSpace(f)
		if utf8.RuneCountInString(f) > s.minClauseChars {
			clauses = append(clauses, f)
		}
	}
	return clauses
}
