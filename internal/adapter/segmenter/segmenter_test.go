package segmenter

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestSegmentTotality(t *testing.T) {
	inputs := []string{
		"",
		"   ",
		"\n\t\r",
		"a",
		"hello",
		"\x00\x01\x02garbage\x7f",
		strings.Repeat("x", 500),
		"日本語のテキスト",
	}

	seg := NewClauseSegmenter(DefaultMinClauseChars, DefaultChunkWords)
	for _, in := range inputs {
		out := seg.Segment(in)
		if len(out) < 1 {
			t.Errorf("Segment(%q) returned empty sequence", in)
		}
		for _, clause := range out {
			if strings.TrimSpace(clause) == "" {
				t.Errorf("Segment(%q) returned blank clause", in)
			}
		}
	}
}

func TestSegmentEmptyInputSentinel(t *testing.T) {
	seg := NewClauseSegmenter(DefaultMinClauseChars, DefaultChunkWords)

	for _, in := range []string{"", "   ", "\n\n\t"} {
		out := seg.Segment(in)
		if len(out) != 1 || out[0] != SentinelNoText {
			t.Errorf("Segment(%q) = %v, want [%q]", in, out, SentinelNoText)
		}
	}
}

func TestSegmentNumberedClauses(t *testing.T) {
	seg := NewClauseSegmenter(DefaultMinClauseChars, DefaultChunkWords)

	text := "1. Payment shall be made within thirty days of invoice receipt by the buyer. " +
		"2. Delivery shall occur within two weeks of payment confirmation by seller."

	out := seg.Segment(text)
	if len(out) != 2 {
		t.Fatalf("expected 2 clauses, got %d: %v", len(out), out)
	}
	for _, clause := range out {
		if clause != strings.TrimSpace(clause) {
			t.Errorf("clause not trimmed: %q", clause)
		}
		if len(clause) <= 50 {
			t.Errorf("clause unexpectedly short: %q", clause)
		}
	}
	if !strings.HasPrefix(out[0], "Payment") {
		t.Errorf("first clause = %q, want Payment clause", out[0])
	}
	if !strings.HasPrefix(out[1], "Delivery") {
		t.Errorf("second clause = %q, want Delivery clause", out[1])
	}
}

func TestSegmentDropsShortFragments(t *testing.T) {
	seg := NewClauseSegmenter(DefaultMinClauseChars, DefaultChunkWords)

	text := "WHEREAS short. WHEREAS this is a sufficiently long clause describing " +
		"the background recitals of the agreement in detail."

	out := seg.Segment(text)
	if len(out) != 1 {
		t.Fatalf("expected 1 clause, got %d: %v", len(out), out)
	}
	if !strings.HasPrefix(out[0], "this is a sufficiently long clause") {
		t.Errorf("unexpected surviving clause: %q", out[0])
	}
}

func TestSegmentSentenceFallback(t *testing.T) {
	seg := NewClauseSegmenter(DefaultMinClauseChars, DefaultChunkWords)

	// No numbered, capitalized, or legal markers anywhere; sentence
	// boundaries only.
	text := "the quick brown fox jumped over several lazy dogs while the rain continued to fall steadily outside! " +
		"nobody in the house noticed anything unusual happening during that long grey afternoon? " +
		"everyone kept reading their books quietly until the evening arrived and supper was finally served."

	out := seg.Segment(text)
	if len(out) != 3 {
		t.Fatalf("expected 3 sentence clauses, got %d: %v", len(out), out)
	}
	if !strings.HasPrefix(out[0], "the quick brown fox") {
		t.Errorf("first clause = %q", out[0])
	}
	if !strings.HasPrefix(out[1], "nobody in the house") {
		t.Errorf("second clause = %q", out[1])
	}
}

func TestSegmentWordChunkFallback(t *testing.T) {
	seg := NewClauseSegmenter(DefaultMinClauseChars, DefaultChunkWords)

	words := make([]string, 250)
	for i := range words {
		words[i] = fmt.Sprintf("word%03d", i)
	}
	text := strings.Join(words, " ")

	out := seg.Segment(text)
	if len(out) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(out))
	}

	wantSizes := []int{100, 100, 50}
	for i, chunk := range out {
		got := len(strings.Fields(chunk))
		if got != wantSizes[i] {
			t.Errorf("chunk %d has %d words, want %d", i, got, wantSizes[i])
		}
		if strings.Contains(chunk, "  ") {
			t.Errorf("chunk %d not joined with single spaces", i)
		}
	}
	if !strings.HasPrefix(out[0], "word000") {
		t.Errorf("chunks out of order: %q", out[0][:20])
	}
	if !strings.HasPrefix(out[2], "word200") {
		t.Errorf("final chunk misaligned: %q", out[2][:20])
	}
}

func TestSegmentMarkersOnlyFallsThrough(t *testing.T) {
	seg := NewClauseSegmenter(DefaultMinClauseChars, DefaultChunkWords)

	// Everything here is below the length threshold, so the marker tier
	// and the sentence tier both yield nothing and chunking takes over.
	text := "WHEREAS THEREFORE WHEREAS"
	out := seg.Segment(text)
	if len(out) != 1 || out[0] != text {
		t.Errorf("Segment(%q) = %v, want single chunk of original text", text, out)
	}
}

func TestSegmentShortSentencesChunked(t *testing.T) {
	seg := NewClauseSegmenter(DefaultMinClauseChars, DefaultChunkWords)

	// Sentence boundaries exist but every fragment is under the threshold.
	text := "hello there. ok then"
	out := seg.Segment(text)
	if len(out) != 1 || out[0] != text {
		t.Errorf("Segment(%q) = %v, want single chunk", text, out)
	}
}

func TestSegmentDeterministic(t *testing.T) {
	seg := NewClauseSegmenter(DefaultMinClauseChars, DefaultChunkWords)

	inputs := []string{
		"",
		"WHEREAS the parties wish to enter into this binding agreement for services rendered.",
		strings.Repeat("alpha beta gamma ", 40),
	}
	for _, in := range inputs {
		first := seg.Segment(in)
		for i := 0; i < 3; i++ {
			if got := seg.Segment(in); !reflect.DeepEqual(got, first) {
				t.Errorf("Segment(%q) not deterministic: %v vs %v", in, got, first)
			}
		}
	}
}

func TestSplitByMarkersKeepsMarkerFragments(t *testing.T) {
	// Markers are emitted as their own fragments, interleaved with the
	// text between them; a tiny threshold keeps them visible.
	seg := NewClauseSegmenter(1, DefaultChunkWords)

	text := "1. aaa WHEREAS bbb"
	out := seg.splitByMarkers(text)
	want := []string{"1.", "aaa", "WHEREAS", "bbb"}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("splitByMarkers(%q) = %v, want %v", text, out, want)
	}
}

func TestSplitByMarkersNoMarkers(t *testing.T) {
	seg := NewClauseSegmenter(DefaultMinClauseChars, DefaultChunkWords)

	if out := seg.splitByMarkers("plain text without any boundaries at all"); out != nil {
		t.Errorf("expected nil for marker-free text, got %v", out)
	}
}

func TestSplitByMarkersCaseSensitiveKeywords(t *testing.T) {
	seg := NewClauseSegmenter(5, DefaultChunkWords)

	// Lowercase keyword must not match.
	if out := seg.splitByMarkers("whereas nothing here"); out != nil {
		t.Errorf("lowercase keyword should not split, got %v", out)
	}
	// "Whereas. " is a capitalized-word label, a different marker class.
	out := seg.splitByMarkers("Whereas. something substantial")
	want := []string{"Whereas.", "something substantial"}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("capitalized label split = %v, want %v", out, want)
	}
}

func TestSplitByMarkersMidParagraph(t *testing.T) {
	seg := NewClauseSegmenter(8, DefaultChunkWords)

	// Numbered label mid-paragraph, not at line start.
	out := seg.splitByMarkers("preamble text 2. the continuation")
	want := []string{"preamble text", "the continuation"}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("mid-paragraph split = %v, want %v", out, want)
	}
}

func TestMatchMarkerAt(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"12. next", 4},
		{"1.\tnext", 3},
		{"1.next", 0},  // no whitespace after the period
		{".5 next", 0}, // no leading digits
		{"Section. x", 9},
		{"X. next", 0}, // capital alone, no lowercase run
		{"WHEREAS", 7},
		{"IN WITNESS WHEREOF", 18},
		{"IN CONSIDERATION OF", 19},
		{"In witness whereof", 0}, // keywords are case-sensitive
		{"plain", 0},
	}

	for _, tt := range tests {
		if got := matchMarkerAt(tt.text, 0); got != tt.want {
			t.Errorf("matchMarkerAt(%q) = %d, want %d", tt.text, got, tt.want)
		}
	}
}

func TestSplitBySentencesBoundaryAtThreshold(t *testing.T) {
	seg := NewClauseSegmenter(10, DefaultChunkWords)

	// First fragment is exactly 10 runes after trimming and must be
	// dropped; the filter requires strictly greater than the minimum.
	text := "exactlyten. this fragment is long enough to survive"
	out := seg.splitBySentences(text)
	if len(out) != 1 || !strings.HasPrefix(out[0], "this fragment") {
		t.Errorf("splitBySentences = %v, want only the long fragment", out)
	}
}

func TestSplitByWordsCustomChunkSize(t *testing.T) {
	seg := NewClauseSegmenter(DefaultMinClauseChars, 3)

	out := seg.splitByWords("a  b\tc d\ne f g")
	want := []string{"a b c", "d e f", "g"}
	if !reflect.DeepEqual(out, want) {
		t.Errorf("splitByWords = %v, want %v", out, want)
	}
}

func TestNewClauseSegmenterDefaults(t *testing.T) {
	seg := NewClauseSegmenter(0, -1)
	if seg.minClauseChars != DefaultMinClauseChars {
		t.Errorf("minClauseChars = %d, want %d", seg.minClauseChars, DefaultMinClauseChars)
	}
	if seg.chunkWords != DefaultChunkWords {
		t.Errorf("chunkWords = %d, want %d", seg.chunkWords, DefaultChunkWords)
	}
}
