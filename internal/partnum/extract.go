package partnum

import (
	"math"
	"regexp"
	"strings"
)

// ConfidenceThreshold is the confidence a detection must strictly exceed to
// be used.
const ConfidenceThreshold = 0.5

var (
	digitRun   = regexp.MustCompile(`\d+`)
	partNumber = regexp.MustCompile(`^\d{6,12}$`)
)

// Extraction is the output of Extract: accepted texts and the candidates
// found in them, both in engine order.
type Extraction struct {
	Texts      []string
	Candidates []Candidate
}

// Admit drops detections that cannot be used: empty text, or a confidence
// that is NaN, infinite or outside [0, 1]. Order is preserved. A nil or empty
// input yields an empty, non-nil slice.
func Admit(raw []Detection) []Detection {
	out := make([]Detection, 0, len(raw))
	for _, d := range raw {
		if d.Text == "" {
			continue
		}
		if math.IsNaN(d.Confidence) || d.Confidence < 0 || d.Confidence > 1 {
			continue
		}
		out = append(out, d)
	}
	return out
}

// DigitRuns returns every maximal run of ASCII digits in text, left to
// right.
func DigitRuns(text string) []string {
	return digitRun.FindAllString(text, -1)
}

// IsValidPartNumber reports whether s, trimmed of surrounding whitespace,
// is 6 to 12 digits and nothing else.
func IsValidPartNumber(s string) bool {
	return partNumber.MatchString(strings.TrimSpace(s))
}

// Extract applies the confidence gate and part number filter to detections.
//
// Detections with Confidence <= ConfidenceThreshold are dropped entirely. The
// text of each remaining detection is kept, and each of its digit runs that
// passes IsValidPartNumber becomes a Candidate. Input should already have
// been through Admit; entries with empty text are skipped regardless.
func Extract(detections []Detection) Extraction {
	ex := Extraction{
		Texts:      []string{},
		Candidates: []Candidate{},
	}

	for _, d := range detections {
		if d.Text == "" || !(d.Confidence > ConfidenceThreshold) {
			continue
		}
		ex.Texts = append(ex.Texts, d.Text)

		for _, run := range DigitRuns(d.Text) {
			if !IsValidPartNumber(run) {
				continue
			}
			ex.Candidates = append(ex.Candidates, Candidate{
				Number:       run,
				OriginalText: d.Text,
				Confidence:   d.Confidence,
			})
		}
	}

	return ex
}

// Aggregate assembles an Extraction into a RecognitionResult. FullText is
// the accepted texts joined by newlines.
func Aggregate(ex Extraction) *RecognitionResult {
	texts := ex.Texts
	if texts == nil {
		texts = []string{}
	}
	candidates := ex.Candidates
	if candidates == nil {
		candidates = []Candidate{}
	}
	return &RecognitionResult{
		RecognizedTexts: texts,
		PartNumbers:     candidates,
		FullText:        strings.Join(texts, "\n"),
	}
}
