package domain

import (
	"strings"
	"unicode/utf8"
)

// Segment is one timed chunk of a transcript, as produced by Whisper.
type Segment struct {
	Text  string
	Start float64
	End   float64
}

func (s Segment) valid() bool {
	return strings.TrimSpace(s.Text) != "" && s.Start >= 0 && s.End >= s.Start
}

// TranscribedText is an immutable transcript with optional timed segments.
// Malformed segments are dropped at construction rather than rejected.
type TranscribedText struct {
	content  string
	segments []Segment
}

func NewTranscribedText(content string, segments []Segment) (TranscribedText, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		return TranscribedText{}, &ValidationError{Field: "transcribed text", Value: content, Expected: "non-empty string"}
	}

	kept := make([]Segment, 0, len(segments))
	for _, seg := range segments {
		if seg.valid() {
			kept = append(kept, seg)
		}
	}

	return TranscribedText{content: trimmed, segments: kept}, nil
}

func (t TranscribedText) Content() string { return t.content }
func (t TranscribedText) String() string  { return t.content }
func (t TranscribedText) IsZero() bool    { return t.content == "" }

func (t TranscribedText) Segments() []Segment {
	out := make([]Segment, len(t.segments))
	copy(out, t.segments)
	return out
}

func (t TranscribedText) HasSegments() bool { return len(t.segments) > 0 }

func (t TranscribedText) WordCount() int {
	return len(strings.Fields(t.content))
}

func (t TranscribedText) CharacterCount() int {
	return utf8.RuneCountInString(t.content)
}

// Duration is the end timestamp of the last segment, 0 when untimed.
func (t TranscribedText) Duration() float64 {
	if len(t.segments) == 0 {
		return 0
	}
	return t.segments[len(t.segments)-1].End
}

func (t TranscribedText) Excerpt(length int) string {
	if length <= 0 {
		return ""
	}
	runes := []rune(t.content)
	if len(runes) <= length {
		return t.content
	}
	return string(runes[:length]) + "..."
}

// SegmentAt returns the segment covering the timestamp, if any.
func (t TranscribedText) SegmentAt(timestamp float64) (Segment, bool) {
	for _, seg := range t.segments {
		if timestamp >= seg.Start && timestamp <= seg.End {
			return seg, true
		}
	}
	return Segment{}, false
}

// TextBetween joins the text of all segments fully contained in the window.
func (t TranscribedText) TextBetween(start, end float64) string {
	var parts []string
	for _, seg := range t.segments {
		if seg.Start >= start && seg.End <= end {
			parts = append(parts, seg.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

func (t TranscribedText) Equals(other TranscribedText) bool {
	if t.content != other.content || len(t.segments) != len(other.segments) {
		return false
	}
	for i := range t.segments {
		if t.segments[i] != other.segments[i] {
			return false
		}
	}
	return true
}
