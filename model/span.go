package model

import "fmt"

// Span is a half-open token interval [Start, End) inside a document
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// NewSpan creates a span from start to end (exclusive)
func NewSpan(start, end int) Span {
	return Span{Start: start, End: end}
}

// Valid reports whether the span is non-negative and ordered
func (s Span) Valid() bool {
	return s.Start >= 0 && s.Start <= s.End
}

// Length returns the number of tokens covered by the span
func (s Span) Length() int {
	return s.End - s.Start
}

// Contains reports whether token index i lies inside the span
func (s Span) Contains(i int) bool {
	return i >= s.Start && i < s.End
}

// Before reports whether s ends at or before o starts
func (s Span) Before(o Span) bool {
	return s.End <= o.Start
}

// EndsBefore reports whether s ends exactly n tokens before o starts
func (s Span) EndsBefore(o Span, n int) bool {
	return s.End == o.Start-n
}

// SharesEnd reports whether s and o end at the same token
func (s Span) SharesEnd(o Span) bool {
	return s.End == o.End
}

// EndsWithin reports whether s ends no later than n tokens after o ends
func (s Span) EndsWithin(o Span, n int) bool {
	return s.End <= o.End+n
}

// Compare orders spans by start, then by end.
// It returns -1, 0 or 1.
func (s Span) Compare(o Span) int {
	switch {
	case s.Start < o.Start:
		return -1
	case s.Start > o.Start:
		return 1
	case s.End < o.End:
		return -1
	case s.End > o.End:
		return 1
	}
	return 0
}

func (s Span) String() string {
	return fmt.Sprintf("[%d,%d)", s.Start, s.End)
}
