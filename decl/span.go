package decl

import "fmt"

// Span is a half-open byte range [Start, End) into the source text.
// Spans only feed diagnostics and never change evaluation.
type Span struct {
	Start uint32
	End   uint32
}

func NewSpan(start, end uint32) Span {
	return Span{Start: start, End: end}
}

// Merge returns the smallest span covering both s and other.
func (s Span) Merge(other Span) Span {
	return Span{Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

func (s Span) Len() uint32 {
	if s.End <= s.Start {
		return 0
	}
	return s.End - s.Start
}

func (s Span) IsEmpty() bool {
	return s.Start >= s.End
}

func (s Span) Contains(offset uint32) bool {
	return offset >= s.Start && offset < s.End
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}
