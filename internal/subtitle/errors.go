package subtitle

import (
	"fmt"
	"strings"
)

// FormatError reports input that is not a well-formed transcript. Line is
// 1-based and set for WebVTT input; Segment is 0-based and set (>= 0) for
// segmented JSON input.
type FormatError struct {
	Format  Format
	Line    int
	Segment int
	Field   string
	Reason  string
	Err     error
}

func (e *FormatError) Error() string {
	var sb strings.Builder

	sb.WriteString(string(e.Format))
	if e.Line > 0 {
		sb.WriteString(fmt.Sprintf(": line %d", e.Line))
	}
	if e.Segment >= 0 {
		sb.WriteString(fmt.Sprintf(": segment %d", e.Segment))
	}
	sb.WriteString(": ")
	sb.WriteString(e.Reason)
	if e.Field != "" {
		sb.WriteString(fmt.Sprintf(" %q", e.Field))
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}

	return sb.String()
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

func vttError(line int, reason string) *FormatError {
	return &FormatError{Format: FormatVTT, Line: line, Segment: -1, Reason: reason}
}

func jsonError(reason string, err error) *FormatError {
	return &FormatError{Format: FormatJSON, Segment: -1, Reason: reason, Err: err}
}

func segmentError(index int, reason, field string, err error) *FormatError {
	return &FormatError{
		Format:  FormatJSON,
		Segment: index,
		Field:   field,
		Reason:  reason,
		Err:     err,
	}
}
