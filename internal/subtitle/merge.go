package subtitle

import (
	"unicode"
	"unicode/utf8"
)

// Merge joins fragments into sentences. A cue whose text starts with a
// lower-case letter continues the last merged cue: it extends its end time
// and is appended to its text after a single space. A continuation with
// nothing before it is dropped. The input slice is not modified.
func Merge(cues []Cue) []Cue {
	merged := make([]Cue, 0, len(cues))

	for _, cue := range cues {
		if isContinuation(cue.Text) {
			if n := len(merged); n > 0 {
				last := &merged[n-1]
				last.End = cue.End
				last.Text += " " + cue.Text
			}
			continue
		}
		merged = append(merged, cue.Clone())
	}

	return merged
}

// upper-casing changes only letters with a case
func isContinuation(text string) bool {
	r, size := utf8.DecodeRuneInString(text)
	if size == 0 {
		return false
	}
	return unicode.ToUpper(r) != r
}
