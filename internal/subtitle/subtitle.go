package subtitle

import (
	"io"
)

// represents single transcript cue, times in milliseconds
type Cue struct {
	Start   int64  `json:"start"`
	End     int64  `json:"end"`
	Text    string `json:"text"`
	Speaker *int   `json:"speaker,omitempty"` // 1-based speaker slot
	Misc    *bool  `json:"misc,omitempty"`    // non-dialogue, skipped by interview export
}

// Clone returns a copy of c that shares no memory with it.
func (c Cue) Clone() Cue {
	out := c
	if c.Speaker != nil {
		out.Speaker = Int(*c.Speaker)
	}
	if c.Misc != nil {
		out.Misc = Bool(*c.Misc)
	}
	return out
}

// speaker slot and whether the cue is attributed at all
func (c Cue) SpeakerID() (int, bool) {
	if c.Speaker == nil {
		return 0, false
	}
	return *c.Speaker, true
}

func (c Cue) IsMisc() bool {
	return c.Misc != nil && *c.Misc
}

func Int(v int) *int {
	return &v
}

func Bool(v bool) *bool {
	return &v
}

// represents supported transcript formats
type Format string

const (
	FormatJSON Format = "json"
	FormatVTT  Format = "vtt"
	FormatText Format = "txt"
)

// interface for serializing cues
type Writer interface {
	Write(w io.Writer, cues []Cue) error
}
