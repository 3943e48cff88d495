package subtitle

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// transcription output, times in seconds
type SegmentedDocument struct {
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start    float64        `json:"start"`
	End      float64        `json:"end"`
	Text     string         `json:"text"`
	Speakers []SpeakerShare `json:"speakers"`
}

// fraction of a segment attributed to one 0-based speaker id
type SpeakerShare struct {
	Speaker      string  `json:"speaker"`
	TalkFraction float64 `json:"talk_fraction"`
}

// wire form used to detect missing fields
type segmentWire struct {
	Start    *float64       `json:"start"`
	End      *float64       `json:"end"`
	Text     *string        `json:"text"`
	Speakers []SpeakerShare `json:"speakers"`
}

type segmentedWire struct {
	Language string        `json:"language"`
	Segments []segmentWire `json:"segments"`
}

// exactly one of the fields is set
type jsonDocument struct {
	segmented *segmentedWire
	flat      []Cue
}

// DecodeJSON imports either a segmented transcription document (any object
// carrying a "language" key) or a flat array of cues, which is returned as is.
func DecodeJSON(data []byte) ([]Cue, error) {
	doc, err := decodeDocument(data)
	if err != nil {
		return nil, err
	}
	if doc.segmented == nil {
		return doc.flat, nil
	}
	return doc.segmented.cues()
}

func decodeDocument(data []byte) (*jsonDocument, error) {
	if !json.Valid(data) {
		var probe any
		err := json.Unmarshal(data, &probe)
		return nil, jsonError("invalid JSON", err)
	}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &keys); err != nil {
			return nil, jsonError("invalid JSON object", err)
		}
		if _, ok := keys["language"]; ok {
			var seg segmentedWire
			if err := json.Unmarshal(trimmed, &seg); err != nil {
				return nil, jsonError("invalid segmented document", err)
			}
			return &jsonDocument{segmented: &seg}, nil
		}
	}

	var cues []Cue
	if err := json.Unmarshal(trimmed, &cues); err != nil {
		return nil, jsonError("expected an array of cues", err)
	}
	if cues == nil {
		cues = []Cue{}
	}
	return &jsonDocument{flat: cues}, nil
}

func (d *segmentedWire) cues() ([]Cue, error) {
	cues := make([]Cue, 0, len(d.Segments))
	for i, seg := range d.Segments {
		switch {
		case seg.Start == nil:
			return nil, segmentError(i, "missing field", "start", nil)
		case seg.End == nil:
			return nil, segmentError(i, "missing field", "end", nil)
		case seg.Text == nil:
			return nil, segmentError(i, "missing field", "text", nil)
		}

		if *seg.Text == "" {
			continue
		}

		cue := Cue{
			Start: secondsToMillis(*seg.Start),
			End:   secondsToMillis(*seg.End),
			Text:  *seg.Text,
		}

		if len(seg.Speakers) > 0 {
			id, err := strconv.Atoi(seg.Speakers[0].Speaker)
			if err != nil {
				return nil, segmentError(i, "invalid speaker id in", "speakers", err)
			}
			cue.Speaker = Int(id + 1)
		}

		cues = append(cues, cue)
	}

	return cues, nil
}

func secondsToMillis(seconds float64) int64 {
	return int64(math.Round(seconds * 1000))
}
