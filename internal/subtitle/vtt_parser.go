package subtitle

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
)

const vttHeader = "WEBVTT"

var vttTimestampRegex = regexp.MustCompile(
	`^(?:(\d{2}):)?(\d{2}):(\d{2})\.(\d{3}) --> (?:(\d{2}):)?(\d{2}):(\d{2})\.(\d{3})$`,
)

type lineKind int

const (
	lineBlank lineKind = iota
	lineTimestamp
	lineText
)

type vttState int

const (
	stateIdle vttState = iota // no cue open yet
	stateCue                  // collecting text lines of the open cue
	stateGap                  // cue open, blank line seen
	stateHeld                 // cue open, one line after a gap held back
)

type vttParser struct {
	state   vttState
	current Cue
	held    string
	cues    []Cue
}

func ParseVTTString(s string) ([]Cue, error) {
	return ParseVTT(strings.NewReader(s))
}

// ParseVTT reads a WebVTT document. Text lines of one block are joined with
// no separator.
func ParseVTT(r io.Reader) ([]Cue, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	p := &vttParser{}
	lineNum := 0

	for scanner.Scan() {
		line := scanner.Text()
		lineNum++

		if lineNum == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
			if strings.TrimSpace(line) != vttHeader {
				return nil, vttError(1, "missing WEBVTT header")
			}
			continue
		}

		line = strings.TrimSpace(line)
		kind, start, end := classifyLine(line)
		switch kind {
		case lineBlank:
			p.onBlank()
		case lineTimestamp:
			p.onTimestamp(start, end)
		case lineText:
			p.onText(line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading VTT input: %w", err)
	}
	if lineNum == 0 {
		return nil, vttError(1, "missing WEBVTT header")
	}

	p.finish()
	return p.cues, nil
}

func classifyLine(line string) (lineKind, int64, int64) {
	if line == "" {
		return lineBlank, 0, 0
	}

	matches := vttTimestampRegex.FindStringSubmatch(line)
	if matches == nil {
		return lineText, 0, 0
	}

	start := vttMillis(matches[1], matches[2], matches[3], matches[4])
	end := vttMillis(matches[5], matches[6], matches[7], matches[8])
	return lineTimestamp, start, end
}

// components are regexp-validated digit runs
func vttMillis(hours, minutes, seconds, millis string) int64 {
	var h int64
	if hours != "" {
		h, _ = strconv.ParseInt(hours, 10, 64)
	}
	m, _ := strconv.ParseInt(minutes, 10, 64)
	s, _ := strconv.ParseInt(seconds, 10, 64)
	ms, _ := strconv.ParseInt(millis, 10, 64)

	return h*3_600_000 + m*60_000 + s*1_000 + ms
}

func (p *vttParser) onBlank() {
	switch p.state {
	case stateCue:
		p.state = stateGap
	case stateHeld:
		p.current.Text += p.held
		p.held = ""
		p.state = stateGap
	}
}

func (p *vttParser) onTimestamp(start, end int64) {
	// a held line directly above a timestamp is that block's identifier
	p.held = ""

	if p.state != stateIdle {
		p.flush()
	}
	p.current = Cue{Start: start, End: end}
	p.state = stateCue
}

func (p *vttParser) onText(line string) {
	switch p.state {
	case stateIdle:
		// no timing yet, nothing to attach the line to
	case stateCue:
		p.current.Text += line
	case stateGap:
		p.held = line
		p.state = stateHeld
	case stateHeld:
		p.current.Text += p.held + line
		p.held = ""
		p.state = stateCue
	}
}

func (p *vttParser) finish() {
	if p.state == stateHeld {
		p.current.Text += p.held
		p.held = ""
	}
	if p.state != stateIdle {
		p.flush()
	}
	p.state = stateIdle
}

// appends the open cue unless it has no text
func (p *vttParser) flush() {
	if p.current.Text != "" {
		p.cues = append(p.cues, p.current)
	}
	p.current = Cue{}
}
