package subtitle

import (
	"bytes"
	"fmt"
)

// Load parses raw transcript bytes of the given format.
func Load(data []byte, format Format) ([]Cue, error) {
	switch format {
	case FormatVTT:
		return ParseVTT(bytes.NewReader(data))
	case FormatJSON:
		return DecodeJSON(data)
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// DetectFormat picks the input format from the file extension, falling back
// to sniffing the WebVTT header for unknown extensions.
func DetectFormat(path string, data []byte) (Format, error) {
	if format, ok := FormatFromPath(path); ok {
		if format == FormatText {
			return "", fmt.Errorf("interview text cannot be imported: %s", path)
		}
		return format, nil
	}

	trimmed := bytes.TrimPrefix(data, []byte("\ufeff"))
	if bytes.HasPrefix(trimmed, []byte(vttHeader)) {
		return FormatVTT, nil
	}
	return FormatJSON, nil
}
