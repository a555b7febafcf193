package captions

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// timestampSeparator divides the start and end timestamps on a cue timing line.
const timestampSeparator = "-->"

// Cue is a single timed caption entry.
type Cue struct {
	Start float64
	End   float64
	Text  string
}

// ParseFile reads a caption track from disk and parses it.
func ParseFile(path string) ([]Cue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read caption track: %w", err)
	}
	return Parse(string(data)), nil
}

// Parse scans caption-track text into cues. The header is skipped until the
// first timing line; each cue consists of a timing line followed by text
// lines up to a blank line or the next timing line. Bare numeric lines are
// cue sequence identifiers and are discarded. Timing lines that fail to
// parse produce no cue. Cues are returned in file order.
func Parse(contents string) []Cue {
	lines := strings.Split(contents, "\n")
	cues := make([]Cue, 0, len(lines)/3)

	for i := 0; i < len(lines); i++ {
		line := strings.TrimRight(lines[i], "\r")
		if !strings.Contains(line, timestampSeparator) {
			continue
		}

		start, end, err := parseTimingLine(line)

		var textLines []string
		for i+1 < len(lines) {
			next := strings.TrimRight(lines[i+1], "\r")
			if strings.TrimSpace(next) == "" || strings.Contains(next, timestampSeparator) {
				break
			}
			i++
			trimmed := strings.TrimSpace(next)
			if isNumericIdentifier(trimmed) {
				continue
			}
			textLines = append(textLines, trimmed)
		}

		if err != nil || len(textLines) == 0 {
			continue
		}
		cues = append(cues, Cue{Start: start, End: end, Text: strings.Join(textLines, " ")})
	}

	return cues
}

func parseTimingLine(line string) (float64, float64, error) {
	parts := strings.SplitN(line, timestampSeparator, 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid timing line %q", line)
	}
	start, err := ParseTimestamp(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, err
	}
	// Cue settings (position, alignment) may trail the end timestamp.
	endFields := strings.Fields(strings.TrimSpace(parts[1]))
	if len(endFields) == 0 {
		return 0, 0, fmt.Errorf("missing end timestamp in %q", line)
	}
	end, err := ParseTimestamp(endFields[0])
	if err != nil {
		return 0, 0, err
	}
	return start, end, nil
}

// ParseTimestamp converts "HH:MM:SS.mmm" or "MM:SS.mmm" to seconds. A comma
// millisecond separator is tolerated. Anything else is an error.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(strings.ReplaceAll(value, ",", "."))
	if value == "" {
		return 0, fmt.Errorf("empty timestamp")
	}

	parts := strings.Split(value, ":")
	var hours, minutes int
	var secondsText string
	switch len(parts) {
	case 3:
		h, err := strconv.Atoi(parts[0])
		if err != nil || h < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		hours = h
		m, err := strconv.Atoi(parts[1])
		if err != nil || m < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		minutes = m
		secondsText = parts[2]
	case 2:
		m, err := strconv.Atoi(parts[0])
		if err != nil || m < 0 {
			return 0, fmt.Errorf("invalid timestamp %q", value)
		}
		minutes = m
		secondsText = parts[1]
	default:
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}

	seconds, err := strconv.ParseFloat(secondsText, 64)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(hours*3600+minutes*60) + seconds, nil
}

// FormatTimestamp renders seconds as "HH:MM:SS", truncating sub-second
// precision rather than rounding.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

func isNumericIdentifier(line string) bool {
	if line == "" {
		return false
	}
	for _, r := range line {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
