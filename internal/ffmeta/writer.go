// Package ffmeta renders ffmpeg FFMETADATA chapter documents.
package ffmeta

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Header is the fixed FFMETADATA document header token.
const Header = ";FFMETADATA1"

// lastChapterPaddingMs closes the final chapter one hour after it starts;
// no next-chapter boundary exists and the muxer clamps END to the stream
// duration anyway.
const lastChapterPaddingMs int64 = 3_600_000

// Chapter is one entry to write: a title plus an "HH:MM:SS" start timestamp.
type Chapter struct {
	Title     string `json:"title"`
	Timestamp string `json:"timestamp"`
}

// titleSanitizer strips the characters FFMETADATA treats as field delimiters
// or comment markers.
var titleSanitizer = strings.NewReplacer(
	"=", " ",
	";", " ",
	"#", " ",
	"\\", " ",
	"\n", " ",
	"\r", " ",
)

// Render produces the metadata document for the given chapters. Each
// chapter's END is the next chapter's START; the last chapter is padded by
// one hour. An empty chapter list is an error, never an empty document.
func Render(chapters []Chapter) (string, error) {
	if len(chapters) == 0 {
		return "", errors.New("at least one chapter is required")
	}

	starts := make([]int64, len(chapters))
	for i, ch := range chapters {
		ms, err := ParseTimestamp(ch.Timestamp)
		if err != nil {
			return "", fmt.Errorf("chapter %d %q: %w", i+1, ch.Title, err)
		}
		starts[i] = ms
	}

	var b strings.Builder
	b.WriteString(Header)
	b.WriteByte('\n')
	for i, ch := range chapters {
		end := starts[i] + lastChapterPaddingMs
		if i+1 < len(chapters) {
			end = starts[i+1]
		}
		b.WriteString("\n[CHAPTER]\n")
		b.WriteString("TIMEBASE=1/1000\n")
		fmt.Fprintf(&b, "START=%d\n", starts[i])
		fmt.Fprintf(&b, "END=%d\n", end)
		fmt.Fprintf(&b, "title=%s\n", sanitizeTitle(ch.Title))
	}
	return b.String(), nil
}

// ParseTimestamp converts a strict "HH:MM:SS" timestamp to milliseconds.
func ParseTimestamp(value string) (int64, error) {
	parts := strings.Split(strings.TrimSpace(value), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("invalid timestamp %q: want HH:MM:SS", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("invalid timestamp %q: bad hours", value)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("invalid timestamp %q: bad minutes", value)
	}
	seconds, err := strconv.Atoi(parts[2])
	if err != nil || seconds < 0 || seconds > 59 {
		return 0, fmt.Errorf("invalid timestamp %q: bad seconds", value)
	}
	return int64(hours*3600+minutes*60+seconds) * 1000, nil
}

func sanitizeTitle(title string) string {
	cleaned := strings.Join(strings.Fields(titleSanitizer.Replace(title)), " ")
	if cleaned == "" {
		return "Untitled"
	}
	return cleaned
}
