// Package display provides terminal output formatting for clipfinder.
package display

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Dagingo/clip-finder/internal/clip"
)

const (
	separator     = " • "
	maxTitleRunes = 80
	thumbMarker   = "[thumb]"
)

// TerminalFormatter formats clips for terminal display.
type TerminalFormatter struct {
	now func() time.Time
}

// NewTerminalFormatter creates a new terminal formatter.
func NewTerminalFormatter() *TerminalFormatter {
	return &TerminalFormatter{now: time.Now}
}

// FormatClip formats a single clip for display.
func (f *TerminalFormatter) FormatClip(r clip.Record, hasThumbnail bool) string {
	var lines []string

	// Header: title (broadcaster) [N views] - YYYY-MM-DD
	header := fmt.Sprintf("%s (%s) [%s] - %s",
		f.TruncateText(r.Title, maxTitleRunes),
		r.BroadcasterName,
		countViews(r.ViewCount),
		r.CreatedAt.Format("2006-01-02"),
	)
	lines = append(lines, header)

	var meta []string
	if !r.CreatedAt.IsZero() {
		meta = append(meta, f.FormatTimestamp(r.CreatedAt))
	}
	if r.Language != "" {
		meta = append(meta, r.Language)
	}
	if hasThumbnail {
		meta = append(meta, thumbMarker)
	}
	if len(meta) > 0 {
		lines = append(lines, "  "+strings.Join(meta, separator))
	}

	if r.URL != "" {
		lines = append(lines, "  "+r.URL)
	}

	return strings.Join(lines, "\n") + "\n"
}

// FormatResults formats ranked clips for display, numbered from 1.
// hasThumbnail may be nil.
func (f *TerminalFormatter) FormatResults(records []clip.Record, hasThumbnail func(id string) bool) string {
	if len(records) == 0 {
		return "No clips found.\n"
	}

	formatted := make([]string, 0, len(records))
	for i, r := range records {
		thumb := hasThumbnail != nil && hasThumbnail(r.ID)
		formatted = append(formatted, fmt.Sprintf("%d. %s", i+1, f.FormatClip(r, thumb)))
	}

	return strings.Join(formatted, "\n")
}

// FormatSearchSummary reports how many sub-queries produced clips.
func (f *TerminalFormatter) FormatSearchSummary(withData, total, failed int) string {
	line := fmt.Sprintf("%d of %d sub-queries returned data", withData, total)
	if failed > 0 {
		line += fmt.Sprintf(" (%d failed)", failed)
	}
	return line + "\n"
}

// FormatThumbnailSummary reports how many thumbnails could be loaded.
func (f *TerminalFormatter) FormatThumbnailSummary(loaded, total int) string {
	return fmt.Sprintf("%d of %d thumbnails loaded\n", loaded, total)
}

// FormatTimestamp formats a timestamp as relative time.
func (f *TerminalFormatter) FormatTimestamp(t time.Time) string {
	diff := f.now().Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return pluralize(int(diff.Minutes()), "minute")
	case diff < 24*time.Hour:
		return pluralize(int(diff.Hours()), "hour")
	case diff < 7*24*time.Hour:
		return pluralize(int(diff.Hours()/24), "day")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// pluralize returns "N unit ago" or "N units ago" based on count.
func pluralize(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s ago", unit)
	}
	return fmt.Sprintf("%d %ss ago", n, unit)
}

func countViews(n int64) string {
	if n == 1 {
		return "1 view"
	}
	return fmt.Sprintf("%d views", n)
}

// TruncateText truncates text to maxLen runes, adding "..." if truncated.
func (f *TerminalFormatter) TruncateText(text string, maxLen int) string {
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	if maxLen <= 3 {
		return "..."
	}
	return string(runes[:maxLen-3]) + "..."
}

// WriteJSON writes records as an indented JSON array. A nil slice is written as [].
func WriteJSON(w io.Writer, records []clip.Record) error {
	if records == nil {
		records = []clip.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}
