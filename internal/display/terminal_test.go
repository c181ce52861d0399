package display

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/Dagingo/clip-finder/internal/clip"
)

func sampleClip() clip.Record {
	return clip.Record{
		ID:              "AwkwardHelplessSalamander",
		Title:           "Unbelievable checkmate in 3",
		BroadcasterName: "GothamChess",
		ViewCount:       12345,
		Language:        "en",
		CreatedAt:       time.Date(2026, 3, 14, 18, 30, 0, 0, time.UTC),
		URL:             "https://clips.twitch.tv/AwkwardHelplessSalamander",
	}
}

func TestAC600_TerminalClip_ShowsHeaderLine(t *testing.T) {
	output := NewTerminalFormatter().FormatClip(sampleClip(), false)

	want := "Unbelievable checkmate in 3 (GothamChess) [12345 views] - 2026-03-14"
	if !strings.HasPrefix(output, want) {
		t.Errorf("user should see %q first, got:\n%s", want, output)
	}
}

func TestAC600_TerminalClip_ShowsClickableURL(t *testing.T) {
	output := NewTerminalFormatter().FormatClip(sampleClip(), false)

	if !strings.Contains(output, "https://clips.twitch.tv/AwkwardHelplessSalamander") {
		t.Error("user should see clip URL in terminal output")
	}
}

func TestAC601_TerminalClip_MarksLoadedThumbnail(t *testing.T) {
	formatter := NewTerminalFormatter()

	if !strings.Contains(formatter.FormatClip(sampleClip(), true), thumbMarker) {
		t.Error("user should see which clips have a thumbnail")
	}
	if strings.Contains(formatter.FormatClip(sampleClip(), false), thumbMarker) {
		t.Error("clips without thumbnail should not be marked")
	}
}

func TestAC602_TerminalClip_ShowsRelativeTimestamps(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	formatter := &TerminalFormatter{now: func() time.Time { return now }}
	testCases := []struct {
		name      string
		timestamp time.Time
		contains  string
	}{
		{"recent minutes", now.Add(-30 * time.Minute), "30 minutes ago"},
		{"one hour", now.Add(-time.Hour), "1 hour ago"},
		{"recent days", now.Add(-48 * time.Hour), "2 days ago"},
		{"older", now.Add(-30 * 24 * time.Hour), "Feb 13, 2026"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			output := formatter.FormatTimestamp(tc.timestamp)
			if output != tc.contains {
				t.Errorf("got %q, want %q", output, tc.contains)
			}
		})
	}
}

func TestAC603_TerminalClip_TruncatesLongText(t *testing.T) {
	formatter := NewTerminalFormatter()
	longText := "This is a very long text that should be truncated because it exceeds the maximum length"

	truncated := formatter.TruncateText(longText, 20)

	if len([]rune(truncated)) != 20 {
		t.Errorf("user should see truncated text (20 chars), got %d chars", len([]rune(truncated)))
	}
	if !strings.HasSuffix(truncated, "...") {
		t.Error("user should see ellipsis indicating text was truncated")
	}
}

func TestAC603_TerminalClip_TruncationKeepsMultibyteRunes(t *testing.T) {
	truncated := NewTerminalFormatter().TruncateText("ÄÖÜäöüßÄÖÜäöüß", 8)

	if truncated != "ÄÖÜäö..." {
		t.Errorf("got %q", truncated)
	}
}

func TestAC604_TerminalResults_AreNumberedInRankOrder(t *testing.T) {
	first := sampleClip()
	second := sampleClip()
	second.ID = "other"
	second.Title = "Second place"

	output := NewTerminalFormatter().FormatResults([]clip.Record{first, second}, func(id string) bool { return id == "other" })

	i1 := strings.Index(output, "1. Unbelievable checkmate")
	i2 := strings.Index(output, "2. Second place")
	if i1 < 0 || i2 < 0 || i1 > i2 {
		t.Errorf("user should see numbered clips in order, got:\n%s", output)
	}
	if strings.Count(output, thumbMarker) != 1 {
		t.Error("only the clip with a thumbnail should be marked")
	}
}

func TestAC605_TerminalResults_ShowsEmptyMessage(t *testing.T) {
	output := NewTerminalFormatter().FormatResults(nil, nil)

	if !strings.Contains(strings.ToLower(output), "no clips") {
		t.Error("user should see message indicating nothing was found")
	}
}

func TestAC606_Summaries_ReportPartialOutcomes(t *testing.T) {
	formatter := NewTerminalFormatter()

	if got := formatter.FormatSearchSummary(7, 10, 3); got != "7 of 10 sub-queries returned data (3 failed)\n" {
		t.Errorf("unexpected search summary %q", got)
	}
	if got := formatter.FormatSearchSummary(2, 2, 0); got != "2 of 2 sub-queries returned data\n" {
		t.Errorf("unexpected search summary %q", got)
	}
	if got := formatter.FormatThumbnailSummary(4, 5); got != "4 of 5 thumbnails loaded\n" {
		t.Errorf("unexpected thumbnail summary %q", got)
	}
}

func TestAC607_JSON_WritesClipArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, []clip.Record{sampleClip()}); err != nil {
		t.Fatal(err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output should be valid JSON: %v", err)
	}
	if len(decoded) != 1 || decoded[0]["id"] != "AwkwardHelplessSalamander" || decoded[0]["view_count"] != float64(12345) {
		t.Errorf("unexpected JSON: %s", buf.String())
	}
}

func TestAC607_JSON_EmptyResultsIsEmptyArray(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, nil); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("got %q, want []", buf.String())
	}
}
