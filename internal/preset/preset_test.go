package preset

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dagingo/clip-finder/internal/clip"
)

func TestAC700_Store_SaveThenGet(t *testing.T) {
	store := NewStore(t.TempDir())
	p := Preset{
		TimeRangeDays:  3,
		MaxClips:       20,
		Categories:     []string{"Chess"},
		Channels:       []string{"gothamchess"},
		Languages:      []string{"en"},
		DownloadFolder: "chess",
	}

	require.NoError(t, store.Save("chess", p))
	got, err := store.Get("chess")

	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestAC701_Store_MissingFileHasNoPresets(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "nested"))

	names, err := store.Names()

	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestAC702_Store_UnknownPresetIsNotFound(t *testing.T) {
	_, err := NewStore(t.TempDir()).Get("nope")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAC703_Store_NamesAreSorted(t *testing.T) {
	store := NewStore(t.TempDir())
	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, store.Save(name, Default()))
	}

	names, err := store.Names()

	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, names)
}

func TestAC704_Store_MissingKeysGetDefaults(t *testing.T) {
	dir := t.TempDir()
	doc := `{"old": {"categories": ["Just Chatting"]}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(doc), 0o600))

	got, err := NewStore(dir).Get("old")

	require.NoError(t, err)
	assert.Equal(t, DefaultTimeRangeDays, got.TimeRangeDays)
	assert.Equal(t, DefaultMaxClips, got.MaxClips)
	assert.Equal(t, DefaultDownloadFolder, got.DownloadFolder)
	assert.Equal(t, []string{"Just Chatting"}, got.Categories)
}

func TestAC705_Store_CorruptFileIsReported(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{not json"), 0o600))

	_, err := NewStore(dir).Load()

	assert.Error(t, err)
}

func TestAC706_Store_RejectsInvalidPreset(t *testing.T) {
	store := NewStore(t.TempDir())

	err := store.Save("bad", Preset{TimeRangeDays: 0, MaxClips: 10})

	assert.ErrorIs(t, err, clip.ErrInvalidFilter)
	_, statErr := os.Stat(store.Path())
	assert.True(t, os.IsNotExist(statErr), "nothing is written for an invalid preset")
}

func TestAC707_Preset_FilterUsesDaysAndCaps(t *testing.T) {
	p := Preset{TimeRangeDays: 2, MaxClips: 15, Categories: []string{" Chess ", "chess"}, Languages: []string{"EN"}}

	f, err := p.Filter()

	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, f.TimeWindow)
	assert.Equal(t, 15, f.MaxResults)
	assert.Equal(t, []string{"Chess"}, f.Categories)
	assert.Equal(t, []string{"en"}, f.Languages)
}

func TestAC709_Preset_FilterRejectsOutOfRangeDays(t *testing.T) {
	for _, days := range []int{0, -3, MaxTimeRangeDays + 1, 200000} {
		_, err := Preset{TimeRangeDays: days, MaxClips: 10}.Filter()
		assert.ErrorIs(t, err, clip.ErrInvalidFilter, "days=%d", days)
	}

	f, err := Preset{TimeRangeDays: MaxTimeRangeDays, MaxClips: 10}.Filter()
	require.NoError(t, err)
	assert.Equal(t, time.Duration(MaxTimeRangeDays)*24*time.Hour, f.TimeWindow)
	assert.Positive(t, f.TimeWindow)
}

func TestAC708_Preset_DownloadDirResolution(t *testing.T) {
	base := filepath.Join(string(filepath.Separator), "home", "me", ".config", "clipfinder")
	abs := filepath.Join(string(filepath.Separator), "tmp", "clips")

	assert.Equal(t, filepath.Join(base, "clips_downloaded"), Preset{}.DownloadDir(base))
	assert.Equal(t, filepath.Join(base, "chess"), Preset{DownloadFolder: "chess"}.DownloadDir(base))
	assert.Equal(t, abs, Preset{DownloadFolder: abs}.DownloadDir(base))
}
