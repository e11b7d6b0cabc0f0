package style

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, []string{"OFF", "cDBS", "KaDBS", "iDBS"}, cfg.ConditionOrder)

	cond, ok := cfg.Condition("olDBS")
	assert.True(t, ok)
	assert.Equal(t, "cDBS", cond)

	_, ok = cfg.Condition("screening")
	assert.False(t, ok)

	assert.Equal(t, "P02", cfg.LegendLabel("RCS02"))
	assert.Equal(t, "RCS99", cfg.PatientLabel("RCS99"))
}

func TestDefaultIsNotShared(t *testing.T) {
	a := Default()
	a.PatientColors["RCS02"] = "#000000"

	assert.Equal(t, "#c62828", Default().PatientColors["RCS02"])
}

func TestParseJSONConfigFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "style.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"condition_order": ["OFF", "KaDBS"],
		"patient_colors": {"RCS12": "#ABCDEF"},
		"fallback_color": "#111111"
	}`), 0644))

	cfg, err := ParseJSONConfigFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ConfigPath)
	assert.Equal(t, []string{"OFF", "KaDBS"}, cfg.ConditionOrder)
	assert.Equal(t, "#abcdef", cfg.PatientColors["RCS12"])
	assert.Equal(t, "#c62828", cfg.PatientColors["RCS02"], "defaults survive")
	assert.Equal(t, color.NRGBA{R: 0x11, G: 0x11, B: 0x11, A: 255}, cfg.PatientColor("RCS77"))
}

func TestParseJSONConfigFromPathErrors(t *testing.T) {
	_, err := ParseJSONConfigFromPath(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"event_map": `), 0644))
	_, err = ParseJSONConfigFromPath(path)
	assert.Error(t, err)
}

func TestParseHex(t *testing.T) {
	for _, v := range []struct {
		Code  string
		Color color.NRGBA
		Err   bool
	}{
		{"#E69F00", color.NRGBA{R: 0xe6, G: 0x9f, B: 0x00, A: 255}, false},
		{"56b4e9", color.NRGBA{R: 0x56, G: 0xb4, B: 0xe9, A: 255}, false},
		{"#fff", color.NRGBA{R: 255, G: 255, B: 255, A: 255}, false},
		{"#12345", color.NRGBA{}, true},
		{"#zz0000", color.NRGBA{}, true},
	} {
		got, err := ParseHex(v.Code)
		if v.Err {
			assert.Error(t, err, v.Code)
			continue
		}
		require.NoError(t, err, v.Code)
		assert.Equal(t, v.Color, got, v.Code)
	}
}

func TestWithAlpha(t *testing.T) {
	c := WithAlpha(color.NRGBA{R: 10, G: 20, B: 30, A: 255}, 0.8)
	assert.Equal(t, color.NRGBA{R: 10, G: 20, B: 30, A: 204}, c)
}

func TestSortByLabel(t *testing.T) {
	cfg := Default()
	got := cfg.SortByLabel([]string{"RCS11", "RCS02", "RCSX", "RCS06", "RCS03"})
	assert.Equal(t, []string{"RCS02", "RCS03", "RCS06", "RCS11", "RCSX"}, got)
}

func TestFinalize(t *testing.T) {
	p := NewPlot()
	Finalize(p, nil)

	assert.Equal(t, AxisColor, p.Y.Color)
	assert.Equal(t, color.Transparent, p.BackgroundColor)
}
