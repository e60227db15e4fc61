package config

import (
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"dice-reader/internal/dice"
	"dice-reader/internal/vision"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, SourceFile, cfg.TemplateSource)
	assert.Equal(t, "81,81,430,430", cfg.TemplateCrop)
	assert.Equal(t, dice.DefaultParams(), cfg.DiceParams())
	assert.Equal(t, vision.DefaultParams(), cfg.VisionParams())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("MIN_AREA", "150")
	t.Setenv("MAX_AREA", "900")
	t.Setenv("MAX_CANDIDATES", "20")
	t.Setenv("CANNY_HIGH", "80")
	t.Setenv("REQUEST_TIMEOUT", "5s")
	t.Setenv("TEMPLATE_CROP", "none")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)

	dp := cfg.DiceParams()
	assert.Equal(t, 150, dp.MinArea)
	assert.Equal(t, 900, dp.MaxArea)
	assert.Equal(t, 20, dp.MaxCandidates)
	assert.True(t, dp.TemplateCrop.Empty())

	assert.Equal(t, float32(80), cfg.VisionParams().CannyHigh)
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("DICE_COUNT=6\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("DICE_COUNT") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 6, cfg.DiceParams().DiceCount)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"area range inverted", "MAX_AREA", "100"},
		{"unknown source", "TEMPLATE_SOURCE", "ftp"},
		{"bad crop", "TEMPLATE_CROP", "1,2,3"},
		{"bad connectivity", "CONNECTIVITY", "6"},
		{"not a number", "DICE_COUNT", "five"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}
}

func TestS3SourceRequiresBucket(t *testing.T) {
	cfg := Default()
	cfg.TemplateSource = SourceS3
	assert.Error(t, cfg.Validate())

	cfg.AWSRegion = "eu-west-1"
	cfg.AWSBucketName = "dice-templates"
	assert.NoError(t, cfg.Validate())
}

func TestParseRect(t *testing.T) {
	r, err := ParseRect(" 81, 81,430,430 ")
	require.NoError(t, err)
	assert.Equal(t, image.Rect(81, 81, 430, 430), r)
	assert.Equal(t, "81,81,430,430", FormatRect(r))

	r, err = ParseRect("")
	require.NoError(t, err)
	assert.True(t, r.Empty())
	r, err = ParseRect("NONE")
	require.NoError(t, err)
	assert.Equal(t, "none", FormatRect(r))

	_, err = ParseRect("10,10,10,20")
	assert.Error(t, err)
	_, err = ParseRect("a,b,c,d")
	assert.Error(t, err)
}
