// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"dice-reader/internal/dice"
	"dice-reader/internal/vision"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Template sources
const (
	SourceFile = "file"
	SourceS3   = "s3"
)

// Config holds every setting of the dice reader service. Fields not set in
// the environment keep the values from Default.
type Config struct {
	Env            string        `env:"APP_ENV"`
	Port           string        `env:"PORT" validate:"required,numeric"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" validate:"gt=0"`
	BodyLimit      int           `env:"BODY_LIMIT" validate:"gt=0"`

	LogLevel string `env:"LOG_LEVEL"`
	LogFile  string `env:"LOG_FILE"`

	TemplateSource string `env:"TEMPLATE_SOURCE" validate:"oneof=file s3"`
	TemplatePrefix string `env:"TEMPLATE_PREFIX"`
	TemplateCrop   string `env:"TEMPLATE_CROP"` // x0,y0,x1,y1 or "none" for the whole capture

	AWSRegion          string `env:"AWS_REGION" validate:"required_if=TemplateSource s3"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY"`
	AWSBucketName      string `env:"AWS_BUCKET_NAME" validate:"required_if=TemplateSource s3"`

	// An empty address disables the result cache.
	RedisAddress  string        `env:"REDIS_ADDRESS"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" validate:"gte=0"`
	CacheTTL      time.Duration `env:"CACHE_TTL" validate:"gte=0"`

	DiceCount     int     `env:"DICE_COUNT" validate:"gt=0"`
	MinArea       int     `env:"MIN_AREA" validate:"gte=0"`
	MaxArea       int     `env:"MAX_AREA" validate:"gtfield=MinArea"`
	MinAspect     float64 `env:"MIN_ASPECT" validate:"gte=0"`
	MaxAspect     float64 `env:"MAX_ASPECT" validate:"gtfield=MinAspect"`
	MaxCandidates int     `env:"MAX_CANDIDATES" validate:"gte=0"`

	CLAHEClipLimit float64 `env:"CLAHE_CLIP_LIMIT" validate:"gt=0"`
	CLAHETileSize  int     `env:"CLAHE_TILE_SIZE" validate:"gt=0"`
	ViewportSigma  float64 `env:"VIEWPORT_SIGMA" validate:"gt=0"`
	RegionSigma    float64 `env:"REGION_SIGMA" validate:"gt=0"`
	CannyLow       float32 `env:"CANNY_LOW" validate:"gte=0"`
	CannyHigh      float32 `env:"CANNY_HIGH" validate:"gtfield=CannyLow"`
	Connectivity   int     `env:"CONNECTIVITY" validate:"oneof=4 8"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	dp := dice.DefaultParams()
	vp := vision.DefaultParams()
	return Config{
		Env:            "development",
		Port:           "5000",
		RequestTimeout: 30 * time.Second,
		BodyLimit:      20 * 1024 * 1024,

		LogLevel: "info",

		TemplateSource: SourceFile,
		TemplatePrefix: "templates",
		TemplateCrop:   FormatRect(dp.TemplateCrop),

		CacheTTL: time.Hour,

		DiceCount:     dp.DiceCount,
		MinArea:       dp.MinArea,
		MaxArea:       dp.MaxArea,
		MinAspect:     dp.MinAspect,
		MaxAspect:     dp.MaxAspect,
		MaxCandidates: dp.MaxCandidates,

		CLAHEClipLimit: vp.CLAHEClipLimit,
		CLAHETileSize:  vp.CLAHETileSize,
		ViewportSigma:  vp.ViewportSigma,
		RegionSigma:    vp.RegionSigma,
		CannyLow:       vp.CannyLow,
		CannyHigh:      vp.CannyHigh,
		Connectivity:   vp.Connectivity,
	}
}

// Load reads an optional .env file, then overrides Default with the
// process environment and validates the result.
func Load(envFiles ...string) (Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load env file: %w", err)
	}

	cfg := Default()
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and cross-field constraints.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := ParseRect(c.TemplateCrop); err != nil {
		return fmt.Errorf("invalid config: TEMPLATE_CROP: %w", err)
	}
	return nil
}

// DiceParams returns the selection parameters described by c.
func (c Config) DiceParams() dice.Params {
	p := dice.DefaultParams().
		WithAreaRange(c.MinArea, c.MaxArea).
		WithAspectRange(c.MinAspect, c.MaxAspect).
		WithMaxCandidates(c.MaxCandidates)
	p.DiceCount = c.DiceCount

	crop, _ := ParseRect(c.TemplateCrop)
	return p.WithTemplateCrop(crop)
}

// VisionParams returns the image-processing parameters described by c.
func (c Config) VisionParams() vision.Params {
	p := vision.DefaultParams().
		WithCLAHE(c.CLAHEClipLimit, c.CLAHETileSize).
		WithSigmas(c.ViewportSigma, c.RegionSigma).
		WithCanny(c.CannyLow, c.CannyHigh)
	p.Connectivity = c.Connectivity
	return p
}

// ParseRect parses "x0,y0,x1,y1" into a rectangle. An empty string or
// "none" yields the empty rectangle.
func ParseRect(s string) (image.Rectangle, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return image.Rectangle{}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return image.Rectangle{}, fmt.Errorf("expected x0,y0,x1,y1, got %q", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return image.Rectangle{}, fmt.Errorf("bad coordinate %q: %w", p, err)
		}
		v[i] = n
	}

	r := image.Rect(v[0], v[1], v[2], v[3])
	if r.Empty() {
		return image.Rectangle{}, fmt.Errorf("empty rectangle %q", s)
	}
	return r, nil
}

// FormatRect is the inverse of ParseRect.
func FormatRect(r image.Rectangle) string {
	if r.Empty() {
		return "none"
	}
	return fmt.Sprintf("%d,%d,%d,%d", r.Min.X, r.Min.Y, r.Max.X, r.Max.Y)
}
