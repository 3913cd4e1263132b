package logger

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestGetLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("SCRAPER_ENVIRONMENT", "production")
	assert.Equal(t, zerolog.InfoLevel, getLogLevel())

	t.Setenv("SCRAPER_ENVIRONMENT", "development")
	assert.Equal(t, zerolog.DebugLevel, getLogLevel())

	t.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, zerolog.WarnLevel, getLogLevel())

	t.Setenv("LOG_LEVEL", "nonsense")
	assert.Equal(t, zerolog.InfoLevel, getLogLevel())
}

func TestComponentLoggers(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	var buf bytes.Buffer
	InitWithWriter(&buf)
	defer InitWithWriter(os.Stderr)

	ForSite("commercialsearch").Info().Msg("fetched listing")
	assert.Contains(t, buf.String(), "fetched listing")
	assert.Contains(t, buf.String(), "commercialsearch")

	buf.Reset()
	LogError("export", errors.New("disk full"), "write %s", "out.csv")
	assert.Contains(t, buf.String(), "disk full")
	assert.Contains(t, buf.String(), "write out.csv")
}
