package logging

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileLogger(t *testing.T) (*ChanneledLogger, string) {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultLoggerConfig()
	cfg.OutputToConsole = false
	cfg.OutputToFile = true
	cfg.LogDirectory = dir
	cfg.DefaultLevel = slog.LevelDebug
	logger, err := NewChanneledLogger(cfg)
	require.NoError(t, err)
	return logger, dir
}

func readLog(t *testing.T, dir string, channel Channel) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, string(channel)+".log"))
	require.NoError(t, err)
	return string(data)
}

func TestChannelsWriteToSeparateFiles(t *testing.T) {
	logger, dir := newFileLogger(t)

	logger.Banner().Info("render started")
	logger.Asset().Info("logo resolved")

	assert.Contains(t, readLog(t, dir, ChannelBanner), "render started")
	assert.Contains(t, readLog(t, dir, ChannelAsset), "logo resolved")
	assert.NotContains(t, readLog(t, dir, ChannelBanner), "logo resolved")
}

func TestLogCacheOperation(t *testing.T) {
	logger, dir := newFileLogger(t)

	logger.LogCacheOperation("query:get", "th:astro:GetTrailblazerRank:ab12", true, 3*time.Millisecond)
	logger.LogCacheOperation("query:get", "th:astro:GetMvpStatus:cd34", false, 40*time.Millisecond)

	out := readLog(t, dir, ChannelCache)
	assert.Contains(t, out, "Cache hit")
	assert.Contains(t, out, "Cache miss")
	assert.Contains(t, out, "th:astro:GetTrailblazerRank:ab12")
}

func TestLogError(t *testing.T) {
	logger, dir := newFileLogger(t)

	logger.LogError(ChannelQuery, "query:batch", errors.New("endpoint unreachable"))

	out := readLog(t, dir, ChannelQuery)
	assert.Contains(t, out, "Operation failed")
	assert.Contains(t, out, "endpoint unreachable")
}

func TestGetChannelFallsBackToSystem(t *testing.T) {
	logger, dir := newFileLogger(t)

	logger.GetChannel(Channel("nonsense")).Info("routed somewhere")

	assert.Contains(t, readLog(t, dir, ChannelSystem), "routed somewhere")
}

func TestWithUserAttachesUsername(t *testing.T) {
	logger, dir := newFileLogger(t)

	logger.WithUser(ChannelBanner, "astro").Info("banner generated")

	out := readLog(t, dir, ChannelBanner)
	assert.Contains(t, out, "banner generated")
	assert.Contains(t, out, "astro")
}
