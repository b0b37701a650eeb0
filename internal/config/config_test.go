package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "ffmpeg", cfg.FFmpegPath)
	assert.Equal(t, "mpv", cfg.PlayerPath)
	assert.Equal(t, 12, cfg.FrameCount)
	assert.False(t, cfg.TranscribeOn)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("PLAYER_PATH", "vlc")
	t.Setenv("FRAME_COUNT", "24")
	t.Setenv("TRANSCRIBE_ENABLED", "true")
	t.Setenv("WHISPER_PATH", "/usr/local/bin/whisper")

	cfg := Load()
	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "vlc", cfg.PlayerPath)
	assert.Equal(t, 24, cfg.FrameCount)
	assert.True(t, cfg.TranscribeEnabled())
}

func TestTranscribeNeedsBinary(t *testing.T) {
	cfg := &Config{TranscribeOn: true, WhisperPath: ""}
	assert.False(t, cfg.TranscribeEnabled())

	cfg.WhisperPath = "/opt/whisper"
	assert.True(t, cfg.TranscribeEnabled())
}

func TestEnvIntIgnoresGarbage(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	cfg := Load()
	assert.Equal(t, 8080, cfg.Port)
}
