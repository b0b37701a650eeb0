package config

import (
	"database/sql"
	"log"
	"os"
	"strconv"

	"github.com/spf13/cast"
)

type Config struct {
	Port         int
	DatabaseURL  string
	RedisAddr    string
	JWTSecret    string
	JWTExpiresIn int // hours
	DataDir      string
	FFmpegPath   string
	FFprobePath  string
	PlayerPath   string
	WhisperPath  string
	WhisperModel string
	FrameCount   int
	ScanCron     string
	TranscribeOn bool
}

func Load() *Config {
	return &Config{
		Port:         envInt("PORT", 8080),
		DatabaseURL:  env("DATABASE_URL", "postgres://reelkeep:reelkeep@db:5432/reelkeep?sslmode=disable"),
		RedisAddr:    env("REDIS_ADDR", "redis:6379"),
		JWTSecret:    env("JWT_SECRET", "change-me-in-production"),
		JWTExpiresIn: envInt("JWT_EXPIRES_HOURS", 72),
		DataDir:      env("DATA_DIR", "/data"),
		FFmpegPath:   env("FFMPEG_PATH", "ffmpeg"),
		FFprobePath:  env("FFPROBE_PATH", "ffprobe"),
		PlayerPath:   env("PLAYER_PATH", "mpv"),
		WhisperPath:  env("WHISPER_PATH", ""),
		WhisperModel: env("WHISPER_MODEL", "base"),
		FrameCount:   envInt("FRAME_COUNT", 12),
		ScanCron:     env("SCAN_CRON", ""),
		TranscribeOn: env("TRANSCRIBE_ENABLED", "") == "true",
	}
}

// MergeFromDB overlays values from the settings table onto the config.
// Settings written through the API win over environment defaults.
func (c *Config) MergeFromDB(db *sql.DB) {
	rows, err := db.Query("SELECT key, value FROM settings")
	if err != nil {
		log.Printf("config: skipping DB merge: %v", err)
		return
	}
	defer rows.Close()

	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			continue
		}
		switch key {
		case "player_path":
			c.PlayerPath = value
		case "whisper_path":
			c.WhisperPath = value
		case "whisper_model":
			c.WhisperModel = value
		case "frame_count":
			if v := cast.ToInt(value); v > 0 {
				c.FrameCount = v
			}
		case "scan_cron":
			c.ScanCron = value
		case "transcribe_enabled":
			c.TranscribeOn = cast.ToBool(value)
		}
	}
}

func (c *Config) TranscribeEnabled() bool {
	return c.TranscribeOn && c.WhisperPath != ""
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
