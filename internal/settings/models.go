package settings

import "time"

type Setting struct {
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Keys the API accepts. Anything else is rejected so typos don't
// silently become dead settings rows.
var knownKeys = map[string]bool{
	"player_path":        true,
	"whisper_path":       true,
	"whisper_model":      true,
	"frame_count":        true,
	"scan_cron":          true,
	"transcribe_enabled": true,
}

func IsKnownKey(key string) bool {
	return knownKeys[key]
}
