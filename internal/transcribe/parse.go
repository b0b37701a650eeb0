package transcribe

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Line is one dialogue segment with timestamps in seconds.
type Line struct {
	Index        int     `json:"index"`
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
	Text         string  `json:"text"`
}

// whisperOutput mirrors the whisper.cpp -oj JSON shape. Offsets are
// milliseconds.
type whisperOutput struct {
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

// ParseWhisperJSON converts whisper.cpp JSON output into dialogue
// lines. Empty and whitespace-only segments are dropped; indexes are
// assigned after filtering so they stay contiguous.
func ParseWhisperJSON(data []byte) ([]Line, error) {
	var out whisperOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse whisper output: %w", err)
	}

	lines := make([]Line, 0, len(out.Transcription))
	for _, seg := range out.Transcription {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		lines = append(lines, Line{
			Index:        len(lines),
			StartSeconds: float64(seg.Offsets.From) / 1000,
			EndSeconds:   float64(seg.Offsets.To) / 1000,
			Text:         text,
		})
	}
	return lines, nil
}
