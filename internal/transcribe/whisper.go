package transcribe

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

const transcribeTimeout = 45 * time.Minute

// Transcriber shells out to a whisper.cpp-style binary. The audio
// track is first extracted to 16 kHz mono WAV with ffmpeg, which is
// what the model expects.
type Transcriber struct {
	whisperPath string
	modelPath   string
	ffmpegPath  string
}

func NewTranscriber(whisperPath, modelPath, ffmpegPath string) *Transcriber {
	return &Transcriber{whisperPath: whisperPath, modelPath: modelPath, ffmpegPath: ffmpegPath}
}

func (t *Transcriber) Enabled() bool {
	return t.whisperPath != ""
}

// Transcribe runs the full pipeline for one video file and returns
// the parsed dialogue lines.
func (t *Transcriber) Transcribe(ctx context.Context, videoPath string) ([]Line, error) {
	if t.whisperPath == "" {
		return nil, fmt.Errorf("transcription not configured")
	}

	workDir, err := os.MkdirTemp("", "reelkeep-transcribe-")
	if err != nil {
		return nil, fmt.Errorf("temp dir: %w", err)
	}
	defer os.RemoveAll(workDir)

	wavPath := filepath.Join(workDir, "audio.wav")
	if err := t.extractAudio(ctx, videoPath, wavPath); err != nil {
		return nil, err
	}

	jsonPath, err := t.runWhisper(ctx, wavPath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}
	return ParseWhisperJSON(data)
}

func (t *Transcriber) extractAudio(ctx context.Context, videoPath, wavPath string) error {
	ctx, cancel := context.WithTimeout(ctx, transcribeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, t.ffmpegPath,
		"-i", videoPath,
		"-vn",
		"-ar", "16000",
		"-ac", "1",
		"-c:a", "pcm_s16le",
		"-y",
		wavPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Printf("Transcribe: audio extraction failed: %s", string(output))
		return fmt.Errorf("extract audio: %w", err)
	}
	return nil
}

// runWhisper invokes the model binary; whisper.cpp writes
// <input>.json next to the input when given -oj.
func (t *Transcriber) runWhisper(ctx context.Context, wavPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, transcribeTimeout)
	defer cancel()

	args := []string{"-f", wavPath, "-oj"}
	if t.modelPath != "" {
		args = append(args, "-m", t.modelPath)
	}
	cmd := exec.CommandContext(ctx, t.whisperPath, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("whisper: timed out after %v", transcribeTimeout)
		}
		log.Printf("Transcribe: whisper failed: %s", string(output))
		return "", fmt.Errorf("whisper: %w", err)
	}
	return wavPath + ".json", nil
}
