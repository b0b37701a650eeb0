package ffmpeg

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"time"
)

const frameTimeout = 2 * time.Minute

// FrameExtractor shells out to ffmpeg to pull single JPEG frames at
// timeline positions.
type FrameExtractor struct {
	ffmpegPath string
	outputBase string
}

func NewFrameExtractor(ffmpegPath, outputBase string) *FrameExtractor {
	return &FrameExtractor{ffmpegPath: ffmpegPath, outputBase: outputBase}
}

// FrameTimestamps returns count evenly spaced positions across the
// duration, skipping the first and last 5% where credits and studio
// logos live.
func FrameTimestamps(durationSec, count int) []int {
	if durationSec <= 0 || count <= 0 {
		return nil
	}
	start := durationSec * 5 / 100
	end := durationSec - start
	if end <= start {
		start, end = 0, durationSec
	}
	span := end - start
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		ts := start + span*i/count
		out = append(out, ts)
	}
	return out
}

// ExtractFrame writes a single frame at seekTo seconds and returns the
// output path.
func (e *FrameExtractor) ExtractFrame(movieID, filePath string, index, seekTo int) (string, error) {
	outDir := filepath.Join(e.outputBase, movieID)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return "", err
	}
	outPath := filepath.Join(outDir, fmt.Sprintf("frame_%03d.jpg", index))

	ctx, cancel := context.WithTimeout(context.Background(), frameTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.ffmpegPath,
		"-ss", fmt.Sprintf("%d", seekTo),
		"-i", filePath,
		"-vframes", "1",
		"-vf", "scale=640:-1",
		"-q:v", "3",
		"-y",
		outPath,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			log.Printf("Frame extraction timed out after %v: %s", frameTimeout, filePath)
			return "", fmt.Errorf("frame: timed out")
		}
		log.Printf("Frame extraction failed: %s", string(output))
		return "", fmt.Errorf("frame: %w", err)
	}
	return outPath, nil
}

// RemoveFrames deletes the frame directory for a movie.
func (e *FrameExtractor) RemoveFrames(movieID string) error {
	return os.RemoveAll(filepath.Join(e.outputBase, movieID))
}
