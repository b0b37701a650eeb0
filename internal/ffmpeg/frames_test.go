package ffmpeg

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameTimestamps(t *testing.T) {
	// Two hour film, 12 frames: all inside the 5%..95% window.
	ts := FrameTimestamps(7200, 12)
	assert.Len(t, ts, 12)
	assert.GreaterOrEqual(t, ts[0], 360)
	assert.Less(t, ts[len(ts)-1], 6840)
	for i := 1; i < len(ts); i++ {
		assert.Greater(t, ts[i], ts[i-1])
	}
}

func TestFrameTimestampsShortClip(t *testing.T) {
	// Clips too short for the margin fall back to the full range.
	ts := FrameTimestamps(10, 4)
	assert.Len(t, ts, 4)
	assert.GreaterOrEqual(t, ts[0], 0)
	assert.LessOrEqual(t, ts[len(ts)-1], 10)
}

func TestFrameTimestampsDegenerate(t *testing.T) {
	assert.Nil(t, FrameTimestamps(0, 12))
	assert.Nil(t, FrameTimestamps(-5, 12))
	assert.Nil(t, FrameTimestamps(3600, 0))
}

func TestRemoveFrames(t *testing.T) {
	base := t.TempDir()
	e := NewFrameExtractor("ffmpeg", base)

	movieDir := filepath.Join(base, "some-movie-id")
	require.NoError(t, os.MkdirAll(movieDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(movieDir, "frame_000.jpg"), []byte("jpg"), 0644))

	require.NoError(t, e.RemoveFrames("some-movie-id"))
	_, err := os.Stat(movieDir)
	assert.True(t, os.IsNotExist(err))

	// A movie that never had frames is not an error.
	assert.NoError(t, e.RemoveFrames("never-existed"))
}
