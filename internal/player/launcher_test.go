package player

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildArgsNoSubtitle(t *testing.T) {
	l := NewLauncher("mpv")
	assert.Equal(t, []string{"/media/a.mkv"}, l.BuildArgs("/media/a.mkv", ""))
}

func TestBuildArgsMpvSubtitle(t *testing.T) {
	l := NewLauncher("/usr/bin/mpv")
	args := l.BuildArgs("/media/a.mkv", "/media/a.srt")
	assert.Equal(t, []string{"/media/a.mkv", "--sub-file=/media/a.srt"}, args)
}

func TestBuildArgsVlcSubtitle(t *testing.T) {
	l := NewLauncher("vlc")
	args := l.BuildArgs("/media/a.mkv", "/media/a.srt")
	assert.Equal(t, []string{"/media/a.mkv", "--sub-file", "/media/a.srt"}, args)
}

func TestLaunchWithoutPlayerConfigured(t *testing.T) {
	l := NewLauncher("")
	assert.Error(t, l.Launch("/media/a.mkv", ""))
}

func TestDetectMimeType(t *testing.T) {
	assert.Equal(t, "video/mp4", detectMimeType("/x/a.MP4"))
	assert.Equal(t, "video/x-matroska", detectMimeType("/x/a.mkv"))
	assert.Equal(t, "application/octet-stream", detectMimeType("/x/a.xyz"))
}
