package ffmpeg

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProbeResultHelpers(t *testing.T) {
	data := []byte(`{
		"format": {"duration": "5400.25"},
		"streams": [
			{"codec_type": "audio", "codec_name": "aac"},
			{"codec_type": "video", "codec_name": "hevc", "width": 1920, "height": 1036}
		]
	}`)
	var res ProbeResult
	require.NoError(t, json.Unmarshal(data, &res))

	assert.Equal(t, 5400, res.GetDurationSeconds())
	assert.Equal(t, "hevc", res.GetVideoCodec())
	// Letterboxed 1920x1036 still counts as 1080p through the width rule.
	assert.Equal(t, "1080p", res.GetResolution())
}

func TestGetResolutionTiers(t *testing.T) {
	tiers := []struct {
		w, h int
		want string
	}{
		{3840, 2160, "4K"},
		{1920, 1080, "1080p"},
		{1280, 720, "720p"},
		{720, 480, "480p"},
		{320, 240, "SD"},
	}
	for _, tc := range tiers {
		r := ProbeResult{Streams: []StreamInfo{{CodecType: "video", Width: tc.w, Height: tc.h}}}
		assert.Equal(t, tc.want, r.GetResolution(), "%dx%d", tc.w, tc.h)
	}
}

func TestProbeResultNoVideoStream(t *testing.T) {
	r := ProbeResult{Streams: []StreamInfo{{CodecType: "audio", CodecName: "flac"}}}
	assert.Equal(t, "", r.GetVideoCodec())
	assert.Equal(t, "", r.GetResolution())
}
