package transcribe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleWhisperJSON = `{
	"transcription": [
		{"offsets": {"from": 0, "to": 2500}, "text": " I am serious."},
		{"offsets": {"from": 2500, "to": 4000}, "text": "   "},
		{"offsets": {"from": 4000, "to": 7250}, "text": " And don't call me Shirley."}
	]
}`

func TestParseWhisperJSON(t *testing.T) {
	lines, err := ParseWhisperJSON([]byte(sampleWhisperJSON))
	require.NoError(t, err)
	require.Len(t, lines, 2, "whitespace-only segments must be dropped")

	assert.Equal(t, 0, lines[0].Index)
	assert.Equal(t, "I am serious.", lines[0].Text)
	assert.Equal(t, 0.0, lines[0].StartSeconds)
	assert.Equal(t, 2.5, lines[0].EndSeconds)

	assert.Equal(t, 1, lines[1].Index, "indexes must stay contiguous after filtering")
	assert.Equal(t, "And don't call me Shirley.", lines[1].Text)
	assert.Equal(t, 4.0, lines[1].StartSeconds)
	assert.Equal(t, 7.25, lines[1].EndSeconds)
}

func TestParseWhisperJSONEmpty(t *testing.T) {
	lines, err := ParseWhisperJSON([]byte(`{"transcription": []}`))
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestParseWhisperJSONMalformed(t *testing.T) {
	_, err := ParseWhisperJSON([]byte(`not json`))
	assert.Error(t, err)
}

func TestTranscriberDisabled(t *testing.T) {
	tr := NewTranscriber("", "", "ffmpeg")
	assert.False(t, tr.Enabled())
}
