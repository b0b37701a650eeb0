package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSceneStyleEpisode(t *testing.T) {
	res := Extract("Breaking.Bad.S01E02.720p.mkv", "", "")
	assert.Equal(t, "Breaking Bad", res.DisplayName)
	assert.True(t, res.IsSeriesEpisode)
	require.NotNil(t, res.ShowName)
	assert.Equal(t, "Breaking Bad", *res.ShowName)
	require.NotNil(t, res.Season)
	assert.Equal(t, 1, *res.Season)
	require.NotNil(t, res.Episode)
	assert.Equal(t, 2, *res.Episode)
	assert.Nil(t, res.EpisodeTitle, "release noise must not become an episode title")
}

func TestEpisodeWithTitle(t *testing.T) {
	res := Extract("Breaking.Bad.S02E05.Breakage.1080p.WEB-DL.mkv", "", "")
	require.NotNil(t, res.EpisodeTitle)
	assert.Equal(t, "Breakage", *res.EpisodeTitle)
	require.NotNil(t, res.Season)
	assert.Equal(t, 2, *res.Season)
}

func TestMultiEpisodeKeepsFirstNumber(t *testing.T) {
	res := Extract("Show.S01E01-E03.mkv", "", "")
	assert.True(t, res.IsSeriesEpisode)
	require.NotNil(t, res.Episode)
	assert.Equal(t, 1, *res.Episode)
}

func TestNxMEpisode(t *testing.T) {
	res := Extract("Firefly.1x05.Safe.mkv", "", "")
	assert.True(t, res.IsSeriesEpisode)
	require.NotNil(t, res.Season)
	assert.Equal(t, 1, *res.Season)
	require.NotNil(t, res.Episode)
	assert.Equal(t, 5, *res.Episode)
	require.NotNil(t, res.ShowName)
	assert.Equal(t, "Firefly", *res.ShowName)
}

func TestMovieWithYear(t *testing.T) {
	res := Extract("Koyaanisqatsi (1982).mkv", "", "")
	assert.Equal(t, "Koyaanisqatsi", res.DisplayName)
	assert.False(t, res.IsSeriesEpisode)
	require.NotNil(t, res.Year)
	assert.Equal(t, 1982, *res.Year)
}

func TestVolumeMarkerIsNotAnEpisode(t *testing.T) {
	res := Extract("Kill Bill Vol. 1 (2003).mkv", "", "")
	assert.False(t, res.IsSeriesEpisode, "volume marker must not trigger episode detection")
	require.NotNil(t, res.Year)
	assert.Equal(t, 2003, *res.Year)
	assert.Equal(t, "Kill Bill Vol 1", res.DisplayName)
}

func TestVolEpisodeBespokeForm(t *testing.T) {
	res := Extract("Slayers Vol2-Episode 5.mkv", "", "")
	assert.True(t, res.IsSeriesEpisode)
	require.NotNil(t, res.Season)
	assert.Equal(t, 2, *res.Season)
	require.NotNil(t, res.Episode)
	assert.Equal(t, 5, *res.Episode)
	require.NotNil(t, res.ShowName)
	assert.Equal(t, "Slayers", *res.ShowName)
}

// Pinned behavior for the ambiguous leading-number case: with no
// season marker anywhere in the folder hierarchy, a leading NN- token
// is NOT an episode number; it is stripped from the display name.
func TestLeadingNumberWithoutSeasonFolder(t *testing.T) {
	res := Extract("02-A Sound of Dolphins.mp4", "Undersea Odyssey", "media")
	assert.False(t, res.IsSeriesEpisode)
	assert.Equal(t, "A Sound of Dolphins", res.DisplayName)
	assert.Nil(t, res.Season)
	assert.Nil(t, res.Episode)
}

// With a season folder the same filename becomes an episode, season
// from the folder, show from the folder above it.
func TestLeadingNumberWithSeasonFolder(t *testing.T) {
	res := Extract("02-A Sound of Dolphins.mp4", "Season 2", "Undersea Odyssey")
	assert.True(t, res.IsSeriesEpisode)
	require.NotNil(t, res.Season)
	assert.Equal(t, 2, *res.Season)
	require.NotNil(t, res.Episode)
	assert.Equal(t, 2, *res.Episode)
	require.NotNil(t, res.ShowName)
	assert.Equal(t, "Undersea Odyssey", *res.ShowName)
	require.NotNil(t, res.EpisodeTitle)
	assert.Equal(t, "A Sound of Dolphins", *res.EpisodeTitle)
}

func TestSeasonFolderFillsMissingSeason(t *testing.T) {
	res := Extract("Episode 7.mkv", "Season 3", "The Long Show")
	assert.True(t, res.IsSeriesEpisode)
	require.NotNil(t, res.Season)
	assert.Equal(t, 3, *res.Season)
	require.NotNil(t, res.Episode)
	assert.Equal(t, 7, *res.Episode)
	require.NotNil(t, res.ShowName)
	assert.Equal(t, "The Long Show", *res.ShowName)
}

func TestResolutionTokenIsNotAYear(t *testing.T) {
	res := Extract("Deep Field 1080 1999.mkv", "", "")
	require.NotNil(t, res.Year)
	assert.Equal(t, 1999, *res.Year, "must pick the plausible year, not the resolution-like token")
	assert.Equal(t, "Deep Field 1080", res.DisplayName)
}

func TestYearOnlyTitleKeepsYearAsName(t *testing.T) {
	res := Extract("2012.mkv", "", "")
	assert.Equal(t, "2012", res.DisplayName)
	assert.Nil(t, res.Year)
}

func TestAnimeContinuousNumberingStaysStandalone(t *testing.T) {
	res := Extract("One Piece 103.mkv", "One Piece", "anime")
	assert.False(t, res.IsSeriesEpisode, "bare three-digit numbering is not implicitly season 1")
	assert.Equal(t, "One Piece 103", res.DisplayName)
}

func TestUnparseableInputDegradesCleanly(t *testing.T) {
	res := Extract("####.mkv", "", "")
	assert.NotEmpty(t, res.DisplayName)
	assert.False(t, res.IsSeriesEpisode)
	assert.Nil(t, res.Year)
}

func TestIdempotence(t *testing.T) {
	inputs := []string{
		"Breaking.Bad.S01E02.720p.mkv",
		"Koyaanisqatsi (1982).mkv",
		"Kill Bill Vol. 1 (2003).mkv",
		"02-A Sound of Dolphins.mp4",
		"The.Matrix.1999.1080p.BluRay.x264-GROUP.mkv",
	}
	for _, in := range inputs {
		first := Extract(in, "", "")
		second := Extract(first.DisplayName, "", "")
		assert.Equal(t, first.DisplayName, second.DisplayName, "re-extracting %q display name must be a no-op", in)
	}
}

func TestNoiseStripping(t *testing.T) {
	res := Extract("The.Matrix.1999.1080p.BluRay.x264-GROUP.mkv", "", "")
	assert.Equal(t, "The Matrix", res.DisplayName)
	require.NotNil(t, res.Year)
	assert.Equal(t, 1999, *res.Year)
}

func TestBracketedYear(t *testing.T) {
	res := Extract("Stalker [1979].mkv", "", "")
	require.NotNil(t, res.Year)
	assert.Equal(t, 1979, *res.Year)
	assert.Equal(t, "Stalker", res.DisplayName)
}

func TestReleaseGroupBracketsStripped(t *testing.T) {
	res := Extract("[SubGroup] Show Title E04 [720p].mkv", "", "")
	assert.True(t, res.IsSeriesEpisode)
	require.NotNil(t, res.Episode)
	assert.Equal(t, 4, *res.Episode)
}

func TestShowNameFromGrandparentFolder(t *testing.T) {
	res := Extract("S01E02.mkv", "Season 1", "Breaking Bad")
	require.NotNil(t, res.ShowName)
	assert.Equal(t, "Breaking Bad", *res.ShowName)
	assert.Equal(t, "Breaking Bad", res.DisplayName)
}

func TestShowYearInPrefix(t *testing.T) {
	res := Extract("Doctor Who (2005) S01E01.mkv", "", "")
	require.NotNil(t, res.ShowName)
	assert.Equal(t, "Doctor Who", *res.ShowName)
	require.NotNil(t, res.Year)
	assert.Equal(t, 2005, *res.Year)
}

func TestFromPathUsesFolders(t *testing.T) {
	res := FromPath("/media/tv/Undersea Odyssey/Season 2/02-A Sound of Dolphins.mp4")
	assert.True(t, res.IsSeriesEpisode)
	require.NotNil(t, res.ShowName)
	assert.Equal(t, "Undersea Odyssey", *res.ShowName)
}

// Totality smoke test: nothing here may panic, everything returns a
// usable display name.
func TestTotality(t *testing.T) {
	inputs := []string{
		"", ".", "..", ".mkv", "   ", "-", "()", "[]",
		"a", "S01E01", "1x01", "E01", "Episode",
		"....mkv", "S99E999.mkv", "0-.mp4",
	}
	for _, in := range inputs {
		assert.NotPanics(t, func() { Extract(in, "x", "y") }, "input %q", in)
	}
}
