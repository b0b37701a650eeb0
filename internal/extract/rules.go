package extract

import (
	"regexp"
	"strconv"
)

// ──────────────────── Series rules ────────────────────

// seriesMatch is the raw output of one series rule: the text before
// the marker (candidate show name), the numbers, and the text after
// the marker (candidate episode title).
type seriesMatch struct {
	show    string
	season  int
	episode int
	rest    string
}

// seriesRule pairs a matcher with its extractor. Rules are evaluated
// in declaration order, first match wins; order is load-bearing:
// strict SxxEyy-class markers must be recognized before loose numeric
// ones, or a movie titled with a leading number gets misfiled as an
// episode.
type seriesRule struct {
	name    string
	rx      *regexp.Regexp
	extract func(m []string) seriesMatch
}

// filenameSeriesRules are tried against the delimiter-normalized
// filename. Volume/part markers are deliberately absent from this
// table: "Kill Bill Vol. 1" is a movie, not an episode.
var filenameSeriesRules = []seriesRule{
	{
		name: "sxxeyy",
		rx:   regexp.MustCompile(`(?i)^(.*?)[\s-]*\bS(\d{1,2})[\s-]*E(\d{1,3})(?:-E?\d{1,3})?[\s-]*(.*)$`),
		extract: func(m []string) seriesMatch {
			return seriesMatch{show: m[1], season: atoi(m[2]), episode: atoi(m[3]), rest: m[4]}
		},
	},
	{
		name: "nxm",
		rx:   regexp.MustCompile(`(?i)^(?:(.*?)[\s-]+)?(\d{1,2})x(\d{2,3})(?:[\s-]+(.*))?$`),
		extract: func(m []string) seriesMatch {
			return seriesMatch{show: m[1], season: atoi(m[2]), episode: atoi(m[3]), rest: m[4]}
		},
	},
	{
		// Bespoke VolX-EpisodeY form: the volume acts as the season.
		// Must precede the plain episode-keyword rule or the volume
		// number is lost into the show name.
		name: "vol-episode",
		rx:   regexp.MustCompile(`(?i)^(.*?)\bvol(?:ume)?[\s-]*(\d{1,2})[\s-]*-?[\s-]*episode[\s-]*(\d{1,3})[\s-]*(.*)$`),
		extract: func(m []string) seriesMatch {
			return seriesMatch{show: m[1], season: atoi(m[2]), episode: atoi(m[3]), rest: m[4]}
		},
	},
	{
		name: "episode-keyword",
		rx:   regexp.MustCompile(`(?i)^(.*?)\b(?:episode|ep)[\s-]*(\d{1,3})\b[\s-]*(.*)$`),
		extract: func(m []string) seriesMatch {
			return seriesMatch{show: m[1], episode: atoi(m[2]), rest: m[3]}
		},
	},
	{
		name: "bare-e-marker",
		rx:   regexp.MustCompile(`^(?:(.*?)[\s-]+)?E(\d{2,3})(?:[\s-]+(.*))?$`),
		extract: func(m []string) seriesMatch {
			return seriesMatch{show: m[1], episode: atoi(m[2]), rest: m[3]}
		},
	},
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// ──────────────────── Token-based garbage detection ────────────────────
// Inspired by Plex's VideoFiles.CleanName approach: the first junk
// token ends the title.

var garbageTokens = buildGarbageSet(
	// Video codecs
	[]string{"x264", "x265", "h264", "h265", "hevc", "avc", "divx", "xvid", "mpeg4", "vp9", "av1", "10bit", "8bit", "hi10p"},
	// Audio codecs & channels
	[]string{"aac", "ac3", "dts", "dts-hd", "truehd", "atmos", "flac", "mp3", "opus", "eac3", "ddp5", "dd5"},
	// Resolution
	[]string{"480p", "480i", "576p", "576i", "720p", "720i", "1080p", "1080i", "2160p", "4k", "uhd", "ultrahd"},
	// Source
	[]string{"bluray", "blu-ray", "bdrip", "brrip", "bdremux", "hdrip",
		"dvd", "dvdrip", "dvdscr", "webrip", "web-dl", "webdl",
		"hdtv", "pdtv", "tvrip", "cam", "screener", "telecine", "telesync"},
	// Release type / misc
	[]string{"remux", "proper", "repack", "rerip", "internal", "limited",
		"extended", "unrated", "remastered",
		"readnfo", "nfofix", "nfo",
		"multi", "multisubs", "dubbed", "subbed", "subs",
		"ws", "fs"},
	// Container formats appearing as tokens rather than extensions
	[]string{"mkv", "mp4", "avi"},
)

func buildGarbageSet(groups ...[]string) map[string]bool {
	set := make(map[string]bool)
	for _, group := range groups {
		for _, token := range group {
			set[token] = true
		}
	}
	return set
}
