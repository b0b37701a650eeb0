// Package extract turns a video file path into a structured metadata
// guess: display name, release year, and season/episode markers for
// series content. Extraction is pure and total: unparseable input
// degrades to a lightly cleaned filename with all optional fields
// absent, never an error.
package extract

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Result holds all metadata extracted from a media file path.
type Result struct {
	DisplayName     string  `json:"display_name"`
	Year            *int    `json:"year,omitempty"`
	IsSeriesEpisode bool    `json:"is_series_episode"`
	ShowName        *string `json:"show_name,omitempty"`
	Season          *int    `json:"season,omitempty"`
	Episode         *int    `json:"episode,omitempty"`
	EpisodeTitle    *string `json:"episode_title,omitempty"`
}

// FromPath extracts metadata from a full file path, consulting the
// parent and grandparent directory names for series markers.
func FromPath(path string) Result {
	dir := filepath.Dir(path)
	parent := filepath.Base(dir)
	grandparent := filepath.Base(filepath.Dir(dir))
	if parent == "." || parent == string(filepath.Separator) {
		parent = ""
	}
	if grandparent == "." || grandparent == string(filepath.Separator) {
		grandparent = ""
	}
	return Extract(filepath.Base(path), parent, grandparent)
}

// Extract extracts metadata from a filename plus its parent and
// grandparent folder names. Rules are evaluated strictly in order;
// the first matching series rule wins and later ones are not tried.
func Extract(filename, parent, grandparent string) Result {
	name := normalizeDelims(stripExtension(filename))

	// 1. Series patterns in the filename itself.
	for _, rule := range filenameSeriesRules {
		m := rule.rx.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		return buildSeriesResult(rule.extract(m), parent, grandparent, name)
	}

	// 2. Season marker on the parent or grandparent folder. A leading
	// short numeric token only counts as an episode number here, with
	// the folder providing the season, and never when the token is a
	// plausible year.
	if season, seasonFolderIsParent := folderSeason(parent, grandparent); season > 0 {
		if m := leadingNumberRx.FindStringSubmatch(name); m != nil {
			num, _ := strconv.Atoi(m[1])
			if !plausibleYear(num) {
				show := parent
				if seasonFolderIsParent {
					show = grandparent
				}
				return buildSeriesResult(seriesMatch{
					season:  season,
					episode: num,
					rest:    name[len(m[0]):],
					show:    show,
				}, parent, grandparent, name)
			}
		}
	}

	// 3. Standalone title: pull a plausible year out, keep the rest.
	cleaned := cleanTitle(name)
	cleaned = stripLeadingTrackNumber(cleaned)
	title, year := extractYear(cleaned)
	if title == "" {
		title = cleaned
	}
	if title == "" {
		title = strings.TrimSpace(name)
	}
	res := Result{DisplayName: title}
	if year > 0 {
		res.Year = &year
	}
	return res
}

// buildSeriesResult assembles a Result from a series match, filling
// season and show name from the folder hierarchy when the filename
// did not provide them.
func buildSeriesResult(m seriesMatch, parent, grandparent, name string) Result {
	res := Result{IsSeriesEpisode: true}

	if m.season == 0 {
		if season, _ := folderSeason(parent, grandparent); season > 0 {
			m.season = season
		}
	}
	if m.season > 0 {
		res.Season = &m.season
	}
	if m.episode > 0 {
		res.Episode = &m.episode
	}

	show := cleanTitle(m.show)
	show, showYear := extractYear(show)
	if show == "" {
		// Nearest ancestor folder that is not itself a season folder.
		for _, folder := range []string{parent, grandparent} {
			if folder == "" || isSeasonFolder(folder) {
				continue
			}
			show = cleanTitle(normalizeDelims(folder))
			show, showYear = extractYear(show)
			break
		}
	}
	if show != "" {
		res.ShowName = &show
		res.DisplayName = show
	} else if title := cleanTitle(m.rest); title != "" {
		res.DisplayName = title
	} else {
		res.DisplayName = cleanTitle(name)
	}
	if showYear > 0 {
		res.Year = &showYear
	}

	if title := cleanTitle(m.rest); title != "" {
		res.EpisodeTitle = &title
	}
	return res
}

// folderSeason returns the season number from a Season-style folder
// marker on the parent or grandparent, and whether the parent was the
// folder that carried it.
func folderSeason(parent, grandparent string) (int, bool) {
	if n := seasonFolderNumber(parent); n > 0 {
		return n, true
	}
	if n := seasonFolderNumber(grandparent); n > 0 {
		return n, false
	}
	return 0, false
}

func seasonFolderNumber(folder string) int {
	m := seasonFolderRx.FindStringSubmatch(strings.TrimSpace(folder))
	if m == nil {
		return 0
	}
	for _, g := range m[1:] {
		if g != "" {
			n, _ := strconv.Atoi(g)
			return n
		}
	}
	return 0
}

func isSeasonFolder(folder string) bool {
	return seasonFolderNumber(folder) > 0
}

// plausibleYear bounds year candidates to the era of motion pictures.
func plausibleYear(n int) bool {
	return n >= 1888 && n <= time.Now().Year()+1
}

// stripExtension removes a trailing media file extension. Anything
// that does not look like a short alphanumeric extension is left
// alone, so titles containing dots survive.
func stripExtension(filename string) string {
	ext := filepath.Ext(filename)
	if extensionRx.MatchString(ext) {
		return strings.TrimSuffix(filename, ext)
	}
	return filename
}

// normalizeDelims converts dot/underscore scene-style separators into
// spaces and collapses runs.
func normalizeDelims(s string) string {
	s = strings.NewReplacer(".", " ", "_", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// cleanTitle strips noise from a delimiter-normalized name: edition
// braces, release-group brackets (year brackets survive), and
// everything from the first garbage token onward. Cleaning an
// already-clean title is a no-op.
func cleanTitle(s string) string {
	s = normalizeDelims(s)
	s = editionBraceRx.ReplaceAllString(s, " ")
	s = bracketGroupRx.ReplaceAllStringFunc(s, func(group string) string {
		inner := strings.Trim(group, "[]")
		if n, err := strconv.Atoi(inner); err == nil && plausibleYear(n) {
			return group
		}
		return " "
	})

	fields := strings.Fields(s)
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if isGarbageToken(f) {
			// Plex-style: the first junk token ends the title; the
			// remainder is release noise.
			break
		}
		kept = append(kept, f)
	}
	out := strings.Join(kept, " ")
	out = strings.Trim(out, " -–_.,")
	return strings.Join(strings.Fields(out), " ")
}

func isGarbageToken(token string) bool {
	t := strings.ToLower(strings.Trim(token, "()[]{},"))
	if t == "" {
		return false
	}
	return garbageTokens[t]
}

// stripLeadingTrackNumber removes a disc/track-style "NN-" prefix from
// a standalone title. Space-delimited leading numbers are kept since
// they are usually part of the title.
func stripLeadingTrackNumber(s string) string {
	m := leadingTrackRx.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	n, _ := strconv.Atoi(m[1])
	if plausibleYear(n) {
		return s
	}
	rest := strings.TrimSpace(s[len(m[0]):])
	if rest == "" {
		return s
	}
	return rest
}

// extractYear pulls a plausible four-digit release year out of a
// cleaned title and returns the title without it. Bracketed years win
// over bare tokens; a bare year at the very start of the name is kept
// as title text (e.g. "2012", "1984").
func extractYear(s string) (string, int) {
	// Parenthesized or bracketed year anywhere.
	if m := yearInParensRx.FindStringSubmatchIndex(s); m != nil {
		year, _ := strconv.Atoi(s[m[2]:m[3]])
		if plausibleYear(year) {
			title := strings.TrimSpace(s[:m[0]] + " " + s[m[1]:])
			return strings.Join(strings.Fields(title), " "), year
		}
	}

	// Bare token: take the last plausible candidate not at position 0.
	var best []int
	for _, m := range bareYearRx.FindAllStringSubmatchIndex(s, -1) {
		year, _ := strconv.Atoi(s[m[2]:m[3]])
		if !plausibleYear(year) {
			continue
		}
		if m[2] == 0 {
			continue
		}
		best = m
	}
	if best == nil {
		return s, 0
	}
	year, _ := strconv.Atoi(s[best[2]:best[3]])
	title := strings.TrimSpace(s[:best[0]])
	return strings.Join(strings.Fields(title), " "), year
}

// ──────────────────── Compiled regex (init once) ────────────────────

var (
	extensionRx     = regexp.MustCompile(`^\.[a-zA-Z0-9]{2,4}$`)
	editionBraceRx  = regexp.MustCompile(`(?i)\{(?:edition-)?[^}]*\}`)
	bracketGroupRx  = regexp.MustCompile(`\[[^\]]*\]`)
	seasonFolderRx  = regexp.MustCompile(`(?i)^(?:seasons?[\s._-]*(\d{1,2})|s(\d{1,2}))$`)
	leadingNumberRx = regexp.MustCompile(`^(\d{1,4})[\s._-]+`)
	leadingTrackRx  = regexp.MustCompile(`^(\d{1,3})-`)
	yearInParensRx  = regexp.MustCompile(`[(\[]([12]\d{3})[)\]]`)
	bareYearRx      = regexp.MustCompile(`(?:^|\s)([12]\d{3})\b`)
)
