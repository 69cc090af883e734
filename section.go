package docbase

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

// Section represents a heading in a markdown document.
type Section struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// ExtractSections parses markdown and returns all headings (H1-H6).
// It generates URL-safe anchors and handles duplicates with numeric suffixes.
func ExtractSections(markdown string) []Section {
	if markdown == "" {
		return nil
	}

	matches := headingMatches(markdown)
	if len(matches) == 0 {
		return nil
	}

	sections := make([]Section, 0, len(matches))
	anchorCounts := make(map[string]int)

	for _, match := range matches {
		level := len(match[1])
		title := strings.TrimSpace(match[2])
		baseAnchor := generateAnchor(title)

		// Handle duplicates
		anchor := baseAnchor
		if count, exists := anchorCounts[baseAnchor]; exists {
			anchor = baseAnchor + "-" + strconv.Itoa(count)
			anchorCounts[baseAnchor]++
		} else {
			anchorCounts[baseAnchor] = 1
		}

		sections = append(sections, Section{
			Level:  level,
			Title:  title,
			Anchor: anchor,
		})
	}

	return sections
}

// FindSection returns the text of the section whose heading matches the
// query, case-insensitively. Matching attempts exact match first, then
// prefix match, then fuzzy containment, in that order; callers may rely on
// this fallback chain. The returned text runs from the matched heading to
// the next heading of the same or higher level.
//
// Returns ESECTION if no heading matches anywhere in the chain.
func FindSection(markdown, heading string) (string, error) {
	query := strings.ToLower(strings.TrimSpace(heading))
	if query == "" {
		return "", Errorf(EINVALID, "section heading required")
	}

	type located struct {
		level int
		title string
		start int // offset of the heading line
		body  int // offset just past the heading line
	}

	headingRe := regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	idxs := headingRe.FindAllStringSubmatchIndex(markdown, -1)
	if len(idxs) == 0 {
		return "", Errorf(ESECTION, "section %q not found", heading)
	}

	// Ignore # lines inside fenced code blocks
	fences := regexp.MustCompile("(?s)```.*?```").FindAllStringIndex(markdown, -1)
	inFence := func(pos int) bool {
		for _, f := range fences {
			if pos >= f[0] && pos < f[1] {
				return true
			}
		}
		return false
	}

	headings := make([]located, 0, len(idxs))
	for _, m := range idxs {
		if inFence(m[0]) {
			continue
		}
		headings = append(headings, located{
			level: m[3] - m[2],
			title: strings.TrimSpace(markdown[m[4]:m[5]]),
			start: m[0],
			body:  m[1],
		})
	}

	match := -1
	for _, matchFn := range []func(title string) bool{
		func(t string) bool { return strings.ToLower(t) == query },
		func(t string) bool { return strings.HasPrefix(strings.ToLower(t), query) },
		func(t string) bool { return strings.Contains(strings.ToLower(t), query) },
	} {
		for i, h := range headings {
			if matchFn(h.title) {
				match = i
				break
			}
		}
		if match != -1 {
			break
		}
	}
	if match == -1 {
		return "", Errorf(ESECTION, "section %q not found", heading)
	}

	end := len(markdown)
	for _, h := range headings[match+1:] {
		if h.level <= headings[match].level {
			end = h.start
			break
		}
	}

	return strings.TrimSpace(markdown[headings[match].start:end]), nil
}

// headingMatches returns heading submatches with fenced code blocks removed,
// to avoid matching # inside code.
func headingMatches(markdown string) [][]string {
	codeBlockRe := regexp.MustCompile("(?s)```.*?```")
	cleaned := codeBlockRe.ReplaceAllString(markdown, "")

	headingRe := regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	return headingRe.FindAllStringSubmatch(cleaned, -1)
}

// generateAnchor creates a URL-safe anchor from a title.
// Converts to lowercase, replaces spaces with hyphens, removes special chars.
func generateAnchor(title string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if unicode.IsSpace(r) || r == '-' {
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	result := sb.String()
	// Trim trailing hyphen
	return strings.TrimSuffix(result, "-")
}
