package docx

import (
	"strconv"
	"strings"
)

// StyleResolver resolves a paragraph's structural role from the style
// definitions in word/styles.xml, following basedOn inheritance. The
// resolver trusts the authoring tool's structural markup only: built-in
// heading style IDs, style names, and outline levels. It never infers
// headings from visual properties such as font size or weight.
type StyleResolver struct {
	styles   map[string]*styleDefXML
	resolved map[string]headingInfo
}

type headingInfo struct {
	isHeading bool
	level     int
	name      string
}

// NewStyleResolver creates a resolver from parsed styles. A nil styles
// document yields a resolver that recognizes only built-in style IDs.
func NewStyleResolver(styles *stylesXML) *StyleResolver {
	sr := &StyleResolver{
		styles:   make(map[string]*styleDefXML),
		resolved: make(map[string]headingInfo),
	}
	if styles == nil {
		return sr
	}
	for i := range styles.Styles {
		style := &styles.Styles[i]
		sr.styles[style.StyleID] = style
	}
	return sr
}

// StyleName returns the display name of a style, or "" if unknown.
func (sr *StyleResolver) StyleName(styleID string) string {
	if def, ok := sr.styles[styleID]; ok {
		return def.Name.Val
	}
	return ""
}

// HeadingLevel returns the heading level (1-9) of the given style ID, or
// 0 if the style does not mark a heading. Unknown or malformed style
// references resolve to 0, never to an error: a paragraph whose style
// metadata cannot be read degrades to body text.
func (sr *StyleResolver) HeadingLevel(styleID string) int {
	if styleID == "" {
		return 0
	}
	if info, ok := sr.resolved[styleID]; ok {
		return headingLevelOrZero(info)
	}

	info := sr.resolve(styleID, make(map[string]bool))
	sr.resolved[styleID] = info
	return headingLevelOrZero(info)
}

func headingLevelOrZero(info headingInfo) int {
	if info.isHeading {
		return info.level
	}
	return 0
}

// resolve walks the basedOn chain looking for heading markers. The
// visited set guards against definition cycles in malformed documents.
func (sr *StyleResolver) resolve(styleID string, visited map[string]bool) headingInfo {
	if visited[styleID] {
		return headingInfo{}
	}
	visited[styleID] = true

	if ok, level := detectBuiltInHeading(styleID); ok {
		return headingInfo{isHeading: true, level: level}
	}

	def, ok := sr.styles[styleID]
	if !ok {
		return headingInfo{}
	}

	// Style name like "heading 1" / "Heading 2"
	name := strings.ToLower(def.Name.Val)
	if strings.HasPrefix(name, "heading") {
		for i := 1; i <= 9; i++ {
			if strings.Contains(name, strconv.Itoa(i)) {
				return headingInfo{isHeading: true, level: i, name: def.Name.Val}
			}
		}
		return headingInfo{isHeading: true, level: 1, name: def.Name.Val}
	}

	// Explicit outline level on the style definition (0-based in OOXML).
	if def.PPr.OutlineLvl.Val != "" {
		if level := parseOutlineLevel(def.PPr.OutlineLvl.Val); level >= 0 {
			return headingInfo{isHeading: true, level: level + 1, name: def.Name.Val}
		}
	}

	if def.BasedOn.Val != "" {
		return sr.resolve(def.BasedOn.Val, visited)
	}
	return headingInfo{}
}

// detectBuiltInHeading checks for Word's built-in heading style IDs.
func detectBuiltInHeading(styleID string) (bool, int) {
	id := strings.ToLower(styleID)

	headingMap := map[string]int{
		"heading1": 1, "heading2": 2, "heading3": 3,
		"heading4": 4, "heading5": 5, "heading6": 6,
		"heading7": 7, "heading8": 8, "heading9": 9,
	}
	if level, ok := headingMap[id]; ok {
		return true, level
	}
	return false, 0
}

// parseOutlineLevel parses an outline level string to an integer.
func parseOutlineLevel(s string) int {
	level, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || level < 0 || level > 8 {
		return -1
	}
	return level
}
