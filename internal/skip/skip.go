// Package skip reads skip directives from formula files.
//
// A directive is a comment line of the form
//
//	# fol:skip
//	# fol:skip:rename,move-quantifiers-left
//	# fol:skip-file:rename
//
// "fol:skip" applies to the next formula in the file and "fol:skip-file"
// to every formula in it. Without a transform list the formulas are not
// processed at all; with one, only the listed transforms are skipped.
package skip

import (
	"fmt"
	"strings"
)

const (
	directivePrefix = "fol:skip"
	fileSuffix      = "-file"
)

// Manager records the skip scopes of one file and answers whether a line
// or a transform on a line is skipped.
type Manager struct {
	scopes []skipScope
}

// skipScope is an inclusive range of lines a directive applies to.
type skipScope struct {
	transforms map[string]struct{}
	start      int
	end        int
}

// ParseLines parses the directives in lines. Malformed directives are
// ignored.
func ParseLines(lines []string) *Manager {
	manager := Manager{}
	for i, line := range lines {
		text, ok := commentText(line)
		if !ok {
			continue
		}
		ns, wholeFile, err := parseDirective(text)
		if err != nil {
			continue
		}

		if wholeFile {
			ns.start = 1
			ns.end = len(lines)
		} else {
			ns.start = i + 1
			ns.end = nextFormulaLine(lines, i+1)
		}
		manager.scopes = append(manager.scopes, ns)
	}
	return &manager
}

func commentText(line string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "#") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(trimmed, "#")), true
}

// parseDirective parses a single directive and reports whether it covers
// the whole file.
func parseDirective(text string) (skipScope, bool, error) {
	var ns skipScope

	if !strings.HasPrefix(text, directivePrefix) {
		return ns, false, fmt.Errorf("not a skip directive")
	}
	rest := text[len(directivePrefix):]

	wholeFile := strings.HasPrefix(rest, fileSuffix)
	rest = strings.TrimPrefix(rest, fileSuffix)

	// either a list of transforms after a colon, or nothing at all
	if len(rest) > 0 && rest[0] != ':' {
		return ns, false, fmt.Errorf("invalid skip directive format")
	}
	if len(rest) > 0 {
		rest = strings.TrimSpace(rest[1:])
		if rest == "" {
			return ns, false, fmt.Errorf("invalid skip directive: no transforms specified after colon")
		}
	}

	ns.transforms = parseTransformNames(rest)
	return ns, wholeFile, nil
}

func parseTransformNames(text string) map[string]struct{} {
	names := make(map[string]struct{})
	if text == "" {
		return names
	}
	for _, name := range strings.Split(text, ",") {
		name = strings.TrimSpace(name)
		if name != "" {
			names[name] = struct{}{}
		}
	}
	return names
}

// nextFormulaLine returns the 1-based line of the first formula at or
// after index from, or the last line when there is none.
func nextFormulaLine(lines []string, from int) int {
	for i := from; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return i + 1
	}
	return len(lines)
}

// SkipsLine reports whether the formula on line is excluded altogether.
func (m *Manager) SkipsLine(line int) bool {
	for _, ns := range m.scopes {
		if ns.covers(line) && len(ns.transforms) == 0 {
			return true
		}
	}
	return false
}

// SkipsTransform reports whether transform is skipped for the formula on line.
func (m *Manager) SkipsTransform(line int, transform string) bool {
	for _, ns := range m.scopes {
		if !ns.covers(line) {
			continue
		}
		if len(ns.transforms) == 0 {
			return true
		}
		if _, exists := ns.transforms[transform]; exists {
			return true
		}
	}
	return false
}

func (ns skipScope) covers(line int) bool {
	return line >= ns.start && line <= ns.end
}
