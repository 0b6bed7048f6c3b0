package corvid

import (
	"regexp"
	"strings"
)

// Pattern is a compiled path matcher: either the literal/parametric form
// (`/users/:id`) or a regex form (a leading `^`, anchored to the full
// path with named captures as parameters).
type Pattern struct {
	source     string
	regex      *regexp.Regexp
	paramNames []string
}

// CompilePattern compiles a path pattern per spec.md §4.1. An empty
// pattern matches any path. Duplicate parameter names are a PatternError.
func CompilePattern(pattern string) (*Pattern, error) {
	if pattern == "" {
		re, err := regexp.Compile("^.*$")
		if err != nil {
			return nil, wrapError(KindPatternError, "compile empty pattern", err)
		}
		return &Pattern{source: pattern, regex: re}, nil
	}

	if pattern[0] == '^' {
		return compileRegexForm(pattern)
	}
	return compileLiteralForm(pattern)
}

func compileRegexForm(pattern string) (*Pattern, error) {
	re, err := regexp.Compile("^(?:" + pattern[1:] + ")$")
	if err != nil {
		return nil, wrapError(KindPatternError, "compile regex pattern "+pattern, err)
	}

	names := make([]string, 0, re.NumSubexp())
	seen := make(map[string]bool, re.NumSubexp())
	for _, n := range re.SubexpNames() {
		if n == "" {
			continue
		}
		if seen[n] {
			return nil, newError(KindPatternError, "duplicate parameter name "+n+" in pattern "+pattern)
		}
		seen[n] = true
		names = append(names, n)
	}
	return &Pattern{source: pattern, regex: re, paramNames: names}, nil
}

func compileLiteralForm(pattern string) (*Pattern, error) {
	var names []string
	seen := make(map[string]bool)
	var b strings.Builder
	b.WriteByte('^')

	segments := strings.Split(pattern, "/")
	for i, seg := range segments {
		if i > 0 {
			b.WriteByte('/')
		}
		if strings.HasPrefix(seg, ":") {
			name := seg[1:]
			if name == "" {
				return nil, newError(KindPatternError, "empty parameter name in pattern "+pattern)
			}
			if seen[name] {
				return nil, newError(KindPatternError, "duplicate parameter name "+name+" in pattern "+pattern)
			}
			seen[name] = true
			names = append(names, name)
			b.WriteString("([^/]+)")
		} else {
			b.WriteString(regexp.QuoteMeta(seg))
		}
	}
	b.WriteByte('$')

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, wrapError(KindPatternError, "compile literal pattern "+pattern, err)
	}
	return &Pattern{source: pattern, regex: re, paramNames: names}, nil
}

// Source returns the pattern's original source string, used as part of
// a Route's dedup identity.
func (p *Pattern) Source() string { return p.source }

// ParamNames returns the ordered parameter names the pattern captures.
func (p *Pattern) ParamNames() []string {
	out := make([]string, len(p.paramNames))
	copy(out, p.paramNames)
	return out
}

// Match tests path against the compiled pattern. ok is true iff the
// anchored regex matches; params holds the captured values keyed by
// parameter name.
func (p *Pattern) Match(path string) (ok bool, params map[string]string) {
	m := p.regex.FindStringSubmatch(path)
	if m == nil {
		return false, nil
	}
	if len(p.paramNames) == 0 {
		return true, nil
	}

	if p.source != "" && p.source[0] == '^' {
		params = make(map[string]string, len(p.paramNames))
		for i, name := range p.regex.SubexpNames() {
			if name == "" || i >= len(m) {
				continue
			}
			params[name] = m[i]
		}
		return true, params
	}

	params = make(map[string]string, len(p.paramNames))
	for i, name := range p.paramNames {
		params[name] = m[i+1]
	}
	return true, params
}
