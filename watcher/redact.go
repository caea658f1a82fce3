package watcher

import (
	"regexp"
	"strings"
)

// Pattern matches a process name. It is either a compiled regular
// expression or, when the expression does not compile, the original text
// matched literally. User-supplied process names like "Some App.exe" keep
// working without regex escaping.
type Pattern struct {
	re      *regexp.Regexp
	literal string
}

// CompilePattern builds a Pattern from a user-supplied expression.
// A broken expression is never dropped and never an error.
func CompilePattern(expr string) Pattern {
	re, err := regexp.Compile(expr)
	if err != nil {
		return Pattern{literal: expr}
	}
	return Pattern{re: re}
}

// Matches reports whether the pattern matches the process name.
func (p Pattern) Matches(name string) bool {
	if p.re != nil {
		return p.re.MatchString(name)
	}
	return strings.Contains(name, p.literal)
}

// RuleSet decides whether a window title may be reported for a process.
// Loaded once at startup and read-only afterwards.
type RuleSet struct {
	ExcludeAll bool
	Exclude    []Pattern
	Include    []Pattern
}

// NewRuleSet compiles the configured pattern lists.
func NewRuleSet(excludeAll bool, exclude, include []string) RuleSet {
	return RuleSet{
		ExcludeAll: excludeAll,
		Exclude:    compileAll(exclude),
		Include:    compileAll(include),
	}
}

func compileAll(exprs []string) []Pattern {
	patterns := make([]Pattern, 0, len(exprs))
	for _, expr := range exprs {
		patterns = append(patterns, CompilePattern(expr))
	}
	return patterns
}

// Redact returns the title to report for the given process. An excluded
// process reports its own name instead of the title, so consumers still see
// that the app was focused, never what it displayed. Include patterns
// override both the global flag and the exclude list.
func (r RuleSet) Redact(app, title string) string {
	if (r.ExcludeAll || matchAny(r.Exclude, app)) && !matchAny(r.Include, app) {
		return app
	}
	return title
}

func matchAny(patterns []Pattern, name string) bool {
	for _, p := range patterns {
		if p.Matches(name) {
			return true
		}
	}
	return false
}
