package middleware

import (
	"log"
	"regexp"
)

// CompilePatterns compiles a list of path regexps, skipping (and logging) any
// that fail to compile so one bad configuration entry does not take the whole
// middleware down
func CompilePatterns(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			log.Printf("[WARNING] Invalid URL pattern %q: %v", p, err)
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

// MatchAny reports whether the path matches any of the compiled patterns
func MatchAny(path string, patterns []*regexp.Regexp) bool {
	for _, re := range patterns {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
