// Package filter selects files based on include/exclude glob patterns
// matched against whole relative paths (find -path style: '*' and '?'
// cross directory separators, '\' escapes the next character).
package filter

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// Matcher holds compiled patterns for reuse across many paths.
type Matcher struct {
	patterns []*regexp.Regexp
}

// NewMatcher compiles the given glob patterns.
func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{patterns: make([]*regexp.Regexp, len(patterns))}

	for i, pattern := range patterns {
		re, err := compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", pattern, err)
		}

		m.patterns[i] = re
	}

	return m, nil
}

// Match reports whether path matches any compiled pattern.
func (m *Matcher) Match(path string) bool {
	for _, re := range m.patterns {
		if re.MatchString(path) {
			return true
		}
	}

	return false
}

// compile translates one glob pattern into an anchored regexp.
func compile(pattern string) (*regexp.Regexp, error) {
	var b strings.Builder

	b.WriteString("^")

	escaped := false

	for i := range len(pattern) {
		c := pattern[i]

		if escaped {
			b.WriteString(regexp.QuoteMeta(string(c)))

			escaped = false

			continue
		}

		switch c {
		case '\\':
			escaped = true
		case '*':
			b.WriteString(".*")
		case '?':
			b.WriteString(".")
		default:
			b.WriteString(regexp.QuoteMeta(string(c)))
		}
	}

	if escaped {
		return nil, fmt.Errorf("trailing backslash")
	}

	b.WriteString("$")

	re, err := regexp.Compile(b.String())
	if err != nil {
		return nil, fmt.Errorf("compiling: %w", err)
	}

	return re, nil
}

// Resolve normalizes positional args into a concrete file list: explicit
// files are taken as-is (bypassing filtering), directories are walked and
// filtered. hasIncludes marks whether include filtering was requested at
// all; with none, every walked file is included unless excluded.
// Returns the matched files and the total number of candidates scanned.
func Resolve(args, includes, excludes []string, hasIncludes bool) (files []string, scanned int, err error) {
	for _, arg := range args {
		if err := validatePath(arg); err != nil {
			return nil, 0, err
		}
	}

	include, err := NewMatcher(normalize(includes))
	if err != nil {
		return nil, 0, fmt.Errorf("compiling include patterns: %w", err)
	}

	exclude, err := NewMatcher(normalize(excludes))
	if err != nil {
		return nil, 0, fmt.Errorf("compiling exclude patterns: %w", err)
	}

	seen := make(map[string]struct{})

	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}

		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, arg := range args {
		arg = filepath.Clean(arg)

		info, err := os.Stat(arg)
		if err != nil {
			return nil, 0, fmt.Errorf("stat %q: %w", arg, err)
		}

		if !info.IsDir() {
			scanned++

			add(arg)

			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}

			if d.IsDir() {
				return nil
			}

			scanned++

			clean := filepath.ToSlash(filepath.Clean(path))

			if exclude.Match(clean) {
				return nil
			}

			if hasIncludes && !include.Match(clean) {
				return nil
			}

			add(path)

			return nil
		})
		if err != nil {
			return nil, 0, fmt.Errorf("walking %q: %w", arg, err)
		}
	}

	if len(files) == 0 {
		return nil, scanned, fmt.Errorf("no files matched the provided patterns: %v", args)
	}

	return files, scanned, nil
}

// normalize strips leading "./" so patterns match cleaned paths.
func normalize(patterns []string) []string {
	out := make([]string, len(patterns))

	for i, p := range patterns {
		out[i] = strings.TrimPrefix(p, "./")
	}

	return out
}

// validatePath rejects paths that escape the current working directory.
func validatePath(path string) error {
	if filepath.IsAbs(path) {
		return fmt.Errorf("absolute paths are not allowed: %q", path)
	}

	if strings.HasPrefix(filepath.Clean(path), "..") {
		return fmt.Errorf("paths must be within the current working directory: %q", path)
	}

	return nil
}
