package pipeline

import (
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DennisSchulmeister/interview-analysis/internal/errs"
)

// Discover finds the transcript files selected by the configured include and
// exclude patterns. Patterns resolve relative to the config file directory;
// the result is sorted for a stable processing order.
func (p *Pipeline) Discover() ([]string, error) {
	include := normalizePattern(p.cfg.Include)
	exclude := ""
	if p.cfg.Exclude != "" {
		exclude = normalizePattern(p.cfg.Exclude)
	}

	var paths []string
	err := filepath.WalkDir(p.cfg.BaseDir, func(fullPath string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			// Never descend into the work directory.
			if fullPath == p.cfg.Workdir {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(p.cfg.BaseDir, fullPath)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if !matchPattern(include, rel) {
			return nil
		}
		if exclude != "" && matchPattern(exclude, rel) {
			return nil
		}
		paths = append(paths, fullPath)
		return nil
	})
	if err != nil {
		return nil, errs.Config("discover transcripts under %s: %v", p.cfg.BaseDir, err)
	}

	sort.Strings(paths)
	return paths, nil
}

// normalizePattern converts the shorthand `**.ext` from sample configs to
// the canonical `**/*.ext` form.
func normalizePattern(pattern string) string {
	pattern = strings.TrimSpace(pattern)
	if strings.HasPrefix(pattern, "**.") && !strings.Contains(pattern, "/") {
		return "**/*." + pattern[3:]
	}
	if pattern == "**" || pattern == "**/" {
		return "**/*"
	}
	return pattern
}

// matchPattern matches a slash-separated relative path against a glob
// pattern. A `**` segment matches any number of path components, including
// none, at any position in the pattern; other segments follow path.Match
// rules. So `transcripts/**/*.odt` covers files directly under
// `transcripts/` as well as at any depth below it.
func matchPattern(pattern, rel string) bool {
	return matchSegments(strings.Split(pattern, "/"), strings.Split(rel, "/"))
}

func matchSegments(pattern, parts []string) bool {
	if len(pattern) == 0 {
		return len(parts) == 0
	}
	if pattern[0] == "**" {
		for skip := 0; skip <= len(parts); skip++ {
			if matchSegments(pattern[1:], parts[skip:]) {
				return true
			}
		}
		return false
	}
	if len(parts) == 0 {
		return false
	}
	ok, err := path.Match(pattern[0], parts[0])
	return err == nil && ok && matchSegments(pattern[1:], parts[1:])
}
