package fspaths

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// Options narrows what Expand picks up from directories. The zero value
// includes every regular file.
type Options struct {
	// Include holds doublestar globs matched against the slash path relative
	// to the walked directory. Empty means all files.
	Include []string
	// RespectGitignore skips .git directories and files matched by the
	// directory's .gitignore or .git/info/exclude.
	RespectGitignore bool
	// OnFile is called for each file as it is added to the list.
	OnFile func(path string)
}

// Expand turns a selection of files and directories into a flat list of
// absolute file paths. Directories are walked depth-first in lexical order.
// Entries that are missing or not regular files are skipped without error,
// and a path reached twice is only listed once.
func Expand(paths []string, opts Options) ([]string, error) {
	var patterns []string
	for _, g := range opts.Include {
		g = strings.TrimSpace(g)
		if g == "" {
			continue
		}
		patterns = append(patterns, g)
	}

	shouldInclude := func(rel string) bool {
		if len(patterns) == 0 {
			return true
		}
		for _, p := range patterns {
			ok, _ := doublestar.PathMatch(p, rel)
			if ok {
				return true
			}
		}
		return false
	}

	var out []string
	seen := make(map[string]struct{})
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
		if opts.OnFile != nil {
			opts.OnFile(p)
		}
	}

	for _, raw := range paths {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		abs, err := filepath.Abs(raw)
		if err != nil {
			return nil, fmt.Errorf("resolve %q: %w", raw, err)
		}
		st, err := os.Stat(abs)
		if err != nil {
			continue
		}
		if st.Mode().IsRegular() {
			add(abs)
			continue
		}
		if !st.IsDir() {
			continue
		}

		// WalkDir does not descend into a symlinked root, so walk its target
		// and report paths under the name the user selected.
		walkRoot := abs
		if li, err := os.Lstat(abs); err == nil && li.Mode()&fs.ModeSymlink != 0 {
			if resolved, err := filepath.EvalSymlinks(abs); err == nil {
				walkRoot = resolved
			}
		}

		var ign *ignore.GitIgnore
		if opts.RespectGitignore {
			ign = loadGitIgnore(walkRoot)
		}

		walkFn := func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return nil
			}
			rel, rerr := filepath.Rel(walkRoot, path)
			if rerr != nil {
				return nil
			}
			rel = filepath.ToSlash(rel)
			if d.IsDir() {
				if opts.RespectGitignore && d.Name() == ".git" {
					return filepath.SkipDir
				}
				return nil
			}
			if ign != nil && ign.MatchesPath(rel) {
				return nil
			}
			if !isRegular(path, d) {
				return nil
			}
			if !shouldInclude(rel) {
				return nil
			}
			add(filepath.Join(abs, filepath.FromSlash(rel)))
			return nil
		}

		_ = filepath.WalkDir(walkRoot, walkFn)
	}
	return out, nil
}

// isRegular reports whether a walked entry is a regular file, following
// symlinks so a link to a file counts as the file.
func isRegular(path string, d fs.DirEntry) bool {
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink == 0 {
		return false
	}
	st, err := os.Stat(path)
	if err != nil {
		return false
	}
	return st.Mode().IsRegular()
}

func loadGitIgnore(root string) *ignore.GitIgnore {
	var lines []string
	gi := filepath.Join(root, ".gitignore")
	if b, err := os.ReadFile(gi); err == nil {
		lines = append(lines, strings.Split(string(b), "\n")...)
	}
	ge := filepath.Join(root, ".git", "info", "exclude")
	if b, err := os.ReadFile(ge); err == nil {
		lines = append(lines, strings.Split(string(b), "\n")...)
	}
	if len(lines) == 0 {
		return nil
	}
	return ignore.CompileIgnoreLines(lines...)
}
