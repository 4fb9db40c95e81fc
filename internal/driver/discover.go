package driver

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/rbrovko/SwiftLint/internal/config"
)

// SourceExt is the extension of the files that are linted.
const SourceExt = ".swift"

// IgnoredDirs are directories never descended into.
var IgnoredDirs = map[string]bool{
	".git":         true,
	".build":       true,
	".swiftpm":     true,
	"Pods":         true,
	"Carthage":     true,
	"DerivedData":  true,
	"node_modules": true,
	".idea":        true,
	".vscode":      true,
}

// LoadGitignore loads .gitignore from root if it exists.
func LoadGitignore(root string) *ignore.GitIgnore {
	gitignorePath := filepath.Join(root, ".gitignore")
	if _, err := os.Stat(gitignorePath); err == nil {
		if gitignore, err := ignore.CompileIgnoreFile(gitignorePath); err == nil {
			return gitignore
		}
	}
	return nil
}

// Discover expands paths into the sorted list of source files to lint.
// Directories are walked; files named explicitly are kept even when they do
// not carry SourceExt. Paths default to the configuration root. The
// configuration's included and excluded patterns use gitignore syntax
// relative to its root.
func Discover(cfg *config.Config, paths []string) ([]string, error) {
	if cfg == nil {
		cfg = config.Default(".")
	}
	root := cfg.Root
	if root == "" {
		root = "."
	}
	if len(paths) == 0 {
		paths = []string{root}
	}

	gitignore := LoadGitignore(root)
	var included, excluded *ignore.GitIgnore
	if len(cfg.Included) > 0 {
		included = ignore.CompileIgnoreLines(cfg.Included...)
	}
	if len(cfg.Excluded) > 0 {
		excluded = ignore.CompileIgnoreLines(cfg.Excluded...)
	}

	rel := func(path string) string {
		abs, err := filepath.Abs(path)
		if err != nil {
			return filepath.ToSlash(path)
		}
		r, err := filepath.Rel(root, abs)
		if err != nil || strings.HasPrefix(r, "..") {
			return filepath.ToSlash(path)
		}
		return filepath.ToSlash(r)
	}
	skipped := func(relPath string, isDir bool) bool {
		if relPath == "." {
			return false
		}
		if gitignore != nil && gitignore.MatchesPath(relPath) {
			return true
		}
		if excluded != nil && excluded.MatchesPath(relPath) {
			return true
		}
		return !isDir && included != nil && !included.MatchesPath(relPath)
	}

	seen := make(map[string]struct{})
	var files []string
	add := func(path string) {
		path = filepath.Clean(path)
		if _, dup := seen[path]; dup {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && IgnoredDirs[d.Name()] {
					return filepath.SkipDir
				}
				if path != p && skipped(rel(path), true) {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != SourceExt || skipped(rel(path), false) {
				return nil
			}
			add(path)
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	sort.Strings(files)
	return files, nil
}
