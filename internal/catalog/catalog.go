// Package catalog enumerates and looks up executable files reachable by
// scanning PATH, with an optional on-disk cache so a large PATH doesn't
// have to be re-walked on every shell startup.
package catalog

import (
	"os"
	"path/filepath"
	"sort"
)

const executableBits = 0o111

// Catalog is the unordered set of executable basenames reachable from a
// search path, plus the ordered path list used for resolve().
type Catalog struct {
	paths []string
	byDir map[string][]string // dir -> basenames, in scan order
}

// Build scans each entry of paths (as produced by splitting $PATH) and
// returns the resulting catalog. cache may be nil, in which case every
// directory is scanned unconditionally.
func Build(paths []string, cache *Cache) *Catalog {
	cat := &Catalog{paths: paths, byDir: make(map[string][]string, len(paths))}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			if isExecutableFile(info) {
				cat.byDir[p] = []string{filepath.Base(p)}
			}
			continue
		}

		mod := info.ModTime().UnixNano()
		if names, ok := cache.Lookup(p, mod); ok {
			cat.byDir[p] = names
			continue
		}

		names := scanDir(p)
		cat.byDir[p] = names
		cache.Store(p, mod, names)
	}
	return cat
}

func scanDir(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		info, err := e.Info()
		if err != nil || info.IsDir() {
			continue
		}
		if isExecutableFile(info) {
			names = append(names, e.Name())
		}
	}
	return names
}

func isExecutableFile(info os.FileInfo) bool {
	return info.Mode().IsRegular() && info.Mode().Perm()&executableBits != 0
}

// Resolve returns the first path entry whose basename matches name and is
// executable, following search-path order.
func (c *Catalog) Resolve(name string) (string, bool) {
	for _, p := range c.paths {
		names, ok := c.byDir[p]
		if !ok {
			continue
		}
		info, err := os.Stat(p)
		if err == nil && !info.IsDir() {
			if filepath.Base(p) == name {
				return p, true
			}
			continue
		}
		for _, n := range names {
			if n == name {
				return filepath.Join(p, n), true
			}
		}
	}
	return "", false
}

// List returns every distinct basename in the catalog, sorted
// lexicographically, for use by completion.
func (c *Catalog) List() []string {
	seen := make(map[string]struct{})
	for _, names := range c.byDir {
		for _, n := range names {
			seen[n] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
