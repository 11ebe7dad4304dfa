package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CaseFileSuffixes are the file name suffixes of declarative case files
var CaseFileSuffixes = []string{".cases.yaml", ".cases.yml"}

// Scanner scans for case files in a directory
type Scanner struct {
	skipDirs map[string]bool
}

// NewScanner creates a new Scanner with the given directories to skip
func NewScanner(skipDirs []string) *Scanner {
	skipMap := make(map[string]bool)
	for _, dir := range skipDirs {
		skipMap[dir] = true
	}
	return &Scanner{skipDirs: skipMap}
}

// Scan finds all case files under root, sorted by path
func (s *Scanner) Scan(root string) ([]string, error) {
	var files []string

	root = filepath.Clean(root)
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("case path does not exist: %s", root)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("case path is not a directory: %s", root)
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			name := d.Name()
			// Skip hidden directories, but never the root itself
			if path != root && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if s.skipDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if IsCaseFile(d.Name()) {
			files = append(files, path)
		}
		return nil
	})

	sort.Strings(files)
	return files, err
}

// IsCaseFile reports whether name carries a case file suffix
func IsCaseFile(name string) bool {
	for _, suffix := range CaseFileSuffixes {
		if strings.HasSuffix(name, suffix) && len(name) > len(suffix) {
			return true
		}
	}
	return false
}

// suiteFromFile derives a default suite name: cases/strconv.cases.yaml is suite "strconv"
func suiteFromFile(path string) string {
	base := filepath.Base(path)
	for _, suffix := range CaseFileSuffixes {
		if strings.HasSuffix(base, suffix) {
			return strings.TrimSuffix(base, suffix)
		}
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
