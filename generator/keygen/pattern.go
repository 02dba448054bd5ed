package keygen

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Placeholder is replaced by the decimal index in filename patterns.
const Placeholder = "{}"

// PrimarySuffix marks the keyfiles of richmen.
const PrimarySuffix = ".primary"

var ErrPatternCollision = errors.New("filename pattern renders the same path for different indices")

// Render replaces every Placeholder in pattern with index.
func Render(pattern string, index int) string {
	return strings.ReplaceAll(pattern, Placeholder, strconv.Itoa(index))
}

// PrimaryPath inserts PrimarySuffix before the extension of path:
// "keys/3.key" becomes "keys/3.primary.key".
func PrimaryPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + PrimarySuffix + ext
}

// Target is one file a generation run touches. Input targets are only read;
// nothing the run writes may share a path with one.
type Target struct {
	Path    string
	Index   int
	Primary bool
	Input   bool
}

func (t Target) describe() string {
	if t.Input {
		return "input " + t.Path
	}
	return "index " + strconv.Itoa(t.Index)
}

// Targets renders pattern for every index in [from, to]. Indices up to
// primaryUntil get the primary suffix.
func Targets(pattern string, from, to, primaryUntil int) []Target {
	if to < from {
		return nil
	}
	out := make([]Target, 0, to-from+1)
	for i := from; i <= to; i++ {
		path := Render(pattern, i)
		primary := i <= primaryUntil
		if primary {
			path = PrimaryPath(path)
		}
		out = append(out, Target{Path: path, Index: i, Primary: primary})
	}
	return out
}

// ValidatePattern checks that pattern renders a distinct path for every
// index. A pattern without Placeholder passes only for a single index.
func ValidatePattern(pattern string, indices []int) error {
	targets := make([]Target, len(indices))
	for i, index := range indices {
		targets[i] = Target{Path: Render(pattern, index), Index: index}
	}
	return ValidateTargets(targets)
}

// ValidateTargets fails on the first two targets sharing a cleaned path,
// unless both are inputs. It runs before any key is generated so a bad
// pattern never overwrites a keyfile written moments earlier, or a file the
// run still has to read.
func ValidateTargets(targets []Target) error {
	seen := make(map[string]Target, len(targets))
	for _, t := range targets {
		if t.Path == "" {
			return fmt.Errorf("empty path for %s", t.describe())
		}
		clean := filepath.Clean(t.Path)
		if prev, ok := seen[clean]; ok {
			if prev.Input && t.Input {
				continue
			}
			return fmt.Errorf("%w: %s and %s both map to %s", ErrPatternCollision, prev.describe(), t.describe(), clean)
		}
		seen[clean] = t
	}
	return nil
}
