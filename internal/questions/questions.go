// Package questions maintains question files: ensuring the bilingual text
// field exists and splitting files into chunks for translation hand-off.
// Records are handled as raw JSON objects so unknown fields survive a
// rewrite untouched.
package questions

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/birdql/goldgraph/internal/jsonio"
)

// EnsureField adds key with an empty string value to every record lacking
// it, rewriting the file only when something changed. Returns whether the
// file was modified.
func EnsureField(path, key string) (bool, error) {
	var records []map[string]any
	if err := jsonio.Load(path, &records); err != nil {
		return false, err
	}

	changed := false
	for _, rec := range records {
		if _, ok := rec[key]; !ok {
			rec[key] = ""
			changed = true
		}
	}
	if !changed {
		return false, nil
	}
	if err := jsonio.Save(path, records); err != nil {
		return false, err
	}
	return true, nil
}

// SplitFile divides a question file into parts contiguous near-equal
// chunks named <stem>_part<i>of<parts>.json next to the input, returning
// the written paths.
func SplitFile(path string, parts int) ([]string, error) {
	var records []map[string]any
	if err := jsonio.Load(path, &records); err != nil {
		return nil, err
	}
	if parts < 1 {
		return nil, fmt.Errorf("parts must be positive, got %d", parts)
	}

	chunks := splitList(len(records), parts)
	ext := filepath.Ext(path)
	stem := strings.TrimSuffix(path, ext)

	var written []string
	start := 0
	for i, size := range chunks {
		out := fmt.Sprintf("%s_part%dof%d%s", stem, i+1, parts, ext)
		chunk := records[start : start+size]
		if chunk == nil {
			chunk = []map[string]any{}
		}
		if err := jsonio.Save(out, chunk); err != nil {
			return written, err
		}
		written = append(written, out)
		start += size
	}
	return written, nil
}

// splitList returns parts chunk sizes summing to n, each differing by at
// most one, larger chunks first. An empty input collapses to a single
// chunk rather than fanning out empty parts.
func splitList(n, parts int) []int {
	if parts <= 1 || n == 0 {
		return []int{n}
	}
	base := n / parts
	extra := n % parts
	sizes := make([]int, parts)
	for i := range sizes {
		sizes[i] = base
		if i < extra {
			sizes[i]++
		}
	}
	return sizes
}
