// Package jsonio reads and writes the benchmark's JSON files. Some upstream
// files are not clean UTF-8, so reads fall back through common single-byte
// encodings; writes always produce UTF-8 with 4-space indentation and
// unescaped non-ASCII, matching the files the rest of the pipeline expects.
package jsonio

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// ReadFile reads a file and returns UTF-8 bytes. A UTF-8 BOM is stripped;
// content that is not valid UTF-8 is decoded as cp1252, then latin-1.
func ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ToUTF8(data), nil
}

// ToUTF8 converts raw bytes to UTF-8 using the same fallback order as
// ReadFile.
func ToUTF8(data []byte) []byte {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(data) {
		return data
	}
	if decoded, err := charmap.Windows1252.NewDecoder().Bytes(data); err == nil {
		return decoded
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		// latin-1 maps every byte; decoding cannot fail.
		return data
	}
	return decoded
}

// Load reads a JSON file into v.
func Load(path string, v any) error {
	data, err := ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

// Save writes v as indented JSON, creating parent directories as needed.
func Save(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
