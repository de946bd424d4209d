package jsonio

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestToUTF8(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want string
	}{
		{"plain ascii", []byte("hello"), "hello"},
		{"valid utf8", []byte("caf\xc3\xa9"), "café"},
		{"bom stripped", []byte("\xEF\xBB\xBFhello"), "hello"},
		{"cp1252 e acute", []byte("caf\xe9"), "café"},
		{"cp1252 smart quote", []byte("it\x92s"), "it’s"},
		{"empty", []byte{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := string(ToUTF8(tt.in)); got != tt.want {
				t.Errorf("ToUTF8 = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadFallbackEncoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "q.json")
	if err := os.WriteFile(path, []byte("[{\"text\": \"caf\xe9\"}]"), 0o644); err != nil {
		t.Fatal(err)
	}

	var records []map[string]string
	if err := Load(path, &records); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(records) != 1 || records[0]["text"] != "café" {
		t.Errorf("records = %+v", records)
	}
}

func TestLoadMissingFile(t *testing.T) {
	var v any
	if err := Load(filepath.Join(t.TempDir(), "nope.json"), &v); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	var v any
	err := Load(path, &v)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !strings.Contains(err.Error(), path) {
		t.Errorf("error does not name the file: %v", err)
	}
}

func TestSaveFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "out.json")
	if err := Save(path, map[string]string{"op": "a < b"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	got := string(data)
	if !strings.Contains(got, "    \"op\"") {
		t.Errorf("output not 4-space indented:\n%s", got)
	}
	if !strings.Contains(got, "a < b") {
		t.Errorf("HTML characters escaped:\n%s", got)
	}
	if !strings.HasSuffix(got, "\n") {
		t.Error("output missing trailing newline")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rt.json")
	in := []map[string]any{{"question_ar": "ما عدد الطلاب؟"}}
	if err := Save(path, in); err != nil {
		t.Fatal(err)
	}
	var out []map[string]any
	if err := Load(path, &out); err != nil {
		t.Fatal(err)
	}
	if out[0]["question_ar"] != "ما عدد الطلاب؟" {
		t.Errorf("round trip = %+v", out)
	}
}
