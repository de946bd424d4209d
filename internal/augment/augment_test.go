package augment

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/birdql/goldgraph/internal/schema"
)

func TestTidyText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain text", "plain text."},
		{"already ends.", "already ends."},
		{"double ends..", "double ends."},
		{"  spaced \t out \n text ", "spaced out text."},
		{"...", ""},
	}
	for _, tt := range tests {
		if got := tidyText(tt.in); got != tt.want {
			t.Errorf("tidyText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestComposeSummary(t *testing.T) {
	tests := []struct {
		name       string
		childDesc  string
		parentDesc string
		want       string
	}{
		{
			name:       "parent description only",
			parentDesc: "the student's identifier",
			want:       "Enrollment.student_id references Student.id. the student's identifier.",
		},
		{
			name:       "distinct descriptions prefer child",
			childDesc:  "enrolled student",
			parentDesc: "unique id",
			want:       "Enrollment.student_id references Student.id. enrolled student.",
		},
		{
			name:       "identical descriptions fall back to parent",
			childDesc:  "Student ID",
			parentDesc: "student id",
			want:       "Enrollment.student_id references Student.id. student id.",
		},
		{
			name: "no descriptions",
			want: "Enrollment.student_id references Student.id.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := composeSummary("Enrollment", "student_id", "Student", "id", tt.childDesc, tt.parentDesc)
			if got != tt.want {
				t.Errorf("composeSummary = %q, want %q", got, tt.want)
			}
		})
	}
}

func writeDescriptionCSV(t *testing.T, dbDir, table, content string) {
	t.Helper()
	dir := filepath.Join(dbDir, "database_description")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, table+".csv"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDescriptions(t *testing.T) {
	dbDir := t.TempDir()
	writeDescriptionCSV(t, dbDir, "Student",
		"original_column_name,column_name,column_description\n"+
			"Student_ID,id,unique student identifier\n"+
			"name,,\n")

	m := LoadDescriptions(dbDir)
	if got := m.Lookup("student", "student_id"); got != "unique student identifier" {
		t.Errorf("Lookup by original name = %q", got)
	}
	if got := m.Lookup("Student", "id"); got != "unique student identifier" {
		t.Errorf("Lookup by clean name = %q", got)
	}
	if got := m.Lookup("Student", "name"); got != "" {
		t.Errorf("empty description = %q", got)
	}
	if got := m.Lookup("Other", "id"); got != "" {
		t.Errorf("unknown table = %q", got)
	}
}

func TestLoadDescriptionsFallbackEncoding(t *testing.T) {
	dbDir := t.TempDir()
	// 0xE9 is "é" in cp1252/latin-1 and invalid as standalone UTF-8.
	writeDescriptionCSV(t, dbDir, "Cafe",
		"original_column_name,column_name,column_description\n"+
			"name,,caf\xe9 name\n")

	m := LoadDescriptions(dbDir)
	if got := m.Lookup("Cafe", "name"); got != "café name" {
		t.Errorf("Lookup = %q", got)
	}
}

func TestLoadDescriptionsMissingDir(t *testing.T) {
	m := LoadDescriptions(filepath.Join(t.TempDir(), "nope"))
	if len(m) != 0 {
		t.Errorf("got %d tables, want none", len(m))
	}
}

func TestFindDBDir(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "Debit_Card_Specializing"), 0o755); err != nil {
		t.Fatal(err)
	}

	if got := FindDBDir([]string{root}, "Debit_Card_Specializing"); got == "" {
		t.Error("direct match not found")
	}
	// Normalized match absorbs case and separator differences.
	if got := FindDBDir([]string{root}, "debit card specializing"); got == "" {
		t.Error("normalized match not found")
	}
	if got := FindDBDir([]string{root}, "unknown_db"); got != "" {
		t.Errorf("unexpected match: %s", got)
	}
}

func TestRun(t *testing.T) {
	root := t.TempDir()
	dbDir := filepath.Join(root, "school")
	writeDescriptionCSV(t, dbDir, "Student",
		"original_column_name,column_name,column_description\n"+
			"id,,unique student identifier\n"+
			"name,,full name\n")
	writeDescriptionCSV(t, dbDir, "Enrollment",
		"original_column_name,column_name,column_description\n"+
			"student_id,,enrolled student\n")

	s := &schema.Schema{
		DBID:               "school",
		TableNamesOriginal: []string{"Student", "Enrollment"},
		ColumnNamesOrig: []schema.ColumnName{
			{TableIndex: -1, Name: "*"},
			{TableIndex: 0, Name: "id"},
			{TableIndex: 0, Name: "name"},
			{TableIndex: 1, Name: "student_id"},
			{TableIndex: 1, Name: "course_id"},
		},
		ForeignKeys: [][]int{{3, 1}},
	}

	stats, err := Run([]*schema.Schema{s}, []string{root})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.UpdatedDBs != 1 {
		t.Errorf("UpdatedDBs = %d", stats.UpdatedDBs)
	}
	if stats.MissingColumnDescs != 1 { // course_id has no CSV row
		t.Errorf("MissingColumnDescs = %d", stats.MissingColumnDescs)
	}

	if len(s.FKDescriptions) != 1 {
		t.Fatalf("FKDescriptions = %+v", s.FKDescriptions)
	}
	fk := s.FKDescriptions[0]
	if fk.ChildTable != "Enrollment" || fk.ChildColumn != "student_id" ||
		fk.ParentTable != "Student" || fk.ParentColumn != "id" {
		t.Errorf("FK endpoints = %+v", fk)
	}
	if fk.Usage != "Foreign key linking Enrollment.student_id to Student.id" {
		t.Errorf("Usage = %q", fk.Usage)
	}
	if fk.Summary == "" {
		t.Error("Summary is empty")
	}

	wantDescs := []string{"", "unique student identifier", "full name", "enrolled student", ""}
	if len(s.ColumnDescriptions) != len(wantDescs) {
		t.Fatalf("ColumnDescriptions = %v", s.ColumnDescriptions)
	}
	for i, want := range wantDescs {
		if s.ColumnDescriptions[i] != want {
			t.Errorf("ColumnDescriptions[%d] = %q, want %q", i, s.ColumnDescriptions[i], want)
		}
	}
}

func TestRunNoDatabaseDir(t *testing.T) {
	s := &schema.Schema{
		DBID:               "orphan",
		TableNamesOriginal: []string{"T"},
		ColumnNamesOrig: []schema.ColumnName{
			{TableIndex: -1, Name: "*"},
			{TableIndex: 0, Name: "a"},
			{TableIndex: 0, Name: "b"},
		},
		ForeignKeys: [][]int{{1, 2}},
	}

	stats, err := Run([]*schema.Schema{s}, nil)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if stats.MissingFKDescs != 1 {
		t.Errorf("MissingFKDescs = %d", stats.MissingFKDescs)
	}
	if len(s.FKDescriptions) != 1 || s.FKDescriptions[0].Summary != "T.a references T.b." {
		t.Errorf("FKDescriptions = %+v", s.FKDescriptions)
	}
}

func TestRunMalformedForeignKey(t *testing.T) {
	s := &schema.Schema{
		DBID:               "bad",
		TableNamesOriginal: []string{"T"},
		ColumnNamesOrig: []schema.ColumnName{
			{TableIndex: -1, Name: "*"},
			{TableIndex: 0, Name: "a"},
		},
		ForeignKeys: [][]int{{1, 99}},
	}
	if _, err := Run([]*schema.Schema{s}, nil); err == nil {
		t.Fatal("expected error for out-of-range column index")
	}
}
