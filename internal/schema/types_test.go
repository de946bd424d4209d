package schema

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestColumnNameJSON(t *testing.T) {
	in := `[[-1, "*"], [0, "Student_ID"]]`
	var cols []ColumnName
	if err := json.Unmarshal([]byte(in), &cols); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	want := []ColumnName{{TableIndex: -1, Name: "*"}, {TableIndex: 0, Name: "Student_ID"}}
	if !reflect.DeepEqual(cols, want) {
		t.Fatalf("got %+v, want %+v", cols, want)
	}

	out, err := json.Marshal(cols)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(out) != `[[-1,"*"],[0,"Student_ID"]]` {
		t.Errorf("marshal = %s", out)
	}
}

func TestSchemaNameFallbacks(t *testing.T) {
	s := &Schema{
		TableNamesOriginal: []string{"T_Orig"},
		ColumnNamesOrig:    []ColumnName{{TableIndex: 0, Name: "c_orig"}},
	}
	if got := s.Tables(); !reflect.DeepEqual(got, []string{"T_Orig"}) {
		t.Errorf("Tables fallback = %v", got)
	}
	if got := s.Columns(); len(got) != 1 || got[0].Name != "c_orig" {
		t.Errorf("Columns fallback = %v", got)
	}

	s.TableNames = []string{"t clean"}
	if got := s.Tables(); !reflect.DeepEqual(got, []string{"t clean"}) {
		t.Errorf("Tables preference = %v", got)
	}
	if got := s.OriginalTables(); !reflect.DeepEqual(got, []string{"T_Orig"}) {
		t.Errorf("OriginalTables = %v", got)
	}
}

func TestFKDescriptionText(t *testing.T) {
	d := FKDescription{Usage: "usage text"}
	if got := d.Text(); got != "usage text" {
		t.Errorf("Text = %q", got)
	}
	d.Summary = "summary text"
	if got := d.Text(); got != "summary text" {
		t.Errorf("Text = %q", got)
	}
}
