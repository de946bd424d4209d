package viewer

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/birdql/goldgraph/internal/batch"
	"github.com/birdql/goldgraph/internal/gold"
	"github.com/birdql/goldgraph/internal/jsonio"
	"github.com/birdql/goldgraph/internal/schema"
)

func testServer() *Server {
	return New(map[string][]batch.Result{
		"train": {
			{DBID: "school", QuestionEN: "q0", SQL: "SELECT 1", GoldGraph: &gold.Graph{
				Nodes: []gold.Node{{TableName: "Student", Columns: []schema.ColumnDesc{{Name: "id"}}}},
				Edges: []gold.Edge{},
			}},
			{DBID: "bank", QuestionEN: "q1", SQL: "SELECT 2", GoldGraph: &gold.Graph{Nodes: []gold.Node{}, Edges: []gold.Edge{}}},
			{DBID: "school", QuestionEN: "q2", SQL: "SELECT 3", GoldGraph: &gold.Graph{Nodes: []gold.Node{}, Edges: []gold.Edge{}}},
		},
		"dev": {},
	})
}

func TestHandleMeta(t *testing.T) {
	ts := httptest.NewServer(testServer().Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/meta")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type = %q", ct)
	}

	var body struct {
		Meta map[string][]struct {
			DBID  string `json:"db_id"`
			Count int    `json:"count"`
		} `json:"meta"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	train := body.Meta["train"]
	if len(train) != 2 {
		t.Fatalf("train dbs = %+v", train)
	}
	// Sorted by db_id.
	if train[0].DBID != "bank" || train[0].Count != 1 {
		t.Errorf("train[0] = %+v", train[0])
	}
	if train[1].DBID != "school" || train[1].Count != 2 {
		t.Errorf("train[1] = %+v", train[1])
	}
	if dev, ok := body.Meta["dev"]; !ok || len(dev) != 0 {
		t.Errorf("dev = %+v, present = %v", dev, ok)
	}
}

func TestHandleGraph(t *testing.T) {
	ts := httptest.NewServer(testServer().Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/graph?split=train&idx=0")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var rec batch.Result
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	if rec.DBID != "school" || rec.QuestionEN != "q0" {
		t.Errorf("record = %+v", rec)
	}
	if rec.GoldGraph == nil || len(rec.GoldGraph.Nodes) != 1 || rec.GoldGraph.Nodes[0].TableName != "Student" {
		t.Errorf("graph = %+v", rec.GoldGraph)
	}
}

func TestHandleGraphDefaultSplit(t *testing.T) {
	ts := httptest.NewServer(testServer().Handler())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/graph?idx=1")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var rec batch.Result
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		t.Fatal(err)
	}
	if rec.DBID != "bank" {
		t.Errorf("DBID = %q, want bank", rec.DBID)
	}
}

func TestHandleGraphErrors(t *testing.T) {
	ts := httptest.NewServer(testServer().Handler())
	defer ts.Close()

	tests := []struct {
		name string
		url  string
		want int
	}{
		{"missing idx", "/api/graph?split=train", http.StatusBadRequest},
		{"non-numeric idx", "/api/graph?split=train&idx=abc", http.StatusBadRequest},
		{"idx out of range", "/api/graph?split=train&idx=99", http.StatusNotFound},
		{"negative idx", "/api/graph?split=train&idx=-1", http.StatusNotFound},
		{"unknown split", "/api/graph?split=test&idx=0", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.url)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	trainPath := filepath.Join(dir, "train.json")
	records := []batch.Result{{DBID: "school", QuestionEN: "q", SQL: "SELECT 1"}}
	if err := jsonio.Save(trainPath, records); err != nil {
		t.Fatal(err)
	}

	data, err := Load(map[string]string{
		"train": trainPath,
		"dev":   filepath.Join(dir, "missing.json"),
	})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(data["train"]) != 1 || data["train"][0].DBID != "school" {
		t.Errorf("train = %+v", data["train"])
	}
	if len(data["dev"]) != 0 {
		t.Errorf("dev = %+v, want empty for missing file", data["dev"])
	}
}
