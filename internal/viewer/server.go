// Package viewer serves built gold-graph files over a small read-only JSON
// API for the external graph renderer.
package viewer

import (
	"encoding/json"
	"net/http"
	"sort"
	"strconv"

	"github.com/birdql/goldgraph/internal/batch"
)

// Server holds the loaded record sets and their db_id indices. Everything
// is built once at construction and owned by the value; handlers only read.
type Server struct {
	data  map[string][]batch.Result
	index map[string]map[string][]int
}

// New builds a server over per-split record sets.
func New(data map[string][]batch.Result) *Server {
	s := &Server{
		data:  data,
		index: make(map[string]map[string][]int, len(data)),
	}
	for split, records := range data {
		idx := make(map[string][]int)
		for i, r := range records {
			idx[r.DBID] = append(idx[r.DBID], i)
		}
		s.index[split] = idx
	}
	return s
}

// Load reads record files keyed by split name. Missing files yield empty
// splits rather than errors.
func Load(paths map[string]string) (map[string][]batch.Result, error) {
	data := make(map[string][]batch.Result, len(paths))
	for split, path := range paths {
		records, err := batch.LoadResults(path)
		if err != nil {
			return nil, err
		}
		data[split] = records
	}
	return data, nil
}

// Handler returns the API routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/meta", s.handleMeta)
	mux.HandleFunc("GET /api/graph", s.handleGraph)
	return mux
}

type dbMeta struct {
	DBID  string `json:"db_id"`
	Count int    `json:"count"`
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	meta := make(map[string][]dbMeta, len(s.index))
	for split, idx := range s.index {
		ids := make([]string, 0, len(idx))
		for id := range idx {
			ids = append(ids, id)
		}
		sort.Strings(ids)
		dbs := make([]dbMeta, 0, len(ids))
		for _, id := range ids {
			dbs = append(dbs, dbMeta{DBID: id, Count: len(idx[id])})
		}
		meta[split] = dbs
	}
	writeJSON(w, map[string]any{"meta": meta})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	split := r.URL.Query().Get("split")
	if split == "" {
		split = "train"
	}
	idx, err := strconv.Atoi(r.URL.Query().Get("idx"))
	if err != nil {
		http.Error(w, "missing or invalid idx", http.StatusBadRequest)
		return
	}
	records := s.data[split]
	if idx < 0 || idx >= len(records) {
		http.Error(w, "record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, records[idx])
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
