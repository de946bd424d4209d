// Package batch runs the gold-graph builder over whole question sets.
package batch

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/birdql/goldgraph/internal/gold"
	"github.com/birdql/goldgraph/internal/jsonio"
	"github.com/birdql/goldgraph/internal/schema"
)

// Question is one input record from a question file. Older files carry the
// English text under "question" instead of "question_en".
type Question struct {
	DBID       string `json:"db_id"`
	QuestionEN string `json:"question_en,omitempty"`
	Question   string `json:"question,omitempty"`
	QuestionAR string `json:"question_ar,omitempty"`
	SQL        string `json:"SQL"`
}

// English returns the English question text under either key.
func (q *Question) English() string {
	if q.QuestionEN != "" {
		return q.QuestionEN
	}
	return q.Question
}

// Result is one output record: the question's identifying fields plus its
// gold graph and rendered context text.
type Result struct {
	DBID        string      `json:"db_id"`
	QuestionEN  string      `json:"question_en"`
	QuestionAR  string      `json:"question_ar"`
	SQL         string      `json:"SQL"`
	GoldGraph   *gold.Graph `json:"gold_graph"`
	ContextText string      `json:"context_text"`
}

// Driver builds gold graphs for question records against a fixed schema
// set. Schema indexes are built once up front; records are independent, so
// they are processed by a bounded worker pool with output order restored by
// index assignment.
type Driver struct {
	indexes map[string]*schema.Index
	workers int
}

// NewDriver indexes the given schemas. An invalid schema record (column
// referencing an out-of-range table index) fails here, before any question
// is processed.
func NewDriver(schemas []*schema.Schema, workers int) (*Driver, error) {
	if workers < 1 {
		workers = 1
	}
	byID := schema.Map(schemas)
	indexes := make(map[string]*schema.Index, len(byID))
	for id, s := range byID {
		ix, err := schema.BuildIndex(s)
		if err != nil {
			return nil, fmt.Errorf("indexing schema: %w", err)
		}
		indexes[id] = ix
	}
	return &Driver{indexes: indexes, workers: workers}, nil
}

// Run processes questions in order. Questions whose db_id has no schema are
// skipped silently; every remaining record produces exactly one result, in
// input order.
func (d *Driver) Run(ctx context.Context, questions []Question) ([]Result, error) {
	type job struct {
		out int
		q   Question
		ix  *schema.Index
	}

	var jobs []job
	for _, q := range questions {
		ix, ok := d.indexes[q.DBID]
		if !ok {
			continue
		}
		jobs = append(jobs, job{out: len(jobs), q: q, ix: ix})
	}

	results := make([]Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(d.workers)
	for _, j := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			graph := gold.Build(j.q.SQL, j.ix)
			results[j.out] = Result{
				DBID:        j.q.DBID,
				QuestionEN:  j.q.English(),
				QuestionAR:  j.q.QuestionAR,
				SQL:         j.q.SQL,
				GoldGraph:   graph,
				ContextText: gold.ContextText(graph),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// LoadQuestions reads and concatenates question files in order. Missing
// files are skipped, matching how optional appendix files are handled.
func LoadQuestions(paths ...string) ([]Question, error) {
	var all []Question
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		var qs []Question
		if err := jsonio.Load(path, &qs); err != nil {
			return nil, err
		}
		all = append(all, qs...)
	}
	return all, nil
}

// SaveResults writes an output record file.
func SaveResults(path string, results []Result) error {
	if results == nil {
		results = []Result{}
	}
	return jsonio.Save(path, results)
}

// LoadResults reads a previously built output record file. A missing file
// yields an empty set, matching the viewer's tolerant loading.
func LoadResults(path string) ([]Result, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return []Result{}, nil
	}
	var results []Result
	if err := jsonio.Load(path, &results); err != nil {
		return nil, err
	}
	return results, nil
}
