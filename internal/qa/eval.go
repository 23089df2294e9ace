package qa

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"vindex/internal/domain"
)

// EvalExample is one retrieval-quality check: a question plus either a
// substring the right context must contain or the id of the document it
// must come from.
type EvalExample struct {
	Question     string `json:"question"`
	GoldContains string `json:"gold_contains,omitempty"`
	GoldDocID    string `json:"gold_doc_id,omitempty"`
}

// EvalDetail is the per-question outcome of an evaluation run.
type EvalDetail struct {
	Question string `json:"question"`
	Found    bool   `json:"found"`
	Rank     int    `json:"rank"` // 0-based; -1 when not found
	TopHit   string `json:"top_hit"`
}

// EvalReport aggregates retrieval quality over a set of examples.
type EvalReport struct {
	N        int          `json:"n"`
	K        int          `json:"k"`
	RecallAt float64      `json:"recall_at_k"`
	MRR      float64      `json:"mrr"`
	Details  []EvalDetail `json:"details"`
}

// LoadDocumentsJSONL reads one document per line: {"id", "text",
// "metadata"}. Blank lines and rows missing id or text are skipped.
func LoadDocumentsJSONL(path string) ([]domain.Document, error) {
	rows, err := readJSONLines(path)
	if err != nil {
		return nil, err
	}
	var docs []domain.Document
	for _, r := range rows {
		id := stringField(r, "id")
		text := stringField(r, "text")
		if id == "" || text == "" {
			continue
		}
		doc := domain.Document{ID: id, Text: text}
		if raw, ok := r["metadata"].(map[string]any); ok {
			doc.Metadata = make(map[string]string, len(raw))
			for k, v := range raw {
				if sv, ok := v.(string); ok {
					doc.Metadata[k] = sv
				} else {
					doc.Metadata[k] = fmt.Sprint(v)
				}
			}
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// LoadExamplesJSONL reads one eval example per line. Rows without a
// question are skipped.
func LoadExamplesJSONL(path string) ([]EvalExample, error) {
	rows, err := readJSONLines(path)
	if err != nil {
		return nil, err
	}
	var out []EvalExample
	for _, r := range rows {
		q := stringField(r, "question")
		if strings.TrimSpace(q) == "" {
			continue
		}
		out = append(out, EvalExample{
			Question:     q,
			GoldContains: stringField(r, "gold_contains"),
			GoldDocID:    stringField(r, "gold_doc_id"),
		})
	}
	return out, nil
}

// EvaluateRetrieval measures recall@k and MRR over the examples.
// Examples carrying neither gold field are ignored.
func EvaluateRetrieval(svc *Service, examples []EvalExample, k int) (EvalReport, error) {
	if k <= 0 {
		return EvalReport{}, errors.New("k must be positive")
	}
	report := EvalReport{K: k}
	var mrrSum float64
	found := 0
	for _, ex := range examples {
		if ex.GoldContains == "" && ex.GoldDocID == "" {
			continue
		}
		report.N++
		hits, err := svc.SearchRich(ex.Question, k)
		if err != nil {
			return EvalReport{}, err
		}
		rank := -1
		for i, h := range hits {
			if matchHit(h, ex) {
				rank = i
				break
			}
		}
		detail := EvalDetail{Question: ex.Question, Found: rank >= 0, Rank: rank}
		if len(hits) > 0 {
			detail.TopHit = hits[0].Text
		}
		if rank >= 0 {
			found++
			mrrSum += 1.0 / float64(rank+1)
		}
		report.Details = append(report.Details, detail)
	}
	if report.N > 0 {
		report.RecallAt = float64(found) / float64(report.N)
		report.MRR = mrrSum / float64(report.N)
	}
	return report, nil
}

func matchHit(h domain.RichHit, ex EvalExample) bool {
	if ex.GoldDocID != "" {
		return h.Meta != nil && h.Meta.DocID == ex.GoldDocID
	}
	if ex.GoldContains != "" {
		return strings.Contains(strings.ToLower(h.Text), strings.ToLower(ex.GoldContains))
	}
	return false
}

func readJSONLines(path string) ([]map[string]any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var rows []map[string]any
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		var row map[string]any
		if err := json.Unmarshal([]byte(text), &row); err != nil {
			return nil, fmt.Errorf("parse %s line %d: %w", path, line, err)
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return rows, nil
}

func stringField(row map[string]any, key string) string {
	if v, ok := row[key].(string); ok {
		return v
	}
	return ""
}
