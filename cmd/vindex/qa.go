package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"vindex/internal/config"
	"vindex/internal/qa"
)

var (
	qaTopK           int
	qaJSON           bool
	qaAddFiles       []string
	ingestChunk      int
	ingestOverlap    int
	ingestReset      bool
	evalDocsPath     string
	evalExamplesPath string
)

var qaCmd = &cobra.Command{
	Use:   "qa",
	Short: "Document retrieval and question answering",
}

var qaAddCmd = &cobra.Command{
	Use:   "add [text...]",
	Short: "Add raw texts to the index (no chunking)",
	RunE: func(cmd *cobra.Command, args []string) error {
		texts := append([]string(nil), args...)
		for _, path := range qaAddFiles {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			texts = append(texts, string(data))
		}
		if len(texts) == 0 {
			return fmt.Errorf("nothing to add: pass texts or --file")
		}
		return withService(true, func(cfg *config.AppConfig, svc *qa.Service) error {
			ids, err := svc.Add(texts)
			if err != nil {
				return err
			}
			fmt.Printf("added %d entries: ids %v\n", len(ids), ids)
			return nil
		})
	},
}

var qaIngestCmd = &cobra.Command{
	Use:   "ingest [docs.jsonl]",
	Short: "Chunk and index structured documents from a JSONL file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		docs, err := qa.LoadDocumentsJSONL(args[0])
		if err != nil {
			return err
		}
		return withService(true, func(cfg *config.AppConfig, svc *qa.Service) error {
			if ingestReset {
				svc.Reset()
			}
			size, overlap := ingestChunk, ingestOverlap
			if size == 0 {
				size = cfg.Chunker.MaxChars
			}
			if overlap < 0 {
				overlap = cfg.Chunker.Overlap
			}
			ids, err := svc.AddDocuments(docs, size, overlap)
			if err != nil {
				return err
			}
			fmt.Printf("ingested %d documents as %d chunks\n", len(docs), len(ids))
			return nil
		})
	},
}

var qaSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Rank indexed entries by cosine similarity to the query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(false, func(cfg *config.AppConfig, svc *qa.Service) error {
			hits, err := svc.SearchRich(args[0], topKOr(cfg))
			if err != nil {
				return err
			}
			if qaJSON {
				return printJSON(map[string]any{"hits": hits})
			}
			for _, h := range hits {
				fmt.Printf("%3d  %.4f  %s\n", h.ID, h.Score, h.Text)
				if h.Meta != nil {
					fmt.Printf("     doc=%s chunk=%d [%d:%d]\n", h.Meta.DocID, h.Meta.ChunkIndex, h.Meta.Start, h.Meta.End)
				}
			}
			return nil
		})
	},
}

var qaAskCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Search and extract a naive answer from the best hit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(false, func(cfg *config.AppConfig, svc *qa.Service) error {
			ans, err := svc.Ask(args[0], topKOr(cfg))
			if err != nil {
				return err
			}
			if qaJSON {
				return printJSON(map[string]any{"answer": ans.Answer, "hits": ans.Hits})
			}
			fmt.Printf("answer: %s\n", ans.Answer)
			for _, h := range ans.Hits {
				fmt.Printf("%3d  %.4f  %s\n", h.ID, h.Score, h.Text)
			}
			return nil
		})
	},
}

var qaResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear the index (ids restart at 1)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withService(true, func(cfg *config.AppConfig, svc *qa.Service) error {
			svc.Reset()
			fmt.Println("reset")
			return nil
		})
	},
}

var qaEvalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Measure retrieval quality (recall@k, MRR) over a JSONL example set",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		docs, err := qa.LoadDocumentsJSONL(evalDocsPath)
		if err != nil {
			return err
		}
		examples, err := qa.LoadExamplesJSONL(evalExamplesPath)
		if err != nil {
			return err
		}
		// Evaluation runs on a fresh in-memory service so the persisted
		// index stays untouched.
		svc, err := buildService(cfg)
		if err != nil {
			return err
		}
		if _, err := svc.AddDocuments(docs, cfg.Chunker.MaxChars, cfg.Chunker.Overlap); err != nil {
			return err
		}
		report, err := qa.EvaluateRetrieval(svc, examples, topKOr(cfg))
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}

func init() {
	qaCmd.PersistentFlags().IntVarP(&qaTopK, "top-k", "k", 0, "number of results (default from config)")
	qaCmd.PersistentFlags().BoolVar(&qaJSON, "json", false, "output as JSON")

	qaAddCmd.Flags().StringArrayVar(&qaAddFiles, "file", nil, "add a file's contents as one entry (repeatable)")

	qaIngestCmd.Flags().IntVar(&ingestChunk, "chunk-size", 0, "chunk window in characters (default from config)")
	qaIngestCmd.Flags().IntVar(&ingestOverlap, "chunk-overlap", -1, "chunk overlap in characters (default from config)")
	qaIngestCmd.Flags().BoolVar(&ingestReset, "reset", false, "clear the index before ingesting")

	qaEvalCmd.Flags().StringVar(&evalDocsPath, "docs", "", "documents JSONL file")
	qaEvalCmd.Flags().StringVar(&evalExamplesPath, "eval", "", "eval examples JSONL file")
	_ = qaEvalCmd.MarkFlagRequired("docs")
	_ = qaEvalCmd.MarkFlagRequired("eval")

	qaCmd.AddCommand(qaAddCmd, qaIngestCmd, qaSearchCmd, qaAskCmd, qaResetCmd, qaEvalCmd)
	rootCmd.AddCommand(qaCmd)
}

func topKOr(cfg *config.AppConfig) int {
	if qaTopK > 0 {
		return qaTopK
	}
	return cfg.TUI.TopK
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
