package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"vindex/internal/config"
	"vindex/internal/domain"
	"vindex/internal/qa"
	"vindex/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [file...]",
	Short: "Interactive ask loop over the index",
	Long: `Opens an interactive question-answering screen. With file arguments,
a fresh in-memory index is built from those files; without arguments,
the persisted index is used.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			svc, err := buildService(cfg)
			if err != nil {
				return err
			}
			if err := ingestFiles(cfg, svc, args); err != nil {
				return err
			}
			return runTUI(cfg, svc)
		}
		return withService(false, runTUI)
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func ingestFiles(cfg *config.AppConfig, svc *qa.Service, paths []string) error {
	var docs []domain.Document
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		docs = append(docs, domain.Document{
			ID:   filepath.Base(p),
			Text: string(data),
			Metadata: map[string]string{
				"path": p,
			},
		})
	}
	ids, err := svc.AddDocuments(docs, cfg.Chunker.MaxChars, cfg.Chunker.Overlap)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return fmt.Errorf("no indexable text in %d file(s)", len(paths))
	}
	return nil
}

func runTUI(cfg *config.AppConfig, svc *qa.Service) error {
	m := tui.New(svc, cfg.TUI.TopK)
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
