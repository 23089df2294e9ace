package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"vindex/internal/config"
	"vindex/internal/embedding"
	"vindex/internal/index"
	"vindex/internal/qa"
	"vindex/internal/store/sqlite"
	"vindex/internal/vocab"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "vindex",
	Short:         "VIN decoding and bag-of-words document retrieval",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to YAML config file (default: ./config.yaml, then ~/.config/vindex/config.yaml)")
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func loadConfig() (*config.AppConfig, error) {
	if cfgPath != "" {
		return config.Load(cfgPath)
	}
	cfg, _, err := config.LoadDefault()
	return cfg, err
}

// buildService assembles the QA stack from config.
func buildService(cfg *config.AppConfig) (*qa.Service, error) {
	store := vocab.NewStore(cfg.Embedder.FreezeOnQuery)
	emb, err := embedding.New(cfg.Embedder, store)
	if err != nil {
		return nil, err
	}
	idx, err := index.New(cfg.Index, emb)
	if err != nil {
		return nil, err
	}
	return qa.NewService(idx, store, qa.Options{ResetClearsVocabulary: cfg.Vocab.ResetClears}), nil
}

func openStore(cfg *config.AppConfig) (*sqlite.Store, error) {
	path := cfg.Store.Path
	if path == "" {
		var err error
		path, err = config.DefaultStorePath()
		if err != nil {
			return nil, err
		}
	}
	return sqlite.Open(path)
}

// withService runs fn against the persisted QA service. When persist is
// true the state is saved back after fn returns, so mutations survive
// into the next invocation.
func withService(persist bool, fn func(cfg *config.AppConfig, svc *qa.Service) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	svc, err := buildService(cfg)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	snap, ok, err := st.Load()
	if err != nil {
		return err
	}
	if ok {
		if err := svc.Restore(snap); err != nil {
			return err
		}
	}
	if err := fn(cfg, svc); err != nil {
		return err
	}
	if persist {
		return st.Save(svc.Snapshot())
	}
	return nil
}
