package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"archiv/internal/config"
	"archiv/internal/logging"
	"archiv/internal/storage"
)

const serviceName = "archiv"

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "1.0.0"

var (
	cfg    *config.AppConfig
	logger *logging.Logger

	flagPort string
	flagDir  string
)

var rootCmd = &cobra.Command{
	Use:   "archiv",
	Short: "Archiv - course PDF server",
	Long: "Archiv lists the PDF documents of a directory or bucket and streams them over HTTP.\n" +
		"Without a subcommand it starts the server.",
	SilenceUsage:      true,
	PersistentPreRunE: initializeApp,
	RunE:              runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagDir, "dir", "", "Document directory (overrides DOCUMENT_DIR)")
	rootCmd.Flags().StringVarP(&flagPort, "port", "p", "", "Listen port (overrides PORT)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(versionCmd)
}

// initializeApp loads configuration from the environment and applies flag overrides.
func initializeApp(cmd *cobra.Command, _ []string) error {
	cfg = config.Load()
	if flagPort != "" {
		cfg.Port = flagPort
	}
	if flagDir != "" {
		cfg.Documents.Dir = flagDir
	}
	logger = logging.Stdout(cfg.Location())
	return nil
}

// newStore selects the document backend.
func newStore(c *config.AppConfig, log *logging.Logger) (storage.Storage, error) {
	switch c.Documents.Backend {
	case config.BackendLocal, "":
		return storage.NewLocal(c.Documents.Dir, log), nil
	case config.BackendMinIO:
		return storage.NewMinIO(c.MinIO, log)
	default:
		return nil, fmt.Errorf("unknown document backend %q", c.Documents.Backend)
	}
}
