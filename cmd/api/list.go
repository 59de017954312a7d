package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"archiv/internal/logging"
	"archiv/internal/service"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "Print the listable documents as JSON",
	Long: `Print the documents the server would list, in the same shape as GET /api/pdf/list.

Examples:
  archiv ls
  archiv ls --dir ./pdfs`,
	RunE: runList,
}

func runList(cmd *cobra.Command, _ []string) error {
	// Logs go to stderr so stdout stays valid JSON.
	log := logging.New(cmd.ErrOrStderr(), cfg.Location())
	store, err := newStore(cfg, log)
	if err != nil {
		return err
	}
	docs, err := service.NewDocumentService(store, log).List(cmd.Context())
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(docs)
}
