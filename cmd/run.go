package cmd

import (
	"fmt"
	"os"

	"github.com/abhisek/disha/internal/app"
	"github.com/abhisek/disha/internal/dialogue"
	"github.com/abhisek/disha/internal/llm"
	"github.com/abhisek/disha/internal/logging"
	"github.com/abhisek/disha/internal/speech"
	"github.com/abhisek/disha/internal/store"
	"github.com/spf13/cobra"
)

// runApp opens the store, builds dependencies, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	log, err := logging.New()
	if err != nil {
		log = logging.Nop()
	}
	defer log.Sync()

	provider, err := llm.NewProviderFromEnv(ctx, st.EventRepo())
	if err != nil {
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Guidance turns will be unavailable until an API key is set.")
		provider = llm.NewMockProvider()
	}

	capture := speech.NewCapture(ctx, log)
	if capture != nil {
		defer capture.Close()
	}

	return app.Run(app.Options{
		Controller: dialogue.New(provider, log),
		Speaker:    speech.NewSpeaker(log),
		Capture:    capture,
	})
}
