package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jceal/stormwater-classifier/internal/server"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Addr  string
	Watch bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the classification HTTP API",
		Long: `Serve the classifier over HTTP. With --watch, the model directory
is watched and the classifier is reloaded when model files change.`,
		Example: `  # Serve on the default address
  stormwater serve

  # Serve on all interfaces and reload models on change
  stormwater serve --addr 0.0.0.0:8475 --watch`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Addr, "addr", "a", "", "Listen address (default from configuration)")
	cmd.Flags().BoolVar(&opts.Watch, "watch", false, "Reload models when files in the models directory change")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	clf, err := cc.Classifier()
	if err != nil {
		return fmt.Errorf("failed to load models: %w", err)
	}

	addr := opts.Addr
	if addr == "" {
		addr = cc.Cfg.Serve.Addr
	}
	watch := opts.Watch || cc.Cfg.Serve.Watch

	srv := server.NewServer(server.Config{
		Classifier: clf,
		Store:      cc.Store,
		Addr:       addr,
		Watch:      watch,
		ModelsDir:  cc.Cfg.ModelsDir,
		Logger:     cc.Logger,
		Reload: func() (server.RowClassifier, error) {
			return cc.Classifier()
		},
	})

	cc.Renderer.Printf("Serving classification API on http://%s\n", addr)
	return srv.Serve(cmd.Context())
}
