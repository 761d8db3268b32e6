package commands

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/jceal/stormwater-classifier/internal/classifier"
)

// NewReplCommand creates the repl command.
func NewReplCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Classify descriptions interactively",
		Long: `Start an interactive session that classifies each entered project
description. Dot-commands control the session; everything else is
treated as a description.`,
		RunE: runRepl,
	}
}

func runRepl(cmd *cobra.Command, _ []string) error {
	cc, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	clf, err := cc.Classifier()
	if err != nil {
		return fmt.Errorf("failed to load models: %w", err)
	}

	// History lives next to the state database.
	historyFile := filepath.Join(filepath.Dir(cc.Cfg.StatePath), "repl_history")

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "stormwater> ",
		HistoryFile:     historyFile,
		AutoComplete:    replCompleter(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "stormwater classifier REPL (models: %s)\n", cc.Cfg.ModelsDir)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Type .help for commands, .quit to exit")
	_, _ = fmt.Fprintln(cmd.OutOrStdout())

	explain := false
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, ".") {
			quit := handleReplCommand(cmd, line, &explain)
			if quit {
				break
			}
			continue
		}

		labels, inter, err := clf.ClassifyWithExplanation(line)
		if err != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
			continue
		}
		printReplResult(cmd.OutOrStdout(), labels, inter, explain)
		_, _ = fmt.Fprintln(cmd.OutOrStdout())
	}

	return nil
}

func handleReplCommand(cmd *cobra.Command, line string, explain *bool) (quit bool) {
	switch strings.ToLower(strings.Fields(line)[0]) {
	case ".quit", ".exit":
		return true

	case ".help":
		printReplHelp(cmd.OutOrStdout())

	case ".explain":
		*explain = !*explain
		state := "off"
		if *explain {
			state = "on"
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "explain mode %s\n", state)

	case ".clear":
		fmt.Print("\033[H\033[2J")

	default:
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Unknown command: %s (type .help for commands)\n", line)
	}
	return false
}

func printReplResult(w io.Writer, labels classifier.Labels, inter classifier.Intermediates, explain bool) {
	var active []string
	for _, l := range []struct {
		name string
		on   bool
	}{
		{"ESC", labels.ESC},
		{"WQ", labels.WQ},
		{"RR", labels.RR},
		{"Vv", labels.Vv},
	} {
		if l.on {
			active = append(active, l.name)
		}
	}
	if labels.NNIRequired() {
		active = append(active, "NNI("+strings.Join(labels.NNI, ",")+")")
	}

	if len(active) == 0 {
		_, _ = fmt.Fprintln(w, "No permit requirements triggered")
	} else {
		_, _ = fmt.Fprintf(w, "Requirements: %s\n", strings.Join(active, " "))
	}

	if explain {
		_, _ = fmt.Fprintf(w, "  disturb_20000_sf=%t new_imp=%t new_imp_5000_sf=%t table_2_2_activity=%t in_ms4=%t\n",
			inter.Disturb20000SF, inter.NewImp, inter.NewImp5000SF, inter.Table22Activity, inter.InMS4)
	}
}

func printReplHelp(w io.Writer) {
	help := `
Commands:
  .help      Show this help message
  .explain   Toggle printing of intermediate rule inputs
  .clear     Clear the screen
  .quit      Exit the REPL

Anything else is classified as a project description.
`
	_, _ = fmt.Fprintln(w, help)
}

func replCompleter() *readline.PrefixCompleter {
	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".explain"),
		readline.PcItem(".clear"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}
