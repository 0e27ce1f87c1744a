package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/koscakluka/ema-translate/core/backend"
	"github.com/koscakluka/ema-translate/core/messages"
	"github.com/koscakluka/ema-translate/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var configPath string

	root := &cobra.Command{
		Use:           config.AppName,
		Short:         "Practice conversations in another language",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := root.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "config file (default ./config.yaml, then the user config dir)")
	flags.String("backend-url", backend.DefaultBaseURL, "backend base URL")
	flags.Duration("timeout", 0, "per request timeout, 0 disables it")
	bindFlags(v, flags, map[string]string{
		"backend.base_url": "backend-url",
		"backend.timeout":  "timeout",
	})

	root.AddCommand(newChatCmd(v, &configPath))
	root.AddCommand(newSummaryCmd(v, &configPath))
	root.AddCommand(newHistoryCmd(v, &configPath))
	root.AddCommand(newContractCmd())
	return root
}

// bindFlags binds each config key to its flag. A flag only wins over the
// file and the environment when it was set explicitly.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet, keys map[string]string) {
	for key, name := range keys {
		_ = v.BindPFlag(key, flags.Lookup(name))
	}
}

func newBackendClient(cfg *config.Config) *backend.Client {
	return backend.NewClient(
		backend.WithBaseURL(cfg.Backend.BaseURL),
		backend.WithTimeout(cfg.Backend.Timeout),
	)
}

func newSummaryCmd(v *viper.Viper, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "summary <session-id>",
		Short: "Print the summary of a conversation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, *configPath)
			if err != nil {
				return err
			}
			summary, err := newBackendClient(cfg).FetchSummary(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), summary.Summary)
			return nil
		},
	}
}

func newHistoryCmd(v *viper.Viper, configPath *string) *cobra.Command {
	var all bool

	history := &cobra.Command{
		Use:   "history <session-id>",
		Short: "Print the conversation history kept by the backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(v, *configPath)
			if err != nil {
				return err
			}
			entries, err := newBackendClient(cfg).FetchHistory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), entries, all)
			return nil
		},
	}
	history.Flags().BoolVar(&all, "all", false, "include the objective entry and blank replies")

	history.AddCommand(&cobra.Command{
		Use:   "delete <session-id> <entry-id>",
		Short: "Delete one history entry",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			entryID, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid entry id %q: %w", args[1], err)
			}
			cfg, err := config.Load(v, *configPath)
			if err != nil {
				return err
			}
			if err := newBackendClient(cfg).DeleteHistoryEntry(cmd.Context(), args[0], entryID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted entry %d\n", entryID)
			return nil
		},
	})
	return history
}

// printHistory renders backend entries the way the conversation shows them.
// Unless all is set the leading objective entry and blank assistant replies
// are skipped.
func printHistory(w io.Writer, entries []backend.HistoryEntry, all bool) {
	if !all && len(entries) > 0 {
		entries = entries[1:]
	}
	if len(entries) == 0 {
		_, _ = fmt.Fprintln(w, "no messages")
		return
	}
	for _, entry := range entries {
		message := messages.FromRole(messages.Role(entry.Role), entry.Content)
		if !all && len(messages.Visible([]messages.Message{message})) == 0 {
			continue
		}
		if entry.Timestamp != "" {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", entry.Timestamp, message.Label(), message.Text)
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\n", message.Label(), message.Text)
	}
}

func newContractCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "contract",
		Short: "Print JSON Schemas of every backend request and response",
		RunE: func(cmd *cobra.Command, _ []string) error {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(backend.ContractSchemas())
		},
	}
}
