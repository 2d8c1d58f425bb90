// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootFlags holds the persistent flags shared by all commands.
type rootFlags struct {
	configPath string
	mode       string
	plain      bool
	logLevel   string
	logFile    string
}

// Execute runs the root command until it returns or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	f := &rootFlags{}

	root := &cobra.Command{
		Use:   "gsoc-trainer",
		Short: "Practise GSOC radio and phone communication against a role-playing model",
		Long: `gsoc-trainer role-plays a site security officer on the radio, or a caller
on the GSOC phone line. Type your transmissions as the GSOC operator; type
"Done." to receive feedback on your communication.

The API key is read from OPENAI_API_KEY (or cloud.api_key_env in the config
file), and .env files in the working and config directories are honoured.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDefault(cmd, f)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "", "config file (default ~/.gsoc-trainer/config.toml)")
	pf.StringVarP(&f.mode, "mode", "m", "", "scenario mode: radio or phone (default: ask)")
	pf.BoolVar(&f.plain, "plain", false, "line mode without color")
	pf.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&f.logFile, "log-file", "", `log file, or "-" for stderr`)

	root.AddCommand(
		newTUICommand(f),
		newChatCommand(f),
		newConfigCommand(f),
		newVersionCommand(),
	)
	return root
}

func runDefault(cmd *cobra.Command, f *rootFlags) error {
	if f.plain || !IsTTY() || !IsStdoutTTY() {
		return runChat(cmd, f)
	}
	return runTUI(cmd, f)
}

func newTUICommand(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Start the full-screen trainer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, f)
		},
	}
}

func newChatCommand(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the line-mode trainer",
		Example: `  gsoc-trainer chat
  gsoc-trainer chat --mode phone
  gsoc-trainer chat --plain --log-file -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, f)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "gsoc-trainer %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
		},
	}
}
