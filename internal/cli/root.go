// Package cli provides the command-line interface for logdocker.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logdocker/internal/cli/commands"
	"github.com/ccollicutt/logdocker/internal/cli/plugins"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	// Unknown commands may be plugins
	if name, ok := pluginCandidate(rootCmd, os.Args[1:]); ok {
		if pluginPath, err := plugins.FindPlugin(name); err == nil {
			return plugins.Execute(pluginPath, os.Args[2:])
		}
	}

	if err := rootCmd.Execute(); err != nil {
		if name, ok := pluginCandidate(rootCmd, os.Args[1:]); ok {
			_, _ = fmt.Fprintln(os.Stderr, plugins.FormatNotFoundError(name))
			return 2
		}
		// SilenceErrors prevents Cobra from printing this
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return commands.ExitCode
}

// pluginCandidate returns the first argument when it names a command that is
// neither a flag nor a built-in.
func pluginCandidate(rootCmd *cobra.Command, args []string) (string, bool) {
	if len(args) == 0 {
		return "", false
	}
	name := args[0]
	if name == "" || name[0] == '-' {
		return "", false
	}
	if isBuiltinCommand(rootCmd, name) {
		return "", false
	}
	return name, true
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "logdocker",
		Short: "Extract structured records from Portworx logs",
		Long: `logdocker parses syslog-wrapped Portworx log lines into structured records.

Every run writes the full extracted table (CSV, or gzipped CSV for a .gz path)
and can print severity-colored views of it:
  - By level (info, error, warning)
  - By category (aws, storage, cloudsnap, or any configured category)

Lines that do not match the log grammar are dropped. Use "logdocker check"
to see how much of a file would be dropped before extracting it.

PLUGINS:
  logdocker supports plugins for extended functionality. Plugins are standalone
  binaries named logdocker-<command> that are automatically discovered and invoked.

  Plugin locations (searched in order):
    1. Same directory as the logdocker binary
    2. ~/.logdocker/plugins/
    3. Anywhere in PATH

  Available plugins:
    classify    Severity classification of an exported table`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewExtractCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewClassifyCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
