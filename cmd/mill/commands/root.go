// Package commands implements the CLI commands for the mill build tool.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/mill/internal/build"
	"go.trai.ch/mill/internal/core/ports"
)

// DefaultConfig is the pipeline file used when --config is not given.
const DefaultConfig = "mill.yaml"

// Application represents the application logic interface.
type Application interface {
	Run(ctx context.Context, configPath string) error
	Status(ctx context.Context, configPath string, w io.Writer) error
	Hash(configPath string, w io.Writer) error
}

type jsonSwitch interface {
	SetJSON(enable bool)
}

// CLI represents the command line interface for mill.
type CLI struct {
	app     Application
	logger  ports.Logger
	rootCmd *cobra.Command

	configPath string
	jsonLogs   bool
}

// New creates a new CLI instance with the given app. logger is switched to
// JSON output when --json is set.
func New(a Application, logger ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "mill",
		Short:         "A minimal build tool that runs tasks until every output exists",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	c := &CLI{
		app:     a,
		logger:  logger,
		rootCmd: rootCmd,
	}

	rootCmd.PersistentFlags().StringVarP(&c.configPath, "config", "c", DefaultConfig, "Path to the pipeline file")
	rootCmd.PersistentFlags().BoolVar(&c.jsonLogs, "json", false, "Write logs as JSON")
	rootCmd.PersistentPreRun = func(_ *cobra.Command, _ []string) {
		if s, ok := c.logger.(jsonSwitch); ok && c.jsonLogs {
			s.SetJSON(true)
		}
	}

	rootCmd.AddCommand(c.newRunCmd())
	rootCmd.AddCommand(c.newStatusCmd())
	rootCmd.AddCommand(c.newHashCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}
