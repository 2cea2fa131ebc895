package terminal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/farm-insights/pkg/runtime/bootstrap"
	"github.com/de-tools/farm-insights/pkg/runtime/terminal/commands"
	"github.com/de-tools/farm-insights/pkg/runtime/terminal/export"
	"github.com/de-tools/farm-insights/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// AppFactory builds the application from a settings file path.
type AppFactory func(ctx context.Context, configPath string) (*bootstrap.App, error)

// CLI represents the command-line interface
type CLI struct {
	factory    AppFactory
	output     io.Writer
	configPath string
	format     string
	rootCmd    *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Factory AppFactory // defaults to DefaultFactory
	Output  io.Writer
	Logger  *zerolog.Logger
}

func DefaultFactory(ctx context.Context, configPath string) (*bootstrap.App, error) {
	settings, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(ctx, settings)
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Factory == nil {
		opts.Factory = DefaultFactory
	}

	cli := &CLI{
		factory: opts.Factory,
		output:  opts.Output,
	}

	cli.rootCmd = cli.newRootCmd(opts.Logger)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd(logger *zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "insights",
		Short:         "Farm cost analysis and yield prediction",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cli.format != export.FormatText && cli.format != export.FormatJSON {
				return fmt.Errorf("unsupported output format %q", cli.format)
			}
			if logger != nil {
				cmd.SetContext(logger.WithContext(cmd.Context()))
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&cli.configPath, "config", "c", "", "Path to the settings file (yaml)")
	cmd.PersistentFlags().StringVarP(&cli.format, "output", "o", export.FormatText, "Output format: text or json")

	load := func(ctx context.Context) (*bootstrap.App, error) {
		return cli.factory(ctx, cli.configPath)
	}
	reporter := func() *export.Reporter {
		return export.NewReporter(cli.output, cli.format)
	}

	cmd.AddCommand(commands.NewAnalyzeCmd(load, reporter))
	cmd.AddCommand(commands.NewPredictCmd(load, reporter))
	cmd.AddCommand(commands.NewSchemasCmd(reporter))
	cmd.AddCommand(commands.NewAttemptsCmd(load, reporter))

	return cmd
}
