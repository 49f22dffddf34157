// Package commands implements the CLI commands for compdb.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/compdb/internal/app"
	"go.trai.ch/compdb/internal/build"
	"go.trai.ch/compdb/internal/core/domain"
	"go.trai.ch/zerr"
)

// Log formats accepted by --log-format.
const (
	LogFormatPretty = "pretty"
	LogFormatJSON   = "json"
)

// CLI represents the command line interface for compdb.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Generate(ctx context.Context, opts app.GenerateOptions) (app.Result, error)
	Watch(ctx context.Context, opts app.GenerateOptions) error
	Targets() []domain.Target
	ConfigureLogging(jsonMode, verbose bool)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:   "compdb [target]",
		Short: "Generate compile_commands.json for an AROS source tree",
		Long: "Generate a clang compilation database for an AROS source tree.\n\n" +
			"The target is taken from the argument, the target key of " + domain.ConfigFileName +
			",\nthe first build found below bin/, or defaults to " + domain.DefaultTargetName + ".",
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		Version:           build.Version,
		PersistentPreRunE: c.configureLogging,
		RunE:              c.runGenerate,
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

	rootCmd.Flags().StringP("root", "r", ".", "Project root of the AROS source tree")
	rootCmd.Flags().String("build-base", "", "Directory holding per-target build outputs (default <root>/../abiv1/bin)")
	rootCmd.Flags().StringP("output", "o", "", "Output file, relative paths resolve against the root (default <root>/"+domain.OutputFileName+")")
	rootCmd.Flags().BoolP("watch", "w", false, "Regenerate when source files are added, removed or renamed")
	rootCmd.PersistentFlags().String("log-format", LogFormatPretty, "Log format: pretty or json")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Show debug messages including phase timings")

	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.newTargetsCmd())
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

func (c *CLI) configureLogging(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("log-format")
	verbose, _ := cmd.Flags().GetBool("verbose")

	switch format {
	case LogFormatPretty, LogFormatJSON:
	default:
		return zerr.With(zerr.New("invalid log format"), "log_format", format)
	}

	c.app.ConfigureLogging(format == LogFormatJSON, verbose)
	return nil
}

func (c *CLI) runGenerate(cmd *cobra.Command, args []string) error {
	root, _ := cmd.Flags().GetString("root")
	buildBase, _ := cmd.Flags().GetString("build-base")
	output, _ := cmd.Flags().GetString("output")
	watch, _ := cmd.Flags().GetBool("watch")

	opts := app.GenerateOptions{
		Root:      root,
		BuildBase: buildBase,
		Output:    output,
	}
	if len(args) == 1 {
		opts.Target = args[0]
	}

	if watch {
		return c.app.Watch(cmd.Context(), opts)
	}

	if _, err := c.app.Generate(cmd.Context(), opts); err != nil {
		return err
	}

	return renderNextSteps(cmd.OutOrStdout(), c.rootCmd.Name())
}
