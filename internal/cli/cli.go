package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/690486439/Orchard2/internal/app"
	"github.com/690486439/Orchard2/internal/config"
	"github.com/690486439/Orchard2/internal/placement"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

type rootOptions struct {
	configPath        string
	extensionsPath    string
	logLevel          string
	logFormat         string
	disableMonitoring bool
}

// Execute runs the command line with args. Results go to outW, logs to errW.
func Execute(ctx context.Context, args []string, outW, errW io.Writer, loader config.Loader) error {
	root := NewRootCommand(outW, errW, loader)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the orchard command tree.
func NewRootCommand(outW, errW io.Writer, loader config.Loader) *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "orchard",
		Short: "Inspect and render the shapes of an Orchard host",
		Long: `Orchard discovers shape templates and placement rules across the enabled
extensions of each shell, and renders shapes through them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError(err) })

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "orchard.hcl", "Path to the host configuration file.")
	flags.StringVar(&opts.extensionsPath, "extensions-path", "", "Directory holding Modules and Themes. Overrides the configuration file.")
	flags.StringVar(&opts.logLevel, "log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log output format. Options: 'text' or 'json'.")
	flags.BoolVar(&opts.disableMonitoring, "disable-monitoring", false, "Do not watch extension directories for changes.")

	root.AddCommand(
		newShapesCommand(opts, errW, loader),
		newFeaturesCommand(opts, errW, loader),
		newRenderCommand(opts, errW, loader),
		newPlacementCommand(),
	)
	return root
}

// openApp validates the global options and starts an App.
func openApp(ctx context.Context, opts *rootOptions, errW io.Writer, loader config.Loader) (*app.App, error) {
	cfg, err := app.NewConfig(app.Config{
		ConfigPath:        opts.configPath,
		ExtensionsPath:    opts.extensionsPath,
		LogLevel:          opts.logLevel,
		LogFormat:         opts.logFormat,
		DisableMonitoring: opts.disableMonitoring,
	})
	if err != nil {
		return nil, usageError(err)
	}
	return app.NewApp(ctx, errW, cfg, loader)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}

func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func newShapesCommand(opts *rootOptions, errW io.Writer, loader config.Loader) *cobra.Command {
	var shellName string
	cmd := &cobra.Command{
		Use:   "shapes",
		Short: "List the shape bindings of a shell",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), opts, errW, loader)
			if err != nil {
				return err
			}
			defer a.Close()

			bindings, err := a.DescribeShapes(shellName)
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), bindings)
		},
	}
	cmd.Flags().StringVarP(&shellName, "shell", "s", "", "Shell to inspect. Defaults to the first configured shell.")
	return cmd
}

func newFeaturesCommand(opts *rootOptions, errW io.Writer, loader config.Loader) *cobra.Command {
	var shellName string
	cmd := &cobra.Command{
		Use:   "features",
		Short: "List the enabled features of a shell in dependency order",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), opts, errW, loader)
			if err != nil {
				return err
			}
			defer a.Close()

			features, err := a.DescribeFeatures(shellName)
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), features)
		},
	}
	cmd.Flags().StringVarP(&shellName, "shell", "s", "", "Shell to inspect. Defaults to the first configured shell.")
	return cmd
}

func newRenderCommand(opts *rootOptions, errW io.Writer, loader config.Loader) *cobra.Command {
	var (
		shellName string
		props     map[string]string
		pctx      placement.Context
	)
	cmd := &cobra.Command{
		Use:   "render SHAPE_TYPE",
		Short: "Render a shape to standard output",
		Example: `  orchard render Parts_Title --set title="Hello" --display-type Summary
  orchard render Content --shell Blog --content-type BlogPost`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts, errW, loader)
			if err != nil {
				return err
			}
			defer a.Close()

			properties := make(map[string]any, len(props))
			for k, v := range props {
				properties[k] = v
			}
			_, err = a.Render(cmd.OutOrStdout(), app.RenderRequest{
				Shell:      shellName,
				ShapeType:  args[0],
				Properties: properties,
				Placement:  pctx,
			})
			return err
		},
	}
	f := cmd.Flags()
	f.StringVarP(&shellName, "shell", "s", "", "Shell to render in. Defaults to the first configured shell.")
	f.StringToStringVar(&props, "set", nil, "Shape properties as key=value pairs.")
	f.StringVar(&pctx.DisplayType, "display-type", "", "Display type used for placement, e.g. Summary.")
	f.StringVar(&pctx.ContentType, "content-type", "", "Content type used for placement.")
	f.StringVar(&pctx.Differentiator, "differentiator", "", "Differentiator used for placement.")
	f.StringVar(&pctx.Path, "path", "", "Request path used for placement.")
	return cmd
}

func newPlacementCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "placement FILE",
		Short: "Parse a Placement.info file and print its rule tree",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := app.DescribePlacementFile(args[0])
			if err != nil {
				var pe *placement.ParseError
				if errors.As(err, &pe) {
					return &ExitError{Code: 3, Message: strings.TrimSpace(err.Error())}
				}
				return fmt.Errorf("placement: %w", err)
			}
			return writeYAML(cmd.OutOrStdout(), nodes)
		},
	}
}
