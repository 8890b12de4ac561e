package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/syntrixbase/esreport/internal/render"
	"github.com/syntrixbase/esreport/pkg/model"
	"gopkg.in/yaml.v3"
)

func newRunCmd(opts *rootOptions) *cobra.Command {
	var (
		specPath string
		format   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Generate one report and write it to stdout",
		Long: `Generate one report from a query spec file and write the table to stdout.
The spec is YAML or JSON; use "-" to read it from stdin.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderer, err := render.ForFormat(format)
			if err != nil {
				return err
			}
			spec, err := readSpec(specPath, cmd.InOrStdin())
			if err != nil {
				return err
			}

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			result, err := a.reports.Process(ctx, *spec)
			if err != nil {
				return err
			}

			// Render fully before writing so a failure leaves stdout empty.
			var buf bytes.Buffer
			if err := renderer.Render(&buf, result.Table); err != nil {
				return fmt.Errorf("failed to render report: %w", err)
			}
			_, err = buf.WriteTo(cmd.OutOrStdout())
			return err
		},
	}

	cmd.Flags().StringVarP(&specPath, "spec", "s", "", "query spec file (YAML or JSON), - for stdin")
	cmd.Flags().StringVarP(&format, "format", "f", string(render.FormatText), "output format: text, html or json")
	_ = cmd.MarkFlagRequired("spec")
	return cmd
}

// readSpec decodes a query spec. YAML is a superset of JSON so one decoder covers both.
func readSpec(path string, stdin io.Reader) (*model.QuerySpec, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read spec: %w", err)
	}

	var spec model.QuerySpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("failed to parse spec: %w", err)
	}
	return &spec, nil
}
