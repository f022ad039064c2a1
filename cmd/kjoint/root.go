package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/birdayz/kjoint/kgraph"
	"github.com/birdayz/kjoint/khcl"
	"github.com/birdayz/kjoint/kjoint"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	logLevel  string
	logFormat string

	log      *slog.Logger
	jointLog kjoint.Option
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "kjoint",
		Short: "Resolve and sample named joint models.",
		Long: `Resolve and sample named joint models.

Models are HCL files of producer blocks. Each producer names the value it
yields; the variables its expression refers to are its dependencies.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			log, jointLog, err := newLogger(stderr, opts.logLevel, opts.logFormat)
			if err != nil {
				return err
			}
			opts.log, opts.jointLog = log, jointLog
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn or error.")
	root.PersistentFlags().StringVar(&opts.logFormat, "log-format", "tint", "Log format: tint, text, json or console.")

	root.AddCommand(newResolveCommand(opts), newSampleCommand(opts))
	return root
}

// load reads the model files and resolves them.
func (o *rootOptions) load(cmd *cobra.Command, paths []string) (*kjoint.Joint, error) {
	m, err := khcl.NewLoader(khcl.WithLog(o.log)).Load(cmd.Context(), paths...)
	if err != nil {
		return nil, err
	}
	return kjoint.New(m, o.jointLog)
}

type resolvedEntry struct {
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Args    []string `json:"args,omitempty"`
	Offsets []string `json:"offsets,omitempty"`
}

func newResolveCommand(opts *rootOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "resolve FILE...",
		Short: "Print the resolved evaluation order of a model.",
		Long: `Print the resolved evaluation order of a model.

Each line shows a producer and, for producers with dependencies, the trailing
window it reads, newest first. Underscores mark positions it skips.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := opts.load(cmd, args)
			if err != nil {
				return err
			}

			resolved := j.Resolved()
			switch output {
			case "text":
				for i, e := range resolved {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", i, e)
				}
				return nil
			case "json":
				out := make([]resolvedEntry, len(resolved))
				for i, e := range resolved {
					out[i] = resolvedEntry{Name: string(e.Name), Kind: e.Kind.String()}
					for _, a := range e.Args {
						out[i].Args = append(out[i].Args, string(a))
					}
					for _, o := range e.Offsets {
						name := string(o)
						if o == kgraph.Placeholder {
							name = "_"
						}
						out[i].Offsets = append(out[i].Offsets, name)
					}
				}
				return writeJSON(cmd.OutOrStdout(), out)
			default:
				return fmt.Errorf("unknown output format %q", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "text", "Output format: text or json.")
	return cmd
}

func newSampleCommand(opts *rootOptions) *cobra.Command {
	var seed uint64
	cmd := &cobra.Command{
		Use:   "sample FILE...",
		Short: "Draw one joint sample from a model and print it as JSON.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			j, err := opts.load(cmd, args)
			if err != nil {
				return err
			}

			rng := rand.New(rand.NewPCG(seed, seed))
			values, err := j.Sample(cmd.Context(), rng, nil)
			if err != nil {
				return err
			}

			out := make(map[string]any, len(values))
			for name, v := range values {
				c, err := khcl.ToCty(v)
				if err != nil {
					return fmt.Errorf("value of %s: %w", name, err)
				}
				if out[name], err = khcl.ToNative(c); err != nil {
					return fmt.Errorf("value of %s: %w", name, err)
				}
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed of the random source.")
	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
