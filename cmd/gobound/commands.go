package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"unicode"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/reoring/gobound"
	"github.com/reoring/gobound/internal/gen"
)

func newGenCmd(a *app) *cobra.Command {
	var (
		in   inputFlags
		pkg  string
		vars []string
		doc  string
		out  string
		jobs int
	)
	cmd := &cobra.Command{
		Use:   "gen [file...]",
		Short: "Minimize documents and write them as promoted Go variables",
		Long: `gen loads JSON or YAML documents, rebuilds each with the smallest capacity
that fits every level, and renders one Go file declaring

	var <Var> = gobound.Promote(func() (gobound.Value, error) { ... })

per document, built from gobound.MustMap, MustSeq and MustText at exactly
those capacities. A single document is named by --var (default Table);
several are named by repeated --var flags or after their file names.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := in.inputs(args)
			names, err := varNames(inputs, vars)
			if err != nil {
				return err
			}
			values := make([]gobound.Value, len(inputs))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(max(jobs, 1))
			for i, name := range inputs {
				g.Go(func() error {
					_, v, err := a.load(ctx, cmd.InOrStdin(), name, &in)
					values[i] = v
					return err
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			file := gen.File{Package: pkg}
			for i, v := range values {
				d := fmt.Sprintf("%s holds %s.", names[i], gobound.Measure(v))
				if doc != "" && len(values) == 1 {
					d = doc
				}
				file.Vars = append(file.Vars, gen.Var{Name: names[i], Doc: d, Value: v})
			}
			code, err := gen.RenderFile(file)
			if err != nil {
				return err
			}
			if out == "" || out == "-" {
				_, err = cmd.OutOrStdout().Write(code)
				return err
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("creating output dir: %w", err)
			}
			if err := os.WriteFile(out, code, 0o644); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			a.logger.Info("generated", zap.String("file", out), zap.Int("vars", len(file.Vars)), zap.Int("bytes", len(code)))
			return nil
		},
	}
	in.register(cmd)
	cmd.Flags().StringVar(&pkg, "pkg", "main", "package name of the generated file")
	cmd.Flags().StringSliceVar(&vars, "var", nil, "variable name per input, in order (default: Table, or derived from file names)")
	cmd.Flags().StringVar(&doc, "doc", "", "doc comment of the generated variable (single input only)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.GOMAXPROCS(0), "inputs loaded in parallel")
	return cmd
}

// varNames pairs every input with a variable name.
func varNames(inputs, vars []string) ([]string, error) {
	stdin := 0
	for _, in := range inputs {
		if in == "-" {
			stdin++
		}
	}
	if stdin > 0 && len(inputs) > 1 {
		return nil, fmt.Errorf("stdin cannot be combined with other inputs")
	}
	switch {
	case len(vars) == len(inputs):
		return vars, nil
	case len(vars) > 0:
		return nil, fmt.Errorf("%d --var names for %d inputs", len(vars), len(inputs))
	case len(inputs) == 1:
		return []string{"Table"}, nil
	}
	names := make([]string, len(inputs))
	seen := make(map[string]string, len(inputs))
	for i, in := range inputs {
		names[i] = identFromFile(in)
		if prev, dup := seen[names[i]]; dup {
			return nil, fmt.Errorf("%s and %s both map to variable %s; name them with --var", prev, in, names[i])
		}
		seen[names[i]] = in
	}
	return names, nil
}

// identFromFile turns "testdata/error-codes.v2.json" into ErrorCodesV2.
func identFromFile(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	var b strings.Builder
	upper := true
	for _, r := range base {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			upper = true
			continue
		}
		if upper {
			r = unicode.ToUpper(r)
			upper = false
		}
		b.WriteRune(r)
	}
	id := b.String()
	if id == "" || !unicode.IsLetter([]rune(id)[0]) {
		id = "T" + id
	}
	return id
}

func newMeasureCmd(a *app) *cobra.Command {
	var in inputFlags
	cmd := &cobra.Command{
		Use:   "measure [file]",
		Short: "Print the size descriptor and the footprint before and after compaction",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs := in.inputs(args)
			if len(inputs) > 1 {
				return fmt.Errorf("measure reads one document, got %d", len(inputs))
			}
			stacked, minimized, err := a.load(cmd.Context(), cmd.InOrStdin(), inputs[0], &in)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			before, after := gobound.Usage(stacked), gobound.Usage(minimized)
			fmt.Fprintf(w, "shape:  %s\n", gobound.Measure(minimized))
			fmt.Fprintf(w, "before: %s\n", footprint(before))
			fmt.Fprintf(w, "after:  %s\n", footprint(after))
			return nil
		},
	}
	in.register(cmd)
	return cmd
}

func footprint(f gobound.Footprint) string {
	return fmt.Sprintf("containers=%d slots=%d used=%d slack=%d", f.Containers, f.Slots, f.Used, f.Slack())
}
