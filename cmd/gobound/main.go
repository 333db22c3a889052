// Command gobound minimizes JSON and YAML tables and emits them as Go source.
//
//	gobound gen -i table.json --pkg tables --var Table -o table_gen.go
//	gobound measure table.yaml
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/reoring/gobound"
	"github.com/reoring/gobound/source"
)

// inputFlags are shared by every command that reads a document.
type inputFlags struct {
	in         string
	format     string
	jsonDriver string
	numbers    string
	dup        string
	bound      int
	maxDepth   int
	maxBytes   int64
	sel        string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVarP(&f.in, "in", "i", "", "input file, read before any argument (default: stdin)")
	fs.StringVar(&f.format, "format", "auto", "input format: auto, json, yaml")
	fs.StringVar(&f.jsonDriver, "json-driver", "", "JSON driver: go-json, encoding/json (default: go-json)")
	fs.StringVar(&f.numbers, "numbers", "int", "number mode: json (keep text), float, int (int64 when integral)")
	fs.StringVar(&f.dup, "dup", "warn", "duplicate keys: ignore, warn, error")
	fs.IntVar(&f.bound, "bound", gobound.DefaultBound, "capacity of every container before compaction")
	fs.IntVar(&f.maxDepth, "max-depth", 0, "maximum nesting depth (0: unlimited)")
	fs.Int64Var(&f.maxBytes, "max-bytes", 0, "maximum input size in bytes (0: unlimited)")
	fs.StringVar(&f.sel, "select", "", "JSON Pointer of the part of the document to use")
}

type app struct {
	verbose bool
	logger  *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop()}
	root := &cobra.Command{
		Use:           "gobound",
		Short:         "Right-size nested tables and emit them as static Go data",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if a.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.logger = logger
			gobound.SetLogger(logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	root.AddCommand(newGenCmd(a), newMeasureCmd(a))
	return root
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "gobound:", err)
		os.Exit(1)
	}
}

// inputs lists the documents a command reads: -i, then the arguments, or
// stdin ("-") when neither names one.
func (f *inputFlags) inputs(args []string) []string {
	var names []string
	if f.in != "" {
		names = append(names, f.in)
	}
	names = append(names, args...)
	if len(names) == 0 {
		names = []string{"-"}
	}
	return names
}

// load reads one document (stdin for "-") and minimizes it.
func (a *app) load(ctx context.Context, stdin io.Reader, name string, f *inputFlags) (stacked, minimized gobound.Value, err error) {
	opt, err := f.options(a.logger)
	if err != nil {
		return gobound.Value{}, gobound.Value{}, err
	}
	var doc any
	if name == "-" {
		doc, err = source.Load(ctx, stdin, opt)
	} else {
		doc, err = source.LoadFile(ctx, name, opt)
	}
	if err != nil {
		return gobound.Value{}, gobound.Value{}, err
	}
	bo := gobound.Options{Bound: f.bound, MaxDepth: f.maxDepth}
	stacked, err = gobound.StackifyWith(doc, bo)
	if err != nil {
		return gobound.Value{}, gobound.Value{}, withInput(name, err)
	}
	shape := gobound.Measure(stacked)
	minimized, err = gobound.Compact(shape, stacked)
	if err != nil {
		return gobound.Value{}, gobound.Value{}, withInput(name, err)
	}
	a.logger.Debug("loaded",
		zap.String("input", name),
		zap.Stringer("shape", shape),
		zap.Int("slots_before", gobound.Usage(stacked).Slots),
		zap.Int("slots_after", gobound.Usage(minimized).Slots))
	return stacked, minimized, nil
}

func withInput(name string, err error) error {
	if name == "-" {
		return err
	}
	return fmt.Errorf("%s: %w", name, err)
}

func (f *inputFlags) options(logger *zap.Logger) (source.Options, error) {
	format, err := source.ParseFormat(f.format)
	if err != nil {
		return source.Options{}, err
	}
	opt := source.Options{Format: format, MaxDepth: f.maxDepth, MaxBytes: f.maxBytes, Select: f.sel}
	if f.jsonDriver != "" {
		d, err := source.DriverByName(f.jsonDriver)
		if err != nil {
			return source.Options{}, err
		}
		opt.JSONDriver = d
	}
	switch f.numbers {
	case "json":
		opt.NumberMode = source.NumberJSONNumber
	case "float":
		opt.NumberMode = source.NumberFloat64
	case "int":
		opt.NumberMode = source.NumberInt64OrFloat64
	default:
		return source.Options{}, fmt.Errorf("unknown number mode %q", f.numbers)
	}
	switch f.dup {
	case "ignore":
		opt.OnDuplicateKey = source.Ignore
	case "warn":
		opt.OnDuplicateKey = source.Warn
	case "error":
		opt.OnDuplicateKey = source.Error
	default:
		return source.Options{}, fmt.Errorf("unknown duplicate key policy %q", f.dup)
	}
	opt.OnIssue = func(is source.Issue) {
		logger.Warn("input issue", zap.String("code", is.Code), zap.String("path", is.Path), zap.String("message", is.Message), zap.Int64("offset", is.Offset))
	}
	return opt, nil
}
