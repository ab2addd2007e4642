package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/exitcode"
	"github.com/yuusheng/rolldown/internal/fs"
	"github.com/yuusheng/rolldown/internal/logger"
	"github.com/yuusheng/rolldown/pkg/api"
)

type streams struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	// Nil unless stderr is a real file, which is needed for terminal checks
	stderrFile *os.File
}

type flags struct {
	configFile string
	noConfig   bool

	format      string
	treeShaking bool
	parallelism int
	logLevel    string
	color       string
	errorLimit  int

	jsx             string
	jsxFactory      string
	jsxFragment     string
	jsxImportSource string

	defines []string
	injects []string
	include []string
	exclude []string

	loader     string
	sourcefile string

	print       bool
	metricsFile string
	traceFile   string
	watch       bool
}

func newRootCommand(s streams) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:   "rolldown-scan [files or directories]",
		Short: "Scan JavaScript and TypeScript modules for bundling",
		Long: `Parses each module, applies syntax lowering, defines, injects and dead code
elimination, and then reports everything a bundler needs to link it: import
records, imports and exports, per-statement symbols and side effects, and
CommonJS markers. Results are written to stdout as JSON.

With no arguments the source text is read from stdin.`,
		Example: `  # Scan a project, ignoring test files
  rolldown-scan src --exclude '**/*.test.ts'

  # Show how a file looks after preprocessing
  rolldown-scan --print --define process.env.NODE_ENV='"production"' app.tsx

  # Scan stdin as TypeScript
  rolldown-scan --loader ts < input.ts`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, s, &f, args)
		},
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return exitcode.Set(err, exitcode.Usage)
	})

	flagSet := cmd.Flags()
	flagSet.StringVar(&f.configFile, "config", "", "Read options from this rolldown.toml or rolldown.yaml file (default: look in the current directory)")
	flagSet.BoolVar(&f.noConfig, "no-config", false, "Don't look for a config file")
	flagSet.StringVar(&f.format, "format", "", "Output format the modules are checked against (esm, cjs, iife, umd, preserve)")
	flagSet.BoolVar(&f.treeShaking, "treeshake", true, "Fold constants and remove dead code before scanning")
	flagSet.IntVar(&f.parallelism, "parallelism", 0, "Maximum number of modules processed at once (default: number of CPUs)")
	flagSet.StringVar(&f.logLevel, "log-level", "", "Which messages to show (verbose, info, warning, error, silent)")
	flagSet.StringVar(&f.color, "color", "auto", "Use color in messages (auto, always, never)")
	flagSet.IntVar(&f.errorLimit, "error-limit", 10, "Stop printing errors after this many, 0 for no limit")
	flagSet.StringVar(&f.jsx, "jsx", "", "How JSX is lowered (classic, automatic)")
	flagSet.StringVar(&f.jsxFactory, "jsx-factory", "", "What to use instead of React.createElement")
	flagSet.StringVar(&f.jsxFragment, "jsx-fragment", "", "What to use instead of React.Fragment")
	flagSet.StringVar(&f.jsxImportSource, "jsx-import-source", "", "Where the automatic runtime is imported from (default: react)")
	flagSet.StringArrayVar(&f.defines, "define", nil, "Substitute K with V, written as K=V (repeatable)")
	flagSet.StringArrayVar(&f.injects, "inject", nil, "Bind global G to an import, written as G=path or G=path#export (repeatable)")
	flagSet.StringSliceVar(&f.include, "include", nil, "Only scan files matching these globs inside directories")
	flagSet.StringSliceVar(&f.exclude, "exclude", nil, "Skip files matching these globs inside directories")
	flagSet.StringVar(&f.loader, "loader", "", "Syntax of stdin (js, jsx, ts, tsx)")
	flagSet.StringVar(&f.sourcefile, "sourcefile", "", "Path used for stdin in messages")
	flagSet.BoolVar(&f.print, "print", false, "Print the preprocessed code instead of the scan results")
	flagSet.StringVar(&f.metricsFile, "metrics", "", "Write Prometheus metrics for the scan to this file")
	flagSet.StringVar(&f.traceFile, "trace", "", "Write OpenTelemetry spans for the scan to this file")
	flagSet.BoolVar(&f.watch, "watch", false, "Rescan when files change")

	return cmd
}

func usageError(format string, args ...interface{}) error {
	return exitcode.Set(fmt.Errorf(format, args...), exitcode.Usage)
}

func parseScanOptions(cmd *cobra.Command, f *flags) (api.ScanOptions, error) {
	options := api.ScanOptions{
		Parallelism:     f.parallelism,
		JSXFactory:      f.jsxFactory,
		JSXFragment:     f.jsxFragment,
		JSXImportSource: f.jsxImportSource,
		Include:         f.include,
		Exclude:         f.exclude,
		EmitCode:        f.print,
		MetricsFile:     f.metricsFile,
	}

	switch {
	case f.configFile != "":
		options.ConfigFile = f.configFile
	case !f.noConfig:
		realFS := fs.RealFS()
		if path, ok := config.FindFile(realFS, realFS.Cwd()); ok {
			options.ConfigFile = path
		}
	}

	switch f.format {
	case "":
	case "preserve":
		options.Format = api.FormatPreserve
	case "iife":
		options.Format = api.FormatIIFE
	case "cjs", "commonjs":
		options.Format = api.FormatCommonJS
	case "esm":
		options.Format = api.FormatESModule
	case "umd":
		options.Format = api.FormatUMD
	default:
		return api.ScanOptions{}, usageError("Invalid format: %q (valid: esm, cjs, iife, umd, preserve)", f.format)
	}

	if cmd.Flags().Changed("treeshake") {
		if f.treeShaking {
			options.TreeShaking = api.TreeShakingTrue
		} else {
			options.TreeShaking = api.TreeShakingFalse
		}
	}

	switch f.logLevel {
	case "":
	case "verbose":
		options.LogLevel = api.LogLevelVerbose
	case "info":
		options.LogLevel = api.LogLevelInfo
	case "warning":
		options.LogLevel = api.LogLevelWarning
	case "error":
		options.LogLevel = api.LogLevelError
	case "silent":
		options.LogLevel = api.LogLevelSilent
	default:
		return api.ScanOptions{}, usageError("Invalid log level: %q (valid: verbose, info, warning, error, silent)", f.logLevel)
	}

	switch f.jsx {
	case "":
	case "classic":
		options.JSX = api.JSXClassic
	case "automatic":
		options.JSX = api.JSXAutomatic
	default:
		return api.ScanOptions{}, usageError("Invalid JSX mode: %q (valid: classic, automatic)", f.jsx)
	}

	for _, define := range f.defines {
		equals := strings.IndexByte(define, '=')
		if equals == -1 {
			return api.ScanOptions{}, usageError("Missing \"=\" in define: %q", define)
		}
		if options.Define == nil {
			options.Define = make(map[string]string)
		}
		options.Define[define[:equals]] = define[equals+1:]
	}

	for _, inject := range f.injects {
		equals := strings.IndexByte(inject, '=')
		if equals == -1 {
			return api.ScanOptions{}, usageError("Missing \"=\" in inject: %q", inject)
		}
		item := api.Inject{Name: inject[:equals], Path: inject[equals+1:]}
		if hash := strings.LastIndexByte(item.Path, '#'); hash != -1 {
			item.Path, item.Import = item.Path[:hash], item.Path[hash+1:]
		}
		options.Inject = append(options.Inject, item)
	}

	return options, nil
}

func parseLoader(text string) (api.Loader, error) {
	switch text {
	case "":
		return api.LoaderDefault, nil
	case "js":
		return api.LoaderJS, nil
	case "jsx":
		return api.LoaderJSX, nil
	case "ts":
		return api.LoaderTS, nil
	case "tsx":
		return api.LoaderTSX, nil
	}
	return api.LoaderDefault, usageError("Invalid loader: %q (valid: js, jsx, ts, tsx)", text)
}

// Messages go through the logger so they look the same as everywhere else,
// including the error limit and the summary line
type output struct {
	terminal logger.TerminalInfo
	options  logger.OutputOptions
}

func (s streams) newOutput(f *flags) (output, error) {
	out := output{options: logger.OutputOptions{
		IncludeSource: true,
		ErrorLimit:    f.errorLimit,
		LogLevel:      logger.LevelInfo,
	}}
	if s.stderrFile != nil {
		out.terminal = logger.GetTerminalInfo(s.stderrFile)
	}

	switch f.color {
	case "auto", "":
	case "always":
		out.options.Color = logger.ColorAlways
		out.terminal.UseColorEscapes = logger.SupportsColorEscapes
	case "never":
		out.options.Color = logger.ColorNever
		out.terminal.UseColorEscapes = false
	default:
		return output{}, usageError("Invalid color mode: %q (valid: auto, always, never)", f.color)
	}

	if f.errorLimit < 0 {
		return output{}, usageError("Invalid error limit: %d", f.errorLimit)
	}
	if f.logLevel != "" {
		out.options.LogLevel, _ = logger.ParseLogLevel(f.logLevel)
	}
	return out, nil
}

func (out output) printMessages(w io.Writer, result api.ScanResult) {
	log := logger.NewWriterLog(w, out.terminal, out.options)
	add := func(kind logger.MsgKind, msgs []api.Message) {
		for _, msg := range msgs {
			internal := logger.Msg{Kind: kind, Text: msg.Text}
			if loc := msg.Location; loc != nil {
				internal.Location = &logger.MsgLocation{
					File:     loc.File,
					Line:     loc.Line,
					Column:   loc.Column,
					Length:   loc.Length,
					LineText: loc.LineText,
				}
			}
			log.AddMsg(internal)
		}
	}
	add(logger.Warning, result.Warnings)
	add(logger.Error, result.Errors)
	log.Done()
}

// Spans are written as JSON, one per line
func startTracing(path string) (func(context.Context) error, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, exitcode.Set(fmt.Errorf("create trace file: %w", err), exitcode.IO)
	}
	exporter, err := stdouttrace.New(stdouttrace.WithWriter(file))
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	provider := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(provider)

	return func(ctx context.Context) error {
		err := provider.Shutdown(ctx)
		if closeErr := file.Close(); err == nil {
			err = closeErr
		}
		return err
	}, nil
}

func run(cmd *cobra.Command, s streams, f *flags, args []string) (err error) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	options, err := parseScanOptions(cmd, f)
	if err != nil {
		return err
	}
	out, err := s.newOutput(f)
	if err != nil {
		return err
	}

	if f.traceFile != "" {
		stop, traceErr := startTracing(f.traceFile)
		if traceErr != nil {
			return traceErr
		}
		defer func() {
			if stopErr := stop(context.Background()); stopErr != nil && err == nil {
				err = exitcode.Set(fmt.Errorf("write trace: %w", stopErr), exitcode.IO)
			}
		}()
	}

	// Read from stdin when there are no paths
	if len(args) == 0 {
		if f.watch {
			return usageError("Cannot use --watch without any paths")
		}
		loader, err := parseLoader(f.loader)
		if err != nil {
			return err
		}
		contents, err := io.ReadAll(s.stdin)
		if err != nil {
			return exitcode.Set(fmt.Errorf("read stdin: %w", err), exitcode.IO)
		}
		result := api.ScanSource(ctx, string(contents), api.ScanSourceOptions{
			ScanOptions: options,
			Sourcefile:  f.sourcefile,
			Loader:      loader,
		})
		return s.report(result, f.print, out)
	}

	if f.loader != "" || f.sourcefile != "" {
		return usageError("--loader and --sourcefile only apply to stdin")
	}

	if f.watch {
		err := api.Watch(ctx, args, options, api.WatchOptions{
			OnScan: func(result api.ScanResult) {
				if err := s.report(result, f.print, out); err != nil && !errors.Is(err, errScanFailed) {
					fmt.Fprintf(s.stderr, "%s\n", err.Error())
				}
				fmt.Fprintf(s.stderr, "[watch] scan finished, watching for changes...\n")
			},
		})
		if err != nil {
			return exitcode.Set(err, exitcode.IO)
		}
		return nil
	}

	return s.report(api.Scan(ctx, args, options), f.print, out)
}

var errScanFailed = errors.New("scan failed")

func (s streams) report(result api.ScanResult, emitCode bool, out output) error {
	out.printMessages(s.stderr, result)

	if emitCode {
		for i, module := range result.Modules {
			if module.Failed {
				continue
			}
			if len(result.Modules) > 1 {
				if i > 0 {
					io.WriteString(s.stdout, "\n")
				}
				fmt.Fprintf(s.stdout, "// %s\n", module.Path)
			}
			io.WriteString(s.stdout, module.Code)
		}
	} else {
		encoder := json.NewEncoder(s.stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(result); err != nil {
			return exitcode.Set(fmt.Errorf("write results: %w", err), exitcode.IO)
		}
	}

	if len(result.Errors) > 0 {
		return exitcode.Set(fmt.Errorf("%w with %d error(s)", errScanFailed, len(result.Errors)), exitcode.ModuleErrors)
	}
	return nil
}
