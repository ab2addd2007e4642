package graph

// This is the driver for the scan phase. Every module is processed by its own
// goroutine from start to finish: read, parse, preprocess and scan. Modules
// share nothing except the options (which are read-only), the log and the
// metrics, so the per-module pipeline needs no locking.

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/fs"
	"github.com/yuusheng/rolldown/internal/helpers"
	"github.com/yuusheng/rolldown/internal/js_parser"
	"github.com/yuusheng/rolldown/internal/logger"
	"github.com/yuusheng/rolldown/internal/preprocess"
	"github.com/yuusheng/rolldown/internal/scanner"
)

var tracer = otel.Tracer("github.com/yuusheng/rolldown/internal/graph")

type Graph struct {
	// Identifies one run in traces and logs
	RunID string

	// In the same order as the paths passed to "ScanModules"
	Modules []Module
}

func (g *Graph) HasErrors() bool {
	for i := range g.Modules {
		if g.Modules[i].Failed {
			return true
		}
	}
	return false
}

type ScanArgs struct {
	FS      fs.FS
	Log     logger.Log
	Options *config.Options

	// Optional
	Metrics *Metrics

	// Used for every module instead of the loader for the file extension
	Loader config.Loader
}

// ScanModules processes every path concurrently. Problems in a module's
// source (syntax errors, unsupported syntax, scan errors) are reported in
// that module's messages and don't stop the other modules. The returned
// error is only for files that can't be read and for cancellation.
func ScanModules(ctx context.Context, args ScanArgs, paths []string) (*Graph, error) {
	options := args.Options
	if options == nil {
		defaults := config.DefaultOptions()
		options = &defaults
	}

	g := &Graph{
		RunID:   uuid.NewString(),
		Modules: make([]Module, len(paths)),
	}

	ctx, span := tracer.Start(ctx, "ScanModules", trace.WithAttributes(
		attribute.String("rolldown.run_id", g.RunID),
		attribute.Int("rolldown.modules", len(paths)),
	))
	defer span.End()

	parallelism := options.Parallelism
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallelism)

	for i, path := range paths {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			return scanModule(groupCtx, args, options, uint32(i), path, &g.Modules[i])
		})
	}

	if err := group.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if g.HasErrors() {
		span.SetStatus(codes.Error, "one or more modules failed")
	}
	return g, nil
}

func scanModule(ctx context.Context, args ScanArgs, options *config.Options, index uint32, path string, module *Module) (err error) {
	ctx, span := tracer.Start(ctx, "scanModule", trace.WithAttributes(attribute.String("rolldown.path", path)))
	defer span.End()

	contents, readErr := args.FS.ReadFile(path)
	if readErr != nil {
		span.RecordError(readErr)
		span.SetStatus(codes.Error, "read failed")
		return fmt.Errorf("read %s: %w", path, readErr)
	}

	module.Source = logger.Source{
		Index:      index,
		KeyPath:    path,
		PrettyPath: prettyPath(args.FS, path),
		Contents:   contents,
	}
	module.Loader = args.Loader
	if module.Loader == config.LoaderNone {
		module.Loader = config.LoaderFromExtension(args.FS.Ext(path))
	}
	span.SetAttributes(attribute.String("rolldown.loader", module.Loader.String()))

	args.Metrics.begin()
	moduleLog := logger.NewDeferLog(options.LogLevel)
	timer := &helpers.Timer{}

	defer func() {
		if r := recover(); r != nil {
			moduleLog.AddError(nil, logger.Range{},
				fmt.Sprintf("panic: %v (while scanning %q)\n%s", r, module.Source.PrettyPath, helpers.PrettyPrintedStack()))
			module.Failed = true
			err = nil
		}

		module.Msgs = moduleLog.Done()
		module.Stages = timer.Durations()
		for _, msg := range module.Msgs {
			args.Log.AddMsg(msg)
		}
		if module.Failed {
			span.SetStatus(codes.Error, "module failed")
		}
		args.Metrics.end(module)
		timer.Log(args.Log, fmt.Sprintf("Timing for %s:", module.Source.PrettyPath))
	}()

	if module.Loader == config.LoaderNone {
		moduleLog.AddError(nil, logger.Range{}, fmt.Sprintf("No loader is configured for %q", module.Source.PrettyPath))
		module.Failed = true
		return nil
	}

	timer.Begin("Parse")
	tree, parseErr := js_parser.Parse(ctx, moduleLog, module.Source, module.Loader)
	timer.End("Parse")
	if parseErr != nil {
		if errors.Is(parseErr, js_parser.ErrSyntax) {
			module.Failed = true
			return nil
		}
		return parseErr
	}

	timer.Begin("Preprocess")
	tree, semantic, buildErr := preprocess.NewPreProcessor(timer).Build(moduleLog, &module.Source, tree, module.Loader, options)
	timer.End("Preprocess")
	if buildErr != nil {
		// The messages were already logged
		var transformErr *preprocess.TransformError
		if errors.As(buildErr, &transformErr) {
			module.Failed = true
			return nil
		}
		return buildErr
	}

	timer.Begin("Scan")
	result := scanner.Scan(&module.Source, tree, &semantic, options)
	timer.End("Scan")
	for _, msg := range result.Errors {
		moduleLog.AddMsg(msg)
	}
	for _, msg := range result.Warnings {
		moduleLog.AddMsg(msg)
	}

	module.AST = tree
	module.Semantic = semantic
	module.Scan = result
	module.Meta = computeMeta(result)
	module.Failed = len(result.Errors) > 0

	span.SetAttributes(
		attribute.Int("rolldown.statements", len(result.StmtInfos)),
		attribute.Int("rolldown.import_records", len(result.ImportRecords)),
		attribute.String("rolldown.exports_kind", module.Meta.ExportsKind.String()),
	)
	return nil
}

// Paths in messages are relative to the working directory when the file is
// inside it, and always use forward slashes
func prettyPath(fsys fs.FS, path string) string {
	if abs, ok := fsys.Abs(path); ok {
		if rel, ok := fsys.Rel(fsys.Cwd(), abs); ok && rel != ".." && !strings.HasPrefix(rel, "../") && !strings.HasPrefix(rel, "..\\") {
			path = rel
		}
	}
	return strings.ReplaceAll(path, "\\", "/")
}
