package api

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/fs"
	"github.com/yuusheng/rolldown/internal/graph"
	"github.com/yuusheng/rolldown/internal/logger"
)

func scanImpl(ctx context.Context, paths []string, options ScanOptions) ScanResult {
	realFS := fs.RealFS()
	return scanWithFS(ctx, realFS, realFS, paths, options, config.LoaderNone)
}

func scanSourceImpl(ctx context.Context, contents string, options ScanSourceOptions) ScanResult {
	sourcefile := options.Sourcefile
	if sourcefile == "" {
		sourcefile = "<stdin>"
	}
	fsys := fs.MockFS(map[string]string{sourcefile: contents})
	loader := validateLoader(options.Loader, fsys, sourcefile)
	return scanWithFS(ctx, fsys, fs.RealFS(), []string{sourcefile}, options.ScanOptions, loader)
}

// Roots are expanded into files unless a loader is forced, which is only
// done for source text. The config file is always read from "configFS".
func scanWithFS(ctx context.Context, fsys fs.FS, configFS fs.FS, roots []string, options ScanOptions, loader config.Loader) ScanResult {
	level := logger.LevelInfo
	if options.LogLevel != LogLevelDefault {
		level = validateLogLevel(options.LogLevel)
	}
	log := logger.NewDeferLog(level)

	configOptions, ok := validateOptions(configFS, log, options)
	if !ok {
		return resultFromLog(log)
	}

	paths := roots
	if loader == config.LoaderNone {
		var err error
		paths, err = graph.CollectInputs(fsys, roots, &configOptions)
		if err != nil {
			log.AddError(nil, logger.Range{}, err.Error())
			return resultFromLog(log)
		}
	}

	var metrics *graph.Metrics
	if options.MetricsFile != "" {
		metrics = graph.NewMetrics()
	}

	g, err := graph.ScanModules(ctx, graph.ScanArgs{
		FS:      fsys,
		Log:     log,
		Options: &configOptions,
		Metrics: metrics,
		Loader:  loader,
	}, paths)
	if err != nil {
		log.AddError(nil, logger.Range{}, fmt.Sprintf("Scan failed: %s", err.Error()))
		return resultFromLog(log)
	}

	if metrics != nil {
		if err := prometheus.WriteToTextfile(options.MetricsFile, metrics.Registry); err != nil {
			log.AddError(nil, logger.Range{}, fmt.Sprintf("Failed to write metrics: %s", err.Error()))
		}
	}

	result := resultFromLog(log)
	result.RunID = g.RunID
	result.Modules = make([]Module, len(g.Modules))
	for i := range g.Modules {
		result.Modules[i] = convertModuleToPublic(&g.Modules[i], options.EmitCode)
	}
	return result
}

func resultFromLog(log logger.Log) ScanResult {
	msgs := log.Done()
	return ScanResult{
		Errors:   convertMessagesToPublic(logger.Error, msgs),
		Warnings: convertMessagesToPublic(logger.Warning, msgs),
	}
}

func formatMessagesImpl(msgs []Message, opts FormatMessagesOptions) []string {
	kind := logger.Error
	if opts.Kind == WarningMessage {
		kind = logger.Warning
	}

	strings := make([]string, 0, len(msgs))
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
		strings = append(strings, internal.String(
			logger.OutputOptions{IncludeSource: true},
			logger.TerminalInfo{UseColorEscapes: opts.Color, Width: opts.TerminalWidth}))
	}
	return strings
}
