package graph

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuusheng/rolldown/internal/ast"
	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/fs"
	"github.com/yuusheng/rolldown/internal/logger"
)

func scanForTest(t *testing.T, files map[string]string, paths []string, options *config.Options, metrics *Metrics) (*Graph, []logger.Msg, error) {
	t.Helper()
	log := logger.NewDeferLog(logger.LevelInfo)
	g, err := ScanModules(context.Background(), ScanArgs{
		FS:      fs.MockFS(files),
		Log:     log,
		Options: options,
		Metrics: metrics,
	}, paths)
	return g, log.Done(), err
}

func TestScanModulesKeepsInputOrder(t *testing.T) {
	files := map[string]string{
		"/src/a.js":  "import { b } from './b'; export const a = b",
		"/src/b.ts":  "export enum B { X }",
		"/src/c.jsx": "module.exports = <div />",
		"/src/d.js":  "const x = require('./a'); import('./c')",
	}
	paths := []string{"/src/d.js", "/src/c.jsx", "/src/b.ts", "/src/a.js"}

	options := config.DefaultOptions()
	options.Parallelism = 2
	g, msgs, err := scanForTest(t, files, paths, &options, nil)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.NotEmpty(t, g.RunID)
	assert.False(t, g.HasErrors())

	require.Len(t, g.Modules, len(paths))
	for i, path := range paths {
		module := g.Modules[i]
		assert.Equal(t, path, module.Source.KeyPath)
		assert.Equal(t, uint32(i), module.Source.Index)
		require.NotNil(t, module.Scan, path)
	}

	d, c, b, a := g.Modules[0], g.Modules[1], g.Modules[2], g.Modules[3]
	assert.Equal(t, "src/d.js", d.Source.PrettyPath)
	assert.Equal(t, []string{"./a", "./c"}, d.Meta.Dependencies)
	assert.Equal(t, 1, d.Meta.ImportCounts[ast.ImportRequire])
	assert.Equal(t, 1, d.Meta.ImportCounts[ast.ImportDynamic])
	assert.Equal(t, ExportsNone, d.Meta.ExportsKind)

	assert.Equal(t, config.LoaderJSX, c.Loader)
	assert.Equal(t, ExportsCommonJS, c.Meta.ExportsKind)

	assert.Equal(t, config.LoaderTS, b.Loader)
	assert.Equal(t, ExportsESM, b.Meta.ExportsKind)
	assert.Contains(t, b.Scan.NamedExports, "B")

	assert.Equal(t, ExportsESM, a.Meta.ExportsKind)
	assert.Equal(t, []string{"./b"}, a.Meta.Dependencies)
	assert.False(t, a.Meta.HasSideEffects)
	assert.NotEmpty(t, a.Stages)
}

func TestScanModulesReportsBrokenModules(t *testing.T) {
	files := map[string]string{
		"/bad.js":       "let = ;",
		"/ns.ts":        "namespace N {}",
		"/const.js":     "const a = 1; a = 2",
		"/good.js":      "export default 1",
		"/style.css":    "a {}",
		"/warnings.mjs": "eval('x')",
	}
	paths := []string{"/bad.js", "/ns.ts", "/const.js", "/good.js", "/style.css", "/warnings.mjs"}

	g, msgs, err := scanForTest(t, files, paths, nil, nil)
	require.NoError(t, err)
	assert.True(t, g.HasErrors())

	bad, ns, constAssign, good, style, warnings := g.Modules[0], g.Modules[1], g.Modules[2], g.Modules[3], g.Modules[4], g.Modules[5]

	assert.True(t, bad.Failed)
	assert.Nil(t, bad.Scan)
	assert.True(t, bad.HasErrors())

	assert.True(t, ns.Failed)
	assert.Nil(t, ns.Scan)

	assert.True(t, constAssign.Failed)
	require.NotNil(t, constAssign.Scan)
	require.Len(t, constAssign.Msgs, 1)
	assert.Equal(t, "Cannot assign to \"a\" because it is a constant", constAssign.Msgs[0].Text)

	assert.False(t, good.Failed)
	assert.Empty(t, good.Msgs)

	assert.True(t, style.Failed)
	require.Len(t, style.Msgs, 1)
	assert.Equal(t, "No loader is configured for \"style.css\"", style.Msgs[0].Text)

	assert.False(t, warnings.Failed)
	require.Len(t, warnings.Msgs, 1)
	assert.Equal(t, logger.Warning, warnings.Msgs[0].Kind)

	// Every module message also goes to the shared log
	total := 0
	for _, module := range g.Modules {
		total += len(module.Msgs)
	}
	assert.Len(t, msgs, total)
}

func TestScanModulesMissingFile(t *testing.T) {
	_, _, err := scanForTest(t, map[string]string{"/a.js": ""}, []string{"/a.js", "/missing.js"}, nil, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestScanModulesCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ScanModules(ctx, ScanArgs{
		FS:  fs.MockFS(map[string]string{"/a.js": ""}),
		Log: logger.NewDeferLog(logger.LevelInfo),
	}, []string{"/a.js"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMetrics(t *testing.T) {
	files := map[string]string{
		"/a.js": "import './b'; require('c')",
		"/b.ts": "let x: number = 1",
		"/c.js": "let = ;",
	}
	metrics := NewMetrics()
	_, _, err := scanForTest(t, files, []string{"/a.js", "/b.ts", "/c.js"}, nil, metrics)
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.modules.WithLabelValues("js", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.modules.WithLabelValues("ts", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.modules.WithLabelValues("js", "failed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.importRecords.WithLabelValues("import-statement")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.importRecords.WithLabelValues("require-call")))
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.inFlight))
	assert.Positive(t, testutil.CollectAndCount(metrics.stageSeconds))

	// Recording into a nil value is a no-op
	var nilMetrics *Metrics
	nilMetrics.begin()
	nilMetrics.end(&Module{})
}

func TestCollectInputs(t *testing.T) {
	fsys := fs.MockFS(map[string]string{
		"/p/src/a.js":                "",
		"/p/src/a.test.js":           "",
		"/p/src/b.tsx":               "",
		"/p/src/style.css":           "",
		"/p/lib/c.mjs":               "",
		"/p/node_modules/x/index.js": "",
		"/p/src/node_modules/y.js":   "",
		"/q/d.ts":                    "",
	})

	options := config.DefaultOptions()
	options.Exclude = append(options.Exclude, "**/*.test.js")
	paths, err := CollectInputs(fsys, []string{"/p", "/q/d.ts", "/p/src/a.js", "/p/node_modules/x/index.js"}, &options)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"/p/lib/c.mjs",
		"/p/src/a.js",
		"/p/src/b.tsx",
		"/q/d.ts",
		"/p/node_modules/x/index.js",
	}, paths)

	options.Include = []string{"src/**"}
	paths, err = CollectInputs(fsys, []string{"/p"}, &options)
	require.NoError(t, err)
	assert.Equal(t, []string{"/p/src/a.js", "/p/src/b.tsx"}, paths)

	options.Include = []string{"[invalid"}
	_, err = CollectInputs(fsys, []string{"/p"}, &options)
	assert.Error(t, err)
}
