package api_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yuusheng/rolldown/internal/test"
	"github.com/yuusheng/rolldown/pkg/api"
)

func scanSource(t *testing.T, contents string, options api.ScanSourceOptions) api.Module {
	t.Helper()
	result := api.ScanSource(context.Background(), contents, options)
	require.Len(t, result.Modules, 1)
	return result.Modules[0]
}

func TestScanSource(t *testing.T) {
	module := scanSource(t, `
import React, { useState as useS } from 'react'
import * as ns from './ns'
export { x as y } from './x'
export * from './star'
export const a = ns.foo.bar, b = useS
export default class C { m() { return C } }
`, api.ScanSourceOptions{Sourcefile: "app.js"})

	assert.Equal(t, "app.js", module.Path)
	assert.Equal(t, "js", module.Loader)
	assert.False(t, module.Failed)
	assert.Equal(t, "esm", module.ExportsKind)

	var paths []string
	for _, record := range module.ImportRecords {
		assert.Equal(t, "import-statement", record.Kind)
		paths = append(paths, record.Path)
	}
	assert.Equal(t, []string{"react", "./ns", "./x", "./star"}, paths)

	assert.Equal(t, []api.NamedImport{
		{Local: "React", Imported: "default", Record: 0},
		{Local: "useS", Imported: "useState", Record: 0},
		{Local: "ns", Imported: "*", Record: 1},
	}, module.NamedImports)
	assert.Equal(t, []api.NamedExport{
		{Exported: "a", Local: "a"},
		{Exported: "b", Local: "b"},
		{Exported: "default", Local: "C"},
	}, module.NamedExports)
	assert.Equal(t, []api.IndirectExport{{Exported: "y", Imported: "x", Record: 2}}, module.IndirectExports)
	assert.Equal(t, []uint32{3}, module.StarExports)
	assert.Equal(t, []string{"C"}, module.SelfReferencedClasses)

	// "export const a = ..., b = ..." is split into two statements
	require.Len(t, module.Statements, 7)
	assert.Equal(t, []string{"a"}, module.Statements[4].Declared)
	assert.Equal(t, []string{"ns"}, module.Statements[4].Referenced)
	require.Len(t, module.Statements[4].MemberAccess, 1)
	assert.Equal(t, "ns", module.Statements[4].MemberAccess[0].Object)
	assert.Equal(t, []string{"foo", "bar"}, module.Statements[4].MemberAccess[0].Props)
	assert.Equal(t, []string{"b"}, module.Statements[5].Declared)
	assert.Equal(t, []string{"useS"}, module.Statements[5].Referenced)
}

func TestScanSourceCommonJS(t *testing.T) {
	module := scanSource(t, "#!/usr/bin/env node\nrequire('side-effect');\nmodule.exports = require('x')", api.ScanSourceOptions{})
	assert.Equal(t, "<stdin>", module.Path)
	assert.Equal(t, "cjs", module.ExportsKind)
	require.NotNil(t, module.Hashbang)
	assert.Equal(t, api.Span{Start: 0, Len: 19}, *module.Hashbang)
	require.NotNil(t, module.CJSModuleIdent)
	assert.Nil(t, module.CJSExportsIdent)

	require.Len(t, module.ImportRecords, 2)
	assert.Equal(t, []string{"require-unused"}, module.ImportRecords[0].Flags)
	assert.Empty(t, module.ImportRecords[1].Flags)
}

func TestScanSourceMessages(t *testing.T) {
	result := api.ScanSource(context.Background(), "const a = 1\na = 2\neval('')", api.ScanSourceOptions{Sourcefile: "bad.js"})
	require.Len(t, result.Errors, 1)
	require.Len(t, result.Warnings, 1)

	err := result.Errors[0]
	assert.Equal(t, "assign-to-constant", err.ID)
	assert.Equal(t, "Cannot assign to \"a\" because it is a constant", err.Text)
	require.NotNil(t, err.Location)
	assert.Equal(t, api.Location{File: "bad.js", Line: 2, Column: 0, Length: 1, LineText: "a = 2"}, *err.Location)

	assert.Equal(t, "direct-eval", result.Warnings[0].ID)

	module := result.Modules[0]
	assert.True(t, module.Failed)
	assert.Equal(t, result.Errors, module.Errors)
	assert.Equal(t, result.Warnings, module.Warnings)

	// Warnings are dropped below the log level
	result = api.ScanSource(context.Background(), "eval('')", api.ScanSourceOptions{
		ScanOptions: api.ScanOptions{LogLevel: api.LogLevelError},
	})
	assert.Empty(t, result.Warnings)
}

func TestScanSourceEmitCode(t *testing.T) {
	module := scanSource(t, "enum E { A }\nlet x: number = <any>E.A", api.ScanSourceOptions{
		ScanOptions: api.ScanOptions{EmitCode: true, TreeShaking: api.TreeShakingFalse},
		Loader:      api.LoaderTS,
	})
	test.AssertEqualWithDiff(t, module.Code, `var E = /* @__PURE__ */ ((E) => {
  E[E["A"] = 0] = "A";
  return E;
})(E || {});
let x = E.A;
`)
}

func TestScanSourceOptions(t *testing.T) {
	module := scanSource(t, "let el = <div />; if (DEBUG) { log() }", api.ScanSourceOptions{
		ScanOptions: api.ScanOptions{
			EmitCode:        true,
			JSX:             api.JSXAutomatic,
			JSXImportSource: "preact",
			Define:          map[string]string{"DEBUG": "false"},
		},
		Sourcefile: "view.jsx",
	})
	assert.Equal(t, "jsx", module.Loader)
	test.AssertEqualWithDiff(t, module.Code, `import { jsx as _jsx } from "preact/jsx-runtime";
let el = _jsx("div", {});
`)

	result := api.ScanSource(context.Background(), "", api.ScanSourceOptions{
		ScanOptions: api.ScanOptions{Define: map[string]string{"a-b": "1"}},
	})
	require.Len(t, result.Errors, 1)
	assert.Empty(t, result.Modules)
}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for path, contents := range files {
		full := filepath.Join(dir, filepath.FromSlash(path))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(contents), 0o644))
	}
	return dir
}

func TestScanDirectory(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"src/a.ts":                  "export const a: number = 1",
		"src/b.js":                  "export { a } from './a'",
		"src/b.test.js":             "test()",
		"node_modules/dep/index.js": "module.exports = 1",
		"rolldown.yaml":             "format: cjs\nexclude: ['**/*.test.js', 'node_modules/**']\n",
	})

	result := api.Scan(context.Background(), []string{dir}, api.ScanOptions{
		ConfigFile:  filepath.Join(dir, "rolldown.yaml"),
		MetricsFile: filepath.Join(dir, "metrics.prom"),
	})
	assert.Empty(t, result.Errors)
	assert.NotEmpty(t, result.RunID)
	require.Len(t, result.Modules, 2)
	assert.True(t, strings.HasSuffix(result.Modules[0].Path, "src/a.ts"))
	assert.True(t, strings.HasSuffix(result.Modules[1].Path, "src/b.js"))

	metrics, err := os.ReadFile(filepath.Join(dir, "metrics.prom"))
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `rolldown_scan_modules_total{loader="ts",outcome="ok"} 1`)

	// The results are meant to be written out as JSON
	data, err := json.Marshal(result)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"exportsKind":"esm"`)
}

func TestScanBadConfigFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{"rolldown.toml": "format = 'amd'"})
	result := api.Scan(context.Background(), []string{dir}, api.ScanOptions{ConfigFile: filepath.Join(dir, "rolldown.toml")})
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0].Text, "invalid output format")
}

func TestWatch(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.js": "export let a = 1"})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var mutex sync.Mutex
	var results []api.ScanResult
	scanned := make(chan struct{}, 16)

	done := make(chan error, 1)
	go func() {
		done <- api.Watch(ctx, []string{dir}, api.ScanOptions{}, api.WatchOptions{
			OnScan: func(result api.ScanResult) {
				mutex.Lock()
				results = append(results, result)
				mutex.Unlock()
				scanned <- struct{}{}
			},
		})
	}()

	waitForScan := func() {
		t.Helper()
		select {
		case <-scanned:
		case <-ctx.Done():
			t.Fatal("timed out waiting for a scan")
		}
	}

	waitForScan()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.js"), []byte("export let b = 2"), 0o644))
	waitForScan()
	cancel()
	require.NoError(t, <-done)

	mutex.Lock()
	defer mutex.Unlock()
	require.GreaterOrEqual(t, len(results), 2)
	assert.Len(t, results[0].Modules, 1)
	assert.Len(t, results[len(results)-1].Modules, 2)
}

func TestFormatMessages(t *testing.T) {
	check := func(name string, opts api.FormatMessagesOptions, msg api.Message, expected string) {
		t.Helper()
		t.Run(name, func(t *testing.T) {
			test.AssertEqualWithDiff(t, api.FormatMessages([]api.Message{msg}, opts)[0], expected)
		})
	}

	check("Error", api.FormatMessagesOptions{Kind: api.ErrorMessage}, api.Message{Text: "This is a test"}, "error: This is a test\n")
	check("Warning", api.FormatMessagesOptions{Kind: api.WarningMessage}, api.Message{Text: "This is a test"}, "warning: This is a test\n")

	check("Location",
		api.FormatMessagesOptions{},
		api.Message{Text: "Cannot assign to \"a\" because it is a constant", Location: &api.Location{
			File:     "a.js",
			Line:     2,
			Column:   0,
			Length:   1,
			LineText: "a = 2",
		}},
		"a.js:2:0: error: Cannot assign to \"a\" because it is a constant\na = 2\n^\n",
	)
}
