package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yuusheng/rolldown/internal/fs"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/logger"
)

func TestFormat(t *testing.T) {
	assert.True(t, FormatESModule.KeepES6ImportExportSyntax())
	assert.True(t, FormatPreserve.KeepES6ImportExportSyntax())
	assert.False(t, FormatCommonJS.KeepES6ImportExportSyntax())
	assert.False(t, FormatIIFE.KeepES6ImportExportSyntax())
	assert.False(t, FormatUMD.KeepES6ImportExportSyntax())

	for _, format := range []Format{FormatPreserve, FormatIIFE, FormatCommonJS, FormatESModule, FormatUMD} {
		parsed, err := ParseFormat(format.String())
		require.NoError(t, err)
		assert.Equal(t, format, parsed)
	}

	_, err := ParseFormat("amd")
	assert.EqualError(t, err, `invalid output format "amd" (valid: esm, cjs, iife, umd, preserve)`)
}

func TestLoaderFromExtension(t *testing.T) {
	assert.Equal(t, LoaderJS, LoaderFromExtension(".mjs"))
	assert.Equal(t, LoaderJS, LoaderFromExtension(".cjs"))
	assert.Equal(t, LoaderJSX, LoaderFromExtension(".jsx"))
	assert.Equal(t, LoaderTS, LoaderFromExtension(".mts"))
	assert.Equal(t, LoaderTSX, LoaderFromExtension(".TSX"))
	assert.Equal(t, LoaderNone, LoaderFromExtension(".css"))

	assert.False(t, LoaderJS.NeedsLowering())
	assert.True(t, LoaderTSX.NeedsLowering())
	assert.True(t, LoaderTSX.CanHaveJSX())
	assert.False(t, LoaderTS.CanHaveJSX())
}

func TestParseDefine(t *testing.T) {
	expectDefine := func(value string, expected js_ast.E) {
		t.Helper()
		data, err := ParseDefine("process.env.NODE_ENV", value)
		require.NoError(t, err)
		require.NotNil(t, data.DefineFunc)
		assert.Equal(t, expected, data.DefineFunc())
	}

	expectDefine(`"production"`, &js_ast.EString{Value: "production"})
	expectDefine(`123`, &js_ast.ENumber{Value: 123})
	expectDefine(`true`, &js_ast.EBoolean{Value: true})
	expectDefine(`null`, &js_ast.ENull{})
	expectDefine(`undefined`, &js_ast.EUndefined{})

	data, err := ParseDefine("global", "globalThis.window")
	require.NoError(t, err)
	root, _, props, ok := js_ast.MemberChain(js_ast.Expr{Data: data.DefineFunc()})
	require.True(t, ok)
	assert.Equal(t, "globalThis", root.Name)
	assert.Equal(t, []string{"window"}, props)

	_, err = ParseDefine("a-b", "1")
	assert.Error(t, err)
	_, err = ParseDefine("DEBUG", "{}")
	assert.Error(t, err)
	_, err = ParseDefine("DEBUG", "not json")
	assert.Error(t, err)
}

func TestProcessDefines(t *testing.T) {
	builtin := ProcessDefines(nil)
	assert.False(t, builtin.HasUserDefines())

	data, ok := builtin.Find([]string{"Math", "PI"})
	require.True(t, ok)
	assert.True(t, data.CanBeRemovedIfUnused)
	assert.Nil(t, data.DefineFunc)

	_, ok = builtin.Find([]string{"Math", "PIE"})
	assert.False(t, ok)

	data, ok = builtin.Find([]string{"undefined"})
	require.True(t, ok)
	assert.Equal(t, &js_ast.EUndefined{}, data.DefineFunc())

	user, err := ParseDefine("Math.PI", "3")
	require.NoError(t, err)
	defines := ProcessDefines(map[string]DefineData{"Math.PI": user})
	assert.True(t, defines.HasUserDefines())

	// User defines are merged with the known globals
	data, ok = defines.Find([]string{"Math", "PI"})
	require.True(t, ok)
	assert.True(t, data.CanBeRemovedIfUnused)
	assert.Equal(t, &js_ast.ENumber{Value: 3}, data.DefineFunc())
}

func TestInjectAlias(t *testing.T) {
	assert.Equal(t, "_inject_Buffer", InjectImport{Name: "Buffer"}.Alias())
	assert.Equal(t, "_inject_Object_assign", InjectImport{Name: "Object.assign"}.Alias())
}

const tomlConfig = `
format = "cjs"
treeshake = false
parallelism = 4
log_level = "warning"
exclude = ["dist/**"]

[define]
"process.env.NODE_ENV" = '"production"'

[[inject]]
name = "Buffer"
path = "buffer"
import = "Buffer"

[jsx]
runtime = "automatic"
import_source = "preact"
`

const yamlConfig = `
format: cjs
treeshake: false
parallelism: 4
log_level: warning
exclude:
  - dist/**
define:
  process.env.NODE_ENV: '"production"'
inject:
  - name: Buffer
    path: buffer
    import: Buffer
jsx:
  runtime: automatic
  import_source: preact
`

func TestLoadTOMLAndYAML(t *testing.T) {
	fsys := fs.MockFS(map[string]string{
		"/project/rolldown.toml": tomlConfig,
		"/other/rolldown.yaml":   yamlConfig,
	})

	fromTOML, err := Load(fsys, "/project/rolldown.toml")
	require.NoError(t, err)
	fromYAML, err := Load(fsys, "/other/rolldown.yaml")
	require.NoError(t, err)
	assert.Equal(t, fromTOML, fromYAML)

	options, err := fromTOML.ToOptions()
	require.NoError(t, err)
	assert.Equal(t, FormatCommonJS, options.OutputFormat)
	assert.False(t, options.TreeShaking)
	assert.Equal(t, 4, options.Parallelism)
	assert.Equal(t, logger.LevelWarning, options.LogLevel)
	assert.Equal(t, []string{"dist/**"}, options.Exclude)
	assert.Equal(t, []InjectImport{{Name: "Buffer", Path: "buffer", ImportedName: "Buffer"}}, options.Inject)
	assert.Equal(t, JSXAutomatic, options.JSX.Runtime)
	assert.Equal(t, "preact", options.JSX.ImportSource)
	assert.Equal(t, []string{"React", "createElement"}, options.JSX.Factory)

	data, ok := options.Defines.Find([]string{"process", "env", "NODE_ENV"})
	require.True(t, ok)
	assert.Equal(t, &js_ast.EString{Value: "production"}, data.DefineFunc())
}

func TestLoadErrors(t *testing.T) {
	fsys := fs.MockFS(map[string]string{
		"/rolldown.json":   `{}`,
		"/bad.toml":        `format = `,
		"/bad-format.yaml": `format: amd`,
		"/bad-inject.toml": "[[inject]]\nname = \"Buffer\"\n",
	})

	_, err := Load(fsys, "/missing.toml")
	assert.ErrorIs(t, err, fs.ErrNotExist)

	_, err = Load(fsys, "/rolldown.json")
	assert.EqualError(t, err, `unsupported config file extension ".json" (expected .toml, .yaml or .yml)`)

	_, err = Load(fsys, "/bad.toml")
	assert.Error(t, err)

	file, err := Load(fsys, "/bad-format.yaml")
	require.NoError(t, err)
	_, err = file.ToOptions()
	assert.Error(t, err)

	file, err = Load(fsys, "/bad-inject.toml")
	require.NoError(t, err)
	_, err = file.ToOptions()
	assert.EqualError(t, err, `missing inject path for "Buffer"`)
}

func TestFindFile(t *testing.T) {
	fsys := fs.MockFS(map[string]string{
		"/a/rolldown.yml": "",
		"/a/index.js":     "",
		"/b/index.js":     "",
	})

	path, ok := FindFile(fsys, "/a")
	assert.True(t, ok)
	assert.Equal(t, "/a/rolldown.yml", path)

	_, ok = FindFile(fsys, "/b")
	assert.False(t, ok)
}
