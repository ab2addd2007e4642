package config

import (
	"fmt"
	"strings"

	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/logger"
)

type JSXRuntime uint8

const (
	JSXClassic JSXRuntime = iota
	JSXAutomatic
)

func (runtime JSXRuntime) String() string {
	if runtime == JSXAutomatic {
		return "automatic"
	}
	return "classic"
}

type JSXOptions struct {
	Runtime JSXRuntime

	// Only used by the classic runtime. Each one is a dot chain such as
	// "React.createElement".
	Factory  []string
	Fragment []string

	// Only used by the automatic runtime. The JSX helpers are imported from
	// "<ImportSource>/jsx-runtime".
	ImportSource string
}

func DefaultJSXOptions() JSXOptions {
	return JSXOptions{
		Factory:      []string{"React", "createElement"},
		Fragment:     []string{"React", "Fragment"},
		ImportSource: "react",
	}
}

type Loader uint8

const (
	LoaderNone Loader = iota
	LoaderJS
	LoaderJSX
	LoaderTS
	LoaderTSX
)

func (loader Loader) String() string {
	switch loader {
	case LoaderJS:
		return "js"
	case LoaderJSX:
		return "jsx"
	case LoaderTS:
		return "ts"
	case LoaderTSX:
		return "tsx"
	}
	return "none"
}

func (loader Loader) IsTypeScript() bool {
	return loader == LoaderTS || loader == LoaderTSX
}

func (loader Loader) CanHaveJSX() bool {
	return loader == LoaderJSX || loader == LoaderTSX
}

// Plain JavaScript is the only syntax that can be scanned without lowering
func (loader Loader) NeedsLowering() bool {
	return loader == LoaderJSX || loader == LoaderTS || loader == LoaderTSX
}

var extensionToLoader = map[string]Loader{
	".js":  LoaderJS,
	".mjs": LoaderJS,
	".cjs": LoaderJS,
	".jsx": LoaderJSX,
	".ts":  LoaderTS,
	".mts": LoaderTS,
	".cts": LoaderTS,
	".tsx": LoaderTSX,
}

func LoaderFromExtension(ext string) Loader {
	return extensionToLoader[strings.ToLower(ext)]
}

type Format uint8

const (
	// This is used when not bundling. It means to preserve whatever form the
	// import or export was originally in. ES6 syntax stays ES6 syntax and
	// CommonJS syntax stays CommonJS syntax.
	FormatPreserve Format = iota

	// IIFE stands for immediately-invoked function expression. That looks like
	// this:
	//
	//   (() => {
	//     ... bundled code ...
	//   })();
	//
	FormatIIFE

	// The CommonJS format looks like this:
	//
	//   ... bundled code ...
	//   module.exports = exports;
	//
	FormatCommonJS

	// The ES module format looks like this:
	//
	//   ... bundled code ...
	//   export {...};
	//
	FormatESModule

	// UMD wraps the bundle so it works as CommonJS, AMD or a browser global
	FormatUMD
)

func (f Format) KeepES6ImportExportSyntax() bool {
	return f == FormatPreserve || f == FormatESModule
}

func (f Format) String() string {
	switch f {
	case FormatIIFE:
		return "iife"
	case FormatCommonJS:
		return "cjs"
	case FormatESModule:
		return "esm"
	case FormatUMD:
		return "umd"
	}
	return "preserve"
}

func ParseFormat(text string) (Format, error) {
	switch strings.ToLower(text) {
	case "", "preserve":
		return FormatPreserve, nil
	case "iife":
		return FormatIIFE, nil
	case "cjs", "commonjs":
		return FormatCommonJS, nil
	case "esm", "es", "module":
		return FormatESModule, nil
	case "umd":
		return FormatUMD, nil
	}
	return FormatPreserve, fmt.Errorf("invalid output format %q (valid: esm, cjs, iife, umd, preserve)", text)
}

// A global name that is bound to an import when a module uses it without
// declaring it. For example, "Buffer" can be bound to the "Buffer" export of
// "buffer" and "Object.assign" to the default export of "object-assign".
type InjectImport struct {
	// The global as written in source, possibly a dot chain
	Name string

	Path string

	// Either "default", "*" for a namespace import, or an export name
	ImportedName string
}

// The local name the injected import is bound to
func (inject InjectImport) Alias() string {
	return js_ast.ForceValidIdentifier("_inject_", inject.Name)
}

type Options struct {
	OutputFormat Format
	JSX          JSXOptions

	// Processed once per build and shared by every module. This is never
	// mutated after it's created.
	Defines *ProcessedDefines

	Inject      []InjectImport
	TreeShaking bool

	// The maximum number of modules processed at the same time. Zero means
	// the number of CPUs.
	Parallelism int

	LogLevel logger.LogLevel

	// Glob patterns matched against paths relative to the scanned directory
	Include []string
	Exclude []string
}

func DefaultOptions() Options {
	defines := ProcessDefines(nil)
	return Options{
		OutputFormat: FormatESModule,
		JSX:          DefaultJSXOptions(),
		Defines:      &defines,
		TreeShaking:  true,
		LogLevel:     logger.LevelInfo,
		Exclude:      []string{"node_modules/**", "**/node_modules/**"},
	}
}
