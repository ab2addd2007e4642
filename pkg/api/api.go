package api

import "context"

type Loader uint8

const (
	LoaderDefault Loader = iota
	LoaderJS
	LoaderJSX
	LoaderTS
	LoaderTSX
)

type Format uint8

const (
	FormatDefault Format = iota
	FormatPreserve
	FormatIIFE
	FormatCommonJS
	FormatESModule
	FormatUMD
)

type TreeShaking uint8

const (
	TreeShakingDefault TreeShaking = iota
	TreeShakingFalse
	TreeShakingTrue
)

type JSX uint8

const (
	JSXDefault JSX = iota
	JSXClassic
	JSXAutomatic
)

type LogLevel uint8

const (
	LogLevelDefault LogLevel = iota
	LogLevelVerbose
	LogLevelInfo
	LogLevelWarning
	LogLevelError
	LogLevelSilent
)

type Location struct {
	File     string `json:"file"`
	Line     int    `json:"line"`   // 1-based
	Column   int    `json:"column"` // 0-based, in bytes
	Length   int    `json:"length"` // in bytes
	LineText string `json:"lineText"`
}

type Message struct {
	ID       string    `json:"id,omitempty"`
	Text     string    `json:"text"`
	Location *Location `json:"location,omitempty"`
}

// A byte range in the source text
type Span struct {
	Start int32 `json:"start"`
	Len   int32 `json:"len"`
}

////////////////////////////////////////////////////////////////////////////////
// Scan API

type Inject struct {
	// A global such as "Buffer" or "Object.assign"
	Name string

	Path string

	// "default", "*" or an export name. Empty means "default".
	Import string
}

type ScanOptions struct {
	LogLevel LogLevel

	// Settings from this file are applied first and the fields below override
	// them. Empty means no config file.
	ConfigFile string

	Format      Format
	TreeShaking TreeShaking
	Parallelism int

	JSX             JSX
	JSXFactory      string
	JSXFragment     string
	JSXImportSource string

	Define map[string]string
	Inject []Inject

	// Globs for directories passed to "Scan"
	Include []string
	Exclude []string

	// Include the preprocessed code of each module in the result
	EmitCode bool

	// Write Prometheus metrics for the scan to this file in the text
	// exposition format
	MetricsFile string
}

type ScanResult struct {
	Errors   []Message `json:"errors"`
	Warnings []Message `json:"warnings"`

	RunID   string   `json:"runId,omitempty"`
	Modules []Module `json:"modules"`
}

type Module struct {
	Path        string `json:"path"`
	Loader      string `json:"loader"`
	Failed      bool   `json:"failed,omitempty"`
	ExportsKind string `json:"exportsKind,omitempty"`

	HasSideEffects bool `json:"hasSideEffects"`
	HasEval        bool `json:"hasEval,omitempty"`

	Statements      []Statement      `json:"statements,omitempty"`
	ImportRecords   []ImportRecord   `json:"importRecords,omitempty"`
	NamedImports    []NamedImport    `json:"namedImports,omitempty"`
	NamedExports    []NamedExport    `json:"namedExports,omitempty"`
	IndirectExports []IndirectExport `json:"indirectExports,omitempty"`
	StarExports     []uint32         `json:"starExports,omitempty"`

	SelfReferencedClasses []string `json:"selfReferencedClasses,omitempty"`

	CJSModuleIdent  *Span `json:"cjsModuleIdent,omitempty"`
	CJSExportsIdent *Span `json:"cjsExportsIdent,omitempty"`
	Hashbang        *Span `json:"hashbang,omitempty"`

	Code string `json:"code,omitempty"`

	Errors   []Message `json:"errors,omitempty"`
	Warnings []Message `json:"warnings,omitempty"`
}

type Statement struct {
	Index         uint32         `json:"index"`
	HasSideEffect bool           `json:"hasSideEffect"`
	Declared      []string       `json:"declared,omitempty"`
	Referenced    []string       `json:"referenced,omitempty"`
	MemberAccess  []MemberAccess `json:"memberAccess,omitempty"`
	ImportRecords []uint32       `json:"importRecords,omitempty"`
}

type MemberAccess struct {
	Object string   `json:"object"`
	Props  []string `json:"props"`
	Span   Span     `json:"span"`
}

type ImportRecord struct {
	Path  string   `json:"path"`
	Kind  string   `json:"kind"`
	Span  Span     `json:"span"`
	Flags []string `json:"flags,omitempty"`
}

type NamedImport struct {
	Local    string `json:"local"`
	Imported string `json:"imported"`
	Record   uint32 `json:"record"`
}

type NamedExport struct {
	Exported string `json:"exported"`

	// Empty for an anonymous "export default" expression
	Local string `json:"local,omitempty"`
}

type IndirectExport struct {
	Exported string `json:"exported"`
	Imported string `json:"imported"`
	Record   uint32 `json:"record"`
}

// Scan processes every file and every matching file below each directory
// in "paths". Modules are returned in the order they were found.
func Scan(ctx context.Context, paths []string, options ScanOptions) ScanResult {
	return scanImpl(ctx, paths, options)
}

type ScanSourceOptions struct {
	ScanOptions

	// The path used in messages. Defaults to "<stdin>".
	Sourcefile string

	// Defaults to the loader for the extension of "Sourcefile", or JS
	Loader Loader
}

// ScanSource processes source text that doesn't come from a file
func ScanSource(ctx context.Context, contents string, options ScanSourceOptions) ScanResult {
	return scanSourceImpl(ctx, contents, options)
}

////////////////////////////////////////////////////////////////////////////////
// Watch API

type WatchOptions struct {
	// Called after the initial scan and after every rescan
	OnScan func(result ScanResult)
}

// Watch scans "paths" and then rescans whenever a file below them changes,
// until the context is canceled
func Watch(ctx context.Context, paths []string, options ScanOptions, watch WatchOptions) error {
	return watchImpl(ctx, paths, options, watch)
}

////////////////////////////////////////////////////////////////////////////////
// FormatMessages API

type MessageKind uint8

const (
	ErrorMessage MessageKind = iota
	WarningMessage
)

type FormatMessagesOptions struct {
	Kind  MessageKind
	Color bool

	// Lines longer than this are trimmed around the marked range. Zero means
	// 80 columns.
	TerminalWidth int
}

// FormatMessages renders messages the way they are printed to the terminal,
// with the source line and a marker under the range
func FormatMessages(msgs []Message, opts FormatMessagesOptions) []string {
	return formatMessagesImpl(msgs, opts)
}
