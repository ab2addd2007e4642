package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/yuusheng/rolldown/internal/fs"
	"github.com/yuusheng/rolldown/internal/js_ast"
	"github.com/yuusheng/rolldown/internal/logger"
	"gopkg.in/yaml.v3"
)

// File is the on-disk form of the options, read from "rolldown.toml" or
// "rolldown.yaml". Every field is optional.
type File struct {
	Format      string            `toml:"format" yaml:"format"`
	TreeShaking *bool             `toml:"treeshake" yaml:"treeshake"`
	Parallelism int               `toml:"parallelism" yaml:"parallelism"`
	LogLevel    string            `toml:"log_level" yaml:"log_level"`
	Include     []string          `toml:"include" yaml:"include"`
	Exclude     []string          `toml:"exclude" yaml:"exclude"`
	Define      map[string]string `toml:"define" yaml:"define"`
	Inject      []InjectFile      `toml:"inject" yaml:"inject"`
	JSX         JSXFile           `toml:"jsx" yaml:"jsx"`
}

type InjectFile struct {
	Name   string `toml:"name" yaml:"name"`
	Path   string `toml:"path" yaml:"path"`
	Import string `toml:"import" yaml:"import"`
}

type JSXFile struct {
	Runtime      string `toml:"runtime" yaml:"runtime"`
	Factory      string `toml:"factory" yaml:"factory"`
	Fragment     string `toml:"fragment" yaml:"fragment"`
	ImportSource string `toml:"import_source" yaml:"import_source"`
}

var DefaultFileNames = []string{"rolldown.toml", "rolldown.yaml", "rolldown.yml"}

// Load reads a config file. The syntax is picked from the file extension.
func Load(fsys fs.FS, path string) (*File, error) {
	contents, err := fsys.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var file File
	switch ext := strings.ToLower(fsys.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(contents, &file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal([]byte(contents), &file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported config file extension %q (expected .toml, .yaml or .yml)", ext)
	}
	return &file, nil
}

// FindFile returns the first default config file in "dir", if any
func FindFile(fsys fs.FS, dir string) (string, bool) {
	entries, err := fsys.ReadDirectory(dir)
	if err != nil {
		return "", false
	}
	for _, name := range DefaultFileNames {
		for _, entry := range entries {
			if entry.Kind == fs.FileEntry && entry.Name == name {
				return fsys.Join(dir, name), true
			}
		}
	}
	return "", false
}

// ToOptions validates the file and layers it over the default options
func (file *File) ToOptions() (Options, error) {
	options := DefaultOptions()

	format, err := ParseFormat(file.Format)
	if err != nil {
		return Options{}, err
	}
	if file.Format != "" {
		options.OutputFormat = format
	}

	if file.TreeShaking != nil {
		options.TreeShaking = *file.TreeShaking
	}

	if file.Parallelism < 0 {
		return Options{}, fmt.Errorf("parallelism must not be negative, got %d", file.Parallelism)
	}
	options.Parallelism = file.Parallelism

	if file.LogLevel != "" {
		level, ok := logger.ParseLogLevel(file.LogLevel)
		if !ok {
			return Options{}, fmt.Errorf("invalid log level %q", file.LogLevel)
		}
		options.LogLevel = level
	}

	if len(file.Include) > 0 {
		options.Include = file.Include
	}
	if len(file.Exclude) > 0 {
		options.Exclude = file.Exclude
	}

	if len(file.Define) > 0 {
		// Sort the keys so the first error reported is deterministic
		keys := make([]string, 0, len(file.Define))
		for key := range file.Define {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		userDefines := make(map[string]DefineData, len(keys))
		for _, key := range keys {
			data, err := ParseDefine(key, file.Define[key])
			if err != nil {
				return Options{}, err
			}
			userDefines[key] = data
		}
		defines := ProcessDefines(userDefines)
		options.Defines = &defines
	}

	for _, inject := range file.Inject {
		item, err := inject.toInjectImport()
		if err != nil {
			return Options{}, err
		}
		options.Inject = append(options.Inject, item)
	}

	jsx, err := file.JSX.toJSXOptions()
	if err != nil {
		return Options{}, err
	}
	options.JSX = jsx

	return options, nil
}

func (inject InjectFile) toInjectImport() (InjectImport, error) {
	if !js_ast.IsDotChain(inject.Name) {
		return InjectImport{}, fmt.Errorf("invalid inject name %q", inject.Name)
	}
	if inject.Path == "" {
		return InjectImport{}, fmt.Errorf("missing inject path for %q", inject.Name)
	}
	imported := inject.Import
	if imported == "" {
		imported = "default"
	}
	if imported != "*" && !js_ast.IsIdentifier(imported) {
		return InjectImport{}, fmt.Errorf("invalid inject import %q for %q", imported, inject.Name)
	}
	return InjectImport{Name: inject.Name, Path: inject.Path, ImportedName: imported}, nil
}

func (jsx JSXFile) toJSXOptions() (JSXOptions, error) {
	options := DefaultJSXOptions()

	switch jsx.Runtime {
	case "", "classic":
	case "automatic":
		options.Runtime = JSXAutomatic
	default:
		return JSXOptions{}, fmt.Errorf("invalid JSX runtime %q (valid: classic, automatic)", jsx.Runtime)
	}

	if jsx.Factory != "" {
		if !js_ast.IsDotChain(jsx.Factory) {
			return JSXOptions{}, fmt.Errorf("invalid JSX factory %q", jsx.Factory)
		}
		options.Factory = strings.Split(jsx.Factory, ".")
	}
	if jsx.Fragment != "" {
		if !js_ast.IsDotChain(jsx.Fragment) {
			return JSXOptions{}, fmt.Errorf("invalid JSX fragment %q", jsx.Fragment)
		}
		options.Fragment = strings.Split(jsx.Fragment, ".")
	}
	if jsx.ImportSource != "" {
		options.ImportSource = jsx.ImportSource
	}
	return options, nil
}
