package api

import (
	"fmt"

	"github.com/yuusheng/rolldown/internal/config"
	"github.com/yuusheng/rolldown/internal/fs"
	"github.com/yuusheng/rolldown/internal/logger"
)

func validateFormat(value Format) string {
	switch value {
	case FormatDefault:
		return ""
	case FormatPreserve:
		return "preserve"
	case FormatIIFE:
		return "iife"
	case FormatCommonJS:
		return "cjs"
	case FormatESModule:
		return "esm"
	case FormatUMD:
		return "umd"
	default:
		panic("Invalid format")
	}
}

func validateLogLevel(value LogLevel) logger.LogLevel {
	switch value {
	case LogLevelVerbose:
		return logger.LevelVerbose
	case LogLevelInfo:
		return logger.LevelInfo
	case LogLevelWarning:
		return logger.LevelWarning
	case LogLevelError:
		return logger.LevelError
	case LogLevelSilent:
		return logger.LevelSilent
	default:
		panic("Invalid log level")
	}
}

func validateLoader(value Loader, fsys fs.FS, sourcefile string) config.Loader {
	switch value {
	case LoaderDefault:
		if loader := config.LoaderFromExtension(fsys.Ext(sourcefile)); loader != config.LoaderNone {
			return loader
		}
		return config.LoaderJS
	case LoaderJS:
		return config.LoaderJS
	case LoaderJSX:
		return config.LoaderJSX
	case LoaderTS:
		return config.LoaderTS
	case LoaderTSX:
		return config.LoaderTSX
	default:
		panic("Invalid loader")
	}
}

func validateJSX(value JSX) string {
	switch value {
	case JSXDefault:
		return ""
	case JSXClassic:
		return "classic"
	case JSXAutomatic:
		return "automatic"
	default:
		panic("Invalid JSX")
	}
}

// The options are layered over the config file, if any, and then checked
// together so a bad value is reported the same way wherever it came from.
// Problems are logged as errors.
func validateOptions(fsys fs.FS, log logger.Log, options ScanOptions) (config.Options, bool) {
	var file config.File
	if options.ConfigFile != "" {
		loaded, err := config.Load(fsys, options.ConfigFile)
		if err != nil {
			log.AddError(nil, logger.Range{}, fmt.Sprintf("Failed to load config file: %s", err.Error()))
			return config.Options{}, false
		}
		file = *loaded
	}

	if format := validateFormat(options.Format); format != "" {
		file.Format = format
	}

	switch options.TreeShaking {
	case TreeShakingTrue, TreeShakingFalse:
		enabled := options.TreeShaking == TreeShakingTrue
		file.TreeShaking = &enabled
	}

	if options.Parallelism != 0 {
		file.Parallelism = options.Parallelism
	}

	if options.LogLevel != LogLevelDefault {
		file.LogLevel = validateLogLevel(options.LogLevel).String()
	}

	if runtime := validateJSX(options.JSX); runtime != "" {
		file.JSX.Runtime = runtime
	}
	if options.JSXFactory != "" {
		file.JSX.Factory = options.JSXFactory
	}
	if options.JSXFragment != "" {
		file.JSX.Fragment = options.JSXFragment
	}
	if options.JSXImportSource != "" {
		file.JSX.ImportSource = options.JSXImportSource
	}

	if len(options.Define) > 0 {
		merged := make(map[string]string, len(file.Define)+len(options.Define))
		for key, value := range file.Define {
			merged[key] = value
		}
		for key, value := range options.Define {
			merged[key] = value
		}
		file.Define = merged
	}

	for _, inject := range options.Inject {
		file.Inject = append(file.Inject, config.InjectFile{Name: inject.Name, Path: inject.Path, Import: inject.Import})
	}

	if len(options.Include) > 0 {
		file.Include = options.Include
	}
	if len(options.Exclude) > 0 {
		file.Exclude = options.Exclude
	}

	result, err := file.ToOptions()
	if err != nil {
		log.AddError(nil, logger.Range{}, err.Error())
		return config.Options{}, false
	}
	return result, true
}
