package main

// This example prints a small dependency report for a project: which
// modules are ES modules, which are CommonJS, and what each one imports.
//
//   go run ./example ./src

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/yuusheng/rolldown/pkg/api"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: example [files or directories]")
		os.Exit(2)
	}

	result := api.Scan(context.Background(), os.Args[1:], api.ScanOptions{
		LogLevel: api.LogLevelWarning,
	})
	for _, warn := range result.Warnings {
		fmt.Println("[WARN] ", warn.Text)
	}
	for _, err := range result.Errors {
		fmt.Println("[ERROR] ", err.Text)
	}

	byKind := make(map[string][]string)
	for _, module := range result.Modules {
		if module.Failed {
			continue
		}
		byKind[module.ExportsKind] = append(byKind[module.ExportsKind], module.Path)

		fmt.Printf("%s (%s)\n", module.Path, module.ExportsKind)
		for _, record := range module.ImportRecords {
			fmt.Printf("  %-16s %s\n", record.Kind, record.Path)
		}
		if !module.HasSideEffects {
			fmt.Println("  (no side effects)")
		}
	}

	kinds := make([]string, 0, len(byKind))
	for kind := range byKind {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	fmt.Println()
	for _, kind := range kinds {
		fmt.Printf("%d %s module(s)\n", len(byKind[kind]), kind)
	}

	if len(result.Errors) > 0 {
		os.Exit(1)
	}
}
