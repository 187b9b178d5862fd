// Command treec compiles a single .tree source file to WebAssembly text.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/feature/plural"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"treec/internal/checker"
	"treec/internal/common"
	"treec/internal/emit"
	"treec/internal/parsed"
)

func init() {
	message.Set(language.English, "%d compile errors",
		plural.Selectf(1, "%d",
			plural.One, "1 compile error",
			plural.Other, "%d compile errors"))
}

func main() {
	out := flag.String("out", "", "write WebAssembly text to this path (default: input file's base name with .wat)")
	release := flag.Bool("release", false, "omit source-range information from diagnostics")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: treec [-out path] [-release] <file.tree>")
		os.Exit(1)
	}

	outPath := *out
	if outPath == "" {
		outPath = defaultOutputPath(flag.Arg(0))
	}

	os.Exit(run(flag.Arg(0), outPath, *release))
}

// defaultOutputPath derives the -out flag's default: inputPath's base name
// with its extension replaced by .wat.
func defaultOutputPath(inputPath string) string {
	base := filepath.Base(inputPath)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return base + ".wat"
}

func run(inputPath, outPath string, release bool) int {
	printer := message.NewPrinter(language.English)

	source, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, common.NewSystemError(err))
		return 1
	}

	module, lines, err := parsed.Parse(inputPath, string(source))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if release {
		lines = nil
	}

	typedModule, errs := checker.CheckModuleWithLineInformation(module, lines)
	if len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintln(os.Stderr, e)
		}
		fmt.Fprintln(os.Stderr, printer.Sprintf("%d compile errors", len(errs)))
		return 1
	}

	wasm, err := emit.Emit(typedModule, release)
	if err != nil {
		fmt.Fprintln(os.Stderr, common.NewSystemError(err))
		return 1
	}

	if err := os.WriteFile(outPath, []byte(wasm.ToWAT()), 0644); err != nil {
		fmt.Fprintln(os.Stderr, common.NewSystemError(err))
		return 1
	}
	return 0
}
