// Command playwright-gen reads a driver API JSON description from
// standard input and writes the generated façade Go source for every
// interface it describes to standard output.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/oakline-labs/playwright-go/codegen"
	"github.com/oakline-labs/playwright-go/codegen/schema"
)

func main() {
	pkg := flag.String("package", "facade", "Go package name for generated output")
	flag.Parse()

	if err := run(os.Stdin, os.Stdout, *pkg); err != nil {
		fmt.Fprintln(os.Stderr, "playwright-gen:", err)
		os.Exit(1)
	}
}

func run(in io.Reader, out io.Writer, pkg string) error {
	raw, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}

	api, err := schema.Decode(raw)
	if err != nil {
		return err
	}

	files, err := codegen.Generate(api, codegen.Options{Package: pkg})
	if err != nil {
		return err
	}

	for _, f := range files {
		fmt.Fprintf(out, "// ---- %s ----\n", f.Filename)
		if _, err := io.WriteString(out, f.Source); err != nil {
			return fmt.Errorf("write %s: %w", f.Filename, err)
		}
	}
	return nil
}
