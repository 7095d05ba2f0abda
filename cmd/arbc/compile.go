package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	verr "github.com/arbor-lang/arbc/error"
	"github.com/arbor-lang/arbc/grammar"
	"github.com/arbor-lang/arbc/spec"
	"github.com/spf13/cobra"
)

var compileFlags = struct {
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a grammar description into a portable grammar artifact",
		Example: `  arbc compile grammar.json -o grammar-compiled.json`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default stdout)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) (retErr error) {
	srcName := "stdin"
	if len(args) > 0 {
		srcName = args[0]
	}
	defer func() {
		if retErr == nil {
			return
		}
		if specErrs, ok := retErr.(verr.SpecErrors); ok {
			for _, err := range specErrs {
				err.SourceName = srcName
			}
		}
		if specErr, ok := retErr.(*verr.SpecError); ok {
			specErr.SourceName = srcName
		}
	}()

	input, err := readGrammar(args)
	if err != nil {
		return err
	}

	cgram, err := grammar.Compile(input)
	if err != nil {
		return err
	}

	return writeCompiledGrammar(cgram, *compileFlags.output)
}

func readGrammar(args []string) (*grammar.InputGrammar, error) {
	var src io.Reader = os.Stdin
	if len(args) > 0 {
		f, err := os.Open(args[0])
		if err != nil {
			return nil, fmt.Errorf("Cannot open the grammar description %s: %w", args[0], err)
		}
		defer f.Close()
		src = f
	}

	desc, err := spec.Parse(src)
	if err != nil {
		return nil, err
	}

	b := grammar.GrammarBuilder{
		Desc: desc,
	}
	return b.Build()
}

func writeCompiledGrammar(cgram *spec.CompiledGrammar, path string) error {
	var w io.Writer = os.Stdout
	if path != "" {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return fmt.Errorf("Cannot write an output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	b, err := json.Marshal(cgram)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%v\n", string(b))
	return nil
}
