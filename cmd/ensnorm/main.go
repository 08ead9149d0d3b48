// Command ensnorm is a command-line front end for the ENSIP-15 name
// normalization library: it applies Normalize, Beautify, Tokenize, or Cure
// to names given as arguments or read one-per-line from standard input.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"ensnorm"
	"ensnorm/internal/speccache"
)

var (
	specFlag  = flag.String("spec", "testdata/spec.json", "Path to the spec.json document.")
	cacheFlag = flag.String("cache", "", "Path to a bbolt binary cache for the parsed spec; empty disables caching.")
	modeFlag  = flag.String("mode", "normalize", "Operation to apply: normalize, beautify, tokenize, or cure.")
	jsonFlag  = flag.Bool("json", false, "Emit one JSON object per input line instead of plain text.")
)

func main() {
	log.SetFlags(0)
	flag.Parse()

	spec, err := speccache.Load(*specFlag, *cacheFlag)
	if err != nil {
		log.Fatalf("ensnorm: %v", err)
	}

	names := flag.Args()
	if len(names) == 0 {
		names = readLines(os.Stdin)
	}

	exitCode := 0
	for _, name := range names {
		if err := process(spec, name); err != nil {
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func readLines(r io.Reader) []string {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func process(spec *ensnorm.Spec, name string) error {
	switch *modeFlag {
	case "normalize":
		out, err := spec.Normalize(name)
		return report(name, out, err)
	case "beautify":
		out, err := spec.Beautify(name)
		return report(name, out, err)
	case "tokenize":
		return reportTokens(name, spec.Tokenize(name))
	case "cure":
		cured, cures, err := spec.Cure(name)
		if err != nil {
			return report(name, "", err)
		}
		return reportCure(name, cured, cures)
	default:
		log.Fatalf("ensnorm: unknown -mode %q (want normalize, beautify, tokenize, or cure)", *modeFlag)
		return nil
	}
}

func report(name, out string, err error) error {
	if *jsonFlag {
		return writeJSONLine(jsonResult(name, out, err))
	}
	if err != nil {
		fmt.Printf("%s\tERROR\t%v\n", name, err)
		return err
	}
	fmt.Printf("%s\t%s\n", name, out)
	return nil
}

func reportTokens(name string, tokens []ensnorm.Token) error {
	if *jsonFlag {
		return writeJSONLine(map[string]any{"name": name, "tokens": tokens})
	}
	fmt.Printf("%s\t%d tokens\n", name, len(tokens))
	return nil
}

func reportCure(name, cured string, cures []ensnorm.CurableError) error {
	if *jsonFlag {
		return writeJSONLine(map[string]any{"name": name, "cured": cured, "cures": cures})
	}
	fmt.Printf("%s\t%s\t%d fix(es) applied\n", name, cured, len(cures))
	return nil
}

func jsonResult(name, out string, err error) map[string]any {
	if err != nil {
		m := map[string]any{"name": name, "error": err.Error()}
		switch e := err.(type) {
		case *ensnorm.DisallowedError:
			m["kind"] = string(e.Kind)
		case *ensnorm.CurableError:
			m["kind"] = string(e.Kind)
			m["index"] = e.Index
		}
		return m
	}
	return map[string]any{"name": name, "result": out}
}

func writeJSONLine(v any) error {
	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(v)
}
