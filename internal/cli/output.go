package cli

import (
	"fmt"
	"io"
	"sort"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"

	"github.com/dmgolembiowski/datalad/pkg/datalad"
)

// printExtraction renders an extraction result in the requested format.
// The file sequence is consumed exactly once.
func printExtraction(w io.Writer, result *datalad.ExtractionResult, format, query string) error {
	switch format {
	case "jsonl":
		return printJSONL(w, result)
	case "text":
		return printText(w, result)
	default:
		return printJSON(w, result, query)
	}
}

// collectDocument drains the lazy file sequence into a single queryable
// document. Plain map and slice types keep JSONPath evaluation simple.
func collectDocument(result *datalad.ExtractionResult) (map[string]any, error) {
	files := []any{}
	for fm, err := range result.Files {
		if err != nil {
			return nil, err
		}
		files = append(files, map[string]any{
			"path":     fm.Path,
			"metadata": map[string]any(fm.Record),
		})
	}
	return map[string]any{
		"dataset": map[string]any(result.Dataset),
		"files":   files,
	}, nil
}

func printJSON(w io.Writer, result *datalad.ExtractionResult, query string) error {
	doc, err := collectDocument(result)
	if err != nil {
		return err
	}

	var out any = doc
	if query != "" {
		expr, perr := jp.ParseString(query)
		if perr != nil {
			return fmt.Errorf("invalid --query expression '%s': %w", query, perr)
		}
		matches := expr.Get(doc)
		switch len(matches) {
		case 0:
			out = nil
		case 1:
			out = matches[0]
		default:
			out = matches
		}
	}

	_, err = fmt.Fprintln(w, oj.JSON(out, &oj.Options{Sort: true, Indent: 2}))
	return err
}

func printJSONL(w io.Writer, result *datalad.ExtractionResult) error {
	opts := &oj.Options{Sort: true}

	line := oj.JSON(map[string]any{
		"type":     "dataset",
		"metadata": map[string]any(result.Dataset),
	}, opts)
	if _, err := fmt.Fprintln(w, line); err != nil {
		return err
	}

	for fm, err := range result.Files {
		if err != nil {
			return err
		}
		line := oj.JSON(map[string]any{
			"type":     "file",
			"path":     fm.Path,
			"metadata": map[string]any(fm.Record),
		}, opts)
		if _, werr := fmt.Fprintln(w, line); werr != nil {
			return werr
		}
	}
	return nil
}

func printText(w io.Writer, result *datalad.ExtractionResult) error {
	fmt.Fprintln(w, "Dataset:")
	if len(result.Dataset) == 0 {
		fmt.Fprintln(w, "  (no descriptor found)")
	}
	for _, k := range sortedKeys(result.Dataset) {
		fmt.Fprintf(w, "  %s: %s\n", k, oj.JSON(result.Dataset[k]))
	}

	count := 0
	for fm, err := range result.Files {
		if err != nil {
			return err
		}
		count++
		fmt.Fprintf(w, "\n%s\n", fm.Path)
		for _, k := range sortedKeys(fm.Record) {
			fmt.Fprintf(w, "  %s: %s\n", k, oj.JSON(fm.Record[k]))
		}
	}

	fmt.Fprintf(w, "\n%d file record(s)\n", count)
	return nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
