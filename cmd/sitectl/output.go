package main

import (
	"encoding/json"
	"os"
	"strings"
	"text/tabwriter"
)

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable writes rows as an aligned table to stdout.
func printTable(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	defer w.Flush()

	w.Write([]byte(strings.Join(headers, "\t") + "\n"))
	for _, row := range rows {
		w.Write([]byte(strings.Join(row, "\t") + "\n"))
	}
}
