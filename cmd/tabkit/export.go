package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/autom8ter/tabkit"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
)

func exportCmd(logger loggerFunc) *cobra.Command {
	var (
		flags    queryFlags
		format   string
		tmplText string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "print every record matching a query, without pagination",
		RunE: func(cmd *cobra.Command, _ []string) error {
			lgger, err := logger()
			if err != nil {
				return err
			}
			records, err := flags.records()
			if err != nil {
				return err
			}
			q, err := flags.query()
			if err != nil {
				return err
			}
			results, err := tabkit.NewProcessor(tabkit.WithLogger(lgger)).ProcessAll(cmd.Context(), records, q)
			if err != nil {
				return err
			}
			return export(cmd.OutOrStdout(), results, format, tmplText)
		},
	}
	flags.register(cmd, false)
	cmd.Flags().StringVar(&format, "format", "json", "output format (json|csv|template)")
	cmd.Flags().StringVar(&tmplText, "template", "", "go template rendered once per record when --format=template (sprig functions available)")
	return cmd
}

func export(w io.Writer, records tabkit.Records, format string, tmplText string) error {
	switch format {
	case "json":
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(records)
	case "csv":
		return exportCSV(w, records)
	case "template":
		if tmplText == "" {
			return fmt.Errorf("--template is required when --format=template")
		}
		tmpl, err := template.New("record").Funcs(sprig.FuncMap()).Parse(tmplText)
		if err != nil {
			return err
		}
		for _, r := range records {
			if err := tmpl.Execute(w, r.Value()); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

// exportCSV writes one column per flattened field path. Records missing a path get an empty cell.
func exportCSV(w io.Writer, records tabkit.Records) error {
	columns := records.FieldPaths()
	writer := csv.NewWriter(w)
	if err := writer.Write(columns); err != nil {
		return err
	}
	for _, r := range records {
		flattened := r.Flatten()
		row := make([]string, len(columns))
		for i, c := range columns {
			if v, ok := flattened[c]; ok && v != nil {
				row[i] = cast.ToString(v)
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
