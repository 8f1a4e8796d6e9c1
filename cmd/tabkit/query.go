package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/autom8ter/tabkit"
	"github.com/spf13/cobra"
)

// queryFlags mirror the http query parameters so both surfaces decode queries the same way
type queryFlags struct {
	file         string
	queryFile    string
	search       string
	searchFields []string
	filters      []string
	ranges       []string
	sort         string
	direction    string
	page         int
	pageSize     int
}

func (f *queryFlags) register(cmd *cobra.Command, paginate bool) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "path to a json or yaml array of records (required)")
	cmd.Flags().StringVarP(&f.queryFile, "query", "q", "", "path to a json or yaml query document (overrides the other query flags)")
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "case-insensitive search term")
	cmd.Flags().StringSliceVar(&f.searchFields, "search-fields", nil, "fields to search (default: every string field)")
	cmd.Flags().StringArrayVar(&f.filters, "filter", nil, "field=value filter (repeatable)")
	cmd.Flags().StringArrayVar(&f.ranges, "range", nil, "field=min,max inclusive range filter (repeatable)")
	cmd.Flags().StringVar(&f.sort, "sort", "", "field to sort by")
	cmd.Flags().StringVar(&f.direction, "direction", "asc", "sort direction (asc|desc)")
	if paginate {
		cmd.Flags().IntVar(&f.page, "page", tabkit.DefaultPage, "page number (1-indexed)")
		cmd.Flags().IntVar(&f.pageSize, "page-size", tabkit.DefaultPageSize, "records per page")
	}
	cmd.MarkFlagRequired("file")
}

func (f *queryFlags) records() (tabkit.Records, error) {
	bits, err := os.ReadFile(f.file)
	if err != nil {
		return nil, err
	}
	return tabkit.RecordsFromBytes(bits)
}

func (f *queryFlags) query() (tabkit.Query, error) {
	if f.queryFile != "" {
		bits, err := os.ReadFile(f.queryFile)
		if err != nil {
			return tabkit.Query{}, err
		}
		return tabkit.ParseQuery(bits)
	}
	params := url.Values{}
	params.Set("search", f.search)
	params.Set("search_fields", strings.Join(f.searchFields, ","))
	params.Set("sort", f.sort)
	params.Set("direction", f.direction)
	if f.page != 0 {
		params.Set("page", fmt.Sprint(f.page))
	}
	if f.pageSize != 0 {
		params.Set("page_size", fmt.Sprint(f.pageSize))
	}
	for _, filter := range f.filters {
		field, value, ok := strings.Cut(filter, "=")
		if !ok {
			return tabkit.Query{}, fmt.Errorf("bad filter %q: expected field=value", filter)
		}
		params.Set("filter."+field, value)
	}
	for _, r := range f.ranges {
		field, value, ok := strings.Cut(r, "=")
		if !ok {
			return tabkit.Query{}, fmt.Errorf("bad range %q: expected field=min,max", r)
		}
		params.Set("range."+field, value)
	}
	return tabkit.QueryFromParams(params)
}

func queryCmd(logger loggerFunc) *cobra.Command {
	var flags queryFlags
	cmd := &cobra.Command{
		Use:   "query",
		Short: "print one page of the records matching a query as json",
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
			result, err := tabkit.NewProcessor(tabkit.WithLogger(lgger)).Process(cmd.Context(), records, q)
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(result)
		},
	}
	flags.register(cmd, true)
	return cmd
}
