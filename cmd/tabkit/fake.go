package main

import (
	"encoding/json"
	"fmt"

	"github.com/autom8ter/tabkit/testutil"
	"github.com/spf13/cobra"
)

func fakeCmd() *cobra.Command {
	var (
		kind  string
		count int
	)
	cmd := &cobra.Command{
		Use:   "fake",
		Short: fmt.Sprintf("generate a mock collection of records (%v)", testutil.Kinds),
		RunE: func(cmd *cobra.Command, _ []string) error {
			records, err := testutil.NewCollection(kind, count)
			if err != nil {
				return err
			}
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(records)
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "products", "kind of records to generate")
	cmd.Flags().IntVarP(&count, "count", "c", 100, "number of records to generate")
	return cmd
}
