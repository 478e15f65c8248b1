package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/delivery"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/output"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/parser"
)

func newDeliveryCmd() *cobra.Command {
	var (
		sheet  string
		marker string
		key    string
	)
	cmd := &cobra.Command{
		Use:   "delivery CURRENT PREVIOUS",
		Short: "Merge the remarks of two delivery-note extracts",
		Long: `delivery adds the previous month's remarks next to the current ones, matched on
the delivery-note number. Two workbooks are written: one row per current note
with the first previous remark, and the raw merge keeping every previous match.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, _, err := runLogger()
			if err != nil {
				return err
			}
			load := loadOptions(sheet, marker)
			current, err := parser.LoadTableFile(args[0], load)
			if err != nil {
				return err
			}
			previous, err := parser.LoadTableFile(args[1], load)
			if err != nil {
				return err
			}

			res, err := delivery.Merge(current, previous, delivery.Options{KeyField: key})
			if err != nil {
				return err
			}

			dedupPath, err := outputFile("fusion_bl.xlsx")
			if err != nil {
				return err
			}
			rawPath, err := outputFile("fusion_bl_doublons.xlsx")
			if err != nil {
				return err
			}
			if err := output.WriteTable(dedupPath, "Fusion BL", res.Deduplicated); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			if err := output.WriteTable(rawPath, "Fusion BL (doublons)", res.Raw); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			logger.Info("delivery notes merged", "rows", len(res.Deduplicated.Rows), "raw_rows", len(res.Raw.Rows))
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", dedupPath, rawPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&sheet, "sheet", delivery.DefaultSheet, "Worksheet holding the delivery notes")
	cmd.Flags().StringVar(&marker, "header-marker", delivery.DefaultHeaderMarker, "Text identifying the header row")
	cmd.Flags().StringVar(&key, "key", delivery.DefaultKeyField, "Delivery-note number column")
	return cmd
}
