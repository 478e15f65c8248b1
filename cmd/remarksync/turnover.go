package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/output"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/parser"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/turnover"
)

func newTurnoverCmd() *cobra.Command {
	var marker string
	cmd := &cobra.Command{
		Use:   "turnover STOCK SALES",
		Short: "Compute turnover ratios from stock and sales extracts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			load := loadOptions("", marker)
			stock, err := parser.LoadTableFile(args[0], load)
			if err != nil {
				return err
			}
			sales, err := parser.LoadTableFile(args[1], load)
			if err != nil {
				return err
			}
			rows, err := turnover.WithSales(stock, sales)
			if err != nil {
				return err
			}

			path, err := outputFile("resultat_taux_rotation.xlsx")
			if err != nil {
				return err
			}
			table := turnover.Table("Taux de rotation", turnover.ColSold, rows)
			if err := output.WriteTable(path, "Taux de rotation", table); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&marker, "header-marker", "", "Text identifying the header row (default: first row)")
	return cmd
}

func newTurnoverMovementCmd() *cobra.Command {
	var marker string
	cmd := &cobra.Command{
		Use:   "turnover-movement STOCK MOVEMENTS",
		Short: "Compute turnover ratios from stock and stock movement extracts",
		Long: `turnover-movement writes two workbooks: the ratio per article and the ratio
per article family.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			load := loadOptions("", marker)
			stock, err := parser.LoadTableFile(args[0], load)
			if err != nil {
				return err
			}
			moves, err := parser.LoadTableFile(args[1], load)
			if err != nil {
				return err
			}
			rows, err := turnover.WithMovements(stock, moves)
			if err != nil {
				return err
			}

			articles, err := outputFile("taux_de_rotation_articles.xlsx")
			if err != nil {
				return err
			}
			families, err := outputFile("taux_de_rotation_familles.xlsx")
			if err != nil {
				return err
			}
			if err := output.WriteTable(articles, "Taux de rotation par article",
				turnover.Table("articles", turnover.ColMovement, rows)); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			if err := output.WriteTable(families, "Taux de rotation par famille",
				turnover.FamilyTable("familles", turnover.ColMovement, turnover.ByFamily(rows))); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", articles, families)
			return nil
		},
	}
	cmd.Flags().StringVar(&marker, "header-marker", turnover.ColReference, "Text identifying the header row")
	return cmd
}
