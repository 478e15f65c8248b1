package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ukaji3/remarksync-go/pkg/remarksync"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/host"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/output"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/profile"
)

type carryoverFlags struct {
	profile      string
	outputPath   string
	transient    bool
	keys         []string
	valueField   string
	valueColumn  int
	headerMarker string
	sheet        string
	noNotes      bool
	jsonSummary  bool
	pretty       bool
}

func newCarryoverCmd() *cobra.Command {
	var f carryoverFlags
	cmd := &cobra.Command{
		Use:   "carryover OLD NEW",
		Short: "Carry remarks from an old workbook to a new one",
		Long: `carryover matches the rows of NEW with the rows of OLD on a composite key and
copies the remark column, with its cell notes, onto the matching rows. The
result is saved as a dated copy of NEW; neither input is modified.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCarryover(cmd, args[0], args[1], f)
		},
	}

	cmd.Flags().StringVarP(&f.profile, "profile", "p", "order-tracking", "Reconciliation profile (see 'remarksync profiles')")
	cmd.Flags().StringVarP(&f.outputPath, "output", "o", "", "Output file path (default: dated file in the output directory)")
	cmd.Flags().BoolVar(&f.transient, "transient", false, "Write the output to a fresh temporary directory")
	cmd.Flags().StringSliceVar(&f.keys, "key", nil, "Key column labels, in order (overrides the profile)")
	cmd.Flags().StringVar(&f.valueField, "value-field", "", "Remark column label (overrides the profile)")
	cmd.Flags().IntVar(&f.valueColumn, "value-column", 0, "Position of the remark column when added to NEW (overrides the profile)")
	cmd.Flags().StringVar(&f.headerMarker, "header-marker", "", "Text identifying the header row (overrides the profile)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "Worksheet name in both workbooks (default: first)")
	cmd.Flags().BoolVar(&f.noNotes, "no-notes", false, "Copy values only, not cell notes")
	cmd.Flags().BoolVar(&f.jsonSummary, "json", false, "Print a JSON run summary to stdout")
	cmd.Flags().BoolVar(&f.pretty, "pretty", false, "Pretty-print the JSON summary")

	_ = viper.BindPFlag("output.transient", cmd.Flags().Lookup("transient"))
	return cmd
}

func runCarryover(cmd *cobra.Command, oldPath, newPath string, f carryoverFlags) error {
	for _, p := range []string{oldPath, newPath} {
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", p)
		}
	}

	logger, runID, err := runLogger()
	if err != nil {
		return err
	}

	profiles, err := profile.Load(viper.GetString("profiles.file"))
	if err != nil {
		return err
	}
	prof, err := profiles.Lookup(f.profile)
	if err != nil {
		return err
	}

	opts := prof.Options()
	if len(f.keys) > 0 {
		opts.KeyFields = f.keys
	}
	if f.valueField != "" {
		opts.ValueField = f.valueField
	}
	if f.valueColumn > 0 {
		opts.ValueColumn = f.valueColumn
	}
	if cmd.Flags().Changed("header-marker") {
		opts.HeaderMarker = f.headerMarker
	}
	if f.sheet != "" {
		opts.OldSheet, opts.NewSheet = f.sheet, f.sheet
	}
	if f.noNotes {
		off := false
		opts.Annotations = &off
	}
	opts.Logger = logger
	opts.RunID = runID

	now := time.Now()
	switch {
	case f.outputPath != "":
		opts.OutputPath = f.outputPath
	case viper.GetBool("output.transient"):
		opts.OutputPath, err = output.TransientPath(now)
	default:
		opts.OutputPath, err = output.SavePath(viper.GetString("output.dir"), now)
	}
	if err != nil {
		return err
	}

	mgr := host.NewManager(hostConfigFromViper(),
		host.WithLauncher(host.ExcelLauncher(viper.GetString("csv.charset"))),
		host.WithLogger(logger),
	)
	result, err := remarksync.Reconcile(mgr, oldPath, newPath, opts)
	if err != nil {
		return err
	}

	if f.jsonSummary {
		data, err := output.ToJSON(result, f.pretty)
		if err != nil {
			return fmt.Errorf("serialization failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%d of %d rows updated, saved to %s\n", result.Matched, result.NewRows, result.OutputPath)
	return nil
}
