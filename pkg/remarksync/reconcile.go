package remarksync

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ukaji3/remarksync-go/pkg/remarksync/annotate"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/host"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/models"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/output"
	"github.com/ukaji3/remarksync-go/pkg/remarksync/parser"
)

// document is one opened side of a reconciliation.
type document struct {
	role      string
	wb        host.Workbook
	sheet     host.Sheet
	annotated host.AnnotatedSheet // nil when the sheet has no notes
	rows      [][]string
	header    int // 0-based header row
	index     map[string]int
}

func (d *document) locate(marker string, maxScan int) error {
	rows, err := d.sheet.Rows()
	if err != nil {
		return err
	}
	d.rows = rows
	d.header = 0
	if marker != "" {
		h, err := parser.LocateHeaderRow(rows, marker, maxScan)
		if err != nil {
			return fmt.Errorf("%s: %w", d.role, err)
		}
		d.header = h
	}
	if d.header >= len(rows) {
		return fmt.Errorf("%s: header row %w", d.role, ErrNotFound)
	}
	d.index = parser.HeaderIndex(rows[d.header])
	return nil
}

func (d *document) columns(names ...string) ([]int, error) {
	cols, err := parser.ResolveColumns(d.index, names)
	var mc *MissingColumnError
	if errors.As(err, &mc) {
		mc.Source = d.role + " workbook " + d.wb.Name()
	}
	return cols, err
}

// Reconcile copies the value column, and the notes on it, from every row of
// the workbook at oldPath to the row with the same composite key in the
// workbook at newPath, and saves the result to opts.OutputPath. Rows of the
// new workbook without a match are left unchanged. When several old rows
// share a key the last one wins.
//
// The run happens inside one session of mgr. Any failure is returned as a
// *ReconcileError once both workbooks are closed and the host is released;
// nothing is saved on failure.
func Reconcile(mgr *host.Manager, oldPath, newPath string, opts Options) (*models.Result, error) {
	opts = opts.withDefaults()
	log := opts.Logger.With("old", oldPath, "new", newPath)
	if opts.RunID != "" {
		log = log.With("run_id", opts.RunID)
	}

	result := &models.Result{RunID: opts.RunID, OldPath: oldPath, NewPath: newPath}
	err := mgr.Run(func(app host.Application) error {
		return reconcile(app, oldPath, newPath, opts, log, result)
	})
	if err != nil {
		var re *ReconcileError
		if !errors.As(err, &re) {
			err = newReconcileError("host", err)
		}
		log.Error("reconciliation failed", "error", err)
		return nil, err
	}
	log.Info("reconciliation complete",
		"matched", result.Matched,
		"unmatched", result.Unmatched,
		"duplicates", result.DuplicateKeys,
		"annotations", result.AnnotationsCopied,
		"output", result.OutputPath,
	)
	return result, nil
}

func reconcile(app host.Application, oldPath, newPath string, opts Options, log *slog.Logger, result *models.Result) error {
	if opts.OutputPath == "" {
		return newReconcileError("save", fmt.Errorf("no output path: %w", ErrInvalidPath))
	}

	oldDoc, err := open(app, "old", oldPath, opts.OldSheet, true, log)
	if err != nil {
		return newReconcileError("open", err)
	}
	defer oldDoc.close(log)
	newDoc, err := open(app, "new", newPath, opts.NewSheet, false, log)
	if err != nil {
		return newReconcileError("open", err)
	}
	defer newDoc.close(log)

	for _, d := range []*document{oldDoc, newDoc} {
		if err := d.locate(opts.HeaderMarker, opts.MaxScanRows); err != nil {
			return newReconcileError("header", err)
		}
	}

	// every column is checked before the target is touched
	oldCols, err := oldDoc.columns(append([]string{opts.ValueField}, opts.KeyFields...)...)
	if err != nil {
		return newReconcileError("columns", err)
	}
	oldValueCol, oldKeyCols := oldCols[0], oldCols[1:]
	if _, err := newDoc.columns(opts.KeyFields...); err != nil {
		return newReconcileError("columns", err)
	}

	if _, ok := newDoc.index[opts.ValueField]; !ok {
		if err := provision(newDoc, opts); err != nil {
			return newReconcileError("provision", err)
		}
		result.ColumnInserted = true
		log.Info("value column added to target", "column", parser.ColumnName(opts.ValueColumn), "label", opts.ValueField)
	}
	newKeyCols, err := newDoc.columns(opts.KeyFields...)
	if err != nil {
		return newReconcileError("provision", err)
	}
	newValueCol := newDoc.index[opts.ValueField]

	carryNotes := opts.ShouldCopyAnnotations() && oldDoc.annotated != nil && newDoc.annotated != nil
	if opts.ShouldCopyAnnotations() && !carryNotes {
		log.Debug("notes not supported by one of the workbooks, copying values only")
	}

	lookup, err := scan(oldDoc, oldKeyCols, oldValueCol, carryNotes, result)
	if err != nil {
		return newReconcileError("scan", err)
	}
	log.Debug("lookup built", "keys", len(lookup), "rows", result.OldRows)

	if err := apply(newDoc, newKeyCols, newValueCol, lookup, carryNotes, result); err != nil {
		return newReconcileError("apply", err)
	}

	if err := output.RemoveExisting(opts.OutputPath); err != nil {
		return newReconcileError("save", err)
	}
	if err := newDoc.wb.SaveAs(opts.OutputPath); err != nil {
		return newReconcileError("save", err)
	}
	result.OutputPath = opts.OutputPath
	return nil
}

func open(app host.Application, role, path, sheet string, readOnly bool, log *slog.Logger) (*document, error) {
	wb, err := app.Open(path, readOnly)
	if err != nil {
		return nil, err
	}
	sh, err := wb.Sheet(sheet)
	if err != nil {
		if cerr := wb.Close(false); cerr != nil {
			log.Debug("closing workbook", "workbook", wb.Name(), "error", cerr)
		}
		return nil, err
	}
	d := &document{role: role, wb: wb, sheet: sh}
	if as, ok := sh.(host.AnnotatedSheet); ok {
		d.annotated = as
	}
	log.Debug("workbook opened", "role", role, "workbook", wb.Name(), "sheet", sh.Name(), "read_only", readOnly)
	return d, nil
}

func (d *document) close(log *slog.Logger) {
	if err := d.wb.Close(false); err != nil {
		log.Debug("closing workbook", "workbook", d.wb.Name(), "error", err)
	}
}

// provision inserts the value column on the target and reloads its header.
func provision(d *document, opts Options) error {
	if err := d.sheet.InsertColumn(opts.ValueColumn); err != nil {
		return err
	}
	if err := d.sheet.SetValue(d.header+1, opts.ValueColumn, opts.ValueField); err != nil {
		return err
	}
	rows, err := d.sheet.Rows()
	if err != nil {
		return err
	}
	d.rows = rows
	d.index = parser.HeaderIndex(rows[d.header])
	if _, ok := d.index[opts.ValueField]; !ok {
		return fmt.Errorf("inserted column %q %w", opts.ValueField, ErrNotFound)
	}
	return nil
}

func scan(d *document, keyCols []int, valueCol int, carryNotes bool, result *models.Result) (map[string]models.Remark, error) {
	lookup := make(map[string]models.Remark)
	for r := d.header + 1; r < len(d.rows); r++ {
		key := parser.BuildRowKey(d.rows[r], keyCols)
		if key.Empty() {
			continue
		}
		result.OldRows++

		row := r + 1
		value, err := d.sheet.Value(row, valueCol+1)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", cellName(row, valueCol+1), err)
		}
		remark := models.Remark{Value: value, Row: row}
		if carryNotes {
			a, err := d.annotated.Annotation(row, valueCol+1)
			if err != nil {
				return nil, fmt.Errorf("reading note %s: %w", cellName(row, valueCol+1), err)
			}
			if remark.Annotation, err = a.Clone(); err != nil {
				return nil, err
			}
		}

		k := key.String()
		if _, dup := lookup[k]; dup {
			result.DuplicateKeys++
		}
		lookup[k] = remark
	}
	return lookup, nil
}

func apply(d *document, keyCols []int, valueCol int, lookup map[string]models.Remark, carryNotes bool, result *models.Result) error {
	for r := d.header + 1; r < len(d.rows); r++ {
		key := parser.BuildRowKey(d.rows[r], keyCols)
		if key.Empty() {
			continue
		}
		result.NewRows++

		remark, ok := lookup[key.String()]
		if !ok {
			result.Unmatched++
			continue
		}
		row, col := r+1, valueCol+1
		if err := d.sheet.SetValue(row, col, remark.Value); err != nil {
			return fmt.Errorf("writing %s: %w", cellName(row, col), err)
		}
		result.Matched++

		if !carryNotes || remark.Annotation == nil {
			continue
		}
		if err := d.annotated.ClearAnnotation(row, col); err != nil {
			return fmt.Errorf("clearing note %s: %w", cellName(row, col), err)
		}
		note, err := remark.Annotation.Clone()
		if err != nil {
			return err
		}
		report, err := annotate.Transfer(note, d.annotated.Cell(row, col))
		if err != nil {
			return fmt.Errorf("copying note to %s: %w", cellName(row, col), err)
		}
		result.AnnotationsCopied++
		for _, f := range report.Skipped {
			result.SkippedFields = append(result.SkippedFields, cellName(row, col)+": "+f)
		}
	}
	return nil
}

func cellName(row, col int) string {
	return fmt.Sprintf("%s%d", parser.ColumnName(col), row)
}
