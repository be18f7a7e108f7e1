package runner

import (
	"context"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"abstain/internal/ledger"
	"abstain/internal/spec"
)

// StatusRow counts combinations for one model under one variant.
type StatusRow struct {
	Model     string
	Variant   string
	Total     int
	Completed int
}

// Pending returns the combinations still to run.
func (r StatusRow) Pending() int {
	return r.Total - r.Completed
}

// StatusReport summarizes ledger coverage of the combination space.
type StatusReport struct {
	Experiment string
	LedgerPath string
	Total      int
	Completed  int
	Rows       []StatusRow
}

// Pending returns the combinations still to run.
func (r StatusReport) Pending() int {
	return r.Total - r.Completed
}

// KeyReader loads completed keys without modifying the ledger.
type KeyReader func(ctx context.Context, cfg spec.LedgerConfig) (ledger.KeySet, error)

// Status compares the ledger with the configured combination space without
// calling any remote service. The ledger is read without locking, so status
// works while a run is active; a missing ledger counts as empty and is not
// created.
func Status(ctx context.Context, cfg spec.Config, limit int, read KeyReader) (StatusReport, error) {
	if read == nil {
		read = ledger.ReadKeys
	}
	if limit <= 0 {
		limit = cfg.Run.Limit
	}
	inputs, err := LoadInputs(cfg, limit)
	if err != nil {
		return StatusReport{}, err
	}
	completed, err := read(ctx, cfg.Ledger)
	if err != nil {
		return StatusReport{}, fmt.Errorf("load ledger: %w", err)
	}

	report := StatusReport{Experiment: cfg.Experiment, LedgerPath: cfg.Ledger.Path}
	index := map[[2]string]int{}
	for _, combination := range inputs.Combinations() {
		key := [2]string{combination.Model, combination.Variant.Name}
		pos, ok := index[key]
		if !ok {
			pos = len(report.Rows)
			index[key] = pos
			report.Rows = append(report.Rows, StatusRow{Model: combination.Model, Variant: combination.Variant.Name})
		}
		report.Rows[pos].Total++
		report.Total++
		if completed.Has(combination.Key()) {
			report.Rows[pos].Completed++
			report.Completed++
		}
	}
	sort.SliceStable(report.Rows, func(i, j int) bool {
		if report.Rows[i].Model != report.Rows[j].Model {
			return report.Rows[i].Model < report.Rows[j].Model
		}
		return report.Rows[i].Variant < report.Rows[j].Variant
	})
	return report, nil
}

// WriteStatus renders report as an aligned table.
func WriteStatus(w io.Writer, report StatusReport) error {
	fmt.Fprintf(w, "Experiment: %s\n", report.Experiment)
	fmt.Fprintf(w, "Ledger: %s\n", report.LedgerPath)
	fmt.Fprintf(w, "Completed: %d/%d (%d pending)\n\n", report.Completed, report.Total, report.Pending())
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "MODEL\tVARIANT\tCOMPLETED\tTOTAL\tPENDING")
	for _, row := range report.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\n", row.Model, row.Variant, row.Completed, row.Total, row.Pending())
	}
	return tw.Flush()
}
