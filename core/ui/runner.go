// Package ui - Batch runner with live progress
package ui

import (
	"context"
	"strconv"
	"sync"
	"time"

	"isofit/core/batch"
	"isofit/core/engine"
	"isofit/core/output"
	"isofit/internal/i18n"
)

// BatchView runs a batch with a progress bar and prints a result table
type BatchView struct {
	w            *Writer
	runner       *batch.Runner
	showProgress bool
}

// NewBatchView creates a view over runner
func NewBatchView(w *Writer, runner *batch.Runner, showProgress bool) *BatchView {
	return &BatchView{w: w, runner: runner, showProgress: showProgress}
}

// Run evaluates the file's items, drawing progress while they complete
func (v *BatchView) Run(ctx context.Context, file *batch.File, lang string) []batch.Outcome {
	if v.showProgress {
		var mu sync.Mutex
		bar := v.w.NewProgressBar(len(file.Items), "Calculating")
		v.runner.OnProgress(func(p batch.Progress) {
			mu.Lock()
			defer mu.Unlock()
			bar.Update(int(p.Completed + p.Failed))
		})
		defer bar.Done()
	}
	return v.runner.Run(ctx, file.Items, lang)
}

// Display prints one row per outcome followed by the run statistics
func (v *BatchView) Display(outcomes []batch.Outcome, lang string) {
	p := i18n.Printer(lang)

	table := v.w.NewTable(
		p.Sprintf("output.name"),
		p.Sprintf("output.grade"),
		p.Sprintf("output.result"),
		p.Sprintf("output.max_clearance"),
		p.Sprintf("output.min_clearance"),
	).AlignRight(3, 4)

	for _, o := range outcomes {
		grade := o.Item.Grade
		if o.Item.Kind == batch.KindFit {
			grade = o.Item.Hole + "/" + o.Item.Shaft
		}

		if o.Err != nil {
			msg := output.NewErrorView(o.Err, lang).Message
			table.AddRow(o.Item.Name, grade, v.w.Color(Red, msg))
			continue
		}

		r := o.Result
		if r.Fit == nil {
			c := r.Components()[0]
			table.AddRow(o.Item.Name, c.Grade, c.MinSize.StringFixed(3)+" - "+c.MaxSize.StringFixed(3))
			continue
		}
		table.AddRow(o.Item.Name, grade,
			v.w.Fit(r.Fit.Type, engine.FitTypeName(p, r.Fit.Type)),
			strconv.Itoa(r.Fit.MaxClearance),
			strconv.Itoa(r.Fit.MinClearance))
	}
	table.Render()

	stats := v.runner.Stats()
	v.w.Println("")
	if stats.Failed > 0 {
		v.w.Warning("%d of %d calculations failed", stats.Failed, stats.Total)
	} else {
		v.w.Success("%d calculations", stats.Completed)
	}
	v.w.Debug("workers: %d, average: %s", stats.MaxConcurrency, stats.AverageDuration)
	v.w.Println("%s", v.w.Color(Dim, "Completed in "+stats.EndTime.Sub(stats.StartTime).Round(time.Microsecond).String()))
}
