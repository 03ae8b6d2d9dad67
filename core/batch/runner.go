package batch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"isofit/core/engine"
	"isofit/core/types"
	"isofit/internal/errors"
	"isofit/internal/logging"
)

// Calculator runs one tolerance calculation
type Calculator interface {
	Calculate(ctx context.Context, req engine.Request) (*types.CalculationResult, error)
}

// Outcome is the result of one item. Exactly one of Result and Err is set.
type Outcome struct {
	Item     Item                     `json:"item"`
	Result   *types.CalculationResult `json:"result,omitempty"`
	Err      error                    `json:"-"`
	Duration time.Duration            `json:"-"`
}

// ErrorType returns the kind of the item's error, or "" on success
func (o Outcome) ErrorType() errors.Type {
	if o.Err == nil {
		return ""
	}
	return errors.TypeOf(o.Err)
}

// Stats tracks a run
type Stats struct {
	Total           int64
	Completed       int64
	Failed          int64
	MaxConcurrency  int
	StartTime       time.Time
	EndTime         time.Time
	AverageDuration time.Duration
}

// Progress is reported after every finished item
type Progress struct {
	Total     int64
	Completed int64
	Failed    int64
	Percent   float64
}

// ProgressCallback is called with progress updates
type ProgressCallback func(progress Progress)

// Runner evaluates items on a bounded worker pool. Items are independent: a
// failing item records its error and the others still run.
type Runner struct {
	calc       Calculator
	maxWorkers int
	onProgress ProgressCallback

	stats     Stats
	durations []time.Duration
	mu        sync.Mutex
}

// NewRunner creates a runner; maxWorkers <= 0 means 4
func NewRunner(calc Calculator, maxWorkers int) *Runner {
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	return &Runner{calc: calc, maxWorkers: maxWorkers}
}

// OnProgress registers a progress callback. It is called from worker
// goroutines and must be safe for concurrent use.
func (r *Runner) OnProgress(cb ProgressCallback) {
	r.onProgress = cb
}

// Run evaluates all items and returns one outcome per item in input order.
// Items not started before ctx is done fail with the context error.
func (r *Runner) Run(ctx context.Context, items []Item, lang string) []Outcome {
	outcomes := make([]Outcome, len(items))
	r.stats = Stats{Total: int64(len(items)), StartTime: time.Now()}
	r.durations = r.durations[:0]

	if len(items) == 0 {
		r.stats.EndTime = time.Now()
		return outcomes
	}

	workers := r.maxWorkers
	if len(items) < workers {
		workers = len(items)
	}
	r.stats.MaxConcurrency = workers

	work := make(chan int, len(items))
	for i := range items {
		work <- i
	}
	close(work)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range work {
				outcomes[i] = r.runItem(ctx, items[i], lang)
			}
		}()
	}
	wg.Wait()

	r.stats.EndTime = time.Now()
	r.calculateAverageDuration()
	return outcomes
}

func (r *Runner) runItem(ctx context.Context, item Item, lang string) Outcome {
	start := time.Now()
	out := Outcome{Item: item}

	if err := ctx.Err(); err != nil {
		out.Err = err
	} else if req, err := item.Request(lang); err != nil {
		out.Err = err
	} else {
		out.Result, out.Err = r.calc.Calculate(ctx, req)
	}
	out.Duration = time.Since(start)

	r.mu.Lock()
	r.durations = append(r.durations, out.Duration)
	r.mu.Unlock()

	if out.Err != nil {
		atomic.AddInt64(&r.stats.Failed, 1)
		logging.Warn("batch item failed",
			zap.String("kind", string(item.Kind)),
			zap.String("name", item.Name),
			zap.Int("line", item.Line),
			zap.String("error_type", string(out.ErrorType())),
			zap.Error(out.Err),
		)
	} else {
		atomic.AddInt64(&r.stats.Completed, 1)
	}

	r.reportProgress()
	return out
}

func (r *Runner) reportProgress() {
	if r.onProgress == nil {
		return
	}
	p := Progress{
		Total:     r.stats.Total,
		Completed: atomic.LoadInt64(&r.stats.Completed),
		Failed:    atomic.LoadInt64(&r.stats.Failed),
	}
	if p.Total > 0 {
		p.Percent = float64(p.Completed+p.Failed) / float64(p.Total) * 100
	}
	r.onProgress(p)
}

func (r *Runner) calculateAverageDuration() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.durations) == 0 {
		return
	}
	var total time.Duration
	for _, d := range r.durations {
		total += d
	}
	r.stats.AverageDuration = total / time.Duration(len(r.durations))
}

// Stats returns the statistics of the last run
func (r *Runner) Stats() Stats {
	return Stats{
		Total:           r.stats.Total,
		Completed:       atomic.LoadInt64(&r.stats.Completed),
		Failed:          atomic.LoadInt64(&r.stats.Failed),
		MaxConcurrency:  r.stats.MaxConcurrency,
		StartTime:       r.stats.StartTime,
		EndTime:         r.stats.EndTime,
		AverageDuration: r.stats.AverageDuration,
	}
}

// Failed returns the failed outcomes, in input order
func Failed(outcomes []Outcome) []Outcome {
	var out []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// CountByFit tallies successful outcomes by fit type; single components
// count as FitUnknown.
func CountByFit(outcomes []Outcome) map[types.FitType]int {
	counts := make(map[types.FitType]int)
	for _, o := range outcomes {
		if o.Result != nil {
			counts[o.Result.FitType()]++
		}
	}
	return counts
}
