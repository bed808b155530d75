package scene

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/godo/pkg/rng"
)

// InitialCameraSize is the length of the initial camera buffer: one camera
// index per formation of every record.
const InitialCameraSize = RecordCount * FormationCount

// Report summarizes a table run.
type Report struct {
	// Records is the number of records transformed without failure.
	Records int

	// Results holds one entry per record, in record order. Entries of
	// records that failed before their transform started are nil.
	Results []*RecordResult

	Failures        []*SectionError
	Inconsistencies []Inconsistency
}

// Failed reports whether any record failed.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}

// RandomizeTable transforms every record of table in place.
//
// Each record gets its own random stream, split from master in record
// order before any record runs, so the output for a given master seed is
// the same whether records run one by one or on several workers. A failed
// record is listed in the report and never stops the run; only a
// malformed table, a short initial camera buffer or a cancelled context
// return an error.
func (t *Transformer) RandomizeTable(ctx context.Context, table, initCam []byte, master *rng.Rand) (*Report, error) {
	recs, err := Records(table)
	if err != nil {
		return nil, err
	}
	if t.opts.Battle.RandomCamera && len(initCam) < InitialCameraSize {
		return nil, fmt.Errorf("%w: %d bytes, need %d", ErrInitialCamera, len(initCam), InitialCameraSize)
	}

	streams := make([]*rng.Rand, RecordCount)
	for i := range streams {
		streams[i] = master.Split()
	}

	report := &Report{Results: make([]*RecordResult, RecordCount)}
	errs := make([]error, RecordCount)

	run := func(i int) {
		report.Results[i], errs[i] = t.Transform(recs[i], i, recordCamera(initCam, i), streams[i])
	}

	if t.workers > 1 {
		err = t.runParallel(ctx, run)
	} else {
		err = runSequential(ctx, run)
	}
	if err != nil {
		return nil, err
	}

	for i, res := range report.Results {
		if res != nil {
			report.Inconsistencies = append(report.Inconsistencies, res.Inconsistencies...)
		}
		if errs[i] == nil {
			report.Records++
			continue
		}
		var se *SectionError
		if !errors.As(errs[i], &se) {
			se = &SectionError{Record: i, Section: EnemySlots.String(), Err: errs[i]}
		}
		report.Failures = append(report.Failures, se)
		t.log.Error("record transform failed",
			zap.Int("record", se.Record),
			zap.String("section", se.Section),
			zap.Error(se.Err))
	}

	t.log.Info("scene table randomized",
		zap.Int("records", report.Records),
		zap.Int("failures", len(report.Failures)),
		zap.Int("inconsistencies", len(report.Inconsistencies)))

	return report, nil
}

func runSequential(ctx context.Context, run func(int)) error {
	for i := 0; i < RecordCount; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		run(i)
	}
	return nil
}

func (t *Transformer) runParallel(ctx context.Context, run func(int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(t.workers)

	for i := 0; i < RecordCount; i++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			run(i)
			return nil
		})
	}
	return g.Wait()
}

// recordCamera returns the initial camera indices of record i, or nil when
// buf does not cover it.
func recordCamera(buf []byte, i int) []byte {
	start := i * FormationCount
	end := start + FormationCount
	if end > len(buf) {
		return nil
	}
	return buf[start:end:end]
}
