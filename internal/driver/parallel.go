package driver

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"graft/internal/patch"
	"graft/internal/report"
	"graft/internal/source"
)

// CheckBatch runs every rule against every file without writing anything and
// reports which files would change. Files are independent here, so the work
// fans out across workers; each worker owns a private FileSet because
// FileSet is not safe for concurrent use.
func CheckBatch(ctx context.Context, paths []string, opts Options) (*report.Report, error) {
	if err := opts.validate("check"); err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return &report.Report{}, nil
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Result slots are per-index, no mutex needed.
	results := make([]report.FileResult, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func(i int, path string) func() error {
			return func() error {
				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}
				results[i] = checkOne(path, &opts)
				return nil
			}
		}(i, path))
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := &report.Report{}
	for _, fr := range results {
		rep.Add(fr)
	}
	return rep, nil
}

func checkOne(path string, opts *Options) report.FileResult {
	fr := report.FileResult{Path: path}

	emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
	fileSet := source.NewFileSet()
	id, err := fileSet.Load(path)
	if err != nil {
		fr.Err = fmt.Sprintf("%s: %v", report.IOLoadFileError.ID(), err)
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err})
		return fr
	}

	emit(opts.Progress, Event{File: path, Stage: StagePatch, Status: StatusWorking})
	res, applyErr := patch.ApplyRules(fileSet, id, opts.Rules)
	fr.Rules = res.Rules
	fr.Changed = res.Changed
	fr.Inserts = res.Inserts

	if applyErr != nil {
		code := report.PatRuleFailed
		if errors.Is(applyErr, patch.ErrConflict) {
			code = report.PatConflict
		}
		fr.Err = fmt.Sprintf("%s: %v", code.ID(), applyErr)
		emit(opts.Progress, Event{File: path, Stage: StagePatch, Status: StatusError, Err: applyErr})
		return fr
	}

	emit(opts.Progress, Event{File: path, Stage: StagePatch, Status: StatusDone, Inserts: res.Inserts})
	return fr
}
