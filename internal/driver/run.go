// Package driver orchestrates patch runs: it loads targets, feeds them
// through the patch engine, persists changed buffers and aggregates the
// per-rule outcomes into a run report.
//
// Mutating runs are strictly sequential: one file is loaded, transformed and
// written before the next is touched, and each file gets at most one disk
// write. The read-only check path fans out across workers instead; see
// CheckBatch.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"graft/internal/observ"
	"graft/internal/patch"
	"graft/internal/report"
	"graft/internal/rules"
	"graft/internal/source"
)

// Options configures a patch run.
type Options struct {
	Rules *rules.RuleSet

	// DryRun plans and reports but never writes.
	DryRun bool
	// Backup snapshots the on-disk bytes before the first write; requires
	// Store.
	Backup bool
	// Jobs caps CheckBatch workers (0 = GOMAXPROCS). Mutating runs ignore it.
	Jobs int

	Timer    *observ.Timer
	Progress ProgressSink
	Store    *SnapStore
}

func (o *Options) validate(verb string) error {
	if o.Rules == nil || len(o.Rules.Rules) == 0 {
		return fmt.Errorf("%s: no rules loaded", verb)
	}
	if o.Backup && o.Store == nil {
		return fmt.Errorf("%s: backup requested without a snapshot store", verb)
	}
	return nil
}

// RunBatch patches the given files in order. A file that fails is reported
// in its FileResult and skipped; it never aborts the rest of the batch. The
// returned FileSet holds every revision produced during the run.
func RunBatch(ctx context.Context, paths []string, opts Options) (*source.FileSet, *report.Report, error) {
	if err := opts.validate("run"); err != nil {
		return nil, nil, err
	}

	fileSet := source.NewFileSet()
	rep := &report.Report{}

	for _, path := range paths {
		select {
		case <-ctx.Done():
			return fileSet, rep, ctx.Err()
		default:
		}
		rep.Add(runOne(fileSet, path, &opts))
	}
	return fileSet, rep, nil
}

// RunFile patches a single file.
func RunFile(ctx context.Context, path string, opts Options) (*source.FileSet, report.FileResult, error) {
	fileSet, rep, err := RunBatch(ctx, []string{path}, opts)
	if err != nil {
		return fileSet, report.FileResult{Path: path}, err
	}
	return fileSet, rep.Files[0], nil
}

func runOne(fileSet *source.FileSet, path string, opts *Options) report.FileResult {
	fr := report.FileResult{Path: path}
	start := time.Now()

	emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
	endLoad := opts.Timer.Track("load")
	id, err := fileSet.Load(path)
	endLoad()
	if err != nil {
		fr.Err = fmt.Sprintf("%s: %v", report.IOLoadFileError.ID(), err)
		emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return fr
	}

	emit(opts.Progress, Event{File: path, Stage: StagePatch, Status: StatusWorking})
	endPatch := opts.Timer.Track("patch")
	res, applyErr := patch.ApplyRules(fileSet, id, opts.Rules)
	endPatch()

	fr.Rules = res.Rules
	fr.Changed = res.Changed
	fr.Inserts = res.Inserts

	if applyErr != nil {
		code := report.PatRuleFailed
		if errors.Is(applyErr, patch.ErrConflict) {
			code = report.PatConflict
		}
		fr.Err = fmt.Sprintf("%s: %v", code.ID(), applyErr)
		emit(opts.Progress, Event{File: path, Stage: StagePatch, Status: StatusError, Err: applyErr, Elapsed: time.Since(start)})
		return fr
	}

	if !res.Changed || opts.DryRun {
		emit(opts.Progress, Event{File: path, Stage: StagePatch, Status: StatusDone, Inserts: res.Inserts, Elapsed: time.Since(start)})
		return fr
	}

	emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: StatusWorking})
	endWrite := opts.Timer.Track("write")
	err = persist(fileSet, res.FileID, path, opts)
	endWrite()
	if err != nil {
		fr.Err = fmt.Sprintf("%s: %v", report.IOWriteFileError.ID(), err)
		emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: StatusError, Err: err, Elapsed: time.Since(start)})
		return fr
	}

	fr.Written = true
	emit(opts.Progress, Event{File: path, Stage: StageWrite, Status: StatusDone, Inserts: res.Inserts, Elapsed: time.Since(start)})
	return fr
}

// persist writes the revision back through Encode so the original BOM and
// line-ending envelope is restored. File mode is preserved when the target
// already exists.
func persist(fileSet *source.FileSet, id source.FileID, path string, opts *Options) error {
	f := fileSet.Get(id)
	if f == nil {
		return fmt.Errorf("revision %d not found", id)
	}

	if opts.Backup {
		if err := opts.Store.Save(path); err != nil {
			return fmt.Errorf("snapshot before write: %w", err)
		}
	}

	mode := fs.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	return os.WriteFile(path, f.Encode(), mode)
}

// ListTargets returns every file under dir carrying one of the extensions,
// sorted for a deterministic batch order. Extensions match case-insensitively
// and may be given with or without the leading dot; an empty list accepts
// every file.
func ListTargets(dir string, exts []string) ([]string, error) {
	normalized := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		normalized = append(normalized, e)
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if len(normalized) == 0 || slices.Contains(normalized, strings.ToLower(filepath.Ext(path))) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}
