package driver

import (
	"context"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"dooble/internal/diag"
	"dooble/internal/marble"
	"dooble/internal/observ"
	"dooble/internal/project"
	"dooble/internal/source"
	"dooble/internal/trace"
)

// DiagramExt is the extension CheckDir picks up.
const DiagramExt = ".txt"

// CheckOptions configures CheckDir and CheckFiles.
type CheckOptions struct {
	Jobs           int
	MaxDiagnostics int
	Cache          *DiskCache // nil disables caching
	Sink           ProgressSink
}

// CheckResult содержит результат проверки одной диаграммы.
type CheckResult struct {
	Path   string
	FileID source.FileID
	Bag    *diag.Bag
	Export *marble.Export // nil when the diagram has errors
	Cached bool
	Err    error // *parser.SyntaxError, *lower.StructuralError, *project.LinksError
	Timing *observ.Report
}

// Failed reports whether the diagram produced no export.
func (r *CheckResult) Failed() bool {
	return r.Err != nil || r.Export == nil
}

// ListDiagrams возвращает отсортированный список всех *.txt файлов в директории.
func ListDiagrams(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, DiagramExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// CheckDir проверяет все диаграммы в директории параллельно.
func CheckDir(ctx context.Context, dir string, opts CheckOptions) (*source.FileSet, []CheckResult, error) {
	files, err := ListDiagrams(dir)
	if err != nil {
		return nil, nil, err
	}
	return CheckFiles(ctx, dir, files, opts)
}

// CheckFiles runs Layout over files with at most opts.Jobs workers. Results
// keep the order of files regardless of scheduling.
func CheckFiles(ctx context.Context, baseDir string, files []string, opts CheckOptions) (*source.FileSet, []CheckResult, error) {
	fileSet := source.NewFileSetWithBase(baseDir)
	if len(files) == 0 {
		return fileSet, nil, nil
	}

	ctx, span := trace.Begin(ctx, trace.ScopeCommand, "check")
	span.Note(strconv.Itoa(len(files)) + " files")

	// FileSet заполняется до старта воркеров, дальше только читается
	fileIDs := make([]source.FileID, len(files))
	loadErrors := make([]error, len(files))
	loadTimes := make([]time.Duration, len(files))
	for i, path := range files {
		emit(opts.Sink, Event{File: path, Stage: StageLoad, Status: StatusQueued})
		start := time.Now()
		fileIDs[i], loadErrors[i] = fileSet.Load(path)
		loadTimes[i] = time.Since(start)
	}

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	results := make([]CheckResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(files)))

	for i, path := range files {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = checkOne(gctx, fileSet, path, fileIDs[i], loadErrors[i], loadTimes[i], opts)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		span.End(err)
		return fileSet, results, err
	}
	span.End(nil)
	emit(opts.Sink, Event{Status: StatusDone})
	return fileSet, results, nil
}

func checkOne(ctx context.Context, fileSet *source.FileSet, path string, fileID source.FileID, loadErr error, loadTime time.Duration, opts CheckOptions) CheckResult {
	started := time.Now()
	res := CheckResult{Path: path, FileID: fileID, Bag: diag.NewBag(opts.MaxDiagnostics)}

	if loadErr != nil {
		res.Err = loadErr
		res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, "failed to load file: "+loadErr.Error()))
		emit(opts.Sink, Event{File: path, Stage: StageLoad, Status: StatusError, Err: loadErr, Elapsed: time.Since(started)})
		return res
	}

	file := fileSet.Get(fileID)
	key, linksHash, keyErr := cacheKey(file)
	if keyErr == nil && opts.Cache != nil {
		var payload DiskPayload
		if ok, err := opts.Cache.Get(key, &payload); err == nil && ok && payload.ContentHash == project.Digest(file.Hash) {
			export := *payload.Export
			export.Source = file.Path
			res.Export = &export
			res.Cached = true
			emit(opts.Sink, Event{File: path, Stage: StageLinks, Status: StatusCached, Elapsed: time.Since(started)})
			return res
		}
	}

	timer := observ.NewTimer()
	idx := timer.Begin("load")
	timer.End(idx, "preloaded in "+loadTime.String())

	observer := func(ev PhaseEvent) {
		if ev.Status == PhaseStart {
			emit(opts.Sink, Event{File: path, Stage: Stage(ev.Name), Status: StatusWorking})
		}
	}
	layout, err := layoutLoaded(ctx, fileSet, fileID, LayoutOptions{
		MaxDiagnostics: opts.MaxDiagnostics,
		PhaseObserver:  observer,
	}, timer)
	report := timer.Report()
	res.Timing = &report
	if layout != nil && layout.Bag != nil {
		res.Bag = layout.Bag
	}
	if err != nil {
		res.Err = err
		if layout == nil {
			res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{File: fileID}, err.Error()))
		}
		emit(opts.Sink, Event{File: path, Status: StatusError, Err: err, Elapsed: time.Since(started)})
		return res
	}
	res.Export = layout.Export

	if keyErr == nil && opts.Cache != nil {
		// ошибка записи кэша не должна валить проверку
		_ = opts.Cache.Put(key, &DiskPayload{
			Path:        path,
			ContentHash: project.Digest(file.Hash),
			LinksHash:   linksHash,
			Export:      layout.Export,
		})
	}
	emit(opts.Sink, Event{File: path, Status: StatusDone, Elapsed: time.Since(started)})
	return res
}

// cacheKey = H(source || sidecar); a missing sidecar contributes the zero digest.
func cacheKey(file *source.File) (key, linksHash project.Digest, err error) {
	linksHash, err = linksDigest(project.SidecarPath(file.Path))
	if err != nil {
		return project.Digest{}, project.Digest{}, err
	}
	return project.Combine(project.Digest(file.Hash), linksHash), linksHash, nil
}
