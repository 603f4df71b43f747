package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"dooble/internal/ast"
	"dooble/internal/diag"
	"dooble/internal/lower"
	"dooble/internal/marble"
	"dooble/internal/observ"
	"dooble/internal/parser"
	"dooble/internal/project"
	"dooble/internal/source"
	"dooble/internal/trace"
)

// LayoutOptions configures Layout.
type LayoutOptions struct {
	MaxDiagnostics int
	// LinksPath overrides the "<diagram>.links.toml" sidecar. An explicit
	// path must exist; the implicit sidecar is optional.
	LinksPath     string
	NoLinks       bool
	PhaseObserver PhaseObserver
}

// LayoutResult carries every artefact of one diagram. Diagram and Export are
// nil whenever Layout returns an error.
type LayoutResult struct {
	FileSet     *source.FileSet
	File        *source.File
	Builder     *ast.Builder
	FileID      ast.FileID
	Diagram     *marble.Diagram
	Export      *marble.Export
	Bag         *diag.Bag
	Timer       *observ.Timer
	LinksDigest project.Digest
}

// Layout runs load, parse, lower and link resolution for one file.
// Failures are reported as *parser.SyntaxError, *lower.StructuralError or
// *project.LinksError; I/O errors are wrapped.
func Layout(ctx context.Context, path string, opts LayoutOptions) (*LayoutResult, error) {
	ctx, span := trace.BeginDiagram(ctx, path)
	timer := observ.NewTimer()
	fs := source.NewFileSet()

	var fileID source.FileID
	err := runPhase(ctx, timer, opts.PhaseObserver, "load", func() (string, error) {
		var loadErr error
		fileID, loadErr = fs.Load(path)
		return "", loadErr
	})
	if err != nil {
		err = fmt.Errorf("failed to load %s: %w", path, err)
		span.End(err)
		return nil, err
	}
	res, err := layoutPhases(ctx, fs, fileID, opts, timer)
	span.SetLayers(res.layerCount()).End(err)
	return res, err
}

// layoutLoaded is Layout for a file that is already in fs.
func layoutLoaded(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts LayoutOptions, timer *observ.Timer) (*LayoutResult, error) {
	ctx, span := trace.BeginDiagram(ctx, fs.Get(fileID).Path)
	res, err := layoutPhases(ctx, fs, fileID, opts, timer)
	span.SetLayers(res.layerCount()).End(err)
	return res, err
}

func layoutPhases(ctx context.Context, fs *source.FileSet, fileID source.FileID, opts LayoutOptions, timer *observ.Timer) (*LayoutResult, error) {
	if timer == nil {
		timer = observ.NewTimer()
	}
	file := fs.Get(fileID)
	res := &LayoutResult{FileSet: fs, File: file, Timer: timer}

	var parsed *ParseResult
	err := runPhase(ctx, timer, opts.PhaseObserver, "parse", func() (string, error) {
		var parseErr error
		parsed, parseErr = parseLoaded(ctx, fs, fileID, opts.MaxDiagnostics)
		if parseErr != nil {
			return "", parseErr
		}
		return fmt.Sprintf("%d diagnostics", parsed.Bag.Len()), nil
	})
	if err != nil {
		return nil, err
	}
	res.Builder = parsed.Builder
	res.FileID = parsed.FileID
	res.Bag = parsed.Bag
	if err := parser.SyntaxErrorFromBag(fs, res.Bag); err != nil {
		return res, err
	}

	var diagram *marble.Diagram
	err = runPhase(ctx, timer, opts.PhaseObserver, "lower", func() (string, error) {
		var lowerErr error
		diagram, lowerErr = lower.Build(res.Builder, res.FileID)
		if lowerErr != nil {
			return "", lowerErr
		}
		return strconv.Itoa(diagram.Len()) + " layers", nil
	})
	if err != nil {
		res.reportStructural(err)
		return res, err
	}
	traceLayers(ctx, diagram)

	var emission []marble.Link
	err = runPhase(ctx, timer, opts.PhaseObserver, "links", func() (string, error) {
		var linksErr error
		emission, res.LinksDigest, linksErr = loadEmissionLinks(file.Path, opts, diagram.Len())
		if linksErr != nil {
			return "", linksErr
		}
		return fmt.Sprintf("%d higher-order, %d emission", len(diagram.HigherOrderLinks()), len(emission)), nil
	})
	if err != nil {
		res.reportLinks(err)
		return res, err
	}

	export, err := marble.NewExport(diagram, file.Path, emission)
	if err != nil {
		return res, err
	}
	res.Diagram = diagram
	res.Export = export
	return res, nil
}

func (r *LayoutResult) layerCount() int {
	if r == nil || r.Diagram == nil {
		return 0
	}
	return r.Diagram.Len()
}

// runPhase оборачивает шаг в фазу таймера и уведомляет observer.
func runPhase(ctx context.Context, timer *observ.Timer, observer PhaseObserver, name string, fn func() (string, error)) error {
	_, span := trace.Begin(ctx, trace.ScopePhase, name)
	idx := timer.Begin(name)
	if observer != nil {
		observer(PhaseEvent{Name: name, Status: PhaseStart})
	}
	note, err := fn()
	if err != nil {
		note = "failed"
	}
	timer.End(idx, note)
	span.Note(note).End(err)
	if observer != nil {
		observer(PhaseEvent{Name: name, Status: PhaseEnd, Elapsed: timer.Phase(idx).Dur})
	}
	return err
}

func traceLayers(ctx context.Context, diagram *marble.Diagram) {
	if trace.FromContext(ctx).Level() < trace.LevelDebug {
		return
	}
	for i, layer := range diagram.Layers() {
		trace.Layer(ctx, i, layer.Kind.String())
	}
}

func loadEmissionLinks(diagramPath string, opts LayoutOptions, layerCount int) ([]marble.Link, project.Digest, error) {
	if opts.NoLinks {
		return nil, project.Digest{}, nil
	}
	path := opts.LinksPath
	explicit := path != ""
	if !explicit {
		path = project.SidecarPath(diagramPath)
	}
	links, found, err := project.LoadLinks(path, layerCount)
	if err != nil {
		return nil, project.Digest{}, err
	}
	if !found {
		if explicit {
			return nil, project.Digest{}, &project.LinksError{Path: path, Index: -1, Reason: "file not found"}
		}
		return nil, project.Digest{}, nil
	}
	digest, err := linksDigest(path)
	if err != nil {
		return nil, project.Digest{}, err
	}
	return links, digest, nil
}

// linksDigest hashes the sidecar bytes; a missing sidecar hashes to zero.
func linksDigest(path string) (project.Digest, error) {
	// #nosec G304 -- path is derived from a user-supplied diagram path
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return project.Digest{}, nil
		}
		return project.Digest{}, err
	}
	return project.DigestBytes(data), nil
}

func (r *LayoutResult) reportStructural(err error) {
	var se *lower.StructuralError
	if !errors.As(err, &se) || r.Bag == nil {
		return
	}
	primary := r.fileSpan()
	if file := r.Builder.Files.Get(r.FileID); file != nil && se.Layer >= 0 && se.Layer < len(file.Layers) {
		if layer := r.Builder.Layers.Get(file.Layers[se.Layer]); layer != nil {
			primary = layer.Span
		}
	}
	r.Bag.Add(diag.NewError(diag.StrMalformedLayer, primary, se.Reason))
}

func (r *LayoutResult) reportLinks(err error) {
	if r.Bag == nil {
		return
	}
	var le *project.LinksError
	if errors.As(err, &le) {
		r.Bag.Add(diag.NewError(diag.PrjLinksInvalid, r.fileSpan(), le.Error()))
		return
	}
	r.Bag.Add(diag.NewError(diag.IOLoadFileError, r.fileSpan(), err.Error()))
}

func (r *LayoutResult) fileSpan() source.Span {
	if r.File == nil {
		return source.Span{}
	}
	return source.Span{File: r.File.ID}
}
