package lower

import (
	"fmt"

	"dooble/internal/ast"
	"dooble/internal/marble"
)

// lowerer — состояние перевода одного файла AST в модель диаграммы.
type lowerer struct {
	builder *ast.Builder
	diagram *marble.Diagram
	index   int
	line    uint32
}

// Build walks the layers of file and returns a finalized diagram. Any
// malformed layer fails the whole build; no partial diagram is returned.
func Build(builder *ast.Builder, fileID ast.FileID) (*marble.Diagram, error) {
	if builder == nil {
		return nil, &StructuralError{Layer: -1, Reason: "nil AST builder"}
	}
	file := builder.Files.Get(fileID)
	if file == nil {
		return nil, &StructuralError{Layer: -1, Reason: fmt.Sprintf("unknown file %d", fileID)}
	}

	l := &lowerer{
		builder: builder,
		diagram: marble.NewDiagram(),
	}
	for i, layerID := range file.Layers {
		l.index = i
		if err := l.lowerLayer(layerID); err != nil {
			return nil, err
		}
	}
	l.diagram.Finalize()
	return l.diagram, nil
}

func (l *lowerer) fail(reason string, err error) error {
	return &StructuralError{Layer: l.index, Line: l.line, Reason: reason, Err: err}
}

func (l *lowerer) lowerLayer(id ast.LayerID) error {
	layer := l.builder.Layers.Get(id)
	if layer == nil {
		l.line = 0
		return l.fail(fmt.Sprintf("missing layer node %d", id), nil)
	}
	l.line = layer.Line
	switch layer.Kind {
	case ast.LayerObservable:
		node, ok := l.builder.Layers.Observable(id)
		if !ok {
			return l.fail("observable layer without payload", nil)
		}
		obs, err := l.lowerObservable(node)
		if err != nil {
			return err
		}
		l.diagram.AddObservable(obs)
	case ast.LayerOperator:
		node, ok := l.builder.Layers.Operator(id)
		if !ok {
			return l.fail("operator layer without payload", nil)
		}
		if node.Description == "" {
			return l.fail("operator without description", nil)
		}
		l.diagram.AddOperator(marble.NewOperator(node.Description))
	default:
		return l.fail(fmt.Sprintf("unknown layer kind %d", layer.Kind), nil)
	}
	return nil
}

// lowerObservable resolves character offsets into positions. The leading
// skip sets the initial position; a kind marker occupies one cell and is
// itself the visual start.
func (l *lowerer) lowerObservable(node *ast.ObservableLayer) (*marble.Observable, error) {
	pos := marble.Position(node.Skip)

	var (
		isChild bool
		label   string
	)
	switch node.Kind {
	case ast.KindNone:
	case ast.KindChild:
		isChild = true
		pos++
	case ast.KindLabel:
		if len(node.KindText) != 1 {
			return nil, l.fail(fmt.Sprintf("bad label %q", node.KindText), nil)
		}
		label = node.KindText
		pos++
	default:
		return nil, l.fail(fmt.Sprintf("unknown kind marker %d", node.Kind), nil)
	}

	start := pos
	if isChild || label != "" {
		start = pos - 1
	}
	b := marble.NewObservableBuilder(start, isChild, label)

	lifetimes := l.builder.Layers.CollectLifetimes(node)
	if uint32(len(lifetimes)) != node.LifetimeCount {
		return nil, l.fail("lifetime elements are missing", nil)
	}
	for _, lt := range lifetimes {
		switch lt.Kind {
		case ast.LifetimeTimespan:
			pos++
		case ast.LifetimeItem:
			switch lt.Text {
			case "":
				return nil, l.fail("empty item", nil)
			case "+":
				b.OnObservableAt(pos)
			default:
				b.OnNextAt(lt.Text, pos)
			}
			pos += marble.Position(len(lt.Text))
		default:
			return nil, l.fail(fmt.Sprintf("unknown lifetime kind %d", lt.Kind), nil)
		}
	}

	switch node.Completion {
	case ast.CompletionCompleted:
		b.OnCompletedAt(pos)
	case ast.CompletionErrored:
		b.OnErrorAt(pos)
	case ast.CompletionContinued:
		b.OnContinuedAt(pos)
	default:
		return nil, l.fail(fmt.Sprintf("unknown completion %q", node.Completion), nil)
	}

	obs, err := b.Build()
	if err != nil {
		return nil, l.fail("observable", err)
	}
	return obs, nil
}
