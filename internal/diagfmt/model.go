package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"dooble/internal/marble"
)

// FormatDiagramPretty печатает слои модели с позициями и затем связи.
func FormatDiagramPretty(w io.Writer, exp *marble.Export) error {
	fmt.Fprintf(w, "Diagram %s (layers: %d)\n", exp.Source, exp.LayerCount)
	for y, layer := range exp.Layers {
		switch layer.Kind {
		case marble.LayerObservable:
			o := layer.Observable
			if o == nil {
				return fmt.Errorf("layer %d: observable is nil", y)
			}
			flags := ""
			if o.IsChild {
				flags += " child"
			}
			if o.Label != "" {
				flags += " label=" + o.Label
			}
			fmt.Fprintf(w, "  %2d observable [%d..%d] %s%s\n", y, o.Start, o.End, o.Completion, flags)
			for _, e := range o.Items {
				fmt.Fprintf(w, "       %s\n", e)
			}
		case marble.LayerOperator:
			op := layer.Operator
			if op == nil {
				return fmt.Errorf("layer %d: operator is nil", y)
			}
			fmt.Fprintf(w, "  %2d operator   [%d..%d] %q\n", y, op.Start, op.End, op.Text)
		}
	}
	writeLinks(w, "higher-order links", exp.HigherOrderLinks)
	writeLinks(w, "emission links", exp.EmissionLinks)
	return nil
}

func writeLinks(w io.Writer, title string, links []marble.Link) {
	if len(links) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, l := range links {
		fmt.Fprintf(w, "  %s\n", l)
	}
}

// FormatDiagramGrid рисует модель обратно на сетке символов: одна строка на слой.
// Позиции модели становятся колонками, поэтому сетка совпадает с исходной
// нотацией с точностью до меток и пропусков.
func FormatDiagramGrid(w io.Writer, exp *marble.Export) error {
	for _, layer := range exp.Layers {
		var line string
		switch layer.Kind {
		case marble.LayerObservable:
			line = gridObservable(layer.Observable)
		case marble.LayerOperator:
			line = gridOperator(layer.Operator)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

func gridObservable(o *marble.Observable) string {
	if o == nil {
		return ""
	}
	cells := make([]byte, int(o.End)+1)
	for i := range cells {
		cells[i] = ' '
	}
	for i := int(o.Start); i < int(o.End); i++ {
		cells[i] = '-'
	}
	switch {
	case o.IsChild:
		cells[o.Start] = '+'
	case o.Label != "":
		cells[o.Start] = o.Label[0]
	}
	for _, e := range o.Items {
		if e.IsMarker() {
			cells[e.At] = '+'
			continue
		}
		copy(cells[e.At:], e.Value)
	}
	switch o.Completion {
	case marble.Completed:
		cells[o.End] = '|'
	case marble.Errored:
		cells[o.End] = '*'
	default:
		cells[o.End] = '>'
	}
	return string(cells)
}

func gridOperator(op *marble.Operator) string {
	if op == nil {
		return ""
	}
	inner := max(int(op.End-op.Start)-1, len(op.Text))
	pad := inner - len(op.Text)
	left := pad / 2
	return "[" + strings.Repeat(" ", left) + op.Text + strings.Repeat(" ", pad-left) + "]"
}
