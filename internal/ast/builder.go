package ast

import (
	"dooble/internal/source"
)

type Hints struct{ Files, Layers, Lifetimes uint }

type Builder struct {
	Files  *Files
	Layers *Layers
}

func NewBuilder(hints Hints) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 4
	}
	if hints.Layers == 0 {
		hints.Layers = 1 << 5
	}
	if hints.Lifetimes == 0 {
		hints.Lifetimes = 1 << 7
	}
	return &Builder{
		Files:  NewFiles(hints.Files),
		Layers: NewLayers(hints.Layers, hints.Lifetimes),
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

// PushLayer appends a layer to the file in source order.
func (b *Builder) PushLayer(file FileID, layer LayerID) {
	f := b.Files.Get(file)
	f.Layers = append(f.Layers, layer)
}
