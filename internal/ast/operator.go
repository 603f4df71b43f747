package ast

import (
	"dooble/internal/source"
)

type OperatorLayer struct {
	Description     string // как в исходнике, с пробелами
	DescriptionSpan source.Span
	OpenSpan        source.Span
	CloseSpan       source.Span
	Span            source.Span
}

func (l *Layers) Operator(id LayerID) (*OperatorLayer, bool) {
	layer := l.Arena.Get(uint32(id))
	if layer == nil || layer.Kind != LayerOperator {
		return nil, false
	}
	op := l.Operators.Get(uint32(layer.Payload))
	return op, op != nil
}

func (l *Layers) NewOperator(
	description string,
	descriptionSpan source.Span,
	openSpan source.Span,
	closeSpan source.Span,
	line uint32,
	span source.Span,
) LayerID {
	payload := PayloadID(l.Operators.Allocate(OperatorLayer{
		Description:     description,
		DescriptionSpan: descriptionSpan,
		OpenSpan:        openSpan,
		CloseSpan:       closeSpan,
		Span:            span,
	}))
	return l.New(LayerOperator, span, line, payload)
}
