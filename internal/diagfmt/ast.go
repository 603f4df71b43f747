package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"

	"dooble/internal/ast"
	"dooble/internal/source"
)

type ASTNodeOutput struct {
	Type     string          `json:"type"`
	Kind     string          `json:"kind,omitempty"`
	Span     source.Span     `json:"span"`
	Text     string          `json:"text,omitempty"`
	Children []ASTNodeOutput `json:"children,omitempty"`
	Fields   map[string]any  `json:"fields,omitempty"`
}

func FormatASTPretty(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file not found")
	}

	header := "File"
	if fs != nil && int(file.Span.File) < fs.Len() {
		header = fs.Get(file.Span.File).FormatPath("auto", fs.BaseDir())
	}
	fmt.Fprintf(w, "%s (span: %s)\n", header, formatSpan(file.Span, fs))

	for i, layerID := range file.Layers {
		isLast := i == len(file.Layers)-1
		branch, prefix := "├─", "│  "
		if isLast {
			branch, prefix = "└─", "   "
		}
		fmt.Fprintf(w, "%s Layer[%d]: ", branch, i)
		if err := formatLayerPretty(w, builder, layerID, fs, prefix); err != nil {
			return err
		}
	}
	return nil
}

func formatLayerPretty(w io.Writer, builder *ast.Builder, layerID ast.LayerID, fs *source.FileSet, prefix string) error {
	layer := builder.Layers.Get(layerID)
	if layer == nil {
		return fmt.Errorf("layer %d not found", layerID)
	}
	fmt.Fprintf(w, "%s line %d (span: %s)\n", layer.Kind, layer.Line, formatSpan(layer.Span, fs))

	switch layer.Kind {
	case ast.LayerObservable:
		obs, ok := builder.Layers.Observable(layerID)
		if !ok {
			return fmt.Errorf("layer %d: missing observable payload", layerID)
		}
		lifetimes := builder.Layers.CollectLifetimes(obs)
		fmt.Fprintf(w, "%s├─ Skip: %d\n", prefix, obs.Skip)
		if obs.Kind != ast.KindNone {
			fmt.Fprintf(w, "%s├─ Kind: %s %q\n", prefix, obs.Kind, obs.KindText)
		}
		fmt.Fprintf(w, "%s├─ Lifetime: %d\n", prefix, len(lifetimes))
		for _, lt := range lifetimes {
			fmt.Fprintf(w, "%s│  • %s %q (span: %s)\n", prefix, lt.Kind, lt.Text, formatSpan(lt.Span, fs))
		}
		fmt.Fprintf(w, "%s└─ Completion: %s\n", prefix, obs.Completion)
	case ast.LayerOperator:
		op, ok := builder.Layers.Operator(layerID)
		if !ok {
			return fmt.Errorf("layer %d: missing operator payload", layerID)
		}
		fmt.Fprintf(w, "%s└─ Description: %q\n", prefix, op.Description)
	}
	return nil
}

func FormatASTJSON(w io.Writer, builder *ast.Builder, fileID ast.FileID) error {
	root, err := BuildASTJSON(builder, fileID)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(root)
}

// BuildASTJSON формирует JSON-дерево AST без сериализации.
func BuildASTJSON(builder *ast.Builder, fileID ast.FileID) (ASTNodeOutput, error) {
	file := builder.Files.Get(fileID)
	if file == nil {
		return ASTNodeOutput{}, fmt.Errorf("file not found")
	}
	children := make([]ASTNodeOutput, 0, len(file.Layers))
	for _, layerID := range file.Layers {
		node, err := formatLayerJSON(builder, layerID)
		if err != nil {
			return ASTNodeOutput{}, err
		}
		children = append(children, node)
	}
	return ASTNodeOutput{
		Type:     "File",
		Span:     file.Span,
		Children: children,
	}, nil
}

func formatLayerJSON(builder *ast.Builder, layerID ast.LayerID) (ASTNodeOutput, error) {
	layer := builder.Layers.Get(layerID)
	if layer == nil {
		return ASTNodeOutput{}, fmt.Errorf("layer %d not found", layerID)
	}
	node := ASTNodeOutput{
		Type:   "Layer",
		Kind:   layer.Kind.String(),
		Span:   layer.Span,
		Fields: map[string]any{"line": layer.Line},
	}

	switch layer.Kind {
	case ast.LayerObservable:
		obs, ok := builder.Layers.Observable(layerID)
		if !ok {
			return ASTNodeOutput{}, fmt.Errorf("layer %d: missing observable payload", layerID)
		}
		node.Fields["skip"] = obs.Skip
		node.Fields["completion"] = obs.Completion.String()
		if obs.Kind != ast.KindNone {
			node.Fields["kind"] = obs.Kind.String()
			node.Fields["kind_text"] = obs.KindText
		}
		for _, lt := range builder.Layers.CollectLifetimes(obs) {
			node.Children = append(node.Children, ASTNodeOutput{
				Type: "Lifetime",
				Kind: lt.Kind.String(),
				Span: lt.Span,
				Text: lt.Text,
			})
		}
	case ast.LayerOperator:
		op, ok := builder.Layers.Operator(layerID)
		if !ok {
			return ASTNodeOutput{}, fmt.Errorf("layer %d: missing operator payload", layerID)
		}
		node.Text = op.Description
	}
	return node, nil
}
