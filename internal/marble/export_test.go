package marble

import (
	"encoding/json"
	"testing"
)

func sampleDiagram(t *testing.T) *Diagram {
	t.Helper()
	d := NewDiagram()
	d.AddObservable(parent(t, 1))
	d.AddObservable(child(t, 2))
	d.AddOperator(NewOperator(" map "))
	d.Finalize()
	return d
}

func TestExportRequiresFinalize(t *testing.T) {
	d := NewDiagram()
	d.AddObservable(parent(t, 1))
	if _, err := NewExport(d, "x.txt", nil); err == nil {
		t.Fatalf("expected error for a diagram that was not finalized")
	}
}

func TestExportMsgpackRoundTrip(t *testing.T) {
	d := sampleDiagram(t)
	emission := []Link{{FromX: 1, FromY: 0, ToX: 3, ToY: 1}}
	exp, err := NewExport(d, "x.txt", emission)
	if err != nil {
		t.Fatalf("NewExport: %v", err)
	}
	data, err := exp.Msgpack()
	if err != nil {
		t.Fatalf("Msgpack: %v", err)
	}
	back, err := UnmarshalExportMsgpack(data)
	if err != nil {
		t.Fatalf("UnmarshalExportMsgpack: %v", err)
	}
	if back.LayerCount != 3 || len(back.Layers) != 3 {
		t.Fatalf("layer count: want 3, got %d/%d", back.LayerCount, len(back.Layers))
	}
	if back.Layers[2].Operator == nil || back.Layers[2].Operator.Text != "map" {
		t.Fatalf("operator layer lost: %+v", back.Layers[2])
	}
	if len(back.EmissionLinks) != 1 || back.EmissionLinks[0] != emission[0] {
		t.Fatalf("emission links lost: %v", back.EmissionLinks)
	}
	if len(back.HigherOrderLinks) != 1 || back.HigherOrderLinks[0] != d.HigherOrderLinks()[0] {
		t.Fatalf("higher-order links lost: %v", back.HigherOrderLinks)
	}
}

func TestExportJSONShape(t *testing.T) {
	exp, err := NewExport(sampleDiagram(t), "x.txt", nil)
	if err != nil {
		t.Fatalf("NewExport: %v", err)
	}
	data, err := exp.JSON()
	if err != nil {
		t.Fatalf("JSON: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, ok := raw["emission_links"].([]any); !ok {
		t.Fatalf("emission_links must be an array even when empty: %s", data)
	}
	if raw["layer_count"].(float64) != 3 {
		t.Fatalf("layer_count: want 3, got %v", raw["layer_count"])
	}
}
