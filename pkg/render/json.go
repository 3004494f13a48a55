package render

import (
	"encoding/json"

	"github.com/matzehuels/folio/pkg/diagram"
)

// RenderJSON encodes f as indented JSON. Node and segment order match the
// frame.
func RenderJSON(f diagram.Frame) ([]byte, error) {
	if f.Nodes == nil {
		f.Nodes = []diagram.NodeView{}
	}
	if f.Segments == nil {
		f.Segments = []diagram.Segment{}
	}
	return json.MarshalIndent(f, "", "  ")
}
