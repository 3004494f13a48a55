package graph

// Category tags used by the built-in dataset and the default anchor layout.
const (
	CategoryFrontend = "frontend"
	CategoryBackend  = "backend"
	CategoryDevOps   = "devops"
	CategoryTooling  = "tooling"
)

// Graph is a node/edge list describing one diagram.
type Graph struct {
	Nodes []Node `json:"nodes" toml:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" toml:"edges" yaml:"edges"`
}

// Node is one labeled entity in the diagram.
type Node struct {
	ID       int    `json:"id" toml:"id" yaml:"id"`
	Name     string `json:"name" toml:"name" yaml:"name"`
	Icon     string `json:"icon,omitempty" toml:"icon,omitempty" yaml:"icon,omitempty"`         // Icon reference (path or URL)
	Category string `json:"category,omitempty" toml:"category,omitempty" yaml:"category,omitempty"` // Anchor key; empty means unclustered
}

// Label returns a short display label, falling back to the id.
func (n Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return "#" + itoa(n.ID)
}

// Edge connects two nodes by id.
type Edge struct {
	Source int `json:"source" toml:"source" yaml:"source"`
	Target int `json:"target" toml:"target" yaml:"target"`
}

// Bucket is a named group of nodes that are fully connected to each other.
type Bucket struct {
	Category string `json:"category" toml:"category" yaml:"category"`
	Nodes    []Node `json:"nodes" toml:"nodes" yaml:"nodes"`
}
