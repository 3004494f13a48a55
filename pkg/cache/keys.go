package cache

// ArtifactKeyOpts are the render options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format       string  `json:"format"`
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	Compact      bool    `json:"compact"`
	Seed         uint64  `json:"seed"`
	OptionsHash  string  `json:"options_hash,omitempty"`
	MaxIteration int     `json:"max_iterations,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey keys one rendered format of one settled graph.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// ArtifactKey returns "artifact:<sha256>" over the graph hash and options.
func (DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts)
}
