package cache

// Keyer builds cache keys for pipeline results.
type Keyer interface {
	// TraceKey identifies a simulation: machine content, input word and
	// run options.
	TraceKey(machineHash string, opts TraceKeyOpts) string
	// PebbleKey identifies a pebbling of one graph under one strategy at
	// one strategy version.
	PebbleKey(graphHash, strategy string, version int) string
}

// TraceKeyOpts are the simulation options that change the result.
type TraceKeyOpts struct {
	Input     string `json:"input"`
	InputTape int    `json:"input_tape"`
	MaxSteps  int    `json:"max_steps"`
	Lineage   string `json:"lineage,omitempty"`
}

// DefaultKeyer hashes key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// TraceKey returns "trace:<hash>".
func (DefaultKeyer) TraceKey(machineHash string, opts TraceKeyOpts) string {
	return hashKey("trace", machineHash, opts)
}

// PebbleKey returns "pebble:<hash>".
func (DefaultKeyer) PebbleKey(graphHash, strategy string, version int) string {
	return hashKey("pebble", graphHash, strategy, version)
}

// ScopedKeyer prefixes every key of an inner Keyer, so several
// deployments can share one Redis database.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means
// [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) TraceKey(machineHash string, opts TraceKeyOpts) string {
	return k.prefix + k.inner.TraceKey(machineHash, opts)
}

func (k *ScopedKeyer) PebbleKey(graphHash, strategy string, version int) string {
	return k.prefix + k.inner.PebbleKey(graphHash, strategy, version)
}
