package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/tapegraph/pkg/cache"
	"github.com/matzehuels/tapegraph/pkg/dag"
	"github.com/matzehuels/tapegraph/pkg/errors"
	pkgio "github.com/matzehuels/tapegraph/pkg/io"
	"github.com/matzehuels/tapegraph/pkg/observability"
	"github.com/matzehuels/tapegraph/pkg/pebble"
	"github.com/matzehuels/tapegraph/pkg/tm"
	"github.com/matzehuels/tapegraph/pkg/trace"
)

// Runner executes simulations and pebblings with caching.
//
// The Runner holds no per-run state; one Runner may serve concurrent
// requests as long as each request works on its own machine and graph.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	TTL    time.Duration
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// means [cache.DefaultKeyer], and a nil logger means log.Default().
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger, TTL: DefaultTTL}
}

type cachedTrace struct {
	Outcome tm.Outcome      `json:"outcome"`
	Halted  bool            `json:"halted"`
	Steps   int             `json:"steps"`
	State   string          `json:"state"`
	Tapes   []tm.Snapshot   `json:"tapes"`
	Graph   json.RawMessage `json:"graph"`
}

// Simulate runs the machine from its start state until it halts or
// MaxSteps steps have fired, tracing every step into a new graph.
// Cancelling ctx stops the run between steps.
func (r *Runner) Simulate(ctx context.Context, opts SimulateOptions) (*SimulateResult, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := opts.Logger
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnSimulateStart(ctx, opts.Machine.Tapes())

	mode, _ := trace.ParseLineageMode(opts.Lineage)
	machineHash, err := MachineHash(opts.Machine)
	if err != nil {
		return nil, err
	}
	key := r.Keyer.TraceKey(machineHash, cache.TraceKeyOpts{
		Input:     opts.Input,
		InputTape: opts.InputTape,
		MaxSteps:  opts.MaxSteps,
		Lineage:   mode.String(),
	})

	if !opts.Refresh {
		if res, ok := r.cachedSimulation(ctx, key); ok {
			res.Duration = time.Since(start)
			logger.Debug("simulation cache hit", "steps", res.Steps, "outcome", res.Outcome)
			hooks.OnSimulateComplete(ctx, res.Outcome.String(), res.Steps, res.Duration, nil)
			return res, nil
		}
	}

	res, err := simulate(ctx, opts, mode)
	res.Duration = time.Since(start)
	if err != nil {
		hooks.OnSimulateComplete(ctx, res.Outcome.String(), res.Steps, res.Duration, err)
		return nil, err
	}
	res.RunID = uuid.NewString()
	res.GraphHash = GraphHash(res.Graph)
	hooks.OnSimulateComplete(ctx, res.Outcome.String(), res.Steps, res.Duration, nil)

	logger.Info("simulated machine",
		"outcome", res.Outcome,
		"steps", res.Steps,
		"nodes", res.Graph.NodeCount(),
		"edges", res.Graph.EdgeCount(),
		"duration", res.Duration)

	r.storeSimulation(ctx, key, res)
	return res, nil
}

func simulate(ctx context.Context, opts SimulateOptions, mode trace.LineageMode) (*SimulateResult, error) {
	res := &SimulateResult{}
	e, err := tm.NewEngine(opts.Machine)
	if err != nil {
		return res, err
	}
	if err := e.LoadInput(opts.InputTape, opts.Input); err != nil {
		return res, err
	}

	g := dag.New()
	b := trace.New(e, g, trace.WithLineageMode(mode))
	b.Begin()
	res.Outcome = tm.Stepped
	for res.Outcome == tm.Stepped {
		// at the limit, one more call is still made if it cannot fire, so
		// a halted run reports why it halted
		if e.Steps() >= opts.MaxSteps && !e.Halted() {
			break
		}
		if err := ctx.Err(); err != nil {
			res.Steps = e.Steps()
			return res, err
		}
		ev, err := b.Step()
		if err != nil {
			return res, err
		}
		res.Outcome = ev.Result.Outcome
	}

	res.Halted = e.Halted()
	res.Steps = e.Steps()
	res.State = e.CurrentState().Name
	for i := range opts.Machine.Tapes() {
		snap, _ := e.TapeSnapshot(i)
		res.Tapes = append(res.Tapes, snap)
	}
	res.Graph = g
	return res, nil
}

func (r *Runner) cachedSimulation(ctx context.Context, key string) (*SimulateResult, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "trace")
		return nil, false
	}
	var ct cachedTrace
	if err := json.Unmarshal(data, &ct); err != nil {
		observability.Cache().OnCacheMiss(ctx, "trace")
		return nil, false
	}
	g, err := pkgio.ReadJSON(bytes.NewReader(ct.Graph))
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "trace")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "trace")
	return &SimulateResult{
		RunID:     uuid.NewString(),
		Outcome:   ct.Outcome,
		Halted:    ct.Halted,
		Steps:     ct.Steps,
		State:     ct.State,
		Tapes:     ct.Tapes,
		Graph:     g,
		GraphHash: GraphHash(g),
		CacheHit:  true,
	}, true
}

func (r *Runner) storeSimulation(ctx context.Context, key string, res *SimulateResult) {
	var buf bytes.Buffer
	if err := pkgio.WriteJSON(res.Graph, &buf); err != nil {
		return
	}
	data, err := json.Marshal(cachedTrace{
		Outcome: res.Outcome,
		Halted:  res.Halted,
		Steps:   res.Steps,
		State:   res.State,
		Tapes:   res.Tapes,
		Graph:   buf.Bytes(),
	})
	if err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, data, r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "trace", len(data))
}

// Pebble computes and verifies a move list for g. A cyclic graph fails
// with a CYCLE error and g is left untouched. On success g holds the final
// pebble position of the move list.
func (r *Runner) Pebble(ctx context.Context, g *dag.Graph, opts PebbleOptions) (*PebbleResult, error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	hooks := observability.Pipeline()
	start := time.Now()
	hooks.OnPebbleStart(ctx, opts.Strategy, g.NodeCount())

	if _, err := g.TopologicalOrder(); err != nil {
		err = errors.Wrap(errors.ErrCodeCycle, err, "graph is not acyclic")
		hooks.OnPebbleComplete(ctx, opts.Strategy, 0, 0, time.Since(start), err)
		return nil, err
	}

	res := &PebbleResult{
		RunID:     uuid.NewString(),
		Strategy:  opts.Strategy,
		GraphHash: GraphHash(g),
	}
	key := r.Keyer.PebbleKey(res.GraphHash, opts.Strategy, pebble.Version)

	var moves []pebble.Move
	if !opts.Refresh {
		moves, res.CacheHit = r.cachedMoves(ctx, key)
	}
	if !res.CacheHit {
		strategy, err := pebble.Lookup(opts.Strategy)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "strategy")
		}
		if moves, err = strategy(g); err != nil {
			err = errors.Wrap(errors.ErrCodeInternal, err, "%s strategy", opts.Strategy)
			hooks.OnPebbleComplete(ctx, opts.Strategy, 0, 0, time.Since(start), err)
			return nil, err
		}
	}

	stats, err := pebble.Verify(g, moves)
	if err != nil {
		if res.CacheHit {
			// stale or foreign entry; recompute once
			_ = r.Cache.Delete(ctx, key)
			opts.Refresh = true
			return r.Pebble(ctx, g, opts)
		}
		err = errors.Wrap(errors.ErrCodeIllegalMove, err, "%s strategy produced an invalid pebbling", opts.Strategy)
		hooks.OnPebbleComplete(ctx, opts.Strategy, len(moves), 0, time.Since(start), err)
		return nil, err
	}
	if res.CacheHit {
		replay(g, moves)
	}

	res.Moves = moves
	res.Stats = stats
	res.Duration = time.Since(start)
	hooks.OnPebbleComplete(ctx, opts.Strategy, stats.Moves, stats.Peak, res.Duration, nil)

	logger.Info("pebbled graph",
		"strategy", opts.Strategy,
		"nodes", g.NodeCount(),
		"moves", stats.Moves,
		"peak", stats.Peak,
		"cached", res.CacheHit,
		"duration", res.Duration)

	if !res.CacheHit {
		r.storeMoves(ctx, key, moves)
	}
	return res, nil
}

// replay applies verified moves to g so its pebble state matches a fresh
// computation.
func replay(g *dag.Graph, moves []pebble.Move) {
	gm := pebble.NewGame(g)
	for _, m := range moves {
		_, _ = gm.Apply(m)
	}
}

func (r *Runner) cachedMoves(ctx context.Context, key string) ([]pebble.Move, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, "pebble")
		return nil, false
	}
	moves, err := pkgio.ReadMoves(bytes.NewReader(data))
	if err != nil {
		observability.Cache().OnCacheMiss(ctx, "pebble")
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "pebble")
	return moves, true
}

func (r *Runner) storeMoves(ctx context.Context, key string, moves []pebble.Move) {
	var buf bytes.Buffer
	if err := pkgio.WriteMoves(moves, &buf); err != nil {
		return
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "error", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "pebble", buf.Len())
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// GraphHash hashes the node and edge sets of g. Coordinates, pebble state
// and metadata do not contribute.
func GraphHash(g *dag.Graph) string {
	edges := make([][2]dag.NodeID, 0, g.EdgeCount())
	for _, e := range g.Edges() {
		edges = append(edges, [2]dag.NodeID{e.From, e.To})
	}
	data, _ := json.Marshal(struct {
		Nodes []dag.NodeID    `json:"nodes"`
		Edges [][2]dag.NodeID `json:"edges"`
	}{g.NodeIDs(), edges})
	return cache.Hash(data)
}

// MachineHash hashes the text form of m.
func MachineHash(m *tm.Machine) (string, error) {
	var buf bytes.Buffer
	if err := pkgio.WriteMachine(m, &buf); err != nil {
		return "", fmt.Errorf("hash machine: %w", err)
	}
	return cache.Hash(buf.Bytes()), nil
}
