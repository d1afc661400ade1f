package explore

import (
	"context"

	"github.com/wricardo/ricochet-robots/game/engine"
)

// DefaultReportEvery is how many expansions pass between observer calls.
const DefaultReportEvery = 1000

// Stats summarizes a traversal.
type Stats struct {
	// States is the number of distinct configurations discovered.
	States int `json:"states"`
	// Transitions counts successful moves, including those that led to a
	// configuration seen before.
	Transitions int  `json:"transitions"`
	MaxDepth    int  `json:"max_depth"`
	Truncated   bool `json:"truncated"`
}

// Progress is handed to the observer while a traversal runs.
type Progress struct {
	Expanded    int `json:"expanded"`
	States      int `json:"states"`
	Transitions int `json:"transitions"`
	Depth       int `json:"depth"`
	Pending     int `json:"pending"`
}

// Option configures a traversal.
type Option func(*options)

type options struct {
	maxDepth    int
	maxStates   int
	observer    func(Progress)
	reportEvery int
	colors      []engine.Color
	stop        func(*Graph, *Node) bool
	ctx         context.Context
}

func buildOptions(start *engine.Robots, opts []Option) *options {
	o := &options{reportEvery: DefaultReportEvery}
	for _, opt := range opts {
		opt(o)
	}
	if len(o.colors) == 0 {
		o.colors = start.Colors()
	}
	return o
}

// WithMaxDepth stops expanding configurations at depth n. Zero means no
// limit.
func WithMaxDepth(n int) Option {
	return func(o *options) { o.maxDepth = n }
}

// WithMaxStates caps the number of distinct configurations. Zero means no
// limit.
func WithMaxStates(n int) Option {
	return func(o *options) { o.maxStates = n }
}

// WithObserver registers fn to receive progress every reportEvery
// expansions (DefaultReportEvery when reportEvery is not positive) and once
// at the end.
func WithObserver(fn func(Progress), reportEvery int) Option {
	return func(o *options) {
		o.observer = fn
		if reportEvery > 0 {
			o.reportEvery = reportEvery
		}
	}
}

// WithColors restricts the robots that may move.
func WithColors(colors ...engine.Color) Option {
	return func(o *options) { o.colors = colors }
}

// WithStopWhen ends a breadth-first search as soon as fn accepts a newly
// discovered node. Depth-first search ignores it.
func WithStopWhen(fn func(*Graph, *Node) bool) Option {
	return func(o *options) { o.stop = fn }
}

// WithContext aborts the traversal once ctx is done. The partial result is
// returned with Truncated set.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

func (o *options) cancelled() bool {
	return o.ctx != nil && o.ctx.Err() != nil
}

func (o *options) depthAllowed(depth int) bool {
	return o.maxDepth <= 0 || depth < o.maxDepth
}

func (o *options) roomFor(states int) bool {
	return o.maxStates <= 0 || states < o.maxStates
}

func (o *options) report(p Progress, final bool) {
	if o.observer == nil {
		return
	}
	if final || (p.Expanded > 0 && p.Expanded%o.reportEvery == 0) {
		o.observer(p)
	}
}
