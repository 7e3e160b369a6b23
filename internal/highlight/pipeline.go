package highlight

import (
	"sync/atomic"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"

	"github.com/dshills/loom/internal/engine/buffer"
)

// State is one published highlighting result. Err is non-nil when the most
// recent lex failed; Spans then still hold the previous good result.
type State struct {
	Revision buffer.RevisionID
	Spans    []Span
	Err      error
}

// SpansIn returns the published spans overlapping [start, end).
func (s *State) SpansIn(start, end buffer.ByteOffset) []Span {
	var out []Span
	for _, sp := range s.Spans {
		if sp.End <= start {
			continue
		}
		if sp.Start >= end {
			break
		}
		out = append(out, sp)
	}
	return out
}

// Pipeline re-lexes buffer snapshots on a single worker goroutine. Edits
// notify it with the newest snapshot over a depth-one latest-wins channel;
// intermediate snapshots are dropped. Results are published with an atomic
// pointer swap, so readers always see a complete state.
type Pipeline struct {
	lexer     chroma.Lexer
	latest    chan *buffer.Snapshot
	published atomic.Pointer[State]
	done      chan struct{}
	stopped   chan struct{}
}

// NewPipeline creates a pipeline using the given lexer, typically from
// LexerFor. A nil lexer falls back to plain text. Call Start to launch the
// worker.
func NewPipeline(lexer chroma.Lexer) *Pipeline {
	if lexer == nil {
		lexer = chroma.Coalesce(lexers.Fallback)
	}
	p := &Pipeline{
		lexer:   lexer,
		latest:  make(chan *buffer.Snapshot, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}
	p.published.Store(&State{})
	return p
}

// Start launches the worker goroutine.
func (p *Pipeline) Start() {
	go p.run()
}

// Stop shuts the worker down and waits for it to exit.
func (p *Pipeline) Stop() {
	close(p.done)
	<-p.stopped
}

// Notify hands the pipeline a fresh snapshot. A pending unprocessed
// snapshot is replaced; Notify never blocks.
func (p *Pipeline) Notify(snap *buffer.Snapshot) {
	for {
		select {
		case p.latest <- snap:
			return
		default:
		}
		select {
		case <-p.latest:
		default:
		}
	}
}

// State returns the most recently published result.
func (p *Pipeline) State() *State {
	return p.published.Load()
}

func (p *Pipeline) run() {
	defer close(p.stopped)
	for {
		select {
		case <-p.done:
			return
		case snap := <-p.latest:
			p.process(snap)
		}
	}
}

func (p *Pipeline) process(snap *buffer.Snapshot) {
	prev := p.published.Load()
	if snap.RevisionID() < prev.Revision {
		// Stale snapshot; a newer result is already out.
		return
	}

	spans, err := Lex(p.lexer, snap.Text())
	if err != nil {
		p.published.Store(&State{
			Revision: snap.RevisionID(),
			Spans:    prev.Spans,
			Err:      err,
		})
		return
	}
	p.published.Store(&State{Revision: snap.RevisionID(), Spans: spans})
}
