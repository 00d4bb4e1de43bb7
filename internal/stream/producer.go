// Package stream generates the timed event sequences served over SSE. One
// Producer per connection; nothing is shared between connections.
package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"time"

	"github.com/PulseWire/pulsewire-demo/internal/sse"
)

// PayloadFunc synthesizes the payload for one event. seq is the
// connection-local sequence number of the event being built.
type PayloadFunc func(seq int) (map[string]any, error)

// Rule selects an event kind for ticks whose sequence number is a multiple
// of Every. Rules are evaluated in slice order and the first match wins;
// overlapping moduli (e.g. tick 20 matches both every-4th and every-5th)
// resolve to the earlier rule. That ordering is a compatibility contract.
type Rule struct {
	Every   int
	Kind    string
	Payload PayloadFunc
}

// Config describes one channel: the tick interval, the ordered kind rules
// and the synthesizer for default-kind ticks.
type Config struct {
	Interval time.Duration
	Rules    []Rule
	Default  PayloadFunc
}

// Producer drives the emission loop for a single connection. The sequence
// counter starts at zero and the first emitted event carries sequence 1.
// A Producer is not restartable; open a new one per connection.
type Producer struct {
	cfg Config
	seq int
}

func NewProducer(cfg Config) *Producer {
	return &Producer{cfg: cfg}
}

// Seq returns the sequence number of the last tick.
func (p *Producer) Seq() int { return p.seq }

// next advances one tick and builds the frame for it.
func (p *Producer) next() (sse.Frame, error) {
	kind := sse.DefaultKind
	synth := p.cfg.Default
	for _, r := range p.cfg.Rules {
		if r.Every > 0 && p.seq%r.Every == 0 {
			kind = r.Kind
			synth = r.Payload
			break
		}
	}

	payload, err := synth(p.seq)
	if err != nil {
		return sse.Frame{}, fmt.Errorf("synthesize %s payload: %w", kind, err)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return sse.Frame{}, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	return sse.Frame{Kind: kind, Data: string(data)}, nil
}

// Frames returns the frame sequence for this connection. Each iteration is
// one tick: the counter advances, the disconnect probe is polled once, and
// a single frame is yielded. The sequence is infinite until the probe
// reports true or ctx is cancelled — neither produces an error frame. If
// payload synthesis fails, one "error" frame is yielded and the sequence
// ends.
func (p *Producer) Frames(ctx context.Context, probe func() bool) iter.Seq[sse.Frame] {
	return func(yield func(sse.Frame) bool) {
		for {
			p.seq++
			if probe() || ctx.Err() != nil {
				return
			}

			f, err := p.next()
			if err != nil {
				errData, _ := json.Marshal(map[string]any{"error": err.Error()})
				yield(sse.Frame{Kind: "error", Data: string(errData)})
				return
			}
			if !yield(f) {
				return
			}

			if p.cfg.Interval > 0 {
				t := time.NewTimer(p.cfg.Interval)
				select {
				case <-ctx.Done():
					t.Stop()
					return
				case <-t.C:
				}
			}
		}
	}
}
