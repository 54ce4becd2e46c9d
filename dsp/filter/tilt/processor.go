package tilt

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// update is a fully built bank waiting for the audio goroutine.
type update struct {
	bank      *Bank
	keepState bool
}

// Processor lets one goroutine reconfigure a tilt filter while another
// streams audio through it.
//
// Configuration methods build a complete replacement [Bank] and publish it
// atomically; the audio side picks it up at the next ProcessSample or
// ProcessBlock call. The audio side never locks or allocates. Coefficient
// changes keep the running delay lines; a stage-count change starts from
// silence.
//
// SetSampleRate, SetStageCount, ConfigureBand and Settings may be called
// from any goroutine. ProcessSample, ProcessBlock and Reset belong to the
// audio goroutine.
type Processor struct {
	mu  sync.Mutex
	cfg config

	pending atomic.Pointer[update]
	active  *Bank
}

// NewProcessor builds the initial bank from opts.
func NewProcessor(opts ...Option) (*Processor, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}

		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	b, err := cfg.build()
	if err != nil {
		return nil, err
	}

	return &Processor{cfg: cfg, active: b}, nil
}

// SetSampleRate switches to a new sample rate. Unlike [Bank.SetSampleRate],
// a configured band is re-derived for the new rate; if it no longer fits
// below Nyquist the call fails and nothing changes.
func (p *Processor) SetSampleRate(sampleRate float64) error {
	return p.apply(true, WithSampleRate(sampleRate))
}

// SetStageCount switches to n stages spread over the current band. The new
// cascade starts with cleared delay lines.
func (p *Processor) SetStageCount(n int) error {
	return p.apply(false, WithStages(n))
}

// ConfigureBand re-places the band. Running delay lines are kept.
func (p *Processor) ConfigureBand(cornerHz, bandwidthHz, alpha float64) error {
	return p.apply(true, WithBand(cornerHz, bandwidthHz, alpha))
}

func (p *Processor) apply(keepState bool, opt Option) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := p.cfg
	if err := opt(&next); err != nil {
		return err
	}

	b, err := next.build()
	if err != nil {
		return fmt.Errorf("tilt: rebuild: %w", err)
	}

	p.cfg = next

	// An unconsumed update that asked for a reset still needs one.
	u := &update{bank: b, keepState: keepState}
	for {
		prev := p.pending.Load()
		if prev != nil && !prev.keepState {
			u.keepState = false
		}

		if p.pending.CompareAndSwap(prev, u) {
			return nil
		}
	}
}

// Settings is the configuration a Processor last published.
type Settings struct {
	SampleRate float64
	Stages     int
	Band       Band
	HasBand    bool
}

// Settings returns the configuration of the most recently published bank.
func (p *Processor) Settings() Settings {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Settings{
		SampleRate: p.cfg.sampleRate,
		Stages:     p.cfg.stages,
		Band:       p.cfg.band,
		HasBand:    p.cfg.hasBand,
	}
}

// swap installs a pending bank, if any.
func (p *Processor) swap() {
	if p.pending.Load() == nil {
		return
	}

	u := p.pending.Swap(nil)
	if u == nil {
		return
	}

	if u.keepState {
		u.bank.copyStateFrom(p.active)
	}

	p.active = u.bank
}

// ProcessSample filters one sample through the active bank.
func (p *Processor) ProcessSample(x float64) float64 {
	p.swap()
	return p.active.ProcessSample(x)
}

// ProcessBlock filters buf in place. A pending configuration takes effect
// at the start of the block.
func (p *Processor) ProcessBlock(buf []float64) {
	p.swap()
	p.active.ProcessBlock(buf)
}

// Reset clears the active bank's delay lines.
func (p *Processor) Reset() {
	p.swap()
	p.active.Reset()
}
