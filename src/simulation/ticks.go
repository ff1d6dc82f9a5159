package simulation

import (
	"fmt"
	"math"
	"time"
)

// RateWindowSize is the count of the latest ticks the rate statistics are taken over.
const RateWindowSize = 100

// Details keys filled by the running simulation.
const (
	DetailTickRate     = "tickRate"
	DetailStepsPerTick = "stepsPerTick"
)

// Rate describes the ticks per second of the running simulation.
type Rate struct {
	Latest  float64
	Mean    float64
	Min     float64
	Max     float64
	Samples int
}

func (r Rate) String() string {
	return fmt.Sprintf("%.1f/s (mean %.1f, min %.1f, max %.1f of %d)", r.Latest, r.Mean, r.Min, r.Max, r.Samples)
}

// rateWindow keeps the last RateWindowSize tick rates.
type rateWindow struct {
	samples []float64
	next    int
	last    time.Time
}

func newRateWindow() *rateWindow {
	return &rateWindow{samples: make([]float64, 0, RateWindowSize)}
}

// tick registers the tick made at the moment now, the first tick only starts the measurement
func (w *rateWindow) tick(now time.Time) bool {
	defer func() { w.last = now }()
	if w.last.IsZero() {
		return false
	}
	delta := now.Sub(w.last)
	if delta <= 0 {
		return false
	}
	w.add(float64(time.Second) / float64(delta))
	return true
}

func (w *rateWindow) add(rate float64) {
	if len(w.samples) < RateWindowSize {
		w.samples = append(w.samples, rate)
	} else {
		w.samples[w.next] = rate
	}
	w.next = (w.next + 1) % RateWindowSize
}

func (w *rateWindow) rate() Rate {
	if len(w.samples) == 0 {
		return Rate{}
	}
	r := Rate{Min: math.Inf(1), Max: math.Inf(-1), Samples: len(w.samples)}
	latest := (w.next - 1 + RateWindowSize) % RateWindowSize
	r.Latest = w.samples[latest]
	sum := 0.0
	for _, s := range w.samples {
		sum += s
		r.Min = math.Min(r.Min, s)
		r.Max = math.Max(r.Max, s)
	}
	r.Mean = sum / float64(len(w.samples))
	return r
}

// TickRate returns the tick rate measured by the running simulation
func (st Status) TickRate() (Rate, bool) {
	r, ok := st.Details[DetailTickRate].(Rate)
	return r, ok
}
