package reverb

import (
	"github.com/cwbudde/algo-rack/measure/ir"
)

// Measure analyses the left channel of the loaded response.
func (r *Reverb) Measure() (ir.Metrics, error) {
	buf := r.Response()
	if buf == nil {
		return ir.Metrics{}, ErrNoContext
	}

	return ir.NewAnalyzer(buf.SampleRate()).Analyze(buf.Channel(0))
}
