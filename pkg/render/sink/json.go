package sink

import (
	"github.com/matzehuels/stowage/pkg/scene"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	report  *scene.Report
	analyze bool
}

// WithReport includes a precomputed analysis report in the document.
func WithReport(r scene.Report) JSONOption {
	return func(j *jsonRenderer) { j.report = &r }
}

// WithAnalysis runs [scene.Analyze] and includes its report.
func WithAnalysis() JSONOption {
	return func(j *jsonRenderer) { j.analyze = true }
}

// RenderJSON renders the scene document. Lengths are meters and angles
// radians, matching what three.js expects.
func RenderJSON(s scene.Scene, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}
	if r.analyze && r.report == nil {
		rep := scene.Analyze(s)
		r.report = &rep
	}
	return scene.Marshal(scene.NewDocument(s, r.report))
}
