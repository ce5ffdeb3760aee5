package driver

import (
	"encoding/json"

	"ionc/internal/observ"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Unit    string               `json:"unit,omitempty"`
	RunID   string               `json:"run_id,omitempty"`
	Cached  bool                 `json:"cached,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// mergeReports concatenates phase lists and sums the totals.
func mergeReports(reports ...observ.Report) observ.Report {
	var out observ.Report
	for _, r := range reports {
		out.Phases = append(out.Phases, r.Phases...)
		out.TotalMS += r.TotalMS
	}
	return out
}

// MergeTimings sums phases with the same name across units, keeping the
// order in which names first appear.
func MergeTimings(results []UnitResult) observ.Report {
	var out observ.Report
	index := make(map[string]int)
	for _, r := range results {
		for _, p := range r.Timings.Phases {
			i, ok := index[p.Name]
			if !ok {
				i = len(out.Phases)
				index[p.Name] = i
				out.Phases = append(out.Phases, observ.PhaseReport{Name: p.Name})
			}
			out.Phases[i].DurationMS += p.DurationMS
		}
		out.TotalMS += r.Timings.TotalMS
	}
	return out
}

// TimingsJSON renders one line of machine-readable timings per unit.
func TimingsJSON(results []UnitResult) ([]byte, error) {
	var buf []byte
	for _, r := range results {
		line, err := json.Marshal(timingPayload{
			Kind:    "unit",
			Unit:    r.Unit.Name,
			RunID:   r.RunID,
			Cached:  r.Cached,
			TotalMS: r.Timings.TotalMS,
			Phases:  r.Timings.Phases,
		})
		if err != nil {
			return nil, err
		}
		buf = append(buf, line...)
		buf = append(buf, '\n')
	}
	return buf, nil
}
