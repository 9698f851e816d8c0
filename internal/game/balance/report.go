package balance

import "fmt"

// Report summarises the balance state for diagnostics.
type Report struct {
	Ready                bool
	Enabled              bool
	ReferencePower       float64
	Difficulty           float64
	DifficultyMultiplier float64
	Sampled              int
	OthersPower          float64
	// Ratio is OthersPower / ReferencePower; 0 when nothing was sampled.
	Ratio float64
}

func (r Report) String() string {
	if !r.Ready {
		return "balance: host not ready"
	}
	s := fmt.Sprintf("balance: enabled=%t reference=%.2f difficulty=%.2f (x%.1f)",
		r.Enabled, r.ReferencePower, r.Difficulty, r.DifficultyMultiplier)
	if r.Sampled == 0 {
		return s + " others=none"
	}
	return s + fmt.Sprintf(" others=%.2f over %d ratio=%.2f", r.OthersPower, r.Sampled, r.Ratio)
}

// Report averages up to ten of others that are not in the reference
// population and compares them with the reference power.
func (b *Balancer) Report(others []string) Report {
	r := Report{Ready: b.world.Ready(), Enabled: b.cfg.Enabled}
	if !r.Ready {
		return r
	}
	r.ReferencePower = b.ReferencePower()
	r.Difficulty = b.world.Difficulty()
	r.DifficultyMultiplier = DifficultyMultiplier(r.Difficulty)

	ref := make(map[string]bool)
	for _, id := range b.world.ReferencePopulation() {
		ref[id] = true
	}
	sample := make([]string, 0, reportSampleSize)
	for _, id := range others {
		if len(sample) == reportSampleSize {
			break
		}
		if !ref[id] {
			sample = append(sample, id)
		}
	}
	r.Sampled = len(sample)
	if r.Sampled > 0 {
		r.OthersPower = b.averagePower(sample)
		r.Ratio = r.OthersPower / r.ReferencePower
	}
	return r
}
