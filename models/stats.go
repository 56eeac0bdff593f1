package models

import "fmt"

// Stats are the coverage figures over all tech items
type Stats struct {
	Active   int    `json:"active"`
	Missing  int    `json:"missing"`
	Total    int    `json:"total"`
	Coverage string `json:"coverage"`
}

// ComputeStats derives total and coverage (one decimal, "0.0" when empty).
func ComputeStats(active, missing int) Stats {
	total := active + missing
	coverage := "0.0"
	if total > 0 {
		coverage = fmt.Sprintf("%.1f", float64(active)/float64(total)*100)
	}
	return Stats{
		Active:   active,
		Missing:  missing,
		Total:    total,
		Coverage: coverage,
	}
}
