package partner

// collabWeight is the contribution of one collaboration to the internal rank.
const collabWeight = 0.5

// ComputeInternalRank derives a partner's internal rank from its collaboration
// count and the admin-assigned manual score. Pure computation, no I/O.
func ComputeInternalRank(collabCount int, manualScore float64) float64 {
	return float64(collabCount)*collabWeight + manualScore
}
