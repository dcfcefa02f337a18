package claims

// fraudCostMultiplier is the threshold factor applied to a procedure's
// historical average cost.
const fraudCostMultiplier = 2

// IsFraudulent flags a claim whose amount exceeds twice the procedure's
// historical average cost. The flag is advisory: it travels with the claim
// for downstream review and never changes the coverage decision.
func IsFraudulent(claimAmount, averageCost float64) bool {
	return claimAmount > fraudCostMultiplier*averageCost
}
