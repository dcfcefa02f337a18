package claims

// ResolveCoverage decides a claim's status and approved amount from the
// plan-benefit link covering the claimed procedure.
//
// A missing link, a link without an annual limit, or an excluded link
// rejects the claim outright. Otherwise the link's annual limit L is
// compared against the requested amount A:
//
//   - L < A: PARTIAL, and the recorded amount is A-L, the portion above
//     the limit. This mirrors the long-standing adjudication behavior;
//     downstream consumers depend on the recorded value, so do not change
//     the formula without coordinating a data migration.
//   - L > A: APPROVED with the full requested amount.
//   - L == A: APPROVED with the full requested amount. A limit that exactly
//     covers the request is treated the same as one above it.
//
// Pure computation; callers fetch the link inside whatever transaction
// their consistency needs dictate.
func ResolveCoverage(link *PlanBenefitLink, claimAmount float64) Decision {
	if link == nil || link.AnnualLimit == nil || link.IsExcluded {
		return Decision{Status: StatusRejected, ApprovedAmount: 0}
	}

	limit := *link.AnnualLimit
	if limit < claimAmount {
		return Decision{Status: StatusPartial, ApprovedAmount: claimAmount - limit}
	}
	return Decision{Status: StatusApproved, ApprovedAmount: claimAmount}
}
