// Package domain models insurance applications, their premium estimates, and
// the normalized record shape shared by every store backend.
//
// # Flows
//
// Two independent intake flows feed the same store:
//
//	Full Application:  contributor + dependents + optional covers
//	                   → monthly/yearly cost and insurance tier
//	Quick Health:      contributor + health-issue tags + dependent count
//	                   → one estimated cost
//
// Each flow has its own submission type ([FullApplication],
// [QuickHealthApplication]) with its own required fields and age bounds.
// Both normalize into a single [Record] at the store boundary.
//
// # Pricing Rules
//
// Full flow (all amounts EUR, integers):
//
//	cover_cost    = Σ surcharge(cover)       Accidental 20, Tooth 15,
//	                                         Pregnancy 30, Terminal Illnesses 50
//	children_cost = 40 × dependents
//	monthly       = 100 + cover_cost + children_cost
//	yearly        = 12 × monthly
//	tier          = Private when income > 2500, otherwise Governmental
//
// Quick flow:
//
//	cost = 1000 + 10 × age + 200 × |health issues| + 150 × dependents
//
// The "None" health-issue tag is counted like any other tag and adds 200.
// This mirrors the behavior users have been quoted so far; changing it is a
// product decision, not a bug fix.
//
// # Record Layout
//
// Records map onto a fixed, ordered column set ([Columns]). Columns a flow
// does not produce are empty: Quick rows leave Mobile, Email, Income,
// Dependents_Info, Covers, Insurance_Type, Monthly_Cost_EUR and
// Yearly_Cost_EUR blank, and Full rows leave Health Issues and Cost blank.
// Optional numeric columns are pointers so "empty" and "zero" stay distinct.
//
// Dependents_Info is a JSON array of {"name","age"} objects, e.g.
//
//	[{"name":"Léa","age":7},{"name":"Tom","age":3}]
//
// # Landmarks
//
// The package also carries a small, unrelated lookup of Paris landmarks to
// coordinates. See [LookupLandmark] and [Locator].
package domain
