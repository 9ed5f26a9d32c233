package service

// DeletePolicy says what happens to dependents when their parent goes away.
type DeletePolicy string

const (
	// PolicyCascade removes dependents together with the parent.
	PolicyCascade DeletePolicy = "cascade"
	// PolicyRestrict refuses the delete while dependents exist.
	PolicyRestrict DeletePolicy = "restrict"
	// PolicyNullify clears the dependent's reference and keeps the row.
	PolicyNullify DeletePolicy = "nullify"
)

// DeleteRule is one outbound edge of the delete graph.
type DeleteRule struct {
	Parent    string       `json:"parent"`
	Dependent string       `json:"dependent"`
	Policy    DeletePolicy `json:"policy"`
}

// deleteRules is the full policy table. Containment and ownership edges
// cascade, catalog edges restrict, and the two hardware pointers (tenant
// ownership, switch uplinks) nullify. Repositories enforce the cascade and
// nullify edges transactionally; services check the restrict edges before
// issuing the delete so the caller gets a dependent count instead of a raw
// constraint error.
var deleteRules = []DeleteRule{
	{"region", "zone", PolicyCascade},
	{"zone", "site", PolicyCascade},
	{"site", "room", PolicyCascade},
	{"room", "rack", PolicyCascade},
	{"rack", "hardware", PolicyCascade},
	{"hardware", "interface", PolicyCascade},
	{"tenantGroup", "tenant", PolicyCascade},
	{"hardwareType", "hardwareInfo", PolicyRestrict},
	{"hardwareInfo", "hardware", PolicyRestrict},
	{"tenant", "hardware", PolicyNullify},
	{"switch", "interface", PolicyNullify},
}

// PolicyBetween looks up the delete policy for a parent/dependent pair.
// Unknown pairs restrict, the safest default.
func PolicyBetween(parent, dependent string) DeletePolicy {
	for _, r := range deleteRules {
		if r.Parent == parent && r.Dependent == dependent {
			return r.Policy
		}
	}
	return PolicyRestrict
}

// DeleteRules returns the policy table, for the metadata endpoint.
func DeleteRules() []DeleteRule {
	out := make([]DeleteRule, len(deleteRules))
	copy(out, deleteRules)
	return out
}
