package validate

import "strings"

// RoleModeInternship restricts results to internship-class roles.
const RoleModeInternship = "internship"

var internshipTerms = []string{
	"intern", "internship", "co-op", "trainee", "graduate",
	"student", "apprentice", "fellowship",
}

// seniorityTerms hard-reject a title even when an allowed term is present:
// "Senior Data Intern" is not an internship-class posting.
var seniorityTerms = []string{
	"senior", "staff", "lead", "principal", "architect",
	"manager", "director", "vp", "head of", "executive",
	"sr.", "sr ", "chief", "partner",
}

// MatchesRole applies the role-mode gate to a title. Unknown modes pass
// everything through.
func MatchesRole(title, mode string) bool {
	if title == "" {
		return false
	}
	if mode != RoleModeInternship {
		return true
	}

	lower := strings.ToLower(title)
	allowed := false
	for _, term := range internshipTerms {
		if strings.Contains(lower, term) {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}
	for _, term := range seniorityTerms {
		if strings.Contains(lower, term) {
			return false
		}
	}
	return true
}
