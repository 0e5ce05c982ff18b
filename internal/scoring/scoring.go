// Package scoring computes the heuristic lead score. It is pure: no I/O, no
// ambient configuration, deterministic for a given input and weight set.
package scoring

import (
	"strings"

	"eventintel/internal/domain"
)

// FallbackReason is used when no signal contributed to the score.
const FallbackReason = "Basic profile information"

// Weights holds every scoring increment and the key-lead threshold, so the
// heuristics can be tuned without code changes.
type Weights struct {
	TopTierTitle      int
	MidTierTitle      int
	LowTierTitle      int
	LargeCompany      int // >= LargeCompanyMin employees
	MediumCompany     int // >= MediumCompanyMin employees
	SmallCompany      int // >= SmallCompanyMin employees
	TargetIndustry    int
	ProfessionalEmail int // must stay strictly below TopTierTitle
	SocialProfile     int
	RevenueSignal     int

	LargeCompanyMin  int
	MediumCompanyMin int
	SmallCompanyMin  int

	KeyLeadThreshold int
	MaxScore         int
}

// DefaultWeights returns the standard scoring configuration.
func DefaultWeights() Weights {
	return Weights{
		TopTierTitle:      5,
		MidTierTitle:      3,
		LowTierTitle:      2,
		LargeCompany:      4,
		MediumCompany:     3,
		SmallCompany:      2,
		TargetIndustry:    2,
		ProfessionalEmail: 1,
		SocialProfile:     1,
		RevenueSignal:     1,
		LargeCompanyMin:   1000,
		MediumCompanyMin:  100,
		SmallCompanyMin:   50,
		KeyLeadThreshold:  8,
		MaxScore:          10,
	}
}

// Title keyword tiers, matched case-insensitively as substrings. Only the
// highest matching tier is awarded.
var (
	topTierTitles = []string{"founder", "co-founder", "ceo", "cto", "cpo", "vp"}
	midTierTitles = []string{"director", "head", "lead"}
	lowTierTitles = []string{"manager", "principal", "senior"}
)

var targetIndustries = []string{"fintech", "saas", "technology", "software", "ai", "machine learning", "data"}

// Score maps (person data, company data, attendee) to an integer score and a
// human-readable reason string. person and company may be nil; every field of
// both is optional. The result is clamped to [0, w.MaxScore].
func Score(person *domain.PersonData, company *domain.CompanyData, attendee *domain.Attendee, w Weights) (int, string) {
	score := 0
	var reasons []string

	// Seniority: enrichment-provided title wins over the attendee-provided one.
	title := ""
	if person != nil {
		title = person.Title
	}
	if title == "" && attendee != nil && attendee.Title != nil {
		title = *attendee.Title
	}
	title = strings.ToLower(title)
	switch {
	case containsAny(title, topTierTitles):
		score += w.TopTierTitle
		reasons = append(reasons, "Senior leadership role")
	case containsAny(title, midTierTitles):
		score += w.MidTierTitle
		reasons = append(reasons, "Management role")
	case containsAny(title, lowTierTitles):
		score += w.LowTierTitle
		reasons = append(reasons, "Mid-level role")
	}

	// Company size tiers, monotonic in employee count.
	employees := 0
	if company != nil {
		employees = company.EmployeeCount
	}
	switch {
	case employees >= w.LargeCompanyMin:
		score += w.LargeCompany
		reasons = append(reasons, "Large company (1000+ employees)")
	case employees >= w.MediumCompanyMin:
		score += w.MediumCompany
		reasons = append(reasons, "Medium company (100+ employees)")
	case employees >= w.SmallCompanyMin:
		score += w.SmallCompany
		reasons = append(reasons, "Growing company (50+ employees)")
	}

	if company != nil && containsAny(strings.ToLower(company.Industry), targetIndustries) {
		score += w.TargetIndustry
		reasons = append(reasons, "Target industry")
	}

	if attendee != nil && attendee.Email != "" && !domain.IsPersonalEmailDomain(attendee.Email) {
		score += w.ProfessionalEmail
		reasons = append(reasons, "Professional email domain")
	}

	if person != nil && (person.LinkedinURL != "" || person.TwitterURL != "") {
		score += w.SocialProfile
		reasons = append(reasons, "Social profile verified")
	}

	if company != nil && (company.Revenue != "" || company.Funding != "") {
		score += w.RevenueSignal
		reasons = append(reasons, "Revenue/funding data available")
	}

	if score > w.MaxScore {
		score = w.MaxScore
	}
	if score < 0 {
		score = 0
	}
	reason := strings.Join(reasons, ", ")
	if reason == "" {
		reason = FallbackReason
	}
	return score, reason
}

// IsKeyLead reports whether a score meets the key-lead threshold.
func IsKeyLead(score int, w Weights) bool {
	return score >= w.KeyLeadThreshold
}

func containsAny(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	for _, k := range keywords {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
