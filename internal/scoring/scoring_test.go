package scoring

import (
	"fmt"
	"testing"

	"eventintel/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestScore_EmptyInputs(t *testing.T) {
	att := &domain.Attendee{Email: "x@gmail.com"}
	score, reason := Score(nil, nil, att, DefaultWeights())
	assert.Equal(t, 0, score)
	assert.Equal(t, FallbackReason, reason)
}

func TestScore_NilAttendee(t *testing.T) {
	// Every input may be absent; the scorer must not panic.
	score, reason := Score(nil, nil, nil, DefaultWeights())
	assert.Equal(t, 0, score)
	assert.Equal(t, FallbackReason, reason)
}

func TestScore_KeyLeadProfile(t *testing.T) {
	att := &domain.Attendee{
		Title: strPtr("CEO"),
		Email: "ceo@acme.com",
	}
	company := &domain.CompanyData{EmployeeCount: 500, Industry: "fintech"}
	score, reason := Score(nil, company, att, DefaultWeights())

	// top seniority (5) + medium company (3) + target industry (2) +
	// professional domain (1) = 11, capped at 10.
	assert.Equal(t, 10, score)
	assert.Contains(t, reason, "Senior leadership role")
	assert.Contains(t, reason, "Medium company (100+ employees)")
	assert.Contains(t, reason, "Target industry")
	assert.Contains(t, reason, "Professional email domain")
	assert.True(t, IsKeyLead(score, DefaultWeights()))
}

func TestScore_SeniorityTiers(t *testing.T) {
	tests := []struct {
		title string
		want  int
	}{
		{"Founder & CEO", 5},
		{"Co-Founder", 5},
		{"VP of Engineering", 5},
		{"CTO", 5},
		{"Director of Sales", 3},
		{"Head of Growth", 3},
		{"Tech Lead", 3},
		{"Engineering Manager", 2},
		{"Principal Engineer", 2},
		{"Senior Developer", 2},
		{"Intern", 0},
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			att := &domain.Attendee{Title: strPtr(tt.title), Email: "a@gmail.com"}
			score, _ := Score(nil, nil, att, DefaultWeights())
			assert.Equal(t, tt.want, score)
		})
	}
}

func TestScore_EnrichedTitlePreferredOverAttendeeTitle(t *testing.T) {
	att := &domain.Attendee{Title: strPtr("Intern"), Email: "a@gmail.com"}
	person := &domain.PersonData{Title: "CTO"}
	score, _ := Score(person, nil, att, DefaultWeights())
	assert.Equal(t, 5, score)
}

func TestScore_OnlyHighestSeniorityTierApplies(t *testing.T) {
	// "VP, Head of Engineering" matches both the top and mid tiers; only the
	// top bonus may be awarded.
	att := &domain.Attendee{Title: strPtr("VP, Head of Engineering"), Email: "a@gmail.com"}
	score, _ := Score(nil, nil, att, DefaultWeights())
	assert.Equal(t, 5, score)
}

func TestScore_CompanySizeMonotonic(t *testing.T) {
	w := DefaultWeights()
	prev := -1
	for _, employees := range []int{0, 10, 49, 50, 99, 100, 999, 1000, 50000} {
		company := &domain.CompanyData{EmployeeCount: employees}
		score, _ := Score(nil, company, &domain.Attendee{Email: "a@gmail.com"}, w)
		require.GreaterOrEqual(t, score, prev, "score decreased at %d employees", employees)
		prev = score
	}
}

func TestScore_TargetIndustrySubstringMatch(t *testing.T) {
	for _, industry := range []string{"FinTech", "B2B SaaS", "Enterprise Software", "Big Data Analytics"} {
		company := &domain.CompanyData{Industry: industry}
		score, reason := Score(nil, company, &domain.Attendee{Email: "a@gmail.com"}, DefaultWeights())
		assert.Equal(t, 2, score, industry)
		assert.Contains(t, reason, "Target industry")
	}
	company := &domain.CompanyData{Industry: "Agriculture"}
	score, _ := Score(nil, company, &domain.Attendee{Email: "a@gmail.com"}, DefaultWeights())
	assert.Equal(t, 0, score)
}

func TestScore_ProfessionalEmailBonus(t *testing.T) {
	w := DefaultWeights()
	for _, tt := range []struct {
		email string
		want  int
	}{
		{"jane@acme.com", 1},
		{"jane@gmail.com", 0},
		{"jane@YAHOO.COM", 0},
		{"not-an-email", 0},
		{"", 0},
	} {
		score, _ := Score(nil, nil, &domain.Attendee{Email: tt.email}, w)
		assert.Equal(t, tt.want, score, tt.email)
	}
	// The professional-domain bonus must stay strictly below seniority.
	assert.Less(t, w.ProfessionalEmail, w.TopTierTitle)
}

func TestScore_SocialAndRevenueSignals(t *testing.T) {
	person := &domain.PersonData{LinkedinURL: "https://linkedin.com/in/jane"}
	company := &domain.CompanyData{Revenue: "$10M"}
	score, reason := Score(person, company, &domain.Attendee{Email: "a@gmail.com"}, DefaultWeights())
	assert.Equal(t, 2, score)
	assert.Contains(t, reason, "Social profile verified")
	assert.Contains(t, reason, "Revenue/funding data available")
}

func TestScore_ClampInvariant(t *testing.T) {
	w := DefaultWeights()
	// Every signal firing at once stays within [0,10].
	person := &domain.PersonData{Title: "Founder & CEO", LinkedinURL: "https://linkedin.com/in/x"}
	company := &domain.CompanyData{EmployeeCount: 5000, Industry: "ai", Funding: "Series B"}
	att := &domain.Attendee{Email: "x@bigco.io"}
	score, _ := Score(person, company, att, w)
	assert.Equal(t, 10, score)

	for employees := 0; employees <= 2000; employees += 100 {
		company.EmployeeCount = employees
		score, _ := Score(person, company, att, w)
		require.GreaterOrEqual(t, score, 0)
		require.LessOrEqual(t, score, 10)
	}
}

func TestIsKeyLead_ThresholdBoundary(t *testing.T) {
	w := DefaultWeights()
	for score := 0; score <= 10; score++ {
		t.Run(fmt.Sprintf("score_%d", score), func(t *testing.T) {
			assert.Equal(t, score >= 8, IsKeyLead(score, w))
		})
	}
}

func TestIsKeyLead_ConfigurableThreshold(t *testing.T) {
	w := DefaultWeights()
	w.KeyLeadThreshold = 6
	assert.True(t, IsKeyLead(6, w))
	assert.False(t, IsKeyLead(5, w))
}
