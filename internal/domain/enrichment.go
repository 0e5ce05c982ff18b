package domain

import (
	"context"
	"encoding/json"
	"time"
)

// CompanyData is firmographic data about a company. Provider schemas vary and
// are not stable across versions, so every field is optional; Raw carries the
// provider's original payload for persistence.
type CompanyData struct {
	Name          string `json:"name,omitempty"`
	Domain        string `json:"domain,omitempty"`
	EmployeeCount int    `json:"employee_count,omitempty"`
	Industry      string `json:"industry,omitempty"`
	Revenue       string `json:"revenue,omitempty"`
	Funding       string `json:"funding,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// PersonData is person-level enrichment data. All fields optional; Raw
// carries the provider's original payload for persistence.
type PersonData struct {
	Name        string       `json:"name,omitempty"`
	Title       string       `json:"title,omitempty"`
	LinkedinURL string       `json:"linkedin_url,omitempty"`
	TwitterURL  string       `json:"twitter_url,omitempty"`
	Company     *CompanyData `json:"company,omitempty"`

	Raw json.RawMessage `json:"-"`
}

// Enrichment is the at-most-one-per-attendee record of externally sourced
// data. Blobs are stored as the providers returned them; a nil blob means the
// provider produced nothing.
// swagger:model Enrichment
type Enrichment struct {
	AttendeeID  string          `json:"attendee_id"`
	UserID      string          `json:"user_id"`
	PersonJSON  json.RawMessage `json:"person_json,omitempty"`
	CompanyJSON json.RawMessage `json:"company_json,omitempty"`
	MixRankJSON json.RawMessage `json:"mixrank_json,omitempty"`
	EnrichedAt  time.Time       `json:"enriched_at"`
}

// EnrichmentRepository defines storage operations for enrichment records.
// Upsert must not erase a previously stored blob when the corresponding
// incoming blob is nil (a provider failure on a re-run preserves prior data).
type EnrichmentRepository interface {
	Upsert(ctx context.Context, e *Enrichment) error
	GetByAttendeeID(ctx context.Context, attendeeID string) (*Enrichment, error)
}

// LeadQuery is the input to person/company enrichment.
type LeadQuery struct {
	Name    string
	Email   string
	Company string
}

// PersonEnricher looks up person-level enrichment for a lead.
// A (nil, nil) return means the provider was skipped or had no data.
type PersonEnricher interface {
	EnrichLead(ctx context.Context, q LeadQuery) (*PersonData, error)
}

// CompanyEnricher looks up firmographic data by company domain or name.
// A (nil, nil) return means the provider was skipped or had no data.
type CompanyEnricher interface {
	CompanyByDomain(ctx context.Context, domain string) (*CompanyData, error)
	CompanyByName(ctx context.Context, name string) (*CompanyData, error)
}

// EnrichedFlags reports which enrichment sources produced data during a run.
type EnrichedFlags struct {
	Person  bool `json:"person"`
	Company bool `json:"company"`
	MixRank bool `json:"mixrank"`
}

// EnrichmentResult is the per-run outcome of the enrichment pipeline.
type EnrichmentResult struct {
	AttendeeID       string        `json:"attendee_id,omitempty"`
	Score            int           `json:"score"`
	Reason           string        `json:"reason"`
	IsKeyLead        bool          `json:"is_key_lead"`
	Enriched         EnrichedFlags `json:"enriched"`
	Persisted        bool          `json:"persisted"`
	NotificationSent bool          `json:"notification_sent"`
}

// EnrichmentService runs the enrichment-and-scoring pipeline.
type EnrichmentService interface {
	// EnrichAndScore runs the full pipeline for a persisted attendee.
	// Returns ErrNotFound when the attendee does not exist; provider and
	// notification failures degrade the result instead of failing it.
	EnrichAndScore(ctx context.Context, attendeeID string) (*EnrichmentResult, error)
	// EnrichInline enriches and scores ad-hoc lead data without persistence.
	EnrichInline(ctx context.Context, q LeadQuery) (*EnrichmentResult, error)
}
