package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventintel/internal/domain"
)

type enrichmentRepository struct {
	DB *sql.DB
}

func NewEnrichmentRepository(db *sql.DB) domain.EnrichmentRepository {
	return &enrichmentRepository{
		DB: db,
	}
}

// Upsert writes the enrichment record for an attendee. A nil blob never
// overwrites a previously stored one: a provider failing on a re-run keeps
// that provider's data from the last successful run.
func (r *enrichmentRepository) Upsert(ctx context.Context, e *domain.Enrichment) error {
	query := `
		INSERT INTO enrichment (attendee_id, user_id, person_json, company_json, mixrank_json, enriched_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (attendee_id) DO UPDATE SET
			user_id      = EXCLUDED.user_id,
			person_json  = COALESCE(EXCLUDED.person_json, enrichment.person_json),
			company_json = COALESCE(EXCLUDED.company_json, enrichment.company_json),
			mixrank_json = COALESCE(EXCLUDED.mixrank_json, enrichment.mixrank_json),
			enriched_at  = EXCLUDED.enriched_at
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.AttendeeID, e.UserID,
		nullJSON(e.PersonJSON), nullJSON(e.CompanyJSON), nullJSON(e.MixRankJSON),
		e.EnrichedAt,
	)
	return err
}

func (r *enrichmentRepository) GetByAttendeeID(ctx context.Context, attendeeID string) (*domain.Enrichment, error) {
	query := `
		SELECT attendee_id, user_id, person_json, company_json, mixrank_json, enriched_at
		FROM enrichment
		WHERE attendee_id = $1
	`
	e := &domain.Enrichment{}
	var personNull, companyNull, mixrankNull []byte
	err := r.DB.QueryRowContext(ctx, query, attendeeID).
		Scan(&e.AttendeeID, &e.UserID, &personNull, &companyNull, &mixrankNull, &e.EnrichedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	e.PersonJSON = personNull
	e.CompanyJSON = companyNull
	e.MixRankJSON = mixrankNull
	return e, nil
}

func nullJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}
