package campaign

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"brandreach/pkg/platform/sentinel"
)

// PostgresStore persists campaign-domain objects in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgreSQL-backed store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Schema creates the tables when they do not exist yet. Called from main on
// startup; the schema is small enough that a migration tool would be overkill.
func (s *PostgresStore) Schema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS campaigns (
			id           TEXT PRIMARY KEY,
			brand_id     TEXT NOT NULL,
			name         TEXT NOT NULL,
			status       TEXT NOT NULL,
			budget_cents BIGINT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS campaigns_brand_idx ON campaigns (brand_id);

		CREATE TABLE IF NOT EXISTS allocations (
			id           TEXT PRIMARY KEY,
			campaign_id  TEXT NOT NULL,
			creator_id   TEXT NOT NULL,
			amount_cents BIGINT NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS allocations_campaign_idx ON allocations (campaign_id);

		CREATE TABLE IF NOT EXISTS messages (
			id           TEXT PRIMARY KEY,
			campaign_id  TEXT NOT NULL,
			sender_id    TEXT NOT NULL,
			recipient_id TEXT NOT NULL,
			body         TEXT NOT NULL,
			sent_at      TIMESTAMPTZ NOT NULL
		);
		CREATE INDEX IF NOT EXISTS messages_campaign_idx ON messages (campaign_id);
	`)
	if err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (s *PostgresStore) CreateCampaign(ctx context.Context, c *Campaign) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO campaigns (id, brand_id, name, status, budget_cents, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		c.ID, c.BrandID, c.Name, c.Status, c.BudgetCents, c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("campaign %s: %w", c.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert campaign: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetCampaign(ctx context.Context, id string) (*Campaign, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, brand_id, name, status, budget_cents, created_at, updated_at
		FROM campaigns WHERE id = $1`, id)
	var c Campaign
	err := row.Scan(&c.ID, &c.BrandID, &c.Name, &c.Status, &c.BudgetCents, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("campaign %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select campaign: %w", err)
	}
	return &c, nil
}

func (s *PostgresStore) UpdateCampaign(ctx context.Context, c *Campaign) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE campaigns SET name = $2, status = $3, budget_cents = $4, updated_at = $5
		WHERE id = $1`,
		c.ID, c.Name, c.Status, c.BudgetCents, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("campaign %s: %w", c.ID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) DeleteCampaign(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM campaigns WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete campaign: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("campaign %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) ListCampaignsByBrand(ctx context.Context, brandID string) ([]*Campaign, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, brand_id, name, status, budget_cents, created_at, updated_at
		FROM campaigns WHERE brand_id = $1 ORDER BY created_at`, brandID)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var out []*Campaign
	for rows.Next() {
		var c Campaign
		if err := rows.Scan(&c.ID, &c.BrandID, &c.Name, &c.Status, &c.BudgetCents, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan campaign: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (s *PostgresStore) CreateAllocation(ctx context.Context, a *Allocation) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO allocations (id, campaign_id, creator_id, amount_cents, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		a.ID, a.CampaignID, a.CreatorID, a.AmountCents, a.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("allocation %s: %w", a.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert allocation: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAllocationsByCampaign(ctx context.Context, campaignID string) ([]*Allocation, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, campaign_id, creator_id, amount_cents, created_at
		FROM allocations WHERE campaign_id = $1 ORDER BY created_at`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list allocations: %w", err)
	}
	defer rows.Close()

	var out []*Allocation
	for rows.Next() {
		var a Allocation
		if err := rows.Scan(&a.ID, &a.CampaignID, &a.CreatorID, &a.AmountCents, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}

func (s *PostgresStore) DeleteAllocation(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM allocations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete allocation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("allocation %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) CreateMessage(ctx context.Context, m *Message) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO messages (id, campaign_id, sender_id, recipient_id, body, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.CampaignID, m.SenderID, m.RecipientID, m.Body, m.SentAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("message %s: %w", m.ID, sentinel.ErrConflict)
		}
		return fmt.Errorf("insert message: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListMessagesByCampaign(ctx context.Context, campaignID string) ([]*Message, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, campaign_id, sender_id, recipient_id, body, sent_at
		FROM messages WHERE campaign_id = $1 ORDER BY sent_at`, campaignID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var out []*Message
	for rows.Next() {
		var m Message
		if err := rows.Scan(&m.ID, &m.CampaignID, &m.SenderID, &m.RecipientID, &m.Body, &m.SentAt); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}
