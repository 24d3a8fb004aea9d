package adapters

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"sku-tracker/internal/features/skus/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

// pqForeignKeyViolation is the SQLSTATE raised when an event references a missing SKU.
const pqForeignKeyViolation = "23503"

// PostgresRepository implements the SKU and event ports on PostgreSQL.
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a PostgresRepository. The schema is managed by the database package.
func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// jsonMap stores a map as a JSONB column.
type jsonMap map[string]any

func (m jsonMap) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	b, err := json.Marshal(map[string]any(m))
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (m *jsonMap) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported JSON column type %T", src)
	}
	return json.Unmarshal(data, (*map[string]any)(m))
}

type sqlDataSku struct {
	ID           int64     `db:"id"`
	CanonicalSku string    `db:"canonical_sku"`
	Name         string    `db:"name"`
	Description  *string   `db:"description"`
	Brand        *string   `db:"brand"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

var sqlParamsSku = []string{"canonical_sku", "name", "description", "brand", "created_at", "updated_at"}

func (d *sqlDataSku) Scan(m *domain.Sku) {
	d.ID = m.ID
	d.CanonicalSku = m.CanonicalSku
	d.Name = m.Name
	d.Description = m.Description
	d.Brand = m.Brand
	d.CreatedAt = timestampOr(m.CreatedAt)
	d.UpdatedAt = timestampOr(m.UpdatedAt)
}

func (d *sqlDataSku) Model() domain.Sku {
	return domain.Sku{
		ID:           d.ID,
		CanonicalSku: d.CanonicalSku,
		Name:         d.Name,
		Description:  d.Description,
		Brand:        d.Brand,
		Identities:   []domain.Identity{},
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

type sqlDataIdentity struct {
	ID         int64     `db:"id"`
	SkuID      int64     `db:"sku_id"`
	Provider   string    `db:"provider"`
	Identifier string    `db:"identifier"`
	Confidence float64   `db:"confidence"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

var sqlParamsIdentity = []string{"sku_id", "provider", "identifier", "confidence", "created_at", "updated_at"}

func (d *sqlDataIdentity) Model() domain.Identity {
	return domain.Identity{
		ID:         d.ID,
		SkuID:      d.SkuID,
		Provider:   d.Provider,
		Identifier: d.Identifier,
		Confidence: d.Confidence,
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
}

type sqlDataEvent struct {
	ID          int64     `db:"id"`
	SkuID       int64     `db:"sku_id"`
	EventType   string    `db:"event_type"`
	Provider    string    `db:"provider"`
	Location    *string   `db:"location"`
	Payload     jsonMap   `db:"payload"`
	RawPayload  jsonMap   `db:"raw_payload"`
	ObservedAt  time.Time `db:"observed_at"`
	Confidence  float64   `db:"confidence"`
	IngestionID string    `db:"ingestion_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

var sqlParamsEvent = []string{
	"sku_id",
	"event_type",
	"provider",
	"location",
	"payload",
	"raw_payload",
	"observed_at",
	"confidence",
	"ingestion_id",
	"created_at",
	"updated_at",
}

func (d *sqlDataEvent) Scan(m *domain.Event) {
	payload := m.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	d.ID = m.ID
	d.SkuID = m.SkuID
	d.EventType = m.EventType
	d.Provider = m.Provider
	d.Location = m.Location
	d.Payload = payload
	d.RawPayload = m.RawPayload
	d.ObservedAt = m.ObservedAt.UTC()
	d.Confidence = m.Confidence
	d.IngestionID = m.IngestionID
	d.CreatedAt = timestampOr(m.CreatedAt)
	d.UpdatedAt = timestampOr(m.UpdatedAt)
}

func (d *sqlDataEvent) Model() domain.Event {
	payload := map[string]any(d.Payload)
	if payload == nil {
		payload = map[string]any{}
	}
	return domain.Event{
		ID:          d.ID,
		SkuID:       d.SkuID,
		EventType:   d.EventType,
		Provider:    d.Provider,
		Location:    d.Location,
		Payload:     payload,
		RawPayload:  d.RawPayload,
		ObservedAt:  d.ObservedAt.UTC(),
		Confidence:  d.Confidence,
		IngestionID: d.IngestionID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func timestampOr(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().Round(time.Microsecond).UTC()
	}
	return t
}

func insertQuery(table string, params []string) string {
	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		table,
		strings.Join(params, ", "),
		":"+strings.Join(params, ", :"),
	)
}

// insertReturningID runs a named INSERT ... RETURNING id and closes the rows before returning.
func insertReturningID(ctx context.Context, tx *sqlx.Tx, query string, arg any) (int64, error) {
	rows, err := sqlx.NamedQueryContext(ctx, tx, query, arg)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var id int64
	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return 0, err
		}
	}
	return id, rows.Err()
}

// CreateSku stores the SKU and its identities in one transaction.
func (r *PostgresRepository) CreateSku(ctx context.Context, sku *domain.Sku) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	d := sqlDataSku{}
	d.Scan(sku)

	id, err := insertReturningID(ctx, tx, insertQuery("skus", sqlParamsSku), d)
	if err != nil {
		return errors.Wrap(err, "failed to create sku")
	}

	identities := make([]domain.Identity, 0, len(sku.Identities))
	for _, ident := range sku.Identities {
		di := sqlDataIdentity{
			SkuID:      id,
			Provider:   ident.Provider,
			Identifier: ident.Identifier,
			Confidence: ident.Confidence,
			CreatedAt:  d.CreatedAt,
			UpdatedAt:  d.UpdatedAt,
		}
		di.ID, err = insertReturningID(ctx, tx, insertQuery("sku_identities", sqlParamsIdentity), di)
		if err != nil {
			return errors.Wrap(err, "failed to create sku identity")
		}
		identities = append(identities, di.Model())
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit sku")
	}

	sku.ID = id
	sku.CreatedAt = d.CreatedAt
	sku.UpdatedAt = d.UpdatedAt
	sku.Identities = identities
	return nil
}

// GetSku returns the SKU with its identities.
func (r *PostgresRepository) GetSku(ctx context.Context, id int64) (*domain.Sku, error) {
	d := sqlDataSku{}
	query := "SELECT id, canonical_sku, name, description, brand, created_at, updated_at FROM skus WHERE id=$1"
	if err := r.db.GetContext(ctx, &d, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSkuNotFound
		}
		return nil, errors.Wrap(err, "failed to find sku")
	}

	skus := []domain.Sku{d.Model()}
	if err := r.attachIdentities(ctx, skus); err != nil {
		return nil, err
	}
	return &skus[0], nil
}

// SearchSkus matches query against the name with ILIKE. Wildcards in query are literal.
func (r *PostgresRepository) SearchSkus(ctx context.Context, query string) ([]domain.Sku, error) {
	rows := make([]sqlDataSku, 0)
	pattern := "%" + escapeLike(query) + "%"
	stmt := "SELECT id, canonical_sku, name, description, brand, created_at, updated_at FROM skus WHERE name ILIKE $1 ORDER BY id"
	if err := r.db.SelectContext(ctx, &rows, stmt, pattern); err != nil {
		return nil, errors.Wrap(err, "failed to search skus")
	}

	skus := make([]domain.Sku, 0, len(rows))
	for _, d := range rows {
		skus = append(skus, d.Model())
	}
	if err := r.attachIdentities(ctx, skus); err != nil {
		return nil, err
	}
	return skus, nil
}

func (r *PostgresRepository) attachIdentities(ctx context.Context, skus []domain.Sku) error {
	if len(skus) == 0 {
		return nil
	}

	ids := make([]int64, len(skus))
	index := make(map[int64]int, len(skus))
	for i, s := range skus {
		ids[i] = s.ID
		index[s.ID] = i
	}

	rows := make([]sqlDataIdentity, 0)
	query := "SELECT id, sku_id, provider, identifier, confidence, created_at, updated_at FROM sku_identities WHERE sku_id = ANY($1) ORDER BY id"
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(ids)); err != nil {
		return errors.Wrap(err, "failed to fetch sku identities")
	}

	for _, d := range rows {
		i := index[d.SkuID]
		skus[i].Identities = append(skus[i].Identities, d.Model())
	}
	return nil
}

// CreateEvents stores all events in one transaction.
func (r *PostgresRepository) CreateEvents(ctx context.Context, events []*domain.Event) (err error) {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	rows := make([]sqlDataEvent, len(events))
	for i, e := range events {
		rows[i].Scan(e)
		rows[i].ID, err = insertReturningID(ctx, tx, insertQuery("sku_events", sqlParamsEvent), rows[i])
		if err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation {
				return domain.ErrSkuNotFound
			}
			return errors.Wrap(err, "failed to create event")
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit events")
	}

	for i, e := range events {
		e.ID = rows[i].ID
		e.CreatedAt = rows[i].CreatedAt
		e.UpdatedAt = rows[i].UpdatedAt
	}
	return nil
}

// ListEvents returns the events of skuID in insertion order.
func (r *PostgresRepository) ListEvents(ctx context.Context, skuID int64) ([]domain.Event, error) {
	rows := make([]sqlDataEvent, 0)
	query := fmt.Sprintf("SELECT id, %s FROM sku_events WHERE sku_id=$1 ORDER BY id", strings.Join(sqlParamsEvent, ", "))
	if err := r.db.SelectContext(ctx, &rows, query, skuID); err != nil {
		return nil, errors.Wrap(err, "failed to list events")
	}

	events := make([]domain.Event, 0, len(rows))
	for _, d := range rows {
		events = append(events, d.Model())
	}
	return events, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
