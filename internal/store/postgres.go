package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Open dials databaseURL, configures the connection pool, pings it and
// migrates the items table, returning a ready PostgresStore. Shared by
// every entrypoint so the server and the timeout worker agree on one
// connection recipe, grounded on the teacher's database.Initialize.
func Open(databaseURL string, maxOpenConns, maxIdleConns int, connMaxLifetime time.Duration) (*PostgresStore, error) {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("store: connect: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("store: underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("store: ping: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	return NewPostgresStore(db), nil
}

// itemRow is the single generic table backing every entity kind. A Postgres
// (or sqlite, for local/dev) table with one row per (kind, id) replaces the
// teacher's one-gorm-model-per-entity layout, because the spec's store
// contract is kind-agnostic: three logical kinds share one conditional
// put/delete implementation instead of three repositories.
type itemRow struct {
	Kind       string `gorm:"column:kind;primaryKey"`
	ID         string `gorm:"column:id;primaryKey"`
	Version    int64  `gorm:"column:version"`
	Payload    []byte `gorm:"column:payload"`
	ModifiedAt time.Time `gorm:"column:modified_at"`
}

func (itemRow) TableName() string { return "items" }

// PostgresStore is the production ItemStore, backed by gorm (Postgres or
// sqlite, selected by the caller's *gorm.DB dialector). Conditional writes
// are plain SQL WHERE clauses on the version column rather than gorm's
// built-in optimistic-lock plugin, so the exact "absent" / "version == N-1"
// semantics from the spec are explicit and testable.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore wraps an already-opened gorm connection. AutoMigrate is
// the caller's responsibility (see internal/store.Migrate).
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the items table if it does not already exist.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&itemRow{}); err != nil {
		return fmt.Errorf("store: migrate: %w", err)
	}
	return nil
}

func (s *PostgresStore) ReadOne(ctx context.Context, kind Kind, id string) (Item, error) {
	var row itemRow
	err := s.db.WithContext(ctx).
		Where("kind = ? AND id = ?", string(kind), id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Item{}, ErrNotFound
	}
	if err != nil {
		return Item{}, fmt.Errorf("store: read %s/%s: %w", kind, id, err)
	}
	return Item{
		Kind:       Kind(row.Kind),
		ID:         row.ID,
		Version:    row.Version,
		ModifiedAt: row.ModifiedAt,
		Payload:    row.Payload,
	}, nil
}

func (s *PostgresStore) WriteOne(ctx context.Context, op Op) error {
	return writeOne(ctx, s, op)
}

// Write performs every op in a single transaction; if any condition fails
// the whole batch is rolled back and ErrConditionalCheckFailed is returned,
// matching the "all or nothing" guarantee in spec §4.1.
func (s *PostgresStore) Write(ctx context.Context, ops []Op) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, op := range ops {
			switch {
			case op.Put != nil:
				if err := applyPut(tx, op.Put.Item); err != nil {
					return err
				}
			case op.Delete != nil:
				if err := applyDelete(tx, op.Delete.Kind, op.Delete.ID, op.Delete.ExpectedVersion); err != nil {
					return err
				}
			default:
				return fmt.Errorf("store: empty op")
			}
		}
		return nil
	})
}

func applyPut(tx *gorm.DB, item Item) error {
	now := item.ModifiedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	var result *gorm.DB
	if item.Version == 0 {
		result = tx.Exec(
			`INSERT INTO items (kind, id, version, payload, modified_at)
			 VALUES (?, ?, 0, ?, ?)
			 ON CONFLICT (kind, id) DO NOTHING`,
			string(item.Kind), item.ID, []byte(item.Payload), now,
		)
	} else {
		result = tx.Exec(
			`UPDATE items SET version = ?, payload = ?, modified_at = ?
			 WHERE kind = ? AND id = ? AND version = ?`,
			item.Version, []byte(item.Payload), now,
			string(item.Kind), item.ID, item.Version-1,
		)
	}
	if result.Error != nil {
		return fmt.Errorf("store: put %s/%s: %w", item.Kind, item.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrConditionalCheckFailed
	}
	return nil
}

func applyDelete(tx *gorm.DB, kind Kind, id string, expectedVersion int64) error {
	result := tx.Exec(
		`DELETE FROM items WHERE kind = ? AND id = ? AND version = ?`,
		string(kind), id, expectedVersion,
	)
	if result.Error != nil {
		return fmt.Errorf("store: delete %s/%s: %w", kind, id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrConditionalCheckFailed
	}
	return nil
}

// MarshalPayload is a small helper so command/entity code doesn't need to
// import encoding/json directly just to build an Item.
func MarshalPayload(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}
