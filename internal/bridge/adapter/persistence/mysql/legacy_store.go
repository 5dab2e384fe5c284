// Package mysql implements the legacy store client over the WordPress
// relational schema. All queries are parameterized; table names are
// qualified through the configured prefix.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"cms-bridge/internal/bridge/config"
	"cms-bridge/internal/bridge/domain/model"
	"cms-bridge/internal/bridge/domain/repository"
	"cms-bridge/internal/shared/errors"
	"cms-bridge/internal/shared/logger"

	_ "github.com/go-sql-driver/mysql"
)

// LegacyStore executes typed, parameterized queries against the legacy
// schema. The connection pool is created at Connect and owned by this
// client for the process lifetime.
type LegacyStore struct {
	cfg config.LegacyConfig
	db  *sql.DB
	log logger.Logger
}

// Compile-time contract check.
var _ repository.LegacyStore = (*LegacyStore)(nil)

// NewLegacyStore creates an unconnected client.
func NewLegacyStore(cfg config.LegacyConfig, log logger.Logger) *LegacyStore {
	if log == nil {
		log = logger.NewLogger()
	}
	return &LegacyStore{cfg: cfg, log: log.WithComponent("legacy-store")}
}

// Connect opens and verifies the pool. Pool size bounds the number of
// concurrent outstanding queries.
func (s *LegacyStore) Connect(ctx context.Context) error {
	db, err := sql.Open("mysql", s.cfg.DSN())
	if err != nil {
		return errors.NewConnectionError("legacy", err)
	}

	db.SetMaxOpenConns(s.cfg.PoolSize)
	db.SetMaxIdleConns(s.cfg.PoolSize / 2)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return errors.NewConnectionError("legacy", err)
	}

	s.db = db
	s.log.Infof("Legacy store connected: %s:%d/%s (prefix %q)",
		s.cfg.Host, s.cfg.Port, s.cfg.Database, s.cfg.TablePrefix)
	return nil
}

// Close releases the pool.
func (s *LegacyStore) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB exposes the pool for callers that need to wrap statements in an
// external transaction boundary.
func (s *LegacyStore) DB() *sql.DB {
	return s.db
}

// table qualifies a base table name with the configured prefix.
func (s *LegacyStore) table(name string) string {
	return s.cfg.TablePrefix + name
}

const entityColumns = "ID, post_author, post_title, post_content, post_excerpt, post_status, post_type, post_date, post_modified"

// FindEntities reads a page of entities of one type together with their
// attribute rows. Pagination applies to entities, not join rows, so the
// entity page is resolved in a subquery before the left join. Entities
// with zero attribute rows come back with NULL attribute columns.
func (s *LegacyStore) FindEntities(ctx context.Context, entityType string, limit, offset int) ([]model.JoinedRow, error) {
	query := fmt.Sprintf(`
		SELECT p.ID, p.post_author, p.post_title, p.post_content, p.post_excerpt,
		       p.post_status, p.post_type, p.post_date, p.post_modified,
		       m.meta_id, m.post_id, m.meta_key, m.meta_value
		FROM (
			SELECT %s FROM %s WHERE post_type = ? ORDER BY ID LIMIT ? OFFSET ?
		) p
		LEFT JOIN %s m ON m.post_id = p.ID
		ORDER BY p.ID, m.meta_id`,
		entityColumns, s.table("posts"), s.table("postmeta"))

	rows, err := s.db.QueryContext(ctx, query, entityType, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.JoinedRow
	for rows.Next() {
		var (
			entity    model.EntityRow
			metaID    sql.NullInt64
			metaPost  sql.NullInt64
			metaKey   sql.NullString
			metaValue sql.NullString
		)
		if err := rows.Scan(
			&entity.ID, &entity.AuthorID, &entity.Title, &entity.Content, &entity.Excerpt,
			&entity.Status, &entity.Type, &entity.Created, &entity.Modified,
			&metaID, &metaPost, &metaKey, &metaValue,
		); err != nil {
			return nil, err
		}

		row := model.JoinedRow{Entity: entity}
		if metaID.Valid {
			row.Attr = &model.AttributeRow{
				ID:       metaID.Int64,
				EntityID: metaPost.Int64,
				Key:      metaKey.String,
				Value:    metaValue.String,
			}
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// FindEntityByID reads one entity row by exact id.
func (s *LegacyStore) FindEntityByID(ctx context.Context, id int64) (*model.EntityRow, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE ID = ?", entityColumns, s.table("posts"))

	var entity model.EntityRow
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&entity.ID, &entity.AuthorID, &entity.Title, &entity.Content, &entity.Excerpt,
		&entity.Status, &entity.Type, &entity.Created, &entity.Modified,
	)
	if err == sql.ErrNoRows {
		return nil, errors.ErrEntityNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

// FindAttributes reads all attribute rows for one entity in meta_id order.
func (s *LegacyStore) FindAttributes(ctx context.Context, entityID int64) ([]model.AttributeRow, error) {
	query := fmt.Sprintf(
		"SELECT meta_id, post_id, meta_key, meta_value FROM %s WHERE post_id = ? ORDER BY meta_id",
		s.table("postmeta"))

	rows, err := s.db.QueryContext(ctx, query, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.AttributeRow
	for rows.Next() {
		var attr model.AttributeRow
		if err := rows.Scan(&attr.ID, &attr.EntityID, &attr.Key, &attr.Value); err != nil {
			return nil, err
		}
		out = append(out, attr)
	}
	return out, rows.Err()
}

// CountEntities counts entities of one type.
func (s *LegacyStore) CountEntities(ctx context.Context, entityType string) (int64, error) {
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE post_type = ?", s.table("posts"))

	var count int64
	if err := s.db.QueryRowContext(ctx, query, entityType).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// InsertEntity writes one entity row and returns its assigned id.
func (s *LegacyStore) InsertEntity(ctx context.Context, fields model.EntityFields) (int64, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (post_author, post_title, post_content, post_excerpt, post_status, post_type, post_date, post_modified)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`, s.table("posts"))

	res, err := s.db.ExecContext(ctx, query,
		fields.AuthorID, fields.Title, fields.Content, fields.Excerpt,
		fields.Status, fields.Type, fields.Created, fields.Modified)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateEntity rewrites the declared columns of one entity row.
func (s *LegacyStore) UpdateEntity(ctx context.Context, id int64, fields model.EntityFields) error {
	query := fmt.Sprintf(`
		UPDATE %s SET post_author = ?, post_title = ?, post_content = ?, post_excerpt = ?,
		       post_status = ?, post_modified = ?
		WHERE ID = ?`, s.table("posts"))

	res, err := s.db.ExecContext(ctx, query,
		fields.AuthorID, fields.Title, fields.Content, fields.Excerpt,
		fields.Status, fields.Modified, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL also reports 0 for no-op updates; verify the row exists
		// before reporting not found.
		if _, lookupErr := s.FindEntityByID(ctx, id); lookupErr != nil {
			return lookupErr
		}
	}
	return nil
}

// DeleteEntity removes one entity row. Attribute rows must already be gone.
func (s *LegacyStore) DeleteEntity(ctx context.Context, id int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE ID = ?", s.table("posts"))
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.ErrEntityNotFound
	}
	return nil
}

// UpsertAttribute updates an attribute row if one exists for (entity, key),
// otherwise inserts it. This is an existence check followed by a second
// statement, not an atomic upsert; a concurrent writer can still race it.
func (s *LegacyStore) UpsertAttribute(ctx context.Context, entityID int64, key, value string) error {
	selectQuery := fmt.Sprintf(
		"SELECT meta_id FROM %s WHERE post_id = ? AND meta_key = ? ORDER BY meta_id LIMIT 1",
		s.table("postmeta"))

	var metaID int64
	err := s.db.QueryRowContext(ctx, selectQuery, entityID, key).Scan(&metaID)
	switch {
	case err == sql.ErrNoRows:
		insertQuery := fmt.Sprintf(
			"INSERT INTO %s (post_id, meta_key, meta_value) VALUES (?, ?, ?)",
			s.table("postmeta"))
		_, err = s.db.ExecContext(ctx, insertQuery, entityID, key, value)
		return err
	case err != nil:
		return err
	default:
		updateQuery := fmt.Sprintf(
			"UPDATE %s SET meta_value = ? WHERE meta_id = ?", s.table("postmeta"))
		_, err = s.db.ExecContext(ctx, updateQuery, value, metaID)
		return err
	}
}

// DeleteAttributes removes every attribute row for one entity.
func (s *LegacyStore) DeleteAttributes(ctx context.Context, entityID int64) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE post_id = ?", s.table("postmeta"))
	_, err := s.db.ExecContext(ctx, query, entityID)
	return err
}

// ListTables reports name and row count for every prefix-qualified table.
// Row counts come from information_schema and are estimates for InnoDB.
func (s *LegacyStore) ListTables(ctx context.Context) ([]model.TableInfo, error) {
	query := `
		SELECT TABLE_NAME, COALESCE(TABLE_ROWS, 0)
		FROM information_schema.TABLES
		WHERE TABLE_SCHEMA = ? AND TABLE_NAME LIKE CONCAT(?, '%')
		ORDER BY TABLE_NAME`

	rows, err := s.db.QueryContext(ctx, query, s.cfg.Database, s.cfg.TablePrefix)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.TableInfo
	for rows.Next() {
		var info model.TableInfo
		if err := rows.Scan(&info.Name, &info.RowCount); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
