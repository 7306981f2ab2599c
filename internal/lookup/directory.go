// internal/lookup/directory.go
package lookup

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"kyb-workers/internal/models"
	"kyb-workers/internal/scoring/source"
)

// directoryOrder fixes which source wins when a name matches in several
// directories. Records are immutable, so resolutions are safe to cache.
var directoryOrder = []source.Kind{
	source.KindJustdial,
	source.KindPracto,
	source.KindPractoNew,
	source.KindBajaj,
	source.KindSavein,
}

// Directory resolves associated-doctor names to source records by substring
// match across the doctor tables.
type Directory struct {
	db     *sql.DB
	cache  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewDirectory wires a directory. cache may be nil to disable caching.
func NewDirectory(db *sql.DB, cache *redis.Client, ttl time.Duration, logger *zap.Logger) *Directory {
	return &Directory{db: db, cache: cache, ttl: ttl, logger: logger}
}

func directoryCacheKey(name string) string {
	return "directory:name:" + strings.ToLower(strings.TrimSpace(name))
}

// FindByNameSubstring returns the first record whose name contains the given
// name, searching the directories in fixed order.
func (d *Directory) FindByNameSubstring(ctx context.Context, name string) (models.SourceRecord, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.SourceRecord{}, false, nil
	}

	if rec, ok := d.fromCache(ctx, name); ok {
		return rec, true, nil
	}

	for _, kind := range directoryOrder {
		spec := doctorSpecs[kind]
		query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ILIKE $1 LIMIT 1`,
			strings.Join(spec.columns, ", "), spec.table, spec.nameColumn)

		row := d.db.QueryRowContext(ctx, query, "%"+name+"%")
		rec, err := scanRecord(row, spec, string(kind))
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return models.SourceRecord{}, false, fmt.Errorf("directory lookup in %s: %w", spec.table, err)
		}

		d.store(ctx, name, rec)
		return rec, true, nil
	}
	return models.SourceRecord{}, false, nil
}

func (d *Directory) fromCache(ctx context.Context, name string) (models.SourceRecord, bool) {
	if d.cache == nil {
		return models.SourceRecord{}, false
	}
	raw, err := d.cache.Get(ctx, directoryCacheKey(name)).Result()
	if err != nil {
		return models.SourceRecord{}, false
	}
	var rec models.SourceRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return models.SourceRecord{}, false
	}
	return rec, true
}

func (d *Directory) store(ctx context.Context, name string, rec models.SourceRecord) {
	if d.cache == nil {
		return
	}
	raw, err := json.Marshal(rec)
	if err != nil {
		return
	}
	if err := d.cache.Set(ctx, directoryCacheKey(name), raw, d.ttl).Err(); err != nil {
		d.logger.Debug("directory cache write failed", zap.Error(err))
	}
}
