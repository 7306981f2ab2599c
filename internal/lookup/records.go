// internal/lookup/records.go
package lookup

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"kyb-workers/internal/common/errors"
	"kyb-workers/internal/models"
	"kyb-workers/internal/scoring/source"
)

// recordSpec describes how one source's table maps onto record attributes.
// columns and attrs are parallel; nameColumn backs the directory search.
type recordSpec struct {
	table      string
	nameColumn string
	columns    []string
	attrs      []string
}

var doctorSpecs = map[source.Kind]recordSpec{
	source.KindJustdial: {
		table:      "justdial_doctors",
		nameColumn: "name",
		columns:    []string{"name", "qualification", "experience", "rating", "rating_count", "clinic_address", "registration", "specialization"},
		attrs:      []string{"name", "qualification", "experience", "rating", "rating_count", "clinic_address", "registration", "specialization"},
	},
	source.KindPracto: {
		table:      "practo_doctors",
		nameColumn: "doctor_name",
		columns:    []string{"doctor_name", "detailed_qualifications", "experience", "recommendation_percent", "patient_stories", "doctor_address", "location", "registration", "specialization"},
		attrs:      []string{"doctor_name", "detailed_qualifications", "experience", "recommendation_percent", "patient_stories", "doctor_address", "location", "registration", "specialization"},
	},
	source.KindPractoNew: {
		table:      "new_practo_doctors",
		nameColumn: "name",
		columns:    []string{"name", "qualification", "experience", "rating", "rating_count", "address", "registration", "specialization"},
		attrs:      []string{"name", "qualification", "experience", "rating", "rating_count", "address", "registration", "specialization"},
	},
	source.KindBajaj: {
		table:      "bajaj_doctors",
		nameColumn: "name",
		columns:    []string{"name", "qualifications", "experience", "rating_percent", "rating_count", "clinic_address", "registration", "specialization"},
		attrs:      []string{"name", "qualifications", "experience", "rating_percent", "rating_count", "clinic_address", "registration", "specialization"},
	},
	source.KindSavein: {
		table:      "savein_doctors",
		nameColumn: "name",
		columns:    []string{"name", "qualification", "experience", "rating", "reviews_count", "address", "registration", "specialization"},
		attrs:      []string{"name", "qualification", "experience", "rating", "reviews_count", "address", "registration", "specialization"},
	},
	source.KindNMC: {
		table:      "nmc_doctors",
		nameColumn: "doctor_name",
		columns:    []string{"doctor_name", "doctor_degree", "address", "registration_no"},
		attrs:      []string{"doctorName", "doctorDegree", "address", "registrationNo"},
	},
}

var clinicSpecs = map[source.Kind]recordSpec{
	source.KindJustdial: {
		table:      "justdial_clinics",
		nameColumn: "name",
		columns:    []string{"name", "rating", "rating_count", "clinic_address", "specialization", "doctors"},
		attrs:      []string{"name", "rating", "rating_count", "clinic_address", "specialization", "doctors"},
	},
}

// Store fetches source records by id.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// FetchDoctor loads one doctor record by source and row id.
func (s *Store) FetchDoctor(ctx context.Context, kind string, recordID int64) (models.SourceRecord, error) {
	spec, ok := doctorSpecs[source.Kind(kind)]
	if !ok {
		return models.SourceRecord{}, errors.New(errors.ErrCodeUnsupportedSource,
			fmt.Sprintf("no doctor table for source %q", kind))
	}
	return s.fetch(ctx, spec, kind, recordID)
}

// FetchClinic loads one clinic record by source and row id.
func (s *Store) FetchClinic(ctx context.Context, kind string, recordID int64) (models.SourceRecord, error) {
	spec, ok := clinicSpecs[source.Kind(kind)]
	if !ok {
		return models.SourceRecord{}, errors.New(errors.ErrCodeUnsupportedSource,
			fmt.Sprintf("no clinic table for source %q", kind))
	}
	return s.fetch(ctx, spec, kind, recordID)
}

func (s *Store) fetch(ctx context.Context, spec recordSpec, kind string, recordID int64) (models.SourceRecord, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`,
		strings.Join(spec.columns, ", "), spec.table)

	row := s.db.QueryRowContext(ctx, query, recordID)
	rec, err := scanRecord(row, spec, kind)
	if err == sql.ErrNoRows {
		return models.SourceRecord{}, errors.New(errors.ErrCodeRecordNotFound,
			fmt.Sprintf("%s record %d not found", kind, recordID))
	}
	if err != nil {
		return models.SourceRecord{}, errors.Wrap(errors.ErrCodeQueryExecutionFailed,
			fmt.Sprintf("fetching %s record %d", kind, recordID), err)
	}
	rec.RecordID = recordID
	return rec, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row rowScanner, spec recordSpec, kind string) (models.SourceRecord, error) {
	values := make([]sql.NullString, len(spec.columns))
	dest := make([]interface{}, len(values))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := row.Scan(dest...); err != nil {
		return models.SourceRecord{}, err
	}

	attrs := make(map[string]string, len(spec.attrs))
	for i, name := range spec.attrs {
		if values[i].Valid {
			attrs[name] = values[i].String
		}
	}
	return models.SourceRecord{Source: kind, Attributes: attrs}, nil
}
