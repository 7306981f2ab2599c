// internal/workers/scoring/score-clinic/handler_test.go
package scoreclinic

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	stderrors "kyb-workers/internal/common/errors"
	"kyb-workers/internal/common/logger"
	"kyb-workers/internal/lookup"
	"kyb-workers/internal/models"
	"kyb-workers/internal/scoring/engine"
	"kyb-workers/internal/scoring/normalize"
)

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	// Nil collaborators degrade to Poor location and skipped doctor lookups.
	eng := engine.New(normalize.DefaultTables(), nil, nil, nil, zaptest.NewLogger(t))
	return NewHandler(LoadConfig(), eng, lookup.NewStore(db), logger.NewTestLogger(t)), mock
}

func TestExecuteInlineRecord(t *testing.T) {
	h, mock := newTestHandler(t)

	out, err := h.Execute(context.Background(), &Input{
		Source: "justdial",
		Record: &models.SourceRecord{Attributes: map[string]string{
			"name":         "Smile Dental Care",
			"rating":       "4.5",
			"rating_count": "220",
		}},
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.RequestID)
	assert.Equal(t, "clinic", out.Result.Entity)
	assert.Contains(t, out.Result.Factors, "doctors")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteFetchesRecordFromStore(t *testing.T) {
	h, mock := newTestHandler(t)

	cols := []string{"name", "rating", "rating_count", "clinic_address", "specialization", "doctors"}
	mock.ExpectQuery(`SELECT .+ FROM justdial_clinics WHERE id = \$1`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow("City Hospital", "4.2", "80", "Brigade Road", "Multispeciality", ""))

	out, err := h.Execute(context.Background(), &Input{Source: "justdial", RecordID: 7})
	require.NoError(t, err)
	assert.Equal(t, "City Hospital", out.Result.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecuteMissingInput(t *testing.T) {
	h, _ := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{})
	var se *stderrors.StandardError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, stderrors.ErrCodeInvalidInput, se.Code)
}

func TestExecuteUnsupportedClinicSource(t *testing.T) {
	h, _ := newTestHandler(t)

	// Practo is a doctor source only; there is no clinic adapter for it.
	_, err := h.Execute(context.Background(), &Input{
		Source: "practo",
		Record: &models.SourceRecord{Attributes: map[string]string{"name": "Some Clinic"}},
	})
	var se *stderrors.StandardError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, stderrors.ErrCodeUnsupportedSource, se.Code)
}

func TestExecuteFetchUnsupportedSource(t *testing.T) {
	h, _ := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{Source: "practo", RecordID: 1})
	var se *stderrors.StandardError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, stderrors.ErrCodeUnsupportedSource, se.Code)
}
