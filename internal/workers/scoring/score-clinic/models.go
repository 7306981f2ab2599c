// internal/workers/scoring/score-clinic/models.go
package scoreclinic

import (
	"kyb-workers/internal/models"
	"kyb-workers/internal/scoring/engine"
)

// Input carries either an inline clinic record or a {source, recordId}
// pair to fetch from storage.
type Input struct {
	Source   string               `json:"source"`
	RecordID int64                `json:"recordId,omitempty"`
	Record   *models.SourceRecord `json:"record,omitempty"`
}

type Output struct {
	RequestID string             `json:"requestId"`
	Result    engine.EntityScore `json:"result"`
}
