// internal/scoring/license/license.go

// Package license resolves whether a practitioner's registration number is
// backed by a medical register. Verification is fail-safe in the negative
// direction: lookup errors report unverified, never verified.
package license

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"kyb-workers/internal/common/metrics"
)

// Registry answers whether a registration number is on a register.
type Registry interface {
	Exists(ctx context.Context, registrationID string) (bool, error)
}

// Verifier checks registration numbers against the general medical register
// first and the dental register second, with the source record's own
// registration field as the last resort.
type Verifier struct {
	general Registry
	dental  Registry
	logger  *zap.Logger
}

func NewVerifier(general, dental Registry, logger *zap.Logger) *Verifier {
	return &Verifier{general: general, dental: dental, logger: logger}
}

// Verify reports whether registrationID is verified. The checks run in
// order: general register, dental register, then an exact match against the
// registration field the record itself carries. An empty number is
// unverified without any lookup; a failed lookup counts as a miss.
func (v *Verifier) Verify(ctx context.Context, registrationID, recordRegistration string) bool {
	registrationID = strings.TrimSpace(registrationID)
	if registrationID == "" {
		return false
	}

	if v.check(ctx, v.general, registrationID, "general register") {
		return true
	}
	if v.check(ctx, v.dental, registrationID, "dental register") {
		return true
	}
	return registrationID == strings.TrimSpace(recordRegistration)
}

func (v *Verifier) check(ctx context.Context, registry Registry, registrationID, name string) bool {
	if registry == nil {
		return false
	}
	found, err := registry.Exists(ctx, registrationID)
	if err != nil {
		v.logger.Warn("register lookup failed, treating as unverified",
			zap.String("register", name), zap.Error(err))
		metrics.CollaboratorFailures.WithLabelValues("registry").Inc()
		return false
	}
	return found
}
