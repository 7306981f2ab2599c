// internal/scoring/license/license_test.go
package license

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zaptest"
)

type fakeRegistry struct {
	found bool
	err   error
	calls int
}

func (f *fakeRegistry) Exists(_ context.Context, _ string) (bool, error) {
	f.calls++
	return f.found, f.err
}

func TestVerifyEmptyRegistrationSkipsLookups(t *testing.T) {
	general := &fakeRegistry{found: true}
	dental := &fakeRegistry{found: true}
	v := NewVerifier(general, dental, zaptest.NewLogger(t))

	assert.False(t, v.Verify(context.Background(), "   ", ""))
	assert.Zero(t, general.calls)
	assert.Zero(t, dental.calls)
}

func TestVerifyGeneralRegisterHit(t *testing.T) {
	general := &fakeRegistry{found: true}
	dental := &fakeRegistry{}
	v := NewVerifier(general, dental, zaptest.NewLogger(t))

	assert.True(t, v.Verify(context.Background(), "MH-44821", ""))
	assert.Equal(t, 1, general.calls)
	assert.Zero(t, dental.calls)
}

func TestVerifyFallsThroughToDentalRegister(t *testing.T) {
	general := &fakeRegistry{found: false}
	dental := &fakeRegistry{found: true}
	v := NewVerifier(general, dental, zaptest.NewLogger(t))

	assert.True(t, v.Verify(context.Background(), "KA-DENT-12", ""))
	assert.Equal(t, 1, general.calls)
	assert.Equal(t, 1, dental.calls)
}

func TestVerifyRecordOwnFieldIsLastResort(t *testing.T) {
	general := &fakeRegistry{found: false}
	dental := &fakeRegistry{found: false}
	v := NewVerifier(general, dental, zaptest.NewLogger(t))

	assert.True(t, v.Verify(context.Background(), "TS-99120", "TS-99120"))
	assert.False(t, v.Verify(context.Background(), "TS-99120", "TS-00000"))
	assert.False(t, v.Verify(context.Background(), "TS-99120", ""))
}

func TestVerifyLookupErrorCountsAsMiss(t *testing.T) {
	general := &fakeRegistry{err: errors.New("connection reset")}
	dental := &fakeRegistry{err: errors.New("connection reset")}
	v := NewVerifier(general, dental, zaptest.NewLogger(t))

	assert.False(t, v.Verify(context.Background(), "MH-1", ""))

	// The record's own field still resolves after register outages.
	assert.True(t, v.Verify(context.Background(), "MH-1", "MH-1"))
}

func TestVerifyNilRegistries(t *testing.T) {
	v := NewVerifier(nil, nil, zaptest.NewLogger(t))
	assert.False(t, v.Verify(context.Background(), "MH-1", ""))
}
