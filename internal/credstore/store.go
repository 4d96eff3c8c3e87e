// Package credstore persists the bearer credential issued by the backend for
// each browser session. It is the single source of truth for the session's
// token and profile; no other component reads the underlying storage directly.
package credstore

import (
	"context"
	"errors"
	"time"

	"github.com/historisense/portal/internal/domain"
)

// ErrNoCredential is returned by Load when no credential is stored.
var ErrNoCredential = errors.New("no credential stored")

// ErrStorageUnavailable wraps backend-storage failures. Fatal to the request
// that hit it (the caller cannot authenticate), not to the process.
var ErrStorageUnavailable = errors.New("credential storage unavailable")

// Store persists credentials keyed by browser session ID.
//
// Save writes the token and profile as one record, so no reader can observe a
// token without its profile or vice versa. Load never validates expiry; that
// is the validator's job. Clear is idempotent and safe to call redundantly.
type Store interface {
	Save(ctx context.Context, sessionID string, cred domain.Credential, ttl time.Duration) error
	Load(ctx context.Context, sessionID string) (domain.Credential, error)
	Clear(ctx context.Context, sessionID string) error
}
