package repositories

import (
	"errors"
	"fmt"
	"time"

	"myblog/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerSessionRepository stores login sessions with a Badger TTL so
// expired sessions disappear without a sweeper.
type BadgerSessionRepository struct {
	db  *badger.DB
	now func() time.Time
}

// NewBadgerSessionRepository creates a new BadgerSessionRepository
func NewBadgerSessionRepository(db *badger.DB, now func() time.Time) *BadgerSessionRepository {
	if now == nil {
		now = time.Now
	}
	return &BadgerSessionRepository{db: db, now: now}
}

// Create stores session until its expiry
func (r *BadgerSessionRepository) Create(session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}
	ttl := session.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return errors.New("session already expired")
	}

	data, err := marshalEntity(session)
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(sessionKey(session.Token), data).WithTTL(ttl))
	})
}

// Get returns the live session for token
func (r *BadgerSessionRepository) Get(token string) (*models.Session, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	var session models.Session
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, sessionKey(token), &session)
	})
	if err != nil {
		return nil, err
	}
	if session.Expired(r.now()) {
		return nil, ErrNotFound
	}
	return &session, nil
}

// Delete removes the session for token. Deleting an unknown token is not an error.
func (r *BadgerSessionRepository) Delete(token string) error {
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(token))
	})
}
