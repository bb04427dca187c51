package repositories

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"myblog/app/models"

	"github.com/dgraph-io/badger/v4"
)

// userRecord is the persisted form of a user. models.User keeps the
// password hash out of JSON, so storage uses its own shape.
type userRecord struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

func toRecord(u *models.User) userRecord {
	return userRecord{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
	}
}

func (rec userRecord) user() *models.User {
	return &models.User{
		ID:           rec.ID,
		Username:     rec.Username,
		Email:        rec.Email,
		PasswordHash: rec.PasswordHash,
		CreatedAt:    rec.CreatedAt,
	}
}

// BadgerUserRepository implements UserRepository using BadgerDB.
// Username and email are unique, compared case-insensitively.
type BadgerUserRepository struct {
	db *badger.DB
}

// NewBadgerUserRepository creates a new BadgerUserRepository
func NewBadgerUserRepository(db *badger.DB) *BadgerUserRepository {
	return &BadgerUserRepository{db: db}
}

// Create creates a new user, enforcing uniqueness of username and email
func (r *BadgerUserRepository) Create(user *models.User) error {
	if err := user.Validate(); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}

	nameKey := usernameKey(user.NormalizedUsername())
	emailKey := userEmailKey(user.NormalizedEmail())

	return r.db.Update(func(txn *badger.Txn) error {
		taken, err := exists(txn, nameKey)
		if err != nil {
			return err
		}
		if taken {
			return duplicate("username", user.Username)
		}
		taken, err = exists(txn, emailKey)
		if err != nil {
			return err
		}
		if taken {
			return duplicate("email", user.Email)
		}

		id, err := getNextID(txn, UserSeqKey)
		if err != nil {
			return err
		}
		user.ID = id

		data, err := marshalEntity(toRecord(user))
		if err != nil {
			return err
		}
		if err := txn.Set(userKey(id), data); err != nil {
			return err
		}
		if err := putInt(txn, nameKey, id); err != nil {
			return err
		}
		return putInt(txn, emailKey, id)
	})
}

// GetByID retrieves a user by ID
func (r *BadgerUserRepository) GetByID(id int) (*models.User, error) {
	var rec userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, userKey(id), &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.user(), nil
}

// GetByUsername retrieves a user by username, ignoring case
func (r *BadgerUserRepository) GetByUsername(username string) (*models.User, error) {
	var rec userRecord
	err := r.db.View(func(txn *badger.Txn) error {
		id, err := getInt(txn, usernameKey(strings.ToLower(strings.TrimSpace(username))))
		if err != nil {
			return err
		}
		return getEntity(txn, userKey(id), &rec)
	})
	if err != nil {
		return nil, err
	}
	return rec.user(), nil
}

// List retrieves every user ordered by username
func (r *BadgerUserRepository) List() ([]*models.User, error) {
	users := []*models.User{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(UserKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec userRecord
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal user: %w", err)
			}
			users = append(users, rec.user())
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(users, func(i, j int) bool {
		return users[i].NormalizedUsername() < users[j].NormalizedUsername()
	})
	return users, nil
}
