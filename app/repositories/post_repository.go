package repositories

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"myblog/app/models"

	"github.com/dgraph-io/badger/v4"
)

// BadgerPostRepository implements PostRepository using BadgerDB
type BadgerPostRepository struct {
	db *badger.DB
}

// NewBadgerPostRepository creates a new BadgerPostRepository
func NewBadgerPostRepository(db *badger.DB) *BadgerPostRepository {
	return &BadgerPostRepository{db: db}
}

// Create creates a new post
func (r *BadgerPostRepository) Create(post *models.Post) error {
	if err := post.Validate(); err != nil {
		return fmt.Errorf("invalid post: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		ok, err := exists(txn, userKey(post.AuthorID))
		if err != nil {
			return err
		}
		if !ok {
			return missingRef("author", post.AuthorID)
		}

		id, err := getNextID(txn, PostSeqKey)
		if err != nil {
			return err
		}
		post.ID = id

		return r.put(txn, post)
	})
}

// GetByID retrieves a post by ID
func (r *BadgerPostRepository) GetByID(id int) (*models.Post, error) {
	var post models.Post
	err := r.db.View(func(txn *badger.Txn) error {
		return getEntity(txn, postKey(id), &post)
	})
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListPublished retrieves posts visible to the public at now
func (r *BadgerPostRepository) ListPublished(now time.Time) ([]*models.Post, error) {
	posts, err := r.scan(func(p *models.Post) bool {
		return p.IsPublishedAt(now)
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].PublishedDate, posts[j].PublishedDate
		if a.Equal(*b) {
			return posts[i].ID > posts[j].ID
		}
		return a.After(*b)
	})
	return posts, nil
}

// ListDrafts retrieves every unpublished post
func (r *BadgerPostRepository) ListDrafts() ([]*models.Post, error) {
	posts, err := r.scan(func(p *models.Post) bool {
		return p.IsDraft()
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i].CreatedDate, posts[j].CreatedDate
		if a.Equal(b) {
			return posts[i].ID < posts[j].ID
		}
		return a.Before(b)
	})
	return posts, nil
}

// Update updates an existing post
func (r *BadgerPostRepository) Update(post *models.Post) error {
	if err := post.Validate(); err != nil {
		return fmt.Errorf("invalid post: %w", err)
	}

	return r.db.Update(func(txn *badger.Txn) error {
		ok, err := exists(txn, postKey(post.ID))
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}

		ok, err = exists(txn, userKey(post.AuthorID))
		if err != nil {
			return err
		}
		if !ok {
			return missingRef("author", post.AuthorID)
		}

		return r.put(txn, post)
	})
}

// Delete deletes a post by ID together with its comments
func (r *BadgerPostRepository) Delete(id int) error {
	return r.db.Update(func(txn *badger.Txn) error {
		key := postKey(id)
		ok, err := exists(txn, key)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}

		// Collect first: keys must not be deleted under a live iterator.
		var doomed [][]byte
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		prefix := commentPrefix(id)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			k := it.Item().KeyCopy(nil)
			var commentID int
			if _, err := fmt.Sscanf(string(bytes.TrimPrefix(k, prefix)), "%d", &commentID); err != nil {
				it.Close()
				return fmt.Errorf("malformed comment key %q: %w", k, err)
			}
			doomed = append(doomed, k, commentIndexKey(commentID))
		}
		it.Close()

		for _, k := range doomed {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		return txn.Delete(key)
	})
}

// put stores the persisted fields of post; loaded relations are dropped.
func (r *BadgerPostRepository) put(txn *badger.Txn, post *models.Post) error {
	stored := *post
	stored.Author = nil
	stored.Comments = nil

	data, err := marshalEntity(&stored)
	if err != nil {
		return err
	}
	return txn.Set(postKey(post.ID), data)
}

func (r *BadgerPostRepository) scan(keep func(*models.Post) bool) ([]*models.Post, error) {
	posts := []*models.Post{}
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(PostKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var post models.Post
			err := it.Item().Value(func(val []byte) error {
				return unmarshalEntity(val, &post)
			})
			if err != nil {
				return fmt.Errorf("failed to unmarshal post: %w", err)
			}
			if keep(&post) {
				posts = append(posts, &post)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return posts, nil
}
