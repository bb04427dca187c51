// Package mock provides in-memory repositories for service and handler
// tests. Records are copied in and out, like a real store.
package mock

import (
	"sort"
	"strings"
	"sync"
	"time"

	"myblog/app/models"
	"myblog/app/repositories"
)

type PostRepository struct {
	posts    map[int]models.Post
	comments *CommentRepository
	nextID   int
	mutex    sync.RWMutex
}

type CommentRepository struct {
	comments map[int]models.Comment
	nextID   int
	mutex    sync.RWMutex
}

type UserRepository struct {
	users  map[int]models.User
	nextID int
	mutex  sync.RWMutex
}

type SessionRepository struct {
	sessions map[string]models.Session
	mutex    sync.RWMutex
}

// NewPostRepository returns a post store that cascades deletes into comments.
func NewPostRepository(comments *CommentRepository) *PostRepository {
	return &PostRepository{
		posts:    make(map[int]models.Post),
		comments: comments,
		nextID:   1,
	}
}

func NewCommentRepository() *CommentRepository {
	return &CommentRepository{
		comments: make(map[int]models.Comment),
		nextID:   1,
	}
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[int]models.User),
		nextID: 1,
	}
}

func NewSessionRepository() *SessionRepository {
	return &SessionRepository{sessions: make(map[string]models.Session)}
}

// PostRepository implementation

func (m *PostRepository) Create(post *models.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.ID = m.nextID
	m.nextID++
	m.posts[post.ID] = stripPost(post)
	return nil
}

func (m *PostRepository) GetByID(id int) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return &post, nil
}

func (m *PostRepository) ListPublished(now time.Time) ([]*models.Post, error) {
	posts := m.filter(func(p *models.Post) bool { return p.IsPublishedAt(now) })
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].PublishedDate.After(*posts[j].PublishedDate)
	})
	return posts, nil
}

func (m *PostRepository) ListDrafts() ([]*models.Post, error) {
	posts := m.filter(func(p *models.Post) bool { return p.IsDraft() })
	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].CreatedDate.Before(posts[j].CreatedDate)
	})
	return posts, nil
}

func (m *PostRepository) Update(post *models.Post) error {
	if err := post.Validate(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[post.ID]; !exists {
		return repositories.ErrNotFound
	}
	m.posts[post.ID] = stripPost(post)
	return nil
}

func (m *PostRepository) Delete(id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.posts[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.posts, id)
	if m.comments != nil {
		m.comments.deleteByPost(id)
	}
	return nil
}

func (m *PostRepository) filter(keep func(*models.Post) bool) []*models.Post {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	ids := make([]int, 0, len(m.posts))
	for id := range m.posts {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := []*models.Post{}
	for _, id := range ids {
		p := m.posts[id]
		if keep(&p) {
			out = append(out, &p)
		}
	}
	return out
}

func stripPost(p *models.Post) models.Post {
	stored := *p
	stored.Author = nil
	stored.Comments = nil
	return stored
}

// CommentRepository implementation

func (m *CommentRepository) Create(comment *models.Comment) error {
	if err := comment.Validate(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	comment.ID = m.nextID
	m.nextID++
	m.comments[comment.ID] = *comment
	return nil
}

func (m *CommentRepository) GetByID(id int) (*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	comment, exists := m.comments[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return &comment, nil
}

func (m *CommentRepository) ListByPost(postID int) ([]*models.Comment, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	out := []*models.Comment{}
	for _, c := range m.comments {
		if c.PostID == postID {
			c := c
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *CommentRepository) Update(comment *models.Comment) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[comment.ID]; !exists {
		return repositories.ErrNotFound
	}
	m.comments[comment.ID] = *comment
	return nil
}

func (m *CommentRepository) Delete(id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.comments[id]; !exists {
		return repositories.ErrNotFound
	}
	delete(m.comments, id)
	return nil
}

// Len reports how many comments are stored
func (m *CommentRepository) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.comments)
}

func (m *CommentRepository) deleteByPost(postID int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	for id, c := range m.comments {
		if c.PostID == postID {
			delete(m.comments, id)
		}
	}
}

// UserRepository implementation

func (m *UserRepository) Create(user *models.User) error {
	if err := user.Validate(); err != nil {
		return err
	}
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, u := range m.users {
		if u.NormalizedUsername() == user.NormalizedUsername() {
			return &repositories.ConstraintError{Field: "username", Value: user.Username, Reason: repositories.ReasonDuplicate}
		}
		if u.NormalizedEmail() == user.NormalizedEmail() {
			return &repositories.ConstraintError{Field: "email", Value: user.Email, Reason: repositories.ReasonDuplicate}
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = *user
	return nil
}

func (m *UserRepository) GetByID(id int) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return &user, nil
}

func (m *UserRepository) GetByUsername(username string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	want := strings.ToLower(strings.TrimSpace(username))
	for _, u := range m.users {
		if u.NormalizedUsername() == want {
			u := u
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *UserRepository) List() ([]*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	out := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NormalizedUsername() < out[j].NormalizedUsername() })
	return out, nil
}

// SessionRepository implementation. Expiry is checked by the caller's clock
// in the Badger store; here sessions live until deleted.

func (m *SessionRepository) Create(session *models.Session) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.sessions[session.Token] = *session
	return nil
}

func (m *SessionRepository) Get(token string) (*models.Session, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	s, exists := m.sessions[token]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return &s, nil
}

func (m *SessionRepository) Delete(token string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.sessions, token)
	return nil
}
