// Package storetest provides an in-memory stand-in for the PostgreSQL
// repositories, for tests that exercise services and handlers.
package storetest

import (
	"context"
	"sort"
	"sync"

	"photogram-backend/internal/models"
	"photogram-backend/internal/repository"

	"github.com/jackc/pgx/v5/pgconn"
)

type pair struct{ a, b int64 }

// Memory holds users, posts, likes and follows with the same uniqueness
// rules as the SQL schema.
type Memory struct {
	mu      sync.Mutex
	nextID  int64
	users   map[int64]*models.User
	posts   map[int64]*models.Post
	likes   map[pair]bool
	follows map[pair]bool
}

// NewMemory returns an empty store
func NewMemory() *Memory {
	return &Memory{
		users:   map[int64]*models.User{},
		posts:   map[int64]*models.Post{},
		likes:   map[pair]bool{},
		follows: map[pair]bool{},
	}
}

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

// Users exposes the user store
func (m *Memory) Users() *Users { return &Users{m} }

// Posts exposes the post store
func (m *Memory) Posts() *Posts { return &Posts{m} }

// Likes exposes the like store
func (m *Memory) Likes() *Likes { return &Likes{m} }

// Follows exposes the follow store
func (m *Memory) Follows() *Follows { return &Follows{m} }

// LikeRows counts stored like rows for a pair
func (m *Memory) LikeRows(postID, userID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.likes[pair{postID, userID}] {
		return 1
	}
	return 0
}

// FollowRows counts stored follow rows for a pair
func (m *Memory) FollowRows(followerID, userID int64) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.follows[pair{followerID, userID}] {
		return 1
	}
	return 0
}

// Users implements the user store
type Users struct{ m *Memory }

func (u *Users) Create(ctx context.Context, user *models.User) error {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	for _, existing := range u.m.users {
		if existing.Email == user.Email {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		}
		if existing.Username == user.Username {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}
		}
	}
	user.ID = u.m.id()
	stored := *user
	u.m.users[user.ID] = &stored
	return nil
}

func (u *Users) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	user, ok := u.m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (u *Users) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	for _, user := range u.m.users {
		if user.Username == username {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (u *Users) EmailExists(ctx context.Context, email string) (bool, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	for _, user := range u.m.users {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (u *Users) UsernameExists(ctx context.Context, username string) (bool, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	for _, user := range u.m.users {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (u *Users) Exists(ctx context.Context, id int64) (bool, error) {
	u.m.mu.Lock()
	defer u.m.mu.Unlock()
	_, ok := u.m.users[id]
	return ok, nil
}

// Posts implements the post store
type Posts struct{ m *Memory }

func (p *Posts) Create(ctx context.Context, post *models.Post) error {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	post.ID = p.m.id()
	stored := *post
	p.m.posts[post.ID] = &stored
	return nil
}

func (p *Posts) sorted() []*models.Post {
	out := make([]*models.Post, 0, len(p.m.posts))
	for _, post := range p.m.posts {
		cp := *post
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (p *Posts) ListByUser(ctx context.Context, userID int64) ([]*models.Post, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	var out []*models.Post
	for _, post := range p.sorted() {
		if post.UserID == userID {
			out = append(out, post)
		}
	}
	return out, nil
}

func (p *Posts) ListFeed(ctx context.Context) ([]*models.FeedEntry, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	var out []*models.FeedEntry
	for _, post := range p.sorted() {
		entry := &models.FeedEntry{Post: *post}
		if u, ok := p.m.users[post.UserID]; ok {
			entry.Username = u.Username
		}
		for k := range p.m.likes {
			if k.a == post.ID {
				entry.Likes++
			}
		}
		out = append(out, entry)
	}
	return out, nil
}

func (p *Posts) Exists(ctx context.Context, id int64) (bool, error) {
	p.m.mu.Lock()
	defer p.m.mu.Unlock()
	_, ok := p.m.posts[id]
	return ok, nil
}

// Likes implements the like store
type Likes struct{ m *Memory }

func (l *Likes) Toggle(ctx context.Context, postID, userID int64) (bool, error) {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	k := pair{postID, userID}
	if l.m.likes[k] {
		delete(l.m.likes, k)
		return false, nil
	}
	l.m.likes[k] = true
	return true, nil
}

func (l *Likes) CountByPost(ctx context.Context, postID int64) (int64, error) {
	l.m.mu.Lock()
	defer l.m.mu.Unlock()
	var n int64
	for k := range l.m.likes {
		if k.a == postID {
			n++
		}
	}
	return n, nil
}

// Follows implements the follow store
type Follows struct{ m *Memory }

func (f *Follows) Toggle(ctx context.Context, followerID, userID int64) (bool, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	k := pair{followerID, userID}
	if f.m.follows[k] {
		delete(f.m.follows, k)
		return false, nil
	}
	f.m.follows[k] = true
	return true, nil
}

func (f *Follows) CountFollowers(ctx context.Context, userID int64) (int64, error) {
	f.m.mu.Lock()
	defer f.m.mu.Unlock()
	var n int64
	for k := range f.m.follows {
		if k.b == userID {
			n++
		}
	}
	return n, nil
}
