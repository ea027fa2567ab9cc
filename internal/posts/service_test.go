package posts

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blog-backend/internal/auth"
	"blog-backend/internal/db"
	"blog-backend/internal/types"
	"blog-backend/pkg/utils/markdown"
)

// memStore mimics the gateway: owner-scoped writes, newest-first reads.
type memStore struct {
	users  map[int64]string
	posts  map[int64]db.Post
	nextID int64
	clock  time.Time
	err    error
}

func newMemStore(users ...auth.Identity) *memStore {
	m := &memStore{
		users:  map[int64]string{},
		posts:  map[int64]db.Post{},
		nextID: 1,
		clock:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, u := range users {
		m.users[u.ID] = u.Username
	}
	return m
}

func (m *memStore) sorted(keep func(db.Post) bool) []*db.Post {
	out := []*db.Post{}
	for _, p := range m.posts {
		if keep(p) {
			p := p
			p.Username = m.users[p.UserId]
			out = append(out, &p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Id > out[j].Id
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (m *memStore) ListPosts(ctx context.Context) ([]*db.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(db.Post) bool { return true }), nil
}

func (m *memStore) ListPostsByUser(ctx context.Context, userID int64) ([]*db.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(func(p db.Post) bool { return p.UserId == userID }), nil
}

func (m *memStore) GetPost(ctx context.Context, postID int64) (*db.Post, error) {
	if m.err != nil {
		return nil, m.err
	}
	p, ok := m.posts[postID]
	if !ok {
		return nil, db.ErrNotFound
	}
	p.Username = m.users[p.UserId]
	return &p, nil
}

func (m *memStore) CreatePost(ctx context.Context, userID int64, title, content string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.clock = m.clock.Add(time.Second)
	id := m.nextID
	m.nextID++
	m.posts[id] = db.Post{Id: id, Title: title, Content: content, UserId: userID, CreatedAt: m.clock}
	return id, nil
}

func (m *memStore) UpdatePost(ctx context.Context, postID, userID int64, title, content string) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	p, ok := m.posts[postID]
	if !ok || p.UserId != userID {
		return 0, nil
	}
	p.Title, p.Content = title, content
	m.posts[postID] = p
	return 1, nil
}

func (m *memStore) DeletePost(ctx context.Context, postID, userID int64) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	p, ok := m.posts[postID]
	if !ok || p.UserId != userID {
		return 0, nil
	}
	delete(m.posts, postID)
	return 1, nil
}

var (
	alice = auth.Identity{ID: 1, Username: "alice"}
	bob   = auth.Identity{ID: 2, Username: "bob"}
)

func TestCreateThenGet(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore(alice, bob))

	id, err := svc.Create(ctx, alice, Input{Title: "Hello", Content: "World"})
	require.NoError(t, err)

	post, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, "World", post.Content)
	assert.Equal(t, alice.Username, post.Username)
	assert.Equal(t, alice.ID, post.UserId)
	assert.Contains(t, post.ContentHTML, "<p>World</p>")
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore(alice))

	tests := []struct {
		name string
		in   Input
	}{
		{"empty title", Input{Content: "World"}},
		{"empty content", Input{Title: "Hello"}},
		{"both empty", Input{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, alice, tt.in)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, types.KindValidation, types.KindOf(err))

			all, err := svc.ListAll(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestNonOwnerCannotModify(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore(alice, bob))

	id, err := svc.Create(ctx, alice, Input{Title: "Hello", Content: "World"})
	require.NoError(t, err)

	err = svc.Update(ctx, bob, id, Input{Title: "X", Content: "Y"})
	assert.Equal(t, types.KindForbidden, types.KindOf(err))

	err = svc.Delete(ctx, bob, id)
	assert.Equal(t, types.KindForbidden, types.KindOf(err))

	post, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Hello", post.Title)
	assert.Equal(t, "World", post.Content)
}

func TestOwnerUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore(alice))

	id, err := svc.Create(ctx, alice, Input{Title: "Hello", Content: "World"})
	require.NoError(t, err)

	require.NoError(t, svc.Update(ctx, alice, id, Input{Title: "X", Content: "Y"}))
	post, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "X", post.Title)

	err = svc.Update(ctx, alice, id, Input{Title: "", Content: "Y"})
	assert.Equal(t, types.KindValidation, types.KindOf(err))

	require.NoError(t, svc.Delete(ctx, alice, id))
	assert.ErrorIs(t, svc.Delete(ctx, alice, id), ErrForbidden)
	assert.ErrorIs(t, svc.Update(ctx, alice, id, Input{Title: "X", Content: "Y"}), ErrForbidden)

	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetMissing(t *testing.T) {
	_, err := NewService(newMemStore()).Get(context.Background(), 99)
	assert.Equal(t, types.KindNotFound, types.KindOf(err))
}

func TestListAllNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore(alice, bob))

	first, err := svc.Create(ctx, alice, Input{Title: "t1", Content: "c"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, bob, Input{Title: "t2", Content: "c"})
	require.NoError(t, err)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second, all[0].Id)
	assert.Equal(t, first, all[1].Id)
}

func TestListOwnOnlyReturnsCallerPosts(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore(alice, bob))

	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, alice, Input{Title: "a", Content: "c"})
		require.NoError(t, err)
		_, err = svc.Create(ctx, bob, Input{Title: "b", Content: "c"})
		require.NoError(t, err)
	}

	own, err := svc.ListOwn(ctx, alice)
	require.NoError(t, err)
	require.Len(t, own, 3)
	for _, p := range own {
		assert.Equal(t, alice.ID, p.UserId)
		assert.Equal(t, "alice", p.Username)
	}

	none, err := svc.ListOwn(ctx, auth.Identity{ID: 3, Username: "carol"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestPersistenceFailures(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(alice)
	store.err = errors.New("connection refused")
	svc := NewService(store)

	_, err := svc.ListAll(ctx)
	assert.Equal(t, types.KindPersistence, types.KindOf(err))
	_, err = svc.ListOwn(ctx, alice)
	assert.Equal(t, types.KindPersistence, types.KindOf(err))
	_, err = svc.Get(ctx, 1)
	assert.Equal(t, types.KindPersistence, types.KindOf(err))
	_, err = svc.Create(ctx, alice, Input{Title: "a", Content: "b"})
	assert.Equal(t, types.KindPersistence, types.KindOf(err))
	err = svc.Update(ctx, alice, 1, Input{Title: "a", Content: "b"})
	assert.Equal(t, types.KindPersistence, types.KindOf(err))
	err = svc.Delete(ctx, alice, 1)
	assert.Equal(t, types.KindPersistence, types.KindOf(err))
	assert.ErrorIs(t, err, store.err)
}

func TestRenderFailureKeepsPost(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMemStore(alice))
	svc.render = func(string) (string, error) { return "", errors.New("boom") }

	id, err := svc.Create(ctx, alice, Input{Title: "a", Content: "b"})
	require.NoError(t, err)

	post, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, post.ContentHTML)
}

func TestRenderOptions(t *testing.T) {
	ctx := context.Background()
	in := Input{Title: "poem", Content: "roses\nviolets"}

	plain := NewService(newMemStore(alice))
	id, err := plain.Create(ctx, alice, in)
	require.NoError(t, err)
	post, err := plain.Get(ctx, id)
	require.NoError(t, err)
	assert.NotContains(t, post.ContentHTML, "<br>")

	wrapped := NewService(newMemStore(alice), markdown.WithHardWraps())
	id, err = wrapped.Create(ctx, alice, in)
	require.NoError(t, err)
	post, err = wrapped.Get(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, post.ContentHTML, "<br>")
}
