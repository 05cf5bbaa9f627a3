package repository

import (
	"sync"

	"github.com/debemdeboas/scribe/internal/model"
)

type MemoryPostRepository struct { // implements PostRepository
	mu    sync.RWMutex
	posts []model.Post

	createNotifier func(model.Post)
}

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{
		posts: make([]model.Post, 0),
	}
}

func (r *MemoryPostRepository) SetCreateNotifier(notifier func(model.Post)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createNotifier = notifier
}

func (r *MemoryPostRepository) ListPosts() ([]model.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	posts := make([]model.Post, len(r.posts))
	copy(posts, r.posts)
	return posts, nil
}

func (r *MemoryPostRepository) CreatePost(title, content model.Value) (model.Post, error) {
	r.mu.Lock()
	post := model.Post{
		ID:      model.PostID(len(r.posts) + 1),
		Title:   title,
		Content: content,
	}
	r.posts = append(r.posts, post)
	notifier := r.createNotifier
	r.mu.Unlock()

	repoLogger.Debug().
		Int("post_id", int(post.ID)).
		Str("title", post.Title.String()).
		Msg("Post created")

	if notifier != nil {
		notifier(post)
	}

	return post, nil
}

func (r *MemoryPostRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.posts)
}
