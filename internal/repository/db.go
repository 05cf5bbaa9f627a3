package repository

import (
	"fmt"
	"sync"

	"github.com/debemdeboas/scribe/internal/db"
	"github.com/debemdeboas/scribe/internal/model"
	"github.com/debemdeboas/scribe/internal/util"
	"github.com/debemdeboas/scribe/internal/util/compression"
)

// DBPostRepository keeps posts in a SQL database. Paired with db.MemoryDSN the
// data lives only as long as the process. Titles and content are stored as
// their JSON encoding.
type DBPostRepository struct { // implements PostRepository
	db         db.DB
	compressor compression.Compressor

	notifierMu     sync.RWMutex
	createNotifier func(model.Post)
}

func NewDBPostRepository(db db.DB, compressor compression.Compressor) *DBPostRepository {
	if compressor == nil {
		compressor = compression.ZstdCompressor{}
	}

	return &DBPostRepository{
		db:         db,
		compressor: compressor,
	}
}

func (r *DBPostRepository) SetCreateNotifier(notifier func(model.Post)) {
	r.notifierMu.Lock()
	defer r.notifierMu.Unlock()
	r.createNotifier = notifier
}

func (r *DBPostRepository) ListPosts() ([]model.Post, error) {
	rows, err := r.db.Query(`SELECT id, title, content, md_content_hash FROM posts ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("error querying posts: %w", err)
	}
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		var post model.Post
		var title string
		var compressed []byte
		var hash string

		if err := rows.Scan(&post.ID, &title, &compressed, &hash); err != nil {
			return nil, fmt.Errorf("error scanning post: %w", err)
		}

		if util.ContentHash(compressed) != hash {
			return nil, fmt.Errorf("content hash mismatch for post %d", post.ID)
		}

		content, err := r.decompress(compressed)
		if err != nil {
			return nil, fmt.Errorf("error decompressing content: %w", err)
		}
		post.Title = model.RawValue([]byte(title))
		post.Content = model.RawValue(content)

		posts = append(posts, post)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}

	return posts, nil
}

func (r *DBPostRepository) CreatePost(title, content model.Value) (model.Post, error) {
	compressed, err := r.compressor.Compress(content.Raw())
	if err != nil {
		return model.Post{}, fmt.Errorf("error compressing content: %w", err)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return model.Post{}, fmt.Errorf("error starting transaction: %w", err)
	}
	defer tx.Rollback()

	var count int
	if err := tx.QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return model.Post{}, fmt.Errorf("error counting posts: %w", err)
	}

	post := model.Post{
		ID:      model.PostID(count + 1),
		Title:   title,
		Content: content,
	}

	res, err := tx.Exec(
		`INSERT INTO posts (id, title, content, md_content_hash) VALUES (?, ?, ?, ?)`,
		post.ID, string(post.Title.Raw()), compressed, util.ContentHash(compressed),
	)
	if err != nil {
		return model.Post{}, fmt.Errorf("error saving post: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return model.Post{}, fmt.Errorf("error committing post: %w", err)
	}

	repoLogger.Debug().Interface("result", res).Int("post_id", int(post.ID)).Msg("Post saved")

	r.notifierMu.RLock()
	notifier := r.createNotifier
	r.notifierMu.RUnlock()
	if notifier != nil {
		notifier(post)
	}

	return post, nil
}

func (r *DBPostRepository) Count() int {
	var count int
	if err := r.db.Get().QueryRow(`SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		repoLogger.Error().Err(err).Msg("Error counting posts")
		return 0
	}
	return count
}

func (r *DBPostRepository) decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return []byte{}, nil
	}
	return r.compressor.Decompress(data)
}
