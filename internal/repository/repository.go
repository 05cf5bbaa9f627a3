// Package repository holds the post store: an append-only, process-local
// collection of posts with interchangeable backends.
package repository

import (
	"github.com/rs/zerolog"

	"github.com/debemdeboas/scribe/internal/model"
)

type PostRepository interface {
	// ListPosts returns every post in creation order. The slice is never nil.
	ListPosts() ([]model.Post, error)

	// CreatePost appends a post with ID = Count()+1 and returns it. Title and
	// content are stored as given.
	CreatePost(title, content model.Value) (model.Post, error)

	Count() int

	// SetCreateNotifier sets a function that will be called after each post is created.
	SetCreateNotifier(notifier func(model.Post))
}

var repoLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	repoLogger = l
}
