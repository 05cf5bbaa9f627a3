// Package util provides content hashing and markdown front matter parsing.
package util

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/gomarkdown/markdown"
)

var ErrNoFrontMatter = errors.New("no front matter")

var frontMatterDelimiter = []byte("%%%")

// FrontMatter is the TOML block between %%% delimiters at the top of a post.
type FrontMatter struct {
	Title string    `toml:"title"`
	Date  time.Time `toml:"date"`
	Tags  []string  `toml:"tags"`
}

func ContentHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

func ContentHashString(content string) string {
	return ContentHash([]byte(content))
}

// SplitFrontMatter separates the front matter from the markdown body.
// Leading whitespace is ignored; anything else before the opening delimiter
// means there is no front matter.
func SplitFrontMatter(md []byte) (*FrontMatter, []byte, error) {
	md = markdown.NormalizeNewlines(md)
	md = bytes.TrimLeft(md, "\n \t\r")

	if !bytes.HasPrefix(md, frontMatterDelimiter) {
		return nil, nil, ErrNoFrontMatter
	}

	rest := md[len(frontMatterDelimiter):]
	end := bytes.Index(rest, frontMatterDelimiter)
	if end == -1 {
		return nil, nil, fmt.Errorf("unterminated front matter: %w", ErrNoFrontMatter)
	}

	fm := &FrontMatter{}
	if _, err := toml.Decode(string(rest[:end]), fm); err != nil {
		return nil, nil, fmt.Errorf("failed to decode front matter: %w", err)
	}

	body := bytes.TrimLeft(rest[end+len(frontMatterDelimiter):], "\n")
	return fm, body, nil
}
