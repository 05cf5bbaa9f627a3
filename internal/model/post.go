// Package model defines core data structures and types for the blog application.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
)

type PostID int

type Post struct {
	ID      PostID `json:"id"`
	Title   Value  `json:"title"`
	Content Value  `json:"content"`
}

// Value is a post field exactly as the client sent it. Any JSON value is
// accepted and written back unchanged; strings are the usual case.
type Value struct {
	raw string // compact JSON
}

// Text returns the Value for the JSON string s.
func Text(s string) Value {
	b, _ := json.Marshal(s)
	return Value{raw: string(b)}
}

// RawValue wraps an encoded JSON value. Insignificant whitespace is removed.
func RawValue(data []byte) Value {
	var b bytes.Buffer
	if err := json.Compact(&b, data); err != nil {
		return Value{raw: string(data)}
	}
	return Value{raw: b.String()}
}

// Raw returns the JSON encoding of v.
func (v Value) Raw() []byte {
	if v.raw == "" {
		return []byte(`""`)
	}
	return []byte(v.raw)
}

// String returns the text of a JSON string, "" for null, and the JSON
// encoding for anything else.
func (v Value) String() string {
	if v.raw == "" {
		return ""
	}
	var s *string
	if err := json.Unmarshal([]byte(v.raw), &s); err == nil {
		if s == nil {
			return ""
		}
		return *s
	}
	return v.raw
}

func (v Value) MarshalJSON() ([]byte, error) {
	return v.Raw(), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	*v = RawValue(data)
	return nil
}

// ErrInvalidInput is returned when a create request is missing a required key
// or cannot be decoded.
var ErrInvalidInput = errors.New("invalid input")

// CreatePostRequest is the decoded body of a create request.
type CreatePostRequest struct {
	Title   Value
	Content Value
}

// DecodeCreatePostRequest parses a JSON object and checks that both the title
// and content keys are present. Their values are not inspected.
func DecodeCreatePostRequest(body []byte) (*CreatePostRequest, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, ErrInvalidInput
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, ErrInvalidInput
	}

	title, ok := fields["title"]
	if !ok {
		return nil, ErrInvalidInput
	}
	content, ok := fields["content"]
	if !ok {
		return nil, ErrInvalidInput
	}

	return &CreatePostRequest{
		Title:   RawValue(title),
		Content: RawValue(content),
	}, nil
}

// ErrorResponse is the body returned for client and server errors.
type ErrorResponse struct {
	Error string `json:"error"`
}
