package config

const (
	HCType        = "Content-Type"
	HETag         = "ETag"
	HCacheControl = "Cache-Control"
	HRequestID    = "X-Request-ID"

	CTypeCSS         = "text/css"
	CTypeHTML        = "text/html; charset=utf-8"
	CTypeJSON        = "application/json"
	CTypeText        = "text/plain; charset=utf-8"
	CTypeEventStream = "text/event-stream"
)

const (
	// EventPostCreated is the server-sent event name pushed after a post is created.
	EventPostCreated = "post-created"
)
