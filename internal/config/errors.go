package config

const (
	// Request errors
	ErrInvalidData          = "Invalid data"
	ErrInternalServerError  = "Internal server error"
	ErrStreamingUnsupported = "Streaming unsupported"

	// Startup errors
	ErrLoadConfig      = "Error loading config"
	ErrInitializeStore = "Error initializing post store"
	ErrListPosts       = "Error listing posts"
	ErrCreatePost      = "Error creating post"
)
