// Package routes defines HTTP route patterns for the application.
package routes

const (
	PostsPath  = "/posts"
	EventsPath = "/events"
)

const (
	Robots = "GET /robots.txt"
	Static = "GET /static/"
	Index  = "GET /{$}"

	ListPosts  = "GET " + PostsPath
	CreatePost = "POST " + PostsPath

	// SSE
	Events = "GET " + EventsPath
)
