// Package handler adapts HTTP requests to post store operations.
package handler

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/debemdeboas/scribe/internal/config"
	"github.com/debemdeboas/scribe/internal/model"
	"github.com/debemdeboas/scribe/internal/render"
	"github.com/debemdeboas/scribe/internal/repository"
	"github.com/debemdeboas/scribe/internal/routes"
	"github.com/debemdeboas/scribe/internal/sse"
)

type Handler struct {
	repo     repository.PostRepository
	clients  *sse.Clients
	renderer *render.Renderer
	tmpl     *template.Template

	site         config.SiteConfig
	maxBodyBytes int64
}

// NewHandler parses the page templates from templates and wires the handler
// to repo. Created posts are broadcast to clients.
func NewHandler(
	repo repository.PostRepository,
	clients *sse.Clients,
	renderer *render.Renderer,
	templates fs.FS,
	cfg *config.Config,
) (*Handler, error) {
	tmpl, err := template.ParseFS(templates,
		config.TemplatesLocalDir+"/"+config.TemplateLayout,
		config.TemplatesLocalDir+"/"+config.TemplateIndex,
	)
	if err != nil {
		return nil, fmt.Errorf("error parsing templates: %w", err)
	}

	h := &Handler{
		repo:         repo,
		clients:      clients,
		renderer:     renderer,
		tmpl:         tmpl,
		site:         cfg.Site,
		maxBodyBytes: int64(cfg.Server.MaxBodyBytes),
	}

	repo.SetCreateNotifier(h.notifyPostCreated)

	return h, nil
}

// Register adds the handler's routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc(routes.ListPosts, h.ListPosts)
	mux.HandleFunc(routes.CreatePost, h.CreatePost)
	mux.HandleFunc(routes.Index, h.ServeIndex)
	mux.HandleFunc(routes.Events, h.Events)
}

func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.repo.ListPosts()
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg(config.ErrListPosts)
		writeJSON(w, r, http.StatusInternalServerError, model.ErrorResponse{Error: config.ErrInternalServerError})
		return
	}

	writeJSON(w, r, http.StatusOK, posts)
}

func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	log := hlog.FromRequest(r)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		log.Warn().Err(err).Msg("Error reading request body")
		writeJSON(w, r, http.StatusBadRequest, model.ErrorResponse{Error: config.ErrInvalidData})
		return
	}

	req, err := model.DecodeCreatePostRequest(body)
	if err != nil {
		log.Debug().Err(err).Int("body_bytes", len(body)).Msg("Rejected create request")
		writeJSON(w, r, http.StatusBadRequest, model.ErrorResponse{Error: config.ErrInvalidData})
		return
	}

	post, err := h.repo.CreatePost(req.Title, req.Content)
	if err != nil {
		log.Error().Err(err).Msg(config.ErrCreatePost)
		writeJSON(w, r, http.StatusInternalServerError, model.ErrorResponse{Error: config.ErrInternalServerError})
		return
	}

	log.Info().Int("post_id", int(post.ID)).Str("title", post.Title.String()).Msg("Post created")

	writeJSON(w, r, http.StatusCreated, post)
}

type indexPost struct {
	model.Post
	Title string
	HTML  template.HTML
}

func (h *Handler) ServeIndex(w http.ResponseWriter, r *http.Request) {
	posts, err := h.repo.ListPosts()
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg(config.ErrListPosts)
		http.Error(w, config.ErrInternalServerError, http.StatusInternalServerError)
		return
	}

	rendered := make([]indexPost, 0, len(posts))
	// Newest first on the page.
	for i := len(posts) - 1; i >= 0; i-- {
		rendered = append(rendered, indexPost{
			Post:  posts[i],
			Title: posts[i].Title.String(),
			HTML:  h.renderer.Post(posts[i].Content.String()),
		})
	}

	data := struct {
		Site      config.SiteConfig
		SyntaxCSS template.CSS
		PostsPath string
		Posts     []indexPost
	}{
		Site:      h.site,
		SyntaxCSS: h.renderer.SyntaxCSS(),
		PostsPath: routes.PostsPath,
		Posts:     rendered,
	}

	w.Header().Set(config.HCType, config.CTypeHTML)
	if err := h.tmpl.ExecuteTemplate(w, config.TemplateLayout, data); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Error executing template")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Events streams a post-created event for every post created while the client
// is connected.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, config.ErrStreamingUnsupported, http.StatusInternalServerError)
		return
	}

	w.Header().Set(config.HCType, config.CTypeEventStream)
	w.Header().Set(config.HCacheControl, "no-cache")
	w.Header().Set("Connection", "keep-alive")

	client := sse.NewClient(16)
	h.clients.Add(client)

	fmt.Fprintf(w, "event: connected\ndata: SSE connection established\n\n")
	flusher.Flush()

	log := hlog.FromRequest(r)
	log.Debug().Int("clients", h.clients.Len()).Msg("New SSE client connected")

	defer func() {
		h.clients.Delete(client)
		log.Debug().Msg("SSE client disconnected")
	}()

	notify := r.Context().Done()
	for {
		select {
		case ev := <-client.Msg:
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Name, ev.Data)
			flusher.Flush()
		case <-notify:
			return
		}
	}
}

func (h *Handler) notifyPostCreated(post model.Post) {
	data, err := json.Marshal(post)
	if err != nil {
		return
	}
	h.clients.Broadcast(sse.Event{Name: config.EventPostCreated, Data: string(data)})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set(config.HCType, config.CTypeJSON)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Error encoding response")
	}
}
