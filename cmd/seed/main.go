package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/debemdeboas/scribe/internal/config"
	"github.com/debemdeboas/scribe/internal/model"
	"github.com/debemdeboas/scribe/internal/routes"
	"github.com/debemdeboas/scribe/internal/util"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	nameStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

type seedPost struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// main posts every markdown file in a directory to a running server.
func main() {
	path := flag.String("path", "", "Path to the directory containing .md files")
	server := flag.String("server", "http://localhost:"+config.DefaultServerPort, "Base URL of the server")
	flag.Parse()

	if *path == "" {
		fmt.Fprintln(os.Stderr, "The --path flag is required")
		os.Exit(2)
	}

	files, err := os.ReadDir(*path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading directory %s: %v\n", *path, err)
		os.Exit(1)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	failed := 0

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), ".md") {
			continue
		}

		created, err := seedFile(client, *server, filepath.Join(*path, file.Name()))
		if err != nil {
			failed++
			fmt.Printf("%s %s: %v\n", failStyle.Render("FAIL"), nameStyle.Render(file.Name()), err)
			continue
		}
		fmt.Printf("%s %s -> post %d %q\n", okStyle.Render(" OK "), nameStyle.Render(file.Name()), created.ID, created.Title.String())
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func seedFile(client *http.Client, server, filePath string) (model.Post, error) {
	post, err := readPost(filePath)
	if err != nil {
		return model.Post{}, err
	}
	return createPost(client, server, post)
}

// readPost builds a post from a markdown file. The title comes from the front
// matter, or from the file name when there is none.
func readPost(filePath string) (seedPost, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return seedPost{}, err
	}

	post := seedPost{
		Title:   strings.TrimSuffix(filepath.Base(filePath), ".md"),
		Content: string(data),
	}

	fm, body, err := util.SplitFrontMatter(data)
	switch {
	case errors.Is(err, util.ErrNoFrontMatter):
		return post, nil
	case err != nil:
		return seedPost{}, err
	}

	if fm.Title != "" {
		post.Title = fm.Title
	}
	post.Content = string(body)
	return post, nil
}

func createPost(client *http.Client, server string, post seedPost) (model.Post, error) {
	payload, err := json.Marshal(post)
	if err != nil {
		return model.Post{}, err
	}

	url := strings.TrimSuffix(server, "/") + routes.PostsPath
	res, err := client.Post(url, config.CTypeJSON, bytes.NewReader(payload))
	if err != nil {
		return model.Post{}, err
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return model.Post{}, err
	}

	if res.StatusCode != http.StatusCreated {
		var e model.ErrorResponse
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return model.Post{}, fmt.Errorf("server returned %d: %s", res.StatusCode, e.Error)
		}
		return model.Post{}, fmt.Errorf("server returned %d", res.StatusCode)
	}

	var created model.Post
	if err := json.Unmarshal(body, &created); err != nil {
		return model.Post{}, fmt.Errorf("failed to decode created post: %w", err)
	}
	return created, nil
}
