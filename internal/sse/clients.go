// Package sse keeps the set of connected server-sent event clients.
package sse

import (
	"sync"
)

type Event struct {
	Name string
	Data string
}

type Client struct {
	Msg chan Event
}

func NewClient(buffer int) *Client {
	return &Client{Msg: make(chan Event, buffer)}
}

type Clients struct {
	clients map[*Client]bool
	mu      sync.RWMutex
}

func NewClients() *Clients {
	return &Clients{
		clients: make(map[*Client]bool),
	}
}

func (s *Clients) Add(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[client] = true
}

func (s *Clients) Delete(client *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[client]; !ok {
		return
	}
	delete(s.clients, client)
	close(client.Msg)
}

func (s *Clients) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// Broadcast sends ev to every client. Clients whose buffer is full miss the event.
func (s *Clients) Broadcast(ev Event) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	delivered := 0
	for client := range s.clients {
		select {
		case client.Msg <- ev:
			delivered++
		default:
		}
	}
	return delivered
}
