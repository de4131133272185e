package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sadopc/apitester/internal/config"
	"github.com/sadopc/apitester/internal/core/history"
	"github.com/sadopc/apitester/internal/core/kv"
	"github.com/sadopc/apitester/internal/core/request"
	"github.com/sadopc/apitester/internal/core/state"
	httpclient "github.com/sadopc/apitester/internal/protocol/http"
)

// session wires the configured storage and transport into a state store.
type session struct {
	store   *state.Store
	client  *httpclient.Client
	history *history.Store
}

func openSession(cfg config.Config) (*session, error) {
	backend, err := kv.Open(cfg.HistoryBackend, cfg.StoragePath())
	if err != nil {
		// History is a convenience; keep working without persistence.
		log.Printf("history storage unavailable, using memory: %v", err)
		backend = kv.NewMemory()
	}

	client, err := newClient(cfg)
	if err != nil {
		backend.Close()
		return nil, err
	}

	hist := history.NewStore(backend)
	store := state.NewStore(client, hist, state.WithDropStaleResponses(cfg.DropStaleResponses))
	return &session{store: store, client: client, history: hist}, nil
}

func newClient(cfg config.Config) (*httpclient.Client, error) {
	client := httpclient.New()
	if cfg.DefaultTimeout > 0 {
		client.SetTimeout(cfg.DefaultTimeout)
	}
	if cfg.Proxy != "" {
		client.SetProxy(cfg.Proxy, cfg.NoProxy)
	}
	tlsCfg, err := cfg.TLS.BuildTLSConfig()
	if err != nil {
		return nil, fmt.Errorf("tls config: %w", err)
	}
	if tlsCfg != nil {
		client.SetTLSConfig(tlsCfg)
	}
	return client, nil
}

var errNoURL = errors.New("request has no URL")

// dispatch sends the store's current request, recording it in the history,
// and waits for the response.
func (s *session) dispatch(ctx context.Context) (request.Response, error) {
	done := s.store.Send(ctx)
	if done == nil {
		return request.Response{}, errNoURL
	}
	return <-done, nil
}

func (s *session) Close() {
	if err := s.history.Close(); err != nil {
		log.Printf("closing history: %v", err)
	}
}
