package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"finquest-be/internal/pkg/logger"
	"finquest-be/pkg/realtime"
)

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

type apiClient struct {
	baseURL string
	token   string
	http    *http.Client
}

func (c *apiClient) do(ctx context.Context, method, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e envelope[json.RawMessage]
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%s %s: %d %s", method, path, resp.StatusCode, e.Message)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func get[T any](c *apiClient, path string) realtime.Fetcher {
	return func(ctx context.Context) (any, error) {
		var env envelope[T]
		if err := c.do(ctx, http.MethodGet, path, nil, &env); err != nil {
			return nil, err
		}
		return env.Data, nil
	}
}

// printer re-renders the cache after every frame the reconciler handles.
type printer struct {
	reconciler *realtime.Reconciler
	cache      *realtime.MemoryCache
	fetchers   map[string]realtime.Fetcher
}

func (p *printer) HandleFrame(data []byte) {
	p.reconciler.HandleFrame(data)
	fmt.Printf("<- %s\n", data)
	p.render(context.Background())
}

func (p *printer) render(ctx context.Context) {
	for _, key := range realtime.Keys {
		v, err := p.cache.Fetch(ctx, key, p.fetchers[key])
		if err != nil {
			log.Printf("fetch %s: %v", key, err)
			continue
		}
		out, _ := json.Marshal(v)
		fmt.Printf("   %-8s %s\n", key, out)
	}
}

func main() {
	baseURL := flag.String("api", "http://localhost:4000", "API base URL")
	email := flag.String("email", os.Getenv("FINQUEST_EMAIL"), "account email")
	password := flag.String("password", os.Getenv("FINQUEST_PASSWORD"), "account password")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := &apiClient{baseURL: strings.TrimRight(*baseURL, "/"), http: &http.Client{}}

	var auth envelope[struct {
		Token string `json:"token"`
	}]
	if err := client.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    *email,
		"password": *password,
	}, &auth); err != nil {
		log.Fatalf("login failed: %v", err)
	}
	client.token = auth.Data.Token

	cache := realtime.NewMemoryCache()
	p := &printer{
		reconciler: realtime.NewReconciler(cache, logger.NewNopLogger()),
		cache:      cache,
		fetchers: map[string]realtime.Fetcher{
			realtime.KeyStats:   get[realtime.Stats](client, "/api/users/me/stats"),
			realtime.KeyLessons: get[[]realtime.Lesson](client, "/api/lessons"),
			realtime.KeyTrades:  get[[]realtime.Trade](client, "/api/trades"),
			realtime.KeyMe:      get[realtime.Profile](client, "/api/auth/me"),
		},
	}
	p.render(ctx)

	consumer := realtime.NewConsumer(client.baseURL, client.token, p, cache,
		logger.NewZapLogger("logs/watch.log", false),
		realtime.WithHTTPClient(client.http),
	)
	if err := consumer.Run(ctx); err != nil {
		log.Fatalf("stream: %v", err)
	}
}
