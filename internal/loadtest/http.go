package loadtest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/okian/wildcat/internal/domain/types"
	"github.com/okian/wildcat/pkg/logger"
)

// client issues JSON requests against the service.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(cfg *Config) *client {
	return &client{http: &http.Client{Timeout: cfg.Timeout}, baseURL: cfg.BaseURL}
}

func (c *client) get(ctx context.Context, path string, out any) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	return c.do(req, out)
}

func (c *client) post(ctx context.Context, path string, body, out any) (int, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return 0, fmt.Errorf("marshal request body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *client) do(req *http.Request, out any) (int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if out != nil && resp.StatusCode < http.StatusBadRequest {
		if err := json.Unmarshal(body, out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}

type submitResult int

const (
	resultAccepted submitResult = iota
	resultDuplicate
	resultFailed
)

// submitHeats posts heats concurrently and returns the heat ID assigned to
// each submission ID.
func submitHeats(ctx context.Context, c *client, workers int, heats []types.HeatRequest, stats *Stats) map[string]string {
	log := logger.Named("loadtest")
	log.Info(ctx, "submitting heats", logger.Int("heats", len(heats)), logger.Int("workers", workers))

	var (
		accepted  int64
		duplicate int64
		failed    int64
		mu        sync.Mutex
		ids       = make(map[string]string, len(heats))
		wg        sync.WaitGroup
	)

	work := make(chan types.HeatRequest, workers*2)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for req := range work {
				id, res := submitOne(ctx, c, req)
				switch res {
				case resultAccepted:
					atomic.AddInt64(&accepted, 1)
				case resultDuplicate:
					atomic.AddInt64(&duplicate, 1)
				case resultFailed:
					atomic.AddInt64(&failed, 1)
					continue
				}
				mu.Lock()
				if prev, ok := ids[req.SubmissionID]; ok && prev != id {
					log.Warn(ctx, "duplicate submission answered with a different heat",
						logger.String("submission", req.SubmissionID), logger.String("first", prev), logger.String("second", id))
				}
				ids[req.SubmissionID] = id
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(work)
		for _, h := range heats {
			select {
			case <-ctx.Done():
				return
			case work <- h:
			}
		}
	}()
	wg.Wait()

	stats.Accepted = int(accepted)
	stats.Duplicate = int(duplicate)
	stats.Failed = int(failed)
	stats.Submitted = stats.Accepted + stats.Duplicate + stats.Failed

	log.Info(ctx, "submission completed",
		logger.Int("accepted", stats.Accepted),
		logger.Int("duplicate", stats.Duplicate),
		logger.Int("failed", stats.Failed))
	return ids
}

func submitOne(ctx context.Context, c *client, req types.HeatRequest) (string, submitResult) {
	var ack types.SubmitResponse
	status, err := c.post(ctx, "/heats", req, &ack)
	if err != nil {
		return "", resultFailed
	}
	switch status {
	case http.StatusAccepted:
		return ack.ID, resultAccepted
	case http.StatusOK:
		return ack.ID, resultDuplicate
	default:
		return "", resultFailed
	}
}
