package webapi

import (
	"bytes"
	"context"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/kiryu-dev/tetris/internal/domain"
	"github.com/pkg/errors"
)

const (
	clientTimeout       = 5 * time.Second
	submitEndpoint      = "/results"
	healthCheckEndpoint = "/health"
)

type repository struct {
	cli *http.Client
}

func New() repository {
	return repository{
		cli: &http.Client{Timeout: clientTimeout},
	}
}

func (r repository) Submit(ctx context.Context, addr string, result domain.GameResult) error {
	body, err := jsoniter.Marshal(result)
	if err != nil {
		return errors.WithMessage(err, "marshal json body")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, addr+submitEndpoint, bytes.NewReader(body))
	if err != nil {
		return errors.WithMessage(err, "new post request")
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.cli.Do(req)
	if err != nil {
		return errors.WithMessagef(err, "call http endpoint '%s'", submitEndpoint)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return errors.Errorf("unexpected response status '%s'", resp.Status)
	}
	return nil
}

func (r repository) HealthCheck(ctx context.Context, addr string) (*domain.HealthCheckResponse, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, addr+healthCheckEndpoint, nil)
	if err != nil {
		return nil, errors.WithMessage(err, "new get request")
	}
	resp, err := r.cli.Do(request)
	if err != nil {
		return nil, errors.WithMessagef(err, "call http endpoint '%s'", healthCheckEndpoint)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("unexpected response status '%s'", resp.Status)
	}
	result := new(domain.HealthCheckResponse)
	if err := jsoniter.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, errors.WithMessage(err, "decode json response body")
	}
	return result, nil
}
