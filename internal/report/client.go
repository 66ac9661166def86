package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/RoGasore/Scola-sub000/internal/config"
	"github.com/RoGasore/Scola-sub000/internal/logger"
	"github.com/RoGasore/Scola-sub000/internal/model"
	apperr "github.com/RoGasore/Scola-sub000/pkg/errors"

	"github.com/rs/zerolog"
)

// Client pushes period-result batches to the education authority.
type Client struct {
	cfg         *config.Config
	httpClient  *http.Client
	authManager *AuthManager
	log         zerolog.Logger
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Authority.Timeout,
		},
		authManager: NewAuthManager(cfg),
		log:         logger.Get(),
	}
}

func (c *Client) SendResultBatch(ctx context.Context, results []model.AuthorityResult) (*model.BatchResponse, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("empty result batch")
	}

	token, err := c.authManager.GetToken(ctx)
	if err != nil {
		return nil, apperr.NewRetryableError(err, "failed to get auth token")
	}

	jsonData, err := json.Marshal(model.ResultBatch{Results: results})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch: %w", err)
	}

	url := c.cfg.Authority.BaseURL + c.cfg.Authority.ResultsEndpoint
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	c.log.Debug().Int("batch_size", len(results)).Msg("Sending result batch to authority")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperr.NewRetryableError(err, "HTTP request failed")
	}
	defer resp.Body.Close()

	var batchResp model.BatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&batchResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		c.log.Debug().Bool("success", batchResp.Success).Msg("Batch sent successfully")
		return &batchResp, nil
	case http.StatusUnauthorized:
		// Token might be expired, retry will refresh it
		return nil, apperr.NewRetryableError(apperr.ErrAuthenticationFailed, "authentication failed")
	case http.StatusBadRequest:
		// Business logic error - don't retry
		return &batchResp, nil
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return nil, apperr.NewRetryableError(apperr.ErrAuthorityUnavailable, "authority unavailable")
	default:
		return nil, apperr.NewRetryableError(fmt.Errorf("HTTP %d", resp.StatusCode), "authority API error")
	}
}
