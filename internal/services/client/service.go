// Package client talks to a timeshift settings endpoint.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fgeck/timeshift-console/internal/models"
	"github.com/fgeck/timeshift-console/internal/services/endpoint"
	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// Service defines the interface for endpoint operations.
type Service interface {
	Load(ctx context.Context) (models.TimeshiftSettings, error)
	Save(ctx context.Context, values url.Values) error
}

// SaveError is a save rejected by the endpoint. Message is the server's
// errormsg, unmodified.
type SaveError struct {
	Message string
}

func (e *SaveError) Error() string {
	return e.Message
}

// Impl implements Service over HTTP.
type Impl struct {
	http   *resty.Client
	logger zerolog.Logger
}

// New creates a client for the console at cfg.URL.
func New(logger zerolog.Logger, cfg models.ClientConfig) *Impl {
	return NewWithClient(logger, resty.New().SetBaseURL(cfg.URL).SetTimeout(cfg.Timeout))
}

// NewWithClient creates a client with a custom resty client (for testing).
func NewWithClient(logger zerolog.Logger, httpClient *resty.Client) *Impl {
	return &Impl{
		http:   httpClient,
		logger: logger,
	}
}

// loadResponse tells a missing config object apart from a zero-valued one.
type loadResponse struct {
	Config   *models.TimeshiftSettings `json:"config"`
	Success  *bool                     `json:"success"`
	ErrorMsg string                    `json:"errormsg"`
}

// Load fetches the current settings record. A response without a config
// object is an error, so callers never populate a form from a zero record.
func (s *Impl) Load(ctx context.Context) (models.TimeshiftSettings, error) {
	start := time.Now()
	resp, err := s.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{"op": endpoint.OpLoadSettings}).
		Post(endpoint.Path)
	if err != nil {
		return models.TimeshiftSettings{}, fmt.Errorf("loading settings: %w", err)
	}
	if resp.IsError() {
		return models.TimeshiftSettings{}, fmt.Errorf("loading settings: endpoint returned status %d", resp.StatusCode())
	}

	if ct := resp.Header().Get("Content-Type"); !strings.Contains(strings.ToLower(ct), "json") {
		return models.TimeshiftSettings{}, fmt.Errorf("loading settings: unexpected content type %q", ct)
	}

	var body loadResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return models.TimeshiftSettings{}, fmt.Errorf("loading settings: decoding response: %w", err)
	}
	if body.Success != nil && !*body.Success {
		if body.ErrorMsg != "" {
			return models.TimeshiftSettings{}, fmt.Errorf("loading settings: %s", body.ErrorMsg)
		}
		return models.TimeshiftSettings{}, fmt.Errorf("loading settings: endpoint reported failure")
	}
	if body.Config == nil {
		return models.TimeshiftSettings{}, fmt.Errorf("loading settings: response carries no config")
	}

	s.logger.Debug().Dur("duration", time.Since(start)).Msg("settings loaded")
	return *body.Config, nil
}

// Save submits a settings form. A rejected save returns a *SaveError.
func (s *Impl) Save(ctx context.Context, values url.Values) error {
	form := url.Values{}
	for k, v := range values {
		form[k] = v
	}
	form.Set("op", endpoint.OpSaveSettings)

	var body models.SaveResponse

	resp, err := s.http.R().
		SetContext(ctx).
		SetFormDataFromValues(form).
		SetResult(&body).
		SetError(&body).
		Post(endpoint.Path)
	if err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}

	if !body.Success {
		if body.ErrorMsg != "" {
			return &SaveError{Message: body.ErrorMsg}
		}
		return fmt.Errorf("saving settings: endpoint returned status %d", resp.StatusCode())
	}

	s.logger.Debug().Msg("settings saved")
	return nil
}
