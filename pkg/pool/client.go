// Package pool implements the client for the external privacy-pool
// provider: address derivation, shield/unshield submission, operation
// status queries and shielded balance reads.
package pool

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	apperrors "github.com/mmchougule/private-position-ee/pkg/app/errors"
	"github.com/mmchougule/private-position-ee/pkg/privacy"
)

const defaultRequestTimeout = 30 * time.Second

// Config contains the configuration required to reach the pool provider.
type Config struct {
	BaseURL        string
	RequestTimeout time.Duration
}

func (c *Config) validate() error {
	if c == nil {
		return errors.New("nil config")
	}
	if c.BaseURL == "" {
		return errors.New("base_url is required")
	}
	if _, err := url.Parse(c.BaseURL); err != nil {
		return fmt.Errorf("invalid base_url: %w", err)
	}
	return nil
}

// Client is an HTTP client for the privacy-pool provider.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new pool provider client.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("pool client config: %w", err)
	}

	s := applyOptions(opts)
	if s.httpClient == nil {
		timeout := cfg.RequestTimeout
		if timeout <= 0 {
			timeout = defaultRequestTimeout
		}
		s.httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: s.httpClient,
		logger:     s.logger,
	}, nil
}

// DeriveAddress asks the provider to derive the incognito address for a
// main wallet identity on the given network.
func (c *Client) DeriveAddress(ctx context.Context, publicAddress string, networkID uint64) (string, error) {
	if err := privacy.ValidateAddress(publicAddress); err != nil {
		return "", err
	}

	var resp deriveAddressResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/addresses/derive", deriveAddressRequest{
		PublicAddress: publicAddress,
		NetworkID:     networkID,
	}, &resp)
	if err != nil {
		return "", err
	}

	if err := privacy.ValidateAddress(resp.Address); err != nil {
		return "", apperrors.DependencyFailure(err, "provider returned malformed derived address")
	}
	return resp.Address, nil
}

// Shield submits a request to move value from a public address into the
// shielded pool. It validates inputs before any external call and does not
// wait for confirmation.
func (c *Client) Shield(ctx context.Context, req privacy.ShieldRequest) (*privacy.Operation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp operationResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/shield", shieldRequest{
		Source:    req.Source,
		Token:     req.Token,
		Amount:    req.Amount,
		NetworkID: req.NetworkID,
	}, &resp)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Shield submitted",
		zap.String("operation_ref", resp.OperationRef),
		zap.String("token", req.Token),
		zap.String("amount", req.Amount))

	return &privacy.Operation{
		Ref:         resp.OperationRef,
		Kind:        privacy.KindShield,
		Token:       req.Token,
		Amount:      req.Amount,
		Source:      req.Source,
		NetworkID:   req.NetworkID,
		State:       privacy.StateSubmitted,
		SubmittedAt: time.Now().UTC(),
	}, nil
}

// Unshield submits a request to move value from the shielded pool to a
// destination address. It validates inputs before any external call and
// does not wait for confirmation.
func (c *Client) Unshield(ctx context.Context, req privacy.UnshieldRequest) (*privacy.Operation, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var resp operationResponse
	err := c.doJSON(ctx, http.MethodPost, "/v1/unshield", unshieldRequest{
		Destination: req.Destination,
		Token:       req.Token,
		Amount:      req.Amount,
		NetworkID:   req.NetworkID,
	}, &resp)
	if err != nil {
		return nil, err
	}

	c.logger.Info("Unshield submitted",
		zap.String("operation_ref", resp.OperationRef),
		zap.String("destination", req.Destination),
		zap.String("token", req.Token),
		zap.String("amount", req.Amount))

	return &privacy.Operation{
		Ref:         resp.OperationRef,
		Kind:        privacy.KindUnshield,
		Token:       req.Token,
		Amount:      req.Amount,
		Destination: req.Destination,
		NetworkID:   req.NetworkID,
		State:       privacy.StateSubmitted,
		SubmittedAt: time.Now().UTC(),
	}, nil
}

// OperationState queries the provider for the current state of an
// operation. A single request per call; transient query errors propagate
// to the caller unretried.
func (c *Client) OperationState(ctx context.Context, ref string) (privacy.OperationState, error) {
	if err := privacy.ValidateOperationRef(ref); err != nil {
		return privacy.StateIdle, err
	}

	var resp operationStateResponse
	err := c.doJSON(ctx, http.MethodGet, "/v1/operations/"+url.PathEscape(ref), nil, &resp)
	if err != nil {
		return privacy.StateIdle, err
	}

	state := privacy.OperationState(resp.State)
	switch state {
	case privacy.StateSubmitted, privacy.StateConfirming, privacy.StateIndexing,
		privacy.StateCompleted, privacy.StateFailed:
		return state, nil
	default:
		return privacy.StateIdle, apperrors.DependencyFailure(nil,
			fmt.Sprintf("provider returned unknown operation state %q", resp.State))
	}
}

// ShieldedBalance reads the shielded-pool balance attributed to an address.
func (c *Client) ShieldedBalance(ctx context.Context, address, token string, networkID uint64) (string, error) {
	if err := privacy.ValidateAddress(address); err != nil {
		return "", err
	}

	q := url.Values{}
	q.Set("address", address)
	q.Set("token", token)
	q.Set("network_id", fmt.Sprintf("%d", networkID))

	var resp balanceResponse
	err := c.doJSON(ctx, http.MethodGet, "/v1/balances/shielded?"+q.Encode(), nil, &resp)
	if err != nil {
		return "", err
	}
	return resp.Balance, nil
}

// doJSON performs a single JSON request against the provider and decodes
// the response into out. Provider error responses are mapped onto the
// service error taxonomy by status code.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return apperrors.GeneralError(fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return apperrors.GeneralError(fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.DependencyFailure(err, "pool provider unreachable")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return apperrors.DependencyFailure(err, "decode provider response")
		}
		return nil
	}

	providerMsg := decodeProviderError(resp.Body)
	c.logger.Warn("Pool provider error",
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.String("provider_message", providerMsg))

	cause := errors.New(providerMsg)
	switch resp.StatusCode {
	case http.StatusBadRequest:
		return apperrors.InvalidInput(cause, "provider rejected request input")
	case http.StatusUnprocessableEntity, http.StatusConflict:
		return apperrors.SubmissionFailed(cause, "provider rejected submission")
	default:
		return apperrors.DependencyFailure(cause,
			fmt.Sprintf("provider returned status %d", resp.StatusCode))
	}
}

func decodeProviderError(body io.Reader) string {
	var e errorResponse
	if err := json.NewDecoder(body).Decode(&e); err == nil && e.Error != "" {
		return e.Error
	}
	return "unknown provider error"
}
