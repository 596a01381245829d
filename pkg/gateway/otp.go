package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"property-portal/pkg/utils"

	"go.uber.org/zap"
)

// VerifyResult is the gateway's verify-token contract. Success reports that
// the identifier was proven out-of-band on the named channel.
type VerifyResult struct {
	Success    bool   `json:"success"`
	Identifier string `json:"identifier"`
	Channel    string `json:"channel"`
}

// OTPVerifier is consumed by the credential verifier. The delivery side of
// the gateway (sending codes) is not part of this service.
type OTPVerifier interface {
	VerifyToken(ctx context.Context, token string) (*VerifyResult, error)
}

type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	log     *zap.Logger
}

func NewClient(config utils.GatewayConfig, log *zap.Logger) *Client {
	timeout := time.Duration(config.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: config.BaseURL,
		apiKey:  config.APIKey,
		http:    &http.Client{Timeout: timeout},
		log:     log.With(zap.String("client", "otp_gateway")),
	}
}

// VerifyToken makes a single verification attempt. Network failures, timeouts
// and malformed responses are transport errors; only a well-formed
// success=false body counts as a rejected code.
func (c *Client) VerifyToken(ctx context.Context, token string) (*VerifyResult, error) {
	body, err := json.Marshal(map[string]string{"token": token})
	if err != nil {
		return nil, fmt.Errorf("encode verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/otp/verify", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build verify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Error("OTP gateway unreachable", zap.Error(err))
		return nil, fmt.Errorf("otp gateway verify: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error("OTP gateway returned unexpected status",
			zap.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("otp gateway verify: unexpected status %d", resp.StatusCode)
	}

	var result VerifyResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		c.log.Error("OTP gateway returned malformed body", zap.Error(err))
		return nil, fmt.Errorf("decode verify response: %w", err)
	}

	return &result, nil
}
