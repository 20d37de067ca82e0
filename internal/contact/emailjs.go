package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultEmailJSEndpoint is the EmailJS REST send endpoint.
const DefaultEmailJSEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// EmailJSConfig identifies the EmailJS service, template and account keys.
type EmailJSConfig struct {
	Endpoint   string
	ServiceID  string
	TemplateID string
	PublicKey  string
	// PrivateKey is sent as accessToken. EmailJS requires it for calls that
	// do not come from a browser.
	PrivateKey string
	Timeout    time.Duration
}

// EmailJS sends contact messages through the EmailJS REST API.
type EmailJS struct {
	cfg    EmailJSConfig
	client *http.Client
	logger *zap.Logger
}

type emailJSRequest struct {
	ServiceID      string  `json:"service_id"`
	TemplateID     string  `json:"template_id"`
	UserID         string  `json:"user_id"`
	AccessToken    string  `json:"accessToken,omitempty"`
	TemplateParams Message `json:"template_params"`
}

// NewEmailJS returns an EmailJS sender. client may be nil.
func NewEmailJS(cfg EmailJSConfig, client *http.Client, logger *zap.Logger) (*EmailJS, error) {
	if cfg.ServiceID == "" || cfg.TemplateID == "" || cfg.PublicKey == "" {
		return nil, errors.New("emailjs: service id, template id and public key are required")
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEmailJSEndpoint
	}
	if client == nil {
		client = &http.Client{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailJS{cfg: cfg, client: client, logger: logger.Named("emailjs")}, nil
}

// Send posts msg to the configured template.
func (e *EmailJS) Send(ctx context.Context, msg Message) error {
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(emailJSRequest{
		ServiceID:      e.cfg.ServiceID,
		TemplateID:     e.cfg.TemplateID,
		UserID:         e.cfg.PublicKey,
		AccessToken:    e.cfg.PrivateKey,
		TemplateParams: msg,
	})
	if err != nil {
		return fmt.Errorf("emailjs: encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("emailjs: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("emailjs: sending request: %w", err)
	}
	defer resp.Body.Close()

	text, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		e.logger.Debug("reading response body", zap.Error(err))
	}
	e.logger.Debug("send finished",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("emailjs: status %d: %s", resp.StatusCode, strings.TrimSpace(string(text)))
	}
	return nil
}
