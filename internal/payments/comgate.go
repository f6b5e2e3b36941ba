package payments

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"dently/internal/shared/config"
)

// ComgateProvider talks to the Comgate gateway. The API is form-encoded in
// both directions: requests are application/x-www-form-urlencoded POSTs and
// responses are query-string encoded bodies (code=0&message=OK&...).
type ComgateProvider struct {
	cfg    config.PaymentConfig
	client *http.Client
}

// NewComgateProvider creates a new Comgate payment provider
func NewComgateProvider(cfg config.PaymentConfig) *ComgateProvider {
	return &ComgateProvider{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
	}
}

// CreatePaymentSession opens a prepared transaction and returns the redirect URL.
func (p *ComgateProvider) CreatePaymentSession(ctx context.Context, req SessionRequest) (*Session, error) {
	form := url.Values{}
	form.Set("merchant", p.cfg.Merchant)
	form.Set("secret", p.cfg.Secret)
	form.Set("price", strconv.FormatInt(req.Amount, 10))
	form.Set("curr", req.Currency)
	form.Set("label", req.Label)
	form.Set("refId", req.ExternalRef)
	form.Set("email", req.Email)
	form.Set("method", "ALL")
	form.Set("country", "CZ")
	form.Set("prepareOnly", "true")
	form.Set("url_paid", p.cfg.ReturnURL)
	form.Set("url_cancelled", p.cfg.CancelURL)
	if p.cfg.TestMode {
		form.Set("test", "true")
	}

	values, err := p.post(ctx, "/create", form)
	if err != nil {
		return nil, err
	}

	transID := values.Get("transId")
	redirect := values.Get("redirect")
	if transID == "" || redirect == "" {
		return nil, fmt.Errorf("gateway create response missing transId or redirect")
	}

	return &Session{
		TransID:    transID,
		PaymentURL: redirect,
	}, nil
}

// VerifyPayment asks the gateway for the authoritative transaction status.
func (p *ComgateProvider) VerifyPayment(ctx context.Context, transID string) (Status, error) {
	form := url.Values{}
	form.Set("merchant", p.cfg.Merchant)
	form.Set("secret", p.cfg.Secret)
	form.Set("transId", transID)

	values, err := p.post(ctx, "/status", form)
	if err != nil {
		return "", err
	}

	status := Status(strings.ToUpper(values.Get("status")))
	switch status {
	case StatusPending, StatusPaid, StatusCancelled, StatusAuthorized:
		return status, nil
	default:
		return "", fmt.Errorf("gateway returned unknown status %q", values.Get("status"))
	}
}

func (p *ComgateProvider) post(ctx context.Context, path string, form url.Values) (url.Values, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned HTTP %d", resp.StatusCode)
	}

	values, err := url.ParseQuery(string(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse gateway response: %w", err)
	}

	if code := values.Get("code"); code != "0" {
		if code == "1400" {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("gateway error %s: %s", code, values.Get("message"))
	}

	return values, nil
}
