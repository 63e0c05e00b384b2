package mollie

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

	"github.com/kaddo-next/internal/models"
	"github.com/kaddo-next/internal/service"
)

const defaultBaseURL = "https://api.mollie.com/v2"

var (
	ErrConfigInvalid   = errors.New("mollie config invalid")
	ErrRequestFailed   = errors.New("mollie request failed")
	ErrResponseInvalid = errors.New("mollie response invalid")
	ErrPaymentNotFound = errors.New("mollie payment not found")
)

// Config Mollie 网关配置
type Config struct {
	APIKey         string
	BaseURL        string
	Currency       string
	TimeoutSeconds int
}

// Client Mollie API 客户端
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// NewClient 创建 Mollie 客户端
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("%w: api_key is required", ErrConfigInvalid)
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if strings.TrimSpace(cfg.Currency) == "" {
		cfg.Currency = "EUR"
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// paymentResponse Mollie 支付对象（仅取用到的字段）
type paymentResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
	Links  struct {
		Checkout struct {
			Href string `json:"href"`
		} `json:"checkout"`
	} `json:"_links"`
}

func (p *paymentResponse) toGateway() *service.GatewayPayment {
	return &service.GatewayPayment{
		ID:          p.ID,
		Status:      p.Status,
		CheckoutURL: p.Links.Checkout.Href,
	}
}

// CreatePayment 创建支付
func (c *Client) CreatePayment(ctx context.Context, amount models.Money, description, redirectURL, webhookURL string) (*service.GatewayPayment, error) {
	body := map[string]interface{}{
		"amount": map[string]string{
			"currency": c.cfg.Currency,
			"value":    amount.String(),
		},
		"description": description,
		"redirectUrl": redirectURL,
	}
	if webhookURL != "" {
		body["webhookUrl"] = webhookURL
	}
	var payment paymentResponse
	if err := c.do(ctx, http.MethodPost, "/payments", body, &payment); err != nil {
		return nil, err
	}
	if payment.ID == "" {
		return nil, fmt.Errorf("%w: missing payment id", ErrResponseInvalid)
	}
	return payment.toGateway(), nil
}

// UpdateRedirectURL 改写支付对象的跳转地址
func (c *Client) UpdateRedirectURL(ctx context.Context, paymentID, redirectURL string) error {
	body := map[string]interface{}{"redirectUrl": redirectURL}
	var payment paymentResponse
	return c.do(ctx, http.MethodPatch, "/payments/"+paymentID, body, &payment)
}

// GetPayment 查询支付状态
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*service.GatewayPayment, error) {
	var payment paymentResponse
	if err := c.do(ctx, http.MethodGet, "/payments/"+paymentID, nil, &payment); err != nil {
		return nil, err
	}
	return payment.toGateway(), nil
}

func (c *Client) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: marshal request failed", ErrRequestFailed)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}
	if resp.StatusCode == http.StatusNotFound {
		return ErrPaymentNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", ErrRequestFailed, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
		}
	}
	return nil
}
