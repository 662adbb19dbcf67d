// Package client — HTTP-клиент эндпоинтов реестра для агентов и rcctl.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"rcregistry/internal/models"
)

var ErrNotFound = errors.New("not found")

// StatusError — неожиданный HTTP-статус от сервера.
type StatusError struct {
	Op   string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.Code, strings.TrimSpace(e.Body))
}

type Client struct {
	base string
	http *http.Client
}

// New: baseURL вида https://host/rc_car.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

type UpdateParams struct {
	ID        uint
	Name      string // пусто — имя не трогаем
	IP        string
	Port      int
	SSID      string
	Available bool
}

func (c *Client) Update(ctx context.Context, p UpdateParams) error {
	form := url.Values{
		"id":   {strconv.FormatUint(uint64(p.ID), 10)},
		"ip":   {p.IP},
		"port": {strconv.Itoa(p.Port)},
		"ssid": {p.SSID},
	}
	if p.Available {
		form.Set("available", "1")
	}
	if p.Name != "" {
		form.Set("name", p.Name)
	}
	_, err := c.post(ctx, "update", form)
	return err
}

func (c *Client) Activate(ctx context.Context, id uint) error {
	_, err := c.post(ctx, "activate", url.Values{"id": {strconv.FormatUint(uint64(id), 10)}})
	return err
}

func (c *Client) Deactivate(ctx context.Context, id uint) error {
	_, err := c.post(ctx, "deactivate", url.Values{"id": {strconv.FormatUint(uint64(id), 10)}})
	return err
}

func (c *Client) SetVersion(ctx context.Context, version string) error {
	_, err := c.post(ctx, "set_version", url.Values{"version": {version}})
	return err
}

func (c *Client) GetAvailable(ctx context.Context) ([]models.AvailableConnection, error) {
	body, err := c.get(ctx, "get_available", nil)
	if err != nil {
		return nil, err
	}
	var out []models.AvailableConnection
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("get_available: decode: %w", err)
	}
	return out, nil
}

// GetID обменивает одноразовый ключ на id. Второй вызов с тем же ключом — ErrNotFound.
func (c *Client) GetID(ctx context.Context, key string) (uint, error) {
	body, err := c.get(ctx, "get_id", url.Values{"key": {key}})
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseUint(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("get_id: bad id %q: %w", body, err)
	}
	return uint(id), nil
}

func (c *Client) Version(ctx context.Context) (string, error) {
	body, err := c.get(ctx, "version", nil)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (c *Client) get(ctx context.Context, op string, q url.Values) ([]byte, error) {
	u := c.base + "/" + op
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return c.do(op, req)
}

func (c *Client) post(ctx context.Context, op string, form url.Values) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/"+op, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(op, req)
}

func (c *Client) do(op string, req *http.Request) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{Op: op, Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
