// Package client talks to the pennywise REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/pennywise/internal/api"
	"github.com/MrJamesThe3rd/pennywise/internal/transaction"
)

// StatusError is returned for every non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}

	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Code == http.StatusNotFound
}

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/") + api.BasePath,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *Client) List(ctx context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	var resp []api.Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions", api.ListFilterQuery(filter), nil, &resp); err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	return api.ToTransactions(resp), nil
}

func (c *Client) Get(ctx context.Context, id uuid.UUID) (*transaction.Transaction, error) {
	var resp api.Transaction
	if err := c.do(ctx, http.MethodGet, "/transactions/"+id.String(), nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return resp.ToTransaction(), nil
}

func (c *Client) Create(ctx context.Context, params transaction.CreateParams) (*transaction.Transaction, error) {
	var resp api.Transaction
	if err := c.do(ctx, http.MethodPost, "/transactions", nil, api.NewTransactionRequest(params), &resp); err != nil {
		return nil, fmt.Errorf("creating transaction: %w", err)
	}

	return resp.ToTransaction(), nil
}

func (c *Client) Update(ctx context.Context, id uuid.UUID, params transaction.CreateParams) (*transaction.Transaction, error) {
	var resp api.Transaction
	if err := c.do(ctx, http.MethodPut, "/transactions/"+id.String(), nil, api.NewTransactionRequest(params), &resp); err != nil {
		return nil, fmt.Errorf("updating transaction: %w", err)
	}

	return resp.ToTransaction(), nil
}

func (c *Client) Delete(ctx context.Context, id uuid.UUID) error {
	var resp api.Message
	if err := c.do(ctx, http.MethodDelete, "/transactions/"+id.String(), nil, nil, &resp); err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	return nil
}

func (c *Client) Summary(ctx context.Context, filter transaction.ListFilter) (transaction.Summary, error) {
	var resp api.Summary
	if err := c.do(ctx, http.MethodGet, "/transactions/summary", api.ListFilterQuery(filter), nil, &resp); err != nil {
		return transaction.Summary{}, fmt.Errorf("getting summary: %w", err)
	}

	return resp.ToSummary(), nil
}

func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var resp []string
	if err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &resp); err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}

	return resp, nil
}

// Suggest returns the category the API would pick for description, or an
// empty string.
func (c *Client) Suggest(ctx context.Context, description string) (string, error) {
	var resp api.Suggestion

	q := url.Values{"description": {description}}
	if err := c.do(ctx, http.MethodGet, "/categories/suggest", q, nil, &resp); err != nil {
		return "", fmt.Errorf("suggesting category: %w", err)
	}

	return resp.Category, nil
}

// Import uploads a CSV file in the given format.
func (c *Client) Import(ctx context.Context, format, filename string, r io.Reader) (*api.ImportResult, error) {
	var body bytes.Buffer

	mw := multipart.NewWriter(&body)

	if err := mw.WriteField("format", format); err != nil {
		return nil, fmt.Errorf("writing form: %w", err)
	}

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("writing form: %w", err)
	}

	if _, err := io.Copy(fw, r); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("writing form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/import", &body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Content-Type", mw.FormDataContentType())

	var resp api.ImportResult
	if err := c.send(req, &resp); err != nil {
		return nil, fmt.Errorf("importing %s: %w", filename, err)
	}

	return &resp, nil
}

// Export streams the CSV export of the filtered transactions into w.
func (c *Client) Export(ctx context.Context, filter transaction.ListFilter, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url("/export", api.ListFilterQuery(filter)), nil)
	if err != nil {
		return 0, fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return 0, fmt.Errorf("exporting: %w", err)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("writing export: %w", err)
	}

	return n, nil
}

func (c *Client) url(path string, q url.Values) string {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	return u
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, in, out any) error {
	var body io.Reader

	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}

		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path, q), body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	req.Header.Set("Accept", "application/json")

	return c.send(req, out)
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	return &StatusError{Code: resp.StatusCode, Message: strings.TrimSpace(string(msg))}
}
