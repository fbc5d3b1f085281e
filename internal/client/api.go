// Package client is the member-side half of the ledger: an API client, a
// per-trip cache, the optimistic mutation pipeline and the realtime listener,
// combined by OpenTripView.
package client

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

	"github.com/google/uuid"

	"GO2GETHER_BUDGET/internal/dto"
	"GO2GETHER_BUDGET/internal/ledger"
	"GO2GETHER_BUDGET/internal/models"
)

// API is the remote ledger as seen by one authenticated member.
type API interface {
	ListEntries(ctx context.Context, tripID uuid.UUID) (models.BudgetSnapshot, error)
	CreateEntry(ctx context.Context, tripID uuid.UUID, in ledger.EntryInput) (models.BudgetItem, error)
	UpdateEntry(ctx context.Context, tripID, itemID uuid.UUID, patch ledger.EntryPatch) (models.BudgetItem, error)
	DeleteEntry(ctx context.Context, tripID, itemID uuid.UUID) error
}

// HTTPClient talks to the budget HTTP API with a bearer token.
type HTTPClient struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewHTTPClient returns a client for baseURL. A nil hc uses a client with a
// 15 second timeout.
func NewHTTPClient(baseURL, token string, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPClient{baseURL: strings.TrimRight(baseURL, "/"), token: token, http: hc}
}

var _ API = (*HTTPClient)(nil)

func budgetPath(tripID uuid.UUID) string {
	return "/trips/" + tripID.String() + "/budget"
}

func (c *HTTPClient) ListEntries(ctx context.Context, tripID uuid.UUID) (models.BudgetSnapshot, error) {
	var resp dto.BudgetListResponse
	if err := c.do(ctx, http.MethodGet, budgetPath(tripID), nil, &resp); err != nil {
		return models.BudgetSnapshot{}, err
	}
	return models.BudgetSnapshot{Items: resp.BudgetItems, Summary: resp.Summary, Members: resp.TripMembers}, nil
}

func (c *HTTPClient) CreateEntry(ctx context.Context, tripID uuid.UUID, in ledger.EntryInput) (models.BudgetItem, error) {
	req := dto.CreateBudgetItemRequest{
		Title:       in.Title,
		Amount:      in.Amount,
		Currency:    in.Currency,
		Category:    in.Category,
		PaidBy:      in.PaidBy,
		SplitType:   string(in.SplitType),
		IsPaid:      in.IsPaid,
		Description: in.Description,
		Splits:      dto.SplitsToWire(in.SplitType, in.Shares),
	}
	var resp dto.BudgetItemResponse
	if err := c.do(ctx, http.MethodPost, budgetPath(tripID), req, &resp); err != nil {
		return models.BudgetItem{}, err
	}
	return resp.BudgetItem, nil
}

func (c *HTTPClient) UpdateEntry(ctx context.Context, tripID, itemID uuid.UUID, p ledger.EntryPatch) (models.BudgetItem, error) {
	req := dto.UpdateBudgetItemRequest{
		Title:       p.Title,
		Amount:      p.Amount,
		Currency:    p.Currency,
		Category:    p.Category,
		PaidBy:      p.PaidBy,
		IsPaid:      p.IsPaid,
		Description: p.Description,
	}
	var st models.SplitType
	if p.SplitType != nil {
		st = *p.SplitType
		s := string(st)
		req.SplitType = &s
	}
	req.Splits = dto.SplitsToWire(st, p.Shares)

	var resp dto.BudgetItemResponse
	if err := c.do(ctx, http.MethodPut, budgetPath(tripID)+"/"+itemID.String(), req, &resp); err != nil {
		return models.BudgetItem{}, err
	}
	return resp.BudgetItem, nil
}

func (c *HTTPClient) DeleteEntry(ctx context.Context, tripID, itemID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, budgetPath(tripID)+"/"+itemID.String(), nil, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ledger.ErrUpstream, method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return statusError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode %s %s: %w", ledger.ErrUpstream, method, path, err)
	}
	return nil
}

// statusError maps an error response onto the ledger error taxonomy. A 404
// cannot tell a missing item from a trip the caller is not a member of.
func statusError(resp *http.Response) error {
	var body dto.ErrorResponse
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&body)
	msg := body.Message
	if msg == "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		if len(body.Fields) > 0 {
			return &ledger.ValidationError{Fields: body.Fields}
		}
		return ledger.NewValidationError("request", msg)
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ledger.ErrUnauthenticated, msg)
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ledger.ErrForbidden, msg)
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ledger.ErrNotFound, msg)
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", ledger.ErrTripFull, msg)
	default:
		return fmt.Errorf("%w: status %d: %s", ledger.ErrUpstream, resp.StatusCode, msg)
	}
}

// IsRemoteRejection reports whether err came from the server refusing the
// request rather than from the transport.
func IsRemoteRejection(err error) bool {
	return ledger.IsValidation(err) ||
		errors.Is(err, ledger.ErrForbidden) ||
		errors.Is(err, ledger.ErrNotFound) ||
		errors.Is(err, ledger.ErrUnauthenticated)
}
