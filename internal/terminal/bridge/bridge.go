// Package bridge talks to a terminal-side HTTP bridge that exposes the MT5
// account and deal history as JSON.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"account-monitor/internal/api"
	"account-monitor/internal/interfaces"
	"account-monitor/internal/logger"
	"account-monitor/internal/types"
)

type Params struct {
	BaseURL string
	Timeout time.Duration
}

type Bridge struct {
	client *api.Client
}

var _ interfaces.Terminal = (*Bridge)(nil)

func New(p Params) *Bridge {
	opts := []api.ClientOption{api.WithBaseURL(p.BaseURL), api.WithLogging(logger.IsDebugEnabled())}
	if p.Timeout > 0 {
		opts = append(opts, api.WithTimeout(p.Timeout))
	}
	return &Bridge{client: api.NewClient(opts...)}
}

type accountDTO struct {
	Login   int64   `json:"login"`
	Balance float64 `json:"balance"`
	Equity  float64 `json:"equity"`
	Company string  `json:"company"`
}

type dealDTO struct {
	Ticket int64   `json:"ticket"`
	Time   int64   `json:"time"`
	Type   int     `json:"type"`
	Entry  int     `json:"entry"`
	Profit float64 `json:"profit"`
	Magic  int64   `json:"magic"`
	Symbol string  `json:"symbol"`
}

func (d dealDTO) toDeal() types.Deal {
	return types.Deal{
		Ticket: d.Ticket,
		Time:   time.Unix(d.Time, 0),
		Kind:   types.ClassifyDeal(d.Type, d.Entry),
		Profit: d.Profit,
		Magic:  d.Magic,
		Symbol: d.Symbol,
	}
}

// Connect checks that the bridge is reachable and attached to a terminal.
func (b *Bridge) Connect(ctx context.Context) error {
	if _, err := b.client.GET(ctx, "/ping"); err != nil {
		return fmt.Errorf("bridge connect failed: %w", err)
	}
	return nil
}

func (b *Bridge) AccountInfo(ctx context.Context) (*types.AccountSnapshot, error) {
	resp, err := b.client.GET(ctx, "/account")
	if err != nil {
		var se *api.StatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, interfaces.ErrNoSession
		}
		return nil, err
	}
	if resp.StatusCode == http.StatusNoContent || len(resp.Body) == 0 {
		return nil, nil
	}

	var dto accountDTO
	if err := resp.ParseJSON(&dto); err != nil {
		return nil, err
	}
	if dto.Login == 0 {
		return nil, nil
	}
	return &types.AccountSnapshot{
		ID:      dto.Login,
		Balance: dto.Balance,
		Equity:  dto.Equity,
		Broker:  dto.Company,
	}, nil
}

func (b *Bridge) HistoryDeals(ctx context.Context, from, to time.Time) ([]types.Deal, error) {
	q := url.Values{}
	q.Set("from", strconv.FormatInt(from.Unix(), 10))
	q.Set("to", strconv.FormatInt(to.Unix(), 10))

	resp, err := b.client.GET(ctx, "/deals?"+q.Encode())
	if err != nil {
		return nil, err
	}

	var dtos []dealDTO
	if err := resp.ParseJSON(&dtos); err != nil {
		return nil, err
	}
	deals := make([]types.Deal, 0, len(dtos))
	for _, d := range dtos {
		deals = append(deals, d.toDeal())
	}
	return deals, nil
}

func (b *Bridge) Close(ctx context.Context) {}
