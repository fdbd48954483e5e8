package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Son-2003/e-commerse-sub000/internal/domain"
)

type OrderClient struct {
	c *Client
}

func NewOrderClient(c *Client) *OrderClient {
	return &OrderClient{c: c}
}

func (o *OrderClient) Create(ctx context.Context, draft *domain.OrderDraft) (*domain.OrderResponse, error) {
	var created domain.OrderResponse
	if err := o.c.post(ctx, "/orders", draft, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// List is the customer-scoped listing: free search text, a status set and
// an optional date floor.
func (o *OrderClient) List(ctx context.Context, filter domain.OrderFilter) (*domain.Page[domain.OrderResponse], error) {
	query := url.Values{}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	for _, status := range filter.Statuses {
		query.Add("status", string(status))
	}
	if filter.DateFrom != nil {
		query.Set("dateFrom", filter.DateFrom.Format(time.RFC3339))
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Size > 0 {
		query.Set("size", strconv.Itoa(filter.Size))
	}

	var page domain.Page[domain.OrderResponse]
	if err := o.c.get(ctx, "/orders", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (o *OrderClient) Get(ctx context.Context, id int64) (*domain.OrderResponse, error) {
	var order domain.OrderResponse
	if err := o.c.get(ctx, fmt.Sprintf("/orders/%d", id), nil, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves an order along its fulfilment states (admin back
// office, plus customer-side cancellation).
func (o *OrderClient) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus) (*domain.OrderResponse, error) {
	body := map[string]string{"status": string(status)}
	var updated domain.OrderResponse
	if err := o.c.put(ctx, fmt.Sprintf("/orders/%d", id), body, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
