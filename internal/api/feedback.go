package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Son-2003/e-commerse-sub000/internal/domain"
)

type FeedbackClient struct {
	c *Client
}

func NewFeedbackClient(c *Client) *FeedbackClient {
	return &FeedbackClient{c: c}
}

type CreateFeedbackRequest struct {
	ProductID int64  `json:"product_id"`
	OrderID   int64  `json:"order_id,omitempty"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment,omitempty"`
	ImageURLs string `json:"image_urls,omitempty"` // comma-joined
}

func (r CreateFeedbackRequest) validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", r.Rating)
	}
	return nil
}

func (f *FeedbackClient) Create(ctx context.Context, req CreateFeedbackRequest) (*domain.Feedback, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	var created domain.Feedback
	if err := f.c.post(ctx, "/feedback", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (f *FeedbackClient) ListByProduct(ctx context.Context, productID int64, page, size int) (*domain.Page[domain.Feedback], error) {
	query := url.Values{}
	query.Set("productId", strconv.FormatInt(productID, 10))
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		query.Set("size", strconv.Itoa(size))
	}

	var result domain.Page[domain.Feedback]
	if err := f.c.get(ctx, "/feedback", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (f *FeedbackClient) Update(ctx context.Context, id int64, req CreateFeedbackRequest) (*domain.Feedback, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}
	var updated domain.Feedback
	if err := f.c.put(ctx, fmt.Sprintf("/feedback/%d", id), req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (f *FeedbackClient) Delete(ctx context.Context, id int64) error {
	return f.c.delete(ctx, fmt.Sprintf("/feedback/%d", id))
}
