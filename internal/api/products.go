package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/Son-2003/e-commerse-sub000/internal/domain"
)

type ProductClient struct {
	c *Client
}

func NewProductClient(c *Client) *ProductClient {
	return &ProductClient{c: c}
}

func (p *ProductClient) List(ctx context.Context, filter domain.ProductFilter) (*domain.Page[domain.Product], error) {
	query := url.Values{}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.Category != "" {
		query.Set("category", filter.Category)
	}
	if filter.Page > 0 {
		query.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.Size > 0 {
		query.Set("size", strconv.Itoa(filter.Size))
	}

	var page domain.Page[domain.Product]
	if err := p.c.get(ctx, "/products", query, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (p *ProductClient) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	if err := p.c.get(ctx, fmt.Sprintf("/products/%d", id), nil, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Create is admin-only; the client must carry the admin token source.
func (p *ProductClient) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	var created domain.Product
	if err := p.c.post(ctx, "/products", product, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
