package api

import (
	"context"

	"github.com/Son-2003/e-commerse-sub000/internal/domain"
)

type PaymentClient struct {
	c *Client
}

func NewPaymentClient(c *Client) *PaymentClient {
	return &PaymentClient{c: c}
}

type CheckoutLinkRequest struct {
	OrderID   int64             `json:"order_id"`
	OrderCode string            `json:"order_code"`
	Lines     []domain.CartLine `json:"items"`
	Amount    float64           `json:"amount"`
	ReturnURL string            `json:"return_url"`
	CancelURL string            `json:"cancel_url"`
}

type CheckoutLink struct {
	CheckoutURL string `json:"checkout_url"`
}

// CreateCheckoutLink asks the payment service for the external checkout
// page the browser must be sent to. Navigating there is a full page leave;
// the flow resumes only through the return URL's query parameters.
func (p *PaymentClient) CreateCheckoutLink(ctx context.Context, req CheckoutLinkRequest) (*CheckoutLink, error) {
	var link CheckoutLink
	if err := p.c.post(ctx, "/payment/checkout-link", req, &link); err != nil {
		return nil, err
	}
	return &link, nil
}
