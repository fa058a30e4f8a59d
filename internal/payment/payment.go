// internal/payment/payment.go
package payment

import "context"

// Gateway is the signed request surface of the Shouqianba open API.
type Gateway interface {
	Activate(ctx context.Context, req ActivateRequest) (*Response, error)
	WebPay(req PaymentLinkRequest) string
	Query(ctx context.Context, req QueryRequest) (*Response, error)
	Refund(ctx context.Context, req RefundRequest) (*Response, error)
}
