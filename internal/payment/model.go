package payment

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const (
	DefaultAPIDomain = "https://vsi-api.shouqianba.com"
	DefaultGateWay   = "https://qr.shouqianba.com/gateway"

	DefaultRefundOperator = "skzn"
)

// Config holds the vendor (service provider) credentials and endpoints.
// It is read-only once handed to NewSQBGateway.
type Config struct {
	APIDomain string `validate:"omitempty,url"`
	AppID     string `validate:"required"`
	NotifyURL string `validate:"omitempty,url"`
	ReturnURL string `validate:"omitempty,url"`
	VendorSN  string `validate:"required"`
	VendorKey string `validate:"required"`
	GateWay   string `validate:"omitempty,url"`
	Sandbox   bool
}

// Empty optional fields are left out of the signed payload.

type ActivateRequest struct {
	Code     string
	DeviceID string
	ClientSN string
	Name     string
}

type PaymentLinkRequest struct {
	TerminalSN  string
	TerminalKey string
	ClientSN    string
	TotalAmount string // cents
	Subject     string
	Operator    string
	Reflect     string
	NotifyURL   string
	ReturnURL   string
}

// QueryRequest looks an order up by SN first, then by ClientSN.
// At least one of the two must be set.
type QueryRequest struct {
	TerminalSN  string
	TerminalKey string
	SN          string
	ClientSN    string
	RefundNo    string
}

type RefundRequest struct {
	TerminalSN   string
	TerminalKey  string
	SN           string
	ClientSN     string
	Operator     string
	RefundAmount decimal.Decimal // cents
	RefundNo     string
}

// Response is the gateway reply exactly as received.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Field returns the value at a gjson path in the body, e.g.
// "biz_response.terminal_key". Missing paths yield "".
func (r *Response) Field(path string) string {
	return gjson.GetBytes(r.Body, path).String()
}

func (r *Response) Decode(v interface{}) error {
	return json.Unmarshal(r.Body, v)
}
