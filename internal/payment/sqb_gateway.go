package payment

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"sqbpay-go/internal/logger"
	"sqbpay-go/internal/metrics"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	activatePath = "/terminal/activate"
	queryPath    = "/upay/v2/query"
	refundPath   = "/upay/v2/refund"
)

type sqbGateway struct {
	cfg        Config
	httpClient *http.Client
	log        *zap.Logger
	metrics    *metrics.Metrics
	limiter    *rate.Limiter
}

type Option func(*sqbGateway)

func WithHTTPClient(c *http.Client) Option {
	return func(g *sqbGateway) { g.httpClient = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(g *sqbGateway) { g.log = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(g *sqbGateway) { g.metrics = m }
}

// WithRateLimiter throttles outbound calls. Each call waits for a token
// and gives up when its context ends.
func WithRateLimiter(l *rate.Limiter) Option {
	return func(g *sqbGateway) { g.limiter = l }
}

// ----------------- Constructor -----------------

func NewSQBGateway(cfg Config, opts ...Option) (Gateway, error) {
	if cfg.Sandbox && (cfg.APIDomain == "" || cfg.GateWay == "") {
		return nil, ErrSandboxEndpoints
	}
	if cfg.APIDomain == "" {
		cfg.APIDomain = DefaultAPIDomain
	}
	if cfg.GateWay == "" {
		cfg.GateWay = DefaultGateWay
	}
	cfg.APIDomain = strings.TrimRight(cfg.APIDomain, "/")

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid sqb config: %w", err)
	}

	g := &sqbGateway{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(g)
	}

	if cfg.Sandbox {
		g.logger(context.Background()).Info("SQB gateway running against sandbox",
			zap.String("api_domain", cfg.APIDomain),
			zap.String("gateway", cfg.GateWay),
		)
	}

	return g, nil
}

// ----------------- Activate -----------------

func (g *sqbGateway) Activate(ctx context.Context, req ActivateRequest) (*Response, error) {
	biz := Params{
		{"app_id", g.cfg.AppID},
		{"code", req.Code},
		{"device_id", req.DeviceID},
		{"client_sn", req.ClientSN},
		{"name", req.Name},
	}
	return g.post(ctx, "activate", activatePath, g.cfg.VendorSN, g.cfg.VendorKey, biz)
}

// ----------------- WebPay -----------------

// WebPay builds the web gateway URL the buyer's browser is redirected to.
// The request's notify and return URLs fall back to the configured ones.
func (g *sqbGateway) WebPay(req PaymentLinkRequest) string {
	notifyURL := req.NotifyURL
	if notifyURL == "" {
		notifyURL = g.cfg.NotifyURL
	}
	returnURL := req.ReturnURL
	if returnURL == "" {
		returnURL = g.cfg.ReturnURL
	}

	biz := Params{
		{"terminal_sn", req.TerminalSN},
		{"subject", req.Subject},
		{"client_sn", req.ClientSN},
		{"total_amount", req.TotalAmount},
		{"operator", req.Operator},
		{"reflect", req.Reflect},
		{"notify_url", notifyURL},
		{"return_url", returnURL},
	}

	unencoded, encoded := URLEncodeParams(biz)
	sign := Digest(unencoded+"&key="+req.TerminalKey, true)

	return fmt.Sprintf("%s?%s&sign=%s", g.cfg.GateWay, encoded, sign)
}

// ----------------- Query -----------------

func (g *sqbGateway) Query(ctx context.Context, req QueryRequest) (*Response, error) {
	biz := Params{
		{"terminal_sn", req.TerminalSN},
		{"sn", req.SN},
		{"refund_request_no", req.RefundNo},
		{"client_sn", req.ClientSN},
	}
	return g.post(ctx, "query", queryPath, req.TerminalSN, req.TerminalKey, biz)
}

// ----------------- Refund -----------------

func (g *sqbGateway) Refund(ctx context.Context, req RefundRequest) (*Response, error) {
	if !req.RefundAmount.IsPositive() {
		return nil, ErrMissingRefundAmount
	}

	operator := req.Operator
	if operator == "" {
		operator = DefaultRefundOperator
	}

	biz := Params{
		{"terminal_sn", req.TerminalSN},
		{"client_sn", req.ClientSN},
		{"sn", req.SN},
		{"operator", operator},
		{"refund_amount", req.RefundAmount.String()},
		{"refund_request_no", req.RefundNo},
	}
	return g.post(ctx, "refund", refundPath, req.TerminalSN, req.TerminalKey, biz)
}

// ----------------- Transport -----------------

// post signs biz with key and sends it. The signed bytes are the body.
func (g *sqbGateway) post(ctx context.Context, op, path, signer, key string, biz Params) (*Response, error) {
	url := g.cfg.APIDomain + path
	log := g.logger(ctx).With(
		zap.String("op", op),
		zap.String("url", url),
	)

	body := CanonicalJSON(biz)
	sign := Digest(string(body)+key, false)

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			log.Warn("Rate limiter wait aborted", zap.Error(err))
			return nil, &TransportError{Op: op, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		log.Error("Failed creating request", zap.Error(err))
		return nil, &TransportError{Op: op, Err: err}
	}

	req.Header.Set("Authorization", signer+" "+sign)
	req.Header.Set("Content-Type", "application/json")

	done := g.metrics.Begin(op)

	log.Debug("Sending request to SQB")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		done("error")
		log.Error("SQB request failed", zap.Error(err))
		return nil, &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	done(strconv.Itoa(resp.StatusCode))

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Error("Failed to read response body", zap.Error(err))
		return nil, &TransportError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to read sqb response: %w", err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("SQB returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", bodyBytes),
		)
		return nil, &TransportError{Op: op, StatusCode: resp.StatusCode, Body: bodyBytes}
	}

	log.Info("SQB request completed", zap.Int("status", resp.StatusCode))

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       bodyBytes,
	}, nil
}

func (g *sqbGateway) logger(ctx context.Context) *zap.Logger {
	if g.log == nil {
		return logger.FromCtx(ctx)
	}
	if reqID := logger.RequestIDFrom(ctx); reqID != "" {
		return g.log.With(zap.String("request_id", reqID))
	}
	return g.log
}
