package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"sqbpay-go/internal/config"
	"sqbpay-go/internal/logger"
	"sqbpay-go/internal/payment"
	"sqbpay-go/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const usage = `usage: sqbpay <command> [flags]

commands:
  activate  activate a terminal with an activation code
  webpay    print a signed web gateway payment URL
  query     query an order or refund
  refund    refund an order
`

var errUsage = errors.New("invalid usage")

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger.Init(cfg.AppEnv)

	gw, err := newGateway(cfg)
	if err != nil {
		log.Fatal(err)
	}

	ctx := logger.WithRequestID(context.Background(), uuid.New().String())

	code := 0
	if err := run(ctx, gw, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if !errors.Is(err, errUsage) {
			logger.FromCtx(ctx).Error("sqbpay command failed", zap.Error(err))
		}
		code = 1
	}

	logger.Sync()
	os.Exit(code)
}

func newGateway(cfg *config.Config) (payment.Gateway, error) {
	opts := []payment.Option{
		payment.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	}
	if cfg.RateLimit > 0 {
		opts = append(opts, payment.WithRateLimiter(rate.NewLimiter(rate.Limit(cfg.RateLimit), 1)))
	}
	return payment.NewSQBGateway(cfg.Gateway(), opts...)
}

func run(ctx context.Context, gw payment.Gateway, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return errUsage
	}

	cmd, args := args[0], args[1:]
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)

	switch cmd {
	case "activate":
		var req payment.ActivateRequest
		fs.StringVar(&req.Code, "code", "", "activation code")
		fs.StringVar(&req.DeviceID, "device", "", "unique device id")
		fs.StringVar(&req.ClientSN, "client-sn", "", "merchant terminal number")
		fs.StringVar(&req.Name, "name", "", "terminal name")
		if err := parse(fs, args, "code", "device"); err != nil {
			return err
		}
		return printResponse(stdout)(gw.Activate(ctx, req))

	case "webpay":
		var req payment.PaymentLinkRequest
		terminalFlags(fs, &req.TerminalSN, &req.TerminalKey)
		fs.StringVar(&req.ClientSN, "client-sn", "", "merchant order number")
		fs.StringVar(&req.TotalAmount, "amount", "", "total amount in cents")
		fs.StringVar(&req.Subject, "subject", "", "order subject")
		fs.StringVar(&req.Operator, "operator", "", "operator")
		fs.StringVar(&req.Reflect, "reflect", "", "data echoed back in the notification")
		fs.StringVar(&req.NotifyURL, "notify-url", "", "notification callback URL")
		fs.StringVar(&req.ReturnURL, "return-url", "", "page shown after payment")
		if err := parse(fs, args, "terminal-sn", "terminal-key", "client-sn", "amount", "subject"); err != nil {
			return err
		}
		fmt.Fprintln(stdout, gw.WebPay(req))
		return nil

	case "query":
		var req payment.QueryRequest
		terminalFlags(fs, &req.TerminalSN, &req.TerminalKey)
		fs.StringVar(&req.SN, "sn", "", "SQB order number")
		fs.StringVar(&req.ClientSN, "client-sn", "", "merchant order number")
		fs.StringVar(&req.RefundNo, "refund-no", "", "refund request number")
		if err := parse(fs, args, "terminal-sn", "terminal-key"); err != nil {
			return err
		}
		if req.SN == "" && req.ClientSN == "" {
			fmt.Fprintln(stderr, "one of -sn or -client-sn is required")
			return errUsage
		}
		return printResponse(stdout)(gw.Query(ctx, req))

	case "refund":
		var req payment.RefundRequest
		var amount string
		terminalFlags(fs, &req.TerminalSN, &req.TerminalKey)
		fs.StringVar(&req.SN, "sn", "", "SQB order number")
		fs.StringVar(&req.ClientSN, "client-sn", "", "merchant order number")
		fs.StringVar(&req.Operator, "operator", "", "operator (default "+payment.DefaultRefundOperator+")")
		fs.StringVar(&amount, "amount", "", "refund amount in cents")
		fs.StringVar(&req.RefundNo, "refund-no", "", "refund request number (generated when empty)")
		if err := parse(fs, args, "terminal-sn", "terminal-key", "amount"); err != nil {
			return err
		}
		d, err := decimal.NewFromString(amount)
		if err != nil {
			fmt.Fprintf(stderr, "invalid -amount %q\n", amount)
			return errUsage
		}
		req.RefundAmount = d
		if req.RefundNo == "" {
			req.RefundNo = utils.GenerateRefundNo()
			fmt.Fprintf(stderr, "refund_request_no=%s\n", req.RefundNo)
		}
		return printResponse(stdout)(gw.Refund(ctx, req))

	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", cmd, usage)
		return errUsage
	}
}

func terminalFlags(fs *flag.FlagSet, sn, key *string) {
	fs.StringVar(sn, "terminal-sn", "", "terminal serial number")
	fs.StringVar(key, "terminal-key", "", "terminal key")
}

// parse parses args and checks that every flag in required was given a value.
func parse(fs *flag.FlagSet, args []string, required ...string) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	for _, name := range required {
		if fs.Lookup(name).Value.String() == "" {
			fmt.Fprintf(fs.Output(), "-%s is required\n", name)
			return errUsage
		}
	}
	return nil
}

func printResponse(w io.Writer) func(*payment.Response, error) error {
	return func(resp *payment.Response, err error) error {
		if err != nil {
			return err
		}
		fmt.Fprintln(w, string(resp.Body))
		return nil
	}
}
