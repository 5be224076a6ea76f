package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"nexus-storefront/internal/api"
	"nexus-storefront/internal/cart"
	"nexus-storefront/internal/checkout"
	"nexus-storefront/internal/config"
	"nexus-storefront/internal/model"
	"nexus-storefront/internal/notify"
	"nexus-storefront/internal/session"

	"github.com/rs/zerolog"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Str("api", cfg.API.BaseURL).Msg("starting nexus storefront client")

	// Session with an unauthorized hook instead of ambient token storage
	sess := session.New(cfg.Auth.Token, func() {
		logger.Warn().Msg("session expired, sign in again and restart with a fresh NEXUS_TOKEN")
	})

	client := api.NewClient(cfg.API, sess, logger)
	notifier := notify.NewLogNotifier(logger)
	store := cart.NewStore(client, notifier, logger)

	ctx := context.Background()
	if err := store.Load(ctx); err != nil {
		logger.Warn().Err(err).Msg("continuing with an unloaded cart")
	}

	repl := &repl{
		in:       bufio.NewScanner(os.Stdin),
		client:   client,
		notifier: notifier,
		store:    store,
		logger:   logger,
	}
	return repl.run(ctx)
}

// repl is a minimal storefront shell standing in for the web UI: it
// drives the cart store and the checkout flow from stdin commands.
type repl struct {
	in       *bufio.Scanner
	client   *api.Client
	notifier notify.Notifier
	store    *cart.Store
	logger   zerolog.Logger
}

func (r *repl) run(ctx context.Context) error {
	fmt.Println("nexus storefront - type 'help' for commands")
	for {
		fmt.Print("> ")
		if !r.in.Scan() {
			return r.in.Err()
		}
		fields := strings.Fields(r.in.Text())
		if len(fields) == 0 {
			continue
		}

		cmd, args := fields[0], fields[1:]
		switch cmd {
		case "help":
			r.printHelp()
		case "cart":
			r.printCart()
		case "add":
			r.withIDArg(args, func(gameID int64) {
				quantity := 1
				if len(args) > 1 {
					if q, err := strconv.Atoi(args[1]); err == nil {
						quantity = q
					}
				}
				_ = r.store.Add(ctx, gameID, quantity)
			})
		case "inc":
			r.withIDArg(args, func(itemID int64) { r.report(r.store.Increment(ctx, itemID)) })
		case "dec":
			r.withIDArg(args, func(itemID int64) { r.report(r.store.Decrement(ctx, itemID)) })
		case "rm":
			r.withIDArg(args, func(itemID int64) { r.report(r.store.Remove(ctx, itemID)) })
		case "clear":
			_ = r.store.Clear(ctx)
		case "checkout":
			r.checkout(ctx)
		case "orders":
			r.printOrders(ctx)
		case "pay":
			r.withIDArg(args, func(orderID int64) { r.pay(ctx, orderID) })
		case "quit", "exit":
			return nil
		default:
			fmt.Printf("unknown command %q, type 'help'\n", cmd)
		}
	}
}

func (r *repl) printHelp() {
	fmt.Println(`commands:
  cart                show the cart
  add <gameID> [qty]  add a game to the cart
  inc <itemID>        increase a line's quantity
  dec <itemID>        decrease a line's quantity
  rm <itemID>         remove a line
  clear               empty the cart
  checkout            create a pending order from the cart
  orders              list your orders
  pay <orderID>       pay a pending order
  quit                leave`)
}

func (r *repl) printCart() {
	snapshot := r.store.Cart()
	if snapshot == nil || len(snapshot.Items) == 0 {
		fmt.Println("your cart is empty")
		return
	}
	for _, item := range snapshot.Items {
		fmt.Printf("  [%d] %s  x%d  $%s\n", item.ID, item.Game.Title, item.Quantity, item.Subtotal.StringFixed(2))
	}
	fmt.Printf("  total: $%s (%d items)\n", snapshot.Total.StringFixed(2), snapshot.ItemCount)
}

func (r *repl) checkout(ctx context.Context) {
	if r.store.ItemCount() == 0 {
		fmt.Println("your cart is empty")
		return
	}
	order, err := r.client.Checkout(ctx, model.PaymentMethodCard)
	if err != nil {
		fmt.Println(model.UserMessage(err, "could not create the order"))
		return
	}
	fmt.Printf("order %s created, pay it with: pay %d\n", order.OrderNumber, order.ID)
	// Order placement clears the cart server-side; refresh the snapshot.
	_ = r.store.Load(ctx)
}

func (r *repl) printOrders(ctx context.Context) {
	orders, err := r.client.MyOrders(ctx)
	if err != nil {
		fmt.Println(model.UserMessage(err, "could not load your orders"))
		return
	}
	if len(orders) == 0 {
		fmt.Println("no orders yet")
		return
	}
	for _, o := range orders {
		fmt.Printf("  [%d] %s  %s  $%s  (%d items)\n", o.ID, o.OrderNumber, o.Status, o.TotalAmount.StringFixed(2), o.ItemCount)
	}
}

// pay runs the checkout state machine for one order.
func (r *repl) pay(ctx context.Context, orderID int64) {
	flow := checkout.New(r.client, r.notifier, r.logger, orderID)
	if err := flow.Start(ctx); err != nil {
		return
	}
	defer flow.Wait()

	order := flow.Order()
	fmt.Printf("order %s - $%s\n", order.OrderNumber, order.TotalAmount.StringFixed(2))
	for _, item := range order.Items {
		fmt.Printf("  %s  x%d  $%s\n", item.GameTitle, item.Quantity, item.Subtotal.StringFixed(2))
	}
	if !order.Status.IsPending() {
		fmt.Printf("this order is %s and can no longer be paid\n", order.Status)
		return
	}

	for {
		switch flow.Phase() {
		case checkout.PhaseAwaitingMethod:
			if !r.selectMethod(ctx, flow) {
				return
			}
		case checkout.PhaseCardForm:
			if !r.cardForm(ctx, flow) {
				return
			}
		case checkout.PhaseYapeQR:
			if !r.yapeQR(ctx, flow) {
				return
			}
		case checkout.PhaseResult:
			result := flow.Result()
			if result.Completed() {
				fmt.Printf("payment successful - transaction %s\n", result.OrderNumber)
				return
			}
			fmt.Printf("payment failed: %s\n", result.Message)
			if r.choose("retry? (y/n)") == "y" {
				_ = flow.Retry()
				continue
			}
			return
		default:
			return
		}
	}
}

// selectMethod returns false when the user abandons the flow.
func (r *repl) selectMethod(ctx context.Context, flow *checkout.Checkout) bool {
	switch r.choose("method (card/yape/cancel)") {
	case "card":
		return r.report(flow.SelectMethod(model.PaymentMethodCard))
	case "yape":
		if !r.report(flow.SelectMethod(model.PaymentMethodYape)) {
			return false
		}
		if _, err := flow.GenerateQR(ctx); err != nil {
			return true // back at method selection, let the user retry
		}
		return true
	case "cancel":
		_ = flow.Cancel(ctx)
		fmt.Println("returning to the cart")
		return false
	}
	return true
}

func (r *repl) cardForm(ctx context.Context, flow *checkout.Checkout) bool {
	details := model.CardDetails{
		CardNumber:  r.prompt("card number"),
		CardHolder:  r.prompt("card holder"),
		ExpiryMonth: r.prompt("expiry month"),
		ExpiryYear:  r.prompt("expiry year"),
		CVV:         r.prompt("cvv"),
	}
	if !r.report(flow.EnterCard(details)) {
		return false
	}
	_, err := flow.SubmitCard(ctx)
	return r.report(err)
}

func (r *repl) yapeQR(ctx context.Context, flow *checkout.Checkout) bool {
	qr := flow.QR()
	fmt.Printf("scan with Yape: %s\n  code %s - S/ %s\n", qr.QRCodeData, qr.PaymentCode, qr.Amount.StringFixed(2))
	switch r.choose("paid? (yes/new/cancel)") {
	case "yes":
		_, _ = flow.ConfirmQR(ctx) // failure keeps the QR for another try
		return true
	case "new":
		_ = flow.DiscardQR()
		_, _ = flow.GenerateQR(ctx)
		return true
	case "cancel":
		_ = flow.Cancel(ctx)
		fmt.Println("returning to the cart")
		return false
	}
	return true
}

func (r *repl) prompt(label string) string {
	fmt.Printf("%s: ", label)
	if !r.in.Scan() {
		return ""
	}
	return strings.TrimSpace(r.in.Text())
}

// choose prompts and normalises the answer for comparison.
func (r *repl) choose(label string) string {
	return strings.ToLower(r.prompt(label))
}

func (r *repl) withIDArg(args []string, fn func(id int64)) {
	if len(args) == 0 {
		fmt.Println("missing id argument")
		return
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Printf("invalid id %q\n", args[0])
		return
	}
	fn(id)
}

// report prints client-side rule violations; server-side failures have
// already been surfaced through the notifier.
func (r *repl) report(err error) bool {
	if err != nil {
		fmt.Println(err)
		return false
	}
	return true
}
