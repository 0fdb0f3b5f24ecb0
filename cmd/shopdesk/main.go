// shopdesk is the operator console for the shop-registration platform: agents
// register and edit shops from it, admins review verification and manage the
// agent roster.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/kolamarket/shopdesk/internal/api"
	"github.com/kolamarket/shopdesk/internal/auth"
	"github.com/kolamarket/shopdesk/internal/events"
	"github.com/kolamarket/shopdesk/internal/session"
	"github.com/kolamarket/shopdesk/internal/verify"
	"github.com/kolamarket/shopdesk/pkg/config"
	pkgerrors "github.com/kolamarket/shopdesk/pkg/errors"
	"github.com/kolamarket/shopdesk/pkg/logger"
)

const usage = `usage: shopdesk <command> [flags]

Session:
  login         authenticate and persist the session
  logout        clear the persisted session
  me            show the current user's profile
  profile       update the current user's profile

Shops:
  shops list    list all shops, with filters
  shops mine    list the shops you created
  shops show    show one shop in full
  shops logs    show a shop's activity log
  shops create  register a new shop
  shops update  edit an existing shop
  approve       verify a shop
  reject        reject a shop with a reason
  revoke        withdraw a shop's verification

Agents (admin):
  agents list   list registered agents
  agents create onboard a new agent
  agents update edit an agent record

Other:
  stats         show the dashboard counters
  watch         poll for shops awaiting review until interrupted
`

type app struct {
	cfg      *config.Config
	logg     *logger.Logger
	client   *api.Client
	sess     *session.Session
	bus      *events.Bus
	workflow *verify.Workflow
	out      io.Writer
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "shopdesk: %v\n", err)
		os.Exit(1)
	}
	logg := logger.New(logger.Options{
		ServiceName: "shopdesk",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "startup failed", err)
		fmt.Fprintf(os.Stderr, "shopdesk: %v\n", err)
		os.Exit(1)
	}

	if err := a.run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "shopdesk: %s\n", userMessage(err))
		os.Exit(1)
	}
}

func newApp(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*app, error) {
	store, err := newTokenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	client, err := api.NewClient(cfg.API, store, logg)
	if err != nil {
		return nil, err
	}
	sess, err := session.New(session.Params{API: client, Logger: logg})
	if err != nil {
		return nil, err
	}
	bus := events.NewBus()
	workflow, err := verify.NewWorkflow(verify.WorkflowParams{API: client, Bus: bus, Logger: logg})
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:      cfg,
		logg:     logg,
		client:   client,
		sess:     sess,
		bus:      bus,
		workflow: workflow,
		out:      os.Stdout,
	}, nil
}

func newTokenStore(ctx context.Context, cfg *config.Config) (auth.TokenStore, error) {
	if cfg.TokenStore.Backend == config.TokenStoreRedis {
		return auth.NewRedisStore(ctx, cfg.Redis)
	}
	return auth.NewFileStore(cfg.TokenStore.FilePath)
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		fmt.Fprint(a.out, usage)
		return nil
	}

	switch args[0] {
	case "login":
		return a.cmdLogin(ctx, args[1:])
	case "logout":
		return a.cmdLogout(ctx)
	case "me":
		return a.cmdMe(ctx)
	case "profile":
		return a.cmdProfile(ctx, args[1:])
	case "shops":
		return a.runShops(ctx, args[1:])
	case "approve":
		return a.cmdApprove(ctx, args[1:])
	case "reject":
		return a.cmdReject(ctx, args[1:])
	case "revoke":
		return a.cmdRevoke(ctx, args[1:])
	case "agents":
		return a.runAgents(ctx, args[1:])
	case "stats":
		return a.cmdStats(ctx)
	case "watch":
		return a.cmdWatch(ctx)
	case "help", "-h", "--help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown command %q, run shopdesk help", args[0]))
	}
}

func (a *app) runShops(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "shops needs a subcommand: list, mine, show, logs, create, update")
	}
	switch args[0] {
	case "list":
		return a.cmdShopsList(ctx, args[1:], false)
	case "mine":
		return a.cmdShopsList(ctx, args[1:], true)
	case "show":
		return a.cmdShopShow(ctx, args[1:])
	case "logs":
		return a.cmdShopLogs(ctx, args[1:])
	case "create":
		return a.cmdShopCreate(ctx, args[1:])
	case "update":
		return a.cmdShopUpdate(ctx, args[1:])
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown shops subcommand %q", args[0]))
	}
}

func (a *app) runAgents(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "agents needs a subcommand: list, create, update")
	}
	switch args[0] {
	case "list":
		return a.cmdAgentsList(ctx)
	case "create":
		return a.cmdAgentCreate(ctx, args[1:])
	case "update":
		return a.cmdAgentUpdate(ctx, args[1:])
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown agents subcommand %q", args[0]))
	}
}

// hydrate restores the persisted session before a command that needs one.
func (a *app) hydrate(ctx context.Context) error {
	ok, err := a.sess.Hydrate(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "not logged in, run shopdesk login first")
	}
	return nil
}

func userMessage(err error) string {
	if typed := pkgerrors.As(err); typed != nil {
		return typed.UserMessage()
	}
	return err.Error()
}
