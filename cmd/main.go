package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shuldan/emitter/pkg/config"
	"github.com/shuldan/emitter/pkg/contracts"
	"github.com/shuldan/emitter/pkg/emitter"
	"github.com/shuldan/emitter/pkg/logger"
	"github.com/shuldan/emitter/pkg/loop"
)

type UserEvent struct {
	Username string
}

type UserCreated struct {
	UserEvent
	Role string
}

type PostPublished struct {
	ID   int
	Text string
}

type AuditListener struct {
	log contracts.Logger
}

func (a *AuditListener) Handle(_ context.Context, e *UserEvent) error {
	a.log.Info("audit", "user", e.Username)
	return nil
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(config.NewChainLoader(
		config.NewYamlConfigLoader("config.yaml", "config.yml"),
		config.NewEnvConfigLoader("EMITTER_"),
	))
	if err != nil {
		return err
	}

	logOpts, err := logger.FromConfig(cfg, os.Stdout)
	if err != nil {
		return err
	}
	log, err := logger.NewLogger(append(logOpts, logger.WithColor())...)
	if err != nil {
		return err
	}

	bus := emitter.New(append(emitter.FromConfig(cfg), emitter.WithLogger(log))...)
	ui := loop.New(append(loop.FromConfig(cfg), loop.WithLogger(log))...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return ui.Run(gctx)
	})
	g.Go(func() error {
		defer ui.Stop()
		<-ui.Ready()
		return demo(gctx, bus, ui, log)
	})

	return g.Wait()
}

func demo(ctx context.Context, bus *emitter.Emitter, ui *loop.Loop, log contracts.Logger) error {
	audit, err := emitter.Handler(&AuditListener{log: log})
	if err != nil {
		return err
	}
	if _, err = bus.On(ctx, emitter.Event[UserEvent](), audit.Named("audit")); err != nil {
		return err
	}

	admins := emitter.Func(func(_ context.Context, e *UserCreated) error {
		log.Info("admin created", "user", e.Username)
		return nil
	}).Named("admins")
	if _, err = bus.On(ctx, emitter.Event[UserCreated](), admins, emitter.Scope("admin")); err != nil {
		return err
	}

	render := emitter.Async(func(ctx context.Context, e *PostPublished) contracts.Awaitable {
		return ui.Go(ctx, func(ctx context.Context) error {
			log.Info("rendered post", "id", e.ID, "loop", fmt.Sprint(loop.Current(ctx)))
			return nil
		})
	}).Named("render")
	if _, err = bus.On(ctx, emitter.Event[PostPublished](), render, emitter.Bind(ui)); err != nil {
		return err
	}

	if _, err = bus.On(ctx, emitter.Event[emitter.ListenerError](), emitter.Func(func(_ context.Context, e *emitter.ListenerError) error {
		log.Warn("listener failed", "listener", e.Listener.String(), "error", e.Err)
		return nil
	})); err != nil {
		return err
	}

	err = bus.Within(ctx, func(ctx context.Context) error {
		_, err := bus.On(ctx, emitter.ScopeKey("admin"), emitter.Func(func(context.Context, any) error {
			return fmt.Errorf("session expired")
		}).Named("session"))
		if err != nil {
			return err
		}
		_, err = bus.Emit(ctx, &UserCreated{UserEvent: UserEvent{Username: "alice"}, Role: "admin"}, emitter.Scope("admin"))
		return err
	})
	if err != nil {
		return err
	}

	waitCtx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()

	waited := make(chan error, 1)
	go func() {
		post, err := emitter.WaitFor[*PostPublished](waitCtx, bus)
		if err == nil {
			log.Info("waited for post", "id", post.ID)
		}
		waited <- err
	}()

	for {
		listeners, err := bus.Retrieve(emitter.Event[PostPublished]())
		if err != nil {
			return err
		}
		if len(listeners) > 1 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	mode, err := bus.Emit(ctx, PostPublished{ID: 1, Text: "hello"})
	if err != nil {
		return err
	}
	log.Info("post emitted", "handled", mode.String())

	return <-waited
}
