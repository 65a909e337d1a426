package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/RedBear961/qrcreator/cmd/bot"
	"github.com/RedBear961/qrcreator/internal/adapters/config"
	api "github.com/RedBear961/qrcreator/internal/adapters/controller/http"
	setupBot "github.com/RedBear961/qrcreator/internal/adapters/controller/telegram/setup"
	"github.com/RedBear961/qrcreator/internal/domain/common/errorz"
	"github.com/RedBear961/qrcreator/internal/domain/preferences"
	"github.com/RedBear961/qrcreator/internal/domain/service"
	"github.com/RedBear961/qrcreator/pkg/codegen"
	"github.com/RedBear961/qrcreator/pkg/logger"
)

const (
	httpScope = "http"
	cliScope  = "cli"
)

func waitForSignal() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

// runBot wires the Telegram front-end and polls until interrupted.
func runBot(configPath string) error {
	cfg, err := config.Get(configPath)
	if err != nil {
		return err
	}
	backends, err := cfg.Open()
	if err != nil {
		return err
	}
	defer backends.Close()

	b, err := bot.New(cfg, backends)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}
	handler := setupBot.Setup(b)

	go b.Start()
	waitForSignal()

	logger.Log.Info("Bot stopping")
	b.Stop()
	handler.Close()
	b.Close()
	return nil
}

// runServe starts the HTTP API and shuts it down gracefully on interrupt.
func runServe(configPath string) error {
	cfg, err := config.Get(configPath)
	if err != nil {
		return err
	}
	backends, err := cfg.Open()
	if err != nil {
		return err
	}
	defer backends.Close()

	apiLogger, err := logger.Named("http")
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr: fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: api.NewRouter(&api.Server{
			Prefs:   preferences.New(backends.Settings(httpScope), apiLogger),
			Log:     apiLogger,
			Version: version,
		}),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		apiLogger.Infof("HTTP server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	apiLogger.Info("HTTP server shutting down")
	return srv.Shutdown(ctx)
}

type renderOptions struct {
	text    string
	output  string
	kind    string
	size    uint
	sizeSet bool
	style   string
	level   string
}

// inline runs disk work on the calling goroutine; render exits right after saving.
type inline struct{}

func (inline) Go(fn func()) {
	fn()
}

// collectingAlerter logs alerts and keeps the first one as the command result.
type collectingAlerter struct {
	mu    sync.Mutex
	first *errorz.ReadableError
}

func (a *collectingAlerter) Alert(err *errorz.ReadableError) {
	logger.Log.Errorf("%s: %v", err.Severity, err)
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.first == nil {
		a.first = err
	}
}

// runRender generates one code with the CLI preferences, overridden by flags,
// and saves it through the image saver.
func runRender(configPath string, opts renderOptions) error {
	cfg, err := config.Get(configPath)
	if err != nil {
		return err
	}
	backends, err := cfg.Open()
	if err != nil {
		return err
	}
	defer backends.Close()

	renderLogger, err := logger.Named("render")
	if err != nil {
		return err
	}
	prefs := preferences.New(backends.Settings(cliScope), renderLogger)

	kind, err := codegen.ParseKind(opts.kind)
	if err != nil {
		return err
	}
	style := prefs.CodeStyle()
	if opts.style != "" {
		if style, err = preferences.ParseCodeStyle(opts.style); err != nil {
			return err
		}
	}
	level := prefs.QRCodeLevel()
	if opts.level != "" {
		if level, err = codegen.ParseLevel(opts.level); err != nil {
			return err
		}
	}
	size := prefs.Resolution()
	if opts.sizeSet {
		if opts.size == 0 {
			return fmt.Errorf("%w: size must be positive", errorz.ErrInvalidValue)
		}
		size = opts.size
	}

	gen, err := codegen.New(kind, style.Palette(), level)
	if err != nil {
		return err
	}
	img, err := gen.Generate(opts.text, int(size))
	if err != nil {
		return err
	}

	output := opts.output
	if output == "" {
		output = service.DefaultFileName()
	}

	alerter := &collectingAlerter{}
	saver := service.NewImageSaver(
		backends.Clipboard(cliScope),
		service.FixedLocation(output),
		alerter,
		os.Getwd,
		inline{},
		renderLogger,
	)
	saver.OnSaved(func(path string) {
		fmt.Println(path)
	})

	if err = saver.Save(img); err != nil {
		return err
	}
	if alerter.first != nil {
		return alerter.first
	}
	return nil
}
