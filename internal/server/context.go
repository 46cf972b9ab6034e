package server

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/teemow/timewise/internal/analytics"
	"github.com/teemow/timewise/internal/availability"
	"github.com/teemow/timewise/internal/calendar"
	"github.com/teemow/timewise/internal/config"
	"github.com/teemow/timewise/internal/focustime"
	"github.com/teemow/timewise/internal/google"
	"github.com/teemow/timewise/internal/ics"
	"github.com/teemow/timewise/internal/instrumentation"
	"github.com/teemow/timewise/internal/logging"
)

// DefaultAccount is used when a request names no account.
const DefaultAccount = "default"

// SourceFactory opens the event source of an account.
type SourceFactory func(ctx context.Context, account string) (calendar.EventSource, error)

// AccountServices bundles everything the tools need for one account.
type AccountServices struct {
	Account  string
	Source   *calendar.InstrumentedSource
	Engine   *availability.Engine
	Reporter *analytics.Reporter
	Planner  *focustime.Planner
}

// ServerContext holds the configuration and per-account services shared by
// the CLI and the MCP server.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	cfg         *config.Config
	loc         *time.Location
	logger      *slog.Logger
	factory     SourceFactory
	sourceName  string
	now         func() time.Time
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	services    map[string]*AccountServices
	mu          sync.RWMutex
	shutdown    bool
}

// Option configures a ServerContext.
type Option func(*ServerContext)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(sc *ServerContext) {
		if logger != nil {
			sc.logger = logger
		}
	}
}

// WithSourceFactory replaces the configured calendar backend.
func WithSourceFactory(name string, factory SourceFactory) Option {
	return func(sc *ServerContext) {
		sc.sourceName = name
		sc.factory = factory
	}
}

// WithClock overrides time.Now for every service.
func WithClock(now func() time.Time) Option {
	return func(sc *ServerContext) {
		if now != nil {
			sc.now = now
		}
	}
}

// NewServerContext creates a ServerContext for cfg. Calendar sources are
// opened lazily on first use of an account.
func NewServerContext(ctx context.Context, cfg *config.Config, opts ...Option) (*ServerContext, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	sc := &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		cfg:      cfg,
		loc:      loc,
		logger:   slog.Default(),
		now:      time.Now,
		services: make(map[string]*AccountServices),
	}
	for _, opt := range opts {
		opt(sc)
	}

	if sc.factory == nil {
		sc.sourceName = cfg.Calendar.Source
		sc.factory, err = defaultSourceFactory(cfg, loc, sc.logger)
		if err != nil {
			cancel()
			return nil, err
		}
	}
	return sc, nil
}

func defaultSourceFactory(cfg *config.Config, loc *time.Location, logger *slog.Logger) (SourceFactory, error) {
	switch cfg.Calendar.Source {
	case config.SourceICS:
		// Feeds are shared by every account.
		cal, err := ics.NewCalendar(cfg.ICS.Sources, ics.NewFetcher(cfg.ICS.CacheDir, logger), loc, logger)
		if err != nil {
			return nil, err
		}
		return func(context.Context, string) (calendar.EventSource, error) {
			return cal, nil
		}, nil

	case config.SourceGoogle:
		tokenDir := cfg.Calendar.TokenDir
		if tokenDir == "" {
			tokenDir = google.DefaultTokenDir()
		}
		provider := google.NewFileTokenProvider(tokenDir)
		creds := google.Credentials{ClientID: cfg.Google.ClientID, ClientSecret: cfg.Google.ClientSecret}
		return func(ctx context.Context, account string) (calendar.EventSource, error) {
			if !provider.HasTokenForAccount(account) {
				return nil, fmt.Errorf("no Google token for account %q; expected %s",
					account, google.TokenFilePath(provider.Dir(), account))
			}
			client, err := calendar.NewClient(ctx, account, cfg.Calendar.ID, provider, creds)
			if err != nil {
				return nil, err
			}
			client.SetLocation(loc)
			return client, nil
		}, nil
	}
	return nil, fmt.Errorf("unknown calendar source %q", cfg.Calendar.Source)
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the loaded configuration.
func (sc *ServerContext) Config() *config.Config {
	return sc.cfg
}

// Location returns the zone used for working hours and day boundaries.
func (sc *ServerContext) Location() *time.Location {
	return sc.loc
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Now returns the current time of the server clock.
func (sc *ServerContext) Now() time.Time {
	return sc.now()
}

// ServicesForAccount returns the services of account, opening its calendar
// on first use. An empty account means DefaultAccount.
func (sc *ServerContext) ServicesForAccount(ctx context.Context, account string) (*AccountServices, error) {
	if account == "" {
		account = DefaultAccount
	}

	sc.mu.RLock()
	svc, ok := sc.services[account]
	shutdown := sc.shutdown
	sc.mu.RUnlock()
	if shutdown {
		return nil, fmt.Errorf("server is shutting down")
	}
	if ok {
		return svc, nil
	}

	// Long-lived clients are bound to the server context, not the request.
	src, err := sc.factory(sc.ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to open calendar for account %s: %w", account, err)
	}
	svc = sc.newAccountServices(account, src)

	sc.mu.Lock()
	defer sc.mu.Unlock()
	if existing, ok := sc.services[account]; ok {
		return existing, nil
	}
	sc.services[account] = svc
	sc.logger.Debug("opened calendar", logging.Account(account), logging.Source(sc.sourceName))
	return svc, nil
}

func (sc *ServerContext) newAccountServices(account string, src calendar.EventSource) *AccountServices {
	logger := sc.logger.With(logging.Account(account))
	metrics := sc.Metrics()
	inst := calendar.NewInstrumentedSource(src, instrumentation.NormalizeSource(sc.sourceName), metrics, logger)

	return &AccountServices{
		Account: account,
		Source:  inst,
		Engine: availability.NewEngine(calendar.BusyReader(inst, sc.cfg.Calendar.AllDayBusy),
			availability.WithLocation(sc.loc),
			availability.WithClock(sc.now),
			availability.WithConcurrency(sc.cfg.Engine.Concurrency),
			availability.WithLogger(logger),
			availability.WithMetrics(metrics),
		),
		Reporter: analytics.NewReporter(inst,
			analytics.WithLocation(sc.loc),
			analytics.WithClock(sc.now),
			analytics.WithLogger(logger),
		),
		Planner: focustime.NewPlanner(inst, inst,
			focustime.WithLocation(sc.loc),
			focustime.WithClock(sc.now),
			focustime.WithLogger(logger),
		),
	}
}

// SetMetrics sets the metrics recorder. Services opened afterwards use it.
func (sc *ServerContext) SetMetrics(m *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = m
}

// Metrics returns the metrics recorder, or nil.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger sets the audit logger for tool invocations.
func (sc *ServerContext) SetAuditLogger(al *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = al
}

// AuditLogger returns the audit logger, or nil.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}

// SourceName names the calendar backend, e.g. google or ics.
func (sc *ServerContext) SourceName() string {
	return sc.sourceName
}

// Accounts lists the accounts opened so far, sorted.
func (sc *ServerContext) Accounts() []string {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	accounts := make([]string, 0, len(sc.services))
	for a := range sc.services {
		accounts = append(accounts, a)
	}
	sort.Strings(accounts)
	return accounts
}
