package host

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/ukaji3/remarksync-go/internal/logutil"
)

// State is the lifecycle state of a Manager.
type State int

const (
	StateIdle State = iota
	StateAcquiring
	StateActive
	StateTearingDown
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAcquiring:
		return "acquiring"
	case StateActive:
		return "active"
	case StateTearingDown:
		return "tearing-down"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Launcher starts a new application instance.
type Launcher func(opts LaunchOptions) (Application, error)

// Config controls how a Manager prepares and cleans up the host.
type Config struct {
	// ProcessName is the image name force-terminated before launch and after
	// release. Empty disables process termination.
	ProcessName string
	// CacheDir holds stale automation artifacts cleared before launch.
	CacheDir string
	// KillSettle is waited after terminating processes on acquire.
	KillSettle time.Duration
	// ReleaseSettle is waited after terminating processes on release.
	ReleaseSettle time.Duration
	Launch        LaunchOptions
}

// DefaultConfig returns the settings used for a desktop Excel host.
func DefaultConfig() Config {
	cfg := Config{
		KillSettle:    time.Second,
		ReleaseSettle: 500 * time.Millisecond,
		Launch:        QuietLaunch,
	}
	if runtime.GOOS == "windows" {
		cfg.ProcessName = "EXCEL.EXE"
		if tmp := os.Getenv("TEMP"); tmp != "" {
			cfg.CacheDir = filepath.Join(tmp, "gen_py")
		}
	}
	return cfg
}

// Option configures a Manager.
type Option func(*Manager)

// WithLauncher sets the function that starts the application.
func WithLauncher(l Launcher) Option {
	return func(m *Manager) { m.launch = l }
}

// WithReaper sets the process terminator.
func WithReaper(r Reaper) Option {
	return func(m *Manager) { m.reaper = r }
}

// WithSleep replaces time.Sleep for settle delays.
func WithSleep(sleep func(time.Duration)) Option {
	return func(m *Manager) { m.sleep = sleep }
}

// WithLogger sets the logger. Nil discards.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// Manager owns the host application for the duration of one operation.
// A Manager runs one session at a time; concurrent Run calls wait.
type Manager struct {
	cfg    Config
	launch Launcher
	reaper Reaper
	sleep  func(time.Duration)
	log    *slog.Logger

	run sync.Mutex // held for a whole session

	mu       sync.Mutex
	state    State
	teardown []error
}

// NewManager returns an idle manager. Without WithLauncher it starts the
// excelize-backed application.
func NewManager(cfg Config, opts ...Option) *Manager {
	m := &Manager{
		cfg:    cfg,
		launch: ExcelLauncher(""),
		reaper: CommandReaper{},
		sleep:  time.Sleep,
		log:    logutil.Discard(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// TeardownErrors returns the failures swallowed while releasing the host in
// the last session.
func (m *Manager) TeardownErrors() []error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]error(nil), m.teardown...)
}

func (m *Manager) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
	m.log.Debug("host session state", "state", s.String())
}

// Run acquires the host, calls fn with it and releases the host whatever fn
// returns, including on panic. Teardown failures never replace fn's error.
func (m *Manager) Run(fn func(app Application) error) (err error) {
	m.run.Lock()
	defer m.run.Unlock()

	m.mu.Lock()
	m.teardown = nil
	m.mu.Unlock()

	app, err := m.acquire()
	defer m.release(app)
	if err != nil {
		return err
	}

	m.setState(StateActive)
	return fn(app)
}

func (m *Manager) acquire() (Application, error) {
	m.setState(StateAcquiring)

	if m.cfg.CacheDir != "" {
		removed, errs := ClearCache(m.cfg.CacheDir)
		for _, e := range errs {
			m.log.Debug("cache entry not removed", "dir", m.cfg.CacheDir, "error", e)
		}
		m.log.Debug("host cache cleared", "dir", m.cfg.CacheDir, "removed", removed)
	}

	if m.cfg.ProcessName != "" {
		if err := m.reaper.Kill(m.cfg.ProcessName); err != nil {
			m.log.Debug("terminating stale host processes", "process", m.cfg.ProcessName, "error", err)
		}
		m.sleep(m.cfg.KillSettle)
	}

	if m.launch == nil {
		return nil, &StepError{Step: "launch", Err: fmt.Errorf("no launcher configured")}
	}
	app, err := m.launch(m.cfg.Launch)
	if err != nil {
		return nil, &StepError{Step: "launch", Err: err}
	}
	m.log.Info("host application started")
	return app, nil
}

func (m *Manager) release(app Application) {
	m.setState(StateTearingDown)
	defer m.setState(StateIdle)

	record := func(step string, err error) {
		if err == nil {
			return
		}
		se := &StepError{Step: step, Err: err}
		m.log.Debug("host teardown step failed", "step", step, "error", err)
		m.mu.Lock()
		m.teardown = append(m.teardown, se)
		m.mu.Unlock()
	}

	if app != nil {
		record("disable alerts", app.SetDisplayAlerts(false))
		record("quit", app.Quit())
		record("release", app.Release())
	}
	if m.cfg.ProcessName != "" {
		record("terminate", m.reaper.Kill(m.cfg.ProcessName))
		m.sleep(m.cfg.ReleaseSettle)
	}
	m.log.Info("host application released")
}
