package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"

	"github.com/690486439/Orchard2/internal/config"
	"github.com/690486439/Orchard2/internal/ctxlog"
	"github.com/690486439/Orchard2/internal/extensions"
	"github.com/690486439/Orchard2/internal/monitor"
	"github.com/690486439/Orchard2/internal/placement"
	"github.com/690486439/Orchard2/internal/shell"
	"github.com/690486439/Orchard2/internal/viewengine"
	"github.com/690486439/Orchard2/internal/vfs"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	ctx        context.Context
	logger     *slog.Logger
	host       *config.Host
	fs         *vfs.IOFS
	extensions *extensions.Manager
	parser     *placement.Parser
	watcher    *monitor.Watcher
	shells     map[string]*shell.Context
}

// NewApp is the constructor for the main application. It loads the host
// configuration, discovers extensions and composes every configured shell.
// Log output goes to logW.
func NewApp(ctx context.Context, logW io.Writer, appConfig *Config, loader config.Loader) (*App, error) {
	bootLogger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	host, err := loader.LoadHost(ctxlog.WithLogger(ctx, bootLogger), appConfig.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := newLogger(
		firstNonEmpty(appConfig.LogLevel, host.LogLevel),
		firstNonEmpty(appConfig.LogFormat, host.LogFormat),
		logW,
	)
	ctx = ctxlog.WithLogger(ctx, logger)
	logger.Debug("Logger configured successfully.")

	host.ExtensionsPath = firstNonEmpty(appConfig.ExtensionsPath, host.ExtensionsPath)
	if appConfig.DisableMonitoring {
		host.DisableMonitoring = true
	}
	if len(host.Shells) == 0 {
		return nil, fmt.Errorf("no shell is configured in %s", appConfig.ConfigPath)
	}

	fs, err := vfs.NewDisk(host.ExtensionsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open extensions path: %w", err)
	}
	logger.Debug("Extensions path opened.", "path", host.ExtensionsPath)

	a := &App{
		ctx:        ctx,
		logger:     logger,
		host:       host,
		fs:         fs,
		extensions: extensions.NewManager(fs, loader),
		parser:     placement.NewParser(fs),
	}
	a.parser.DisableMonitoring = host.DisableMonitoring

	var watcher shell.Watcher
	var placementWatcher placement.Watcher
	if !host.DisableMonitoring {
		a.watcher, err = monitor.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to start file monitor: %w", err)
		}
		watcher, placementWatcher = a.watcher, a.watcher
		logger.Debug("File monitoring enabled.")
	}

	views := viewengine.NewComposite(viewengine.NewGoTemplate(fs, nil), viewengine.NewMarkdown(fs))
	shellHost := shell.NewHost(fs, a.extensions, views, placement.NewCache(fs, a.parser, placementWatcher), watcher)
	shellHost.DisableMonitoring = host.DisableMonitoring

	logger.Info("Composing shells...", "count", len(host.Shells))
	a.shells, err = shellHost.Compose(ctx, host.Shells...)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to compose shells: %w", err)
	}
	logger.Info("Shells composed.", "shells", a.ShellNames())
	return a, nil
}

// Context returns the application context carrying its logger.
func (a *App) Context() context.Context { return a.ctx }

// ShellNames returns the names of the composed shells in sorted order.
func (a *App) ShellNames() []string {
	return slices.Sorted(maps.Keys(a.shells))
}

// Shell returns the composed shell named name. An empty name selects the
// first configured shell.
func (a *App) Shell(name string) (*shell.Context, error) {
	if name == "" {
		name = a.host.Shells[0].Name
	}
	c, ok := a.shells[name]
	if !ok {
		return nil, fmt.Errorf("unknown shell %q", name)
	}
	return c, nil
}

// Extensions returns the extension catalogue.
func (a *App) Extensions() *extensions.Manager { return a.extensions }

// Close stops file monitoring.
func (a *App) Close() error {
	if a.watcher == nil {
		return nil
	}
	return a.watcher.Close()
}
