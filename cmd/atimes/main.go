package main

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/desertwitch/atimes/internal/atime"
	"github.com/desertwitch/atimes/internal/configuration"
	"github.com/desertwitch/atimes/internal/fingerprint"
	"github.com/desertwitch/atimes/internal/report"
	"github.com/desertwitch/atimes/internal/scan"
	"github.com/desertwitch/atimes/internal/schema"
	"github.com/desertwitch/atimes/internal/ui"
	"github.com/desertwitch/atimes/internal/walker"
	"github.com/lmittmann/tint"
)

const (
	stackTraceBufMax = 1 << 24
)

//nolint:gochecknoglobals
var (
	ExitCode = 0
	Version  string

	recursive  = flag.Bool("recursive", false, "descend into subdirectories")
	directory  = flag.String("directory", ".", "root directory to scan")
	staleAfter = flag.Duration("stale", 0, "report only files not accessed within this duration")
	showAge    = flag.Bool("age", false, "append a relative age to every reported file")
	withSum    = flag.Bool("sum", false, "append a BLAKE3 content fingerprint to every reported file")
	uiEnabled  = flag.Bool("ui", false, "enable the UI")
	configFile = flag.String("config", "", "path to an optional configuration file")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	memprofile = flag.String("memprofile", "", "write memory profile to this file")
)

// setupShorthands registers the short flag forms onto the same destinations
// as their long counterparts.
func setupShorthands() {
	flag.BoolVar(recursive, "r", false, "shorthand for -recursive")
	flag.StringVar(directory, "d", ".", "shorthand for -directory")
}

func setupLogging(writer io.Writer) {
	slog.SetDefault(slog.New(
		tint.NewHandler(writer, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
		}),
	))
}

func setupSignalHandlers(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	go func() {
		<-sigChan
		cancel()
	}()

	sigChan2 := make(chan os.Signal, 1)
	signal.Notify(sigChan2, syscall.SIGUSR1)
	go func() {
		for range sigChan2 {
			buf := make([]byte, stackTraceBufMax)
			stacklen := runtime.Stack(buf, true)
			os.Stderr.Write(buf[:stacklen])
		}
	}()
}

// applyConfiguration overlays values from an optional configuration file onto
// any flags the user did not set explicitly on the command line.
func applyConfiguration(configHandler *configuration.Handler, path string) error {
	envMap, err := configHandler.ReadFile(path)
	if err != nil {
		return err
	}

	explicit := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		explicit[f.Name] = true
	})

	if !explicit["directory"] && !explicit["d"] {
		if value := configHandler.MapKeyToString(envMap, configuration.KeyDirectory); value != "" {
			*directory = value
		}
	}
	if !explicit["recursive"] && !explicit["r"] {
		*recursive = configHandler.MapKeyToBool(envMap, configuration.KeyRecursive)
	}
	if !explicit["stale"] {
		*staleAfter = configHandler.MapKeyToDuration(envMap, configuration.KeyStaleAfter)
	}
	if !explicit["age"] {
		*showAge = configHandler.MapKeyToBool(envMap, configuration.KeyShowAge)
	}
	if !explicit["sum"] {
		*withSum = configHandler.MapKeyToBool(envMap, configuration.KeyFingerprint)
	}
	if !explicit["ui"] {
		*uiEnabled = configHandler.MapKeyToBool(envMap, configuration.KeyUI)
	}

	return nil
}

func startApp(ctx context.Context, wg *sync.WaitGroup, app *App) {
	defer wg.Done()

	if app.uiHandler != nil {
		slog.Info("Waiting for UI...")
		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			if app.uiHandler.Ready.Load() || app.uiHandler.Failed.Load() {
				break
			}
		}
	}

	if err := app.Launch(ctx); err != nil {
		slog.Error("Failure during scan.", "err", err)
		ExitCode = 1
	}
}

func startUI(wg *sync.WaitGroup, app *App) {
	defer wg.Done()

	if app.uiHandler != nil {
		defer setupLogging(os.Stdout)

		if err := app.LaunchUI(); err != nil {
			slog.Error("UI failure: falling back to terminal.", "err", err)
		}
	}
}

func main() {
	defer func() {
		os.Exit(ExitCode)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	setupShorthands()
	flag.Parse()
	setupLogging(os.Stdout)
	setupSignalHandlers(cancel)

	memObserver := newMemoryObserver(ctx)
	defer memObserver.Stop()

	cpuProfiler := newCPUProfiler(ctx, cpuprofile)
	defer cpuProfiler.Stop()

	allocProfiler := newAllocProfiler(ctx, memprofile)
	defer allocProfiler.Stop()

	osProvider := &schema.OS{}
	unixProvider := &schema.Unix{}
	configProvider := &configuration.GodotenvProvider{}

	configHandler := configuration.NewHandler(configProvider)
	if *configFile != "" {
		if err := applyConfiguration(configHandler, *configFile); err != nil {
			slog.Error("Failed to read the configuration file.",
				"err", err,
			)
			ExitCode = 1

			return
		}
	}

	walkHandler := walker.NewHandler(osProvider, unixProvider)
	atimeHandler := atime.NewHandler(osProvider)
	fingerprintHandler := fingerprint.NewHandler(osProvider)
	tracker := scan.NewTracker()

	var uiHandler *ui.Handler
	var writer io.Writer = os.Stdout

	if *uiEnabled {
		uiHandler = ui.NewHandler(ctx, cancel, tracker)
		writer = uiHandler.LogWriter
		setupLogging(uiHandler.LogWriter)
	}

	reportHandler := report.NewHandler(atimeHandler, fingerprintHandler, walkHandler, osProvider, tracker, writer,
		report.Options{
			ShowAge:     *showAge,
			StaleAfter:  *staleAfter,
			Fingerprint: *withSum,
		},
	)

	var wg sync.WaitGroup
	app := NewApp(*directory, *recursive, walkHandler, reportHandler, uiHandler)

	wg.Add(1)
	go startUI(&wg, app)

	wg.Add(1)
	go startApp(ctx, &wg, app)

	wg.Wait()
}
