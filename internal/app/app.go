// Package app implements the application layer for compdb.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/compdb/internal/adapters/watcher" //nolint:depguard // Debouncing is shared with the adapter
	"go.trai.ch/compdb/internal/core/domain"
	"go.trai.ch/compdb/internal/core/ports"
	"go.trai.ch/compdb/internal/engine/generator"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// PhaseWrite is the span name of the output phase.
const PhaseWrite = "write"

// App represents the main application logic.
type App struct {
	configLoader ports.ConfigLoader
	detector     ports.TargetDetector
	generator    *generator.Generator
	writer       ports.DatabaseWriter
	logger       ports.Logger
	tracer       ports.Tracer
	newWatcher   ports.WatcherFactory
	debounce     time.Duration
}

// New creates a new App instance.
func New(
	loader ports.ConfigLoader,
	detector ports.TargetDetector,
	gen *generator.Generator,
	writer ports.DatabaseWriter,
	log ports.Logger,
	tracer ports.Tracer,
	newWatcher ports.WatcherFactory,
) *App {
	return &App{
		configLoader: loader,
		detector:     detector,
		generator:    gen,
		writer:       writer,
		logger:       log,
		tracer:       tracer,
		newWatcher:   newWatcher,
		debounce:     watcher.DefaultDebounceWindow,
	}
}

// WithDebounce sets the window used to coalesce file events in watch mode.
func (a *App) WithDebounce(window time.Duration) *App {
	a.debounce = window
	return a
}

// GenerateOptions configures a generation run. Empty fields fall back to the
// config file and then to the built-in defaults.
type GenerateOptions struct {
	Root      string
	Target    string
	BuildBase string
	Output    string
}

// Result describes a finished generation run.
type Result struct {
	Target   string
	Root     string
	BuildDir string
	domain.WriteResult
}

// plan is the fully resolved input of a generation run.
type plan struct {
	root     string
	target   domain.Target
	buildDir string
	output   string
}

// Generate writes the compilation database once.
func (a *App) Generate(ctx context.Context, opts GenerateOptions) (Result, error) {
	p, err := a.resolve(opts)
	if err != nil {
		return Result{}, err
	}
	return a.generate(ctx, p)
}

// Targets returns the supported targets in declaration order.
func (a *App) Targets() []domain.Target {
	return domain.Targets()
}

// ConfigureLogging switches the logger between pretty and JSON output and
// enables debug messages when verbose is set.
func (a *App) ConfigureLogging(jsonMode, verbose bool) {
	if l, ok := a.logger.(interface{ SetJSON(bool) }); ok {
		l.SetJSON(jsonMode)
	}
	if l, ok := a.logger.(interface{ SetVerbose(bool) }); ok {
		l.SetVerbose(verbose)
	}
}

func (a *App) resolve(opts GenerateOptions) (plan, error) {
	root, err := resolveRoot(opts.Root)
	if err != nil {
		return plan{}, err
	}

	settings, err := a.configLoader.Load(root)
	if err != nil {
		return plan{}, zerr.Wrap(err, "failed to load configuration")
	}
	if settings.Path != "" {
		a.logger.Debug("Using settings from " + settings.Path)
	}

	name, err := a.selectTarget(root, opts.Target, settings.Target)
	if err != nil {
		return plan{}, err
	}
	target, err := domain.LookupTarget(name)
	if err != nil {
		return plan{}, err
	}

	buildBase, err := firstPath(opts.BuildBase, settings.BuildBase, domain.DefaultBuildBase(root))
	if err != nil {
		return plan{}, err
	}

	output := opts.Output
	if output != "" && !filepath.IsAbs(output) {
		output = filepath.Join(root, output)
	}
	if output == "" {
		output = settings.Output
	}
	if output == "" {
		output = domain.DefaultOutputPath(root)
	}

	return plan{
		root:     root,
		target:   target,
		buildDir: domain.BuildDir(buildBase, target.Name),
		output:   output,
	}, nil
}

func resolveRoot(root string) (string, error) {
	if root == "" {
		root = "."
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrFailedToGetRoot.Error()), "root", root)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.IsDir() {
		return "", zerr.With(domain.ErrRootNotDirectory, "root", abs)
	}
	return abs, nil
}

// firstPath returns the first non-empty candidate as an absolute path.
func firstPath(candidates ...string) (string, error) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		abs, err := filepath.Abs(c)
		if err != nil {
			return "", zerr.With(zerr.Wrap(err, "failed to resolve path"), "path", c)
		}
		return abs, nil
	}
	return "", nil
}

// selectTarget picks the target name: explicit argument, then config file,
// then the first built target, then the default.
func (a *App) selectTarget(root, explicit, configured string) (string, error) {
	if explicit != "" {
		return explicit, nil
	}
	if configured != "" {
		a.logger.Info(fmt.Sprintf("Using target from %s: %s", domain.ConfigFileName, configured))
		return configured, nil
	}

	scan, err := a.detector.BuiltTargets(root)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrDetectFailed.Error())
	}

	switch {
	case !scan.DirExists:
		a.logger.Info("No bin directory found, using default target: " + domain.DefaultTargetName)
		return domain.DefaultTargetName, nil
	case len(scan.Targets) == 0:
		a.logger.Info("No build detected, using default target: " + domain.DefaultTargetName)
		return domain.DefaultTargetName, nil
	}

	detected := scan.Targets[0]
	if len(scan.Targets) > 1 {
		a.logger.Warn(fmt.Sprintf("Multiple builds detected (%s), using %s",
			strings.Join(scan.Targets, ", "), detected))
	}
	a.logger.Info("Auto-detected target: " + detected)
	return detected, nil
}

func (a *App) generate(ctx context.Context, p plan) (Result, error) {
	a.logger.Info("Generating " + domain.OutputFileName + " for target: " + p.target.Name)
	a.logger.Info("AROS root: " + p.root)
	a.logger.Info("Build directory: " + p.buildDir)

	commands, err := a.generator.Generate(ctx, generator.Request{
		Root:     p.root,
		BuildDir: p.buildDir,
		Target:   p.target,
	})
	if err != nil {
		return Result{}, err
	}

	written, err := a.write(ctx, p.output, commands)
	if err != nil {
		return Result{}, err
	}

	if written.Unchanged {
		a.logger.Info(fmt.Sprintf("%s is up to date with %d entries", written.Path, written.Entries))
	} else {
		a.logger.Info(fmt.Sprintf("Generated %s with %d entries", written.Path, written.Entries))
	}

	return Result{
		Target:      p.target.Name,
		Root:        p.root,
		BuildDir:    p.buildDir,
		WriteResult: written,
	}, nil
}

func (a *App) write(ctx context.Context, output string, commands []domain.CompileCommand) (domain.WriteResult, error) {
	_, span := a.tracer.Start(ctx, PhaseWrite)
	defer span.End()

	written, err := a.writer.Write(output, commands)
	if err != nil {
		span.RecordError(err)
		return domain.WriteResult{}, err
	}
	span.SetAttribute("entries", written.Entries)
	span.SetAttribute("unchanged", written.Unchanged)
	return written, nil
}

// Watch generates once and then regenerates whenever source files or
// directories are added, removed or renamed below the scan directories.
// It returns nil when ctx is canceled.
func (a *App) Watch(ctx context.Context, opts GenerateOptions) error {
	p, err := a.resolve(opts)
	if err != nil {
		return err
	}
	if _, err := a.generate(ctx, p); err != nil {
		return err
	}

	w, err := a.newWatcher()
	if err != nil {
		return zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}
	defer func() {
		_ = w.Stop()
	}()

	dirs := make([]string, 0, len(domain.ScanDirs()))
	for _, dir := range domain.ScanDirs() {
		dirs = append(dirs, filepath.Join(p.root, dir))
	}
	if err := w.Start(ctx, dirs); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "root", p.root)
	}
	a.logger.Info("Watching for source changes, press Ctrl-C to stop")

	trigger := make(chan []string, 1)
	debouncer := watcher.NewDebouncer(a.debounce, func(paths []string) {
		select {
		case trigger <- paths:
		default:
			// A regeneration is already queued and will see these changes.
		}
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		for event := range w.Events() {
			if relevant(event) {
				debouncer.Add(event.Path)
			}
		}
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case paths := <-trigger:
				a.logger.Info(fmt.Sprintf("Detected %d changed paths, regenerating", len(paths)))
				if _, err := a.generate(gctx, p); err != nil {
					if gctx.Err() != nil {
						return nil
					}
					a.logger.Error(err)
				}
			}
		}
	})

	return g.Wait()
}

// relevant reports whether an event can change the set of scanned files.
// Content writes never do. Paths without an extension are treated as
// directories, which may hold sources.
func relevant(event ports.WatchEvent) bool {
	if event.Operation == ports.OpWrite {
		return false
	}
	if domain.IsSourceFile(event.Path) {
		return true
	}
	base := filepath.Base(event.Path)
	return !strings.HasPrefix(base, ".") && filepath.Ext(base) == ""
}
