package app_test

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/compdb/internal/adapters/compdb"
	"go.trai.ch/compdb/internal/adapters/fs"
	"go.trai.ch/compdb/internal/adapters/telemetry"
	"go.trai.ch/compdb/internal/app"
	"go.trai.ch/compdb/internal/core/domain"
	"go.trai.ch/compdb/internal/core/ports"
	"go.trai.ch/compdb/internal/core/ports/mocks"
	"go.trai.ch/compdb/internal/engine/generator"
	"go.uber.org/mock/gomock"
)

// logRecorder collects every line logged through a mock logger.
type logRecorder struct {
	mu    sync.Mutex
	lines []string
}

func (r *logRecorder) add(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line)
}

func (r *logRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.lines...)
}

func (r *logRecorder) text() string {
	return strings.Join(r.all(), "\n")
}

func newMockLogger(ctrl *gomock.Controller) (*mocks.MockLogger, *logRecorder) {
	rec := &logRecorder{}
	l := mocks.NewMockLogger(ctrl)
	l.EXPECT().Debug(gomock.Any()).Do(func(msg string) { rec.add("DEBUG " + msg) }).AnyTimes()
	l.EXPECT().Info(gomock.Any()).Do(func(msg string) { rec.add("INFO " + msg) }).AnyTimes()
	l.EXPECT().Warn(gomock.Any()).Do(func(msg string) { rec.add("WARN " + msg) }).AnyTimes()
	l.EXPECT().Error(gomock.Any()).Do(func(err error) { rec.add("ERROR " + err.Error()) }).AnyTimes()
	return l, rec
}

type fixture struct {
	root     string
	loader   *mocks.MockConfigLoader
	detector *mocks.MockTargetDetector
	logs     *logRecorder
	spans    *tracetest.SpanRecorder
	watcher  *mocks.MockWatcher
	app      *app.App
}

func newFixture(t *testing.T, writer ports.DatabaseWriter) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	base := t.TempDir()
	root := filepath.Join(base, "AROS")
	require.NoError(t, os.MkdirAll(root, domain.DirPerm))

	log, rec := newMockLogger(ctrl)
	spans := tracetest.NewSpanRecorder()
	tracer := telemetry.NewOTelTracer(spans)

	gen := generator.New(
		fs.NewScanner(fs.NewWalker()),
		fs.NewIncludeResolver(fs.NewOSFS()),
		generator.NewBuilder(fs.NewOSFS()),
		log,
		tracer,
	)

	if writer == nil {
		writer = compdb.NewWriter()
	}

	f := &fixture{
		root:     root,
		loader:   mocks.NewMockConfigLoader(ctrl),
		detector: mocks.NewMockTargetDetector(ctrl),
		logs:     rec,
		spans:    spans,
		watcher:  mocks.NewMockWatcher(ctrl),
	}
	f.app = app.New(f.loader, f.detector, gen, writer, log, tracer, func() (ports.Watcher, error) {
		return f.watcher, nil
	}).WithDebounce(10 * time.Millisecond)
	return f
}

func (f *fixture) source(t *testing.T, rel string) {
	t.Helper()
	path := filepath.Join(f.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), domain.DirPerm))
	require.NoError(t, os.WriteFile(path, []byte("int x;\n"), domain.FilePerm))
}

func (f *fixture) noSettings() {
	f.loader.EXPECT().Load(f.root).Return(&domain.Settings{}, nil).AnyTimes()
}

func TestApp_Generate_ExplicitTarget(t *testing.T) {
	f := newFixture(t, nil)
	f.noSettings()
	f.source(t, "rom/exec/alloc.c")
	f.source(t, "workbench/c/list.cpp")
	require.NoError(t, os.MkdirAll(filepath.Join(f.root, "rom", "exec"), domain.DirPerm))

	result, err := f.app.Generate(context.Background(), app.GenerateOptions{Root: f.root, Target: "pc-i386"})
	require.NoError(t, err)

	output := filepath.Join(f.root, domain.OutputFileName)
	assert.Equal(t, "pc-i386", result.Target)
	assert.Equal(t, f.root, result.Root)
	assert.Equal(t, filepath.Join(filepath.Dir(f.root), "abiv1", "bin", "pc-i386", "AROS"), result.BuildDir)
	assert.Equal(t, output, result.Path)
	assert.Equal(t, 2, result.Entries)
	assert.False(t, result.Unchanged)

	assert.Equal(t, []string{
		"INFO Generating compile_commands.json for target: pc-i386",
		"INFO AROS root: " + f.root,
		"INFO Build directory: " + result.BuildDir,
		"INFO Scanning for source files...",
		"INFO Found 2 source files",
		fmt.Sprintf("INFO Generated %s with 2 entries", output),
	}, f.logs.all())

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"file": "rom/exec/alloc.c"`)
	assert.Contains(t, string(data), "-I"+filepath.Join(f.root, "rom", "exec"))

	var phases []string
	for _, s := range f.spans.Ended() {
		phases = append(phases, s.Name())
	}
	assert.Equal(t, []string{"scan", "includes", "build", "write"}, phases)
}

func TestApp_Generate_UnknownTarget(t *testing.T) {
	ctrl := gomock.NewController(t)
	writer := mocks.NewMockDatabaseWriter(ctrl)

	f := newFixture(t, writer)
	f.noSettings()
	f.source(t, "rom/a.c")

	_, err := f.app.Generate(context.Background(), app.GenerateOptions{Root: f.root, Target: "bogus-target"})
	require.ErrorIs(t, err, domain.ErrUnknownTarget)
	assert.ErrorContains(t, err, "bogus-target")

	_, statErr := os.Stat(filepath.Join(f.root, domain.OutputFileName))
	assert.True(t, os.IsNotExist(statErr))
}

func TestApp_Generate_TargetPrecedence(t *testing.T) {
	t.Run("argument beats config", func(t *testing.T) {
		f := newFixture(t, nil)
		f.loader.EXPECT().Load(f.root).Return(&domain.Settings{Target: "vax-vms"}, nil)

		result, err := f.app.Generate(context.Background(), app.GenerateOptions{Root: f.root, Target: "linux-i386"})
		require.NoError(t, err)
		assert.Equal(t, "linux-i386", result.Target)
	})

	t.Run("config beats detection", func(t *testing.T) {
		f := newFixture(t, nil)
		f.loader.EXPECT().Load(f.root).Return(&domain.Settings{Target: "amiga-m68k"}, nil)

		result, err := f.app.Generate(context.Background(), app.GenerateOptions{Root: f.root})
		require.NoError(t, err)
		assert.Equal(t, "amiga-m68k", result.Target)
		assert.Contains(t, f.logs.all(), "INFO Using target from compdb.yaml: amiga-m68k")
	})
}

func TestApp_Generate_AutoDetect(t *testing.T) {
	tests := []struct {
		name       string
		scan       domain.BuildScan
		wantTarget string
		wantLogs   []string
	}{
		{
			name:       "no bin directory",
			scan:       domain.BuildScan{},
			wantTarget: "linux-x86_64",
			wantLogs:   []string{"INFO No bin directory found, using default target: linux-x86_64"},
		},
		{
			name:       "empty bin directory",
			scan:       domain.BuildScan{DirExists: true},
			wantTarget: "linux-x86_64",
			wantLogs:   []string{"INFO No build detected, using default target: linux-x86_64"},
		},
		{
			name:       "single build",
			scan:       domain.BuildScan{DirExists: true, Targets: []string{"raspi-armhf"}},
			wantTarget: "raspi-armhf",
			wantLogs:   []string{"INFO Auto-detected target: raspi-armhf"},
		},
		{
			name:       "several builds",
			scan:       domain.BuildScan{DirExists: true, Targets: []string{"amiga-m68k", "pc-i386"}},
			wantTarget: "amiga-m68k",
			wantLogs: []string{
				"WARN Multiple builds detected (amiga-m68k, pc-i386), using amiga-m68k",
				"INFO Auto-detected target: amiga-m68k",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, nil)
			f.noSettings()
			f.detector.EXPECT().BuiltTargets(f.root).Return(tt.scan, nil)

			result, err := f.app.Generate(context.Background(), app.GenerateOptions{Root: f.root})
			require.NoError(t, err)
			assert.Equal(t, tt.wantTarget, result.Target)

			logs := f.logs.all()
			require.GreaterOrEqual(t, len(logs), len(tt.wantLogs))
			assert.Equal(t, tt.wantLogs, logs[:len(tt.wantLogs)])
		})
	}
}

func TestApp_Generate_DetectedUnknownTarget(t *testing.T) {
	f := newFixture(t, nil)
	f.noSettings()
	f.detector.EXPECT().BuiltTargets(f.root).Return(domain.BuildScan{
		DirExists: true,
		Targets:   []string{"linux-ppc"},
	}, nil)

	_, err := f.app.Generate(context.Background(), app.GenerateOptions{Root: f.root})
	require.ErrorIs(t, err, domain.ErrUnknownTarget)
	assert.ErrorContains(t, err, "linux-ppc")
}

func TestApp_Generate_PathOverrides(t *testing.T) {
	f := newFixture(t, nil)
	f.noSettings()
	f.source(t, "rom/a.c")
	base := filepath.Join(t.TempDir(), "builds")

	result, err := f.app.Generate(context.Background(), app.GenerateOptions{
		Root:      f.root,
		Target:    "pc-x86_64",
		BuildBase: base,
		Output:    filepath.Join("out", "db.json"),
	})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "pc-x86_64", "AROS"), result.BuildDir)
	assert.Equal(t, filepath.Join(f.root, "out", "db.json"), result.Path)
	assert.FileExists(t, result.Path)
}

func TestApp_Generate_SettingsPaths(t *testing.T) {
	f := newFixture(t, nil)
	base := filepath.Join(t.TempDir(), "builds")
	output := filepath.Join(f.root, ".cache", "compile_commands.json")
	f.loader.EXPECT().Load(f.root).Return(&domain.Settings{
		Path:      domain.ConfigPath(f.root),
		BuildBase: base,
		Output:    output,
	}, nil)

	result, err := f.app.Generate(context.Background(), app.GenerateOptions{Root: f.root, Target: "linux-x86_64"})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(base, "linux-x86_64", "AROS"), result.BuildDir)
	assert.Equal(t, output, result.Path)
	assert.Contains(t, f.logs.all(), "DEBUG Using settings from "+domain.ConfigPath(f.root))
}

func TestApp_Generate_RootNotDirectory(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.app.Generate(context.Background(), app.GenerateOptions{Root: filepath.Join(f.root, "missing")})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrRootNotDirectory.Error())
}

func TestApp_Generate_ConfigError(t *testing.T) {
	f := newFixture(t, nil)
	f.loader.EXPECT().Load(f.root).Return(nil, domain.ErrConfigParseFailed)

	_, err := f.app.Generate(context.Background(), app.GenerateOptions{Root: f.root, Target: "pc-i386"})
	require.ErrorIs(t, err, domain.ErrConfigParseFailed)
}

func TestApp_Generate_Deterministic(t *testing.T) {
	f := newFixture(t, nil)
	f.noSettings()
	for _, rel := range []string{"rom/z.c", "rom/a.c", "arch/x/b.cc", "tools/q.cxx"} {
		f.source(t, rel)
	}
	opts := app.GenerateOptions{Root: f.root, Target: "linux-x86_64"}
	output := filepath.Join(f.root, domain.OutputFileName)

	_, err := f.app.Generate(context.Background(), opts)
	require.NoError(t, err)
	first, err := os.ReadFile(output)
	require.NoError(t, err)

	second, err := f.app.Generate(context.Background(), opts)
	require.NoError(t, err)
	assert.True(t, second.Unchanged)
	assert.Contains(t, f.logs.all(), fmt.Sprintf("INFO %s is up to date with 4 entries", output))

	again, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, first, again)
}

func TestApp_Generate_EmptyTree(t *testing.T) {
	f := newFixture(t, nil)
	f.noSettings()

	result, err := f.app.Generate(context.Background(), app.GenerateOptions{Root: f.root, Target: "amiga-m68k"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Entries)

	data, err := os.ReadFile(result.Path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestApp_Targets(t *testing.T) {
	f := newFixture(t, nil)
	assert.Equal(t, domain.Targets(), f.app.Targets())
}

func TestApp_Watch_RegeneratesOnNewFile(t *testing.T) {
	f := newFixture(t, nil)
	f.noSettings()
	f.source(t, "rom/a.c")

	events := make(chan ports.WatchEvent, 8)
	f.watcher.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, dirs []string) error {
			assert.Contains(t, dirs, filepath.Join(f.root, "rom"))
			go func() {
				<-ctx.Done()
				close(events)
			}()
			return nil
		},
	)
	f.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
		for ev := range events {
			if !yield(ev) {
				return
			}
		}
	}))
	f.watcher.EXPECT().Stop().Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- f.app.Watch(ctx, app.GenerateOptions{Root: f.root, Target: "pc-i386"})
	}()

	output := filepath.Join(f.root, domain.OutputFileName)
	require.Eventually(t, func() bool {
		return strings.Contains(f.logs.text(), "Watching for source changes")
	}, 5*time.Second, 10*time.Millisecond)

	f.source(t, "rom/b.c")
	events <- ports.WatchEvent{Path: filepath.Join(f.root, "rom", "b.c"), Operation: ports.OpCreate}

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(output)
		return err == nil && strings.Contains(string(data), `"file": "rom/b.c"`)
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestApp_Watch_CreatedScanDirectory(t *testing.T) {
	f := newFixture(t, nil)
	f.noSettings()
	f.source(t, "rom/a.c")

	external := filepath.Join(f.root, "external")
	events := make(chan ports.WatchEvent, 8)
	f.watcher.EXPECT().Start(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, dirs []string) error {
			assert.Contains(t, dirs, external)
			go func() {
				<-ctx.Done()
				close(events)
			}()
			return nil
		},
	)
	f.watcher.EXPECT().Events().Return(iter.Seq[ports.WatchEvent](func(yield func(ports.WatchEvent) bool) {
		for ev := range events {
			if !yield(ev) {
				return
			}
		}
	}))
	f.watcher.EXPECT().Stop().Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- f.app.Watch(ctx, app.GenerateOptions{Root: f.root, Target: "pc-i386"})
	}()

	output := filepath.Join(f.root, domain.OutputFileName)
	require.Eventually(t, func() bool {
		return strings.Contains(f.logs.text(), "Watching for source changes")
	}, 5*time.Second, 10*time.Millisecond)

	f.source(t, "external/zlib/inflate.c")
	events <- ports.WatchEvent{Path: external, Operation: ports.OpCreate}

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(output)
		return err == nil && strings.Contains(string(data), `"file": "external/zlib/inflate.c"`)
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

func TestApp_Watch_UnknownTarget(t *testing.T) {
	f := newFixture(t, nil)
	f.noSettings()

	err := f.app.Watch(context.Background(), app.GenerateOptions{Root: f.root, Target: "bogus-target"})
	require.ErrorIs(t, err, domain.ErrUnknownTarget)
}

func TestRelevant(t *testing.T) {
	tests := []struct {
		name  string
		event ports.WatchEvent
		want  bool
	}{
		{"created source", ports.WatchEvent{Path: "/r/rom/a.c", Operation: ports.OpCreate}, true},
		{"removed source", ports.WatchEvent{Path: "/r/rom/a.cpp", Operation: ports.OpRemove}, true},
		{"renamed source", ports.WatchEvent{Path: "/r/rom/a.C", Operation: ports.OpRename}, true},
		{"written source", ports.WatchEvent{Path: "/r/rom/a.c", Operation: ports.OpWrite}, false},
		{"created header", ports.WatchEvent{Path: "/r/rom/a.h", Operation: ports.OpCreate}, false},
		{"created directory", ports.WatchEvent{Path: "/r/rom/exec", Operation: ports.OpCreate}, true},
		{"created scan directory", ports.WatchEvent{Path: "/r/external", Operation: ports.OpCreate}, true},
		{"renamed scan directory", ports.WatchEvent{Path: "/r/tools", Operation: ports.OpRename}, true},
		{"hidden directory", ports.WatchEvent{Path: "/r/rom/.git", Operation: ports.OpCreate}, false},
		{"hidden source", ports.WatchEvent{Path: "/r/rom/.a.c", Operation: ports.OpCreate}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, app.Relevant(tt.event))
		})
	}
}
