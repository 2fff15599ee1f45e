package app_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/mill/internal/adapters/builtin"
	"go.trai.ch/mill/internal/adapters/fs"
	"go.trai.ch/mill/internal/adapters/telemetry"
	"go.trai.ch/mill/internal/app"
	"go.trai.ch/mill/internal/core/domain"
	"go.trai.ch/mill/internal/core/ports/mocks"
	"go.trai.ch/mill/internal/engine/scheduler"
	"go.uber.org/mock/gomock"
)

const configPath = "mill.yaml"

type fixture struct {
	loader    *mocks.MockConfigLoader
	renderer  *mocks.MockRenderer
	logger    *mocks.MockLogger
	telemetry *mocks.MockTelemetry
	app       *app.App
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		loader:    mocks.NewMockConfigLoader(ctrl),
		renderer:  mocks.NewMockRenderer(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		telemetry: mocks.NewMockTelemetry(ctrl),
	}
	f.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	sched := scheduler.NewScheduler(fs.NewStore(), fs.NewHasher(fs.NewWalker()), f.logger, telemetry.NoOp{})
	f.app = app.New(f.loader, sched, f.renderer, f.logger, f.telemetry)
	return f
}

func writePipeline(t *testing.T, dir string) *domain.Pipeline {
	t.Helper()
	p := domain.NewPipeline(domain.WithWorkingDir(dir))
	_, err := domain.NewTask(builtin.Write,
		domain.WithName("write"),
		domain.WithKwarg("contents", "world"),
		domain.WithOutput("source.txt"),
		domain.InPipeline(p),
	)
	require.NoError(t, err)
	return p
}

func TestApp_Run(t *testing.T) {
	f := newFixture(t)
	dir := t.TempDir()

	f.loader.EXPECT().Load(configPath).Return(writePipeline(t, dir), nil)
	f.telemetry.EXPECT().Close().Return(nil)

	require.NoError(t, f.app.Run(context.Background(), configPath))

	data, err := os.ReadFile(filepath.Join(dir, "source.txt"))
	require.NoError(t, err)
	assert.Equal(t, "world", string(data))
}

func TestApp_Run_TaskFailure(t *testing.T) {
	f := newFixture(t)
	boom := errors.New("boom")

	p := domain.NewPipeline(domain.WithWorkingDir(t.TempDir()))
	_, err := domain.NewTask(func(context.Context, *domain.Call) error { return boom },
		domain.WithName("explode"), domain.WithOutput("x.txt"), domain.InPipeline(p))
	require.NoError(t, err)

	f.loader.EXPECT().Load(configPath).Return(p, nil)
	f.logger.EXPECT().Error(gomock.Any()).Do(func(err error) {
		assert.ErrorIs(t, err, boom)
	})
	f.telemetry.EXPECT().Close().Return(nil)

	err = f.app.Run(context.Background(), configPath)
	require.ErrorIs(t, err, domain.ErrBuildExecutionFailed)
	require.ErrorIs(t, err, boom)
}

func TestApp_Run_LoadError(t *testing.T) {
	f := newFixture(t)

	f.loader.EXPECT().Load(configPath).Return(nil, os.ErrNotExist)
	f.telemetry.EXPECT().Close().Return(nil)

	err := f.app.Run(context.Background(), configPath)
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.NotErrorIs(t, err, domain.ErrBuildExecutionFailed)
}

func TestApp_Run_CloseError(t *testing.T) {
	f := newFixture(t)

	f.loader.EXPECT().Load(configPath).Return(writePipeline(t, t.TempDir()), nil)
	f.telemetry.EXPECT().Close().Return(errors.New("tape closed"))

	require.ErrorContains(t, f.app.Run(context.Background(), configPath), "failed to close telemetry")
}

func TestApp_Load_WarnsOnConflict(t *testing.T) {
	f := newFixture(t)

	p := domain.NewPipeline()
	for _, contents := range []string{"world", "moon"} {
		_, err := domain.NewTask(builtin.Write,
			domain.WithName("write"),
			domain.WithKwarg("contents", contents),
			domain.WithOutput("source.txt"),
			domain.InPipeline(p),
		)
		require.NoError(t, err)
	}

	f.loader.EXPECT().Load(configPath).Return(p, nil)
	f.logger.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.True(t, strings.HasPrefix(msg, "source.txt is declared twice"), msg)
		assert.Contains(t, msg, "world")
		assert.Contains(t, msg, "moon")
	})

	got, err := f.app.Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())
}

func TestApp_Status(t *testing.T) {
	f := newFixture(t)
	var out bytes.Buffer

	f.loader.EXPECT().Load(configPath).Return(writePipeline(t, t.TempDir()), nil)
	f.renderer.EXPECT().RenderStatus(&out, gomock.Len(1)).DoAndReturn(func(_ any, rows []domain.StatusRow) error {
		assert.Equal(t, "write", rows[0].Name)
		assert.False(t, rows[0].Exists)
		return nil
	})

	require.NoError(t, f.app.Status(context.Background(), configPath, &out))
}

func TestApp_Hash(t *testing.T) {
	f := newFixture(t)
	p := writePipeline(t, t.TempDir())
	task := p.Tasks()[0]

	f.loader.EXPECT().Load(configPath).Return(p, nil)

	var out bytes.Buffer
	require.NoError(t, f.app.Hash(configPath, &out))
	assert.Equal(t, task.Fingerprint()+"  "+task.Output().String()+"\n", out.String())
}
