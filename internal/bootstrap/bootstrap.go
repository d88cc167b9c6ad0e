package bootstrap

import (
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	assistantinadapter "blockgarden/internal/modules/assistant/adapter/in"
	assistantoutadapter "blockgarden/internal/modules/assistant/adapter/out"
	assistantservice "blockgarden/internal/modules/assistant/service"
	assistantusecase "blockgarden/internal/modules/assistant/usecase"
	focusinadapter "blockgarden/internal/modules/focus/adapter/in"
	focusoutadapter "blockgarden/internal/modules/focus/adapter/out"
	focusdomain "blockgarden/internal/modules/focus/domain"
	focusservice "blockgarden/internal/modules/focus/service"
	focususecase "blockgarden/internal/modules/focus/usecase"
	gardeninadapter "blockgarden/internal/modules/garden/adapter/in"
	gardenoutadapter "blockgarden/internal/modules/garden/adapter/out"
	gardenout "blockgarden/internal/modules/garden/port/out"
	gardenservice "blockgarden/internal/modules/garden/service"
	gardenusecase "blockgarden/internal/modules/garden/usecase"
	scheduleinadapter "blockgarden/internal/modules/schedule/adapter/in"
	scheduleoutadapter "blockgarden/internal/modules/schedule/adapter/out"
	scheduledomain "blockgarden/internal/modules/schedule/domain"
	scheduleservice "blockgarden/internal/modules/schedule/service"
	scheduleusecase "blockgarden/internal/modules/schedule/usecase"
	"blockgarden/internal/platform/clock"
	"blockgarden/internal/platform/config"
	"blockgarden/internal/platform/id"
	"blockgarden/internal/platform/kv"
	"blockgarden/internal/platform/logging"
	uiapp "blockgarden/internal/ui/app"
)

type App struct {
	Config config.Config
	Logger hclog.Logger

	ScheduleCLI  scheduleinadapter.CLIHandler
	GardenCLI    gardeninadapter.CLIHandler
	FocusCLI     focusinadapter.CLIHandler
	AssistantCLI assistantinadapter.CLIHandler

	closers []func() error
}

// Deps overrides the process-wide collaborators. Zero fields get the
// production defaults.
type Deps struct {
	Clock     clock.Clock
	Ticks     clock.TickSource
	IDs       id.Generator
	Store     kv.Store
	LogOutput io.Writer
}

func New(cfg config.Config) (*App, error) {
	return NewWithDeps(cfg, Deps{})
}

func NewWithDeps(cfg config.Config, deps Deps) (*App, error) {
	app := &App{Config: cfg}
	settings := cfg.Settings

	logOpts := logging.Options{Path: cfg.LogPath, Level: settings.Log.Level, JSON: settings.Log.JSON}
	if deps.LogOutput != nil {
		logOpts.Path = ""
		logOpts.Output = deps.LogOutput
	}
	logger, closeLog, err := logging.New(logOpts)
	if err != nil {
		return nil, err
	}
	app.Logger = logger
	app.closers = append(app.closers, closeLog)

	sys := clock.SystemClock{}
	if deps.Clock == nil {
		deps.Clock = sys
	}
	if deps.Ticks == nil {
		deps.Ticks = sys
	}
	if deps.IDs == nil {
		deps.IDs = id.UUID{}
	}
	if deps.Store == nil {
		store, closeStore, err := openStore(cfg)
		if err != nil {
			_ = app.Close()
			return nil, err
		}
		deps.Store = store
		app.closers = append(app.closers, closeStore)
	}

	grid, err := newGrid(settings.Schedule)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	stages, ok := focusdomain.StageTableByName(settings.Focus.Stages)
	if !ok {
		_ = app.Close()
		return nil, fmt.Errorf("unknown stage table %q", settings.Focus.Stages)
	}
	sessionDuration := time.Duration(settings.Schedule.BlockMinutes) * time.Minute

	scheduleUC := scheduleusecase.NewInteractor(scheduleservice.NewSchedulerService(
		deps.Clock,
		scheduleoutadapter.NewKVBlockStore(deps.Store),
		scheduleservice.Options{
			Grid:      grid,
			Layout:    scheduledomain.Layout{BlockMinutes: settings.Schedule.BlockMinutes, DayBlocks: settings.Schedule.DayBlocks},
			Tolerance: settings.Schedule.StaleToleranceMinutes,
		},
		logger,
	))

	var journal gardenout.Journal
	if settings.Journal.Enabled {
		journal = gardenoutadapter.NewMarkdownJournal(cfg.JournalDir)
	}
	gardenUC := gardenusecase.NewInteractor(gardenservice.NewGardenService(
		deps.Clock,
		deps.IDs,
		gardenoutadapter.NewKVHistoryStore(deps.Store),
		journal,
		sessionDuration,
		logger,
	))

	focusUC := focususecase.NewInteractor(focusservice.NewController(
		deps.Clock,
		deps.Ticks,
		focusoutadapter.NewGardenAdapter(gardenUC),
		focusoutadapter.NewScheduleAdapter(scheduleUC),
		focusservice.Options{SessionDuration: sessionDuration, Stages: stages},
		logger,
	))
	app.closers = append(app.closers, func() error {
		focusUC.Close()
		return nil
	})

	assistantUC := assistantusecase.NewInteractor(assistantservice.NewAssistantService(
		assistantoutadapter.NewFileManifestStore(cfg.PluginsDir),
		assistantoutadapter.NewGRPCHost(logger.Named("plugin")),
		assistantoutadapter.NewEnvCredentials(settings.Assistant.CredentialEnv),
		assistantservice.Options{PluginName: settings.Assistant.Plugin, Language: settings.Assistant.Language},
		logger,
	))

	app.ScheduleCLI = scheduleinadapter.NewCLIHandler(scheduleUC)
	app.GardenCLI = gardeninadapter.NewCLIHandler(gardenUC)
	app.FocusCLI = focusinadapter.NewCLIHandler(focusUC)
	app.AssistantCLI = assistantinadapter.NewCLIHandler(assistantUC)

	logger.Debug("app ready", "data", cfg.DataDir, "grid", grid.Name(), "stages", stages.Name, "backend", settings.Storage.Backend)
	return app, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func RunTUI(app *App) error {
	model := uiapp.NewModel(app.ScheduleCLI, app.FocusCLI, app.GardenCLI, app.AssistantCLI)
	defer model.Unsubscribe()
	program := tea.NewProgram(model, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func openStore(cfg config.Config) (kv.Store, func() error, error) {
	switch cfg.Settings.Storage.Backend {
	case config.BackendFile:
		return kv.NewFileStore(cfg.FileKVDir), func() error { return nil }, nil
	default:
		store, err := kv.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open state store: %w", err)
		}
		return store, store.Close, nil
	}
}

func newGrid(s config.ScheduleConfig) (scheduledomain.Grid, error) {
	if s.Grid == config.GridDayStart {
		start, err := config.ParseDayStart(s.DayStart)
		if err != nil {
			return nil, err
		}
		return scheduledomain.DayStartGrid{BlockMinutes: s.BlockMinutes, Start: start}, nil
	}
	return scheduledomain.CurrentSlotGrid{BlockMinutes: s.BlockMinutes}, nil
}
