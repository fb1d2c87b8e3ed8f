package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	authinadapter "cradle/internal/modules/auth/adapter/in"
	authoutadapter "cradle/internal/modules/auth/adapter/out"
	authservice "cradle/internal/modules/auth/service"
	authusecase "cradle/internal/modules/auth/usecase"
	syncinadapter "cradle/internal/modules/cloudsync/adapter/in"
	syncoutadapter "cradle/internal/modules/cloudsync/adapter/out"
	syncservice "cradle/internal/modules/cloudsync/service"
	syncusecase "cradle/internal/modules/cloudsync/usecase"
	journalinadapter "cradle/internal/modules/journal/adapter/in"
	journaloutadapter "cradle/internal/modules/journal/adapter/out"
	journalservice "cradle/internal/modules/journal/service"
	journalusecase "cradle/internal/modules/journal/usecase"
	recordsinadapter "cradle/internal/modules/records/adapter/in"
	recordsoutadapter "cradle/internal/modules/records/adapter/out"
	recordsservice "cradle/internal/modules/records/service"
	recordsusecase "cradle/internal/modules/records/usecase"
	reminderinadapter "cradle/internal/modules/reminder/adapter/in"
	reminderoutadapter "cradle/internal/modules/reminder/adapter/out"
	reminderout "cradle/internal/modules/reminder/port/out"
	reminderservice "cradle/internal/modules/reminder/service"
	reminderusecase "cradle/internal/modules/reminder/usecase"
	settingsinadapter "cradle/internal/modules/settings/adapter/in"
	settingsoutadapter "cradle/internal/modules/settings/adapter/out"
	settingsdto "cradle/internal/modules/settings/dto"
	settingsservice "cradle/internal/modules/settings/service"
	settingsusecase "cradle/internal/modules/settings/usecase"
	"cradle/internal/platform/clock"
	"cradle/internal/platform/config"
	"cradle/internal/platform/httpapi"
	"cradle/internal/platform/id"
	"cradle/internal/platform/kv"
	"cradle/internal/platform/logger"
	"cradle/internal/platform/metrics"
	"cradle/internal/platform/sqlitedb"
	uiapp "cradle/internal/ui/app"
)

const journalWrap = 80

type App struct {
	Config config.Config
	Log    *logger.Logger

	AuthCLI      authinadapter.CLIHandler
	RecordsCLI   recordsinadapter.CLIHandler
	SettingsCLI  settingsinadapter.CLIHandler
	ReminderCLI  reminderinadapter.CLIHandler
	SyncCLI      syncinadapter.CLIHandler
	JournalCLI   journalinadapter.CLIHandler
	StatusServer *reminderinadapter.StatusServer

	db          *sql.DB
	unsubscribe func()
}

// New opens local storage and wires every module. Pending legacy key moves
// and an interrupted cloud bootstrap are resumed before it returns.
func New(ctx context.Context, cfg config.Config, log *logger.Logger) (*App, error) {
	if log == nil {
		log = logger.NewNop()
	}
	db, err := sqlitedb.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	store := kv.NewSQLiteStore(db)
	metrics.MustRegister()

	clk := clock.SystemClock{Loc: cfg.Location}
	ids := id.UUID{}
	client := httpapi.New(log, httpapi.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.HTTPTimeout})

	sessions := authservice.NewSessionManager(clk, authoutadapter.NewKVSessionStore(store), authoutadapter.NewHTTPAuthAPI(client), log)
	authorized := httpapi.NewAuthorized(client, sessions)
	authUC := authusecase.NewInteractor(sessions, authoutadapter.NewHTTPInviteAPI(authorized), log)

	settingsStore := settingsoutadapter.NewKVSettingsStore(store)
	settingsUC := settingsusecase.NewInteractor(
		settingsservice.NewSettingsService(clk, settingsStore, log),
		authUC,
		settingsStore,
		log,
	)
	if _, err := settingsUC.MigrateLegacyKeys(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate legacy keys: %w", err)
	}

	recordsUC := recordsusecase.NewInteractor(
		recordsservice.NewRecordService(clk, ids, recordsoutadapter.NewSQLiteRecordStore(db), settingsUC, log),
		authUC,
		settingsUC,
		clk,
	)

	reminderUC := reminderusecase.NewInteractor(reminderservice.NewEngine(
		clk,
		authUC,
		settingsUC,
		recordsUC,
		newNotifier(cfg.Notifier, log),
		cfg.ReminderInterval,
		log.With("component", "reminder"),
	))

	syncUC := syncusecase.NewInteractor(syncservice.NewSyncer(
		sessions,
		syncoutadapter.NewKVFlagStore(store),
		recordsUC,
		settingsUC,
		syncoutadapter.NewHTTPSyncAPI(authorized),
		log.With("component", "cloudsync"),
	), log)
	unsubscribe := authUC.Subscribe(syncUC.OnSessionChanged)

	device, err := settingsUC.DeviceSettings(ctx)
	if err != nil {
		log.Warn("read device settings", "error", err)
	}
	journalUC := journalusecase.NewInteractor(journalservice.NewJournalService(
		recordsUC,
		sessions,
		journaloutadapter.NewFileNoteStore(cfg.JournalDir),
		journaloutadapter.NewGlamourRenderer(glamourStyle(device.ColorMode), journalWrap),
		log.With("component", "journal"),
	))

	syncUC.Resume(ctx)

	return &App{
		Config:       cfg,
		Log:          log,
		AuthCLI:      authinadapter.NewCLIHandler(authUC),
		RecordsCLI:   recordsinadapter.NewCLIHandler(recordsUC),
		SettingsCLI:  settingsinadapter.NewCLIHandler(settingsUC),
		ReminderCLI:  reminderinadapter.NewCLIHandler(reminderUC),
		SyncCLI:      syncinadapter.NewCLIHandler(syncUC),
		JournalCLI:   journalinadapter.NewCLIHandler(journalUC),
		StatusServer: reminderinadapter.NewStatusServer(cfg.MetricsAddr, reminderUC, log),
		db:           db,
		unsubscribe:  unsubscribe,
	}, nil
}

func newNotifier(kind string, log *logger.Logger) reminderout.Notifier {
	if kind == "log" {
		return reminderoutadapter.NewLogNotifier(log)
	}
	return reminderoutadapter.NewDesktopNotifier()
}

func glamourStyle(mode settingsdto.ColorMode) string {
	if mode == settingsdto.ColorLight {
		return "light"
	}
	return "dark"
}

func (a *App) Close() error {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

func RunTUI(ctx context.Context, app *App) error {
	model := uiapp.NewModel(ctx, app.RecordsCLI, app.SettingsCLI, app.JournalCLI, app.AuthCLI)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
