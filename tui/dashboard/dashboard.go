// Package dashboard is the interactive terminal dashboard started by
// `dash ui`. It wires the API client, the live update and presence
// channels, the optimistic mutator and the persisted preferences into a
// bubbletea program. Store subscriptions are pumped into the program as
// messages, so the model never reads shared state outside its own
// update loop.
package dashboard

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/klondike-tools/dash/config"
	"github.com/klondike-tools/dash/logging"
	"github.com/klondike-tools/dash/pkg/api"
	"github.com/klondike-tools/dash/pkg/live"
	"github.com/klondike-tools/dash/pkg/models"
	"github.com/klondike-tools/dash/pkg/mutate"
	"github.com/klondike-tools/dash/pkg/paths"
	"github.com/klondike-tools/dash/pkg/prefs"
	"github.com/klondike-tools/dash/pkg/store"
	"github.com/klondike-tools/dash/tui"
)

// App owns everything the dashboard needs for one run.
type App struct {
	cfg *config.Config
	log *logrus.Entry

	client *api.Client

	features *store.Store[[]models.Feature]
	summary  *store.Store[*models.StatusSummary]
	activity *store.Store[[]models.ActivityEntry]
	roster   *store.Roster
	timer    *store.Timer
	selected *store.Selection

	themes *prefs.ThemeManager
	layout *prefs.LayoutManager

	updates  *live.Updates
	presence *live.PresenceChannel
	mutator  *mutate.Mutator
	notifier *programNotifier
	watcher  *prefs.Watcher
}

// New builds an App from the loaded configuration. No network traffic
// happens until Run.
func New(cfg *config.Config) (*App, error) {
	log := logging.NewLogger("dashboard")

	storage, err := prefs.NewStorage(paths.PrefsDir())
	if err != nil {
		return nil, err
	}

	identity, err := prefs.LoadIdentity(storage, presenceName(cfg))
	if err != nil {
		log.WithError(err).Warn("Failed to persist identity, continuing with a transient one")
	}

	a := &App{
		cfg:      cfg,
		log:      log,
		client:   api.NewClient(cfg.Server.URL, cfg.RequestTimeout()),
		features: store.New([]models.Feature{}),
		summary:  store.New[*models.StatusSummary](nil),
		activity: store.New([]models.ActivityEntry{}),
		roster:   store.NewRoster(selfID(identity), cfg.PresenceExpiry()),
		timer:    store.NewTimer(),
		selected: store.NewSelection(),
		themes:   prefs.NewThemeManager(storage, log),
		layout:   prefs.NewLayoutManager(storage, log),
		notifier: &programNotifier{},
	}

	opts := live.Options{
		BaseDelay: cfg.ReconnectBaseDelay(),
		MaxDelay:  cfg.ReconnectMaxDelay(),
	}
	a.updates = live.NewUpdates(cfg.UpdatesURL(), logging.NewLogger("live-updates"), opts)
	a.presence = live.NewPresence(cfg.PresenceURL(), logging.NewLogger("live-presence"), opts, a.roster, models.Presence{
		ID:          selfID(identity),
		DisplayName: identity.DisplayName,
		Color:       identity.Color,
		CurrentView: "dashboard",
	})

	a.mutator = mutate.NewMutator(a.client, a.features, a.notifier, log)

	// Another dash process rewriting a preference file should be picked
	// up without a restart.
	watcher, err := prefs.NewWatcher(storage, log, func(key string) {
		switch key {
		case prefs.KeyTheme:
			a.themes.Reload()
		case prefs.KeyLayout:
			a.layout.Reload()
		}
	})
	if err != nil {
		log.WithError(err).Warn("Preference watcher unavailable")
	} else {
		a.watcher = watcher
	}

	return a, nil
}

// Run starts the live channels and blocks in the bubbletea event loop
// until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	tui.InitializeTUI()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newModel(deps{
		log:         a.log,
		client:      a.client,
		features:    a.features,
		summary:     a.summary,
		activity:    a.activity,
		timer:       a.timer,
		selection:   a.selected,
		themes:      a.themes,
		layout:      a.layout,
		mutator:     a.mutator,
		presence:    a.presence,
		concurrency: a.cfg.BulkConcurrency(),
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	a.notifier.attach(p)

	go a.updates.Run(ctx)
	go a.presence.Run(ctx)
	if expiry := a.cfg.PresenceExpiry(); expiry > 0 {
		go a.pruneRoster(ctx, expiry)
	}
	if a.watcher != nil {
		go a.watcher.Start(ctx)
		defer a.watcher.Close()
	}
	defer a.timer.Close()

	unsubs := a.subscribe(p)
	defer func() {
		for _, u := range unsubs {
			u()
		}
	}()

	_, err := p.Run()
	return err
}

// subscribe pumps every store into the program. Subscriptions fire on
// the mutating goroutine; tea.Program.Send is safe to call from any.
func (a *App) subscribe(p *tea.Program) []func() {
	return []func(){
		a.features.Subscribe(func(fs []models.Feature) { p.Send(featuresMsg(fs)) }),
		a.summary.Subscribe(func(s *models.StatusSummary) { p.Send(summaryMsg{s}) }),
		a.activity.Subscribe(func(es []models.ActivityEntry) { p.Send(activityMsg(es)) }),
		a.roster.Subscribe(func(map[string]models.Presence) { p.Send(rosterMsg(a.roster.All())) }),
		a.timer.Subscribe(func(snap store.TimerSnapshot) { p.Send(timerMsg(snap)) }),
		a.selected.Subscribe(func(map[string]struct{}) { p.Send(selectionMsg{}) }),
		a.themes.Subscribe(func(prefs.ThemeSettings) { p.Send(themeMsg{}) }),
		a.layout.Subscribe(func(ws []prefs.Widget) { p.Send(layoutMsg(ws)) }),
		a.updates.Connected.Subscribe(func(up bool) { p.Send(connectedMsg(up)) }),
		a.updates.Messages.Subscribe(func(msg *models.UpdateMessage) {
			if msg != nil {
				p.Send(updateNoticeMsg{msg})
			}
		}),
	}
}

// pruneRoster drops stale presence entries on a fraction of the expiry
// window so an entry never outlives it by much.
func (a *App) pruneRoster(ctx context.Context, expiry time.Duration) {
	interval := expiry / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			a.roster.Prune()
		case <-ctx.Done():
			return
		}
	}
}

// programNotifier routes mutation notices into the running program as
// toast messages. Notices arriving before the program starts are
// dropped; nothing can display them yet.
type programNotifier struct {
	mu sync.Mutex
	p  *tea.Program
}

func (n *programNotifier) attach(p *tea.Program) {
	n.mu.Lock()
	n.p = p
	n.mu.Unlock()
}

func (n *programNotifier) Success(msg string) { n.send(toastMsg{text: msg}) }
func (n *programNotifier) Error(msg string)   { n.send(toastMsg{text: msg, isError: true}) }

func (n *programNotifier) send(t toastMsg) {
	n.mu.Lock()
	p := n.p
	n.mu.Unlock()
	if p != nil {
		p.Send(t)
	}
}

func presenceName(cfg *config.Config) string {
	if cfg.Presence != nil && cfg.Presence.DisplayName != "" {
		return cfg.Presence.DisplayName
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "anonymous"
}

// selfID distinguishes concurrent dashboards run by the same user.
func selfID(id prefs.Identity) string {
	return fmt.Sprintf("%s-%d", id.DisplayName, os.Getpid())
}
