package app

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/llehouerou/aura/internal/catalog"
	"github.com/llehouerou/aura/internal/keymap"
	"github.com/llehouerou/aura/internal/playback"
	"github.com/llehouerou/aura/internal/playlist"
	"github.com/llehouerou/aura/internal/ui/cursor"
)

const (
	seekStep     = 5 * time.Second
	volumeStep   = 0.05
	defaultTick  = 500 * time.Millisecond
	statsTimeout = 10 * time.Second
	scrollMargin = 2
)

// Options wires a Model. Engine is required.
type Options struct {
	Engine  Engine
	Catalog *catalog.Catalog
	Stats   Stats // nil hides the stats panel
	Volumes VolumeStore
	Logger  logrus.FieldLogger

	TickInterval time.Duration
	// ReconcileInterval is the period between flushes of buffered
	// listening reports. Zero only flushes once at startup.
	ReconcileInterval time.Duration
}

// Model is the root application model.
type Model struct {
	engine  Engine
	catalog *catalog.Catalog
	stats   Stats
	volumes VolumeStore
	log     logrus.FieldLogger
	sub     *playback.Subscription

	tick      time.Duration
	reconcile time.Duration

	keys       *keymap.Resolver
	searchKeys *keymap.Resolver
	helpKeys   keymap.Help
	help       help.Model
	search     textinput.Model

	genres    []string
	genre     int
	query     string // non-empty replaces the genre list with search results
	searching bool
	list      []playlist.Track
	cursor    cursor.Cursor

	showHelp  bool
	showStats bool
	totals    *StatsLoadedMsg
	status    string
	statusErr bool

	Width  int
	Height int
}

// New creates the model and subscribes to engine events.
func New(opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	tick := opts.TickInterval
	if tick <= 0 {
		tick = defaultTick
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "title, artist or keyword"
	search.CharLimit = 100

	m := Model{
		engine:     opts.Engine,
		catalog:    opts.Catalog,
		stats:      opts.Stats,
		volumes:    opts.Volumes,
		log:        log.WithField("component", "ui"),
		sub:        opts.Engine.Subscribe(),
		tick:       tick,
		reconcile:  opts.ReconcileInterval,
		keys:       keymap.NewResolver(keymap.ByContext(keymap.ContextGlobal, keymap.ContextPlayback, keymap.ContextBrowser)),
		searchKeys: keymap.NewResolver(keymap.ByContext(keymap.ContextSearch)),
		helpKeys:   keymap.NewHelp(keymap.ContextGlobal, keymap.ContextPlayback, keymap.ContextBrowser),
		help:       help.New(),
		search:     search,
		cursor:     cursor.New(scrollMargin),
	}
	if m.catalog != nil {
		m.genres = m.catalog.Genres()
	}
	m.loadList()
	m.followTrack(opts.Engine.CurrentTrack())
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		WatchEvents(m.sub),
		TickCmd(m.tick),
		ReconcileCmd(m.stats, statsTimeout),
		ReconcileAfterCmd(m.reconcile),
	)
}

// Genre returns the name of the selected genre, or "" while searching.
func (m Model) Genre() string {
	if m.query != "" || len(m.genres) == 0 {
		return ""
	}
	return m.genres[m.genre]
}

// List returns the tracks shown in the browser.
func (m Model) List() []playlist.Track {
	return m.list
}

// Cursor returns the browser cursor.
func (m Model) Cursor() int {
	return m.cursor.Pos()
}

// Status returns the status line message.
func (m Model) Status() string {
	return m.status
}

func (m *Model) loadList() {
	switch {
	case m.catalog == nil:
		m.list = nil
	case m.query != "":
		m.list = m.catalog.Search(m.query)
	case len(m.genres) > 0:
		m.list = m.catalog.Genre(m.genres[m.genre])
	default:
		m.list = nil
	}
	m.cursor.Reset()
}

// followTrack moves the cursor onto t when it is part of the shown list.
func (m *Model) followTrack(t *playlist.Track) {
	if t == nil {
		return
	}
	for i, s := range m.list {
		if s.Key() == t.Key() {
			m.cursor.Jump(i, len(m.list), m.listHeight())
			return
		}
	}
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(msg string) {
	m.status = msg
	m.statusErr = msg != ""
}
