package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"testkata/cmd/kata/ui"
	"testkata/internal/kata"
	"testkata/internal/watch"
)

// watchCmd re-runs the katas whenever a note changes
var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Re-run the katas when the notes change",
	Long: `Watches the notes directory and re-runs katas after each change.

A change to a topic's own note re-runs just that kata; any other change
re-runs all of them. Rapid saves are debounced into a single run, the
way a test watcher coalesces edits into one re-run.

Keys: r re-runs the last target, a runs everything, q quits.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runWatchMode,
}

func runWatchMode(cmd *cobra.Command, args []string) error {
	dir := cfg.NotesDir
	if len(args) == 1 {
		dir = args[0]
	}

	w, err := watch.New(dir,
		watch.WithDebounce(cfg.WatchDebounce()),
		watch.WithExtensions(cfg.Watch.Extensions...),
		watch.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Start(cmd.Context()); err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Stop()

	p := tea.NewProgram(
		newWatchModel(w, kata.Default(), dir, cliStyles()),
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}

// watchModel is the model for the watch TUI
type watchModel struct {
	viewport viewport.Model
	spinner  spinner.Model
	styles   ui.Styles

	watcher  *watch.Watcher
	registry *kata.Registry
	dir      string

	isRunning  bool
	lastEvent  string
	lastTarget []string // kata IDs of the last run; nil means all
	runs       int
	lastRun    string
	width      int
	height     int
	ready      bool
}

// Messages for tea updates
type (
	fileEventMsg   watch.Event
	watchClosedMsg struct{}
	runDoneMsg     struct {
		summary string
		failed  int
		total   int
		elapsed time.Duration
	}
)

// newWatchModel initializes the watch TUI model
func newWatchModel(w *watch.Watcher, reg *kata.Registry, dir string, styles ui.Styles) watchModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.Spinner

	vp := viewport.New(80, 20)
	vp.SetContent("")

	return watchModel{
		viewport: vp,
		spinner:  sp,
		styles:   styles,
		watcher:  w,
		registry: reg,
		dir:      dir,
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		waitForEvent(m.watcher.Events()),
	)
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		vpCmd tea.Cmd
		spCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "r":
			if !m.isRunning {
				m.isRunning = true
				return m, tea.Batch(m.spinner.Tick, runSuite(m.registry, m.lastTarget))
			}
			return m, nil

		case "a":
			if !m.isRunning {
				m.isRunning = true
				m.lastTarget = nil
				return m, tea.Batch(m.spinner.Tick, runSuite(m.registry, nil))
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 2
		footerHeight := 1

		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-headerHeight-footerHeight)
			m.viewport.SetContent(m.welcome())
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - headerHeight - footerHeight
		}

	case fileEventMsg:
		m.lastEvent = fmt.Sprintf("%s (%s)", filepath.Base(msg.Path), msg.Kind)
		cmds := []tea.Cmd{waitForEvent(m.watcher.Events())}
		if !m.isRunning {
			m.isRunning = true
			m.lastTarget = kataForNote(m.registry, msg.Path)
			cmds = append(cmds, m.spinner.Tick, runSuite(m.registry, m.lastTarget))
		}
		return m, tea.Batch(cmds...)

	case watchClosedMsg:
		return m, tea.Quit

	case runDoneMsg:
		m.isRunning = false
		m.runs++
		if msg.failed > 0 {
			m.lastRun = m.styles.Error.Render(
				fmt.Sprintf("run %d: %d of %d failed in %s", m.runs, msg.failed, msg.total, msg.elapsed.Round(time.Millisecond)))
		} else {
			m.lastRun = m.styles.Success.Render(
				fmt.Sprintf("run %d: %d passed in %s", m.runs, msg.total, msg.elapsed.Round(time.Millisecond)))
		}
		m.viewport.SetContent(msg.summary)
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		m.spinner, spCmd = m.spinner.Update(msg)
		return m, spCmd
	}

	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(vpCmd, spCmd)
}

func (m watchModel) View() string {
	if !m.ready {
		return "\n  Starting watch mode..."
	}

	header := m.styles.Header.Render("kata watch: " + m.dir)

	var status string
	switch {
	case m.isRunning:
		status = fmt.Sprintf("%s running %s...", m.spinner.View(), describeTarget(m.lastTarget))
	case m.lastRun != "":
		status = m.lastRun
		if m.lastEvent != "" {
			status += m.styles.Muted.Render("  (" + m.lastEvent + ")")
		}
	default:
		status = m.styles.Muted.Render("waiting for changes")
	}

	footer := m.styles.Footer.Render("r: re-run / a: run all / q: quit / arrows: scroll")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, status, m.viewport.View(), footer)
}

func (m watchModel) welcome() string {
	var sb strings.Builder
	sb.WriteString("Watching " + m.dir + " for changes.\n\n")
	sb.WriteString("Save a note to re-run its kata, or press a to run everything now.\n")
	return sb.String()
}

func describeTarget(ids []string) string {
	if len(ids) == 0 {
		return "all katas"
	}
	return strings.Join(ids, ", ")
}

// kataForNote maps a changed file to the kata whose note it is. Files
// that are nobody's note re-run everything.
func kataForNote(reg *kata.Registry, path string) []string {
	base := filepath.Base(path)
	for _, k := range reg.All() {
		if k.Note == base {
			return []string{k.ID}
		}
	}
	return nil
}

// waitForEvent blocks on the watcher channel and feeds the next change
// into the update loop.
func waitForEvent(events <-chan watch.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-events
		if !ok {
			return watchClosedMsg{}
		}
		return fileEventMsg(ev)
	}
}

// runSuite runs the named katas (all of them when ids is empty) and
// renders the combined report.
func runSuite(reg *kata.Registry, ids []string) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		runID := uuid.NewString()

		var katas []kata.Kata
		if len(ids) == 0 {
			katas = reg.All()
		} else {
			for _, id := range ids {
				if k, ok := reg.Get(id); ok {
					katas = append(katas, k)
				}
			}
			if len(katas) == 0 {
				katas = reg.All()
			}
		}

		var sb strings.Builder
		failed := 0
		for i, k := range katas {
			if i > 0 {
				sb.WriteString("\n")
			}

			ctx, cancel := context.WithTimeout(context.Background(), cfg.RunTimeout())
			env := &kata.Env{
				Log:   logger.Named(k.ID),
				Clock: clockwork.NewRealClock(),
				Out:   io.Discard,
				RunID: runID,
			}
			rep, err := k.Demo(ctx, env)
			cancel()

			if err != nil {
				failed++
				sb.WriteString(fmt.Sprintf("kata: %s\nerror: %v\n", k.ID, err))
				continue
			}
			sb.WriteString(rep.Render())
			if !rep.OK() {
				failed++
			}
		}

		return runDoneMsg{
			summary: sb.String(),
			failed:  failed,
			total:   len(katas),
			elapsed: time.Since(start),
		}
	}
}
