package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	tabActive   = lipgloss.NewStyle().Bold(true).Reverse(true).Padding(0, 1)
	tabInactive = lipgloss.NewStyle().Faint(true).Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

const helpText = "tab/shift+tab switch • 1-3 jump • ↑/↓ pgup/pgdn scroll • q quit"

// Viewer is a paged Bubble Tea model over an analysis result.
type Viewer struct {
	title  string
	pages  []page
	active int
	vp     viewport.Model
	width  int
	height int
}

// NewViewer builds the viewer with every page and start selected.
func NewViewer(data Data, start PageKind) *Viewer {
	v := &Viewer{
		title:  data.Title,
		pages:  make([]page, 0, len(PageKinds)),
		width:  80,
		height: 24,
	}
	for _, k := range PageKinds {
		p := newPage(k, data)
		if k == start {
			v.active = len(v.pages)
		}
		v.pages = append(v.pages, p)
	}
	v.vp = viewport.New(v.width, v.bodyHeight())
	v.refresh()
	return v
}

// Active returns the selected page.
func (v *Viewer) Active() PageKind {
	return v.pages[v.active].Kind()
}

func (v *Viewer) Init() tea.Cmd { return nil }

func (v *Viewer) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width, v.height = msg.Width, msg.Height
		v.vp.Width = msg.Width
		v.vp.Height = v.bodyHeight()
		v.refresh()
		return v, nil
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "esc", "ctrl+c":
			return v, tea.Quit
		case "tab", "right", "l":
			v.selectPage((v.active + 1) % len(v.pages))
			return v, nil
		case "shift+tab", "left", "h":
			v.selectPage((v.active + len(v.pages) - 1) % len(v.pages))
			return v, nil
		case "1", "2", "3":
			v.selectPage(int(key[0] - '1'))
			return v, nil
		}
	}
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *Viewer) selectPage(i int) {
	if i < 0 || i >= len(v.pages) || i == v.active {
		return
	}
	v.active = i
	v.refresh()
}

func (v *Viewer) refresh() {
	v.vp.SetContent(v.pages[v.active].Render(v.width))
	v.vp.GotoTop()
}

func (v *Viewer) bodyHeight() int {
	// заголовок, вкладки и подсказка
	return max(v.height-3, 1)
}

func (v *Viewer) tabs() string {
	labels := make([]string, len(v.pages))
	for i, p := range v.pages {
		label := fmt.Sprintf("%d %s", i+1, p.Label())
		if i == v.active {
			labels[i] = tabActive.Render(label)
		} else {
			labels[i] = tabInactive.Render(label)
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, labels...)
}

func (v *Viewer) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(truncate(v.title, v.width)))
	b.WriteByte('\n')
	b.WriteString(v.tabs())
	b.WriteString("\n")
	b.WriteString(v.vp.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(truncate(fmt.Sprintf("%s  %3.0f%%", helpText, v.vp.ScrollPercent()*100), v.width)))
	return b.String()
}

// Run shows the viewer full-screen until the user quits or ctx ends.
func Run(ctx context.Context, data Data, start PageKind, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	_, err := tea.NewProgram(NewViewer(data, start), opts...).Run()
	return err
}
