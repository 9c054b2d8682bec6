// internal/adapters/in/tui/browse.go
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"storefront/internal/application/listing"
	"storefront/internal/application/store"
	"storefront/internal/application/usecase"
	productdom "storefront/internal/domain/product"
)

// ErrCrashed is returned by Run when the browser panicked.
var ErrCrashed = errors.New("tui: Something went wrong. Please try refreshing the page")

const helpText = "←/→ page • ↑/↓ select • c category • / search • a add to cart • t theme • q quit"

// Deps are what the product browser drives.
type Deps struct {
	Catalog  productdom.Catalog
	Products *usecase.CatalogUsecase
	Cart     *usecase.CartUsecase
	State    *store.Store
	Log      *zap.Logger
}

// ----------------------------
// Messages
// ----------------------------

type resultMsg struct{ res listing.Result }

type categoriesMsg struct {
	cats []productdom.Category
	err  error
}

type noticeMsg struct{ n usecase.Notification }

type snapshotMsg struct{ snap store.Snapshot }

// ----------------------------
// Model
// ----------------------------

// Browser is the bubbletea model behind `storefront browse`.
// Every key that changes page / category / query issues one listing fetch
// as a tea.Cmd; results that lost the sequence race arrive with
// Applied=false and are ignored.
type Browser struct {
	ctx  context.Context
	orch *listing.Orchestrator
	deps Deps
	log  *zap.Logger

	styles     Styles
	listing    listing.State
	categories []productdom.Category
	catIdx     int
	selected   int
	loading    bool
	searching  bool
	input      textinput.Model
	spinner    spinner.Model
	notice     usecase.Notification
	cartCount  int
	width      int
	quitting   bool
}

func NewBrowser(ctx context.Context, d Deps) (*Browser, error) {
	if d.Catalog == nil || d.State == nil {
		return nil, errors.New("tui: catalog and state are required")
	}
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	orch, err := listing.New(d.Catalog, listing.WithLogger(log))
	if err != nil {
		return nil, err
	}

	in := textinput.New()
	in.Placeholder = "Search products..."
	in.CharLimit = 100
	in.Prompt = "/ "

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &Browser{
		ctx:       ctx,
		orch:      orch,
		deps:      d,
		log:       log.Named("tui.browse"),
		styles:    StylesFor(d.State.DarkMode()),
		listing:   orch.State(),
		catIdx:    -1,
		loading:   true,
		input:     in,
		spinner:   sp,
		cartCount: d.State.CartCount(),
	}, nil
}

func (m *Browser) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.fetch(m.orch.Load),
		m.loadCategories(),
	)
}

func (m *Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case resultMsg:
		return m, m.applyResult(msg.res)

	case categoriesMsg:
		if msg.err != nil {
			m.notice = usecase.Notify(usecase.OpFetchOverview, msg.err)
			return m, nil
		}
		m.categories = msg.cats
		return m, nil

	case noticeMsg:
		m.notice = msg.n
		m.syncState()
		return m, nil

	case snapshotMsg:
		m.styles = StylesFor(msg.snap.Theme.DarkMode)
		m.cartCount = msg.snap.Cart.Count()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(msg.Width-4, 10)
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m *Browser) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searching = false
		m.input.Blur()
		q := m.input.Value()
		m.selected = 0
		return m, m.fetch(func(ctx context.Context) listing.Result { return m.orch.Search(ctx, q) })
	case tea.KeyEsc:
		m.searching = false
		m.input.Blur()
		return m, nil
	case tea.KeyCtrlC:
		return m.quit()
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Browser) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m.quit()

	case "left", "h":
		page := m.listing.View.Page
		if page <= 1 {
			return m, nil
		}
		m.selected = 0
		return m, m.fetch(func(ctx context.Context) listing.Result { return m.orch.SetPage(ctx, page-1) })

	case "right", "l":
		page := m.listing.View.Page
		if page >= m.listing.TotalPages {
			return m, nil
		}
		m.selected = 0
		return m, m.fetch(func(ctx context.Context) listing.Result { return m.orch.SetPage(ctx, page+1) })

	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
		return m, nil

	case "down", "j":
		if m.selected < len(m.listing.Products)-1 {
			m.selected++
		}
		return m, nil

	case "c":
		slug := m.nextCategory()
		m.selected = 0
		return m, m.fetch(func(ctx context.Context) listing.Result { return m.orch.SetCategory(ctx, slug) })

	case "/":
		m.searching = true
		m.input.SetValue(m.listing.View.Query)
		m.input.CursorEnd()
		return m, tea.Batch(m.input.Focus(), textinput.Blink)

	case "a":
		p, ok := m.current()
		if !ok || m.deps.Cart == nil {
			return m, nil
		}
		return m, func() tea.Msg {
			err := m.deps.Cart.AddProduct(m.ctx, p)
			return noticeMsg{usecase.Notify(usecase.OpAddToCart, err)}
		}

	case "t":
		return m, func() tea.Msg {
			if err := m.deps.State.ToggleDarkMode(m.ctx); err != nil {
				return noticeMsg{usecase.Notify(usecase.OpTheme, err)}
			}
			return noticeMsg{}
		}
	}
	return m, nil
}

func (m *Browser) quit() (tea.Model, tea.Cmd) {
	m.orch.Close()
	m.quitting = true
	return m, tea.Quit
}

// fetch wraps one orchestrator command as a tea.Cmd.
func (m *Browser) fetch(run func(context.Context) listing.Result) tea.Cmd {
	m.loading = true
	m.notice = usecase.Notification{}
	return func() tea.Msg {
		return resultMsg{res: run(m.ctx)}
	}
}

func (m *Browser) applyResult(res listing.Result) tea.Cmd {
	if !res.Applied {
		return nil
	}
	m.loading = false
	m.listing = m.orch.State()
	if res.Err != nil {
		m.log.Warn("listing fetch failed", zap.Error(res.Err))
		m.notice = usecase.Notify(listingOp(res.View), res.Err)
	}
	if m.selected >= len(m.listing.Products) {
		m.selected = max(len(m.listing.Products)-1, 0)
	}
	return nil
}

func (m *Browser) loadCategories() tea.Cmd {
	return func() tea.Msg {
		if m.deps.Products == nil {
			return categoriesMsg{}
		}
		cats, err := m.deps.Products.Categories(m.ctx)
		return categoriesMsg{cats: cats, err: err}
	}
}

// nextCategory cycles all → first → ... → last → all.
func (m *Browser) nextCategory() string {
	if len(m.categories) == 0 {
		m.catIdx = -1
		return ""
	}
	m.catIdx++
	if m.catIdx >= len(m.categories) {
		m.catIdx = -1
		return ""
	}
	return m.categories[m.catIdx].Slug
}

func (m *Browser) current() (productdom.Product, bool) {
	if m.selected < 0 || m.selected >= len(m.listing.Products) {
		return productdom.Product{}, false
	}
	return m.listing.Products[m.selected], true
}

func (m *Browser) syncState() {
	m.styles = StylesFor(m.deps.State.DarkMode())
	m.cartCount = m.deps.State.CartCount()
}

func listingOp(v listing.View) usecase.Op {
	switch {
	case v.Query != "":
		return usecase.OpSearch
	case v.Category != "":
		return usecase.OpFetchCategory
	default:
		return usecase.OpFetchProducts
	}
}

// ----------------------------
// View
// ----------------------------

func (m *Browser) View() string {
	if m.quitting {
		return ""
	}
	s := m.styles
	var b strings.Builder

	theme := "light"
	if s.Theme.IsDark {
		theme = "dark"
	}
	b.WriteString(s.Title.Render("Storefront"))
	b.WriteString(s.Muted.Render(fmt.Sprintf("  Cart (%d) • %s", m.cartCount, theme)))
	b.WriteString("\n")

	v := m.listing.View
	filter := "All Categories"
	if v.Category != "" {
		filter = m.categoryLabel(v.Category)
	}
	b.WriteString(s.Subtitle.Render(filter))
	if v.Query != "" {
		b.WriteString(s.Muted.Render(fmt.Sprintf("  search: %q", v.Query)))
	}
	b.WriteString(s.Muted.Render(fmt.Sprintf("  %d products", m.listing.Total)))
	b.WriteString("\n")

	if m.searching {
		b.WriteString(m.input.View() + "\n")
	}
	if m.loading {
		b.WriteString(m.spinner.View() + s.Muted.Render(" Loading...") + "\n")
	}

	b.WriteString(ProductList(s, m.listing.Products, m.selected))
	b.WriteString("\n")
	if pages := Pages(s, v.Page, m.listing.TotalPages); pages != "" {
		b.WriteString("\n" + pages + "\n")
	}
	if n := Notification(s, m.notice); n != "" {
		b.WriteString("\n" + n + "\n")
	}
	b.WriteString("\n" + s.Help.Render(helpText))
	return b.String()
}

func (m *Browser) categoryLabel(slug string) string {
	for _, c := range m.categories {
		if c.Slug == slug {
			return c.Label()
		}
	}
	return slug
}

// ----------------------------
// Run
// ----------------------------

// Run starts the browser on the terminal and blocks until it quits.
// Store mutations made elsewhere (e.g. a watched state file) are pushed
// into the running program.
func Run(ctx context.Context, d Deps, opts ...tea.ProgramOption) (err error) {
	m, err := NewBrowser(ctx, d)
	if err != nil {
		return err
	}
	defer m.orch.Close()

	defer func() {
		if r := recover(); r != nil {
			m.log.Error("browser panic", zap.Any("panic", r))
			err = ErrCrashed
		}
	}()

	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)
	p := tea.NewProgram(m, opts...)

	unsubscribe := d.State.Subscribe(func(snap store.Snapshot) {
		p.Send(snapshotMsg{snap: snap})
	})
	defer unsubscribe()

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			if ctx.Err() != nil {
				return nil
			}
			return ErrCrashed
		}
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
