// internal/adapters/in/tui/render.go
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"storefront/internal/application/listing"
	"storefront/internal/application/usecase"
	authdom "storefront/internal/domain/auth"
	orderdom "storefront/internal/domain/order"
	productdom "storefront/internal/domain/product"
)

// DefaultWrap is the word-wrap width used when the terminal size is unknown.
const DefaultWrap = 80

func money(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

func moneyDec(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Notification renders a toast line.
func Notification(s Styles, n usecase.Notification) string {
	if n.Message == "" {
		return ""
	}
	switch n.Level {
	case usecase.LevelError:
		return s.Error.Render("✗ " + n.Message)
	case usecase.LevelSuccess:
		return s.Success.Render("✓ " + n.Message)
	default:
		return s.Info.Render(n.Message)
	}
}

// ProductLine is one row of a product listing.
func ProductLine(s Styles, p productdom.Product) string {
	var b strings.Builder
	b.WriteString(s.Muted.Render(fmt.Sprintf("#%-4s", p.ID)))
	b.WriteString(" ")
	b.WriteString(s.Bold.Render(p.Title))
	b.WriteString("  ")
	b.WriteString(s.Price.Render(money(p.Price)))
	if p.HasDiscount() {
		b.WriteString(" ")
		b.WriteString(s.Strike.Render(money(p.OriginalPrice())))
		b.WriteString(" ")
		b.WriteString(s.Badge.Render(fmt.Sprintf("-%.0f%%", p.DiscountPercentage)))
	}
	if p.Rating > 0 {
		b.WriteString(s.Muted.Render(fmt.Sprintf("  ★ %.1f", p.Rating)))
	}
	return b.String()
}

// ProductList renders products one per line; selected < 0 highlights none.
func ProductList(s Styles, products []productdom.Product, selected int) string {
	if len(products) == 0 {
		return s.Muted.Render("No products found")
	}
	lines := make([]string, 0, len(products))
	for i, p := range products {
		cursor := "  "
		if i == selected {
			cursor = s.Subtitle.Render("> ")
		}
		lines = append(lines, cursor+ProductLine(s, p))
	}
	return strings.Join(lines, "\n")
}

// Pages renders pagination controls, current page highlighted.
func Pages(s Styles, current, totalPages int) string {
	if totalPages <= 1 {
		return ""
	}
	items := listing.PageRange(current, totalPages, listing.DefaultDelta)
	parts := make([]string, 0, len(items))
	for _, it := range items {
		if !it.Ellipsis && it.Page == current {
			parts = append(parts, s.PageCur.Render(it.String()))
			continue
		}
		parts = append(parts, s.Page.Render(it.String()))
	}
	return strings.Join(parts, " ")
}

// ProductDetail renders the detail view; the description goes through
// glamour in the theme's style.
func ProductDetail(s Styles, p productdom.Product, width int) (string, error) {
	if width <= 0 {
		width = DefaultWrap
	}
	var b strings.Builder
	b.WriteString(s.Title.Render(p.Title))
	b.WriteString("\n")
	if p.Brand != "" {
		b.WriteString(s.Muted.Render("Brand: "+p.Brand) + "\n")
	}
	if p.Category != "" {
		b.WriteString(s.Muted.Render("Category: "+p.Category) + "\n")
	}
	price := s.Price.Render(money(p.Price))
	if p.HasDiscount() {
		price += " " + s.Strike.Render(money(p.OriginalPrice())) +
			" " + s.Badge.Render(fmt.Sprintf("%.0f%% OFF", p.DiscountPercentage))
	}
	b.WriteString(price + "\n")
	b.WriteString(s.Body.Render(fmt.Sprintf("Rating: %.1f  Stock: %d", p.Rating, p.Stock)) + "\n")

	if desc := strings.TrimSpace(p.Description); desc != "" {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(s.Theme.GlamourStyle()),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", fmt.Errorf("tui: renderer: %w", err)
		}
		out, err := r.Render(desc)
		if err != nil {
			return "", fmt.Errorf("tui: render description: %w", err)
		}
		b.WriteString(out)
	}
	return b.String(), nil
}

// Categories renders the category list.
func Categories(s Styles, cats []productdom.Category) string {
	if len(cats) == 0 {
		return s.Muted.Render("No categories")
	}
	lines := make([]string, 0, len(cats))
	for _, c := range cats {
		lines = append(lines, s.Bold.Render(c.Label())+" "+s.Muted.Render("("+c.Slug+")"))
	}
	return strings.Join(lines, "\n")
}

// Overview renders category cards with their product previews.
func Overview(s Styles, cards []usecase.CategoryPreview) string {
	blocks := make([]string, 0, len(cards))
	for _, card := range cards {
		var b strings.Builder
		b.WriteString(s.Subtitle.Render(card.Category.Label()))
		switch {
		case card.Failed:
			b.WriteString("\n" + s.Error.Render("Failed to load products"))
		case len(card.Products) == 0:
			b.WriteString("\n" + s.Muted.Render("No products"))
		default:
			for _, p := range card.Products {
				b.WriteString("\n" + ProductLine(s, p))
			}
		}
		blocks = append(blocks, s.Card.Render(b.String()))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// Cart renders the cart page.
func Cart(s Styles, v usecase.CartView) string {
	if len(v.Items) == 0 {
		return s.Muted.Render("Your cart is empty")
	}
	var b strings.Builder
	b.WriteString(s.Title.Render(fmt.Sprintf("Cart (%d)", v.Count)))
	b.WriteString("\n")
	for _, it := range v.Items {
		b.WriteString(fmt.Sprintf("%s %s x%d  %s\n",
			s.Muted.Render("#"+it.ID),
			s.Bold.Render(it.Title),
			it.Quantity,
			s.Price.Render(moneyDec(it.Subtotal)),
		))
	}
	b.WriteString(s.Subtitle.Render("Total: ") + s.Price.Render(moneyDec(v.Total)))
	return b.String()
}

// Order renders one order summary.
func Order(s Styles, o orderdom.Order) string {
	var b strings.Builder
	b.WriteString(s.Subtitle.Render("Order #" + o.ShortID()))
	b.WriteString(" " + s.Muted.Render(string(o.Status)))
	if !o.CreatedAt.IsZero() {
		b.WriteString(" " + s.Muted.Render(o.CreatedAt.Local().Format("2006-01-02 15:04")))
	}
	for _, it := range o.Items {
		b.WriteString(fmt.Sprintf("\n  %s x%d  %s", it.Title, it.Quantity, moneyDec(it.Subtotal())))
	}
	sd := o.ShippingDetails
	b.WriteString("\n  " + s.Muted.Render(fmt.Sprintf("Ship to: %s, %s %s (%s)", sd.ShippingAddress, sd.City, sd.PostalCode, sd.Phone)))
	b.WriteString("\n  " + s.Bold.Render("Total: ") + s.Price.Render(moneyDec(o.Total)))
	return s.Card.Render(b.String())
}

// Orders renders the order history.
func Orders(s Styles, orders []orderdom.Order) string {
	if len(orders) == 0 {
		return s.Muted.Render("No orders found")
	}
	blocks := make([]string, 0, len(orders))
	for _, o := range orders {
		blocks = append(blocks, Order(s, o))
	}
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}

// Profile renders the profile page.
func Profile(s Styles, p authdom.Profile) string {
	row := func(label, v string) string {
		if v == "" {
			v = "-"
		}
		return s.Muted.Render(fmt.Sprintf("%-12s", label)) + s.Body.Render(v)
	}
	lines := []string{
		s.Title.Render(firstNonBlank(p.DisplayName(), p.Email)),
		row("Email", p.Email),
		row("Username", p.Username),
		row("Phone", p.Phone),
		row("Address", p.Address),
		row("City", p.City),
		row("Postal code", p.PostalCode),
	}
	return strings.Join(lines, "\n")
}

func firstNonBlank(vs ...string) string {
	for _, v := range vs {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
