package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Makepad-fr/shopcart/internal/cart"
	"github.com/Makepad-fr/shopcart/internal/catalog"
	"github.com/Makepad-fr/shopcart/internal/model"
	"github.com/Makepad-fr/shopcart/internal/store"
	"github.com/Makepad-fr/shopcart/internal/tui"
	"github.com/Makepad-fr/shopcart/internal/ui"
)

// printer is the CLI side of cart.Listener: the notification goes to the
// terminal and the latest count is kept for the badge line.
type printer struct {
	w     io.Writer
	count int
}

func (p *printer) CountChanged(total int) { p.count = total }
func (p *printer) ItemAdded(item model.LineItem) {
	fmt.Fprintln(p.w, ui.Current().Success.Render(ui.Notification(item.Name)))
}

func newAddCmd(a *app) *cobra.Command {
	var price string
	cmd := &cobra.Command{
		Use:   "add <name...> [--price amount]",
		Short: "Add a product to the cart (name can be multiple words)",
		Example: `  shopcart add Red Sneaker
  shopcart --site pastry add "Lemon Tart"
  shopcart add "Custom Tee" --price 19.99`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := strings.TrimSpace(strings.Join(args, " "))
			if name == "" {
				return usagef("add: empty name")
			}
			p, err := a.resolvePrice(name, price, cmd.Flags().Changed("price"))
			if err != nil {
				return err
			}

			pr := &printer{w: a.out}
			c, err := a.openCart(cmd.Context(), cart.WithListener(pr))
			if err != nil {
				return err
			}
			if err := c.AddItem(cmd.Context(), name, p); err != nil {
				return fmt.Errorf("save: %w", err)
			}
			if b := ui.Badge(pr.count); b != "" {
				fmt.Fprintln(a.out, b)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&price, "price", "", "unit price; defaults to the catalog price")
	return cmd
}

// resolvePrice validates an explicit price or falls back to the catalog.
// The cart itself stores whatever it is given, so bad input stops here.
func (a *app) resolvePrice(name, raw string, explicit bool) (float64, error) {
	if explicit {
		p, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(raw), "$"), 64)
		if err != nil {
			return 0, usagef("add: not a price: %q", raw)
		}
		if math.IsNaN(p) || math.IsInf(p, 0) || p < 0 {
			return 0, usagef("add: price must be a non-negative number, got %q", raw)
		}
		return p, nil
	}
	cat, err := a.catalog()
	if err != nil {
		return 0, err
	}
	prod, err := cat.Find(name)
	if errors.Is(err, catalog.ErrProductNotFound) {
		return 0, usagef("add: %q is not in the %s catalog; pass --price", name, a.site)
	}
	if err != nil {
		return 0, err
	}
	return prod.Price, nil
}

func newCountCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of items in the cart",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openCart(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, c.TotalItemCount())
			return nil
		},
	}
}

func newSummaryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show cart lines and the total",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.openCart(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, ui.Panel(ui.SummaryLines(c.Summary())))
			return nil
		},
	}
}

func newProductsCmd(a *app) *cobra.Command {
	var category, search string
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List catalog products, optionally filtered",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			narrowed := &catalog.Catalog{Site: cat.Site, Products: cat.Filter(category)}
			products := narrowed.Search(search)

			t := ui.Current()
			header := fmt.Sprintf("%s  %s %d", t.Title.Render(a.siteCfg.Title), t.Accent.Render("Products"), len(products))
			lines := append([]string{header, ""}, ui.ProductLines(products)...)
			fmt.Fprintln(a.out, ui.Panel(lines))
			return nil
		},
	}
	cmd.Flags().StringVarP(&category, "category", "c", catalog.AllCategories, "only this category")
	cmd.Flags().StringVarP(&search, "search", "s", "", "match name, description or category")
	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			for _, c := range cat.Categories() {
				fmt.Fprintln(a.out, c)
			}
			return nil
		},
	}
}

func newSitesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List configured storefronts and their slot keys",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			t := ui.Current()
			for _, name := range a.cfg.SiteNames() {
				s := a.cfg.Sites[name]
				mark := " "
				if name == a.site {
					mark = "*"
				}
				fmt.Fprintf(a.out, "%s %-8s %-24s %s\n", mark, name, s.Title, t.Muted.Render(s.SlotKey))
			}
			return nil
		},
	}
}

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Interactive storefront (add with enter, tab for categories, / to search)",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.catalog()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			c, err := a.openCart(ctx)
			if err != nil {
				return err
			}
			opt := tui.Options{SiteTitle: a.siteCfg.Title}

			// Reload when another shopcart process writes the same slot.
			if w, ok := a.slot.(store.Watcher); ok {
				changes := make(chan struct{}, 1)
				done := make(chan struct{})
				go func() {
					defer close(done)
					defer close(changes)
					err := w.Watch(ctx, c.Key(), func() {
						select {
						case changes <- struct{}{}:
						default:
						}
					})
					if err != nil {
						a.logger.Warn("cart watcher stopped", zap.Error(err))
					}
				}()
				defer func() { cancel(); <-done }()
				opt.Changes = changes
			}

			if err := tui.Run(ctx, c, cat, opt); err != nil {
				return fmt.Errorf("tui: %w", err)
			}
			return nil
		},
	}
}
