package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tutusiji/lantu-next/client"
	"github.com/tutusiji/lantu-next/config"
	"github.com/tutusiji/lantu-next/icons"
	"github.com/tutusiji/lantu-next/models"
)

func (a *App) newClient(apiURL string) *client.Client {
	timeout := config.GetSeconds(a.Config, "TECHMAP_CLIENT_TIMEOUT_SECONDS", int(client.DefaultTimeout.Seconds()))
	return client.New(a.apiURL(apiURL), client.WithTimeout(timeout))
}

func newShowCmd(app *App) *cobra.Command {
	var (
		apiURL  string
		missing bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the catalogue of a running server as a tree",
		RunE: func(cmd *cobra.Command, args []string) error {
			dashboard, err := app.newClient(apiURL).Dashboard(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching dashboard: %w", err)
			}
			RenderTree(app.Out, dashboard, missing)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", "", "API base URL (defaults to TECHMAP_API_URL)")
	cmd.Flags().BoolVar(&missing, "missing", false, "Only list missing tech items")
	return cmd
}

// RenderTree writes layers, categories and items in display order. Solution
// categories list their items per layout column.
func RenderTree(w io.Writer, d *models.Dashboard, missingOnly bool) {
	fmt.Fprintf(w, "%d/%d active (%s%%)\n", d.Stats.Active, d.Stats.Total, d.Stats.Coverage)

	categories := make(map[int64][]models.Category)
	for _, c := range d.Categories {
		categories[c.LayerID] = append(categories[c.LayerID], c)
	}
	items := make(map[int64][]models.TechItem)
	for _, it := range d.TechItems {
		if missingOnly && it.Status != models.StatusMissing {
			continue
		}
		items[it.CategoryID] = append(items[it.CategoryID], it)
	}

	for _, layer := range d.Layers {
		fmt.Fprintf(w, "\n%s %s\n", icons.Render(layer.Icon), layer.Name)
		for _, category := range categories[layer.ID] {
			layout, ok := category.Icon.Layout()
			if !ok {
				fmt.Fprintf(w, "  %s %s (%d)\n", icons.Render(category.Icon.Name()), category.Name, len(items[category.ID]))
				for _, it := range items[category.ID] {
					writeItem(w, "    ", it)
				}
				continue
			}
			renderSolution(w, category, layout, items[category.ID])
		}
	}
}

func renderSolution(w io.Writer, category models.Category, layout models.SolutionLayout, items []models.TechItem) {
	fmt.Fprintf(w, "  %s %s (%d)\n", icons.Render(string(icons.Grid)), category.Name, len(items))
	if layout.Description != "" {
		fmt.Fprintf(w, "    %s\n", layout.Description)
	}

	placed := make(map[int64]bool, len(items))
	for _, col := range layout.Columns {
		fmt.Fprintf(w, "    %s %s\n", icons.Render(col.Icon), col.Name)
		for _, it := range items {
			if models.HasTag(it.Tags, col.ID) {
				writeItem(w, "      ", it)
				placed[it.ID] = true
			}
		}
	}

	var rest []models.TechItem
	for _, it := range items {
		if !placed[it.ID] {
			rest = append(rest, it)
		}
	}
	if len(rest) == 0 {
		return
	}
	fmt.Fprintln(w, "    (unassigned)")
	for _, it := range rest {
		writeItem(w, "      ", it)
	}
}

func writeItem(w io.Writer, indent string, it models.TechItem) {
	mark := "●"
	if it.Status == models.StatusMissing {
		mark = "○"
	}

	var b strings.Builder
	b.WriteString(indent)
	b.WriteString(mark)
	b.WriteByte(' ')
	b.WriteString(it.Name)
	if it.Tags != "" {
		fmt.Fprintf(&b, " [%s]", it.Tags)
	}
	if it.Priority != models.PriorityNone {
		fmt.Fprintf(&b, " !%s", it.Priority)
	}
	if it.IsNew {
		b.WriteString(" new")
	}
	fmt.Fprintln(w, b.String())
}

// login authenticates c with flag values, falling back to TECHMAP_ADMIN_USER
// and TECHMAP_ADMIN_PASSWORD.
func (a *App) login(ctx context.Context, c *client.Client, username, password string) error {
	if username == "" {
		username = config.GetString(a.Config, "TECHMAP_ADMIN_USER", "")
	}
	if password == "" {
		password = config.GetString(a.Config, "TECHMAP_ADMIN_PASSWORD", "")
	}
	if username == "" {
		return errors.New("admin username required (--user or TECHMAP_ADMIN_USER)")
	}
	if _, err := c.Login(ctx, username, password); err != nil {
		return fmt.Errorf("logging in: %w", err)
	}
	return nil
}
