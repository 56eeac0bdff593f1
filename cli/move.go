package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutusiji/lantu-next/config"
	"github.com/tutusiji/lantu-next/models"
	"github.com/tutusiji/lantu-next/reconcile"
)

func newMoveCmd(app *App) *cobra.Command {
	var (
		apiURL   string
		username string
		password string
		kind     string
		parentID int64
		from     int
		to       int
	)

	cmd := &cobra.Command{
		Use:     "move",
		Short:   "Move one entry within its ordered list on a running server",
		Example: "  techmap move --type layer --from 2 --to 0\n  techmap move --type category --parent 1 --from 0 --to 3",
		RunE: func(cmd *cobra.Command, args []string) error {
			scopeKind, err := models.ParseScopeKind(kind)
			if err != nil {
				return err
			}
			scope := reconcile.Scope{Kind: scopeKind, ParentID: parentID}
			if scopeKind == models.ScopeLayer {
				scope = reconcile.LayersScope()
			}

			c := app.newClient(apiURL)
			if err := app.login(cmd.Context(), c, username, password); err != nil {
				return err
			}

			timeout := config.GetSeconds(app.Config, "TECHMAP_PERSIST_TIMEOUT_SECONDS", int(reconcile.DefaultPersistTimeout.Seconds()))
			r := reconcile.New(c, reconcile.WithPersistTimeout(timeout))
			defer r.Close()
			if err := r.Load(cmd.Context()); err != nil {
				return err
			}

			pending, err := r.Move(scope, from, to)
			if err != nil {
				return err
			}
			if err := pending.Wait(cmd.Context()); err != nil {
				return fmt.Errorf("persisting move: %w", err)
			}

			ids, _ := r.Get(scope)
			fmt.Fprintf(app.Out, "%s %s: %v\n", scope, r.State(scope), ids)
			return nil
		},
	}

	cmd.Flags().StringVar(&apiURL, "api", "", "API base URL (defaults to TECHMAP_API_URL)")
	cmd.Flags().StringVar(&username, "user", "", "Admin username (defaults to TECHMAP_ADMIN_USER)")
	cmd.Flags().StringVar(&password, "password", "", "Admin password (defaults to TECHMAP_ADMIN_PASSWORD)")
	cmd.Flags().StringVar(&kind, "type", "", "Scope kind: layer, category or tech-item")
	cmd.Flags().Int64Var(&parentID, "parent", 0, "Layer id for categories, category id for tech items")
	cmd.Flags().IntVar(&from, "from", 0, "Current position, zero based")
	cmd.Flags().IntVar(&to, "to", 0, "Target position, zero based")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}
