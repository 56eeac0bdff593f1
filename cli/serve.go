package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tutusiji/lantu-next/api"
	"github.com/tutusiji/lantu-next/config"
	"github.com/tutusiji/lantu-next/seed"
)

func newServeCmd(app *App) *cobra.Command {
	var seedEmpty bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalogue API",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			if seedEmpty || config.GetBool(app.Config, "SEED_IF_EMPTY", false) {
				count, err := store.LayerRepo().Count(cmd.Context())
				if err != nil {
					return err
				}
				if count == 0 {
					catalogue, err := seed.Default()
					if err != nil {
						return err
					}
					report, err := seed.Apply(cmd.Context(), store, catalogue)
					if err != nil {
						return err
					}
					log.Info().Str("report", report.String()).Msg("seeded empty store")
				}
			}

			server, err := api.NewServer(store, app.Config)
			if err != nil {
				return fmt.Errorf("initializing server: %w", err)
			}

			errChannel := make(chan error, 2)
			go server.Start(errChannel)
			go listenToInterrupt(cmd.Context(), errChannel)

			fatalErr := <-errChannel
			log.Info().Msgf("Closing server: %v", fatalErr)

			server.ShutdownGracefully(config.GetSeconds(app.Config, "SHUTDOWN_TIMEOUT_SECONDS", DefaultShutdownSeconds))
			return nil
		},
	}

	cmd.Flags().BoolVar(&seedEmpty, "seed-if-empty", false, "Load the default catalogue when the store has no layers")
	return cmd
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(ctx context.Context, errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(c)

	select {
	case sig := <-c:
		errChannel <- fmt.Errorf("%s", sig)
	case <-ctx.Done():
		errChannel <- ctx.Err()
	}
}
