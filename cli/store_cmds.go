package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tutusiji/lantu-next/models"
	"github.com/tutusiji/lantu-next/seed"
)

func newSeedCmd(app *App) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace the store contents with a catalogue",
		Long:  "Clears every table and loads the built-in catalogue, or the YAML file given with --file.",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalogue, err := loadCatalogue(file)
			if err != nil {
				return err
			}

			store, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			report, err := seed.Apply(cmd.Context(), store, catalogue)
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "seeded %s\n", report)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Catalogue YAML file (defaults to the built-in catalogue)")
	return cmd
}

func loadCatalogue(file string) (*seed.Catalogue, error) {
	if file == "" {
		return seed.Default()
	}
	return seed.LoadFile(file)
}

func newDedupeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "dedupe",
		Short: "Merge duplicate layers and categories, drop duplicate tech items",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := app.openStore()
			if err != nil {
				return err
			}
			defer closeStore()

			report, err := store.Dedupe(cmd.Context())
			if err != nil {
				return err
			}
			if !report.Changed() {
				fmt.Fprintln(app.Out, "no duplicates found")
				return nil
			}
			fmt.Fprintf(app.Out, "merged %d layers, %d categories; removed %d tech items\n",
				report.LayersMerged, report.CategoriesMerged, report.TechItemsRemoved)
			return nil
		},
	}
}

func newGenerateModelsCmd(app *App) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "generate-models",
		Short: "Generate typed query helpers for the catalogue models",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeDB, err := app.openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			if err := models.GenerateModels(db, outPath); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "query helpers written to %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "./query", "Output directory")
	return cmd
}

func newColumnReportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "column-report",
		Short: "Compare table columns with model fields",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, closeDB, err := app.openDB()
			if err != nil {
				return err
			}
			defer closeDB()

			mismatches, err := models.GenerateColumnMismatchReport(db, app.Out)
			if err != nil {
				return err
			}
			if len(mismatches) > 0 {
				return fmt.Errorf("%d tables have column mismatches", len(mismatches))
			}
			return nil
		},
	}
}
