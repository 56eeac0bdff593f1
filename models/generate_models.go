package models

import (
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"sync"

	"gorm.io/gen"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

/*
Column Mismatch Report Usage:

Reports database columns that aren't accounted for as fields in the corresponding
Go model structs.

	techmap column-report

The report will show:
- Each table name
- List of columns that exist in the database but not in the Go model
- Summary of total mismatched columns across all tables

Example output:
=== COLUMN MISMATCH REPORT ===
--- Table: tech_items ---
Found 1 columns not accounted for in model:
  - legacy_rank

--- Table: layers ---
All columns are accounted for in the model.

=== SUMMARY ===
Total mismatched columns across all tables: 1
*/

// All returns one zero value of every persisted model, in dependency order.
func All() []any {
	return []any{
		&Layer{},
		&Category{},
		&TechItem{},
		&User{},
	}
}

// GenerateModels migrates the schema and writes gorm/gen query code to outPath.
func GenerateModels(db *gorm.DB, outPath string) error {
	if err := db.Exec("SELECT 1").Error; err != nil {
		return fmt.Errorf("connecting to database: %w", err)
	}

	verbose := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             0,
			LogLevel:                  logger.Info,
			IgnoreRecordNotFoundError: false,
			Colorful:                  true,
		},
	)
	db = db.Session(&gorm.Session{
		Logger:                 verbose,
		SkipDefaultTransaction: true,
		PrepareStmt:            false,
	})

	if outPath == "" {
		outPath = "./generated"
	}
	g := gen.NewGenerator(gen.Config{
		OutPath:           outPath,
		Mode:              gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:     true,
		FieldCoverable:    true,
		FieldWithIndexTag: true,
		FieldWithTypeTag:  true,
	})
	g.UseDB(db)
	g.ApplyBasic(Layer{}, Category{}, TechItem{}, User{})

	fmt.Println("Migrating models...")
	if err := db.AutoMigrate(All()...); err != nil {
		return fmt.Errorf("migrating models: %w", err)
	}
	fmt.Println("Database migration completed successfully!")

	if _, err := GenerateColumnMismatchReport(db, os.Stdout); err != nil {
		return err
	}

	g.Execute()
	fmt.Println("Model generation complete!")
	return nil
}

// GenerateColumnMismatchReport writes the report to w and returns the
// mismatched columns per table.
func GenerateColumnMismatchReport(db *gorm.DB, w io.Writer) (map[string][]string, error) {
	fmt.Fprintln(w, "=== COLUMN MISMATCH REPORT ===")

	cache := &sync.Map{}
	result := make(map[string][]string)
	totalMismatches := 0

	for _, model := range All() {
		s, err := schema.Parse(model, cache, db.NamingStrategy)
		if err != nil {
			return nil, fmt.Errorf("parsing model %T: %w", model, err)
		}
		fmt.Fprintf(w, "\n--- Table: %s ---\n", s.Table)

		if !db.Migrator().HasTable(s.Table) {
			fmt.Fprintln(w, "Table does not exist yet (will be created during migration)")
			continue
		}

		dbColumns, err := getTableColumns(db, model)
		if err != nil {
			return nil, err
		}

		mismatches := findColumnMismatches(dbColumns, s.DBNames)
		if len(mismatches) > 0 {
			fmt.Fprintf(w, "Found %d columns not accounted for in model:\n", len(mismatches))
			for _, col := range mismatches {
				fmt.Fprintf(w, "  - %s\n", col)
			}
			totalMismatches += len(mismatches)
			result[s.Table] = mismatches
		} else {
			fmt.Fprintln(w, "All columns are accounted for in the model.")
		}
	}

	fmt.Fprintf(w, "\n=== SUMMARY ===\n")
	fmt.Fprintf(w, "Total mismatched columns across all tables: %d\n", totalMismatches)
	return result, nil
}

// getTableColumns lists column names through the dialect's migrator
func getTableColumns(db *gorm.DB, model any) ([]string, error) {
	types, err := db.Migrator().ColumnTypes(model)
	if err != nil {
		return nil, fmt.Errorf("querying columns for %T: %w", model, err)
	}
	columns := make([]string, 0, len(types))
	for _, ct := range types {
		columns = append(columns, ct.Name())
	}
	return columns, nil
}

// findColumnMismatches finds columns that exist in the database but not in the model
func findColumnMismatches(dbColumns, modelFields []string) []string {
	modelFieldSet := make(map[string]bool)
	for _, field := range modelFields {
		modelFieldSet[field] = true
	}

	var mismatches []string
	for _, col := range dbColumns {
		if !modelFieldSet[col] {
			mismatches = append(mismatches, col)
		}
	}
	sort.Strings(mismatches)
	return mismatches
}
