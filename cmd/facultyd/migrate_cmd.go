package main

import (
	"fmt"
	"os"

	"facultysite/adapters/filestore"
	"facultysite/adapters/postgres"
	"facultysite/domain/faculty"
	"facultysite/internal/migration"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"
)

type migrateOptions struct {
	databaseURL string
	from        string
}

func newMigrateCmd(root *rootOptions) *cobra.Command {
	opts := &migrateOptions{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the Postgres schema and optionally import a JSON document cache",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := root.loadEnv(); err != nil {
				return err
			}
			if opts.databaseURL == "" {
				opts.databaseURL = os.Getenv("DATABASE_URL")
			}
			if opts.databaseURL == "" {
				return fmt.Errorf("--database-url or DATABASE_URL is required")
			}

			ctx := cmd.Context()
			db, err := sqlx.ConnectContext(ctx, "postgres", opts.databaseURL)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}
			defer db.Close()

			runner := migration.NewRunner()
			if err := runner.Run(ctx, db); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "schema %s applied\n", runner.Version())

			if opts.from == "" {
				return nil
			}
			docs, err := filestore.New(opts.from).Load(ctx)
			if err != nil {
				return err
			}
			if err := postgres.NewDocumentRepository(db).Replace(ctx, docs); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d documents from %s: %v\n", len(docs), opts.from, faculty.IDs(docs))
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.databaseURL, "database-url", "", "Postgres connection string (defaults to DATABASE_URL)")
	cmd.Flags().StringVar(&opts.from, "from", "", "JSON document cache to import after the schema is applied")
	return cmd
}
