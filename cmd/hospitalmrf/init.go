package main

import (
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/gyeh/hospitalmrf/internal/config"
	"github.com/gyeh/hospitalmrf/internal/db"
)

func newInitCmd() *cobra.Command {
	var (
		credFile   string
		dbHost     string
		dbPort     int
		dbUser     string
		dbPassword string
		dbName     string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the hospitals/services/standard_charges/payer_charges schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if credFile != "" {
				if err := config.LoadCredentialFile(&cfg, credFile); err != nil {
					return err
				}
			}
			config.ApplyEnv(&cfg)
			if cmd.Flags().Changed("host") {
				cfg.DBHost = dbHost
			}
			if cmd.Flags().Changed("port") {
				cfg.DBPort = dbPort
			}
			if cmd.Flags().Changed("user") {
				cfg.DBUser = dbUser
			}
			if cmd.Flags().Changed("password") {
				cfg.DBPassword = dbPassword
			}
			if cmd.Flags().Changed("dbname") {
				cfg.DBName = dbName
			}

			ctx, cancel := withShutdownSignal()
			defer cancel()

			pool, err := pgxpool.New(ctx, cfg.ConnString())
			if err != nil {
				log.Fatalf("failed to connect to database: %v", err)
			}
			defer pool.Close()

			if err := db.InitializeSchema(ctx, pool); err != nil {
				log.Fatalf("failed to initialize schema: %v", err)
			}
			log.Println("schema initialized successfully")
			return nil
		},
	}

	cmd.Flags().StringVar(&credFile, "cred-file", "", "path to a key=value database credential file")
	cmd.Flags().StringVar(&dbHost, "host", "localhost", "PostgreSQL host")
	cmd.Flags().IntVar(&dbPort, "port", 5432, "PostgreSQL port")
	cmd.Flags().StringVar(&dbUser, "user", "postgres", "PostgreSQL user")
	cmd.Flags().StringVar(&dbPassword, "password", "", "PostgreSQL password")
	cmd.Flags().StringVar(&dbName, "dbname", "hospital_pricing", "PostgreSQL database name")

	return cmd
}
