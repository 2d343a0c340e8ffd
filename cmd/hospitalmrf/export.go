package main

import (
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/gyeh/hospitalmrf/internal/config"
	"github.com/gyeh/hospitalmrf/internal/parquetexport"
)

func newExportCmd() *cobra.Command {
	var (
		hospitalKey string
		outputPath  string
		credFile    string
		dbHost      string
		dbPort      int
		dbUser      string
		dbPassword  string
		dbName      string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Snapshot one hospital's loaded charges to a Parquet file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if hospitalKey == "" || outputPath == "" {
				return fmt.Errorf("--hospital-key and --out are required")
			}

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

			rows, err := pool.Query(ctx, `
				SELECT s.service_id, s.setting, s.code, s.code_type, s.description,
				       sc.gross_charge, sc.discounted_cash, sc.minimum, sc.maximum,
				       pc.payer_name, pc.plan_name, pc.negotiated_dollar, pc.negotiated_algorithm, pc.negotiated_percent
				FROM standard_charges sc
				JOIN services s ON s.service_id = sc.service_id
				LEFT JOIN payer_charges pc ON pc.service_id = sc.service_id AND pc.hospital_key = sc.hospital_key
				WHERE sc.hospital_key = $1
			`, hospitalKey)
			if err != nil {
				return fmt.Errorf("export: query: %w", err)
			}
			defer rows.Close()

			w, err := parquetexport.NewWriter(outputPath)
			if err != nil {
				return fmt.Errorf("export: %w", err)
			}

			for rows.Next() {
				var row parquetexport.ChargeRow
				var gross, discounted, minimum, maximum, negDollar, negPercent *float64
				var payerName, planName, negAlgorithm *string
				if err := rows.Scan(&row.ServiceID, &row.Setting, &row.Code, &row.CodeType, &row.Description,
					&gross, &discounted, &minimum, &maximum,
					&payerName, &planName, &negDollar, &negAlgorithm, &negPercent); err != nil {
					w.Close()
					return fmt.Errorf("export: scan: %w", err)
				}
				row.HospitalKey = hospitalKey
				row.GrossCharge = derefOr(gross)
				row.DiscountedCash = derefOr(discounted)
				row.Minimum = derefOr(minimum)
				row.Maximum = derefOr(maximum)
				if payerName != nil {
					row.PayerName = *payerName
				}
				if planName != nil {
					row.PlanName = *planName
				}
				if negAlgorithm != nil {
					row.NegotiatedAlgorithm = *negAlgorithm
				}
				row.NegotiatedDollar = derefOr(negDollar)
				row.NegotiatedPercent = derefOr(negPercent)

				if err := w.WriteRow(row); err != nil {
					w.Close()
					return fmt.Errorf("export: write row: %w", err)
				}
			}
			if err := rows.Err(); err != nil {
				w.Close()
				return fmt.Errorf("export: iterating rows: %w", err)
			}

			if err := w.Close(); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			fmt.Printf("exported %d rows to %s\n", w.Count(), outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&hospitalKey, "hospital-key", "", "hospital_key to export")
	cmd.Flags().StringVar(&outputPath, "out", "", "output parquet file path")
	cmd.Flags().StringVar(&credFile, "cred-file", "", "path to a key=value database credential file")
	cmd.Flags().StringVar(&dbHost, "host", "localhost", "PostgreSQL host")
	cmd.Flags().IntVar(&dbPort, "port", 5432, "PostgreSQL port")
	cmd.Flags().StringVar(&dbUser, "user", "postgres", "PostgreSQL user")
	cmd.Flags().StringVar(&dbPassword, "password", "", "PostgreSQL password")
	cmd.Flags().StringVar(&dbName, "dbname", "hospital_pricing", "PostgreSQL database name")

	return cmd
}

func derefOr(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
