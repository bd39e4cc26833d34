package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/epc-match/internal/config"
	"github.com/epc-match/internal/db"
	"github.com/epc-match/internal/epc"
	"github.com/epc-match/internal/match"
	"github.com/epc-match/internal/web"
)

var dbConn *db.Connection

func main() {
	config.LoadEnv()

	var err error
	dbConn, err = db.NewConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	rootCmd := &cobra.Command{
		Use:   "epcmatch",
		Short: "EPC certificate address matching",
		Long:  `Finds the energy certificates most likely to describe a property address`,
	}

	rootCmd.AddCommand(createMatchCmd())
	rootCmd.AddCommand(createPingCmd())
	rootCmd.AddCommand(createServeCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// createMatchCmd runs a one-off lookup and prints the ranked matches.
func createMatchCmd() *cobra.Command {
	var subUnit, locality string
	var limit int

	cmd := &cobra.Command{
		Use:   "match [postcode] [house] [street]",
		Short: "Match a property address against the certificate table",
		Args:  cobra.RangeArgs(2, 3),
		Run: func(cmd *cobra.Command, args []string) {
			q := match.Query{
				Postcode:        args[0],
				HouseIdentifier: args[1],
				SubUnit:         subUnit,
				Locality:        locality,
				Limit:           limit,
			}
			if len(args) == 3 {
				q.Street = args[2]
			}

			matcher := match.NewMatcher(epc.NewStore(dbConn.DB))
			results, err := matcher.Find(context.Background(), q)
			if err != nil {
				log.Fatalf("Match failed: %v", err)
			}

			if len(results) == 0 {
				fmt.Println("No matches at or above threshold")
				return
			}

			for i, r := range results {
				fmt.Printf("%d. [%.0f] %s | %s | lodged %s | rating %s\n",
					i+1, r.Score, r.Certificate.ID, r.Certificate.Address,
					r.Certificate.LodgementDate, r.Certificate.Rating)
			}
		},
	}

	cmd.Flags().StringVar(&subUnit, "unit", "", "Sub-unit (SAON), e.g. flat number")
	cmd.Flags().StringVar(&locality, "locality", "", "Locality or village name")
	cmd.Flags().IntVar(&limit, "limit", match.DefaultLimit, "Maximum matches to return")

	return cmd
}

// createPingCmd tests database connectivity and reports pg_trgm support.
func createPingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Test database connectivity",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Database connection successful!")

			var count int
			err := dbConn.DB.QueryRow("SELECT COUNT(*) FROM epc_certificate").Scan(&count)
			if err != nil {
				log.Printf("Error counting epc_certificate records: %v", err)
			} else {
				fmt.Printf("Certificates loaded: %d\n", count)
			}

			var sim float64
			if err := dbConn.DB.QueryRow("SELECT similarity('probe', 'probe')").Scan(&sim); err != nil {
				fmt.Println("pg_trgm: unavailable (scalar matching will be used)")
			} else {
				fmt.Println("pg_trgm: available (set-based matching will be used)")
			}
		},
	}
}

// createServeCmd starts the match API.
func createServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the match API server",
		Run: func(cmd *cobra.Command, args []string) {
			webConfig := &web.Config{
				Server: web.ServerConfig{
					Host: config.GetEnv("WEB_HOST", "0.0.0.0"),
					Port: config.GetEnvInt("WEB_PORT", 8080),
				},
			}

			server := web.NewServer(webConfig, dbConn.DB)
			if err := server.Start(); err != nil {
				log.Fatalf("Server error: %v", err)
			}
		},
	}
}
