// epc-postal parses a free-text address line with libpostal and runs the
// result through the certificate matcher. It is a separate binary so the
// main CLI stays free of the cgo dependency.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"

	postal "github.com/openvenues/gopostal/parser"

	"github.com/epc-match/internal/config"
	"github.com/epc-match/internal/db"
	"github.com/epc-match/internal/epc"
	"github.com/epc-match/internal/match"
)

func main() {
	var (
		address   = flag.String("address", "", "Free-text address to parse and match")
		postcode  = flag.String("postcode", "", "Postcode override when the address line has none")
		limit     = flag.Int("limit", match.DefaultLimit, "Maximum matches to return")
		parseOnly = flag.Bool("parse-only", false, "Print parsed components without matching")
	)
	flag.Parse()

	if *address == "" {
		fmt.Println("Usage:")
		fmt.Println(`  ./epc-postal -address="Flat 3, 10 Test Street, London, SW1A 2AA"`)
		fmt.Println(`  ./epc-postal -address="10 Test Street" -postcode="SW1A 2AA" -parse-only`)
		return
	}

	config.LoadEnv()

	q := queryFromComponents(postal.ParseAddress(*address))
	if *postcode != "" {
		q.Postcode = *postcode
	}
	q.Limit = *limit

	fmt.Printf("Parsed query: postcode=%q house=%q unit=%q street=%q locality=%q\n",
		q.Postcode, q.HouseIdentifier, q.SubUnit, q.Street, q.Locality)

	if *parseOnly {
		return
	}

	if q.Postcode == "" {
		log.Fatal("No postcode parsed from address; supply -postcode")
	}

	dbConn, err := db.NewConnection()
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

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
		fmt.Printf("%d. [%.0f] %s | %s | lodged %s\n",
			i+1, r.Score, r.Certificate.ID, r.Certificate.Address,
			r.Certificate.LodgementDate)
	}
}

// queryFromComponents maps libpostal labels onto the matcher's query shape.
// house_number (or a named house) becomes the PAON, unit the SAON, road the
// street, and the first of suburb/city/village the locality.
func queryFromComponents(components []postal.ParsedComponent) match.Query {
	var q match.Query
	var locality string

	for _, c := range components {
		value := strings.TrimSpace(c.Value)
		if value == "" {
			continue
		}

		switch c.Label {
		case "house_number":
			q.HouseIdentifier = value
		case "house":
			if q.HouseIdentifier == "" {
				q.HouseIdentifier = value
			}
		case "unit", "level":
			if q.SubUnit == "" {
				q.SubUnit = value
			}
		case "road":
			q.Street = value
		case "suburb", "city_district", "city", "village":
			if locality == "" {
				locality = value
			}
		case "postcode":
			q.Postcode = value
		}
	}

	q.Locality = locality
	return q
}
