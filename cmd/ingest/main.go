// Command ingest loads the sales dataset from a local JSON file or GCS and
// writes it to the BigQuery sales table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vinoventas/dashboard/internal/dataset"
	"github.com/vinoventas/dashboard/internal/domain"
	"github.com/vinoventas/dashboard/internal/logger"
	"github.com/vinoventas/dashboard/internal/store"
)

func main() {
	var (
		dataPath  = flag.String("data", "", "Path to the sales dataset JSON file")
		gcsURI    = flag.String("gcs-uri", "", "GCS URI of the dataset (gs://bucket/object)")
		bqProject = flag.String("bq-project", os.Getenv("BQ_PROJECT"), "BigQuery project (or set BQ_PROJECT env)")
		bqDataset = flag.String("bq-dataset", "ventas", "BigQuery dataset name")
		bqTable   = flag.String("bq-table", "sales", "BigQuery table name")
	)
	flag.Parse()

	log := logger.New()

	if *dataPath == "" && *gcsURI == "" {
		log.Fatal().Msg("Error: -data or -gcs-uri is required")
	}
	if *bqProject == "" {
		log.Fatal().Msg("Error: -bq-project is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	var (
		records []domain.SaleRecord
		err     error
	)
	if *gcsURI != "" {
		log.Info().Str("gcs_uri", *gcsURI).Msg("Loading dataset from GCS")
		records, err = dataset.LoadGCS(ctx, *gcsURI)
	} else {
		log.Info().Str("path", *dataPath).Msg("Loading dataset from file")
		records, err = dataset.LoadFile(*dataPath)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load dataset")
	}

	client, err := store.NewClient(ctx, *bqProject, *bqDataset, *bqTable)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create BigQuery client")
	}
	defer client.Close()

	log.Info().
		Int("records", len(records)).
		Str("table", fmt.Sprintf("%s.%s.%s", *bqProject, *bqDataset, *bqTable)).
		Msg("Inserting sales records")

	if err := client.InsertSales(ctx, records); err != nil {
		log.Fatal().Err(err).Msg("Insert failed")
	}

	fmt.Printf("Ingested %d records into %s.%s.%s\n", len(records), *bqProject, *bqDataset, *bqTable)
}
