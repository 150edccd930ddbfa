package main

// Ingest a PDF from disk without the HTTP surface:
//   go run ./cmd/ingest -owner u1 -file ./report.pdf

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"docingest-backend/internal/bootstrap"
	"docingest-backend/internal/ingest"
	"docingest-backend/internal/shared/config"
)

func main() {
	owner := flag.String("owner", "", "owner id to record on the document")
	file := flag.String("file", "", "path to the PDF to ingest")
	flag.Parse()

	if *owner == "" || *file == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap: %v", err)
	}
	if app.DB != nil {
		defer app.DB.Close()
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read file: %v", err)
	}

	up := ingest.RawUpload{
		ContentType: "application/pdf",
		SizeBytes:   int64(len(data)),
		Name:        filepath.Base(*file),
		Bytes:       data,
	}

	result := app.Pipeline.Ingest(context.Background(), up, *owner)
	if !result.Ok() {
		log.Fatalf("ingest failed: %s: %s", result.Outcome, result.Detail())
	}

	fmt.Printf("ingested document id=%d filename=%s index=%s\n",
		result.Document.ID, result.Document.Filename, result.IndexKey)
}
