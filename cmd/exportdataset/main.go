// Command exportdataset dumps the positively-rated recommendation feedback as
// a fine-tuning CSV (input,output). Run against the same environment as the
// server; the candidate sets are rebuilt from the live catalog.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/yungbote/shopmind-backend/internal/app"
)

func main() {
	out := flag.String("out", "training_data.csv", "output CSV path")
	flag.Parse()

	ctx := context.Background()

	a, err := app.New(ctx)
	if err != nil {
		fmt.Printf("Failed to init app: %v\n", err)
		os.Exit(1)
	}
	defer a.Close()

	rows, err := a.Services.Feedback.WriteTrainingSetCSV(ctx, *out)
	if err != nil {
		a.Log.Error("Training set export failed", "error", err)
		os.Exit(1)
	}
	a.Log.Info("Export complete", "path", *out, "rows", rows)
}
