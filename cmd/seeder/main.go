package main

import (
	"bufio"
	"context"
	"flag"
	"iter"
	"log/slog"
	"os"
	"time"

	"github.com/poiesic/answerit"
	"github.com/poiesic/answerit/ingestion"
)

// seedPassage is one demo document, dated so the temporal ranking has
// something to chew on.
type seedPassage struct {
	text string
	date string // content date, YYYY-MM-DD; empty means undated
}

var passages = []seedPassage{
	{"Acme Robotics was founded in 2019 by three engineers working out of a converted warehouse in Tallinn.", "2019-03-12"},
	{"The company's first product, the SortMaster 100, automated parcel sorting for regional couriers.", "2019-11-05"},
	{"In early 2021 Acme Robotics opened its second office in Rotterdam to serve Benelux logistics customers.", "2021-02-18"},
	{"The SortMaster 200 shipped with a redesigned gripper that cut mis-sorts by forty percent.", "2021-09-30"},
	{"Quarterly revenue for Q4 2022 reached 4.2 million euros, driven by holiday parcel volume.", "2022-12-31"},
	{"A recall of early SortMaster 200 units was completed in March 2023 after a belt tensioner defect.", "2023-03-15"},
	{"Acme Robotics acquired the vision-systems startup Clearsight in the summer of 2023.", "2023-07-01"},
	{"The 2024 roadmap centers on the SortMaster 300, with onboard defect detection from Clearsight cameras.", "2024-01-10"},
	{"Q2 2024 revenue grew to 6.8 million euros with gross margin improving to 41 percent.", "2024-06-30"},
	{"In Q4 2024 the company signed its largest contract to date, a five-year deal with a pan-European courier.", "2024-11-22"},
	{"The employee handbook allows remote work up to three days per week for all engineering roles.", ""},
	{"Support tickets are triaged within four business hours; severity-one issues page the on-call engineer.", ""},
	{"The refund policy grants customers a full refund within 30 days of delivery for hardware faults.", ""},
	{"All SortMaster units carry a two-year limited warranty covering parts and labor.", ""},
	{"Travel expenses above 500 euros require pre-approval from a department head.", ""},
}

var (
	seedFileName = flag.String("src", "", "file of seed data, one passage per line")
	dbPath       = flag.String("db", "./answerit_db", "path to BadgerDB database directory")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
	flag.Parse()
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// seedFromFile ingests each non-empty line of a file as an undated passage.
func seedFromFile(ctx context.Context, pipeline *ingestion.Pipeline, filename string) error {
	source, err := linesFromFile(filename)
	if err != nil {
		return err
	}

	var texts []string
	for line := range source {
		if line != "" {
			texts = append(texts, line)
		}
	}

	_, err = pipeline.IngestTexts(ctx, texts, nil)
	return err
}

// seedBuiltin ingests the demo corpus, one call per passage so each keeps
// its own content date.
func seedBuiltin(ctx context.Context, pipeline *ingestion.Pipeline) error {
	for _, passage := range passages {
		opts := &ingestion.IngestOptions{}
		if passage.date != "" {
			ts, err := time.Parse("2006-01-02", passage.date)
			if err != nil {
				return err
			}
			opts.ContentDate = ts
		}

		if _, err := pipeline.IngestTexts(ctx, []string{passage.text}, opts); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	db, err := answerit.NewDatabase(*dbPath)
	if err != nil {
		panic(err)
	}
	defer db.Close()

	pipeline, err := db.NewIngestionPipeline()
	if err != nil {
		panic(err)
	}
	defer pipeline.Release()

	ctx := context.Background()

	if *seedFileName != "" {
		err = seedFromFile(ctx, pipeline, *seedFileName)
	} else {
		err = seedBuiltin(ctx, pipeline)
	}
	if err != nil {
		panic(err)
	}

	slog.Info("seeding complete")
}
