// research-radar fetches syndicated AI research feeds, analyzes each entry
// with a generative model, and renders an aggregate dashboard.
//
// Usage:
//
//	research-radar -config config.json [fetch|analyze|render|publish|all]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	rr "github.com/plainbase/research-radar-go"
)

var log = logrus.New()

func main() {
	configPath := flag.String("config", "./config.json", "path to the config file (JWCC)")
	logLevel := flag.String("log-level", "info", "log level (debug, info, warn, error)")
	reanalyze := flag.Bool("reanalyze", false, "re-analyze records which already have a stored analysis")
	flag.Parse()

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	if level, err := logrus.ParseLevel(*logLevel); err == nil {
		log.SetLevel(level)
	}

	stage := "all"
	if args := flag.Args(); len(args) > 0 {
		stage = args[0]
	}

	conf, err := rr.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %s", err)
	}

	client, err := rr.NewClient(conf)
	if err != nil {
		log.Fatalf("failed to create client: %s", err)
	}

	ctx := context.Background()

	switch stage {
	case "fetch":
		err = fetch(ctx, client, conf)
	case "analyze":
		err = analyze(ctx, client, conf, !*reanalyze)
	case "render":
		err = render(client, conf)
	case "publish":
		err = publish(client, conf)
	case "all":
		if err = fetch(ctx, client, conf); err == nil {
			if err = analyze(ctx, client, conf, !*reanalyze); err == nil {
				err = render(client, conf)
			}
		}
	default:
		log.Fatalf("unknown stage: '%s' (want fetch, analyze, render, publish, or all)", stage)
	}

	if err != nil {
		log.Fatalf("stage '%s' failed: %s", stage, err)
	}
}

// fetch normalizes all configured sources and writes the snapshot.
func fetch(ctx context.Context, client *rr.Client, conf *rr.Config) error {
	log.Infof("fetching %d source(s)...", len(conf.Sources))

	records, err := client.FetchRecords(ctx)
	if err != nil {
		// partial results are fine, a full failure is not
		log.Warnf("some sources failed: %s", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no records fetched; check your network or source urls")
	}

	printDigest(records)

	snapshot := rr.NewSnapshot(records)
	if err := snapshot.WriteFile(conf.SnapshotFilepath); err != nil {
		return err
	}

	log.Infof("saved %d record(s) to %s", len(records), conf.SnapshotFilepath)

	return nil
}

// analyze runs the per-record analysis loop over the current snapshot.
func analyze(ctx context.Context, client *rr.Client, conf *rr.Config, ignoreAlreadyAnalyzed bool) error {
	snapshot, err := rr.ReadSnapshot(conf.SnapshotFilepath)
	if err != nil {
		return err
	}

	log.Infof("analyzing %d record(s)...", snapshot.Count)

	client.SetLiveOutput(os.Stdout, os.Stdout)

	if err := client.AnalyzeAndStoreRecords(ctx, snapshot.Items, ignoreAlreadyAnalyzed); err != nil {
		// per-record failures were already isolated; report and move on
		log.Warnf("some records failed to analyze: %s", err)
	}

	log.Info("analysis done")

	return nil
}

// render recomputes the summary and writes the dashboard.
func render(client *rr.Client, conf *rr.Config) error {
	snapshot, err := rr.ReadSnapshot(conf.SnapshotFilepath)
	if err != nil {
		return err
	}

	if err := client.RenderReport(snapshot.Items); err != nil {
		return err
	}

	log.Infof("dashboard written to %s", conf.ReportFilepath)

	return nil
}

// feed metadata for the published RSS
const (
	feedTitle       = "AI Research Radar"
	feedDescription = "Analyzed AI research and news items"
	feedLink        = "https://example.com/research-radar"
	feedAuthor      = "research-radar"
	feedEmail       = "research-radar@example.com"
)

// publish writes the analyzed record set as an RSS feed next to the
// dashboard.
func publish(client *rr.Client, conf *rr.Config) error {
	snapshot, err := rr.ReadSnapshot(conf.SnapshotFilepath)
	if err != nil {
		return err
	}

	bytes, err := client.PublishXML(feedTitle, feedLink, feedDescription, feedAuthor, feedEmail, snapshot.Items)
	if err != nil {
		return err
	}

	path := filepath.Join(filepath.Dir(conf.ReportFilepath), "feed.xml")
	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		return err
	}

	log.Infof("feed written to %s", path)

	return nil
}

// printDigest prints a human-readable per-source digest of fetched records.
func printDigest(records []rr.ContentRecord) {
	grouped := map[string][]rr.ContentRecord{}
	order := []string{}
	for _, record := range records {
		if _, seen := grouped[record.SourceName]; !seen {
			order = append(order, record.SourceName)
		}
		grouped[record.SourceName] = append(grouped[record.SourceName], record)
	}

	fmt.Println("\n================= latest items (by source) =================")
	for _, sourceName := range order {
		fmt.Printf("\n### %s\n", sourceName)
		for _, record := range grouped[sourceName] {
			fmt.Printf("- %s\n", record.Title)
			if record.Published != "" {
				fmt.Printf("  published: %s\n", record.Published)
			}
			fmt.Printf("  link: %s\n", record.Link)
			if record.Summary != "" {
				fmt.Printf("  summary: %s\n", record.Summary)
			}
		}
	}
	fmt.Println()
}
