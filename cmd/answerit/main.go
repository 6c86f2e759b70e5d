// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/poiesic/answerit"
	"github.com/poiesic/answerit/agent"
	"github.com/poiesic/answerit/ai"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/ingestion"
	"github.com/poiesic/answerit/reembed"
)

func main() {
	app := &cli.App{
		Name:  "answerit",
		Usage: "Retrieval-augmented question answering over your documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to BadgerDB database directory",
				Value:   "./answerit_db",
				EnvVars: []string{"ANSWERIT_DB"},
			},
			&cli.StringFlag{
				Name:    "host",
				Usage:   "OpenAI-compatible service host URL for embeddings and completions",
				Value:   "http://localhost:11434/v1",
				EnvVars: []string{"ANSWERIT_HOST"},
			},
			&cli.StringFlag{
				Name:    "embedding-model",
				Usage:   "Embedding model name",
				Value:   "embeddinggemma",
				EnvVars: []string{"ANSWERIT_EMBEDDING_MODEL"},
			},
			&cli.StringFlag{
				Name:    "llm-model",
				Usage:   "Completion model name",
				Value:   "qwen2.5:3b",
				EnvVars: []string{"ANSWERIT_LLM_MODEL"},
			},
			&cli.StringFlag{
				Name:    "rerank-host",
				Usage:   "Reranking service host URL (empty disables reranking)",
				EnvVars: []string{"ANSWERIT_RERANK_HOST"},
			},
			&cli.StringFlag{
				Name:    "rerank-model",
				Usage:   "Reranking model name",
				EnvVars: []string{"ANSWERIT_RERANK_MODEL"},
			},
			&cli.StringFlag{
				Name:    "api-token",
				Usage:   "Bearer token for the AI services",
				Value:   "none",
				EnvVars: []string{"ANSWERIT_API_TOKEN"},
			},
			&cli.Float64Flag{
				Name:    "embedding-rps",
				Usage:   "Embedding requests per second (0 disables throttling)",
				EnvVars: []string{"ANSWERIT_EMBEDDING_RPS"},
			},
		},
		Before: setup,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Load, split, embed and store documents",
				ArgsUsage: "FILE [FILE...]",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "content-date",
						Usage: "Date the material is about (YYYY-MM-DD), used for temporal ranking",
					},
					&cli.StringSliceFlag{
						Name:  "meta",
						Usage: "Extra metadata as key=value, repeatable",
					},
					&cli.IntFlag{
						Name:  "chunk-size",
						Usage: "Maximum chunk size in tokens",
						Value: 1000,
					},
					&cli.IntFlag{
						Name:  "chunk-overlap",
						Usage: "Token overlap between adjacent chunks",
						Value: 200,
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Answer a question from the document corpus with citations",
				ArgsUsage: "QUESTION",
				Action:    queryCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "k",
						Aliases: []string{"n"},
						Usage:   "Number of chunks to retrieve",
						Value:   core.DefaultK,
					},
					&cli.Float64Flag{
						Name:  "alpha",
						Usage: "Hybrid weight in [0,1]; 1 is purely semantic",
						Value: 0.5,
					},
					&cli.BoolFlag{
						Name:  "recency",
						Usage: "Blend recency into ranking",
					},
					&cli.BoolFlag{
						Name:  "rerank",
						Usage: "Rerank candidates (requires --rerank-host)",
					},
					&cli.StringFlag{
						Name:  "date-start",
						Usage: "Only consider content dated on or after (YYYY-MM-DD)",
					},
					&cli.StringFlag{
						Name:  "date-end",
						Usage: "Only consider content dated on or before (YYYY-MM-DD)",
					},
				},
			},
			{
				Name:      "ask",
				Usage:     "Ask the agent a single question",
				ArgsUsage: "QUESTION",
				Action:    askCommand,
				Flags:     agentFlags(),
			},
			{
				Name:   "chat",
				Usage:  "Interactive conversation with the agent",
				Action: chatCommand,
				Flags:  agentFlags(),
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate embeddings for every stored chunk",
				Action: reembedCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of chunks to process in each batch",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N chunks",
						Value: 100,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
				},
			},
			{
				Name:   "stats",
				Usage:  "Show corpus statistics",
				Action: statsCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func agentFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "session",
			Usage: "Session ID for conversation memory (random if empty)",
		},
		&cli.StringFlag{
			Name:    "sqlite-db",
			Usage:   "SQLite file enabling the structured-data query tool",
			EnvVars: []string{"ANSWERIT_SQLITE_DB"},
		},
		&cli.IntFlag{
			Name:  "k",
			Usage: "Number of chunks for corpus searches",
			Value: core.DefaultK,
		},
		&cli.BoolFlag{
			Name:  "rerank",
			Usage: "Rerank corpus search results (requires --rerank-host)",
		},
	}
}

func setup(c *cli.Context) error {
	// A missing .env is fine; flags and real env still apply
	_ = godotenv.Load()

	levelStr := strings.ToLower(c.String("log-level"))
	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func openDatabase(c *cli.Context) (*answerit.Database, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithLLMModel(c.String("llm-model")),
		ai.WithRerankHost(c.String("rerank-host")),
		ai.WithRerankModel(c.String("rerank-model")),
		ai.WithAPIToken(c.String("api-token")),
		ai.WithEmbeddingRPS(c.Float64("embedding-rps")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	return answerit.NewDatabase(c.String("db"), answerit.WithAIConfig(aiConfig))
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	splitter, err := ingestion.NewSplitter(
		ingestion.WithChunkSize(c.Int("chunk-size")),
		ingestion.WithChunkOverlap(c.Int("chunk-overlap")),
	)
	if err != nil {
		return err
	}

	pipeline, err := db.NewIngestionPipeline(ingestion.WithSplitter(splitter))
	if err != nil {
		return err
	}
	defer pipeline.Release()

	opts := &ingestion.IngestOptions{Metadata: map[string]string{}}
	for _, pair := range c.StringSlice("meta") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			return fmt.Errorf("invalid metadata %q: expected key=value", pair)
		}
		opts.Metadata[key] = value
	}
	if raw := c.String("content-date"); raw != "" {
		ts, err := core.ParseISODate(raw)
		if err != nil {
			return fmt.Errorf("invalid content-date %q: %w", raw, err)
		}
		opts.ContentDate = ts
	}

	ctx := context.Background()
	total := 0
	for _, path := range c.Args().Slice() {
		count, err := pipeline.IngestFile(ctx, path, opts)
		if err != nil {
			return fmt.Errorf("failed to ingest %s: %w", path, err)
		}
		fmt.Printf("Ingested %d chunks from %s\n", count, path)
		total += count
	}
	fmt.Printf("Done. %d chunks stored.\n", total)

	return nil
}

func queryCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a question is required")
	}
	question := strings.Join(c.Args().Slice(), " ")

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	answerer, err := db.NewAnswerer()
	if err != nil {
		return err
	}

	request := core.RetrievalRequest{
		Question:     question,
		K:            c.Int("k"),
		HybridAlpha:  c.Float64("alpha"),
		RecencyBoost: c.Bool("recency"),
		Rerank:       c.Bool("rerank"),
	}
	if c.String("date-start") != "" || c.String("date-end") != "" {
		dr := &core.DateRange{}
		if raw := c.String("date-start"); raw != "" {
			if dr.Start, err = core.ParseISODate(raw); err != nil {
				return fmt.Errorf("invalid date-start %q: %w", raw, err)
			}
		}
		if raw := c.String("date-end"); raw != "" {
			if dr.End, err = core.ParseISODate(raw); err != nil {
				return fmt.Errorf("invalid date-end %q: %w", raw, err)
			}
		}
		request.DateRange = dr
	}

	answer := answerer.QueryWithCitations(context.Background(), request)

	fmt.Println(answer.Answer)
	if len(answer.Citations) > 0 {
		fmt.Println("\nSources:")
		for i, citation := range answer.Citations {
			if citation.Page != "" {
				fmt.Printf("  [%d] %s, page %s\n", i+1, citation.Source, citation.Page)
			} else {
				fmt.Printf("  [%d] %s\n", i+1, citation.Source)
			}
		}
	}
	fmt.Fprintf(os.Stderr, "\nretrieval=%v llm=%v total=%v chunks=%d\n",
		answer.Timing.Retrieval.Round(time.Millisecond),
		answer.Timing.LLM.Round(time.Millisecond),
		answer.Timing.Total.Round(time.Millisecond),
		answer.ChunkCount)

	return nil
}

func newAgent(c *cli.Context, db *answerit.Database) (*agent.Agent, error) {
	return db.NewAgent(&answerit.AgentConfig{
		K:              c.Int("k"),
		Rerank:         c.Bool("rerank"),
		SQLiteDatabase: c.String("sqlite-db"),
	})
}

func sessionID(c *cli.Context) string {
	if id := c.String("session"); id != "" {
		return id
	}
	return uuid.NewString()
}

func askCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("a question is required")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	assistant, err := newAgent(c, db)
	if err != nil {
		return err
	}
	defer assistant.Close()

	answer, err := assistant.Ask(context.Background(), sessionID(c), strings.Join(c.Args().Slice(), " "))
	if err != nil {
		return err
	}
	fmt.Println(answer)

	return nil
}

func chatCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	assistant, err := newAgent(c, db)
	if err != nil {
		return err
	}
	defer assistant.Close()

	session := sessionID(c)
	fmt.Printf("Session %s. Type your question, or 'exit' to quit.\n", session)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}

		answer, err := assistant.Ask(context.Background(), session, line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		fmt.Printf("\n%s\n\n", answer)
	}

	return scanner.Err()
}

func reembedCommand(c *cli.Context) error {
	config := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Fprintf(os.Stderr, "Database: %s\n", c.String("db"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n\n", c.String("embedding-model"))

	reembedder := db.NewReembedder(config, os.Stderr)
	if err := reembedder.Run(context.Background()); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}

	return nil
}

func statsCommand(c *cli.Context) error {
	db, err := openDatabase(c)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := context.Background()
	count, err := db.ChunkRepository().Count(ctx)
	if err != nil {
		return err
	}
	version, err := db.ChunkRepository().Version(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Chunks:         %d\n", count)
	fmt.Printf("Corpus version: %d\n", version)

	return nil
}
