package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/ewenmichel/wdiw/backend/internal/agent"
	"github.com/ewenmichel/wdiw/backend/internal/graph"
	"github.com/ewenmichel/wdiw/backend/pkg/config"
	apperrors "github.com/ewenmichel/wdiw/backend/pkg/errors"
	"github.com/ewenmichel/wdiw/backend/pkg/logger"
)

// Researches companies from the command line and prints the drafts as JSON.
// With -write each draft is also persisted through the regular create path.
func main() {
	write := flag.Bool("write", false, "persist each draft as a company")
	timeout := flag.Int("timeout", 120, "per-company research timeout in seconds")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()

	companies := flag.Args()
	if len(companies) == 0 {
		fmt.Fprintln(os.Stderr, "usage: agent [-write] [-timeout seconds] COMPANY [COMPANY ...]")
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.OpenAIAPIKey == "" {
		log.Fatal("OPENAI_API_KEY is required")
	}

	researcher := agent.NewResearcher(cfg)

	// The graph is only needed when drafts get persisted
	var repo *graph.Repository
	if *write {
		driver, err := neo4j.NewDriverWithContext(
			cfg.Neo4jURI,
			neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
		)
		if err != nil {
			log.Fatal("Failed to create Neo4j driver", zap.Error(err))
		}
		defer driver.Close(context.Background())

		if err := driver.VerifyConnectivity(context.Background()); err != nil {
			log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
		}

		repo = graph.NewRepository(driver)
		if err := repo.InitSchema(context.Background()); err != nil {
			log.Warn("Schema initialization failed", zap.Error(err))
		}
	}

	for _, company := range companies {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(*timeout)*time.Second)
		draft, err := researcher.Research(ctx, company)
		cancel()
		if err != nil {
			log.Error("Research failed", zap.String("company", company), zap.Error(err))
			continue
		}

		out, err := json.MarshalIndent(draft, "", "  ")
		if err != nil {
			log.Error("Failed to encode draft", zap.Error(err))
			continue
		}
		fmt.Println(string(out))

		if repo == nil {
			continue
		}

		persistCtx, cancelPersist := context.WithTimeout(context.Background(), 30*time.Second)
		detail, err := repo.CreateCompany(persistCtx, draft.ToCompanyCreate())
		cancelPersist()
		if err != nil {
			if apperrors.IsConstraint(err) {
				log.Warn("Company already exists, skipping", zap.String("company", draft.Company.Name))
				continue
			}
			log.Error("Failed to persist draft", zap.String("company", draft.Company.Name), zap.Error(err))
			continue
		}
		log.Info("Company persisted", zap.Int64("id", detail.ID), zap.String("name", detail.Name))
	}
}
