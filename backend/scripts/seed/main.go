package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"github.com/ewenmichel/wdiw/backend/internal/graph"
	"github.com/ewenmichel/wdiw/backend/pkg/config"
	"github.com/ewenmichel/wdiw/backend/pkg/logger"
)

// Seeds the graph with a small real-world dataset: two companies sharing
// their founding team, so propagation, relations and the shared-node export
// links all have something to show.
func main() {
	reset := flag.Bool("reset", false, "Wipe the graph before seeding")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	if *reset {
		log.Info("Wiping graph...")
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		_, err := session.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
		session.Close(ctx)
		if err != nil {
			log.Fatal("Failed to wipe graph", zap.Error(err))
		}
	}

	repo := graph.NewRepository(driver)
	if err := repo.InitSchema(ctx); err != nil {
		log.Warn("Schema initialization failed", zap.Error(err))
	}

	if !*reset {
		existing, err := repo.ListCompanies(ctx, "", 0, 1)
		if err != nil {
			log.Fatal("Failed to check for existing data", zap.Error(err))
		}
		if len(existing) > 0 {
			log.Info("Graph already has companies, skipping seed (use -reset to start over)")
			return
		}
	}

	for _, payload := range seedCompanies() {
		detail, err := repo.CreateCompany(ctx, payload)
		if err != nil {
			log.Fatal("Failed to seed company", zap.String("name", payload.Name), zap.Error(err))
		}
		log.Info("Seeded company",
			zap.Int64("id", detail.ID),
			zap.String("name", detail.Name),
			zap.Int("founders", len(detail.Founders)),
			zap.Int("investors", len(detail.Investors)),
		)
	}

	log.Info("Seed complete")
}

// seedCompanies returns the dataset in creation order. DeepIP comes second:
// its founder profiles are the most recent, so the propagation pass stamps
// them onto the Kili role records as well.
func seedCompanies() []graph.CompanyCreate {
	kili := graph.CompanyCreate{
		Name:          "Kili Technology",
		Website:       "https://kili-technology.com",
		Description:   "Plateforme de data labeling et d'annotation pour l'IA d'entreprise",
		Sector:        "AI/ML",
		Location:      "Paris, France",
		HighProfile:   4,
		WorkIntensity: "balanced",
		CompanySize:   "scaleup",
		FoundedYear:   2018,
		LastFunding:   "$30M+ Series A (2021)",
		Founders: []graph.FounderPayload{
			{
				Name:           "François-Xavier Leduc",
				Title:          "CEO & Co-founder",
				BackgroundType: graph.BackgroundProfessional,
				ProfessionalBackground: &graph.ProfessionalBackground{
					Company:     "Various startups",
					Position:    "Entrepreneur en série",
					Description: "Serial entrepreneur with multiple successful exits",
				},
			},
			{
				Name:           "Edouard d'Archimbaud",
				Title:          "CTO & Co-founder",
				BackgroundType: graph.BackgroundProfessional,
				ProfessionalBackground: &graph.ProfessionalBackground{
					Company:     "BNP Paribas",
					Position:    "Head of AI Lab",
					Duration:    "2016-2018",
					Description: "Built one of the most advanced AI Labs in Europe",
				},
			},
		},
		Investors: []string{
			"Serena Capital",
			"Headline",
			"Balderton Capital",
			"Olivier Pomel (Datadog)",
			"Nicolas Dessaigne (Algolia)",
		},
		SecteurTags:      []string{"AI/ML"},
		CoreBusinessTags: []string{"Data Labeling"},
	}

	deepip := graph.CompanyCreate{
		Name:          "DeepIP",
		Website:       "https://deepip.ai",
		Description:   "AI Patent Assistant intégré à Microsoft Word pour automatiser la rédaction de brevets",
		Sector:        "LegalTech",
		Location:      "NYC & Paris",
		HighProfile:   5,
		WorkIntensity: "intense",
		CompanySize:   "early",
		FoundedYear:   2024,
		LastFunding:   "$15M Series A (2025)",
		Founders: []graph.FounderPayload{
			{
				Name:           "François-Xavier Leduc",
				Title:          "CEO & Co-founder",
				BackgroundType: graph.BackgroundProfessional,
				ProfessionalBackground: &graph.ProfessionalBackground{
					Company:  "Kili Technology",
					Position: "CEO & Co-founder",
					Duration: "2018-2024",
				},
			},
			{
				Name:           "Edouard d'Archimbaud",
				Title:          "CTO & Co-founder",
				BackgroundType: graph.BackgroundProfessional,
				ProfessionalBackground: &graph.ProfessionalBackground{
					Company:  "Kili Technology",
					Position: "CTO & Co-founder",
					Duration: "2018-2024",
				},
			},
		},
		Investors: []string{
			"Resonance",
			"Headline",
			"Serena Capital",
			"Balderton Capital",
		},
		Relations: []graph.RelationPayload{
			{RelationType: "spinoff", RelatedCompanyName: "Kili Technology"},
		},
		SecteurTags:      []string{"LegalTech"},
		CoreBusinessTags: []string{"IP Automation"},
	}

	return []graph.CompanyCreate{kili, deepip}
}
