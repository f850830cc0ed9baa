package graph

import (
	"context"

	"go.uber.org/zap"
)

// ============================================================================
// Schema Bootstrap
// ============================================================================

// InitSchema creates the uniqueness constraints and indexes the store relies
// on. Statements are issued one by one and failures are logged rather than
// fatal, so re-runs and older server editions degrade gracefully.
func (r *Repository) InitSchema(ctx context.Context) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	constraints := []string{
		"CREATE CONSTRAINT company_id_unique IF NOT EXISTS FOR (c:Company) REQUIRE c.id IS UNIQUE",
		"CREATE CONSTRAINT company_slug_unique IF NOT EXISTS FOR (c:Company) REQUIRE c.slug IS UNIQUE",
		"CREATE CONSTRAINT company_name_unique IF NOT EXISTS FOR (c:Company) REQUIRE c.name IS UNIQUE",
		"CREATE CONSTRAINT person_id_unique IF NOT EXISTS FOR (p:Person) REQUIRE p.id IS UNIQUE",
		"CREATE CONSTRAINT person_name_unique IF NOT EXISTS FOR (p:Person) REQUIRE p.name IS UNIQUE",
		"CREATE CONSTRAINT investor_id_unique IF NOT EXISTS FOR (i:Investor) REQUIRE i.id IS UNIQUE",
		"CREATE CONSTRAINT investor_name_unique IF NOT EXISTS FOR (i:Investor) REQUIRE i.name IS UNIQUE",
		"CREATE CONSTRAINT tag_id_unique IF NOT EXISTS FOR (t:Tag) REQUIRE t.id IS UNIQUE",
		// Tags are unique per (name, category): the same name may exist in
		// several categories. Composite uniqueness needs an enterprise
		// server; on community editions the statement fails and we fall back
		// to the MERGE-by-pair writes plus the index below.
		"CREATE CONSTRAINT tag_name_category_unique IF NOT EXISTS FOR (t:Tag) REQUIRE (t.name, t.category) IS UNIQUE",
	}

	for _, constraint := range constraints {
		if _, err := session.Run(ctx, constraint, nil); err != nil {
			r.logger.Warn("Constraint not created", zap.String("statement", constraint), zap.Error(err))
		}
	}

	indexes := []string{
		"CREATE INDEX tag_name_category IF NOT EXISTS FOR (t:Tag) ON (t.name, t.category)",
		"CREATE INDEX company_work_intensity IF NOT EXISTS FOR (c:Company) ON (c.work_intensity)",
		"CREATE INDEX company_size IF NOT EXISTS FOR (c:Company) ON (c.company_size)",
	}

	for _, index := range indexes {
		if _, err := session.Run(ctx, index, nil); err != nil {
			r.logger.Warn("Index not created", zap.String("statement", index), zap.Error(err))
		}
	}

	r.logger.Info("Schema initialized")
	return nil
}
