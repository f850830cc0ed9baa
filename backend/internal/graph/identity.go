package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ============================================================================
// Identity Allocation
// ============================================================================

// nextID allocates the next integer id for a node label as max(existing)+1,
// computed fresh inside the caller's transaction. Ids are never reused after
// deletion. Only called with compile-time label constants.
func nextID(ctx context.Context, tx neo4j.ManagedTransaction, label string) (int64, error) {
	result, err := tx.Run(ctx, fmt.Sprintf("MATCH (n:%s) RETURN coalesce(max(n.id), 0) AS maxid", label), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s id: %w", label, err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s id allocation: %w", label, err)
	}
	return getInt64FromRecord(record, "maxid") + 1, nil
}

// getOrCreatePerson resolves a person by explicit id first, then by name.
// An explicit id wins and syncs the person's name when one is supplied; an
// unknown explicit id falls back to name resolution. Creation goes through a
// single MERGE on the name natural key so concurrent writers converge on one
// node.
func (r *Repository) getOrCreatePerson(ctx context.Context, tx neo4j.ManagedTransaction, personID *int64, name string) (int64, error) {
	name = strings.TrimSpace(name)

	if personID != nil {
		result, err := tx.Run(ctx, "MATCH (p:Person {id: $id}) RETURN p.id AS id", map[string]interface{}{
			"id": *personID,
		})
		if err != nil {
			return 0, fmt.Errorf("failed to look up person %d: %w", *personID, err)
		}
		if result.Next(ctx) {
			if name != "" {
				_, err := tx.Run(ctx, "MATCH (p:Person {id: $id}) SET p.name = $name", map[string]interface{}{
					"id":   *personID,
					"name": name,
				})
				if err != nil {
					return 0, fmt.Errorf("failed to sync person name: %w", err)
				}
			}
			return *personID, nil
		}
		if err := result.Err(); err != nil {
			return 0, fmt.Errorf("failed to look up person %d: %w", *personID, err)
		}
	}

	newID, err := nextID(ctx, tx, "Person")
	if err != nil {
		return 0, err
	}

	if name == "" {
		// Anonymous role holder
		_, err := tx.Run(ctx, "CREATE (p:Person {id: $id, created_at: datetime($now)})", map[string]interface{}{
			"id":  newID,
			"now": time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return 0, fmt.Errorf("failed to create person: %w", err)
		}
		return newID, nil
	}

	result, err := tx.Run(ctx, `
		MERGE (p:Person {name: $name})
		ON CREATE SET p.id = $newID, p.created_at = datetime($now)
		RETURN p.id AS id
	`, map[string]interface{}{
		"name":  name,
		"newID": newID,
		"now":   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get/create person %q: %w", name, err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read person %q: %w", name, err)
	}
	return getInt64FromRecord(record, "id"), nil
}

// getOrCreateInvestor resolves an investor by its name natural key
func (r *Repository) getOrCreateInvestor(ctx context.Context, tx neo4j.ManagedTransaction, name string) (int64, error) {
	newID, err := nextID(ctx, tx, "Investor")
	if err != nil {
		return 0, err
	}

	result, err := tx.Run(ctx, `
		MERGE (i:Investor {name: $name})
		ON CREATE SET i.id = $newID, i.created_at = datetime($now)
		RETURN i.id AS id
	`, map[string]interface{}{
		"name":  strings.TrimSpace(name),
		"newID": newID,
		"now":   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get/create investor %q: %w", name, err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read investor %q: %w", name, err)
	}
	return getInt64FromRecord(record, "id"), nil
}

// getOrCreateCompanyByName resolves a related company for relation edges,
// creating a stub (id, slug, name only) when it does not exist yet
func (r *Repository) getOrCreateCompanyByName(ctx context.Context, tx neo4j.ManagedTransaction, name string) (int64, error) {
	name = strings.TrimSpace(name)
	newID, err := nextID(ctx, tx, "Company")
	if err != nil {
		return 0, err
	}

	result, err := tx.Run(ctx, `
		MERGE (c:Company {name: $name})
		ON CREATE SET c.id = $newID, c.slug = $slug,
			c.created_at = datetime($now), c.updated_at = datetime($now)
		RETURN c.id AS id
	`, map[string]interface{}{
		"name":  name,
		"newID": newID,
		"slug":  Slugify(name),
		"now":   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to get/create company %q: %w", name, err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read company %q: %w", name, err)
	}
	return getInt64FromRecord(record, "id"), nil
}
