package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	apperrors "github.com/ewenmichel/wdiw/backend/pkg/errors"
)

// ============================================================================
// Tag Operations
// ============================================================================

// attachTag resolves or creates the tag for (name, category) and merges the
// owner edge. usage_count is incremented only when the edge did not already
// exist, so re-attaching never double counts. Owner label is always the
// compile-time constant "Company" or "Person".
func (r *Repository) attachTag(ctx context.Context, tx neo4j.ManagedTransaction, ownerLabel string, ownerID int64, name, category, color string) (int64, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, nil
	}
	if color == "" {
		color = defaultTagColor
	}

	newID, err := nextID(ctx, tx, "Tag")
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf(`
		MATCH (o:%s {id: $ownerID})
		MERGE (t:Tag {name: $name, category: $category})
		ON CREATE SET t.id = $newID, t.color = $color, t.usage_count = 0, t.created_at = datetime($now)
		MERGE (o)-[rel:HAS_TAG]->(t)
		ON CREATE SET t.usage_count = coalesce(t.usage_count, 0) + 1
		RETURN t.id AS id
	`, ownerLabel)

	result, err := tx.Run(ctx, query, map[string]interface{}{
		"ownerID":  ownerID,
		"name":     name,
		"category": category,
		"color":    color,
		"newID":    newID,
		"now":      time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to attach tag %q: %w", name, err)
	}
	record, err := result.Single(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read tag %q: %w", name, err)
	}
	return getInt64FromRecord(record, "id"), nil
}

// detachCategoryTags removes every owner edge of the given category and
// decrements the affected tags' usage_count, never below zero
func (r *Repository) detachCategoryTags(ctx context.Context, tx neo4j.ManagedTransaction, ownerLabel string, ownerID int64, category string) error {
	query := fmt.Sprintf(`
		MATCH (o:%s {id: $ownerID})-[rel:HAS_TAG]->(t:Tag {category: $category})
		SET t.usage_count = CASE WHEN coalesce(t.usage_count, 0) > 0 THEN t.usage_count - 1 ELSE 0 END
		DELETE rel
	`, ownerLabel)

	_, err := tx.Run(ctx, query, map[string]interface{}{
		"ownerID":  ownerID,
		"category": category,
	})
	if err != nil {
		return fmt.Errorf("failed to detach %s tags: %w", category, err)
	}
	return nil
}

// replaceCategoryTags is the only tag mutation path on update: it detaches
// everything in the category, then attaches the new names fresh
func (r *Repository) replaceCategoryTags(ctx context.Context, tx neo4j.ManagedTransaction, ownerLabel string, ownerID int64, category string, names []string) error {
	if err := r.detachCategoryTags(ctx, tx, ownerLabel, ownerID, category); err != nil {
		return err
	}
	for _, name := range names {
		if _, err := r.attachTag(ctx, tx, ownerLabel, ownerID, name, category, ""); err != nil {
			return err
		}
	}
	return nil
}

// ListTags returns tags ordered by name, optionally scoped to one category
func (r *Repository) ListTags(ctx context.Context, category string, skip, limit int) ([]Tag, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	query := "MATCH (t:Tag)"
	params := map[string]interface{}{"skip": skip, "limit": limit}
	if category != "" {
		query += " WHERE t.category = $category"
		params["category"] = category
	}
	query += " RETURN t {.*} AS t ORDER BY t.name SKIP $skip LIMIT $limit"

	result, err := session.Run(ctx, query, params)
	if err != nil {
		return nil, apperrors.NewDatabase("list tags", err)
	}

	tags := []Tag{}
	for result.Next(ctx) {
		tags = append(tags, tagFromProps(getMapFromRecord(result.Record(), "t")))
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewDatabase("list tags", err)
	}
	return tags, nil
}

// SearchTags finds tags whose name contains the query, case-insensitively
func (r *Repository) SearchTags(ctx context.Context, query, category string, limit int) ([]Tag, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	cypher := "MATCH (t:Tag) WHERE toLower(t.name) CONTAINS toLower($q)"
	params := map[string]interface{}{"q": query, "limit": limit}
	if category != "" {
		cypher += " AND t.category = $category"
		params["category"] = category
	}
	cypher += " RETURN t {.*} AS t ORDER BY t.name LIMIT $limit"

	result, err := session.Run(ctx, cypher, params)
	if err != nil {
		return nil, apperrors.NewDatabase("search tags", err)
	}

	tags := []Tag{}
	for result.Next(ctx) {
		tags = append(tags, tagFromProps(getMapFromRecord(result.Record(), "t")))
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewDatabase("search tags", err)
	}
	return tags, nil
}

// CreateTag creates (or finds) a tag by its (name, category) natural key
// without attaching it to anything
func (r *Repository) CreateTag(ctx context.Context, payload TagCreate) (*Tag, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	session := r.writeSession(ctx)
	defer session.Close(ctx)

	created, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		newID, err := nextID(ctx, tx, "Tag")
		if err != nil {
			return nil, err
		}
		result, err := tx.Run(ctx, `
			MERGE (t:Tag {name: $name, category: $category})
			ON CREATE SET t.id = $newID, t.color = $color, t.usage_count = 0, t.created_at = datetime($now)
			RETURN t {.*} AS t
		`, map[string]interface{}{
			"name":     payload.Name,
			"category": payload.Category,
			"color":    payload.Color,
			"newID":    newID,
			"now":      time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return nil, err
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}
		tag := tagFromProps(getMapFromRecord(record, "t"))
		return &tag, nil
	})
	if err != nil {
		if isConstraintViolation(err) {
			return nil, apperrors.NewConstraint("Tag", "name", err)
		}
		return nil, apperrors.NewDatabase("create tag", err)
	}

	tag := created.(*Tag)
	r.logger.Info("Tag created",
		zap.Int64("tag_id", tag.ID),
		zap.String("name", tag.Name),
		zap.String("category", tag.Category),
	)
	return tag, nil
}
