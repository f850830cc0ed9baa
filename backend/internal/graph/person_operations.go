package graph

import (
	"context"
	"strings"

	apperrors "github.com/ewenmichel/wdiw/backend/pkg/errors"
)

// ============================================================================
// Person Reads
// ============================================================================

// ListPersons returns persons ordered by name. Persons exist independently
// of any single company, so the list spans every role record ever written.
func (r *Repository) ListPersons(ctx context.Context, limit int) ([]Person, error) {
	if limit < 1 {
		limit = 100
	}

	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (p:Person)
		RETURN p.id AS id, p.name AS name
		ORDER BY p.name
		LIMIT $limit
	`, map[string]interface{}{"limit": limit})
	if err != nil {
		return nil, apperrors.NewDatabase("list persons", err)
	}

	persons := []Person{}
	for result.Next(ctx) {
		record := result.Record()
		persons = append(persons, Person{
			ID:   getInt64FromRecord(record, "id"),
			Name: getStringFromRecord(record, "name"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewDatabase("list persons", err)
	}
	return persons, nil
}

// SearchPersons finds persons whose name contains the query,
// case-insensitively, ordered by name
func (r *Repository) SearchPersons(ctx context.Context, query string, limit int) ([]Person, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return r.ListPersons(ctx, limit)
	}
	if limit < 1 {
		limit = 20
	}

	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (p:Person)
		WHERE toLower(p.name) CONTAINS toLower($query)
		RETURN p.id AS id, p.name AS name
		ORDER BY p.name
		LIMIT $limit
	`, map[string]interface{}{
		"query": query,
		"limit": limit,
	})
	if err != nil {
		return nil, apperrors.NewDatabase("search persons", err)
	}

	persons := []Person{}
	for result.Next(ctx) {
		record := result.Record()
		persons = append(persons, Person{
			ID:   getInt64FromRecord(record, "id"),
			Name: getStringFromRecord(record, "name"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewDatabase("search persons", err)
	}
	return persons, nil
}
