package graph

import (
	"context"
	"fmt"
	"sort"

	apperrors "github.com/ewenmichel/wdiw/backend/pkg/errors"
)

// ============================================================================
// Graph Export
// ============================================================================

// roleAttribute is one role edge's shareable background slice, used to
// derive person-person links in Go where the pairing logic is easier to
// keep deterministic than in Cypher.
type roleAttribute struct {
	PersonID    int64
	Institution string
	Employer    string
}

// ExportGraph materializes the whole dataset into the visualization shape:
// one node per company and person, founder/employee links, and derived
// person-person links for shared tags, shared education institutions and
// shared professional-background companies. Each derived link appears once
// per unordered pair.
func (r *Repository) ExportGraph(ctx context.Context) (*GraphPayload, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	payload := &GraphPayload{Nodes: []GraphNode{}, Links: []GraphLink{}}

	result, err := session.Run(ctx, `
		MATCH (c:Company)
		RETURN 'company-' + toString(c.id) AS id, c.name AS label
		ORDER BY c.id
	`, nil)
	if err != nil {
		return nil, apperrors.NewDatabase("export company nodes", err)
	}
	for result.Next(ctx) {
		record := result.Record()
		payload.Nodes = append(payload.Nodes, GraphNode{
			ID:    getStringFromRecord(record, "id"),
			Label: getStringFromRecord(record, "label"),
			Type:  "company",
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewDatabase("export company nodes", err)
	}

	result, err = session.Run(ctx, `
		MATCH (p:Person)
		RETURN 'person-' + toString(p.id) AS id, p.name AS label
		ORDER BY p.id
	`, nil)
	if err != nil {
		return nil, apperrors.NewDatabase("export person nodes", err)
	}
	for result.Next(ctx) {
		record := result.Record()
		payload.Nodes = append(payload.Nodes, GraphNode{
			ID:    getStringFromRecord(record, "id"),
			Label: getStringFromRecord(record, "label"),
			Type:  "person",
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewDatabase("export person nodes", err)
	}

	result, err = session.Run(ctx, `
		MATCH (p:Person)-[rel:FOUNDER_OF|EMPLOYEE_OF]->(c:Company)
		RETURN 'person-' + toString(p.id) AS source,
		       'company-' + toString(c.id) AS target,
		       CASE WHEN type(rel) = 'FOUNDER_OF' THEN 'founder' ELSE 'employee' END AS relation
		ORDER BY p.id, c.id
	`, nil)
	if err != nil {
		return nil, apperrors.NewDatabase("export role links", err)
	}
	for result.Next(ctx) {
		record := result.Record()
		payload.Links = append(payload.Links, GraphLink{
			Source:   getStringFromRecord(record, "source"),
			Target:   getStringFromRecord(record, "target"),
			Relation: getStringFromRecord(record, "relation"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewDatabase("export role links", err)
	}

	result, err = session.Run(ctx, `
		MATCH (p1:Person)-[:HAS_TAG]->(:Tag)<-[:HAS_TAG]-(p2:Person)
		WHERE p1.id < p2.id
		RETURN DISTINCT 'person-' + toString(p1.id) AS source,
		       'person-' + toString(p2.id) AS target
		ORDER BY source, target
	`, nil)
	if err != nil {
		return nil, apperrors.NewDatabase("export shared tag links", err)
	}
	for result.Next(ctx) {
		record := result.Record()
		payload.Links = append(payload.Links, GraphLink{
			Source:   getStringFromRecord(record, "source"),
			Target:   getStringFromRecord(record, "target"),
			Relation: "shared_tag",
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewDatabase("export shared tag links", err)
	}

	result, err = session.Run(ctx, `
		MATCH (p:Person)-[rel:FOUNDER_OF|EMPLOYEE_OF]->(:Company)
		RETURN p.id AS person_id,
		       rel.education_institution AS institution,
		       rel.professional_company AS employer
	`, nil)
	if err != nil {
		return nil, apperrors.NewDatabase("export role attributes", err)
	}
	roles := []roleAttribute{}
	for result.Next(ctx) {
		record := result.Record()
		roles = append(roles, roleAttribute{
			PersonID:    getInt64FromRecord(record, "person_id"),
			Institution: getStringFromRecord(record, "institution"),
			Employer:    getStringFromRecord(record, "employer"),
		})
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewDatabase("export role attributes", err)
	}
	payload.Links = append(payload.Links, sharedAttributeLinks(roles)...)

	return payload, nil
}

// sharedAttributeLinks buckets role records by education institution and by
// professional-background company, then links every distinct person pair
// inside each bucket
func sharedAttributeLinks(roles []roleAttribute) []GraphLink {
	links := attributeBucketLinks(roles, "education_institution", func(role roleAttribute) string {
		return role.Institution
	})
	return append(links, attributeBucketLinks(roles, "professional_company", func(role roleAttribute) string {
		return role.Employer
	})...)
}

func attributeBucketLinks(roles []roleAttribute, relation string, attr func(roleAttribute) string) []GraphLink {
	buckets := map[string][]int64{}
	for _, role := range roles {
		if value := attr(role); value != "" && role.PersonID != 0 {
			buckets[value] = append(buckets[value], role.PersonID)
		}
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	links := []GraphLink{}
	seen := map[[2]int64]bool{}
	for _, key := range keys {
		ids := dedupeSorted(buckets[key])
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				pair := [2]int64{ids[i], ids[j]}
				if seen[pair] {
					continue
				}
				seen[pair] = true
				links = append(links, GraphLink{
					Source:   fmt.Sprintf("person-%d", ids[i]),
					Target:   fmt.Sprintf("person-%d", ids[j]),
					Relation: relation,
				})
			}
		}
	}
	return links
}

func dedupeSorted(ids []int64) []int64 {
	sorted := append([]int64{}, ids...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	out := sorted[:0]
	for i, id := range sorted {
		if i == 0 || id != sorted[i-1] {
			out = append(out, id)
		}
	}
	return out
}
