package graph

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ============================================================================
// Profile Propagation
// ============================================================================

// canonicalProfile is the slice of a role payload that belongs to the person,
// not the role: whoever writes it last defines the person's background
// everywhere they appear.
type canonicalProfile struct {
	Name           string
	BackgroundType string
	Education      *EducationBackground
	Professional   *ProfessionalBackground
}

func founderProfile(f FounderPayload) canonicalProfile {
	return canonicalProfile{
		Name:           f.Name,
		BackgroundType: f.BackgroundType,
		Education:      f.EducationBackground,
		Professional:   f.ProfessionalBackground,
	}
}

// profileProps flattens the canonical fields into edge properties. Empty
// values become nulls so stale data on other edges is erased, not kept.
func profileProps(p canonicalProfile) map[string]interface{} {
	props := map[string]interface{}{
		"background_type":          nullable(p.BackgroundType),
		"education_institution":    nil,
		"education_degree":         nil,
		"education_field":          nil,
		"education_year":           nil,
		"professional_company":     nil,
		"professional_position":    nil,
		"professional_duration":    nil,
		"professional_description": nil,
	}
	if p.Education != nil {
		props["education_institution"] = nullable(p.Education.Institution)
		props["education_degree"] = nullable(p.Education.Degree)
		props["education_field"] = nullable(p.Education.Field)
		props["education_year"] = nullableInt(p.Education.Year)
	}
	if p.Professional != nil {
		props["professional_company"] = nullable(p.Professional.Company)
		props["professional_position"] = nullable(p.Professional.Position)
		props["professional_duration"] = nullable(p.Professional.Duration)
		props["professional_description"] = nullable(p.Professional.Description)
	}
	return props
}

// propagateProfile pushes the person's canonical fields onto every other role
// edge they hold, and keeps Person.name in sync. The source company's edge is
// excluded because the caller just wrote it in full.
func (r *Repository) propagateProfile(ctx context.Context, tx neo4j.ManagedTransaction, personID, sourceCompanyID int64, profile canonicalProfile) error {
	_, err := tx.Run(ctx, `
		MATCH (p:Person {id: $personID})
		WHERE $name <> '' AND p.name <> $name
		SET p.name = $name
	`, map[string]interface{}{
		"personID": personID,
		"name":     profile.Name,
	})
	if err != nil {
		return fmt.Errorf("failed to sync person name: %w", err)
	}

	props := profileProps(profile)
	_, err = tx.Run(ctx, `
		MATCH (p:Person {id: $personID})-[r:FOUNDER_OF|EMPLOYEE_OF]->(c:Company)
		WHERE c.id <> $sourceCompanyID
		SET r.background_type = $props.background_type,
		    r.education_institution = $props.education_institution,
		    r.education_degree = $props.education_degree,
		    r.education_field = $props.education_field,
		    r.education_year = $props.education_year,
		    r.professional_company = $props.professional_company,
		    r.professional_position = $props.professional_position,
		    r.professional_duration = $props.professional_duration,
		    r.professional_description = $props.professional_description
	`, map[string]interface{}{
		"personID":        personID,
		"sourceCompanyID": sourceCompanyID,
		"props":           props,
	})
	if err != nil {
		return fmt.Errorf("failed to propagate profile: %w", err)
	}
	return nil
}
