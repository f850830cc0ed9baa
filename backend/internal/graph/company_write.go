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
// Company Writes
// ============================================================================

// CreateCompany allocates a fresh id and writes the company node together
// with every embedded edge list (tags, investors, founders, employees,
// relations) in one managed transaction, then reads the full detail back.
// A name collision surfaces as a ConstraintError.
func (r *Repository) CreateCompany(ctx context.Context, payload CompanyCreate) (*CompanyDetail, error) {
	if err := payload.Normalize(); err != nil {
		return nil, err
	}

	session := r.writeSession(ctx)
	defer session.Close(ctx)

	created, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		companyID, err := nextID(ctx, tx, "Company")
		if err != nil {
			return nil, err
		}

		now := time.Now().UTC().Format(time.RFC3339)
		_, err = tx.Run(ctx, `
			CREATE (c:Company {id: $id})
			SET c.slug = $slug,
			    c.name = $name,
			    c.website = $website,
			    c.description = $description,
			    c.sector = $sector,
			    c.location = $location,
			    c.high_profile = $high_profile,
			    c.remuneration = $remuneration,
			    c.work_intensity = $work_intensity,
			    c.company_size = $company_size,
			    c.founded_year = $founded_year,
			    c.last_funding = $last_funding,
			    c.readiness = $readiness,
			    c.created_at = datetime($now),
			    c.updated_at = datetime($now)
		`, map[string]interface{}{
			"id":             companyID,
			"slug":           Slugify(payload.Name),
			"name":           payload.Name,
			"website":        nullable(payload.Website),
			"description":    nullable(payload.Description),
			"sector":         nullable(payload.Sector),
			"location":       nullable(payload.Location),
			"high_profile":   payload.HighProfile,
			"remuneration":   payload.Remuneration,
			"work_intensity": payload.WorkIntensity,
			"company_size":   payload.CompanySize,
			"founded_year":   nullableInt(payload.FoundedYear),
			"last_funding":   nullable(payload.LastFunding),
			"readiness":      nullable(payload.Readiness),
			"now":            now,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create company node: %w", err)
		}

		if err := r.writeCompanyTags(ctx, tx, companyID, payload.SecteurTags, payload.CoreBusinessTags); err != nil {
			return nil, err
		}
		if err := r.writeInvestors(ctx, tx, companyID, payload.Investors); err != nil {
			return nil, err
		}
		for _, f := range payload.Founders {
			if err := r.writeFounder(ctx, tx, companyID, f); err != nil {
				return nil, err
			}
		}
		for _, e := range payload.Employees {
			if err := r.writeEmployee(ctx, tx, companyID, e); err != nil {
				return nil, err
			}
		}
		if err := r.writeRelations(ctx, tx, companyID, payload.Relations); err != nil {
			return nil, err
		}
		return companyID, nil
	})
	if err != nil {
		switch {
		case apperrors.IsAppError(err):
			return nil, err
		case isConstraintViolation(err):
			return nil, apperrors.NewConstraint("Company", "name", err)
		default:
			return nil, apperrors.NewDatabase("create company", err)
		}
	}

	companyID := created.(int64)
	r.logger.Info("Company created",
		zap.Int64("company_id", companyID),
		zap.String("name", payload.Name),
		zap.Int("founders", len(payload.Founders)),
		zap.Int("employees", len(payload.Employees)))

	detail, err := r.GetCompanyDetail(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, apperrors.NewDatabase("read created company", fmt.Errorf("company %d not found after create", companyID))
	}
	return detail, nil
}

// UpdateCompany applies a partial update: absent fields stay untouched,
// present scalar fields are overwritten, present lists replace the existing
// edge set wholesale. Role replacements re-run profile propagation.
func (r *Repository) UpdateCompany(ctx context.Context, companyID int64, payload CompanyUpdate) (*CompanyDetail, error) {
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	session := r.writeSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		if err := r.requireCompany(ctx, tx, companyID); err != nil {
			return nil, err
		}

		props := map[string]interface{}{}
		if payload.Name != nil {
			name := strings.TrimSpace(*payload.Name)
			props["name"] = name
			props["slug"] = Slugify(name)
		}
		if payload.Website != nil {
			props["website"] = nullable(*payload.Website)
		}
		if payload.Description != nil {
			props["description"] = nullable(*payload.Description)
		}
		if payload.Sector != nil {
			props["sector"] = nullable(*payload.Sector)
		}
		if payload.Location != nil {
			props["location"] = nullable(*payload.Location)
		}
		if payload.HighProfile != nil {
			props["high_profile"] = *payload.HighProfile
		}
		if payload.Remuneration != nil {
			props["remuneration"] = *payload.Remuneration
		}
		if payload.WorkIntensity != nil {
			props["work_intensity"] = *payload.WorkIntensity
		}
		if payload.CompanySize != nil {
			props["company_size"] = *payload.CompanySize
		}
		if payload.FoundedYear != nil {
			props["founded_year"] = nullableInt(*payload.FoundedYear)
		}
		if payload.LastFunding != nil {
			props["last_funding"] = nullable(*payload.LastFunding)
		}

		_, err := tx.Run(ctx, `
			MATCH (c:Company {id: $id})
			SET c += $props, c.updated_at = datetime($now)
		`, map[string]interface{}{
			"id":    companyID,
			"props": props,
			"now":   time.Now().UTC().Format(time.RFC3339),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to update company node: %w", err)
		}

		if payload.SecteurTags != nil {
			if err := r.replaceCategoryTags(ctx, tx, "Company", companyID, CategorySecteur, *payload.SecteurTags); err != nil {
				return nil, err
			}
		}
		if payload.CoreBusinessTags != nil {
			if err := r.replaceCategoryTags(ctx, tx, "Company", companyID, CategoryCoreBusiness, *payload.CoreBusinessTags); err != nil {
				return nil, err
			}
		}
		if payload.Investors != nil {
			if err := r.clearEdges(ctx, tx, companyID, "INVESTED_IN"); err != nil {
				return nil, err
			}
			if err := r.writeInvestors(ctx, tx, companyID, *payload.Investors); err != nil {
				return nil, err
			}
		}
		if payload.Founders != nil {
			if err := r.clearEdges(ctx, tx, companyID, "FOUNDER_OF"); err != nil {
				return nil, err
			}
			for _, f := range *payload.Founders {
				if err := r.writeFounder(ctx, tx, companyID, f); err != nil {
					return nil, err
				}
			}
		}
		if payload.Employees != nil {
			if err := r.clearEdges(ctx, tx, companyID, "EMPLOYEE_OF"); err != nil {
				return nil, err
			}
			for _, e := range *payload.Employees {
				if err := r.writeEmployee(ctx, tx, companyID, e); err != nil {
					return nil, err
				}
			}
		}
		if payload.Relations != nil {
			if _, err := tx.Run(ctx, `
				MATCH (c:Company {id: $id})-[rel:RELATED]-()
				DELETE rel
			`, map[string]interface{}{"id": companyID}); err != nil {
				return nil, fmt.Errorf("failed to clear relations: %w", err)
			}
			if err := r.writeRelations(ctx, tx, companyID, *payload.Relations); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		switch {
		case apperrors.IsAppError(err):
			return nil, err
		case isConstraintViolation(err):
			return nil, apperrors.NewConstraint("Company", "name", err)
		default:
			return nil, apperrors.NewDatabase("update company", err)
		}
	}

	r.logger.Info("Company updated", zap.Int64("company_id", companyID))

	detail, err := r.GetCompanyDetail(ctx, companyID)
	if err != nil {
		return nil, err
	}
	if detail == nil {
		return nil, apperrors.NewDatabase("read updated company", fmt.Errorf("company %d not found after update", companyID))
	}
	return detail, nil
}

// DeleteCompany removes the company node and every edge touching it. Tag
// usage counts held by the company are released first; Person, Tag and
// Investor nodes survive for reuse by other companies.
func (r *Repository) DeleteCompany(ctx context.Context, companyID int64) error {
	session := r.writeSession(ctx)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		if err := r.requireCompany(ctx, tx, companyID); err != nil {
			return nil, err
		}

		_, err := tx.Run(ctx, `
			MATCH (c:Company {id: $id})-[:HAS_TAG]->(t:Tag)
			SET t.usage_count = CASE
				WHEN coalesce(t.usage_count, 0) > 0 THEN t.usage_count - 1
				ELSE 0
			END
		`, map[string]interface{}{"id": companyID})
		if err != nil {
			return nil, fmt.Errorf("failed to release tag counts: %w", err)
		}

		_, err = tx.Run(ctx, `
			MATCH (c:Company {id: $id})
			DETACH DELETE c
		`, map[string]interface{}{"id": companyID})
		if err != nil {
			return nil, fmt.Errorf("failed to delete company: %w", err)
		}
		return nil, nil
	})
	if err != nil {
		if apperrors.IsAppError(err) {
			return err
		}
		return apperrors.NewDatabase("delete company", err)
	}

	r.logger.Info("Company deleted", zap.Int64("company_id", companyID))
	return nil
}

// requireCompany fails with a NotFoundError when the id does not exist
func (r *Repository) requireCompany(ctx context.Context, tx neo4j.ManagedTransaction, companyID int64) error {
	result, err := tx.Run(ctx, `
		MATCH (c:Company {id: $id})
		RETURN c.id AS id
	`, map[string]interface{}{"id": companyID})
	if err != nil {
		return fmt.Errorf("failed to look up company: %w", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return fmt.Errorf("failed to look up company: %w", err)
		}
		return apperrors.NewNotFound("company", companyID)
	}
	return nil
}

// clearEdges drops every edge of the given type pointing into the company
func (r *Repository) clearEdges(ctx context.Context, tx neo4j.ManagedTransaction, companyID int64, relType string) error {
	query := fmt.Sprintf(`
		MATCH ()-[rel:%s]->(c:Company {id: $id})
		DELETE rel
	`, relType)
	if _, err := tx.Run(ctx, query, map[string]interface{}{"id": companyID}); err != nil {
		return fmt.Errorf("failed to clear %s edges: %w", relType, err)
	}
	return nil
}

// writeCompanyTags attaches both company-level tag lists
func (r *Repository) writeCompanyTags(ctx context.Context, tx neo4j.ManagedTransaction, companyID int64, secteur, coreBusiness []string) error {
	for _, name := range secteur {
		if _, err := r.attachTag(ctx, tx, "Company", companyID, name, CategorySecteur, defaultTagColor); err != nil {
			return err
		}
	}
	for _, name := range coreBusiness {
		if _, err := r.attachTag(ctx, tx, "Company", companyID, name, CategoryCoreBusiness, defaultTagColor); err != nil {
			return err
		}
	}
	return nil
}

// writeInvestors get-or-creates each investor by name and links it
func (r *Repository) writeInvestors(ctx context.Context, tx neo4j.ManagedTransaction, companyID int64, names []string) error {
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		investorID, err := r.getOrCreateInvestor(ctx, tx, name)
		if err != nil {
			return err
		}
		_, err = tx.Run(ctx, `
			MATCH (i:Investor {id: $investorID}), (c:Company {id: $companyID})
			MERGE (i)-[:INVESTED_IN]->(c)
		`, map[string]interface{}{
			"investorID": investorID,
			"companyID":  companyID,
		})
		if err != nil {
			return fmt.Errorf("failed to link investor %q: %w", name, err)
		}
	}
	return nil
}

func (r *Repository) writeFounder(ctx context.Context, tx neo4j.ManagedTransaction, companyID int64, f FounderPayload) error {
	return r.writeRole(ctx, tx, companyID, "FOUNDER_OF", f, nil)
}

func (r *Repository) writeEmployee(ctx context.Context, tx neo4j.ManagedTransaction, companyID int64, e EmployeePayload) error {
	return r.writeRole(ctx, tx, companyID, "EMPLOYEE_OF", e.FounderPayload, map[string]interface{}{
		"role":         nullable(e.Role),
		"department":   nullable(e.Department),
		"career_track": nullable(e.CareerTrack),
	})
}

// writeRole resolves the person, replaces the role edge's properties
// wholesale, replaces the person's education/professional tag sets with the
// payload's, and fans the canonical profile out to the person's other roles.
// Position-specific fields (title, employee extras) never leave this edge.
func (r *Repository) writeRole(ctx context.Context, tx neo4j.ManagedTransaction, companyID int64, relType string, f FounderPayload, positionProps map[string]interface{}) error {
	personID, err := r.getOrCreatePerson(ctx, tx, f.PersonID, f.Name)
	if err != nil {
		return err
	}

	props := profileProps(founderProfile(f))
	props["title"] = nullable(f.Title)
	props["readiness"] = nullable(f.Readiness)
	for k, v := range positionProps {
		props[k] = v
	}

	query := fmt.Sprintf(`
		MATCH (p:Person {id: $personID}), (c:Company {id: $companyID})
		MERGE (p)-[r:%s]->(c)
		SET r = $props
	`, relType)
	if _, err := tx.Run(ctx, query, map[string]interface{}{
		"personID":  personID,
		"companyID": companyID,
		"props":     props,
	}); err != nil {
		return fmt.Errorf("failed to write %s edge: %w", relType, err)
	}

	if err := r.replaceCategoryTags(ctx, tx, "Person", personID, CategoryEducation, f.EducationTags); err != nil {
		return err
	}
	if err := r.replaceCategoryTags(ctx, tx, "Person", personID, CategoryProfessional, f.ProfessionalTags); err != nil {
		return err
	}

	return r.propagateProfile(ctx, tx, personID, companyID, founderProfile(f))
}

// writeRelations normalizes each relation payload onto a parent->child
// RELATED edge. "spinoff" means the related company spun off this one,
// "parent" means this company spun off the related one; any other type is
// stored as given, from this company to the related one.
func (r *Repository) writeRelations(ctx context.Context, tx neo4j.ManagedTransaction, companyID int64, relations []RelationPayload) error {
	for _, rel := range relations {
		relatedID, err := r.getOrCreateCompanyByName(ctx, tx, strings.TrimSpace(rel.RelatedCompanyName))
		if err != nil {
			return err
		}

		parentID, childID := companyID, relatedID
		relType := strings.TrimSpace(rel.RelationType)
		switch relType {
		case "spinoff":
			parentID, childID = relatedID, companyID
		case "parent":
			relType = "spinoff"
		}
		if relType == "" {
			relType = "related"
		}

		_, err = tx.Run(ctx, `
			MATCH (parent:Company {id: $parentID}), (child:Company {id: $childID})
			MERGE (parent)-[rel:RELATED]->(child)
			SET rel.type = $type
		`, map[string]interface{}{
			"parentID": parentID,
			"childID":  childID,
			"type":     relType,
		})
		if err != nil {
			return fmt.Errorf("failed to write relation to %q: %w", rel.RelatedCompanyName, err)
		}
	}
	return nil
}
