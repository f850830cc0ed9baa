package graph

import (
	"context"
	"strings"

	apperrors "github.com/ewenmichel/wdiw/backend/pkg/errors"
)

// ============================================================================
// Company Reads
// ============================================================================

// ListCompanies returns tag-annotated summaries ordered by name. A non-empty
// search narrows the result to companies whose name, sector or location
// contains the term, case-insensitively.
func (r *Repository) ListCompanies(ctx context.Context, search string, skip, limit int) ([]CompanySummary, error) {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = 100
	}

	parts := []string{"MATCH (c:Company)"}
	params := map[string]interface{}{
		"skip":  skip,
		"limit": limit,
	}
	if search = strings.TrimSpace(search); search != "" {
		parts = append(parts, `
			WHERE toLower(c.name) CONTAINS toLower($search)
			   OR toLower(coalesce(c.sector, '')) CONTAINS toLower($search)
			   OR toLower(coalesce(c.location, '')) CONTAINS toLower($search)
		`)
		params["search"] = search
	}
	parts = append(parts, `
		OPTIONAL MATCH (c)-[:HAS_TAG]->(t:Tag)
		WITH c, collect(t {.*}) AS tags
		RETURN c {.*} AS c, tags
		ORDER BY c.name
		SKIP $skip LIMIT $limit
	`)

	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, strings.Join(parts, "\n"), params)
	if err != nil {
		return nil, apperrors.NewDatabase("list companies", err)
	}

	summaries := []CompanySummary{}
	for result.Next(ctx) {
		summaries = append(summaries, summaryFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewDatabase("list companies", err)
	}
	return summaries, nil
}

// FilterCompanies returns the summaries matching every supplied criterion:
// tag names AND-intersect, ordinal fields compare along their scale, numeric
// ratings compare on value.
func (r *Repository) FilterCompanies(ctx context.Context, params FilterParams) ([]CompanySummary, error) {
	query, args, err := buildFilterQuery(params)
	if err != nil {
		return nil, err
	}

	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, query, args)
	if err != nil {
		return nil, apperrors.NewDatabase("filter companies", err)
	}

	summaries := []CompanySummary{}
	for result.Next(ctx) {
		summaries = append(summaries, summaryFromRecord(result.Record()))
	}
	if err := result.Err(); err != nil {
		return nil, apperrors.NewDatabase("filter companies", err)
	}
	return summaries, nil
}

// GetCompanyDetail returns the full read shape for one company: scalars,
// tags, founder and employee role records (each carrying the person's
// education/professional tags) and investors. A missing id returns nil
// without an error so callers can distinguish absence from failure.
func (r *Repository) GetCompanyDetail(ctx context.Context, companyID int64) (*CompanyDetail, error) {
	session := r.readSession(ctx)
	defer session.Close(ctx)

	result, err := session.Run(ctx, `
		MATCH (c:Company {id: $id})
		OPTIONAL MATCH (c)-[:HAS_TAG]->(ct:Tag)
		WITH c, collect(ct {.*}) AS ctags

		OPTIONAL MATCH (fp:Person)-[fr:FOUNDER_OF]->(c)
		OPTIONAL MATCH (fp)-[:HAS_TAG]->(ft:Tag)
		WITH c, ctags, fp, fr, collect(ft {.*}) AS ftags
		WITH c, ctags, [f IN collect({
			person_id: fp.id,
			name: fp.name,
			title: fr.title,
			background_type: fr.background_type,
			education_institution: fr.education_institution,
			education_degree: fr.education_degree,
			education_field: fr.education_field,
			education_year: fr.education_year,
			professional_company: fr.professional_company,
			professional_position: fr.professional_position,
			professional_duration: fr.professional_duration,
			professional_description: fr.professional_description,
			readiness: fr.readiness,
			tags: ftags
		}) WHERE f.person_id IS NOT NULL] AS founders

		OPTIONAL MATCH (ep:Person)-[er:EMPLOYEE_OF]->(c)
		OPTIONAL MATCH (ep)-[:HAS_TAG]->(et:Tag)
		WITH c, ctags, founders, ep, er, collect(et {.*}) AS etags
		WITH c, ctags, founders, [e IN collect({
			person_id: ep.id,
			name: ep.name,
			title: er.title,
			role: er.role,
			department: er.department,
			career_track: er.career_track,
			background_type: er.background_type,
			education_institution: er.education_institution,
			education_degree: er.education_degree,
			education_field: er.education_field,
			education_year: er.education_year,
			professional_company: er.professional_company,
			professional_position: er.professional_position,
			professional_duration: er.professional_duration,
			professional_description: er.professional_description,
			readiness: er.readiness,
			tags: etags
		}) WHERE e.person_id IS NOT NULL] AS employees

		OPTIONAL MATCH (i:Investor)-[:INVESTED_IN]->(c)
		RETURN c {.*} AS c, ctags, founders, employees, collect(i {.*}) AS investors
	`, map[string]interface{}{"id": companyID})
	if err != nil {
		return nil, apperrors.NewDatabase("load company detail", err)
	}
	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, apperrors.NewDatabase("load company detail", err)
		}
		return nil, nil
	}
	record := result.Record()

	detail := &CompanyDetail{
		CompanySummary: CompanySummary{
			Company: companyFromProps(getMapFromRecord(record, "c")),
			Tags:    tagsFromMaps(getMapSliceFromRecord(record, "ctags")),
		},
		Founders:  []RoleDetail{},
		Employees: []RoleDetail{},
		Investors: []Investor{},
	}
	detail.SecteurTags, detail.CoreBusinessTags = splitTagsByCategory(detail.Tags)

	for _, props := range getMapSliceFromRecord(record, "founders") {
		detail.Founders = append(detail.Founders, roleFromProps(props))
	}
	for _, props := range getMapSliceFromRecord(record, "employees") {
		detail.Employees = append(detail.Employees, roleFromProps(props))
	}
	for _, props := range getMapSliceFromRecord(record, "investors") {
		if len(props) == 0 {
			continue
		}
		detail.Investors = append(detail.Investors, investorFromProps(props))
	}
	return detail, nil
}
