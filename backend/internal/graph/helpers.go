package graph

import (
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ============================================================================
// Record and Map Helpers
// ============================================================================

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func getInt64FromRecord(record *neo4j.Record, key string) int64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return i
	}
	if i, ok := val.(int); ok {
		return int64(i)
	}
	return 0
}

func getMapFromRecord(record *neo4j.Record, key string) map[string]interface{} {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}
	if m, ok := val.(map[string]interface{}); ok {
		return m
	}
	return nil
}

func getMapSliceFromRecord(record *neo4j.Record, key string) []map[string]interface{} {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return nil
	}
	list, ok := val.([]interface{})
	if !ok {
		return nil
	}
	maps := make([]map[string]interface{}, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]interface{}); ok {
			maps = append(maps, m)
		}
	}
	return maps
}

func getStringFromMap(m map[string]interface{}, key string) string {
	if val, ok := m[key]; ok && val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getInt64FromMap(m map[string]interface{}, key string) int64 {
	val, ok := m[key]
	if !ok || val == nil {
		return 0
	}
	if i, ok := val.(int64); ok {
		return i
	}
	if i, ok := val.(int); ok {
		return int64(i)
	}
	return 0
}

func getIntFromMap(m map[string]interface{}, key string) int {
	return int(getInt64FromMap(m, key))
}

func getTimeFromMap(m map[string]interface{}, key string) time.Time {
	if val, ok := m[key]; ok && val != nil {
		// Neo4j datetime values come back as time.Time
		if t, ok := val.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}

// nullable maps empty strings onto Cypher nulls so absent fields are removed
// rather than stored as ""
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(n int) interface{} {
	if n == 0 {
		return nil
	}
	return n
}

// ============================================================================
// Struct Mappers
// ============================================================================

func companyFromProps(props map[string]interface{}) Company {
	return Company{
		ID:            getInt64FromMap(props, "id"),
		Slug:          getStringFromMap(props, "slug"),
		Name:          getStringFromMap(props, "name"),
		Website:       getStringFromMap(props, "website"),
		Description:   getStringFromMap(props, "description"),
		Sector:        getStringFromMap(props, "sector"),
		Location:      getStringFromMap(props, "location"),
		HighProfile:   getIntFromMap(props, "high_profile"),
		Remuneration:  getIntFromMap(props, "remuneration"),
		WorkIntensity: getStringFromMap(props, "work_intensity"),
		CompanySize:   getStringFromMap(props, "company_size"),
		FoundedYear:   getIntFromMap(props, "founded_year"),
		LastFunding:   getStringFromMap(props, "last_funding"),
		Readiness:     getStringFromMap(props, "readiness"),
		CreatedAt:     getTimeFromMap(props, "created_at"),
		UpdatedAt:     getTimeFromMap(props, "updated_at"),
	}
}

func tagFromProps(props map[string]interface{}) Tag {
	return Tag{
		ID:         getInt64FromMap(props, "id"),
		Name:       getStringFromMap(props, "name"),
		Category:   getStringFromMap(props, "category"),
		Color:      getStringFromMap(props, "color"),
		UsageCount: getInt64FromMap(props, "usage_count"),
		CreatedAt:  getTimeFromMap(props, "created_at"),
	}
}

func tagsFromMaps(maps []map[string]interface{}) []Tag {
	tags := []Tag{}
	for _, m := range maps {
		if len(m) == 0 {
			continue
		}
		tags = append(tags, tagFromProps(m))
	}
	return tags
}

func investorFromProps(props map[string]interface{}) Investor {
	return Investor{
		ID:   getInt64FromMap(props, "id"),
		Name: getStringFromMap(props, "name"),
		Type: getStringFromMap(props, "type"),
	}
}

func roleFromProps(props map[string]interface{}) RoleDetail {
	role := RoleDetail{
		PersonID:                getInt64FromMap(props, "person_id"),
		Name:                    getStringFromMap(props, "name"),
		Title:                   getStringFromMap(props, "title"),
		Role:                    getStringFromMap(props, "role"),
		Department:              getStringFromMap(props, "department"),
		CareerTrack:             getStringFromMap(props, "career_track"),
		BackgroundType:          getStringFromMap(props, "background_type"),
		EducationInstitution:    getStringFromMap(props, "education_institution"),
		EducationDegree:         getStringFromMap(props, "education_degree"),
		EducationField:          getStringFromMap(props, "education_field"),
		EducationYear:           getIntFromMap(props, "education_year"),
		ProfessionalCompany:     getStringFromMap(props, "professional_company"),
		ProfessionalPosition:    getStringFromMap(props, "professional_position"),
		ProfessionalDuration:    getStringFromMap(props, "professional_duration"),
		ProfessionalDescription: getStringFromMap(props, "professional_description"),
		Readiness:               getStringFromMap(props, "readiness"),
		Tags:                    []Tag{},
	}
	if raw, ok := props["tags"].([]interface{}); ok {
		for _, item := range raw {
			if m, ok := item.(map[string]interface{}); ok && len(m) > 0 {
				role.Tags = append(role.Tags, tagFromProps(m))
			}
		}
	}
	role.EducationTags, role.ProfessionalTags = splitRoleTags(role.Tags)
	return role
}

func summaryFromRecord(record *neo4j.Record) CompanySummary {
	summary := CompanySummary{
		Company: companyFromProps(getMapFromRecord(record, "c")),
		Tags:    tagsFromMaps(getMapSliceFromRecord(record, "tags")),
	}
	summary.SecteurTags, summary.CoreBusinessTags = splitTagsByCategory(summary.Tags)
	return summary
}
