package graph

import (
	"fmt"
	"strings"
	"time"

	apperrors "github.com/ewenmichel/wdiw/backend/pkg/errors"
)

// ============================================================================
// Domain Types
// ============================================================================

// Tag categories. Secteur and core_business tags live on companies,
// education and professional tags live on persons.
const (
	CategorySecteur      = "secteur"
	CategoryCoreBusiness = "core_business"
	CategoryEducation    = "education"
	CategoryProfessional = "professional"
)

// Background types for founder/employee role records
const (
	BackgroundEducation    = "education"
	BackgroundProfessional = "professional"
)

// ReadinessGenerated marks records produced by the research agent rather
// than a human. The store treats it as an ordinary scalar field.
const ReadinessGenerated = "AI-GENERATED"

const defaultTagColor = "#64b5f6"

const (
	defaultHighProfile   = 3
	defaultRemuneration  = 3
	defaultWorkIntensity = "balanced"
	defaultCompanySize   = "startup"
)

// TagCategories lists every valid tag category
var TagCategories = []string{CategorySecteur, CategoryCoreBusiness, CategoryEducation, CategoryProfessional}

// Company holds the scalar fields of a company node
type Company struct {
	ID            int64     `json:"id"`
	Slug          string    `json:"slug"`
	Name          string    `json:"name"`
	Website       string    `json:"website,omitempty"`
	Description   string    `json:"description,omitempty"`
	Sector        string    `json:"sector,omitempty"`
	Location      string    `json:"location,omitempty"`
	HighProfile   int       `json:"high_profile"`
	Remuneration  int       `json:"remuneration"`
	WorkIntensity string    `json:"work_intensity"`
	CompanySize   string    `json:"company_size"`
	FoundedYear   int       `json:"founded_year,omitempty"`
	LastFunding   string    `json:"last_funding,omitempty"`
	Readiness     string    `json:"readiness,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// CompanySummary is a company with its tags, as returned by list and filter
type CompanySummary struct {
	Company
	Tags             []Tag `json:"tags"`
	SecteurTags      []Tag `json:"secteur_tags"`
	CoreBusinessTags []Tag `json:"core_business_tags"`
}

// CompanyDetail is the full read shape: company, tags, role records, investors
type CompanyDetail struct {
	CompanySummary
	Founders  []RoleDetail `json:"founders"`
	Employees []RoleDetail `json:"employees"`
	Investors []Investor   `json:"investors"`
}

// RoleDetail is a founder or employee role record as returned by GetCompanyDetail.
// Role, Department and CareerTrack are only populated for employees.
type RoleDetail struct {
	PersonID                int64  `json:"person_id"`
	Name                    string `json:"name"`
	Title                   string `json:"title,omitempty"`
	Role                    string `json:"role,omitempty"`
	Department              string `json:"department,omitempty"`
	CareerTrack             string `json:"career_track,omitempty"`
	BackgroundType          string `json:"background_type,omitempty"`
	EducationInstitution    string `json:"education_institution,omitempty"`
	EducationDegree         string `json:"education_degree,omitempty"`
	EducationField          string `json:"education_field,omitempty"`
	EducationYear           int    `json:"education_year,omitempty"`
	ProfessionalCompany     string `json:"professional_company,omitempty"`
	ProfessionalPosition    string `json:"professional_position,omitempty"`
	ProfessionalDuration    string `json:"professional_duration,omitempty"`
	ProfessionalDescription string `json:"professional_description,omitempty"`
	Readiness               string `json:"readiness,omitempty"`
	Tags                    []Tag  `json:"tags"`
	EducationTags           []Tag  `json:"education_tags"`
	ProfessionalTags        []Tag  `json:"professional_tags"`
}

// Tag is a shared taxonomy node, unique per (name, category)
type Tag struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Category   string    `json:"category"`
	Color      string    `json:"color"`
	UsageCount int64     `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// Person is the ownership root for canonical identity across role records
type Person struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Investor is attached to companies via INVESTED_IN edges
type Investor struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

// ============================================================================
// Write Payloads
// ============================================================================

// EducationBackground describes a person's education
type EducationBackground struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	Year        int    `json:"year,omitempty"`
}

// ProfessionalBackground describes a person's prior professional experience
type ProfessionalBackground struct {
	Company     string `json:"company"`
	Position    string `json:"position,omitempty"`
	Duration    string `json:"duration,omitempty"`
	Description string `json:"description,omitempty"`
}

// FounderPayload is a founder role record in a company write
type FounderPayload struct {
	PersonID               *int64                  `json:"person_id,omitempty"`
	Name                   string                  `json:"name"`
	Title                  string                  `json:"title,omitempty"`
	BackgroundType         string                  `json:"background_type,omitempty"`
	EducationBackground    *EducationBackground    `json:"education_background,omitempty"`
	ProfessionalBackground *ProfessionalBackground `json:"professional_background,omitempty"`
	EducationTags          []string                `json:"education_tags,omitempty"`
	ProfessionalTags       []string                `json:"professional_tags,omitempty"`
	Readiness              string                  `json:"readiness,omitempty"`
}

// EmployeePayload is an employee role record in a company write. It carries
// everything a founder does plus position-specific fields.
type EmployeePayload struct {
	FounderPayload
	Role        string `json:"role,omitempty"`
	Department  string `json:"department,omitempty"`
	CareerTrack string `json:"career_track,omitempty"`
}

// RelationPayload links the submitted company to another company by name.
// "spinoff" means the related company spun off the submitted one; "parent"
// means the submitted company spun off the related one. Both normalize to a
// parent->child spinoff edge.
type RelationPayload struct {
	RelationType       string `json:"relation_type"`
	RelatedCompanyName string `json:"related_company_name"`
}

// CompanyCreate is the full create payload
type CompanyCreate struct {
	Name             string            `json:"name"`
	Website          string            `json:"website,omitempty"`
	Description      string            `json:"description,omitempty"`
	Sector           string            `json:"sector,omitempty"`
	Location         string            `json:"location,omitempty"`
	HighProfile      int               `json:"high_profile,omitempty"`
	Remuneration     int               `json:"remuneration,omitempty"`
	WorkIntensity    string            `json:"work_intensity,omitempty"`
	CompanySize      string            `json:"company_size,omitempty"`
	FoundedYear      int               `json:"founded_year,omitempty"`
	LastFunding      string            `json:"last_funding,omitempty"`
	Readiness        string            `json:"readiness,omitempty"`
	Founders         []FounderPayload  `json:"founders,omitempty"`
	Employees        []EmployeePayload `json:"employees,omitempty"`
	Investors        []string          `json:"investors,omitempty"`
	Relations        []RelationPayload `json:"relations,omitempty"`
	SecteurTags      []string          `json:"secteur_tags,omitempty"`
	CoreBusinessTags []string          `json:"core_business_tags,omitempty"`
}

// CompanyUpdate carries only the fields to change. Nil means untouched;
// a present empty list clears the corresponding edges.
type CompanyUpdate struct {
	Name             *string            `json:"name,omitempty"`
	Website          *string            `json:"website,omitempty"`
	Description      *string            `json:"description,omitempty"`
	Sector           *string            `json:"sector,omitempty"`
	Location         *string            `json:"location,omitempty"`
	HighProfile      *int               `json:"high_profile,omitempty"`
	Remuneration     *int               `json:"remuneration,omitempty"`
	WorkIntensity    *string            `json:"work_intensity,omitempty"`
	CompanySize      *string            `json:"company_size,omitempty"`
	FoundedYear      *int               `json:"founded_year,omitempty"`
	LastFunding      *string            `json:"last_funding,omitempty"`
	Founders         *[]FounderPayload  `json:"founders,omitempty"`
	Employees        *[]EmployeePayload `json:"employees,omitempty"`
	Investors        *[]string          `json:"investors,omitempty"`
	Relations        *[]RelationPayload `json:"relations,omitempty"`
	SecteurTags      *[]string          `json:"secteur_tags,omitempty"`
	CoreBusinessTags *[]string          `json:"core_business_tags,omitempty"`
}

// TagCreate is the payload for creating a tag without attaching it
type TagCreate struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Color    string `json:"color,omitempty"`
}

// ============================================================================
// Graph Export Types
// ============================================================================

// GraphNode is one visualization node ("company-<id>" or "person-<id>")
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Type  string `json:"type"`
}

// GraphLink is one visualization edge
type GraphLink struct {
	Source   string `json:"source"`
	Target   string `json:"target"`
	Relation string `json:"relation"`
}

// GraphPayload is the full export shape
type GraphPayload struct {
	Nodes []GraphNode `json:"nodes"`
	Links []GraphLink `json:"links"`
}

// ============================================================================
// Validation
// ============================================================================

func validWorkIntensity(v string) bool {
	return ordinalIndex(WorkIntensityOrder, v) >= 0
}

func validCompanySize(v string) bool {
	return ordinalIndex(CompanySizeOrder, v) >= 0
}

func validTagCategory(v string) bool {
	for _, c := range TagCategories {
		if c == v {
			return true
		}
	}
	return false
}

func validBackgroundType(v string) bool {
	return v == BackgroundEducation || v == BackgroundProfessional
}

func validateRating(field string, v int) error {
	if v < 1 || v > 5 {
		return apperrors.NewValidation(field, fmt.Sprintf("must be between 1 and 5, got %d", v))
	}
	return nil
}

func validateFounder(field string, f FounderPayload) error {
	if strings.TrimSpace(f.Name) == "" {
		return apperrors.NewValidation(field+".name", "must not be empty")
	}
	if f.BackgroundType != "" && !validBackgroundType(f.BackgroundType) {
		return apperrors.NewValidation(field+".background_type", fmt.Sprintf("unknown value %q", f.BackgroundType))
	}
	return nil
}

// Normalize trims the name, applies create defaults, and validates every
// enum and rating before anything is written.
func (p *CompanyCreate) Normalize() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return apperrors.NewValidation("name", "must not be empty")
	}
	if p.HighProfile == 0 {
		p.HighProfile = defaultHighProfile
	}
	if p.Remuneration == 0 {
		p.Remuneration = defaultRemuneration
	}
	if p.WorkIntensity == "" {
		p.WorkIntensity = defaultWorkIntensity
	}
	if p.CompanySize == "" {
		p.CompanySize = defaultCompanySize
	}

	if err := validateRating("high_profile", p.HighProfile); err != nil {
		return err
	}
	if err := validateRating("remuneration", p.Remuneration); err != nil {
		return err
	}
	if !validWorkIntensity(p.WorkIntensity) {
		return apperrors.NewValidation("work_intensity", fmt.Sprintf("unknown value %q", p.WorkIntensity))
	}
	if !validCompanySize(p.CompanySize) {
		return apperrors.NewValidation("company_size", fmt.Sprintf("unknown value %q", p.CompanySize))
	}
	for i, f := range p.Founders {
		if err := validateFounder(fmt.Sprintf("founders[%d]", i), f); err != nil {
			return err
		}
	}
	for i, e := range p.Employees {
		if err := validateFounder(fmt.Sprintf("employees[%d]", i), e.FounderPayload); err != nil {
			return err
		}
	}
	for i, rel := range p.Relations {
		if strings.TrimSpace(rel.RelatedCompanyName) == "" {
			return apperrors.NewValidation(fmt.Sprintf("relations[%d].related_company_name", i), "must not be empty")
		}
	}
	return nil
}

// Validate rejects malformed update fields before anything is written
func (p *CompanyUpdate) Validate() error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return apperrors.NewValidation("name", "must not be empty")
	}
	if p.HighProfile != nil {
		if err := validateRating("high_profile", *p.HighProfile); err != nil {
			return err
		}
	}
	if p.Remuneration != nil {
		if err := validateRating("remuneration", *p.Remuneration); err != nil {
			return err
		}
	}
	if p.WorkIntensity != nil && !validWorkIntensity(*p.WorkIntensity) {
		return apperrors.NewValidation("work_intensity", fmt.Sprintf("unknown value %q", *p.WorkIntensity))
	}
	if p.CompanySize != nil && !validCompanySize(*p.CompanySize) {
		return apperrors.NewValidation("company_size", fmt.Sprintf("unknown value %q", *p.CompanySize))
	}
	if p.Founders != nil {
		for i, f := range *p.Founders {
			if err := validateFounder(fmt.Sprintf("founders[%d]", i), f); err != nil {
				return err
			}
		}
	}
	if p.Employees != nil {
		for i, e := range *p.Employees {
			if err := validateFounder(fmt.Sprintf("employees[%d]", i), e.FounderPayload); err != nil {
				return err
			}
		}
	}
	if p.Relations != nil {
		for i, rel := range *p.Relations {
			if strings.TrimSpace(rel.RelatedCompanyName) == "" {
				return apperrors.NewValidation(fmt.Sprintf("relations[%d].related_company_name", i), "must not be empty")
			}
		}
	}
	return nil
}

// Validate checks the tag payload and fills the default color
func (p *TagCreate) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return apperrors.NewValidation("name", "must not be empty")
	}
	if !validTagCategory(p.Category) {
		return apperrors.NewValidation("category", fmt.Sprintf("unknown value %q", p.Category))
	}
	if p.Color == "" {
		p.Color = defaultTagColor
	}
	return nil
}

// splitTagsByCategory fills the category-scoped views used by read shapes
func splitTagsByCategory(tags []Tag) (secteur, coreBusiness []Tag) {
	secteur = []Tag{}
	coreBusiness = []Tag{}
	for _, t := range tags {
		switch t.Category {
		case CategorySecteur:
			secteur = append(secteur, t)
		case CategoryCoreBusiness:
			coreBusiness = append(coreBusiness, t)
		}
	}
	return secteur, coreBusiness
}

func splitRoleTags(tags []Tag) (education, professional []Tag) {
	education = []Tag{}
	professional = []Tag{}
	for _, t := range tags {
		switch t.Category {
		case CategoryEducation:
			education = append(education, t)
		case CategoryProfessional:
			professional = append(professional, t)
		}
	}
	return education, professional
}
