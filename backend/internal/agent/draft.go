package agent

import (
	"strings"

	"github.com/ewenmichel/wdiw/backend/internal/graph"
)

// ============================================================================
// Research Draft
// ============================================================================

// Draft is the research output: one company and its founders as extracted
// from public sources, before any human curation. Every row carries the
// AI-GENERATED readiness marker so curators can tell machine drafts apart.
type Draft struct {
	RunID    string         `json:"run_id"`
	Company  DraftCompany   `json:"company"`
	Founders []DraftFounder `json:"founders"`
	Sources  []string       `json:"sources,omitempty"`
}

// DraftCompany mirrors the company scalars the extractor can source from
// the web corpus
type DraftCompany struct {
	Name        string `json:"name"`
	Website     string `json:"website,omitempty"`
	Description string `json:"description,omitempty"`
	Sector      string `json:"sector,omitempty"`
	Location    string `json:"location,omitempty"`
	CompanySize string `json:"company_size,omitempty"`
	FoundedYear int    `json:"founded_year,omitempty"`
	LastFunding string `json:"last_funding,omitempty"`
	Readiness   string `json:"readiness"`
}

// DraftFounder is one extracted founder
type DraftFounder struct {
	Name                 string   `json:"name"`
	Title                string   `json:"title,omitempty"`
	EducationInstitution string   `json:"education_institution,omitempty"`
	ProfessionalCompany  string   `json:"professional_company,omitempty"`
	PreviousCompanies    []string `json:"previous_companies,omitempty"`
	Readiness            string   `json:"readiness"`
}

// normalize stamps run metadata and readiness markers, falls back to the
// requested company name, and drops founder rows the model returned without
// a name.
func (d *Draft) normalize(company, runID string) {
	d.RunID = runID
	d.Company.Name = strings.TrimSpace(d.Company.Name)
	if d.Company.Name == "" {
		d.Company.Name = company
	}
	d.Company.Readiness = graph.ReadinessGenerated

	founders := d.Founders[:0]
	for _, f := range d.Founders {
		f.Name = strings.TrimSpace(f.Name)
		if f.Name == "" {
			continue
		}
		f.Readiness = graph.ReadinessGenerated
		founders = append(founders, f)
	}
	d.Founders = founders
	if d.Founders == nil {
		d.Founders = []DraftFounder{}
	}
}

// ToCompanyCreate converts the draft into the payload the company store
// consumes. Readiness markers ride along as plain scalar fields; values the
// store validates as enums are only kept when they are on the scale.
func (d *Draft) ToCompanyCreate() graph.CompanyCreate {
	payload := graph.CompanyCreate{
		Name:        d.Company.Name,
		Website:     d.Company.Website,
		Description: d.Company.Description,
		Sector:      d.Company.Sector,
		Location:    d.Company.Location,
		FoundedYear: d.Company.FoundedYear,
		LastFunding: d.Company.LastFunding,
		Readiness:   d.Company.Readiness,
	}
	for _, size := range graph.CompanySizeOrder {
		if size == d.Company.CompanySize {
			payload.CompanySize = size
			break
		}
	}

	for _, f := range d.Founders {
		founder := graph.FounderPayload{
			Name:      f.Name,
			Title:     f.Title,
			Readiness: f.Readiness,
		}
		if f.EducationInstitution != "" {
			founder.BackgroundType = graph.BackgroundEducation
			founder.EducationBackground = &graph.EducationBackground{
				Institution: f.EducationInstitution,
			}
		}
		if f.ProfessionalCompany != "" {
			founder.BackgroundType = graph.BackgroundProfessional
			founder.ProfessionalBackground = &graph.ProfessionalBackground{
				Company: f.ProfessionalCompany,
			}
		}
		if len(f.PreviousCompanies) > 0 {
			description := "Previously: " + strings.Join(f.PreviousCompanies, ", ")
			if founder.ProfessionalBackground == nil {
				founder.BackgroundType = graph.BackgroundProfessional
				founder.ProfessionalBackground = &graph.ProfessionalBackground{
					Company:     f.PreviousCompanies[0],
					Description: description,
				}
			} else {
				founder.ProfessionalBackground.Description = description
			}
		}
		payload.Founders = append(payload.Founders, founder)
	}
	return payload
}
