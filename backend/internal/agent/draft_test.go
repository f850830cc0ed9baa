package agent

import (
	"testing"

	"github.com/ewenmichel/wdiw/backend/internal/graph"
)

func TestDraftNormalize(t *testing.T) {
	draft := &Draft{
		Company: DraftCompany{Name: "  Kili Technology  "},
		Founders: []DraftFounder{
			{Name: "  Edouard d'Archimbaud ", Title: "CTO"},
			{Name: "   "},
			{Name: "Francois-Xavier Leduc"},
		},
	}

	draft.normalize("Kili Technology", "run-42")

	if draft.RunID != "run-42" {
		t.Errorf("Expected run ID to be stamped, got '%s'", draft.RunID)
	}
	if draft.Company.Name != "Kili Technology" {
		t.Errorf("Expected trimmed company name, got '%s'", draft.Company.Name)
	}
	if draft.Company.Readiness != graph.ReadinessGenerated {
		t.Errorf("Expected company readiness marker, got '%s'", draft.Company.Readiness)
	}
	if len(draft.Founders) != 2 {
		t.Fatalf("Expected nameless founder to be dropped, got %d founders", len(draft.Founders))
	}
	for _, f := range draft.Founders {
		if f.Readiness != graph.ReadinessGenerated {
			t.Errorf("Expected founder readiness marker on '%s', got '%s'", f.Name, f.Readiness)
		}
	}
	if draft.Founders[0].Name != "Edouard d'Archimbaud" {
		t.Errorf("Expected trimmed founder name, got '%s'", draft.Founders[0].Name)
	}
}

func TestDraftNormalize_FallsBackToRequestedName(t *testing.T) {
	draft := &Draft{Company: DraftCompany{Name: "  "}}
	draft.normalize("DeepIP", "run-1")

	if draft.Company.Name != "DeepIP" {
		t.Errorf("Expected fallback to requested name, got '%s'", draft.Company.Name)
	}
	if draft.Founders == nil || len(draft.Founders) != 0 {
		t.Errorf("Expected empty founder list, got %v", draft.Founders)
	}
}

func TestDraftToCompanyCreate(t *testing.T) {
	draft := &Draft{
		Company: DraftCompany{
			Name:        "DeepIP",
			Website:     "https://deepip.ai",
			Description: "AI patent assistant",
			Sector:      "LegalTech",
			Location:    "NYC & Paris",
			CompanySize: "early",
			FoundedYear: 2024,
			LastFunding: "$15M Series A (2025)",
			Readiness:   graph.ReadinessGenerated,
		},
		Founders: []DraftFounder{
			{
				Name:                 "Edouard d'Archimbaud",
				Title:                "CTO & Co-founder",
				EducationInstitution: "Polytechnique",
				Readiness:            graph.ReadinessGenerated,
			},
			{
				Name:                "Francois-Xavier Leduc",
				Title:               "CEO & Co-founder",
				ProfessionalCompany: "Kili Technology",
				PreviousCompanies:   []string{"Kili Technology", "Theodo"},
				Readiness:           graph.ReadinessGenerated,
			},
		},
	}

	payload := draft.ToCompanyCreate()

	if payload.Name != "DeepIP" || payload.Website != "https://deepip.ai" {
		t.Errorf("Expected company scalars to carry over, got %+v", payload)
	}
	if payload.CompanySize != "early" {
		t.Errorf("Expected company size 'early', got '%s'", payload.CompanySize)
	}
	if payload.FoundedYear != 2024 || payload.LastFunding != "$15M Series A (2025)" {
		t.Errorf("Expected funding fields to carry over, got %+v", payload)
	}
	if payload.Readiness != graph.ReadinessGenerated {
		t.Errorf("Expected readiness marker on payload, got '%s'", payload.Readiness)
	}

	if len(payload.Founders) != 2 {
		t.Fatalf("Expected 2 founders, got %d", len(payload.Founders))
	}

	edu := payload.Founders[0]
	if edu.BackgroundType != graph.BackgroundEducation {
		t.Errorf("Expected education background type, got '%s'", edu.BackgroundType)
	}
	if edu.EducationBackground == nil || edu.EducationBackground.Institution != "Polytechnique" {
		t.Errorf("Expected education institution, got %+v", edu.EducationBackground)
	}
	if edu.Readiness != graph.ReadinessGenerated {
		t.Errorf("Expected readiness on founder payload, got '%s'", edu.Readiness)
	}

	pro := payload.Founders[1]
	if pro.BackgroundType != graph.BackgroundProfessional {
		t.Errorf("Expected professional background type, got '%s'", pro.BackgroundType)
	}
	if pro.ProfessionalBackground == nil || pro.ProfessionalBackground.Company != "Kili Technology" {
		t.Errorf("Expected professional company, got %+v", pro.ProfessionalBackground)
	}
	if pro.ProfessionalBackground.Description != "Previously: Kili Technology, Theodo" {
		t.Errorf("Expected previous companies in description, got '%s'", pro.ProfessionalBackground.Description)
	}
}

func TestDraftToCompanyCreate_UnknownSizeDropped(t *testing.T) {
	draft := &Draft{Company: DraftCompany{Name: "Acme", CompanySize: "mega"}}
	if payload := draft.ToCompanyCreate(); payload.CompanySize != "" {
		t.Errorf("Expected off-scale company size to be dropped, got '%s'", payload.CompanySize)
	}
}

func TestDraftToCompanyCreate_PreviousCompaniesWithoutEmployer(t *testing.T) {
	draft := &Draft{
		Company: DraftCompany{Name: "Acme"},
		Founders: []DraftFounder{
			{Name: "Jane Doe", PreviousCompanies: []string{"Beta Corp", "Gamma Labs"}},
		},
	}

	payload := draft.ToCompanyCreate()
	founder := payload.Founders[0]
	if founder.BackgroundType != graph.BackgroundProfessional {
		t.Errorf("Expected professional background type, got '%s'", founder.BackgroundType)
	}
	if founder.ProfessionalBackground == nil || founder.ProfessionalBackground.Company != "Beta Corp" {
		t.Errorf("Expected first previous company as employer, got %+v", founder.ProfessionalBackground)
	}
	if founder.ProfessionalBackground.Description != "Previously: Beta Corp, Gamma Labs" {
		t.Errorf("Unexpected description '%s'", founder.ProfessionalBackground.Description)
	}
}
