package graph

import (
	"testing"

	apperrors "github.com/ewenmichel/wdiw/backend/pkg/errors"
)

func TestCompanyCreateNormalizeDefaults(t *testing.T) {
	payload := CompanyCreate{Name: "  Kili Technology  "}
	if err := payload.Normalize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if payload.Name != "Kili Technology" {
		t.Errorf("name not trimmed: %q", payload.Name)
	}
	if payload.HighProfile != 3 || payload.Remuneration != 3 {
		t.Errorf("rating defaults not applied: high_profile=%d remuneration=%d", payload.HighProfile, payload.Remuneration)
	}
	if payload.WorkIntensity != "balanced" {
		t.Errorf("work_intensity default = %q, want balanced", payload.WorkIntensity)
	}
	if payload.CompanySize != "startup" {
		t.Errorf("company_size default = %q, want startup", payload.CompanySize)
	}
}

func TestCompanyCreateNormalizeKeepsExplicitValues(t *testing.T) {
	payload := CompanyCreate{
		Name:          "DeepIP",
		HighProfile:   5,
		Remuneration:  2,
		WorkIntensity: "intense",
		CompanySize:   "early",
	}
	if err := payload.Normalize(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.HighProfile != 5 || payload.Remuneration != 2 {
		t.Errorf("explicit ratings overwritten: %d/%d", payload.HighProfile, payload.Remuneration)
	}
	if payload.WorkIntensity != "intense" || payload.CompanySize != "early" {
		t.Errorf("explicit ordinals overwritten: %s/%s", payload.WorkIntensity, payload.CompanySize)
	}
}

func TestCompanyCreateNormalizeRejections(t *testing.T) {
	cases := []struct {
		name    string
		payload CompanyCreate
	}{
		{"empty name", CompanyCreate{Name: "   "}},
		{"rating out of range", CompanyCreate{Name: "X", HighProfile: 6}},
		{"negative rating", CompanyCreate{Name: "X", Remuneration: -1}},
		{"unknown work intensity", CompanyCreate{Name: "X", WorkIntensity: "relaxed"}},
		{"unknown company size", CompanyCreate{Name: "X", CompanySize: "mega"}},
		{"founder without name", CompanyCreate{Name: "X", Founders: []FounderPayload{{Title: "CEO"}}}},
		{"bad background type", CompanyCreate{Name: "X", Founders: []FounderPayload{{Name: "A", BackgroundType: "hobby"}}}},
		{"employee without name", CompanyCreate{Name: "X", Employees: []EmployeePayload{{Role: "Engineer"}}}},
		{"relation without company", CompanyCreate{Name: "X", Relations: []RelationPayload{{RelationType: "spinoff"}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.payload.Normalize()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !apperrors.IsValidation(err) {
				t.Errorf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestCompanyUpdateValidate(t *testing.T) {
	good := "intense"
	rating := 4
	payload := CompanyUpdate{WorkIntensity: &good, HighProfile: &rating}
	if err := payload.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	empty := " "
	if err := (&CompanyUpdate{Name: &empty}).Validate(); err == nil {
		t.Error("expected error for blank name")
	}
	bad := "relaxed"
	if err := (&CompanyUpdate{WorkIntensity: &bad}).Validate(); err == nil {
		t.Error("expected error for unknown work intensity")
	}
	six := 6
	if err := (&CompanyUpdate{Remuneration: &six}).Validate(); err == nil {
		t.Error("expected error for rating out of range")
	}
}

func TestTagCreateValidate(t *testing.T) {
	payload := TagCreate{Name: " FinTech ", Category: CategorySecteur}
	if err := payload.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload.Name != "FinTech" {
		t.Errorf("name not trimmed: %q", payload.Name)
	}
	if payload.Color != defaultTagColor {
		t.Errorf("default color not applied: %q", payload.Color)
	}

	if err := (&TagCreate{Name: "", Category: CategorySecteur}).Validate(); err == nil {
		t.Error("expected error for empty name")
	}
	if err := (&TagCreate{Name: "X", Category: "flavor"}).Validate(); err == nil {
		t.Error("expected error for unknown category")
	}

	keepColor := TagCreate{Name: "X", Category: CategoryEducation, Color: "#ff0000"}
	if err := keepColor.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if keepColor.Color != "#ff0000" {
		t.Errorf("explicit color overwritten: %q", keepColor.Color)
	}
}

func TestSplitTagsByCategory(t *testing.T) {
	tags := []Tag{
		{Name: "AI/ML", Category: CategorySecteur},
		{Name: "Data Labeling", Category: CategoryCoreBusiness},
		{Name: "Polytechnique", Category: CategoryEducation},
		{Name: "FinTech", Category: CategorySecteur},
	}

	secteur, core := splitTagsByCategory(tags)
	if len(secteur) != 2 || len(core) != 1 {
		t.Errorf("splitTagsByCategory: got %d secteur, %d core_business", len(secteur), len(core))
	}

	education, professional := splitRoleTags([]Tag{
		{Name: "Polytechnique", Category: CategoryEducation},
		{Name: "BNP Paribas", Category: CategoryProfessional},
		{Name: "AI/ML", Category: CategorySecteur},
	})
	if len(education) != 1 || len(professional) != 1 {
		t.Errorf("splitRoleTags: got %d education, %d professional", len(education), len(professional))
	}
}
