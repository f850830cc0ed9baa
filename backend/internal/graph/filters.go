package graph

import (
	"fmt"
	"strings"

	apperrors "github.com/ewenmichel/wdiw/backend/pkg/errors"
)

// ============================================================================
// Filter Engine
// ============================================================================

// The two ordinal scales, in ascending order. Comparisons are by index in
// these arrays, never by string order.
var (
	WorkIntensityOrder = []string{"chill", "balanced", "intense", "bourrin"}
	CompanySizeOrder   = []string{"early", "startup", "scaleup", "corp"}
)

// Comparison operators accepted by filters
const (
	CmpLTE = "lte"
	CmpGTE = "gte"
	CmpEQ  = "eq"
)

// FilterParams is the company filter payload. All dimensions combine with
// AND; an absent dimension applies no constraint.
type FilterParams struct {
	Tags               []string `json:"tags,omitempty"`
	WorkIntensityValue string   `json:"work_intensity_value,omitempty"`
	WorkIntensityCmp   string   `json:"work_intensity_cmp,omitempty"`
	CompanySizeValue   string   `json:"company_size_value,omitempty"`
	CompanySizeCmp     string   `json:"company_size_cmp,omitempty"`
	HighProfileValue   *int     `json:"high_profile_value,omitempty"`
	HighProfileCmp     string   `json:"high_profile_cmp,omitempty"`
	RemunerationValue  *int     `json:"remuneration_value,omitempty"`
	RemunerationCmp    string   `json:"remuneration_cmp,omitempty"`
}

func ordinalIndex(order []string, value string) int {
	for i, v := range order {
		if v == value {
			return i
		}
	}
	return -1
}

// allowedOrdinalValues resolves an ordinal filter into the set of scale
// values it admits. cmp defaults to eq; lte and gte slice the scale at the
// index of value.
func allowedOrdinalValues(field string, order []string, value, cmp string) ([]string, error) {
	idx := ordinalIndex(order, value)
	if idx < 0 {
		return nil, apperrors.NewValidation(field, fmt.Sprintf("unknown value %q", value))
	}
	switch cmp {
	case CmpLTE:
		return append([]string{}, order[:idx+1]...), nil
	case CmpGTE:
		return append([]string{}, order[idx:]...), nil
	default:
		return []string{value}, nil
	}
}

// numericOperator maps a numeric cmp onto a Cypher operator. Ratings default
// to gte ("at least this good").
func numericOperator(cmp string) string {
	switch cmp {
	case CmpLTE:
		return "<="
	case CmpEQ:
		return "="
	default:
		return ">="
	}
}

// buildFilterQuery assembles the filter read query and its parameters.
// Kept separate from the session plumbing so the query construction is
// testable on its own.
func buildFilterQuery(params FilterParams) (string, map[string]interface{}, error) {
	cypher := []string{"MATCH (c:Company)"}
	args := map[string]interface{}{}

	if len(params.Tags) > 0 {
		cypher = append(cypher,
			"WITH c MATCH (c)-[:HAS_TAG]->(t:Tag) WHERE t.name IN $tags WITH c, collect(DISTINCT t.name) AS tn",
			"WHERE ALL(x IN $tags WHERE x IN tn)",
		)
		args["tags"] = params.Tags
	}

	if params.WorkIntensityValue != "" {
		allowed, err := allowedOrdinalValues("work_intensity_value", WorkIntensityOrder, params.WorkIntensityValue, params.WorkIntensityCmp)
		if err != nil {
			return "", nil, err
		}
		cypher = append(cypher, "WITH c WHERE c.work_intensity IN $wiAllowed")
		args["wiAllowed"] = allowed
	}

	if params.CompanySizeValue != "" {
		allowed, err := allowedOrdinalValues("company_size_value", CompanySizeOrder, params.CompanySizeValue, params.CompanySizeCmp)
		if err != nil {
			return "", nil, err
		}
		cypher = append(cypher, "WITH c WHERE c.company_size IN $csAllowed")
		args["csAllowed"] = allowed
	}

	if params.HighProfileValue != nil {
		cypher = append(cypher, fmt.Sprintf("WITH c WHERE c.high_profile %s $hp", numericOperator(params.HighProfileCmp)))
		args["hp"] = *params.HighProfileValue
	}

	if params.RemunerationValue != nil {
		cypher = append(cypher, fmt.Sprintf("WITH c WHERE c.remuneration %s $rm", numericOperator(params.RemunerationCmp)))
		args["rm"] = *params.RemunerationValue
	}

	cypher = append(cypher,
		"OPTIONAL MATCH (c)-[:HAS_TAG]->(t:Tag)",
		"WITH c, collect(t {.id, .name, .category, .color, .usage_count}) AS tags",
		"RETURN c {.*} AS c, tags ORDER BY c.name",
	)

	return strings.Join(cypher, "\n"), args, nil
}
