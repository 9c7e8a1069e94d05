package classify

import (
	"fmt"
	"strings"

	"github.com/avillarreal/equilibrio/internal/domain"
)

// SemanticScorer matches the lower-cased account name against curated
// keyword lists per role. The keyword lists follow the Spanish naming
// conventions of the source charts of accounts.
type SemanticScorer struct {
	keywords map[domain.Role][]string
}

// NewSemanticScorer builds the scorer with the default keyword lists.
func NewSemanticScorer() *SemanticScorer {
	return &SemanticScorer{
		keywords: map[domain.Role][]string{
			domain.RoleVariableCost: {
				"materia prima", "materiales", "insumos", "mercader",
				"flete", "comision", "comisión", "empaque", "embalaje",
				"mano de obra directa", "combustible",
			},
			domain.RoleFixedCost: {
				"depreciacion", "depreciación", "amortizacion", "amortización",
				"alquiler", "arriendo", "renta", "sueldos", "salarios",
				"seguro", "interes", "interés", "honorarios", "vigilancia",
				"licencia", "suscripcion", "suscripción",
			},
			domain.RoleRevenue: {
				"venta", "ingreso", "servicio prestado", "descuento",
				"devolucion", "devolución", "rebaja",
			},
			domain.RoleMixed: {
				"energia", "energía", "electricidad", "agua", "telefono",
				"teléfono", "internet", "mantenimiento", "reparacion",
				"reparación", "transporte",
			},
		},
	}
}

func (s *SemanticScorer) Name() string { return "semantic" }

// Score counts keyword hits per role; score = min(0.9, 0.4 + 0.3 ×
// hits) for roles with at least one hit.
func (s *SemanticScorer) Score(acct *domain.Account, _ *domain.Dataset) []RoleScore {
	name := strings.ToLower(acct.Name)
	var votes []RoleScore
	for _, role := range domain.AllRoles {
		matches := 0
		var matched []string
		for _, kw := range s.keywords[role] {
			if strings.Contains(name, kw) {
				matches++
				matched = append(matched, kw)
			}
		}
		if matches == 0 {
			continue
		}
		score := 0.4 + 0.3*float64(matches)
		if score > 0.9 {
			score = 0.9
		}
		votes = append(votes, RoleScore{
			Role:   role,
			Score:  score,
			Reason: fmt.Sprintf("name matches %s keywords: %s", role, strings.Join(matched, ", ")),
		})
	}
	return votes
}
