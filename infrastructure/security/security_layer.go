package security

import (
	"context"
	"fmt"
	"strings"

	"request_verifier/domain/entities"
	"request_verifier/domain/interfaces"

	"github.com/sirupsen/logrus"
)

// Clicks mentioning these persist or destroy application state.
var destructiveKeywords = []string{
	"submit", "send",
	"delete", "remove", "trash",
	"reset", "clear",
	"checkout", "purchase",
}

type SecurityLayer struct {
	logger *logrus.Logger
}

func NewSecurityLayer(logger *logrus.Logger) *SecurityLayer {
	return &SecurityLayer{
		logger: logger,
	}
}

func (s *SecurityLayer) IsDestructiveAction(ctx context.Context, action entities.Action) bool {
	if action.Type != entities.ActionClick && action.Type != entities.ActionSelect {
		return false
	}

	if isSubmitControl(action.Target) || isSubmitControl(action.Option) {
		return true
	}

	haystacks := []string{
		strings.ToLower(action.Target.String()),
		strings.ToLower(action.Option.String()),
		strings.ToLower(action.Description),
	}
	for _, keyword := range destructiveKeywords {
		for _, h := range haystacks {
			if strings.Contains(h, keyword) {
				return true
			}
		}
	}

	return false
}

// isSubmitControl - matches type=submit in any quoting style
func isSubmitControl(target entities.Target) bool {
	css := strings.ToLower(strings.NewReplacer(" ", "", "'", "", `"`, "").Replace(target.CSS))
	return strings.Contains(css, "type=submit")
}

func (s *SecurityLayer) GetActionRiskLevel(ctx context.Context, action entities.Action) interfaces.RiskLevel {
	if s.IsDestructiveAction(ctx, action) {
		return interfaces.RiskHigh
	}

	switch action.Type {
	case entities.ActionFill, entities.ActionClick, entities.ActionSelect:
		// Changes client-side form state only
		return interfaces.RiskMedium
	default:
		return interfaces.RiskLow
	}
}

// CheckPlan - rejects the plan if any step could change server state
func (s *SecurityLayer) CheckPlan(ctx context.Context, plan []entities.Action) error {
	for i, action := range plan {
		level := s.GetActionRiskLevel(ctx, action)
		s.logger.WithFields(logrus.Fields{
			"step":   i + 1,
			"action": action.Type,
			"risk":   level,
		}).Debug("Plan step classified")

		if level == interfaces.RiskHigh {
			return fmt.Errorf("step %d (%s %s) is destructive; verification runs must not submit or delete data", i+1, action.Type, action.Target)
		}
	}
	return nil
}

// Ensure SecurityLayer implements ActionGuard interface
var _ interfaces.ActionGuard = (*SecurityLayer)(nil)
