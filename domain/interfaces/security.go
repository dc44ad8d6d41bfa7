package interfaces

import (
	"context"

	"request_verifier/domain/entities"
)

// RiskLevel grades how much an action can change application state
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ActionGuard decides which plan steps are allowed to run
type ActionGuard interface {
	// IsDestructiveAction checks if an action could persist or delete data
	IsDestructiveAction(ctx context.Context, action entities.Action) bool

	// GetActionRiskLevel returns the risk level of an action
	GetActionRiskLevel(ctx context.Context, action entities.Action) RiskLevel

	// CheckPlan rejects plans containing destructive actions
	CheckPlan(ctx context.Context, plan []entities.Action) error
}
