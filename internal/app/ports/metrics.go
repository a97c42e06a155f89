package ports

type ActionKind string

const (
	ActionLogin   ActionKind = "login"
	ActionScan    ActionKind = "scan"
	ActionAttack  ActionKind = "attack"
	ActionRepair  ActionKind = "repair"
	ActionDeposit ActionKind = "deposit"
	ActionLogout  ActionKind = "logout"
)

type ActionMetrics interface {
	RecordSuccess(kind ActionKind)
	RecordFailure(kind ActionKind)
}
