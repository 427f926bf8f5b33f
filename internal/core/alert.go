package core

const (
	SeverityWarning AlertSeverity = "warning"
	SeverityInfo    AlertSeverity = "info"
	SeveritySuccess AlertSeverity = "success"
)

type (
	AlertSeverity string

	// Alert is one advisory produced by the alert engine. Overage is set only
	// for threshold breaches; Action is an optional suggested next step.
	Alert struct {
		Severity AlertSeverity `json:"severity"`
		Message  string        `json:"message"`
		Overage  *Money        `json:"overage,omitempty"`
		Action   string        `json:"action,omitempty"`
	}
)
