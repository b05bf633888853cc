package notifier

import (
	"context"

	"github.com/charmbracelet/log"
)

// Notifier sends operational alerts to the people running the service.
// This decouples the rest of the application from the specific notification provider (e.g., Slack).
type Notifier interface {
	SendOpsAlert(ctx context.Context, alert Alert, dryRun bool) error
}

// Alert is a short operational message, e.g. a failed reminder run.
type Alert struct {
	Title  string
	Detail string
	// Fields are rendered as label/value pairs in the order given.
	Fields []Field
}

type Field struct {
	Label string
	Value string
}

// logNotifier is used when no alert channel is configured.
type logNotifier struct{}

// NewLogNotifier returns a Notifier that only logs alerts.
func NewLogNotifier() Notifier {
	return logNotifier{}
}

func (logNotifier) SendOpsAlert(ctx context.Context, alert Alert, dryRun bool) error {
	kv := []any{"detail", alert.Detail, "dryRun", dryRun}
	for _, f := range alert.Fields {
		kv = append(kv, f.Label, f.Value)
	}
	log.Warn("Ops alert: "+alert.Title, kv...)
	return nil
}
