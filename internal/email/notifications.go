package email

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"tubesearch/internal/config"
)

// sender is the slice of Service the notifier needs.
type sender interface {
	IsEnabled() bool
	SendAsync(to []string, subject, body string)
}

// Notifier sends alert mail about run failures. It satisfies the runner's
// Alerter interface.
type Notifier struct {
	service sender
	cfg     *config.Config
}

// NewNotifier creates a new alert notifier.
func NewNotifier(cfg *config.Config) *Notifier {
	return &Notifier{
		service: NewService(cfg),
		cfg:     cfg,
	}
}

// RunFailed alerts the operator that a run failed fatally. Per-keyword
// search errors do not alert; only auth and write failures reach here.
func (n *Notifier) RunFailed(runID uuid.UUID, err error) {
	if !n.service.IsEnabled() {
		return
	}

	subject := fmt.Sprintf("tubesearch: run %s failed", runID)
	body := fmt.Sprintf(
		"A search run failed fatally and no results were stored.\r\n\r\n"+
			"Run ID: %s\r\nTime:   %s\r\nError:  %v\r\n",
		runID, time.Now().Format(time.RFC3339), err,
	)

	n.service.SendAsync([]string{n.cfg.AlertEmail}, subject, body)
}
