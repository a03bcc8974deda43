// Package monitoring provides alerting capabilities for the trident-rss backend
package monitoring

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// AlertSeverity represents the severity level of an alert
type AlertSeverity string

const (
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// AlertType represents the type of alert
type AlertType string

const (
	AlertTypeUpstreamDown   AlertType = "upstream_down"
	AlertTypeEnrichmentMiss AlertType = "enrichment_miss"
)

// Alert represents a triggered alert
type Alert struct {
	ID          string            `json:"id"`
	Type        AlertType         `json:"type"`
	Severity    AlertSeverity     `json:"severity"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Timestamp   time.Time         `json:"timestamp"`
	Labels      map[string]string `json:"labels"`
	Resolved    bool              `json:"resolved"`
	ResolvedAt  *time.Time        `json:"resolved_at,omitempty"`
}

// Notifier sends alert notifications
type Notifier interface {
	Send(alert *Alert) error
	Name() string
}

// LogNotifier sends alerts to the structured log
type LogNotifier struct {
	logger *logrus.Logger
}

// NewLogNotifier creates a new log notifier
func NewLogNotifier(logger *logrus.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Name() string { return "log" }

func (n *LogNotifier) Send(alert *Alert) error {
	level := logrus.WarnLevel
	if alert.Severity == SeverityCritical {
		level = logrus.ErrorLevel
	}

	n.logger.WithFields(logrus.Fields{
		"alert_id":   alert.ID,
		"alert_type": alert.Type,
		"severity":   alert.Severity,
		"labels":     alert.Labels,
	}).Log(level, fmt.Sprintf("ALERT: %s - %s", alert.Title, alert.Description))

	return nil
}

// AlertManager tracks upstream health and raises alerts when the blog
// listing becomes persistently unreachable.
type AlertManager struct {
	mutex     sync.Mutex
	alerts    map[string]*Alert
	notifiers []Notifier
	logger    *logrus.Logger

	consecutiveFailures int
	failureThreshold    int
}

// NewAlertManager creates a new alert manager
func NewAlertManager(logger *logrus.Logger) *AlertManager {
	return &AlertManager{
		alerts:           make(map[string]*Alert),
		notifiers:        []Notifier{NewLogNotifier(logger)},
		logger:           logger,
		failureThreshold: 3,
	}
}

// AddNotifier adds a new notifier
func (am *AlertManager) AddNotifier(notifier Notifier) {
	am.mutex.Lock()
	defer am.mutex.Unlock()
	am.notifiers = append(am.notifiers, notifier)
}

// RecordUpstreamResult feeds the outcome of one listing fetch into the
// failure tracker. Crossing the consecutive-failure threshold triggers an
// upstream_down alert; the first success after that resolves it.
func (am *AlertManager) RecordUpstreamResult(ok bool) {
	am.mutex.Lock()

	if ok {
		am.consecutiveFailures = 0
		var resolved []*Alert
		for _, alert := range am.alerts {
			if alert.Type == AlertTypeUpstreamDown && !alert.Resolved {
				now := time.Now()
				alert.Resolved = true
				alert.ResolvedAt = &now
				resolved = append(resolved, alert)
			}
		}
		am.mutex.Unlock()

		for _, alert := range resolved {
			am.logger.WithField("alert_id", alert.ID).Info("Alert resolved")
		}
		return
	}

	am.consecutiveFailures++
	trigger := am.consecutiveFailures == am.failureThreshold
	failures := am.consecutiveFailures
	am.mutex.Unlock()

	if trigger {
		am.Trigger(AlertTypeUpstreamDown, SeverityHigh,
			"Blog listing unreachable",
			fmt.Sprintf("%d consecutive listing fetch failures", failures),
			map[string]string{"service": "trident-rss"})
	}
}

// Trigger creates and sends an alert. Repeated triggers of an already-active
// alert type are suppressed.
func (am *AlertManager) Trigger(alertType AlertType, severity AlertSeverity, title, description string, labels map[string]string) {
	alert := &Alert{
		ID:          fmt.Sprintf("%s-%d", alertType, time.Now().Unix()),
		Type:        alertType,
		Severity:    severity,
		Title:       title,
		Description: description,
		Timestamp:   time.Now(),
		Labels:      labels,
	}

	am.mutex.Lock()
	for _, existing := range am.alerts {
		if existing.Type == alertType && !existing.Resolved {
			am.mutex.Unlock()
			return
		}
	}
	am.alerts[alert.ID] = alert
	am.mutex.Unlock()

	for _, notifier := range am.notifiers {
		if err := notifier.Send(alert); err != nil {
			am.logger.WithError(err).WithField("notifier", notifier.Name()).Error("Failed to send alert notification")
		}
	}
}

// ActiveAlerts returns all unresolved alerts
func (am *AlertManager) ActiveAlerts() []*Alert {
	am.mutex.Lock()
	defer am.mutex.Unlock()

	var active []*Alert
	for _, alert := range am.alerts {
		if !alert.Resolved {
			active = append(active, alert)
		}
	}
	return active
}
