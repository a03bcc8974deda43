package monitoring

import (
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureNotifier struct {
	mu     sync.Mutex
	alerts []*Alert
}

func (n *captureNotifier) Name() string { return "capture" }

func (n *captureNotifier) Send(alert *Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, alert)
	return nil
}

func newTestAlertManager() (*AlertManager, *captureNotifier) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	am := NewAlertManager(logger)
	capture := &captureNotifier{}
	am.AddNotifier(capture)
	return am, capture
}

func TestUpstreamFailureThresholdTriggersAlert(t *testing.T) {
	am, capture := newTestAlertManager()

	am.RecordUpstreamResult(false)
	am.RecordUpstreamResult(false)
	assert.Empty(t, capture.alerts)

	am.RecordUpstreamResult(false)
	require.Len(t, capture.alerts, 1)
	assert.Equal(t, AlertTypeUpstreamDown, capture.alerts[0].Type)
	assert.Len(t, am.ActiveAlerts(), 1)
}

func TestUpstreamSuccessResetsFailureCount(t *testing.T) {
	am, capture := newTestAlertManager()

	am.RecordUpstreamResult(false)
	am.RecordUpstreamResult(false)
	am.RecordUpstreamResult(true)
	am.RecordUpstreamResult(false)
	am.RecordUpstreamResult(false)

	assert.Empty(t, capture.alerts)
}

func TestUpstreamSuccessResolvesActiveAlert(t *testing.T) {
	am, _ := newTestAlertManager()

	for i := 0; i < 3; i++ {
		am.RecordUpstreamResult(false)
	}
	require.Len(t, am.ActiveAlerts(), 1)

	am.RecordUpstreamResult(true)
	assert.Empty(t, am.ActiveAlerts())
}

func TestTriggerSuppressesDuplicateActiveAlerts(t *testing.T) {
	am, capture := newTestAlertManager()

	am.Trigger(AlertTypeEnrichmentMiss, SeverityMedium, "Enrichment degraded", "most items missing dates", nil)
	am.Trigger(AlertTypeEnrichmentMiss, SeverityMedium, "Enrichment degraded", "most items missing dates", nil)

	assert.Len(t, capture.alerts, 1)
	assert.Len(t, am.ActiveAlerts(), 1)
}
