package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/nydiokar/analyzer-sub009/internal/config"
	"github.com/nydiokar/analyzer-sub009/internal/models"
)

var defaultMetricAllowList = []string{"failure", "error", "timeout", "dead_letter", "alert"}

const defaultMetricLogThreshold = 1000

type alertingService struct {
	metrics      MetricsRecorderInterface
	allowList    []string
	logThreshold float64
	clock        Clock
	sinks        []AlertSink
	logger       *slog.Logger
}

// NewAlertingService builds the alert and metric sink. Metrics always reach
// the recorder; only noteworthy ones are also logged.
func NewAlertingService(cfg config.AlertingConfig, metrics MetricsRecorderInterface, logger *slog.Logger, sinks ...AlertSink) AlertingServiceInterface {
	if logger == nil {
		logger = slog.Default()
	}

	allowList := cfg.MetricAllowList
	if len(allowList) == 0 {
		allowList = defaultMetricAllowList
	}
	threshold := cfg.MetricLogThreshold
	if threshold <= 0 {
		threshold = defaultMetricLogThreshold
	}

	return &alertingService{
		metrics:      metrics,
		allowList:    allowList,
		logThreshold: threshold,
		clock:        SystemClock{},
		logger:       logger,
		sinks:        sinks,
	}
}

func (s *alertingService) SendAlert(ctx context.Context, alert models.Alert) {
	if alert.Timestamp.IsZero() {
		alert.Timestamp = s.clock.Now()
	}

	level := severityLevel(alert.Severity)
	attrs := []any{
		slog.String("event_type", "alert"),
		slog.String("severity", string(alert.Severity)),
		slog.String("title", alert.Title),
		slog.String("timestamp", alert.Timestamp.UTC().Format(time.RFC3339)),
	}
	if len(alert.Context) > 0 {
		attrs = append(attrs, slog.Any("context", alert.Context))
	}
	s.logger.Log(ctx, level, alert.Message, attrs...)

	if s.metrics != nil {
		s.metrics.IncrementCounter("alert.sent", map[string]string{"severity": string(alert.Severity)})
	}

	for _, sink := range s.sinks {
		if err := sink.Send(ctx, alert); err != nil {
			s.logger.Warn("alert sink failed",
				slog.String("event_type", "alert_sink_error"),
				slog.String("sink", sink.Name()),
				slog.String("title", alert.Title),
				slog.String("error", err.Error()),
			)
		}
	}
}

func severityLevel(severity models.AlertSeverity) slog.Level {
	switch severity {
	case models.AlertSeverityCritical, models.AlertSeverityHigh:
		return slog.LevelError
	case models.AlertSeverityMedium:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func (s *alertingService) EmitMetric(name string, value float64, tags map[string]string) {
	if s.metrics != nil {
		s.metrics.RecordGauge(name, value, tags)
	}
	s.logMetric("metric", name, value, tags)
}

func (s *alertingService) IncrementCounter(name string, tags map[string]string) {
	if s.metrics != nil {
		s.metrics.IncrementCounter(name, tags)
	}
	s.logMetric("counter", name, 1, tags)
}

func (s *alertingService) SetGauge(name string, value float64, tags map[string]string) {
	if s.metrics != nil {
		s.metrics.RecordGauge(name, value, tags)
	}
	s.logMetric("gauge", name, value, tags)
}

func (s *alertingService) RecordTiming(name string, duration time.Duration, tags map[string]string) {
	if s.metrics != nil {
		s.metrics.RecordProcessingTime(name, duration)
	}
	s.logMetric("timing", name, float64(duration.Milliseconds()), tags)
}

// shouldLog keeps routine metrics out of the logs.
func (s *alertingService) shouldLog(name string, value float64) bool {
	lower := strings.ToLower(name)
	for _, fragment := range s.allowList {
		if strings.Contains(lower, fragment) {
			return true
		}
	}
	return math.Abs(value) > s.logThreshold
}

func (s *alertingService) logMetric(kind, name string, value float64, tags map[string]string) {
	if !s.shouldLog(name, value) {
		return
	}

	attrs := []any{
		slog.String("event_type", "metric"),
		slog.String("kind", kind),
		slog.String("name", name),
		slog.Float64("value", value),
	}
	if len(tags) > 0 {
		keys := make([]string, 0, len(tags))
		for k := range tags {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		group := make([]any, 0, len(keys))
		for _, k := range keys {
			group = append(group, slog.String(k, tags[k]))
		}
		attrs = append(attrs, slog.Group("tags", group...))
	}

	s.logger.Info("metric recorded", attrs...)
}

// WebhookSink posts each alert as JSON to an HTTP endpoint.
type WebhookSink struct {
	url    string
	client *http.Client
}

func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookSink{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (w *WebhookSink) Name() string {
	return "webhook"
}

type webhookPayload struct {
	Severity  models.AlertSeverity   `json:"severity"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Context   map[string]interface{} `json:"context,omitempty"`
	Timestamp string                 `json:"timestamp"`
}

func (w *WebhookSink) Send(ctx context.Context, alert models.Alert) error {
	body, err := json.Marshal(webhookPayload{
		Severity:  alert.Severity,
		Title:     alert.Title,
		Message:   alert.Message,
		Context:   alert.Context,
		Timestamp: alert.Timestamp.UTC().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to encode alert: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post alert: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded with status %d", resp.StatusCode)
	}

	return nil
}
