// File: /services/notifier.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"fleettrack-api/config"
	"fleettrack-api/models"
)

// EmailNotifier mails geofence events to the configured admin recipients.
// Failures are reported to the caller, which logs and moves on; an email
// outage must never block fence evaluation.
type EmailNotifier struct {
	config *config.Config
	dialer *gomail.Dialer
}

func NewEmailNotifier(cfg *config.Config) *EmailNotifier {
	return &EmailNotifier{
		config: cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
	}
}

func (n *EmailNotifier) Notify(event models.GeofenceEvent) error {
	if len(n.config.AdminEmails) == 0 {
		return nil
	}

	fenceName := event.Fence.Name
	if fenceName == "" {
		fenceName = string(event.Fence.Type)
	}

	subject := fmt.Sprintf("[Geofence] %s — %s", capitalize(string(event.EventType)), event.Plate)

	lines := []string{
		fmt.Sprintf("Event: %s", event.EventType),
		fmt.Sprintf("Truck: %s", event.Plate),
		fmt.Sprintf("Fence: %s (type=%s)", fenceName, event.Fence.Type),
		fmt.Sprintf("Time: %s", event.Timestamp.Format("2006-01-02 15:04:05 MST")),
	}
	if event.Position != nil {
		lines = append(lines, fmt.Sprintf("Position: (%v, %v)", event.Position.Lat, event.Position.Lng))
	}
	switch event.Fence.Type {
	case models.FenceCircle:
		if event.Fence.Center != nil {
			lines = append(lines, fmt.Sprintf("Circle center: (%v, %v), radius: %v m",
				event.Fence.Center.Lat, event.Fence.Center.Lng, event.Fence.Radius))
		}
	case models.FenceRect:
		if event.Fence.SW != nil && event.Fence.NE != nil {
			lines = append(lines, fmt.Sprintf("Rectangle SW: (%v, %v), NE: (%v, %v)",
				event.Fence.SW.Lat, event.Fence.SW.Lng, event.Fence.NE.Lat, event.Fence.NE.Lng))
		}
	case models.FencePolygon:
		lines = append(lines, fmt.Sprintf("Polygon vertices: %d", len(event.Fence.Points)))
	}

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(n.config.FromEmail, n.config.FromName))
	m.SetHeader("To", n.config.AdminEmails...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", strings.Join(lines, "\n"))

	return n.dialer.DialAndSend(m)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// WebhookNotifier POSTs geofence events as JSON to an external endpoint
type WebhookNotifier struct {
	url    string
	client *http.Client
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (n *WebhookNotifier) Notify(event models.GeofenceEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	resp, err := n.client.Post(n.url, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}

// MultiNotifier fans an event out to several sinks. Every sink gets a
// chance; the first error is returned after all have run.
type MultiNotifier []EventNotifier

func (m MultiNotifier) Notify(event models.GeofenceEvent) error {
	var firstErr error
	for _, n := range m {
		if err := n.Notify(event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
