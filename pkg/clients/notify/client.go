// Package notify delivers program events to an external webhook, typically a
// messaging bridge watched by the program coordinator.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/sidomulyo-dev/gaduh/internal/config"
	"github.com/sidomulyo-dev/gaduh/internal/domain/models"
)

// Notifier publishes lifecycle events for a farmer.
type Notifier interface {
	NotifyCycleComplete(ctx context.Context, p *models.Peternak) error
}

// WebhookNotifier is a resty-backed Notifier posting JSON events.
type WebhookNotifier struct {
	httpClient *resty.Client
	url        string
}

// NewWebhookNotifier builds a notifier for the configured webhook URL.
func NewWebhookNotifier(cfg config.NotifyConfig) *WebhookNotifier {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	return &WebhookNotifier{
		httpClient: restyClient,
		url:        cfg.WebhookURL,
	}
}

type cycleCompleteEvent struct {
	Event          string `json:"event"`
	NIK            string `json:"nik"`
	NamaLengkap    string `json:"nama_lengkap"`
	TanggalSelesai string `json:"tanggal_selesai"`
}

// NotifyCycleComplete posts a cycle_complete event for the farmer.
func (n *WebhookNotifier) NotifyCycleComplete(ctx context.Context, p *models.Peternak) error {
	event := cycleCompleteEvent{
		Event:       "cycle_complete",
		NIK:         p.NIK,
		NamaLengkap: p.NamaLengkap,
	}
	if p.TanggalSelesai != nil {
		event.TanggalSelesai = p.TanggalSelesai.Format("2006-01-02")
	}

	resp, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(event).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("post cycle_complete event: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}
	return nil
}

// Nop is a Notifier that does nothing, used when no webhook is configured.
type Nop struct{}

// NotifyCycleComplete implements Notifier.
func (Nop) NotifyCycleComplete(context.Context, *models.Peternak) error { return nil }
