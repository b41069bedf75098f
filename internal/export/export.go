// Package export pushes dashboard snapshots to an external sink as signed
// JSON.
package export

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/AngelCh415/leadpane/internal/crm"
	"github.com/AngelCh415/leadpane/internal/observability"
	"github.com/AngelCh415/leadpane/internal/utils"
)

const SignatureHeader = "X-Signature"

var ErrNotConfigured = errors.New("sink not configured")

// Payload is the body posted to the sink.
type Payload struct {
	TakenAt    time.Time     `json:"taken_at"`
	Leads      int           `json:"leads"`
	Activities int           `json:"activities"`
	Dashboard  crm.Dashboard `json:"dashboard"`
}

type Exporter struct {
	c       HTTPClient
	url     string
	secret  string
	backoff utils.Backoff
	log     *zap.Logger
}

func NewExporter(c HTTPClient, url, secret string, backoff utils.Backoff, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{c: c, url: url, secret: secret, backoff: backoff, log: log}
}

func (e *Exporter) Enabled() bool { return e.url != "" && e.secret != "" }

// Sign returns the hex HMAC-SHA256 of body under secret.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// Push posts snap to the sink, retrying with backoff.
func (e *Exporter) Push(ctx context.Context, snap crm.Snapshot) error {
	if !e.Enabled() {
		return ErrNotConfigured
	}
	b, err := json.Marshal(Payload{
		TakenAt:    snap.TakenAt,
		Leads:      len(snap.Leads),
		Activities: len(snap.Activities),
		Dashboard:  snap.Dashboard,
	})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	sig := Sign(b, e.secret)

	err = e.backoff.Do(ctx, func(i int) error {
		if i > 0 {
			e.log.Warn("retrying snapshot export", zap.Int("attempt", i+1))
		}
		return e.post(ctx, b, sig)
	})
	observability.RecordExport(err == nil)
	if err != nil {
		return fmt.Errorf("failed to export snapshot: %w", err)
	}
	e.log.Info("snapshot exported", zap.Int("leads", len(snap.Leads)))
	return nil
}

func (e *Exporter) post(ctx context.Context, body []byte, sig string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, sig)
	resp, err := e.c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("non-2xx: %d body=%s", resp.StatusCode, string(msg))
	}
	return nil
}
