package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"unveil_server/models"

	"go.uber.org/zap"
)

// PushSender delivers one notification to the external push sink.
type PushSender interface {
	Send(ctx context.Context, userID string, typ models.NotificationType, payload map[string]string) error
}

// HTTPPushSender posts notifications to the configured push gateway.
type HTTPPushSender struct {
	URL    string
	Client *http.Client
}

func NewHTTPPushSender(url string) *HTTPPushSender {
	return &HTTPPushSender{
		URL:    url,
		Client: &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *HTTPPushSender) Send(ctx context.Context, userID string, typ models.NotificationType, payload map[string]string) error {
	body, err := json.Marshal(map[string]interface{}{
		"userId":  userID,
		"type":    typ,
		"payload": payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("push gateway call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
	}
	return nil
}

// NotificationService translates domain events into push calls. It is
// an adapter only: delivery failures are logged and swallowed, never
// propagated to the domain operation that produced the event.
type NotificationService struct {
	Sender PushSender
	Log    *zap.SugaredLogger
}

func NewNotificationService(sender PushSender, log *zap.SugaredLogger) *NotificationService {
	return &NotificationService{Sender: sender, Log: log}
}

// Consume implements EventSink. Dispatch runs detached from the calling
// operation so a slow gateway cannot hold the match lock.
func (n *NotificationService) Consume(ctx context.Context, evt models.DomainEvent) {
	if n.Sender == nil {
		return
	}
	typ, payload := n.translate(evt)
	if typ == "" {
		return
	}

	detached, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	go func() {
		defer cancel()
		for _, userID := range evt.Recipients {
			if err := n.Sender.Send(detached, userID, typ, payload); err != nil {
				n.Log.Warnw("push dispatch failed", "type", typ, "matchId", evt.MatchID, "error", err)
			}
		}
	}()
}

// translate maps a domain event to the gateway's notification enum with
// the minimal routing payload. Events with no push equivalent map to "".
func (n *NotificationService) translate(evt models.DomainEvent) (models.NotificationType, map[string]string) {
	payload := map[string]string{"matchId": evt.MatchID}

	switch evt.Type {
	case models.EventMatchCreated:
		return models.NotifyNewMatch, payload
	case models.EventMessageAppended:
		if evt.Message != nil {
			payload["ordinal"] = strconv.FormatInt(evt.Message.Ordinal, 10)
		}
		return models.NotifyNewMessage, payload
	case models.EventMessageSeen:
		payload["readUpto"] = strconv.FormatInt(evt.ReadUpto, 10)
		return models.NotifyMessageSeen, payload
	case models.EventUnlocked:
		return models.NotifyPhotoUnlocked, payload
	case models.EventDateFormed:
		payload["kind"] = "date_formed"
		return models.NotifyAnnouncement, payload
	case models.EventStreakMilestone:
		payload["days"] = strconv.Itoa(evt.StreakDays)
		return models.NotifyStreakMilestone, payload
	default:
		// Unlock requests and archives are socket-only; the gateway has
		// no notification type for them.
		return "", nil
	}
}
