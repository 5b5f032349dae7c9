package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"unveil_server/models"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNotificationTranslate(t *testing.T) {
	n := NewNotificationService(nil, zap.NewNop().Sugar())

	typ, payload := n.translate(models.DomainEvent{Type: models.EventMatchCreated, MatchID: "m1"})
	require.Equal(t, models.NotifyNewMatch, typ)
	require.Equal(t, "m1", payload["matchId"])

	typ, payload = n.translate(models.DomainEvent{
		Type:    models.EventMessageAppended,
		MatchID: "m1",
		Message: &models.Message{Ordinal: 42},
	})
	require.Equal(t, models.NotifyNewMessage, typ)
	require.Equal(t, "42", payload["ordinal"])

	typ, payload = n.translate(models.DomainEvent{Type: models.EventMessageSeen, MatchID: "m1", ReadUpto: 7})
	require.Equal(t, models.NotifyMessageSeen, typ)
	require.Equal(t, "7", payload["readUpto"])

	typ, _ = n.translate(models.DomainEvent{Type: models.EventUnlocked, MatchID: "m1"})
	require.Equal(t, models.NotifyPhotoUnlocked, typ)

	typ, payload = n.translate(models.DomainEvent{Type: models.EventDateFormed, MatchID: "m1"})
	require.Equal(t, models.NotifyAnnouncement, typ)
	require.Equal(t, "date_formed", payload["kind"])

	typ, payload = n.translate(models.DomainEvent{Type: models.EventStreakMilestone, MatchID: "m1", StreakDays: 7})
	require.Equal(t, models.NotifyStreakMilestone, typ)
	require.Equal(t, "7", payload["days"])

	// Socket-only events produce no push.
	typ, _ = n.translate(models.DomainEvent{Type: models.EventUnlockRequested, MatchID: "m1"})
	require.Empty(t, typ)
	typ, _ = n.translate(models.DomainEvent{Type: models.EventMatchArchived, MatchID: "m1"})
	require.Empty(t, typ)
}

func TestNotificationConsumePostsPerRecipient(t *testing.T) {
	received := make(chan map[string]interface{}, 4)
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(body, &decoded))
		received <- decoded
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()

	n := NewNotificationService(NewHTTPPushSender(gateway.URL), zap.NewNop().Sugar())
	n.Consume(context.Background(), models.DomainEvent{
		Type:       models.EventUnlocked,
		MatchID:    "m1",
		Recipients: []string{"alice", "bob"},
	})

	users := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case got := <-received:
			require.Equal(t, string(models.NotifyPhotoUnlocked), got["type"])
			users[got["userId"].(string)] = true
		case <-time.After(2 * time.Second):
			t.Fatal("push gateway never called")
		}
	}
	require.True(t, users["alice"])
	require.True(t, users["bob"])
}

func TestNotificationConsumeSwallowsGatewayFailure(t *testing.T) {
	called := make(chan struct{}, 1)
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		called <- struct{}{}
	}))
	defer gateway.Close()

	n := NewNotificationService(NewHTTPPushSender(gateway.URL), zap.NewNop().Sugar())

	// Must not panic or propagate; the caller already committed.
	n.Consume(context.Background(), models.DomainEvent{
		Type:       models.EventMatchCreated,
		MatchID:    "m1",
		Recipients: []string{"alice"},
	})

	select {
	case <-called:
	case <-time.After(2 * time.Second):
		t.Fatal("push gateway never called")
	}
}

func TestNotificationConsumeWithoutSender(t *testing.T) {
	n := NewNotificationService(nil, zap.NewNop().Sugar())
	n.Consume(context.Background(), models.DomainEvent{
		Type:       models.EventMatchCreated,
		MatchID:    "m1",
		Recipients: []string{"alice"},
	})
}
