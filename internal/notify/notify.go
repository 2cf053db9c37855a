// Package notify emits typed events for the notification delivery service.
// Emission is fire-and-forget: failures are logged and never propagate into
// the flow that produced the event.
package notify

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/chi157/Exchange-Platform-sub000/internal/model"
	"github.com/chi157/Exchange-Platform-sub000/internal/repository"
)

type Kind string

const (
	KindProposalReceived Kind = "PROPOSAL_RECEIVED"
	KindProposalAccepted Kind = "PROPOSAL_ACCEPTED"
	KindProposalRejected Kind = "PROPOSAL_REJECTED"
	KindSwapCompleted    Kind = "SWAP_COMPLETED"
	KindShipmentSent     Kind = "SHIPMENT_SENT"
)

type Event struct {
	Kind         Kind
	RecipientUID string
	EntityType   string
	EntityID     uint64
	Params       map[string]string
}

// Notifier is the emission side; delivery, templating and retry belong to
// the consumer of the outbox.
type Notifier interface {
	Emit(ctx context.Context, ev Event)
}

type outboxNotifier struct {
	repo repository.NotificationRepository
}

func NewOutboxNotifier(repo repository.NotificationRepository) Notifier {
	return &outboxNotifier{repo: repo}
}

func (n *outboxNotifier) Emit(ctx context.Context, ev Event) {
	if ev.RecipientUID == "" || ev.Kind == "" {
		return
	}

	params := ""
	if len(ev.Params) > 0 {
		b, err := json.Marshal(ev.Params)
		if err != nil {
			log.Printf("notify: drop params for %s: %v", ev.Kind, err)
		} else {
			params = string(b)
		}
	}

	// Detach from the caller's context so an already-committed core
	// transaction never waits on, or gets cancelled with, the emission.
	emitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
	defer cancel()

	row := &model.NotificationEvent{
		Kind:         string(ev.Kind),
		RecipientUID: ev.RecipientUID,
		EntityType:   ev.EntityType,
		EntityID:     ev.EntityID,
		Params:       params,
	}
	if err := n.repo.Create(emitCtx, row); err != nil {
		log.Printf("notify: emit %s to %s failed: %v", ev.Kind, ev.RecipientUID, err)
	}
}
