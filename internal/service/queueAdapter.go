package service

import (
	"context"
	"time"

	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const publishTimeout = 5 * time.Second

// ActivityPublisher ships workflow activity out of the process.
type ActivityPublisher interface {
	Publish(ctx context.Context, activity entity.Activity) error
}

// activityNotifier stamps activity records and publishes them. Failures are
// logged only: a successful write is never reported as failed because of a
// notification.
type activityNotifier struct {
	publisher ActivityPublisher
	now       func() time.Time
}

func newActivityNotifier(p ActivityPublisher, now func() time.Time) *activityNotifier {
	return &activityNotifier{publisher: p, now: now}
}

func (n *activityNotifier) notify(ctx context.Context, typ entity.ActivityType, eventID, personID, actorID entity.ID) {
	if n.publisher == nil {
		return // Если брокер не настроен, ничего не отправляем
	}

	activity := entity.Activity{
		ID:       uuid.NewString(),
		Type:     typ,
		EventID:  eventID,
		PersonID: personID,
		ActorID:  actorID,
		At:       n.now().UTC(),
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := n.publisher.Publish(pubCtx, activity); err != nil {
		logrus.WithFields(logrus.Fields{
			"activity": activity.Type,
			"event_id": activity.EventID,
			"error":    err,
		}).Warn("Failed to publish activity")
	}
}
