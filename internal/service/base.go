package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ds124wfegd/eventhive/config"
	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/sirupsen/logrus"
)

// base is what every workflow shares: the remote API, the session, the
// projections and the in-flight table.
type base struct {
	api      Remote
	sess     SessionStore
	state    *State
	notifier *activityNotifier
	flight   *inflight
	workflow config.WorkflowConfig
	now      func() time.Time
}

func newBase(d Deps) *base {
	b := &base{
		api:      d.API,
		sess:     d.Session,
		state:    d.State,
		flight:   newInflight(),
		workflow: d.Workflow,
		now:      d.Clock,
	}
	if b.state == nil {
		b.state = NewState()
	}
	if b.now == nil {
		b.now = time.Now
	}
	if b.workflow.CountConcurrency <= 0 {
		b.workflow.CountConcurrency = 5
	}
	b.notifier = newActivityNotifier(d.Publisher, b.now)
	return b
}

// fail passes err through. An unauthenticated answer from the remote side
// ends the session: token, user and projections are dropped.
func (b *base) fail(ctx context.Context, err error) error {
	if errors.Is(err, entity.ErrUnauthenticated) {
		if clearErr := b.sess.Clear(context.WithoutCancel(ctx)); clearErr != nil {
			logrus.WithError(clearErr).Warn("Failed to clear session")
		}
		b.state.Reset()
	}
	return err
}

// abandoned is returned when the remote write went through but the caller
// stopped caring. The projection cannot be trusted after that.
func abandoned(ctx context.Context, p interface{ Invalidate() }) error {
	p.Invalidate()
	return fmt.Errorf("result discarded: %w", context.Cause(ctx))
}

func (b *base) loadEvents(ctx context.Context) ([]entity.Event, error) {
	mark := b.state.Events.Mark()
	events, err := b.api.ListEvents(ctx)
	if err != nil {
		return nil, b.fail(ctx, err)
	}
	b.state.Events.Load(mark, events)
	return events, nil
}

func (b *base) events(ctx context.Context) ([]entity.Event, error) {
	if events, ok := b.state.Events.Get(); ok {
		return events, nil
	}
	return b.loadEvents(ctx)
}

func (b *base) loadRegistrations(ctx context.Context) ([]entity.Registration, error) {
	mark := b.state.Registrations.Mark()
	regs, err := b.api.MyRegistrations(ctx)
	if err != nil {
		return nil, b.fail(ctx, err)
	}
	b.state.Registrations.Load(mark, regs)
	return regs, nil
}

func (b *base) loadRoster(ctx context.Context, eventID entity.ID) (entity.Roster, error) {
	p := b.state.Roster(eventID)
	mark := p.Mark()
	roster, err := b.api.Participants(ctx, eventID)
	if err != nil {
		return entity.Roster{}, b.fail(ctx, err)
	}
	p.Load(mark, roster)
	return roster, nil
}

func (b *base) actorID() entity.ID {
	if u, ok := b.sess.User(); ok {
		return u.ID
	}
	return ""
}
