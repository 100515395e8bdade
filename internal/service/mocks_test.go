package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ds124wfegd/eventhive/config"
	"github.com/ds124wfegd/eventhive/internal/client"
	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/ds124wfegd/eventhive/internal/session"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)

// remoteMock is a testify mock of the remote API.
type remoteMock struct {
	mock.Mock
}

func (m *remoteMock) ListEvents(ctx context.Context) ([]entity.Event, error) {
	args := m.Called(ctx)
	events, _ := args.Get(0).([]entity.Event)
	return events, args.Error(1)
}

func (m *remoteMock) CreateEvent(ctx context.Context, in entity.EventInput, image *client.File) (entity.Event, error) {
	args := m.Called(ctx, in, image)
	return args.Get(0).(entity.Event), args.Error(1)
}

func (m *remoteMock) UpdateEvent(ctx context.Context, id entity.ID, upd entity.EventUpdate, image *client.File) (entity.Event, error) {
	args := m.Called(ctx, id, upd, image)
	return args.Get(0).(entity.Event), args.Error(1)
}

func (m *remoteMock) DeleteEvent(ctx context.Context, id entity.ID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *remoteMock) Participants(ctx context.Context, id entity.ID) (entity.Roster, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(entity.Roster), args.Error(1)
}

func (m *remoteMock) Register(ctx context.Context, eventID entity.ID) (entity.Registration, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(entity.Registration), args.Error(1)
}

func (m *remoteMock) Unregister(ctx context.Context, eventID entity.ID) error {
	return m.Called(ctx, eventID).Error(0)
}

func (m *remoteMock) MyRegistrations(ctx context.Context) ([]entity.Registration, error) {
	args := m.Called(ctx)
	regs, _ := args.Get(0).([]entity.Registration)
	return regs, args.Error(1)
}

func (m *remoteMock) AssignVolunteer(ctx context.Context, eventID, personID entity.ID) error {
	return m.Called(ctx, eventID, personID).Error(0)
}

func (m *remoteMock) RemoveVolunteer(ctx context.Context, eventID, personID entity.ID) error {
	return m.Called(ctx, eventID, personID).Error(0)
}

func (m *remoteMock) SignIn(ctx context.Context, email, password string, role entity.Role) (client.AuthResult, error) {
	args := m.Called(ctx, email, password, role)
	return args.Get(0).(client.AuthResult), args.Error(1)
}

func (m *remoteMock) SignUp(ctx context.Context, req entity.SignUpRequest) (client.AuthResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(client.AuthResult), args.Error(1)
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []entity.Activity
}

func (p *recordingPublisher) Publish(ctx context.Context, a entity.Activity) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, a)
	return nil
}

func (p *recordingPublisher) types() []entity.ActivityType {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]entity.ActivityType, 0, len(p.sent))
	for _, a := range p.sent {
		out = append(out, a.Type)
	}
	return out
}

var (
	student = entity.User{ID: "U1", Name: "Sample Student", Email: "student@example.com", Role: entity.RoleStudent}
	admin   = entity.User{ID: "A1", Name: "Admin", Email: "admin@example.com", Role: entity.RoleAdmin}
)

type fixture struct {
	api  *remoteMock
	sess *session.Session
	pub  *recordingPublisher
	base *base
	svc  *Service
}

func newFixture(t *testing.T, user entity.User, wf config.WorkflowConfig) *fixture {
	t.Helper()

	sess := session.New(session.NewMemoryStorage())
	if !user.ID.IsZero() {
		require.NoError(t, sess.Set(context.Background(), "token", user))
	}

	api := &remoteMock{}
	pub := &recordingPublisher{}
	b := newBase(Deps{
		API:       api,
		Session:   sess,
		Publisher: pub,
		Workflow:  wf,
		Clock:     func() time.Time { return fixedNow },
	})

	return &fixture{
		api:  api,
		sess: sess,
		pub:  pub,
		base: b,
		svc: &Service{
			Auth:          NewAuthService(b),
			Events:        NewEventService(b),
			Registrations: NewRegistrationService(b),
			Volunteers:    NewVolunteerService(b),
		},
	}
}

func (f *fixture) loadEvents(t *testing.T, events ...entity.Event) {
	t.Helper()
	f.api.On("ListEvents", mock.Anything).Return(events, nil).Once()
	_, err := f.svc.Events.ListEvents(context.Background())
	require.NoError(t, err)
}

func (f *fixture) loadRegistrations(t *testing.T, regs ...entity.Registration) {
	t.Helper()
	f.api.On("MyRegistrations", mock.Anything).Return(regs, nil).Once()
	_, err := f.svc.Registrations.MyRegistrations(context.Background())
	require.NoError(t, err)
}

func (f *fixture) attendees(t *testing.T, id entity.ID) int {
	t.Helper()
	e, ok := f.svc.Events.Event(id)
	require.True(t, ok, "event %s not cached", id)
	return e.Attendees
}

// waiters counts callers currently inside share for key.
func waiters(f *inflight, key string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending[key]
}
