package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ds124wfegd/eventhive/internal/entity"
)

type registerRequest struct {
	EventID entity.ID `json:"event_id"`
}

// Register is POST /registrations/. The remote side decides whether a second
// call for the same event is rejected; callers should check MyRegistrations
// first.
func (c *Client) Register(ctx context.Context, eventID entity.ID) (entity.Registration, error) {
	if err := requireID(eventID); err != nil {
		return entity.Registration{}, err
	}
	var created registrationDTO
	if err := c.sendJSON(ctx, http.MethodPost, "/registrations/", registerRequest{EventID: eventID}, &created); err != nil {
		return entity.Registration{}, fmt.Errorf("register for %s: %w", eventID, err)
	}
	reg := created.toEntity()
	if reg.EventID.IsZero() {
		reg.EventID = eventID
	}
	return reg, nil
}

func (c *Client) Unregister(ctx context.Context, eventID entity.ID) error {
	if err := requireID(eventID); err != nil {
		return err
	}
	if err := c.do(ctx, request{method: http.MethodDelete, path: "/registrations/" + escape(eventID)}, nil); err != nil {
		return fmt.Errorf("unregister from %s: %w", eventID, err)
	}
	return nil
}

func (c *Client) MyRegistrations(ctx context.Context) ([]entity.Registration, error) {
	var payload []registrationDTO
	if err := c.getJSON(ctx, "/registrations/", &payload); err != nil {
		return nil, fmt.Errorf("my registrations: %w", err)
	}
	out := make([]entity.Registration, 0, len(payload))
	for _, d := range payload {
		out = append(out, d.toEntity())
	}
	return out, nil
}
