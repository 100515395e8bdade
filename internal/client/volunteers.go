package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ds124wfegd/eventhive/internal/entity"
)

func volunteerPath(eventID, personID entity.ID) string {
	return "/volunteers/" + escape(eventID) + "/" + escape(personID)
}

func (c *Client) AssignVolunteer(ctx context.Context, eventID, personID entity.ID) error {
	if err := requireID(eventID, personID); err != nil {
		return err
	}
	if err := c.sendJSON(ctx, http.MethodPost, volunteerPath(eventID, personID), struct{}{}, nil); err != nil {
		return fmt.Errorf("assign volunteer %s to %s: %w", personID, eventID, err)
	}
	return nil
}

func (c *Client) RemoveVolunteer(ctx context.Context, eventID, personID entity.ID) error {
	if err := requireID(eventID, personID); err != nil {
		return err
	}
	if err := c.do(ctx, request{method: http.MethodDelete, path: volunteerPath(eventID, personID)}, nil); err != nil {
		return fmt.Errorf("remove volunteer %s from %s: %w", personID, eventID, err)
	}
	return nil
}
