package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	repository "github.com/ds124wfegd/eventhive/internal/database/memory"
	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	events     repository.EventRepository
	volunteers repository.VolunteerRepository
}

func NewEventHandler(events repository.EventRepository, volunteers repository.VolunteerRepository) *EventHandler {
	return &EventHandler{events: events, volunteers: volunteers}
}

// eventPayload is the event fields as sent in JSON, in the "updates" part
// or as separate multipart fields. Nil means absent.
type eventPayload struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	DateTime    *string  `json:"date_time"`
	Date        *string  `json:"date"`
	Time        *string  `json:"time"`
	Location    *string  `json:"location"`
	Capacity    *int     `json:"capacity"`
	Fees        *float64 `json:"fees"`
	EventType   *string  `json:"event_type"`
}

func (p eventPayload) startsAt() (*time.Time, error) {
	var (
		t   time.Time
		err error
	)
	switch {
	case p.DateTime != nil:
		t, err = entity.ParseDateTime(*p.DateTime)
	case p.Date != nil:
		clock := ""
		if p.Time != nil {
			clock = *p.Time
		}
		t, err = entity.CombineDateTime(*p.Date, clock)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (p eventPayload) toUpdate() (entity.EventUpdate, error) {
	startsAt, err := p.startsAt()
	if err != nil {
		return entity.EventUpdate{}, err
	}
	return entity.EventUpdate{
		Title:       p.Title,
		Description: p.Description,
		StartsAt:    startsAt,
		Location:    p.Location,
		Capacity:    p.Capacity,
		Fee:         p.Fees,
		Category:    p.EventType,
	}, nil
}

func formPayload(c *gin.Context) (eventPayload, error) {
	var p eventPayload
	str := func(key string) *string {
		if v, ok := c.GetPostForm(key); ok {
			return &v
		}
		return nil
	}
	p.Title = str("title")
	p.Description = str("description")
	p.DateTime = str("date_time")
	p.Date = str("date")
	p.Time = str("time")
	p.Location = str("location")
	p.EventType = str("event_type")

	if v := str("capacity"); v != nil {
		n, err := strconv.Atoi(strings.TrimSpace(*v))
		if err != nil {
			return p, fmt.Errorf("capacity: %w", err)
		}
		p.Capacity = &n
	}
	if v := str("fees"); v != nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(*v), 64)
		if err != nil {
			return p, fmt.Errorf("fees: %w", err)
		}
		p.Fees = &f
	}
	return p, nil
}

func isJSON(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "application/json")
}

// CreateEvent accepts multipart form fields with an optional "file", or a
// JSON body.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	var (
		p   eventPayload
		err error
	)
	if isJSON(c) {
		err = c.ShouldBindJSON(&p)
	} else {
		p, err = formPayload(c)
	}
	if err != nil {
		badRequest(c, err)
		return
	}

	upd, err := p.toUpdate()
	if err != nil {
		badRequest(c, err)
		return
	}
	event := entity.Event{}
	applyUpdate(&event, upd)
	in := entity.EventInput{
		Title:    event.Title,
		Capacity: event.Capacity,
		Fee:      event.Fee,
	}
	if err := in.Validate(); err != nil {
		writeError(c, err)
		return
	}

	if err := h.events.Create(c.Request.Context(), &event); err != nil {
		writeError(c, err)
		return
	}
	if url, ok := uploadedImage(c, event.ID); ok {
		event.ImageURL = url
		if err := h.events.Update(c.Request.Context(), &event); err != nil {
			writeError(c, err)
			return
		}
	}

	c.JSON(http.StatusCreated, toEventResponse(&event))
}

// UpdateEvent takes the changed fields as JSON in the multipart "updates"
// field, or as the whole JSON body.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id := entity.ID(c.Param("id"))

	var p eventPayload
	if isJSON(c) {
		if err := c.ShouldBindJSON(&p); err != nil {
			badRequest(c, err)
			return
		}
	} else if raw, ok := c.GetPostForm("updates"); ok && strings.TrimSpace(raw) != "" {
		if err := json.Unmarshal([]byte(raw), &p); err != nil {
			badRequest(c, fmt.Errorf("updates: %w", err))
			return
		}
	}

	upd, err := p.toUpdate()
	if err != nil {
		badRequest(c, err)
		return
	}
	if err := upd.Validate(); err != nil {
		writeError(c, err)
		return
	}

	event, err := h.events.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	applyUpdate(event, upd)
	if url, ok := uploadedImage(c, id); ok {
		event.ImageURL = url
	}
	if err := h.events.Update(c.Request.Context(), event); err != nil {
		writeError(c, err)
		return
	}

	updated, err := h.events.GetByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEventResponse(updated))
}

func (h *EventHandler) DeleteEvent(c *gin.Context) {
	if err := h.events.Delete(c.Request.Context(), entity.ID(c.Param("id"))); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Event deleted"})
}

func (h *EventHandler) GetAllEvents(c *gin.Context) {
	events, err := h.events.GetAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]eventResponse, 0, len(events))
	for _, e := range events {
		out = append(out, toEventResponse(e))
	}
	c.JSON(http.StatusOK, out)
}

// GetEventUsers returns the registrants and the volunteers among them.
func (h *EventHandler) GetEventUsers(c *gin.Context) {
	users, volunteers, err := h.volunteers.Participants(c.Request.Context(), entity.ID(c.Param("id")))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, participantsResponse{
		TotalCount: len(users),
		Users:      toPeople(users),
		Volunteers: toPeople(volunteers),
	})
}

func applyUpdate(e *entity.Event, u entity.EventUpdate) {
	if u.Title != nil {
		e.Title = *u.Title
	}
	if u.Description != nil {
		e.Description = *u.Description
	}
	if u.StartsAt != nil {
		e.StartsAt = *u.StartsAt
	}
	if u.Location != nil {
		e.Location = *u.Location
	}
	if u.Capacity != nil {
		e.Capacity = *u.Capacity
	}
	if u.Fee != nil {
		e.Fee = *u.Fee
	}
	if u.Category != nil {
		e.Category = *u.Category
	}
}

// uploadedImage accepts the "file" part and returns the URL it would be
// served under. The mock keeps no image bytes.
func uploadedImage(c *gin.Context, id entity.ID) (string, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		if !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
			c.Error(err)
		}
		return "", false
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	return fmt.Sprintf("/uploads/events/%s%s", id, ext), true
}
