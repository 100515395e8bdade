package transport

import (
	"net/http"

	repository "github.com/ds124wfegd/eventhive/internal/database/memory"
	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/gin-gonic/gin"
)

type VolunteerHandler struct {
	volunteers repository.VolunteerRepository
}

func NewVolunteerHandler(volunteers repository.VolunteerRepository) *VolunteerHandler {
	return &VolunteerHandler{volunteers: volunteers}
}

// Assign answers 404 for a person not registered for the event and 409 when
// already assigned.
func (h *VolunteerHandler) Assign(c *gin.Context) {
	eventID := entity.ID(c.Param("event_id"))
	userID := entity.ID(c.Param("user_id"))

	if err := h.volunteers.Assign(c.Request.Context(), eventID, userID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Volunteer assigned", "event_id": eventID, "user_id": userID})
}

// Remove answers 404 when the person is not a volunteer.
func (h *VolunteerHandler) Remove(c *gin.Context) {
	eventID := entity.ID(c.Param("event_id"))
	userID := entity.ID(c.Param("user_id"))

	if err := h.volunteers.Remove(c.Request.Context(), eventID, userID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Volunteer removed", "event_id": eventID, "user_id": userID})
}
