package transport

import (
	"net/http"

	repository "github.com/ds124wfegd/eventhive/internal/database/memory"
	"github.com/ds124wfegd/eventhive/internal/entity"
	"github.com/ds124wfegd/eventhive/internal/transport/middleware"
	"github.com/gin-gonic/gin"
)

type RegistrationHandler struct {
	registrations repository.RegistrationRepository
}

func NewRegistrationHandler(registrations repository.RegistrationRepository) *RegistrationHandler {
	return &RegistrationHandler{registrations: registrations}
}

type registerRequest struct {
	EventID entity.ID `json:"event_id" binding:"required"`
}

// Register answers 409 for a duplicate or a full event.
func (h *RegistrationHandler) Register(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	reg, err := h.registrations.Create(c.Request.Context(), req.EventID, user.ID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toRegistrationResponse(reg))
}

// Unregister answers 404 when the caller is not registered.
func (h *RegistrationHandler) Unregister(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	if err := h.registrations.Delete(c.Request.Context(), entity.ID(c.Param("event_id")), user.ID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Unregistered"})
}

func (h *RegistrationHandler) GetMyRegistrations(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	regs, err := h.registrations.GetByUserID(c.Request.Context(), user.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	out := make([]registrationResponse, 0, len(regs))
	for _, r := range regs {
		out = append(out, toRegistrationResponse(r))
	}
	c.JSON(http.StatusOK, out)
}
