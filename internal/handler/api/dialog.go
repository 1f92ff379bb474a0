package api

import (
	"net/http"

	reqdto "studio-scheduler/internal/handler/dto/request"
	"studio-scheduler/internal/handler/middleware"
	"studio-scheduler/internal/usecase/dialog"

	"github.com/gin-gonic/gin"
)

type DialogHandler struct {
	manager *dialog.Manager
}

func NewDialogHandler(manager *dialog.Manager) *DialogHandler {
	return &DialogHandler{manager: manager}
}

// Step feeds one input into the actor's booking dialogue and returns the next
// prompt. The first call of a session uses the input "start".
func (h *DialogHandler) Step(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.DialogStepRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	prompt, err := h.manager.Step(c.Request.Context(), actor, req.Input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, prompt)
}

// Abandon drops the actor's dialogue session, if any.
func (h *DialogHandler) Abandon(c *gin.Context) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	h.manager.Abandon(actor)
	c.Status(http.StatusNoContent)
}
