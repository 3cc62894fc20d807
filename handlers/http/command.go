package httpHandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"command-api/entities"
	"command-api/usecases"

	"github.com/gin-gonic/gin"
)

// CommandsPath is the collection route; items live at CommandsPath + "/:id".
const CommandsPath = "/api/commands"

// Broadcaster fans change events out to subscribers.
type Broadcaster interface {
	Broadcast(payload []byte) int
}

type CommandHandler struct {
	useCase *usecases.CommandsUseCase
	events  Broadcaster
}

// NewCommandHandler builds the handler. events may be nil.
func NewCommandHandler(useCase *usecases.CommandsUseCase, events Broadcaster) *CommandHandler {
	return &CommandHandler{useCase: useCase, events: events}
}

// Register mounts the command routes on r.
func (h *CommandHandler) Register(r gin.IRouter) {
	commands := r.Group(CommandsPath)
	{
		commands.GET("", h.GetCommands)
		commands.POST("", h.CreateCommand)
		commands.GET("/:id", h.GetCommand)
		commands.PUT("/:id", h.ReplaceCommand)
		commands.DELETE("/:id", h.DeleteCommand)
	}
}

// GetCommands handles GET /api/commands
func (h *CommandHandler) GetCommands(c *gin.Context) {
	cmds, err := h.useCase.List(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cmds)
}

// GetCommand handles GET /api/commands/:id
func (h *CommandHandler) GetCommand(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	cmd, err := h.useCase.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, cmd)
}

// CreateCommand handles POST /api/commands
func (h *CommandHandler) CreateCommand(c *gin.Context) {
	var candidate entities.Command
	if err := c.ShouldBindJSON(&candidate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	cmd, err := h.useCase.Create(c.Request.Context(), candidate)
	if err != nil {
		h.fail(c, err)
		return
	}

	h.publish("command_created", cmd.ID, cmd)
	c.Header("Location", LocationFor(cmd.ID))
	c.JSON(http.StatusCreated, cmd)
}

// ReplaceCommand handles PUT /api/commands/:id
func (h *CommandHandler) ReplaceCommand(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var candidate entities.Command
	if err := c.ShouldBindJSON(&candidate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	if err := h.useCase.Replace(c.Request.Context(), id, candidate); err != nil {
		h.fail(c, err)
		return
	}

	candidate.ID = id
	h.publish("command_replaced", id, &candidate)
	c.Status(http.StatusNoContent)
}

// DeleteCommand handles DELETE /api/commands/:id
func (h *CommandHandler) DeleteCommand(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	h.publish("command_deleted", id, nil)
	c.Status(http.StatusNoContent)
}

// LocationFor is the URL path of the command with the given id.
func LocationFor(id uint) string {
	return fmt.Sprintf("%s/%d", CommandsPath, id)
}

// parseID reads the :id path parameter. Any integer is accepted; ids below 1
// or outside the int64 range map to 0, which never matches a stored command.
func parseID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	n, err := strconv.ParseInt(raw, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		return 0, true
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid command id",
			"details": fmt.Sprintf("%q is not an integer", raw),
		})
		return 0, false
	}
	if n < 1 {
		return 0, true
	}
	return uint(n), true
}

func (h *CommandHandler) fail(c *gin.Context, err error) {
	var ve *usecases.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   ve.Reason,
			"details": gin.H{"fields": ve.Fields},
		})
	case errors.Is(err, usecases.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Command not found",
		})
	default:
		log.Printf("command store failure: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to access command store",
		})
	}
}

func (h *CommandHandler) publish(kind string, id uint, cmd *entities.Command) {
	if h.events == nil {
		return
	}
	env := map[string]interface{}{
		"type":       kind,
		"command_id": id,
		"timestamp":  time.Now().UTC().Format(time.RFC3339Nano),
	}
	if cmd != nil {
		env["command"] = cmd
	}
	b, err := json.Marshal(env)
	if err != nil {
		log.Printf("could not encode %s event: %v", kind, err)
		return
	}
	h.events.Broadcast(b)
}
