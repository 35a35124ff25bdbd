package handlers

import (
	"net/http"

	"staybook/models"
	"staybook/services/room"
	"staybook/utils"

	"github.com/gin-gonic/gin"
)

type RoomHandler struct {
	Service room.RoomService
}

func NewRoomHandler(svc room.RoomService) *RoomHandler {
	return &RoomHandler{Service: svc}
}

func (h *RoomHandler) ListRooms(c *gin.Context) {
	rooms, err := h.Service.ListRooms(c.Request.Context())
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rooms": rooms})
}

func (h *RoomHandler) GetRoom(c *gin.Context) {
	r, err := h.Service.GetRoom(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "room": r})
}

func (h *RoomHandler) MyRooms(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	rooms, err := h.Service.ListMyRooms(c.Request.Context(), actor)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "rooms": rooms})
}

func (h *RoomHandler) CreateRoom(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var input models.RoomInput
	if !bindJSON(c, &input) {
		return
	}
	r, err := h.Service.CreateRoom(c.Request.Context(), actor, input)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "room": r})
}

func (h *RoomHandler) UpdateRoom(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var update models.RoomUpdate
	if !bindJSON(c, &update) {
		return
	}
	r, err := h.Service.UpdateRoom(c.Request.Context(), actor, c.Param("id"), update)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "room": r})
}
