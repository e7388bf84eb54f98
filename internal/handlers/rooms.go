package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mossy-p/peercall-signaling/internal/models"
)

// GetRoom reports a room's occupancy and members (public)
func (s *Signaling) GetRoom(c *gin.Context) {
	name := c.Param("roomId")

	members := s.rooms.Members(name)
	if len(members) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	info := models.RoomInfo{
		Name:  name,
		Count: len(members),
	}
	for _, handle := range members {
		member := models.RoomMember{Handle: handle}
		if identity, ok := s.registry.Identity(handle); ok {
			member.Identity = identity
		}
		info.Members = append(info.Members, member)
	}

	c.JSON(http.StatusOK, info)
}

// ListRooms lists all non-empty rooms with their occupancy (requires JWT)
func (s *Signaling) ListRooms(c *gin.Context) {
	infos := make([]models.RoomInfo, 0)
	for _, name := range s.rooms.Rooms() {
		infos = append(infos, models.RoomInfo{
			Name:  name,
			Count: s.rooms.Len(name),
		})
	}
	c.JSON(http.StatusOK, gin.H{"rooms": infos})
}

// CloseRoom force-closes every connection in a room (requires JWT). Each
// close drives the normal disconnect path, so the registry and membership
// entries unwind exactly as they would on an ordinary disconnect.
func (s *Signaling) CloseRoom(c *gin.Context) {
	name := c.Param("roomId")

	members := s.rooms.Members(name)
	if len(members) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		return
	}

	closed := 0
	for _, handle := range members {
		if s.closeHandle(handle) {
			closed++
		}
	}

	c.JSON(http.StatusOK, gin.H{"closed": closed})
}
