package models

// RoomInfo describes a room's current occupancy for the management API.
type RoomInfo struct {
	Name    string       `json:"name"`
	Count   int          `json:"count"`
	Members []RoomMember `json:"members,omitempty"`
}

// RoomMember pairs a connection handle with the identity it joined as.
type RoomMember struct {
	Handle   string `json:"handle"`
	Identity string `json:"identity,omitempty"`
}
