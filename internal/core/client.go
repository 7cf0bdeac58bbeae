package core

import "time"

// Role is a participant's function in an interview room.
type Role string

const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
	RoleProctor   Role = "proctor"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	switch r {
	case RoleCandidate, RoleRecruiter, RoleProctor:
		return true
	}
	return false
}

// ParseRole maps a wire role string to its canonical Role.
// "interviewer" is accepted as an alias of recruiter.
func ParseRole(s string) (Role, bool) {
	if s == "interviewer" {
		return RoleRecruiter, true
	}
	r := Role(s)
	return r, ValidRole(r)
}

// CameraKind distinguishes the primary device camera from a paired
// secondary capture device.
type CameraKind string

const (
	CameraPrimary   CameraKind = "primary"
	CameraSecondary CameraKind = "secondary"
)

// CameraState is the enablement state of one camera.
type CameraState struct {
	Enabled  bool   `json:"enabled"`
	StreamID string `json:"streamId,omitempty"`
}

// Participant is one connected person inside a room, keyed by the
// endpoint id of their connection.
type Participant struct {
	Endpoint string                     `json:"endpoint"`
	UserID   string                     `json:"userId"`
	Name     string                     `json:"name"`
	Role     Role                       `json:"role"`
	Cameras  map[CameraKind]CameraState `json:"cameras,omitempty"`
	JoinedAt time.Time                  `json:"joinedAt"`
}

// Client is one connected endpoint as seen by the coordinator.
// Commands flow in, events flow out; everything else is hub-owned.
type Client struct {
	ID       string
	Commands chan *Command
	Events   chan *Event

	// room and dashboard are owned by the hub goroutine.
	room      string
	dashboard bool
}

// NewClient constructs a client with initialized channels.
func NewClient(id string) *Client {
	return &Client{
		ID:       id,
		Commands: make(chan *Command, 8),
		Events:   make(chan *Event, 16),
	}
}
