package entities

type ActorRole string

const (
	RoleUser       ActorRole = "user"
	RoleAdmin      ActorRole = "admin"
	RoleSuperAdmin ActorRole = "superadmin"
)

func (r ActorRole) String() string {
	return string(r)
}

func (r ActorRole) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Actor приходит от шлюза аутентификации, сервис его не хранит.
// HomeStationID задан только для admin.
type Actor struct {
	ID            string
	Role          ActorRole
	HomeStationID *int64
}

// IsAdminAt сообщает, что actor администратор именно этой станции.
func (a Actor) IsAdminAt(stationID int64) bool {
	return a.Role == RoleAdmin && a.HomeStationID != nil && *a.HomeStationID == stationID
}
