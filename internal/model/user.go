package model

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleAdmin UserRole = "admin"
)

// User учётная запись на стороне backend API
type User struct {
	ID      string   `json:"_id"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Role    UserRole `json:"role"`
	Address string   `json:"address"`
}

// IsAdmin проверяет роль администратора
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == UserRoleAdmin
}
