package user

import "time"

const (
	RoleOperator      = "operator"
	RoleAdministrator = "administrator"
)

type User struct {
	ID        string
	Name      string
	Email     string
	Password  string // хэш
	Role      string
	CreatedAt time.Time
}

// Account — публичное представление пользователя, уходит клиенту в ответах.
type Account struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

func (u User) Account() Account {
	return Account{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
