package models

// Role is the closed set of account types stored in account.account_type
type Role string

const (
	RoleClient   Role = "Client"
	RoleEmployee Role = "Employee"
	RoleAdmin    Role = "Admin"
)

// Roles lists every role in ascending privilege order.
func Roles() []Role {
	return []Role{RoleClient, RoleEmployee, RoleAdmin}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleClient, RoleEmployee, RoleAdmin:
		return true
	default:
		return false
	}
}

// IsElevated reports whether r may manage inventory and classifications.
func (r Role) IsElevated() bool {
	switch r {
	case RoleEmployee, RoleAdmin:
		return true
	case RoleClient:
		return false
	default:
		return false
	}
}

type Account struct {
	ID        uint   `json:"account_id" gorm:"column:account_id;primaryKey"`
	FirstName string `json:"account_firstname" gorm:"column:account_firstname;not null"`
	LastName  string `json:"account_lastname" gorm:"column:account_lastname;not null"`
	Email     string `json:"account_email" gorm:"column:account_email;uniqueIndex;not null"`
	Password  string `json:"-" gorm:"column:account_password"`
	Type      Role   `json:"account_type" gorm:"column:account_type;not null;default:'Client'"`
}

func (Account) TableName() string { return "account" }

// HasPassword is false for records that were created without a password hash.
func (a Account) HasPassword() bool {
	return a.Password != ""
}
