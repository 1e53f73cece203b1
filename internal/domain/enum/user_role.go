package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// UserRole represents what an operator may do at the register
type UserRole string

const (
	UserRoleCashier UserRole = "cashier"
	UserRoleManager UserRole = "manager"
)

func (r UserRole) String() string {
	return string(r)
}

// IsValid checks if the role is valid
func (r UserRole) IsValid() bool {
	return r == UserRoleCashier || r == UserRoleManager
}

func (r UserRole) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(r))
}

func (r *UserRole) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*r = UserRole(str)
	return nil
}

func (r UserRole) Value() (driver.Value, error) {
	return string(r), nil
}

func (r *UserRole) Scan(value interface{}) error {
	if value == nil {
		*r = UserRoleCashier
		return nil
	}
	switch v := value.(type) {
	case string:
		*r = UserRole(v)
	case []byte:
		*r = UserRole(v)
	default:
		return fmt.Errorf("cannot scan %T into UserRole", value)
	}
	return nil
}
