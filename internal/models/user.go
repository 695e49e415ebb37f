package models

import "time"

// User represents a marketplace account with a wallet balance.
type User struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Login       string    `json:"login" gorm:"uniqueIndex;type:varchar(50)" validate:"required,min=3,max=50"`
	Email       string    `json:"email" gorm:"uniqueIndex;type:varchar(100)" validate:"required,email,max=100"`
	Name        string    `json:"name" gorm:"type:varchar(50)" validate:"required,min=1,max=50"`
	Password    string    `json:"-" gorm:"type:varchar(100)"` // bcrypt hash, never serialized
	Balance     float64   `json:"balance" gorm:"default:0"`
	Age         int       `json:"age" gorm:"default:0" validate:"gte=0,lte=120"`
	CountInputs int       `json:"count_inputs" gorm:"default:0"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	DownloadedApps []App    `json:"-" gorm:"many2many:downloads"`
	Reports        []Report `json:"-"`
}

// UserPatch carries a partial update for a user. Only non-nil fields are applied.
type UserPatch struct {
	Login       *string  `json:"login" validate:"omitempty,min=3,max=50"`
	Email       *string  `json:"email" validate:"omitempty,email,max=100"`
	Name        *string  `json:"name" validate:"omitempty,min=1,max=50"`
	Age         *int     `json:"age" validate:"omitempty,gte=0,lte=120"`
	Balance     *float64 `json:"balance" validate:"omitempty,gte=0"`
	CountInputs *int     `json:"count_inputs" validate:"omitempty,gte=0"`
}

// Fields returns the column/value pairs present in the patch.
func (p UserPatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.Login != nil {
		fields["login"] = *p.Login
	}
	if p.Email != nil {
		fields["email"] = *p.Email
	}
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.Age != nil {
		fields["age"] = *p.Age
	}
	if p.Balance != nil {
		fields["balance"] = *p.Balance
	}
	if p.CountInputs != nil {
		fields["count_inputs"] = *p.CountInputs
	}
	return fields
}
