package models

// Report is a user-submitted review of an app. A user may submit several
// reports for the same app.
type Report struct {
	ID     uint     `json:"id" gorm:"primaryKey"`
	UserID uint     `json:"user_id" validate:"required"`
	AppID  uint     `json:"app_id" validate:"required"`
	Text   string   `json:"text" gorm:"type:varchar(500)" validate:"required,min=1,max=500"`
	Rating *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`

	User *User `json:"-"`
	App  *App  `json:"-"`
}

// ReportPatch carries a partial update for a report.
type ReportPatch struct {
	Text   *string  `json:"text" validate:"omitempty,min=1,max=500"`
	Rating *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

// Fields returns the column/value pairs present in the patch.
func (p ReportPatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.Text != nil {
		fields["text"] = *p.Text
	}
	if p.Rating != nil {
		fields["rating"] = *p.Rating
	}
	return fields
}
