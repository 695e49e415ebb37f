package models

// Category is a named grouping of apps.
type Category struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(50)" validate:"required,min=1,max=50"`

	Apps []App `json:"-"`
}

// CategoryPatch carries a partial update for a category.
type CategoryPatch struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=50"`
}

// Fields returns the column/value pairs present in the patch.
func (p CategoryPatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	return fields
}
