package models

// App is a downloadable catalog entry belonging to a category.
type App struct {
	ID             uint    `json:"id" gorm:"primaryKey"`
	Name           string  `json:"name" gorm:"uniqueIndex;type:varchar(20)" validate:"required,min=1,max=20"`
	URL            string  `json:"url" gorm:"uniqueIndex;type:varchar(100)" validate:"required,min=1,max=100"`
	ShortDescr     string  `json:"short_descr" gorm:"type:varchar(100)" validate:"required,min=1,max=100"`
	FullDescr      string  `json:"full_descr" gorm:"type:varchar(1000)" validate:"required,min=1,max=1000"`
	Price          float64 `json:"price" gorm:"default:0" validate:"gte=0"`
	Downloads      int     `json:"downloads" gorm:"default:0"`
	Rating         float64 `json:"rating" gorm:"default:5"`
	AgeRestriction int     `json:"age_restriction" gorm:"default:0" validate:"gte=0"`
	CategoryID     uint    `json:"category_id" validate:"required"`

	Category          *Category `json:"-"`
	DownloadedByUsers []User    `json:"-" gorm:"many2many:downloads"`
	Reports           []Report  `json:"-"`
}

// AppPatch carries a partial update for an app.
type AppPatch struct {
	Name           *string  `json:"name" validate:"omitempty,min=1,max=20"`
	URL            *string  `json:"url" validate:"omitempty,min=1,max=100"`
	ShortDescr     *string  `json:"short_descr" validate:"omitempty,min=1,max=100"`
	FullDescr      *string  `json:"full_descr" validate:"omitempty,min=1,max=1000"`
	Price          *float64 `json:"price" validate:"omitempty,gte=0"`
	Downloads      *int     `json:"downloads" validate:"omitempty,gte=0"`
	Rating         *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
	AgeRestriction *int     `json:"age_restriction" validate:"omitempty,gte=0"`
	CategoryID     *uint    `json:"category_id"`
}

// Fields returns the column/value pairs present in the patch.
func (p AppPatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if p.Name != nil {
		fields["name"] = *p.Name
	}
	if p.URL != nil {
		fields["url"] = *p.URL
	}
	if p.ShortDescr != nil {
		fields["short_descr"] = *p.ShortDescr
	}
	if p.FullDescr != nil {
		fields["full_descr"] = *p.FullDescr
	}
	if p.Price != nil {
		fields["price"] = *p.Price
	}
	if p.Downloads != nil {
		fields["downloads"] = *p.Downloads
	}
	if p.Rating != nil {
		fields["rating"] = *p.Rating
	}
	if p.AgeRestriction != nil {
		fields["age_restriction"] = *p.AgeRestriction
	}
	if p.CategoryID != nil {
		fields["category_id"] = *p.CategoryID
	}
	return fields
}
