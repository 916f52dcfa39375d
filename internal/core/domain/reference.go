package domain

// ServiceCategory is a top-level service group, e.g. "Boundary Surveys".
type ServiceCategory struct {
	ID            int64                `json:"id"   db:"id"`
	Name          string               `json:"name" db:"name"`
	Subcategories []ServiceSubcategory `json:"subcategories,omitempty" db:"-"`
}

// ServiceSubcategory is a concrete service a surveyor can offer.
type ServiceSubcategory struct {
	ID         int64  `json:"id"         db:"id"`
	CategoryID int64  `json:"categoryId" db:"category_id"`
	Name       string `json:"name"       db:"name"`
}

// ServiceOffering is a subcategory joined with its category name.
type ServiceOffering struct {
	SubcategoryID int64  `json:"id"       db:"subcategory_id"`
	Name          string `json:"name"     db:"name"`
	Category      string `json:"category" db:"category"`
}

// County is a served area.
type County struct {
	ID    int64  `json:"id"    db:"id"`
	Name  string `json:"name"  db:"name"`
	State string `json:"state" db:"state"`
}
