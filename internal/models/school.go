package models

// School represents a registered school listing.
type School struct {
	ID      uint   `json:"id" gorm:"primaryKey;autoIncrement"`
	Name    string `json:"name" gorm:"type:varchar(255);not null"`
	Address string `json:"address" gorm:"type:text;not null"`
	City    string `json:"city" gorm:"type:varchar(100);not null"`
	State   string `json:"state" gorm:"type:varchar(100);not null"`
	Contact string `json:"contact" gorm:"type:varchar(10);not null"`
	EmailID string `json:"email_id" gorm:"column:email_id;type:varchar(255);not null"`
	Image   string `json:"image" gorm:"type:text;not null"` // Location returned by the image host
}

// TableName pins the table name used by the original deployment.
func (School) TableName() string {
	return "schools"
}

// SchoolForm holds the text fields of a registration submission.
type SchoolForm struct {
	Name    string `json:"name" form:"name" validate:"required,notblank,min=3,max=255"`
	Address string `json:"address" form:"address" validate:"required,notblank,min=5"`
	City    string `json:"city" form:"city" validate:"required,notblank,min=2,max=100"`
	State   string `json:"state" form:"state" validate:"required,notblank,min=2,max=100"`
	Contact string `json:"contact" form:"contact" validate:"required,len=10,number"`
	EmailID string `json:"email_id" form:"email_id" validate:"required,email,max=255"`
}

// ImageUpload is an image file received with a registration.
type ImageUpload struct {
	Filename    string
	Data        []byte
	ContentType string // Detected from Data, not taken from the client
}

// ToSchool builds a School row from the form and the hosted image location.
func (f SchoolForm) ToSchool(imageURL string) *School {
	return &School{
		Name:    f.Name,
		Address: f.Address,
		City:    f.City,
		State:   f.State,
		Contact: f.Contact,
		EmailID: f.EmailID,
		Image:   imageURL,
	}
}
