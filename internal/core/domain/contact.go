package domain

import (
	"time"

	"github.com/google/uuid"
)

type FormType string

const (
	FormTypeContact  FormType = "contact"
	FormTypeBrochure FormType = "brochure"
)

func (f FormType) Valid() bool {
	return f == FormTypeContact || f == FormTypeBrochure
}

type Contact struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Name           string     `json:"name" db:"name"`
	Email          string     `json:"email" db:"email"`
	Phone          string     `json:"phone" db:"phone"`
	CourseInterest string     `json:"course_interest" db:"course_interest"`
	Message        *string    `json:"message,omitempty" db:"message"`
	FormType       FormType   `json:"form_type" db:"form_type"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	CreatedBy      *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	UpdatedBy      *uuid.UUID `json:"updated_by,omitempty" db:"updated_by"`
}

type BrochureRequest struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	ContactID    uuid.UUID  `json:"contact_id" db:"contact_id"`
	CourseType   string     `json:"course_type" db:"course_type"`
	BrochureName string     `json:"brochure_name" db:"brochure_name"`
	EmailSent    bool       `json:"email_sent" db:"email_sent"`
	EmailSentAt  *time.Time `json:"email_sent_at,omitempty" db:"email_sent_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
	CreatedBy    *uuid.UUID `json:"created_by,omitempty" db:"created_by"`
	UpdatedBy    *uuid.UUID `json:"updated_by,omitempty" db:"updated_by"`
}

type EmailDeliveryStats struct {
	Total   int64 `json:"total" db:"total"`
	Sent    int64 `json:"sent" db:"sent"`
	Pending int64 `json:"pending" db:"pending"`
}
