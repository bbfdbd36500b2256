package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Fixed CRM entities that predate the dynamic entity system. They keep their
// own tables and CRUD surfaces alongside the dynamic records.

// Customer is a CRM customer with Hebrew-labelled status fields.
type Customer struct {
	ID             string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	PrimaryPhone   string    `gorm:"size:64" json:"primaryPhone,omitempty"`
	SecondaryPhone string    `gorm:"size:64" json:"secondaryPhone,omitempty"`
	Settlement     string    `gorm:"size:255" json:"settlement,omitempty"`
	Street         string    `gorm:"size:255" json:"street,omitempty"`
	HouseNumber    string    `gorm:"size:32" json:"houseNumber,omitempty"`
	CustomerStatus string    `gorm:"size:64" json:"customerStatus,omitempty"`
	DonationStatus string    `gorm:"size:64" json:"donationStatus,omitempty"`
	ManagerID      *string   `gorm:"type:char(36)" json:"managerId,omitempty"`
	Manager        *User     `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	Tasks      []Task     `gorm:"foreignKey:CustomerID" json:"tasks,omitempty"`
	Activities []Activity `gorm:"foreignKey:CustomerID" json:"activities,omitempty"`
}

// Contact is a standalone CRM contact.
type Contact struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255" json:"email,omitempty"`
	Phone     string    `gorm:"size:64" json:"phone,omitempty"`
	Company   string    `gorm:"size:255" json:"company,omitempty"`
	Position  string    `gorm:"size:255" json:"position,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Deal is a sales pipeline entry.
type Deal struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	Title     string    `gorm:"size:255;not null" json:"title"`
	Value     float64   `gorm:"not null;default:0" json:"value"`
	Stage     string    `gorm:"size:32;not null;default:lead" json:"stage"`
	ContactID *string   `gorm:"type:char(36)" json:"contactId,omitempty"`
	Contact   *Contact  `gorm:"foreignKey:ContactID" json:"contact,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Certification is a kosher-certification record. The Hebrew date columns
// hold display strings; the Gregorian dates are authoritative.
type Certification struct {
	ID              string     `gorm:"type:char(36);primaryKey" json:"id"`
	Company         string     `gorm:"size:255" json:"company,omitempty"`
	Name            string     `gorm:"size:255;not null" json:"name"`
	Field           string     `gorm:"size:255" json:"field,omitempty"`
	CertifiedOn     string     `gorm:"size:255" json:"certifiedOn,omitempty"`
	Status          string     `gorm:"size:255" json:"status,omitempty"`
	IssueDate       *time.Time `json:"issueDate,omitempty"`
	IssueDateHebrew string     `gorm:"size:64" json:"issueDateHebrew,omitempty"`
	EndDate         *time.Time `json:"endDate,omitempty"`
	EndDateHebrew   string     `gorm:"size:64" json:"endDateHebrew,omitempty"`
	ContactPerson   string     `gorm:"size:255" json:"contactPerson,omitempty"`
	UserID          *string    `gorm:"type:char(36)" json:"userId,omitempty"`
	User            *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`

	Activities []Activity `gorm:"foreignKey:CertificationID" json:"activities,omitempty"`
}

// Task is a top-level CRM task, optionally attached to a customer.
type Task struct {
	ID         string     `gorm:"type:char(36);primaryKey" json:"id"`
	Title      string     `gorm:"size:512;not null" json:"title"`
	Completed  bool       `gorm:"not null;default:false" json:"completed"`
	DueDate    *time.Time `json:"dueDate,omitempty"`
	CustomerID *string    `gorm:"type:char(36);index" json:"customerId,omitempty"`
	AssigneeID *string    `gorm:"type:char(36)" json:"assigneeId,omitempty"`
	Assignee   *User      `gorm:"foreignKey:AssigneeID" json:"assignee,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

// Product is a catalog item.
type Product struct {
	ID          string    `gorm:"type:char(36);primaryKey" json:"id"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	Price       float64   `gorm:"not null;default:0" json:"price"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Order links a customer to a product purchase.
type Order struct {
	ID         string    `gorm:"type:char(36);primaryKey" json:"id"`
	CustomerID *string   `gorm:"type:char(36);index" json:"customerId,omitempty"`
	Customer   *Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	ProductID  *string   `gorm:"type:char(36)" json:"productId,omitempty"`
	Product    *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity   int       `gorm:"not null;default:1" json:"quantity"`
	Status     string    `gorm:"size:32;not null;default:open" json:"status"`
	Total      float64   `gorm:"not null;default:0" json:"total"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Activity is a note or event on a customer or certification timeline.
type Activity struct {
	ID              string    `gorm:"type:char(36);primaryKey" json:"id"`
	Type            string    `gorm:"size:32;not null;default:note" json:"type"`
	Content         string    `gorm:"type:text" json:"content,omitempty"`
	CustomerID      *string   `gorm:"type:char(36);index" json:"customerId,omitempty"`
	CertificationID *string   `gorm:"type:char(36);index" json:"certificationId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// SavedView is a stored list filter owned by a user.
type SavedView struct {
	ID        string         `gorm:"type:char(36);primaryKey" json:"id"`
	Name      string         `gorm:"size:255;not null" json:"name"`
	Entity    string         `gorm:"size:255;not null" json:"entity"`
	Filters   datatypes.JSON `gorm:"type:json" json:"filters,omitempty"`
	UserID    *string        `gorm:"type:char(36);index" json:"userId,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func (Customer) TableName() string      { return "customers" }
func (Contact) TableName() string       { return "contacts" }
func (Deal) TableName() string          { return "deals" }
func (Certification) TableName() string { return "certifications" }
func (Task) TableName() string          { return "tasks" }
func (Product) TableName() string       { return "products" }
func (Order) TableName() string         { return "orders" }
func (Activity) TableName() string      { return "activities" }
func (SavedView) TableName() string     { return "saved_views" }

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (c *Contact) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (d *Deal) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}

func (c *Certification) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (a *Activity) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (v *SavedView) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}
