package services

import (
	"errors"
	"strings"
	"time"

	"github.com/keshercrm/kesher-crm/internal/fields"
	"github.com/keshercrm/kesher-crm/internal/models"
	"github.com/keshercrm/kesher-crm/internal/types"
	"gorm.io/gorm"
)

// CustomerQuery holds list filters for the customers screen.
type CustomerQuery struct {
	Search         string
	CustomerStatus string
	DonationStatus string
	Settlement     string
	SortBy         string
	SortDir        string
}

var customerSortColumns = map[string]string{
	"name":           "name",
	"settlement":     "settlement",
	"customerStatus": "customer_status",
	"donationStatus": "donation_status",
	"createdAt":      "created_at",
}

// ListCustomers returns customers matching the query. Search covers name and
// both phone columns.
func ListCustomers(db *gorm.DB, q CustomerQuery) ([]models.Customer, error) {
	tx := db.Model(&models.Customer{}).Preload("Manager")

	if term := strings.TrimSpace(q.Search); term != "" {
		like := "%" + term + "%"
		tx = tx.Where("name LIKE ? OR primary_phone LIKE ? OR secondary_phone LIKE ?", like, like, like)
	}
	if q.CustomerStatus != "" {
		tx = tx.Where("customer_status = ?", q.CustomerStatus)
	}
	if q.DonationStatus != "" {
		tx = tx.Where("donation_status = ?", q.DonationStatus)
	}
	if q.Settlement != "" {
		tx = tx.Where("settlement = ?", q.Settlement)
	}

	column, ok := customerSortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(q.SortDir, "asc") {
		dir = "ASC"
	}

	var customers []models.Customer
	if err := tx.Order(column + " " + dir).Find(&customers).Error; err != nil {
		return nil, err
	}
	return customers, nil
}

// GetCustomer returns one customer with manager, tasks and activity timeline.
func GetCustomer(db *gorm.DB, id string) (*models.Customer, error) {
	var customer models.Customer
	err := db.Preload("Manager").
		Preload("Tasks", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at DESC")
		}).
		Preload("Activities", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at DESC")
		}).
		Where("id = ?", id).First(&customer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("לקוח לא נמצא")
		}
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer stores a new customer.
func CreateCustomer(db *gorm.DB, customer *models.Customer) error {
	if strings.TrimSpace(customer.Name) == "" {
		return types.Validation("נא להזין שם לקוח")
	}
	return db.Create(customer).Error
}

// UpdateCustomer replaces the editable columns of a customer.
func UpdateCustomer(db *gorm.DB, id string, customer *models.Customer) (*models.Customer, error) {
	existing, err := GetCustomer(db, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(customer.Name) == "" {
		return nil, types.Validation("נא להזין שם לקוח")
	}

	updates := map[string]interface{}{
		"name":            customer.Name,
		"primary_phone":   customer.PrimaryPhone,
		"secondary_phone": customer.SecondaryPhone,
		"settlement":      customer.Settlement,
		"street":          customer.Street,
		"house_number":    customer.HouseNumber,
		"customer_status": customer.CustomerStatus,
		"donation_status": customer.DonationStatus,
		"manager_id":      customer.ManagerID,
	}
	if err := db.Model(existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	return GetCustomer(db, id)
}

// DeleteCustomer removes a customer and its tasks and activities.
func DeleteCustomer(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var customer models.Customer
		if err := tx.Where("id = ?", id).First(&customer).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("לקוח לא נמצא")
			}
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("customer_id = ?", id).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&customer).Error
	})
}

// ListContacts returns all contacts, optionally filtered by a name/email/
// phone/company substring.
func ListContacts(db *gorm.DB, search string) ([]models.Contact, error) {
	tx := db.Model(&models.Contact{})
	if term := strings.TrimSpace(search); term != "" {
		like := "%" + term + "%"
		tx = tx.Where("name LIKE ? OR email LIKE ? OR phone LIKE ? OR company LIKE ?", like, like, like, like)
	}
	var contacts []models.Contact
	if err := tx.Order("created_at DESC").Find(&contacts).Error; err != nil {
		return nil, err
	}
	return contacts, nil
}

// GetContact returns one contact by id.
func GetContact(db *gorm.DB, id string) (*models.Contact, error) {
	var contact models.Contact
	if err := db.Where("id = ?", id).First(&contact).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("איש קשר לא נמצא")
		}
		return nil, err
	}
	return &contact, nil
}

// CreateContact stores a new contact.
func CreateContact(db *gorm.DB, contact *models.Contact) error {
	if strings.TrimSpace(contact.Name) == "" {
		return types.Validation("נא להזין שם איש קשר")
	}
	return db.Create(contact).Error
}

// UpdateContact replaces the editable columns of a contact.
func UpdateContact(db *gorm.DB, id string, contact *models.Contact) (*models.Contact, error) {
	existing, err := GetContact(db, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(contact.Name) == "" {
		return nil, types.Validation("נא להזין שם איש קשר")
	}
	updates := map[string]interface{}{
		"name":     contact.Name,
		"email":    contact.Email,
		"phone":    contact.Phone,
		"company":  contact.Company,
		"position": contact.Position,
	}
	if err := db.Model(existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	return GetContact(db, id)
}

// DeleteContact removes a contact. Deals that referenced it keep a dangling
// contact id rather than being deleted.
func DeleteContact(db *gorm.DB, id string) error {
	res := db.Where("id = ?", id).Delete(&models.Contact{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.NotFound("איש קשר לא נמצא")
	}
	return nil
}

// ListDeals returns all deals with their contacts, newest first.
func ListDeals(db *gorm.DB) ([]models.Deal, error) {
	var deals []models.Deal
	if err := db.Preload("Contact").Order("created_at DESC").Find(&deals).Error; err != nil {
		return nil, err
	}
	return deals, nil
}

// GetDeal returns one deal by id.
func GetDeal(db *gorm.DB, id string) (*models.Deal, error) {
	var deal models.Deal
	if err := db.Preload("Contact").Where("id = ?", id).First(&deal).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("עסקה לא נמצאה")
		}
		return nil, err
	}
	return &deal, nil
}

// CreateDeal stores a new deal.
func CreateDeal(db *gorm.DB, deal *models.Deal) error {
	if strings.TrimSpace(deal.Title) == "" {
		return types.Validation("נא להזין כותרת לעסקה")
	}
	if deal.Stage == "" {
		deal.Stage = "lead"
	}
	return db.Create(deal).Error
}

// UpdateDeal replaces the editable columns of a deal.
func UpdateDeal(db *gorm.DB, id string, deal *models.Deal) (*models.Deal, error) {
	existing, err := GetDeal(db, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(deal.Title) == "" {
		return nil, types.Validation("נא להזין כותרת לעסקה")
	}
	updates := map[string]interface{}{
		"title":      deal.Title,
		"value":      deal.Value,
		"stage":      deal.Stage,
		"contact_id": deal.ContactID,
	}
	if err := db.Model(existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	return GetDeal(db, id)
}

// DeleteDeal removes a deal.
func DeleteDeal(db *gorm.DB, id string) error {
	res := db.Where("id = ?", id).Delete(&models.Deal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.NotFound("עסקה לא נמצאה")
	}
	return nil
}

// ListCertifications returns all certifications with their activities.
func ListCertifications(db *gorm.DB, search string) ([]models.Certification, error) {
	tx := db.Model(&models.Certification{}).Preload("User")
	if term := strings.TrimSpace(search); term != "" {
		like := "%" + term + "%"
		tx = tx.Where("name LIKE ? OR company LIKE ? OR contact_person LIKE ?", like, like, like)
	}
	var certs []models.Certification
	if err := tx.Order("created_at DESC").Find(&certs).Error; err != nil {
		return nil, err
	}
	return certs, nil
}

// GetCertification returns one certification with its activity timeline.
func GetCertification(db *gorm.DB, id string) (*models.Certification, error) {
	var cert models.Certification
	err := db.Preload("User").
		Preload("Activities", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at DESC")
		}).
		Where("id = ?", id).First(&cert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("תעודה לא נמצאה")
		}
		return nil, err
	}
	return &cert, nil
}

// fillHebrewDates derives the Hebrew display strings from the Gregorian
// dates whenever the caller did not supply them.
func fillHebrewDates(cert *models.Certification) {
	if cert.IssueDate != nil && cert.IssueDateHebrew == "" {
		cert.IssueDateHebrew = fields.FormatHebrewDate(cert.IssueDate.Format(time.DateOnly))
	}
	if cert.EndDate != nil && cert.EndDateHebrew == "" {
		cert.EndDateHebrew = fields.FormatHebrewDate(cert.EndDate.Format(time.DateOnly))
	}
}

// CreateCertification stores a new certification.
func CreateCertification(db *gorm.DB, cert *models.Certification) error {
	if strings.TrimSpace(cert.Name) == "" {
		return types.Validation("נא להזין שם תעודה")
	}
	fillHebrewDates(cert)
	return db.Create(cert).Error
}

// UpdateCertification replaces the editable columns of a certification.
func UpdateCertification(db *gorm.DB, id string, cert *models.Certification) (*models.Certification, error) {
	existing, err := GetCertification(db, id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cert.Name) == "" {
		return nil, types.Validation("נא להזין שם תעודה")
	}
	fillHebrewDates(cert)
	updates := map[string]interface{}{
		"company":           cert.Company,
		"name":              cert.Name,
		"field":             cert.Field,
		"certified_on":      cert.CertifiedOn,
		"status":            cert.Status,
		"issue_date":        cert.IssueDate,
		"issue_date_hebrew": cert.IssueDateHebrew,
		"end_date":          cert.EndDate,
		"end_date_hebrew":   cert.EndDateHebrew,
		"contact_person":    cert.ContactPerson,
		"user_id":           cert.UserID,
	}
	if err := db.Model(existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	return GetCertification(db, id)
}

// DeleteCertification removes a certification and its activities.
func DeleteCertification(db *gorm.DB, id string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var cert models.Certification
		if err := tx.Where("id = ?", id).First(&cert).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return types.NotFound("תעודה לא נמצאה")
			}
			return err
		}
		if err := tx.Where("certification_id = ?", id).Delete(&models.Activity{}).Error; err != nil {
			return err
		}
		return tx.Delete(&cert).Error
	})
}

// ListTasks returns CRM tasks, open items first then by due date.
func ListTasks(db *gorm.DB) ([]models.Task, error) {
	var tasks []models.Task
	err := db.Preload("Assignee").
		Order("completed ASC").
		Order("due_date ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask stores a new CRM task.
func CreateTask(db *gorm.DB, task *models.Task) error {
	if strings.TrimSpace(task.Title) == "" {
		return types.Validation("נא להזין כותרת למשימה")
	}
	return db.Create(task).Error
}

// UpdateTask replaces the editable columns of a CRM task.
func UpdateTask(db *gorm.DB, id string, task *models.Task) (*models.Task, error) {
	var existing models.Task
	if err := db.Where("id = ?", id).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("משימה לא נמצאה")
		}
		return nil, err
	}
	if strings.TrimSpace(task.Title) == "" {
		return nil, types.Validation("נא להזין כותרת למשימה")
	}
	updates := map[string]interface{}{
		"title":       task.Title,
		"completed":   task.Completed,
		"due_date":    task.DueDate,
		"customer_id": task.CustomerID,
		"assignee_id": task.AssigneeID,
	}
	if err := db.Model(&existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Assignee").Where("id = ?", id).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// DeleteTask removes a CRM task.
func DeleteTask(db *gorm.DB, id string) error {
	res := db.Where("id = ?", id).Delete(&models.Task{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.NotFound("משימה לא נמצאה")
	}
	return nil
}

// ListProducts returns the product catalog.
func ListProducts(db *gorm.DB) ([]models.Product, error) {
	var products []models.Product
	if err := db.Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct stores a new catalog item.
func CreateProduct(db *gorm.DB, product *models.Product) error {
	if strings.TrimSpace(product.Name) == "" {
		return types.Validation("נא להזין שם מוצר")
	}
	return db.Create(product).Error
}

// UpdateProduct replaces the editable columns of a product.
func UpdateProduct(db *gorm.DB, id string, product *models.Product) (*models.Product, error) {
	var existing models.Product
	if err := db.Where("id = ?", id).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("מוצר לא נמצא")
		}
		return nil, err
	}
	if strings.TrimSpace(product.Name) == "" {
		return nil, types.Validation("נא להזין שם מוצר")
	}
	updates := map[string]interface{}{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
	}
	if err := db.Model(&existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// DeleteProduct removes a catalog item.
func DeleteProduct(db *gorm.DB, id string) error {
	res := db.Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.NotFound("מוצר לא נמצא")
	}
	return nil
}

// ListOrders returns all orders with customer and product, newest first.
func ListOrders(db *gorm.DB) ([]models.Order, error) {
	var orders []models.Order
	err := db.Preload("Customer").Preload("Product").
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

// CreateOrder stores a new order. Total defaults to quantity times the
// product price when not supplied.
func CreateOrder(db *gorm.DB, order *models.Order) error {
	if order.Quantity <= 0 {
		order.Quantity = 1
	}
	if order.Status == "" {
		order.Status = "open"
	}
	if order.Total == 0 && order.ProductID != nil {
		var product models.Product
		if err := db.Where("id = ?", *order.ProductID).First(&product).Error; err == nil {
			order.Total = product.Price * float64(order.Quantity)
		}
	}
	return db.Create(order).Error
}

// UpdateOrder replaces the editable columns of an order.
func UpdateOrder(db *gorm.DB, id string, order *models.Order) (*models.Order, error) {
	var existing models.Order
	if err := db.Where("id = ?", id).First(&existing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NotFound("הזמנה לא נמצאה")
		}
		return nil, err
	}
	updates := map[string]interface{}{
		"customer_id": order.CustomerID,
		"product_id":  order.ProductID,
		"quantity":    order.Quantity,
		"status":      order.Status,
		"total":       order.Total,
	}
	if err := db.Model(&existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	if err := db.Preload("Customer").Preload("Product").Where("id = ?", id).First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// DeleteOrder removes an order.
func DeleteOrder(db *gorm.DB, id string) error {
	res := db.Where("id = ?", id).Delete(&models.Order{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.NotFound("הזמנה לא נמצאה")
	}
	return nil
}

// CreateActivity appends a timeline entry to a customer or certification.
func CreateActivity(db *gorm.DB, activity *models.Activity) error {
	if activity.CustomerID == nil && activity.CertificationID == nil {
		return types.Validation("פעילות חייבת להיות משויכת ללקוח או לתעודה")
	}
	if activity.Type == "" {
		activity.Type = "note"
	}
	return db.Create(activity).Error
}

// DeleteActivity removes a timeline entry.
func DeleteActivity(db *gorm.DB, id string) error {
	res := db.Where("id = ?", id).Delete(&models.Activity{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return types.NotFound("פעילות לא נמצאה")
	}
	return nil
}
