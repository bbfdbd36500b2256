package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/keshercrm/kesher-crm/internal/models"
	"github.com/keshercrm/kesher-crm/internal/services"
	"github.com/keshercrm/kesher-crm/internal/utils"
	"gorm.io/gorm"
)

// CRMHandler handles the fixed CRM routes that predate the dynamic entity
// system: customers, contacts, deals, certifications, tasks, products,
// orders and activities.
type CRMHandler struct {
	DB *gorm.DB
}

// ListCustomers handles GET /api/customers
// @Summary List customers
// @Description Get customers filtered by search, status and settlement, with sorting
// @Tags CRM
// @Produce json
// @Param search query string false "Name or phone substring"
// @Param customerStatus query string false "Customer status filter"
// @Param donationStatus query string false "Donation status filter"
// @Param settlement query string false "Settlement filter"
// @Param sortBy query string false "Sort column"
// @Param sortDir query string false "asc or desc"
// @Success 200 {array} models.Customer
// @Router /customers [get]
func (h *CRMHandler) ListCustomers(c *fiber.Ctx) error {
	customers, err := services.ListCustomers(h.DB, services.CustomerQuery{
		Search:         c.Query("search"),
		CustomerStatus: c.Query("customerStatus"),
		DonationStatus: c.Query("donationStatus"),
		Settlement:     c.Query("settlement"),
		SortBy:         c.Query("sortBy"),
		SortDir:        c.Query("sortDir"),
	})
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(customers)
}

// GetCustomer handles GET /api/customers/:id
// @Summary Get a customer
// @Tags CRM
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} models.Customer
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /customers/{id} [get]
func (h *CRMHandler) GetCustomer(c *fiber.Ctx) error {
	customer, err := services.GetCustomer(h.DB, c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(customer)
}

// CreateCustomer handles POST /api/customers
// @Summary Create a customer
// @Tags CRM
// @Accept json
// @Produce json
// @Param body body models.Customer true "Customer"
// @Success 201 {object} models.Customer
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /customers [post]
func (h *CRMHandler) CreateCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	if err := c.BodyParser(&customer); err != nil {
		return invalidBody(c)
	}
	if err := services.CreateCustomer(h.DB, &customer); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(customer)
}

// UpdateCustomer handles PATCH /api/customers/:id
// @Summary Update a customer
// @Tags CRM
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param body body models.Customer true "Customer"
// @Success 200 {object} models.Customer
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /customers/{id} [patch]
func (h *CRMHandler) UpdateCustomer(c *fiber.Ctx) error {
	var customer models.Customer
	if err := c.BodyParser(&customer); err != nil {
		return invalidBody(c)
	}
	updated, err := services.UpdateCustomer(h.DB, c.Params("id"), &customer)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

// DeleteCustomer handles DELETE /api/customers/:id
// @Summary Delete a customer
// @Tags CRM
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} utils.OKResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /customers/{id} [delete]
func (h *CRMHandler) DeleteCustomer(c *fiber.Ctx) error {
	if err := services.DeleteCustomer(h.DB, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return utils.OKResponse(c)
}

// ListContacts handles GET /api/contacts
// @Summary List contacts
// @Tags CRM
// @Produce json
// @Param search query string false "Substring filter"
// @Success 200 {array} models.Contact
// @Router /contacts [get]
func (h *CRMHandler) ListContacts(c *fiber.Ctx) error {
	contacts, err := services.ListContacts(h.DB, c.Query("search"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(contacts)
}

// GetContact handles GET /api/contacts/:id
// @Summary Get a contact
// @Tags CRM
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} models.Contact
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /contacts/{id} [get]
func (h *CRMHandler) GetContact(c *fiber.Ctx) error {
	contact, err := services.GetContact(h.DB, c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(contact)
}

// CreateContact handles POST /api/contacts
// @Summary Create a contact
// @Tags CRM
// @Accept json
// @Produce json
// @Param body body models.Contact true "Contact"
// @Success 201 {object} models.Contact
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /contacts [post]
func (h *CRMHandler) CreateContact(c *fiber.Ctx) error {
	var contact models.Contact
	if err := c.BodyParser(&contact); err != nil {
		return invalidBody(c)
	}
	if err := services.CreateContact(h.DB, &contact); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(contact)
}

// UpdateContact handles PATCH /api/contacts/:id
// @Summary Update a contact
// @Tags CRM
// @Accept json
// @Produce json
// @Param id path string true "Contact ID"
// @Param body body models.Contact true "Contact"
// @Success 200 {object} models.Contact
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /contacts/{id} [patch]
func (h *CRMHandler) UpdateContact(c *fiber.Ctx) error {
	var contact models.Contact
	if err := c.BodyParser(&contact); err != nil {
		return invalidBody(c)
	}
	updated, err := services.UpdateContact(h.DB, c.Params("id"), &contact)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

// DeleteContact handles DELETE /api/contacts/:id
// @Summary Delete a contact
// @Tags CRM
// @Produce json
// @Param id path string true "Contact ID"
// @Success 200 {object} utils.OKResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /contacts/{id} [delete]
func (h *CRMHandler) DeleteContact(c *fiber.Ctx) error {
	if err := services.DeleteContact(h.DB, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return utils.OKResponse(c)
}

// ListDeals handles GET /api/deals
// @Summary List deals
// @Tags CRM
// @Produce json
// @Success 200 {array} models.Deal
// @Router /deals [get]
func (h *CRMHandler) ListDeals(c *fiber.Ctx) error {
	deals, err := services.ListDeals(h.DB)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(deals)
}

// CreateDeal handles POST /api/deals
// @Summary Create a deal
// @Tags CRM
// @Accept json
// @Produce json
// @Param body body models.Deal true "Deal"
// @Success 201 {object} models.Deal
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /deals [post]
func (h *CRMHandler) CreateDeal(c *fiber.Ctx) error {
	var deal models.Deal
	if err := c.BodyParser(&deal); err != nil {
		return invalidBody(c)
	}
	if err := services.CreateDeal(h.DB, &deal); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(deal)
}

// UpdateDeal handles PATCH /api/deals/:id
// @Summary Update a deal
// @Tags CRM
// @Accept json
// @Produce json
// @Param id path string true "Deal ID"
// @Param body body models.Deal true "Deal"
// @Success 200 {object} models.Deal
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /deals/{id} [patch]
func (h *CRMHandler) UpdateDeal(c *fiber.Ctx) error {
	var deal models.Deal
	if err := c.BodyParser(&deal); err != nil {
		return invalidBody(c)
	}
	updated, err := services.UpdateDeal(h.DB, c.Params("id"), &deal)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

// DeleteDeal handles DELETE /api/deals/:id
// @Summary Delete a deal
// @Tags CRM
// @Produce json
// @Param id path string true "Deal ID"
// @Success 200 {object} utils.OKResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /deals/{id} [delete]
func (h *CRMHandler) DeleteDeal(c *fiber.Ctx) error {
	if err := services.DeleteDeal(h.DB, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return utils.OKResponse(c)
}

// ListCertifications handles GET /api/certifications
// @Summary List certifications
// @Tags CRM
// @Produce json
// @Param search query string false "Substring filter"
// @Success 200 {array} models.Certification
// @Router /certifications [get]
func (h *CRMHandler) ListCertifications(c *fiber.Ctx) error {
	certs, err := services.ListCertifications(h.DB, c.Query("search"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(certs)
}

// GetCertification handles GET /api/certifications/:id
// @Summary Get a certification
// @Tags CRM
// @Produce json
// @Param id path string true "Certification ID"
// @Success 200 {object} models.Certification
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /certifications/{id} [get]
func (h *CRMHandler) GetCertification(c *fiber.Ctx) error {
	cert, err := services.GetCertification(h.DB, c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(cert)
}

// CreateCertification handles POST /api/certifications
// @Summary Create a certification
// @Description Create a certification; Hebrew date strings are derived from the Gregorian dates when omitted
// @Tags CRM
// @Accept json
// @Produce json
// @Param body body models.Certification true "Certification"
// @Success 201 {object} models.Certification
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /certifications [post]
func (h *CRMHandler) CreateCertification(c *fiber.Ctx) error {
	var cert models.Certification
	if err := c.BodyParser(&cert); err != nil {
		return invalidBody(c)
	}
	if err := services.CreateCertification(h.DB, &cert); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(cert)
}

// UpdateCertification handles PATCH /api/certifications/:id
// @Summary Update a certification
// @Tags CRM
// @Accept json
// @Produce json
// @Param id path string true "Certification ID"
// @Param body body models.Certification true "Certification"
// @Success 200 {object} models.Certification
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /certifications/{id} [patch]
func (h *CRMHandler) UpdateCertification(c *fiber.Ctx) error {
	var cert models.Certification
	if err := c.BodyParser(&cert); err != nil {
		return invalidBody(c)
	}
	updated, err := services.UpdateCertification(h.DB, c.Params("id"), &cert)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

// DeleteCertification handles DELETE /api/certifications/:id
// @Summary Delete a certification
// @Tags CRM
// @Produce json
// @Param id path string true "Certification ID"
// @Success 200 {object} utils.OKResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /certifications/{id} [delete]
func (h *CRMHandler) DeleteCertification(c *fiber.Ctx) error {
	if err := services.DeleteCertification(h.DB, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return utils.OKResponse(c)
}

// ListTasks handles GET /api/tasks
// @Summary List CRM tasks
// @Tags CRM
// @Produce json
// @Success 200 {array} models.Task
// @Router /tasks [get]
func (h *CRMHandler) ListTasks(c *fiber.Ctx) error {
	tasks, err := services.ListTasks(h.DB)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(tasks)
}

// CreateTask handles POST /api/tasks
// @Summary Create a CRM task
// @Tags CRM
// @Accept json
// @Produce json
// @Param body body models.Task true "Task"
// @Success 201 {object} models.Task
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /tasks [post]
func (h *CRMHandler) CreateTask(c *fiber.Ctx) error {
	var task models.Task
	if err := c.BodyParser(&task); err != nil {
		return invalidBody(c)
	}
	if err := services.CreateTask(h.DB, &task); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// UpdateTask handles PATCH /api/tasks/:id
// @Summary Update a CRM task
// @Tags CRM
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param body body models.Task true "Task"
// @Success 200 {object} models.Task
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tasks/{id} [patch]
func (h *CRMHandler) UpdateTask(c *fiber.Ctx) error {
	var task models.Task
	if err := c.BodyParser(&task); err != nil {
		return invalidBody(c)
	}
	updated, err := services.UpdateTask(h.DB, c.Params("id"), &task)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

// DeleteTask handles DELETE /api/tasks/:id
// @Summary Delete a CRM task
// @Tags CRM
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} utils.OKResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /tasks/{id} [delete]
func (h *CRMHandler) DeleteTask(c *fiber.Ctx) error {
	if err := services.DeleteTask(h.DB, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return utils.OKResponse(c)
}

// ListProducts handles GET /api/products
// @Summary List products
// @Tags CRM
// @Produce json
// @Success 200 {array} models.Product
// @Router /products [get]
func (h *CRMHandler) ListProducts(c *fiber.Ctx) error {
	products, err := services.ListProducts(h.DB)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(products)
}

// CreateProduct handles POST /api/products
// @Summary Create a product
// @Tags CRM
// @Accept json
// @Produce json
// @Param body body models.Product true "Product"
// @Success 201 {object} models.Product
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /products [post]
func (h *CRMHandler) CreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return invalidBody(c)
	}
	if err := services.CreateProduct(h.DB, &product); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// UpdateProduct handles PATCH /api/products/:id
// @Summary Update a product
// @Tags CRM
// @Accept json
// @Produce json
// @Param id path string true "Product ID"
// @Param body body models.Product true "Product"
// @Success 200 {object} models.Product
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{id} [patch]
func (h *CRMHandler) UpdateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		return invalidBody(c)
	}
	updated, err := services.UpdateProduct(h.DB, c.Params("id"), &product)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

// DeleteProduct handles DELETE /api/products/:id
// @Summary Delete a product
// @Tags CRM
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} utils.OKResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /products/{id} [delete]
func (h *CRMHandler) DeleteProduct(c *fiber.Ctx) error {
	if err := services.DeleteProduct(h.DB, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return utils.OKResponse(c)
}

// ListOrders handles GET /api/orders
// @Summary List orders
// @Tags CRM
// @Produce json
// @Success 200 {array} models.Order
// @Router /orders [get]
func (h *CRMHandler) ListOrders(c *fiber.Ctx) error {
	orders, err := services.ListOrders(h.DB)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(orders)
}

// CreateOrder handles POST /api/orders
// @Summary Create an order
// @Tags CRM
// @Accept json
// @Produce json
// @Param body body models.Order true "Order"
// @Success 201 {object} models.Order
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /orders [post]
func (h *CRMHandler) CreateOrder(c *fiber.Ctx) error {
	var order models.Order
	if err := c.BodyParser(&order); err != nil {
		return invalidBody(c)
	}
	if err := services.CreateOrder(h.DB, &order); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// UpdateOrder handles PATCH /api/orders/:id
// @Summary Update an order
// @Tags CRM
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param body body models.Order true "Order"
// @Success 200 {object} models.Order
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /orders/{id} [patch]
func (h *CRMHandler) UpdateOrder(c *fiber.Ctx) error {
	var order models.Order
	if err := c.BodyParser(&order); err != nil {
		return invalidBody(c)
	}
	updated, err := services.UpdateOrder(h.DB, c.Params("id"), &order)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(updated)
}

// DeleteOrder handles DELETE /api/orders/:id
// @Summary Delete an order
// @Tags CRM
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} utils.OKResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /orders/{id} [delete]
func (h *CRMHandler) DeleteOrder(c *fiber.Ctx) error {
	if err := services.DeleteOrder(h.DB, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return utils.OKResponse(c)
}

// CreateActivity handles POST /api/activities
// @Summary Create a timeline entry
// @Description Append a note or event to a customer or certification timeline
// @Tags CRM
// @Accept json
// @Produce json
// @Param body body models.Activity true "Activity"
// @Success 201 {object} models.Activity
// @Failure 400 {object} utils.ErrorResponseStruct
// @Router /activities [post]
func (h *CRMHandler) CreateActivity(c *fiber.Ctx) error {
	var activity models.Activity
	if err := c.BodyParser(&activity); err != nil {
		return invalidBody(c)
	}
	if err := services.CreateActivity(h.DB, &activity); err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(activity)
}

// DeleteActivity handles DELETE /api/activities/:id
// @Summary Delete a timeline entry
// @Tags CRM
// @Produce json
// @Param id path string true "Activity ID"
// @Success 200 {object} utils.OKResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /activities/{id} [delete]
func (h *CRMHandler) DeleteActivity(c *fiber.Ctx) error {
	if err := services.DeleteActivity(h.DB, c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return utils.OKResponse(c)
}
