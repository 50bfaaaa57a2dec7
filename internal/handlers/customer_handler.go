package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"github.com/Keoroanthony/go-comic-rental/internal/models"
)

type CustomerRequest struct {
	FullName    string `json:"full_name" binding:"required,notblank"`
	PhoneNumber string `json:"phone_number" binding:"required,notblank"`
	// Defaults to the current time when omitted.
	RegistrationDate *time.Time `json:"registration_date"`
}

func (h *Handler) ListCustomers(c *gin.Context) {
	var customers []models.Customer
	if err := h.tx(c).Order(clause.OrderByColumn{Column: clause.Column{Name: "FullName"}}).Find(&customers).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, customers)
}

func (h *Handler) GetCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var customer models.Customer
	if err := h.tx(c).First(&customer, id).Error; err != nil {
		h.writeLookupError(c, err, "Customer", id)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer := models.Customer{
		FullName:         strings.TrimSpace(req.FullName),
		PhoneNumber:      strings.TrimSpace(req.PhoneNumber),
		RegistrationDate: time.Now().UTC(),
	}
	if req.RegistrationDate != nil {
		customer.RegistrationDate = req.RegistrationDate.UTC()
	}
	if err := h.tx(c).Create(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, customer)
}

func (h *Handler) UpdateCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gdb := h.tx(c)
	var customer models.Customer
	if err := gdb.First(&customer, id).Error; err != nil {
		h.writeLookupError(c, err, "Customer", id)
		return
	}
	customer.FullName = strings.TrimSpace(req.FullName)
	customer.PhoneNumber = strings.TrimSpace(req.PhoneNumber)
	if req.RegistrationDate != nil {
		customer.RegistrationDate = req.RegistrationDate.UTC()
	}
	if err := gdb.Save(&customer).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, customer)
}

// DeleteCustomer cascades to the customer's rentals and their lines.
func (h *Handler) DeleteCustomer(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res := h.tx(c).Delete(&models.Customer{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Customer not found with ID: %d", id)})
		return
	}
	c.Status(http.StatusNoContent)
}
