package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/Keoroanthony/go-comic-rental/internal/rentals"
)

type RentalDetailRequest struct {
	ComicBookID uint `json:"comic_book_id" binding:"required"`
	Quantity    int  `json:"quantity" binding:"required,gte=1"`
	// Omit to use the comic book's current price.
	PricePerDay *decimal.Decimal `json:"price_per_day" binding:"omitempty,decimalgte0,decimalscale2"`
}

type CreateRentalRequest struct {
	CustomerID uint                  `json:"customer_id" binding:"required"`
	ReturnDate *time.Time            `json:"return_date"`
	Status     string                `json:"status"`
	Details    []RentalDetailRequest `json:"details" binding:"dive"`
}

func (r CreateRentalRequest) input() rentals.CreateInput {
	in := rentals.CreateInput{
		CustomerID: r.CustomerID,
		ReturnDate: r.ReturnDate,
		Status:     r.Status,
		Lines:      make([]rentals.LineInput, 0, len(r.Details)),
	}
	for _, d := range r.Details {
		in.Lines = append(in.Lines, rentals.LineInput{
			ComicBookID: d.ComicBookID,
			Quantity:    d.Quantity,
			PricePerDay: d.PricePerDay,
		})
	}
	return in
}

func (h *Handler) ListRentalsJSON(c *gin.Context) {
	list, err := h.Rentals.List(c.Request.Context(), h.DB)
	if err != nil {
		h.writeRentalError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handler) GetRentalJSON(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	rental, err := h.Rentals.Get(c.Request.Context(), h.DB, id)
	if err != nil {
		h.writeRentalError(c, err)
		return
	}
	c.JSON(http.StatusOK, rental)
}

func (h *Handler) CreateRentalJSON(c *gin.Context) {
	var req CreateRentalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rental, err := h.Rentals.Create(c.Request.Context(), h.DB, req.input())
	if err != nil {
		h.writeRentalError(c, err)
		return
	}

	h.afterCreate(c, *rental)
	c.JSON(http.StatusCreated, rental)
}

// DeleteRentalJSON answers 204 whether or not the rental existed.
func (h *Handler) DeleteRentalJSON(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	deleted, err := h.Rentals.Delete(c.Request.Context(), h.DB, id)
	if err != nil {
		h.writeRentalError(c, err)
		return
	}
	if deleted {
		h.afterDelete(c, id)
	}
	c.Status(http.StatusNoContent)
}
