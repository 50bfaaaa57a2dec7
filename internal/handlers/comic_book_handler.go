package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Keoroanthony/go-comic-rental/internal/models"
)

type ComicBookRequest struct {
	Title       string          `json:"title" binding:"required,notblank"`
	Author      string          `json:"author" binding:"required,notblank"`
	PricePerDay decimal.Decimal `json:"price_per_day" binding:"decimalgte0,decimalscale2"`
}

func (r ComicBookRequest) comicBook() models.ComicBook {
	return models.ComicBook{
		Title:       strings.TrimSpace(r.Title),
		Author:      strings.TrimSpace(r.Author),
		PricePerDay: r.PricePerDay,
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid id"})
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) ListComicBooks(c *gin.Context) {
	var comics []models.ComicBook
	if err := h.tx(c).Order(clause.OrderByColumn{Column: clause.Column{Name: "Title"}}).Find(&comics).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, comics)
}

func (h *Handler) GetComicBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var comic models.ComicBook
	if err := h.tx(c).First(&comic, id).Error; err != nil {
		h.writeLookupError(c, err, "Comic book", id)
		return
	}
	c.JSON(http.StatusOK, comic)
}

func (h *Handler) CreateComicBook(c *gin.Context) {
	var req ComicBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comic := req.comicBook()
	if err := h.tx(c).Create(&comic).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, comic)
}

func (h *Handler) UpdateComicBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req ComicBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	gdb := h.tx(c)
	var comic models.ComicBook
	if err := gdb.First(&comic, id).Error; err != nil {
		h.writeLookupError(c, err, "Comic book", id)
		return
	}
	updated := req.comicBook()
	comic.Title, comic.Author, comic.PricePerDay = updated.Title, updated.Author, updated.PricePerDay
	if err := gdb.Save(&comic).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, comic)
}

// DeleteComicBook removes the comic book and, through the cascade, every
// rental line that referenced it.
func (h *Handler) DeleteComicBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	res := h.tx(c).Delete(&models.ComicBook{}, id)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Comic book not found with ID: %d", id)})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) writeLookupError(c *gin.Context, err error, what string, id uint) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("%s not found with ID: %d", what, id)})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
