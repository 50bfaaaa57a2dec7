package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"

	"github.com/Keoroanthony/go-comic-rental/internal/auth"
	"github.com/Keoroanthony/go-comic-rental/internal/logging"
	"github.com/Keoroanthony/go-comic-rental/internal/models"
	"github.com/Keoroanthony/go-comic-rental/internal/rentals"
	"github.com/Keoroanthony/go-comic-rental/internal/utils"
)

const (
	// CreateFailedMessage is shown when the rental could not be stored.
	CreateFailedMessage = "An error occurred while creating the rental."
	// InvalidFormMessage heads the list of rejected fields.
	InvalidFormMessage = "Please correct the highlighted fields."
)

const (
	formDateLayout = "2006-01-02"
	minFormRows    = 3
)

// rentalForm carries the create form's raw values so they survive a redisplay.
type rentalForm struct {
	CustomerID string
	ReturnDate string
	Status     string
	Rows       []utils.DetailRow
}

func (f rentalForm) padded() rentalForm {
	for len(f.Rows) < minFormRows {
		f.Rows = append(f.Rows, utils.DetailRow{Index: len(f.Rows)})
	}
	return f
}

// fieldErrors maps a form input name to the reason it was rejected.
type fieldErrors map[string]string

func (e fieldErrors) add(err error) {
	var ve *rentals.ValidationError
	if errors.As(err, &ve) {
		e[ve.Field] = ve.Reason
	}
}

// input converts the form, collecting every malformed field.
func (f rentalForm) input() (rentals.CreateInput, fieldErrors) {
	var in rentals.CreateInput
	errs := fieldErrors{}

	id, err := strconv.ParseUint(f.CustomerID, 10, 64)
	if err != nil || id == 0 {
		errs["CustomerID"] = "must reference a customer"
	}
	in.CustomerID = uint(id)

	if f.ReturnDate != "" {
		d, err := time.Parse(formDateLayout, f.ReturnDate)
		if err != nil {
			errs["ReturnDate"] = "must be a date (YYYY-MM-DD)"
		} else {
			in.ReturnDate = &d
		}
	}
	in.Status = f.Status

	for _, row := range f.Rows {
		line, err := row.Line()
		if err != nil {
			errs.add(err)
			continue
		}
		in.Lines = append(in.Lines, line)
	}
	return in, errs
}

func (h *Handler) ListRentals(c *gin.Context) {
	list, err := h.Rentals.List(c.Request.Context(), h.DB)
	if err != nil {
		h.logRentalError(c, err, "list rentals failed")
		c.String(http.StatusInternalServerError, "failed to load rentals")
		return
	}
	c.HTML(http.StatusOK, "rental_index.html", gin.H{"Title": "Rentals", "Rentals": list})
}

func (h *Handler) RentalDetails(c *gin.Context) {
	rental, ok := h.loadRental(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "rental_details.html", gin.H{"Title": "Rental details", "Rental": rental})
}

func (h *Handler) CreateRentalForm(c *gin.Context) {
	h.renderCreate(c, rentalForm{}.padded(), "", fieldErrors{})
}

func (h *Handler) CreateRental(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.logRentalError(c, &rentals.ValidationError{Field: "Form", Reason: err.Error()}, "rental form unreadable")
		h.renderCreate(c, rentalForm{}.padded(), InvalidFormMessage, fieldErrors{"Form": "could not be read"})
		return
	}
	form := rentalForm{
		CustomerID: strings.TrimSpace(c.PostForm("CustomerID")),
		ReturnDate: strings.TrimSpace(c.PostForm("ReturnDate")),
		Status:     strings.TrimSpace(c.PostForm("Status")),
		Rows:       utils.ParseRentalDetails(c.Request.PostForm),
	}
	// Rows are redisplayed in order, so errors are keyed by position.
	for i := range form.Rows {
		form.Rows[i].Index = i
	}

	in, errs := form.input()
	if len(errs) > 0 {
		h.Log.Warn().Str("req_id", logging.GetRequestID(c)).Interface("fields", errs).Msg("rental form rejected")
		h.renderCreate(c, form.padded(), InvalidFormMessage, errs)
		return
	}

	rental, err := h.Rentals.Create(c.Request.Context(), h.DB, in)
	if rentals.IsValidation(err) {
		h.logRentalError(c, err, "rental input rejected")
		errs.add(err)
		h.renderCreate(c, form.padded(), InvalidFormMessage, errs)
		return
	}
	if err != nil {
		h.logRentalError(c, err, "create rental failed")
		h.renderCreate(c, form.padded(), CreateFailedMessage, errs)
		return
	}

	h.afterCreate(c, *rental)
	c.Redirect(http.StatusFound, "/rentals")
}

func (h *Handler) DeleteRentalConfirm(c *gin.Context) {
	rental, ok := h.loadRental(c)
	if !ok {
		return
	}
	token, err := auth.Token(c)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to issue anti-forgery token")
		return
	}
	c.HTML(http.StatusOK, "rental_delete.html", gin.H{"Title": "Delete rental", "Rental": rental, "CSRFToken": token})
}

// DeleteRental redirects to the list whether or not the rental existed.
func (h *Handler) DeleteRental(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.Redirect(http.StatusFound, "/rentals")
		return
	}
	deleted, err := h.Rentals.Delete(c.Request.Context(), h.DB, uint(id))
	if err != nil {
		h.logRentalError(c, err, "delete rental failed")
		c.String(http.StatusInternalServerError, "failed to delete rental")
		return
	}
	if deleted {
		h.afterDelete(c, uint(id))
	}
	c.Redirect(http.StatusFound, "/rentals")
}

func (h *Handler) loadRental(c *gin.Context) (*models.Rental, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.String(http.StatusNotFound, "Rental not found")
		return nil, false
	}
	rental, err := h.Rentals.Get(c.Request.Context(), h.DB, uint(id))
	if errors.Is(err, rentals.ErrNotFound) {
		c.String(http.StatusNotFound, "Rental not found")
		return nil, false
	}
	if err != nil {
		h.logRentalError(c, err, "load rental failed")
		c.String(http.StatusInternalServerError, "failed to load rental")
		return nil, false
	}
	return rental, true
}

// renderCreate shows the form with freshly loaded dropdown choices.
func (h *Handler) renderCreate(c *gin.Context, form rentalForm, message string, errs fieldErrors) {
	gdb := h.tx(c)

	var customers []models.Customer
	if err := gdb.Order(clause.OrderByColumn{Column: clause.Column{Name: "FullName"}}).Find(&customers).Error; err != nil {
		h.logRentalError(c, err, "load customers failed")
		c.String(http.StatusInternalServerError, "failed to load customers")
		return
	}
	var comics []models.ComicBook
	if err := gdb.Order(clause.OrderByColumn{Column: clause.Column{Name: "Title"}}).Find(&comics).Error; err != nil {
		h.logRentalError(c, err, "load comic books failed")
		c.String(http.StatusInternalServerError, "failed to load comic books")
		return
	}

	token, err := auth.Token(c)
	if err != nil {
		c.String(http.StatusInternalServerError, "failed to issue anti-forgery token")
		return
	}

	c.HTML(http.StatusOK, "rental_create.html", gin.H{
		"Title":       "Create rental",
		"Error":       message,
		"FieldErrors": errs,
		"CSRFToken":   token,
		"Customers":   customers,
		"ComicBooks":  comics,
		"Form":        form,
	})
}
