package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Keoroanthony/go-comic-rental/internal/auth"
)

// Register mounts the HTML screens and the JSON API. The engine must already
// run the sessions middleware and have the web templates loaded.
func (h *Handler) Register(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, "/rentals") })

	html := r.Group("/rentals")
	html.Use(auth.RequireCSRF())
	{
		html.GET("", h.ListRentals)
		html.GET("/create", h.CreateRentalForm)
		html.POST("/create", h.CreateRental)
		html.GET("/:id", h.RentalDetails)
		html.GET("/:id/delete", h.DeleteRentalConfirm)
		html.POST("/:id/delete", h.DeleteRental)
	}

	api := r.Group("/api")
	{
		api.GET("/comicbooks", h.ListComicBooks)
		api.POST("/comicbooks", h.CreateComicBook)
		api.GET("/comicbooks/:id", h.GetComicBook)
		api.PUT("/comicbooks/:id", h.UpdateComicBook)
		api.DELETE("/comicbooks/:id", h.DeleteComicBook)

		api.GET("/customers", h.ListCustomers)
		api.POST("/customers", h.CreateCustomer)
		api.GET("/customers/:id", h.GetCustomer)
		api.PUT("/customers/:id", h.UpdateCustomer)
		api.DELETE("/customers/:id", h.DeleteCustomer)

		api.GET("/rentals", h.ListRentalsJSON)
		api.POST("/rentals", h.CreateRentalJSON)
		api.GET("/rentals/:id", h.GetRentalJSON)
		api.DELETE("/rentals/:id", h.DeleteRentalJSON)
	}
}
