package routes

import (
	"github.com/gofiber/fiber/v2"

	"invoicedesk-backend/controllers"
	"invoicedesk-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App, uploadDir string) {
	// Generated PDFs and uploaded source documents are served statically;
	// content type is derived from the extension (.pdf -> application/pdf).
	app.Static("/uploads", uploadDir)

	api := app.Group("/api")

	api.Get("/invoices", controllers.GetInvoices)
	// Creation sends an email; the idempotency guard keeps client retries
	// from double-inserting or double-sending.
	api.Post("/invoices", middlewares.Idempotency(), controllers.CreateInvoice)
	api.Put("/invoices/:id", controllers.UpdateInvoice)
	api.Delete("/invoices/:id", controllers.DeleteInvoice)
	api.Get("/invoices/pdf/:filename", controllers.GetInvoicePDF)
}
