package api

import (
	v1 "github.com/campusperks/points-services/pointsgateway/internal/api/v1"
	"github.com/gofiber/fiber/v2"
)

const prefixV1 = "/api/v1"

func SetupRoutes(app *fiber.App, handler *v1.Handler, authenticate fiber.Handler) {
	app.Get("/ping", handler.Pong)

	api := app.Group(prefixV1, authenticate)

	api.Post("/accounts", handler.CreateAccount)
	api.Get("/accounts/:id", handler.GetAccount)
	api.Patch("/accounts/:id/status", handler.UpdateAccountStatus)

	api.Post("/transactions/purchase", handler.CreatePurchase)
	api.Post("/transactions/redemption", handler.CreateRedemption)
	api.Post("/transactions/adjustment", handler.CreateAdjustment)
	api.Post("/transactions/transfer", handler.CreateTransfer)
	api.Patch("/transactions/:id/processed", handler.ProcessRedemption)
	api.Patch("/transactions/:id/suspicious", handler.SetSuspicious)
	api.Patch("/transactions/:id/amount", handler.UpdateAmount)
	api.Patch("/transactions/:id/spent", handler.UpdateSpent)
	api.Get("/transactions/:id", handler.GetTransaction)
	api.Get("/users/:userId/transactions", handler.ListUserTransactions)

	api.Post("/promotions", handler.CreatePromotion)
	api.Get("/promotions", handler.ListPromotions)
	api.Get("/promotions/:id", handler.GetPromotion)
	api.Patch("/promotions/:id", handler.UpdatePromotion)
	api.Delete("/promotions/:id", handler.DeletePromotion)

	api.Post("/events", handler.CreateEvent)
	api.Get("/events", handler.ListEvents)
	api.Get("/events/:id", handler.GetEvent)
	api.Patch("/events/:id", handler.UpdateEvent)
	api.Post("/events/:id/guests", handler.AddGuest)
	api.Delete("/events/:id/guests/:userId", handler.RemoveGuest)
	api.Post("/events/:id/organizers", handler.AddOrganizer)
	api.Post("/events/:id/transactions", handler.AwardPoints)
}
