package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Arzion032/binhi-fms-backend/internal/config"
	"github.com/Arzion032/binhi-fms-backend/internal/transport/httpserver/handler"
	authmw "github.com/Arzion032/binhi-fms-backend/internal/transport/httpserver/middleware"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, jwtAuth *authmw.JWTAuth, uploadsDir string) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	r.Get("/health", handlers.Health)

	r.Post("/users/signup", handlers.Signup)
	r.Post("/users/login", handlers.Login)
	r.Post("/users/refresh", handlers.RefreshToken)
	r.Post("/users/request-verification/", handlers.RequestVerification)
	r.Get("/users/verify-email/", handlers.VerifyEmail)

	if uploadsDir != "" {
		fileServer := http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploadsDir)))
		r.Get("/uploads/*", fileServer.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(jwtAuth.Middleware)

		r.Post("/users/logout", handlers.Logout)

		r.Get("/associations/", handlers.ListAssociations)
		r.Post("/associations/", handlers.CreateAssociation)
		r.Get("/associations/{id}/", handlers.GetAssociation)
		r.Patch("/associations/{id}/", handlers.UpdateAssociation)
		r.Delete("/associations/{id}/", handlers.DeleteAssociation)

		r.Get("/farmers/", handlers.ListFarmers)
		r.Post("/farmers/", handlers.CreateFarmer)
		r.Get("/farmers/{code}/", handlers.GetFarmer)
		r.Patch("/farmers/{code}/", handlers.UpdateFarmer)
		r.Delete("/farmers/{code}/", handlers.DeleteFarmer)

		r.Get("/products/", handlers.ListProducts)
		r.Get("/products/{id}/", handlers.GetProduct)
		r.Post("/products/create/", handlers.CreateProduct)
		r.Put("/products/update/{id}/", handlers.UpdateProduct)
		r.Delete("/products/delete/{id}/", handlers.DeleteProduct)
		r.Post("/products/{id}/images/", handlers.UploadProductImage)
		r.Delete("/products/images/{id}/", handlers.DeleteProductImage)

		r.Get("/categories/", handlers.ListCategories)
		r.Get("/categories/{id}/", handlers.GetCategory)

		r.Get("/inventory/", handlers.ListInventory)
		r.Post("/add_inventory_item/", handlers.AddInventoryItem)
		r.Patch("/inventory/{id}/", handlers.UpdateInventoryItem)
		r.Post("/delete_inventory_item/", handlers.DeleteInventoryItem)
		r.Post("/rent_item/", handlers.RentItem)
		r.Post("/return_item/{rental_id}/", handlers.ReturnItem)

		r.Get("/cart/", handlers.GetCart)
		r.Post("/cart/items/", handlers.AddCartItem)
		r.Delete("/cart/items/{variation_id}/", handlers.RemoveCartItem)

		r.Post("/orders/confirm/", handlers.Checkout)
		r.Get("/order-history/", handlers.OrderHistory)
		r.Get("/orders/", handlers.ListOrders)
		r.Get("/orders/status_counts/", handlers.OrderStatusCounts)
		r.Get("/orders/{id}/", handlers.GetOrder)
		r.Patch("/orders/{id}/status/", handlers.UpdateOrderStatus)
		r.Patch("/transactions/{id}/status/", handlers.UpdateTransactionStatus)

		r.Get("/member_profile/{user_id}", handlers.GetMemberProfile)
		r.Get("/user_with_profile/{user_id}/", handlers.GetUserWithProfile)
		r.Post("/create_member_profile/{user_id}", handlers.CreateMemberProfile)
		r.Put("/update_member_profile/{user_id}", handlers.UpdateMemberProfile)

		// admin surface
		r.Group(func(r chi.Router) {
			r.Use(authmw.RequireAdmin)

			r.Post("/products/batch-delete/", handlers.BatchDeleteProducts)
			r.Patch("/products/accept/{id}/", handlers.AcceptProduct)
			r.Patch("/products/reject/{id}/", handlers.RejectProduct)

			r.Post("/categories/", handlers.CreateCategory)
			r.Patch("/categories/{id}/", handlers.UpdateCategory)
			r.Delete("/categories/{id}/", handlers.DeleteCategory)

			r.Get("/inventory/rentals/list/", handlers.ListRentals)

			r.Post("/orders/bulk_delete/", handlers.BulkDeleteOrders)

			r.Get("/federation_balance/", handlers.FederationBalance)
			r.Get("/transactions", handlers.ListFinanceTransactions)
			r.Post("/add_transaction/", handlers.AddFinanceTransaction)
			r.Post("/del_transaction/", handlers.DeleteFinanceTransaction)

			r.Get("/members/", handlers.ListMembers)
			r.Get("/members/pending/", handlers.ListPendingMembers)
			r.Get("/members/rejected/", handlers.ListRejectedMembers)
			r.Post("/add_members/", handlers.AddMember)
			r.Patch("/update_member/{user_id}", handlers.UpdateMember)
			r.Delete("/delete_members/{user_id}", handlers.DeleteMember)
			r.Patch("/accept_member/{user_id}", handlers.AcceptMember)
			r.Patch("/reject_member/{user_id}", handlers.RejectMember)
		})
	})

	return r
}
