package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nur922184/server-workbd/controllers/admins"
	"github.com/nur922184/server-workbd/middleware"
)

// SetAdminRoutes registers all admin routes on the given subrouter.
func SetAdminRoutes(api *mux.Router) {
	api.Handle("/admins/login", http.HandlerFunc(admins.LoginHandler)).Methods(http.MethodPost)

	protected := api.PathPrefix("/admins").Subrouter()
	protected.Use(middleware.AdminAuthMiddleware)

	protected.Handle("/users", http.HandlerFunc(admins.ListUsers)).Methods(http.MethodGet)

	protected.Handle("/transactions", http.HandlerFunc(admins.ListTransactions)).Methods(http.MethodGet)
	protected.Handle("/transactions/{id}/status", http.HandlerFunc(admins.SetTransactionStatus)).Methods(http.MethodPut)
	protected.Handle("/transactions/{id}/reverse", http.HandlerFunc(admins.ReverseTransaction)).Methods(http.MethodPost)

	protected.Handle("/withdrawals", http.HandlerFunc(admins.ListWithdrawals)).Methods(http.MethodGet)
	protected.Handle("/withdrawals/{id}/status", http.HandlerFunc(admins.SetWithdrawalStatus)).Methods(http.MethodPut)

	protected.Handle("/products", http.HandlerFunc(admins.ListProducts)).Methods(http.MethodGet)
	protected.Handle("/products", http.HandlerFunc(admins.CreateProduct)).Methods(http.MethodPost)
	protected.Handle("/products/{id}", http.HandlerFunc(admins.UpdateProduct)).Methods(http.MethodPut)
}
