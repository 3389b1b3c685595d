package routes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/nur922184/server-workbd/controllers/auth"
	"github.com/nur922184/server-workbd/controllers/users"
	"github.com/nur922184/server-workbd/middleware"
)

// UsersRoutes registers all user-facing routes on the given subrouter.
func UsersRoutes(api *mux.Router) {
	// Register & Login
	api.Handle("/register", http.HandlerFunc(auth.RegisterHandler)).Methods(http.MethodPost)
	api.Handle("/login", http.HandlerFunc(auth.LoginHandler)).Methods(http.MethodPost)

	// Account
	api.Handle("/users/info", middleware.AuthMiddleware(http.HandlerFunc(users.GetInfo))).Methods(http.MethodGet)
	api.Handle("/users/transactions", middleware.AuthMiddleware(http.HandlerFunc(users.GetTransactionHistory))).Methods(http.MethodGet)

	// Deposits
	api.Handle("/users/deposit", middleware.AuthMiddleware(http.HandlerFunc(users.SubmitDeposit))).Methods(http.MethodPost)

	// Withdrawals
	api.Handle("/users/payment-methods", middleware.AuthMiddleware(http.HandlerFunc(users.AddPaymentMethod))).Methods(http.MethodPost)
	api.Handle("/users/payment-methods", middleware.AuthMiddleware(http.HandlerFunc(users.ListPaymentMethods))).Methods(http.MethodGet)
	api.Handle("/users/withdrawal", middleware.AuthMiddleware(http.HandlerFunc(users.SubmitWithdrawal))).Methods(http.MethodPost)
	api.Handle("/users/withdrawal", middleware.AuthMiddleware(http.HandlerFunc(users.ListWithdrawals))).Methods(http.MethodGet)

	// Products & holdings
	api.Handle("/products", http.HandlerFunc(users.ListProducts)).Methods(http.MethodGet)
	api.Handle("/users/purchase", middleware.AuthMiddleware(http.HandlerFunc(users.PurchaseProduct))).Methods(http.MethodPost)
	api.Handle("/users/holdings", middleware.AuthMiddleware(http.HandlerFunc(users.ListHoldings))).Methods(http.MethodGet)

	// Referral team
	api.Handle("/users/team", middleware.AuthMiddleware(http.HandlerFunc(users.GetTeam))).Methods(http.MethodGet)
	api.Handle("/users/commissions", middleware.AuthMiddleware(http.HandlerFunc(users.GetCommissionHistory))).Methods(http.MethodGet)
}
