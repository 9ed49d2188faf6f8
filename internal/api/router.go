package api

import (
	"database/sql"
	"net/http"

	"github.com/zanvidmar/oprema/internal/config"
	"github.com/zanvidmar/oprema/internal/model"
	"github.com/zanvidmar/oprema/internal/reminder"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret string, loan config.LoanConfig,
	engine *reminder.Engine, scheduler *reminder.Scheduler) http.Handler {

	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	assetsHandler := &AssetsHandler{DB: db}
	masterHandler := &MasterDataHandler{DB: db}
	unitsHandler := &UnitsHandler{DB: db, Loan: loan}
	settingsHandler := &SettingsHandler{DB: db, Scheduler: scheduler, Engine: engine}
	auditHandler := &AuditHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Assets: read (all roles), write (manager+).
	mux.Handle("GET /api/assets", authMW(http.HandlerFunc(assetsHandler.List)))
	mux.Handle("POST /api/assets", authMW(requireManager(http.HandlerFunc(assetsHandler.Create))))
	mux.Handle("GET /api/assets/{id}", authMW(http.HandlerFunc(assetsHandler.Get)))
	mux.Handle("PUT /api/assets/{id}", authMW(requireManager(http.HandlerFunc(assetsHandler.Update))))
	mux.Handle("DELETE /api/assets/{id}", authMW(requireManager(http.HandlerFunc(assetsHandler.Retire))))
	mux.Handle("PUT /api/assets/{id}/photo", authMW(requireManager(http.HandlerFunc(assetsHandler.UploadPhoto))))
	mux.Handle("GET /api/assets/{id}/photo", authMW(http.HandlerFunc(assetsHandler.GetPhoto)))

	// Master data: read (all roles), write (manager+).
	mux.Handle("GET /api/asset-types", authMW(http.HandlerFunc(masterHandler.ListAssetTypes)))
	mux.Handle("POST /api/asset-types", authMW(requireManager(http.HandlerFunc(masterHandler.CreateAssetType))))
	mux.Handle("DELETE /api/asset-types/{id}", authMW(requireManager(http.HandlerFunc(masterHandler.DeleteAssetType))))
	mux.Handle("GET /api/vendors", authMW(http.HandlerFunc(masterHandler.ListVendors)))
	mux.Handle("POST /api/vendors", authMW(requireManager(http.HandlerFunc(masterHandler.CreateVendor))))
	mux.Handle("DELETE /api/vendors/{id}", authMW(requireManager(http.HandlerFunc(masterHandler.DeleteVendor))))
	mux.Handle("GET /api/departments", authMW(http.HandlerFunc(masterHandler.ListDepartments)))
	mux.Handle("POST /api/departments", authMW(requireManager(http.HandlerFunc(masterHandler.CreateDepartment))))
	mux.Handle("DELETE /api/departments/{id}", authMW(requireManager(http.HandlerFunc(masterHandler.DeleteDepartment))))

	// Units: read (all roles), lifecycle writes (manager+).
	mux.Handle("GET /api/units", authMW(http.HandlerFunc(unitsHandler.List)))
	mux.Handle("POST /api/units", authMW(requireManager(http.HandlerFunc(unitsHandler.StockIn))))
	mux.Handle("GET /api/units/{id}", authMW(http.HandlerFunc(unitsHandler.Get)))
	mux.Handle("POST /api/units/{id}/checkout", authMW(requireManager(http.HandlerFunc(unitsHandler.Checkout))))
	mux.Handle("POST /api/units/{id}/return", authMW(requireManager(http.HandlerFunc(unitsHandler.Return))))
	mux.Handle("GET /api/units/{id}/records", authMW(http.HandlerFunc(unitsHandler.Records)))

	// Reminder settings (admin only).
	mux.Handle("GET /api/settings/reminders", authMW(requireAdmin(http.HandlerFunc(settingsHandler.Get))))
	mux.Handle("PUT /api/settings/reminders", authMW(requireAdmin(http.HandlerFunc(settingsHandler.Update))))
	mux.Handle("POST /api/settings/reminders/run", authMW(requireAdmin(http.HandlerFunc(settingsHandler.Run))))

	// Audit log (admin only).
	mux.Handle("GET /api/audit", authMW(requireAdmin(http.HandlerFunc(auditHandler.List))))

	return mux
}
