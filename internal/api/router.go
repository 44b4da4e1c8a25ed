package api

import (
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"repair-shop-backend/config"
	"repair-shop-backend/internal/auth"
	"repair-shop-backend/internal/mw"
)

var (
	staffRoles  = []auth.Role{auth.RoleAdmin, auth.RoleTechnician, auth.RoleReceptionist}
	repairRoles = []auth.Role{auth.RoleAdmin, auth.RoleTechnician}
	adminRoles  = []auth.Role{auth.RoleAdmin}
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.Recovery(),
		mw.RequestLogger(h.log),
		mw.SecurityHeaders(),
		mw.CORS(cfg.Server.CORSOrigin),
		mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst),
	)

	r.GET("/health", h.Health)

	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/logout", h.Logout)
	}

	if cfg.Auth.PublicSearch {
		r.GET("/search", h.Search)
	}

	api := r.Group("/")
	api.Use(mw.Authenticate(h.auth, cfg.Auth.CookieName, h.log))
	{
		if !cfg.Auth.PublicSearch {
			api.GET("/search", h.Search)
		}

		staff := mw.RequireRole(staffRoles...)
		repairStaff := mw.RequireRole(repairRoles...)
		admin := mw.RequireRole(adminRoles...)

		api.GET("/profiles/me", h.GetMe)
		api.PUT("/profiles/me", h.UpdateMe)
		api.GET("/profiles", admin, h.ListProfiles)
		api.PUT("/profiles/:id/role", admin, h.AssignRole)

		api.GET("/clients", h.ListClients)
		api.GET("/clients/:id", h.GetClient)
		api.POST("/clients", staff, h.CreateClient)
		api.PUT("/clients/:id", staff, h.UpdateClient)
		api.DELETE("/clients/:id", admin, h.DeleteClient)

		api.GET("/machines", h.ListMachines)
		api.GET("/machines/for-client/:client_id", h.MachinesForClient)
		api.GET("/machines/serials/:client_id/:machine_id", h.SerialsForClientMachine)
		api.GET("/machines/:id", h.GetMachine)
		api.POST("/machines", staff, h.CreateMachine)
		api.PUT("/machines/:id", staff, h.UpdateMachine)
		api.DELETE("/machines/:id", admin, h.DeleteMachine)

		api.GET("/parts", h.ListParts)
		api.GET("/parts/:id", h.GetPart)
		api.GET("/parts/:id/repairs", h.PartRepairs)
		api.POST("/parts", staff, h.CreatePart)
		api.PUT("/parts/:id", staff, h.UpdatePart)
		api.DELETE("/parts/:id", admin, h.DeletePart)

		api.GET("/serial_numbers", h.ListSerials)
		api.GET("/serial_numbers/client", h.SerialsForClient)
		api.POST("/serial_numbers/assign", staff, h.AssignSerial)
		api.DELETE("/serial_numbers/:id", admin, h.DeleteSerial)

		api.GET("/repairs", h.ListRepairs)
		api.GET("/repairs/for-machine/:machine_id/client/:client_id", h.RepairsForMachine)
		api.GET("/repairs/:id", h.GetRepair)
		api.POST("/repairs", repairStaff, h.CreateRepair)
		api.PUT("/repairs/:id", repairStaff, h.UpdateRepair)
		api.DELETE("/repairs/:id", admin, h.DeleteRepair)

		api.GET("/repair_parts", h.ListRepairParts)
		api.POST("/repair_parts", repairStaff, h.AddRepairPart)
		api.DELETE("/repair_parts/:id", admin, h.DeleteRepairPart)

		api.GET("/admissions", h.ListAdmissions)
		api.GET("/admissions/:id", h.GetAdmission)
		api.POST("/admissions", staff, h.CreateAdmission)

		stats := api.Group("/stats")
		stats.GET("", h.GetStats)
		stats.GET("/top-used-parts", ranking(h, h.store.TopUsedParts, "Failed to fetch top used parts"))
		stats.GET("/top-assigned-machines", ranking(h, h.store.TopAssignedMachines, "Failed to fetch top assigned machines"))
		stats.GET("/top-repaired-machines", ranking(h, h.store.TopRepairedMachines, "Failed to fetch top repaired machines"))
		stats.GET("/recent-repairs", ranking(h, h.store.RecentRepairs, "Failed to fetch recent repairs"))
		stats.GET("/top-technicians", ranking(h, h.store.TopTechnicians, "Failed to fetch top technicians"))
	}

	return r
}
