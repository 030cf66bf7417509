// HTTP router registration.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"tably/internal/auth"
	"tably/internal/http/handlers"
	"tably/internal/http/middleware"
	"tably/internal/modules/audit"
	"tably/internal/modules/menu"
	"tably/internal/modules/order"
	"tably/internal/modules/table"
	"tably/internal/modules/tenant"
	"tably/internal/notify"
)

type RouterDeps struct {
	Orders  *order.Service
	Menu    *menu.Service
	Tables  *table.Service
	Tenants *tenant.Service
	Audits  *audit.Store
	Channel notify.Subscriber
	Tokens  *auth.Tokens
	Log     zerolog.Logger
}

func NewRouter(deps RouterDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Recovery(deps.Log), middleware.Logging(deps.Log))

	orderHandler := handlers.NewOrderHandler(deps.Orders)
	menuHandler := handlers.NewMenuHandler(deps.Menu, deps.Tenants)
	tableHandler := handlers.NewTableHandler(deps.Tables, deps.Tenants)
	tenantHandler := handlers.NewTenantHandler(deps.Tenants, deps.Audits)
	streamHandler := handlers.NewStreamHandler(deps.Orders, deps.Channel, deps.Log)

	r.GET("/health", func(c *gin.Context) { c.String(http.StatusOK, "OK") })

	// Public customer surface, reachable from a scanned QR code.
	pub := r.Group("/t/:company_code")
	{
		pub.GET("/menu", menuHandler.PublicMenu)
		pub.POST("/:table_id/orders", orderHandler.Create)
		pub.GET("/:table_id/orders/:order_id", orderHandler.Get)
		pub.GET("/:table_id/orders/:order_id/stream", streamHandler.Order)
	}

	// Authenticated staff surface.
	api := r.Group("/api", middleware.Auth(deps.Tokens))
	{
		caps := func(pick func(tenant.Capabilities) bool) gin.HandlerFunc {
			return middleware.RequireCapability(pick)
		}

		orders := api.Group("/orders", caps(func(c tenant.Capabilities) bool { return c.ViewOrders }))
		{
			orders.GET("", orderHandler.List)
			orders.GET("/stream", streamHandler.Orders)
			orders.POST("/:order_id/transition",
				caps(func(c tenant.Capabilities) bool { return c.ManageOrders }),
				orderHandler.Transition)
		}

		menuGroup := api.Group("/menu", caps(func(c tenant.Capabilities) bool { return c.ViewMenu }))
		{
			menuGroup.GET("/categories", menuHandler.ListCategories)
			menuGroup.GET("/subcategories", menuHandler.ListSubcategories)
			menuGroup.GET("/items", menuHandler.ListItems)

			manage := caps(func(c tenant.Capabilities) bool { return c.ManageMenu })
			menuGroup.POST("/categories", manage, menuHandler.CreateCategory)
			menuGroup.PUT("/categories/:category_id", manage, menuHandler.UpdateCategory)
			menuGroup.DELETE("/categories/:category_id", manage, menuHandler.DeleteCategory)
			menuGroup.POST("/subcategories", manage, menuHandler.CreateSubcategory)
			menuGroup.PUT("/subcategories/:subcategory_id", manage, menuHandler.UpdateSubcategory)
			menuGroup.DELETE("/subcategories/:subcategory_id", manage, menuHandler.DeleteSubcategory)
			menuGroup.POST("/items", manage, menuHandler.CreateItem)
			menuGroup.PUT("/items/:item_id", manage, menuHandler.UpdateItem)
			menuGroup.DELETE("/items/:item_id", manage, menuHandler.DeleteItem)
		}

		tables := api.Group("/tables", caps(func(c tenant.Capabilities) bool { return c.ViewTables }))
		{
			tables.GET("", tableHandler.List)
			tables.GET("/:table_id/qr", tableHandler.QRTarget)

			manage := caps(func(c tenant.Capabilities) bool { return c.ManageTables })
			tables.POST("", manage, tableHandler.Create)
			tables.PUT("/:table_id", manage, tableHandler.Rename)
			tables.DELETE("/:table_id", manage, tableHandler.Delete)
		}

		staff := api.Group("/staff", caps(func(c tenant.Capabilities) bool { return c.ViewStaff }))
		{
			staff.GET("", tenantHandler.ListMembers)

			manage := caps(func(c tenant.Capabilities) bool { return c.ManageStaff })
			staff.POST("", manage, tenantHandler.AddMember)
			staff.PUT("/:user_id", manage, tenantHandler.UpdateMember)
		}

		settings := api.Group("/settings", caps(func(c tenant.Capabilities) bool { return c.ViewSettings }))
		{
			settings.GET("", tenantHandler.Settings)
			settings.PUT("",
				caps(func(c tenant.Capabilities) bool { return c.ManageSettings }),
				tenantHandler.UpdateSettings)
		}

		// Superadmin tenant control.
		sa := api.Group("/superadmin", middleware.RequireSuperadmin())
		{
			sa.GET("/tenants", tenantHandler.List)
			sa.POST("/tenants", tenantHandler.Create)
			sa.POST("/tenants/:tenant_id/suspend", tenantHandler.Suspend)
			sa.POST("/tenants/:tenant_id/resume", tenantHandler.Resume)
			sa.DELETE("/tenants/:tenant_id", tenantHandler.Delete)
			sa.GET("/audit", tenantHandler.AuditLog)
		}
	}

	return r
}
