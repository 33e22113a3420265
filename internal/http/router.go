package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/aldervall/takkalkyl/internal/http/middleware"
)

func NewRouter(handler *Handler, authMiddleware gin.HandlerFunc, environment string) *gin.Engine {
	if environment != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:          12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	protected := router.Group("/")
	protected.Use(authMiddleware)

	protected.GET("/catalog", handler.catalogOverview)

	protected.POST("/calculations", handler.createCalculation)
	protected.GET("/calculations", handler.listCalculations)
	protected.GET("/calculations/:id", handler.getCalculation)
	protected.DELETE("/calculations/:id", handler.deleteCalculation)
	protected.POST("/calculations/:id/price", handler.pricePreview)
	protected.PATCH("/calculations/:id/status", handler.setPipeline)

	admin := protected.Group("/admin")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/roof-types", handler.listRoofTypes)
	admin.POST("/roof-types", handler.createRoofType)
	admin.PUT("/roof-types/:id", handler.updateRoofType)
	admin.DELETE("/roof-types/:id", handler.deleteRoofType)

	admin.GET("/material-types", handler.listMaterialTypes)
	admin.POST("/material-types", handler.createMaterialType)
	admin.PUT("/material-types/:id", handler.updateMaterialType)
	admin.DELETE("/material-types/:id", handler.deleteMaterialType)

	admin.GET("/scaffolding-sizes", handler.listScaffoldingSizes)
	admin.POST("/scaffolding-sizes", handler.createScaffoldingSize)
	admin.PUT("/scaffolding-sizes/:id", handler.updateScaffoldingSize)
	admin.DELETE("/scaffolding-sizes/:id", handler.deleteScaffoldingSize)

	admin.GET("/chimney-types", handler.listChimneyTypes)
	admin.POST("/chimney-types", handler.createChimneyType)
	admin.PUT("/chimney-types/:id", handler.updateChimneyType)
	admin.DELETE("/chimney-types/:id", handler.deleteChimneyType)

	admin.GET("/category-prices", handler.listCategoryPrices)
	admin.POST("/category-prices", handler.createCategoryPrice)
	admin.PUT("/category-prices/:id", handler.updateCategoryPrice)
	admin.DELETE("/category-prices/:id", handler.deleteCategoryPrice)

	admin.GET("/constants", handler.listConstants)
	admin.PUT("/constants/:name", handler.setConstant)

	return router
}
