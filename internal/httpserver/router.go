package httpserver

import (
	"context"
	"log"

	"autoparts-catalog/internal/cache"
	"autoparts-catalog/internal/domain"
	"autoparts-catalog/internal/service/taxonomy"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaxonomyService is the engine surface the handlers consume.
type TaxonomyService interface {
	List(ctx context.Context, filter domain.CategoryFilter) ([]domain.Category, error)
	Tree(ctx context.Context, filter domain.CategoryFilter, maxDepth int) ([]*domain.CategoryTreeNode, error)
	Get(ctx context.Context, id string) (*taxonomy.Detail, error)
	ByVehicleType(ctx context.Context, vehicleType domain.VehicleCategory, partType domain.PartType, criticality domain.CriticalityLevel) (*taxonomy.VehicleTypeListing, error)
	Stats(ctx context.Context) (*domain.TaxonomyStats, error)
	Create(ctx context.Context, in taxonomy.CreateInput) (*domain.Category, error)
	Update(ctx context.Context, id string, in taxonomy.UpdateInput) (*domain.Category, error)
	Delete(ctx context.Context, id string) error
}

// Deps carries the handler dependencies. StatsCache may be nil.
type Deps struct {
	Taxonomy   TaxonomyService
	StatsCache *cache.StatsCache
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/categories", listCategoriesHandler(deps))
	router.GET("/categories/tree", categoryTreeHandler(deps))
	router.GET("/categories/stats", categoryStatsHandler(deps))
	router.GET("/categories/export", exportCategoriesHandler(deps))
	router.POST("/categories/import", importCategoriesHandler(deps))
	router.GET("/categories/vehicle/:vehicleType", categoriesByVehicleTypeHandler(deps))
	router.GET("/categories/:id", getCategoryHandler(deps))
	router.POST("/categories", createCategoryHandler(deps))
	router.PATCH("/categories/:id", updateCategoryHandler(deps))
	router.DELETE("/categories/:id", deleteCategoryHandler(deps))

	return router
}
