package httpserver

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"autoparts-catalog/internal/domain"
	"autoparts-catalog/internal/importer"
	"autoparts-catalog/internal/service/taxonomy"
	"github.com/gin-gonic/gin"
)

const (
	defaultTreeDepth = 3
	maxTreeDepth     = 6
)

func listCategoriesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := parseFilter(c)
		if err != nil {
			writeError(c, err)
			return
		}
		categories, err := deps.Taxonomy.List(c.Request.Context(), filter)
		if err != nil {
			writeError(c, err)
			return
		}
		if categories == nil {
			categories = []domain.Category{}
		}
		c.JSON(http.StatusOK, gin.H{"results": categories, "total": len(categories)})
	}
}

func categoryTreeHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter, err := parseFilter(c)
		if err != nil {
			writeError(c, err)
			return
		}
		maxDepth := defaultTreeDepth
		if raw := c.Query("maxDepth"); raw != "" {
			maxDepth, err = strconv.Atoi(raw)
			if err != nil {
				writeError(c, errInvalid("maxDepth must be an integer"))
				return
			}
		}
		if maxDepth > maxTreeDepth {
			maxDepth = maxTreeDepth
		}
		forest, err := deps.Taxonomy.Tree(c.Request.Context(), filter, maxDepth)
		if err != nil {
			writeError(c, err)
			return
		}
		if forest == nil {
			forest = []*domain.CategoryTreeNode{}
		}
		c.JSON(http.StatusOK, gin.H{"results": forest, "maxDepth": maxDepth})
	}
}

func getCategoryHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		detail, err := deps.Taxonomy.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, detail)
	}
}

func categoriesByVehicleTypeHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		listing, err := deps.Taxonomy.ByVehicleType(
			c.Request.Context(),
			domain.VehicleCategory(c.Param("vehicleType")),
			domain.PartType(c.Query("partType")),
			domain.CriticalityLevel(c.Query("criticalityLevel")),
		)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, listing)
	}
}

func categoryStatsHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if cached := deps.StatsCache.Get(ctx); cached != nil {
			c.JSON(http.StatusOK, cached)
			return
		}
		stats, err := deps.Taxonomy.Stats(ctx)
		if err != nil {
			writeError(c, err)
			return
		}
		deps.StatsCache.Set(ctx, stats)
		c.JSON(http.StatusOK, stats)
	}
}

func createCategoryHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in taxonomy.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			writeError(c, errInvalid("malformed request body"))
			return
		}
		created, err := deps.Taxonomy.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		deps.StatsCache.Invalidate(c.Request.Context())
		c.JSON(http.StatusCreated, created)
	}
}

func updateCategoryHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in taxonomy.UpdateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			writeError(c, errInvalid("malformed request body"))
			return
		}
		updated, err := deps.Taxonomy.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		deps.StatsCache.Invalidate(c.Request.Context())
		c.JSON(http.StatusOK, updated)
	}
}

func deleteCategoryHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := deps.Taxonomy.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		deps.StatsCache.Invalidate(c.Request.Context())
		c.Status(http.StatusNoContent)
	}
}

func importCategoriesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		imp := importer.NewCSVImporter(c.Request.Body, deps.Taxonomy)
		result, err := imp.Run(c.Request.Context())
		if err != nil {
			writeError(c, errInvalid(err.Error()))
			return
		}
		deps.StatsCache.Invalidate(c.Request.Context())
		if result.Errors == nil {
			result.Errors = []importer.RowError{}
		}
		c.JSON(http.StatusOK, result)
	}
}

func exportCategoriesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="categories.csv"`)
		if _, err := importer.ExportCSV(c.Request.Context(), deps.Taxonomy, c.Writer); err != nil {
			writeError(c, err)
			return
		}
	}
}

// parseFilter reads facet query parameters into a CategoryFilter,
// rejecting unknown enum values up front.
func parseFilter(c *gin.Context) (domain.CategoryFilter, error) {
	var f domain.CategoryFilter

	if raw := c.Query("parentOnly"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, errInvalid("parentOnly must be a boolean")
		}
		f.ParentOnly = v
	}
	if raw := c.Query("partType"); raw != "" {
		pt := domain.PartType(raw)
		if !pt.Valid() {
			return f, errInvalid("unknown part type " + strconv.Quote(raw))
		}
		f.PartType = pt
	}
	if raw := c.Query("vehicleCategory"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			vc := domain.VehicleCategory(strings.TrimSpace(part))
			if !vc.Valid() {
				return f, errInvalid("unknown vehicle category " + strconv.Quote(string(vc)))
			}
			f.VehicleCategories = append(f.VehicleCategories, vc)
		}
	}
	if raw := c.Query("compatibilityLevel"); raw != "" {
		cl := domain.CompatibilityLevel(raw)
		if !cl.Valid() {
			return f, errInvalid("unknown compatibility level " + strconv.Quote(raw))
		}
		f.CompatibilityLevel = cl
	}
	if raw := c.Query("criticalityLevel"); raw != "" {
		cl := domain.CriticalityLevel(raw)
		if !cl.Valid() {
			return f, errInvalid("unknown criticality level " + strconv.Quote(raw))
		}
		f.CriticalityLevel = cl
	}
	if raw := c.Query("installationDifficulty"); raw != "" {
		id := domain.InstallationDifficulty(raw)
		if !id.Valid() {
			return f, errInvalid("unknown installation difficulty " + strconv.Quote(raw))
		}
		f.InstallationDifficulty = id
	}
	if raw := c.Query("featured"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return f, errInvalid("featured must be a boolean")
		}
		f.Featured = &v
	}
	return f, nil
}

func errInvalid(msg string) error {
	return &apiError{status: http.StatusBadRequest, message: msg}
}

type apiError struct {
	status  int
	message string
}

func (e *apiError) Error() string { return e.message }

// writeError maps domain failures onto HTTP status codes. Cycle detection is
// store corruption and surfaces as a 500, untouched.
func writeError(c *gin.Context, err error) {
	var apiErr *apiError
	switch {
	case errors.As(err, &apiErr):
		c.JSON(apiErr.status, gin.H{"error": apiErr.message})
	case errors.Is(err, domain.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateKey), errors.Is(err, domain.ErrHasChildren):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
