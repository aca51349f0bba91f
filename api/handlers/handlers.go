package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bias-lens/services"
)

// GetArticleHandler godoc
// @Summary      Get article by id
// @Description  Get a single article with its bias vector (when scored)
// @Tags         articles
// @Param        id   path   string  true  "ObjectID"
// @Produce      json
// @Success      200  {object}  dto.ArticleDTO
// @Router       /articles/{id} [get]
func GetArticleHandler(svc *services.ArticleService) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param("id")
		article, err := svc.GetByID(c.Request.Context(), idStr)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, article)
	}
}

// ListClustersHandler godoc
// @Summary      List story clusters
// @Description  List clusters with simple pagination, newest first
// @Tags         clusters
// @Param        page       query  int  false  "Page number (1-based)"
// @Param        page_size  query  int  false  "Page size (<=100)"
// @Produce      json
// @Success      200  {array}  dto.ClusterSummaryDTO
// @Router       /clusters [get]
func ListClustersHandler(svc *services.ClusterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
		items, err := svc.List(c.Request.Context(), services.ListClustersInput{Page: page, PageSize: pageSize})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

// GetClusterHandler godoc
// @Summary      Get cluster by id
// @Description  Get a cluster with its members and comparison report
// @Tags         clusters
// @Param        id       path   string  true   "ObjectID"
// @Param        refresh  query  bool    false  "Recompute the report from current members"
// @Produce      json
// @Success      200  {object}  dto.ClusterDTO
// @Router       /clusters/{id} [get]
func GetClusterHandler(svc *services.ClusterService) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param("id")
		refresh := c.Query("refresh") == "true"
		cluster, err := svc.GetByID(c.Request.Context(), idStr, refresh)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusOK, cluster)
	}
}

// SourceStatsHandler godoc
// @Summary      Per-source bias aggregates
// @Description  Mean overall bias and political lean grouped by source over a date range
// @Tags         stats
// @Param        from  query  string  false  "Range start (RFC3339 or YYYY-MM-DD)"
// @Param        to    query  string  false  "Range end (RFC3339 or YYYY-MM-DD)"
// @Produce      json
// @Success      200  {array}  repositories.SourceStat
// @Router       /sources/stats [get]
func SourceStatsHandler(svc *services.StatsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		from, ok := parseDateParam(c.Query("from"))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid from"})
			return
		}
		to, ok := parseDateParam(c.Query("to"))
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid to"})
			return
		}
		stats, err := svc.SourceStats(c.Request.Context(), from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func parseDateParam(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, true
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, true
	}
	return time.Time{}, false
}
