package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.mongodb.org/mongo-driver/bson"

	"bias-lens/api/handlers"
	"bias-lens/compare"
	"bias-lens/db"
	"bias-lens/repositories"
	"bias-lens/services"
)

func New() *gin.Engine {
	r := gin.Default()

	// Health check
	r.GET("/health", func(c *gin.Context) {
		// Try ping MongoDB
		if err := db.Database().RunCommand(context.Background(), bson.D{{Key: "ping", Value: 1}}).Err(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "mongo": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// v1 routes
	api := r.Group("/api/v1")
	{
		articlesRepo := repositories.NewArticleRepository(db.Database())
		clustersRepo := repositories.NewClusterRepository(db.Database())

		articleSvc := services.NewArticleService(articlesRepo)
		clusterSvc := services.NewClusterService(clustersRepo, compare.NewComparator())
		statsSvc := services.NewStatsService(articlesRepo)

		api.GET("/articles/:id", handlers.GetArticleHandler(articleSvc))
		api.GET("/clusters", handlers.ListClustersHandler(clusterSvc))
		api.GET("/clusters/:id", handlers.GetClusterHandler(clusterSvc))
		api.GET("/sources/stats", handlers.SourceStatsHandler(statsSvc))
	}

	return r
}
