package main

import (
	"context"
	"log"
	"net/http"

	"github.com/rs/cors"

	"bias-lens/api/router"
	"bias-lens/config"
	"bias-lens/db"
)

// @title           Bias Lens API
// @version         1.0
// @description     API for browsing news story clusters and bias comparison reports
// @BasePath        /api/v1
func main() {
	config.InitApp()
	if err := db.Init(context.Background()); err != nil {
		log.Fatal(err)
	}
	r := router.New()

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(r)

	if err := http.ListenAndServe(":8080", corsHandler); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
