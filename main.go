package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"backend/internal/catalog"
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/handlers"
	"backend/internal/store"
	"backend/internal/store/memstore"
	"backend/internal/store/mongostore"
)

func main() {
	config.Load()

	var productStore store.ProductStore
	switch config.AppEnv.StoreBackend {
	case "memory":
		log.Println("using in-memory product store")
		productStore = memstore.New()
	default:
		client, err := database.Connect(config.AppEnv.MongoURI, config.AppEnv.ConnectTimeout)
		if err != nil {
			log.Fatal(err)
		}

		db := client.Database(config.AppEnv.DBName)
		log.Println("MongoDB connected to:", db.Name())

		if err := database.EnsureProductIndexes(db); err != nil {
			log.Println("product index warning:", err)
		}
		productStore = mongostore.New(db)
	}

	images := catalog.ImagePolicy{
		Mode:         catalog.ImageMode(config.AppEnv.ImageStorage),
		MaxBytes:     config.AppEnv.ImageMaxBytes,
		UploadDir:    config.AppEnv.UploadDir,
		PublicPrefix: config.AppEnv.PublicPrefix,
		Placeholder:  config.AppEnv.Placeholder,
	}

	svc := catalog.NewService(productStore, images, config.AppEnv.PageSize)

	r := gin.Default()
	r.Static("/public", "./public")

	r.GET("/products", handlers.ListProducts(svc))
	r.GET("/products/search", handlers.SearchProducts(svc))
	r.GET("/products/category/:category", handlers.ProductsByCategory(svc))
	r.GET("/products/:id", handlers.GetProduct(svc))
	r.GET("/products/:id/image", handlers.GetProductImage(svc))
	r.POST("/products", handlers.CreateProduct(svc))
	r.PUT("/products/:id", handlers.UpdateProduct(svc))
	r.DELETE("/products/:id", handlers.DeleteProduct(svc))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
