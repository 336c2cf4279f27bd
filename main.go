package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/middleware"
	"storefront/internal/session"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureCategoryIndexes(db); err != nil {
		log.Printf("category index warning: %v", err)
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}

	store := catalog.NewMongoStore(db)
	engine := catalog.NewEngine(store)
	query := catalog.NewQuery(store)

	var sessionStore session.Store
	if config.AppEnv.SessionStore == "redis" {
		sessionStore = session.NewRedisStore(config.AppEnv.RedisAddr)
		log.Println("sessions backed by redis:", config.AppEnv.RedisAddr)
	} else {
		sessionStore = session.NewMemoryStore()
	}
	sessions := session.NewManager(sessionStore, config.AppEnv.SessionTTL)

	maxImage := config.AppEnv.MaxImageBytes

	r := gin.Default()
	r.Use(middleware.Sessions(sessions))

	r.GET("/healthz", handlers.Health(db))

	user := r.Group("/user")
	{
		user.GET("", handlers.Home(query))
		user.GET("/login", handlers.LoginPage())
		user.POST("/login", handlers.Login(store, sessions))
		user.GET("/signup", handlers.SignupPage())
		user.POST("/signup", handlers.Signup(store, config.AppEnv.AdminEmail))
		user.GET("/category", handlers.CategoryIndex(query))
		user.GET("/product/image/:id", handlers.ProductImage(store))
		user.GET("/profile/image/:id", handlers.ProfileImage(store))
		user.GET("/product/:categoryId", handlers.ProductsByCategory(query))
		user.GET("/search", handlers.Search(query))

		shopper := user.Group("")
		shopper.Use(middleware.RequireShopper())
		{
			shopper.GET("/logout", handlers.Logout(sessions))
			shopper.GET("/profile", handlers.GetProfile(store))
			shopper.POST("/profile/update", handlers.UpdateProfile(store, "/user/profile", maxImage))
			shopper.GET("/cart", handlers.GetCart(sessions))
			shopper.POST("/cart/add", handlers.AddToCart(store, sessions))
			shopper.POST("/cart/remove", handlers.RemoveFromCart(sessions))
		}
	}

	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdmin())
	{
		admin.GET("", handlers.Dashboard(store))
		admin.GET("/logout", handlers.Logout(sessions))
		admin.GET("/profile", handlers.GetProfile(store))
		admin.POST("/profile/update", handlers.UpdateProfile(store, "/admin/profile", maxImage))

		admin.GET("/category", handlers.ListCategories(engine))
		admin.POST("/category/add", handlers.AddCategory(engine))
		admin.GET("/category/edit/:id", handlers.EditCategory(engine))
		admin.POST("/category/update/:id", handlers.UpdateCategory(engine))
		admin.POST("/category/delete/:id", handlers.DeleteCategory(engine))

		admin.GET("/product", handlers.ListProducts(engine))
		admin.POST("/product/add", handlers.AddProduct(engine, maxImage))
		admin.GET("/product/edit/:id", handlers.EditProduct(engine))
		admin.POST("/product/update/:id", handlers.UpdateProduct(engine, maxImage))
		admin.POST("/product/delete/:id", handlers.DeleteProduct(engine))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
