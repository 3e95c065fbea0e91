// shelton-springs/cmd/server/main.go
package main

import (
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/Ruben-Jim/shelton-springs-sub001/config"
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/blobstore"
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/handlers"
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/notify"
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/reconcile"
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/routes"
	"github.com/Ruben-Jim/shelton-springs-sub001/internal/store"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config.LoadJwtKey()
	config.ConnectDB()
	config.ConnectRedis()

	st := store.NewGormStore(config.DB)
	dispatcher := &notify.DBDispatcher{DB: config.DB, Next: &notify.LogDispatcher{Log: logger}}

	engine := reconcile.New(reconcile.Deps{
		Members:    st,
		Households: st,
		Fees:       st,
		Fines:      st,
		Payments:   st,
		Notifier:   dispatcher,
		Blobs:      &blobstore.NoopStore{Log: logger},
		Log:        logger,
	})
	handlers.Setup(engine)

	r := gin.Default()
	routes.SetupRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.Info("Starting server", "port", port)
	if err := r.Run(":" + port); err != nil {
		logger.Error("Server stopped", "error", err)
		os.Exit(1)
	}
}
