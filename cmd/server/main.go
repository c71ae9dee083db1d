package main

import (
	"crypto/tls"
	"log"
	"net/http"

	"github.com/benbjohnson/clock"

	"classroom-live/internal/ai"
	"classroom-live/internal/config"
	"classroom-live/internal/db"
	"classroom-live/internal/handlers"
	"classroom-live/internal/services"
	"classroom-live/internal/sound"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()

	// Initialize database
	if err := db.InitDatabase(cfg.Data.DBPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize stores
	recordStore := services.NewRecordStore(db.DB)
	deckStore, err := services.NewDeckStore(cfg.Data.Dir)
	if err != nil {
		log.Fatalf("Failed to initialize deck store: %v", err)
	}

	// Initialize services
	wsService := services.NewWebSocketService()
	go wsService.Run()

	aiClient := ai.NewClient(cfg.AI.BaseURL, cfg.AI.APIKey, cfg.AI.Model, cfg.AI.Disabled)
	manager := services.NewSessionManager(clock.New(), recordStore, deckStore, wsService, aiClient)
	defer manager.CloseAll()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(manager)
	storeHandler := handlers.NewStoreHandler(recordStore)
	soundHandler := handlers.NewSoundHandler(sound.NewSynth())
	wsHandler := handlers.NewWebSocketHandler(wsService, manager)

	// Setup routes
	router := handlers.SetupRoutes(sessionHandler, storeHandler, soundHandler, wsHandler)

	// Configure server
	server := &http.Server{
		Addr:    cfg.Server.Host + ":" + cfg.Server.Port,
		Handler: router,
	}

	// Configure TLS if enabled
	if cfg.TLS.Enabled {
		server.TLSConfig = &tls.Config{
			MinVersion: getTLSVersion(cfg.TLS.MinVersion),
		}

		log.Printf("Starting HTTPS server on %s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("TLS Certificate: %s", cfg.TLS.CertFile)
		log.Printf("TLS Key: %s", cfg.TLS.KeyFile)
		log.Printf("TLS Min Version: %s", cfg.TLS.MinVersion)

		log.Fatal(server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile))
	} else {
		log.Printf("Starting HTTP server on %s:%s", cfg.Server.Host, cfg.Server.Port)
		log.Printf("Warning: HTTP mode is not recommended for production")

		log.Fatal(server.ListenAndServe())
	}
}

// getTLSVersion converts string version to tls.Version constant
func getTLSVersion(version string) uint16 {
	switch version {
	case "1.0":
		return tls.VersionTLS10
	case "1.1":
		return tls.VersionTLS11
	case "1.2":
		return tls.VersionTLS12
	case "1.3":
		return tls.VersionTLS13
	default:
		return tls.VersionTLS12
	}
}
