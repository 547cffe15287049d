package server

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"addressbook/server/logger"
	"addressbook/server/models"
	"github.com/go-playground/validator"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/spf13/viper"
)

var (
	logg     = logger.NewLogger()
	validate = validator.New()
)

// Start connects to the configured database & serves the contacts REST API
// until the process is interrupted.
func Start(config *viper.Viper, devMode bool) {
	if devMode {
		logg.Info("Running in dev mode")
	}

	serverConfig := parseServerConfig(config)

	fatalOnError(models.AutoMigrate(serverConfig.Database))

	server := &http.Server{
		Addr: fmt.Sprintf(":%v", serverConfig.Listener.Port),
		Handler: handlers.CORS(
			handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			handlers.AllowedHeaders([]string{"Content-Type"}),
		)(newRouter()),
	}

	go serve(server)

	sigChannel := make(chan os.Signal, 1)
	signal.Notify(sigChannel, syscall.SIGINT, syscall.SIGTERM)
	<-sigChannel

	cleanup(server)
}

func newRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(jsonContentTypeMiddleware, loggingMiddleware)

	router.HandleFunc("/", indexHandler).Methods("GET")
	router.HandleFunc("/contacts", listContactsHandler).Methods("GET")
	router.HandleFunc("/contacts", createContactHandler).Methods("POST")
	router.HandleFunc("/contacts/search", searchContactsHandler).Methods("GET")
	router.HandleFunc("/contacts/{id:[0-9]+}", findContactHandler).Methods("GET")
	router.HandleFunc("/contacts/{id:[0-9]+}", updateContactHandler).Methods("PUT")
	router.HandleFunc("/contacts/{id:[0-9]+}", deleteContactHandler).Methods("DELETE")

	return router
}
