package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/courseline-dev/courseline/internal/apiclient"
	"github.com/courseline-dev/courseline/internal/config"
	"github.com/courseline-dev/courseline/internal/discussion"
	"github.com/courseline-dev/courseline/internal/logger"
	"github.com/courseline-dev/courseline/internal/session"
	"github.com/courseline-dev/courseline/internal/web"
)

const (
	readTimeout     = 5 * time.Second
	writeTimeout    = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	configDir := flag.String("config", "config", "folder containing public.yaml")
	flag.Parse()

	cfg := config.MustLoad(*configDir)
	logger.Initialize(cfg.Log.Level, cfg.Log.JSON)

	credentials := session.NewFileStore(cfg.Session.TokenPath)
	gateway := apiclient.New(cfg.API.BaseURL, credentials)
	gateway.HttpClient.Timeout = cfg.API.Timeout.Std()

	factory := func() *discussion.Controller {
		return discussion.NewController(gateway, discussion.ControllerConfig{
			ErrorTTL:       cfg.Forum.ErrorTTL.Std(),
			SearchDebounce: cfg.Forum.SearchDebounce.Std(),
			DefaultSort:    discussion.ParseSortKey(cfg.Forum.DefaultSort),
		})
	}

	templates := web.MustLoadTemplates(cfg.Web.TemplatePath)
	handler := web.New(templates, web.NewSessionRegistry(factory), credentials)
	router := web.NewRouter(handler, cfg.Web.AllowedOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Web.Port),
		Handler:      router,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	go func() {
		logger.Log.Info("starting courseline frontend", "addr", server.Addr, "api", cfg.API.BaseURL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Log.Error("graceful shutdown failed", "error", err)
	}
}
