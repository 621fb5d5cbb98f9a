package main

import (
	"net/http"

	"ThreadsApp/global"
	"ThreadsApp/logger"
	"ThreadsApp/middleware"
	mwsec "ThreadsApp/middleware/security"
	"ThreadsApp/service/notify"
	storage "ThreadsApp/service/storage"
	sec "ThreadsApp/tools/security"

	"github.com/gin-gonic/gin"
)

func main() {
	global.ConfigAll()

	verifier := sec.Verifier{Opts: sec.DefaultOptions(global.JwtSecret())}
	store := storage.NewNotifications(storage.MongoDB())

	opts := notify.ServerOptions{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || origin == global.FrontendOrigin()
		},
	}
	if storage.RedisReady() {
		opts.Presence = storage.Presence{}
	}

	srv := notify.NewServer(notify.NewAuthenticator(verifier), store, opts)

	r := gin.Default()
	r.GET("/ws", middleware.Origin(global.FrontendOrigin()), srv.HandleWS)
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/stats", srv.HandleStats)

	admin := r.Group("/admin", mwsec.Middleware(mwsec.DefaultOptions(verifier)))
	admin.POST("/broadcast", srv.HandleSystemBroadcast)

	addr := global.ListenAddr()
	logger.Infof("[main] notification gateway listening on %s", addr)
	if err := r.Run(addr); err != nil {
		logger.Errorf("[main] server exited: %v", err)
	}
}
