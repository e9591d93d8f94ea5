package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zeitwerk-app/zeitwerk-be/internal/database"
	"github.com/zeitwerk-app/zeitwerk-be/internal/handlers"
	"github.com/zeitwerk-app/zeitwerk-be/internal/pkg/config"
	"github.com/zeitwerk-app/zeitwerk-be/internal/pkg/logger"
	"github.com/zeitwerk-app/zeitwerk-be/internal/pkg/middleware"
	"github.com/zeitwerk-app/zeitwerk-be/internal/store"
	"github.com/zeitwerk-app/zeitwerk-be/internal/tracker"
	"github.com/zeitwerk-app/zeitwerk-be/pkg/util"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.Init(cfg.Env)
	defer func() { _ = log.Sync() }()

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 数据库连接 + 自动迁移
	gormDB, err := database.InitGorm(cfg)
	if err != nil {
		log.Fatal("db init error", "error", err)
	}

	// 存储层
	tasks := store.NewTaskStore(gormDB)
	days := store.NewDayStore(gormDB)
	events := store.NewNotificationStore(gormDB)

	// 每个用户一个跟踪器实例，结束时交给任务聚合和归档
	baseCtx, cancel := context.WithCancel(context.Background())
	defer cancel()
	mgr := tracker.NewManager(tasks, days, events)

	// 处理器
	th := handlers.NewTrackerHandler(baseCtx, mgr)
	tk := handlers.NewTaskHandler(tasks)
	wd := handlers.NewWorkdayHandler(days)
	st := handlers.NewStatsHandler(days, mgr)
	nf := handlers.NewNotifyHandler(events)

	r := gin.New()
	r.Use(gin.Recovery())         // 捕获 panic 返回 500
	r.Use(util.Cors())            // CORS 跨域支持
	r.Use(middleware.Visitor())   // 为访客分配/识别 ID
	r.Use(middleware.RateLimit()) // 按访客限流

	r.GET("/api/v1/healthz", handlers.Health)
	r.POST("/guest-login", handlers.GuestLogin)

	// 工作日跟踪
	r.POST("/api/v1/tracker/start", th.Start)
	r.POST("/api/v1/tracker/pause", th.Pause)
	r.POST("/api/v1/tracker/resume", th.Resume)
	r.POST("/api/v1/tracker/stop", th.Stop)
	r.GET("/api/v1/tracker/current", th.Current)

	// 看板任务
	r.GET("/api/v1/tasks", tk.List)
	r.POST("/api/v1/tasks", tk.Create)
	r.PATCH("/api/v1/tasks/:id", tk.Update)
	r.DELETE("/api/v1/tasks/:id", tk.Delete)
	r.POST("/api/v1/tasks/:id/move", tk.Move)

	// 工作日历史（日历页的编辑和删除）
	r.GET("/api/v1/workdays", wd.List)
	r.PUT("/api/v1/workdays", wd.Save)
	r.DELETE("/api/v1/workdays/:id", wd.Delete)

	// 统计：今日 / 近 7 天
	r.GET("/api/v1/stats/today", st.Today)
	r.GET("/api/v1/stats/weekly", st.Weekly)

	// 通知事件：前端 toast 拉取和确认
	r.GET("/api/v1/notifications/pull", nf.Pull)
	r.POST("/api/v1/notifications/ack", nf.Ack)

	// 需要令牌的身份接口
	authed := r.Group("/api/v1", middleware.JWTAuth())
	authed.GET("/me", handlers.Me)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: r,
	}

	go func() {
		log.Info("starting server", "addr", cfg.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("server failed", "error", err)
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("shutdown error", "error", err)
	}
	log.Info("server stopped")
}
