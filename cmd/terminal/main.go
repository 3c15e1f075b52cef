package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/dukahub/dukapos-api/internal/config"
	"github.com/dukahub/dukapos-api/internal/offline"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(cfg.Terminal)
	if err != nil {
		log.WithError(err).Fatal("failed to open local store")
	}
	defer store.Close()

	queue := offline.NewQueue(store, log)
	catalog := offline.NewProductCache(store, log)

	remote := offline.NewHTTPRemote(
		cfg.Terminal.APIBaseURL,
		cfg.Terminal.APIToken,
		cfg.Terminal.LocationID,
		log,
	)

	// Start optimistic; the first probe corrects the state within one
	// interval if the API is unreachable.
	monitor := offline.NewMonitor(true, log)
	engine := offline.NewEngine(queue, remote, monitor, log)

	// Pending sales drain automatically when connectivity comes back.
	monitor.OnChange(func(online bool) {
		if !online {
			return
		}
		go func() {
			report, err := engine.Sync(ctx)
			if err != nil {
				if !errors.Is(err, offline.ErrSyncBusy) {
					log.WithError(err).Warn("auto sync failed")
				}
				return
			}
			log.WithFields(logrus.Fields{
				"synced": report.Synced,
				"failed": report.Failed,
			}).Info("auto sync complete")
		}()
	})

	go probeLoop(ctx, remote, monitor, cfg.Terminal.ProbeInterval)

	refreshCatalog := func() {
		products, err := remote.FetchProducts(ctx)
		if err != nil {
			log.WithError(err).Warn("product cache refresh failed")
			return
		}
		catalog.Replace(products)
		log.WithField("count", len(products)).Info("product cache refreshed")
	}
	if monitor.IsOnline() {
		go refreshCatalog()
	}

	// The API publishes change events through Redis; subscribing keeps
	// the local catalog fresh without polling.
	if cfg.Redis.Enabled {
		feed, err := offline.NewRedisChangeFeed(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, log)
		if err != nil {
			log.WithError(err).Warn("change feed unavailable, catalog updates disabled")
		} else {
			defer feed.Close()
			feed.Subscribe(ctx, "products", func(event offline.ChangeEvent) {
				log.WithFields(logrus.Fields{
					"action":    event.Action,
					"record_id": event.RecordID,
				}).Debug("product change received")
				refreshCatalog()
			})
		}
	}

	router := setupRouter(queue, catalog, engine, monitor, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Terminal.Port,
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Terminal.Port).Info("terminal agent listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server error")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("shutdown error")
	}
}

func openStore(cfg config.TerminalConfig) (offline.Store, error) {
	if cfg.StoreBackend == "sqlite" {
		return offline.NewSQLiteStore(filepath.Join(cfg.DataDir, "terminal.db"))
	}
	return offline.NewFileStore(cfg.DataDir)
}

// probeLoop polls the API health endpoint and feeds the monitor. The
// monitor deduplicates, so steady-state polls are cheap no-ops.
func probeLoop(ctx context.Context, remote *offline.HTTPRemote, monitor *offline.Monitor, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			monitor.SetOnline(remote.Ping(probeCtx))
			cancel()
		}
	}
}

type draftItem struct {
	ProductID string          `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required"`
	Price     decimal.Decimal `json:"price"`
	UnitType  string          `json:"unit_type"`
}

type draftRequest struct {
	Items         []draftItem     `json:"items" binding:"required,min=1,dive"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Discount      decimal.Decimal `json:"discount"`
	ServiceFee    decimal.Decimal `json:"service_fee"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod string          `json:"payment_method" binding:"required"`
	CustomerID    *string         `json:"customer_id"`
	IsCredit      bool            `json:"is_credit"`
	Notes         *string         `json:"notes"`
}

func setupRouter(queue *offline.Queue, catalog *offline.ProductCache, engine *offline.Engine, monitor *offline.Monitor, log *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"online":  monitor.IsOnline(),
			"syncing": engine.IsSyncing(),
			"stats":   queue.Stats(),
		})
	})

	router.GET("/transactions", func(c *gin.Context) {
		txns := queue.Transactions()
		out := make([]gin.H, 0, len(txns))
		for _, txn := range txns {
			out = append(out, gin.H{
				"transaction":  txn,
				"status_label": offline.Label(txn.Status),
				"status_icon":  offline.Icon(txn.Status),
				"status_color": offline.Color(txn.Status),
			})
		}
		c.JSON(http.StatusOK, gin.H{"transactions": out})
	})

	router.POST("/transactions", func(c *gin.Context) {
		var req draftRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		items := make([]offline.QueuedItem, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, offline.QueuedItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
				UnitType:  item.UnitType,
			})
		}

		txn, err := queue.Enqueue(offline.TransactionDraft{
			Items:         items,
			Subtotal:      req.Subtotal,
			Tax:           req.Tax,
			Discount:      req.Discount,
			ServiceFee:    req.ServiceFee,
			DeliveryFee:   req.DeliveryFee,
			Total:         req.Total,
			PaymentMethod: req.PaymentMethod,
			CustomerID:    req.CustomerID,
			IsCredit:      req.IsCredit,
			Notes:         req.Notes,
		})
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// Fire and forget; the sale is already safe in the queue.
		if monitor.IsOnline() {
			go func() {
				if _, err := engine.Sync(context.Background()); err != nil && !errors.Is(err, offline.ErrSyncBusy) {
					log.WithError(err).Warn("post-sale sync failed")
				}
			}()
		}

		c.JSON(http.StatusCreated, gin.H{"transaction": txn})
	})

	router.POST("/sync", func(c *gin.Context) {
		report, err := engine.Sync(c.Request.Context())
		if err != nil {
			status := http.StatusServiceUnavailable
			if errors.Is(err, offline.ErrSyncBusy) {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"report": report})
	})

	router.POST("/retry", func(c *gin.Context) {
		reset, report, err := engine.Retry(c.Request.Context())
		if err != nil {
			status := http.StatusServiceUnavailable
			if errors.Is(err, offline.ErrSyncBusy) {
				status = http.StatusConflict
			}
			c.JSON(status, gin.H{"error": err.Error(), "reset": reset})
			return
		}
		c.JSON(http.StatusOK, gin.H{"reset": reset, "report": report})
	})

	router.POST("/clear", func(c *gin.Context) {
		removed := queue.PruneSynced()
		c.JSON(http.StatusOK, gin.H{"removed": removed, "stats": queue.Stats()})
	})

	router.GET("/products", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"products": catalog.All()})
	})

	// Manual override for testing and for environments where the health
	// probe cannot reach the API but sales should still queue.
	router.POST("/connectivity", func(c *gin.Context) {
		var req struct {
			Online bool `json:"online"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		monitor.SetOnline(req.Online)
		c.JSON(http.StatusOK, gin.H{"online": monitor.IsOnline()})
	})

	return router
}
