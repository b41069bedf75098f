package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AngelCh415/leadpane/internal/config"
	"github.com/AngelCh415/leadpane/internal/crm"
	"github.com/AngelCh415/leadpane/internal/logger"
	"github.com/AngelCh415/leadpane/internal/store"
	"github.com/AngelCh415/leadpane/internal/utils"
)

const connectTimeout = 10 * time.Second

type app struct {
	cfg config.Config
	log *zap.Logger
	st  store.Store
}

// bootstrap loads config, builds the logger, opens the store and applies the
// schema. Callers must call close.
func bootstrap(ctx context.Context, envFile string) (*app, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		return nil, err
	}
	log, err := logger.New(cfg)
	if err != nil {
		return nil, err
	}

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	m, err := st.EnsureSchema(ctx)
	if err != nil {
		_ = st.Close(ctx)
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	if m.Changed() {
		log.Info("schema applied",
			zap.Int("from", m.FromVersion), zap.Int("to", m.ToVersion), zap.Strings("created", m.Created))
	}
	return &app{cfg: cfg, log: log, st: st}, nil
}

func openStore(ctx context.Context, cfg config.Config, log *zap.Logger) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverExcel:
		log.Info("using workbook store", zap.String("path", cfg.WorkbookPath))
		return store.OpenExcelStore(cfg.WorkbookPath)
	case config.DriverMongo:
		var st *store.MongoStore
		err := utils.NewBackoff(500*time.Millisecond, 4).Do(ctx, func(i int) error {
			cctx, cancel := context.WithTimeout(ctx, connectTimeout)
			defer cancel()
			var err error
			st, err = store.NewMongoStore(cctx, cfg.MongoURI, cfg.MongoDB)
			if err != nil {
				log.Warn("mongo not reachable", zap.Int("attempt", i+1), zap.Error(err))
			}
			return err
		})
		if err != nil {
			return nil, err
		}
		log.Info("using mongo store", zap.String("db", cfg.MongoDB))
		return st, nil
	default:
		log.Warn("using in-memory store; data is lost on exit")
		return store.NewMemoryStore(), nil
	}
}

func (a *app) service() *crm.Service {
	return crm.NewService(a.st, a.log, crm.WithMonthWindow(a.cfg.MonthWindow))
}

func (a *app) close(ctx context.Context) {
	if err := a.st.Close(ctx); err != nil {
		a.log.Warn("closing store", zap.Error(err))
	}
	_ = a.log.Sync()
}
