// Package logging provides structured logging using uber/zap.
//
// Production mode writes JSON for machine parsing; development mode writes
// colored console output. Components receive a *zap.Logger named after
// themselves, and LOG_COMPONENTS can raise or lower the level of one of
// them without touching the rest:
//
//	cfg := logging.DefaultConfig()
//	cfg.Components = "dispatch=debug,host=warn"
//	logger, err := logging.New(cfg)
//	actor := dispatch.New(dcfg, spawner, nil, logger.Logger)
package logging
