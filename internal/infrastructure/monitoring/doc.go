/*
Package monitoring provides Prometheus metrics for the factory service.

Metrics are registered on a private registry, so several collectors can
coexist in one process (tests build one per case). The collector doubles as
a dispatch.Observer:

	metrics := monitoring.NewMetrics()
	actor := dispatch.New(cfg, spawner, metrics, logger)
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
