// Package relay assembles the verification mail relay: configuration, the
// email sender, the HTTP routes and the server lifecycle.
//
// Routes:
//
//	GET  /            200 "ok"
//	POST /send-email  {"email": "...", "code": "..."} -> {"success": bool, "message": "..."}
//	GET  /metrics     Prometheus metrics, only with METRICS_ENABLED=true
//
// Every route, including unknown paths, sits behind the IP allow-list: a peer
// other than ALLOWED_IP gets 403 with an empty body.
//
// Typical startup:
//
//	var cfg relay.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//	app, err := relay.New(cfg)
//	if err != nil {
//		return err
//	}
//	return app.Run(ctx)
package relay
