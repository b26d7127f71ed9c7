// Package server wraps http.Server with graceful shutdown and errgroup-friendly
// lifecycle helpers.
//
// Start binds the address before serving, so an occupied port or a bad
// address is reported immediately instead of from a background goroutine.
// Run returns a func() error for errgroup:
//
//	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
//	if err != nil {
//		return err
//	}
//
//	eg, ctx := errgroup.WithContext(ctx)
//	eg.Go(srv.Run(ctx, handler))
//	return eg.Wait()
//
// Cancelling the context triggers Shutdown with the configured timeout
// (30s by default). The default address is 127.0.0.1:3000 and can be changed
// with SERVER_ADDR.
package server
