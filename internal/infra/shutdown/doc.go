// Package shutdown ties long-running CLI commands to process signals.
//
// WithSignals returns a context cancelled on SIGINT or SIGTERM. A Handler
// collects cleanup hooks (closing a file watcher, flushing output) and
// runs them once, in reverse order, under a timeout:
//
//	ctx, stop := shutdown.WithSignals(c.Context)
//	defer stop()
//	h := shutdown.NewHandler(5 * time.Second)
//	h.OnShutdown(func(context.Context) error { return w.Stop() })
//	defer h.Shutdown()
//	<-ctx.Done()
package shutdown
