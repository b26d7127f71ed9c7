// Package health provides the liveness handler.
//
// Liveness answers 200 "ok" as long as the process serves HTTP:
//
//	r.Handle("/", handler.Handle(health.Liveness, nil)).Methods(http.MethodGet)
package health
