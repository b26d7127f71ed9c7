// Package handler provides the response-as-function abstraction used by the
// HTTP layer.
//
// A HandlerFunc inspects the request and returns a Response; the Response
// writes headers, status and body:
//
//	func hello(r *http.Request) handler.Response {
//		return response.String("hello")
//	}
//
//	mux.Handle("/", handler.Handle(hello, nil))
//
// Handle wires a HandlerFunc into net/http. Errors returned by a Response are
// passed to the supplied ErrorHandler.
package handler
