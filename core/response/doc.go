// Package response provides handler.Response constructors for text and JSON
// replies.
//
//	func status(r *http.Request) handler.Response {
//		return response.JSON(map[string]bool{"ok": true})
//	}
//
// Bodies are fully encoded before the status line is written and sent with
// Content-Length. A zero status means 200, or 204 for a nil JSON value.
package response
