package mid

import (
	"context"
	"net/http"

	"github.com/ardanlabs/ledger/foundation/web"
)

// Cors allows browser clients from the origin to read the ledger and submit
// transactions. The API only takes GET and POST, and JSON bodies.
func Cors(origin string) web.Middleware {

	// This is the actual middleware function to be executed.
	m := func(handler web.Handler) web.Handler {

		// Create the handler that will be attached in the middleware chain.
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			hdr := w.Header()
			hdr.Set("Access-Control-Allow-Origin", origin)
			if origin != "*" {
				hdr.Add("Vary", "Origin")
			}

			// Preflight answers can be cached by the browser for a day.
			if r.Method == http.MethodOptions {
				hdr.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				hdr.Set("Access-Control-Allow-Headers", "Accept, Content-Type")
				hdr.Set("Access-Control-Max-Age", "86400")
			}

			// Call the next handler.
			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
