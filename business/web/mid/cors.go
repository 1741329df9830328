package mid

import (
	"context"
	"net/http"

	"github.com/ardanlabs/powchain/foundation/web"
)

// The node API only reads with GET and writes with POST.
const (
	corsMethods = "GET, POST, OPTIONS"
	corsHeaders = "Origin, Accept, Content-Type, Content-Length, Accept-Encoding"
)

// Cors lets browsers from the specified origin call the node API.
func Cors(origin string) web.Middleware {
	m := func(handler web.Handler) web.Handler {
		h := func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", corsMethods)
			w.Header().Set("Access-Control-Allow-Headers", corsHeaders)

			return handler(ctx, w, r)
		}

		return h
	}

	return m
}
