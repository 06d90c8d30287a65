package httpin

import (
	"net/http"

	"solcam/internal/adapters/in/http/handlers"
	"solcam/internal/adapters/in/http/middleware"
	"solcam/internal/application/holdings"
	"solcam/internal/application/usecase"
)

// RouterDeps collects everything the HTTP surface needs, injected from
// the DI container. Nil members leave their routes unmounted so the
// service still boots with a partial configuration.
type RouterDeps struct {
	Pipeline   *usecase.MintPipeline
	Creator    usecase.Signer
	Endpoint   string
	Holdings   *holdings.Cache
	Reconciler *usecase.Reconciler

	// Auth, when set, gates the mint endpoint behind Firebase ID tokens.
	Auth *middleware.UserAuth
}

// NewRouter sets up routing and the middleware chain (CORS outermost,
// then Recover, so a panic response still carries the CORS headers).
func NewRouter(deps RouterDeps) http.Handler {
	mux := http.NewServeMux()

	// Health check (always on)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	if deps.Pipeline != nil && deps.Creator != nil {
		var mint http.Handler = handlers.NewMintHandler(deps.Pipeline, deps.Creator, deps.Endpoint)
		if deps.Auth != nil {
			mint = deps.Auth.Handler(mint)
		}
		mux.Handle("/nfts/mint", mint)
	}

	if deps.Holdings != nil {
		mux.Handle("/wallets/", handlers.NewHoldingsHandler(deps.Holdings))
	}

	if deps.Reconciler != nil {
		mux.Handle("/admin/orphans", handlers.NewOrphansHandler(deps.Reconciler))
	}

	return middleware.CORS(middleware.Recover(mux))
}
