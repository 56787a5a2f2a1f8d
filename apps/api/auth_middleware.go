package main

import (
	"net/http"

	firebaseauth "firebase.google.com/go/v4/auth"
	"go.uber.org/zap"

	"github.com/RidgelineRealtyCo/broker-portal/platform/go/actor"
	platformauth "github.com/RidgelineRealtyCo/broker-portal/platform/go/auth"
)

// buildAuthMiddleware constructs the bearer-token middleware. The provider
// only selects how tokens are verified; credential extraction is shared.
func buildAuthMiddleware(cfg config, fbAuth *firebaseauth.Client, logger *zap.Logger) func(http.Handler) http.Handler {
	var verify platformauth.VerifyFunc
	switch cfg.AuthProvider {
	case "firebase":
		verify = platformauth.FirebaseTokenVerifier(fbAuth)
	case "dev":
		logger.Warn("using dev auth middleware; do not use in production")
		verify = platformauth.UnsignedTokenVerifier()
	default:
		logger.Fatal("unsupported auth provider", zap.String("provider", cfg.AuthProvider))
	}

	return platformauth.JWT(verify, platformauth.DefaultCredentialExtractor)
}

// withActor lifts verified credentials into the explicit actor the workflows
// take. Requests without credentials pass through untouched; the role gates
// reject them downstream.
func withActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds, ok := platformauth.UserFromContext(r.Context())
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		act, err := actor.FromCredentials(creds)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(actor.IntoContext(r.Context(), act)))
	})
}
