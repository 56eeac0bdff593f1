package api

import (
	"context"
	"errors"

	"github.com/tutusiji/lantu-next/services"
)

type keyType string

const (
	claimsKey keyType = "adminClaims"
)

// ctxWithClaims adds verified admin claims to the context
func ctxWithClaims(ctx context.Context, claims *services.AdminClaims) context.Context {
	return context.WithValue(ctx, claimsKey, claims)
}

// ctxGetClaims retrieves the admin claims placed by the auth middleware
func ctxGetClaims(ctx context.Context) (*services.AdminClaims, error) {
	if ctxValue := ctx.Value(claimsKey); ctxValue == nil {
		return nil, errors.New("key not found in context")
	} else if claims, ok := ctxValue.(*services.AdminClaims); !ok {
		return nil, errors.New("value is not of type `*services.AdminClaims`")
	} else {
		return claims, nil
	}
}

// adminName returns the subject of the request's admin token, or "" for
// unauthenticated requests.
func adminName(ctx context.Context) string {
	claims, err := ctxGetClaims(ctx)
	if err != nil {
		return ""
	}
	return claims.Subject
}
