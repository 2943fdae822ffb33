package middleware

import "context"

type contextKey string

const (
	ctxShopperID contextKey = "shopper_id"
	ctxBearer    contextKey = "bearer"
	ctxSessionID contextKey = "cart_session"
)

func ShopperIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxShopperID)
}

// BearerFromContext returns the raw access token forwarded to the catalog API.
func BearerFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxBearer)
}

func SessionIDFromContext(ctx context.Context) string {
	return stringFromContext(ctx, ctxSessionID)
}

func WithShopperID(ctx context.Context, shopperID string) context.Context {
	return withValue(ctx, ctxShopperID, shopperID)
}

func WithBearer(ctx context.Context, token string) context.Context {
	return withValue(ctx, ctxBearer, token)
}

// WithSessionID injects the cart session identifier for downstream handlers.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return withValue(ctx, ctxSessionID, sessionID)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func withValue(ctx context.Context, key contextKey, value string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, key, value)
}
