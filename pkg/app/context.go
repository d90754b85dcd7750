package app

import "context"

type ctxKey struct{}

// WithService attaches svc to ctx.
func WithService(ctx context.Context, svc *Service) context.Context {
	return context.WithValue(ctx, ctxKey{}, svc)
}

// FromContext returns the Service attached by WithService.
func FromContext(ctx context.Context) (*Service, bool) {
	if ctx == nil {
		return nil, false
	}
	svc, ok := ctx.Value(ctxKey{}).(*Service)
	return svc, ok && svc != nil
}
