package cyphertest

import "context"

type requestKey struct{}

func withRequest(ctx context.Context, req Request) context.Context {
	return context.WithValue(ctx, requestKey{}, req)
}

// requestFrom returns the recorded request. Handlers read multipart parts
// from it because ServeHTTP already consumed the body.
func requestFrom(ctx context.Context) Request {
	req, _ := ctx.Value(requestKey{}).(Request)
	return req
}
