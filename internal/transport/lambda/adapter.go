// Package lambda serves the HTTP router behind an API Gateway HTTP API
// (payload format 2.0).
package lambda

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

// Handler is the signature accepted by lambda.Start.
type Handler func(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error)

// NewHandler adapts h to API Gateway events. The source IP of the event
// becomes the request's RemoteAddr, so per-client rate limiting keeps working.
func NewHandler(h http.Handler) Handler {
	return httpadapter.NewV2(h).ProxyWithContext
}
