package api

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"github.com/sumit-fleet/fleet-booking/internal/errors"
	"github.com/sumit-fleet/fleet-booking/internal/logger"
)

// HandleAPIGateway serves an API Gateway proxy request from the route table
func (h *Handler) HandleAPIGateway(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	requestID := request.RequestContext.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	ctx = logger.ContextWithRequestID(ctx, requestID)

	logger.Default().WithContext(ctx).Info("Received API request", logger.Fields{
		"path":   request.Path,
		"method": request.HTTPMethod,
	})

	if request.HTTPMethod == http.MethodOptions {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusNoContent,
			Headers:    responseHeaders(requestID),
		}, nil
	}

	body := []byte(request.Body)
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(request.Body)
		if err != nil {
			status, payload := renderError(ctx, errors.ErrInvalidRequest("Invalid request body", err))
			return gatewayResponse(status, payload, requestID), nil
		}
		body = decoded
	}

	op, params, err := h.match(request.HTTPMethod, request.Path)
	if err != nil {
		status, payload := renderError(ctx, err)
		return gatewayResponse(status, payload, requestID), nil
	}

	status, payload := run(ctx, op, &Request{Params: params, Body: body})
	return gatewayResponse(status, payload, requestID), nil
}

func gatewayResponse(status int, body []byte, requestID string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    responseHeaders(requestID),
		Body:       string(body),
	}
}

// match finds the first route whose pattern fits path. A path that fits
// only routes of other methods is a 405.
func (h *Handler) match(method, path string) (Operation, map[string]string, error) {
	segments := splitPath(path)
	pathKnown := false

	for _, route := range h.Routes() {
		params, fits := matchPattern(splitPath(route.Pattern), segments)
		if !fits {
			continue
		}
		if route.Method == method {
			return route.Op, params, nil
		}
		pathKnown = true
	}

	if pathKnown {
		return nil, nil, errors.ErrMethodNotAllowed(method)
	}
	return nil, nil, errors.ErrRouteNotFound()
}

func matchPattern(pattern, segments []string) (map[string]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}

	params := map[string]string{}
	for i, p := range pattern {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			if segments[i] == "" {
				return nil, false
			}
			params[p[1:len(p)-1]] = segments[i]
			continue
		}
		if p != segments[i] {
			return nil, false
		}
	}
	return params, true
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
