// Package apigw adapts the product use cases to API Gateway proxy
// integrations and direct Lambda invocations.
package apigw

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"

	"github.com/kolyapvp/products-app/internal/domain/event"
	"github.com/kolyapvp/products-app/internal/domain/product"
	"github.com/kolyapvp/products-app/internal/usecase"
)

const (
	resourceProducts = "/products"
	resourceProduct  = "/products/{id}"

	emailHeader = "X-User-Email"
)

type Handler struct {
	admin *usecase.AdminProduct
	get   *usecase.GetProduct
	list  *usecase.ListProducts
}

// NewHandler accepts nil use cases for the entrypoints a function does not serve.
func NewHandler(admin *usecase.AdminProduct, get *usecase.GetProduct, list *usecase.ListProducts) *Handler {
	return &Handler{admin: admin, get: get, list: list}
}

// Admin serves POST /products, PUT /products/{id} and DELETE /products/{id}.
func (h *Handler) Admin(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logRequest(ctx, req)
	meta := usecase.Meta{Email: email(req), RequestID: req.RequestContext.RequestID}

	switch {
	case req.Resource == resourceProducts && req.HTTPMethod == http.MethodPost:
		var in product.Input
		if err := json.Unmarshal([]byte(req.Body), &in); err != nil {
			return text(http.StatusBadRequest, "invalid request body"), nil
		}
		p, err := h.admin.Create(ctx, in, meta)
		if err != nil {
			return failure(ctx, req, err, http.StatusInternalServerError), nil
		}
		return jsonResponse(http.StatusCreated, p), nil

	case req.Resource == resourceProduct && req.HTTPMethod == http.MethodPut:
		var in product.Input
		if err := json.Unmarshal([]byte(req.Body), &in); err != nil {
			return text(http.StatusBadRequest, "invalid request body"), nil
		}
		p, err := h.admin.Update(ctx, req.PathParameters["id"], in, meta)
		if err != nil {
			return failure(ctx, req, err, http.StatusBadRequest), nil
		}
		return jsonResponse(http.StatusOK, p), nil

	case req.Resource == resourceProduct && req.HTTPMethod == http.MethodDelete:
		p, err := h.admin.Delete(ctx, req.PathParameters["id"], meta)
		if err != nil {
			return failure(ctx, req, err, http.StatusNotFound), nil
		}
		return jsonResponse(http.StatusOK, p), nil
	}

	return text(http.StatusBadRequest, "Bad Request"), nil
}

// Fetch serves GET /products and GET /products/{id}.
func (h *Handler) Fetch(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logRequest(ctx, req)
	if req.HTTPMethod != http.MethodGet {
		return text(http.StatusBadRequest, "Bad Request"), nil
	}

	switch req.Resource {
	case resourceProducts:
		products, err := h.list.Execute(ctx)
		if err != nil {
			return failure(ctx, req, err, http.StatusInternalServerError), nil
		}
		return jsonResponse(http.StatusOK, products), nil
	case resourceProduct:
		p, err := h.get.Execute(ctx, req.PathParameters["id"])
		if err != nil {
			return failure(ctx, req, err, http.StatusNotFound), nil
		}
		return jsonResponse(http.StatusOK, p), nil
	}

	return text(http.StatusBadRequest, "Bad Request"), nil
}

// NewEventsHandler exposes the recorder as a directly invoked function.
func NewEventsHandler(record *usecase.RecordProductEvent) func(context.Context, event.ProductEvent) (event.Ack, error) {
	return func(ctx context.Context, ev event.ProductEvent) (event.Ack, error) {
		slog.InfoContext(ctx, "product event received",
			"event_type", ev.EventType,
			"product_id", ev.ProductID,
			"request_id", ev.RequestID,
			"lambda_request_id", lambdaRequestID(ctx),
		)
		return record.Execute(ctx, ev)
	}
}

func failure(ctx context.Context, req events.APIGatewayProxyRequest, err error, notFound int) events.APIGatewayProxyResponse {
	switch {
	case errors.Is(err, product.ErrValidation):
		return text(http.StatusBadRequest, err.Error())
	case errors.Is(err, product.ErrNotFound):
		return text(notFound, "Product not found")
	case errors.Is(err, product.ErrAlreadyExists):
		return text(http.StatusConflict, err.Error())
	}
	slog.ErrorContext(ctx, "request failed",
		"resource", req.Resource,
		"method", req.HTTPMethod,
		"request_id", req.RequestContext.RequestID,
		"error", err,
	)
	return text(http.StatusInternalServerError, "internal server error")
}

// email prefers the Cognito authorizer claim over the header.
func email(req events.APIGatewayProxyRequest) string {
	if claims, ok := req.RequestContext.Authorizer["claims"].(map[string]any); ok {
		if v, ok := claims["email"].(string); ok && v != "" {
			return v
		}
	}
	for k, v := range req.Headers {
		if http.CanonicalHeaderKey(k) == emailHeader {
			return v
		}
	}
	return ""
}

func logRequest(ctx context.Context, req events.APIGatewayProxyRequest) {
	slog.InfoContext(ctx, "api gateway request",
		"method", req.HTTPMethod,
		"resource", req.Resource,
		"path", req.Path,
		"api_request_id", req.RequestContext.RequestID,
		"lambda_request_id", lambdaRequestID(ctx),
	)
}

func lambdaRequestID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return lc.AwsRequestID
	}
	return ""
}

func jsonResponse(status int, v any) events.APIGatewayProxyResponse {
	body, err := json.Marshal(v)
	if err != nil {
		return text(http.StatusInternalServerError, "internal server error")
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(body),
	}
}

func text(status int, body string) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
		Body:       body,
	}
}
