package http

import (
	"context"
	_ "embed"
	"errors"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/labstack/echo/v4"
)

//go:embed openapi.yaml
var openAPIDocument []byte

// LoadSpec parses and validates the embedded OpenAPI document.
func LoadSpec(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.Context = ctx

	doc, err := loader.LoadFromData(openAPIDocument)
	if err != nil {
		return nil, err
	}
	if err = doc.Validate(ctx); err != nil {
		return nil, err
	}
	return doc, nil
}

// SpecHandler serves the raw OpenAPI document.
func SpecHandler(c echo.Context) error {
	return c.Blob(http.StatusOK, "application/yaml", openAPIDocument)
}

// RequestValidator checks requests against the OpenAPI document before they
// reach a handler. Authentication is enforced by the JWT middleware, so the
// security requirements of the document are not re-checked here.
type RequestValidator struct {
	router routers.Router
}

func NewRequestValidator(doc *openapi3.T) (*RequestValidator, error) {
	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, err
	}
	return &RequestValidator{router: router}, nil
}

func (v *RequestValidator) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		route, pathParams, err := v.router.FindRoute(req)
		if err != nil {
			// Not part of the contract: leave it to echo's router.
			return next(c)
		}

		input := &openapi3filter.RequestValidationInput{
			Request:    req,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err = openapi3filter.ValidateRequest(req.Context(), input); err != nil {
			return c.JSON(http.StatusBadRequest, validationResponse(err))
		}
		return next(c)
	}
}

func validationResponse(err error) ErrorResponse {
	resp := ErrorResponse{Code: http.StatusBadRequest, Message: "request does not match the API contract"}

	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.Parameter != nil {
			resp.Fields = append(resp.Fields, reqErr.Parameter.Name)
		}
		resp.Message = reqErr.Error()
	}

	var schemaErr *openapi3.SchemaError
	if errors.As(err, &schemaErr) {
		pointer := schemaErr.JSONPointer()
		if len(pointer) > 0 {
			resp.Fields = append(resp.Fields, strings.Join(pointer, "."))
		}
		resp.Message = schemaErr.Reason
	}

	return resp
}
