package router

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/plumehq/backend/pkg/errorx"
	"github.com/plumehq/backend/pkg/xcontext"
)

type (
	requestKey struct{}
	errorKey   struct{}
)

// Request returns the *http.Request the current call was decoded from.
func Request(ctx context.Context) *http.Request {
	req, ok := ctx.Value(requestKey{}).(*http.Request)
	if !ok {
		return nil
	}

	return req
}

// Error returns the error the handler or a middleware produced, if any.
// It is only meaningful inside closers.
func Error(ctx context.Context) error {
	err, ok := ctx.Value(errorKey{}).(error)
	if !ok {
		return nil
	}

	return err
}

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ctx := r.Context()
		ctx = xcontext.WithDB(ctx, router.db)
		ctx = xcontext.WithConfigs(ctx, router.cfg)
		ctx = xcontext.WithLogger(ctx, router.logger)
		ctx = xcontext.WithTokenEngine(ctx, router.tokenEngine)
		ctx = context.WithValue(ctx, requestKey{}, r)

		resp, err := func() (*Response, error) {
			var req Request
			switch method {
			case http.MethodGet:
				if err := bindQuery(r, &req); err != nil {
					return nil, errorx.New(errorx.BadRequest, "Cannot bind the request")
				}
			case http.MethodPost:
				if r.Body != nil && r.ContentLength != 0 {
					if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
						return nil, errorx.New(errorx.BadRequest, "Cannot parse the request body")
					}
				}
			}

			for _, m := range router.befores {
				newCtx, err := m(ctx)
				if err != nil {
					return nil, err
				}

				// A middleware returning no context keeps the current one.
				if newCtx != nil {
					ctx = newCtx
				}
			}

			return handler(ctx, &req)
		}()

		if err != nil {
			ctx = context.WithValue(ctx, errorKey{}, err)
			writeResponse(ctx, w, newErrorResponse(err))
		} else {
			writeResponse(ctx, w, newResponse(resp))
		}

		for _, c := range router.closers {
			c(ctx)
		}
	}
}

// bindQuery fills req from URL query parameters using json tags. Only
// flat structs of strings, integers, and bools are supported, which
// covers every GET request DTO.
func bindQuery(r *http.Request, req any) error {
	value := reflect.ValueOf(req).Elem()
	structType := value.Type()

	for i := 0; i < structType.NumField(); i++ {
		name, _, _ := strings.Cut(structType.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}

		raw := r.URL.Query().Get(name)
		if raw == "" {
			continue
		}

		field := value.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(raw)
		case reflect.Int, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(n)
		case reflect.Uint, reflect.Uint32, reflect.Uint64:
			n, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				return err
			}
			field.SetUint(n)
		case reflect.Bool:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return err
			}
			field.SetBool(b)
		}
	}

	return nil
}
