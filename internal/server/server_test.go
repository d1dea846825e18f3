package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aouiniamine/eyecheck/internal/config"
	"github.com/aouiniamine/eyecheck/pkg/logger"
	"github.com/aouiniamine/eyecheck/pkg/metrics"
	"github.com/aouiniamine/eyecheck/pkg/response"
	"github.com/labstack/echo/v4"
	. "github.com/smartystreets/goconvey/convey"
)

func newTestServer(origins []string, bodyLimit string) *Server {
	srv := New(Options{
		Config:    config.ServerConfig{Host: "127.0.0.1", Port: "0", AllowOrigins: origins},
		Logger:    logger.Nop(),
		Metrics:   metrics.NewManager(),
		BodyLimit: bodyLimit,
	})
	srv.Echo().GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"message": "hi"})
	})
	srv.Echo().POST("/echo", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	return srv
}

func serve(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

func TestServer_CORS(t *testing.T) {
	Convey("Given a server restricted to the local frontend", t, func() {
		srv := newTestServer([]string{"http://localhost:3000"}, "")

		Convey("When the allowed origin calls", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(echo.HeaderOrigin, "http://localhost:3000")
			rec := serve(srv, req)

			Convey("Then the origin is echoed back", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				So(rec.Header().Get(echo.HeaderAccessControlAllowOrigin), ShouldEqual, "http://localhost:3000")
			})
		})

		Convey("When another origin calls", func() {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(echo.HeaderOrigin, "http://evil.example")
			rec := serve(srv, req)

			Convey("Then no allow-origin header is sent", func() {
				So(rec.Header().Get(echo.HeaderAccessControlAllowOrigin), ShouldBeEmpty)
			})
		})
	})

	Convey("Given a server open to all origins", t, func() {
		srv := newTestServer([]string{"*"}, "")

		Convey("When a preflight arrives", func() {
			req := httptest.NewRequest(http.MethodOptions, "/echo", nil)
			req.Header.Set(echo.HeaderOrigin, "http://anywhere.example")
			req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodPost)
			rec := serve(srv, req)

			Convey("Then it is answered with a wildcard", func() {
				So(rec.Code, ShouldEqual, http.StatusNoContent)
				So(rec.Header().Get(echo.HeaderAccessControlAllowOrigin), ShouldEqual, "*")
			})
		})
	})
}

func TestServer_Middleware(t *testing.T) {
	Convey("Given a server with metrics and a body limit", t, func() {
		srv := newTestServer(nil, "1K")

		Convey("When any request is served", func() {
			rec := serve(srv, httptest.NewRequest(http.MethodGet, "/", nil))

			Convey("Then a request id is assigned", func() {
				So(rec.Header().Get(echo.HeaderXRequestID), ShouldHaveLength, 36)
			})

			Convey("And metrics expose the route", func() {
				m := serve(srv, httptest.NewRequest(http.MethodGet, "/metrics", nil))
				So(m.Code, ShouldEqual, http.StatusOK)
				So(m.Body.String(), ShouldContainSubstring, `eyecheck_http_requests_total`)
				So(m.Body.String(), ShouldContainSubstring, `route="/"`)
			})
		})

		Convey("When an unknown route is requested", func() {
			rec := serve(srv, httptest.NewRequest(http.MethodGet, "/nope", nil))

			Convey("Then the error envelope is used", func() {
				So(rec.Code, ShouldEqual, http.StatusNotFound)
				var body response.Response
				So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
				So(body.Success, ShouldBeFalse)
				So(body.Error.Code, ShouldEqual, "NOT_FOUND")
			})
		})

		Convey("When the body exceeds the limit", func() {
			req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(strings.Repeat("x", 4096)))
			rec := serve(srv, req)

			Convey("Then the request is rejected", func() {
				So(rec.Code, ShouldEqual, http.StatusRequestEntityTooLarge)
			})
		})
	})
}
