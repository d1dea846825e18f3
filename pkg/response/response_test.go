package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	. "github.com/smartystreets/goconvey/convey"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return e.NewContext(req, rec), rec
}

func decode(rec *httptest.ResponseRecorder) Response {
	var r Response
	So(json.Unmarshal(rec.Body.Bytes(), &r), ShouldBeNil)
	return r
}

func TestEnvelope(t *testing.T) {
	Convey("Given an echo context", t, func() {
		c, rec := newContext()

		Convey("When writing a success", func() {
			So(Success(c, map[string]string{"database": "healthy"}), ShouldBeNil)

			Convey("Then data is wrapped", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				r := decode(rec)
				So(r.Success, ShouldBeTrue)
				So(r.Error, ShouldBeNil)
			})
		})

		Convey("When writing a validation error", func() {
			So(UnprocessableEntity(c, "left_eye is required"), ShouldBeNil)

			Convey("Then status and code match", func() {
				So(rec.Code, ShouldEqual, http.StatusUnprocessableEntity)
				r := decode(rec)
				So(r.Success, ShouldBeFalse)
				So(r.Error.Code, ShouldEqual, "VALIDATION_ERROR")
				So(r.Error.Message, ShouldEqual, "left_eye is required")
			})
		})

		Convey("When writing an internal error", func() {
			So(InternalError(c, "failed to list items"), ShouldBeNil)

			Convey("Then a 500 envelope is produced", func() {
				So(rec.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode(rec).Error.Code, ShouldEqual, "INTERNAL_ERROR")
			})
		})

		Convey("When readiness fails", func() {
			So(ServiceUnavailable(c, map[string]string{"model": "unhealthy"}), ShouldBeNil)

			Convey("Then details travel with a 503", func() {
				So(rec.Code, ShouldEqual, http.StatusServiceUnavailable)
				r := decode(rec)
				So(r.Data, ShouldNotBeNil)
				So(r.Error.Code, ShouldEqual, "SERVICE_UNAVAILABLE")
			})
		})
	})
}

func TestCodeFor(t *testing.T) {
	Convey("Given HTTP statuses", t, func() {
		So(CodeFor(http.StatusNotFound), ShouldEqual, "NOT_FOUND")
		So(CodeFor(http.StatusMethodNotAllowed), ShouldEqual, "METHOD_NOT_ALLOWED")
		So(CodeFor(http.StatusRequestEntityTooLarge), ShouldEqual, "PAYLOAD_TOO_LARGE")
		So(CodeFor(http.StatusBadGateway), ShouldEqual, "INTERNAL_ERROR")
		So(CodeFor(http.StatusTeapot), ShouldEqual, "ERROR")
	})
}
