package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aouiniamine/eyecheck/internal/features/catalog/controller"
	"github.com/aouiniamine/eyecheck/internal/features/catalog/dto"
	"github.com/aouiniamine/eyecheck/internal/features/catalog/repository"
	"github.com/aouiniamine/eyecheck/pkg/logger"
	"github.com/aouiniamine/eyecheck/pkg/metrics"
	"github.com/aouiniamine/eyecheck/pkg/response"
	"github.com/labstack/echo/v4"
	. "github.com/smartystreets/goconvey/convey"
	"go.mongodb.org/mongo-driver/bson"
)

type fakeService struct {
	items []dto.Document
	err   error
}

func (f *fakeService) List(context.Context) ([]dto.Document, error) {
	return f.items, f.err
}

func getItems(svc *fakeService) *httptest.ResponseRecorder {
	e := echo.New()
	controller.New(svc, logger.Nop(), metrics.NewManager()).RegisterRoutes(e)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/items", nil))
	return rec
}

func TestCatalogController_List(t *testing.T) {
	Convey("Given a collection with documents", t, func() {
		svc := &fakeService{items: []dto.Document{
			{{Key: "_id", Value: "65a1f0c2e4b0a1b2c3d4e5f6"}, {Key: "name", Value: "apple"}, {Key: "price", Value: 1.5}},
			{{Key: "_id", Value: "sku-2"}, {Key: "tags", Value: bson.A{"fresh"}}},
		}}

		Convey("When GET /items is called", func() {
			rec := getItems(svc)

			Convey("Then a raw JSON array is returned", func() {
				So(rec.Code, ShouldEqual, http.StatusOK)
				var got []map[string]interface{}
				So(json.Unmarshal(rec.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 2)
				So(got[0]["_id"], ShouldEqual, "65a1f0c2e4b0a1b2c3d4e5f6")
				So(got[0]["name"], ShouldEqual, "apple")
				So(got[0]["price"], ShouldEqual, 1.5)
				So(got[1]["tags"], ShouldResemble, []interface{}{"fresh"})
			})
		})
	})

	Convey("Given documents whose fields are not in alphabetical order", t, func() {
		svc := &fakeService{items: []dto.Document{{
			{Key: "_id", Value: "sku-9"},
			{Key: "zeta", Value: 1},
			{Key: "alpha", Value: bson.D{{Key: "b", Value: 2}, {Key: "a", Value: bson.A{bson.D{{Key: "y", Value: true}, {Key: "x", Value: nil}}}}}},
		}}}

		Convey("Then the stored field order is kept at every level", func() {
			rec := getItems(svc)
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldEqual,
				`[{"_id":"sku-9","zeta":1,"alpha":{"b":2,"a":[{"y":true,"x":null}]}}]`+"\n")
		})
	})

	Convey("Given an empty collection", t, func() {
		rec := getItems(&fakeService{items: []dto.Document{}})

		Convey("Then an empty array is returned", func() {
			So(rec.Code, ShouldEqual, http.StatusOK)
			So(rec.Body.String(), ShouldEqual, "[]\n")
		})
	})

	Convey("Given an unreachable database", t, func() {
		rec := getItems(&fakeService{err: repository.ErrStoreUnavailable})

		Convey("Then the request fails with a 500 envelope", func() {
			So(rec.Code, ShouldEqual, http.StatusInternalServerError)
			var body response.Response
			So(json.Unmarshal(rec.Body.Bytes(), &body), ShouldBeNil)
			So(body.Success, ShouldBeFalse)
			So(body.Error.Code, ShouldEqual, "INTERNAL_ERROR")
		})
	})
}
