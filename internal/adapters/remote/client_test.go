package remote_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/wasuremon/internal/adapters/remote"
	"github.com/okian/wasuremon/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func newServer(events, taxonomy string, status int) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/events", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(events))
	})
	mux.HandleFunc("/taxonomy", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(taxonomy))
	})
	return httptest.NewServer(mux)
}

func TestClientFetch(t *testing.T) {
	Convey("Given a healthy remote", t, func() {
		srv := newServer(
			`[{"id":"r1","item":"鍵","severity":4,"situations":["rushing"],"occurred_at":"2025-03-01T09:00:00Z"},
			  {"id":5}, {"id":"r2","item":"傘","forgot":false}]`,
			`{"categories":[{"id":"valuables","name":"貴重品","emoji":"💎"}],"item_types":[{"id":"key","name":"鍵","emoji":"🔑","category_id":"valuables"}]}`,
			http.StatusOK)
		defer srv.Close()
		c := remote.New(srv.URL + "/")
		ctx := context.Background()

		Convey("When fetching events", func() {
			events, err := c.FetchEvents(ctx)

			Convey("Then decodable records are returned in order", func() {
				So(err, ShouldBeNil)
				So(events, ShouldHaveLength, 2)
				first := events[0].(model.RemoteEvent)
				So(first.ID, ShouldEqual, "r1")
				So(string(first.Severity), ShouldEqual, "4")
				second := events[1].(model.RemoteEvent)
				So(string(second.Forgot), ShouldEqual, "false")
			})
		})

		Convey("When fetching the taxonomy", func() {
			tax, err := c.FetchTaxonomy(ctx)
			So(err, ShouldBeNil)
			So(tax.Categories, ShouldHaveLength, 1)
			So(tax.ItemTypes[0].CategoryID, ShouldEqual, "valuables")
			So(tax.Situations, ShouldBeEmpty)
		})
	})

	Convey("Given a failing remote", t, func() {
		srv := newServer(`oops`, `oops`, http.StatusBadGateway)
		defer srv.Close()
		c := remote.New(srv.URL)

		_, err := c.FetchEvents(context.Background())
		So(errors.Is(err, remote.ErrUnavailable), ShouldBeTrue)
		_, err = c.FetchTaxonomy(context.Background())
		So(errors.Is(err, remote.ErrUnavailable), ShouldBeTrue)
	})

	Convey("Given a remote serving garbage", t, func() {
		srv := newServer(`{"not":"a list"}`, `[`, http.StatusOK)
		defer srv.Close()
		c := remote.New(srv.URL)

		_, err := c.FetchEvents(context.Background())
		So(errors.Is(err, remote.ErrMalformedPayload), ShouldBeTrue)
		_, err = c.FetchTaxonomy(context.Background())
		So(errors.Is(err, remote.ErrMalformedPayload), ShouldBeTrue)
	})

	Convey("Given a slow remote", t, func() {
		block := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-block:
			case <-r.Context().Done():
			}
		}))
		defer srv.Close()
		defer close(block)
		c := remote.New(srv.URL, remote.WithTimeout(50*time.Millisecond))

		Convey("Then the request times out as unavailable", func() {
			_, err := c.FetchEvents(context.Background())
			So(errors.Is(err, remote.ErrUnavailable), ShouldBeTrue)
		})
	})

	Convey("Given an unreachable remote", t, func() {
		c := remote.New("http://127.0.0.1:1")
		_, err := c.FetchTaxonomy(context.Background())
		So(errors.Is(err, remote.ErrUnavailable), ShouldBeTrue)
	})
}
