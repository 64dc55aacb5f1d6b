package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			manager := NewManager()

			Convey("Then it should be created successfully", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "wasuremon")
				So(manager.subsystem, ShouldEqual, "engine")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then metrics are registered on the given registry", func() {
				So(manager, ShouldNotBeNil)
				manager.snapshotsLoaded.Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_namespace_test_subsystem_snapshots_loaded_total")
			})
		})

		Convey("When empty option values are given", func() {
			manager := NewManager(WithNamespace(""), WithSubsystem(""), WithHistogramBuckets(nil), WithPrometheusRegistry(nil))

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "wasuremon")
				So(manager.subsystem, ShouldEqual, "engine")
				So(len(manager.histogramBuckets), ShouldBeGreaterThan, 0)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording snapshot metrics", func() {
			before := testutil.ToFloat64(globalManager.snapshotsLoaded)
			RecordSnapshotLoaded()
			RecordSnapshotLoadLatency(3)

			Convey("Then the counter advances", func() {
				So(testutil.ToFloat64(globalManager.snapshotsLoaded), ShouldEqual, before+1)
			})
		})

		Convey("When recording source failures", func() {
			before := testutil.ToFloat64(globalManager.sourceFailures.WithLabelValues("remote_events"))
			RecordSourceFailure("remote_events")
			RecordSourceFailure("remote_events")

			Convey("Then the labelled counter advances", func() {
				So(testutil.ToFloat64(globalManager.sourceFailures.WithLabelValues("remote_events")), ShouldEqual, before+2)
			})
		})

		Convey("When recording normalization metrics", func() {
			before := testutil.ToFloat64(globalManager.eventsNormalized.WithLabelValues("local"))
			RecordEventsNormalized("local", 5)
			RecordFieldDefault("severity", 1)
			RecordEventDuplicate()

			Convey("Then the origin counter advances by the batch size", func() {
				So(testutil.ToFloat64(globalManager.eventsNormalized.WithLabelValues("local")), ShouldEqual, before+5)
			})
		})

		Convey("When recording taxonomy and view metrics", func() {
			So(func() {
				RecordTaxonomyDuplicate("category")
				RecordIntegrityWarning()
				UpdateCreatures(7)
				RecordRecomputeLatency("creatures", 0.4)
				RecordHTTPRequest("creatures", "GET", "200")
				RecordHTTPRequestDuration("creatures", "GET", "200", 1.5)
			}, ShouldNotPanic)
			So(testutil.ToFloat64(globalManager.creaturesTotal), ShouldEqual, 7)
		})

		Convey("When reading the registry", func() {
			So(GetRegistry(), ShouldNotBeNil)
		})
	})
}
