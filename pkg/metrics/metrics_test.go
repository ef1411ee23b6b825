package metrics

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMetricsManagerCreation(t *testing.T) {
	Convey("Given metrics manager creation", t, func() {
		Convey("When creating with default options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(WithPrometheusRegistry(registry))

			Convey("Then it should use the service namespace", func() {
				So(manager, ShouldNotBeNil)
				So(manager.namespace, ShouldEqual, "folio")
				So(manager.subsystem, ShouldEqual, "api")
			})
		})

		Convey("When creating with custom options", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace("test_namespace"),
				WithSubsystem("test_subsystem"),
				WithHistogramBuckets([]float64{0.1, 0.5, 1.0}),
				WithConstLabels(map[string]string{"env": "test"}),
				WithPrometheusRegistry(registry),
			)

			Convey("Then options are applied", func() {
				So(manager.namespace, ShouldEqual, "test_namespace")
				So(manager.histogramBuckets, ShouldResemble, []float64{0.1, 0.5, 1.0})
				So(manager.constLabels["env"], ShouldEqual, "test")
			})

			Convey("And metrics carry the namespace", func() {
				manager.storeOperations.WithLabelValues(OpLoad, ResultOK).Inc()
				families, err := registry.Gather()
				So(err, ShouldBeNil)
				names := make([]string, 0, len(families))
				for _, f := range families {
					names = append(names, f.GetName())
				}
				So(names, ShouldContain, "test_namespace_test_subsystem_store_operations_total")
			})
		})

		Convey("When passing empty option values", func() {
			registry := prometheus.NewRegistry()
			manager := NewManager(
				WithNamespace(""),
				WithSubsystem(""),
				WithHistogramBuckets(nil),
				WithPrometheusRegistry(registry),
			)

			Convey("Then defaults are kept", func() {
				So(manager.namespace, ShouldEqual, "folio")
				So(manager.subsystem, ShouldEqual, "api")
				So(manager.histogramBuckets, ShouldResemble, latencyBuckets)
			})
		})
	})
}

func TestMetricsRecording(t *testing.T) {
	Convey("Given the global metrics", t, func() {
		Convey("When recording store operations", func() {
			before := testutil.ToFloat64(globalManager.storeOperations.WithLabelValues(OpSave, ResultIOError))
			RecordStoreOperation(OpSave, ResultIOError, 1.5)

			Convey("Then the counter increases", func() {
				after := testutil.ToFloat64(globalManager.storeOperations.WithLabelValues(OpSave, ResultIOError))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When updating gauges", func() {
			UpdateDocumentBytes(2048)
			UpdateProfileItems("projects", 4)

			Convey("Then the values are set", func() {
				So(testutil.ToFloat64(globalManager.documentBytes), ShouldEqual, 2048)
				So(testutil.ToFloat64(globalManager.profileItems.WithLabelValues("projects")), ShouldEqual, 4)
			})
		})

		Convey("When recording HTTP requests and errors", func() {
			before := testutil.ToFloat64(globalManager.httpRequests.WithLabelValues("skills", "GET", "200"))
			RecordHTTPRequest("skills", "GET", "200")
			RecordHTTPRequestDuration("skills", "GET", "200", 0.7)
			RecordErrorByEndpoint("profile", "GET", "server_error")
			RecordHandlerPanic()

			Convey("Then the request counter increases", func() {
				after := testutil.ToFloat64(globalManager.httpRequests.WithLabelValues("skills", "GET", "200"))
				So(after-before, ShouldEqual, 1)
			})
		})

		Convey("When updating process metrics", func() {
			UpdateSystemMemoryUsage(4096)
			UpdateSystemGoroutineCount(12)
			RecordSystemGCPauseTime(0.3)

			Convey("Then the gauges hold the values", func() {
				So(testutil.ToFloat64(globalManager.systemMemoryUsage), ShouldEqual, 4096)
				So(testutil.ToFloat64(globalManager.systemGoroutineCount), ShouldEqual, 12)
			})
		})

		Convey("Then the registry gathers without error", func() {
			_, err := GetRegistry().Gather()
			So(err, ShouldBeNil)
		})
	})
}

func TestMetricsConcurrency(t *testing.T) {
	Convey("Given concurrent recorders", t, func() {
		before := testutil.ToFloat64(globalManager.storeOperations.WithLabelValues(OpLoad, ResultOK))

		var wg sync.WaitGroup
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				RecordStoreOperation(OpLoad, ResultOK, 0.2)
			}()
		}
		wg.Wait()

		Convey("Then every increment is counted", func() {
			after := testutil.ToFloat64(globalManager.storeOperations.WithLabelValues(OpLoad, ResultOK))
			So(after-before, ShouldEqual, 50)
		})
	})
}
