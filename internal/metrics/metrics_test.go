package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"prospector/internal/services"
)

func TestRecorderCounts(t *testing.T) {
	r := New()
	r.ObserveRequest("leads", nil)
	r.ObserveRequest("leads", services.ErrRateLimited)
	r.ObserveRequest("leads", services.ErrRateLimited)
	r.AddRotations("leads", 2)
	r.AddPage(3, 1)
	r.ObserveVerification("matched")

	if got := testutil.ToFloat64(r.requests.WithLabelValues("leads", "rate_limited")); got != 2 {
		t.Fatalf("rate limited requests = %v", got)
	}
	if got := testutil.ToFloat64(r.requests.WithLabelValues("leads", "ok")); got != 1 {
		t.Fatalf("ok requests = %v", got)
	}
	if got := testutil.ToFloat64(r.rotations.WithLabelValues("leads")); got != 2 {
		t.Fatalf("rotations = %v", got)
	}
	if testutil.ToFloat64(r.persisted) != 3 || testutil.ToFloat64(r.skipped) != 1 {
		t.Fatal("unexpected persisted/skipped counts")
	}
	if got := testutil.ToFloat64(r.verifications.WithLabelValues("matched")); got != 1 {
		t.Fatalf("verifications = %v", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := New()
	r.ObserveRequest("email", errors.New("boom"))
	path := filepath.Join(t.TempDir(), "prospector.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), `prospector_requests_total{outcome="error",source="email"} 1`) {
		t.Fatalf("unexpected exposition:\n%s", data)
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var r *Recorder
	r.ObserveRequest("leads", nil)
	r.AddRotations("leads", 1)
	r.AddPage(1, 1)
	r.ObserveVerification("matched")
	if err := r.WriteTextfile("/nonexistent/x.prom"); err != nil {
		t.Fatalf("nil recorder write: %v", err)
	}
}
