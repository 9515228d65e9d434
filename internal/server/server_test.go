package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/KaramelBytes/dataset-explorer/internal/chart"
	"github.com/KaramelBytes/dataset-explorer/internal/dataset"
	"github.com/KaramelBytes/dataset-explorer/internal/logging"
	"github.com/KaramelBytes/dataset-explorer/internal/schema"
)

const fixture = "gender,age,weight,obesity_group\n" +
	"female,21,64,normal_weight\n" +
	"male,35,110,obesity_type_ii\n" +
	"female,19,50,insufficient_weight\n" +
	"male,27,87,overweight_level_i\n"

func newTestServer(t *testing.T) (*httptest.Server, *chart.Renderer) {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, "obesity.csv")
	if err := os.WriteFile(p, []byte(fixture), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	s := schema.Default()
	ds, err := dataset.Load(p, dataset.Options{Categorical: s.Categorical})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	s, err = s.Resolve(ds.Columns(), ds.NumericColumns())
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	opt := chart.DefaultOptions()
	opt.OutputDir = filepath.Join(dir, "out")
	r := chart.NewRenderer(ds, s, opt)
	ts := httptest.NewServer(New(r, logging.Discard()).Handler())
	t.Cleanup(ts.Close)
	return ts, r
}

func postJSON(t *testing.T, url, body string) (*http.Response, chartResponse) {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	defer resp.Body.Close()
	var out chartResponse
	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return resp, out
}

func TestScatterEndpoint(t *testing.T) {
	ts, r := newTestServer(t)
	resp, out := postJSON(t, ts.URL+"/api/charts/scatter", `{"x":"age","y":"weight"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if out.Path == nil || *out.Path != r.Path(chart.KindScatter) || out.Message != "" {
		t.Fatalf("unexpected response: %+v", out)
	}
	if !strings.HasPrefix(out.Image, "data:image/png;base64,") {
		t.Fatalf("expected inline png, got %.40q", out.Image)
	}
	if out.ID == "" || resp.Header.Get("X-Request-ID") != out.ID {
		t.Fatalf("request id mismatch: body=%q header=%q", out.ID, resp.Header.Get("X-Request-ID"))
	}

	art, err := http.Get(ts.URL + "/artifacts/scatter.png")
	if err != nil {
		t.Fatalf("get artifact: %v", err)
	}
	defer art.Body.Close()
	b, _ := io.ReadAll(art.Body)
	if art.StatusCode != http.StatusOK || !strings.HasPrefix(string(b), "\x89PNG") {
		t.Fatalf("artifact status=%d", art.StatusCode)
	}
}

func TestHeatmapEndpoint_ValidationIsNotAnHTTPError(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, out := postJSON(t, ts.URL+"/api/charts/heatmap", `{"fields":["gender","age"]}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
	if out.Path != nil || out.Image != "" {
		t.Fatalf("expected null path, got %+v", out)
	}
	want := "Error: You selected categorical variables: gender. Please select only continuous variables."
	if out.Message != want {
		t.Fatalf("message=%q", out.Message)
	}

	_, out = postJSON(t, ts.URL+"/api/charts/heatmap", `{"fields":["age"]}`)
	if out.Path != nil || out.Message != "Error: Please select at least 2 variables." {
		t.Fatalf("unexpected: %+v", out)
	}
}

func TestErrorBarEndpoint(t *testing.T) {
	ts, _ := newTestServer(t)
	_, out := postJSON(t, ts.URL+"/api/charts/errorbar", `{"field":"weight"}`)
	if out.Path == nil || out.Kind != chart.KindErrorBar {
		t.Fatalf("unexpected: %+v", out)
	}
}

func TestBadJSON(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, _ := postJSON(t, ts.URL+"/api/charts/scatter", `{"x":`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d want 400", resp.StatusCode)
	}
}

func TestColumnsIndexAndMetrics(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/columns")
	if err != nil {
		t.Fatalf("get columns: %v", err)
	}
	var cols columnsResponse
	if err := json.NewDecoder(resp.Body).Decode(&cols); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()
	if len(cols.Columns) != 4 || len(cols.Continuous) != 2 || len(cols.Groups) != 7 {
		t.Fatalf("columns=%+v", cols)
	}

	resp, err = http.Get(ts.URL + "/")
	if err != nil {
		t.Fatalf("get index: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), "Generate Heatmap") || !strings.Contains(string(body), "obesity.csv") {
		t.Fatalf("index page missing content")
	}

	postJSON(t, ts.URL+"/api/charts/heatmap", `{"fields":["age"]}`)
	resp, err = http.Get(ts.URL + "/metrics")
	if err != nil {
		t.Fatalf("get metrics: %v", err)
	}
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(body), `dsexplorer_renders_total{kind="heatmap",outcome="rejected"} 1`) {
		t.Fatalf("metrics missing rejected heatmap counter:\n%s", body)
	}
}

func TestArtifactUnknownName(t *testing.T) {
	ts, _ := newTestServer(t)
	resp, err := http.Get(ts.URL + "/artifacts/passwd")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status=%d want 404", resp.StatusCode)
	}
}
