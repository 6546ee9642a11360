package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/curbscope/curbscope/internal/config"
	"github.com/curbscope/curbscope/internal/loader"
	"github.com/curbscope/curbscope/internal/series"
	"github.com/curbscope/curbscope/pkg/models"
)

func testServer() *Server {
	ds := &loader.Dataset{
		Entities: []models.Entity{
			{ID: "lot-a", Name: "Lot A", Color: "#ff0000", Kind: models.EntityArea},
		},
		Readings: []models.Reading{
			{
				Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
				EntityID:  "lot-a", Occupied: 50, Capacity: 100,
			},
			{
				Timestamp: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
				EntityID:  "lot-a", Occupied: 25, Capacity: 50,
			},
		},
	}
	return New(ds, config.DefaultsConfig{})
}

const chartBody = `{
	"range": {"start": "2024-01-01T00:00:00Z", "end": "2024-01-31T00:00:00Z"},
	"dimension": {"type": "aoi", "entities": ["lot-a"]}
}`

func TestChartHandler(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodPost, "/api/chart", strings.NewReader(chartBody))
	w := httptest.NewRecorder()
	srv.ChartHandler(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var result series.Result
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Axis != series.AxisTime {
		t.Errorf("axis = %q, want time", result.Axis)
	}
	if len(result.Series) != 1 || len(result.Series[0].Points) != 1 {
		t.Fatalf("unexpected series shape: %+v", result.Series)
	}
	// defaults fill in daily/average/occupancy: weighted value is 50
	if v := result.Series[0].Points[0].Value; v != 50 {
		t.Errorf("bucket value = %v, want 50", v)
	}
	if result.RunID == "" {
		t.Error("missing run ID")
	}
}

func TestMapHandlerAgreesWithChart(t *testing.T) {
	srv := testServer()

	req := httptest.NewRequest(http.MethodPost, "/api/chart", strings.NewReader(chartBody))
	w := httptest.NewRecorder()
	srv.ChartHandler(w, req)
	var chart series.Result
	if err := json.Unmarshal(w.Body.Bytes(), &chart); err != nil {
		t.Fatal(err)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/map", strings.NewReader(chartBody))
	w = httptest.NewRecorder()
	srv.MapHandler(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var mapResp struct {
		Values []series.EntityValue `json:"values"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &mapResp); err != nil {
		t.Fatal(err)
	}

	var lotA *series.EntityValue
	for i := range mapResp.Values {
		if mapResp.Values[i].EntityID == "lot-a" {
			lotA = &mapResp.Values[i]
		}
	}
	if lotA == nil {
		t.Fatal("map response missing lot-a")
	}
	if lotA.Value != chart.Series[0].ReferenceValue {
		t.Errorf("map value %v != chart reference value %v", lotA.Value, chart.Series[0].ReferenceValue)
	}
}

func TestChartHandlerRejectsBadJSON(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodPost, "/api/chart", strings.NewReader("{nope"))
	w := httptest.NewRecorder()
	srv.ChartHandler(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestEntitiesHandlerIncludesAggregate(t *testing.T) {
	srv := testServer()
	req := httptest.NewRequest(http.MethodGet, "/api/entities", nil)
	w := httptest.NewRecorder()
	srv.EntitiesHandler(w, req)

	var entities []models.Entity
	if err := json.Unmarshal(w.Body.Bytes(), &entities); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, e := range entities {
		if e.IsAggregate() {
			found = true
		}
	}
	if !found {
		t.Error("entities response missing the synthetic aggregate")
	}
}
