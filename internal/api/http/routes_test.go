package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/uavchum/uavchum/internal/flight"
	"github.com/uavchum/uavchum/internal/hazard"
	"github.com/uavchum/uavchum/internal/registry"
)

func testApp() (*fiber.App, *registry.Registry) {
	app := fiber.New()
	reg := registry.New()
	svc := flight.NewService(nil, nil, reg, nil)
	RegisterRoutes(app, svc, reg)
	return app, reg
}

// TestAssessmentQueryValidation verifies the coordinate and drone-class
// checks reject bad input before any upstream call is made.
func TestAssessmentQueryValidation(t *testing.T) {
	app, _ := testApp()

	cases := []string{
		"/api/v1/assessment",
		"/api/v1/assessment?lat=40",
		"/api/v1/assessment?lat=abc&lon=-105",
		"/api/v1/assessment?lat=95&lon=-105",
		"/api/v1/assessment?lat=40&lon=-190",
		"/api/v1/assessment?lat=40&lon=-105&class=cinewhoop",
	}
	for _, target := range cases {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		resp, err := app.Test(req)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", target, err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: expected status %d, got %d", target, http.StatusBadRequest, resp.StatusCode)
		}
	}
}

func TestAlertsBeforeAssessment(t *testing.T) {
	app, _ := testApp()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

func TestLayersListing(t *testing.T) {
	app, reg := testApp()
	layer := hazard.NewLayer(hazard.LayerTFR)
	layer.Features = []hazard.Feature{{Kind: hazard.KindTFR, Name: "STADIUM"}}
	reg.Replace(layer)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/layers", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var body struct {
		Layers []struct {
			Key      string `json:"key"`
			Features int    `json:"features"`
			Visible  bool   `json:"visible"`
		} `json:"layers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	found := false
	for _, l := range body.Layers {
		if l.Key == hazard.LayerTFR {
			found = true
			if l.Features != 1 || !l.Visible {
				t.Fatalf("unexpected TFR entry: %+v", l)
			}
		}
	}
	if !found {
		t.Fatal("TFR layer missing from listing")
	}
}

func TestHazardsEndpoint(t *testing.T) {
	app, reg := testApp()
	layer := hazard.NewLayer(hazard.LayerAirports)
	layer.Features = []hazard.Feature{{Kind: hazard.KindAirport, ICAO: "KBJC"}}
	reg.Replace(layer)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/hazards", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var body struct {
		Layers map[string]hazard.Layer `json:"layers"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body.Layers[hazard.LayerAirports].Features) != 1 {
		t.Fatalf("airport layer missing from hazards payload: %+v", body.Layers)
	}
}

func TestLayerVisibilityToggle(t *testing.T) {
	app, reg := testApp()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/layers/"+hazard.LayerRadar+"/visible?value=false", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if reg.Visible(hazard.LayerRadar) {
		t.Fatal("radar layer should be hidden after toggle")
	}

	// Unknown layer key.
	req = httptest.NewRequest(http.MethodPut, "/api/v1/layers/nope/visible?value=true", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.StatusCode)
	}

	// Non-boolean value.
	req = httptest.NewRequest(http.MethodPut, "/api/v1/layers/"+hazard.LayerRadar+"/visible?value=maybe", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.StatusCode)
	}

	// Reset restores defaults.
	req = httptest.NewRequest(http.MethodPost, "/api/v1/layers/reset", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}
	if !reg.Visible(hazard.LayerRadar) {
		t.Fatal("radar layer should be visible again after reset")
	}
}

func TestProfilesEndpoint(t *testing.T) {
	app, _ := testApp()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/profiles", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.StatusCode)
	}

	var body struct {
		Default  string `json:"default"`
		Profiles []struct {
			Name string `json:"name"`
		} `json:"profiles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Default != "consumer" {
		t.Fatalf("expected consumer default, got %q", body.Default)
	}
	if len(body.Profiles) < 3 {
		t.Fatalf("expected at least the three built-in profiles, got %d", len(body.Profiles))
	}
}
