package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/sony/gobreaker"

	"github.com/uavchum/uavchum/internal/geo"
	"github.com/uavchum/uavchum/internal/hazard"
)

// AirspaceClient implements hazard.Provider by fanning out to the FAA
// ArcGIS services (controlled airspace, LAANC grids), aviationweather.gov
// (TFRs, nearby airports) and OpenAIP (typed zones). Each collection
// fails soft: one provider being down costs its layer, not the batch.
type AirspaceClient struct {
	name       string
	faaBase    string
	awcBase    string
	openAIPURL string
	// country selects the OpenAIP dataset; typed zones are skipped
	// when empty.
	country  string
	deltaDeg float64

	cfg   ClientConfig
	faaCB *gobreaker.CircuitBreaker
	awcCB *gobreaker.CircuitBreaker
	aipCB *gobreaker.CircuitBreaker
}

// NewAirspaceClient builds the combined hazard client. country may be
// empty (OpenAIP typed zones disabled).
func NewAirspaceClient(client *http.Client, country string) *AirspaceClient {
	return &AirspaceClient{
		name:       "airspace",
		faaBase:    "https://services6.arcgis.com/ssFJjBXIUyZDrSYZ/arcgis/rest/services",
		awcBase:    "https://aviationweather.gov/api/data",
		openAIPURL: "https://storage.googleapis.com/29f98e10-a489-4c82-ae5e-489dbcd4912f",
		country:    strings.ToLower(strings.TrimSpace(country)),
		deltaDeg:   1.5,
		cfg:        defaultConfig(client),
		faaCB:      newBreaker("faa-arcgis"),
		awcCB:      newBreaker("aviationweather"),
		aipCB:      newBreaker("openaip"),
	}
}

func (c *AirspaceClient) Name() string {
	return c.name
}

// Fetch gathers every collection it can. It only errors when nothing
// at all could be retrieved; partial results are normal operation.
func (c *AirspaceClient) Fetch(ctx context.Context, center geo.Point) (hazard.Raw, error) {
	var raw hazard.Raw
	failures := 0

	controlled, err := c.fetchControlled(ctx, center)
	if err != nil {
		log.Printf("WARN: controlled airspace fetch failed: %v", err)
		failures++
	}
	raw.Controlled = controlled

	grids, err := c.fetchCeilingGrids(ctx, center)
	if err != nil {
		log.Printf("WARN: LAANC grid fetch failed: %v", err)
		failures++
	}
	raw.CeilingGrids = grids

	tfrs, err := c.fetchTFRs(ctx)
	if err != nil {
		log.Printf("WARN: TFR fetch failed: %v", err)
		failures++
	}
	raw.TFRs = tfrs

	airports, err := c.fetchAirports(ctx, center)
	if err != nil {
		log.Printf("WARN: airport fetch failed: %v", err)
		failures++
	}
	raw.Airports = airports

	if c.country != "" {
		zones, err := c.fetchTypedZones(ctx)
		if err != nil {
			log.Printf("WARN: OpenAIP fetch failed for %s: %v", c.country, err)
			failures++
		}
		raw.TypedZones = zones
	}

	if raw.Empty() && failures > 0 {
		return raw, fmt.Errorf("all hazard sources failed for %.4f,%.4f", center.Lat, center.Lon)
	}
	return raw, nil
}

type geoFeatureCollection struct {
	Features []hazard.GeoFeature `json:"features"`
}

func (c *AirspaceClient) bboxEnvelope(center geo.Point) string {
	b := geo.Around(center, c.deltaDeg)
	return fmt.Sprintf("%f,%f,%f,%f", b.MinLon, b.MinLat, b.MaxLon, b.MaxLat)
}

func (c *AirspaceClient) fetchControlled(ctx context.Context, center geo.Point) ([]hazard.GeoFeature, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("where", "CLASS IN ('B','C','D')")
		values.Set("geometry", c.bboxEnvelope(center))
		values.Set("geometryType", "esriGeometryEnvelope")
		values.Set("spatialRel", "esriSpatialRelIntersects")
		values.Set("outFields", "CLASS,NAME,IDENT,LOWER_VAL,UPPER_VAL,LOWER_UOM,UPPER_UOM")
		values.Set("f", "geojson")
		values.Set("resultRecordCount", "100")

		u := fmt.Sprintf("%s/Class_Airspace/FeatureServer/0/query?%s", c.faaBase, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doWithResilience(ctx, c.cfg, c.faaCB, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var fc geoFeatureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode class airspace response: %w", err)
	}
	return fc.Features, nil
}

func (c *AirspaceClient) fetchCeilingGrids(ctx context.Context, center geo.Point) ([]hazard.GeoFeature, error) {
	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("where", "1=1")
		values.Set("geometry", c.bboxEnvelope(center))
		values.Set("geometryType", "esriGeometryEnvelope")
		values.Set("spatialRel", "esriSpatialRelIntersects")
		values.Set("outFields", "CEILING,UNIT,APT1_ICAO,APT1_NAME,AIRSPACE_1")
		values.Set("f", "geojson")
		values.Set("resultRecordCount", "200")

		u := fmt.Sprintf("%s/FAA_UAS_FacilityMap_Data_Primary/FeatureServer/0/query?%s",
			c.faaBase, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doWithResilience(ctx, c.cfg, c.faaCB, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var fc geoFeatureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode LAANC grid response: %w", err)
	}
	return fc.Features, nil
}

func (c *AirspaceClient) fetchTFRs(ctx context.Context) ([]hazard.TFRRecord, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/tfr?format=json", c.awcBase)
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doWithResilience(ctx, c.cfg, c.awcCB, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var records []hazard.TFRRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode TFR response: %w", err)
	}
	return records, nil
}

type metarStation struct {
	ICAO    string   `json:"icaoId"`
	Name    string   `json:"name"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
	ElevM   *float64 `json:"elev"`
	FltCat  string   `json:"fltCat"`
	WindDir *float64 `json:"wdir"`
	WindKn  *float64 `json:"wspd"`
	GustKn  *float64 `json:"wgst"`
}

// fetchAirports derives nearby airports from the METAR station feed,
// one record per ICAO.
func (c *AirspaceClient) fetchAirports(ctx context.Context, center geo.Point) ([]hazard.AirportRecord, error) {
	buildRequest := func() (*http.Request, error) {
		b := geo.Around(center, c.deltaDeg)
		values := url.Values{}
		values.Set("bbox", fmt.Sprintf("%f,%f,%f,%f", b.MinLat, b.MinLon, b.MaxLat, b.MaxLon))
		values.Set("format", "json")
		values.Set("hours", "2")

		u := fmt.Sprintf("%s/metar?%s", c.awcBase, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doWithResilience(ctx, c.cfg, c.awcCB, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var stations []metarStation
	if err := json.NewDecoder(resp.Body).Decode(&stations); err != nil {
		return nil, fmt.Errorf("decode METAR station response: %w", err)
	}

	seen := make(map[string]bool)
	airports := make([]hazard.AirportRecord, 0, len(stations))
	for _, m := range stations {
		if m.ICAO == "" || seen[m.ICAO] || m.Lat == nil || m.Lon == nil {
			continue
		}
		seen[m.ICAO] = true

		rec := hazard.AirportRecord{
			ICAO:        m.ICAO,
			Name:        m.Name,
			Lat:         *m.Lat,
			Lon:         *m.Lon,
			FlightCat:   m.FltCat,
			WindDir:     geo.WindDirLabel(m.WindDir),
			WindSpeedKn: m.WindKn,
			WindGustKn:  m.GustKn,
		}
		if m.ElevM != nil {
			ft := geo.MetersToFeet(*m.ElevM)
			rec.ElevFt = &ft
		}
		airports = append(airports, rec)
		if len(airports) >= 40 {
			break
		}
	}
	return airports, nil
}

func (c *AirspaceClient) fetchTypedZones(ctx context.Context) ([]hazard.GeoFeature, error) {
	buildRequest := func() (*http.Request, error) {
		u := fmt.Sprintf("%s/%s_asp.geojson", c.openAIPURL, c.country)
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doWithResilience(ctx, c.cfg, c.aipCB, buildRequest)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var fc geoFeatureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("decode OpenAIP response: %w", err)
	}
	return fc.Features, nil
}
