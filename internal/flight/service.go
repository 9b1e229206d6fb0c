// Package flight orchestrates one briefing cycle: weather and hazard
// data are fetched concurrently, assessed, normalized into layers, and
// reduced to the prioritized alert feed.
package flight

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/uavchum/uavchum/internal/alert"
	"github.com/uavchum/uavchum/internal/assess"
	"github.com/uavchum/uavchum/internal/geo"
	"github.com/uavchum/uavchum/internal/hazard"
	"github.com/uavchum/uavchum/internal/livefeed"
	"github.com/uavchum/uavchum/internal/registry"
	"github.com/uavchum/uavchum/internal/weather"
)

// Briefing is the complete result of one evaluation cycle.
type Briefing struct {
	Location   geo.Point         `json:"location"`
	Profile    string            `json:"profile"`
	Assessment assess.Assessment `json:"assessment"`
	Weather    weather.Snapshot  `json:"weather"`
	Alerts     []alert.Alert     `json:"alerts"`
	// HazardsOK reports whether the hazard fetch contributed data.
	// Weather failures abort the briefing instead.
	HazardsOK   bool      `json:"hazardsOk"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Service runs briefing cycles and keeps the layer registry and the
// live feed session pointed at the most recent location.
type Service struct {
	weather weather.Provider
	hazards hazard.Provider
	reg     *registry.Registry
	feed    *livefeed.Scheduler

	mu   sync.RWMutex
	last *Briefing
}

// NewService wires the briefing pipeline. hazards may be nil; briefings
// then degrade to weather-only with fallback alerts.
func NewService(wp weather.Provider, hp hazard.Provider, reg *registry.Registry, feed *livefeed.Scheduler) *Service {
	return &Service{
		weather: wp,
		hazards: hp,
		reg:     reg,
		feed:    feed,
	}
}

// Evaluate runs a full briefing cycle for the location. The weather and
// hazard fetches run concurrently; a weather failure aborts, a hazard
// failure degrades. On success the layer registry is repointed at the
// new location and the live feed session restarted there.
func (s *Service) Evaluate(ctx context.Context, loc geo.Point, profile string) (Briefing, error) {
	if !loc.Valid() {
		return Briefing{}, fmt.Errorf("invalid coordinates %.4f,%.4f", loc.Lat, loc.Lon)
	}
	if profile == "" {
		profile = assess.DefaultProfile
	}
	th, ok := assess.ProfileFor(profile)
	if !ok {
		return Briefing{}, fmt.Errorf("unknown drone class %q", profile)
	}

	var (
		wg      sync.WaitGroup
		snap    weather.Snapshot
		wxErr   error
		raw     hazard.Raw
		hazErr  error
		fetched bool
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		snap, wxErr = s.weather.Fetch(ctx, loc)
	}()

	if s.hazards != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			raw, hazErr = s.hazards.Fetch(ctx, loc)
		}()
	}

	wg.Wait()

	if wxErr != nil {
		return Briefing{}, fmt.Errorf("weather fetch failed for %.4f,%.4f: %w", loc.Lat, loc.Lon, wxErr)
	}
	if s.hazards != nil {
		if hazErr != nil {
			// Degrade: the briefing still goes out, flagged so the
			// alert feed can say hazard data is missing.
			log.Printf("WARN: hazard fetch failed for %.4f,%.4f: %v", loc.Lat, loc.Lon, hazErr)
		} else {
			fetched = true
		}
	}

	assessment := assess.Assess(snap, th, snap.ElevationM)

	layers := hazard.Normalize(raw, hazard.Options{Center: loc})
	s.reg.ReplaceAll(layers)

	// Restart the live feed session at the new center before merging
	// the lightning factor: a session for the old location must never
	// feed this briefing.
	merged := assessment
	if s.feed != nil {
		s.feed.Start(loc)
		if f := s.feed.LightningFactor(); f != nil {
			merged = assessment.WithFactor(*f)
		}
	}

	alerts := alert.Prioritize(s.reg.Layers(), merged.DangerFactors(), fetched, alert.DefaultCap)

	b := Briefing{
		Location:    loc,
		Profile:     profile,
		Assessment:  merged,
		Weather:     snap,
		Alerts:      alerts,
		HazardsOK:   fetched,
		GeneratedAt: time.Now().UTC(),
	}

	// The stored briefing keeps the weather-only assessment. Refresh
	// merges whatever lightning factor is current at that moment, so a
	// factor baked in here would duplicate on every refresh and a
	// cleared one would never go away.
	stored := b
	stored.Assessment = assessment

	s.mu.Lock()
	s.last = &stored
	s.mu.Unlock()
	return b, nil
}

// Refresh re-runs the alert feed against the current registry state,
// merging the latest lightning factor. It reuses the last briefing's
// weather instead of fetching; the live feed ticks are what changed.
func (s *Service) Refresh() (Briefing, bool) {
	s.mu.RLock()
	last := s.last
	s.mu.RUnlock()

	if last == nil {
		return Briefing{}, false
	}

	b := *last
	if s.feed != nil {
		if f := s.feed.LightningFactor(); f != nil {
			b.Assessment = b.Assessment.WithFactor(*f)
		}
	}
	b.Alerts = alert.Prioritize(s.reg.Layers(), b.Assessment.DangerFactors(), b.HazardsOK, alert.DefaultCap)
	b.GeneratedAt = time.Now().UTC()
	return b, true
}

// Last returns the most recent briefing, if any.
func (s *Service) Last() (Briefing, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return Briefing{}, false
	}
	return *s.last, true
}
