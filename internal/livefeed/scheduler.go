// Package livefeed owns the recurring refresh cycles for the volatile
// layers: live traffic, lightning, and the global radar index. Each
// location gets its own scheduler session; starting a new session
// cancels every timer of the previous one before any new fetch runs.
package livefeed

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/uavchum/uavchum/internal/assess"
	"github.com/uavchum/uavchum/internal/geo"
	"github.com/uavchum/uavchum/internal/hazard"
	"github.com/uavchum/uavchum/internal/registry"
)

// Config holds refresh intervals and fetch parameters.
type Config struct {
	TrafficInterval   time.Duration
	LightningInterval time.Duration
	RadarInterval     time.Duration
	TrafficRadiusNM   float64
	LightningRadiusNM float64
	FetchTimeout      time.Duration
}

func (c *Config) fill() {
	if c.TrafficInterval <= 0 {
		c.TrafficInterval = 30 * time.Second
	}
	if c.LightningInterval <= 0 {
		c.LightningInterval = 60 * time.Second
	}
	if c.RadarInterval <= 0 {
		c.RadarInterval = 300 * time.Second
	}
	if c.TrafficRadiusNM <= 0 {
		c.TrafficRadiusNM = 150
	}
	if c.LightningRadiusNM <= 0 {
		c.LightningRadiusNM = 150
	}
	// The lightning radius is clamped to keep the strike scan bounded.
	if c.LightningRadiusNM < 10 {
		c.LightningRadiusNM = 10
	}
	if c.LightningRadiusNM > 300 {
		c.LightningRadiusNM = 300
	}
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 10 * time.Second
	}
}

// Scheduler runs the live feed refresh loops and applies each tick's
// result atomically to the layer registry.
type Scheduler struct {
	cfg       Config
	reg       *registry.Registry
	traffic   TrafficSource
	lightning LightningSource
	radar     RadarSource

	mu sync.Mutex
	// gen identifies the current location session. Ticks carry the
	// generation they were scheduled under; a tick whose generation no
	// longer matches is a stale response and is discarded.
	gen    uint64
	center geo.Point
	active bool

	session    *gocron.Scheduler
	radarLoop  *gocron.Scheduler
	lightningF *assess.Factor
}

// New creates a Scheduler in the idle state.
func New(reg *registry.Registry, traffic TrafficSource, lightning LightningSource, radar RadarSource, cfg Config) *Scheduler {
	cfg.fill()
	return &Scheduler{
		cfg:       cfg,
		reg:       reg,
		traffic:   traffic,
		lightning: lightning,
		radar:     radar,
	}
}

// Start begins (or restarts) the refresh session for a location. All
// timers of any previous session are canceled first; the volatile
// layers are cleared so markers from the prior location never render
// under the new one.
func (s *Scheduler) Start(center geo.Point) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		s.session.Stop()
		s.session = nil
	}

	s.gen++
	gen := s.gen
	s.center = center
	s.active = true
	s.lightningF = nil

	s.reg.Replace(hazard.NewLayer(hazard.LayerTraffic))
	s.reg.Replace(hazard.NewLayer(hazard.LayerLightning))

	sched := gocron.NewScheduler(time.UTC)
	if s.traffic != nil {
		_, err := sched.Every(s.cfg.TrafficInterval).StartImmediately().Do(func() {
			s.refreshTraffic(gen, center)
		})
		if err != nil {
			log.Printf("WARN: livefeed: failed to schedule traffic refresh: %v", err)
		}
	}
	if s.lightning != nil {
		_, err := sched.Every(s.cfg.LightningInterval).StartImmediately().Do(func() {
			s.refreshLightning(gen, center)
		})
		if err != nil {
			log.Printf("WARN: livefeed: failed to schedule lightning refresh: %v", err)
		}
	}
	sched.StartAsync()
	s.session = sched
}

// Stop cancels the current location session, returning to idle. The
// radar loop is unaffected; it is location-independent.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil {
		s.session.Stop()
		s.session = nil
	}
	s.gen++
	s.active = false
	s.lightningF = nil
}

// StartRadar begins the background radar-frame refresh loop. Calling
// it twice is a no-op.
func (s *Scheduler) StartRadar() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.radar == nil || s.radarLoop != nil {
		return
	}
	loop := gocron.NewScheduler(time.UTC)
	_, err := loop.Every(s.cfg.RadarInterval).StartImmediately().Do(s.refreshRadar)
	if err != nil {
		log.Printf("WARN: livefeed: failed to schedule radar refresh: %v", err)
		return
	}
	loop.StartAsync()
	s.radarLoop = loop
}

// Shutdown stops every loop, including the radar one.
func (s *Scheduler) Shutdown() {
	s.Stop()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.radarLoop != nil {
		s.radarLoop.Stop()
		s.radarLoop = nil
	}
}

// Active reports whether a location session is running.
func (s *Scheduler) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// LightningFactor returns the nearest-strike risk factor derived from
// the latest lightning tick, or nil when no strikes are in range.
func (s *Scheduler) LightningFactor() *assess.Factor {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.lightningF == nil {
		return nil
	}
	f := *s.lightningF
	return &f
}

// refreshTraffic is one traffic tick. A failed fetch leaves the
// previous feature set in place; a stale tick is discarded whole.
func (s *Scheduler) refreshTraffic(gen uint64, center geo.Point) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FetchTimeout)
	defer cancel()

	points, err := s.traffic.Fetch(ctx, center, s.cfg.TrafficRadiusNM)
	if err != nil {
		log.Printf("WARN: livefeed: traffic refresh failed (%s): %v", s.traffic.Name(), err)
		return
	}
	layer := hazard.NormalizeTraffic(points)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.reg.Replace(layer)
}

// refreshLightning is one lightning tick. Besides the layer it derives
// the nearest-strike factor merged into the assessment.
func (s *Scheduler) refreshLightning(gen uint64, center geo.Point) {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FetchTimeout)
	defer cancel()

	strikes, err := s.lightning.Fetch(ctx, center, s.cfg.LightningRadiusNM)
	if err != nil {
		log.Printf("WARN: livefeed: lightning refresh failed (%s): %v", s.lightning.Name(), err)
		return
	}
	layer, nearest := hazard.NormalizeLightning(strikes, center, s.cfg.LightningRadiusNM)
	factor := NearestStrikeFactor(nearest)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.reg.Replace(layer)
	s.lightningF = factor
}

// refreshRadar is one radar tick. No generation guard: the frame index
// is global.
func (s *Scheduler) refreshRadar() {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.FetchTimeout)
	defer cancel()

	frames, err := s.radar.Frames(ctx)
	if err != nil {
		log.Printf("WARN: livefeed: radar refresh failed (%s): %v", s.radar.Name(), err)
		return
	}
	s.reg.Replace(hazard.NormalizeRadar(frames))
}
