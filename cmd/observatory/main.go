package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/skyforge/observer-engine/astro"
	"github.com/skyforge/observer-engine/catalog"
	"github.com/skyforge/observer-engine/core"
	"github.com/skyforge/observer-engine/internal/logging"
	"github.com/skyforge/observer-engine/internal/mathutil"
	"github.com/skyforge/observer-engine/internal/observability"
	"github.com/skyforge/observer-engine/model"
	"github.com/skyforge/observer-engine/timectrl"
)

func main() {
	duration := flag.Duration("duration", 30*time.Second, "total real-time run duration")
	tick := flag.Duration("tick", 100*time.Millisecond, "tick interval")
	accelerated := flag.Bool("accelerated", false, "run in accelerated mode (vs real-time)")
	timeScale := flag.Float64("timescale", 1.0, "simulation seconds per real second")
	target := flag.String("target", "Meridian", "catalog object to travel to")
	gotoTime := flag.Float64("goto-time", core.JourneyDuration, "journey duration in seconds")
	metricsAddr := flag.String(
		"metrics-addr",
		"",
		"address to serve Prometheus metrics on (empty disables the endpoint)",
	)

	flag.Parse()

	ctx := context.Background()
	log := logging.NewFromEnv()

	// Every log line from this run carries the same session_id.
	ctx, log = logging.WithSessionLogger(ctx, log)
	ctx = logging.ContextWithLogger(ctx, log)

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.Any("error", err))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	// ==== Universe setup ====

	cat := catalog.New()
	if err := buildDemoSystem(cat); err != nil {
		log.Error(ctx, "failed to build demo system", logging.Any("error", err))
		os.Exit(1)
	}

	sel := cat.Find(*target)
	if sel.Empty() {
		log.Error(ctx, "unknown target", logging.String("target", *target),
			logging.Any("known", cat.Names()))
		os.Exit(1)
	}

	// ==== Observer + metrics ====

	collector, err := observability.NewObserverCollector(prometheus.DefaultRegisterer)
	if err != nil {
		log.Error(ctx, "failed to register metrics", logging.Any("error", err))
		os.Exit(1)
	}

	obs := core.New()
	obs.SetLogger(log)
	obs.SetEventSink(observability.NewTracingSink(collector))

	// Start well outside the system so the journey has distance to cover.
	obs.SetPosition(astro.UniversalCoordFromKm(astro.AuToKm(3), 0, 0))

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		go func() {
			if err := http.ListenAndServe(*metricsAddr, mux); err != nil {
				log.Error(ctx, "metrics server stopped", logging.Any("error", err))
			}
		}()
		log.Info(ctx, "serving metrics", logging.String("addr", *metricsAddr))
	}

	// ==== Time controller ====

	mode := timectrl.RealTime
	if *accelerated {
		mode = timectrl.Accelerated
	}
	start := time.Now().UTC()
	tc := timectrl.NewTimeController(obs, start, *tick, mode)
	tc.SetTimeScale(*timeScale)

	tc.OnUpdate(collector.ObserveUpdate)

	ticks := 0
	tc.AddListener(func(simJD float64) {
		collector.SetSimTime(simJD)

		ticks++
		if ticks%10 != 0 {
			return
		}
		dist := obs.Position().DistanceFromKm(sel.PositionAt(simJD))
		fmt.Printf("[%s] mode=%s target=%s distance=%.1f km\n",
			astro.TimeFromJulian(simJD).Format(time.RFC3339),
			obs.Mode(), sel.Name(), dist)
	})

	// ==== Journey ====

	obs.GotoSelection(sel, *gotoTime, mathutil.UnitY(), core.CoordSysUniversal)
	log.Info(ctx, "journey started",
		logging.String("target", sel.Name()),
		logging.Float64("duration_s", *gotoTime))

	fmt.Printf("Starting observatory: duration=%s, tick=%s, timescale=%g, target=%s\n",
		*duration, *tick, *timeScale, *target)
	done := tc.Start(*duration)
	<-done

	dist := obs.Position().DistanceFromKm(sel.PositionAt(obs.Time()))
	fmt.Printf("Run complete: mode=%s, final distance to %s = %.1f km\n",
		obs.Mode(), sel.Name(), dist)
}

// buildDemoSystem populates the catalog with a small star system: a star,
// a rotating planet with a moon, a spacecraft on a published two-line
// element set, and a surface site.
func buildDemoSystem(cat *catalog.Catalog) error {
	star := &model.Star{
		Name:     "Altair Prime",
		RadiusKm: 696000,
		Visible:  true,
	}

	planet := &model.Body{
		Name:           "Meridian",
		RadiusKm:       6378.14,
		Classification: model.ClassificationPlanet,
		Parent:         model.Selection{Star: star},
		Orbit: model.EllipticalOrbit{
			SemiMajorAxisKm: astro.AuToKm(1),
			Eccentricity:    0.0167,
			PeriodDays:      365.25,
			EpochJD:         astro.J2000,
		},
		Rotation: model.UniformRotation{
			PeriodDays:   0.99727,
			ObliquityDeg: 23.44,
			EpochJD:      astro.J2000,
		},
	}

	moon := &model.Body{
		Name:           "Farside",
		RadiusKm:       1737.4,
		Classification: model.ClassificationMoon,
		Orbit: model.EllipticalOrbit{
			SemiMajorAxisKm: 384400,
			Eccentricity:    0.0549,
			InclinationDeg:  5.145,
			PeriodDays:      27.32,
			EpochJD:         astro.J2000,
		},
	}
	planet.AddChild(moon)

	tle1 := "1 25544U 98067A   21275.59097222  .00000204  00000-0  10270-4 0  9990"
	tle2 := "2 25544  51.6459 115.9059 0001817  61.3028  35.9198 15.49370953257760"
	station := &model.Body{
		Name:           "Relay-1",
		RadiusKm:       0.05,
		Classification: model.ClassificationSpacecraft,
		Orbit:          model.NewSGP4Orbit(tle1, tle2, time.Date(2021, 10, 2, 0, 0, 0, 0, time.UTC)),
	}
	planet.AddChild(station)

	site := &model.Location{
		Name:         "Basecamp",
		SizeKm:       10,
		Parent:       planet,
		LatitudeDeg:  45.9,
		LongitudeDeg: 63.3,
	}

	if err := cat.AddStar(star); err != nil {
		return err
	}
	for _, b := range []*model.Body{planet, moon, station} {
		if err := cat.AddBody(b); err != nil {
			return err
		}
	}
	return cat.AddLocation(site)
}
