// Package sim owns the mutable simulation state and the tick loop: object
// evolution, outcome resolution, spawn and funding cadences, and the score
// ledger. All mutation funnels through a single mutex so operator actions
// and ticks are serialized against the same object set.
package sim

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/signalsfoundry/planetary-defense-sim/core"
	"github.com/signalsfoundry/planetary-defense-sim/internal/config"
	"github.com/signalsfoundry/planetary-defense-sim/internal/logging"
	"github.com/signalsfoundry/planetary-defense-sim/model"
	"github.com/signalsfoundry/planetary-defense-sim/timectrl"
)

// Sentinel errors for the engine surface, on top of the action-layer
// rejections in core.
var (
	ErrObjectNotFound = errors.New("object not found")
	ErrGameOver       = errors.New("scenario is over; reset to continue")
)

// Scoring and trust consequence tuning. These move the ledger when an
// object's fate resolves.
const (
	trackingDailyBonus = 5

	hitAlertedTrust   = 10.0
	hitAlertedScore   = 150.0
	hitMissedTrust    = -25.0
	hitMissedScore    = -50.0
	missAlertedTrust  = -8.0
	missAlertedScore  = -40.0
	missQuietScore    = 20.0
	deflectionTrust   = 12.0
	deflectionScore   = 200.0
	alertShelterRatio = 0.6
)

// Recorder receives engine metrics. The observability package provides the
// Prometheus-backed implementation; tests use the no-op.
type Recorder interface {
	SetEngineGauges(activeObjects int, budgetM, trust, score float64)
	ObserveOutcome(result string)
	ObserveAction(action, status string)
	ObserveSpawn(origin string)
}

type noopRecorder struct{}

func (noopRecorder) SetEngineGauges(int, float64, float64, float64) {}
func (noopRecorder) ObserveOutcome(string)                          {}
func (noopRecorder) ObserveAction(string, string)                   {}
func (noopRecorder) ObserveSpawn(string)                            {}

// OutcomeRecord is the resolved-fate record handed to the optional
// publisher.
type OutcomeRecord struct {
	ObjectID   string    `json:"object_id"`
	Name       string    `json:"name"`
	ResolvedAt time.Time `json:"resolved_at"`
	Impacted   bool      `json:"impacted"`
	Alerted    bool      `json:"alerted"`
	Evacuated  bool      `json:"evacuated"`
	Deflected  bool      `json:"deflected"`
	Casualties int64     `json:"casualties"`
	LivesSaved int64     `json:"lives_saved"`
	EnergyMT   float64   `json:"energy_mt"`
}

// OutcomePublisher ships resolved outcomes to an external sink. Publish
// failures must be swallowed by the implementation; the tick loop ignores
// them.
type OutcomePublisher interface {
	Publish(ctx context.Context, rec OutcomeRecord)
}

// Option customises Engine construction.
type Option func(*Engine)

// WithMetrics attaches a metrics recorder.
func WithMetrics(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.metrics = r
		}
	}
}

// WithPublisher attaches an outcome publisher.
func WithPublisher(p OutcomePublisher) Option {
	return func(e *Engine) { e.publisher = p }
}

// WithCatalogSource overrides the external catalog feed.
func WithCatalogSource(s core.CatalogSource) Option {
	return func(e *Engine) { e.catalog = s }
}

// Engine is the simulation controller: it owns the object set, the ledger,
// the event log, and the clock, and implements the per-tick algorithm.
type Engine struct {
	mu sync.Mutex

	cfg     config.Config
	clock   *timectrl.TimeController
	rng     *rand.Rand
	gen     *core.Generator
	catalog core.CatalogSource
	costs   core.ActionCosts
	log     logging.Logger
	metrics Recorder

	// genMu serializes generator access between Seed and the async spawn
	// goroutine. The generator owns a derived rand source, so generation
	// never touches e.rng off the tick path.
	genMu sync.Mutex

	publisher OutcomePublisher
	// outcomes queues resolved records for the publish loop; nil when no
	// publisher is configured. The tick loop never blocks on it.
	outcomes chan OutcomeRecord

	objects map[string]*model.Asteroid
	// order preserves insertion order for stable iteration and snapshots.
	order  []string
	ledger model.Ledger
	events *EventLog

	// selection is the object currently inspected by the operator; cleared
	// (with a system event) when that object resolves or retires.
	selection string

	// Simulated-time accumulators for the slower cadences.
	sinceSpawnCheck time.Duration
	sinceFunding    time.Duration

	// spawnInFlight guards against stacking concurrent async generations.
	spawnInFlight bool

	// failed latches the game-over announcement so it is emitted once.
	failed bool
}

// NewEngine builds an engine from the tuning config. The rand source seeds
// both generation and outcome resolution; fix it for reproducible runs.
func NewEngine(cfg config.Config, start time.Time, rng *rand.Rand, log logging.Logger, opts ...Option) *Engine {
	if log == nil {
		log = logging.Noop()
	}
	e := &Engine{
		cfg:     cfg,
		clock:   timectrl.NewTimeController(start, cfg.Engine.TickRate),
		rng:     rng,
		log:     log,
		metrics: noopRecorder{},
		objects: make(map[string]*model.Asteroid),
		events:  NewEventLog(cfg.Engine.EventLogCap),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.catalog == nil && cfg.Catalog.FeedURL != "" {
		e.catalog = core.NewFeedSource(cfg.Catalog.FeedURL, cfg.Catalog.FetchTimeout, cfg.Catalog.CacheTTL)
	}
	e.gen = core.NewGenerator(generatorParams(cfg), rand.New(rand.NewSource(rng.Int63())), e.catalog)
	e.costs = core.ActionCosts(cfg.Costs)
	e.resetLedger()
	if e.publisher != nil {
		e.outcomes = make(chan OutcomeRecord, 64)
		go e.publishLoop()
	}
	e.clock.AddListener(e.handleTick)
	return e
}

// publishLoop drains resolved outcomes for the engine's lifetime, keeping
// broker latency off the tick path.
func (e *Engine) publishLoop() {
	for rec := range e.outcomes {
		e.publisher.Publish(context.Background(), rec)
	}
}

func generatorParams(cfg config.Config) core.GeneratorParams {
	tiers := make(map[model.SizeCategory]core.TierParams, len(cfg.Tiers))
	for name, tc := range cfg.Tiers {
		var cat model.SizeCategory
		switch name {
		case "tiny":
			cat = model.SizeTiny
		case "small":
			cat = model.SizeSmall
		case "medium":
			cat = model.SizeMedium
		case "large":
			cat = model.SizeLarge
		default:
			continue
		}
		tiers[cat] = core.TierParams(tc)
	}
	return core.GeneratorParams{
		Tiers:            tiers,
		RealObjectChance: cfg.Catalog.RealObjectChance,
		MinLeadHours:     cfg.Engine.MinLeadHours,
		MaxLeadHours:     cfg.Engine.MaxLeadHours,
	}
}

func (e *Engine) resetLedger() {
	e.ledger = model.Ledger{
		BudgetM:          e.cfg.Ledger.StartingBudgetM,
		StartingBudgetM:  e.cfg.Ledger.StartingBudgetM,
		Trust:            e.cfg.Ledger.StartingTrust,
		TrackingCapacity: e.cfg.Ledger.TrackingCapacity,
	}
}

// Clock exposes the time controller for clock-control endpoints and the
// host's run loop.
func (e *Engine) Clock() *timectrl.TimeController { return e.clock }

// Events exposes the event log (snapshot reads and sink registration).
func (e *Engine) Events() *EventLog { return e.events }

// Seed synchronously populates the initial object set up to the configured
// minimum. Intended for startup and after Reset.
func (e *Engine) Seed(ctx context.Context) {
	for i := 0; i < e.cfg.Engine.MinLiveObjects; i++ {
		e.genMu.Lock()
		obj, origin := e.gen.Generate(ctx, e.clock.Now())
		e.genMu.Unlock()
		e.admit(obj, origin)
	}
}

// admit assigns an ID, stores the object, and emits its detection event.
func (e *Engine) admit(a *model.Asteroid, origin core.Origin) {
	e.mu.Lock()
	a.ID = uuid.NewString()
	e.objects[a.ID] = a
	e.order = append(e.order, a.ID)
	e.mu.Unlock()

	e.metrics.ObserveSpawn(origin.String())
	if origin == core.OriginFeedFallback {
		e.log.Warn(context.Background(), "catalog feed unavailable, used reference table",
			logging.String("object", a.Name))
	}
	if a.Detected {
		e.events.Append(e.clock.Now(), model.EventDetection, model.SeverityInfo, a.ID,
			fmt.Sprintf("New object detected: %s (%s, %.0f m, %.1f days out)",
				a.Name, a.Size, a.DiameterM, a.DaysToImpact()))
	}
}

// handleTick runs the per-tick algorithm. It is registered as a clock
// listener, so ticks are serialized by the controller; the engine mutex
// additionally serializes them against operator actions.
func (e *Engine) handleTick(simTime time.Time, delta time.Duration) {
	e.mu.Lock()

	if e.ledger.GameOver() {
		if !e.failed {
			e.failed = true
			e.events.Append(simTime, model.EventSystem, model.SeverityCritical, "",
				"Scenario failed: program funding or public trust exhausted")
		}
		e.mu.Unlock()
		return
	}

	deltaHours := delta.Hours()
	var resolved []OutcomeRecord

	for _, id := range e.order {
		a, ok := e.objects[id]
		if !ok {
			continue
		}
		prevDays := math.Floor(a.ObservedDays())

		evolved := core.Evolve(a, deltaHours, a.Tracked)
		e.objects[id] = evolved

		// Tracking bonus: once for every whole observation day crossed.
		if evolved.Tracked && !evolved.OutcomeProcessed && evolved.HoursToImpact > 0 {
			if crossed := math.Floor(evolved.ObservedDays()) - prevDays; crossed > 0 {
				e.ledger.Score += trackingDailyBonus * crossed
			}
		}

		e.advanceMissions(evolved, simTime)

		if !evolved.OutcomeProcessed && evolved.HoursToImpact <= 0 {
			resolved = append(resolved, e.resolveOutcome(evolved, simTime))
		}
	}

	e.retireExpired(simTime)

	e.sinceFunding += delta
	if e.sinceFunding >= e.cfg.Engine.FundingEvery {
		e.sinceFunding = 0
		e.replenishBudget(simTime)
	}

	e.sinceSpawnCheck += delta
	spawn := false
	if e.sinceSpawnCheck >= e.cfg.Engine.SpawnCheckEvery {
		e.sinceSpawnCheck = 0
		// Bias toward keeping a minimum population of live objects.
		if len(e.objects) < e.cfg.Engine.MinLiveObjects || e.rng.Float64() < e.cfg.Engine.SpawnChance {
			spawn = !e.spawnInFlight
			e.spawnInFlight = e.spawnInFlight || spawn
		}
	}

	if e.ledger.GameOver() && !e.failed {
		e.failed = true
		e.events.Append(simTime, model.EventSystem, model.SeverityCritical, "",
			"Scenario failed: program funding or public trust exhausted")
	}

	e.metrics.SetEngineGauges(len(e.objects), e.ledger.BudgetM, e.ledger.Trust, e.ledger.Score)
	e.mu.Unlock()

	if e.outcomes != nil {
		for _, rec := range resolved {
			select {
			case e.outcomes <- rec:
			default:
				e.log.Warn(context.Background(), "outcome publish queue full, dropping record",
					logging.String("object_id", rec.ObjectID))
			}
		}
	}

	if spawn {
		// Generation may hit the external feed, so it runs off the tick
		// goroutine; the object is admitted whenever the fetch completes,
		// stamped with the clock time at completion.
		go func() {
			e.genMu.Lock()
			obj, origin := e.gen.Generate(context.Background(), e.clock.Now())
			e.genMu.Unlock()
			e.mu.Lock()
			e.spawnInFlight = false
			e.mu.Unlock()
			e.admit(obj, origin)
		}()
	}
}

// advanceMissions walks a mission list forward. Called under the engine
// mutex.
func (e *Engine) advanceMissions(a *model.Asteroid, simTime time.Time) {
	for _, m := range a.Missions {
		switch m.Status {
		case model.MissionLaunched:
			m.Status = model.MissionEnRoute
		case model.MissionEnRoute:
			if !simTime.Before(m.ArrivesAt) {
				m.Status = model.MissionDeployed
				e.events.Append(simTime, model.EventMission, model.SeverityInfo, a.ID,
					fmt.Sprintf("%s mission deployed at %s (effectiveness %.0f%%)",
						m.Type, a.Name, m.Effectiveness*100))
			}
		}
	}
}

// resolveOutcome cashes the refined impact probability in as a single
// weighted coin flip and applies every ledger consequence. It runs exactly
// once per object, guarded by the OutcomeProcessed flag. Called under the
// engine mutex.
func (e *Engine) resolveOutcome(a *model.Asteroid, simTime time.Time) OutcomeRecord {
	if a.OutcomeProcessed {
		// Structurally unreachable given single-threaded ticks; treat a
		// violation as fatal in development rather than corrupting totals.
		panic(fmt.Sprintf("outcome double-resolution for object %s", a.ID))
	}
	a.OutcomeProcessed = true

	// Deployed deflection missions shrink the effective probability at the
	// moment it is cashed in; launched-but-not-arrived missions do nothing.
	flipProb := a.ImpactProbability
	deployed := a.DeployedMissions()
	for _, m := range deployed {
		flipProb *= 1 - m.Effectiveness
	}

	hit := e.rng.Float64() < flipProb
	a.Impacted = hit

	energy := core.ImpactEnergyMegatons(a.MassKg, a.VelocityKmS)
	rec := OutcomeRecord{
		ObjectID:   a.ID,
		Name:       a.Name,
		ResolvedAt: simTime,
		Impacted:   hit,
		Alerted:    a.Alerted,
		Evacuated:  a.Evacuated,
		Deflected:  len(deployed) > 0,
		EnergyMT:   energy,
	}

	if hit {
		casualties := core.CasualtyEstimate(energy, a.ZoneRadiusKm, core.DefaultPopulationPerKm2, a.Evacuated)
		if a.Alerted {
			// A warned population shelters; exposure drops further, and the
			// ledger charges lives at risk only for unwarned impacts.
			casualties = int64(float64(casualties) * alertShelterRatio)
			e.ledger.Trust += hitAlertedTrust
			e.ledger.Score += hitAlertedScore
			e.ledger.CorrectAlerts++
		} else {
			e.ledger.Trust += hitMissedTrust
			e.ledger.Score += hitMissedScore
			e.ledger.LivesAtRisk += casualties
		}
		rec.Casualties = casualties

		e.events.Append(simTime, model.EventImpact, model.SeverityCritical, a.ID,
			fmt.Sprintf("IMPACT: %s struck at %.1f°, %.1f° (%.1f MT, est. %d casualties)",
				a.Name, a.ImpactLat, a.ImpactLon, energy, casualties))
		e.metrics.ObserveOutcome("hit")
	} else {
		if a.Alerted {
			e.ledger.Trust += missAlertedTrust
			e.ledger.Score += missAlertedScore
			e.ledger.FalseAlarms++
		} else {
			e.ledger.Score += missQuietScore
		}
		if len(deployed) > 0 {
			prevented := core.CasualtyEstimate(energy, a.ZoneRadiusKm, core.DefaultPopulationPerKm2, a.Evacuated)
			e.ledger.LivesSaved += prevented
			e.ledger.Trust += deflectionTrust
			e.ledger.Score += deflectionScore
			e.ledger.SuccessfulDeflections++
			rec.LivesSaved = prevented
			e.events.Append(simTime, model.EventMission, model.SeverityInfo, a.ID,
				fmt.Sprintf("Deflection of %s succeeded; est. %d lives saved", a.Name, prevented))
		}
		e.events.Append(simTime, model.EventMiss, model.SeverityInfo, a.ID,
			fmt.Sprintf("%s passed Earth safely", a.Name))
		e.metrics.ObserveOutcome("miss")
	}
	e.ledger.ClampTrust()

	if e.selection == a.ID {
		e.clearSelectionLocked(simTime, a.Name)
	}
	return rec
}

// retireExpired prunes objects past the post-approach grace window. Called
// under the engine mutex.
func (e *Engine) retireExpired(simTime time.Time) {
	graceHours := e.cfg.Engine.RetireAfter.Hours()
	kept := e.order[:0]
	for _, id := range e.order {
		a, ok := e.objects[id]
		if !ok {
			continue
		}
		if a.HoursToImpact <= -graceHours {
			if a.Tracked && e.ledger.TrackedCount > 0 {
				e.ledger.TrackedCount--
			}
			delete(e.objects, id)
			if e.selection == id {
				e.clearSelectionLocked(simTime, a.Name)
			}
			continue
		}
		kept = append(kept, id)
	}
	e.order = kept
}

func (e *Engine) replenishBudget(simTime time.Time) {
	before := e.ledger.BudgetM
	e.ledger.BudgetM += e.cfg.Ledger.BudgetReplenishM
	if e.ledger.BudgetM > e.cfg.Ledger.BudgetCapM {
		e.ledger.BudgetM = e.cfg.Ledger.BudgetCapM
	}
	if e.ledger.BudgetM > before {
		e.events.Append(simTime, model.EventSystem, model.SeverityInfo, "",
			fmt.Sprintf("Annual funding received: budget now $%.0fM", e.ledger.BudgetM))
	}
}

func (e *Engine) clearSelectionLocked(simTime time.Time, name string) {
	e.selection = ""
	e.events.Append(simTime, model.EventSystem, model.SeverityInfo, "",
		fmt.Sprintf("Selection cleared: %s is no longer active", name))
}

// ---- Operator actions ----

// withObject runs fn on a live object under the engine mutex.
func (e *Engine) withObject(id string, fn func(*model.Asteroid) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.ledger.GameOver() {
		return ErrGameOver
	}
	a, ok := e.objects[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	return fn(a)
}

func (e *Engine) observeAction(action string, err error) {
	status := "ok"
	if err != nil {
		status = "rejected"
	}
	e.metrics.ObserveAction(action, status)
}

// Track begins tracking an object, subject to capacity and budget.
func (e *Engine) Track(id string) error {
	err := e.withObject(id, func(a *model.Asteroid) error {
		if err := core.ApplyTrack(a, &e.ledger, e.costs); err != nil {
			return err
		}
		e.events.Append(e.clock.Now(), model.EventTracking, model.SeverityInfo, a.ID,
			fmt.Sprintf("Tracking started for %s", a.Name))
		return nil
	})
	e.observeAction("track", err)
	return err
}

// Alert issues a public alert for an object.
func (e *Engine) Alert(id string) error {
	err := e.withObject(id, func(a *model.Asteroid) error {
		if err := core.ApplyAlert(a, &e.ledger, e.costs); err != nil {
			return err
		}
		e.events.Append(e.clock.Now(), model.EventAlert, model.SeverityWarning, a.ID,
			fmt.Sprintf("Public alert issued for %s", a.Name))
		return nil
	})
	e.observeAction("alert", err)
	return err
}

// Evacuate orders an impact-zone evacuation for an object.
func (e *Engine) Evacuate(id string) error {
	err := e.withObject(id, func(a *model.Asteroid) error {
		if err := core.ApplyEvacuate(a, &e.ledger, e.costs); err != nil {
			return err
		}
		e.events.Append(e.clock.Now(), model.EventAlert, model.SeverityWarning, a.ID,
			fmt.Sprintf("Evacuation ordered for the %s impact zone", a.Name))
		return nil
	})
	e.observeAction("evacuate", err)
	return err
}

// LaunchMission launches a deflection mission against an object.
func (e *Engine) LaunchMission(id string, t model.MissionType) error {
	err := e.withObject(id, func(a *model.Asteroid) error {
		m, err := core.ApplyLaunchMission(a, &e.ledger, e.costs, t, e.clock.Now())
		if err != nil {
			return err
		}
		m.ID = uuid.NewString()
		e.events.Append(e.clock.Now(), model.EventMission, model.SeverityInfo, a.ID,
			fmt.Sprintf("%s mission launched at %s, arrival %s",
				m.Type, a.Name, m.ArrivesAt.Format(time.RFC3339)))
		return nil
	})
	e.observeAction("launch-mission", err)
	return err
}

// ---- Selection ----

// Select marks an object as the operator's current inspection target.
func (e *Engine) Select(id string) error {
	return e.withObject(id, func(a *model.Asteroid) error {
		e.selection = a.ID
		return nil
	})
}

// Selection returns the currently selected object ID, empty when none.
func (e *Engine) Selection() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection
}

// ---- Snapshots ----

// Objects returns deep copies of the active set in insertion order.
func (e *Engine) Objects() []*model.Asteroid {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]*model.Asteroid, 0, len(e.order))
	for _, id := range e.order {
		if a, ok := e.objects[id]; ok {
			out = append(out, a.Clone())
		}
	}
	return out
}

// Object returns a deep copy of one object.
func (e *Engine) Object(id string) (*model.Asteroid, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.objects[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrObjectNotFound, id)
	}
	return a.Clone(), nil
}

// Report builds the derived impact report for one object.
func (e *Engine) Report(id string) (core.ImpactReport, error) {
	a, err := e.Object(id)
	if err != nil {
		return core.ImpactReport{}, err
	}
	return core.BuildReport(a), nil
}

// Ledger returns a copy of the current ledger.
func (e *Engine) Ledger() model.Ledger {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger
}

// GameOver reports whether the failure predicate holds.
func (e *Engine) GameOver() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.GameOver()
}

// Reset reinitializes all ledger and object state and rewinds the clock.
func (e *Engine) Reset(start time.Time) {
	e.mu.Lock()
	e.objects = make(map[string]*model.Asteroid)
	e.order = nil
	e.selection = ""
	e.sinceFunding = 0
	e.sinceSpawnCheck = 0
	e.spawnInFlight = false
	e.failed = false
	e.resetLedger()
	e.mu.Unlock()

	e.events.Clear()
	e.clock.Reset(start)
	e.clock.Resume()
	e.events.Append(start, model.EventSystem, model.SeverityInfo, "", "Scenario reset")
}
