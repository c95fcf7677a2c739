// Package config loads the engine tuning tables from YAML, falling back to
// built-in defaults when no file is given. Everything gameplay-visible
// (costs, tier tables, cadences) lives here so scenarios can be rebalanced
// without recompiling.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// TierConfig tunes one synthetic size tier.
type TierConfig struct {
	// Weight is the relative draw weight during generation. The defaults
	// deliberately over-represent medium/large objects compared to the
	// natural size-frequency distribution; small rocks make for dull play.
	Weight float64 `yaml:"weight"`
	// MinDiameterM/MaxDiameterM bound synthetic diameters for this tier.
	// Catalog-sourced objects are classified by a separate threshold table
	// (see model.SizeCategoryFromDiameter) and ignore these ranges.
	MinDiameterM float64 `yaml:"min_diameter_m"`
	MaxDiameterM float64 `yaml:"max_diameter_m"`
	// BaseDetectionChance is the tier's baseline probability of starting
	// detected, before the lead-time scaling.
	BaseDetectionChance float64 `yaml:"base_detection_chance"`
	// BaseImpactProbability anchors both the hidden true probability and the
	// initial displayed prior.
	BaseImpactProbability float64 `yaml:"base_impact_probability"`
	// ZoneRadiusKm is the nominal impact-zone radius for the tier.
	ZoneRadiusKm float64 `yaml:"zone_radius_km"`
}

// ActionCosts prices the four operator actions in $M.
type ActionCosts struct {
	Track    float64 `yaml:"track"`
	Alert    float64 `yaml:"alert"`
	Evacuate float64 `yaml:"evacuate"`
	// Mission costs by type. Kinetic is the cheap option, nuclear the
	// expensive one.
	KineticMission float64 `yaml:"kinetic_mission"`
	GravityTractor float64 `yaml:"gravity_tractor"`
	NuclearMission float64 `yaml:"nuclear_mission"`
}

// LedgerConfig sets the starting resources.
type LedgerConfig struct {
	StartingBudgetM  float64 `yaml:"starting_budget_m"`
	StartingTrust    float64 `yaml:"starting_trust"`
	TrackingCapacity int     `yaml:"tracking_capacity"`
	// BudgetReplenishM is added to the budget on each funding cycle, up to
	// BudgetCapM.
	BudgetReplenishM float64 `yaml:"budget_replenish_m"`
	BudgetCapM       float64 `yaml:"budget_cap_m"`
}

// EngineConfig tunes cadences and retention.
type EngineConfig struct {
	// TickRate is simulated seconds advanced per real second.
	TickRate float64 `yaml:"tick_rate"`
	// SpawnCheckEvery is the simulated interval between spawn rolls.
	SpawnCheckEvery time.Duration `yaml:"spawn_check_every"`
	// SpawnChance is the probability a spawn roll produces a new object.
	SpawnChance float64 `yaml:"spawn_chance"`
	// MinLiveObjects forces a spawn whenever the active set drops below it.
	MinLiveObjects int `yaml:"min_live_objects"`
	// FundingEvery is the simulated interval between budget replenishments.
	FundingEvery time.Duration `yaml:"funding_every"`
	// RetireAfter is how long past closest approach an object is kept
	// around before pruning. The grace window lets consequences settle.
	RetireAfter time.Duration `yaml:"retire_after"`
	// EventLogCap bounds the event log; oldest entries are evicted first.
	EventLogCap int `yaml:"event_log_cap"`
	// MinLeadHours/MaxLeadHours bound generated lead times.
	MinLeadHours float64 `yaml:"min_lead_hours"`
	MaxLeadHours float64 `yaml:"max_lead_hours"`
}

// CatalogConfig controls the optional external/curated data source.
type CatalogConfig struct {
	// RealObjectChance is the probability a spawn samples the curated
	// reference table instead of synthesizing attributes.
	RealObjectChance float64 `yaml:"real_object_chance"`
	// FeedURL, when set, enables the external JSON feed. Empty disables it.
	FeedURL string `yaml:"feed_url"`
	// FetchTimeout bounds the external fetch; a stalled feed must never
	// stall the tick loop.
	FetchTimeout time.Duration `yaml:"fetch_timeout"`
	// CacheTTL is how long a fetched feed page is reused before refetching.
	CacheTTL time.Duration `yaml:"cache_ttl"`
}

// KafkaConfig enables the optional outcome-ledger publisher. Empty brokers
// disable it.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Config is the root tuning document.
type Config struct {
	Tiers   map[string]TierConfig `yaml:"tiers"`
	Costs   ActionCosts           `yaml:"costs"`
	Ledger  LedgerConfig          `yaml:"ledger"`
	Engine  EngineConfig          `yaml:"engine"`
	Catalog CatalogConfig         `yaml:"catalog"`
	Kafka   KafkaConfig           `yaml:"kafka"`
}

// Default returns the built-in tuning used when no config file is supplied.
func Default() Config {
	return Config{
		Tiers: map[string]TierConfig{
			"tiny": {
				Weight: 0.15, MinDiameterM: 1, MaxDiameterM: 10,
				BaseDetectionChance: 0.25, BaseImpactProbability: 0.02,
				ZoneRadiusKm: 5,
			},
			"small": {
				Weight: 0.25, MinDiameterM: 10, MaxDiameterM: 50,
				BaseDetectionChance: 0.45, BaseImpactProbability: 0.04,
				ZoneRadiusKm: 30,
			},
			"medium": {
				Weight: 0.35, MinDiameterM: 50, MaxDiameterM: 300,
				BaseDetectionChance: 0.7, BaseImpactProbability: 0.08,
				ZoneRadiusKm: 150,
			},
			"large": {
				Weight: 0.25, MinDiameterM: 300, MaxDiameterM: 1500,
				BaseDetectionChance: 0.9, BaseImpactProbability: 0.12,
				ZoneRadiusKm: 800,
			},
		},
		Costs: ActionCosts{
			Track:          100,
			Alert:          250,
			Evacuate:       2000,
			KineticMission: 1500,
			GravityTractor: 3000,
			NuclearMission: 8000,
		},
		Ledger: LedgerConfig{
			StartingBudgetM:  10000,
			StartingTrust:    100,
			TrackingCapacity: 5,
			BudgetReplenishM: 2500,
			BudgetCapM:       15000,
		},
		Engine: EngineConfig{
			TickRate:        3600, // one simulated hour per real second
			SpawnCheckEvery: 6 * time.Hour,
			SpawnChance:     0.35,
			MinLiveObjects:  3,
			FundingEvery:    365 * 24 * time.Hour,
			RetireAfter:     time.Hour,
			EventLogCap:     200,
			MinLeadHours:    12,
			MaxLeadHours:    24 * 180,
		},
		Catalog: CatalogConfig{
			RealObjectChance: 0.3,
			FetchTimeout:     5 * time.Second,
			CacheTTL:         5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Topic: "defense.outcomes",
		},
	}
}

// Load reads a YAML tuning file layered over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects tunings the engine cannot run with.
func (c Config) Validate() error {
	for _, name := range []string{"tiny", "small", "medium", "large"} {
		tier, ok := c.Tiers[name]
		if !ok {
			return fmt.Errorf("missing tier %q", name)
		}
		if tier.Weight < 0 {
			return fmt.Errorf("tier %q: negative weight", name)
		}
		if tier.MinDiameterM <= 0 || tier.MaxDiameterM <= tier.MinDiameterM {
			return fmt.Errorf("tier %q: invalid diameter range [%g, %g]", name, tier.MinDiameterM, tier.MaxDiameterM)
		}
	}
	if c.Ledger.StartingBudgetM <= 0 {
		return fmt.Errorf("starting budget must be positive")
	}
	if c.Ledger.TrackingCapacity < 1 {
		return fmt.Errorf("tracking capacity must be at least 1")
	}
	if c.Engine.TickRate <= 0 {
		return fmt.Errorf("tick rate must be positive")
	}
	if c.Engine.EventLogCap < 1 {
		return fmt.Errorf("event log cap must be at least 1")
	}
	if c.Catalog.RealObjectChance < 0 || c.Catalog.RealObjectChance > 1 {
		return fmt.Errorf("real object chance must be in [0,1]")
	}
	return nil
}
