package core

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// CandidateRecord is one physical-attribute candidate from a catalog. A zero
// MassKg means the mass is unknown and should be derived from diameter and
// density.
type CandidateRecord struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	DiameterM   float64 `json:"diameter_m"`
	MassKg      float64 `json:"mass_kg"`
	DensityGCm3 float64 `json:"density_g_cm3"`
	Material    string  `json:"material"`
	Description string  `json:"description"`
}

// CatalogSource supplies candidate records for object generation. Sources
// are advisory: any error or empty result makes the generator fall back to
// the built-in reference table and then to synthetic attributes.
type CatalogSource interface {
	Candidates(ctx context.Context) ([]CandidateRecord, error)
}

// ReferenceCatalog returns the built-in curated table of real small bodies.
// Values are rounded literature figures; bodies without a published mass
// carry zero and get a derived one.
func ReferenceCatalog() []CandidateRecord {
	return []CandidateRecord{
		{Key: "25143-itokawa", Name: "25143 Itokawa", DiameterM: 330, MassKg: 3.51e10, DensityGCm3: 1.9, Material: "stony",
			Description: "Rubble-pile S-type visited by Hayabusa; the archetypal sub-kilometre near-Earth object."},
		{Key: "162173-ryugu", Name: "162173 Ryugu", DiameterM: 900, MassKg: 4.5e11, DensityGCm3: 1.19, Material: "carbonaceous",
			Description: "Spinning-top Cb-type sampled by Hayabusa2; very low bulk density."},
		{Key: "9p-tempel-1", Name: "9P/Tempel 1", DiameterM: 6000, MassKg: 7.2e13, DensityGCm3: 0.62, Material: "cometary",
			Description: "Jupiter-family comet cratered by Deep Impact; porous ice-dust mix."},
		{Key: "81p-wild-2", Name: "81P/Wild 2", DiameterM: 4000, MassKg: 2.3e13, DensityGCm3: 0.6, Material: "cometary",
			Description: "Comet whose coma was sampled by Stardust."},
		{Key: "243-ida", Name: "243 Ida", DiameterM: 31400, MassKg: 4.2e16, DensityGCm3: 2.6, Material: "stony",
			Description: "Koronis-family S-type with its own moon, Dactyl."},
		{Key: "21-lutetia", Name: "21 Lutetia", DiameterM: 98000, MassKg: 1.7e18, DensityGCm3: 3.4, Material: "metal-rich",
			Description: "Large M-type flown past by Rosetta; unusually dense."},
		{Key: "4-vesta", Name: "4 Vesta", DiameterM: 525000, MassKg: 2.59e20, DensityGCm3: 3.46, Material: "basaltic",
			Description: "Second-most-massive body in the main belt; differentiated basaltic crust."},
		{Key: "617-patroclus", Name: "617 Patroclus", DiameterM: 113000, MassKg: 1.36e18, DensityGCm3: 0.88, Material: "primitive",
			Description: "Binary Jupiter trojan; primitive low-density pair with Menoetius."},
		{Key: "menoetius", Name: "Menoetius", DiameterM: 104000, DensityGCm3: 0.88, Material: "primitive",
			Description: "Companion of 617 Patroclus in a near-equal binary."},
		{Key: "21900-orus", Name: "21900 Orus", DiameterM: 51000, DensityGCm3: 1.0, Material: "primitive",
			Description: "Jupiter trojan on the Lucy mission tour."},
		{Key: "11351-leucus", Name: "11351 Leucus", DiameterM: 41000, DensityGCm3: 1.0, Material: "primitive",
			Description: "Slow-rotating Jupiter trojan, a Lucy target."},
		{Key: "15094-polymele", Name: "15094 Polymele", DiameterM: 21000, DensityGCm3: 1.0, Material: "primitive",
			Description: "Smallest of the Lucy trojan targets; has a satellite."},
	}
}

// FeedSource pulls candidate records from an external JSON feed. Responses
// are cached for a short window so the spawn cadence does not hammer the
// upstream, and every failure mode degrades to an error the generator
// swallows.
type FeedSource struct {
	URL     string
	Timeout time.Duration
	TTL     time.Duration
	Client  *http.Client

	mu        sync.Mutex
	cached    []CandidateRecord
	fetchedAt time.Time
	now       func() time.Time
}

// NewFeedSource builds a source for the given feed URL.
func NewFeedSource(url string, timeout, ttl time.Duration) *FeedSource {
	return &FeedSource{
		URL:     url,
		Timeout: timeout,
		TTL:     ttl,
		Client:  &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

// Candidates returns the cached feed page when fresh, otherwise refetches.
// The fetch is bounded by the configured timeout; callers never block longer.
func (f *FeedSource) Candidates(ctx context.Context) ([]CandidateRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cached != nil && f.now().Sub(f.fetchedAt) < f.TTL {
		return f.cached, nil
	}

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed returned status %d", resp.StatusCode)
	}

	var records []CandidateRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode feed: %w", err)
	}

	// Drop records the generator cannot use.
	usable := records[:0]
	for _, r := range records {
		if r.DiameterM > 0 {
			usable = append(usable, r)
		}
	}
	if len(usable) == 0 {
		return nil, fmt.Errorf("feed yielded no usable candidates")
	}

	f.cached = usable
	f.fetchedAt = f.now()
	return usable, nil
}
