package engine

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/miradorstack/natal-engine/internal/ephemeris"
	"github.com/miradorstack/natal-engine/internal/models"
	"github.com/miradorstack/natal-engine/internal/utils"
)

// defaultLookupConcurrency bounds parallel oracle calls within one request.
const defaultLookupConcurrency = 4

var oracleBodies = map[models.Body]ephemeris.BodyID{
	models.BodySun:       ephemeris.Sun,
	models.BodyMoon:      ephemeris.Moon,
	models.BodyMercury:   ephemeris.Mercury,
	models.BodyVenus:     ephemeris.Venus,
	models.BodyMars:      ephemeris.Mars,
	models.BodyJupiter:   ephemeris.Jupiter,
	models.BodySaturn:    ephemeris.Saturn,
	models.BodyUranus:    ephemeris.Uranus,
	models.BodyNeptune:   ephemeris.Neptune,
	models.BodyPluto:     ephemeris.Pluto,
	models.BodyNorthNode: ephemeris.MeanNode,
}

// Snapshot is everything the positions operation needs from the oracle.
type Snapshot struct {
	Ascendant models.EclipticAngle
	Ayanamsa  models.AyanamsaOffset
	Tropical  models.PlanetaryTable
}

// Gateway shapes oracle output into domain types and wraps oracle failures
// as computation errors.
type Gateway struct {
	oracle      ephemeris.Oracle
	houseSystem ephemeris.HouseSystem
	concurrency int
}

// NewGateway wraps an oracle. concurrency <= 0 selects the default.
func NewGateway(oracle ephemeris.Oracle, houseSystem ephemeris.HouseSystem, concurrency int) *Gateway {
	if houseSystem == 0 {
		houseSystem = ephemeris.Placidus
	}
	if concurrency <= 0 {
		concurrency = defaultLookupConcurrency
	}
	return &Gateway{oracle: oracle, houseSystem: houseSystem, concurrency: concurrency}
}

// DayNumber forwards to the oracle so the gateway can back a TimeResolver.
func (g *Gateway) DayNumber(year, month, day int, hour float64) (float64, error) {
	return g.oracle.DayNumber(year, month, day, hour)
}

// Ascendant returns the tropical ascendant for a place and epoch.
func (g *Gateway) Ascendant(ctx context.Context, epoch models.Epoch, lat, lon float64) (models.EclipticAngle, error) {
	houses, err := g.oracle.Houses(ctx, float64(epoch), lat, lon, g.houseSystem)
	if err != nil {
		return 0, utils.NewComputationError("ephemeris.houses", "ascendant lookup failed", err)
	}
	return checkedAngle("ephemeris.houses", houses.Ascendant)
}

// Ayanamsa returns the precession correction for an epoch.
func (g *Gateway) Ayanamsa(ctx context.Context, epoch models.Epoch) (models.AyanamsaOffset, error) {
	value, err := g.oracle.Ayanamsa(ctx, float64(epoch))
	if err != nil {
		return 0, utils.NewComputationError("ephemeris.ayanamsa", "ayanamsa lookup failed", err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) || math.Abs(value) >= 360 {
		return 0, utils.NewComputationError("ephemeris.ayanamsa", "ayanamsa out of range", fmt.Errorf("got %v", value))
	}
	return models.AyanamsaOffset(value), nil
}

// Longitude returns the tropical longitude of one body. The South Node is
// derived from the North Node.
func (g *Gateway) Longitude(ctx context.Context, epoch models.Epoch, body models.Body) (models.EclipticAngle, error) {
	if body == models.BodySouthNode {
		north, err := g.Longitude(ctx, epoch, models.BodyNorthNode)
		if err != nil {
			return 0, err
		}
		return models.EclipticAngle(ephemeris.Normalize(float64(north) + 180)), nil
	}

	id, ok := oracleBodies[body]
	if !ok {
		return 0, utils.NewComputationError("ephemeris.longitude", "unsupported body", fmt.Errorf("%w: %s", ephemeris.ErrUnknownBody, body))
	}
	value, err := g.oracle.BodyLongitude(ctx, float64(epoch), id)
	if err != nil {
		return 0, utils.NewComputationError("ephemeris.longitude", fmt.Sprintf("%s lookup failed", body), err)
	}
	return checkedAngle("ephemeris.longitude", value)
}

// Snapshot fetches the ascendant, ayanamsa and every body concurrently. The
// first failure cancels the remaining lookups.
func (g *Gateway) Snapshot(ctx context.Context, epoch models.Epoch, lat, lon float64) (Snapshot, error) {
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.concurrency)

	var snap Snapshot
	group.Go(func() error {
		asc, err := g.Ascendant(groupCtx, epoch, lat, lon)
		snap.Ascendant = asc
		return err
	})
	group.Go(func() error {
		ayanamsa, err := g.Ayanamsa(groupCtx, epoch)
		snap.Ayanamsa = ayanamsa
		return err
	})

	// One slot per body; each goroutine writes only its own index.
	values := make([]models.EclipticAngle, len(models.Bodies))
	for i, body := range models.Bodies {
		if body == models.BodySouthNode {
			continue
		}
		group.Go(func() error {
			value, err := g.Longitude(groupCtx, epoch, body)
			values[i] = value
			return err
		})
	}

	if err := group.Wait(); err != nil {
		return Snapshot{}, err
	}

	snap.Tropical = make(models.PlanetaryTable, len(models.Bodies))
	for i, body := range models.Bodies {
		snap.Tropical[body] = values[i]
	}
	snap.Tropical[models.BodySouthNode] = models.EclipticAngle(ephemeris.Normalize(float64(snap.Tropical[models.BodyNorthNode]) + 180))
	return snap, nil
}

func checkedAngle(op string, value float64) (models.EclipticAngle, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, utils.NewComputationError(op, "oracle returned a non-finite angle", fmt.Errorf("got %v", value))
	}
	return models.EclipticAngle(ephemeris.Normalize(value)), nil
}
