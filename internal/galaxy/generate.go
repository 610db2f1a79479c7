package galaxy

import (
	"context"
	"log/slog"
	"math"
	"runtime"
	"time"

	"galaxy-gen/internal/core"

	"golang.org/x/sync/errgroup"
)

// chunkSize is the number of points filled by one worker task. Each chunk
// draws from its own random stream, so results do not depend on how many
// workers run.
const chunkSize = 8192

// Generator fills point clouds. The zero value uses one worker per CPU.
type Generator struct {
	Workers int
}

// Generate builds a cloud using an automatically chosen seed. The seed is
// recorded on the returned cloud.
func Generate(p Params) *PointCloud {
	return GenerateSeeded(p, core.AutoSeed())
}

// GenerateSeeded builds a cloud from an explicit seed. Identical params and
// seed always produce identical buffers.
func GenerateSeeded(p Params, seed uint64) *PointCloud {
	cloud, _ := Generator{}.Generate(context.Background(), p, seed)
	return cloud
}

// Generate builds a fresh cloud. It only fails when ctx is done before every
// chunk has been filled. Parameters are not validated here.
func (g Generator) Generate(ctx context.Context, p Params, seed uint64) (*PointCloud, error) {
	start := time.Now()
	count := p.Count
	if count < 0 {
		count = 0
	}
	cloud := &PointCloud{
		Positions: core.NewVec3Buffer(count),
		Colors:    core.NewVec3Buffer(count),
		Sun:       newSun(p),
		Seed:      seed,
		Params:    p,
	}

	chunks := (count + chunkSize - 1) / chunkSize
	workers := g.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > chunks {
		workers = chunks
	}

	if chunks > 0 {
		eg, egCtx := errgroup.WithContext(ctx)
		eg.SetLimit(workers)
		for c := 0; c < chunks; c++ {
			if egCtx.Err() != nil {
				break
			}
			from := c * chunkSize
			to := min(from+chunkSize, count)
			rng := core.NewRNG(seed, uint64(c))
			eg.Go(func() error {
				if err := egCtx.Err(); err != nil {
					return err
				}
				fillRange(cloud.Positions, cloud.Colors, from, to, p, rng)
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	slog.Debug("Galaxy generated",
		"component", "galaxy_generator",
		"count", count,
		"arms", p.Arms,
		"seed", seed,
		"workers", workers,
		"elapsed", time.Since(start),
	)
	return cloud, nil
}

// sampler yields uniform values in [0, 1).
type sampler interface {
	Float64() float64
}

func fillRange(positions, colors core.Vec3Buffer, from, to int, p Params, rng sampler) {
	for i := from; i < to; i++ {
		u := rng.Float64()
		v := rng.Float64()
		s := rng.Float64()
		w := rng.Float64()
		x, y, z, t := placePoint(i, p, u, v, s, w)
		positions.Set(i, float32(x), float32(y), float32(z))
		c := p.InsideColor.Lerp(p.OutsideColor, t)
		colors.Set(i, float32(c.R), float32(c.G), float32(c.B))
	}
}

// ArmAngle is the base angle of the arm that point i belongs to. Degenerate
// arm counts put every point on angle 0.
func ArmAngle(i, arms int) float64 {
	if arms <= 0 {
		return 0
	}
	return float64(i%arms) / float64(arms) * 2 * math.Pi
}

// RadiusFromCenter maps a uniform sample u onto the pre-jitter radius.
func RadiusFromCenter(u float64, p Params) float64 {
	return math.Pow(u, p.GalaxyConcentration) * p.Radius
}

// placePoint positions point i from four uniform samples: u for the radius,
// v for the jitter length, s for the jitter azimuth and w for the jitter polar
// angle. It also returns the color factor.
func placePoint(i int, p Params, u, v, s, w float64) (x, y, z, t float64) {
	radius := RadiusFromCenter(u, p)
	angle := ArmAngle(i, p.Arms) + radius*p.Spin

	jitter := math.Pow(v, p.ArmConcentration) * p.Randomness
	theta := s * 2 * math.Pi
	phi := math.Acos(2*w - 1)
	sinPhi := math.Sin(phi)

	x = math.Cos(angle)*radius + jitter*sinPhi*math.Cos(theta)
	y = jitter * sinPhi * math.Sin(theta)
	z = math.Sin(angle)*radius + jitter*math.Cos(phi)

	if p.Radius > 0 {
		t = radius / p.Radius
	}
	return x, y, z, t
}
