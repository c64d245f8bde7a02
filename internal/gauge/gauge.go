// Package gauge reads and normalizes the pool's live free-space figure.
package gauge

import (
	"context"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/zeebo/errs"

	"github.com/gestur1976/zfs-autosnap/internal/logging"
	"github.com/gestur1976/zfs-autosnap/internal/zfs"
)

var Error = errs.Class("gauge")

// Gauge polls one pool. Every successful reading is logged; the log line
// doubles as the operator's record of how space moved during a run.
type Gauge struct {
	eng  zfs.Engine
	pool string
	log  logging.Logger
}

func New(eng zfs.Engine, pool string, log logging.Logger) *Gauge {
	return &Gauge{eng: eng, pool: pool, log: log}
}

// Available returns the pool's free space in whole GiB, rounded to the
// nearest unit. Failures are logged here; callers must treat a failed
// reading as "below the floor" rather than skipping eviction.
func (g *Gauge) Available(ctx context.Context) (int64, error) {
	raw, err := g.eng.FreeSpace(ctx, g.pool)
	if err != nil {
		g.log.Error("cannot read free space for pool %s: %v", g.pool, err)
		return 0, Error.Wrap(err)
	}

	bytes, err := parseSize(raw)
	if err != nil {
		g.log.Error("unparseable free-space figure %q for pool %s: %v", raw, g.pool, err)
		return 0, Error.Wrap(err)
	}

	gib := int64(math.Round(float64(bytes) / float64(1<<30)))
	g.log.Info("pool %s free space: %d GiB (%s)", g.pool, gib, raw)
	return gib, nil
}

// parseSize converts a zfs-style size ("831G", "1.50T", "512M", "0") to
// bytes. ZFS suffixes are powers of 1024, so bare suffixes are widened
// to their IEC form before parsing.
func parseSize(raw string) (uint64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, Error.New("empty size")
	}
	last := s[len(s)-1]
	if last >= 'A' && last <= 'Z' || last >= 'a' && last <= 'z' {
		switch strings.ToUpper(string(last)) {
		case "K", "M", "G", "T", "P", "E", "Z":
			s += "iB"
		case "B":
			// already explicit
		default:
			return 0, Error.New("unknown unit suffix in %q", raw)
		}
	}
	n, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, Error.Wrap(err)
	}
	return n, nil
}
