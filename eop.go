package kosmoss

import (
	"encoding/csv"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/go-kit/kit/log"
	"github.com/pkg/errors"
	"github.com/soniakeys/meeus/julian"
)

// CelesTrakEOPURL is where fresh Earth orientation parameters are fetched.
const CelesTrakEOPURL = "https://celestrak.org/SpaceData/EOP-All.csv"

// EOPRefreshInterval is how stale the on-disk EOP file may grow before the
// cache re-downloads it.
const EOPRefreshInterval = 24 * time.Hour

// EOPData holds the Earth orientation parameters for one epoch. Polar motion
// in arcseconds, time offsets in seconds, nutation corrections in arcseconds.
type EOPData struct {
	XPole float64 // polar motion x
	YPole float64 // polar motion y
	DUT1  float64 // UT1 - UTC
	LOD   float64 // length of day offset
	DDPsi float64 // nutation correction in longitude
	DDEps float64 // nutation correction in obliquity
}

// DefaultEOPData returns a fixed parameter set used when no fresh data is
// available. Good to a few meters of ground-track error, which is ample for
// telemetry annotation.
func DefaultEOPData() EOPData {
	return EOPData{
		XPole: 0.161556,
		YPole: 0.247219,
		DUT1:  -0.0890529,
		LOD:   0.0017,
		DDPsi: -0.052,
		DDEps: -0.003,
	}
}

// Interpolate returns the parameter set linearly interpolated between e and
// next at fraction f in [0, 1].
func (e EOPData) Interpolate(next EOPData, f float64) EOPData {
	lerp := func(a, b float64) float64 { return a + (b-a)*f }
	return EOPData{
		XPole: lerp(e.XPole, next.XPole),
		YPole: lerp(e.YPole, next.YPole),
		DUT1:  lerp(e.DUT1, next.DUT1),
		LOD:   lerp(e.LOD, next.LOD),
		DDPsi: lerp(e.DDPsi, next.DDPsi),
		DDEps: lerp(e.DDEps, next.DDEps),
	}
}

type eopEntry struct {
	mjd  float64
	data EOPData
}

// EOPCache is an explicitly owned Earth orientation parameter store. It loads
// a CelesTrak CSV file from disk, re-downloading it when stale, and serves
// interpolated parameters per epoch. There is no process-wide instance; each
// consumer owns its cache, so tests run with isolated, deterministic contents.
type EOPCache struct {
	path         string
	url          string
	refreshEvery time.Duration
	client       *http.Client
	logger       log.Logger
	entries      []eopEntry
}

// NewEOPCache returns a cache backed by the CSV file at path, fetching from
// the CelesTrak archive when the file is missing or stale.
func NewEOPCache(path string, logger log.Logger) *EOPCache {
	return &EOPCache{
		path:         path,
		url:          CelesTrakEOPURL,
		refreshEvery: EOPRefreshInterval,
		client:       &http.Client{Timeout: 30 * time.Second},
		logger:       logger,
	}
}

// Load ensures the cache holds parsed entries, downloading the source file
// first if it is missing or older than the refresh interval.
func (c *EOPCache) Load() error {
	info, err := os.Stat(c.path)
	stale := err != nil || time.Since(info.ModTime()) > c.refreshEvery
	if stale {
		if dlErr := c.download(); dlErr != nil {
			if err != nil {
				return errors.Wrap(dlErr, "no local EOP file and download failed")
			}
			c.logger.Log("level", "warning", "subsys", "eop", "msg", "refresh failed, using stale file", "err", dlErr)
		}
	}
	return c.parse()
}

// ForEpoch returns the Earth orientation parameters for the given epoch,
// linearly interpolated between the bracketing daily entries. Returns an
// error when the cache is empty or the epoch is outside its span; callers
// fall back to DefaultEOPData.
func (c *EOPCache) ForEpoch(epoch time.Time) (EOPData, error) {
	if len(c.entries) == 0 {
		if err := c.Load(); err != nil {
			return EOPData{}, err
		}
	}
	mjd := julian.TimeToJD(epoch) - 2400000.5
	n := len(c.entries)
	if mjd < c.entries[0].mjd || mjd > c.entries[n-1].mjd {
		return EOPData{}, errors.Errorf("epoch %s outside EOP span", epoch)
	}
	k := sort.Search(n, func(i int) bool { return c.entries[i].mjd >= mjd })
	if k == 0 || c.entries[k].mjd == mjd {
		return c.entries[k].data, nil
	}
	lo, hi := c.entries[k-1], c.entries[k]
	f := (mjd - lo.mjd) / (hi.mjd - lo.mjd)
	return lo.data.Interpolate(hi.data, f), nil
}

func (c *EOPCache) download() error {
	resp, err := c.client.Get(c.url)
	if err != nil {
		return errors.Wrap(err, "fetching EOP data")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return errors.Errorf("fetching EOP data: %s", resp.Status)
	}
	out, err := os.Create(c.path)
	if err != nil {
		return errors.Wrap(err, "writing EOP file")
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return errors.Wrap(err, "writing EOP file")
	}
	c.logger.Log("level", "info", "subsys", "eop", "msg", "EOP file refreshed", "path", c.path)
	return nil
}

// parse reads the CelesTrak CSV. Columns: date, MJD, x, y, UT1-UTC, LOD,
// dPsi, dEps, followed by predicted values we ignore. Rows with missing
// fields (future predictions) are skipped.
func (c *EOPCache) parse() error {
	f, err := os.Open(c.path)
	if err != nil {
		return errors.Wrap(err, "opening EOP file")
	}
	defer f.Close()
	rdr := csv.NewReader(f)
	rdr.FieldsPerRecord = -1
	c.entries = c.entries[:0]
	header := true
	for {
		rec, err := rdr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return errors.Wrap(err, "parsing EOP file")
		}
		if header {
			header = false
			continue
		}
		if len(rec) < 8 {
			continue
		}
		vals := make([]float64, 7)
		ok := true
		for i := 0; i < 7; i++ {
			v, convErr := strconv.ParseFloat(rec[i+1], 64)
			if convErr != nil {
				ok = false
				break
			}
			vals[i] = v
		}
		if !ok {
			continue
		}
		c.entries = append(c.entries, eopEntry{
			mjd: vals[0],
			data: EOPData{
				XPole: vals[1],
				YPole: vals[2],
				DUT1:  vals[3],
				LOD:   vals[4],
				DDPsi: vals[5],
				DDEps: vals[6],
			},
		})
	}
	if len(c.entries) == 0 {
		return errors.New("EOP file contains no usable entries")
	}
	sort.Slice(c.entries, func(i, j int) bool { return c.entries[i].mjd < c.entries[j].mjd })
	c.logger.Log("level", "info", "subsys", "eop", "msg", "EOP cache loaded", "entries", len(c.entries))
	return nil
}
