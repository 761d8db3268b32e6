// Package lookup resolves a parsed project location to its parcel and
// MS4 drainage-area features using the imported PLUTO and MS4 records.
package lookup

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/jceal/stormwater-classifier/internal/parser"
	"github.com/jceal/stormwater-classifier/internal/state"
)

// boroughToCode maps canonical borough names to PLUTO borough codes.
var boroughToCode = map[string]string{
	"Manhattan":     "MN",
	"Bronx":         "BX",
	"Brooklyn":      "BK",
	"Queens":        "QN",
	"Staten Island": "SI",
}

// Features are the location-derived inputs to the rule layer. The
// zero value means "location unknown": not in an MS4 area, no
// pollutants, no lot area.
type Features struct {
	InMS4Area           bool
	PollutantsOfConcern []string
	LotAreaSF           *float64
	FullSiteDisturbedSF *float64
}

// Storage is the subset of the state store the client needs.
type Storage interface {
	FindParcel(boroughCode, address string) (*state.Parcel, error)
	ParcelByExactAddress(boroughCode, address string) (*state.Parcel, error)
	ParcelAddresses(boroughCode string) ([]string, error)
	MS4Areas() ([]state.MS4Area, error)
}

// Client answers location-feature lookups. Addresses per borough and
// MS4 polygons are cached after first use; imports replace the whole
// store, so a long-lived client should be recreated after an import.
type Client struct {
	store  Storage
	logger *slog.Logger
	cutoff float64

	mu        sync.Mutex
	areas     []state.MS4Area
	areasOK   bool
	addresses map[string][]string
}

// NewClient creates a lookup client over the given store.
func NewClient(store Storage, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{
		store:     store,
		logger:    logger,
		cutoff:    defaultCutoff,
		addresses: make(map[string][]string),
	}
}

// LocationFeatures resolves the parcel and MS4 features for a parsed
// description. An unknown or unresolvable location yields zero-value
// Features and no error; errors are reserved for store failures.
func (c *Client) LocationFeatures(d parser.Description) (Features, error) {
	if d.StreetAddress == "" || d.Borough == "" {
		return Features{}, nil
	}

	code, ok := boroughToCode[d.Borough]
	if !ok {
		c.logger.Debug("unknown borough", "borough", d.Borough)
		return Features{}, nil
	}

	parcel, err := c.resolveParcel(code, d.StreetAddress)
	if err != nil {
		return Features{}, err
	}
	if parcel == nil {
		c.logger.Debug("address not resolved", "address", d.StreetAddress, "borough", code)
		return Features{}, nil
	}

	areas, err := c.ms4Areas()
	if err != nil {
		return Features{}, err
	}

	var inMS4 bool
	pollutants := []string{}
	for _, a := range areas {
		if a.Geometry.Polygons.Contains(parcel.Centroid) {
			inMS4 = true
			if a.Floatables {
				pollutants = append(pollutants, "floatables")
			}
			if a.Pathogens {
				pollutants = append(pollutants, "pathogens")
			}
			if a.Nitrogen {
				pollutants = append(pollutants, "nitrogen")
			}
			if a.Phosphorus {
				pollutants = append(pollutants, "phosphorus")
			}
			break
		}
	}

	f := Features{
		InMS4Area:           inMS4,
		PollutantsOfConcern: pollutants,
	}
	lot := parcel.LotAreaSF
	f.LotAreaSF = &lot
	if d.FullSiteDisturbed {
		full := lot
		f.FullSiteDisturbedSF = &full
	}
	return f, nil
}

// resolveParcel tries a substring match first, then falls back to
// fuzzy matching against all addresses in the borough.
func (c *Client) resolveParcel(code, address string) (*state.Parcel, error) {
	parcel, err := c.store.FindParcel(code, address)
	if err != nil {
		return nil, fmt.Errorf("parcel lookup failed: %w", err)
	}
	if parcel != nil {
		return parcel, nil
	}

	candidates, err := c.boroughAddresses(code)
	if err != nil {
		return nil, err
	}
	match, ok := closestMatch(address, candidates, c.cutoff)
	if !ok {
		return nil, nil
	}

	c.logger.Debug("fuzzy address match", "query", address, "match", match)
	parcel, err = c.store.ParcelByExactAddress(code, match)
	if err != nil {
		return nil, fmt.Errorf("parcel lookup failed: %w", err)
	}
	return parcel, nil
}

func (c *Client) boroughAddresses(code string) ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if addrs, ok := c.addresses[code]; ok {
		return addrs, nil
	}
	addrs, err := c.store.ParcelAddresses(code)
	if err != nil {
		return nil, fmt.Errorf("address list failed: %w", err)
	}
	c.addresses[code] = addrs
	return addrs, nil
}

func (c *Client) ms4Areas() ([]state.MS4Area, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.areasOK {
		return c.areas, nil
	}
	areas, err := c.store.MS4Areas()
	if err != nil {
		return nil, fmt.Errorf("ms4 area list failed: %w", err)
	}
	c.areas = areas
	c.areasOK = true
	return areas, nil
}
