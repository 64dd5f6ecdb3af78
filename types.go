package imapfuzz

import (
	"os"
	"sort"
	"strings"

	"golang.org/x/xerrors"
)

type errorString string

func (es errorString) Error() string {
	return string(es)
}

// ErrNotEnoughData means the entropy ran out before a value was complete
const ErrNotEnoughData = errorString("not enough data")

// ErrIncorrectFormat means the entropy could not be shaped into a valid value
const ErrIncorrectFormat = errorString("incorrect format")

// ErrDepthExceeded means a recursive value would nest deeper than allowed
const ErrDepthExceeded = errorString("maximum nesting depth exceeded")

// ErrSkip marks an input the fuzz drivers decline to check
const ErrSkip = errorString("input skipped")

// ErrUnknownFeature is returned when parsing an unrecognized feature name
const ErrUnknownFeature = errorString("unknown feature")

// ErrNotFound is returned when a stored value does not exist
const ErrNotFound = errorString("not found")

// EnvFeatures names the environment variable read by FeaturesFromEnv
const EnvFeatures = "IMAPFUZZ_FEATURES"

// Feature is an optional protocol extension the generators may emit
type Feature uint16

const (
	// FeatureQuota enables RFC 9208 GETQUOTA, GETQUOTAROOT, SETQUOTA and their responses
	FeatureQuota Feature = 1 << iota
	// FeatureCompress enables COMPRESS and the COMPRESSIONACTIVE code
	FeatureCompress
	// FeatureIdle enables IDLE and DONE
	FeatureIdle
	// FeatureEnable enables ENABLE and the ENABLED response
	FeatureEnable
	// FeatureMove enables MOVE
	FeatureMove
	// FeatureUnselect enables UNSELECT
	FeatureUnselect
	// FeatureLiteralPlus enables non-synchronizing literals
	FeatureLiteralPlus
	// FeatureSaslIR enables an initial response on AUTHENTICATE
	FeatureSaslIR
)

var featureNames = map[Feature]string{
	FeatureQuota:       "quota",
	FeatureCompress:    "compress",
	FeatureIdle:        "idle",
	FeatureEnable:      "enable",
	FeatureMove:        "move",
	FeatureUnselect:    "unselect",
	FeatureLiteralPlus: "literal-plus",
	FeatureSaslIR:      "sasl-ir",
}

func (f Feature) String() string {
	if name, ok := featureNames[f]; ok {
		return name
	}
	return "unknown"
}

// Features is a set of enabled extensions
type Features uint16

// NoFeatures is the base protocol only
const NoFeatures = Features(0)

// AllFeatures enables every known extension
const AllFeatures = Features(FeatureQuota | FeatureCompress | FeatureIdle | FeatureEnable |
	FeatureMove | FeatureUnselect | FeatureLiteralPlus | FeatureSaslIR)

// Has reports whether f is in the set
func (fs Features) Has(f Feature) bool {
	return fs&Features(f) != 0
}

// With returns the set plus f
func (fs Features) With(f Feature) Features {
	return fs | Features(f)
}

// Without returns the set minus f
func (fs Features) Without(f Feature) Features {
	return fs &^ Features(f)
}

// List returns the enabled features in name order
func (fs Features) List() []Feature {
	var out []Feature
	for f := range featureNames {
		if fs.Has(f) {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

func (fs Features) String() string {
	if fs == NoFeatures {
		return "none"
	}
	list := fs.List()
	names := make([]string, 0, len(list))
	for _, f := range list {
		names = append(names, f.String())
	}
	return strings.Join(names, ",")
}

// ParseFeatures reads a comma separated list of feature names. "all" and
// "none" select every feature and no feature respectively.
func ParseFeatures(s string) (Features, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", "all":
		return AllFeatures, nil
	case "none":
		return NoFeatures, nil
	}
	var fs Features
	for _, part := range strings.Split(s, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		found := false
		for f, n := range featureNames {
			if n == name {
				fs = fs.With(f)
				found = true
				break
			}
		}
		if !found {
			return NoFeatures, xerrors.Errorf("%q: %w", name, ErrUnknownFeature)
		}
	}
	return fs, nil
}

// FeaturesFromEnv parses EnvFeatures, falling back to AllFeatures when it is
// unset or malformed
func FeaturesFromEnv() Features {
	fs, err := ParseFeatures(os.Getenv(EnvFeatures))
	if err != nil {
		return AllFeatures
	}
	return fs
}
