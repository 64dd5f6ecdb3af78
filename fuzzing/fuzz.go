package fuzzing

import (
	"golang.org/x/xerrors"

	"github.com/imapwire/imapfuzz"
	"github.com/imapwire/imapfuzz/arbitrary"
)

// go-fuzz results
const (
	FuzzNormal      = 0
	FuzzInteresting = 1
)

var entryFeatures = imapfuzz.FeaturesFromEnv()

// FuzzToStatic is the go-fuzz entry point for CheckToStatic.
func FuzzToStatic(data []byte) int {
	return fuzz(CheckToStatic, data)
}

// FuzzIntoStatic is the go-fuzz entry point for CheckIntoStatic.
func FuzzIntoStatic(data []byte) int {
	return fuzz(CheckIntoStatic, data)
}

// FuzzOwned is the go-fuzz entry point for CheckOwned.
func FuzzOwned(data []byte) int {
	return fuzz(CheckOwned, data)
}

func fuzz(check Check, data []byte) int {
	err := check(data, arbitrary.WithFeatures(entryFeatures))
	if err == nil {
		return FuzzInteresting
	}
	if xerrors.Is(err, imapfuzz.ErrSkip) {
		return FuzzNormal
	}
	panic(err)
}
