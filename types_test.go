package imapfuzz_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/imapwire/imapfuzz"
)

func TestParseFeatures(t *testing.T) {
	testCases := map[string]struct {
		input       string
		expected    imapfuzz.Features
		expectedErr error
	}{
		"empty means all": {
			input:    "",
			expected: imapfuzz.AllFeatures,
		},
		"all": {
			input:    "all",
			expected: imapfuzz.AllFeatures,
		},
		"none": {
			input:    "none",
			expected: imapfuzz.NoFeatures,
		},
		"list": {
			input:    "quota, IDLE,,literal-plus",
			expected: imapfuzz.NoFeatures.With(imapfuzz.FeatureQuota).With(imapfuzz.FeatureIdle).With(imapfuzz.FeatureLiteralPlus),
		},
		"unknown": {
			input:       "quota,condstore",
			expectedErr: imapfuzz.ErrUnknownFeature,
		},
	}
	for testCase, data := range testCases {
		t.Run(testCase, func(t *testing.T) {
			fs, err := imapfuzz.ParseFeatures(data.input)
			if data.expectedErr != nil {
				require.True(t, xerrors.Is(err, data.expectedErr))
				return
			}
			require.NoError(t, err)
			require.Equal(t, data.expected, fs)
		})
	}
}

func TestFeaturesString(t *testing.T) {
	require.Equal(t, "none", imapfuzz.NoFeatures.String())
	fs := imapfuzz.NoFeatures.With(imapfuzz.FeatureMove).With(imapfuzz.FeatureCompress)
	require.Equal(t, "compress,move", fs.String())
	require.False(t, fs.Without(imapfuzz.FeatureMove).Has(imapfuzz.FeatureMove))

	roundTrip, err := imapfuzz.ParseFeatures(imapfuzz.AllFeatures.String())
	require.NoError(t, err)
	require.Equal(t, imapfuzz.AllFeatures, roundTrip)
}

func TestFeaturesFromEnv(t *testing.T) {
	t.Setenv(imapfuzz.EnvFeatures, "enable")
	require.Equal(t, imapfuzz.NoFeatures.With(imapfuzz.FeatureEnable), imapfuzz.FeaturesFromEnv())
	t.Setenv(imapfuzz.EnvFeatures, "bogus")
	require.Equal(t, imapfuzz.AllFeatures, imapfuzz.FeaturesFromEnv())
}
