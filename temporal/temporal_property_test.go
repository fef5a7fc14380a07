package temporal

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/photon-storage/stime/config"
)

func TestDurationBoundsProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 500
	properties := gopter.NewProperties(parameters)

	policy := config.DefaultPolicy()
	policy.TierBound = 30 * 24 * time.Hour
	v := NewValidator(policy)
	tier := int64(policy.TierBound / time.Second)

	properties.Property("IsValidDuration(d) == (60 <= d <= tierBound)", prop.ForAll(
		func(seconds int64) bool {
			want := seconds >= 60 && seconds <= tier
			return v.IsValidDuration(time.Duration(seconds)*time.Second) == want
		},
		gen.Int64Range(-10, tier+10_000),
	))

	properties.TestingRun(t)
}
