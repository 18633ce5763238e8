package allocation

import (
	"fmt"
	"math"

	"github.com/lindanguyen886/portfolio-assistant-ai/internal/contracts"
)

// DriftThreshold is the drift magnitude beyond which a sleeve is flagged
// for rebalancing in suggestions. The guardrail uses the same overweight cut.
const DriftThreshold = 0.05

// DriftDetector compares the current allocation against a target policy.
type DriftDetector struct {
	target contracts.TargetPolicy
}

// NewDriftDetector creates a drift detector for the given target policy.
func NewDriftDetector(target contracts.TargetPolicy) *DriftDetector {
	return &DriftDetector{target: target}
}

// DefaultTargetPolicy returns the built-in robo-allocation targets.
// Targets are independent per sleeve and deliberately exclude AssetUnknown.
func DefaultTargetPolicy() contracts.TargetPolicy {
	return contracts.TargetPolicy{
		contracts.AssetCash:             0.20,
		contracts.AssetBonds:            0.25,
		contracts.AssetDomesticEquity:   0.35,
		contracts.AssetForeignDeveloped: 0.10,
		contracts.AssetForeignGlobal:    0.10,
	}
}

// Target returns the policy this detector compares against.
func (d *DriftDetector) Target() contracts.TargetPolicy {
	return d.target
}

// Drift computes signed drift (actual - target) per target-policy class.
// Classes missing from the current allocation default to 0 actual weight.
// Pure subtraction, no clamping; the map is computed fresh on every call.
func (d *DriftDetector) Drift(current contracts.Allocation) contracts.DriftMap {
	drift := make(contracts.DriftMap, len(d.target))
	for class, target := range d.target {
		drift[class] = current[class] - target
	}
	return drift
}

// Suggestions builds human-readable rebalance suggestions for sleeves whose
// drift magnitude exceeds the threshold. Deterministic ordering: iterate the
// known class list, not the map.
func (d *DriftDetector) Suggestions(drift contracts.DriftMap) []string {
	suggestions := make([]string, 0)

	for _, class := range contracts.AssetClasses() {
		diff, ok := drift[class]
		if !ok {
			continue
		}

		if diff > DriftThreshold {
			suggestions = append(suggestions,
				fmt.Sprintf("Reduce exposure to %s (overweight by %.0f%%)", class, diff*100))
		} else if diff < -DriftThreshold {
			suggestions = append(suggestions,
				fmt.Sprintf("Add exposure to %s (underweight by %.0f%%)", class, math.Abs(diff)*100))
		}
	}

	return suggestions
}
