// Package main provides CMA-ES optimization for evolution and behavior parameters.
package main

import (
	"fmt"

	"github.com/pthm-cable/evogrid/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Mutation
			{Name: "mutation_rate", Path: "mutation.rate", Min: 0.0, Max: 0.6, Default: 0.2},
			{Name: "epigenetic_noise", Path: "mutation.epigenetic_noise", Min: 0.0, Max: 0.3, Default: 0.05},
			// Behavior weights
			{Name: "pheromone_weight", Path: "behavior.pheromone_weight", Min: 0.0, Max: 1.0, Default: 0.2},
			{Name: "cohesion_weight", Path: "behavior.cohesion_weight", Min: 0.0, Max: 1.0, Default: 0.1},
			{Name: "aggression_weight", Path: "behavior.aggression_weight", Min: 0.0, Max: 1.0, Default: 0.2},
			{Name: "sense_radius", Path: "behavior.sense_radius", Min: 1.0, Max: 10.0, Default: 5.0},
			// Founder traits
			{Name: "max_food_seek", Path: "agent.max_food_seek", Min: 0.0, Max: 2.0, Default: 1.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	clamped := pv.Clamp(values)

	cfg.Mutation.Rate = clamped[0]
	cfg.Mutation.EpigeneticNoise = clamped[1]
	cfg.Behavior.PheromoneWeight = clamped[2]
	cfg.Behavior.CohesionWeight = clamped[3]
	cfg.Behavior.AggressionWeight = clamped[4]
	cfg.Behavior.SenseRadius = clamped[5]
	cfg.Agent.MaxFoodSeek = clamped[6]
	cfg.Refresh()
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	return []float64{
		cfg.Mutation.Rate,
		cfg.Mutation.EpigeneticNoise,
		cfg.Behavior.PheromoneWeight,
		cfg.Behavior.CohesionWeight,
		cfg.Behavior.AggressionWeight,
		cfg.Behavior.SenseRadius,
		cfg.Agent.MaxFoodSeek,
	}
}

// InitialPoint returns the raw starting vector for the search: the loaded
// config's values for "config", the parameter table defaults for "defaults".
func (pv *ParamVector) InitialPoint(start string, cfg *config.Config) ([]float64, error) {
	switch start {
	case "", "config":
		return pv.Clamp(pv.ExtractFromConfig(cfg)), nil
	case "defaults":
		return pv.DefaultVector(), nil
	default:
		return nil, fmt.Errorf("unknown start point %q (want config or defaults)", start)
	}
}
