// Copyright 2024 The Quill Authors. All rights reserved.  Use of this source
// code is governed by a license that can be found in the License file.

// Package strategy implements saturation strategies: parameterized
// configurations loaded from YAML schedules, and the multi-strategy
// scheduler that time-slices several saturation instances over one problem.
package strategy

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/quill-prover/quill/internal/sat"
)

// Config is one strategy: a named saturation configuration with an
// admission priority.  Lower priority values are admitted first.
type Config struct {
	Name     string `yaml:"name"`
	Priority int    `yaml:"priority"`

	AgeRatio    int    `yaml:"ageRatio"`
	WeightRatio int    `yaml:"weightRatio"`
	Selection   string `yaml:"selection"`

	// ReversePrecedence flips the KBO symbol precedence for this strategy.
	ReversePrecedence bool `yaml:"reversePrecedence"`

	Demodulation string `yaml:"demodulation"`
	CodeTree     bool   `yaml:"codeTree"`
	WeightLimit  int    `yaml:"weightLimit"`
	ClauseLimit  int    `yaml:"clauseLimit"`

	NoResolution    bool `yaml:"noResolution"`
	NoFactoring     bool `yaml:"noFactoring"`
	NoSuperposition bool `yaml:"noSuperposition"`
	NoBackward      bool `yaml:"noBackward"`
	NoSubsumption   bool `yaml:"noSubsumption"`
	NoEvaluation    bool `yaml:"noEvaluation"`
}

// Options lowers the configuration onto engine options.
func (c Config) Options() (sat.Options, error) {
	o := sat.DefaultOptions()
	if c.AgeRatio > 0 {
		o.AgeRatio = c.AgeRatio
	}
	if c.WeightRatio > 0 {
		o.WeightRatio = c.WeightRatio
	}
	switch c.Selection {
	case "", "maximal":
		o.Selection = sat.SelectMaximal
	case "negative":
		o.Selection = sat.SelectNegative
	default:
		return o, errors.Errorf("strategy %s: unknown selection %q", c.Name, c.Selection)
	}
	switch c.Demodulation {
	case "", "all":
		o.FwDemodulation = sat.DemodAll
	case "preordered":
		o.FwDemodulation = sat.DemodPreordered
	case "off":
		o.FwDemodulation = sat.DemodOff
	default:
		return o, errors.Errorf("strategy %s: unknown demodulation %q", c.Name, c.Demodulation)
	}
	o.CodeTreeSubsumption = c.CodeTree
	o.WeightLimit = c.WeightLimit
	o.ClauseLimit = c.ClauseLimit
	o.BinaryResolution = !c.NoResolution
	o.Factoring = !c.NoFactoring
	o.Superposition = !c.NoSuperposition
	o.BwDemodulation = o.BwDemodulation && !c.NoBackward
	o.BwSubsumption = o.BwSubsumption && !c.NoBackward
	o.FwSubsumption = !c.NoSubsumption
	o.FwSubsumptionRes = !c.NoSubsumption
	o.Evaluation = !c.NoEvaluation
	return o, nil
}

// Schedule is a prioritized list of strategies run over shared slots.
type Schedule struct {
	// Slots is the number of concurrently admitted strategies.
	Slots int `yaml:"slots"`
	// SliceSteps is the initial number of given-clause steps per slice.
	SliceSteps int      `yaml:"sliceSteps"`
	Strategies []Config `yaml:"strategies"`
}

// DefaultSchedule is a small portfolio used when no schedule file is given.
func DefaultSchedule() Schedule {
	return Schedule{
		Slots:      2,
		SliceSteps: 64,
		Strategies: []Config{
			{Name: "default", Priority: 0},
			{Name: "negsel", Priority: 1, Selection: "negative"},
			{Name: "codetree", Priority: 2, CodeTree: true},
			{Name: "light", Priority: 3, WeightLimit: 24, AgeRatio: 1, WeightRatio: 8},
		},
	}
}

// Load reads a schedule from YAML.
func Load(r io.Reader) (Schedule, error) {
	var sc Schedule
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&sc); err != nil {
		return sc, errors.Wrap(err, "decoding schedule")
	}
	if err := sc.validate(); err != nil {
		return sc, err
	}
	return sc, nil
}

// LoadFile reads a schedule from a YAML file.
func LoadFile(path string) (Schedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return Schedule{}, errors.Wrapf(err, "opening schedule %s", path)
	}
	defer f.Close()
	return Load(f)
}

func (sc *Schedule) validate() error {
	if sc.Slots < 1 {
		sc.Slots = 1
	}
	if sc.SliceSteps < 1 {
		sc.SliceSteps = 64
	}
	if len(sc.Strategies) == 0 {
		return errors.New("schedule has no strategies")
	}
	seen := make(map[string]bool)
	for i := range sc.Strategies {
		c := &sc.Strategies[i]
		if c.Name == "" {
			return errors.Errorf("strategy %d has no name", i)
		}
		if seen[c.Name] {
			return errors.Errorf("duplicate strategy name %q", c.Name)
		}
		seen[c.Name] = true
		if _, err := c.Options(); err != nil {
			return err
		}
	}
	return nil
}
