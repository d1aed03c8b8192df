package config

import (
	"courier-slot-service/internal/domain"
	"courier-slot-service/internal/stations"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// RulesFile is the on-disk form of the scheduling policy.
type RulesFile struct {
	Timezone             string   `yaml:"timezone" validate:"required"`
	ExcludedKeywords     []string `yaml:"excluded_keywords"`
	EarlyOpeningStations []string `yaml:"early_opening_stations"`
	EarlyOpening         string   `yaml:"early_opening" validate:"required"`
	DefaultOpening       string   `yaml:"default_opening" validate:"required"`
	Closing              string   `yaml:"closing" validate:"required"`
	BufferMinutes        int      `yaml:"buffer_minutes" validate:"gte=0,lte=120"`
}

// DefaultRulesFile returns the built-in policy.
func DefaultRulesFile() RulesFile {
	return RulesFile{
		Timezone:         "America/Mexico_City",
		ExcludedKeywords: []string{"pantitlan", "indios verdes", "ciudad azteca"},
		EarlyOpeningStations: []string{
			"zocalo", "bellas artes", "hidalgo", "pino suarez",
			"balderas", "insurgentes", "chapultepec", "tacubaya",
		},
		EarlyOpening:   "08:30",
		DefaultOpening: "10:00",
		Closing:        "17:00",
		BufferMinutes:  15,
	}
}

// DefaultRules compiles the built-in policy.
func DefaultRules() (domain.BusinessRules, error) {
	return DefaultRulesFile().Compile()
}

// LoadRules reads the YAML policy at path. Keys missing from the file keep
// their built-in values; a missing file yields the built-in policy.
func LoadRules(path string) (domain.BusinessRules, error) {
	rf := DefaultRulesFile()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return domain.BusinessRules{}, fmt.Errorf("load rules: read %q: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &rf); err != nil {
				return domain.BusinessRules{}, fmt.Errorf("load rules: parse %q: %w", path, err)
			}
		}
	}

	rules, err := rf.Compile()
	if err != nil {
		return domain.BusinessRules{}, fmt.Errorf("load rules: %w", err)
	}
	return rules, nil
}

// Compile validates the file and converts it into domain rules.
func (rf RulesFile) Compile() (domain.BusinessRules, error) {
	if err := validator.New().Struct(rf); err != nil {
		return domain.BusinessRules{}, err
	}

	loc, err := time.LoadLocation(rf.Timezone)
	if err != nil {
		return domain.BusinessRules{}, fmt.Errorf("timezone %q: %w", rf.Timezone, err)
	}

	early, err := domain.ParseTimeOfDay(rf.EarlyOpening)
	if err != nil {
		return domain.BusinessRules{}, fmt.Errorf("early_opening: %w", err)
	}
	def, err := domain.ParseTimeOfDay(rf.DefaultOpening)
	if err != nil {
		return domain.BusinessRules{}, fmt.Errorf("default_opening: %w", err)
	}
	closing, err := domain.ParseTimeOfDay(rf.Closing)
	if err != nil {
		return domain.BusinessRules{}, fmt.Errorf("closing: %w", err)
	}

	for _, t := range []domain.TimeOfDay{early, def, closing} {
		if !t.OnGrid() {
			return domain.BusinessRules{}, fmt.Errorf("%s is not on the %d-minute grid", t, domain.SlotStepMinutes)
		}
	}
	if early > closing || def > closing {
		return domain.BusinessRules{}, fmt.Errorf("opening time after closing time %s", closing)
	}

	return domain.BusinessRules{
		Location:             loc,
		ExcludedKeywords:     normalizeAll(rf.ExcludedKeywords),
		EarlyOpeningStations: normalizeAll(rf.EarlyOpeningStations),
		EarlyOpening:         early,
		DefaultOpening:       def,
		Closing:              closing,
		BufferMinutes:        rf.BufferMinutes,
	}, nil
}

func normalizeAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if n := stations.Normalize(s); n != "" {
			out = append(out, n)
		}
	}
	return out
}
