package commands

import (
	"fmt"
	"os"

	logger "github.com/rs/zerolog/log"

	"ctp/internal/catalog"
	"ctp/internal/config"
	"ctp/internal/domain"
	"ctp/internal/harness"
	"ctp/internal/storage"
	"ctp/internal/suites"
)

// caseSource collects the cases a command works on
type caseSource struct {
	config  *config.Config
	storage storage.Storage
}

// registry gathers built-in cases and the cases of every case file
func (s *caseSource) registry() (*catalog.Registry, error) {
	registry := catalog.NewRegistry()
	if !s.config.Flags.NoBuiltin {
		if err := suites.RegisterAll(registry); err != nil {
			return nil, err
		}
	}

	casesPath := s.config.GetCasesPath()
	if _, err := os.Stat(casesPath); err != nil {
		// The default directory is optional, an explicit one is not
		if !os.IsNotExist(err) || s.config.Flags.CasesPath != "" {
			return nil, fmt.Errorf("cases path: %w", err)
		}
		logger.Debug().Str("path", casesPath).Msg("No case file directory")
		return registry, nil
	}

	loader := catalog.NewLoader(catalog.NewScanner(s.config.PathsToIgnore))
	loaded, err := loader.Load(casesPath)
	if err != nil {
		return nil, err
	}
	if err := registry.Add(loaded...); err != nil {
		return nil, err
	}
	logger.Debug().Str("path", casesPath).Int("cases", len(loaded)).Msg("Loaded case files")
	return registry, nil
}

// selector builds the selection from the flags
func (s *caseSource) selector() (catalog.Selector, error) {
	flags := s.config.Flags
	selector := catalog.Selector{
		Suites:      flags.Suites,
		NamePattern: flags.Filter,
	}
	for _, value := range flags.Partitions {
		p, err := domain.ParsePartition(value)
		if err != nil {
			return catalog.Selector{}, err
		}
		selector.Partitions = append(selector.Partitions, p)
	}
	return selector, nil
}

// lastFailedIDs returns the failures of the last run
func (s *caseSource) lastFailedIDs() ([]string, error) {
	previous, err := s.storage.Load()
	if err != nil {
		return nil, fmt.Errorf("no previous run to take failed cases from: %w", err)
	}
	return previous.FailedIDs(), nil
}

// Cases returns the selected cases in registry order
func (s *caseSource) Cases() ([]harness.Case, error) {
	registry, err := s.registry()
	if err != nil {
		return nil, err
	}
	selector, err := s.selector()
	if err != nil {
		return nil, err
	}

	if s.config.Flags.Failed {
		ids, err := s.lastFailedIDs()
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return nil, nil
		}
		selector.IDs = ids
	}
	return selector.Select(registry.Cases()), nil
}
