// Package yamlfile loads schedules from a YAML document:
//
//	schedules:
//	  - name: monday
//	    display_name: Monday Schedule
//	    periods:
//	      - {name: Period 1, start_time: "8:25", end_time: "9:15"}
package yamlfile

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/trezcool/bellplus/core/schedule"
)

var ErrNoSchedules = errors.New("no schedules found")

type document struct {
	Schedules []schedule.Schedule `yaml:"schedules"`
}

// Load decodes and validates the schedules read from r. Names must be unique.
// A document without schedules yields ErrNoSchedules.
func Load(r io.Reader) ([]schedule.Schedule, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "decoding schedules")
	}

	if len(doc.Schedules) == 0 {
		return nil, ErrNoSchedules
	}

	seen := make(map[string]bool, len(doc.Schedules))
	for i, sched := range doc.Schedules {
		if err := sched.Validate(); err != nil {
			return nil, errors.Wrapf(err, "schedule #%d (%s)", i+1, sched.Name)
		}
		if seen[sched.Name] {
			return nil, errors.Errorf("duplicate schedule %q", sched.Name)
		}
		seen[sched.Name] = true
	}
	return doc.Schedules, nil
}

// LoadFile is Load on the file at path.
func LoadFile(path string) ([]schedule.Schedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening schedules file")
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}
