package machine

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"dash0.com/printer-status-backend/internal/thermistor"
)

// Description is the static machine layout loaded at startup.
type Description struct {
	Name    string       `yaml:"name"`
	Axes    []AxisSpec   `yaml:"axes"`
	Heaters []HeaterSpec `yaml:"heaters"`
}

// AxisSpec declares one axis. Axis names are used as G-code letters.
type AxisSpec struct {
	Name     string  `yaml:"name"`
	Extruder bool    `yaml:"extruder"`
	Position float64 `yaml:"position"`
}

// HeaterSpec declares one heater and its sensor formula.
type HeaterSpec struct {
	Name    string           `yaml:"name"`
	ADC     float64          `yaml:"adc"`
	Formula thermistor.Exprs `yaml:"formula"`
}

// DefaultDescription is a cartesian machine with one extruder and one
// AD849x-style thermocouple on the hotend.
func DefaultDescription() Description {
	return Description{
		Name: "RepRap",
		Axes: []AxisSpec{
			{Name: "X"},
			{Name: "Y"},
			{Name: "Z"},
			{Name: "E", Extruder: true},
		},
		Heaters: []HeaterSpec{
			{
				Name: "T0",
				ADC:  1.25 / 3.3,
				Formula: thermistor.Exprs{
					ZeroAdcValue: "1.25/3.3",
					AdcSlope:     "0.005/3.3",
					MinTemp:      "0",
					MaxTemp:      "400",
				},
			},
		},
	}
}

// LoadDescription decodes a YAML description.
func LoadDescription(r io.Reader) (Description, error) {
	var d Description

	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return Description{}, errors.New("machine: empty description")
		}

		return Description{}, fmt.Errorf("machine: decode description: %w", err)
	}

	return d, nil
}

// LoadDescriptionFile reads a YAML description from path.
func LoadDescriptionFile(path string) (Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return Description{}, err
	}
	defer f.Close()

	return LoadDescription(f)
}
