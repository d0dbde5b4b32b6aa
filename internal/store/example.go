package store

import (
	"math/rand/v2"

	"calman/internal/value"
)

// ExampleComponent is the component written by WriteExample.
const ExampleComponent = "example_component"

// WriteExample writes an example configuration and calibration, useful to
// see the on-disk layout and to check that a storage location is writable.
func (s *Setup) WriteExample() error {
	cfg := value.MappingOf(
		"test_param_A", 1.6,
		"test_param_B", false,
	)

	data := make([]float64, 9)
	for i := range data {
		data[i] = rand.Float64()
	}
	arr, err := value.NewArray([]int{3, 3}, data)
	if err != nil {
		return err
	}
	cal := value.MappingOf(
		"test_cal_A", 1,
		"test_array_B", arr,
		"subcomponent", value.MappingOf(
			"ros_param_C", 5.0,
			"ros_param_D", true,
			"sub-subcomponent", value.MappingOf(
				"sub_param_A", 33,
			),
		),
	)

	if err := s.SaveComponentConfig(ExampleComponent, cfg); err != nil {
		return err
	}
	return s.SaveComponentCalibration(ExampleComponent, cal, true)
}
