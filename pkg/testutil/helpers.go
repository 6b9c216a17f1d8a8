// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/amortize/internal/calculator"
)

// FindCalculation finds a calculation by name in the results slice.
// Returns a pointer to the calculation if found, nil otherwise.
func FindCalculation(results []calculator.Calculation, name string) *calculator.Calculation {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}
