package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsPatientCode(t *testing.T) {
	valid := []string{"P001", "T042", "AB1234", "XYZ123456"}
	for _, code := range valid {
		assert.True(t, IsPatientCode(code), "code %q", code)
	}

	invalid := []string{"", "p001", "P01", "P0011111", "ABCD123", "P 001", "001"}
	for _, code := range invalid {
		assert.False(t, IsPatientCode(code), "code %q", code)
	}
}
