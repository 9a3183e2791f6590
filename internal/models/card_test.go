package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassDivisionEnumeration(t *testing.T) {
	divisions := ClassDivisions()
	require.Len(t, divisions, 36)
	assert.Equal(t, ClassDivision("1A"), divisions[0])
	assert.Equal(t, ClassDivision("12C"), divisions[35])

	assert.True(t, ClassDivision("5B").Valid())
	assert.True(t, ClassDivision("12C").Valid())
	assert.False(t, ClassDivision("13A").Valid())
	assert.False(t, ClassDivision("5D").Valid())
	assert.False(t, ClassDivision("").Valid())
}

func TestBusRouteEnumeration(t *testing.T) {
	assert.True(t, BusRoute("R1").Valid())
	assert.True(t, BusRoute("R10").Valid())
	assert.False(t, BusRoute("R11").Valid())
	assert.False(t, BusRoute("r3").Valid())
}

func TestAllergyEnumeration(t *testing.T) {
	for _, a := range []Allergy{AllergyPeanuts, AllergyDairy, AllergyGluten, AllergyEggs, AllergySoy, AllergyShellfish, AllergyTreeNuts, AllergyFish} {
		assert.True(t, a.Valid(), string(a))
	}
	assert.False(t, Allergy("Pollen").Valid())
}

func TestCardTemplateEnumeration(t *testing.T) {
	assert.True(t, TemplateModern.Valid())
	assert.True(t, TemplateClassic.Valid())
	assert.False(t, CardTemplate("vintage").Valid())
	assert.False(t, CardTemplate("").Valid())
}

func TestStudentRecordValidate(t *testing.T) {
	record := StudentRecord{
		ID:            "id-1",
		Name:          "Asha Rao",
		RollNumber:    "42",
		ClassDivision: "5B",
		Allergies:     []Allergy{AllergyPeanuts},
		BusRouteNo:    "R3",
		Template:      TemplateModern,
	}
	require.NoError(t, record.Validate())

	bad := record
	bad.ClassDivision = "5D"
	assert.Error(t, bad.Validate())

	bad = record
	bad.BusRouteNo = "R11"
	assert.Error(t, bad.Validate())

	bad = record
	bad.Template = "vintage"
	assert.Error(t, bad.Validate())

	bad = record
	bad.Allergies = []Allergy{"Pollen"}
	assert.Error(t, bad.Validate())
}
