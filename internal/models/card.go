package models

import "fmt"

// CardTemplate names a visual layout variant. The set is closed: a record
// carrying any other value is corrupt.
type CardTemplate string

const (
	TemplateModern  CardTemplate = "modern"
	TemplateClassic CardTemplate = "classic"
)

// Valid reports membership in the template enumeration.
func (t CardTemplate) Valid() bool {
	return t == TemplateModern || t == TemplateClassic
}

// ClassDivision is one of the 36 class/division codes (grades 1-12,
// divisions A/B/C).
type ClassDivision string

var classDivisions = buildClassDivisions()

func buildClassDivisions() map[ClassDivision]struct{} {
	set := make(map[ClassDivision]struct{}, 36)
	for grade := 1; grade <= 12; grade++ {
		for _, div := range []string{"A", "B", "C"} {
			set[ClassDivision(fmt.Sprintf("%d%s", grade, div))] = struct{}{}
		}
	}
	return set
}

// Valid reports membership in the class/division enumeration.
func (c ClassDivision) Valid() bool {
	_, ok := classDivisions[c]
	return ok
}

// ClassDivisions returns the enumeration in grade order, divisions A-C.
func ClassDivisions() []ClassDivision {
	out := make([]ClassDivision, 0, len(classDivisions))
	for grade := 1; grade <= 12; grade++ {
		for _, div := range []string{"A", "B", "C"} {
			out = append(out, ClassDivision(fmt.Sprintf("%d%s", grade, div)))
		}
	}
	return out
}

// BusRoute is one of the 10 route codes R1-R10.
type BusRoute string

var busRoutes = map[BusRoute]struct{}{
	"R1": {}, "R2": {}, "R3": {}, "R4": {}, "R5": {},
	"R6": {}, "R7": {}, "R8": {}, "R9": {}, "R10": {},
}

// Valid reports membership in the bus route enumeration.
func (b BusRoute) Valid() bool {
	_, ok := busRoutes[b]
	return ok
}

// Allergy is one of the fixed allergy vocabulary entries printed as tags on
// the rendered card.
type Allergy string

const (
	AllergyPeanuts   Allergy = "Peanuts"
	AllergyDairy     Allergy = "Dairy"
	AllergyGluten    Allergy = "Gluten"
	AllergyEggs      Allergy = "Eggs"
	AllergySoy       Allergy = "Soy"
	AllergyShellfish Allergy = "Shellfish"
	AllergyTreeNuts  Allergy = "Tree Nuts"
	AllergyFish      Allergy = "Fish"
)

var allergies = map[Allergy]struct{}{
	AllergyPeanuts: {}, AllergyDairy: {}, AllergyGluten: {}, AllergyEggs: {},
	AllergySoy: {}, AllergyShellfish: {}, AllergyTreeNuts: {}, AllergyFish: {},
}

// Valid reports membership in the allergy enumeration.
func (a Allergy) Valid() bool {
	_, ok := allergies[a]
	return ok
}

// StudentRecord is one student's identity-card data. Records are immutable
// after creation: id and createdAt are assigned exactly once by the card
// service and never reassigned.
type StudentRecord struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	RollNumber    string        `json:"rollNumber"`
	ClassDivision ClassDivision `json:"classDivision"`
	Allergies     []Allergy     `json:"allergies"`
	Photo         string        `json:"photo,omitempty"`
	RackNumber    string        `json:"rackNumber"`
	BusRouteNo    BusRoute      `json:"busRouteNumber"`
	CreatedAt     int64         `json:"createdAt"`
	Template      CardTemplate  `json:"template"`
}

// Validate checks the enumerated fields of a record against their closed
// sets. It guards stored data read back from a card store; field-level form
// validation happens in the card service before a record exists.
func (r StudentRecord) Validate() error {
	if !r.ClassDivision.Valid() {
		return fmt.Errorf("unknown class division %q", r.ClassDivision)
	}
	if !r.BusRouteNo.Valid() {
		return fmt.Errorf("unknown bus route %q", r.BusRouteNo)
	}
	if !r.Template.Valid() {
		return fmt.Errorf("unknown card template %q", r.Template)
	}
	for _, a := range r.Allergies {
		if !a.Valid() {
			return fmt.Errorf("unknown allergy %q", a)
		}
	}
	return nil
}
