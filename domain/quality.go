package domain

import "fmt"

// Grade bounds shared by characteristics and attributes
const (
	MaxGrade = 2
	MinGrade = -2
)

// Characteristic is one of the fixed quality characteristics a file population is graded on
type Characteristic int

const (
	CharacteristicModuleSize Characteristic = iota
	CharacteristicModuleComplexity
	CharacteristicModuleDesign
	CharacteristicInternalDuplication
	CharacteristicExternalDuplication
	CharacteristicCodeCommenting
	CharacteristicCyclicDependency
	CharacteristicModuleCoupling
)

// AllCharacteristics returns every characteristic in report order
func AllCharacteristics() []Characteristic {
	return []Characteristic{
		CharacteristicModuleSize,
		CharacteristicModuleComplexity,
		CharacteristicModuleDesign,
		CharacteristicInternalDuplication,
		CharacteristicExternalDuplication,
		CharacteristicCodeCommenting,
		CharacteristicCyclicDependency,
		CharacteristicModuleCoupling,
	}
}

// Name returns the display name
func (c Characteristic) Name() string {
	switch c {
	case CharacteristicModuleSize:
		return "Module Size"
	case CharacteristicModuleComplexity:
		return "Module Complexity"
	case CharacteristicModuleDesign:
		return "Module Design"
	case CharacteristicInternalDuplication:
		return "Internal Duplication"
	case CharacteristicExternalDuplication:
		return "External Duplication"
	case CharacteristicCodeCommenting:
		return "Code Commenting"
	case CharacteristicCyclicDependency:
		return "Cyclic Dependency"
	case CharacteristicModuleCoupling:
		return "Module Coupling"
	}
	return fmt.Sprintf("Characteristic(%d)", int(c))
}

// String returns the machine-readable name
func (c Characteristic) String() string {
	switch c {
	case CharacteristicModuleSize:
		return "module_size"
	case CharacteristicModuleComplexity:
		return "module_complexity"
	case CharacteristicModuleDesign:
		return "module_design"
	case CharacteristicInternalDuplication:
		return "internal_duplication"
	case CharacteristicExternalDuplication:
		return "external_duplication"
	case CharacteristicCodeCommenting:
		return "code_commenting"
	case CharacteristicCyclicDependency:
		return "cyclic_dependency"
	case CharacteristicModuleCoupling:
		return "module_coupling"
	}
	return fmt.Sprintf("characteristic(%d)", int(c))
}

// MarshalText encodes the characteristic by name
func (c Characteristic) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Counts reports whether a violation of kind k counts against the characteristic.
// Every kind counts toward exactly one characteristic; ModuleComplexity
// collects both complexity kinds.
func (c Characteristic) Counts(k ViolationKind) bool {
	switch k {
	case ViolationModuleSize:
		return c == CharacteristicModuleSize
	case ViolationAvgComplexity, ViolationMaxComplexity:
		return c == CharacteristicModuleComplexity
	case ViolationFunctionCount:
		return c == CharacteristicModuleDesign
	case ViolationCommentRatio:
		return c == CharacteristicCodeCommenting
	case ViolationCyclicDependency:
		return c == CharacteristicCyclicDependency
	case ViolationFanOut:
		return c == CharacteristicModuleCoupling
	}
	return false
}

// AlwaysCompliant reports whether the characteristic is graded without data.
// Duplication is gated by the external duplication analyzer before an export
// is produced, so no rule here ever reports it and both duplication
// characteristics are pinned to MaxGrade.
func (c Characteristic) AlwaysCompliant() bool {
	return c == CharacteristicInternalDuplication || c == CharacteristicExternalDuplication
}

// Attribute is one of the fixed quality attributes derived from characteristics
type Attribute int

const (
	AttributeModularity Attribute = iota
	AttributeReusability
	AttributeAnalyzability
	AttributeModifiability
	AttributeTestability
)

// AllAttributes returns every attribute in report order
func AllAttributes() []Attribute {
	return []Attribute{
		AttributeModularity,
		AttributeReusability,
		AttributeAnalyzability,
		AttributeModifiability,
		AttributeTestability,
	}
}

// Name returns the display name
func (a Attribute) Name() string {
	switch a {
	case AttributeModularity:
		return "Modularity"
	case AttributeReusability:
		return "Reusability"
	case AttributeAnalyzability:
		return "Analyzability"
	case AttributeModifiability:
		return "Modifiability"
	case AttributeTestability:
		return "Testability"
	}
	return fmt.Sprintf("Attribute(%d)", int(a))
}

// String returns the machine-readable name
func (a Attribute) String() string {
	switch a {
	case AttributeModularity:
		return "modularity"
	case AttributeReusability:
		return "reusability"
	case AttributeAnalyzability:
		return "analyzability"
	case AttributeModifiability:
		return "modifiability"
	case AttributeTestability:
		return "testability"
	}
	return fmt.Sprintf("attribute(%d)", int(a))
}

// MarshalText encodes the attribute by name
func (a Attribute) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// Characteristics returns the characteristics the attribute averages
func (a Attribute) Characteristics() []Characteristic {
	switch a {
	case AttributeModularity:
		return []Characteristic{
			CharacteristicModuleDesign,
			CharacteristicCyclicDependency,
			CharacteristicModuleCoupling,
			CharacteristicExternalDuplication,
		}
	case AttributeReusability:
		return []Characteristic{
			CharacteristicInternalDuplication,
			CharacteristicModuleDesign,
			CharacteristicCyclicDependency,
			CharacteristicModuleCoupling,
			CharacteristicExternalDuplication,
		}
	case AttributeAnalyzability:
		return []Characteristic{
			CharacteristicInternalDuplication,
			CharacteristicModuleDesign,
			CharacteristicModuleSize,
			CharacteristicCodeCommenting,
			CharacteristicCyclicDependency,
		}
	case AttributeModifiability:
		return []Characteristic{
			CharacteristicModuleComplexity,
			CharacteristicInternalDuplication,
			CharacteristicModuleDesign,
			CharacteristicModuleSize,
			CharacteristicCyclicDependency,
		}
	case AttributeTestability:
		return []Characteristic{
			CharacteristicModuleComplexity,
			CharacteristicModuleSize,
			CharacteristicCyclicDependency,
		}
	}
	return nil
}

// CharacteristicGrade is the graded outcome of one characteristic
type CharacteristicGrade struct {
	Characteristic Characteristic `json:"characteristic" yaml:"characteristic"`
	ViolatedFiles  int            `json:"violated_files" yaml:"violated_files"`
	TotalFiles     int            `json:"total_files" yaml:"total_files"`
	Percentage     int            `json:"percentage" yaml:"percentage"`
	Grade          int            `json:"grade" yaml:"grade"`

	// Assumed marks characteristics graded without data (duplication)
	Assumed bool `json:"assumed,omitempty" yaml:"assumed,omitempty"`
}

// AttributeGrade is the unrounded mean of an attribute's characteristic grades
type AttributeGrade struct {
	Attribute Attribute `json:"attribute" yaml:"attribute"`
	Grade     float64   `json:"grade" yaml:"grade"`
}

// GradeCard collects every grade computed for one file population
type GradeCard struct {
	TotalFiles      int                   `json:"total_files" yaml:"total_files"`
	Characteristics []CharacteristicGrade `json:"characteristics" yaml:"characteristics"`
	Attributes      []AttributeGrade      `json:"attributes" yaml:"attributes"`
	FinalGrade      float64               `json:"final_grade" yaml:"final_grade"`
}

// CharacteristicGrades returns the characteristic grades keyed by characteristic
func (g *GradeCard) CharacteristicGrades() map[Characteristic]int {
	grades := make(map[Characteristic]int, len(g.Characteristics))
	for _, cg := range g.Characteristics {
		grades[cg.Characteristic] = cg.Grade
	}
	return grades
}
