package storage

// Класс станка задаётся при регистрации, а не выводится из названия.
const (
	ClassMilling             = "milling"
	ClassCylindricalGrinding = "cylindrical_grinding"
	ClassToolCutter          = "tool_cutter"
)

func ValidMachineClass(class string) bool {
	switch class {
	case ClassMilling, ClassCylindricalGrinding, ClassToolCutter:
		return true
	}
	return false
}

// MachineConfig меняется только через админку; движок читает.
type MachineConfig struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Class       string  `json:"class"`
	MaxKorv     float64 `json:"max_korv"` // лимит на одну смену
	Maintenance bool    `json:"maintenance"`
	IsActive    bool    `json:"is_active"`
}
