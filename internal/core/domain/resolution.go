package domain

import (
	"strings"

	"github.com/SscSPs/hr_admin_app/internal/utils/textnorm"
)

// ResolutionKind tags how an employee's department was resolved.
type ResolutionKind int

const (
	Unresolved ResolutionKind = iota
	ResolvedByID
	ResolvedByLegacyName
)

func (k ResolutionKind) String() string {
	switch k {
	case ResolvedByID:
		return "id"
	case ResolvedByLegacyName:
		return "legacy"
	default:
		return "unresolved"
	}
}

// Resolution is the department an employee belongs to, independent of
// which reference field is populated.
type Resolution struct {
	Kind         ResolutionKind
	DepartmentID string
}

func (r Resolution) IsResolved() bool { return r.Kind != Unresolved }

// IsLegacy reports a name-based match that is pending migration.
func (r Resolution) IsLegacy() bool { return r.Kind == ResolvedByLegacyName }

// DepartmentIndex resolves employee department references against a
// snapshot of departments.
type DepartmentIndex struct {
	byID  map[string]Department
	byKey map[string]string
	order []string
}

// NewDepartmentIndex indexes deps by id and normalized name. If two
// departments share a normalized name the first one wins; the registry
// rejects such collisions on create and rename.
func NewDepartmentIndex(deps []Department) *DepartmentIndex {
	ix := &DepartmentIndex{
		byID:  make(map[string]Department, len(deps)),
		byKey: make(map[string]string, len(deps)),
		order: make([]string, 0, len(deps)),
	}
	for _, d := range deps {
		ix.Add(d)
	}
	return ix
}

// Add indexes d, replacing any department with the same id.
func (ix *DepartmentIndex) Add(d Department) {
	if prev, ok := ix.byID[d.DepartmentID]; ok {
		if key := textnorm.Normalize(prev.Name); ix.byKey[key] == d.DepartmentID {
			delete(ix.byKey, key)
		}
	} else {
		ix.order = append(ix.order, d.DepartmentID)
	}
	ix.byID[d.DepartmentID] = d
	key := textnorm.Normalize(d.Name)
	if _, taken := ix.byKey[key]; !taken && key != "" {
		ix.byKey[key] = d.DepartmentID
	}
}

// Get returns the department with the given id.
func (ix *DepartmentIndex) Get(id string) (Department, bool) {
	d, ok := ix.byID[id]
	return d, ok
}

// FindByName returns the department whose normalized name equals name's.
func (ix *DepartmentIndex) FindByName(name string) (Department, bool) {
	id, ok := ix.byKey[textnorm.Normalize(name)]
	if !ok {
		return Department{}, false
	}
	return ix.byID[id], true
}

// NameOf returns the display name of the department id, or "".
func (ix *DepartmentIndex) NameOf(id string) string {
	return ix.byID[id].Name
}

// Departments returns the indexed departments in insertion order.
func (ix *DepartmentIndex) Departments() []Department {
	out := make([]Department, 0, len(ix.order))
	for _, id := range ix.order {
		out = append(out, ix.byID[id])
	}
	return out
}

// Len returns the number of indexed departments.
func (ix *DepartmentIndex) Len() int { return len(ix.byID) }

// Resolve computes e's department: the canonical id when it names an
// existing department, otherwise an exact normalized match of the legacy
// name, otherwise Unresolved.
func (ix *DepartmentIndex) Resolve(e Employee) Resolution {
	if e.HasDepartmentID() {
		if _, ok := ix.byID[*e.DepartmentID]; ok {
			return Resolution{Kind: ResolvedByID, DepartmentID: *e.DepartmentID}
		}
	}
	if strings.TrimSpace(e.DepartmentName) == "" {
		return Resolution{Kind: Unresolved}
	}
	if d, ok := ix.FindByName(e.DepartmentName); ok {
		return Resolution{Kind: ResolvedByLegacyName, DepartmentID: d.DepartmentID}
	}
	return Resolution{Kind: Unresolved}
}

// ResolveReference resolves an explicit (id, name) pair as supplied by a
// caller, with the same precedence as Resolve.
func (ix *DepartmentIndex) ResolveReference(departmentID, departmentName string) Resolution {
	e := Employee{DepartmentName: departmentName}
	if departmentID != "" {
		e.DepartmentID = &departmentID
	}
	return ix.Resolve(e)
}

// CountMembers buckets employees by resolved department. Unresolved
// employees are returned separately.
func (ix *DepartmentIndex) CountMembers(employees []Employee) (counts map[string]int, unresolved []string) {
	counts = make(map[string]int, len(ix.byID))
	for _, e := range employees {
		r := ix.Resolve(e)
		if !r.IsResolved() {
			unresolved = append(unresolved, e.EmployeeID)
			continue
		}
		counts[r.DepartmentID]++
	}
	return counts, unresolved
}
