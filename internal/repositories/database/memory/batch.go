package memory

import (
	"context"
	"fmt"
	"maps"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/hr_admin_app/internal/core/ports/repositories"
)

type batchState struct {
	departments map[string]domain.Department
	employees   map[string]domain.Employee
}

type batchOp struct {
	table string
	op    string
	id    string
	apply func(st *batchState) error
}

type writeBatch struct {
	store   *Store
	actorID string
	ops     []batchOp
}

// NewBatch opens a batch attributed to actorID.
func (s *Store) NewBatch(actorID string) portsrepo.WriteBatch {
	return &writeBatch{store: s, actorID: actorID}
}

func (b *writeBatch) Len() int { return len(b.ops) }

func (b *writeBatch) stage(table, op, id string, apply func(st *batchState) error) {
	b.ops = append(b.ops, batchOp{table: table, op: op, id: id, apply: apply})
}

func (b *writeBatch) InsertEmployee(employee domain.Employee) {
	b.stage(tableEmployees, opInsert, employee.EmployeeID, func(st *batchState) error {
		if _, exists := st.employees[employee.EmployeeID]; exists {
			return apperrors.NewConflictError("employee " + employee.EmployeeID + " already exists")
		}
		st.employees[employee.EmployeeID] = employee
		return nil
	})
}

func (b *writeBatch) UpdateEmployee(employee domain.Employee) {
	b.stage(tableEmployees, opUpdate, employee.EmployeeID, func(st *batchState) error {
		current, ok := st.employees[employee.EmployeeID]
		if !ok {
			return apperrors.NewNotFoundError("employee " + employee.EmployeeID + " not found")
		}
		employee.CreatedAt = current.CreatedAt
		employee.CreatedBy = current.CreatedBy
		employee.Touch(b.actorID, b.store.now())
		st.employees[employee.EmployeeID] = employee
		return nil
	})
}

func (b *writeBatch) SetEmployeeDepartment(employeeID string, departmentID string, departmentName string) {
	b.stage(tableEmployees, opUpdate, employeeID, func(st *batchState) error {
		e, ok := st.employees[employeeID]
		if !ok {
			return apperrors.NewNotFoundError("employee " + employeeID + " not found")
		}
		id := departmentID
		e.DepartmentID = &id
		e.DepartmentName = departmentName
		e.Touch(b.actorID, b.store.now())
		st.employees[employeeID] = e
		return nil
	})
}

func (b *writeBatch) SetEmployeeStatus(employeeID string, status domain.EmployeeStatus) {
	b.stage(tableEmployees, opUpdate, employeeID, func(st *batchState) error {
		e, ok := st.employees[employeeID]
		if !ok {
			return apperrors.NewNotFoundError("employee " + employeeID + " not found")
		}
		e.Status = status
		e.Touch(b.actorID, b.store.now())
		st.employees[employeeID] = e
		return nil
	})
}

func (b *writeBatch) DeleteEmployee(employeeID string) {
	b.stage(tableEmployees, opDelete, employeeID, func(st *batchState) error {
		if _, ok := st.employees[employeeID]; !ok {
			return apperrors.NewNotFoundError("employee " + employeeID + " not found")
		}
		delete(st.employees, employeeID)
		return nil
	})
}

func (b *writeBatch) IncrementMemberCount(departmentID string, delta int) {
	b.stage(tableDepartments, opUpdate, departmentID, func(st *batchState) error {
		d, ok := st.departments[departmentID]
		if !ok {
			return apperrors.NewNotFoundError("department " + departmentID + " not found")
		}
		d.MemberCount += delta
		st.departments[departmentID] = d
		return nil
	})
}

func (b *writeBatch) SetMemberCount(departmentID string, count int) {
	b.stage(tableDepartments, opUpdate, departmentID, func(st *batchState) error {
		d, ok := st.departments[departmentID]
		if !ok {
			return apperrors.NewNotFoundError("department " + departmentID + " not found")
		}
		d.MemberCount = count
		st.departments[departmentID] = d
		return nil
	})
}

// Commit applies every staged op to a copy of the collections and swaps
// the copy in only when all ops succeed.
func (b *writeBatch) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(b.ops) == 0 {
		return nil
	}
	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()

	st := &batchState{
		departments: maps.Clone(s.departments),
		employees:   maps.Clone(s.employees),
	}
	for i, op := range b.ops {
		if err := op.apply(st); err != nil {
			return fmt.Errorf("batch op %d (%s %s %s): %w", i, op.op, op.table, op.id, err)
		}
	}
	s.departments = st.departments
	s.employees = st.employees
	for _, op := range b.ops {
		s.broadcastLocked(op.table, op.op, op.id)
	}
	b.ops = nil
	return nil
}
