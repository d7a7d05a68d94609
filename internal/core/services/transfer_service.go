package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/hr_admin_app/internal/apperrors"
	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portsrepo "github.com/SscSPs/hr_admin_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/dto"
	"github.com/SscSPs/hr_admin_app/internal/utils/csvio"
	"github.com/SscSPs/hr_admin_app/internal/utils/textnorm"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ExportHeader is the column layout shared by CSV and XLSX exports.
var ExportHeader = []string{"Nome", "Email", "Departamento", "Nível", "Gênero", "Status"}

// DepartmentExportHeader is the column layout of the department listing.
var DepartmentExportHeader = []string{"Nome", "Colaboradores"}

const exportSheet = "Colaboradores"

var (
	levelLabels = map[domain.EmployeeLevel]string{
		domain.LevelJunior:  "Júnior",
		domain.LevelMid:     "Pleno",
		domain.LevelSenior:  "Sênior",
		domain.LevelManager: "Gestor",
	}
	genderLabels = map[domain.Gender]string{
		domain.GenderMale:   "Masculino",
		domain.GenderFemale: "Feminino",
	}
	statusLabels = map[domain.EmployeeStatus]string{
		domain.StatusActive:   "Ativo",
		domain.StatusInactive: "Inativo",
	}

	// Import value aliases, keyed by normalized text.
	levelAliases = map[string]domain.EmployeeLevel{
		"junior": domain.LevelJunior, "jr": domain.LevelJunior,
		"pleno": domain.LevelMid, "mid": domain.LevelMid,
		"senior": domain.LevelSenior, "sr": domain.LevelSenior,
		"gestor": domain.LevelManager, "manager": domain.LevelManager, "gerente": domain.LevelManager,
	}
	genderAliases = map[string]domain.Gender{
		"masculino": domain.GenderMale, "male": domain.GenderMale, "m": domain.GenderMale,
		"feminino": domain.GenderFemale, "female": domain.GenderFemale, "f": domain.GenderFemale,
	}
	statusAliases = map[string]domain.EmployeeStatus{
		"ativo": domain.StatusActive, "active": domain.StatusActive,
		"inativo": domain.StatusInactive, "inactive": domain.StatusInactive,
	}
)

type transferService struct {
	BaseService
	departmentRepo portsrepo.DepartmentRepositoryFacade
	employeeRepo   portsrepo.EmployeeRepositoryFacade
	engine         portssvc.CountMaintainerSvc
	audit          portssvc.AuditRecorderSvc
	now            func() time.Time
}

// TransferOption is a functional option for configuring the import/export service
type TransferOption func(*transferService)

// WithTransferAudit records imports to the audit trail.
func WithTransferAudit(audit portssvc.AuditRecorderSvc) TransferOption {
	return func(s *transferService) {
		s.audit = audit
	}
}

// NewTransferService creates the CSV import and CSV/XLSX export service.
func NewTransferService(
	departmentRepo portsrepo.DepartmentRepositoryFacade,
	employeeRepo portsrepo.EmployeeRepositoryFacade,
	engine portssvc.CountMaintainerSvc,
	options ...TransferOption,
) portssvc.DataTransferSvcFacade {
	s := &transferService{
		BaseService:    BaseService{component: "transfer"},
		departmentRepo: departmentRepo,
		employeeRepo:   employeeRepo,
		engine:         engine,
		now:            func() time.Time { return time.Now().UTC() },
	}
	for _, option := range options {
		option(s)
	}
	return s
}

var _ portssvc.DataTransferSvcFacade = (*transferService)(nil)

func (s *transferService) loadIndex(ctx context.Context) (*domain.DepartmentIndex, error) {
	deps, err := s.departmentRepo.ListDepartments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}
	return domain.NewDepartmentIndex(deps), nil
}

// --- Import ---

// rowInput translates one CSV row into the intake DTO. Values in pt-BR or
// English are mapped to canonical enums; unknown values pass through so
// that validation reports them. Cells that cannot be parsed at all are
// returned as field errors.
func rowInput(t *csvio.Table, row []string) (dto.EmployeeInput, []string) {
	var parseErrs []string
	in := dto.EmployeeInput{
		Name:           t.Get(row, csvio.FieldName),
		Email:          t.Get(row, csvio.FieldEmail),
		TaxID:          t.Get(row, csvio.FieldTaxID),
		Phone:          t.Get(row, csvio.FieldPhone),
		PostalCode:     t.Get(row, csvio.FieldPostalCode),
		Street:         t.Get(row, csvio.FieldStreet),
		StreetNumber:   t.Get(row, csvio.FieldStreetNumber),
		City:           t.Get(row, csvio.FieldCity),
		State:          t.Get(row, csvio.FieldState),
		JobTitle:       t.Get(row, csvio.FieldJobTitle),
		HireDate:       parseImportDate(t.Get(row, csvio.FieldHireDate)),
		ManagerID:      t.Get(row, csvio.FieldManagerID),
		DepartmentID:   t.Get(row, csvio.FieldDepartmentID),
		DepartmentName: t.Get(row, csvio.FieldDepartmentName),
	}
	in.Gender = string(mapAlias(genderAliases, t.Get(row, csvio.FieldGender)))
	in.Level = string(mapAlias(levelAliases, t.Get(row, csvio.FieldLevel)))
	in.Status = string(mapAlias(statusAliases, t.Get(row, csvio.FieldStatus)))
	if raw := t.Get(row, csvio.FieldBaseSalary); raw != "" {
		if d, err := parseImportDecimal(raw); err == nil {
			in.BaseSalary = d
		} else {
			parseErrs = append(parseErrs, "baseSalary: must be a decimal number")
		}
	}
	return in, parseErrs
}

func mapAlias[T ~string](aliases map[string]T, raw string) T {
	if raw == "" {
		return ""
	}
	if v, ok := aliases[textnorm.Normalize(raw)]; ok {
		return v
	}
	return T(raw)
}

// parseImportDate accepts ISO dates and dd/mm/yyyy. Anything else is
// returned unchanged for validation to reject.
func parseImportDate(raw string) string {
	if raw == "" {
		return ""
	}
	if t, err := time.Parse("02/01/2006", raw); err == nil {
		return t.Format(dto.DateLayout)
	}
	return raw
}

// parseImportDecimal accepts "1234.56", "1234,56" and "1.234,56".
func parseImportDecimal(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "R$"))
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	return decimal.NewFromString(s)
}

// prepareImportRow validates a CSV row. Only name and email are required;
// gender defaults to male and status to active. A department, when given,
// must resolve. Non-managers need a manager only when the file has a
// manager column, so a re-imported export keeps its levels.
func prepareImportRow(ctx context.Context, employees portsrepo.EmployeeReader, ix *domain.DepartmentIndex, in dto.EmployeeInput, hasManagerColumn bool) (domain.Employee, error) {
	if in.Gender == "" {
		in.Gender = string(domain.GenderMale)
	}
	return buildEmployee(ctx, employees, ix, in, "", intakeRules{
		schema:             dto.EmployeeImportRow(in),
		departmentOptional: true,
		managerOptional:    !hasManagerColumn,
	})
}

func rowErrors(err error) []string {
	var verr *apperrors.ValidationError
	if errors.As(err, &verr) {
		out := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			out = append(out, f.Field+": "+f.Message)
		}
		return out
	}
	return []string{err.Error()}
}

// ImportEmployees validates every row, skips and reports invalid rows, and
// admits the valid ones through the engine.
func (s *transferService) ImportEmployees(ctx context.Context, actor domain.Actor, r io.Reader, opts portssvc.ImportOptions) (*domain.ImportReport, error) {
	table, err := csvio.Read(r)
	if err != nil {
		if errors.Is(err, csvio.ErrEmptyFile) {
			return nil, apperrors.NewValidationError("file", "is empty")
		}
		return nil, apperrors.NewValidationError("file", err.Error())
	}
	if !table.Has(csvio.FieldName) {
		return nil, apperrors.NewValidationError("file", "missing name column (nome)")
	}

	ix, err := s.loadIndex(ctx)
	if err != nil {
		return nil, err
	}
	report := &domain.ImportReport{
		Rows:               len(table.Rows),
		Rejected:           []domain.ImportRowError{},
		CreatedDepartments: []string{},
		DryRun:             opts.DryRun,
	}
	inputs := make([]dto.EmployeeInput, len(table.Rows))
	parseErrs := make([][]string, len(table.Rows))
	for i, row := range table.Rows {
		inputs[i], parseErrs[i] = rowInput(table, row)
	}

	if opts.CreateMissing {
		created, err := s.createMissing(ctx, actor, ix, inputs, opts.DryRun)
		if err != nil {
			return nil, err
		}
		report.CreatedDepartments = created
	}

	now := s.now()
	valid := make([]domain.Employee, 0, len(inputs))
	for i, in := range inputs {
		e, err := prepareImportRow(ctx, s.employeeRepo, ix, in, table.Has(csvio.FieldManagerID))
		if err != nil || len(parseErrs[i]) > 0 {
			var msgs []string
			msgs = append(msgs, parseErrs[i]...)
			if err != nil {
				if !errors.Is(err, apperrors.ErrValidation) {
					return nil, err
				}
				msgs = append(msgs, rowErrors(err)...)
			}
			report.Rejected = append(report.Rejected, domain.ImportRowError{Line: i + 2, Errors: msgs})
			continue
		}
		e.EmployeeID = uuid.NewString()
		e.AuditFields = domain.NewAuditFields(actor.UserID, now)
		valid = append(valid, e)
	}
	if len(report.Rejected) > 0 {
		s.LogWarn(ctx, "Import rows rejected", slog.Int("rejected", len(report.Rejected)), slog.Int("rows", report.Rows))
	}

	if opts.DryRun {
		report.Imported = len(valid)
		return report, nil
	}
	res, err := s.engine.AdmitEmployees(ctx, actor, valid)
	if res != nil {
		report.Imported = res.Applied
	}
	if err != nil {
		s.LogError(ctx, err, "Import stopped", slog.Int("imported", report.Imported))
		return report, err
	}

	s.LogInfo(ctx, "Employees imported",
		slog.Int("rows", report.Rows),
		slog.Int("imported", report.Imported),
		slog.Int("rejected", len(report.Rejected)))
	if s.audit != nil && report.Imported > 0 {
		s.audit.Record(ctx, actor, domain.ActionEmployeeImport, domain.AuditEntity{Type: domain.EntityEmployee}, map[string]any{
			"rows":               report.Rows,
			"imported":           report.Imported,
			"rejected":           len(report.Rejected),
			"createdDepartments": report.CreatedDepartments,
		})
	}
	return report, nil
}

// createMissing creates a department for every distinct unresolved name
// among inputs. In a dry run the departments are only added to ix.
func (s *transferService) createMissing(ctx context.Context, actor domain.Actor, ix *domain.DepartmentIndex, inputs []dto.EmployeeInput, dryRun bool) ([]string, error) {
	created := []string{}
	for _, in := range inputs {
		name := strings.TrimSpace(in.DepartmentName)
		if name == "" || ix.ResolveReference(strings.TrimSpace(in.DepartmentID), name).IsResolved() {
			continue
		}
		d := domain.Department{
			DepartmentID: uuid.NewString(),
			Name:         name,
			AuditFields:  domain.NewAuditFields(actor.UserID, s.now()),
		}
		if !dryRun {
			if err := s.departmentRepo.SaveDepartment(ctx, d); err != nil {
				if !errors.Is(err, apperrors.ErrDuplicateName) {
					return created, fmt.Errorf("failed to create department %q: %w", name, err)
				}
				latest, err := s.loadIndex(ctx)
				if err != nil {
					return created, err
				}
				existing, found := latest.FindByName(name)
				if !found {
					return created, fmt.Errorf("department %q reported duplicate but not found: %w", name, apperrors.ErrUnresolvedReference)
				}
				ix.Add(existing)
				continue
			}
		}
		ix.Add(d)
		created = append(created, d.Name)
	}
	return created, nil
}

// --- Export ---

type exportRow struct {
	name, email, department, level, gender, status string
}

func (r exportRow) cells() []string {
	return []string{r.name, r.email, r.department, r.level, r.gender, r.status}
}

func (s *transferService) exportRows(ctx context.Context, filter domain.EmployeeFilter) ([]exportRow, error) {
	employees, err := s.employeeRepo.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	ix, err := s.loadIndex(ctx)
	if err != nil {
		return nil, err
	}
	employees = filterEmployees(employees, ix, filter)

	rows := make([]exportRow, 0, len(employees))
	for _, e := range employees {
		dept := e.DepartmentName
		if r := ix.Resolve(e); r.IsResolved() {
			dept = ix.NameOf(r.DepartmentID)
		}
		rows = append(rows, exportRow{
			name:       e.Name,
			email:      e.Email,
			department: dept,
			level:      labelOr(levelLabels, e.Level),
			gender:     labelOr(genderLabels, e.Gender),
			status:     labelOr(statusLabels, e.Status),
		})
	}
	return rows, nil
}

func labelOr[K ~string](labels map[K]string, k K) string {
	if l, ok := labels[k]; ok {
		return l
	}
	return string(k)
}

// ExportCSV writes the filtered employees as a BOM-prefixed, ';'
// separated, fully quoted CSV.
func (s *transferService) ExportCSV(ctx context.Context, w io.Writer, filter domain.EmployeeFilter) error {
	rows, err := s.exportRows(ctx, filter)
	if err != nil {
		return err
	}
	cw := csvio.NewWriter(w)
	if err := cw.Write(ExportHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.cells()); err != nil {
			return err
		}
	}
	return cw.Flush()
}

// ExportXLSX writes the filtered employees as a single-sheet workbook.
func (s *transferService) ExportXLSX(ctx context.Context, w io.Writer, filter domain.EmployeeFilter) error {
	rows, err := s.exportRows(ctx, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	header := make([]any, len(ExportHeader))
	for i, h := range ExportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(exportSheet, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(exportSheet, "A1", "F1", bold); err != nil {
		return err
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		cells := r.cells()
		values := make([]any, len(cells))
		for j, c := range cells {
			values[j] = c
		}
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(exportSheet, "A", "F", 24); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// ExportDepartmentsCSV writes every department with its stored member
// count, sorted by normalized name, in the same CSV dialect as ExportCSV.
func (s *transferService) ExportDepartmentsCSV(ctx context.Context, w io.Writer) error {
	deps, err := s.departmentRepo.ListDepartments(ctx)
	if err != nil {
		return fmt.Errorf("failed to list departments: %w", err)
	}
	sort.SliceStable(deps, func(i, j int) bool {
		return textnorm.Normalize(deps[i].Name) < textnorm.Normalize(deps[j].Name)
	})

	cw := csvio.NewWriter(w)
	if err := cw.Write(DepartmentExportHeader); err != nil {
		return err
	}
	for _, d := range deps {
		if err := cw.Write([]string{d.Name, strconv.Itoa(d.MemberCount)}); err != nil {
			return err
		}
	}
	return cw.Flush()
}
