// Package csvio reads spreadsheet-exported CSV files and writes the
// semicolon separated, fully quoted format that Excel opens cleanly in
// pt-BR locales.
package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SscSPs/hr_admin_app/internal/utils/textnorm"
)

// BOM is the UTF-8 byte order mark.
const BOM = "\uFEFF"

// ErrEmptyFile is returned when the input has no header line.
var ErrEmptyFile = errors.New("csv file is empty")

// Logical import fields.
const (
	FieldName           = "name"
	FieldEmail          = "email"
	FieldStatus         = "status"
	FieldGender         = "gender"
	FieldDepartmentID   = "departmentId"
	FieldDepartmentName = "departmentName"
	FieldTaxID          = "taxId"
	FieldPhone          = "phone"
	FieldJobTitle       = "jobTitle"
	FieldHireDate       = "hireDate"
	FieldLevel          = "level"
	FieldManagerID      = "managerId"
	FieldBaseSalary     = "baseSalary"
	FieldPostalCode     = "postalCode"
	FieldStreet         = "street"
	FieldStreetNumber   = "streetNumber"
	FieldCity           = "city"
	FieldState          = "state"
)

// headerAliases maps normalized header text to a logical field.
var headerAliases = map[string]string{
	"nome": FieldName, "name": FieldName, "nome completo": FieldName, "colaborador": FieldName,
	"email": FieldEmail, "e-mail": FieldEmail,
	"status": FieldStatus, "situacao": FieldStatus,
	"genero": FieldGender, "gender": FieldGender, "sexo": FieldGender,
	"departmentid": FieldDepartmentID, "department_id": FieldDepartmentID, "departamentoid": FieldDepartmentID, "id departamento": FieldDepartmentID,
	"departamento": FieldDepartmentName, "department": FieldDepartmentName, "setor": FieldDepartmentName,
	"cpf": FieldTaxID, "taxid": FieldTaxID,
	"telefone": FieldPhone, "phone": FieldPhone, "celular": FieldPhone,
	"cargo": FieldJobTitle, "jobtitle": FieldJobTitle, "job title": FieldJobTitle, "funcao": FieldJobTitle,
	"admissao": FieldHireDate, "data de admissao": FieldHireDate, "hiredate": FieldHireDate, "hire date": FieldHireDate,
	"nivel": FieldLevel, "level": FieldLevel, "senioridade": FieldLevel,
	"gestor": FieldManagerID, "gestorresponsavelid": FieldManagerID, "gestor responsavel": FieldManagerID, "managerid": FieldManagerID, "manager id": FieldManagerID,
	"salario": FieldBaseSalary, "salariobase": FieldBaseSalary, "salario base": FieldBaseSalary, "basesalary": FieldBaseSalary, "base salary": FieldBaseSalary,
	"cep": FieldPostalCode, "postalcode": FieldPostalCode,
	"rua": FieldStreet, "logradouro": FieldStreet, "street": FieldStreet,
	"numero": FieldStreetNumber, "number": FieldStreetNumber,
	"cidade": FieldCity, "city": FieldCity,
	"estado": FieldState, "uf": FieldState, "state": FieldState,
}

// FieldFor maps a raw header cell to a logical field, or "".
func FieldFor(header string) string {
	return headerAliases[textnorm.Normalize(header)]
}

// SniffDelimiter picks ';' or ',' by counting unquoted occurrences in line.
func SniffDelimiter(line string) rune {
	semis, commas := 0, 0
	inQuotes := false
	for _, r := range line {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ';':
			if !inQuotes {
				semis++
			}
		case ',':
			if !inQuotes {
				commas++
			}
		}
	}
	if semis > commas {
		return ';'
	}
	return ','
}

// Table is a parsed CSV file with its header mapped to logical fields.
type Table struct {
	Header []string
	Rows   [][]string
	// Columns maps a logical field to its column index.
	Columns map[string]int
}

// Get returns the trimmed cell of row for field, or "".
func (t *Table) Get(row []string, field string) string {
	i, ok := t.Columns[field]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// Has reports whether the file carries a column for field.
func (t *Table) Has(field string) bool {
	_, ok := t.Columns[field]
	return ok
}

// Read parses r. The BOM is stripped, the delimiter sniffed from the
// header line, and blank lines skipped. Unknown headers are ignored; the
// first column mapping to a field wins.
func Read(r io.Reader) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}
	data = bytes.TrimPrefix(data, []byte(BOM))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}
	firstLine, _, _ := strings.Cut(string(data), "\n")

	cr := csv.NewReader(bytes.NewReader(data))
	cr.Comma = SniffDelimiter(firstLine)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	t := &Table{Header: records[0], Columns: make(map[string]int)}
	for i, h := range t.Header {
		if f := FieldFor(h); f != "" {
			if _, taken := t.Columns[f]; !taken {
				t.Columns[f] = i
			}
		}
	}
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		t.Rows = append(t.Rows, rec)
	}
	return t, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Writer emits a UTF-8 BOM followed by ';' separated rows with every
// field quoted.
type Writer struct {
	w       *bufio.Writer
	started bool
}

// NewWriter returns a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write emits one record.
func (cw *Writer) Write(record []string) error {
	if !cw.started {
		if _, err := cw.w.WriteString(BOM); err != nil {
			return err
		}
		cw.started = true
	}
	for i, field := range record {
		if i > 0 {
			if err := cw.w.WriteByte(';'); err != nil {
				return err
			}
		}
		if _, err := cw.w.WriteString(`"` + strings.ReplaceAll(field, `"`, `""`) + `"`); err != nil {
			return err
		}
	}
	_, err := cw.w.WriteString("\r\n")
	return err
}

// Flush writes any buffered data to the underlying writer.
func (cw *Writer) Flush() error {
	return cw.w.Flush()
}
