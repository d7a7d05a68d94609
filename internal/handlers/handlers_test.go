package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/hr_admin_app/internal/core/domain"
	portssvc "github.com/SscSPs/hr_admin_app/internal/core/ports/services"
	"github.com/SscSPs/hr_admin_app/internal/core/services"
	"github.com/SscSPs/hr_admin_app/internal/dto"
	"github.com/SscSPs/hr_admin_app/internal/handlers"
	"github.com/SscSPs/hr_admin_app/internal/platform/config"
	"github.com/SscSPs/hr_admin_app/internal/repositories/database/memory"
	"github.com/SscSPs/hr_admin_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
)

const testJWTSecret = "test-secret-for-handlers"

type APITestSuite struct {
	suite.Suite
	ctx      context.Context
	store    *memory.Store
	services *portssvc.ServiceContainer
	router   *gin.Engine
	token    string
}

func (suite *APITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.ctx = context.Background()

	cfg := &config.Config{
		StorageDriver:     config.StorageMemory,
		IsProduction:      true,
		JWTSecret:         testJWTSecret,
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "hr-admin-test",
		RateLimitLogin:    "1000-M",
		RateLimitAPI:      "1000-M",
		BatchLimit:        450,
		AuditTimeout:      time.Second,
	}
	suite.store = memory.NewStore()
	suite.services = services.NewServiceContainer(cfg, memory.NewRepositoryProvider(suite.store))

	operator, err := suite.services.User.CreateUser(suite.ctx, dto.CreateUserRequest{
		Email:    "admin@example.com",
		Name:     "Admin",
		Password: "correct-horse",
	}, "")
	suite.Require().NoError(err)

	suite.token, err = utils.GenerateJWT(operator.UserID, operator.Email, testJWTSecret, time.Hour, cfg.JWTIssuer)
	suite.Require().NoError(err)

	suite.router = gin.New()
	suite.Require().NoError(handlers.RegisterRoutes(suite.router, cfg, suite.services, nil))
}

func (suite *APITestSuite) TearDownTest() {
	suite.services.Audit.Wait()
}

func (suite *APITestSuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *APITestSuite) decode(w *httptest.ResponseRecorder, into any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), into))
}

func (suite *APITestSuite) createDepartment(name string) dto.DepartmentResponse {
	w := suite.do(http.MethodPost, "/api/v1/departments", dto.CreateDepartmentRequest{Name: name})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.DepartmentResponse
	suite.decode(w, &resp)
	return resp
}

func (suite *APITestSuite) seedManager(departmentID string) {
	b := suite.store.NewBatch("seed")
	b.InsertEmployee(domain.Employee{
		EmployeeID: "m1", Name: "Marta", Email: "marta@example.com", Level: domain.LevelManager,
		Gender: domain.GenderFemale, Status: domain.StatusActive, DepartmentID: &departmentID,
	})
	b.IncrementMemberCount(departmentID, 1)
	suite.Require().NoError(b.Commit(suite.ctx))
}

func employeeInput(department string) dto.EmployeeInput {
	return dto.EmployeeInput{
		Name:           "João Souza",
		Email:          "joao@example.com",
		TaxID:          "529.982.247-25",
		Phone:          "(11) 98765-4321",
		Gender:         "male",
		JobTitle:       "Desenvolvedor",
		HireDate:       "2023-02-01",
		Level:          "mid",
		ManagerID:      "m1",
		DepartmentName: department,
	}
}

func (suite *APITestSuite) TestHealth_IsPublic() {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *APITestSuite) TestProtectedRoute_RequiresToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/departments", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "Authorization header required")
}

func (suite *APITestSuite) TestProtectedRoute_AcceptsQueryToken() {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/dashboard?access_token="+suite.token, nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)
}

func (suite *APITestSuite) TestLogin() {
	testCases := []struct {
		name           string
		password       string
		expectedStatus int
	}{
		{"valid credentials", "correct-horse", http.StatusOK},
		{"wrong password", "battery-staple", http.StatusUnauthorized},
	}
	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			raw, _ := json.Marshal(dto.LoginRequest{Email: "admin@example.com", Password: tc.password})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(raw))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			suite.router.ServeHTTP(w, req)

			suite.Equal(tc.expectedStatus, w.Code, w.Body.String())
			if tc.expectedStatus == http.StatusOK {
				var resp dto.LoginResponse
				suite.decode(w, &resp)
				suite.NotEmpty(resp.Token)
			}
		})
	}
}

func (suite *APITestSuite) TestGetMe() {
	w := suite.do(http.MethodGet, "/api/v1/users/me", nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Contains(w.Body.String(), "admin@example.com")
	suite.NotContains(w.Body.String(), "passwordHash")
}

func (suite *APITestSuite) TestCreateDepartment_DuplicateNameConflicts() {
	suite.createDepartment("Operações")

	w := suite.do(http.MethodPost, "/api/v1/departments", dto.CreateDepartmentRequest{Name: " OPERACOES "})

	suite.Equal(http.StatusConflict, w.Code)
	suite.Contains(w.Body.String(), "already exists")
}

func (suite *APITestSuite) TestCreateDepartment_MissingNameIsValidationError() {
	w := suite.do(http.MethodPost, "/api/v1/departments", map[string]any{})

	suite.Require().Equal(http.StatusBadRequest, w.Code)
	var resp handlers.ValidationErrorResponse
	suite.decode(w, &resp)
	suite.Require().NotEmpty(resp.Fields)
	suite.Equal("name", resp.Fields[0].Field)
}

func (suite *APITestSuite) TestGetDepartment_NotFound() {
	w := suite.do(http.MethodGet, "/api/v1/departments/missing", nil)

	suite.Equal(http.StatusNotFound, w.Code)
}

func (suite *APITestSuite) TestDeleteDepartment_WithMembersConflicts() {
	dep := suite.createDepartment("Engenharia")
	suite.seedManager(dep.DepartmentID)

	w := suite.do(http.MethodDelete, "/api/v1/departments/"+dep.DepartmentID, nil)
	suite.Equal(http.StatusConflict, w.Code)

	empty := suite.createDepartment("Jurídico")
	w = suite.do(http.MethodDelete, "/api/v1/departments/"+empty.DepartmentID, nil)
	suite.Equal(http.StatusNoContent, w.Code)
}

func (suite *APITestSuite) TestCreateEmployee_ResolvesDepartmentByName() {
	dep := suite.createDepartment("Engenharia")
	suite.seedManager(dep.DepartmentID)

	w := suite.do(http.MethodPost, "/api/v1/employees", employeeInput("ENGENHARIA"))

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.EmployeeResponse
	suite.decode(w, &resp)
	suite.Equal(dep.DepartmentID, resp.DepartmentID)
	suite.Equal("Engenharia", resp.DepartmentName)
	suite.Equal("id", resp.DepartmentResolved)
	suite.Equal("52998224725", resp.TaxID)

	w = suite.do(http.MethodGet, "/api/v1/departments/"+dep.DepartmentID, nil)
	var got dto.DepartmentResponse
	suite.decode(w, &got)
	suite.Equal(2, got.MemberCount)
}

func (suite *APITestSuite) TestCreateEmployee_InvalidFieldsAreListed() {
	in := employeeInput("Engenharia")
	in.TaxID = "111.111.111-11"
	in.Gender = "other"

	w := suite.do(http.MethodPost, "/api/v1/employees", in)

	suite.Require().Equal(http.StatusBadRequest, w.Code)
	var resp handlers.ValidationErrorResponse
	suite.decode(w, &resp)
	fields := make([]string, 0, len(resp.Fields))
	for _, f := range resp.Fields {
		fields = append(fields, f.Field)
	}
	suite.ElementsMatch([]string{"taxID", "gender"}, fields)
}

func (suite *APITestSuite) TestBulkMove_UpdatesCounts() {
	eng := suite.createDepartment("Engenharia")
	ops := suite.createDepartment("Operações")
	suite.seedManager(eng.DepartmentID)

	w := suite.do(http.MethodPost, "/api/v1/employees/bulk/move", dto.BulkMoveRequest{
		EmployeeIDs:        []string{"m1", "ghost"},
		TargetDepartmentID: ops.DepartmentID,
	})

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var result domain.BulkResult
	suite.decode(w, &result)
	suite.Equal(2, result.Requested)
	suite.Equal(1, result.Applied)
	suite.Equal(1, result.Missing)

	w = suite.do(http.MethodGet, "/api/v1/departments", nil)
	var list dto.ListDepartmentsResponse
	suite.decode(w, &list)
	counts := map[string]int{}
	for _, d := range list.Departments {
		counts[d.DepartmentID] = d.MemberCount
	}
	suite.Equal(0, counts[eng.DepartmentID])
	suite.Equal(1, counts[ops.DepartmentID])
}

func (suite *APITestSuite) TestBulkStatus_RejectsEmptyIDs() {
	w := suite.do(http.MethodPost, "/api/v1/employees/bulk/status", dto.BulkStatusRequest{Status: "inactive"})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestRecount_RepairsDrift() {
	suite.Require().NoError(suite.store.SaveDepartment(suite.ctx, domain.Department{DepartmentID: "dep-x", Name: "Vendas", MemberCount: 5}))

	w := suite.do(http.MethodPost, "/api/v1/reconciliation/recount", nil)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var report domain.RecountReport
	suite.decode(w, &report)
	suite.Require().Len(report.Corrections, 1)
	suite.Equal(5, report.Corrections[0].Stored)
	suite.Equal(0, report.Corrections[0].Actual)

	d, err := suite.store.FindDepartmentByID(suite.ctx, "dep-x")
	suite.Require().NoError(err)
	suite.Equal(0, d.MemberCount)
}

func (suite *APITestSuite) TestExportCSV_SetsDownloadHeaders() {
	dep := suite.createDepartment("Engenharia")
	suite.seedManager(dep.DepartmentID)

	w := suite.do(http.MethodGet, "/api/v1/employees/export", nil)

	suite.Require().Equal(http.StatusOK, w.Code)
	suite.Equal("text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), `filename="colaboradores_`)
	suite.True(strings.HasPrefix(w.Body.String(), "\uFEFF"))
	suite.Contains(w.Body.String(), `"Marta"`)
}

func (suite *APITestSuite) TestExportDepartments_SetsDownloadHeaders() {
	eng := suite.createDepartment("Engenharia")
	suite.createDepartment("Atendimento")
	suite.seedManager(eng.DepartmentID)

	w := suite.do(http.MethodGet, "/api/v1/departments/export", nil)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Equal("text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), `filename="departamentos_`)
	suite.Equal("\uFEFF"+
		`"Nome";"Colaboradores"`+"\r\n"+
		`"Atendimento";"0"`+"\r\n"+
		`"Engenharia";"1"`+"\r\n", w.Body.String())
}

func (suite *APITestSuite) TestCreateDepartment_MovesMembers() {
	eng := suite.createDepartment("Engenharia")
	suite.seedManager(eng.DepartmentID)

	w := suite.do(http.MethodPost, "/api/v1/departments", dto.CreateDepartmentRequest{
		Name:      "Diretoria",
		MemberIDs: []string{"m1"},
	})

	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var resp dto.DepartmentResponse
	suite.decode(w, &resp)
	suite.Equal(1, resp.MemberCount)

	d, err := suite.store.FindDepartmentByID(suite.ctx, eng.DepartmentID)
	suite.Require().NoError(err)
	suite.Equal(0, d.MemberCount)
}

func (suite *APITestSuite) TestExport_RejectsUnknownFormat() {
	w := suite.do(http.MethodGet, "/api/v1/employees/export?format=pdf", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestImport_DryRunReportsRows() {
	dep := suite.createDepartment("Engenharia")
	suite.seedManager(dep.DepartmentID)

	csv := "Nome;E-mail;CPF;Telefone;Gênero;Cargo;Data de admissão;Nível;Gestor;Salário;Departamento\n" +
		"Ana Lima;ana@example.com;111.444.777-35;(11) 98765-4321;Feminino;Analista;2021-07-01;Pleno;m1;6500;engenharia\n" +
		"Bia Luz;bia@example.com;123;(11) 98765-4321;Feminino;Analista;2021-07-01;Pleno;m1;6500;engenharia\n"

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	part, err := mw.CreateFormFile("file", "colaboradores.csv")
	suite.Require().NoError(err)
	_, err = part.Write([]byte(csv))
	suite.Require().NoError(err)
	suite.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/employees/import?dryRun=true", body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+suite.token)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var report domain.ImportReport
	suite.decode(w, &report)
	suite.True(report.DryRun)
	suite.Equal(2, report.Rows)
	suite.Equal(1, report.Imported)
	suite.Require().Len(report.Rejected, 1)
	suite.Equal(3, report.Rejected[0].Line)

	employees, err := suite.store.ListEmployees(suite.ctx)
	suite.Require().NoError(err)
	suite.Len(employees, 1)
}

func (suite *APITestSuite) TestImport_RequiresFile() {
	w := suite.do(http.MethodPost, "/api/v1/employees/import", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestAuditLog_ListsRecordedEvents() {
	suite.createDepartment("Engenharia")
	suite.services.Audit.Wait()

	w := suite.do(http.MethodGet, "/api/v1/audit?limit=10", nil)

	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	suite.Contains(w.Body.String(), string(domain.ActionDepartmentCreate))
	suite.Contains(w.Body.String(), "admin@example.com")
}

func (suite *APITestSuite) TestAuditLog_PagesWithToken() {
	suite.createDepartment("Engenharia")
	suite.createDepartment("Jurídico")
	suite.services.Audit.Wait()

	w := suite.do(http.MethodGet, "/api/v1/audit?limit=1", nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var first dto.ListAuditEventsResponse
	suite.decode(w, &first)
	suite.Require().Len(first.Events, 1)
	suite.Require().NotEmpty(first.NextToken)

	w = suite.do(http.MethodGet, "/api/v1/audit?limit=1&before="+first.NextToken, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var second dto.ListAuditEventsResponse
	suite.decode(w, &second)
	suite.Require().Len(second.Events, 1)
	suite.NotEqual(first.Events[0].EventID, second.Events[0].EventID)
}

func (suite *APITestSuite) TestAuditLog_RejectsMalformedToken() {
	w := suite.do(http.MethodGet, "/api/v1/audit?before=not-a-token!", nil)

	suite.Equal(http.StatusBadRequest, w.Code)
}

func TestAPITestSuite(t *testing.T) {
	suite.Run(t, new(APITestSuite))
}
