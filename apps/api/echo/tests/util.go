package tests

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"

	. "github.com/trezcool/alama/apps/api/echo"
	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/report"
	"github.com/trezcool/alama/core/roster"
	emailsvc "github.com/trezcool/alama/services/email"
	dummyid "github.com/trezcool/alama/services/identity/dummy"
	logsvc "github.com/trezcool/alama/services/logger"
	dummydb "github.com/trezcool/alama/storage/database/dummy"
	"github.com/trezcool/alama/storage/spreadsheet"
)

var (
	identitySvc core.IdentityService
	repo        roster.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

func setup(t *testing.T) Server {
	core.Conf.Debug = false
	core.Conf.TestMode = true

	// set up storage & services
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	repo = dummydb.NewDatasetRepository(db)
	identitySvc = dummyid.NewService()
	mailSvc := emailsvc.NewConsoleServiceMock()
	emailsvc.SentMessages = emailsvc.SentMessages[:0]

	logger := logsvc.NewStdLogger(log.New(io.Discard, "", 0))
	rosterSvc := roster.NewService(repo, logger)
	reportSvc := report.NewService(repo, spreadsheet.NewCodec(), mailSvc, logger)

	// set up server
	return NewServer(
		ServerDeps{
			DisableReqLogs: true,
			Logger:         logger,
			Identity:       identitySvc,
			RosterSvc:      rosterSvc,
			ReportSvc:      reportSvc,
		},
	)
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, acct core.Account) string {
	token, err := GenerateToken(GetAccountClaims(acct))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func verifiedToken(t *testing.T) string {
	return getToken(t, core.Account{UID: "acct1", Email: "t@test.cd", DisplayName: "T", Verified: true})
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ObjectsAreEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

// workbookBytes builds a one-sheet workbook from string rows.
func workbookBytes(t *testing.T, rows [][]string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName() failed: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				t.Fatalf("SetCellValue() failed: %v", err)
			}
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("WriteToBuffer() failed: %v", err)
	}
	return buf.Bytes()
}

// newUploadRequest builds a multipart roster upload; files maps file name
// to workbook content.
func newUploadRequest(t *testing.T, token string, files map[string][]byte) (*http.Request, *httptest.ResponseRecorder) {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		if err != nil {
			t.Fatalf("CreateFormFile() failed: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("writing form file failed: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing multipart writer failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/v1/rosters", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func stdHeader() []string {
	header := []string{"Reg.no", "Name", "Class"}
	for _, sub := range roster.Subjects {
		header = append(header, string(sub))
	}
	return header
}

func classARows() [][]string {
	return [][]string{
		stdHeader(),
		{"R001", "Asha", "CSE-A", "90", "85", "95", "100", "90", "100"},
		{"R002", "Brian", "CSE-A", "70", "35", "95", "100", "90", "90"},
	}
}

func classBRows() [][]string {
	return [][]string{
		stdHeader(),
		{"R003", "Chitra", "CSE-B", "100", "95", "95", "100", "100", "100"},
		{"R004", "Deepak", "CSE-B", "90", "85", "95", "100", "90", "80"},
	}
}
