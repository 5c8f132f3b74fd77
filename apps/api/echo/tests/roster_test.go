package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/alama/core"
)

type datasetResponse struct {
	ID      string   `json:"id"`
	Owner   string   `json:"owner"`
	Classes []string `json:"classes"`
	Records []struct {
		RegNo string `json:"reg_no"`
		Name  string `json:"name"`
		Class string `json:"class"`
	} `json:"records"`
}

func Test_rosterApi_upload(t *testing.T) {
	app := setup(t)
	token := verifiedToken(t)

	req, rec := newUploadRequest(t, token, map[string][]byte{
		"cse_a_marks.xlsx": workbookBytes(t, classARows()),
		"cse_b_marks.xlsx": workbookBytes(t, classBRows()),
	})
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	var ds datasetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &ds); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if ds.ID == "" || ds.Owner != "acct1" {
		t.Errorf("dataset = %+v", ds)
	}
	if len(ds.Classes) != 2 || len(ds.Records) != 4 {
		t.Errorf("classes = %v, records = %d", ds.Classes, len(ds.Records))
	}

	// the merged dataset becomes the current one
	req, rec = newAuthRequest(http.MethodGet, "/v1/rosters", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	// re-upload replaces it
	req, rec = newUploadRequest(t, token, map[string][]byte{
		"cse_a_marks.xlsx": workbookBytes(t, classARows()),
	})
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, want 201; body %s", rec.Code, rec.Body.String())
	}
	req, rec = newAuthRequest(http.MethodGet, "/v1/rosters", token)
	app.ServeHTTP(rec, req)
	ds = datasetResponse{}
	if err := json.Unmarshal(rec.Body.Bytes(), &ds); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if len(ds.Records) != 2 {
		t.Errorf("records after re-upload = %d, want 2", len(ds.Records))
	}

	// clear
	req, rec = newAuthRequest(http.MethodDelete, "/v1/rosters", token)
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("code = %d, want 204; body %s", rec.Code, rec.Body.String())
	}
	req, rec = newAuthRequest(http.MethodGet, "/v1/rosters", token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusNotFound,
		wantData: marchallObj(t, httpErr{Error: "no dataset uploaded"}),
	}, rec)
}

func Test_rosterApi_uploadAuth(t *testing.T) {
	app := setup(t)

	// no token
	req, rec := newUploadRequest(t, "", map[string][]byte{
		"cse_a_marks.xlsx": workbookBytes(t, classARows()),
	})
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)

	// unverified account
	unverified := getToken(t, core.Account{UID: "acct2", Email: "u@test.cd"})
	req, rec = newUploadRequest(t, unverified, map[string][]byte{
		"cse_a_marks.xlsx": workbookBytes(t, classARows()),
	})
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{
		wantCode: http.StatusForbidden,
		wantData: marchallObj(t, httpErr{Error: "email address not verified"}),
	}, rec)

	// reading the (absent) dataset only needs authentication
	req, rec2 := newAuthRequest(http.MethodGet, "/v1/rosters", unverified)
	app.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusNotFound {
		t.Errorf("code = %d, want 404", rec2.Code)
	}
}

func Test_rosterApi_uploadErrors(t *testing.T) {
	app := setup(t)
	token := verifiedToken(t)

	badScores := [][]string{
		stdHeader(),
		{"R001", "Asha", "CSE-A", "101", "ninety", "95", "100", "90", "100"},
	}
	missingColumn := [][]string{
		{"Reg.no", "Name"},
		{"R001", "Asha"},
	}
	conflictA := [][]string{
		stdHeader(),
		{"R001", "Asha", "CSE-A", "90", "85", "95", "100", "90", "100"},
	}
	conflictB := [][]string{
		stdHeader(),
		{"R001", "Anita", "CSE-B", "90", "85", "95", "100", "90", "100"},
	}

	tests := []struct {
		name     string
		files    map[string][]byte
		wantCode int
	}{
		{name: "no files", files: nil, wantCode: http.StatusBadRequest},
		{name: "not a workbook", files: map[string][]byte{"notes.txt": []byte("lol")}, wantCode: http.StatusBadRequest},
		{name: "bad scores", files: map[string][]byte{"a.xlsx": workbookBytes(t, badScores)}, wantCode: http.StatusBadRequest},
		{name: "missing columns", files: map[string][]byte{"a.xlsx": workbookBytes(t, missingColumn)}, wantCode: http.StatusBadRequest},
		{
			name: "name conflict across classes",
			files: map[string][]byte{
				"a.xlsx": workbookBytes(t, conflictA),
				"b.xlsx": workbookBytes(t, conflictB),
			},
			wantCode: http.StatusConflict,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newUploadRequest(t, token, tt.files)
			app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("code = %d, want %d; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}

			// nothing may be stored on failure
			req2, rec2 := newAuthRequest(http.MethodGet, "/v1/rosters", token)
			app.ServeHTTP(rec2, req2)
			if rec2.Code != http.StatusNotFound {
				t.Errorf("dataset stored despite failed upload; code = %d", rec2.Code)
			}
		})
	}
}

// class label falls back to the file name when the sheet has no Class column
func Test_rosterApi_uploadClassFromFilename(t *testing.T) {
	app := setup(t)
	token := verifiedToken(t)

	header := []string{"Reg.no", "Name"}
	for _, sub := range stdHeader()[3:] {
		header = append(header, sub)
	}
	rows := [][]string{
		header,
		{"R001", "Asha", "90", "85", "95", "100", "90", "100"},
	}

	req, rec := newUploadRequest(t, token, map[string][]byte{"cse_a_marks.xlsx": workbookBytes(t, rows)})
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, want 201; body %s", rec.Code, rec.Body.String())
	}

	var ds datasetResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &ds); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if len(ds.Classes) != 1 || ds.Classes[0] != "cse_a_marks" {
		t.Errorf("classes = %v, want [cse_a_marks]", ds.Classes)
	}
}
