package tests

import (
	"encoding/json"
	"net/http"
	"testing"
)

func predictBody(age, absences, studyTime int, education, support string) []byte {
	b, _ := json.Marshal(map[string]interface{}{
		"age":                age,
		"absences":           absences,
		"study_time":         studyTime,
		"parental_education": education,
		"parental_support":   support,
	})
	return b
}

func Test_predictApi_predict(t *testing.T) {
	app := setup(t)
	token := verifiedToken(t)

	req, rec := newRequest(http.MethodPost, "/v1/predict", predictBody(16, 5, 10, "Bachelor's", "High"))
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, httpTest{wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)}, rec)

	req, rec = newAuthRequest(http.MethodPost, "/v1/predict", token, predictBody(16, 5, 10, "Bachelor's", "High"))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200; body %s", rec.Code, rec.Body.String())
	}

	var res struct {
		ExpectedPercentage float64 `json:"expected_percentage"`
		PredictedGrade     string  `json:"predicted_grade"`
		FormulaVersion     string  `json:"formula_version"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if res.ExpectedPercentage != 67.6 || res.PredictedGrade != "D" || res.FormulaVersion != "v1" {
		t.Errorf("result = %+v", res)
	}
}

func Test_predictApi_validation(t *testing.T) {
	app := setup(t)
	token := verifiedToken(t)

	tests := []httpTest{
		{name: "age too low", body: predictBody(5, 0, 10, "PhD", "High")},
		{name: "age too high", body: predictBody(42, 0, 10, "PhD", "High")},
		{name: "negative absences", body: predictBody(16, -1, 10, "PhD", "High")},
		{name: "study time too high", body: predictBody(16, 0, 80, "PhD", "High")},
		{name: "education required", body: predictBody(16, 0, 10, "", "High")},
		{name: "support required", body: predictBody(16, 0, 10, "PhD", "")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/predict", token, tt.body)
			app.ServeHTTP(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("code = %d, want 400; body %s", rec.Code, rec.Body.String())
			}
		})
	}
}

func Test_predictApi_options(t *testing.T) {
	app := setup(t)

	req, rec := newAuthRequest(http.MethodGet, "/v1/predict/options", verifiedToken(t))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, want 200; body %s", rec.Code, rec.Body.String())
	}
	var res map[string][]string
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("unmarshalling response: %v", err)
	}
	if len(res["parental_education"]) != 6 || len(res["parental_support"]) != 4 {
		t.Errorf("options = %v", res)
	}
}
