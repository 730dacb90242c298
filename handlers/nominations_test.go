// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/models"
	"github.com/danielhkuo/taste-champion/testutil"
)

func TestNominationLifecycle(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewNominationHandler(conn, db.SQLite, testutil.GetTestConfig(), nil)
	admin := testutil.CreateTestUser(t, conn, models.RoleAdmin)

	req := testutil.WithCaller(testutil.MakeRequest("POST", "/nominations", models.NominationRequest{Name: "Cheddar"}, nil), admin)
	w := httptest.NewRecorder()
	handler.CreateNomination(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var created models.CreatedResponse
	testutil.AssertJSON(t, w, &created)

	steps := []struct {
		transition     string
		expectedStatus int
		expectedState  string
	}{
		{"activate", http.StatusOK, models.StateActive},
		{"activate", http.StatusOK, models.StateActive},
		{"finish", http.StatusOK, models.StateFinished},
		{"start", http.StatusOK, models.StateActive},
		{"deactivate", http.StatusOK, models.StateDraft},
		{"explode", http.StatusBadRequest, ""},
	}

	for _, step := range steps {
		t.Run(step.transition, func(t *testing.T) {
			req := testutil.WithCaller(httptest.NewRequest("PUT", "/nominations/"+created.ID+"/"+step.transition, nil), admin)
			req.SetPathValue("id", created.ID)
			req.SetPathValue("transition", step.transition)
			w := httptest.NewRecorder()

			handler.TransitionNomination(w, req)

			testutil.AssertStatus(t, w, step.expectedStatus)
			if step.expectedState == "" {
				return
			}
			var status models.LifecycleStatus
			testutil.AssertJSON(t, w, &status)
			if status.State != step.expectedState {
				t.Errorf("Expected state %s, got %s", step.expectedState, status.State)
			}
		})
	}

	t.Run("unknown nomination", func(t *testing.T) {
		req := testutil.WithCaller(httptest.NewRequest("PUT", "/nominations/missing/activate", nil), admin)
		req.SetPathValue("id", "missing")
		req.SetPathValue("transition", "activate")
		w := httptest.NewRecorder()

		handler.TransitionNomination(w, req)

		testutil.AssertStatus(t, w, http.StatusNotFound)
	})
}

func TestListNominationsByRole(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewNominationHandler(conn, db.SQLite, testutil.GetTestConfig(), nil)

	active := testutil.CreateTestNomination(t, conn, true, false)
	draft := testutil.CreateTestNomination(t, conn, false, false)
	testutil.CreateTestNomination(t, conn, true, true)

	tests := []struct {
		name     string
		role     string
		expected int
	}{
		{"admin sees all", models.RoleAdmin, 3},
		{"consumer sees active", models.RoleConsumer, 1},
		{"expert sees active", models.RoleExpert, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := testutil.CreateTestUser(t, conn, tt.role)
			req := testutil.WithCaller(httptest.NewRequest("GET", "/nominations", nil), u)
			w := httptest.NewRecorder()

			handler.ListNominations(w, req)

			testutil.AssertStatus(t, w, http.StatusOK)
			var nominations []models.Nomination
			testutil.AssertJSON(t, w, &nominations)
			if len(nominations) != tt.expected {
				t.Errorf("Expected %d nominations, got %d", tt.expected, len(nominations))
			}
		})
	}

	consumer := testutil.CreateTestUser(t, conn, models.RoleConsumer)
	for id, expected := range map[string]int{active: http.StatusOK, draft: http.StatusNotFound} {
		req := testutil.WithCaller(httptest.NewRequest("GET", "/nominations/"+id, nil), consumer)
		req.SetPathValue("id", id)
		w := httptest.NewRecorder()
		handler.GetNomination(w, req)
		testutil.AssertStatus(t, w, expected)
	}
}

func TestGroupFinishLeavesNominations(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewNominationHandler(conn, db.SQLite, testutil.GetTestConfig(), nil)
	admin := testutil.CreateTestUser(t, conn, models.RoleAdmin)

	group := testutil.CreateTestGroup(t, conn)
	req := testutil.WithCaller(testutil.MakeRequest("POST", "/nominations", models.NominationRequest{Name: "Brie", GroupID: &group}, nil), admin)
	w := httptest.NewRecorder()
	handler.CreateNomination(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	req = testutil.WithCaller(httptest.NewRequest("PUT", "/groups/"+group+"/finish", nil), admin)
	req.SetPathValue("id", group)
	req.SetPathValue("transition", "finish")
	w = httptest.NewRecorder()
	handler.TransitionGroup(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	req = testutil.WithCaller(httptest.NewRequest("GET", "/groups/"+group+"/nominations", nil), admin)
	req.SetPathValue("id", group)
	w = httptest.NewRecorder()
	handler.ListGroupNominations(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var nominations []models.Nomination
	testutil.AssertJSON(t, w, &nominations)
	if len(nominations) != 1 {
		t.Fatalf("Expected 1 nomination in group, got %d", len(nominations))
	}
	if nominations[0].Finished {
		t.Error("Expected nomination to stay unfinished when its group finishes")
	}
}

func TestParametersUniquePerNomination(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewNominationHandler(conn, db.SQLite, testutil.GetTestConfig(), nil)
	nomination := testutil.CreateTestNomination(t, conn, false, false)

	tests := []struct {
		name           string
		body           models.ParameterRequest
		expectedStatus int
	}{
		{"new parameter", models.ParameterRequest{Name: "Texture", NominationID: nomination}, http.StatusCreated},
		{"same name same nomination", models.ParameterRequest{Name: "Texture", NominationID: nomination}, http.StatusConflict},
		{"missing name", models.ParameterRequest{NominationID: nomination}, http.StatusBadRequest},
		{"unknown nomination", models.ParameterRequest{Name: "Texture", NominationID: "missing"}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			handler.CreateParameter(w, testutil.MakeRequest("POST", "/parameters", tt.body, nil))
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestHiddenNominationSubroutes(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	nominations := NewNominationHandler(conn, db.SQLite, cfg, nil)
	results := NewResultsHandler(conn, db.SQLite, cfg, nil)

	draft := testutil.CreateTestNomination(t, conn, false, false)
	finished := testutil.CreateTestNomination(t, conn, true, true)
	for _, id := range []string{draft, finished} {
		testutil.CreateTestProduct(t, conn, testutil.CreateTestProducer(t, conn), id)
		testutil.CreateTestParameter(t, conn, id, "Aroma")
	}

	routes := []struct {
		name    string
		suffix  string
		handler http.HandlerFunc
	}{
		{"nomination", "", nominations.GetNomination},
		{"products", "/products", results.GetNominationProducts},
		{"parameters", "/parameters", nominations.ListNominationParameters},
		{"disadvantages", "/disadvantages", nominations.ListNominationDisadvantages},
	}

	callers := []struct {
		role           string
		expectedStatus int
	}{
		{models.RoleExpert, http.StatusNotFound},
		{models.RoleConsumer, http.StatusNotFound},
		{models.RoleAdmin, http.StatusOK},
	}

	for _, c := range callers {
		u := testutil.CreateTestUser(t, conn, c.role)
		for _, id := range []string{draft, finished} {
			for _, route := range routes {
				t.Run(c.role+" "+route.name, func(t *testing.T) {
					req := testutil.WithCaller(httptest.NewRequest("GET", "/nominations/"+id+route.suffix, nil), u)
					req.SetPathValue("id", id)
					w := httptest.NewRecorder()

					route.handler(w, req)

					testutil.AssertStatus(t, w, c.expectedStatus)
				})
			}
		}
	}
}
