// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/taste-champion/db"
	"github.com/danielhkuo/taste-champion/middleware"
	"github.com/danielhkuo/taste-champion/models"
	"github.com/danielhkuo/taste-champion/testutil"
)

func TestSubmitScore(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	handler := NewVotingHandler(conn, db.SQLite, cfg, nil)

	producer := testutil.CreateTestProducer(t, conn)
	open := testutil.CreateTestNomination(t, conn, true, false)
	draft := testutil.CreateTestNomination(t, conn, false, false)
	finished := testutil.CreateTestNomination(t, conn, true, true)

	openProduct := testutil.CreateTestProduct(t, conn, producer, open)
	draftProduct := testutil.CreateTestProduct(t, conn, producer, draft)
	finishedProduct := testutil.CreateTestProduct(t, conn, producer, finished)
	looseProduct := testutil.CreateTestProduct(t, conn, producer, "")

	consumer := testutil.CreateTestUser(t, conn, models.RoleConsumer)

	tests := []struct {
		name           string
		body           models.ScoreRequest
		expectedStatus int
		expectedError  string
	}{
		{"valid score", models.ScoreRequest{ProductID: openProduct, Value: 7}, http.StatusCreated, ""},
		{"duplicate vote", models.ScoreRequest{ProductID: openProduct, Value: 3}, http.StatusConflict, middleware.CodeDuplicateVote},
		{"product without nomination", models.ScoreRequest{ProductID: looseProduct, Value: 5}, http.StatusCreated, ""},
		{"value below range", models.ScoreRequest{ProductID: looseProduct, Value: 0}, http.StatusBadRequest, middleware.CodeValidation},
		{"value above range", models.ScoreRequest{ProductID: openProduct, Value: 11}, http.StatusBadRequest, middleware.CodeValidation},
		{"unknown product", models.ScoreRequest{ProductID: "missing", Value: 5}, http.StatusBadRequest, middleware.CodeValidation},
		{"draft nomination", models.ScoreRequest{ProductID: draftProduct, Value: 5}, http.StatusConflict, middleware.CodeVotingClosed},
		{"finished nomination", models.ScoreRequest{ProductID: finishedProduct, Value: 5}, http.StatusConflict, middleware.CodeVotingClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.WithCaller(testutil.MakeRequest("POST", "/scores", tt.body, nil), consumer)
			w := httptest.NewRecorder()

			handler.SubmitScore(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedError != "" {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Error != tt.expectedError {
					t.Errorf("Expected error %q, got %q (%s)", tt.expectedError, resp.Error, resp.Message)
				}
			}
		})
	}

	if n := testutil.CountRows(t, conn, "scores"); n != 2 {
		t.Errorf("Expected 2 stored scores, got %d", n)
	}
}

func TestSubmitScoreSnapshotsExpertRole(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewVotingHandler(conn, db.SQLite, testutil.GetTestConfig(), nil)

	product := testutil.CreateTestProduct(t, conn, testutil.CreateTestProducer(t, conn), "")
	expert := testutil.CreateTestUser(t, conn, models.RoleExpert)

	req := testutil.WithCaller(testutil.MakeRequest("POST", "/scores", models.ScoreRequest{ProductID: product, Value: 9}, nil), expert)
	w := httptest.NewRecorder()
	handler.SubmitScore(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	var resp models.CreatedResponse
	testutil.AssertJSON(t, w, &resp)

	req = httptest.NewRequest("GET", "/scores/"+resp.ID, nil)
	req.SetPathValue("id", resp.ID)
	w = httptest.NewRecorder()
	handler.GetScore(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var score models.Score
	testutil.AssertJSON(t, w, &score)
	if !score.IsExpert {
		t.Error("Expected expert score to be flagged is_expert")
	}
	if score.UserID != expert.ID {
		t.Errorf("Expected voter %s, got %s", expert.ID, score.UserID)
	}
}

func TestSubmitScoreBatchAllOrNothing(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewVotingHandler(conn, db.SQLite, testutil.GetTestConfig(), nil)

	producer := testutil.CreateTestProducer(t, conn)
	nomination := testutil.CreateTestNomination(t, conn, true, false)
	p1 := testutil.CreateTestProduct(t, conn, producer, nomination)
	p2 := testutil.CreateTestProduct(t, conn, producer, nomination)
	p3 := testutil.CreateTestProduct(t, conn, producer, nomination)
	consumer := testutil.CreateTestUser(t, conn, models.RoleConsumer)

	t.Run("one invalid item rejects the batch", func(t *testing.T) {
		body := models.ScoreBatchRequest{Scores: []models.ScoreRequest{
			{ProductID: p1, Value: 5},
			{ProductID: p2, Value: 42},
		}}
		req := testutil.WithCaller(testutil.MakeRequest("POST", "/scores/batch", body, nil), consumer)
		w := httptest.NewRecorder()

		handler.SubmitScoreBatch(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
		if n := testutil.CountRows(t, conn, "scores"); n != 0 {
			t.Errorf("Expected no stored scores, got %d", n)
		}
	})

	t.Run("same product twice in one batch", func(t *testing.T) {
		body := models.ScoreBatchRequest{Scores: []models.ScoreRequest{
			{ProductID: p1, Value: 5},
			{ProductID: p1, Value: 6},
		}}
		req := testutil.WithCaller(testutil.MakeRequest("POST", "/scores/batch", body, nil), consumer)
		w := httptest.NewRecorder()

		handler.SubmitScoreBatch(w, req)

		testutil.AssertStatus(t, w, http.StatusConflict)
		if n := testutil.CountRows(t, conn, "scores"); n != 0 {
			t.Errorf("Expected no stored scores, got %d", n)
		}
	})

	t.Run("valid batch", func(t *testing.T) {
		body := models.ScoreBatchRequest{Scores: []models.ScoreRequest{
			{ProductID: p1, Value: 5},
			{ProductID: p2, Value: 6},
			{ProductID: p3, Value: 7},
		}}
		req := testutil.WithCaller(testutil.MakeRequest("POST", "/scores/batch", body, nil), consumer)
		w := httptest.NewRecorder()

		handler.SubmitScoreBatch(w, req)

		testutil.AssertStatus(t, w, http.StatusCreated)
		var resp models.BatchCreatedResponse
		testutil.AssertJSON(t, w, &resp)
		if len(resp.IDs) != 3 {
			t.Errorf("Expected 3 ids, got %d", len(resp.IDs))
		}
	})
}

func TestUpdateScoreKeepsVoter(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewVotingHandler(conn, db.SQLite, testutil.GetTestConfig(), nil)

	product := testutil.CreateTestProduct(t, conn, testutil.CreateTestProducer(t, conn), "")
	voter := testutil.CreateTestUser(t, conn, models.RoleConsumer)
	admin := testutil.CreateTestUser(t, conn, models.RoleAdmin)
	scoreID := testutil.SubmitTestScore(t, conn, product, voter.ID, 4, false)

	req := testutil.WithCaller(testutil.MakeRequest("PUT", "/scores/"+scoreID, models.ScoreRequest{Value: 8}, nil), admin)
	req.SetPathValue("id", scoreID)
	w := httptest.NewRecorder()

	handler.UpdateScore(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var value int
	var userID string
	if err := conn.QueryRow(`SELECT value, user_id FROM scores WHERE id = ?`, scoreID).Scan(&value, &userID); err != nil {
		t.Fatalf("Failed to read score: %v", err)
	}
	if value != 8 {
		t.Errorf("Expected value 8, got %d", value)
	}
	if userID != voter.ID {
		t.Errorf("Expected voter to stay %s, got %s", voter.ID, userID)
	}

	req = httptest.NewRequest("DELETE", "/scores/missing", nil)
	req.SetPathValue("id", "missing")
	w = httptest.NewRecorder()
	handler.DeleteScore(w, req)
	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestSubmitParameterScore(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewVotingHandler(conn, db.SQLite, testutil.GetTestConfig(), nil)

	nomination := testutil.CreateTestNomination(t, conn, true, false)
	other := testutil.CreateTestNomination(t, conn, true, false)
	product := testutil.CreateTestProduct(t, conn, testutil.CreateTestProducer(t, conn), nomination)
	aroma := testutil.CreateTestParameter(t, conn, nomination, "Aroma")
	foreign := testutil.CreateTestParameter(t, conn, other, "Color")
	expert := testutil.CreateTestUser(t, conn, models.RoleExpert)

	tests := []struct {
		name           string
		body           models.ParameterScoreRequest
		expectedStatus int
		expectedError  string
	}{
		{"valid rating", models.ParameterScoreRequest{ProductID: product, ParameterID: aroma, Value: 8}, http.StatusCreated, ""},
		{"duplicate rating", models.ParameterScoreRequest{ProductID: product, ParameterID: aroma, Value: 2}, http.StatusConflict, middleware.CodeDuplicateRating},
		{"parameter of another nomination", models.ParameterScoreRequest{ProductID: product, ParameterID: foreign, Value: 5}, http.StatusBadRequest, middleware.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.WithCaller(testutil.MakeRequest("POST", "/parameter-scores", tt.body, nil), expert)
			w := httptest.NewRecorder()

			handler.SubmitParameterScore(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedError != "" {
				var resp models.ErrorResponse
				testutil.AssertJSON(t, w, &resp)
				if resp.Error != tt.expectedError {
					t.Errorf("Expected error %q, got %q", tt.expectedError, resp.Error)
				}
			}
		})
	}
}

func TestSubmitScoreOverflowingValue(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewVotingHandler(conn, db.SQLite, testutil.GetTestConfig(), nil)
	nomination := testutil.CreateTestNomination(t, conn, true, false)
	product := testutil.CreateTestProduct(t, conn, testutil.CreateTestProducer(t, conn), nomination)
	consumer := testutil.CreateTestUser(t, conn, models.RoleConsumer)

	for _, value := range []int{70000, -40000} {
		body := map[string]any{"product_id": product, "value": value}
		req := testutil.WithCaller(testutil.MakeRequest("POST", "/scores", body, nil), consumer)
		w := httptest.NewRecorder()

		handler.SubmitScore(w, req)

		testutil.AssertStatus(t, w, http.StatusBadRequest)
		var resp models.ErrorResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Error != middleware.CodeValidation {
			t.Errorf("value %d: expected %q, got %q (%s)", value, middleware.CodeValidation, resp.Error, resp.Message)
		}
		if len(resp.Details) == 0 || !strings.Contains(resp.Details[0], "between 1 and 10") {
			t.Errorf("value %d: expected range violation, got %v", value, resp.Details)
		}
	}

	if n := testutil.CountRows(t, conn, "scores"); n != 0 {
		t.Errorf("Expected no stored scores, got %d", n)
	}
}

func TestSubmitScoreBatchFirstViolationWins(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	handler := NewVotingHandler(conn, db.SQLite, testutil.GetTestConfig(), nil)
	producer := testutil.CreateTestProducer(t, conn)
	openProduct := testutil.CreateTestProduct(t, conn, producer, testutil.CreateTestNomination(t, conn, true, false))
	draftProduct := testutil.CreateTestProduct(t, conn, producer, testutil.CreateTestNomination(t, conn, false, false))
	consumer := testutil.CreateTestUser(t, conn, models.RoleConsumer)

	tests := []struct {
		name           string
		scores         []models.ScoreRequest
		expectedStatus int
		expectedError  string
	}{
		{
			"range violation before closed nomination",
			[]models.ScoreRequest{{ProductID: openProduct, Value: 11}, {ProductID: draftProduct, Value: 5}},
			http.StatusBadRequest, middleware.CodeValidation,
		},
		{
			"closed nomination before range violation",
			[]models.ScoreRequest{{ProductID: draftProduct, Value: 5}, {ProductID: openProduct, Value: 11}},
			http.StatusConflict, middleware.CodeVotingClosed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := models.ScoreBatchRequest{Scores: tt.scores}
			req := testutil.WithCaller(testutil.MakeRequest("POST", "/scores/batch", body, nil), consumer)
			w := httptest.NewRecorder()

			handler.SubmitScoreBatch(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			var resp models.ErrorResponse
			testutil.AssertJSON(t, w, &resp)
			if resp.Error != tt.expectedError {
				t.Errorf("Expected error %q, got %q (%s)", tt.expectedError, resp.Error, resp.Message)
			}
			if !strings.Contains(resp.Message, "item 1") {
				t.Errorf("Expected first item to be reported, got %q", resp.Message)
			}
		})
	}

	if n := testutil.CountRows(t, conn, "scores"); n != 0 {
		t.Errorf("Expected no stored scores, got %d", n)
	}
}
