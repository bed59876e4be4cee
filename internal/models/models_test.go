// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

package models

import (
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

func TestNewSuccess(t *testing.T) {
	start := time.Now().Add(-25 * time.Millisecond)
	resp := NewSuccess([]int{1, 2}, start)

	if resp.Status != "success" {
		t.Errorf("Status = %q, want success", resp.Status)
	}
	if resp.Error != nil {
		t.Error("Error should be nil")
	}
	if resp.Metadata.QueryTimeMS < 25 {
		t.Errorf("QueryTimeMS = %d, want >= 25", resp.Metadata.QueryTimeMS)
	}

	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if strings.Contains(string(body), `"error"`) {
		t.Errorf("success body should omit error: %s", body)
	}
}

func TestNewError(t *testing.T) {
	resp := NewError(ErrCodeModelNotLoaded, "model not loaded", map[string]interface{}{"retry": true})

	body, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	for _, want := range []string{`"status":"error"`, `"code":"MODEL_NOT_LOADED"`, `"retry":true`, `"data":null`} {
		if !strings.Contains(string(body), want) {
			t.Errorf("body %s missing %s", body, want)
		}
	}
}

func TestMovieRecommendation_StrategyOmitted(t *testing.T) {
	tests := []struct {
		name    string
		rec     MovieRecommendation
		wantKey bool
	}{
		{name: "plain recommendation", rec: MovieRecommendation{MovieID: 1}, wantKey: false},
		{name: "ab test recommendation", rec: MovieRecommendation{MovieID: 1, Strategy: "popular"}, wantKey: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := json.Marshal(tt.rec)
			if err != nil {
				t.Fatalf("Marshal() error = %v", err)
			}
			if got := strings.Contains(string(body), `"strategy"`); got != tt.wantKey {
				t.Errorf("strategy present = %v, want %v (%s)", got, tt.wantKey, body)
			}
		})
	}
}
