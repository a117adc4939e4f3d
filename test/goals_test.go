package test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type goalPayload struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	CurrentValue float64 `json:"currentValue"`
	TargetValue  float64 `json:"targetValue"`
	Unit         string  `json:"unit"`
	IsCompleted  bool    `json:"isCompleted"`
	Progress     float64 `json:"progress"`
}

func (s *IntegrationTestSuite) TestGoalsFlow() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token, _ := s.signupAndLogin(ctx, t, "goalsflow")

	var goal goalPayload
	t.Run("create goal", func(t *testing.T) {
		resp := s.doRequest(ctx, t, "POST", "/v1/goals/", token, map[string]any{
			"title":        "Run 100 km",
			"target_value": 100,
			"unit":         "km",
			"icon":         "🏃",
		})
		defer resp.Body.Close()
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(respBytes, &goal))
		assert.Positive(t, goal.ID)
		assert.Equal(t, "km", goal.Unit)
		assert.False(t, goal.IsCompleted)
	})

	t.Run("list contains the goal", func(t *testing.T) {
		resp := s.doRequest(ctx, t, "GET", "/v1/goals/", token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var goals []goalPayload
		require.NoError(t, json.Unmarshal(respBytes, &goals))
		require.Len(t, goals, 1)
		assert.Equal(t, goal.ID, goals[0].ID)
	})

	t.Run("progress below target", func(t *testing.T) {
		resp := s.doRequest(ctx, t, "POST",
			"/v1/goals/"+itoa(goal.ID)+"/update-progress/", token,
			map[string]any{"current_value": 40},
		)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var progressResp struct {
			Success bool        `json:"success"`
			Goal    goalPayload `json:"goal"`
		}
		require.NoError(t, json.Unmarshal(respBytes, &progressResp))
		assert.True(t, progressResp.Success)
		assert.False(t, progressResp.Goal.IsCompleted)
		assert.Equal(t, float64(40), progressResp.Goal.Progress)
	})

	t.Run("progress reaching target completes the goal", func(t *testing.T) {
		resp := s.doRequest(ctx, t, "POST",
			"/v1/goals/"+itoa(goal.ID)+"/update-progress/", token,
			map[string]any{"current_value": 100},
		)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var progressResp struct {
			Goal goalPayload `json:"goal"`
		}
		require.NoError(t, json.Unmarshal(respBytes, &progressResp))
		assert.True(t, progressResp.Goal.IsCompleted)
		assert.Equal(t, float64(100), progressResp.Goal.Progress)

		badgesResp := s.doRequest(ctx, t, "GET", "/v1/badges/", token, nil)
		defer badgesResp.Body.Close()
		require.Equal(t, http.StatusOK, badgesResp.StatusCode)

		badgesBytes, err := io.ReadAll(badgesResp.Body)
		require.NoError(t, err)

		var badges []struct {
			BadgeType string `json:"badgeType"`
		}
		require.NoError(t, json.Unmarshal(badgesBytes, &badges))
		// first goal milestone sits at 5 completed goals
		assert.Empty(t, badges)
	})

	t.Run("completed goal leaves the active list", func(t *testing.T) {
		resp := s.doRequest(ctx, t, "GET", "/v1/goals/active/", token, nil)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var goals []goalPayload
		require.NoError(t, json.Unmarshal(respBytes, &goals))
		assert.Empty(t, goals)
	})

	t.Run("log visit is idempotent per day", func(t *testing.T) {
		first := s.doRequest(ctx, t, "POST", "/v1/goals/log-visit/", token, nil)
		defer first.Body.Close()
		require.Equal(t, http.StatusOK, first.StatusCode)

		firstBytes, err := io.ReadAll(first.Body)
		require.NoError(t, err)

		var visitResp struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal(firstBytes, &visitResp))
		assert.Equal(t, "Visit logged", visitResp.Message)

		second := s.doRequest(ctx, t, "POST", "/v1/goals/log-visit/", token, nil)
		defer second.Body.Close()
		require.Equal(t, http.StatusOK, second.StatusCode)

		secondBytes, err := io.ReadAll(second.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(secondBytes, &visitResp))
		assert.Equal(t, "Already logged today", visitResp.Message)
	})

	t.Run("another user cannot see the goal", func(t *testing.T) {
		otherToken, _ := s.signupAndLogin(ctx, t, "goalsflow2")

		resp := s.doRequest(ctx, t, "GET", "/v1/goals/"+itoa(goal.ID)+"/", otherToken, nil)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
