package handler

import (
	"context"
	"net/http"
	"testing"

	"taskboard/internal/authz"
	"taskboard/internal/models"
	"taskboard/internal/service/mocks"
	"taskboard/pkg/response"
	"taskboard/test/testutil"

	"github.com/stretchr/testify/assert"
)

func TestStatsHandler_GetStats(t *testing.T) {
	tests := []struct {
		name           string
		role           models.Role
		wantTotalUsers bool
	}{
		{"admin sees user total", models.RoleAdmin, true},
		{"member does not", models.RoleMember, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := &mocks.MockStatsService{
				GetStatsFunc: func(ctx context.Context, actor authz.Actor) (*models.TaskStats, error) {
					stats := models.NewTaskStats()
					stats.Total = 3
					if actor.IsAdmin() {
						n := int64(9)
						stats.TotalUsers = &n
					}
					return stats, nil
				},
			}

			router := testutil.SetupRouter()
			router.GET("/stats", testutil.WithActor(testutil.NewActor(tt.role)), NewStatsHandler(mockService, nil).GetStats)

			w := testutil.MakeRequest(t, router, http.MethodGet, "/stats", nil)

			assert.Equal(t, http.StatusOK, w.Code)
			var resp response.Response
			testutil.ParseResponse(t, w, &resp)
			data := resp.Data.(map[string]interface{})
			assert.Equal(t, float64(3), data["total"])
			_, hasUsers := data["totalUsers"]
			assert.Equal(t, tt.wantTotalUsers, hasUsers)
			byStatus := data["byStatus"].(map[string]interface{})
			assert.Len(t, byStatus, len(models.TaskStatuses))
		})
	}
}
