package challenge

import (
	"innovation-challenge-system/internal/global/database"
	"innovation-challenge-system/internal/global/response"
	"innovation-challenge-system/internal/model"
	"innovation-challenge-system/test"
	"innovation-challenge-system/tools"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestExportParticipantsForbidden(t *testing.T) {
	setupChallengeTest(t)

	id := createChallenge(t, createBody("导出权限"))

	resp := test.DoRequest(t, ExportParticipants, test.Request{
		Params: idParam(id),
		Claims: claims("biz-2", model.RoleBusiness),
	})
	test.ErrorEqual(t, response.ErrForbidden, resp)

	resp = test.DoRequest(t, ExportParticipants, test.Request{
		Params: gin.Params{{Key: "id", Value: "99999"}},
		Claims: claims("biz-1", model.RoleBusiness),
	})
	test.ErrorEqual(t, response.ErrNotFound, resp)
}

func TestExportParticipants(t *testing.T) {
	setupChallengeTest(t)

	id := createChallenge(t, createBody("导出名单"))
	code := "ABCD2345"
	rows := []model.ChallengeParticipant{
		{
			ChallengeID:       id,
			StudentID:         "stu-leader",
			ParticipationType: model.ParticipationLeader,
			FullName:          "王五",
			Email:             "wangwu@example.com",
			GroupName:         "王五的小组",
			GroupCode:         &code,
			GroupMaxParticipants: 4,
			MemberCount:       1,
			PrototypePrice:    5000,
			Status:            model.SubmissionPending,
		},
		{
			ChallengeID:       id,
			StudentID:         "stu-2",
			ParticipationType: model.ParticipationJoinGroup,
			FullName:          "赵六",
			Email:             "zhaoliu@example.com",
			Status:            model.SubmissionPending,
		},
	}
	for i := range rows {
		require.NoError(t, database.DB.Create(&rows[i]).Error)
	}

	// 导出返回的是二进制附件，不走统一 JSON 响应体
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/test", nil)
	c.Params = idParam(id)
	c.Set("payload", claims("biz-1", model.RoleBusiness))

	ExportParticipants(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, tools.ExcelContentType, w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	require.NotZero(t, w.Body.Len())
}
