package challenge

import (
	"innovation-challenge-system/internal/global/database"
	"innovation-challenge-system/internal/global/jwt"
	"innovation-challenge-system/internal/global/response"
	"innovation-challenge-system/internal/model"
	"innovation-challenge-system/test"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func setupChallengeTest(t *testing.T) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	test.SetupDB(t)
	(&ModuleChallenge{}).Init()
}

func claims(userID string, roleID int) *jwt.Claims {
	return &jwt.Claims{Payload: jwt.Payload{UserID: userID, RoleID: roleID}}
}

func idParam(id uint) gin.Params {
	return gin.Params{{Key: "id", Value: strconv.FormatUint(uint64(id), 10)}}
}

func createBody(name string) gin.H {
	return gin.H{
		"name":         name,
		"category":     "物流",
		"company_name": "示例科技",
		"description":  "为仓储分拣设计一个低成本原型",
		"start_date":   time.Now().Add(-time.Hour).Unix(),
		"end_date":     time.Now().Add(24 * time.Hour).Unix(),
		"reward_terms": "一等奖 5000 元",
	}
}

// createChallenge 经由 handler 创建并返回挑战 ID
func createChallenge(t *testing.T, body gin.H) uint {
	t.Helper()
	resp := test.DoRequest(t, CreateChallenge, test.Request{
		Body:   body,
		Claims: claims("biz-1", model.RoleBusiness),
	})
	test.NoError(t, resp)
	data := resp.Data.(map[string]any)
	return uint(data["challenge_id"].(float64))
}

func TestCreateChallenge(t *testing.T) {
	setupChallengeTest(t)

	body := createBody("智慧物流原型挑战")
	body["questions"] = []gin.H{
		{"label": "项目经验", "type": model.QuestionTextarea, "required": true, "sort": 1},
		{"label": "年级", "type": model.QuestionSelect, "options": []string{"大一", "大二"}, "sort": 2},
	}
	id := createChallenge(t, body)

	var challenge model.Challenge
	require.NoError(t, database.DB.First(&challenge, "id = ?", id).Error)
	require.Equal(t, model.PublicationDraft, challenge.PublicationStatus)
	require.Equal(t, "biz-1", challenge.OwnerID)

	var questions []model.ChallengeQuestion
	require.NoError(t, database.DB.Where("challenge_id = ?", id).Find(&questions).Error)
	require.Len(t, questions, 2)

	// 同名同期重复创建
	resp := test.DoRequest(t, CreateChallenge, test.Request{
		Body:   body,
		Claims: claims("biz-1", model.RoleBusiness),
	})
	test.ErrorEqual(t, response.ErrAlreadyExists, resp)
}

func TestCreateChallengeInvalidQuestions(t *testing.T) {
	setupChallengeTest(t)

	cases := []gin.H{
		{"label": "年级", "type": model.QuestionSelect, "options": []string{"大一"}}, // 选项不足
		{"label": "备注", "type": model.QuestionText, "options": []string{"a", "b"}}, // 文本类带选项
		{"label": "奇怪", "type": "slider"}, // 未知类型
	}
	for _, q := range cases {
		body := createBody("问卷校验")
		body["questions"] = []gin.H{q}
		resp := test.DoRequest(t, CreateChallenge, test.Request{
			Body:   body,
			Claims: claims("biz-1", model.RoleBusiness),
		})
		test.ErrorEqual(t, response.ErrInvalidRequest, resp)
	}
}

func TestCreateChallengeBadDates(t *testing.T) {
	setupChallengeTest(t)

	body := createBody("时间穿越")
	body["start_date"] = time.Now().Unix()
	body["end_date"] = time.Now().Add(-time.Hour).Unix()
	resp := test.DoRequest(t, CreateChallenge, test.Request{
		Body:   body,
		Claims: claims("biz-1", model.RoleBusiness),
	})
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
}

func TestListChallengesVisibility(t *testing.T) {
	setupChallengeTest(t)

	id := createChallenge(t, createBody("草稿挑战"))

	// 学生看不到草稿
	resp := test.DoRequest(t, ListChallenges, test.Request{
		Claims: claims("stu-1", model.RoleStudent),
	})
	test.NoError(t, resp)
	data := resp.Data.(map[string]any)
	require.EqualValues(t, 0, data["total"])

	// 企业能看到草稿
	resp = test.DoRequest(t, ListChallenges, test.Request{
		Claims: claims("biz-1", model.RoleBusiness),
	})
	test.NoError(t, resp)
	data = resp.Data.(map[string]any)
	require.EqualValues(t, 1, data["total"])

	// 发布后学生可见
	test.NoError(t, test.DoRequest(t, PublishChallenge, test.Request{
		Params: idParam(id),
		Claims: claims("admin", model.RoleAdmin),
	}))
	resp = test.DoRequest(t, ListChallenges, test.Request{
		Claims: claims("stu-1", model.RoleStudent),
	})
	test.NoError(t, resp)
	data = resp.Data.(map[string]any)
	require.EqualValues(t, 1, data["total"])
}

func TestListChallengesFilters(t *testing.T) {
	setupChallengeTest(t)

	first := createBody("物流原型")
	createChallenge(t, first)
	second := createBody("医疗影像标注")
	second["category"] = "医疗"
	createChallenge(t, second)

	resp := test.DoRequest(t, ListChallenges, test.Request{
		Query:  "category=医疗",
		Claims: claims("biz-1", model.RoleBusiness),
	})
	test.NoError(t, resp)
	data := resp.Data.(map[string]any)
	require.EqualValues(t, 1, data["total"])

	resp = test.DoRequest(t, ListChallenges, test.Request{
		Query:  "name=物流",
		Claims: claims("biz-1", model.RoleBusiness),
	})
	test.NoError(t, resp)
	data = resp.Data.(map[string]any)
	require.EqualValues(t, 1, data["total"])
}

func TestGetChallenge(t *testing.T) {
	setupChallengeTest(t)

	body := createBody("带问卷的挑战")
	body["questions"] = []gin.H{
		{"label": "项目经验", "type": model.QuestionTextarea, "required": true, "sort": 2},
		{"label": "年级", "type": model.QuestionSelect, "options": []string{"大一", "大二"}, "sort": 1},
	}
	id := createChallenge(t, body)

	resp := test.DoRequest(t, GetChallenge, test.Request{Params: idParam(id)})
	test.NoError(t, resp)
	data := resp.Data.(map[string]any)
	require.EqualValues(t, 0, data["participant_count"])
	questions := data["questions"].([]any)
	require.Len(t, questions, 2)
	// 按 sort 升序返回
	first := questions[0].(map[string]any)
	require.Equal(t, "年级", first["label"])

	resp = test.DoRequest(t, GetChallenge, test.Request{
		Params: gin.Params{{Key: "id", Value: "99999"}},
	})
	test.ErrorEqual(t, response.ErrNotFound, resp)
}

func TestUpdateChallengePermissions(t *testing.T) {
	setupChallengeTest(t)

	id := createChallenge(t, createBody("待修改"))

	// 非发布者不可修改
	resp := test.DoRequest(t, UpdateChallenge, test.Request{
		Body:   gin.H{"name": "篡改"},
		Params: idParam(id),
		Claims: claims("biz-2", model.RoleBusiness),
	})
	test.ErrorEqual(t, response.ErrForbidden, resp)

	// 发布者本人可修改
	resp = test.DoRequest(t, UpdateChallenge, test.Request{
		Body:   gin.H{"name": "改名后的挑战"},
		Params: idParam(id),
		Claims: claims("biz-1", model.RoleBusiness),
	})
	test.NoError(t, resp)

	// 管理员也可修改
	resp = test.DoRequest(t, UpdateChallenge, test.Request{
		Body:   gin.H{"description": "管理员补充说明"},
		Params: idParam(id),
		Claims: claims("admin", model.RoleAdmin),
	})
	test.NoError(t, resp)

	var challenge model.Challenge
	require.NoError(t, database.DB.First(&challenge, "id = ?", id).Error)
	require.Equal(t, "改名后的挑战", challenge.Name)
}

func TestUpdateChallengeLockedAfterRegistration(t *testing.T) {
	setupChallengeTest(t)

	id := createChallenge(t, createBody("已有报名"))
	participant := model.ChallengeParticipant{
		ChallengeID:       id,
		StudentID:         "stu-1",
		ParticipationType: model.ParticipationIndividual,
		FullName:          "张三",
		Email:             "zhangsan@example.com",
		Status:            model.SubmissionPending,
	}
	require.NoError(t, database.DB.Create(&participant).Error)

	// 有报名后类别与起止时间冻结
	resp := test.DoRequest(t, UpdateChallenge, test.Request{
		Body:   gin.H{"category": "医疗"},
		Params: idParam(id),
		Claims: claims("biz-1", model.RoleBusiness),
	})
	test.ErrorEqual(t, response.ErrForbidden, resp)

	// 名称等其他字段仍可修改
	resp = test.DoRequest(t, UpdateChallenge, test.Request{
		Body:   gin.H{"name": "换个名字"},
		Params: idParam(id),
		Claims: claims("biz-1", model.RoleBusiness),
	})
	test.NoError(t, resp)
}

func TestDeleteChallenge(t *testing.T) {
	setupChallengeTest(t)

	id := createChallenge(t, createBody("待删除"))

	resp := test.DoRequest(t, DeleteChallenge, test.Request{
		Params: idParam(id),
		Claims: claims("biz-1", model.RoleBusiness),
	})
	test.NoError(t, resp)

	resp = test.DoRequest(t, GetChallenge, test.Request{Params: idParam(id)})
	test.ErrorEqual(t, response.ErrNotFound, resp)
}

func TestDeleteChallengeBlockedByRegistrations(t *testing.T) {
	setupChallengeTest(t)

	id := createChallenge(t, createBody("有人报名"))
	participant := model.ChallengeParticipant{
		ChallengeID:       id,
		StudentID:         "stu-1",
		ParticipationType: model.ParticipationIndividual,
		FullName:          "张三",
		Email:             "zhangsan@example.com",
		Status:            model.SubmissionPending,
	}
	require.NoError(t, database.DB.Create(&participant).Error)

	resp := test.DoRequest(t, DeleteChallenge, test.Request{
		Params: idParam(id),
		Claims: claims("biz-1", model.RoleBusiness),
	})
	test.ErrorEqual(t, response.ErrForbidden, resp)
}

func TestPublishChallenge(t *testing.T) {
	setupChallengeTest(t)

	id := createChallenge(t, createBody("待发布"))

	resp := test.DoRequest(t, PublishChallenge, test.Request{
		Params: idParam(id),
		Claims: claims("admin", model.RoleAdmin),
	})
	test.NoError(t, resp)

	var challenge model.Challenge
	require.NoError(t, database.DB.First(&challenge, "id = ?", id).Error)
	require.Equal(t, model.PublicationPublished, challenge.PublicationStatus)

	// 重复发布
	resp = test.DoRequest(t, PublishChallenge, test.Request{
		Params: idParam(id),
		Claims: claims("admin", model.RoleAdmin),
	})
	test.ErrorEqual(t, response.ErrAlreadyExists, resp)
}

func TestSetActivityStatus(t *testing.T) {
	setupChallengeTest(t)

	id := createChallenge(t, createBody("状态切换"))

	resp := test.DoRequest(t, SetActivityStatus, test.Request{
		Body:   gin.H{"activity_status": model.ActivityCompleted},
		Params: idParam(id),
		Claims: claims("admin", model.RoleAdmin),
	})
	test.NoError(t, resp)

	var challenge model.Challenge
	require.NoError(t, database.DB.First(&challenge, "id = ?", id).Error)
	require.Equal(t, model.ActivityCompleted, challenge.ActivityStatus)

	resp = test.DoRequest(t, SetActivityStatus, test.Request{
		Body:   gin.H{"activity_status": "paused"},
		Params: idParam(id),
		Claims: claims("admin", model.RoleAdmin),
	})
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
}
