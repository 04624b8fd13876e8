package registration

import (
	"innovation-challenge-system/internal/global/database"
	"innovation-challenge-system/internal/global/jwt"
	"innovation-challenge-system/internal/global/response"
	"innovation-challenge-system/internal/model"
	"innovation-challenge-system/test"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func studentClaims(userID string) *jwt.Claims {
	return &jwt.Claims{Payload: jwt.Payload{UserID: userID, RoleID: model.RoleStudent}}
}

func challengeParam(id uint) gin.Params {
	return gin.Params{{Key: "challenge_id", Value: strconv.FormatUint(uint64(id), 10)}}
}

func TestRegisterHandler(t *testing.T) {
	challenge := setupEngineTest(t)

	resp := test.DoRequest(t, RegisterHandler, test.Request{
		Body: gin.H{
			"participation_type":      model.ParticipationLeader,
			"full_name":               "王五",
			"email":                   "wangwu@example.com",
			"phone_number":            "13800000000",
			"prototype_price":         5000,
			"estimated_delivery_days": 30,
			"group_name":              "王五的小组",
			"group_max_participants":  4,
		},
		Params: challengeParam(challenge.ID),
		Claims: studentClaims("stu-leader"),
	})
	test.NoError(t, resp)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	code, _ := data["group_code"].(string)
	require.Len(t, code, codeLength)

	// 同一学生重复报名
	resp = test.DoRequest(t, RegisterHandler, test.Request{
		Body: gin.H{
			"participation_type":      model.ParticipationIndividual,
			"full_name":               "王五",
			"email":                   "wangwu@example.com",
			"phone_number":            "13800000000",
			"prototype_price":         5000,
			"estimated_delivery_days": 30,
		},
		Params: challengeParam(challenge.ID),
		Claims: studentClaims("stu-leader"),
	})
	test.ErrorEqual(t, response.ErrAlreadyRegistered, resp)
}

func TestRegisterHandlerBadRequest(t *testing.T) {
	challenge := setupEngineTest(t)

	// 缺少必填字段，binding 拦截
	resp := test.DoRequest(t, RegisterHandler, test.Request{
		Body:   gin.H{"participation_type": model.ParticipationIndividual},
		Params: challengeParam(challenge.ID),
		Claims: studentClaims("stu-1"),
	})
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)

	// 路径参数不合法
	resp = test.DoRequest(t, RegisterHandler, test.Request{
		Params: gin.Params{{Key: "challenge_id", Value: "abc"}},
		Claims: studentClaims("stu-1"),
	})
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
}

func TestVerifyHandler(t *testing.T) {
	challenge := setupEngineTest(t)

	result, errResp := Register(challenge.ID, "stu-leader", leaderReq("王五", 4))
	require.Nil(t, errResp)

	resp := test.DoRequest(t, VerifyHandler, test.Request{
		Params: challengeParam(challenge.ID),
		Query:  "code=" + result.GroupCode,
	})
	test.NoError(t, resp)
	data := resp.Data.(map[string]any)
	require.Equal(t, true, data["found"])
	group := data["group"].(map[string]any)
	require.Equal(t, "王五的小组", group["group_name"])
	require.EqualValues(t, 1, group["current_members"])

	// 未命中返回 found=false 而不是错误
	resp = test.DoRequest(t, VerifyHandler, test.Request{
		Params: challengeParam(challenge.ID),
		Query:  "code=ZZZZ9999",
	})
	test.NoError(t, resp)
	data = resp.Data.(map[string]any)
	require.Equal(t, false, data["found"])

	// 缺少 code 参数
	resp = test.DoRequest(t, VerifyHandler, test.Request{
		Params: challengeParam(challenge.ID),
	})
	test.ErrorEqual(t, response.ErrInvalidRequest, resp)
}

func TestLeaveHandler(t *testing.T) {
	challenge := setupEngineTest(t)

	_, errResp := Register(challenge.ID, "stu-1", individualReq("张三"))
	require.Nil(t, errResp)

	resp := test.DoRequest(t, LeaveHandler, test.Request{
		Params: challengeParam(challenge.ID),
		Claims: studentClaims("stu-1"),
	})
	test.NoError(t, resp)

	resp = test.DoRequest(t, LeaveHandler, test.Request{
		Params: challengeParam(challenge.ID),
		Claims: studentClaims("stu-1"),
	})
	test.ErrorEqual(t, response.ErrNotRegistered, resp)
}

func TestTransferHandler(t *testing.T) {
	challenge := setupEngineTest(t)

	result, errResp := Register(challenge.ID, "stu-leader", leaderReq("王五", 4))
	require.Nil(t, errResp)
	_, errResp = Register(challenge.ID, "stu-2", joinReq("赵六", result.GroupCode))
	require.Nil(t, errResp)

	resp := test.DoRequest(t, TransferHandler, test.Request{
		Body:   gin.H{"new_leader_student_id": "stu-2"},
		Params: challengeParam(challenge.ID),
		Claims: studentClaims("stu-leader"),
	})
	test.NoError(t, resp)

	var promoted model.ChallengeParticipant
	require.NoError(t, database.DB.
		Where("challenge_id = ? AND student_id = ?", challenge.ID, "stu-2").
		First(&promoted).Error)
	require.Equal(t, model.ParticipationLeader, promoted.ParticipationType)
}

func TestMineHandler(t *testing.T) {
	challenge := setupEngineTest(t)

	result, errResp := Register(challenge.ID, "stu-leader", leaderReq("王五", 4))
	require.Nil(t, errResp)
	_, errResp = Register(challenge.ID, "stu-2", joinReq("赵六", result.GroupCode))
	require.Nil(t, errResp)

	// 队长视角：报名 + 名册
	resp := test.DoRequest(t, MineHandler, test.Request{
		Params: challengeParam(challenge.ID),
		Claims: studentClaims("stu-leader"),
	})
	test.NoError(t, resp)
	data := resp.Data.(map[string]any)
	require.Contains(t, data, "registration")
	group := data["group"].(map[string]any)
	require.EqualValues(t, 2, group["current_members"])
	members := group["members"].([]any)
	require.Len(t, members, 1)

	// 组员视角也能看到名册
	resp = test.DoRequest(t, MineHandler, test.Request{
		Params: challengeParam(challenge.ID),
		Claims: studentClaims("stu-2"),
	})
	test.NoError(t, resp)
	data = resp.Data.(map[string]any)
	require.Contains(t, data, "group")

	// 未报名
	resp = test.DoRequest(t, MineHandler, test.Request{
		Params: challengeParam(challenge.ID),
		Claims: studentClaims("stu-9"),
	})
	test.ErrorEqual(t, response.ErrNotRegistered, resp)
}
